package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/components"
	"github.com/pthm-cable/timeruns/geom"
)

// PickUpSystem owns the pick-ups dropped by monsters. They live in an ECS
// world since, unlike actors and projectiles, their order never matters.
type PickUpSystem struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.PickUp]
	filter *ecs.Filter2[components.Position, components.PickUp]

	toRemove []ecs.Entity
	count    int
}

// NewPickUpSystem creates the system on w.
func NewPickUpSystem(w *ecs.World) *PickUpSystem {
	return &PickUpSystem{
		world:  w,
		mapper: ecs.NewMap2[components.Position, components.PickUp](w),
		filter: ecs.NewFilter2[components.Position, components.PickUp](w),
	}
}

// Spawn drops a pick-up at a world position.
func (s *PickUpSystem) Spawn(at r2.Vec, kind components.PickUpKind, amount, size float64) ecs.Entity {
	pos := components.Position{X: at.X, Y: at.Y}
	p := components.PickUp{Kind: kind, Amount: amount, Size: size}
	s.count++
	return s.mapper.NewEntity(&pos, &p)
}

// Update collects every pick-up with a box corner inside the player's
// collide circle. apply is called once per collected pick-up; the entities
// are removed after the query completes.
func (s *PickUpSystem) Update(player *components.Actor, apply func(components.PickUp)) int {
	if player == nil || player.ShouldDie {
		return 0
	}

	// First pass: collect (the world cannot change during a query)
	s.toRemove = s.toRemove[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, p := query.Get()
		if p.Collected {
			continue
		}
		for _, c := range geom.BoxCorners(p.Box(*pos)) {
			if geom.PointInCircle(c, player.World, player.CollideRadius) {
				p.Collected = true
				apply(*p)
				s.toRemove = append(s.toRemove, query.Entity())
				break
			}
		}
	}

	// Second pass: remove
	for _, e := range s.toRemove {
		s.world.RemoveEntity(e)
	}
	s.count -= len(s.toRemove)
	return len(s.toRemove)
}

// Each calls fn for every pick-up, for drawing.
func (s *PickUpSystem) Each(fn func(pos components.Position, p components.PickUp)) {
	query := s.filter.Query()
	for query.Next() {
		pos, p := query.Get()
		fn(*pos, *p)
	}
}

// Count returns the number of live pick-ups.
func (s *PickUpSystem) Count() int {
	return s.count
}

// Clear removes every pick-up.
func (s *PickUpSystem) Clear() {
	s.toRemove = s.toRemove[:0]
	query := s.filter.Query()
	for query.Next() {
		s.toRemove = append(s.toRemove, query.Entity())
	}
	for _, e := range s.toRemove {
		s.world.RemoveEntity(e)
	}
	s.count = 0
}
