package systems

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/camera"
	"github.com/pthm-cable/timeruns/components"
	"github.com/pthm-cable/timeruns/geom"
	"github.com/pthm-cable/timeruns/level"
)

// ShotSpec configures the bullets monsters fire.
type ShotSpec struct {
	Speed float64
	Range float64
	Size  float64
}

// MonsterReport summarises one monster update.
type MonsterReport struct {
	Shots         []components.Projectile
	DamageTaken   float64
	Resolves      int // monsters that moved through the Resolver
	Iterations    int // collision passes across all monsters
	MaxIterations int
	CapHits       int
}

// MonsterSystem runs the monster AI: wander until the player is in sight,
// then chase and fire. Movement goes through the Resolver.
type MonsterSystem struct {
	Resolver   *Resolver
	Shot       ShotSpec
	WanderTurn float64 // seconds between idle heading changes
	Flash      float64
	LoseSight  float64 // chase is dropped beyond SightRange * LoseSight
	HoldRadius float64 // chasers stop this far from the player's edge

	// Planner routes chasers around walls. Nil chases in a straight line.
	Planner *AStarPlanner
	Replan  float64 // seconds before a path is recomputed

	rng *rand.Rand
}

// NewMonsterSystem creates the AI system.
func NewMonsterSystem(res *Resolver, shot ShotSpec, wanderTurn, flash float64, rng *rand.Rand) *MonsterSystem {
	return &MonsterSystem{
		Resolver:   res,
		Shot:       shot,
		WanderTurn: wanderTurn,
		Flash:      flash,
		LoseSight:  1.5,
		HoldRadius: 48,
		Replan:     0.5,
		rng:        rng,
	}
}

// Update advances every live monster by dt, which the caller has already
// scaled by the time multiplier. Monsters outside the tile window are inert,
// since only the window's tiles are collided against. Armed explosions are
// tested first so a monster killed by one does not act this tick.
func (s *MonsterSystem) Update(vp *camera.Viewport, dt float64, monsters []*components.Monster,
	player *components.Actor, explosions []components.Explosion,
	tiles []*level.Tile, actors []*components.Actor) MonsterReport {
	var rep MonsterReport
	bounds := vp.Bounds()
	for _, m := range monsters {
		if m.ShouldDie {
			continue
		}
		if !vp.InWindow(m.World) {
			m.UpdateScreen(vp)
			continue
		}
		m.Tick(dt)
		rep.DamageTaken += ApplyExplosions(&m.Actor, explosions, s.Flash)
		if m.ShouldDie {
			continue
		}

		speed := s.think(m, player, dt, &rep)
		if speed > 0 {
			prospective := geom.ClampCircle(r2.Add(m.World, r2.Scale(speed*dt, m.Heading)), m.CollideRadius, bounds)
			res := s.Resolver.Resolve(vp, &m.Actor, prospective, tiles, actors)
			m.World = res.Position
			rep.Resolves++
			rep.Iterations += res.Iterations
			rep.MaxIterations = max(rep.MaxIterations, res.Iterations)
			if res.Capped {
				rep.CapHits++
			}
			if res.Collided && !m.Chasing {
				m.WanderTimer = 0
			}
		}
		m.UpdateScreen(vp)
	}
	return rep
}

// think updates the monster's heading and chase state, fires when able and
// returns the speed to move at this tick.
func (s *MonsterSystem) think(m *components.Monster, player *components.Actor, dt float64, rep *MonsterReport) float64 {
	m.FireCooldown = math.Max(0, m.FireCooldown-dt)

	var toPlayer r2.Vec
	dist := math.Inf(1)
	if player != nil && !player.ShouldDie {
		toPlayer = r2.Sub(player.World, m.World)
		dist = r2.Norm(toPlayer)
	}

	switch {
	case dist <= m.SightRange:
		m.Chasing = true
	case dist > m.SightRange*s.LoseSight:
		m.Chasing = false
	}

	if !m.Chasing {
		m.WanderTimer -= dt
		if m.WanderTimer <= 0 {
			a := s.rng.Float64() * 2 * math.Pi
			m.SetHeading(r2.Vec{X: math.Cos(a), Y: math.Sin(a)})
			m.WanderTimer = s.WanderTurn
		}
		return m.IdleSpeed
	}

	if !s.steer(m, player.World, toPlayer, dt) {
		return m.AttackSpeed
	}
	if dist <= m.FireRange && m.FireCooldown == 0 {
		muzzle := r2.Add(m.World, r2.Scale(m.CollideRadius+s.Shot.Size, m.Heading))
		rep.Shots = append(rep.Shots, components.NewBullet(
			muzzle, m.Heading, s.Shot.Speed, s.Shot.Range, m.BulletDamage, s.Shot.Size, components.SideFoe))
		m.FireCooldown = m.FireRate
	}
	if dist <= player.CollideRadius+m.CollideRadius+s.HoldRadius {
		return 0
	}
	return m.AttackSpeed
}

// steer points a chaser at the player. With a planner, a chaser that cannot
// see the player follows an A* path instead and reports false so it holds
// fire.
func (s *MonsterSystem) steer(m *components.Monster, target, toPlayer r2.Vec, dt float64) bool {
	if s.Planner == nil || s.Planner.HasLineOfSight(m.World, target) {
		m.ClearPath()
		m.SetHeading(toPlayer)
		return true
	}

	m.PathAge += dt
	cell := s.Planner.Grid().cellSize
	if m.Path == nil || m.PathAge >= s.Replan || r2.Norm(r2.Sub(target, m.PathGoal)) > cell {
		m.Path = s.Planner.FindPath(m.World, target)
		if m.Path == nil {
			m.Path = []r2.Vec{}
		}
		m.PathIndex = 1
		m.PathGoal = target
		m.PathAge = 0
	}
	// Skip waypoints already reached.
	for m.PathIndex < len(m.Path) && r2.Norm(r2.Sub(m.Path[m.PathIndex], m.World)) < cell*0.25 {
		m.PathIndex++
	}
	if m.PathIndex >= len(m.Path) {
		m.SetHeading(toPlayer)
		return false
	}
	m.SetHeading(r2.Sub(m.Path[m.PathIndex], m.World))
	return false
}
