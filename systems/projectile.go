package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/camera"
	"github.com/pthm-cable/timeruns/components"
	"github.com/pthm-cable/timeruns/level"
)

// ExplosionSpec configures the explosion a dying missile leaves behind.
type ExplosionSpec struct {
	Radius   float64
	Lifetime float64
	Frames   int
}

// ProjectileReport summarises one projectile update.
type ProjectileReport struct {
	BulletHits  int
	MissileHits int
	TileHits    int
	Expired     int
	Explosions  []components.Explosion
}

// ProjectileSystem advances bullets and missiles. Projectile motion ignores
// the time multiplier; callers pass the real frame dt.
type ProjectileSystem struct {
	Explosion ExplosionSpec
	// DamageFlash is the flash duration given to actors hit by a bullet.
	DamageFlash float64

	grid      *SpatialGrid
	neighbors []Neighbor
}

// NewProjectileSystem creates the system. grid is used for homing target
// searches and must hold the current actor positions.
func NewProjectileSystem(spec ExplosionSpec, flash float64, grid *SpatialGrid) *ProjectileSystem {
	return &ProjectileSystem{Explosion: spec, DamageFlash: flash, grid: grid}
}

// Update runs one tick for every live projectile.
//
// Collisions are tested at the position the projectile reached last tick,
// then it moves. A projectile dies when it hits an opposing actor, hits a
// collidable tile of the visible window, or exhausts its range. Bullets
// damage the first opposing actor hit; missiles do no direct damage and
// leave an explosion carrying their damage.
//
// Only ShouldDie is set here; the caller removes dead projectiles.
func (s *ProjectileSystem) Update(vp *camera.Viewport, dt float64, projectiles []components.Projectile,
	tiles []*level.Tile, actors []*components.Actor) ProjectileReport {
	var rep ProjectileReport
	for i := range projectiles {
		p := &projectiles[i]
		if p.ShouldDie {
			continue
		}

		if p.Homing != nil {
			s.steer(p, dt)
		}

		p.Screen = vp.WorldToScreen(p.World)
		s.testActors(p, actors, &rep)
		if !p.ShouldDie && s.testTiles(p, tiles) {
			p.ShouldDie = true
			rep.TileHits++
		}

		s.advance(vp, p, dt, &rep)

		if p.ShouldDie && p.Kind == components.KindMissile {
			rep.Explosions = append(rep.Explosions, components.NewExplosion(
				p.World, s.Explosion.Radius, s.Explosion.Lifetime,
				p.Damage, components.DamageMissile, s.Explosion.Frames,
			))
		}
	}
	return rep
}

// steer re-aims a missile at the nearest opposing actor within its seek
// radius once the acquisition delay has passed. Without a target the
// heading is kept.
func (s *ProjectileSystem) steer(p *components.Projectile, dt float64) {
	h := p.Homing
	h.Elapsed += dt
	if !h.Active() || s.grid == nil {
		return
	}

	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], p.World, h.Radius, nil, 0)
	var target *components.Actor
	best := 0.0
	for _, n := range s.neighbors {
		if n.Actor.ShouldDie || !p.Side.Opposes(n.Actor.Side) {
			continue
		}
		if target == nil || n.DistSq < best {
			target, best = n.Actor, n.DistSq
		}
	}
	if target != nil {
		p.SetHeading(r2.Sub(target.World, p.World))
	}
}

func (s *ProjectileSystem) testActors(p *components.Projectile, actors []*components.Actor, rep *ProjectileReport) {
	box := p.WorldBox()
	for _, a := range actors {
		if a.ShouldDie || !p.Side.Opposes(a.Side) {
			continue
		}
		if !a.TestProjectileHit(box) {
			continue
		}
		p.ShouldDie = true
		if p.Kind == components.KindBullet {
			a.TakeDamage(p.Damage, s.DamageFlash)
			rep.BulletHits++
		} else {
			rep.MissileHits++
		}
		return
	}
}

func (s *ProjectileSystem) testTiles(p *components.Projectile, tiles []*level.Tile) bool {
	box := p.ScreenBox()
	for _, t := range tiles {
		if t != nil && t.TestProjectileHit(box) {
			return true
		}
	}
	return false
}

// advance moves the projectile and spends its range budget. A projectile
// without a heading cannot spend range and dies in place.
func (s *ProjectileSystem) advance(vp *camera.Viewport, p *components.Projectile, dt float64, rep *ProjectileReport) {
	if p.Heading == (r2.Vec{}) {
		p.ShouldDie = true
		return
	}
	step := p.Speed * dt
	p.World = r2.Add(p.World, r2.Scale(step, p.Heading))
	p.Range -= step
	p.Screen = vp.WorldToScreen(p.World)
	if p.Range <= 0 && !p.ShouldDie {
		p.ShouldDie = true
		rep.Expired++
	}
}
