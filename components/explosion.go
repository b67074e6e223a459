package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/geom"
)

// DamageType records what produced a damage payload.
type DamageType uint8

const (
	DamageBullet DamageType = iota
	DamageMissile
)

func (d DamageType) String() string {
	if d == DamageMissile {
		return "missile"
	}
	return "bullet"
}

// Explosion is an area-of-effect circle. It never applies damage itself:
// targets call Collides and decide.
type Explosion struct {
	World      r2.Vec
	Screen     r2.Vec
	Radius     float64
	Lifetime   float64
	Remaining  float64
	Damage     float64
	DamageType DamageType
	Frames     int

	// Armed explosions are tested by actors on the tick after they spawn,
	// then disarmed, so each explosion damages a target at most once.
	Armed     bool
	ShouldDie bool
}

// NewExplosion creates an armed explosion.
func NewExplosion(world r2.Vec, radius, lifetime, damage float64, kind DamageType, frames int) Explosion {
	return Explosion{
		World:      world,
		Radius:     radius,
		Lifetime:   lifetime,
		Remaining:  lifetime,
		Damage:     damage,
		DamageType: kind,
		Frames:     frames,
		Armed:      true,
	}
}

// Collides reports whether a target circle is caught: it either crosses the
// explosion's edge or lies fully inside it.
func (e *Explosion) Collides(centre r2.Vec, radius float64) bool {
	return geom.CirclesOverlap(e.World, e.Radius, centre, radius) ||
		geom.CircleContains(e.World, e.Radius, centre, radius)
}

// Frame returns the animation frame for the elapsed fraction of the lifetime.
func (e *Explosion) Frame() int {
	if e.Frames <= 0 || e.Lifetime <= 0 {
		return 0
	}
	f := int((e.Lifetime - e.Remaining) / e.Lifetime * float64(e.Frames))
	return min(max(f, 0), e.Frames-1)
}
