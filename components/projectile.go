package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/geom"
)

// ProjectileKind selects flight and impact behaviour.
type ProjectileKind uint8

const (
	KindBullet  ProjectileKind = iota // damages the first target hit
	KindMissile                       // homes, explodes on death
)

func (k ProjectileKind) String() string {
	switch k {
	case KindBullet:
		return "bullet"
	case KindMissile:
		return "missile"
	default:
		return "unknown"
	}
}

// Homing holds the seek state of a missile.
type Homing struct {
	Delay   float64 // seconds before seeking starts
	Elapsed float64
	Radius  float64
}

// Active reports whether the acquisition delay has passed.
func (h *Homing) Active() bool {
	return h.Elapsed >= h.Delay
}

// Projectile is a bullet or missile. Range is a distance budget, not a
// lifetime: it is reduced by the distance flown each tick.
type Projectile struct {
	Kind    ProjectileKind
	World   r2.Vec
	Screen  r2.Vec
	Heading r2.Vec // unit
	Speed   float64
	Range   float64
	Damage  float64
	Size    float64 // edge of the square hit box
	Side    Side
	Facing  float64

	Homing *Homing // nil for bullets

	ShouldDie bool
}

// NewBullet creates a bullet flying along heading. A zero heading yields a
// projectile that dies on its first update.
func NewBullet(world, heading r2.Vec, speed, rng, damage, size float64, side Side) Projectile {
	p := Projectile{
		Kind:   KindBullet,
		World:  world,
		Speed:  speed,
		Range:  rng,
		Damage: damage,
		Size:   size,
		Side:   side,
	}
	p.setHeading(heading)
	return p
}

// NewMissile creates a homing missile.
func NewMissile(world, heading r2.Vec, speed, rng, damage, size, delay, seek float64, side Side) Projectile {
	p := NewBullet(world, heading, speed, rng, damage, size, side)
	p.Kind = KindMissile
	p.Homing = &Homing{Delay: delay, Radius: seek}
	return p
}

func (p *Projectile) setHeading(h r2.Vec) {
	u, ok := geom.Normalize(h)
	if !ok {
		p.Heading = r2.Vec{}
		return
	}
	p.Heading = u
	p.Facing, _ = geom.FacingAngle(u)
}

// SetHeading re-aims the projectile; a zero vector is ignored.
func (p *Projectile) SetHeading(h r2.Vec) {
	if _, ok := geom.Normalize(h); ok {
		p.setHeading(h)
	}
}

// WorldBox returns the square hit box centred on the world position.
func (p *Projectile) WorldBox() r2.Box {
	return geom.BoxAt(p.World, r2.Vec{X: p.Size, Y: p.Size})
}

// ScreenBox returns the square hit box centred on the screen position.
func (p *Projectile) ScreenBox() r2.Box {
	return geom.BoxAt(p.Screen, r2.Vec{X: p.Size, Y: p.Size})
}
