// Package components defines the entity data shared by the simulation
// systems: actors, projectiles, explosions and pick-ups.
package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/camera"
	"github.com/pthm-cable/timeruns/geom"
)

// Side decides who a projectile may damage.
type Side uint8

const (
	SideFriend Side = iota // the player
	SideFoe                // monsters
)

func (s Side) String() string {
	if s == SideFriend {
		return "friend"
	}
	return "foe"
}

// Opposes reports whether s and o are on different sides.
func (s Side) Opposes(o Side) bool {
	return s != o
}

// Actor is the player or a monster. Collision treats it as a circle.
type Actor struct {
	World  r2.Vec
	Screen r2.Vec

	CollideRadius float64
	Health        float64
	MaxHealth     float64
	Facing        float64 // degrees, 0 = north
	Heading       r2.Vec  // unit vector or zero
	Side          Side

	ShouldDie bool
	Flash     float64 // seconds of damage feedback left
}

// NewActor creates an actor at full health.
func NewActor(world r2.Vec, radius, health float64, side Side) Actor {
	return Actor{
		World:         world,
		CollideRadius: radius,
		Health:        health,
		MaxHealth:     health,
		Heading:       r2.Vec{Y: -1},
		Side:          side,
	}
}

// UpdateScreen derives the screen position from the viewport offset.
func (a *Actor) UpdateScreen(vp *camera.Viewport) {
	a.Screen = vp.WorldToScreen(a.World)
}

// SetHeading stores a unit heading and the matching facing angle. A zero
// vector keeps both unchanged.
func (a *Actor) SetHeading(h r2.Vec) {
	u, ok := geom.Normalize(h)
	if !ok {
		return
	}
	a.Heading = u
	a.Facing, _ = geom.FacingAngle(u)
}

// TakeDamage lowers health, clamped at zero, and starts the damage flash.
// ShouldDie is raised exactly once, when health first reaches zero.
func (a *Actor) TakeDamage(amount, flash float64) {
	if a.ShouldDie || amount <= 0 {
		return
	}
	a.Health = math.Max(0, a.Health-amount)
	a.Flash = flash
	if a.Health == 0 {
		a.ShouldDie = true
	}
}

// AddHealth heals up to MaxHealth. Returns the amount applied.
func (a *Actor) AddHealth(amount float64) float64 {
	before := a.Health
	a.Health = math.Min(a.MaxHealth, a.Health+amount)
	return a.Health - before
}

// Tick ages the damage flash.
func (a *Actor) Tick(dt float64) {
	if a.Flash > 0 {
		a.Flash = math.Max(0, a.Flash-dt)
	}
}

// TestProjectileHit reports whether any corner of a world-space projectile
// box lies inside the actor's collide circle.
func (a *Actor) TestProjectileHit(box r2.Box) bool {
	for _, c := range geom.BoxCorners(box) {
		if geom.PointInCircle(c, a.World, a.CollideRadius) {
			return true
		}
	}
	return false
}

// TestExplosion applies an armed explosion's damage if its test says the
// actor is caught. Returns true when damage was taken.
func (a *Actor) TestExplosion(e *Explosion, flash float64) bool {
	if a.ShouldDie || !e.Armed || !e.Collides(a.World, a.CollideRadius) {
		return false
	}
	a.TakeDamage(e.Damage, flash)
	return true
}

// Bounds returns the world-space bounding box of the collide circle.
func (a *Actor) Bounds() r2.Box {
	return geom.CircleBounds(a.World, a.CollideRadius)
}
