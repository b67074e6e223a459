package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/components"
	"github.com/pthm-cable/timeruns/config"
)

// Player is the actor under input control. Its own dt is never scaled by
// the time multiplier.
type Player struct {
	components.Actor

	Speed   float64 // along the heading, negative when reversing
	Strafe  float64 // across the heading, positive to the right
	Crystal float64 // seconds of time crystal left
	Active  WeaponKind

	weapons [3]Weapon
}

// NewPlayer creates a player at full health holding the rifle.
func NewPlayer(at r2.Vec, cfg *config.Config) Player {
	return Player{
		Actor:  components.NewActor(at, cfg.Player.CollideRadius, cfg.Player.Health, components.SideFriend),
		Active: WeaponRifle,
		weapons: [3]Weapon{
			newWeapon(WeaponRifle, cfg.Weapons.Rifle),
			newWeapon(WeaponShotgun, cfg.Weapons.Shotgun),
			newWeapon(WeaponLauncher, cfg.Weapons.Launcher),
		},
	}
}

// Weapon returns the weapon of the given kind; WeaponNone returns the
// active one.
func (p *Player) Weapon(k WeaponKind) *Weapon {
	if k == WeaponNone {
		k = p.Active
	}
	return &p.weapons[k-1]
}

// Select switches weapons. WeaponNone keeps the current one.
func (p *Player) Select(k WeaponKind) {
	if k >= WeaponRifle && k <= WeaponLauncher {
		p.Active = k
	}
}

// AddAmmo tops up every weapon with finite ammo.
func (p *Player) AddAmmo(n int) {
	for i := range p.weapons {
		p.weapons[i].AddAmmo(n)
	}
}

// Tick ages the flash, the crystal and the weapon cooldowns.
func (p *Player) Tick(dt float64) {
	p.Actor.Tick(dt)
	if p.Crystal > 0 {
		p.Crystal = math.Max(0, p.Crystal-dt)
	}
	for i := range p.weapons {
		p.weapons[i].Tick(dt)
	}
}

// Drive applies one tick of movement input to the speeds.
func (p *Player) Drive(in Input, dt float64, pc config.PlayerConfig) {
	switch {
	case in.Forward && !in.Back:
		p.Speed = approach(p.Speed, pc.MaxSpeed, pc.Acceleration*dt)
	case in.Back && !in.Forward:
		p.Speed = approach(p.Speed, -pc.ReverseSpeed, pc.Acceleration*dt)
	default:
		p.Speed = approach(p.Speed, 0, pc.Deceleration*dt)
	}

	switch {
	case in.StrafeRight && !in.StrafeLeft:
		p.Strafe = approach(p.Strafe, pc.StrafeSpeed, pc.Acceleration*dt)
	case in.StrafeLeft && !in.StrafeRight:
		p.Strafe = approach(p.Strafe, -pc.StrafeSpeed, pc.Acceleration*dt)
	default:
		p.Strafe = approach(p.Strafe, 0, pc.Deceleration*dt)
	}
}

// Velocity returns the world velocity from the heading and both speeds.
func (p *Player) Velocity() r2.Vec {
	right := r2.Vec{X: -p.Heading.Y, Y: p.Heading.X}
	return r2.Add(r2.Scale(p.Speed, p.Heading), r2.Scale(p.Strafe, right))
}

// TotalSpeed is the magnitude of the velocity.
func (p *Player) TotalSpeed() float64 {
	return math.Hypot(p.Speed, p.Strafe)
}

// TimeMultiplier returns the rate everything but the player and projectiles
// runs at: time_min standing still up to time_max at full speed. While a
// time crystal is active it stays at time_min.
func (p *Player) TimeMultiplier(pc config.PlayerConfig) float64 {
	if p.Crystal > 0 {
		return pc.TimeMin
	}
	t := 0.0
	if pc.MaxSpeed > 0 {
		t = math.Min(1, math.Abs(p.TotalSpeed())/pc.MaxSpeed)
	}
	return lerp(pc.TimeMin, pc.TimeMax, t)
}
