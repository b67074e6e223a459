package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/components"
	"github.com/pthm-cable/timeruns/config"
)

// WeaponKind selects one of the player's weapons.
type WeaponKind uint8

const (
	WeaponNone WeaponKind = iota
	WeaponRifle
	WeaponShotgun
	WeaponLauncher
)

func (k WeaponKind) String() string {
	switch k {
	case WeaponRifle:
		return "rifle"
	case WeaponShotgun:
		return "shotgun"
	case WeaponLauncher:
		return "launcher"
	default:
		return "none"
	}
}

// Weapon is one of the player's guns. Ammo < 0 means infinite.
type Weapon struct {
	Kind     WeaponKind
	Ammo     int
	FireRate float64 // seconds between shots
	Damage   float64
	Cooldown float64
}

func newWeapon(kind WeaponKind, wc config.WeaponConfig) Weapon {
	return Weapon{Kind: kind, Ammo: wc.Ammo, FireRate: wc.FireRate, Damage: wc.Damage}
}

// Tick ages the cooldown.
func (w *Weapon) Tick(dt float64) {
	if w.Cooldown > 0 {
		w.Cooldown -= dt
	}
}

// Ready reports whether the weapon can fire now.
func (w *Weapon) Ready() bool {
	return w.Cooldown <= 0 && w.Ammo != 0
}

// AddAmmo adds rounds to a weapon with finite ammo.
func (w *Weapon) AddAmmo(n int) {
	if w.Ammo >= 0 {
		w.Ammo += n
	}
}

// Fire appends the projectiles of one shot to dst and starts the cooldown.
// pos is the player's world position and aim a unit vector. Barrels exit
// BarrelForward along the aim and BarrelSide across it: the rifle fires from
// the right barrel, the shotgun from both, the launcher from the centre.
func (w *Weapon) Fire(dst []components.Projectile, pos, aim r2.Vec, cfg *config.Config) []components.Projectile {
	if !w.Ready() {
		return dst
	}

	pc := cfg.Projectile
	right := r2.Vec{X: -aim.Y, Y: aim.X}
	muzzle := r2.Add(pos, r2.Scale(cfg.Player.BarrelForward, aim))
	barrel := func(side float64) r2.Vec {
		return r2.Add(muzzle, r2.Scale(side*cfg.Player.BarrelSide, right))
	}

	switch w.Kind {
	case WeaponRifle:
		dst = append(dst, components.NewBullet(barrel(1), aim,
			pc.BulletSpeed, pc.BulletRange, w.Damage, pc.BulletSize, components.SideFriend))
	case WeaponShotgun:
		for _, side := range [2]float64{-1, 1} {
			dst = append(dst, components.NewBullet(barrel(side), aim,
				pc.BulletSpeed, pc.BulletRange, w.Damage, pc.BulletSize, components.SideFriend))
		}
	case WeaponLauncher:
		dst = append(dst, components.NewMissile(muzzle, aim,
			pc.MissileSpeed, pc.MissileRange, w.Damage, pc.MissileSize,
			pc.HomingDelay, pc.HomingRadius, components.SideFriend))
	default:
		return dst
	}

	if w.Ammo > 0 {
		w.Ammo--
	}
	w.Cooldown = w.FireRate
	return dst
}
