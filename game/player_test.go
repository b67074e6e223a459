package game

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/components"
)

const eps = 1e-9

func TestTimeMultiplier(t *testing.T) {
	cfg := testConfig(t)
	pc := cfg.Player // time_min 0.1, time_max 1.0, max_speed 240

	tests := []struct {
		name    string
		speed   float64
		strafe  float64
		crystal float64
		want    float64
	}{
		{"standing", 0, 0, 0, 0.1},
		{"full speed", 240, 0, 0, 1.0},
		{"half speed", 120, 0, 0, 0.55},
		{"reversing", -120, 0, 0, 0.55},
		{"strafe only", 0, 120, 0, 0.55},
		{"capped", 240, 160, 0, 1.0},
		{"crystal", 240, 0, 2, 0.1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlayer(r2.Vec{}, cfg)
			p.Speed, p.Strafe, p.Crystal = tc.speed, tc.strafe, tc.crystal
			if got := p.TimeMultiplier(pc); math.Abs(got-tc.want) > eps {
				t.Errorf("TimeMultiplier() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDrive(t *testing.T) {
	cfg := testConfig(t)
	pc := cfg.Player // accel 600, decel 900, max 240, reverse 120, strafe 160

	p := NewPlayer(r2.Vec{}, cfg)
	p.Drive(Input{Forward: true}, 0.1, pc)
	if math.Abs(p.Speed-60) > eps {
		t.Errorf("speed after 0.1s = %v, want 60", p.Speed)
	}
	for range 10 {
		p.Drive(Input{Forward: true}, 0.1, pc)
	}
	if p.Speed != pc.MaxSpeed {
		t.Errorf("speed = %v, want capped at %v", p.Speed, pc.MaxSpeed)
	}

	p.Drive(Input{}, 0.1, pc)
	if math.Abs(p.Speed-150) > eps {
		t.Errorf("speed after coasting = %v, want 150", p.Speed)
	}

	// Both directions held cancel out.
	p.Drive(Input{Forward: true, Back: true}, 1, pc)
	if p.Speed != 0 {
		t.Errorf("speed = %v, want 0", p.Speed)
	}

	for range 10 {
		p.Drive(Input{Back: true, StrafeLeft: true}, 0.1, pc)
	}
	if p.Speed != -pc.ReverseSpeed || p.Strafe != -pc.StrafeSpeed {
		t.Errorf("speed=%v strafe=%v, want %v and %v", p.Speed, p.Strafe, -pc.ReverseSpeed, -pc.StrafeSpeed)
	}
}

func TestVelocity(t *testing.T) {
	cfg := testConfig(t)
	p := NewPlayer(r2.Vec{}, cfg) // heading north
	p.Speed, p.Strafe = 100, 50

	// Right of north is east.
	want := r2.Vec{X: 50, Y: -100}
	if v := p.Velocity(); math.Abs(v.X-want.X) > eps || math.Abs(v.Y-want.Y) > eps {
		t.Errorf("Velocity() = %v, want %v", v, want)
	}
	if math.Abs(p.TotalSpeed()-math.Hypot(100, 50)) > eps {
		t.Errorf("TotalSpeed() = %v", p.TotalSpeed())
	}
}

func TestPlayerTick(t *testing.T) {
	cfg := testConfig(t)
	p := NewPlayer(r2.Vec{}, cfg)
	p.Crystal = 0.05
	p.Weapon(WeaponRifle).Cooldown = 0.2

	p.Tick(0.1)
	if p.Crystal != 0 {
		t.Errorf("crystal = %v, want 0", p.Crystal)
	}
	if math.Abs(p.Weapon(WeaponRifle).Cooldown-0.1) > eps {
		t.Errorf("cooldown = %v, want 0.1", p.Weapon(WeaponRifle).Cooldown)
	}
}

func TestSelectAndAmmo(t *testing.T) {
	cfg := testConfig(t)
	p := NewPlayer(r2.Vec{}, cfg)

	p.Select(WeaponNone)
	if p.Active != WeaponRifle {
		t.Errorf("active = %v, want rifle", p.Active)
	}
	p.Select(WeaponLauncher)
	if p.Weapon(WeaponNone).Kind != WeaponLauncher {
		t.Errorf("active weapon = %v, want launcher", p.Weapon(WeaponNone).Kind)
	}

	p.AddAmmo(6)
	if got := p.Weapon(WeaponRifle).Ammo; got != -1 {
		t.Errorf("rifle ammo = %d, want infinite", got)
	}
	if got := p.Weapon(WeaponShotgun).Ammo; got != 30 {
		t.Errorf("shotgun ammo = %d, want 30", got)
	}
	if got := p.Weapon(WeaponLauncher).Ammo; got != 9 {
		t.Errorf("launcher ammo = %d, want 9", got)
	}
}

func TestWeaponFire(t *testing.T) {
	cfg := testConfig(t)
	pos := r2.Vec{X: 100, Y: 100}
	aim := r2.Vec{Y: -1}

	t.Run("rifle right barrel", func(t *testing.T) {
		w := newWeapon(WeaponRifle, cfg.Weapons.Rifle)
		got := w.Fire(nil, pos, aim, cfg)
		if len(got) != 1 {
			t.Fatalf("projectiles = %d, want 1", len(got))
		}
		// forward 24 north, side 6 east
		want := r2.Vec{X: 106, Y: 76}
		if b := got[0]; b.Kind != components.KindBullet || b.World != want || b.Damage != 25 {
			t.Errorf("bullet = %+v, want at %v with damage 25", b, want)
		}
		if w.Ammo != -1 || w.Cooldown != cfg.Weapons.Rifle.FireRate {
			t.Errorf("ammo=%d cooldown=%v", w.Ammo, w.Cooldown)
		}
		if again := w.Fire(nil, pos, aim, cfg); len(again) != 0 {
			t.Error("fired during cooldown")
		}
	})

	t.Run("shotgun both barrels", func(t *testing.T) {
		w := newWeapon(WeaponShotgun, cfg.Weapons.Shotgun)
		got := w.Fire(nil, pos, aim, cfg)
		if len(got) != 2 {
			t.Fatalf("projectiles = %d, want 2", len(got))
		}
		if got[0].World.X != 94 || got[1].World.X != 106 {
			t.Errorf("barrels at x=%v and x=%v, want 94 and 106", got[0].World.X, got[1].World.X)
		}
		if w.Ammo != cfg.Weapons.Shotgun.Ammo-1 {
			t.Errorf("ammo = %d, want %d", w.Ammo, cfg.Weapons.Shotgun.Ammo-1)
		}
	})

	t.Run("launcher missile", func(t *testing.T) {
		w := newWeapon(WeaponLauncher, cfg.Weapons.Launcher)
		got := w.Fire(nil, pos, aim, cfg)
		if len(got) != 1 || got[0].Kind != components.KindMissile || got[0].Homing == nil {
			t.Fatalf("projectiles = %+v, want one homing missile", got)
		}
		if got[0].World != (r2.Vec{X: 100, Y: 76}) {
			t.Errorf("missile at %v, want the muzzle", got[0].World)
		}
	})

	t.Run("empty", func(t *testing.T) {
		w := newWeapon(WeaponLauncher, cfg.Weapons.Launcher)
		w.Ammo = 0
		if got := w.Fire(nil, pos, aim, cfg); len(got) != 0 {
			t.Error("fired with no ammo")
		}
	})
}
