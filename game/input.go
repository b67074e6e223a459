package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Input is one tick of player intent. Graphical mode samples it from the
// keyboard and mouse; headless runs get it from an InputSource.
type Input struct {
	Forward     bool
	Back        bool
	StrafeLeft  bool
	StrafeRight bool

	Aim    r2.Vec // screen position to face
	HasAim bool
	Fire   bool

	Select  WeaponKind // weapon to switch to, or WeaponNone
	Restart bool
}

// InputSource produces input for headless runs.
type InputSource interface {
	Next(g *Game) Input
}

// ScriptStep holds one input for a number of ticks.
type ScriptStep struct {
	Ticks int
	Input Input
}

// ScriptedInput replays a fixed list of steps, then repeats the last one.
type ScriptedInput struct {
	Steps []ScriptStep

	step int
	used int
}

// Next returns the input for the current tick.
func (s *ScriptedInput) Next(*Game) Input {
	if len(s.Steps) == 0 {
		return Input{}
	}
	for s.step < len(s.Steps)-1 && s.used >= s.Steps[s.step].Ticks {
		s.step++
		s.used = 0
	}
	s.used++
	return s.Steps[s.step].Input
}

// AutoPilot drives the player at the nearest monster: it closes to
// Engage distance, strafes while in range and fires whenever a target is
// within FireRange. It keeps headless runs busy.
type AutoPilot struct {
	Engage    float64
	FireRange float64

	strafe   bool
	switched float64
}

// NewAutoPilot creates an autopilot with sensible distances.
func NewAutoPilot() *AutoPilot {
	return &AutoPilot{Engage: 220, FireRange: 520}
}

// Next aims at the nearest live monster.
func (a *AutoPilot) Next(g *Game) Input {
	p := g.Player()
	var target r2.Vec
	best := math.Inf(1)
	for _, m := range g.Monsters() {
		if m.ShouldDie {
			continue
		}
		if d := r2.Norm(r2.Sub(m.World, p.World)); d < best {
			best, target = d, m.World
		}
	}
	if math.IsInf(best, 1) {
		return Input{}
	}

	in := Input{Aim: g.Viewport().WorldToScreen(target), HasAim: true}
	in.Forward = best > a.Engage
	in.Fire = best <= a.FireRange

	a.switched += g.cfg.Sim.DT
	if a.switched > 1.5 {
		a.switched = 0
		a.strafe = !a.strafe
	}
	if !in.Forward {
		in.StrafeLeft = a.strafe
		in.StrafeRight = !a.strafe
	}

	switch {
	case best < a.Engage && p.Weapon(WeaponShotgun).Ammo != 0:
		in.Select = WeaponShotgun
	case best > a.Engage*2 && p.Weapon(WeaponLauncher).Ammo != 0:
		in.Select = WeaponLauncher
	default:
		in.Select = WeaponRifle
	}
	return in
}
