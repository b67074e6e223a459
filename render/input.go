package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/game"
)

// SampleInput reads the keyboard and mouse into a game.Input. The aim point
// is the mouse in screen space.
func SampleInput() game.Input {
	mouse := rl.GetMousePosition()
	in := game.Input{
		Forward:     rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp),
		Back:        rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown),
		StrafeLeft:  rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft),
		StrafeRight: rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight),
		Aim:         r2.Vec{X: float64(mouse.X), Y: float64(mouse.Y)},
		HasAim:      true,
		Fire:        rl.IsMouseButtonDown(rl.MouseButtonLeft) || rl.IsKeyDown(rl.KeySpace),
		Restart:     rl.IsKeyPressed(rl.KeyR),
	}
	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		in.Select = game.WeaponRifle
	case rl.IsKeyPressed(rl.KeyTwo):
		in.Select = game.WeaponShotgun
	case rl.IsKeyPressed(rl.KeyThree):
		in.Select = game.WeaponLauncher
	}
	return in
}
