package systems

import (
	"github.com/pthm-cable/timeruns/camera"
	"github.com/pthm-cable/timeruns/components"
)

// UpdateExplosions ages every explosion by dt scaled by the time multiplier
// and marks it dead once its lifetime has run out.
func UpdateExplosions(vp *camera.Viewport, dt, multiplier float64, explosions []components.Explosion) {
	for i := range explosions {
		e := &explosions[i]
		e.Remaining -= dt * multiplier
		if e.Remaining < 0 {
			e.ShouldDie = true
		}
		e.Screen = vp.WorldToScreen(e.World)
	}
}

// DisarmExplosions stops every explosion from dealing further damage. It runs
// after all actors have tested the explosions once.
func DisarmExplosions(explosions []components.Explosion) {
	for i := range explosions {
		explosions[i].Armed = false
	}
}

// ApplyExplosions lets an actor test every armed explosion. Returns the damage
// taken.
func ApplyExplosions(a *components.Actor, explosions []components.Explosion, flash float64) float64 {
	before := a.Health
	for i := range explosions {
		a.TestExplosion(&explosions[i], flash)
	}
	return before - a.Health
}
