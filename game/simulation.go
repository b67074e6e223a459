package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/geom"
	"github.com/pthm-cable/timeruns/systems"
	"github.com/pthm-cable/timeruns/telemetry"
)

// Step advances the game by one tick.
//
// The order is fixed: viewport, player, time multiplier, monsters (which
// test and then disarm the armed explosions), projectiles, explosions,
// pick-ups, the sweep, the win/lose check and telemetry. Only the player
// and projectiles use the real dt; monsters and explosions run on dt
// scaled by the time multiplier.
func (g *Game) Step(in Input, dt float64) {
	if in.Restart {
		g.Restart()
		return
	}
	if g.state != StatePlaying || dt <= 0 {
		return
	}
	dt = min(dt, g.cfg.Sim.MaxDT)
	g.tick++
	g.elapsed += dt
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseViewport)
	g.level.UpdateOffset(g.viewport, g.player.World)
	healthBefore := g.player.Health

	g.perfCollector.StartPhase(telemetry.PhasePlayer)
	g.rebuildActors()
	g.updatePlayer(in, dt)
	g.multiplier = g.player.TimeMultiplier(g.cfg.Player)

	g.perfCollector.StartPhase(telemetry.PhaseMonsters)
	rep := g.monsterSys.Update(g.viewport, dt*g.multiplier, g.monsters, &g.player.Actor,
		g.explosions, g.level.Visible(), g.actors)
	g.projectiles = append(g.projectiles, rep.Shots...)
	g.collector.RecordCollision(rep.Resolves, rep.Iterations, rep.MaxIterations, rep.CapHits)
	g.totals.CapHits += rep.CapHits
	systems.DisarmExplosions(g.explosions)

	g.perfCollector.StartPhase(telemetry.PhaseProjectiles)
	g.rebuildGrid()
	prep := g.projectileSys.Update(g.viewport, dt, g.projectiles, g.level.Visible(), g.actors)
	g.explosions = append(g.explosions, prep.Explosions...)
	g.collector.Record(telemetry.NewHitEvent(g.tick, telemetry.EventBulletHit, prep.BulletHits))
	g.collector.Record(telemetry.NewHitEvent(g.tick, telemetry.EventMissileHit, prep.MissileHits))
	g.collector.Record(telemetry.NewHitEvent(g.tick, telemetry.EventTileHit, prep.TileHits))
	g.collector.Record(telemetry.NewHitEvent(g.tick, telemetry.EventExplosion, len(prep.Explosions)))

	g.perfCollector.StartPhase(telemetry.PhaseExplosions)
	systems.UpdateExplosions(g.viewport, dt, g.multiplier, g.explosions)

	if taken := healthBefore - g.player.Health; taken > 0 {
		g.totals.DamageTaken += taken
		g.collector.Record(telemetry.NewPlayerDamageEvent(g.tick, taken))
	}

	g.perfCollector.StartPhase(telemetry.PhasePickUps)
	g.pickups.Update(&g.player.Actor, g.applyPickUp)

	g.perfCollector.StartPhase(telemetry.PhaseSweep)
	g.sweep()
	g.checkEnd()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perfCollector.EndTick()
}

// updatePlayer runs the player's part of a tick: timers, explosion damage,
// weapon selection, aim, movement through the resolver and firing.
func (g *Game) updatePlayer(in Input, dt float64) {
	p := &g.player
	p.Tick(dt)
	systems.ApplyExplosions(&p.Actor, g.explosions, g.cfg.Player.FlashSeconds)
	if p.ShouldDie {
		return
	}

	p.Select(in.Select)
	if in.HasAim {
		p.SetHeading(r2.Sub(in.Aim, p.Screen))
	}

	p.Drive(in, dt, g.cfg.Player)
	if v := p.Velocity(); v != (r2.Vec{}) {
		prospective := g.clampToLevel(r2.Add(p.World, r2.Scale(dt, v)), p.CollideRadius)
		res := g.resolver.Resolve(g.viewport, &p.Actor, prospective, g.level.Visible(), g.actors)
		p.World = res.Position
		capHits := 0
		if res.Capped {
			capHits = 1
		}
		g.collector.RecordCollision(1, res.Iterations, res.Iterations, capHits)
		g.totals.CapHits += capHits
	}
	p.UpdateScreen(g.viewport)

	if in.Fire {
		n := len(g.projectiles)
		g.projectiles = p.Weapon(WeaponNone).Fire(g.projectiles, p.World, p.Heading, g.cfg)
		if shots := len(g.projectiles) - n; shots > 0 {
			g.totals.Shots += shots
			g.collector.Record(telemetry.NewShotEvent(g.tick, shots))
		}
	}
}

// clampToLevel keeps a circle of radius r inside the level.
func (g *Game) clampToLevel(p r2.Vec, r float64) r2.Vec {
	return geom.ClampCircle(p, r, g.viewport.Bounds())
}
