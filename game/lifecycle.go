package game

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/components"
	"github.com/pthm-cable/timeruns/telemetry"
)

// Restart clears every entity list and starts a new run on the same level:
// the player goes back to the start tile and monsters respawn.
func (g *Game) Restart() {
	clear(g.projectiles)
	g.projectiles = g.projectiles[:0]
	clear(g.explosions)
	g.explosions = g.explosions[:0]
	g.pickups.Clear()

	start, ok := g.level.PlayerStart()
	if !ok {
		start = r2.Vec{X: float64(g.cfg.Derived.LevelW) / 2, Y: float64(g.cfg.Derived.LevelH) / 2}
		slog.Warn("no walkable tile for the player start, using level centre",
			"x", start.X, "y", start.Y)
	}
	g.player = NewPlayer(start, g.cfg)
	g.ResetMonsters()

	g.viewport.Invalidate()
	g.level.UpdateOffset(g.viewport, start)
	g.player.UpdateScreen(g.viewport)
	for _, m := range g.monsters {
		m.UpdateScreen(g.viewport)
	}

	g.multiplier = g.player.TimeMultiplier(g.cfg.Player)
	g.state = StatePlaying
	g.totals = Totals{}
	g.perfCollector.Reset()

	slog.Info("run started",
		"run_id", g.runID,
		"seed", g.seed,
		"monsters", len(g.monsters),
		"player_x", start.X,
		"player_y", start.Y,
	)
}

// ResetMonsters replaces the monster list with one monster per aiSpawn
// record, in spawn order. Unknown type ids use the first archetype.
func (g *Game) ResetMonsters() {
	clear(g.monsters)
	g.monsters = g.monsters[:0]

	for _, sp := range g.level.Spawns() {
		arch, ok := g.cfg.Archetype(sp.TypeID)
		if !ok {
			slog.Warn("unknown monster type, using default archetype",
				"type_id", sp.TypeID, "archetype", arch.Name)
		}
		m := components.NewMonster(sp.World, g.cfg.Monster.CollideRadius, arch.Health, sp.TypeID)
		m.Name = arch.Name
		m.IdleSpeed = arch.IdleSpeed
		m.AttackSpeed = arch.AttackSpeed
		m.SightRange = arch.SightRange
		m.FireRange = arch.FireRange
		m.FireRate = arch.FireRate
		m.BulletDamage = arch.BulletDamage
		g.monsters = append(g.monsters, m)
	}
}

// rebuildActors lists the player and every monster for collision and hit
// tests. Dying actors stay listed; the tests skip them.
func (g *Game) rebuildActors() {
	clear(g.actors)
	g.actors = append(g.actors[:0], &g.player.Actor)
	for _, m := range g.monsters {
		g.actors = append(g.actors, &m.Actor)
	}
}

// rebuildGrid indexes live actors for homing searches.
func (g *Game) rebuildGrid() {
	g.grid.Clear()
	for _, a := range g.actors {
		if !a.ShouldDie {
			g.grid.Insert(a)
		}
	}
}

// sweep removes dead entities in one order-preserving pass per list.
// Dead monsters may drop a pick-up.
func (g *Game) sweep() {
	live := g.monsters[:0]
	for _, m := range g.monsters {
		if !m.ShouldDie {
			live = append(live, m)
			continue
		}
		g.totals.Kills++
		g.collector.Record(telemetry.NewMonsterDeathEvent(g.tick, m.TypeID))
		g.dropPickUp(m)
	}
	clear(g.monsters[len(live):])
	g.monsters = live

	g.projectiles = slices.DeleteFunc(g.projectiles, func(p components.Projectile) bool {
		return p.ShouldDie
	})
	g.explosions = slices.DeleteFunc(g.explosions, func(e components.Explosion) bool {
		return e.ShouldDie
	})
}

// dropPickUp rolls the drop chance for a dead monster.
func (g *Game) dropPickUp(m *components.Monster) {
	pc := g.cfg.Pickups
	if g.rng.Float64() >= pc.DropChance {
		return
	}
	kind := components.PickUpKind(g.rng.IntN(3))
	var amount float64
	switch kind {
	case components.PickUpHealth:
		amount = pc.HealthAmount
	case components.PickUpAmmo:
		amount = float64(pc.AmmoAmount)
	case components.PickUpTimeCrystal:
		amount = g.cfg.Player.CrystalSeconds
	}
	g.pickups.Spawn(m.World, kind, amount, pc.Size)
}

// applyPickUp gives a collected pick-up's effect to the player.
func (g *Game) applyPickUp(p components.PickUp) {
	switch p.Kind {
	case components.PickUpHealth:
		g.player.AddHealth(p.Amount)
	case components.PickUpAmmo:
		g.player.AddAmmo(int(p.Amount))
	case components.PickUpTimeCrystal:
		g.player.Crystal = max(g.player.Crystal, p.Amount)
	}
	g.totals.PickUps++
	g.collector.Record(telemetry.NewPickUpEvent(g.tick, int(p.Kind), p.Amount))
}

// checkEnd decides the run: lost when the player dies, won when no monsters
// remain.
func (g *Game) checkEnd() {
	switch {
	case g.player.ShouldDie:
		g.state = StateLost
	case len(g.monsters) == 0:
		g.state = StateWon
	default:
		return
	}
	slog.Info("run over",
		"run_id", g.runID,
		"state", g.state.String(),
		"tick", g.tick,
		"elapsed", g.elapsed,
		"kills", g.totals.Kills,
	)
}
