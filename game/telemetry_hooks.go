package game

import (
	"log/slog"

	"github.com/pthm-cable/timeruns/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sampleWorld())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, g.runID, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// sampleWorld collects the end-of-window population and monster health.
func (g *Game) sampleWorld() telemetry.WorldState {
	ws := telemetry.WorldState{
		Monsters:      len(g.monsters),
		Projectiles:   len(g.projectiles),
		Explosions:    len(g.explosions),
		PickUps:       g.pickups.Count(),
		PlayerHealth:  g.player.Health,
		Multiplier:    g.multiplier,
		MonsterHealth: make([]float64, 0, len(g.monsters)),
	}
	for _, m := range g.monsters {
		ws.MonsterHealth = append(ws.MonsterHealth, m.Health)
	}
	return ws
}
