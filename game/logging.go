package game

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/timeruns/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logSummary prints the end-of-run report: outcome, totals and the
// per-phase tick breakdown.
func (g *Game) logSummary() {
	t := g.totals
	Logf("=== Run %s: %s after %d ticks (%.1fs) ===", g.runID, g.state, g.tick, g.elapsed)
	Logf("Shots: %d, Kills: %d, Pick-ups: %d, Damage taken: %.0f",
		t.Shots, t.Kills, t.PickUps, t.DamageTaken)
	Logf("Player health: %.0f, Monsters left: %d, Collision cap hits: %d",
		g.player.Health, len(g.monsters), t.CapHits)

	perf := g.perfCollector.Stats()
	if perf.AvgTickDuration == 0 {
		Logf("")
		return
	}
	Logf("Avg tick: %s (min %s, p95 %s, max %s), slowest phase: %s",
		perf.AvgTickDuration.Round(time.Microsecond),
		perf.MinTickDuration.Round(time.Microsecond),
		perf.P95TickDuration.Round(time.Microsecond),
		perf.MaxTickDuration.Round(time.Microsecond),
		g.registry.GetName(perf.Slowest))
	for _, phase := range telemetry.Phases {
		Logf("  %-12s %10s  %5.1f%%", g.registry.GetName(phase),
			perf.PhaseAvg[phase].Round(time.Microsecond), perf.PhasePct[phase])
	}
	Logf("")
}
