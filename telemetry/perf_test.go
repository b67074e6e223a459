package telemetry

import (
	"math"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCollector(window int) (*PerfCollector, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(window)
	pc.now = clk.now
	return pc, clk
}

// tick runs one tick spending the given time in monsters then projectiles.
func tick(pc *PerfCollector, clk *fakeClock, monsters, projectiles time.Duration) {
	pc.StartTick()
	pc.StartPhase(PhaseMonsters)
	clk.advance(monsters)
	pc.StartPhase(PhaseProjectiles)
	clk.advance(projectiles)
	pc.EndTick()
}

func TestPerfCollectorPhaseTiming(t *testing.T) {
	pc, clk := newTestCollector(10)
	for range 4 {
		tick(pc, clk, 100*time.Microsecond, 300*time.Microsecond)
	}

	s := pc.Stats()
	if s.Ticks != 4 || s.AvgTickDuration != 400*time.Microsecond {
		t.Fatalf("ticks=%d avg=%v", s.Ticks, s.AvgTickDuration)
	}
	if s.PhaseAvg[PhaseMonsters] != 100*time.Microsecond || s.PhaseAvg[PhaseProjectiles] != 300*time.Microsecond {
		t.Errorf("phase avg = %v", s.PhaseAvg)
	}
	if math.Abs(s.PhasePct[PhaseMonsters]-25) > 1e-9 || math.Abs(s.PhasePct[PhaseProjectiles]-75) > 1e-9 {
		t.Errorf("phase pct = %v", s.PhasePct)
	}
	if s.PhasePct[PhaseSweep] != 0 {
		t.Errorf("untimed phase pct = %v", s.PhasePct[PhaseSweep])
	}
	if s.Slowest != PhaseProjectiles {
		t.Errorf("slowest = %v", s.Slowest)
	}
	if math.Abs(s.TicksPerSecond-2500) > 1e-9 {
		t.Errorf("ticks/s = %v", s.TicksPerSecond)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc, clk := newTestCollector(5)

	// The first five ticks are slow and fall out of the window.
	for range 5 {
		tick(pc, clk, time.Millisecond, 0)
	}
	for i := range 5 {
		tick(pc, clk, time.Duration(i+1)*10*time.Microsecond, 0)
	}

	s := pc.Stats()
	if s.Ticks != 5 {
		t.Fatalf("ticks = %d, want window of 5", s.Ticks)
	}
	if s.MinTickDuration != 10*time.Microsecond || s.MaxTickDuration != 50*time.Microsecond {
		t.Errorf("min/max = %v/%v", s.MinTickDuration, s.MaxTickDuration)
	}
	if s.AvgTickDuration != 30*time.Microsecond {
		t.Errorf("avg = %v", s.AvgTickDuration)
	}
	if s.P95TickDuration != 50*time.Microsecond {
		t.Errorf("p95 = %v", s.P95TickDuration)
	}
}

func TestPerfCollectorReset(t *testing.T) {
	pc, clk := newTestCollector(10)
	tick(pc, clk, time.Millisecond, time.Millisecond)
	pc.Reset()

	s := pc.Stats()
	if s.Ticks != 0 || s.AvgTickDuration != 0 || s.TicksPerSecond != 0 {
		t.Errorf("stats after reset = %+v", s)
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc, clk := newTestCollector(10)

	pc.RecordFrame()
	if s := pc.Stats(); s.FPS != 0 {
		t.Errorf("fps after one frame = %v, want 0", s.FPS)
	}
	clk.advance(20 * time.Millisecond)
	pc.RecordFrame()

	s := pc.Stats()
	if s.FrameDuration != 20*time.Millisecond || math.Abs(s.FPS-50) > 1e-9 {
		t.Errorf("frame=%v fps=%v", s.FrameDuration, s.FPS)
	}
}

func TestPhaseString(t *testing.T) {
	if len(Phases) != int(NumPhases) {
		t.Fatalf("Phases has %d entries, want %d", len(Phases), NumPhases)
	}
	for i, ph := range Phases {
		if ph != Phase(i) {
			t.Errorf("Phases[%d] = %v", i, ph)
		}
	}
	if PhasePickUps.String() != "pickups" || NumPhases.String() != "unknown" {
		t.Errorf("names = %q %q", PhasePickUps, NumPhases)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	var s PerfStats
	s.AvgTickDuration = 250 * time.Microsecond
	s.P95TickDuration = 400 * time.Microsecond
	s.PhasePct[PhaseMonsters] = 40
	s.PhasePct[PhaseSweep] = 5
	s.Slowest = PhaseMonsters

	row := s.ToCSV("run-1", 600)
	if row.RunID != "run-1" || row.WindowEnd != 600 || row.AvgTickUS != 250 || row.P95TickUS != 400 {
		t.Errorf("row = %+v", row)
	}
	if row.MonstersPct != 40 || row.SweepPct != 5 || row.ViewportPct != 0 || row.Slowest != "monsters" {
		t.Errorf("row = %+v", row)
	}
}
