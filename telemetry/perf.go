package telemetry

import (
	"log/slog"
	"slices"
	"time"
)

// Phase identifies one stage of the simulation step.
type Phase uint8

// Phases of a tick, in the order the driver runs them.
const (
	PhaseViewport Phase = iota
	PhasePlayer
	PhaseMonsters
	PhaseProjectiles
	PhaseExplosions
	PhasePickUps
	PhaseSweep
	PhaseTelemetry

	NumPhases
)

var phaseNames = [NumPhases]string{
	"viewport", "player", "monsters", "projectiles",
	"explosions", "pickups", "sweep", "telemetry",
}

func (p Phase) String() string {
	if p < NumPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// Phases lists every phase in tick order.
var Phases = []Phase{
	PhaseViewport, PhasePlayer, PhaseMonsters, PhaseProjectiles,
	PhaseExplosions, PhasePickUps, PhaseSweep, PhaseTelemetry,
}

// PhaseTimes holds one duration per phase.
type PhaseTimes [NumPhases]time.Duration

type tickSample struct {
	total  time.Duration
	phases PhaseTimes
}

// PerfCollector times each tick and its phases over a rolling window of
// ticks, plus the wall time between rendered frames.
type PerfCollector struct {
	ring []tickSample
	next int
	n    int

	cur        PhaseTimes
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration

	now     func() time.Time
	scratch []time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks
// (60 when window < 1).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		ring:    make([]tickSample, window),
		now:     time.Now,
		scratch: make([]time.Duration, 0, window),
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.cur = PhaseTimes{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := p.now()
	p.closePhase(now)
	p.phase = ph
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase < NumPhases {
		p.cur[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick closes the running phase and stores the tick in the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.ring[p.next] = tickSample{total: now.Sub(p.tickStart), phases: p.cur}
	p.next = (p.next + 1) % len(p.ring)
	p.n = min(p.n+1, len(p.ring))
}

// Reset drops every tick sample. Frame timing is kept.
func (p *PerfCollector) Reset() {
	clear(p.ring)
	p.next = 0
	p.n = 0
	p.inPhase = false
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the collector's window.
type PerfStats struct {
	Ticks           int
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	PhaseAvg PhaseTimes
	PhasePct [NumPhases]float64 // share of the average tick, 0-100
	Slowest  Phase

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes the window aggregates.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Ticks: p.n, FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.n == 0 {
		return s
	}

	var total time.Duration
	var phaseSum PhaseTimes
	p.scratch = p.scratch[:0]
	for _, t := range p.ring[:p.n] {
		total += t.total
		p.scratch = append(p.scratch, t.total)
		for i, d := range t.phases {
			phaseSum[i] += d
		}
	}
	slices.Sort(p.scratch)
	s.MinTickDuration = p.scratch[0]
	s.MaxTickDuration = p.scratch[p.n-1]
	s.P95TickDuration = p.scratch[(p.n*95-1)/100]
	s.AvgTickDuration = total / time.Duration(p.n)

	for i, sum := range phaseSum {
		s.PhaseAvg[i] = sum / time.Duration(p.n)
		if s.AvgTickDuration > 0 {
			s.PhasePct[i] = float64(s.PhaseAvg[i]) / float64(s.AvgTickDuration) * 100
		}
		if s.PhaseAvg[i] > s.PhaseAvg[s.Slowest] {
			s.Slowest = Phase(i)
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the aggregates at info level, skipping phases under 0.1%.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
		"slowest", s.Slowest.String(),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, ph := range Phases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range Phases {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	RunID          string  `csv:"run_id"`
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	Slowest        string  `csv:"slowest_phase"`
	ViewportPct    float64 `csv:"viewport_pct"`
	PlayerPct      float64 `csv:"player_pct"`
	MonstersPct    float64 `csv:"monsters_pct"`
	ProjectilesPct float64 `csv:"projectiles_pct"`
	ExplosionsPct  float64 `csv:"explosions_pct"`
	PickUpsPct     float64 `csv:"pickups_pct"`
	SweepPct       float64 `csv:"sweep_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for a window ending at windowEnd.
func (s PerfStats) ToCSV(runID string, windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		RunID:          runID,
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		P95TickUS:      s.P95TickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		Slowest:        s.Slowest.String(),
		ViewportPct:    s.PhasePct[PhaseViewport],
		PlayerPct:      s.PhasePct[PhasePlayer],
		MonstersPct:    s.PhasePct[PhaseMonsters],
		ProjectilesPct: s.PhasePct[PhaseProjectiles],
		ExplosionsPct:  s.PhasePct[PhaseExplosions],
		PickUpsPct:     s.PhasePct[PhasePickUps],
		SweepPct:       s.PhasePct[PhaseSweep],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
