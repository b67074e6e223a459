package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	RunID           string  `csv:"run_id"`
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Monsters     int     `csv:"monsters"`
	Projectiles  int     `csv:"projectiles"`
	Explosions   int     `csv:"explosions"`
	PickUps      int     `csv:"pickups"`
	PlayerHealth float64 `csv:"player_health"`
	Multiplier   float64 `csv:"time_multiplier"`

	// Combat during window
	Shots         int     `csv:"shots"`
	BulletHits    int     `csv:"bullet_hits"`
	MissileHits   int     `csv:"missile_hits"`
	TileHits      int     `csv:"tile_hits"`
	Detonations   int     `csv:"detonations"`
	MonsterDeaths int     `csv:"monster_deaths"`
	PickUpsTaken  int     `csv:"pickups_taken"`
	DamageTaken   float64 `csv:"damage_taken"`
	HitRate       float64 `csv:"hit_rate"`

	// Monster health distribution (sampled at window end)
	MonsterHealthMean float64 `csv:"monster_health_mean"`
	MonsterHealthP10  float64 `csv:"monster_health_p10"`
	MonsterHealthP50  float64 `csv:"monster_health_p50"`
	MonsterHealthP90  float64 `csv:"monster_health_p90"`

	// Collision resolver
	Resolves       int     `csv:"resolves"`
	MeanIterations float64 `csv:"mean_iterations"`
	MaxIterations  int     `csv:"max_iterations"`
	CapHits        int     `csv:"cap_hits"`
}

// Distribution summarises a sample by its mean and empirical 10th, 50th
// and 90th percentiles. All zero for an empty sample.
func Distribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return stat.Mean(sorted, nil),
		stat.Quantile(0.1, stat.Empirical, sorted, nil),
		stat.Quantile(0.5, stat.Empirical, sorted, nil),
		stat.Quantile(0.9, stat.Empirical, sorted, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("monsters", s.Monsters),
		slog.Int("projectiles", s.Projectiles),
		slog.Int("explosions", s.Explosions),
		slog.Int("pickups", s.PickUps),
		slog.Float64("player_health", s.PlayerHealth),
		slog.Float64("time_multiplier", s.Multiplier),
		slog.Int("shots", s.Shots),
		slog.Int("bullet_hits", s.BulletHits),
		slog.Int("missile_hits", s.MissileHits),
		slog.Int("tile_hits", s.TileHits),
		slog.Int("detonations", s.Detonations),
		slog.Int("monster_deaths", s.MonsterDeaths),
		slog.Int("pickups_taken", s.PickUpsTaken),
		slog.Float64("damage_taken", s.DamageTaken),
		slog.Float64("hit_rate", s.HitRate),
		slog.Float64("monster_health_mean", s.MonsterHealthMean),
		slog.Float64("monster_health_p10", s.MonsterHealthP10),
		slog.Float64("monster_health_p50", s.MonsterHealthP50),
		slog.Float64("monster_health_p90", s.MonsterHealthP90),
		slog.Int("resolves", s.Resolves),
		slog.Float64("mean_iterations", s.MeanIterations),
		slog.Int("max_iterations", s.MaxIterations),
		slog.Int("cap_hits", s.CapHits),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
