package game

import (
	"github.com/pthm-cable/timeruns/config"
)

// Options holds configuration for game initialization.
type Options struct {
	Config *config.Config // nil = config.Cfg()

	RunID     string // "" = a fresh UUID
	Seed      int64
	LevelPath string // overrides level.file
	TilesPath string // overrides level.tiles_file

	LogStats       bool
	StatsWindowSec float64 // 0 = telemetry.stats_window
	OutputDir      string  // "" disables CSV output
	Headless       bool
}

// State is the outcome of a run so far.
type State uint8

const (
	StatePlaying State = iota
	StateWon
	StateLost
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}
