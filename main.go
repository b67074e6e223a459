package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/timeruns/config"
	"github.com/pthm-cable/timeruns/game"
	"github.com/pthm-cable/timeruns/render"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelPath := flag.String("level", "", "Level CSV file (empty = level.file from config)")
	tilesPath := flag.String("tiles", "", "Tile definition YAML (empty = level.tiles_file or embedded)")
	headless := flag.Bool("headless", false, "Run without graphics, driven by the autopilot")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LevelPath:      *levelPath,
		TilesPath:      *tilesPath,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Headless:       *headless,
	}

	if *headless {
		os.Exit(runHeadless(opts, *maxTicks))
	}

	// Graphical mode
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Time Runs")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to start game", "error", err)
		rl.CloseWindow()
		os.Exit(1)
	}
	defer g.Unload()

	r := render.NewRenderer()
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyF3) {
			r.HUD.ShowPerf = !r.HUD.ShowPerf
		}
		if rl.IsKeyPressed(rl.KeyF4) {
			r.ShowSpawns = !r.ShowSpawns
		}

		g.PerfCollector().RecordFrame()
		g.Update(render.SampleInput(), float64(rl.GetFrameTime()))

		rl.BeginDrawing()
		r.Draw(g)
		rl.EndDrawing()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// runHeadless plays the game with the autopilot at the fixed sim step until
// the run ends or maxTicks is reached. Returns the process exit code.
func runHeadless(opts game.Options, maxTicks int) int {
	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to start game", "error", err)
		return 1
	}
	defer g.Unload()

	slog.Info("starting headless run",
		"run_id", g.RunID(),
		"seed", opts.Seed,
		"max_ticks", maxTicks,
	)

	pilot := game.NewAutoPilot()
	for g.State() == game.StatePlaying {
		g.UpdateHeadless(pilot)
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}
	return 0
}
