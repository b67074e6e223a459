// Package game wires the level, viewport and simulation systems into a
// fixed-order tick driver.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/timeruns/camera"
	"github.com/pthm-cable/timeruns/components"
	"github.com/pthm-cable/timeruns/config"
	"github.com/pthm-cable/timeruns/level"
	"github.com/pthm-cable/timeruns/systems"
	"github.com/pthm-cable/timeruns/telemetry"
)

// Totals accumulates counters over a whole run.
type Totals struct {
	Shots       int
	Kills       int
	DamageTaken float64
	PickUps     int
	CapHits     int
}

// Game holds the complete game state.
type Game struct {
	cfg   *config.Config
	runID string
	seed  int64
	rng   *rand.Rand

	level    *level.Level
	viewport *camera.Viewport
	world    *ecs.World
	registry *systems.SystemRegistry

	// Entity lists; their order is stable across the sweep
	player      Player
	monsters    []*components.Monster
	projectiles []components.Projectile
	explosions  []components.Explosion
	actors      []*components.Actor

	// Systems
	grid          *systems.SpatialGrid
	resolver      *systems.Resolver
	projectileSys *systems.ProjectileSystem
	monsterSys    *systems.MonsterSystem
	pickups       *systems.PickUpSystem

	// State
	multiplier float64
	state      State
	tick       int32
	elapsed    float64
	totals     Totals

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewGame loads the tile catalogue and level and creates a game ready to
// step. A missing level file is filled with the default tile.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	tilesPath := cfg.Level.TilesFile
	if opts.TilesPath != "" {
		tilesPath = opts.TilesPath
	}
	defs, err := level.LoadTileDefs(tilesPath)
	if err != nil {
		return nil, fmt.Errorf("loading tile definitions: %w", err)
	}

	lvl := level.New(defs, cfg.Level.TilesX, cfg.Level.TilesY, cfg.Level.TileSize)
	levelPath := cfg.Level.File
	if opts.LevelPath != "" {
		levelPath = opts.LevelPath
	}
	loaded := false
	if levelPath != "" {
		if loaded, err = lvl.Load(levelPath); err != nil {
			return nil, fmt.Errorf("loading level: %w", err)
		}
	}
	if !loaded {
		if err := lvl.Fill(cfg.Level.DefaultID); err != nil {
			return nil, fmt.Errorf("filling default level: %w", err)
		}
		slog.Info("no level file, using default fill", "path", levelPath, "tile", cfg.Level.DefaultID)
	}

	world := ecs.NewWorld()
	resolver := systems.NewResolver(cfg.Collision.MaxIterations, cfg.Collision.MinPush)
	grid := systems.NewSpatialGrid(float64(cfg.Derived.LevelW), float64(cfg.Derived.LevelH), float64(cfg.Level.TileSize)*2)
	rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)>>1|1))

	projectileSys := systems.NewProjectileSystem(systems.ExplosionSpec{
		Radius:   cfg.Explosion.Radius,
		Lifetime: cfg.Explosion.Lifetime,
		Frames:   cfg.Explosion.Frames,
	}, cfg.Player.FlashSeconds, grid)
	monsterSys := systems.NewMonsterSystem(resolver, systems.ShotSpec{
		Speed: cfg.Projectile.BulletSpeed,
		Range: cfg.Projectile.BulletRange,
		Size:  cfg.Projectile.BulletSize,
	}, cfg.Monster.WanderTurn, cfg.Player.FlashSeconds, rng)
	monsterSys.Planner = systems.NewAStarPlanner(systems.NewNavGrid(lvl))

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	vp := camera.New(cfg.Level.TilesX, cfg.Level.TilesY, cfg.Level.TileSize, cfg.Derived.PlayW, cfg.Derived.PlayH)

	g := &Game{
		cfg:      cfg,
		runID:    runID,
		seed:     opts.Seed,
		rng:      rng,
		level:    lvl,
		viewport: vp,
		world:    world,
		registry: systems.NewSystemRegistry(),

		grid:          grid,
		resolver:      resolver,
		projectileSys: projectileSys,
		monsterSys:    monsterSys,
		pickups:       systems.NewPickUpSystem(world),

		collector:        telemetry.NewCollector(runID, statsWindow, cfg.Sim.DT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10, cfg.Player.Health/4),
		logStats:         opts.LogStats,
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
		g.outputManager = om
	}

	g.Restart()
	return g, nil
}

// SetStatsCallback sets a function called with every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Update runs one tick with the frame's real dt (graphical mode).
func (g *Game) Update(in Input, frameDT float64) {
	g.Step(in, frameDT)
}

// UpdateHeadless runs one fixed-dt tick with input from src.
func (g *Game) UpdateHeadless(src InputSource) {
	g.Step(src.Next(g), g.cfg.Sim.DT)
}

// Unload closes the output files and logs the run summary.
func (g *Game) Unload() {
	g.logSummary()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Accessors for the renderer, tools and tests.

func (g *Game) Config() *config.Config                  { return g.cfg }
func (g *Game) RunID() string                           { return g.runID }
func (g *Game) Tick() int32                             { return g.tick }
func (g *Game) Elapsed() float64                        { return g.elapsed }
func (g *Game) State() State                            { return g.state }
func (g *Game) Multiplier() float64                     { return g.multiplier }
func (g *Game) Totals() Totals                          { return g.totals }
func (g *Game) Level() *level.Level                     { return g.level }
func (g *Game) Viewport() *camera.Viewport              { return g.viewport }
func (g *Game) Player() *Player                         { return &g.player }
func (g *Game) Monsters() []*components.Monster         { return g.monsters }
func (g *Game) Projectiles() []components.Projectile    { return g.projectiles }
func (g *Game) Explosions() []components.Explosion      { return g.explosions }
func (g *Game) PickUps() *systems.PickUpSystem          { return g.pickups }
func (g *Game) Registry() *systems.SystemRegistry       { return g.registry }
func (g *Game) PerfStats() telemetry.PerfStats          { return g.perfCollector.Stats() }
func (g *Game) PerfCollector() *telemetry.PerfCollector { return g.perfCollector }
