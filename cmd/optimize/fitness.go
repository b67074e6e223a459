package main

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/pthm-cable/timeruns/config"
	"github.com/pthm-cable/timeruns/game"
	"github.com/pthm-cable/timeruns/telemetry"
)

// Balance targets: an autopilot run should last about targetSec and be
// won about targetWinRate of the time.
const (
	defaultTargetSec     = 60.0
	defaultTargetWinRate = 0.5

	weightDuration = 1.0
	weightWinRate  = 2.0
	weightHitRate  = 0.2
)

// FitnessEvaluator runs headless games with the autopilot and scores how
// close they land to the balance targets.
type FitnessEvaluator struct {
	params        *ParamVector
	maxTicks      int32
	seeds         []int64
	baseConfig    *config.Config
	levelPath     string
	statsWindow   float64
	targetSec     float64
	targetWinRate float64

	mu          sync.Mutex
	lastSummary evalSummary
}

func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, levelPath string) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:        params,
		maxTicks:      maxTicks,
		seeds:         seeds,
		baseConfig:    baseCfg,
		levelPath:     levelPath,
		statsWindow:   5.0,
		targetSec:     defaultTargetSec,
		targetWinRate: defaultTargetWinRate,
	}
}

// runResult holds the results from a single game.
type runResult struct {
	won         bool
	durationSec float64
	windowStats []telemetry.WindowStats
	err         error
}

// evalSummary aggregates the runs of one evaluation.
type evalSummary struct {
	MeanDurationSec float64
	WinRate         float64
	HitRate         float64
	Failed          int
}

// LastSummary returns the aggregate of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() evalSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Evaluate plays every seed in parallel with the raw parameter values x
// and returns the fitness, lower being better. +Inf when no game ran.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Go(func() { results[i] = fe.runGame(x, seed) })
	}
	wg.Wait()

	sum := summarize(results)
	fe.mu.Lock()
	fe.lastSummary = sum
	fe.mu.Unlock()

	if sum.Failed == len(results) {
		return math.Inf(1)
	}
	return fe.computeFitness(sum)
}

// runGame plays one autopilot game to its end or maxTicks.
func (fe *FitnessEvaluator) runGame(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var result runResult
	g, err := game.NewGame(game.Options{
		Config:         cfg,
		RunID:          fmt.Sprintf("tune-%d", seed),
		Seed:           seed,
		LevelPath:      fe.levelPath,
		StatsWindowSec: fe.statsWindow,
		Headless:       true,
	})
	if err != nil {
		result.err = err
		return result
	}
	g.SetStatsCallback(func(stats telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, stats)
	})

	pilot := game.NewAutoPilot()
	for g.State() == game.StatePlaying && g.Tick() < fe.maxTicks {
		g.UpdateHeadless(pilot)
	}
	result.won = g.State() == game.StateWon
	result.durationSec = g.Elapsed()
	g.Unload()
	return result
}

// copyConfig copies the base config deeply enough for ApplyToConfig.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Monster.Archetypes = slices.Clone(fe.baseConfig.Monster.Archetypes)
	return &cfg
}

// summarize averages duration, win rate and hit rate over successful runs.
func summarize(results []runResult) evalSummary {
	var sum evalSummary
	var wins, runs, hitWindows int
	var hitRate float64
	for _, r := range results {
		if r.err != nil {
			sum.Failed++
			continue
		}
		runs++
		sum.MeanDurationSec += r.durationSec
		if r.won {
			wins++
		}
		for _, w := range r.windowStats {
			if w.Shots > 0 {
				hitRate += w.HitRate
				hitWindows++
			}
		}
	}
	if runs > 0 {
		sum.MeanDurationSec /= float64(runs)
		sum.WinRate = float64(wins) / float64(runs)
	}
	if hitWindows > 0 {
		sum.HitRate = hitRate / float64(hitWindows)
	}
	return sum
}

// computeFitness scores a summary (lower = better): squared relative error
// on duration, squared error on win rate, and a small bonus for accurate
// shooting so tuned settings reward aiming.
func (fe *FitnessEvaluator) computeFitness(s evalSummary) float64 {
	durErr := (s.MeanDurationSec - fe.targetSec) / fe.targetSec
	winErr := s.WinRate - fe.targetWinRate
	return weightDuration*durErr*durErr + weightWinRate*winErr*winErr - weightHitRate*clamp01(s.HitRate)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
