// Command optimize tunes game balance with CMA-ES. Each evaluation plays
// several seeded headless games with the autopilot and scores how far the
// mean run length and win rate land from their targets.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/timeruns/config"
	"github.com/pthm-cable/timeruns/game"
)

type options struct {
	configPath string
	levelPath  string
	outputDir  string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
	targetSec  float64
	targetWin  float64
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.StringVar(&opts.levelPath, "level", "", "Level CSV to tune on (empty = level.file from config)")
	flag.IntVar(&opts.maxTicks, "max-ticks", 36000, "Cap on a single game in ticks")
	flag.IntVar(&opts.seeds, "seeds", 4, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 100, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.Float64Var(&opts.targetSec, "target-seconds", defaultTargetSec, "Target game length in seconds")
	flag.Float64Var(&opts.targetWin, "target-win-rate", defaultTargetWinRate, "Target autopilot win rate")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	// Games log every run start and end; only warnings matter here.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	game.SetLogWriter(io.Discard)

	if err := tune(opts, os.Stdout); err != nil {
		slog.Error("tuning failed", "error", err)
		os.Exit(1)
	}
}

// tune runs the search and writes optimize_log.csv and best_config.yaml
// into the output directory.
func tune(opts options, out io.Writer) error {
	if opts.outputDir == "" {
		return errors.New("-output is required")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	baseCfg := config.Cfg()
	params := NewParamVector()

	evalSeeds := make([]int64, opts.seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, int32(opts.maxTicks), evalSeeds, baseCfg, opts.levelPath)
	evaluator.targetSec = opts.targetSec
	evaluator.targetWinRate = opts.targetWin

	logFile, err := os.Create(filepath.Join(opts.outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()
	evals, err := newEvalLog(logFile, params)
	if err != nil {
		return err
	}

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	fmt.Fprintf(out, "Tuning %d parameters with CMA-ES, population=%d, max_evals=%d\n",
		params.Dim(), popSize, opts.maxEvals)
	fmt.Fprintf(out, "Seeds per evaluation: %d, target: %.0fs at %.0f%% wins\n",
		opts.seeds, opts.targetSec, opts.targetWin*100)

	start := time.Now()
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			sum := evaluator.LastSummary()
			if err := evals.record(fitness, sum, values); err != nil {
				slog.Warn("writing evaluation log", "error", err)
			}

			elapsed := time.Since(start)
			remaining := time.Duration(opts.maxEvals-evals.count) * (elapsed / time.Duration(evals.count))
			fmt.Fprintf(out, "Eval %d/%d: length=%.0fs wins=%.0f%% hits=%.0f%% fitness=%.4f (best=%.4f) | %s, ETA %s\n",
				evals.count, opts.maxEvals, sum.MeanDurationSec, sum.WinRate*100, sum.HitRate*100,
				fitness, evals.bestFitness, formatDuration(elapsed), formatDuration(remaining))
			return fitness
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: opts.maxEvals,
		Concurrent:      0, // seeds already run in parallel
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended early", "error", err)
	}

	// The best evaluation can come from any generation, not just the last.
	best := evals.best
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return errors.New("no evaluation completed")
	}

	fmt.Fprintf(out, "\nDone after %d evaluations in %s, best fitness %.4f\n",
		evals.count, formatDuration(time.Since(start)), evals.bestFitness)
	for i, spec := range params.Specs {
		fmt.Fprintf(out, "  %-16s %-36s %.6f\n", spec.Name, spec.Path, best[i])
	}

	bestCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(bestCfg, best)
	path := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(path); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Fprintf(out, "Best config saved to %s\n", path)
	return nil
}

// evalLog writes one CSV row per evaluation and tracks the best seen.
type evalLog struct {
	w           *csv.Writer
	count       int
	best        []float64
	bestFitness float64
}

func newEvalLog(w io.Writer, params *ParamVector) (*evalLog, error) {
	header := []string{"eval", "fitness", "mean_seconds", "win_rate", "hit_rate", "failed"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	l := &evalLog{w: csv.NewWriter(w), bestFitness: 1e9}
	if err := l.w.Write(header); err != nil {
		return nil, err
	}
	l.w.Flush()
	return l, l.w.Error()
}

// record appends a row, flushed immediately so a killed run keeps its log.
func (l *evalLog) record(fitness float64, sum evalSummary, values []float64) error {
	l.count++
	if fitness < l.bestFitness {
		l.bestFitness = fitness
		l.best = values
	}

	row := []string{
		strconv.Itoa(l.count),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(sum.MeanDurationSec, 'f', 2, 64),
		strconv.FormatFloat(sum.WinRate, 'f', 3, 64),
		strconv.FormatFloat(sum.HitRate, 'f', 3, 64),
		strconv.Itoa(sum.Failed),
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := l.w.Write(row); err != nil {
		return err
	}
	l.w.Flush()
	return l.w.Error()
}

// formatDuration formats d as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
