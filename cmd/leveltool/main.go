// Level tool - checks and generates level CSV files.
//
// Usage:
//
//	go run ./cmd/leveltool validate -level levels/one.csv
//	go run ./cmd/leveltool fill -out levels/new.csv -tile grass -spawns 6 -seed 3
//	go run ./cmd/leveltool roundtrip -level levels/one.csv
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/pthm-cable/timeruns/config"
	"github.com/pthm-cable/timeruns/level"
)

var errUsage = errors.New("usage: leveltool validate|fill|roundtrip [flags]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run dispatches a subcommand.
func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "validate":
		return validate(args[1:], out)
	case "fill":
		return fill(args[1:], out)
	case "roundtrip":
		return roundtrip(args[1:], out)
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

// common holds the flags every subcommand shares.
type common struct {
	configPath string
	tilesPath  string
	cfg        *config.Config
	defs       *level.TileDefs
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	fs.StringVar(&c.tilesPath, "tiles", "", "Tile definition YAML (empty = level.tiles_file or embedded)")
}

func (c *common) load() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	tiles := cfg.Level.TilesFile
	if c.tilesPath != "" {
		tiles = c.tilesPath
	}
	defs, err := level.LoadTileDefs(tiles)
	if err != nil {
		return err
	}
	c.cfg, c.defs = cfg, defs
	return nil
}

func (c *common) newLevel() *level.Level {
	return level.New(c.defs, c.cfg.Level.TilesX, c.cfg.Level.TilesY, c.cfg.Level.TileSize)
}

// validate loads a level and reports its contents.
func validate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	var c common
	c.register(fs)
	path := fs.String("level", "", "Level CSV file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("validate: -level is required")
	}
	if err := c.load(); err != nil {
		return err
	}

	l := c.newLevel()
	loaded, err := l.Load(*path)
	if err != nil {
		return err
	}
	if !loaded {
		return fmt.Errorf("validate: %s does not exist", *path)
	}

	w, h := l.Size()
	collidable, walkable := l.Counts()
	var empty int
	for y := range h {
		for x := range w {
			if l.Ground().At(x, y) == nil {
				empty++
			}
		}
	}
	fmt.Fprintf(out, "%s: %dx%d cells, %d walkable, %d collidable, %d empty, %d spawns\n",
		*path, w, h, walkable, collidable, empty, len(l.Spawns()))
	if start, ok := l.PlayerStart(); ok {
		fmt.Fprintf(out, "player start: (%.0f, %.0f)\n", start.X, start.Y)
	} else {
		fmt.Fprintln(out, "player start: none (no walkable tile)")
	}
	for _, s := range l.Spawns() {
		if _, ok := c.cfg.Archetype(s.TypeID); !ok {
			fmt.Fprintf(out, "warning: spawn at (%.0f, %.0f) has unknown type %d\n", s.World.X, s.World.Y, s.TypeID)
		}
	}
	return nil
}

// fill writes a level covered with one tile and optional random spawns.
func fill(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("fill", flag.ContinueOnError)
	var c common
	c.register(fs)
	path := fs.String("out", "", "Output level CSV")
	tile := fs.String("tile", "", "Tile id (empty = level.default_id)")
	spawns := fs.Int("spawns", 0, "Random aiSpawn records to add")
	seed := fs.Uint64("seed", 1, "RNG seed for spawn placement")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("fill: -out is required")
	}
	if err := c.load(); err != nil {
		return err
	}

	id := *tile
	if id == "" {
		id = c.cfg.Level.DefaultID
	}
	l := c.newLevel()
	if err := l.Fill(id); err != nil {
		return err
	}

	w, h := l.Size()
	if *spawns > w*h {
		return fmt.Errorf("fill: %d spawns do not fit %d cells", *spawns, w*h)
	}
	rng := rand.New(rand.NewPCG(*seed, *seed>>1|1))
	types := len(c.cfg.Monster.Archetypes)
	for added := 0; added < *spawns; {
		cell := l.CellCentre(rng.IntN(w), rng.IntN(h))
		if l.AddSpawn(cell, c.cfg.Monster.Archetypes[rng.IntN(types)].ID) {
			added++
		}
	}

	if err := l.Save(*path); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s: %dx%d %q, %d spawns\n", *path, w, h, id, *spawns)
	return nil
}

// roundtrip loads a level, writes it, reads it back and checks that the
// second write matches the first.
func roundtrip(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("roundtrip", flag.ContinueOnError)
	var c common
	c.register(fs)
	path := fs.String("level", "", "Level CSV file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("roundtrip: -level is required")
	}
	if err := c.load(); err != nil {
		return err
	}

	l := c.newLevel()
	if _, err := l.Load(*path); err != nil {
		return err
	}
	var first bytes.Buffer
	if err := l.Write(&first); err != nil {
		return err
	}

	again := c.newLevel()
	if err := again.Read(bytes.NewReader(first.Bytes())); err != nil {
		return fmt.Errorf("re-reading written level: %w", err)
	}
	var second bytes.Buffer
	if err := again.Write(&second); err != nil {
		return err
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		return fmt.Errorf("roundtrip: %s changed after write and reload", *path)
	}
	fmt.Fprintf(out, "%s: roundtrip ok (%d bytes)\n", *path, first.Len())
	return nil
}
