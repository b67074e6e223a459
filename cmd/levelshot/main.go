// Level screenshot tool - renders one frame of a level to a PNG file.
//
// Usage: go run ./cmd/levelshot -level levels/one.csv -ticks 300 -out shot.png
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/timeruns/config"
	"github.com/pthm-cable/timeruns/game"
	"github.com/pthm-cable/timeruns/render"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelPath := flag.String("level", "", "Level CSV file")
	tilesPath := flag.String("tiles", "", "Tile definition YAML")
	ticks := flag.Int("ticks", 0, "Autopilot ticks to run before the shot")
	seed := flag.Int64("seed", 1, "RNG seed")
	spawns := flag.Bool("spawns", true, "Mark aiSpawn cells")
	outPath := flag.String("out", "level.png", "Output PNG path")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	game.SetLogWriter(io.Discard)

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	g, err := game.NewGame(game.Options{
		Seed:      *seed,
		LevelPath: *levelPath,
		TilesPath: *tilesPath,
		Headless:  true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load level: %v\n", err)
		os.Exit(1)
	}
	defer g.Unload()

	pilot := game.NewAutoPilot()
	for range *ticks {
		if g.State() != game.StatePlaying {
			break
		}
		g.UpdateHeadless(pilot)
	}

	// Initialize raylib with hidden window
	width, height := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(width, height, "Level Shot")
	defer rl.CloseWindow()

	target := rl.LoadRenderTexture(width, height)
	defer rl.UnloadRenderTexture(target)

	r := render.NewRenderer()
	r.ShowSpawns = *spawns
	rl.BeginTextureMode(target)
	r.Draw(g)
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)
	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if !success {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
	fmt.Printf("Tick %d rendered to: %s (%dx%d)\n", g.Tick(), *outPath, width, height)
}
