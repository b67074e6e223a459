package level

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/camera"
)

func testDefs(t *testing.T) *TileDefs {
	t.Helper()
	defs, err := LoadTileDefs("")
	if err != nil {
		t.Fatalf("LoadTileDefs: %v", err)
	}
	return defs
}

func TestEmbeddedTileDefs(t *testing.T) {
	defs := testDefs(t)

	if defs.First().ID != "grass" {
		t.Errorf("first tile = %q, want grass", defs.First().ID)
	}
	wall, ok := defs.Get("wall")
	if !ok || !wall.Collidable || len(wall.Shapes()) != 1 {
		t.Fatalf("wall = %+v, want one collidable shape", wall)
	}
	if _, ok := defs.Get("lava"); ok {
		t.Error("lava should not be defined")
	}
}

func TestParseTileDefsErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "tiles: []\n"},
		{"duplicate", "tiles:\n  - id: a\n  - id: a\n"},
		{"bad shape", "tiles:\n  - id: a\n    shapes:\n      - kind: hexagon\n"},
		{"missing id", "tiles:\n  - collidable: true\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseTileDefs([]byte(tc.yaml)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRoundtrip(t *testing.T) {
	defs := testDefs(t)
	l := New(defs, 8, 8, 64)
	if err := l.Fill("grass"); err != nil {
		t.Fatal(err)
	}
	mustSet := func(x, y int, id string, angle float64, layer int) {
		t.Helper()
		if err := l.SetTile(x, y, id, angle, layer); err != nil {
			t.Fatal(err)
		}
	}
	mustSet(1, 1, "wall", 90, 0)
	mustSet(2, 3, "pillar", 0, 0)
	mustSet(4, 4, "wall_corner", 270, 0)
	mustSet(5, 5, "flowers", 0, 1)
	l.AddSpawn(r2.Vec{X: 200, Y: 300}, 1)
	l.AddSpawn(r2.Vec{X: 400, Y: 100}, 0)

	path := filepath.Join(t.TempDir(), "level.csv")
	if err := l.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again := New(defs, 8, 8, 64)
	loaded, err := again.Load(path)
	if err != nil || !loaded {
		t.Fatalf("Load = %v, %v; want loaded", loaded, err)
	}

	for _, layer := range []struct {
		name      string
		want, got *Grid
	}{
		{"ground", l.Ground(), again.Ground()},
		{"top", l.Top(), again.Top()},
	} {
		for x := 0; x < 8; x++ {
			for y := 0; y < 8; y++ {
				w, g := layer.want.At(x, y), layer.got.At(x, y)
				if (w == nil) != (g == nil) {
					t.Fatalf("%s (%d,%d): presence mismatch", layer.name, x, y)
				}
				if w == nil {
					continue
				}
				if w.ID() != g.ID() || w.World != g.World || w.Angle != g.Angle || w.Layer != g.Layer {
					t.Errorf("%s (%d,%d): got %s@%v a=%v l=%d, want %s@%v a=%v l=%d", layer.name, x, y,
						g.ID(), g.World, g.Angle, g.Layer, w.ID(), w.World, w.Angle, w.Layer)
				}
			}
		}
	}

	if len(again.Spawns()) != len(l.Spawns()) {
		t.Fatalf("spawns = %d, want %d", len(again.Spawns()), len(l.Spawns()))
	}
	for i, s := range l.Spawns() {
		g := again.Spawns()[i]
		if g.World != s.World || g.TypeID != s.TypeID {
			t.Errorf("spawn %d = %+v, want %+v", i, g, s)
		}
	}

	c1, w1 := l.Counts()
	c2, w2 := again.Counts()
	if c1 != c2 || w1 != w2 {
		t.Errorf("counts = %d/%d, want %d/%d", c2, w2, c1, w1)
	}
}

func TestReadLayerDefaultsToGround(t *testing.T) {
	l := New(testDefs(t), 4, 4, 64)
	in := "tile,wall,32,32,0\ntile,flowers,96,32,0,1\naiSpawn,0,160,160\n"
	if err := l.Read(strings.NewReader(in)); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if g := l.Ground().At(0, 0); g == nil || g.ID() != "wall" || g.Layer != 0 {
		t.Errorf("ground (0,0) = %+v, want wall on layer 0", g)
	}
	if top := l.Top().At(1, 0); top == nil || top.ID() != "flowers" {
		t.Errorf("top (1,0) = %+v, want flowers", top)
	}
	if l.Ground().At(1, 0) != nil {
		t.Error("layer 1 tile must not occupy the ground grid")
	}
	if len(l.Spawns()) != 1 || l.Spawns()[0].World != (r2.Vec{X: 160, Y: 160}) {
		t.Errorf("spawns = %+v", l.Spawns())
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"unknown tile", "tile,grass,32,32,0\ntile,lava,96,32,0\n", ErrUnknownTile},
		{"bad kind", "door,grass,32,32,0\n", ErrMalformedRecord},
		{"bad number", "tile,grass,abc,32,0\n", ErrMalformedRecord},
		{"too many fields", "tile,grass,32,32,0,0,7\n", ErrMalformedRecord},
		{"bad layer", "tile,grass,32,32,0,3\n", ErrMalformedRecord},
		{"outside grid", "tile,grass,9000,32,0\n", ErrMalformedRecord},
		{"bad spawn type", "aiSpawn,boss,32,32\n", ErrMalformedRecord},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := New(testDefs(t), 4, 4, 64)
			err := l.Read(strings.NewReader(tc.in))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if c, w := l.Counts(); c+w != 0 {
				t.Error("failed load must leave the level empty")
			}
		})
	}
}

func TestUnknownTileNamesLine(t *testing.T) {
	l := New(testDefs(t), 4, 4, 64)
	err := l.Read(strings.NewReader("tile,grass,32,32,0\ntile,lava,96,32,0\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), "lava") {
		t.Errorf("err = %v, want line number and id", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := New(testDefs(t), 4, 4, 64)
	loaded, err := l.Load(filepath.Join(t.TempDir(), "missing.csv"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if loaded {
		t.Error("loaded should be false")
	}
}

func TestReadEmpty(t *testing.T) {
	l := New(testDefs(t), 4, 4, 64)
	if err := l.Read(strings.NewReader("")); err != nil {
		t.Errorf("empty input: %v", err)
	}
}

func TestWriteFormat(t *testing.T) {
	l := New(testDefs(t), 2, 1, 64)
	if err := l.SetTile(0, 0, "grass", 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := l.SetTile(1, 0, "wall", 90, 0); err != nil {
		t.Fatal(err)
	}
	l.AddSpawn(r2.Vec{X: 10, Y: 10}, 2)

	var buf bytes.Buffer
	if err := l.Write(&buf); err != nil {
		t.Fatal(err)
	}
	want := "tile,grass,32,32,0,0\ntile,wall,96,32,90,0\naiSpawn,2,32,32\n"
	if buf.String() != want {
		t.Errorf("Write =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestSetTileUpdatesCounts(t *testing.T) {
	l := New(testDefs(t), 2, 2, 64)
	if err := l.Fill("grass"); err != nil {
		t.Fatal(err)
	}
	if c, w := l.Counts(); c != 0 || w != 4 {
		t.Fatalf("counts = %d/%d, want 0/4", c, w)
	}
	if err := l.SetTile(0, 1, "wall", 0, 0); err != nil {
		t.Fatal(err)
	}
	if c, w := l.Counts(); c != 1 || w != 3 {
		t.Errorf("counts = %d/%d, want 1/3", c, w)
	}
	if err := l.SetTile(0, 1, "lava", 0, 0); !errors.Is(err, ErrUnknownTile) {
		t.Errorf("unknown id err = %v", err)
	}
	if err := l.SetTile(5, 5, "wall", 0, 0); err == nil {
		t.Error("out of bounds should error")
	}
}

func TestSpawnEditing(t *testing.T) {
	l := New(testDefs(t), 4, 4, 64)

	if !l.AddSpawn(r2.Vec{X: 70, Y: 70}, 0) {
		t.Fatal("first spawn should be added")
	}
	if l.Spawns()[0].World != (r2.Vec{X: 96, Y: 96}) {
		t.Errorf("spawn snapped to %v, want cell centre (96,96)", l.Spawns()[0].World)
	}
	if l.AddSpawn(r2.Vec{X: 100, Y: 120}, 1) {
		t.Error("second spawn in the same cell must be rejected")
	}
	if l.AddSpawn(r2.Vec{X: -5, Y: 10}, 1) {
		t.Error("spawn outside the grid must be rejected")
	}
	if !l.RemoveSpawn(r2.Vec{X: 65, Y: 127}) {
		t.Error("RemoveSpawn should find the spawn by cell")
	}
	if len(l.Spawns()) != 0 {
		t.Errorf("spawns = %d, want 0", len(l.Spawns()))
	}
}

func TestPlayerStart(t *testing.T) {
	l := New(testDefs(t), 4, 4, 64)
	if _, ok := l.PlayerStart(); ok {
		t.Error("empty level has no start")
	}
	if err := l.Fill("wall"); err != nil {
		t.Fatal(err)
	}
	if err := l.SetTile(2, 3, "grass", 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := l.SetTile(0, 0, "grass", 0, 0); err != nil {
		t.Fatal(err)
	}
	start, ok := l.PlayerStart()
	if !ok || start != (r2.Vec{X: 160, Y: 224}) {
		t.Errorf("start = %v, %v; want (160,224)", start, ok)
	}
}

func TestVisibleSetFollowsWindow(t *testing.T) {
	l := New(testDefs(t), 32, 64, 64)
	if err := l.Fill("grass"); err != nil {
		t.Fatal(err)
	}
	vp := camera.New(32, 64, 64, 1024, 488)

	if got := l.UpdateOffset(vp, r2.Vec{X: 1024, Y: 2048}); got != camera.ChangeWindow {
		t.Fatalf("first update = %v, want window", got)
	}
	win := vp.Window()
	want := (win.EndX - win.ZeroX) * (win.EndY - win.ZeroY)
	if len(l.Visible()) != want {
		t.Fatalf("visible = %d, want %d", len(l.Visible()), want)
	}
	for _, tile := range l.Visible() {
		if !win.Contains(tile.CellX, tile.CellY) {
			t.Fatalf("tile (%d,%d) outside window %+v", tile.CellX, tile.CellY, win)
		}
		want := r2.Sub(tile.World, vp.Offset().Vec())
		if tile.ScreenPos() != want {
			t.Fatalf("screen pos = %v, want %v", tile.ScreenPos(), want)
		}
	}

	// Sub-tile scroll refreshes screen positions without a rebuild.
	first := l.Visible()[0]
	before := first.ScreenPos()
	if got := l.UpdateOffset(vp, r2.Vec{X: 1026, Y: 2048}); got != camera.ChangeScroll {
		t.Fatalf("scroll update = %v", got)
	}
	if l.Visible()[0] != first || first.ScreenPos().X != before.X-2 {
		t.Errorf("scroll: pos %v, want x %v", first.ScreenPos(), before.X-2)
	}

	// Editing the grid forces a rebuild even without movement.
	if err := l.SetTile(first.CellX, first.CellY, "wall", 0, 0); err != nil {
		t.Fatal(err)
	}
	if got := l.UpdateOffset(vp, r2.Vec{X: 1026, Y: 2048}); got != camera.ChangeWindow {
		t.Errorf("after edit = %v, want window", got)
	}
	if l.Visible()[0].ID() != "wall" {
		t.Errorf("visible[0] = %q, want the new wall", l.Visible()[0].ID())
	}
}

func TestVisibleSkipsHoles(t *testing.T) {
	l := New(testDefs(t), 4, 4, 64)
	if err := l.SetTile(1, 1, "grass", 0, 0); err != nil {
		t.Fatal(err)
	}
	vp := camera.New(4, 4, 64, 1024, 488)
	l.UpdateOffset(vp, r2.Vec{})
	if len(l.Visible()) != 1 {
		t.Errorf("visible = %d, want only the single placed tile", len(l.Visible()))
	}
}

func TestTileRotationAndHit(t *testing.T) {
	defs := testDefs(t)
	half, _ := defs.Get("wall_half")

	// wall_half covers the top half of its cell; rotated 180 it covers the
	// bottom half.
	tile := NewTile(half, 0, 0, r2.Vec{X: 32, Y: 32}, 180, 0)
	b, ok := tile.Bounds()
	if !ok || b.Min != (r2.Vec{X: 0, Y: 32}) || b.Max != (r2.Vec{X: 64, Y: 64}) {
		t.Fatalf("bounds = %+v, want bottom half", b)
	}

	top := r2.Box{Min: r2.Vec{X: 30, Y: 5}, Max: r2.Vec{X: 36, Y: 11}}
	bottom := r2.Box{Min: r2.Vec{X: 30, Y: 50}, Max: r2.Vec{X: 36, Y: 56}}
	if tile.TestProjectileHit(top) {
		t.Error("projectile in the open half should not hit")
	}
	if !tile.TestProjectileHit(bottom) {
		t.Error("projectile in the wall half should hit")
	}

	grass, _ := defs.Get("grass")
	if NewTile(grass, 0, 0, r2.Vec{X: 32, Y: 32}, 0, 0).TestProjectileHit(bottom) {
		t.Error("walkable tiles never stop projectiles")
	}
}
