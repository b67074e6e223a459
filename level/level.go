// Package level holds the tile grid, AI spawn points and the visible tile
// set that collision and rendering iterate.
package level

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/camera"
)

// Spawn is a monster spawn point.
type Spawn struct {
	World  r2.Vec
	TypeID int
	Screen r2.Vec
}

// Grid is one layer of tiles, indexed [x][y]. Cells may be nil.
type Grid struct {
	W, H  int
	cells []*Tile
}

// NewGrid creates an empty w x h grid.
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, cells: make([]*Tile, w*h)}
}

// InBounds reports whether (x, y) is a valid cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// At returns the tile at (x, y), or nil when empty or out of bounds.
func (g *Grid) At(x, y int) *Tile {
	if !g.InBounds(x, y) {
		return nil
	}
	return g.cells[x*g.H+y]
}

// Set places t at (x, y) and returns the tile it replaced.
func (g *Grid) Set(x, y int, t *Tile) *Tile {
	i := x*g.H + y
	old := g.cells[i]
	g.cells[i] = t
	return old
}

// Clear empties every cell.
func (g *Grid) Clear() {
	clear(g.cells)
}

// Level is the tile world: a ground layer that takes part in collision, a
// decorative top layer, and the AI spawn list.
type Level struct {
	Defs     *TileDefs
	TileSize int

	ground *Grid
	top    *Grid
	spawns []Spawn

	collidable int
	walkable   int

	visible    []*Tile
	visibleTop []*Tile
	dirty      bool
}

// New creates an empty level of w x h tiles.
func New(defs *TileDefs, w, h, tileSize int) *Level {
	return &Level{
		Defs:     defs,
		TileSize: tileSize,
		ground:   NewGrid(w, h),
		top:      NewGrid(w, h),
		dirty:    true,
	}
}

// Size returns the grid extents in tiles.
func (l *Level) Size() (w, h int) {
	return l.ground.W, l.ground.H
}

// Ground returns the collision layer.
func (l *Level) Ground() *Grid { return l.ground }

// Top returns the decorative layer.
func (l *Level) Top() *Grid { return l.top }

// Counts returns the number of collidable and walkable ground tiles.
func (l *Level) Counts() (collidable, walkable int) {
	return l.collidable, l.walkable
}

// CellCentre returns the world centre of a cell.
func (l *Level) CellCentre(x, y int) r2.Vec {
	half := float64(l.TileSize) / 2
	return r2.Vec{X: float64(x*l.TileSize) + half, Y: float64(y*l.TileSize) + half}
}

// CellAt returns the cell containing a world position.
func (l *Level) CellAt(p r2.Vec) (x, y int) {
	ts := float64(l.TileSize)
	return int(math.Floor(p.X / ts)), int(math.Floor(p.Y / ts))
}

// Reset removes every tile and spawn.
func (l *Level) Reset() {
	l.ground.Clear()
	l.top.Clear()
	l.spawns = nil
	l.collidable, l.walkable = 0, 0
	l.visible = l.visible[:0]
	l.visibleTop = l.visibleTop[:0]
	l.dirty = true
}

// Fill replaces every ground cell with the given tile at angle 0.
func (l *Level) Fill(id string) error {
	def, ok := l.Defs.Get(id)
	if !ok {
		return fmt.Errorf("fill with %q: %w", id, ErrUnknownTile)
	}
	w, h := l.Size()
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			l.place(NewTile(def, x, y, l.CellCentre(x, y), 0, 0))
		}
	}
	return nil
}

// SetTile replaces the tile at a cell. The visible set is rebuilt on the next
// UpdateOffset.
func (l *Level) SetTile(x, y int, id string, angle float64, layer int) error {
	def, ok := l.Defs.Get(id)
	if !ok {
		return fmt.Errorf("set tile (%d,%d): %q: %w", x, y, id, ErrUnknownTile)
	}
	if !l.ground.InBounds(x, y) {
		return fmt.Errorf("set tile (%d,%d): outside %dx%d grid", x, y, l.ground.W, l.ground.H)
	}
	if layer != 0 && layer != 1 {
		return fmt.Errorf("set tile (%d,%d): invalid layer %d", x, y, layer)
	}
	l.place(NewTile(def, x, y, l.CellCentre(x, y), angle, layer))
	return nil
}

func (l *Level) place(t *Tile) {
	if t.Layer == 1 {
		l.top.Set(t.CellX, t.CellY, t)
		l.dirty = true
		return
	}
	if old := l.ground.Set(t.CellX, t.CellY, t); old != nil {
		l.count(old, -1)
	}
	l.count(t, 1)
	l.dirty = true
}

func (l *Level) count(t *Tile, n int) {
	if t.Def.Collidable {
		l.collidable += n
	} else {
		l.walkable += n
	}
}

// Spawns returns the AI spawn points.
func (l *Level) Spawns() []Spawn {
	return l.spawns
}

// AddSpawn adds a spawn point at the centre of the cell containing world.
// A cell holds at most one spawn; false is returned when one already exists
// or the position is outside the grid.
func (l *Level) AddSpawn(world r2.Vec, typeID int) bool {
	x, y := l.CellAt(world)
	if !l.ground.InBounds(x, y) {
		return false
	}
	c := l.CellCentre(x, y)
	for _, s := range l.spawns {
		if s.World == c {
			return false
		}
	}
	l.spawns = append(l.spawns, Spawn{World: c, TypeID: typeID})
	return true
}

// RemoveSpawn removes the spawn in the cell containing world.
func (l *Level) RemoveSpawn(world r2.Vec) bool {
	x, y := l.CellAt(world)
	c := l.CellCentre(x, y)
	for i, s := range l.spawns {
		if s.World == c {
			l.spawns = append(l.spawns[:i], l.spawns[i+1:]...)
			return true
		}
	}
	return false
}

// PlayerStart returns the centre of the walkable ground tile nearest the
// bottom-centre of the level. ok is false when no tile is walkable.
func (l *Level) PlayerStart() (r2.Vec, bool) {
	w, h := l.Size()
	target := r2.Vec{X: float64(w*l.TileSize) / 2, Y: float64(h * l.TileSize)}

	best := math.Inf(1)
	var start r2.Vec
	found := false
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			t := l.ground.At(x, y)
			if t == nil || t.Def.Collidable {
				continue
			}
			if d := r2.Norm(r2.Sub(target, t.World)); d < best {
				best = d
				start = t.World
				found = true
			}
		}
	}
	return start, found
}

// UpdateOffset moves the viewport to follow focus and brings the visible tile
// set up to date. A window change (or a grid edit) rebuilds the set; a
// sub-tile scroll only refreshes screen positions.
func (l *Level) UpdateOffset(vp *camera.Viewport, focus r2.Vec) camera.Change {
	if l.dirty {
		vp.Invalidate()
	}
	change := vp.UpdateOffset(focus)
	switch change {
	case camera.ChangeWindow:
		l.rebuild(vp)
	case camera.ChangeScroll:
		l.refresh(vp.Offset())
	}
	return change
}

// rebuild repopulates the visible sets for exactly the current window.
func (l *Level) rebuild(vp *camera.Viewport) {
	l.dirty = false
	l.visible = l.visible[:0]
	l.visibleTop = l.visibleTop[:0]

	win := vp.Window()
	off := vp.Offset()
	for x := win.ZeroX; x < win.EndX; x++ {
		for y := win.ZeroY; y < win.EndY; y++ {
			t := l.ground.At(x, y)
			if t == nil {
				slog.Warn("missing tile in visible window", "tile_x", x, "tile_y", y)
				continue
			}
			t.UpdateScreen(off)
			l.visible = append(l.visible, t)

			if top := l.top.At(x, y); top != nil {
				top.UpdateScreen(off)
				l.visibleTop = append(l.visibleTop, top)
			}
		}
	}
	l.refreshSpawns(off)
}

func (l *Level) refresh(off camera.Offset) {
	for _, t := range l.visible {
		t.UpdateScreen(off)
	}
	for _, t := range l.visibleTop {
		t.UpdateScreen(off)
	}
	l.refreshSpawns(off)
}

func (l *Level) refreshSpawns(off camera.Offset) {
	for i := range l.spawns {
		l.spawns[i].Screen = r2.Sub(l.spawns[i].World, off.Vec())
	}
}

// Visible returns the ground tiles in the current window. Only these tiles
// take part in collision.
func (l *Level) Visible() []*Tile {
	return l.visible
}

// VisibleTop returns the decorative tiles in the current window.
func (l *Level) VisibleTop() []*Tile {
	return l.visibleTop
}
