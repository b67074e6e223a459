// Package camera provides the scrolling viewport into the tile world.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Offset is the integer scroll offset of the viewport in world pixels.
type Offset struct {
	X, Y int
}

// Vec returns the offset as a world-space vector.
func (o Offset) Vec() r2.Vec {
	return r2.Vec{X: float64(o.X), Y: float64(o.Y)}
}

// Window is the visible tile window [ZeroX, EndX) x [ZeroY, EndY).
type Window struct {
	ZeroX, ZeroY int
	EndX, EndY   int
}

// Empty reports whether the window contains no cells.
func (w Window) Empty() bool {
	return w.EndX <= w.ZeroX || w.EndY <= w.ZeroY
}

// Contains reports whether the grid cell (x, y) is inside the window.
func (w Window) Contains(x, y int) bool {
	return x >= w.ZeroX && x < w.EndX && y >= w.ZeroY && y < w.EndY
}

// Change describes what an UpdateOffset call did.
type Change uint8

const (
	// ChangeNone: the offset did not move.
	ChangeNone Change = iota
	// ChangeScroll: the offset moved inside the same tile window; only
	// screen positions need refreshing.
	ChangeScroll
	// ChangeWindow: the tile window moved (or this is the first update);
	// the visible set must be rebuilt.
	ChangeWindow
)

func (c Change) String() string {
	switch c {
	case ChangeNone:
		return "none"
	case ChangeScroll:
		return "scroll"
	case ChangeWindow:
		return "window"
	default:
		return "unknown"
	}
}

// Viewport maps a moving focus point to a clamped scroll offset and tracks
// which tiles are visible. It is the only writer of the offset and window.
type Viewport struct {
	// Tile edge length in pixels
	TileSize int

	// Grid extents in tiles
	GridW, GridH int

	// Play area (screen minus HUD) in pixels
	PlayW, PlayH int

	offset Offset
	window Window
	centre r2.Vec // screen point the focus is held at

	initialised bool
}

// New creates a viewport for a gridW x gridH tile level viewed through a
// playW x playH play area. The focus is held at the centre of the play area
// until clamping pins the view to a level edge.
func New(gridW, gridH, tileSize, playW, playH int) *Viewport {
	v := &Viewport{
		TileSize: tileSize,
		GridW:    gridW,
		GridH:    gridH,
	}
	v.Resize(playW, playH)
	return v
}

// LevelSize returns the level size in pixels.
func (v *Viewport) LevelSize() (w, h int) {
	return v.GridW * v.TileSize, v.GridH * v.TileSize
}

// Offset returns the current scroll offset.
func (v *Viewport) Offset() Offset {
	return v.offset
}

// Window returns the current visible tile window.
func (v *Viewport) Window() Window {
	return v.window
}

// Resize changes the play area. The next UpdateOffset rebuilds the window.
func (v *Viewport) Resize(playW, playH int) {
	v.PlayW = playW
	v.PlayH = playH
	v.centre = r2.Vec{X: float64(playW) / 2, Y: float64(playH) / 2}
	v.initialised = false
}

// Invalidate forces the next UpdateOffset to report ChangeWindow, used after
// the grid contents change under an unchanged window.
func (v *Viewport) Invalidate() {
	v.initialised = false
}

// ClampOffset computes the offset that keeps focus at the play-area centre,
// clamped so the view never leaves the level.
func (v *Viewport) ClampOffset(focus r2.Vec) Offset {
	levelW, levelH := v.LevelSize()
	return Offset{
		X: clamp(int(focus.X-v.centre.X), 0, max(0, levelW-v.PlayW)),
		Y: clamp(int(focus.Y-v.centre.Y), 0, max(0, levelH-v.PlayH)),
	}
}

// UpdateOffset moves the view to follow focus (world space).
//
// Moving to a new tile window is the expensive case (ChangeWindow): callers
// rebuild their visible set. Sub-tile scrolling is the cheap case
// (ChangeScroll): callers only refresh screen positions.
func (v *Viewport) UpdateOffset(focus r2.Vec) Change {
	next := v.ClampOffset(focus)
	if v.initialised && next == v.offset {
		return ChangeNone
	}

	v.offset = next
	win := v.computeWindow()
	if !v.initialised || win != v.window {
		v.initialised = true
		v.window = win
		return ChangeWindow
	}
	return ChangeScroll
}

// computeWindow derives the visible tile window for the current offset.
func (v *Viewport) computeWindow() Window {
	ts := v.TileSize
	zx := v.offset.X / ts
	zy := v.offset.Y / ts

	// One extra tile covers the partially visible column/row at the far edge.
	tilesX := int(math.Ceil(float64(v.PlayW)/float64(ts))) + 1
	tilesY := int(math.Ceil(float64(v.PlayH)/float64(ts))) + 1

	return Window{
		ZeroX: clamp(zx, 0, max(0, v.GridW-1)),
		ZeroY: clamp(zy, 0, max(0, v.GridH-1)),
		EndX:  clamp(zx+tilesX, 0, v.GridW),
		EndY:  clamp(zy+tilesY, 0, v.GridH),
	}
}

// WorldToScreen converts a world position to screen space.
func (v *Viewport) WorldToScreen(p r2.Vec) r2.Vec {
	return r2.Sub(p, v.offset.Vec())
}

// ScreenToWorld converts a screen position to world space.
func (v *Viewport) ScreenToWorld(p r2.Vec) r2.Vec {
	return r2.Add(p, v.offset.Vec())
}

// CellCentre returns the world-space centre of grid cell (x, y).
func (v *Viewport) CellCentre(x, y int) r2.Vec {
	half := float64(v.TileSize) / 2
	return r2.Vec{
		X: float64(x*v.TileSize) + half,
		Y: float64(y*v.TileSize) + half,
	}
}

// CellAt returns the grid cell containing world position p.
func (v *Viewport) CellAt(p r2.Vec) (x, y int) {
	return int(math.Floor(p.X / float64(v.TileSize))), int(math.Floor(p.Y / float64(v.TileSize)))
}

// Bounds returns the level rectangle in world space.
func (v *Viewport) Bounds() r2.Box {
	w, h := v.LevelSize()
	return r2.Box{Max: r2.Vec{X: float64(w), Y: float64(h)}}
}

// InWindow reports whether the cell containing p is in the tile window.
func (v *Viewport) InWindow(p r2.Vec) bool {
	return v.window.Contains(v.CellAt(p))
}

// IsVisible returns true if a circle at world position p with the given
// radius overlaps the play area (conservative check for culling).
func (v *Viewport) IsVisible(p r2.Vec, radius float64) bool {
	s := v.WorldToScreen(p)
	return s.X+radius >= 0 && s.Y+radius >= 0 &&
		s.X-radius <= float64(v.PlayW) && s.Y-radius <= float64(v.PlayH)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
