package level

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/camera"
	"github.com/pthm-cable/timeruns/geom"
)

// Tile is a definition placed at a grid cell. Its collision shapes are
// rotated once at creation and translated to screen space whenever the
// viewport offset changes.
type Tile struct {
	Def   *TileDef
	CellX int
	CellY int
	World r2.Vec  // cell centre
	Angle float64 // degrees, counter-clockwise on screen
	Layer int

	local  []geom.Shape // rotated, relative to the tile centre
	screen []geom.Shape
	bounds r2.Box
	pos    r2.Vec // screen centre
}

// NewTile places def at the given cell. world must be the cell centre.
func NewTile(def *TileDef, cellX, cellY int, world r2.Vec, angle float64, layer int) *Tile {
	t := &Tile{
		Def:   def,
		CellX: cellX,
		CellY: cellY,
		World: world,
		Angle: angle,
		Layer: layer,
	}
	for _, s := range def.Shapes() {
		if s.Degenerate() {
			continue
		}
		t.local = append(t.local, s.Rotate(angle))
	}
	t.screen = make([]geom.Shape, len(t.local))
	t.UpdateScreen(camera.Offset{})
	return t
}

// ID returns the definition id.
func (t *Tile) ID() string {
	return t.Def.ID
}

// Collidable reports whether the tile blocks actors and projectiles.
func (t *Tile) Collidable() bool {
	return t.Def.Collidable && len(t.local) > 0
}

// UpdateScreen recomputes the screen-space shapes for a viewport offset.
func (t *Tile) UpdateScreen(off camera.Offset) {
	t.pos = r2.Sub(t.World, off.Vec())
	for i, s := range t.local {
		t.screen[i] = s.Translate(t.pos)
		if i == 0 {
			t.bounds = t.screen[i].Bounds()
		} else {
			t.bounds = geom.BoxUnion(t.bounds, t.screen[i].Bounds())
		}
	}
}

// ScreenPos returns the tile centre in screen space.
func (t *Tile) ScreenPos() r2.Vec {
	return t.pos
}

// Shapes returns the current screen-space collision shapes.
func (t *Tile) Shapes() []geom.Shape {
	return t.screen
}

// Bounds returns the union of the screen-space shape bounds. ok is false for
// tiles without shapes.
func (t *Tile) Bounds() (b r2.Box, ok bool) {
	return t.bounds, len(t.screen) > 0
}

// TestProjectileHit reports whether any corner of a screen-space projectile
// box lies inside one of the tile's shapes.
func (t *Tile) TestProjectileHit(box r2.Box) bool {
	if !t.Collidable() {
		return false
	}
	if b, _ := t.Bounds(); !geom.BoxesOverlap(b, box) {
		return false
	}
	corners := geom.BoxCorners(box)
	for _, s := range t.screen {
		for _, c := range corners {
			if s.ContainsPoint(c) {
				return true
			}
		}
	}
	return false
}
