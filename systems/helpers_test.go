package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/camera"
	"github.com/pthm-cable/timeruns/level"
)

const eps = 1e-9

const testTilesYAML = `
tiles:
  - id: floor
    collidable: false
  - id: wall
    collidable: true
    shapes:
      - kind: rect
        x: -32
        y: -32
        w: 64
        h: 64
  - id: post
    collidable: true
    shapes:
      - kind: circle
        x: 0
        y: 0
        radius: 20
`

// testWorld builds a w x h floor level with the given cells replaced, and a
// viewport scrolled to focus.
func testWorld(t *testing.T, w, h int, focus r2.Vec, cells map[[2]int]string) (*level.Level, *camera.Viewport) {
	t.Helper()
	defs, err := level.ParseTileDefs([]byte(testTilesYAML))
	if err != nil {
		t.Fatalf("ParseTileDefs: %v", err)
	}
	l := level.New(defs, w, h, 64)
	if err := l.Fill("floor"); err != nil {
		t.Fatal(err)
	}
	for c, id := range cells {
		if err := l.SetTile(c[0], c[1], id, 0, 0); err != nil {
			t.Fatal(err)
		}
	}
	vp := camera.New(w, h, 64, 1024, 488)
	l.UpdateOffset(vp, focus)
	return l, vp
}
