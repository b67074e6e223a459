package level

import (
	_ "embed"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/timeruns/geom"
)

//go:embed tiles.yaml
var defaultTilesYAML []byte

// ShapeDef is one collision primitive of a tile definition, in the tile's
// unrotated local frame (origin at the tile centre).
type ShapeDef struct {
	Kind   string  `yaml:"kind"` // "circle" or "rect"
	X      float64 `yaml:"x"`    // circle centre, or rect top-left
	Y      float64 `yaml:"y"`
	W      float64 `yaml:"w,omitempty"`
	H      float64 `yaml:"h,omitempty"`
	Radius float64 `yaml:"radius,omitempty"`
}

// Shape converts the definition to a geometry primitive.
func (d ShapeDef) Shape() (geom.Shape, error) {
	switch d.Kind {
	case "circle":
		return geom.Circle(r2.Vec{X: d.X, Y: d.Y}, d.Radius), nil
	case "rect":
		return geom.Rect(r2.Vec{X: d.X, Y: d.Y}, r2.Vec{X: d.X + d.W, Y: d.Y + d.H}), nil
	default:
		return geom.Shape{}, fmt.Errorf("unknown shape kind %q", d.Kind)
	}
}

// TileDef is the immutable template shared by every tile placed with the
// same id.
type TileDef struct {
	ID         string     `yaml:"id"`
	Sprite     [2]int     `yaml:"sprite"`
	Collidable bool       `yaml:"collidable"`
	ShapeDefs  []ShapeDef `yaml:"shapes"`

	shapes []geom.Shape
}

// Shapes returns the local-frame collision primitives.
func (d *TileDef) Shapes() []geom.Shape {
	return d.shapes
}

// TileDefs is the tile definition catalogue, keyed by id.
type TileDefs struct {
	byID  map[string]*TileDef
	order []string
}

type tileFile struct {
	Tiles []*TileDef `yaml:"tiles"`
}

// LoadTileDefs reads a tile catalogue from path, or the embedded catalogue
// when path is empty.
func LoadTileDefs(path string) (*TileDefs, error) {
	data := defaultTilesYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading tile definitions: %w", err)
		}
	}
	defs, err := ParseTileDefs(data)
	if err != nil {
		return nil, fmt.Errorf("tile definitions %q: %w", path, err)
	}
	return defs, nil
}

// ParseTileDefs decodes a YAML tile catalogue.
func ParseTileDefs(data []byte) (*TileDefs, error) {
	var f tileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if len(f.Tiles) == 0 {
		return nil, fmt.Errorf("no tiles defined")
	}

	defs := &TileDefs{byID: make(map[string]*TileDef, len(f.Tiles))}
	for _, d := range f.Tiles {
		if d.ID == "" {
			return nil, fmt.Errorf("tile with empty id")
		}
		if _, dup := defs.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate tile id %q", d.ID)
		}
		for i, sd := range d.ShapeDefs {
			s, err := sd.Shape()
			if err != nil {
				return nil, fmt.Errorf("tile %q shape %d: %w", d.ID, i, err)
			}
			d.shapes = append(d.shapes, s)
		}
		defs.byID[d.ID] = d
		defs.order = append(defs.order, d.ID)
	}
	return defs, nil
}

// Get looks up a definition by id.
func (t *TileDefs) Get(id string) (*TileDef, bool) {
	d, ok := t.byID[id]
	return d, ok
}

// IDs returns every id in catalogue order.
func (t *TileDefs) IDs() []string {
	return t.order
}

// First returns the first definition in the catalogue.
func (t *TileDefs) First() *TileDef {
	return t.byID[t.order[0]]
}
