package level

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrUnknownTile is returned when a record names a tile id that has no
	// definition.
	ErrUnknownTile = errors.New("unknown tile id")
	// ErrMalformedRecord is returned for records with a bad kind, field count
	// or number.
	ErrMalformedRecord = errors.New("malformed level record")
)

const (
	kindTile  = "tile"
	kindSpawn = "aiSpawn"

	maxFields = 6
)

// rawRecord receives one line of either record kind.
type rawRecord struct {
	Kind  string `csv:"kind"`
	ID    string `csv:"id"`
	X     string `csv:"x"`
	Y     string `csv:"y"`
	Angle string `csv:"angle"`
	Layer string `csv:"layer"`
}

// tileRecord is written as tile,<id>,<x>,<y>,<angle>,<layer>.
type tileRecord struct {
	Kind  string  `csv:"kind"`
	ID    string  `csv:"id"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	Angle float64 `csv:"angle"`
	Layer int     `csv:"layer"`
}

// spawnRecord is written as aiSpawn,<typeId>,<x>,<y>.
type spawnRecord struct {
	Kind   string  `csv:"kind"`
	TypeID int     `csv:"type_id"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
}

// recordReader is a variable-width CSV reader that rejects rows wider than
// a tile record.
type recordReader struct {
	r    *csv.Reader
	line int
}

func newRecordReader(in io.Reader) *recordReader {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return &recordReader{r: r}
}

func (rr *recordReader) Read() ([]string, error) {
	row, err := rr.r.Read()
	if err != nil {
		return nil, err
	}
	rr.line++
	if len(row) > maxFields {
		return nil, fmt.Errorf("line %d: %d fields: %w", rr.line, len(row), ErrMalformedRecord)
	}
	return row, nil
}

func (rr *recordReader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := rr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Load replaces the level contents with the records in path. A missing file
// is not an error: loaded is false and the level is left empty for the
// caller to fill with a default tile.
func (l *Level) Load(path string) (loaded bool, err error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.Reset()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opening level: %w", err)
	}
	defer f.Close()

	if err := l.Read(f); err != nil {
		return false, fmt.Errorf("level %s: %w", path, err)
	}
	return true, nil
}

// Read replaces the level contents with records from in. On error the level
// is left empty.
func (l *Level) Read(in io.Reader) error {
	l.Reset()

	var rows []rawRecord
	err := gocsv.UnmarshalCSVWithoutHeaders(newRecordReader(in), &rows)
	if errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return nil
	}
	if err != nil {
		return err
	}

	for i, rec := range rows {
		if err := l.apply(rec, i+1); err != nil {
			l.Reset()
			return err
		}
	}
	return nil
}

func (l *Level) apply(rec rawRecord, line int) error {
	switch rec.Kind {
	case kindTile:
		return l.applyTile(rec, line)
	case kindSpawn:
		return l.applySpawn(rec, line)
	default:
		return fmt.Errorf("line %d: record kind %q: %w", line, rec.Kind, ErrMalformedRecord)
	}
}

func (l *Level) applyTile(rec rawRecord, line int) error {
	def, ok := l.Defs.Get(rec.ID)
	if !ok {
		return fmt.Errorf("line %d: %q: %w", line, rec.ID, ErrUnknownTile)
	}
	pos, err := parseVec(rec.X, rec.Y, line)
	if err != nil {
		return err
	}
	angle, err := parseFloat(rec.Angle, "angle", line)
	if err != nil {
		return err
	}
	layer := 0
	if rec.Layer != "" {
		layer, err = strconv.Atoi(rec.Layer)
		if err != nil || (layer != 0 && layer != 1) {
			return fmt.Errorf("line %d: layer %q: %w", line, rec.Layer, ErrMalformedRecord)
		}
	}

	x, y := l.CellAt(pos)
	if !l.ground.InBounds(x, y) {
		return fmt.Errorf("line %d: position (%v,%v) outside grid: %w", line, pos.X, pos.Y, ErrMalformedRecord)
	}
	l.place(NewTile(def, x, y, pos, angle, layer))
	return nil
}

func (l *Level) applySpawn(rec rawRecord, line int) error {
	typeID, err := strconv.Atoi(rec.ID)
	if err != nil {
		return fmt.Errorf("line %d: spawn type %q: %w", line, rec.ID, ErrMalformedRecord)
	}
	pos, err := parseVec(rec.X, rec.Y, line)
	if err != nil {
		return err
	}
	l.spawns = append(l.spawns, Spawn{World: pos, TypeID: typeID})
	return nil
}

func parseVec(xs, ys string, line int) (r2.Vec, error) {
	x, err := parseFloat(xs, "x", line)
	if err != nil {
		return r2.Vec{}, err
	}
	y, err := parseFloat(ys, "y", line)
	if err != nil {
		return r2.Vec{}, err
	}
	return r2.Vec{X: x, Y: y}, nil
}

func parseFloat(s, field string, line int) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s %q: %w", line, field, s, ErrMalformedRecord)
	}
	return v, nil
}

// Save writes the level to path: ground tiles, then top tiles, then spawns.
func (l *Level) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating level file: %w", err)
	}
	if err := l.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing level %s: %w", path, err)
	}
	return f.Close()
}

// Write encodes the level as headerless CSV records.
func (l *Level) Write(out io.Writer) error {
	var tiles []tileRecord
	for _, g := range []*Grid{l.ground, l.top} {
		for _, t := range g.cells {
			if t == nil {
				continue
			}
			tiles = append(tiles, tileRecord{
				Kind:  kindTile,
				ID:    t.ID(),
				X:     t.World.X,
				Y:     t.World.Y,
				Angle: t.Angle,
				Layer: t.Layer,
			})
		}
	}

	spawns := make([]spawnRecord, 0, len(l.spawns))
	for _, s := range l.spawns {
		spawns = append(spawns, spawnRecord{Kind: kindSpawn, TypeID: s.TypeID, X: s.World.X, Y: s.World.Y})
	}

	w := gocsv.NewSafeCSVWriter(csv.NewWriter(out))
	if len(tiles) > 0 {
		if err := gocsv.MarshalCSVWithoutHeaders(tiles, w); err != nil {
			return fmt.Errorf("tile records: %w", err)
		}
	}
	if len(spawns) > 0 {
		if err := gocsv.MarshalCSVWithoutHeaders(spawns, w); err != nil {
			return fmt.Errorf("spawn records: %w", err)
		}
	}
	return nil
}
