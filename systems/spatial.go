// Package systems contains the per-tick simulation systems: collision
// resolution, projectiles, explosions, monster AI and pick-ups.
package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/components"
)

// Neighbor is an actor found by a radius query, with its squared distance
// from the query origin.
type Neighbor struct {
	Actor  *components.Actor
	DistSq float64
}

// SpatialGrid buckets actors by world position for radius queries. It is
// rebuilt from the actor lists whenever they change within a tick.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]*components.Actor
}

// NewSpatialGrid creates a grid covering a width x height world.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]*components.Actor, cols*rows)
	for i := range cells {
		cells[i] = make([]*components.Actor, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all actors from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an actor at its current world position.
func (g *SpatialGrid) Insert(a *components.Actor) {
	idx := g.cellIndex(a.World)
	g.cells[idx] = append(g.cells[idx], a)
}

// MaxQueryResults is the usual cap for queries that only need some
// neighbors.
const MaxQueryResults = 64

// QueryRadiusInto appends actors whose centre lies within radius of p to dst,
// skipping exclude. It stops once dst holds limit entries; limit <= 0 means
// no cap. Results are in cell order, not distance order, so a caller that
// needs the nearest actor must not cap. Reuse dst across calls to avoid
// allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, p r2.Vec, radius float64, exclude *components.Actor, limit int) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1
	centreCol := int(p.X / g.cellSize)
	centreRow := int(p.Y / g.cellSize)
	radiusSq := radius * radius

	for dc := -cellRadius; dc <= cellRadius; dc++ {
		col := centreCol + dc
		if col < 0 || col >= g.cols {
			continue
		}
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			row := centreRow + dr
			if row < 0 || row >= g.rows {
				continue
			}
			for _, a := range g.cells[row*g.cols+col] {
				if a == exclude {
					continue
				}
				dx := a.World.X - p.X
				dy := a.World.Y - p.Y
				if d := dx*dx + dy*dy; d <= radiusSq {
					dst = append(dst, Neighbor{Actor: a, DistSq: d})
					if limit > 0 && len(dst) >= limit {
						return dst
					}
				}
			}
		}
	}
	return dst
}

// cellIndex returns the flat index for a world position, clamped to the grid.
func (g *SpatialGrid) cellIndex(p r2.Vec) int {
	col := min(max(int(p.X/g.cellSize), 0), g.cols-1)
	row := min(max(int(p.Y/g.cellSize), 0), g.rows-1)
	return row*g.cols + col
}
