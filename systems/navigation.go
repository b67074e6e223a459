package systems

import (
	"container/heap"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/level"
)

// NavGrid answers blocked-cell queries over a level's ground layer. A cell is
// blocked when its ground tile is collidable; cells outside the level are
// blocked. It reads the level live, so tile edits take effect immediately.
type NavGrid struct {
	level         *level.Level
	width, height int
	cellSize      float64
}

// NewNavGrid creates a navigation grid over l.
func NewNavGrid(l *level.Level) *NavGrid {
	w, h := l.Size()
	return &NavGrid{level: l, width: w, height: h, cellSize: float64(l.TileSize)}
}

// IsBlocked reports whether cell (x, y) cannot be walked through.
func (g *NavGrid) IsBlocked(x, y int) bool {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return true
	}
	t := g.level.Ground().At(x, y)
	return t != nil && t.Collidable()
}

// IsBlockedWorld reports whether the cell containing p is blocked.
func (g *NavGrid) IsBlockedWorld(p r2.Vec) bool {
	return g.IsBlocked(g.WorldToGrid(p))
}

// WorldToGrid returns the cell containing p.
func (g *NavGrid) WorldToGrid(p r2.Vec) (x, y int) {
	return int(math.Floor(p.X / g.cellSize)), int(math.Floor(p.Y / g.cellSize))
}

// GridToWorld returns the centre of cell (x, y).
func (g *NavGrid) GridToWorld(x, y int) r2.Vec {
	return r2.Vec{X: (float64(x) + 0.5) * g.cellSize, Y: (float64(y) + 0.5) * g.cellSize}
}

// AStarPlanner finds monster paths around collidable tiles.
type AStarPlanner struct {
	grid *NavGrid

	// Reusable data structures (cleared between searches)
	openHeap  nodeHeap
	closedSet map[int]struct{}
	cameFrom  map[int]int
	gScore    map[int]float64
}

// astarNode is a node in the A* search.
type astarNode struct {
	gx, gy int
	f      float64 // f = g + h (priority)
	index  int     // heap index
}

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[:n-1]
	return node
}

// NewAStarPlanner creates a planner over grid.
func NewAStarPlanner(grid *NavGrid) *AStarPlanner {
	return &AStarPlanner{
		grid:      grid,
		closedSet: make(map[int]struct{}, 256),
		cameFrom:  make(map[int]int, 256),
		gScore:    make(map[int]float64, 256),
	}
}

// Grid returns the navigation grid the planner searches.
func (a *AStarPlanner) Grid() *NavGrid {
	return a.grid
}

// FindPath computes a path from start to goal. Waypoints are cell centres
// in world coordinates, simplified so that consecutive waypoints have line
// of sight; the first waypoint is the start cell. Returns nil when no path
// exists.
func (a *AStarPlanner) FindPath(start, goal r2.Vec) []r2.Vec {
	grid := a.grid
	startGX, startGY := grid.WorldToGrid(start)
	goalGX, goalGY := grid.WorldToGrid(goal)

	if grid.IsBlocked(startGX, startGY) {
		if startGX, startGY = a.findNearestOpen(startGX, startGY); startGX < 0 {
			return nil
		}
	}
	if grid.IsBlocked(goalGX, goalGY) {
		if goalGX, goalGY = a.findNearestOpen(goalGX, goalGY); goalGX < 0 {
			return nil
		}
	}

	if startGX == goalGX && startGY == goalGY {
		return []r2.Vec{grid.GridToWorld(goalGX, goalGY)}
	}

	a.openHeap = a.openHeap[:0]
	clear(a.closedSet)
	clear(a.cameFrom)
	clear(a.gScore)

	startID := startGY*grid.width + startGX
	goalID := goalGY*grid.width + goalGX

	a.gScore[startID] = 0
	heap.Push(&a.openHeap, &astarNode{gx: startGX, gy: startGY, f: heuristic(startGX, startGY, goalGX, goalGY)})

	maxIterations := grid.width * grid.height
	for iterations := 0; a.openHeap.Len() > 0 && iterations < maxIterations; iterations++ {
		current := heap.Pop(&a.openHeap).(*astarNode)
		currentID := current.gy*grid.width + current.gx
		if currentID == goalID {
			return a.reconstructPath(startID, goalID)
		}
		if _, done := a.closedSet[currentID]; done {
			continue
		}
		a.closedSet[currentID] = struct{}{}

		neighbors := [8][2]int{
			{current.gx - 1, current.gy},     // W
			{current.gx + 1, current.gy},     // E
			{current.gx, current.gy - 1},     // N
			{current.gx, current.gy + 1},     // S
			{current.gx - 1, current.gy - 1}, // NW
			{current.gx + 1, current.gy - 1}, // NE
			{current.gx - 1, current.gy + 1}, // SW
			{current.gx + 1, current.gy + 1}, // SE
		}
		for i, n := range neighbors {
			ngx, ngy := n[0], n[1]
			if grid.IsBlocked(ngx, ngy) {
				continue
			}
			// No corner cutting
			if i >= 4 && (grid.IsBlocked(ngx, current.gy) || grid.IsBlocked(current.gx, ngy)) {
				continue
			}

			neighborID := ngy*grid.width + ngx
			if _, done := a.closedSet[neighborID]; done {
				continue
			}

			moveCost := 1.0
			if i >= 4 {
				moveCost = math.Sqrt2
			}
			tentativeG := a.gScore[currentID] + moveCost
			if existingG, ok := a.gScore[neighborID]; ok && tentativeG >= existingG {
				continue
			}

			a.cameFrom[neighborID] = currentID
			a.gScore[neighborID] = tentativeG
			heap.Push(&a.openHeap, &astarNode{gx: ngx, gy: ngy, f: tentativeG + heuristic(ngx, ngy, goalGX, goalGY)})
		}
	}
	return nil
}

// heuristic is the Euclidean cell distance.
func heuristic(gx1, gy1, gx2, gy2 int) float64 {
	return math.Hypot(float64(gx2-gx1), float64(gy2-gy1))
}

// reconstructPath builds the path from cameFrom and simplifies it.
func (a *AStarPlanner) reconstructPath(startID, goalID int) []r2.Vec {
	var ids []int
	for current := goalID; current != startID; {
		ids = append(ids, current)
		prev, ok := a.cameFrom[current]
		if !ok {
			break
		}
		current = prev
	}
	ids = append(ids, startID)

	path := make([]r2.Vec, len(ids))
	for i, id := range ids {
		path[len(ids)-1-i] = a.grid.GridToWorld(id%a.grid.width, id/a.grid.width)
	}
	return a.simplifyPath(path)
}

// simplifyPath removes waypoints that the neighbours can see past.
func (a *AStarPlanner) simplifyPath(path []r2.Vec) []r2.Vec {
	if len(path) <= 2 {
		return path
	}
	simplified := []r2.Vec{path[0]}
	anchor := path[0]
	for i := 1; i < len(path)-1; i++ {
		if !a.HasLineOfSight(anchor, path[i+1]) {
			simplified = append(simplified, path[i])
			anchor = path[i]
		}
	}
	return append(simplified, path[len(path)-1])
}

// HasLineOfSight reports whether the segment from p to q crosses no blocked
// cell, sampled every half cell.
func (a *AStarPlanner) HasLineOfSight(p, q r2.Vec) bool {
	d := r2.Sub(q, p)
	dist := r2.Norm(d)
	if dist < 0.01 {
		return !a.grid.IsBlockedWorld(p)
	}
	step := a.grid.cellSize * 0.5
	steps := int(dist/step) + 1
	dir := r2.Scale(1/dist, d)
	for i := 0; i <= steps; i++ {
		at := r2.Add(p, r2.Scale(math.Min(float64(i)*step, dist), dir))
		if a.grid.IsBlockedWorld(at) {
			return false
		}
	}
	return true
}

// findNearestOpen spirals out from (gx, gy) for an open cell. Returns
// (-1, -1) when none is found within the search radius.
func (a *AStarPlanner) findNearestOpen(gx, gy int) (int, int) {
	for radius := 1; radius < 10; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if max(dx, -dx) != radius && max(dy, -dy) != radius {
					continue
				}
				if !a.grid.IsBlocked(gx+dx, gy+dy) {
					return gx + dx, gy + dy
				}
			}
		}
	}
	return -1, -1
}
