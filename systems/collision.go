package systems

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/camera"
	"github.com/pthm-cable/timeruns/components"
	"github.com/pthm-cable/timeruns/geom"
	"github.com/pthm-cable/timeruns/level"
)

// Resolution is the outcome of moving an actor through the Resolver.
type Resolution struct {
	Position   r2.Vec   // resolved world position
	Collided   bool     // any contact on the first pass
	Contacts   []r2.Vec // screen-space contact points from the first pass
	Iterations int      // passes run, including the final contact-free one
	Capped     bool     // stopped by the iteration limit
}

// Resolver slides actors out of terrain and other actors. It runs in screen
// space against the tiles of the visible window, so off-screen terrain never
// blocks.
type Resolver struct {
	MaxIterations int
	MinPush       float64

	contacts []r2.Vec
}

// NewResolver creates a resolver with the given iteration cap and minimum
// push distance.
func NewResolver(maxIterations int, minPush float64) *Resolver {
	return &Resolver{MaxIterations: maxIterations, MinPush: minPush}
}

// Resolve moves self toward the prospective world position.
//
// Each pass gathers contact points for the actor's circle at the current
// candidate position. With no contacts the candidate is committed. Otherwise
// the candidate is pushed away from the first contact by
// max(MinPush, radius - distance) and the pass repeats. A zero-length push
// direction means the actor cannot move and its current position is kept.
// After MaxIterations passes the last candidate is committed.
func (r *Resolver) Resolve(vp *camera.Viewport, self *components.Actor, prospective r2.Vec,
	tiles []*level.Tile, others []*components.Actor) Resolution {
	off := vp.Offset().Vec()
	pos := r2.Sub(prospective, off)
	radius := self.CollideRadius

	var res Resolution
	for res.Iterations < r.MaxIterations {
		res.Iterations++
		contacts := r.gather(vp, self, pos, radius, tiles, others)
		if res.Iterations == 1 && len(contacts) > 0 {
			res.Collided = true
			res.Contacts = append([]r2.Vec(nil), contacts...)
		}
		if len(contacts) == 0 {
			res.Position = r2.Add(pos, off)
			return res
		}

		dir := r2.Sub(pos, contacts[0])
		dist := r2.Norm(dir)
		if dist == 0 {
			res.Position = self.World
			return res
		}
		push := math.Max(r.MinPush, radius-dist)
		pos = r2.Add(pos, r2.Scale(push/dist, dir))
	}

	res.Capped = true
	res.Position = r2.Add(pos, off)
	slog.Debug("collision iteration cap reached",
		"iterations", res.Iterations,
		"x", res.Position.X,
		"y", res.Position.Y,
	)
	return res
}

// gather collects contact points for a circle at screen position pos. The
// returned slice is reused by the next call.
func (r *Resolver) gather(vp *camera.Viewport, self *components.Actor, pos r2.Vec, radius float64,
	tiles []*level.Tile, others []*components.Actor) []r2.Vec {
	r.contacts = r.contacts[:0]
	box := geom.CircleBounds(pos, radius)

	for _, t := range tiles {
		if t == nil || !t.Collidable() {
			continue
		}
		if b, ok := t.Bounds(); !ok || !geom.BoxesOverlap(b, box) {
			continue
		}
		for _, s := range t.Shapes() {
			switch s.Kind {
			case geom.ShapeRect:
				if hit, pts := geom.RectInCircle(s.Rect, pos, radius); hit {
					r.contacts = append(r.contacts, pts...)
				}
			case geom.ShapeCircle:
				if geom.CirclesOverlap(s.Center, s.Radius, pos, radius) {
					r.contacts = append(r.contacts, s.Center)
				}
			}
		}
	}

	for _, o := range others {
		if o == self || o.ShouldDie {
			continue
		}
		centre := vp.WorldToScreen(o.World)
		if !geom.BoxesOverlap(geom.CircleBounds(centre, o.CollideRadius), box) {
			continue
		}
		if geom.CirclesOverlap(centre, o.CollideRadius, pos, radius) {
			r.contacts = append(r.contacts, centre)
		}
	}
	return r.contacts
}
