// Package geom provides the circle and rectangle primitives used by the
// collision, projectile and explosion systems.
//
// All functions are pure. Points are gonum r2 vectors; rectangles are r2
// boxes with Min at the top-left corner in screen space (y grows down).
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// PointInCircle reports whether p lies strictly inside the circle (c, r).
func PointInCircle(p, c r2.Vec, r float64) bool {
	dx := p.X - c.X
	dy := p.Y - c.Y
	return dx*dx+dy*dy < r*r
}

// SegmentIntersectsCircle tests the segment a→b against the circle (c, r).
//
// The quadratic along the segment parameter t is solved; if the
// discriminant is negative or neither root lies in [0, 1] there is no
// intersection. Otherwise the reported contact is the point on the segment
// closest to the circle centre, with t clamped to [0, 1]. That point is
// returned even when it is not one of the true roots; the resolver only
// needs a point on the penetrating edge.
func SegmentIntersectsCircle(c r2.Vec, r float64, a, b r2.Vec) (bool, r2.Vec) {
	v := r2.Sub(b, a)
	qa := r2.Dot(v, v)
	if qa == 0 {
		// Zero-length segment has no edge to report.
		return false, r2.Vec{}
	}
	qb := 2 * r2.Dot(v, r2.Sub(a, c))
	qc := r2.Dot(a, a) + r2.Dot(c, c) - 2*r2.Dot(a, c) - r*r

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return false, r2.Vec{}
	}

	sq := math.Sqrt(disc)
	t1 := (-qb + sq) / (2 * qa)
	t2 := (-qb - sq) / (2 * qa)
	if !(inUnit(t1) || inUnit(t2)) {
		return false, r2.Vec{}
	}

	t := Clamp(-qb/(2*qa), 0, 1)
	return true, r2.Add(a, r2.Scale(t, v))
}

// RectInCircle reports whether rect touches the circle (c, r).
//
// The rectangle hits when its centre is inside the circle or any of its four
// edges intersects the circle. Every edge contact is returned (top, bottom,
// left, right order). When only the centre test fired, the rectangle centre
// is returned as the single contact.
func RectInCircle(rect r2.Box, c r2.Vec, r float64) (bool, []r2.Vec) {
	centre := BoxCenter(rect)
	centreIn := PointInCircle(centre, c, r)

	tl := rect.Min
	tr := r2.Vec{X: rect.Max.X, Y: rect.Min.Y}
	bl := r2.Vec{X: rect.Min.X, Y: rect.Max.Y}
	br := rect.Max

	var points []r2.Vec
	edges := [4][2]r2.Vec{{tl, tr}, {bl, br}, {tl, bl}, {tr, br}}
	for _, e := range edges {
		if hit, p := SegmentIntersectsCircle(c, r, e[0], e[1]); hit {
			points = append(points, p)
		}
	}

	if len(points) == 0 && centreIn {
		points = append(points, centre)
	}
	return centreIn || len(points) > 0, points
}

// CirclesOverlap is the ring test: true when |rad1-rad2| <= d <= rad1+rad2.
// A circle nested entirely inside the other does not count; see
// CircleContains for that case.
func CirclesOverlap(c1 r2.Vec, rad1 float64, c2 r2.Vec, rad2 float64) bool {
	d := r2.Norm(r2.Sub(c1, c2))
	return math.Abs(rad1-rad2) <= d && d <= rad1+rad2
}

// CircleContains reports whether the smaller circle lies entirely inside the
// larger one.
func CircleContains(c1 r2.Vec, rad1 float64, c2 r2.Vec, rad2 float64) bool {
	d := r2.Norm(r2.Sub(c1, c2))
	return d+math.Min(rad1, rad2) <= math.Max(rad1, rad2)
}

// FacingAngle converts a heading into a sprite facing angle in degrees, with
// 0 facing north (screen up) and positive angles turning counter-clockwise.
// A zero heading has no facing; ok is false and callers keep their previous
// angle.
func FacingAngle(heading r2.Vec) (deg float64, ok bool) {
	if heading.X == 0 && heading.Y == 0 {
		return 0, false
	}
	u := r2.Unit(heading)
	return math.Atan2(-u.X, -u.Y) * 180 / math.Pi, true
}

// Normalize returns the unit vector of v, or ok=false for a zero vector.
func Normalize(v r2.Vec) (r2.Vec, bool) {
	n := r2.Norm(v)
	if n == 0 {
		return r2.Vec{}, false
	}
	return r2.Scale(1/n, v), true
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ClampCircle moves centre c so a circle of radius r stays inside bounds.
func ClampCircle(c r2.Vec, r float64, bounds r2.Box) r2.Vec {
	return r2.Vec{
		X: Clamp(c.X, bounds.Min.X+r, bounds.Max.X-r),
		Y: Clamp(c.Y, bounds.Min.Y+r, bounds.Max.Y-r),
	}
}

func inUnit(t float64) bool {
	return t >= 0 && t <= 1
}
