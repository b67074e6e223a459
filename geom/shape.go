package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ShapeKind tags the variant held by a Shape.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

// String returns the name used in tile definition files.
func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeRect:
		return "rect"
	default:
		return "unknown"
	}
}

// Shape is a collision primitive: either a circle or an axis-aligned
// rectangle. Only the fields of the active Kind are meaningful.
type Shape struct {
	Kind   ShapeKind
	Center r2.Vec  // circle centre
	Radius float64 // circle radius
	Rect   r2.Box  // rectangle bounds
}

// Circle builds a circle shape.
func Circle(center r2.Vec, radius float64) Shape {
	return Shape{Kind: ShapeCircle, Center: center, Radius: radius}
}

// Rect builds a rectangle shape from two corners in any order.
func Rect(a, b r2.Vec) Shape {
	return Shape{Kind: ShapeRect, Rect: r2.Box{
		Min: r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}}
}

// Translate returns the shape moved by v.
func (s Shape) Translate(v r2.Vec) Shape {
	switch s.Kind {
	case ShapeCircle:
		s.Center = r2.Add(s.Center, v)
	case ShapeRect:
		s.Rect = r2.Box{Min: r2.Add(s.Rect.Min, v), Max: r2.Add(s.Rect.Max, v)}
	}
	return s
}

// Rotate turns the shape about the origin by deg degrees, counter-clockwise
// as seen on screen. Rectangles stay axis-aligned: a rotated rectangle is
// replaced by the bounding box of its rotated corners, which is exact for
// multiples of 90 degrees.
func (s Shape) Rotate(deg float64) Shape {
	if deg == 0 {
		return s
	}
	// Screen y points down, so a visual counter-clockwise turn is a negative
	// rotation in r2's y-up convention.
	alpha := -deg * math.Pi / 180
	switch s.Kind {
	case ShapeCircle:
		s.Center = snap(r2.Rotate(s.Center, alpha, r2.Vec{}))
	case ShapeRect:
		corners := BoxCorners(s.Rect)
		out := r2.Box{
			Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
			Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
		}
		for _, c := range corners {
			p := snap(r2.Rotate(c, alpha, r2.Vec{}))
			out.Min.X = math.Min(out.Min.X, p.X)
			out.Min.Y = math.Min(out.Min.Y, p.Y)
			out.Max.X = math.Max(out.Max.X, p.X)
			out.Max.Y = math.Max(out.Max.Y, p.Y)
		}
		s.Rect = out
	}
	return s
}

// Bounds returns the axis-aligned bounding box of the shape.
func (s Shape) Bounds() r2.Box {
	if s.Kind == ShapeCircle {
		return CircleBounds(s.Center, s.Radius)
	}
	return s.Rect
}

// ContainsPoint reports whether p is inside the shape.
func (s Shape) ContainsPoint(p r2.Vec) bool {
	if s.Kind == ShapeCircle {
		return PointInCircle(p, s.Center, s.Radius)
	}
	return BoxContains(s.Rect, p)
}

// Degenerate reports whether the shape has no area and can never collide.
func (s Shape) Degenerate() bool {
	if s.Kind == ShapeCircle {
		return s.Radius <= 0
	}
	return s.Rect.Max.X <= s.Rect.Min.X || s.Rect.Max.Y <= s.Rect.Min.Y
}

// CircleBounds returns the bounding box of the circle (c, r).
func CircleBounds(c r2.Vec, r float64) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: c.X - r, Y: c.Y - r},
		Max: r2.Vec{X: c.X + r, Y: c.Y + r},
	}
}

// BoxAt returns a box of the given size centred on c.
func BoxAt(c r2.Vec, size r2.Vec) r2.Box {
	half := r2.Scale(0.5, size)
	return r2.Box{Min: r2.Sub(c, half), Max: r2.Add(c, half)}
}

// BoxCenter returns the centre of b.
func BoxCenter(b r2.Box) r2.Vec {
	return r2.Scale(0.5, r2.Add(b.Min, b.Max))
}

// BoxCorners returns the corners of b: top-left, top-right, bottom-left,
// bottom-right.
func BoxCorners(b r2.Box) [4]r2.Vec {
	return [4]r2.Vec{
		b.Min,
		{X: b.Max.X, Y: b.Min.Y},
		{X: b.Min.X, Y: b.Max.Y},
		b.Max,
	}
}

// BoxContains reports whether p lies inside b (min edges inclusive).
func BoxContains(b r2.Box, p r2.Vec) bool {
	return p.X >= b.Min.X && p.X < b.Max.X && p.Y >= b.Min.Y && p.Y < b.Max.Y
}

// BoxesOverlap reports whether a and b share any area. Touching edges do not
// count.
func BoxesOverlap(a, b r2.Box) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X &&
		a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
}

// BoxUnion returns the smallest box containing a and b.
func BoxUnion(a, b r2.Box) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y)},
		Max: r2.Vec{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y)},
	}
}

// snap removes floating point dust left by right-angle rotations.
func snap(v r2.Vec) r2.Vec {
	const eps = 1e-9
	if r := math.Round(v.X); math.Abs(v.X-r) < eps {
		v.X = r
	}
	if r := math.Round(v.Y); math.Abs(v.Y-r) < eps {
		v.Y = r
	}
	return v
}
