package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

const eps = 1e-9

func vec(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

func TestPointInCircle(t *testing.T) {
	tests := []struct {
		name string
		p    r2.Vec
		want bool
	}{
		{"centre", vec(0, 0), true},
		{"inside", vec(3, 3), true},
		{"on boundary", vec(5, 0), false},
		{"outside", vec(6, 0), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PointInCircle(tc.p, vec(0, 0), 5); got != tc.want {
				t.Errorf("PointInCircle(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestSegmentIntersectsCircleMiss(t *testing.T) {
	hit, _ := SegmentIntersectsCircle(vec(0, 100), 5, vec(0, 0), vec(10, 0))
	if hit {
		t.Error("segment far from circle should not intersect")
	}
}

func TestSegmentIntersectsCirclePiercing(t *testing.T) {
	a, b := vec(-10, 0), vec(10, 0)
	hit, p := SegmentIntersectsCircle(vec(0, 0), 5, a, b)
	if !hit {
		t.Fatal("piercing segment should intersect")
	}
	// The contact is the segment point closest to the centre, not an
	// entry or exit point on the circle.
	if math.Abs(p.X) > eps || math.Abs(p.Y) > eps {
		t.Errorf("contact = %v, want (0, 0)", p)
	}
}

func TestSegmentIntersectsCircleClampsContact(t *testing.T) {
	// The segment enters the circle but its closest point to the centre is
	// past the end, so the contact is clamped to the end point.
	hit, p := SegmentIntersectsCircle(vec(12, 0), 5, vec(0, 0), vec(10, 0))
	if !hit {
		t.Fatal("segment ending inside circle should intersect")
	}
	if math.Abs(p.X-10) > eps || math.Abs(p.Y) > eps {
		t.Errorf("contact = %v, want clamped end (10, 0)", p)
	}
}

func TestSegmentIntersectsCircleInsideNoRoot(t *testing.T) {
	// Entire segment inside the circle: both roots are outside [0,1].
	hit, _ := SegmentIntersectsCircle(vec(0, 0), 50, vec(-1, 0), vec(1, 0))
	if hit {
		t.Error("segment fully inside circle has no edge crossing")
	}
}

func TestSegmentIntersectsCircleDegenerate(t *testing.T) {
	hit, p := SegmentIntersectsCircle(vec(0, 0), 5, vec(1, 1), vec(1, 1))
	if hit || p != (r2.Vec{}) {
		t.Errorf("zero-length segment = (%v, %v), want no intersection", hit, p)
	}
}

func TestRectInCircle(t *testing.T) {
	rect := r2.Box{Min: vec(0, 0), Max: vec(64, 64)}

	t.Run("edge contact", func(t *testing.T) {
		hit, pts := RectInCircle(rect, vec(32, -10), 18)
		if !hit {
			t.Fatal("circle over top edge should hit")
		}
		if len(pts) != 1 {
			t.Fatalf("got %d contacts, want 1", len(pts))
		}
		if math.Abs(pts[0].X-32) > eps || math.Abs(pts[0].Y) > eps {
			t.Errorf("contact = %v, want (32, 0)", pts[0])
		}
	})

	t.Run("corner touches two edges", func(t *testing.T) {
		hit, pts := RectInCircle(rect, vec(-5, -5), 18)
		if !hit || len(pts) != 2 {
			t.Fatalf("got hit=%v contacts=%d, want hit with 2 contacts", hit, len(pts))
		}
	})

	t.Run("centre only falls back to rect centre", func(t *testing.T) {
		small := r2.Box{Min: vec(-1, -1), Max: vec(1, 1)}
		hit, pts := RectInCircle(small, vec(0, 0), 30)
		if !hit {
			t.Fatal("rect inside circle should hit")
		}
		if len(pts) != 1 || pts[0] != vec(0, 0) {
			t.Errorf("contacts = %v, want [rect centre]", pts)
		}
	})

	t.Run("miss", func(t *testing.T) {
		hit, pts := RectInCircle(rect, vec(200, 200), 18)
		if hit || len(pts) != 0 {
			t.Errorf("got hit=%v contacts=%v, want miss", hit, pts)
		}
	})
}

func TestCirclePredicates(t *testing.T) {
	tests := []struct {
		name         string
		r1, r2, d    float64
		wantOverlap  bool
		wantContains bool
	}{
		{"apart", 10, 5, 20, false, false},
		{"touching outside", 10, 5, 15, true, false},
		{"crossing", 10, 5, 12, true, false},
		{"touching inside", 10, 5, 5, true, true},
		{"nested", 10, 5, 2, false, true},
		{"concentric equal", 5, 5, 0, true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c1, c2 := vec(0, 0), vec(tc.d, 0)
			if got := CirclesOverlap(c1, tc.r1, c2, tc.r2); got != tc.wantOverlap {
				t.Errorf("CirclesOverlap = %v, want %v", got, tc.wantOverlap)
			}
			if got := CircleContains(c1, tc.r1, c2, tc.r2); got != tc.wantContains {
				t.Errorf("CircleContains = %v, want %v", got, tc.wantContains)
			}
		})
	}
}

func TestCirclePredicatesExclusiveOffBoundary(t *testing.T) {
	// Sweep distances; overlap and containment may only agree at d = |r1-r2|.
	r1, r2_ := 20.0, 18.0
	for i := 0; i <= 400; i++ {
		d := float64(i) * 0.1
		o := CirclesOverlap(vec(0, 0), r1, vec(d, 0), r2_)
		c := CircleContains(vec(0, 0), r1, vec(d, 0), r2_)
		if o && c && math.Abs(d-math.Abs(r1-r2_)) > 1e-6 {
			t.Fatalf("d=%v: overlap and contains both true off the boundary", d)
		}
		wantO := math.Abs(r1-r2_) <= d && d <= r1+r2_
		if o != wantO {
			t.Fatalf("d=%v: overlap=%v, want %v", d, o, wantO)
		}
	}
}

func TestFacingAngle(t *testing.T) {
	tests := []struct {
		name    string
		heading r2.Vec
		want    float64
	}{
		{"north", vec(0, -1), 0},
		{"west", vec(-1, 0), 90},
		{"east", vec(1, 0), -90},
		{"south", vec(0, 1), 180},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FacingAngle(tc.heading)
			if !ok {
				t.Fatal("expected a facing angle")
			}
			// Compare on the circle so -180 and 180 agree.
			diff := math.Mod(got-tc.want+540, 360) - 180
			if math.Abs(diff) > 1e-9 {
				t.Errorf("FacingAngle(%v) = %v, want %v", tc.heading, got, tc.want)
			}
		})
	}

	if _, ok := FacingAngle(r2.Vec{}); ok {
		t.Error("zero heading should have no facing")
	}
}

func TestClampCircle(t *testing.T) {
	bounds := r2.Box{Max: vec(512, 256)}
	cases := []struct {
		name string
		in   r2.Vec
		want r2.Vec
	}{
		{"inside", vec(100, 100), vec(100, 100)},
		{"past min corner", vec(-40, 3), vec(18, 18)},
		{"past max x", vec(600, 128), vec(494, 128)},
		{"touching edge", vec(18, 238), vec(18, 238)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClampCircle(c.in, 18, bounds); got != c.want {
				t.Errorf("ClampCircle(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}
