// Package geom provides the small amount of 3-D and 1-D geometry the
// joinery planner needs: centerline segments, closest-approach tests,
// and axis intervals. Vectors are gonum r3 vectors.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a 3-D vector in millimeters.
type Vec = r3.Vec

// Eps is the tolerance used for parallelism and degeneracy tests.
const Eps = 1e-9

// Segment is a straight centerline between two points.
type Segment struct {
	A, B Vec
}

// Length returns the segment length in mm.
func (s Segment) Length() float64 {
	return r3.Norm(r3.Sub(s.B, s.A))
}

// Dir returns the unit direction from A to B. Degenerate segments
// (zero length) default to +Z so downstream math stays finite.
func (s Segment) Dir() Vec {
	d := r3.Sub(s.B, s.A)
	n := r3.Norm(d)
	if n < Eps {
		return Vec{Z: 1}
	}
	return r3.Scale(1/n, d)
}

// PointAt returns the point at parameter t, where t=0 is A and t=1 is B.
func (s Segment) PointAt(t float64) Vec {
	return r3.Add(s.A, r3.Scale(t, r3.Sub(s.B, s.A)))
}

// Midpoint returns the segment midpoint.
func (s Segment) Midpoint() Vec {
	return s.PointAt(0.5)
}

// ClosestApproach finds the closest points between the infinite lines
// through two segments. It returns the line parameters in mm along each
// direction and the separating distance. Parallel lines pin t1 to zero.
func ClosestApproach(s1, s2 Segment) (t1, t2, dist float64) {
	p1, d1 := s1.A, s1.Dir()
	p2, d2 := s2.A, s2.Dir()

	w0 := r3.Sub(p1, p2)
	a := r3.Dot(d1, d1)
	b := r3.Dot(d1, d2)
	c := r3.Dot(d2, d2)
	d := r3.Dot(d1, w0)
	e := r3.Dot(d2, w0)

	denom := a*c - b*b
	if math.Abs(denom) < Eps {
		t1 = 0
		if math.Abs(b) > Eps {
			t2 = d / b
		}
	} else {
		t1 = (b*e - c*d) / denom
		t2 = (a*e - b*d) / denom
	}

	pt1 := r3.Add(p1, r3.Scale(t1, d1))
	pt2 := r3.Add(p2, r3.Scale(t2, d2))
	dist = r3.Norm(r3.Sub(pt1, pt2))
	return t1, t2, dist
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NearlyEqual reports whether two scalars agree within tol.
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
