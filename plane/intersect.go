package plane

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Line is an infinite line, Point being its point closest to the origin.
type Line struct {
	Point     mgl64.Vec3
	Direction mgl64.Vec3
}

// Determinant returns a.Normal · (b.Normal × c.Normal), the determinant of the
// matrix whose columns are the three normals.
func Determinant(a, b, c Plane) float64 {
	return mgl64.Mat3FromCols(a.Normal, b.Normal, c.Normal).Det()
}

// IntersectThree solves for the unique point shared by three planes.
//
// The solution is computed directly from the signed offsets, which is valid for
// every plane orientation:
//
//	p = (-a.Offset·(b×c) - b.Offset·(c×a) - c.Offset·(a×b)) / det
//
// Returns false when |det| < Epsilon (two or more planes are parallel, or all
// three share a line).
func IntersectThree(a, b, c Plane) (mgl64.Vec3, bool) {
	det := Determinant(a, b, c)
	if math.Abs(det) < Epsilon {
		return mgl64.Vec3{}, false
	}

	bc := b.Normal.Cross(c.Normal)
	ca := c.Normal.Cross(a.Normal)
	ab := a.Normal.Cross(b.Normal)

	point := bc.Mul(-a.Offset).
		Add(ca.Mul(-b.Offset)).
		Add(ab.Mul(-c.Offset)).
		Mul(1.0 / det)

	return point, true
}

// IntersectTwo returns the line shared by two planes.
// Returns false when the planes are parallel (|a×b| < Epsilon).
func IntersectTwo(a, b Plane) (Line, bool) {
	direction := a.Normal.Cross(b.Normal)
	lenSqr := direction.LenSqr()
	if math.Sqrt(lenSqr) < Epsilon {
		return Line{}, false
	}

	// With n·p = d for each plane (d = -Offset):
	// p = (d1·n2 - d2·n1) × u / |u|²
	d1, d2 := -a.Offset, -b.Offset
	point := b.Normal.Mul(d1).Sub(a.Normal.Mul(d2)).Cross(direction).Mul(1.0 / lenSqr)

	return Line{Point: point, Direction: direction}, true
}
