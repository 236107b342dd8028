// Package plane implements oriented half-space boundaries and the intersection
// kernel used to turn a set of half-spaces into a convex polytope.
//
// A Plane is the set of points p with Normal·p + Offset = 0. The half-space it
// bounds (the kept side) is Normal·p + Offset <= 0, so the normal points out of
// the solid.
package plane

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the absolute tolerance for every geometric comparison in this module.
// It is not scale-relative: coordinates are expected to be in the tens of units.
const Epsilon = 1e-5

// Side classifies a point against a plane.
type Side int

const (
	Inside Side = iota
	On
	Outside
)

func (s Side) String() string {
	switch s {
	case Inside:
		return "inside"
	case On:
		return "on"
	case Outside:
		return "outside"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Plane is an oriented half-space boundary. Normal must be non-zero; it does not
// need to be unit length, since scaling only changes distance units.
type Plane struct {
	Normal mgl64.Vec3
	Offset float64
}

// New creates a plane from its normal and signed offset.
func New(normal mgl64.Vec3, offset float64) Plane {
	return Plane{Normal: normal, Offset: offset}
}

// FromPoint creates the plane with the given normal passing through point.
// The normal is kept unscaled.
func FromPoint(normal, point mgl64.Vec3) Plane {
	return Plane{Normal: normal, Offset: -normal.Dot(point)}
}

// Distance returns the signed distance Normal·p + Offset, in units of |Normal|.
// Positive values are outside the half-space.
func (p Plane) Distance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.Offset
}

// Classify reports on which side of the plane a point lies.
func (p Plane) Classify(point mgl64.Vec3) Side {
	d := p.Distance(point)
	switch {
	case d > Epsilon:
		return Outside
	case d >= -Epsilon:
		return On
	default:
		return Inside
	}
}

// Contains reports whether the point is kept by the half-space (inside or on).
func (p Plane) Contains(point mgl64.Vec3) bool {
	return p.Classify(point) != Outside
}

// Normalized returns the same plane with a unit normal.
// A zero normal is returned unchanged.
func (p Plane) Normalized() Plane {
	length := p.Normal.Len()
	if length == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Mul(1.0 / length), Offset: p.Offset / length}
}

// Flip returns the plane bounding the opposite half-space.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Mul(-1), Offset: -p.Offset}
}

// Project returns the point on the plane closest to point.
func (p Plane) Project(point mgl64.Vec3) mgl64.Vec3 {
	lenSqr := p.Normal.LenSqr()
	if lenSqr == 0 {
		return point
	}
	return point.Sub(p.Normal.Mul(p.Distance(point) / lenSqr))
}

// ApproxEqual reports whether both planes describe the same half-space
// once normalized.
func (p Plane) ApproxEqual(other Plane) bool {
	a, b := p.Normalized(), other.Normalized()
	return a.Normal.ApproxEqualThreshold(b.Normal, Epsilon) && math.Abs(a.Offset-b.Offset) <= Epsilon
}

func (p Plane) String() string {
	return fmt.Sprintf("Plane(%.5g, %.5g, %.5g | %.5g)", p.Normal.X(), p.Normal.Y(), p.Normal.Z(), p.Offset)
}
