// Package epa measures how deeply two overlapping brushes interpenetrate, using
// the Expanding Polytope Algorithm.
//
// EPA starts from the tetrahedron GJK leaves around the origin and grows it
// inside the Minkowski difference A - B until the face closest to the origin
// lies on the boundary of the difference. That face gives the minimum
// translation: moving B by Normal*Depth separates the brushes.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/chisel/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxIterations limits polytope expansion. Brushes usually converge in
	// well under ten steps.
	MaxIterations = 64

	// ConvergenceTolerance stops the expansion once a new support point
	// improves the closest face distance by less than this.
	ConvergenceTolerance = 1e-6

	// NormalSnapThreshold clamps tiny normal components to zero so axis-aligned
	// contacts report exact axis normals.
	NormalSnapThreshold = 1e-8
)

// ErrNoConvergence is returned when the expansion exceeds MaxIterations.
var ErrNoConvergence = errors.New("epa: no convergence")

// Penetration is the minimum translation separating two brushes.
type Penetration struct {
	// Normal is a unit vector pointing from A toward B.
	Normal mgl64.Vec3
	// Depth is how far B must move along Normal to stop overlapping. Zero for
	// brushes in contact.
	Depth float64
}

// EPA computes the penetration of a and b from the simplex of a GJK call that
// reported overlap.
func EPA(a, b gjk.Shape, simplex *gjk.Simplex) (Penetration, error) {
	if simplex.Count < 4 {
		return touching(a, b, simplex), nil
	}

	expander := expanderPool.Get().(*Expander)
	defer expanderPool.Put(expander)
	expander.Reset()
	expander.Init(simplex)

	for range MaxIterations {
		closest := expander.Closest()
		if closest < 0 {
			break
		}
		face := expander.faces[closest]

		support := gjk.MinkowskiSupport(a, b, face.normal)
		if support.Dot(face.normal)-face.distance < ConvergenceTolerance {
			return Penetration{Normal: snapNormalToAxis(face.normal), Depth: face.distance}, nil
		}

		if !expander.Expand(support) {
			// Rounding left the support point inside every face.
			return Penetration{Normal: snapNormalToAxis(face.normal), Depth: face.distance}, nil
		}
	}

	return Penetration{}, fmt.Errorf("%w after %d iterations", ErrNoConvergence, MaxIterations)
}

// Depth runs GJK then EPA on a and b. ok reports whether they overlap.
func Depth(a, b gjk.Shape) (penetration Penetration, ok bool, err error) {
	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)
	simplex.Reset()

	if !gjk.GJK(a, b, simplex) {
		return Penetration{}, false, nil
	}
	penetration, err = EPA(a, b, simplex)
	return penetration, true, err
}

// touching handles a GJK simplex that never grew to a tetrahedron, which means
// the origin lies on the boundary of A - B: the brushes touch without depth.
func touching(a, b gjk.Shape, simplex *gjk.Simplex) Penetration {
	normal := b.Center().Sub(a.Center())
	if simplex.Count >= 2 {
		// The simplex point nearest the origin approximates the contact direction.
		p, q := simplex.Points[0], simplex.Points[1]
		if q.LenSqr() < p.LenSqr() {
			p = q
		}
		if p.LenSqr() > NormalSnapThreshold*NormalSnapThreshold {
			normal = p
		}
	}

	if normal.Len() < NormalSnapThreshold {
		normal = mgl64.Vec3{0, 1, 0}
	}
	return Penetration{Normal: snapNormalToAxis(normal.Normalize()), Depth: 0}
}

// snapNormalToAxis zeroes components below NormalSnapThreshold and renormalizes.
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	for i := range normal {
		if math.Abs(normal[i]) < NormalSnapThreshold {
			normal[i] = 0
		}
	}

	length := normal.Len()
	if length < 1e-8 {
		return mgl64.Vec3{0, 1, 0}
	}
	return normal.Mul(1 / length)
}
