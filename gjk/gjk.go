// Package gjk tests two convex brushes for overlap with the Gilbert-Johnson-Keerthi
// algorithm.
//
// GJK never looks at faces: it only asks each shape for its furthest point in a
// direction, and grows a simplex inside the Minkowski difference A - B until it
// either encloses the origin (overlap) or a support point fails to pass it
// (separation).
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxIterations bounds the refinement loop. Brushes converge in a handful of steps.
const MaxIterations = 32

// Shape is a convex solid queried through its support function.
// *polytope.Polytope satisfies it.
type Shape interface {
	// Support returns the point of the shape furthest along direction.
	Support(direction mgl64.Vec3) mgl64.Vec3
	// Center returns any point strictly inside the shape.
	Center() mgl64.Vec3
}

// Simplex holds 1 to 4 points of the Minkowski difference. The newest point is
// always Points[Count-1].
type Simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

func (s *Simplex) set(points ...mgl64.Vec3) {
	s.Count = copy(s.Points[:], points)
}

func (s *Simplex) push(point mgl64.Vec3) {
	s.Points[s.Count] = point
	s.Count++
}

var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport returns the support point of A - B along direction:
// support(A, d) - support(B, -d).
func MinkowskiSupport(a, b Shape, direction mgl64.Vec3) mgl64.Vec3 {
	return a.Support(direction).Sub(b.Support(direction.Mul(-1)))
}

// Intersects reports whether a and b overlap, using a pooled simplex.
func Intersects(a, b Shape) bool {
	simplex := SimplexPool.Get().(*Simplex)
	defer SimplexPool.Put(simplex)
	simplex.Reset()

	return GJK(a, b, simplex)
}

// GJK reports whether a and b overlap. Shapes in exact contact may go either way.
//
// The simplex is left in its final state: on overlap it is a tetrahedron
// enclosing the origin.
func GJK(a, b Shape, simplex *Simplex) bool {
	// Searching from A toward B usually saves iterations.
	direction := b.Center().Sub(a.Center())
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.set(MinkowskiSupport(a, b, direction))
	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		return true
	}

	for range MaxIterations {
		point := MinkowskiSupport(a, b, direction)
		if point.Dot(direction) <= 0 {
			// The furthest point toward the origin stops short of it.
			return false
		}

		simplex.push(point)
		if refine(simplex, &direction) {
			return true
		}
	}
	return false
}

// refine keeps the feature of the simplex closest to the origin and points
// direction at the origin from it. Only a tetrahedron can enclose the origin.
func refine(simplex *Simplex, direction *mgl64.Vec3) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	case 4:
		return tetrahedron(simplex, direction)
	}
	return false
}

// line handles the segment from the newest point A to B.
func line(simplex *Simplex, direction *mgl64.Vec3) bool {
	a, b := simplex.Points[1], simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-8 {
		if ao.LenSqr() < 1e-8 {
			return true
		}
		simplex.set(a)
		*direction = ao
		return false
	}

	if ab.Dot(ao) <= 0 {
		simplex.set(a)
		*direction = ao
		return false
	}

	perp := ab.Cross(ao).Cross(ab)
	if perp.LenSqr() < 1e-8 {
		// Origin on the segment.
		return true
	}
	*direction = perp
	return false
}

// triangle handles newest point A with B and C. Collinear points fall back to
// the segment AB.
func triangle(simplex *Simplex, direction *mgl64.Vec3) bool {
	a, b, c := simplex.Points[2], simplex.Points[1], simplex.Points[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	normal := ab.Cross(ac)

	if normal.LenSqr() < 1e-10 {
		simplex.set(b, a)
		return line(simplex, direction)
	}

	if ab.Cross(normal).Dot(ao) > 0 {
		simplex.set(b, a)
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}
	if normal.Cross(ac).Dot(ao) > 0 {
		simplex.set(c, a)
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	if normal.Dot(ao) > 0 {
		*direction = normal
	} else {
		// Flip the winding so the normal faces the origin.
		simplex.set(b, c, a)
		*direction = normal.Mul(-1)
	}
	return false
}

// tetrahedron handles newest point A with B, C and D. The three faces through A
// are tested with normals pointing away from the opposite vertex; the face BCD
// was already checked when D, C and B were the simplex.
func tetrahedron(simplex *Simplex, direction *mgl64.Vec3) bool {
	a, b, c, d := simplex.Points[3], simplex.Points[2], simplex.Points[1], simplex.Points[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	abc := awayFrom(ab.Cross(ac), ad)
	acd := awayFrom(ac.Cross(ad), ab)
	adb := awayFrom(ad.Cross(ab), ac)

	if abc.LenSqr() < 1e-10 || acd.LenSqr() < 1e-10 || adb.LenSqr() < 1e-10 {
		simplex.set(c, b, a)
		return triangle(simplex, direction)
	}

	switch {
	case abc.Dot(ao) > 0:
		simplex.set(c, b, a)
	case acd.Dot(ao) > 0:
		simplex.set(d, c, a)
	case adb.Dot(ao) > 0:
		simplex.set(b, d, a)
	default:
		return true
	}
	return triangle(simplex, direction)
}

// awayFrom flips normal when it points toward opposite.
func awayFrom(normal, opposite mgl64.Vec3) mgl64.Vec3 {
	if normal.Dot(opposite) > 0 {
		return normal.Mul(-1)
	}
	return normal
}
