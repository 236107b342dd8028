package epa

import (
	"math"
	"sync"

	"github.com/akmonengine/chisel/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// triangle is a face of the expanding polytope, wound so that normal points
// away from the interior.
type triangle struct {
	a, b, c  int
	normal   mgl64.Vec3
	distance float64
}

type edge struct {
	from, to int
}

// Expander holds the polytope grown inside the Minkowski difference.
// Points are shared by index between faces.
type Expander struct {
	points   []mgl64.Vec3
	faces    []triangle
	horizon  []edge
	interior mgl64.Vec3
}

// expanderPool is the single sync.Pool for Expander instances.
var expanderPool = sync.Pool{
	New: func() interface{} {
		return &Expander{
			points:  make([]mgl64.Vec3, 0, 16),
			faces:   make([]triangle, 0, 16),
			horizon: make([]edge, 0, 16),
		}
	},
}

func (e *Expander) Reset() {
	e.points = e.points[:0]
	e.faces = e.faces[:0]
	e.horizon = e.horizon[:0]
}

// Init seeds the polytope with the tetrahedron left by GJK.
func (e *Expander) Init(simplex *gjk.Simplex) {
	e.points = append(e.points, simplex.Points[:4]...)
	e.interior = e.points[0].Add(e.points[1]).Add(e.points[2]).Add(e.points[3]).Mul(0.25)

	e.addFace(0, 1, 2)
	e.addFace(0, 3, 1)
	e.addFace(0, 2, 3)
	e.addFace(1, 3, 2)
}

// addFace appends the triangle a, b, c, flipping it when needed so its
// normal faces away from the interior point.
func (e *Expander) addFace(a, b, c int) {
	pa, pb, pc := e.points[a], e.points[b], e.points[c]
	normal := pb.Sub(pa).Cross(pc.Sub(pa))

	length := normal.Len()
	if length < 1e-12 {
		// Sliver: kept for connectivity, never chosen as closest, never visible.
		e.faces = append(e.faces, triangle{a: a, b: b, c: c, distance: math.Inf(1)})
		return
	}
	normal = normal.Mul(1 / length)

	if normal.Dot(pa.Sub(e.interior)) < 0 {
		normal = normal.Mul(-1)
		b, c = c, b
	}

	distance := pa.Dot(normal)
	if distance < 0 {
		// The origin sits on this face up to rounding.
		distance = 0
	}

	e.faces = append(e.faces, triangle{a: a, b: b, c: c, normal: normal, distance: distance})
}

// Closest returns the index of the face nearest to the origin, or -1.
func (e *Expander) Closest() int {
	closest := -1
	best := math.Inf(1)
	for i, face := range e.faces {
		if face.distance < best {
			closest, best = i, face.distance
		}
	}
	return closest
}

// Expand adds support to the polytope: every face that sees it is removed and
// the hole is closed with a fan of triangles through support. It returns false
// when no face sees the point.
func (e *Expander) Expand(support mgl64.Vec3) bool {
	e.horizon = e.horizon[:0]

	kept := e.faces[:0]
	removed := 0
	for _, face := range e.faces {
		if face.distance == math.Inf(1) || face.normal.Dot(support.Sub(e.points[face.a])) <= 0 {
			kept = append(kept, face)
			continue
		}
		removed++
		e.addHorizon(face.a, face.b)
		e.addHorizon(face.b, face.c)
		e.addHorizon(face.c, face.a)
	}
	if removed == 0 {
		return false
	}
	e.faces = kept

	e.points = append(e.points, support)
	index := len(e.points) - 1
	for _, h := range e.horizon {
		e.addFace(h.from, h.to, index)
	}
	return true
}

// addHorizon records a boundary edge of the removed region. An edge shared by
// two removed faces shows up once in each direction and cancels out.
func (e *Expander) addHorizon(from, to int) {
	for i, h := range e.horizon {
		if h.from == to && h.to == from {
			e.horizon[i] = e.horizon[len(e.horizon)-1]
			e.horizon = e.horizon[:len(e.horizon)-1]
			return
		}
	}
	e.horizon = append(e.horizon, edge{from: from, to: to})
}
