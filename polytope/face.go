package polytope

import (
	"maps"

	"github.com/akmonengine/chisel/plane"
	"github.com/go-gl/mathgl/mgl64"
)

// Face is a polygon of a polytope: a directed cycle of edges where
// Edges[i].End == Edges[i+1].Start, wrapping back to Edges[0].Start.
// Faces built by the converter are wound counter-clockwise seen from outside
// the solid.
type Face struct {
	Edges []Edge
}

// NewFace builds a face from a loop of vertex indices, closing the last vertex
// back onto the first.
func NewFace(loop ...int) Face {
	edges := make([]Edge, len(loop))
	for i := range loop {
		edges[i] = Edge{Start: loop[i], End: loop[(i+1)%len(loop)]}
	}
	return Face{Edges: edges}
}

func (f Face) Arity() int {
	return len(f.Edges)
}

// IsClosed reports whether the edges form rings: every vertex the face touches
// is an endpoint of exactly two edges.
func (f Face) IsClosed() bool {
	if len(f.Edges) == 0 {
		return false
	}
	for _, count := range f.Incidence() {
		if count != 2 {
			return false
		}
	}
	return true
}

// IsOrdered reports whether consecutive edges share an endpoint and the last edge
// ends where the first one starts.
func (f Face) IsOrdered() bool {
	if len(f.Edges) == 0 {
		return false
	}
	for i := range f.Edges {
		next := f.Edges[(i+1)%len(f.Edges)]
		if f.Edges[i].End != next.Start {
			return false
		}
	}
	return true
}

// Loop returns the vertex indices of the face in walk order.
func (f Face) Loop() []int {
	loop := make([]int, len(f.Edges))
	for i, edge := range f.Edges {
		loop[i] = edge.Start
	}
	return loop
}

// Incidence counts how many times each vertex index is an edge endpoint.
// Two faces with the same incidence describe the same loop up to rotation and
// reflection.
func (f Face) Incidence() map[int]int {
	counts := make(map[int]int, len(f.Edges))
	for _, edge := range f.Edges {
		counts[edge.Start]++
		counts[edge.End]++
	}
	return counts
}

// SameLoop reports whether both faces have identical incidence counts.
func (f Face) SameLoop(other Face) bool {
	return maps.Equal(f.Incidence(), other.Incidence())
}

// Reversed returns the face walked in the opposite direction.
func (f Face) Reversed() Face {
	edges := make([]Edge, len(f.Edges))
	for i, edge := range f.Edges {
		edges[len(f.Edges)-1-i] = edge.Reversed()
	}
	return Face{Edges: edges}
}

// Centroid returns the average of the face's vertices.
func (f Face) Centroid(vertices []mgl64.Vec3) mgl64.Vec3 {
	var sum mgl64.Vec3
	if len(f.Edges) == 0 {
		return sum
	}
	for _, edge := range f.Edges {
		sum = sum.Add(vertices[edge.Start])
	}
	return sum.Mul(1.0 / float64(len(f.Edges)))
}

// Normal returns the face normal by Newell's method, following the right-hand
// rule over the loop. Its length is twice the polygon area.
func (f Face) Normal(vertices []mgl64.Vec3) mgl64.Vec3 {
	centroid := f.Centroid(vertices)

	var normal mgl64.Vec3
	for _, edge := range f.Edges {
		a := vertices[edge.Start].Sub(centroid)
		b := vertices[edge.End].Sub(centroid)
		normal = normal.Add(a.Cross(b))
	}
	return normal
}

// IsPlanar reports whether every vertex lies within plane.Epsilon of the plane
// through the centroid along the face normal. Faces of zero area are not planar.
func (f Face) IsPlanar(vertices []mgl64.Vec3) bool {
	normal := f.Normal(vertices)
	if normal.Len() < plane.Epsilon {
		return false
	}

	support := plane.FromPoint(normal.Normalize(), f.Centroid(vertices))
	for _, edge := range f.Edges {
		if support.Classify(vertices[edge.Start]) != plane.On {
			return false
		}
	}
	return true
}

// IsConvex reports whether the face is a convex polygon once projected onto its
// own plane: no vertex lies outside the line of any edge. Collinear vertices
// are allowed.
func (f Face) IsConvex(vertices []mgl64.Vec3) bool {
	if len(f.Edges) < 3 {
		return false
	}

	normal := f.Normal(vertices)
	if normal.Len() < plane.Epsilon {
		return false
	}
	normal = normal.Normalize()

	for _, edge := range f.Edges {
		start := vertices[edge.Start]
		direction := vertices[edge.End].Sub(start)
		length := direction.Len()
		if length < plane.Epsilon {
			return false
		}
		inward := normal.Cross(direction.Mul(1.0 / length))

		for _, other := range f.Edges {
			if inward.Dot(vertices[other.Start].Sub(start)) < -plane.Epsilon {
				return false
			}
		}
	}
	return true
}
