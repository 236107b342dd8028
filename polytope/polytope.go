// Package polytope holds the vertex/face representation of a bounded convex
// solid (a brush) together with its structural invariants, adjacency queries,
// and a topological equivalence test.
//
// A Polytope is immutable: vertex index i and face index j stay valid for the
// lifetime of the value. Editing geometry means building a new Polytope.
package polytope

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/akmonengine/chisel/plane"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalid is returned by New when the faces do not describe a valid solid.
var ErrInvalid = errors.New("invalid polytope")

type Polytope struct {
	vertices []mgl64.Vec3
	faces    []Face
}

// New builds a polytope from vertices and the faces referencing them.
// Both slices are copied. Every face must be closed, ordered, planar and convex
// with at least 3 edges, and every vertex must belong to some face.
func New(vertices []mgl64.Vec3, faces []Face) (*Polytope, error) {
	p := &Polytope{
		vertices: slices.Clone(vertices),
		faces:    make([]Face, len(faces)),
	}
	for i, face := range faces {
		p.faces[i] = Face{Edges: slices.Clone(face.Edges)}
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Polytope) validate() error {
	if len(p.faces) == 0 {
		return fmt.Errorf("%w: no faces", ErrInvalid)
	}

	used := make([]bool, len(p.vertices))
	for i, face := range p.faces {
		if face.Arity() < 3 {
			return fmt.Errorf("%w: face %d has %d edges", ErrInvalid, i, face.Arity())
		}
		for _, edge := range face.Edges {
			if edge.Start < 0 || edge.Start >= len(p.vertices) || edge.End < 0 || edge.End >= len(p.vertices) {
				return fmt.Errorf("%w: face %d references edge %v out of %d vertices", ErrInvalid, i, edge, len(p.vertices))
			}
			used[edge.Start] = true
			used[edge.End] = true
		}
		if !face.IsClosed() {
			return fmt.Errorf("%w: face %d is not closed", ErrInvalid, i)
		}
		if !face.IsOrdered() {
			return fmt.Errorf("%w: face %d is not ordered", ErrInvalid, i)
		}
		if !face.IsPlanar(p.vertices) {
			return fmt.Errorf("%w: face %d is not planar", ErrInvalid, i)
		}
		if !face.IsConvex(p.vertices) {
			return fmt.Errorf("%w: face %d is not convex", ErrInvalid, i)
		}
	}

	for v, ok := range used {
		if !ok {
			return fmt.Errorf("%w: vertex %d %v belongs to no face", ErrInvalid, v, p.vertices[v])
		}
	}
	return nil
}

func (p *Polytope) NumVertices() int {
	return len(p.vertices)
}

func (p *Polytope) NumFaces() int {
	return len(p.faces)
}

func (p *Polytope) Vertex(i int) mgl64.Vec3 {
	return p.vertices[i]
}

// Vertices returns a copy of the vertex list.
func (p *Polytope) Vertices() []mgl64.Vec3 {
	return slices.Clone(p.vertices)
}

// Face returns a copy of face i.
func (p *Polytope) Face(i int) Face {
	return Face{Edges: slices.Clone(p.faces[i].Edges)}
}

// Faces returns a copy of the face list.
func (p *Polytope) Faces() []Face {
	faces := make([]Face, len(p.faces))
	for i := range p.faces {
		faces[i] = p.Face(i)
	}
	return faces
}

// Edges returns every edge of the solid once, normalized (Start < End),
// in order of first appearance across the faces.
func (p *Polytope) Edges() []Edge {
	seen := make(map[Edge]struct{})
	var edges []Edge
	for _, face := range p.faces {
		for _, edge := range face.Edges {
			key := edge.Normalized()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, key)
		}
	}
	return edges
}

// VertexFaces returns the indices of the faces that touch vertex v, ascending.
func (p *Polytope) VertexFaces(v int) []int {
	var faces []int
	for i, face := range p.faces {
		for _, edge := range face.Edges {
			if edge.Touches(v) {
				faces = append(faces, i)
				break
			}
		}
	}
	return faces
}

// FaceNeighbors returns the indices of the faces sharing an edge with face f,
// ascending.
func (p *Polytope) FaceNeighbors(f int) []int {
	own := make(map[Edge]struct{}, len(p.faces[f].Edges))
	for _, edge := range p.faces[f].Edges {
		own[edge.Normalized()] = struct{}{}
	}

	var neighbors []int
	for i, face := range p.faces {
		if i == f {
			continue
		}
		for _, edge := range face.Edges {
			if _, ok := own[edge.Normalized()]; ok {
				neighbors = append(neighbors, i)
				break
			}
		}
	}
	return neighbors
}

// Center returns the average of all vertices. For a convex solid it lies
// strictly inside.
func (p *Polytope) Center() mgl64.Vec3 {
	var sum mgl64.Vec3
	if len(p.vertices) == 0 {
		return sum
	}
	for _, v := range p.vertices {
		sum = sum.Add(v)
	}
	return sum.Mul(1.0 / float64(len(p.vertices)))
}

// Support returns the vertex farthest along direction.
func (p *Polytope) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best := p.vertices[0]
	bestDot := best.Dot(direction)
	for _, v := range p.vertices[1:] {
		if d := v.Dot(direction); d > bestDot {
			best, bestDot = v, d
		}
	}
	return best
}

// IsWoundOutward reports whether every face normal points away from the center.
func (p *Polytope) IsWoundOutward() bool {
	center := p.Center()
	for _, face := range p.faces {
		if face.Normal(p.vertices).Dot(face.Centroid(p.vertices).Sub(center)) <= 0 {
			return false
		}
	}
	return true
}

// Planes returns one outward-facing unit plane per face, in face order: the
// half-space representation of the solid.
func (p *Polytope) Planes() []plane.Plane {
	center := p.Center()
	planes := make([]plane.Plane, len(p.faces))
	for i, face := range p.faces {
		centroid := face.Centroid(p.vertices)
		normal := face.Normal(p.vertices).Normalize()
		if normal.Dot(centroid.Sub(center)) < 0 {
			normal = normal.Mul(-1)
		}
		planes[i] = plane.FromPoint(normal, centroid)
	}
	return planes
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (p *Polytope) Bounds() AABB {
	box := AABB{
		Min: mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for _, v := range p.vertices {
		box = box.Extend(v)
	}
	return box
}

func (p *Polytope) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Polytope(%d vertices, %d faces):\n", len(p.vertices), len(p.faces))
	for i, v := range p.vertices {
		fmt.Fprintf(&b, "  v%d (%.5g, %.5g, %.5g)\n", i, v.X(), v.Y(), v.Z())
	}
	for i, face := range p.faces {
		fmt.Fprintf(&b, "  f%d %v\n", i, face.Loop())
	}
	return b.String()
}
