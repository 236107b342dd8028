// Package chisel converts convex brushes from half-space form (a list of planes)
// to vertex/face form: the vertex enumeration problem.
//
// Conversion steps:
//  1. Intersect every triple of planes, merging points closer than plane.Epsilon
//  2. Discard points outside any half-space
//  3. Join plane pairs sharing exactly two surviving points into edges
//  4. Walk each plane's edges into a closed, outward-wound face
//
// The cost is O(N⁴) in the number of planes, which is small for a brush.
// Conversion is a pure function of its input and safe to call concurrently.
package chisel

import (
	"fmt"

	"github.com/akmonengine/chisel/plane"
	"github.com/akmonengine/chisel/polytope"
)

const (
	// DefaultWorkers is used when Converter.Workers is not positive.
	DefaultWorkers = 1

	// MinPlanes is the smallest half-space set that can bound a solid.
	MinPlanes = 4
)

// Converter turns half-space sets into polytopes.
type Converter struct {
	// Workers spreads the triple enumeration over goroutines. The result is
	// identical for any value.
	Workers int
}

// ToConvex converts planes to a polytope with the default converter.
func ToConvex(planes []plane.Plane) (*polytope.Polytope, error) {
	return Converter{}.Convert(planes)
}

// Convert computes the bounded convex polytope kept by every plane's half-space.
//
// Face i of the result lies on planes[i], so plane order fixes face order.
// Every plane must contribute a face: redundant planes are rejected with
// ErrDegenerateInput, as are unbounded or empty intersections.
func (c Converter) Convert(planes []plane.Plane) (*polytope.Polytope, error) {
	if len(planes) < MinPlanes {
		return nil, fmt.Errorf("%w: %d planes, need at least %d", ErrDegenerateInput, len(planes), MinPlanes)
	}
	for i, p := range planes {
		if p.Normal.Len() < plane.Epsilon {
			return nil, fmt.Errorf("%w: plane %d has a zero normal", ErrDegenerateInput, i)
		}
	}

	builder := brushBuilderPool.Get().(*BrushBuilder)
	defer brushBuilderPool.Put(builder)
	defer builder.release()
	builder.Reset(planes)

	builder.Enumerate(max(DefaultWorkers, c.Workers))
	builder.Prune()
	if err := builder.AssembleEdges(); err != nil {
		return nil, err
	}

	vertices := builder.Compact()
	faces := make([]polytope.Face, len(planes))
	for i := range planes {
		face, err := builder.BuildFace(i, vertices)
		if err != nil {
			return nil, err
		}
		faces[i] = face
	}

	brush, err := polytope.New(vertices, faces)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTopology, err)
	}
	return brush, nil
}
