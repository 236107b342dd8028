package chisel

import (
	"fmt"
	"slices"
	"sync"

	"github.com/akmonengine/chisel/plane"
	"github.com/akmonengine/chisel/polytope"
	"github.com/go-gl/mathgl/mgl64"
)

// candidate is the intersection point of planes a > b > c.
type candidate struct {
	point   mgl64.Vec3
	a, b, c int
}

// BrushBuilder holds the scratch state of one half-space to polytope conversion.
// Buffers are reused between conversions; nothing in the returned polytope
// aliases them.
type BrushBuilder struct {
	planes []plane.Plane

	// Intersection candidates, indexed by the outer (largest) plane index.
	// Each slot is written by a single worker.
	candidates [][]candidate

	// Deduplicated vertices with explicit liveness; pruning only clears alive.
	vertices []mgl64.Vec3
	alive    []bool

	// Vertex indices shared by plane pair (a, b), a > b, stored at a*n+b.
	pairs [][]int

	// Unordered edges collected per plane, in builder vertex indices.
	edges [][]polytope.Edge

	// Builder vertex index -> compacted output index, -1 when pruned.
	remap []int

	shared []int
}

// brushBuilderPool is the single sync.Pool for BrushBuilder instances.
var brushBuilderPool = sync.Pool{
	New: func() interface{} {
		return &BrushBuilder{}
	},
}

// Reset prepares the builder for a conversion of the given planes, keeping the
// capacity of its buffers.
func (b *BrushBuilder) Reset(planes []plane.Plane) {
	n := len(planes)
	b.planes = planes
	b.candidates = resetBuckets(b.candidates, n)
	b.vertices = b.vertices[:0]
	b.alive = b.alive[:0]
	b.pairs = resetBuckets(b.pairs, n*n)
	b.edges = resetBuckets(b.edges, n)
	b.remap = b.remap[:0]
	b.shared = b.shared[:0]
}

// release drops the reference to the caller's planes before pooling.
func (b *BrushBuilder) release() {
	b.planes = nil
}

func resetBuckets[T any](buckets [][]T, n int) [][]T {
	if cap(buckets) < n {
		buckets = append(buckets[:cap(buckets)], make([][]T, n-cap(buckets))...)
	}
	buckets = buckets[:n]
	for i := range buckets {
		buckets[i] = buckets[i][:0]
	}
	return buckets
}

// Enumerate intersects every triple of planes a > b > c. The outer index is
// spread across workers; the dedup merge then runs in outer-index order so the
// vertex numbering does not depend on the worker count.
func (b *BrushBuilder) Enumerate(workers int) {
	parallelFor(workers, len(b.planes), func(a int) {
		b.candidates[a] = b.intersectFrom(a, b.candidates[a])
	})

	for a := range b.candidates {
		for _, c := range b.candidates[a] {
			v := b.findOrAddVertex(c.point)
			b.addToPair(c.a, c.b, v)
			b.addToPair(c.a, c.c, v)
			b.addToPair(c.b, c.c, v)
		}
	}
}

func (b *BrushBuilder) intersectFrom(a int, out []candidate) []candidate {
	for bb := 0; bb < a; bb++ {
		for c := 0; c < bb; c++ {
			// Singular triples (parallel planes, or three planes sharing a
			// line) are expected and skipped.
			point, ok := plane.IntersectThree(b.planes[a], b.planes[bb], b.planes[c])
			if !ok {
				continue
			}
			out = append(out, candidate{point: point, a: a, b: bb, c: c})
		}
	}
	return out
}

// findOrAddVertex returns the index of the vertex within plane.Epsilon of point,
// creating it if none exists. Where 4+ planes meet this collapses every
// triple's intersection onto one vertex.
// Linear search is fine for the vertex counts of a single brush.
func (b *BrushBuilder) findOrAddVertex(point mgl64.Vec3) int {
	for i, v := range b.vertices {
		if v.Sub(point).Len() <= plane.Epsilon {
			return i
		}
	}
	b.vertices = append(b.vertices, point)
	b.alive = append(b.alive, true)
	return len(b.vertices) - 1
}

func (b *BrushBuilder) addToPair(a, bb, v int) {
	key := a*len(b.planes) + bb
	if !slices.Contains(b.pairs[key], v) {
		b.pairs[key] = append(b.pairs[key], v)
	}
}

// Prune discards every vertex lying outside any half-space. All planes are
// tested against all vertices before any edge is built.
func (b *BrushBuilder) Prune() {
	for i, v := range b.vertices {
		for _, p := range b.planes {
			if p.Classify(v) == plane.Outside {
				b.alive[i] = false
				break
			}
		}
	}
}

// AssembleEdges turns each plane pair sharing exactly two surviving vertices
// into an edge of both planes. Pairs with zero or one surviving vertex do not
// share an edge; three or more means the vertex dedup went wrong.
func (b *BrushBuilder) AssembleEdges() error {
	n := len(b.planes)
	for a := 0; a < n; a++ {
		for bb := 0; bb < a; bb++ {
			b.shared = b.shared[:0]
			for _, v := range b.pairs[a*n+bb] {
				if b.alive[v] {
					b.shared = append(b.shared, v)
				}
			}

			switch len(b.shared) {
			case 0, 1:
				continue
			case 2:
				edge := polytope.Edge{Start: b.shared[0], End: b.shared[1]}
				b.addEdge(a, edge)
				b.addEdge(bb, edge)
			default:
				return fmt.Errorf("%w: planes %d and %d share %d vertices %v", ErrTopology, a, bb, len(b.shared), b.shared)
			}
		}
	}
	return nil
}

// addEdge appends edge to plane i unless it is already there, which happens
// when a redundant plane grazes the solid along an existing edge.
func (b *BrushBuilder) addEdge(i int, edge polytope.Edge) {
	for _, e := range b.edges[i] {
		if e.Normalized() == edge.Normalized() {
			return
		}
	}
	b.edges[i] = append(b.edges[i], edge)
}

// Compact returns the surviving vertices in a fresh slice and fills remap.
func (b *BrushBuilder) Compact() []mgl64.Vec3 {
	var vertices []mgl64.Vec3
	b.remap = b.remap[:0]
	for i, v := range b.vertices {
		if !b.alive[i] {
			b.remap = append(b.remap, -1)
			continue
		}
		b.remap = append(b.remap, len(vertices))
		vertices = append(vertices, v)
	}
	return vertices
}

// BuildFace walks the unordered edges of plane i into one closed loop, rewritten
// in compacted indices and wound counter-clockwise seen from outside.
func (b *BrushBuilder) BuildFace(i int, vertices []mgl64.Vec3) (polytope.Face, error) {
	edges := b.edges[i]
	if len(edges) < 3 {
		return polytope.Face{}, fmt.Errorf("%w: plane %d %v bounds no face (%d edges)", ErrDegenerateInput, i, b.planes[i], len(edges))
	}

	counts := make(map[int]int, len(edges))
	for _, e := range edges {
		counts[e.Start]++
		counts[e.End]++
	}
	for v, count := range counts {
		switch {
		case count == 1:
			return polytope.Face{}, fmt.Errorf("%w: plane %d has an open boundary at %v, the region is unbounded", ErrDegenerateInput, i, b.vertices[v])
		case count > 2:
			return polytope.Face{}, fmt.Errorf("%w: vertex %v touches %d edges of plane %d", ErrTopology, b.vertices[v], count, i)
		}
	}

	loop := make([]polytope.Edge, 0, len(edges))
	placed := make([]bool, len(edges))
	loop = append(loop, edges[0])
	placed[0] = true

	for len(loop) < len(edges) {
		tail := loop[len(loop)-1].End
		next := -1
		for j, e := range edges {
			if placed[j] {
				continue
			}
			if e.Start == tail {
				next = j
				loop = append(loop, e)
				break
			}
			if e.End == tail {
				next = j
				loop = append(loop, e.Reversed())
				break
			}
		}
		if next < 0 {
			return polytope.Face{}, fmt.Errorf("%w: face walk of plane %d stalled after %d of %d edges", ErrTopology, i, len(loop), len(edges))
		}
		placed[next] = true
	}

	if loop[len(loop)-1].End != loop[0].Start {
		return polytope.Face{}, fmt.Errorf("%w: face walk of plane %d does not return to its start", ErrTopology, i)
	}

	for k, e := range loop {
		loop[k] = polytope.Edge{Start: b.remap[e.Start], End: b.remap[e.End]}
	}
	face := polytope.Face{Edges: loop}

	if face.Normal(vertices).Dot(b.planes[i].Normal) < 0 {
		face = face.Reversed()
	}

	if !face.IsClosed() || !face.IsOrdered() {
		return polytope.Face{}, fmt.Errorf("%w: face of plane %d is not a closed ordered loop", ErrTopology, i)
	}
	return face, nil
}
