package chisel

import (
	"sync/atomic"
	"testing"

	"github.com/akmonengine/chisel/polytope"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(vertices []mgl64.Vec3) *BrushBuilder {
	b := &BrushBuilder{}
	b.Reset(cubePlanes())
	for _, v := range vertices {
		b.vertices = append(b.vertices, v)
		b.alive = append(b.alive, true)
	}
	return b
}

// topSquare lies on the top plane of cubePlanes (y = scale).
func topSquare() []mgl64.Vec3 {
	return []mgl64.Vec3{
		{-1, scale, -1},
		{1, scale, -1},
		{1, scale, 1},
		{-1, scale, 1},
		{3, scale, 3},
		{4, scale, 3},
	}
}

func TestResetReusesBuffers(t *testing.T) {
	b := &BrushBuilder{}
	b.Reset(cutCubePlanes())
	require.Len(t, b.pairs, 49)
	require.Len(t, b.edges, 7)

	b.Enumerate(1)
	require.NotEmpty(t, b.vertices)

	b.Reset(cubePlanes())
	require.Len(t, b.pairs, 36)
	require.Len(t, b.edges, 6)
	require.Empty(t, b.vertices)
	require.Empty(t, b.alive)
	for _, pair := range b.pairs {
		require.Empty(t, pair)
	}
}

func TestFindOrAddVertexMerges(t *testing.T) {
	b := newTestBuilder(nil)

	first := b.findOrAddVertex(mgl64.Vec3{1, 2, 3})
	same := b.findOrAddVertex(mgl64.Vec3{1 + 1e-7, 2, 3 - 1e-7})
	other := b.findOrAddVertex(mgl64.Vec3{1, 2, 3.001})

	require.Equal(t, first, same)
	require.NotEqual(t, first, other)
	require.Len(t, b.vertices, 2)
}

func TestAddToPairDeduplicates(t *testing.T) {
	b := newTestBuilder(topSquare())

	b.addToPair(3, 1, 0)
	b.addToPair(3, 1, 0)
	b.addToPair(3, 1, 2)
	require.Equal(t, []int{0, 2}, b.pairs[3*len(b.planes)+1])
}

func TestPruneDiscardsOutsideVertices(t *testing.T) {
	b := newTestBuilder([]mgl64.Vec3{
		{0, 0, 0},
		{scale, scale, scale},
		{scale + 1, 0, 0},
		{0, scale + 2*1e-5, 0},
	})

	b.Prune()
	require.Equal(t, []bool{true, true, false, false}, b.alive)
}

func TestAssembleEdgesTooManyVertices(t *testing.T) {
	b := newTestBuilder(topSquare())
	n := len(b.planes)
	b.pairs[1*n+0] = []int{0, 1, 2}

	err := b.AssembleEdges()
	require.ErrorIs(t, err, ErrTopology)
}

func TestAssembleEdgesSkipsPrunedAndSingles(t *testing.T) {
	b := newTestBuilder(topSquare())
	n := len(b.planes)
	b.pairs[2*n+0] = []int{0, 1, 2}
	b.pairs[3*n+0] = []int{3}
	b.alive[2] = false

	require.NoError(t, b.AssembleEdges())
	require.Equal(t, []polytope.Edge{{Start: 0, End: 1}}, b.edges[0])
	require.Equal(t, []polytope.Edge{{Start: 0, End: 1}}, b.edges[2])
	require.Empty(t, b.edges[3])
}

func TestBuildFaceWalksUnorderedEdges(t *testing.T) {
	b := newTestBuilder(topSquare()[:4])
	b.edges[0] = []polytope.Edge{{Start: 0, End: 1}, {Start: 2, End: 1}, {Start: 2, End: 3}, {Start: 0, End: 3}}
	vertices := b.Compact()

	face, err := b.BuildFace(0, vertices)
	require.NoError(t, err)
	require.Equal(t, 4, face.Arity())
	require.True(t, face.IsClosed())
	require.True(t, face.IsOrdered())
	require.Greater(t, face.Normal(vertices).Dot(mgl64.Vec3{0, 1, 0}), 0.0)
}

func TestBuildFaceRemapsPrunedVertices(t *testing.T) {
	vertices := append([]mgl64.Vec3{{100, 100, 100}}, topSquare()[:4]...)
	b := newTestBuilder(vertices)
	b.alive[0] = false
	b.edges[0] = []polytope.Edge{{Start: 1, End: 2}, {Start: 2, End: 3}, {Start: 3, End: 4}, {Start: 4, End: 1}}
	compact := b.Compact()
	require.Len(t, compact, 4)

	face, err := b.BuildFace(0, compact)
	require.NoError(t, err)
	for _, v := range face.Loop() {
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 4)
	}
}

func TestBuildFaceErrors(t *testing.T) {
	tests := []struct {
		name  string
		edges []polytope.Edge
		err   error
	}{
		{
			name:  "no edges",
			edges: nil,
			err:   ErrDegenerateInput,
		},
		{
			name:  "single edge",
			edges: []polytope.Edge{{Start: 0, End: 1}},
			err:   ErrDegenerateInput,
		},
		{
			name:  "open chain",
			edges: []polytope.Edge{{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 2, End: 3}},
			err:   ErrDegenerateInput,
		},
		{
			name:  "vertex shared by four edges",
			edges: []polytope.Edge{{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 2, End: 0}, {Start: 0, End: 4}, {Start: 4, End: 5}, {Start: 5, End: 0}},
			err:   ErrTopology,
		},
		{
			name:  "two separate loops",
			edges: []polytope.Edge{{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 2, End: 0}, {Start: 3, End: 4}, {Start: 4, End: 5}, {Start: 5, End: 3}},
			err:   ErrTopology,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuilder(topSquare())
			b.edges[0] = tt.edges
			vertices := b.Compact()

			_, err := b.BuildFace(0, vertices)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParallelForVisitsEachIndexOnce(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 8, 100} {
		for _, n := range []int{0, 1, 7, 50} {
			visits := make([]int32, n)
			parallelFor(workers, n, func(i int) {
				atomic.AddInt32(&visits[i], 1)
			})
			for i, count := range visits {
				require.Equal(t, int32(1), count, "workers=%d n=%d index=%d", workers, n, i)
			}
		}
	}
}
