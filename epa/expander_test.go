package epa

import (
	"testing"

	"github.com/akmonengine/chisel/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

func newTestExpander() *Expander {
	e := &Expander{}
	e.Init(&gjk.Simplex{Points: [4]mgl64.Vec3{
		{1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {1, -1, -1},
	}, Count: 4})
	return e
}

// checkClosed verifies every directed edge is matched by its reverse, and every
// face normal points away from the interior.
func checkClosed(t *testing.T, e *Expander) {
	t.Helper()

	edges := make(map[edge]int)
	for _, f := range e.faces {
		edges[edge{f.a, f.b}]++
		edges[edge{f.b, f.c}]++
		edges[edge{f.c, f.a}]++

		if f.normal.Dot(e.points[f.a].Sub(e.interior)) <= 0 {
			t.Errorf("face %v faces inward", f)
		}
	}
	for ed, count := range edges {
		if count != 1 || edges[edge{ed.to, ed.from}] != 1 {
			t.Errorf("edge %v seen %d times, reverse %d times", ed, count, edges[edge{ed.to, ed.from}])
		}
	}
}

func TestExpanderInit(t *testing.T) {
	e := newTestExpander()

	if len(e.faces) != 4 {
		t.Fatalf("Expected 4 faces, got %d", len(e.faces))
	}
	for i, f := range e.faces {
		if f.distance <= 0 {
			t.Errorf("face %d distance %v, expected positive", i, f.distance)
		}
	}
	checkClosed(t, e)
}

func TestExpanderExpand(t *testing.T) {
	e := newTestExpander()
	closest := e.Closest()
	support := e.faces[closest].normal.Mul(5)

	if !e.Expand(support) {
		t.Fatal("Expected the support point to be visible")
	}
	if len(e.points) != 5 {
		t.Errorf("Expected 5 points, got %d", len(e.points))
	}
	if len(e.faces) != 6 {
		t.Errorf("Expected 6 faces after adding a point above one face, got %d", len(e.faces))
	}
	checkClosed(t, e)
}

func TestExpanderExpandInteriorPoint(t *testing.T) {
	e := newTestExpander()

	if e.Expand(mgl64.Vec3{0.1, 0, 0}) {
		t.Error("Expected an interior point to be rejected")
	}
	if len(e.faces) != 4 || len(e.points) != 4 {
		t.Errorf("Expected polytope unchanged, got %d faces and %d points", len(e.faces), len(e.points))
	}
}

func TestExpanderReset(t *testing.T) {
	e := newTestExpander()
	e.Reset()

	if len(e.points) != 0 || len(e.faces) != 0 || len(e.horizon) != 0 || e.Closest() != -1 {
		t.Error("Expected an empty expander after Reset")
	}
}
