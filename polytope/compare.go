package polytope

import (
	"errors"
	"fmt"

	"github.com/akmonengine/chisel/plane"
)

// ErrNotEquivalent is wrapped by Compare when two polytopes differ.
var ErrNotEquivalent = errors.New("polytopes are not equivalent")

// Compare checks whether two polytopes describe the same solid regardless of
// vertex and face numbering.
//
// Steps:
//  1. Map each vertex of a to the nearest unused vertex of b within plane.Epsilon.
//  2. Rewrite every face of a in terms of b's indices.
//  3. Require each rewritten face to match a distinct face of b with the same
//     incidence counts, which ignores winding direction and starting edge.
//
// Brute force in both vertices and faces; intended for tests.
func Compare(a, b *Polytope) error {
	if a == nil || b == nil {
		if a == b {
			return nil
		}
		return fmt.Errorf("%w: nil polytope", ErrNotEquivalent)
	}
	if len(a.vertices) != len(b.vertices) {
		return fmt.Errorf("%w: %d vertices vs %d", ErrNotEquivalent, len(a.vertices), len(b.vertices))
	}
	if len(a.faces) != len(b.faces) {
		return fmt.Errorf("%w: %d faces vs %d", ErrNotEquivalent, len(a.faces), len(b.faces))
	}

	mapping := make([]int, len(a.vertices))
	taken := make([]bool, len(b.vertices))
	for i, va := range a.vertices {
		match := -1
		bestDist := plane.Epsilon
		for j, vb := range b.vertices {
			if taken[j] {
				continue
			}
			if dist := va.Sub(vb).Len(); dist <= bestDist {
				match, bestDist = j, dist
			}
		}
		if match < 0 {
			return fmt.Errorf("%w: vertex %d %v has no match", ErrNotEquivalent, i, va)
		}
		mapping[i] = match
		taken[match] = true
	}

	matched := make([]bool, len(b.faces))
	for i, face := range a.faces {
		expected := Face{Edges: make([]Edge, len(face.Edges))}
		for k, edge := range face.Edges {
			expected.Edges[k] = Edge{Start: mapping[edge.Start], End: mapping[edge.End]}
		}

		found := false
		for j, candidate := range b.faces {
			if !matched[j] && expected.SameLoop(candidate) {
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: face %d %v (as %v) has no match", ErrNotEquivalent, i, face.Loop(), expected.Loop())
		}
	}
	return nil
}

// Equal reports whether Compare finds the polytopes equivalent.
func Equal(a, b *Polytope) bool {
	return Compare(a, b) == nil
}
