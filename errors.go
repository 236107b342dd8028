package chisel

import "errors"

var (
	// ErrDegenerateInput means the planes do not bound a finite convex solid in
	// which every plane contributes a face: too few planes, a zero normal, an
	// empty or unbounded intersection, or a plane that only touches the solid.
	ErrDegenerateInput = errors.New("degenerate half-space set")

	// ErrTopology means construction reached an inconsistent topology (3+
	// vertices on one plane pair, a face loop that does not close). It points
	// at tolerance or arithmetic trouble rather than bad input.
	ErrTopology = errors.New("topology invariant violation")
)
