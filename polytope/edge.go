package polytope

// Edge joins two vertices of a polytope by index. An edge belongs to the two
// faces whose planes meet along it; inside a face loop it carries a direction.
type Edge struct {
	Start, End int
}

// Reversed returns the edge with its direction flipped.
func (e Edge) Reversed() Edge {
	return Edge{Start: e.End, End: e.Start}
}

// Normalized returns the edge ordered so that Start <= End, giving the same value
// for both directions of an undirected edge.
func (e Edge) Normalized() Edge {
	if e.Start > e.End {
		return e.Reversed()
	}
	return e
}

// Touches reports whether v is one of the edge's endpoints.
func (e Edge) Touches(v int) bool {
	return e.Start == v || e.End == v
}
