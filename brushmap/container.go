// Package brushmap stores converted brushes and answers overlap queries.
//
// Overlap detection runs in two phases: a hashed uniform grid over brush AABBs
// proposes candidate pairs, then GJK confirms which candidates actually
// intersect. EPA optionally measures how deep each confirmed pair overlaps.
// Brushes in exact contact (a shared face) may be reported either way.
package brushmap

import (
	"cmp"
	"slices"
	"sync"

	"github.com/akmonengine/chisel/epa"
	"github.com/akmonengine/chisel/gjk"
	"github.com/akmonengine/chisel/polytope"
)

const (
	DefaultCellSize = 16.0
	DefaultNumCells = 4096
)

// Contact is an intersecting pair with the translation that separates it:
// moving brush B by Normal*Depth ends the overlap.
type Contact struct {
	Pair
	epa.Penetration
}

type collisionPair struct {
	Pair
	simplex *gjk.Simplex
}

// Container is an indexed collection of brushes. Adding brushes is not safe
// for concurrent use; queries may run concurrently once adding is done.
type Container struct {
	brushes []*polytope.Polytope
	bounds  []polytope.AABB
	grid    *SpatialGrid
}

// NewContainer creates an empty container whose grid uses cubes of cellSize
// hashed into numCells slots. Non-positive values fall back to the defaults.
func NewContainer(cellSize float64, numCells int) *Container {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	if numCells <= 0 {
		numCells = DefaultNumCells
	}

	return &Container{
		grid: NewSpatialGrid(cellSize, numCells),
	}
}

// Add stores brush and returns its index.
func (c *Container) Add(brush *polytope.Polytope) int {
	index := len(c.brushes)
	box := brush.Bounds()

	c.brushes = append(c.brushes, brush)
	c.bounds = append(c.bounds, box)
	c.grid.Insert(index, box)

	return index
}

func (c *Container) AddAll(brushes ...*polytope.Polytope) {
	for _, brush := range brushes {
		c.Add(brush)
	}
}

// Reset removes every brush, keeping the grid allocation.
func (c *Container) Reset() {
	c.brushes = c.brushes[:0]
	c.bounds = c.bounds[:0]
	c.grid.Clear()
}

func (c *Container) Len() int {
	return len(c.brushes)
}

func (c *Container) Brush(i int) *polytope.Polytope {
	return c.brushes[i]
}

// Brushes returns the stored brushes in index order.
func (c *Container) Brushes() []*polytope.Polytope {
	return slices.Clone(c.brushes)
}

// Bounds returns the AABB of brush i.
func (c *Container) Bounds(i int) polytope.AABB {
	return c.bounds[i]
}

// OverlappingPairs returns every pair of intersecting brushes, sorted by
// (A, B). The GJK tests are spread over workers goroutines.
func (c *Container) OverlappingPairs(workers int) []Pair {
	workers = max(1, workers)

	candidates := c.grid.FindPairsParallel(c.bounds, workers)
	pairs := make([]Pair, 0)
	for collision := range c.narrowPhase(candidates, workers) {
		gjk.SimplexPool.Put(collision.simplex)
		pairs = append(pairs, collision.Pair)
	}
	slices.SortFunc(pairs, comparePairs)

	return pairs
}

// Contacts returns the penetration of every pair of intersecting brushes,
// sorted by (A, B). Pairs whose depth computation fails are skipped.
func (c *Container) Contacts(workers int) []Contact {
	workers = max(1, workers)

	candidates := c.grid.FindPairsParallel(c.bounds, workers)
	collisions := c.narrowPhase(candidates, workers)
	contacts := make([]Contact, 0)
	for contact := range c.penetrations(collisions, workers) {
		contacts = append(contacts, contact)
	}
	slices.SortFunc(contacts, func(a, b Contact) int {
		return comparePairs(a.Pair, b.Pair)
	})

	return contacts
}

// Penetration measures the overlap of brushes i and j. ok is false when they
// do not intersect.
func (c *Container) Penetration(i, j int) (penetration epa.Penetration, ok bool, err error) {
	return epa.Depth(c.brushes[i], c.brushes[j])
}

func comparePairs(a, b Pair) int {
	return cmp.Or(cmp.Compare(a.A, b.A), cmp.Compare(a.B, b.B))
}

// narrowPhase confirms candidate pairs with GJK. Each confirmed pair carries
// its pooled simplex, which the receiver must return to gjk.SimplexPool.
func (c *Container) narrowPhase(pairChan <-chan Pair, workersCount int) <-chan collisionPair {
	collisionChan := make(chan collisionPair, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(collisionChan)

		for range workersCount {
			wg.Add(1)
			go func() {
				defer wg.Done()

				for p := range pairChan {
					simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
					simplex.Reset()

					if gjk.GJK(c.brushes[p.A], c.brushes[p.B], simplex) {
						collisionChan <- collisionPair{Pair: p, simplex: simplex}
					} else {
						gjk.SimplexPool.Put(simplex)
					}
				}
			}()
		}
		wg.Wait()
	}()

	return collisionChan
}

func (c *Container) penetrations(collisions <-chan collisionPair, workersCount int) <-chan Contact {
	ch := make(chan Contact, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(ch)

		for range workersCount {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for collision := range collisions {
					penetration, err := epa.EPA(c.brushes[collision.A], c.brushes[collision.B], collision.simplex)
					gjk.SimplexPool.Put(collision.simplex)
					if err != nil {
						continue
					}
					ch <- Contact{Pair: collision.Pair, Penetration: penetration}
				}
			}()
		}

		wg.Wait()
	}()

	return ch
}

// Query returns the indices of brushes whose AABB overlaps box, ascending.
func (c *Container) Query(box polytope.AABB) []int {
	seen := make([]bool, len(c.brushes))
	hits := make([]int, 0)

	c.grid.Candidates(box, seen, func(index int) {
		if c.bounds[index].Overlaps(box) {
			hits = append(hits, index)
		}
	})
	slices.Sort(hits)

	return hits
}
