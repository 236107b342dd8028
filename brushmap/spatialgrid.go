package brushmap

import (
	"math"
	"sync"

	"github.com/akmonengine/chisel/polytope"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey is the integer coordinate of a grid cell.
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the boxes touching it, in insertion order.
type Cell struct {
	indices []int
}

// Pair is two brush indices with A < B.
type Pair struct {
	A, B int
}

// SpatialGrid is a uniform grid hashed into a fixed number of cells, used as
// the broad phase. Distinct cells may share a slot; callers filter on AABBs.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid creates a grid of cellSize cubes hashed into numCells slots,
// rounded up to a power of two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].indices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// ============================================================================
// Operations
// ============================================================================

// Insert registers index in every cell slot covered by box.
func (sg *SpatialGrid) Insert(index int, box polytope.AABB) {
	sg.visit(box, func(cellIdx int) {
		cell := &sg.cells[cellIdx]
		// A box wider than the grid revisits slots.
		if n := len(cell.indices); n > 0 && cell.indices[n-1] == index {
			return
		}
		cell.indices = append(cell.indices, index)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].indices = sg.cells[i].indices[:0]
	}
}

// Candidates calls fn once for every index sharing a cell slot with box.
func (sg *SpatialGrid) Candidates(box polytope.AABB, seen []bool, fn func(index int)) {
	clear(seen)
	sg.visit(box, func(cellIdx int) {
		for _, other := range sg.cells[cellIdx].indices {
			if seen[other] {
				continue
			}
			seen[other] = true
			fn(other)
		}
	})
}

// FindPairsParallel streams every pair of boxes whose AABBs overlap. Box i must
// have been inserted with index i. The channel is closed once all workers finish.
func (sg *SpatialGrid) FindPairsParallel(boxes []polytope.AABB, numWorkers int) <-chan Pair {
	var wg sync.WaitGroup
	numWorkers = max(1, min(numWorkers, len(boxes)))
	pairsChan := make(chan Pair, numWorkers*10)

	boxesPerWorker := (len(boxes) + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		start, end := w*boxesPerWorker, min((w+1)*boxesPerWorker, len(boxes))
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			seen := make([]bool, len(boxes))
			for idx := start; idx < end; idx++ {
				sg.Candidates(boxes[idx], seen, func(other int) {
					// Only the lower index reports, so (A,B) never repeats as (B,A).
					if other <= idx {
						return
					}
					if boxes[idx].Overlaps(boxes[other]) {
						pairsChan <- Pair{A: idx, B: other}
					}
				})
			}
		}(start, end)
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

// visit calls fn for each slot covered by box. When the box spans more cells
// than there are slots, every slot is visited once instead.
func (sg *SpatialGrid) visit(box polytope.AABB, fn func(cellIdx int)) {
	minCell := sg.worldToCell(box.Min)
	maxCell := sg.worldToCell(box.Max)

	span := 1.0
	span *= float64(maxCell.X-minCell.X) + 1
	span *= float64(maxCell.Y-minCell.Y) + 1
	span *= float64(maxCell.Z-minCell.Z) + 1
	if span > float64(len(sg.cells)) {
		for i := range sg.cells {
			fn(i)
		}
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(sg.hashCell(CellKey{x, y, z}))
			}
		}
	}
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
