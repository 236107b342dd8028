package chisel

import "sync"

// parallelFor calls fn(i) for every i in [0, n), splitting the range into
// contiguous chunks across workersCount goroutines. Each index is visited by
// exactly one goroutine.
func parallelFor(workersCount, n int, fn func(i int)) {
	workersCount = max(1, min(workersCount, n))
	if workersCount == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start, end := workerID*chunkSize, min((workerID+1)*chunkSize, n)
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
