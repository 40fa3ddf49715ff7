// Package parallel provides the fork-join loop primitive shared by the
// detectors. Work is split into contiguous index ranges so each worker
// touches a compact span of whatever it writes; the caller guarantees
// ranges map to disjoint output regions.
package parallel

import (
	"runtime"
	"sync"
)

// smallN is the loop size below which forking goroutines costs more than
// it saves.
const smallN = 32

// For runs fn(start, end) over a partition of [0, n) using the given
// number of workers. workers <= 0 selects GOMAXPROCS. With one worker, or
// a loop too small to be worth splitting, fn runs inline on the calling
// goroutine. For returns after every range has completed.
func For(workers, n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers == 1 || n < smallN {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
