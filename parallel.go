package kdtree

import "sync"

// NearestParallel runs Nearest for every query using multiple goroutines.
// found[i] reports whether nearest[i] holds a neighbour for queries[i].
// workers controls the degree of parallelism: 0 uses the tree's
// Config.Workers, and values <= 1 after that fall back to a sequential loop.
//
// The results are identical to calling Nearest once per query.
func (t Tree[P]) NearestParallel(queries []P, workers int) (nearest []P, found []bool) {
	nearest = make([]P, len(queries))
	found = make([]bool, len(queries))
	t.shard(len(queries), workers, func(start, end int) {
		for i := start; i < end; i++ {
			nearest[i], found[i] = t.Nearest(queries[i])
		}
	})
	return nearest, found
}

// NearestKParallel runs NearestK for every query using multiple goroutines.
// workers has the same meaning as for NearestParallel.
func (t Tree[P]) NearestKParallel(k int, queries []P, workers int) [][]P {
	result := make([][]P, len(queries))
	t.shard(len(queries), workers, func(start, end int) {
		for i := start; i < end; i++ {
			result[i] = t.NearestK(k, queries[i])
		}
	})
	return result
}

// shard splits [0, n) into contiguous ranges, one per worker. Ranges don't
// overlap, so fn may write to per-index result slots without locking.
func (t Tree[P]) shard(n, workers int, fn func(start, end int)) {
	if workers == 0 {
		cfg := t.cfg
		applyDefaults(&cfg)
		workers = cfg.Workers
	}
	if workers <= 1 || n <= 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	perWorker := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * perWorker
		end := min(start+perWorker, n)
		if start >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}

	wg.Wait()
}
