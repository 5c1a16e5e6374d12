package decayvol

import (
	"math/rand"
	"runtime"
	"sync"
	"time"
)

// EstimateAcceptance measures the fraction of production throws whose
// trajectory meets the detector at all, with no retries and no decay
// draws. newOracle supplies a per-worker stepped oracle and may be nil
// when the closed-form box path is active. A non-zero seed makes the
// probe deterministic.
func EstimateAcceptance(prod *ProductionModel, eng *Engine, newOracle func() SolidOracle, trials int, seed int64) Real {
	if trials <= 0 {
		return 0
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > trials {
		workers = trials
	}

	per, rem := trials/workers, trials%workers
	var wg sync.WaitGroup
	hitsCh := make(chan int, workers)

	for w := 0; w < workers; w++ {
		n := per
		if w < rem {
			n++
		}
		if n == 0 {
			continue
		}
		wg.Add(1)
		go func(wid, n int) {
			defer wg.Done()
			// independent RNG per worker
			rng := rand.New(rand.NewSource(seed ^ int64(uint64(wid)*0x9e3779b97f4a7c15)))

			we := eng
			if newOracle != nil {
				we = eng.WithOracle(newOracle())
			}

			localHits := 0
			for i := 0; i < n; i++ {
				ev := prod.Sample(rng)
				start := we.Frames.BeamToDetPoint(ev.Start)
				dir := we.Frames.BeamToDetDir(ev.Dir())
				if _, ok := we.intersect(start, dir); ok {
					localHits++
				}
			}
			hitsCh <- localHits
		}(w, n)
	}

	wg.Wait()
	close(hitsCh)

	totalHits := 0
	for h := range hitsCh {
		totalHits += h
	}
	return Real(totalHits) / Real(trials)
}
