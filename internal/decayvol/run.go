package decayvol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// placeEvents draws total events from the production model, places a decay
// vertex for each and streams one JSON line per placement. A non-zero seed
// makes the per-worker event streams deterministic.
func placeEvents(eng *Engine, prod *ProductionModel, newOracle func() SolidOracle, total int, seed int64, out *bufio.Writer) error {
	if total <= 0 {
		return nil
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}
	per, rem := total/workers, total%workers

	var counter int64
	nextPrint := int64(1)
	if total >= 100 {
		nextPrint = int64(total / 100) // ~1%
	}

	var mu sync.Mutex
	var werr error
	var wg sync.WaitGroup

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
			rng := rand.New(rand.NewSource(seed ^ int64(uint64(wid)*0x9e3779b97f4a7c15)))

			we := eng
			if newOracle != nil {
				we = eng.WithOracle(newOracle())
			}

			for i := 0; i < n; i++ {
				ev := prod.Sample(rng)
				pl := we.PlaceVertex(ev, prod, rng)
				line, err := json.Marshal(pl)
				if err == nil {
					mu.Lock()
					if werr == nil {
						if _, err = out.Write(line); err == nil {
							err = out.WriteByte('\n')
						}
						werr = err
					}
					mu.Unlock()
				} else {
					mu.Lock()
					if werr == nil {
						werr = err
					}
					mu.Unlock()
					return
				}

				done := atomic.AddInt64(&counter, 1)
				if !SkipProgress && done%nextPrint == 0 {
					fmt.Printf("[PROGRESS] %.2f%%\n", Real(done)*100/Real(total))
				}
			}
		}(w, n)
	}
	wg.Wait()
	return werr
}

func Run(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	units, err := EnforceUnits(cfg.Units.Length, cfg.Units.Angle, cfg.Units.Time)
	if err != nil {
		return err
	}
	volume, newOracle, err := cfg.Geometry.Build(units)
	if err != nil {
		return err
	}
	sampler, err := cfg.Lifetime.Build()
	if err != nil {
		return err
	}
	prod, err := cfg.Production.Build(units)
	if err != nil {
		return err
	}

	eng := NewEngine(units, cfg.Frames.Build(units), volume, sampler)
	eng.MaxRetries = cfg.MaxRetries
	eng.StepBudget = cfg.StepBudget

	acc := EstimateAcceptance(prod, eng, newOracle, cfg.ProbeTrajs, cfg.Seed)
	DebugLog("Probe acceptance: %.4f over %d throws", acc, cfg.ProbeTrajs)
	if acc == 0 {
		fmt.Printf("[WARN] probe found no intersecting trajectory in %d throws, expect mostly sentinel vertices\n", cfg.ProbeTrajs)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(cfg.Out)
	if err != nil {
		return err
	}
	defer f.Close()
	out := bufio.NewWriter(f)

	start := time.Now()
	if err := placeEvents(eng, prod, newOracle, cfg.Events, cfg.Seed, out); err != nil {
		return err
	}
	DebugLog("Events: %d, time: %s", cfg.Events, time.Since(start))

	if err := out.Flush(); err != nil {
		return err
	}

	if Debug {
		trajStats()
	}
	printOutcomes()
	return nil
}
