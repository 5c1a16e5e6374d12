package decayvol

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ungerik/go3d/float64/vec3"
)

type Outcome uint8

const (
	Placed          Outcome = iota // decay vertex landed inside the volume
	Missed                         // trajectory never met the volume
	Aborted                        // retry budget exhausted, sentinel written
	FallbackExit                   // exit forced one fallback step past the entry
	BudgetExhausted                // boundary walk ran out of hops
)

func (o Outcome) String() string {
	switch o {
	case Placed:
		return "placed"
	case Missed:
		return "missed"
	case Aborted:
		return "aborted"
	case FallbackExit:
		return "fallback_exit"
	case BudgetExhausted:
		return "budget_exhausted"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Outcome) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "placed":
		*o = Placed
	case "missed":
		*o = Missed
	case "aborted":
		*o = Aborted
	case "fallback_exit":
		*o = FallbackExit
	case "budget_exhausted":
		*o = BudgetExhausted
	default:
		return fmt.Errorf("unknown outcome %q", s)
	}
	return nil
}

type TrajLog struct {
	Name    string
	Outcome Outcome
	Start   vec3.T
	Dir     vec3.T
	Point   vec3.T // placed vertex or last boundary point, if any
	Attempt int    // production throw number (0 for the first)
	Travel  Real   // mm from the entry to the decay point
}

type TrajLogCache struct {
	mu    sync.Mutex
	trajs map[string][]TrajLog
}

var cache = &TrajLogCache{
	trajs: make(map[string][]TrajLog),
}

func logTraj(name string, outcome Outcome, start, dir, point vec3.T, attempt int, travel Real) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.trajs[name] = append(cache.trajs[name], TrajLog{
		Name:    name,
		Outcome: outcome,
		Start:   start,
		Dir:     dir,
		Point:   point,
		Attempt: attempt,
		Travel:  travel,
	})
}

func trajStats() {
	for k, v := range cache.trajs {
		fmt.Printf("Trajectory type %s: %d logs\n", k, len(v))
	}
}

// outcome tallies are cheap enough to keep on regardless of Debug
var outcomes struct {
	mu sync.Mutex
	n  [5]int64
}

func countOutcome(o Outcome) {
	outcomes.mu.Lock()
	outcomes.n[o]++
	outcomes.mu.Unlock()
}

func outcomeCounts() map[Outcome]int64 {
	outcomes.mu.Lock()
	defer outcomes.mu.Unlock()
	m := make(map[Outcome]int64, len(outcomes.n))
	for i, c := range outcomes.n {
		if c > 0 {
			m[Outcome(i)] = c
		}
	}
	return m
}

func printOutcomes() {
	counts := outcomeCounts()
	for o := Placed; o <= BudgetExhausted; o++ {
		if c := counts[o]; c > 0 {
			fmt.Printf("Outcome %s: %d trajectories\n", o, c)
		}
	}
}
