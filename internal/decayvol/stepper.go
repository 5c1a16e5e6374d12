package decayvol

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"
)

// Stepper finds where a trajectory enters and leaves an opaque solid by
// walking a SolidOracle. The oracle is queried strictly sequentially, so
// give every goroutine its own Stepper with its own oracle.
type Stepper struct {
	Oracle SolidOracle
	Budget int // boundary hops allowed per exit walk
}

func NewStepper(o SolidOracle) *Stepper {
	return &Stepper{Oracle: o, Budget: StepBudget}
}

// Intersect walks the oracle's solid along start+t*dir and returns the
// entry and exit crossings. dir must be unit length and start must lie
// outside the solid. Reports false when the trajectory never meets the
// solid or the walk gives up.
func (s *Stepper) Intersect(start, dir vec3.T) (Crossing, bool) {
	s.Oracle.SetCursor(start, dir)
	if s.Oracle.Inside() {
		panic(fmt.Sprintf("boundary walk started inside the solid at %+v", start))
	}

	// Seed the walk just before the bounding box. A start inside the box
	// but outside the solid, which happens near cylinder corners, walks
	// from the start itself.
	seed := Real(0)
	bounds := s.Oracle.Bounds()
	if !bounds.Contains(start) {
		cull, ok := bounds.Intersect(start, dir)
		if !ok {
			DebugLog("Trajectory from %+v along %+v misses the bounding box", start, dir)
			return Crossing{}, false
		}
		seed = cull.EntryT - SeedBackoff
		if seed < 0 {
			seed = 0
		}
	}
	s.Oracle.SetCursor(pointAt(start, dir, seed), dir)

	if !s.Oracle.StepToBoundary(EntrySearchCap) {
		return Crossing{}, false
	}
	// the first boundary met can be the bounding box rather than the solid
	if !s.Oracle.Inside() && bounds.OnSurface(s.Oracle.Cursor()) {
		if !s.Oracle.StepToBoundary(EntrySearchCap) {
			return Crossing{}, false
		}
	}
	entry := s.Oracle.Cursor()

	// Walk out of the solid. One blind opening step, then boundary hops,
	// each followed by a halving blind step. The last boundary reached
	// before the hops run dry is the exit.
	step := bounds.MaxExtent()
	if step > MaxFirstStep {
		step = MaxFirstStep
	}
	step /= 2
	s.Oracle.Advance(step)

	var exit vec3.T
	haveExit := false
	bd := 0
	for s.Oracle.StepToBoundary(EntrySearchCap) && bd < s.Budget {
		exit = s.Oracle.Cursor()
		haveExit = true
		if step >= StepFloor {
			step *= 0.5
		}
		s.Oracle.Advance(step)
		bd++
	}
	if bd == s.Budget {
		fmt.Printf("[WARN] no exit found within %d boundary hops, dropping trajectory\n", s.Budget)
		countOutcome(BudgetExhausted)
		return Crossing{}, false
	}

	if !haveExit || exit == entry {
		fmt.Printf("[WARN] solid spans less than %.6g mm along this trajectory, stepping %.6g mm past the entry\n", StepFloor, FallbackStep)
		countOutcome(FallbackExit)
		exit = pointAt(entry, dir, FallbackStep)
	}

	return Crossing{
		Entry:  entry,
		Exit:   exit,
		EntryT: vec3.Distance(&start, &entry),
		ExitT:  vec3.Distance(&start, &exit),
	}, true
}
