package decayvol

import (
	"math"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"
)

func TestStepperMatchesClosedFormBox(t *testing.T) {
	st := NewStepper(NewBoxOracle(StandardVolume()))
	cr, ok := st.Intersect(vec3.T{0, 0, -2000}, vec3.T{0, 0, 1})
	if !ok {
		t.Fatalf("expected a crossing")
	}
	want, _ := StandardVolume().Intersect(vec3.T{0, 0, -2000}, vec3.T{0, 0, 1})
	if !vecClose(cr.Entry, want.Entry, 1e-9) || !vecClose(cr.Exit, want.Exit, 1e-9) {
		t.Fatalf("stepped crossing drifted: %+v %+v", cr.Entry, cr.Exit)
	}
	if math.Abs(cr.EntryT-1500) > 1e-9 || math.Abs(cr.ExitT-2500) > 1e-9 {
		t.Fatalf("wrong path lengths: %.6g %.6g", cr.EntryT, cr.ExitT)
	}
}

func TestStepperCylinderAxisWalk(t *testing.T) {
	o, err := NewCylinderOracle(vec3.T{}, 300, 500, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := NewStepper(o)
	cr, ok := st.Intersect(vec3.T{0, 0, -2000}, vec3.T{0, 0, 1})
	if !ok {
		t.Fatalf("expected a crossing")
	}
	if !vecClose(cr.Entry, vec3.T{0, 0, -500}, 1e-9) || !vecClose(cr.Exit, vec3.T{0, 0, 500}, 1e-9) {
		t.Fatalf("wrong cap crossings: %+v %+v", cr.Entry, cr.Exit)
	}
}

func TestStepperCylinderLateralWalk(t *testing.T) {
	o, err := NewCylinderOracle(vec3.T{}, 300, 500, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := NewStepper(o)
	cr, ok := st.Intersect(vec3.T{-2000, 0, 0}, vec3.T{1, 0, 0})
	if !ok {
		t.Fatalf("expected a crossing")
	}
	if !vecClose(cr.Entry, vec3.T{-300, 0, 0}, 1e-9) || !vecClose(cr.Exit, vec3.T{300, 0, 0}, 1e-9) {
		t.Fatalf("wrong lateral crossings: %+v %+v", cr.Entry, cr.Exit)
	}
	if math.Abs(cr.EntryT-1700) > 1e-9 || math.Abs(cr.ExitT-2300) > 1e-9 {
		t.Fatalf("wrong path lengths: %.6g %.6g", cr.EntryT, cr.ExitT)
	}
}

func TestStepperMiss(t *testing.T) {
	st := NewStepper(NewBoxOracle(StandardVolume()))
	if _, ok := st.Intersect(vec3.T{0, 1500, -2000}, vec3.T{0, 0, 1}); ok {
		t.Fatalf("offset trajectory should miss")
	}
	if _, ok := st.Intersect(vec3.T{0, 0, -2000}, vec3.T{0, 0, -1}); ok {
		t.Fatalf("backward trajectory should miss")
	}
}

func TestStepperPanicsInsideSolid(t *testing.T) {
	st := NewStepper(NewBoxOracle(StandardVolume()))
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a start inside the solid")
		}
	}()
	st.Intersect(vec3.T{0, 0, 0}, vec3.T{0, 0, 1})
}

func TestStepperThinSolidFallback(t *testing.T) {
	thin, err := NewBox(vec3.T{}, vec3.T{500, 500, 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := outcomeCounts()[FallbackExit]
	st := NewStepper(NewBoxOracle(thin))
	cr, ok := st.Intersect(vec3.T{0, 0, -2000}, vec3.T{0, 0, 1})
	if !ok {
		t.Fatalf("fallback should still report a crossing")
	}
	if !vecClose(cr.Entry, vec3.T{0, 0, -0.5}, 1e-9) {
		t.Fatalf("wrong entry: %+v", cr.Entry)
	}
	if !vecClose(cr.Exit, vec3.T{0, 0, 49.5}, 1e-9) {
		t.Fatalf("fallback exit should sit %g mm past the entry: %+v", FallbackStep, cr.Exit)
	}
	if got := outcomeCounts()[FallbackExit] - before; got != 1 {
		t.Fatalf("fallback outcome count moved by %d", got)
	}
}

// chatterOracle reports a boundary on every step, the way a walk trapped
// on a degenerate surface would.
type chatterOracle struct {
	cur, dir vec3.T
}

func (o *chatterOracle) SetCursor(p, d vec3.T) { o.cur, o.dir = p, d }
func (o *chatterOracle) Cursor() vec3.T        { return o.cur }
func (o *chatterOracle) Inside() bool          { return false }
func (o *chatterOracle) Advance(step Real)     { o.cur = pointAt(o.cur, o.dir, step) }
func (o *chatterOracle) Bounds() Box           { return StandardVolume() }

func (o *chatterOracle) StepToBoundary(max Real) bool {
	o.cur = pointAt(o.cur, o.dir, 1)
	return true
}

func TestStepperBudgetExhaustion(t *testing.T) {
	before := outcomeCounts()[BudgetExhausted]
	st := NewStepper(&chatterOracle{})
	st.Budget = 8
	if _, ok := st.Intersect(vec3.T{0, 0, -2000}, vec3.T{0, 0, 1}); ok {
		t.Fatalf("an exhausted walk should drop the trajectory")
	}
	if got := outcomeCounts()[BudgetExhausted] - before; got != 1 {
		t.Fatalf("budget outcome count moved by %d", got)
	}
}

// nestedOracle stops on its world box face before the solid itself, the
// way a navigator with a container volume does.
type nestedOracle struct {
	solid, world Box
	cur, dir     vec3.T
}

func (o *nestedOracle) SetCursor(p, d vec3.T) { o.cur, o.dir = p, d }
func (o *nestedOracle) Cursor() vec3.T        { return o.cur }
func (o *nestedOracle) Inside() bool          { return o.solid.Contains(o.cur) }
func (o *nestedOracle) Advance(step Real)     { o.cur = pointAt(o.cur, o.dir, step) }
func (o *nestedOracle) Bounds() Box           { return o.world }

func (o *nestedOracle) StepToBoundary(max Real) bool {
	boxes := []Box{o.solid}
	if !o.world.Contains(o.cur) {
		boxes = append(boxes, o.world)
	}
	best := max
	found := false
	for _, b := range boxes {
		probe := NewBoxOracle(b)
		probe.SetCursor(o.cur, o.dir)
		if probe.StepToBoundary(best) {
			p := probe.Cursor()
			if t := vec3.Distance(&o.cur, &p); t < best {
				best, found = t, true
			}
		}
	}
	o.cur = pointAt(o.cur, o.dir, best)
	return found
}

func TestStepperStepsPastBoundingFace(t *testing.T) {
	solid, err := NewBox(vec3.T{}, vec3.T{260, 260, 260})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := NewStepper(&nestedOracle{solid: solid, world: StandardVolume()})
	cr, ok := st.Intersect(vec3.T{0, 0, -2000}, vec3.T{0, 0, 1})
	if !ok {
		t.Fatalf("expected a crossing")
	}
	// the world face at z=-500 must not be mistaken for the entry
	if !vecClose(cr.Entry, vec3.T{0, 0, -260}, 1e-9) {
		t.Fatalf("wrong entry: %+v", cr.Entry)
	}
	if !vecClose(cr.Exit, vec3.T{0, 0, 260}, 1e-9) {
		t.Fatalf("wrong exit: %+v", cr.Exit)
	}
}
