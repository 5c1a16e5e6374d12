package decayvol

import (
	"math"
	"testing"

	"go-hep.org/x/hep/fmom"
)

func TestNewDecaySamplerValidation(t *testing.T) {
	for _, tau := range []Real{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewDecaySampler(tau); err == nil {
			t.Fatalf("expected error for tau=%v", tau)
		}
	}
	ds, err := NewDecaySampler(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Tau != 1 {
		t.Fatalf("lifetime mangled: %v", ds.Tau)
	}
}

func TestKinematicsOf(t *testing.T) {
	k := KinematicsOf(fmom.NewPxPyPzE(0, 0, 4, 5))
	if math.Abs(k.Beta-0.8) > 1e-12 {
		t.Fatalf("wrong beta: %.12g", k.Beta)
	}
	if math.Abs(k.Gamma-5.0/3.0) > 1e-12 {
		t.Fatalf("wrong gamma: %.12g", k.Gamma)
	}
}

func TestDrawEndpoints(t *testing.T) {
	ds, _ := NewDecaySampler(1)
	k := Kinematics{Beta: 0.8, Gamma: 5.0 / 3.0}
	// u=0 lands on the exit, u->1 walks back to the entry
	if got := ds.Draw(k, 1000, 0); math.Abs(got-1000) > 1e-6 {
		t.Fatalf("u=0 should decay at the exit, got %.9g", got)
	}
	if got := ds.Draw(k, 1000, 0.999999); got > 1 {
		t.Fatalf("u->1 should decay near the entry, got %.9g", got)
	}
}

func TestDrawStaysInsideChord(t *testing.T) {
	ds, _ := NewDecaySampler(0.5)
	k := KinematicsOf(fmom.NewPxPyPzE(0, 0, 2, math.Sqrt(5)))
	prev := math.Inf(1)
	for _, u := range []Real{0, 0.25, 0.5, 0.75, 0.95} {
		got := ds.Draw(k, 750, u)
		if got < 0 || got > 750 {
			t.Fatalf("draw left the chord: u=%v -> %.6g", u, got)
		}
		if got > prev {
			t.Fatalf("draw must shrink as u grows: u=%v -> %.6g after %.6g", u, got, prev)
		}
		prev = got
	}
}

func TestDrawRejectsBadBeta(t *testing.T) {
	ds, _ := NewDecaySampler(1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for beta=1")
		}
	}()
	ds.Draw(KinematicsOf(fmom.NewPxPyPzE(0, 0, 5, 5)), 1000, 0.5)
}

func TestDrawRejectsZeroChord(t *testing.T) {
	ds, _ := NewDecaySampler(1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a zero chord")
		}
	}()
	ds.Draw(KinematicsOf(fmom.NewPxPyPzE(0, 0, 2, math.Sqrt(5))), 0, 0.5)
}

func TestSurvivalAndDecayProbabilities(t *testing.T) {
	ds, _ := NewDecaySampler(1)
	// m=1 GeV flying at p=2 GeV: beta*gamma = 2 exactly
	k := KinematicsOf(fmom.NewPxPyPzE(0, 0, 2, math.Sqrt(5)))
	if surv := ds.SurvivalTo(k, 1500); math.Abs(surv-0.0819431) > 1e-4 {
		t.Fatalf("wrong survival probability: %.9g", surv)
	}
	if dec := ds.DecayWithin(k, 1000); math.Abs(dec-0.8113422) > 1e-4 {
		t.Fatalf("wrong in-volume decay probability: %.9g", dec)
	}
	// surviving a chord and decaying inside it are complementary
	for _, l := range []Real{1, 250, 1000, 5000} {
		sum := ds.SurvivalTo(k, l) + ds.DecayWithin(k, l)
		if math.Abs(sum-1) > 1e-12 {
			t.Fatalf("probabilities do not complement at %.6g mm: %.12g", l, sum)
		}
	}
}

func TestLongerFlightsDecayMore(t *testing.T) {
	ds, _ := NewDecaySampler(2)
	k := Kinematics{Beta: 0.5, Gamma: math.Sqrt(1 / (1 - 0.25))}
	if !(ds.DecayWithin(k, 2000) > ds.DecayWithin(k, 200)) {
		t.Fatalf("longer chord should decay more")
	}
	if !(ds.SurvivalTo(k, 2000) < ds.SurvivalTo(k, 200)) {
		t.Fatalf("longer flight should survive less")
	}
}
