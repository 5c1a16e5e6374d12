package decayvol

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"
)

func TestPointAt(t *testing.T) {
	p := pointAt(vec3.T{1, 2, 3}, vec3.T{0, 0, 1}, 5)
	if p != (vec3.T{1, 2, 8}) {
		t.Fatalf("unexpected point: %+v", p)
	}
	p = pointAt(vec3.T{1, 2, 3}, vec3.T{0, 1, 0}, -2)
	if p != (vec3.T{1, 0, 3}) {
		t.Fatalf("unexpected point: %+v", p)
	}
}

func TestFiniteChecks(t *testing.T) {
	if !isFinite(1.5) || isFinite(math.Inf(1)) || isFinite(math.NaN()) {
		t.Fatal("isFinite misclassified")
	}
	if !finiteVec(vec3.T{1, 2, 3}) || finiteVec(vec3.T{1, math.NaN(), 3}) {
		t.Fatal("finiteVec misclassified")
	}
}

func TestRandNormalMoments(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	n := 20000
	sum, sum2 := 0.0, 0.0
	for i := 0; i < n; i++ {
		x := randNormal(rng)
		sum += x
		sum2 += x * x
	}
	mean := sum / Real(n)
	variance := sum2/Real(n) - mean*mean
	if math.Abs(mean) > 0.05 {
		t.Fatalf("mean too far from 0: %.4f", mean)
	}
	if math.Abs(variance-1) > 0.1 {
		t.Fatalf("variance too far from 1: %.4f", variance)
	}
}
