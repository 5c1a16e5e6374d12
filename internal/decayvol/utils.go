package decayvol

import (
	"math"
	"math/rand"

	"github.com/ungerik/go3d/float64/vec3"
)

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func finiteVec(v vec3.T) bool {
	return isFinite(v[0]) && isFinite(v[1]) && isFinite(v[2])
}

func pointAt(start, dir vec3.T, t Real) vec3.T {
	s := dir.Scaled(t)
	return vec3.Add(&start, &s)
}

func randNormal(rng *rand.Rand) Real {
	// Box-Muller
	u1 := rng.Float64()
	u2 := rng.Float64()
	r := math.Sqrt(-2 * math.Log(math.Max(u1, 1e-12)))
	return r * math.Cos(2*math.Pi*u2)
}
