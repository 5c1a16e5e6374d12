package decayvol

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/ungerik/go3d/float64/vec3"
	"go-hep.org/x/hep/fmom"
)

// Event is one produced particle awaiting vertex placement. Start and the
// four-momentum are given in the beam frame, in mm and GeV.
type Event struct {
	Start  vec3.T
	P      fmom.PxPyPzE
	T      Real // production time, ns
	Weight Real
}

// Dir is the unit momentum direction.
func (ev Event) Dir() vec3.T {
	d := vec3.T{ev.P.Px(), ev.P.Py(), ev.P.Pz()}
	n := d.Length()
	if n < epsDir {
		panic(fmt.Sprintf("event momentum has no direction: %+v", d))
	}
	d.Scale(1 / n)
	return d
}

// BeamSpot is a Gaussian production spot. Axes with zero sigma collapse
// onto the centre.
type BeamSpot struct {
	Centre vec3.T
	Sigma  vec3.T // per-axis standard deviation, mm
}

func (b BeamSpot) Sample(rng *rand.Rand) vec3.T {
	return vec3.T{
		b.Centre[0] + b.Sigma[0]*randNormal(rng),
		b.Centre[1] + b.Sigma[1]*randNormal(rng),
		b.Centre[2] + b.Sigma[2]*randNormal(rng),
	}
}

// ProductionModel draws fresh production vertices and momenta when a
// trajectory misses the detector and has to be re-thrown.
type ProductionModel struct {
	Spot      BeamSpot
	Direction vec3.T // cone axis, unit
	Angle     Real   // cone half-angle in radians, [0, pi]; 0 pins the axis
	PMin      Real   // momentum magnitude range, GeV
	PMax      Real
	Mass      Real // GeV
	Time      Real // production time, ns

	// cached
	cosAngle    Real
	oneMinusCos Real
	// orthonormal basis of the plane orthogonal to Direction
	u, v vec3.T
}

// orthonormal basis of the plane orthogonal to 'a' (unit)
func orthonormal2(a vec3.T) (u, v vec3.T) {
	h := vec3.T{1, 0, 0}
	if math.Abs(a[0]) > 0.9 {
		h = vec3.T{0, 1, 0}
	}
	ha := a.Scaled(vec3.Dot(&h, &a))
	u = vec3.Sub(&h, &ha)
	u.Normalize()
	v = vec3.Cross(&a, &u)
	return
}

// NewProductionModel validates the cone and momentum range and precomputes
// caches.
func NewProductionModel(spot BeamSpot, axis vec3.T, angle, pMin, pMax, mass, t Real) (*ProductionModel, error) {
	if angle < 0 || angle > math.Pi {
		return nil, errors.New("cone half-angle must be in [0, pi]")
	}
	n := axis.Length()
	if n == 0 {
		return nil, errors.New("cone axis must be non-zero")
	}
	axis.Scale(1 / n)
	if pMin <= 0 || pMax < pMin {
		return nil, fmt.Errorf("momentum range must satisfy 0 < pmin <= pmax, got [%.6g, %.6g]", pMin, pMax)
	}
	if mass <= 0 {
		return nil, fmt.Errorf("mass must be positive, got %.6g", mass)
	}
	for axisIdx := 0; axisIdx < 3; axisIdx++ {
		if s := spot.Sigma[axisIdx]; s < 0 || !isFinite(s) {
			return nil, fmt.Errorf("spot sigma must be finite and >= 0, got %.6g", s)
		}
	}
	cosA := math.Cos(angle)
	m := &ProductionModel{
		Spot:        spot,
		Direction:   axis,
		Angle:       angle,
		PMin:        pMin,
		PMax:        pMax,
		Mass:        mass,
		Time:        t,
		cosAngle:    cosA,
		oneMinusCos: 1 - cosA,
	}
	m.u, m.v = orthonormal2(axis)
	DebugLog("Created production model %+v", m)
	return m, nil
}

// SampleDir draws a direction uniformly over the spherical cap around the
// cone axis. The polar cosine comes from the exact inverse CDF, the
// azimuth is uniform.
func (m *ProductionModel) SampleDir(rng *rand.Rand) vec3.T {
	if m.oneMinusCos == 0 {
		return m.Direction
	}
	cosPhi := 1 - rng.Float64()*m.oneMinusCos
	s := 1 - cosPhi*cosPhi
	if s < 0 {
		s = 0
	}
	sinPhi := math.Sqrt(s)
	psi := 2 * math.Pi * rng.Float64()
	ou := m.u.Scaled(math.Cos(psi))
	ov := m.v.Scaled(math.Sin(psi))
	ortho := vec3.Add(&ou, &ov)
	ax := m.Direction.Scaled(cosPhi)
	ortho.Scale(sinPhi)
	return vec3.Add(&ax, &ortho)
}

// Sample draws one event: a spot vertex, a cone direction and a momentum
// magnitude uniform in [PMin, PMax].
func (m *ProductionModel) Sample(rng *rand.Rand) Event {
	dir := m.SampleDir(rng)
	p := m.PMin + rng.Float64()*(m.PMax-m.PMin)
	e := math.Sqrt(p*p + m.Mass*m.Mass)
	return Event{
		Start:  m.Spot.Sample(rng),
		P:      fmom.NewPxPyPzE(dir[0]*p, dir[1]*p, dir[2]*p, e),
		T:      m.Time,
		Weight: 1.0,
	}
}
