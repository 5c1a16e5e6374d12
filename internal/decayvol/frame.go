package decayvol

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Euler is an extrinsic rotation triple in radians. Applied to a vector,
// X2 acts first about the x axis, then Z about the z axis, then X1 about
// the x axis again.
type Euler struct {
	X1, Z, X2 Real
}

func rotAboutX(v vec3.T, a Real) vec3.T {
	c, s := math.Cos(a), math.Sin(a)
	return vec3.T{v[0], v[1]*c - v[2]*s, v[1]*s + v[2]*c}
}

func rotAboutZ(v vec3.T, a Real) vec3.T {
	c, s := math.Cos(a), math.Sin(a)
	return vec3.T{v[0]*c - v[1]*s, v[0]*s + v[1]*c, v[2]}
}

// Apply rotates v about the coordinate origin.
func (e Euler) Apply(v vec3.T) vec3.T {
	v = rotAboutX(v, e.X2)
	v = rotAboutZ(v, e.Z)
	return rotAboutX(v, e.X1)
}

// Inverse returns the triple undoing e: all three angles negate and the two
// x-axis angles swap slots, so the rotation applied last comes off first.
func (e Euler) Inverse() Euler {
	return Euler{X1: -e.X2, Z: -e.Z, X2: -e.X1}
}

// RotateAbout applies e to p around origin instead of (0,0,0).
func RotateAbout(p, origin vec3.T, e Euler) vec3.T {
	d := vec3.Sub(&p, &origin)
	r := e.Apply(d)
	return vec3.Add(&r, &origin)
}

// Frames places the beam and detector coordinate systems in the hall frame.
// BeamRot carries hall axes into beam axes, DetRot carries hall axes into
// detector axes; the translations are hall coordinates in mm. Points rotate
// and translate, directions rotate only. Built once per run and never
// mutated afterwards.
type Frames struct {
	BeamOrigin vec3.T // beam frame origin in the hall
	BeamRot    Euler  // hall -> beam axes
	DetCentre  vec3.T // detector centre in the hall
	DetRot     Euler  // hall -> detector axes
}

// BeamToDetPoint maps a beam-frame point into detector coordinates.
func (f Frames) BeamToDetPoint(p vec3.T) vec3.T {
	h := f.BeamRot.Inverse().Apply(p)
	h = vec3.Add(&h, &f.BeamOrigin)
	h = vec3.Sub(&h, &f.DetCentre)
	return f.DetRot.Apply(h)
}

// DetToBeamPoint is the exact inverse of BeamToDetPoint.
func (f Frames) DetToBeamPoint(p vec3.T) vec3.T {
	h := f.DetRot.Inverse().Apply(p)
	h = vec3.Add(&h, &f.DetCentre)
	h = vec3.Sub(&h, &f.BeamOrigin)
	return f.BeamRot.Apply(h)
}

// BeamToDetDir rotates a beam-frame direction into detector coordinates.
func (f Frames) BeamToDetDir(v vec3.T) vec3.T {
	return f.DetRot.Apply(f.BeamRot.Inverse().Apply(v))
}

// DetToBeamDir is the exact inverse of BeamToDetDir.
func (f Frames) DetToBeamDir(v vec3.T) vec3.T {
	return f.BeamRot.Apply(f.DetRot.Inverse().Apply(v))
}
