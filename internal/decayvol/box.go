package decayvol

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Box is an axis-aligned decay volume spanning Centre +- Half on each axis.
// All coordinates are mm.
type Box struct {
	Centre vec3.T
	Half   vec3.T
}

// NewBox validates the half-lengths and constructs the volume.
func NewBox(centre, half vec3.T) (Box, error) {
	if !(half[0] > 0 && half[1] > 0 && half[2] > 0) {
		return Box{}, fmt.Errorf("box half-lengths must be > 0 on all axes, got %+v", half)
	}
	if !finiteVec(centre) || !finiteVec(half) {
		return Box{}, fmt.Errorf("box geometry must be finite, got centre=%+v half=%+v", centre, half)
	}
	b := Box{Centre: centre, Half: half}
	DebugLog("Created box centre=%+v, half=%+v", centre, half)
	return b, nil
}

// StandardVolume is the fallback geometry used when no detector is
// configured: a cube of 1 m side centred at the origin.
func StandardVolume() Box {
	return Box{Half: vec3.T{500, 500, 500}}
}

func (b Box) Min() vec3.T {
	return vec3.Sub(&b.Centre, &b.Half)
}

func (b Box) Max() vec3.T {
	return vec3.Add(&b.Centre, &b.Half)
}

// MaxExtent is the longest full side, mm.
func (b Box) MaxExtent() Real {
	e := 2 * b.Half[0]
	if 2*b.Half[1] > e {
		e = 2 * b.Half[1]
	}
	if 2*b.Half[2] > e {
		e = 2 * b.Half[2]
	}
	return e
}

// Contains reports closed containment: faces count as inside.
func (b Box) Contains(p vec3.T) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(p[i]-b.Centre[i]) > b.Half[i] {
			return false
		}
	}
	return true
}

// OnSurface reports whether p sits exactly on one of the six faces.
func (b Box) OnSurface(p vec3.T) bool {
	if !b.Contains(p) {
		return false
	}
	for i := 0; i < 3; i++ {
		if math.Abs(p[i]-b.Centre[i]) == b.Half[i] {
			return true
		}
	}
	return false
}

// Crossing is the pair of boundary points a straight trajectory makes with a
// volume. EntryT and ExitT are mm along the unit direction from the start
// point.
type Crossing struct {
	Entry, Exit   vec3.T
	EntryT, ExitT Real
}

// Length is the chord between entry and exit, mm.
func (c Crossing) Length() Real {
	return vec3.Distance(&c.Entry, &c.Exit)
}

// Intersect finds where the line start + t*dir crosses the box boundary.
// dir must be unit length. Each face contributes at most one candidate: the
// line must meet the face plane inside the face, and the direction must have
// a nonzero component along the face normal. A candidate moving toward the
// box centre is the entry, one moving away is the exit. A trajectory exactly
// tangent to a face records nothing on that face, so grazing contact never
// counts as a crossing. The query succeeds only when both an entry and a
// distinct exit were found and the entry lies ahead of the start point, so
// a trajectory moving away from the box is a miss, not a backward crossing.
func (b Box) Intersect(start, dir vec3.T) (Crossing, bool) {
	min, max := b.Min(), b.Max()
	var cr Crossing
	haveEntry, haveExit := false, false

	for axis := 0; axis < 3; axis++ {
		d := dir[axis]
		if d == 0 {
			continue
		}
		for _, side := range [2]Real{-1, 1} {
			plane := b.Centre[axis] + side*b.Half[axis]
			t := (plane - start[axis]) / d
			p := pointAt(start, dir, t)
			if !onFace(p, min, max, axis) {
				continue
			}
			if d*side < 0 { // moving toward the centre
				if !haveEntry || t < cr.EntryT {
					cr.Entry, cr.EntryT = p, t
					haveEntry = true
				}
			} else { // moving away from the centre
				if !haveExit || t > cr.ExitT {
					cr.Exit, cr.ExitT = p, t
					haveExit = true
				}
			}
		}
	}

	if !haveEntry || !haveExit || cr.EntryT <= 0 || cr.EntryT == cr.ExitT {
		return Crossing{}, false
	}
	return cr, true
}

// onFace checks the two in-plane coordinates against the box extent.
func onFace(p, min, max vec3.T, axis int) bool {
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if p[i] < min[i] || p[i] > max[i] {
			return false
		}
	}
	return true
}
