package decayvol

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Oracle walks may not re-detect the boundary they stand on.
const boundaryEps = 1e-9 // mm

// SolidOracle walks an opaque solid. Implementations keep a mutable cursor
// (current point and direction of travel) and must be queried strictly
// sequentially; the run loop gives every worker its own instance.
type SolidOracle interface {
	// SetCursor places the walk at a point with a direction of travel.
	// The direction must be unit length.
	SetCursor(point, dir vec3.T)
	// Cursor reports the current walk position.
	Cursor() vec3.T
	// Inside reports whether the cursor point lies inside the solid.
	// The surface counts as inside.
	Inside() bool
	// StepToBoundary advances the cursor to the next surface crossing along
	// the direction of travel, or by max when no crossing is nearer.
	// Reports whether a crossing was reached.
	StepToBoundary(max Real) bool
	// Advance moves the cursor by the given distance without a boundary
	// search.
	Advance(step Real)
	// Bounds is the solid's axis-aligned bounding box, mm.
	Bounds() Box
}

// BoxOracle walks an axis-aligned box solid.
type BoxOracle struct {
	Box Box
	cur vec3.T
	dir vec3.T
}

func NewBoxOracle(b Box) *BoxOracle {
	return &BoxOracle{Box: b}
}

func (o *BoxOracle) SetCursor(point, dir vec3.T) { o.cur, o.dir = point, dir }
func (o *BoxOracle) Cursor() vec3.T              { return o.cur }
func (o *BoxOracle) Inside() bool                { return o.Box.Contains(o.cur) }
func (o *BoxOracle) Bounds() Box                 { return o.Box }

func (o *BoxOracle) Advance(step Real) {
	o.cur = pointAt(o.cur, o.dir, step)
}

func (o *BoxOracle) StepToBoundary(max Real) bool {
	min, maxP := o.Box.Min(), o.Box.Max()
	best := max
	found := false
	for axis := 0; axis < 3; axis++ {
		d := o.dir[axis]
		if d == 0 {
			continue
		}
		for _, side := range [2]Real{-1, 1} {
			plane := o.Box.Centre[axis] + side*o.Box.Half[axis]
			t := (plane - o.cur[axis]) / d
			if t <= boundaryEps || t >= best {
				continue
			}
			p := pointAt(o.cur, o.dir, t)
			if onFace(p, min, maxP, axis) {
				best, found = t, true
			}
		}
	}
	o.cur = pointAt(o.cur, o.dir, best)
	return found
}

// CylinderOracle walks a circular cylinder whose axis runs along one
// coordinate axis.
type CylinderOracle struct {
	Centre     vec3.T
	Radius     Real
	HalfHeight Real
	Axis       int // 0, 1 or 2
	cur        vec3.T
	dir        vec3.T
}

func NewCylinderOracle(centre vec3.T, radius, halfHeight Real, axis int) (*CylinderOracle, error) {
	if !(radius > 0) || !(halfHeight > 0) {
		return nil, fmt.Errorf("cylinder radius and half-height must be > 0, got r=%.6g hh=%.6g", radius, halfHeight)
	}
	if axis < 0 || axis > 2 {
		return nil, fmt.Errorf("cylinder axis must be 0, 1 or 2, got %d", axis)
	}
	o := &CylinderOracle{Centre: centre, Radius: radius, HalfHeight: halfHeight, Axis: axis}
	DebugLog("Created cylinder centre=%+v, r=%.6g, hh=%.6g, axis=%d", centre, radius, halfHeight, axis)
	return o, nil
}

func (o *CylinderOracle) SetCursor(point, dir vec3.T) { o.cur, o.dir = point, dir }
func (o *CylinderOracle) Cursor() vec3.T              { return o.cur }

func (o *CylinderOracle) Advance(step Real) {
	o.cur = pointAt(o.cur, o.dir, step)
}

func (o *CylinderOracle) Inside() bool {
	d := vec3.Sub(&o.cur, &o.Centre)
	if math.Abs(d[o.Axis]) > o.HalfHeight {
		return false
	}
	u, v := otherAxes(o.Axis)
	return d[u]*d[u]+d[v]*d[v] <= o.Radius*o.Radius
}

func (o *CylinderOracle) Bounds() Box {
	half := vec3.T{o.Radius, o.Radius, o.Radius}
	half[o.Axis] = o.HalfHeight
	return Box{Centre: o.Centre, Half: half}
}

func (o *CylinderOracle) StepToBoundary(max Real) bool {
	best := max
	found := false
	u, v := otherAxes(o.Axis)

	// lateral surface: quadratic in the two radial components
	px, py := o.cur[u]-o.Centre[u], o.cur[v]-o.Centre[v]
	dx, dy := o.dir[u], o.dir[v]
	a := dx*dx + dy*dy
	if a > 0 {
		b := 2 * (px*dx + py*dy)
		c := px*px + py*py - o.Radius*o.Radius
		disc := b*b - 4*a*c
		if disc > 0 {
			sq := math.Sqrt(disc)
			for _, t := range [2]Real{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if t <= boundaryEps || t >= best {
					continue
				}
				if math.Abs(o.cur[o.Axis]+t*o.dir[o.Axis]-o.Centre[o.Axis]) <= o.HalfHeight {
					best, found = t, true
				}
			}
		}
	}

	// end caps: plane crossings inside the radius
	if da := o.dir[o.Axis]; da != 0 {
		for _, side := range [2]Real{-1, 1} {
			plane := o.Centre[o.Axis] + side*o.HalfHeight
			t := (plane - o.cur[o.Axis]) / da
			if t <= boundaryEps || t >= best {
				continue
			}
			cx := o.cur[u] + t*o.dir[u] - o.Centre[u]
			cy := o.cur[v] + t*o.dir[v] - o.Centre[v]
			if cx*cx+cy*cy <= o.Radius*o.Radius {
				best, found = t, true
			}
		}
	}

	o.cur = pointAt(o.cur, o.dir, best)
	return found
}

func otherAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}
