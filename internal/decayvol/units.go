package decayvol

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Conversion factors into the engine units (mm, rad, ns).
var lengthUnits = map[string]Real{
	"mm": 1,
	"cm": 10,
	"m":  1e3,
	"km": 1e6,
}

var angleUnits = map[string]Real{
	"rad":  1,
	"mrad": 1e-3,
	"deg":  math.Pi / 180,
}

var timeUnits = map[string]Real{
	"ns": 1,
	"ps": 1e-3,
	"us": 1e3,
	"ms": 1e6,
	"s":  1e9,
}

// UnitFromString resolves a named unit of the given kind ("length", "angle"
// or "time") into its factor relative to mm, rad and ns.
func UnitFromString(kind, name string) (Real, error) {
	var table map[string]Real
	switch kind {
	case "length":
		table = lengthUnits
	case "angle":
		table = angleUnits
	case "time":
		table = timeUnits
	default:
		return 0, fmt.Errorf("unknown unit kind %q", kind)
	}
	f, ok := table[name]
	if !ok {
		return 0, fmt.Errorf("unknown %s unit %q", kind, name)
	}
	return f, nil
}

// UnitSystem fixes the units configured quantities are written in. Engine
// internals always run in mm, rad and ns; every input is rescaled exactly
// once, on the way in.
type UnitSystem struct {
	LengthName, AngleName, TimeName string
	LScale, AScale, TScale          Real // to mm / rad / ns
	CLight                          Real // speed of light in (length unit)/(time unit)
}

// EnforceUnits builds an immutable unit system from three unit names.
func EnforceUnits(length, angle, time string) (UnitSystem, error) {
	ls, err := UnitFromString("length", length)
	if err != nil {
		return UnitSystem{}, err
	}
	as, err := UnitFromString("angle", angle)
	if err != nil {
		return UnitSystem{}, err
	}
	ts, err := UnitFromString("time", time)
	if err != nil {
		return UnitSystem{}, err
	}
	u := UnitSystem{
		LengthName: length, AngleName: angle, TimeName: time,
		LScale: ls, AScale: as, TScale: ts,
		CLight: SpeedOfLight / ls * ts,
	}
	DebugLog("Enforcing units (%s, %s, %s): c = %.6g %s/%s", length, angle, time, u.CLight, length, time)
	return u, nil
}

// MM rescales a configured length into mm.
func (u UnitSystem) MM(x Real) Real { return x * u.LScale }

// MMVec rescales a configured length triple into mm.
func (u UnitSystem) MMVec(v vec3.T) vec3.T { return v.Scaled(u.LScale) }

// Rad rescales a configured angle into rad.
func (u UnitSystem) Rad(x Real) Real { return x * u.AScale }

// NS rescales a configured time into ns.
func (u UnitSystem) NS(x Real) Real { return x * u.TScale }

// LifetimeNsFromGeVInv converts a natural-unit lifetime (GeV^-1) to ns.
func LifetimeNsFromGeVInv(tau Real) Real { return tau * HBarGeVNs }
