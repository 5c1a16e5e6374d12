package decayvol

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/ungerik/go3d/float64/vec3"
)

type UnitsCfg struct {
	Length string `json:"length,omitempty"` // "mm", "cm", "m" or "km"
	Angle  string `json:"angle,omitempty"`  // "rad", "mrad" or "deg"
	Time   string `json:"time,omitempty"`   // "ns", "ps", "us", "ms" or "s"
}

// Euler angles in the configured angle units.
type EulerCfg struct {
	X1 Real `json:"x1"`
	Z  Real `json:"z"`
	X2 Real `json:"x2"`
}

func (ec EulerCfg) Build(us UnitSystem) Euler {
	return Euler{X1: us.Rad(ec.X1), Z: us.Rad(ec.Z), X2: us.Rad(ec.X2)}
}

type FramesCfg struct {
	BeamRot    EulerCfg `json:"beamRot"`    // hall -> beam axes
	BeamOrigin vec3.T   `json:"beamOrigin"` // hall frame, configured length units
	DetRot     EulerCfg `json:"detRot"`     // hall -> detector axes
	DetCentre  vec3.T   `json:"detCentre"`
}

func (fc FramesCfg) Build(us UnitSystem) Frames {
	return Frames{
		BeamOrigin: us.MMVec(fc.BeamOrigin),
		BeamRot:    fc.BeamRot.Build(us),
		DetCentre:  us.MMVec(fc.DetCentre),
		DetRot:     fc.DetRot.Build(us),
	}
}

type GeometryCfg struct {
	Kind       string `json:"kind,omitempty"` // "box" (default) or "cylinder"
	Centre     vec3.T `json:"centre"`
	Half       vec3.T `json:"half,omitempty"`       // box half-lengths; zero picks the standard volume
	Radius     Real   `json:"radius,omitempty"`     // cylinder only
	HalfHeight Real   `json:"halfHeight,omitempty"` // cylinder only
	Axis       string `json:"axis,omitempty"`       // cylinder axis, "x", "y" or "z"
	Stepped    bool   `json:"stepped,omitempty"`    // walk a box with the oracle
}

// Build validates the geometry and returns the bounding volume plus a
// per-worker oracle factory. The factory is nil when the closed-form box
// path applies.
func (gc GeometryCfg) Build(us UnitSystem) (Box, func() SolidOracle, error) {
	centre := us.MMVec(gc.Centre)
	switch gc.Kind {
	case "", "box":
		half := us.MMVec(gc.Half)
		if half == (vec3.T{}) {
			half = StandardVolume().Half
		}
		box, err := NewBox(centre, half)
		if err != nil {
			return Box{}, nil, err
		}
		if !gc.Stepped {
			return box, nil, nil
		}
		return box, func() SolidOracle { return NewBoxOracle(box) }, nil
	case "cylinder":
		axis := 2
		switch gc.Axis {
		case "", "z":
		case "x":
			axis = 0
		case "y":
			axis = 1
		default:
			return Box{}, nil, fmt.Errorf("unknown cylinder axis %q", gc.Axis)
		}
		r, hh := us.MM(gc.Radius), us.MM(gc.HalfHeight)
		oc, err := NewCylinderOracle(centre, r, hh, axis)
		if err != nil {
			return Box{}, nil, err
		}
		factory := func() SolidOracle {
			return &CylinderOracle{Centre: centre, Radius: r, HalfHeight: hh, Axis: axis}
		}
		return oc.Bounds(), factory, nil
	}
	return Box{}, nil, fmt.Errorf("unknown geometry kind %q", gc.Kind)
}

type LifetimeCfg struct {
	Ns     Real `json:"ns,omitempty"`     // rest-frame lifetime, ns
	GevInv Real `json:"gevInv,omitempty"` // alternatively in GeV^-1
}

func (lc LifetimeCfg) Build() (DecaySampler, error) {
	switch {
	case lc.Ns > 0 && lc.GevInv > 0:
		return DecaySampler{}, fmt.Errorf("lifetime given both in ns (%.6g) and GeV^-1 (%.6g), pick one", lc.Ns, lc.GevInv)
	case lc.GevInv > 0:
		return NewDecaySampler(LifetimeNsFromGeVInv(lc.GevInv))
	default:
		return NewDecaySampler(lc.Ns)
	}
}

type ProductionCfg struct {
	Centre   vec3.T `json:"centre"`          // beam frame, configured length units
	Sigma    vec3.T `json:"sigma,omitempty"` // Gaussian spot widths
	Axis     vec3.T `json:"axis"`
	AngleDeg Real   `json:"angleDeg,omitempty"` // cone half-angle
	PMin     Real   `json:"pmin"`               // GeV
	PMax     Real   `json:"pmax"`
	Mass     Real   `json:"mass"`           // GeV
	Time     Real   `json:"time,omitempty"` // configured time units
}

func (pc ProductionCfg) Build(us UnitSystem) (*ProductionModel, error) {
	spot := BeamSpot{Centre: us.MMVec(pc.Centre), Sigma: us.MMVec(pc.Sigma)}
	angle := pc.AngleDeg * math.Pi / 180
	return NewProductionModel(spot, pc.Axis, angle, pc.PMin, pc.PMax, pc.Mass, us.NS(pc.Time))
}

type Config struct {
	Events     int           `json:"events,omitempty"`
	ProbeTrajs int           `json:"probeTrajs,omitempty"`
	Out        string        `json:"out,omitempty"`
	MaxRetries int           `json:"maxRetries,omitempty"`
	StepBudget int           `json:"stepBudget,omitempty"` // boundary hops per oracle walk
	Seed       int64         `json:"seed,omitempty"`       // RNG base, 0 seeds from the clock
	Units      UnitsCfg      `json:"units,omitempty"`
	Geometry   GeometryCfg   `json:"geometry"`
	Frames     FramesCfg     `json:"frames,omitempty"`
	Lifetime   LifetimeCfg   `json:"lifetime"`
	Production ProductionCfg `json:"production"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// Defaults / validation
	if cfg.Events <= 0 {
		cfg.Events = Events
	}
	if cfg.ProbeTrajs <= 0 {
		cfg.ProbeTrajs = ProbeTrajs
	}
	if cfg.Out == "" {
		cfg.Out = OutPath
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = MaxRetries
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = StepBudget
	}
	if cfg.Units.Length == "" {
		cfg.Units.Length = "mm"
	}
	if cfg.Units.Angle == "" {
		cfg.Units.Angle = "rad"
	}
	if cfg.Units.Time == "" {
		cfg.Units.Time = "ns"
	}
	DebugLog("Loaded config from %s: events=%d, probe=%d, out=%s", path, cfg.Events, cfg.ProbeTrajs, cfg.Out)
	return &cfg, nil
}
