package decayvol

import (
	"fmt"
	"math/rand"

	"github.com/ungerik/go3d/float64/vec3"
)

// PlaceState tracks one vertex-placement query through its retry loop.
type PlaceState string

const (
	StateSampling     PlaceState = "SAMPLING"
	StateIntersecting PlaceState = "INTERSECTING"
	StateSuccess      PlaceState = "SUCCESS"
	StateRetry        PlaceState = "RETRY_PRODUCTION"
	StateAbort        PlaceState = "ABORT"
)

func (s PlaceState) IsTerminal() bool {
	switch s {
	case StateSuccess, StateAbort:
		return true
	}
	return false
}

// canStep lists the legal moves of the placement loop.
func canStep(from, to PlaceState) bool {
	switch from {
	case StateSampling:
		return to == StateIntersecting
	case StateIntersecting:
		return to == StateSuccess || to == StateRetry || to == StateAbort
	case StateRetry:
		return to == StateSampling || to == StateAbort
	}
	return false
}

func (s PlaceState) step(to PlaceState) PlaceState {
	if !canStep(s, to) {
		panic(fmt.Sprintf("illegal placement transition %s -> %s", s, to))
	}
	return to
}

// Engine places decay vertices inside a detector volume. It is read-only
// during queries except for the oracle cursor, so each worker gets its own
// copy via WithOracle.
type Engine struct {
	Units      UnitSystem
	Frames     Frames
	Volume     Box
	Sampler    DecaySampler
	Oracle     SolidOracle // nil selects the closed-form box path
	MaxRetries int         // production re-throws before giving up
	StepBudget int         // boundary hops per oracle walk
}

func NewEngine(units UnitSystem, frames Frames, volume Box, sampler DecaySampler) *Engine {
	return &Engine{
		Units:      units,
		Frames:     frames,
		Volume:     volume,
		Sampler:    sampler,
		MaxRetries: MaxRetries,
		StepBudget: StepBudget,
	}
}

// WithOracle returns a shallow copy of the engine that walks its own
// stepped-solid oracle instead of the closed-form box.
func (e *Engine) WithOracle(o SolidOracle) *Engine {
	w := *e
	w.Oracle = o
	return &w
}

func (e *Engine) intersect(start, dir vec3.T) (Crossing, bool) {
	if e.Oracle != nil {
		st := NewStepper(e.Oracle)
		if e.StepBudget > 0 {
			st.Budget = e.StepBudget
		}
		return st.Intersect(start, dir)
	}
	if e.Volume.Contains(start) {
		panic(fmt.Sprintf("intersection query started inside the volume at %+v", start))
	}
	return e.Volume.Intersect(start, dir)
}

// Placement is the result of one vertex-placement query. Vertex is in
// metres in the detector frame; every other length is in mm.
type Placement struct {
	Vertex    vec3.T  `json:"vertex"`
	T         Real    `json:"t"` // ns, copied from the event
	Entry     vec3.T  `json:"entry"`
	Exit      vec3.T  `json:"exit"`
	Travel    Real    `json:"travel"`
	SurvProb  Real    `json:"surv_prob"`
	DecayProb Real    `json:"decay_prob"`
	Weight    Real    `json:"weight"`
	Retries   int     `json:"retries"`
	Outcome   Outcome `json:"outcome"`
}

// PlaceVertex forces a decay vertex onto the trajectory's chord through the
// detector and returns it with the weight undoing the forcing. The weight
// multiplies the event's own weight, never overwrites it. On a miss the
// production model, when given, supplies a fresh vertex and direction up to
// MaxRetries times; after that the placement carries the sentinel vertex
// and the event weight untouched.
func (e *Engine) PlaceVertex(ev Event, prod *ProductionModel, rng *rand.Rand) Placement {
	state := StateSampling
	attempt := 0

	var start, dir vec3.T
	var cross Crossing

	for !state.IsTerminal() {
		switch state {
		case StateSampling:
			start = e.Frames.BeamToDetPoint(ev.Start)
			dir = e.Frames.BeamToDetDir(ev.Dir())
			state = state.step(StateIntersecting)
		case StateIntersecting:
			var found bool
			cross, found = e.intersect(start, dir)
			if found {
				state = state.step(StateSuccess)
				break
			}
			countOutcome(Missed)
			if prod == nil {
				state = state.step(StateAbort)
				break
			}
			state = state.step(StateRetry)
		case StateRetry:
			if attempt >= e.MaxRetries {
				state = state.step(StateAbort)
				break
			}
			ne := prod.Sample(rng)
			ev.Start, ev.P = ne.Start, ne.P
			attempt++
			state = state.step(StateSampling)
		}
	}

	if state == StateAbort {
		fmt.Printf("[WARN] no trajectory met the detector after %d production throws, writing sentinel vertex\n", attempt+1)
		countOutcome(Aborted)
		if Debug {
			logTraj("abort", Aborted, ev.Start, dir, vec3.T{}, attempt, 0)
		}
		return Placement{
			Vertex:  vec3.T{SentinelCoord, SentinelCoord, SentinelCoord},
			T:       SentinelCoord,
			Weight:  ev.Weight,
			Retries: attempt,
			Outcome: Aborted,
		}
	}

	k := KinematicsOf(ev.P)
	maxLength := cross.Length()
	travel := e.Sampler.Draw(k, maxLength, rng.Float64())

	preEntry := vec3.Distance(&start, &cross.Entry)
	surv := e.Sampler.SurvivalTo(k, preEntry)
	dec := e.Sampler.DecayWithin(k, maxLength)
	weight := ev.Weight / (surv * dec)

	vtx := pointAt(cross.Entry, dir, travel)
	countOutcome(Placed)
	if Debug {
		logTraj("placed", Placed, start, dir, vtx, attempt, travel)
	}
	DebugLog("Placed vertex %.6g mm past entry %+v, surv=%.6g, decay=%.6g, weight=%.6g",
		travel, cross.Entry, surv, dec, weight)
	vtx.Scale(1.0 / MMPerM)

	return Placement{
		Vertex:    vtx,
		T:         ev.T,
		Entry:     cross.Entry,
		Exit:      cross.Exit,
		Travel:    travel,
		SurvProb:  surv,
		DecayProb: dec,
		Weight:    weight,
		Retries:   attempt,
		Outcome:   Placed,
	}
}
