package decayvol

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/fmom"
)

// DecaySampler draws decay points along a trajectory segment under an
// exponential rest-frame lifetime law. The draw is biased so the decay
// always lands inside the segment; the matching probabilities are exposed
// so callers can undo the bias with a weight.
type DecaySampler struct {
	Tau Real // rest-frame lifetime, ns
}

func NewDecaySampler(tauNs Real) (DecaySampler, error) {
	if !isFinite(tauNs) || tauNs <= 0 {
		return DecaySampler{}, fmt.Errorf("rest-frame lifetime must be finite and > 0, got %.6g ns", tauNs)
	}
	return DecaySampler{Tau: tauNs}, nil
}

// Kinematics is the boost state of one trajectory.
type Kinematics struct {
	Beta  Real
	Gamma Real
}

// KinematicsOf derives beta and gamma from a four-momentum.
func KinematicsOf(p fmom.PxPyPzE) Kinematics {
	px, py, pz, e := p.Px(), p.Py(), p.Pz(), p.E()
	mag := math.Sqrt(px*px + py*py + pz*pz)
	beta := mag / e
	return Kinematics{Beta: beta, Gamma: math.Sqrt(1.0 / (1.0 - beta*beta))}
}

// Draw picks the flight length from the volume entry to the decay point,
// in mm. maxLength is the chord length through the volume and u a uniform
// draw in [0,1). u is remapped onto the truncated support so that the
// decay cannot fall past the exit: u=0 decays at the exit, u->1 at the
// entry.
func (ds DecaySampler) Draw(k Kinematics, maxLength, u Real) Real {
	if !(k.Beta > 0 && k.Beta < 1) {
		panic(fmt.Sprintf("decay draw needs 0 < beta < 1, got %.6g", k.Beta))
	}
	if !isFinite(maxLength) || maxLength <= 0 {
		panic(fmt.Sprintf("decay draw needs a positive chord, got %.6g mm", maxLength))
	}
	maxLabTime := maxLength / (k.Beta * SpeedOfLight)
	maxRestTime := maxLabTime / k.Gamma
	pExit := math.Exp(-maxRestTime / ds.Tau)
	s0 := (1.0-pExit)*u + pExit
	restTime := ds.Tau * math.Log(1.0/s0)
	return restTime * k.Gamma * k.Beta * SpeedOfLight
}

// SurvivalTo is the probability of reaching the volume entry without
// decaying, given the flight length from production to entry in mm.
func (ds DecaySampler) SurvivalTo(k Kinematics, preLength Real) Real {
	restTime := preLength / (k.Beta * SpeedOfLight) / k.Gamma
	return math.Exp(-restTime / ds.Tau)
}

// DecayWithin is the probability of decaying somewhere inside a chord of
// the given length in mm, having reached its start.
func (ds DecaySampler) DecayWithin(k Kinematics, maxLength Real) Real {
	restTime := maxLength / (k.Beta * SpeedOfLight) / k.Gamma
	return 1.0 - math.Exp(-restTime/ds.Tau)
}
