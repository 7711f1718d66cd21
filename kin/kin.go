// Package kin holds the four-vector observables shared by the reconstructed
// and generator-level parts of the analysis.
//
// Angular conventions follow ROOT's GenVector so that values line up with
// existing CMS ntuples: DeltaPhi is signed and folded into (-π, π], and the
// pseudorapidity of a vector with no transverse momentum is finite.
package kin

import (
	"math"

	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"
)

// BeamEnergy is the per-beam energy in GeV used to build the Collins-Soper axis.
const BeamEnergy = 6500.

const etaMax = 22756.

// Sum adds the vectors in argument order, starting from the zero vector.
func Sum(ps ...fmom.P4) fmom.PxPyPzE {
	var sum fmom.PxPyPzE
	for _, p := range ps {
		fmom.IAdd(&sum, p)
	}
	return sum
}

func Eta(p fmom.P4) float64 {
	pt := p.Pt()
	z := p.Pz()
	if pt > 0 {
		return math.Asinh(z / pt)
	}
	switch {
	case z == 0:
		return 0
	case z > 0:
		return z + etaMax
	default:
		return z - etaMax
	}
}

func Phi(p fmom.P4) float64 {
	if p.Px() == 0 && p.Py() == 0 {
		return 0
	}
	return math.Atan2(p.Py(), p.Px())
}

// DeltaPhi returns phi(b) - phi(a) folded into (-π, π].
func DeltaPhi(a, b fmom.P4) float64 {
	dphi := Phi(b) - Phi(a)
	if dphi > math.Pi {
		dphi -= 2 * math.Pi
	} else if dphi <= -math.Pi {
		dphi += 2 * math.Pi
	}
	return dphi
}

func DeltaR(a, b fmom.P4) float64 {
	deta := Eta(b) - Eta(a)
	dphi := DeltaPhi(a, b)
	return math.Sqrt(deta*deta + dphi*dphi)
}

// TransverseMass is the massless two-body transverse mass of a and b.
func TransverseMass(a, b fmom.P4) float64 {
	return math.Sqrt(2 * a.Pt() * b.Pt() * (1 - math.Cos(DeltaPhi(a, b))))
}

// CosThetaStarCS returns cos θ* of h1 in the Collins-Soper frame of the
// h1+h2 system. It is NaN when h1+h2 has no rest frame.
func CosThetaStarCS(h1, h2 fmom.P4) float64 {
	hh := Sum(h1, h2)
	p2 := hh.Px()*hh.Px() + hh.Py()*hh.Py() + hh.Pz()*hh.Pz()
	if hh.E() <= 0 || p2 >= hh.E()*hh.E() {
		return math.NaN()
	}
	boost := r3.Scale(-1, fmom.BoostOf(&hh))

	beam1 := fmom.NewPxPyPzE(0, 0, BeamEnergy, BeamEnergy)
	beam2 := fmom.NewPxPyPzE(0, 0, -BeamEnergy, BeamEnergy)
	b1 := fmom.VecOf(fmom.Boost(&beam1, boost))
	b2 := fmom.VecOf(fmom.Boost(&beam2, boost))
	h := fmom.VecOf(fmom.Boost(h1, boost))

	axis := r3.Unit(r3.Sub(r3.Unit(b1), r3.Unit(b2)))
	return r3.Dot(axis, r3.Unit(h))
}
