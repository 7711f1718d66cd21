package analysis

import (
	"math"

	"go-hep.org/x/hep/fmom"

	"github.com/decibelcooper/hhana/kin"
)

// initial distance to the reference mass, larger than any dijet mass
const maxMassDiff = 14000.

// Build forms every dilepton, dijet, b-dijet and four-body composite.
//
// Pairs are enumerated i<j in input order so that index 0 always holds the
// two leading objects. BestDijet and BestBDijet are the first pairs whose
// mass is strictly closest to higgsMass; they depend on that order.
func Build(leptons []Lepton, jets, bjets []Jet, met fmom.PxPyPzE, higgsMass float64) Composites {
	var c Composites
	c.Dileptons = BuildDileptons(leptons, met)
	c.Dijets, c.BestDijet = BuildDijets(jets, met, higgsMass)
	c.BDijets, c.BestBDijet = BuildDijets(bjets, met, higgsMass)
	c.LLJJ = BuildFourBody(leptons, c.Dileptons, jets, c.Dijets, met)
	c.LLBB = BuildFourBody(leptons, c.Dileptons, bjets, c.BDijets, met)
	return c
}

func BuildDileptons(leptons []Lepton, met fmom.PxPyPzE) []Dilepton {
	var ll []Dilepton
	for i := 0; i < len(leptons); i++ {
		l1 := &leptons[i]
		for j := i + 1; j < len(leptons); j++ {
			l2 := &leptons[j]
			d := Dilepton{
				P4:            kin.Sum(&l1.P4, &l2.P4),
				Indices:       Pair{i, j},
				ChargeProduct: l1.Charge * l2.Charge,
				IsMuMu:        l1.IsMuon && l2.IsMuon,
				IsElEl:        l1.IsElectron && l2.IsElectron,
				IsElMu:        l1.IsElectron && l2.IsMuon,
				IsMuEl:        l1.IsMuon && l2.IsElectron,
				DR:            kin.DeltaR(&l1.P4, &l2.P4),
				DPhi:          kin.DeltaPhi(&l1.P4, &l2.P4),
			}
			d.P4WithMET = kin.Sum(&d.P4, &met)
			d.DPhiMET = kin.DeltaPhi(&d.P4, &met)
			d.MT = d.P4WithMET.M()
			d.MTFormula = kin.TransverseMass(&d.P4, &met)

			dphi1 := kin.DeltaPhi(&l1.P4, &met)
			dphi2 := kin.DeltaPhi(&l2.P4, &met)
			d.MinDPhiLMET = math.Min(dphi1, dphi2)
			d.MaxDPhiLMET = math.Max(dphi1, dphi2)
			d.ProjectedMET = projectedMET(met.Pt(), d.MinDPhiLMET)
			ll = append(ll, d)
		}
	}
	return ll
}

// projectedMET is the MET component perpendicular to the closest lepton.
// At a separation of π it falls back to the full MET.
func projectedMET(met, minDPhi float64) float64 {
	if minDPhi >= math.Pi {
		return met
	}
	return met * math.Sin(minDPhi)
}

// BuildDijets pairs jets i<j; do not change the loop order, index 0 must
// be made of the two leading jets.
func BuildDijets(jets []Jet, met fmom.PxPyPzE, higgsMass float64) ([]Dijet, int) {
	var jj []Dijet
	best := newMassTracker(higgsMass)
	for i := 0; i < len(jets); i++ {
		j1 := &jets[i]
		for j := i + 1; j < len(jets); j++ {
			j2 := &jets[j]
			d := Dijet{
				P4:      kin.Sum(&j1.P4, &j2.P4),
				Indices: Pair{i, j},
				DR:      kin.DeltaR(&j1.P4, &j2.P4),
				DPhi:    kin.DeltaPhi(&j1.P4, &j2.P4),
			}
			d.DPhiMET = kin.DeltaPhi(&d.P4, &met)
			dphi1 := kin.DeltaPhi(&j1.P4, &met)
			dphi2 := kin.DeltaPhi(&j2.P4, &met)
			d.MinDPhiJMET = math.Min(dphi1, dphi2)
			d.MaxDPhiJMET = math.Max(dphi1, dphi2)

			best.offer(len(jj), d.P4.M())
			jj = append(jj, d)
		}
	}
	return jj, best.index
}

type massTracker struct {
	ref   float64
	diff  float64
	index int
}

func newMassTracker(ref float64) massTracker {
	return massTracker{ref: ref, diff: maxMassDiff, index: NotFound}
}

// offer keeps i if its mass is strictly closer to the reference than the
// current best; ties keep the earlier candidate.
func (t *massTracker) offer(i int, mass float64) {
	if d := math.Abs(mass - t.ref); d < t.diff {
		t.index = i
		t.diff = d
	}
}

// BuildFourBody combines every dilepton with every dijet, dilepton-major.
// jets must be the collection the dijets were built from.
func BuildFourBody(leptons []Lepton, ll []Dilepton, jets []Jet, jj []Dijet, met fmom.PxPyPzE) []FourBody {
	var out []FourBody
	for il := range ll {
		dl := &ll[il]
		l1 := &leptons[dl.Indices[0]].P4
		l2 := &leptons[dl.Indices[1]].P4
		llmet := kin.Sum(&dl.P4, &met)
		for ij := range jj {
			dj := &jj[ij]
			j1 := &jets[dj.Indices[0]].P4
			j2 := &jets[dj.Indices[1]].P4

			f := FourBody{
				P4:      kin.Sum(&dl.P4, &dj.P4),
				Indices: Pair{il, ij},
				DR:      kin.DeltaR(&dl.P4, &dj.P4),
				DPhi:    kin.DeltaPhi(&dl.P4, &dj.P4),
			}
			drs := [4]float64{
				kin.DeltaR(j1, l1),
				kin.DeltaR(j1, l2),
				kin.DeltaR(j2, l1),
				kin.DeltaR(j2, l2),
			}
			f.MinDRLJ, f.MaxDRLJ = drs[0], drs[0]
			for _, dr := range drs[1:] {
				f.MinDRLJ = math.Min(f.MinDRLJ, dr)
				f.MaxDRLJ = math.Max(f.MaxDRLJ, dr)
			}

			f.P4WithMET = kin.Sum(&f.P4, &met)
			f.DRMET = kin.DeltaR(&f.P4, &met)
			f.DPhiMET = kin.DeltaPhi(&llmet, &dj.P4)
			f.CosThetaStarCS = kin.CosThetaStarCS(&llmet, &dj.P4)
			out = append(out, f)
		}
	}
	return out
}
