package truth

import (
	"go-hep.org/x/hep/fmom"

	"github.com/decibelcooper/hhana/kin"
)

// Matches holds, for every reconstructed object in feed order, the ΔR
// between its generator-matched momentum and a truth leg. No assignment is
// made here.
type Matches struct {
	JetB1    []float64 `yaml:"jet_b1,flow"`
	JetB2    []float64 `yaml:"jet_b2,flow"`
	JetB1FSR []float64 `yaml:"jet_b1_fsr,flow"`
	JetB2FSR []float64 `yaml:"jet_b2_fsr,flow"`

	ElectronL1    []float64 `yaml:"electron_l1,flow"`
	ElectronL2    []float64 `yaml:"electron_l2,flow"`
	ElectronL1FSR []float64 `yaml:"electron_l1_fsr,flow"`
	ElectronL2FSR []float64 `yaml:"electron_l2_fsr,flow"`

	MuonL1    []float64 `yaml:"muon_l1,flow"`
	MuonL2    []float64 `yaml:"muon_l2,flow"`
	MuonL1FSR []float64 `yaml:"muon_l1_fsr,flow"`
	MuonL2FSR []float64 `yaml:"muon_l2_fsr,flow"`
}

// Match computes the ΔR of each jet to the b legs and of each electron and
// muon to the lepton legs, with and without FSR recovery.
func Match(k *Composites, jets, electrons, muons []fmom.PxPyPzE) *Matches {
	m := &Matches{}
	m.JetB1, m.JetB2, m.JetB1FSR, m.JetB2FSR = distances(jets, &k.B1, &k.B2, &k.B1FSR, &k.B2FSR)
	m.ElectronL1, m.ElectronL2, m.ElectronL1FSR, m.ElectronL2FSR = distances(electrons, &k.L1, &k.L2, &k.L1FSR, &k.L2FSR)
	m.MuonL1, m.MuonL2, m.MuonL1FSR, m.MuonL2FSR = distances(muons, &k.L1, &k.L2, &k.L1FSR, &k.L2FSR)
	return m
}

func distances(objs []fmom.PxPyPzE, leg1, leg2, leg1FSR, leg2FSR fmom.P4) (d1, d2, d1FSR, d2FSR []float64) {
	d1 = make([]float64, len(objs))
	d2 = make([]float64, len(objs))
	d1FSR = make([]float64, len(objs))
	d2FSR = make([]float64, len(objs))
	for i := range objs {
		p := &objs[i]
		d1[i] = kin.DeltaR(p, leg1)
		d2[i] = kin.DeltaR(p, leg2)
		d1FSR[i] = kin.DeltaR(p, leg1FSR)
		d2FSR[i] = kin.DeltaR(p, leg2FSR)
	}
	return d1, d2, d1FSR, d2FSR
}
