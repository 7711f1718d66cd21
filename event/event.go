// Package event defines the per-event feed consumed by the analysis:
// identified and calibrated electrons, muons and jets, the missing
// transverse energy and, for simulation, the pruned generator record.
package event

import (
	"go-hep.org/x/hep/fmom"

	"github.com/decibelcooper/hhana/truth"
)

type Electron struct {
	P4     fmom.PxPyPzE
	Charge int
	IDs    map[string]bool // working point name -> decision
	RelIso float64         // relative isolation, ΔR < 0.3, effective-area corrected
	GenP4  fmom.PxPyPzE
}

type Muon struct {
	P4     fmom.PxPyPzE
	Charge int
	IDs    map[string]bool
	RelIso float64 // relative isolation, ΔR < 0.4
	GenP4  fmom.PxPyPzE
}

type Jet struct {
	P4    fmom.PxPyPzE
	BTag  map[string]float64 // algorithm -> discriminant
	GenP4 fmom.PxPyPzE
}

type MET struct {
	P4 fmom.PxPyPzE
}

type Event struct {
	Run        uint32
	Lumi       uint32
	Number     uint64
	IsRealData bool

	Electrons    []Electron
	Muons        []Muon
	Jets         []Jet
	MET          MET
	GenParticles []truth.Particle

	// Triggers lists the fired HLT paths. They are carried to the output
	// record untouched.
	Triggers []string
}

func (ev *Event) JetGenP4s() []fmom.PxPyPzE {
	p4s := make([]fmom.PxPyPzE, len(ev.Jets))
	for i := range ev.Jets {
		p4s[i] = ev.Jets[i].GenP4
	}
	return p4s
}

func (ev *Event) ElectronGenP4s() []fmom.PxPyPzE {
	p4s := make([]fmom.PxPyPzE, len(ev.Electrons))
	for i := range ev.Electrons {
		p4s[i] = ev.Electrons[i].GenP4
	}
	return p4s
}

func (ev *Event) MuonGenP4s() []fmom.PxPyPzE {
	p4s := make([]fmom.PxPyPzE, len(ev.Muons))
	for i := range ev.Muons {
		p4s[i] = ev.Muons[i].GenP4
	}
	return p4s
}
