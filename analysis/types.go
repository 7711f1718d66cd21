package analysis

import (
	"go-hep.org/x/hep/fmom"

	"github.com/decibelcooper/hhana/truth"
)

// NotFound is the best-dijet index of an event without any dijet.
const NotFound = -1

// Pair indexes the two constituents of a composite, first < second for
// two-object composites.
type Pair [2]int

type Lepton struct {
	P4         fmom.PxPyPzE `yaml:"p4,flow"`
	Charge     int          `yaml:"charge"`
	Index      int          `yaml:"index"` // in the electron or muon feed
	IsElectron bool         `yaml:"is_el"`
	IsMuon     bool         `yaml:"is_mu"`
}

// Dilepton flavour flags are positional: IsElMu means the leading lepton
// is the electron.
type Dilepton struct {
	P4            fmom.PxPyPzE `yaml:"p4,flow"`
	Indices       Pair         `yaml:"idx,flow"`
	ChargeProduct int          `yaml:"charge_product"`
	IsMuMu        bool         `yaml:"is_mumu"`
	IsElEl        bool         `yaml:"is_elel"`
	IsElMu        bool         `yaml:"is_elmu"`
	IsMuEl        bool         `yaml:"is_muel"`

	DR   float64 `yaml:"dr"`
	DPhi float64 `yaml:"dphi"`

	P4WithMET    fmom.PxPyPzE `yaml:"p4_met,flow"`
	DPhiMET      float64      `yaml:"dphi_met"`
	MT           float64      `yaml:"mt"`
	MTFormula    float64      `yaml:"mt_formula"`
	MinDPhiLMET  float64      `yaml:"min_dphi_lmet"`
	MaxDPhiLMET  float64      `yaml:"max_dphi_lmet"`
	ProjectedMET float64      `yaml:"projected_met"`
}

type Jet struct {
	P4    fmom.PxPyPzE `yaml:"p4,flow"`
	Index int          `yaml:"index"` // in the jet feed
}

// Dijet is a pair of jets or of b-tagged jets.
type Dijet struct {
	P4          fmom.PxPyPzE `yaml:"p4,flow"`
	Indices     Pair         `yaml:"idx,flow"`
	DR          float64      `yaml:"dr"`
	DPhi        float64      `yaml:"dphi"`
	DPhiMET     float64      `yaml:"dphi_met"`
	MinDPhiJMET float64      `yaml:"min_dphi_jmet"`
	MaxDPhiJMET float64      `yaml:"max_dphi_jmet"`
}

// FourBody is a dilepton plus a dijet (lljj) or b-dijet (llbb). Indices
// holds the dilepton and dijet positions.
type FourBody struct {
	P4      fmom.PxPyPzE `yaml:"p4,flow"`
	Indices Pair         `yaml:"idx,flow"`
	DR      float64      `yaml:"dr"`
	DPhi    float64      `yaml:"dphi"`
	MinDRLJ float64      `yaml:"min_dr_lj"`
	MaxDRLJ float64      `yaml:"max_dr_lj"`

	P4WithMET      fmom.PxPyPzE `yaml:"p4_met,flow"`
	DRMET          float64      `yaml:"dr_met"`
	DPhiMET        float64      `yaml:"dphi_met"` // ll+met vs jj
	CosThetaStarCS float64      `yaml:"cos_theta_star_cs"`
}

// Composites is the output of Build.
type Composites struct {
	Dileptons  []Dilepton `yaml:"ll"`
	Dijets     []Dijet    `yaml:"jj"`
	BDijets    []Dijet    `yaml:"bb"`
	BestDijet  int        `yaml:"h_dijet_idx"`
	BestBDijet int        `yaml:"h_dibjet_idx"`
	LLJJ       []FourBody `yaml:"lljj"`
	LLBB       []FourBody `yaml:"llbb"`
}

// CategoryResult records a category the event belongs to and the outcome
// of its cuts.
type CategoryResult struct {
	Name string          `yaml:"name"`
	Cuts map[string]bool `yaml:"cuts,omitempty"`
}

// Record is the flat per-event output.
type Record struct {
	Run        uint32   `yaml:"run"`
	Lumi       uint32   `yaml:"lumi"`
	Number     uint64   `yaml:"event"`
	IsRealData bool     `yaml:"is_real_data"`
	Triggers   []string `yaml:"triggers,omitempty,flow"`

	Electrons []int    `yaml:"electrons,flow"` // selected electron feed indices
	Muons     []int    `yaml:"muons,flow"`
	Leptons   []Lepton `yaml:"leptons"`
	Jets      []Jet    `yaml:"jets"`
	BJets     []Jet    `yaml:"bjets"`

	Composites `yaml:",inline"`

	NJets      int `yaml:"n_jets"`
	NBJets     int `yaml:"n_bjets"`
	NMuons     int `yaml:"n_muons"`
	NElectrons int `yaml:"n_electrons"`
	NLeptons   int `yaml:"n_leptons"`

	// Truth and Matches are nil for real data.
	Truth   *truth.Chain   `yaml:"gen,omitempty"`
	Matches *truth.Matches `yaml:"gen_matches,omitempty"`

	Categories []CategoryResult `yaml:"categories,omitempty"`
}

// InCategory reports whether the event passed the named category.
func (r *Record) InCategory(name string) bool {
	for _, c := range r.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// BestDijetP4 returns the dijet closest to the Higgs mass.
func (r *Record) BestDijetP4() (fmom.PxPyPzE, bool) {
	if r.BestDijet == NotFound {
		return fmom.PxPyPzE{}, false
	}
	return r.Dijets[r.BestDijet].P4, true
}

// BestBDijetP4 returns the b-dijet closest to the Higgs mass.
func (r *Record) BestBDijetP4() (fmom.PxPyPzE, bool) {
	if r.BestBDijet == NotFound {
		return fmom.PxPyPzE{}, false
	}
	return r.BDijets[r.BestBDijet].P4, true
}
