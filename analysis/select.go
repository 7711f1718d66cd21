package analysis

import (
	"cmp"
	"math"
	"slices"

	"github.com/decibelcooper/hhana/config"
	"github.com/decibelcooper/hhana/event"
	"github.com/decibelcooper/hhana/kin"
)

// SelectLeptons applies the identification, isolation and kinematic cuts.
// The leptons come back sorted by decreasing pt, along with the feed
// indices of the selected electrons and muons.
func SelectLeptons(ev *event.Event, cfg config.Analysis) (leptons []Lepton, electrons, muons []int) {
	for i := range ev.Electrons {
		e := &ev.Electrons[i]
		if e.IDs[cfg.ElectronWP] &&
			e.RelIso < cfg.ElectronIsoCut &&
			e.P4.Pt() > cfg.ElectronPtCut &&
			math.Abs(kin.Eta(&e.P4)) < cfg.ElectronEtaCut {
			electrons = append(electrons, i)
			leptons = append(leptons, Lepton{P4: e.P4, Charge: e.Charge, Index: i, IsElectron: true})
		}
	}

	for i := range ev.Muons {
		mu := &ev.Muons[i]
		if mu.IDs[cfg.MuonWP] &&
			mu.RelIso < cfg.MuonIsoCut &&
			mu.P4.Pt() > cfg.MuonPtCut &&
			math.Abs(kin.Eta(&mu.P4)) < cfg.MuonEtaCut {
			muons = append(muons, i)
			leptons = append(leptons, Lepton{P4: mu.P4, Charge: mu.Charge, Index: i, IsMuon: true})
		}
	}

	slices.SortStableFunc(leptons, func(a, b Lepton) int {
		return cmp.Compare(b.P4.Pt(), a.P4.Pt())
	})
	return leptons, electrons, muons
}

// SelectJets keeps jets passing the kinematic cuts, in feed order; b-jets
// are the subset above the b-tag threshold. A jet without the configured
// discriminant is not b-tagged.
//
// Jets are not re-sorted. The feed is expected to be pt-ordered, so "leading"
// in the dijet composites means first in the feed; an unsorted feed gives
// feed-ordered pairs.
func SelectJets(ev *event.Event, cfg config.Analysis) (jets, bjets []Jet) {
	for i := range ev.Jets {
		j := &ev.Jets[i]
		if j.P4.Pt() <= cfg.JetPtCut || math.Abs(kin.Eta(&j.P4)) >= cfg.JetEtaCut {
			continue
		}
		jets = append(jets, Jet{P4: j.P4, Index: i})
		if j.BTag[cfg.BTagName] > cfg.BTagCut {
			bjets = append(bjets, Jet{P4: j.P4, Index: i})
		}
	}
	return jets, bjets
}
