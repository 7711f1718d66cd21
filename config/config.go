// Package config holds the analysis cuts and category definitions.
//
// Every option is a named scalar with no interaction between options.
// Values missing from a YAML file keep their defaults, so a file only
// needs to list what it overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Analysis   Analysis   `yaml:"analysis"`
	Categories []Category `yaml:"categories"`
}

// Analysis holds the object selection and the reference masses.
type Analysis struct {
	ElectronWP     string  `yaml:"electron_wp"`
	ElectronIsoCut float64 `yaml:"electron_iso_cut"`
	ElectronPtCut  float64 `yaml:"electron_pt_cut"`
	ElectronEtaCut float64 `yaml:"electron_eta_cut"`

	MuonWP     string  `yaml:"muon_wp"`
	MuonIsoCut float64 `yaml:"muon_iso_cut"`
	MuonPtCut  float64 `yaml:"muon_pt_cut"`
	MuonEtaCut float64 `yaml:"muon_eta_cut"`

	JetPtCut  float64 `yaml:"jet_pt_cut"`
	JetEtaCut float64 `yaml:"jet_eta_cut"`
	BTagName  string  `yaml:"btag_name"`
	BTagCut   float64 `yaml:"btag_cut"`

	// Dijets closest to these masses are flagged as the Higgs candidates.
	HiggsMassData float64 `yaml:"higgs_mass_data"`
	HiggsMassMC   float64 `yaml:"higgs_mass_mc"`

	// Verbose logs the resolved truth chain of every simulated event.
	Verbose bool `yaml:"verbose"`
}

// Category is an event class. Require decides membership; Cuts are
// evaluated for members and reported without gating.
type Category struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Require     string            `yaml:"require"`
	Cuts        map[string]string `yaml:"cuts"`
}

func Default() Config {
	return Config{
		Analysis: Analysis{
			ElectronWP:     "cutBasedElectronID-Spring15-25ns-V1-standalone-tight",
			ElectronIsoCut: 0.0646,
			ElectronPtCut:  20,
			ElectronEtaCut: 2.5,

			MuonWP:     "tight",
			MuonIsoCut: 0.15,
			MuonPtCut:  20,
			MuonEtaCut: 2.4,

			JetPtCut:  20,
			JetEtaCut: 2.4,
			BTagName:  "pfCombinedInclusiveSecondaryVertexV2BJetTags",
			BTagCut:   0.605,

			HiggsMassData: 125.02,
			HiggsMassMC:   125.0,
		},
		Categories: DefaultCategories(),
	}
}

// DefaultCategories classifies events by the flavours of the leading
// dilepton.
func DefaultCategories() []Category {
	cuts := func() map[string]string {
		return map[string]string{
			"ll_mass":       "ll[0].mass > 12.0",
			"has_two_bjets": "n_bjets >= 2",
		}
	}
	return []Category{
		{Name: "mumu", Description: "Category with leading leptons as two muons", Require: "size(ll) > 0 && ll[0].is_mumu", Cuts: cuts()},
		{Name: "elel", Description: "Category with leading leptons as two electrons", Require: "size(ll) > 0 && ll[0].is_elel", Cuts: cuts()},
		{Name: "elmu", Description: "Category with leading leptons as electron, subleading as muon", Require: "size(ll) > 0 && ll[0].is_elmu", Cuts: cuts()},
		{Name: "muel", Description: "Category with leading leptons as muon, subleading as electron", Require: "size(ll) > 0 && ll[0].is_muel", Cuts: cuts()},
	}
}

// HiggsMass returns the reference mass for data or simulation.
func (a Analysis) HiggsMass(isRealData bool) float64 {
	if isRealData {
		return a.HiggsMassData
	}
	return a.HiggsMassMC
}

func (a Analysis) Validate() error {
	if a.ElectronWP == "" || a.MuonWP == "" {
		return fmt.Errorf("config: lepton working points must be set")
	}
	if a.BTagName == "" {
		return fmt.Errorf("config: btag_name must be set")
	}
	return nil
}

// FromFile loads configuration from a YAML (or JSON) file on top of the
// defaults.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		return FromYAML(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

func FromYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Analysis.Validate(); err != nil {
		return Config{}, err
	}
	for i, c := range cfg.Categories {
		if c.Name == "" || c.Require == "" {
			return Config{}, fmt.Errorf("config: category %d needs a name and a require expression", i)
		}
	}
	return cfg, nil
}
