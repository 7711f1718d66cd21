// Package category sorts analysis records into analysis categories.
//
// Categories are CEL expressions over a flat view of the record. The
// require expression decides membership; the cuts of a member category are
// evaluated and reported without gating it.
package category

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/google/cel-go/cel"
	"go-hep.org/x/hep/fmom"

	"github.com/decibelcooper/hhana/analysis"
	"github.com/decibelcooper/hhana/config"
	"github.com/decibelcooper/hhana/kin"
	"github.com/decibelcooper/hhana/observe"
)

// variables the expressions may reference
var factNames = []string{
	"leptons", "ll", "jets", "bjets", "jj", "bb", "lljj", "llbb",
	"best_jj", "best_bb", "n_jets", "n_bjets", "n_leptons", "n_electrons", "n_muons",
	"is_real_data", "triggers",
}

type cut struct {
	name string
	prog cel.Program
}

type compiled struct {
	name    string
	require cel.Program
	cuts    []cut
}

// Gate holds the compiled categories. It is safe for concurrent use.
type Gate struct {
	cats []compiled
	diag observe.Diagnostics
}

type Option func(*Gate)

func WithDiagnostics(d observe.Diagnostics) Option {
	return func(g *Gate) { g.diag = d }
}

// Decision is the outcome of one category for one record.
type Decision struct {
	Name string
	In   bool
	Cuts map[string]bool // evaluated only when In
}

func newEnv() (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(factNames))
	for _, n := range factNames {
		opts = append(opts, cel.Variable(n, cel.DynType))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}
	return env, nil
}

func compile(env *cel.Env, expr string) (cel.Program, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prog, err := env.Program(ast, cel.CostLimit(1000000))
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return prog, nil
}

// New compiles every category. Cuts are evaluated in name order.
func New(cats []config.Category, opts ...Option) (*Gate, error) {
	env, err := newEnv()
	if err != nil {
		return nil, err
	}

	g := &Gate{diag: observe.NoopDiagnostics{}}
	for _, opt := range opts {
		opt(g)
	}

	seen := make(map[string]bool, len(cats))
	for _, c := range cats {
		if seen[c.Name] {
			return nil, fmt.Errorf("category %s defined twice", c.Name)
		}
		seen[c.Name] = true

		req, err := compile(env, c.Require)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", c.Name, err)
		}
		cc := compiled{name: c.Name, require: req}
		for _, name := range slices.Sorted(maps.Keys(c.Cuts)) {
			prog, err := compile(env, c.Cuts[name])
			if err != nil {
				return nil, fmt.Errorf("category %s cut %s: %w", c.Name, name, err)
			}
			cc.cuts = append(cc.cuts, cut{name: name, prog: prog})
		}
		g.cats = append(g.cats, cc)
	}
	return g, nil
}

// Evaluate returns one decision per category, in configuration order.
func (g *Gate) Evaluate(rec *analysis.Record) ([]Decision, error) {
	facts := Facts(rec)
	out := make([]Decision, 0, len(g.cats))
	for _, c := range g.cats {
		in, err := eval(c.require, facts)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", c.name, err)
		}
		d := Decision{Name: c.name, In: in}
		if in && len(c.cuts) > 0 {
			d.Cuts = make(map[string]bool, len(c.cuts))
			for _, ct := range c.cuts {
				pass, err := eval(ct.prog, facts)
				if err != nil {
					return nil, fmt.Errorf("category %s cut %s: %w", c.name, ct.name, err)
				}
				d.Cuts[ct.name] = pass
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// Apply evaluates the record and stores the categories it belongs to.
func (g *Gate) Apply(ctx context.Context, rec *analysis.Record) error {
	decisions, err := g.Evaluate(rec)
	if err != nil {
		return err
	}
	rec.Categories = rec.Categories[:0]
	for _, d := range decisions {
		if !d.In {
			continue
		}
		rec.Categories = append(rec.Categories, analysis.CategoryResult{Name: d.Name, Cuts: d.Cuts})
		g.diag.RecordCategory(ctx, d.Name)
	}
	return nil
}

// non-boolean results count as false
func eval(prog cel.Program, facts map[string]any) (bool, error) {
	out, _, err := prog.Eval(facts)
	if err != nil {
		return false, err
	}
	b, ok := out.Value().(bool)
	return ok && b, nil
}

// Facts flattens a record into the variables visible to expressions.
func Facts(rec *analysis.Record) map[string]any {
	leptons := make([]any, len(rec.Leptons))
	for i := range rec.Leptons {
		l := &rec.Leptons[i]
		m := kinematics(&l.P4)
		m["charge"] = l.Charge
		m["index"] = l.Index
		m["is_el"] = l.IsElectron
		m["is_mu"] = l.IsMuon
		leptons[i] = m
	}

	ll := make([]any, len(rec.Dileptons))
	for i := range rec.Dileptons {
		d := &rec.Dileptons[i]
		m := kinematics(&d.P4)
		m["idx"] = []int{d.Indices[0], d.Indices[1]}
		m["charge_product"] = d.ChargeProduct
		m["is_mumu"] = d.IsMuMu
		m["is_elel"] = d.IsElEl
		m["is_elmu"] = d.IsElMu
		m["is_muel"] = d.IsMuEl
		m["dr"] = d.DR
		m["dphi"] = d.DPhi
		m["dphi_met"] = d.DPhiMET
		m["mt"] = d.MT
		m["projected_met"] = d.ProjectedMET
		ll[i] = m
	}

	triggers := rec.Triggers
	if triggers == nil {
		triggers = []string{}
	}

	return map[string]any{
		"leptons":      leptons,
		"ll":           ll,
		"jets":         jetFacts(rec.Jets),
		"bjets":        jetFacts(rec.BJets),
		"jj":           dijetFacts(rec.Dijets),
		"bb":           dijetFacts(rec.BDijets),
		"lljj":         fourBodyFacts(rec.LLJJ),
		"llbb":         fourBodyFacts(rec.LLBB),
		"best_jj":      rec.BestDijet,
		"best_bb":      rec.BestBDijet,
		"n_jets":       rec.NJets,
		"n_bjets":      rec.NBJets,
		"n_leptons":    rec.NLeptons,
		"n_electrons":  rec.NElectrons,
		"n_muons":      rec.NMuons,
		"is_real_data": rec.IsRealData,
		"triggers":     triggers,
	}
}

func jetFacts(jets []analysis.Jet) []any {
	out := make([]any, len(jets))
	for i := range jets {
		m := kinematics(&jets[i].P4)
		m["index"] = jets[i].Index
		out[i] = m
	}
	return out
}

func dijetFacts(jj []analysis.Dijet) []any {
	out := make([]any, len(jj))
	for i := range jj {
		d := &jj[i]
		m := kinematics(&d.P4)
		m["idx"] = []int{d.Indices[0], d.Indices[1]}
		m["dr"] = d.DR
		m["dphi"] = d.DPhi
		m["dphi_met"] = d.DPhiMET
		out[i] = m
	}
	return out
}

func fourBodyFacts(fb []analysis.FourBody) []any {
	out := make([]any, len(fb))
	for i := range fb {
		f := &fb[i]
		m := kinematics(&f.P4)
		m["idx"] = []int{f.Indices[0], f.Indices[1]}
		m["dr"] = f.DR
		m["dphi"] = f.DPhi
		m["min_dr_lj"] = f.MinDRLJ
		m["max_dr_lj"] = f.MaxDRLJ
		m["dphi_met"] = f.DPhiMET
		m["cos_theta_star_cs"] = f.CosThetaStarCS
		out[i] = m
	}
	return out
}

func kinematics(p *fmom.PxPyPzE) map[string]any {
	return map[string]any{
		"pt":   p.Pt(),
		"eta":  kin.Eta(p),
		"phi":  kin.Phi(p),
		"mass": p.M(),
		"e":    p.E(),
	}
}
