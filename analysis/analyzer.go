// Package analysis turns one event of the feed into the flat analysis
// record: selected leptons and jets, every composite built from them and,
// for simulation, the hard-process truth chain and its ΔR matching.
//
// An Analyzer only holds configuration, so a single instance may process
// events concurrently.
package analysis

import (
	"context"
	"log/slog"

	"github.com/decibelcooper/hhana/config"
	"github.com/decibelcooper/hhana/event"
	"github.com/decibelcooper/hhana/observe"
	"github.com/decibelcooper/hhana/truth"
)

type Analyzer struct {
	cfg    config.Analysis
	diag   observe.Diagnostics
	logger *slog.Logger
}

type Option func(*Analyzer)

func WithDiagnostics(d observe.Diagnostics) Option {
	return func(a *Analyzer) { a.diag = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

func NewAnalyzer(cfg config.Analysis, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:  cfg,
		diag: observe.NoopDiagnostics{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze builds the record of one event.
func (a *Analyzer) Analyze(ctx context.Context, ev *event.Event) *Record {
	rec := &Record{
		Run:        ev.Run,
		Lumi:       ev.Lumi,
		Number:     ev.Number,
		IsRealData: ev.IsRealData,
		Triggers:   ev.Triggers,
	}

	rec.Leptons, rec.Electrons, rec.Muons = SelectLeptons(ev, a.cfg)
	rec.Jets, rec.BJets = SelectJets(ev, a.cfg)
	rec.Composites = Build(rec.Leptons, rec.Jets, rec.BJets, ev.MET.P4, a.cfg.HiggsMass(ev.IsRealData))

	rec.NJets = len(rec.Jets)
	rec.NBJets = len(rec.BJets)
	rec.NMuons = len(rec.Muons)
	rec.NElectrons = len(rec.Electrons)
	rec.NLeptons = len(rec.Leptons)

	a.diag.RecordEvent(ctx, ev.IsRealData)
	if ev.IsRealData {
		return rec
	}

	rec.Truth = truth.Resolve(ev.GenParticles)
	rec.Matches = truth.Match(&rec.Truth.Composites, ev.JetGenP4s(), ev.ElectronGenP4s(), ev.MuonGenP4s())

	unfilled := rec.Truth.Unfilled()
	if len(unfilled) > 0 {
		roles := make([]string, len(unfilled))
		for i, r := range unfilled {
			roles[i] = r.String()
		}
		a.diag.RecordUnfilledRoles(ctx, roles)
	}

	if a.cfg.Verbose && a.logger != nil {
		logger := observe.EventLogger(a.logger, ev.Run, ev.Lumi, ev.Number)
		logger.DebugContext(ctx, "truth chain", slog.Any("legs", rec.Truth))
		if len(unfilled) > 0 {
			logger.DebugContext(ctx, "unfilled truth roles summed as zero", slog.Any("roles", unfilled))
		}
	}
	return rec
}
