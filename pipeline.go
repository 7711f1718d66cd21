package hhana

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/decibelcooper/hhana/analysis"
	"github.com/decibelcooper/hhana/category"
	"github.com/decibelcooper/hhana/config"
	"github.com/decibelcooper/hhana/event"
	"github.com/decibelcooper/hhana/observe"
)

// Pipeline analyses an event and sorts the record into categories.
type Pipeline struct {
	RunID    string
	Logger   *slog.Logger
	analyzer *analysis.Analyzer
	gate     *category.Gate
}

// NewPipeline builds the analyzer and compiles the categories of cfg.
// Logs go to logOut, tagged with a fresh run id.
func NewPipeline(cfg config.Config, logOut io.Writer, diag observe.Diagnostics) (*Pipeline, error) {
	if diag == nil {
		diag = observe.NoopDiagnostics{}
	}
	runID := uuid.New().String()
	logger := observe.EnrichLogger(observe.NewLogger(logOut, cfg.Analysis.Verbose), runID)

	gate, err := category.New(cfg.Categories, category.WithDiagnostics(diag))
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}

	return &Pipeline{
		RunID:  runID,
		Logger: logger,
		analyzer: analysis.NewAnalyzer(cfg.Analysis,
			analysis.WithDiagnostics(diag),
			analysis.WithLogger(logger),
		),
		gate: gate,
	}, nil
}

// Analyze is an AnalyzeFunc.
func (p *Pipeline) Analyze(ctx context.Context, ev *event.Event) (*analysis.Record, error) {
	rec := p.analyzer.Analyze(ctx, ev)
	if err := p.gate.Apply(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// LoadConfig reads path on top of the defaults, or returns the defaults
// when path is empty.
func LoadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.FromFile(path)
}
