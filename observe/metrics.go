// Package observe carries the analysis diagnostics: OpenTelemetry counters
// for events, category yields and unfilled truth roles, plus slog helpers.
//
// All features are opt-in; NoopDiagnostics is used when none are wired.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Diagnostics records per-event counters.
type Diagnostics interface {
	// RecordEvent counts an analysed event.
	RecordEvent(ctx context.Context, isRealData bool)

	// RecordUnfilledRoles counts truth roles no generator particle filled.
	// The corresponding legs were summed as zero vectors.
	RecordUnfilledRoles(ctx context.Context, roles []string)

	// RecordCategory counts an event accepted by a category.
	RecordCategory(ctx context.Context, category string)
}

type otelDiagnostics struct {
	events     metric.Int64Counter
	unfilled   metric.Int64Counter
	categories metric.Int64Counter
}

var (
	defaultDiagnostics     *otelDiagnostics
	defaultDiagnosticsOnce sync.Once
	defaultDiagnosticsErr  error
)

func getDefaultDiagnostics() (*otelDiagnostics, error) {
	defaultDiagnosticsOnce.Do(func() {
		defaultDiagnostics, defaultDiagnosticsErr = newOtelDiagnostics()
	})
	return defaultDiagnostics, defaultDiagnosticsErr
}

func newOtelDiagnostics() (*otelDiagnostics, error) {
	meter := otel.Meter("hhana")

	events, err := meter.Int64Counter("hhana.events",
		metric.WithDescription("Number of analysed events"),
	)
	if err != nil {
		return nil, err
	}

	unfilled, err := meter.Int64Counter("hhana.truth.unfilled_roles",
		metric.WithDescription("Truth roles left unassigned and summed as zero vectors"),
	)
	if err != nil {
		return nil, err
	}

	categories, err := meter.Int64Counter("hhana.category.events",
		metric.WithDescription("Number of events accepted per category"),
	)
	if err != nil {
		return nil, err
	}

	return &otelDiagnostics{
		events:     events,
		unfilled:   unfilled,
		categories: categories,
	}, nil
}

// NewDiagnostics returns Diagnostics backed by the global OTel meter
// provider, or NoopDiagnostics if the instruments cannot be created.
func NewDiagnostics() Diagnostics {
	d, err := getDefaultDiagnostics()
	if err != nil {
		return NoopDiagnostics{}
	}
	return d
}

func (d *otelDiagnostics) RecordEvent(ctx context.Context, isRealData bool) {
	d.events.Add(ctx, 1, metric.WithAttributes(attribute.Bool("real_data", isRealData)))
}

func (d *otelDiagnostics) RecordUnfilledRoles(ctx context.Context, roles []string) {
	for _, role := range roles {
		d.unfilled.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role)))
	}
}

func (d *otelDiagnostics) RecordCategory(ctx context.Context, category string) {
	d.categories.Add(ctx, 1, metric.WithAttributes(attribute.String("category", category)))
}

type NoopDiagnostics struct{}

func (NoopDiagnostics) RecordEvent(context.Context, bool)            {}
func (NoopDiagnostics) RecordUnfilledRoles(context.Context, []string) {}
func (NoopDiagnostics) RecordCategory(context.Context, string)        {}
