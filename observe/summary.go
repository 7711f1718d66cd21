package observe

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Summary keeps the counters of one command run in memory so they can be
// reported when it ends.
type Summary struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
}

// StartSummary installs an in-process meter provider as the global one.
// Call it before NewDiagnostics.
func StartSummary() *Summary {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	return &Summary{reader: reader, provider: provider}
}

// Counts returns the integer counters keyed as name{key=value,...}.
func (s *Summary) Counts(ctx context.Context) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := s.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				var kv []string
				for _, a := range dp.Attributes.ToSlice() {
					kv = append(kv, string(a.Key)+"="+a.Value.Emit())
				}
				out[m.Name+"{"+strings.Join(kv, ",")+"}"] += dp.Value
			}
		}
	}
	return out, nil
}

// Log writes every counter at info level, sorted by key.
func (s *Summary) Log(ctx context.Context, logger *slog.Logger) error {
	counts, err := s.Counts(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logger.InfoContext(ctx, "counter", slog.String("name", k), slog.Int64("value", counts[k]))
	}
	return nil
}

// Shutdown releases the meter provider. Counts and Log fail afterwards.
func (s *Summary) Shutdown(ctx context.Context) error {
	return s.provider.Shutdown(ctx)
}
