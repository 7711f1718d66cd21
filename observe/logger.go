package observe

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger; verbose lowers the level to debug.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// EnrichLogger tags every record with the processing run id.
func EnrichLogger(logger *slog.Logger, runID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("run_id", runID))
}

// EventLogger adds the event identity.
func EventLogger(logger *slog.Logger, run, lumi uint32, number uint64) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.Uint64("run", uint64(run)),
		slog.Uint64("lumi", uint64(lumi)),
		slog.Uint64("event", number),
	)
}
