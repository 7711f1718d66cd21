package hhana

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/decibelcooper/hhana/analysis"
	"github.com/decibelcooper/hhana/event"
)

// AnalyzeFunc turns one event into its record.
type AnalyzeFunc func(ctx context.Context, ev *event.Event) (*analysis.Record, error)

// SinkFunc consumes records. It is only ever called from one goroutine.
type SinkFunc func(rec *analysis.Record) error

// Process reads the event files in order and analyses their events on up
// to workers goroutines. Records reach sink in input order only when
// workers is 1. The first error from opening, decoding, analysing or the
// sink stops the run and is returned.
func Process(parent context.Context, paths []string, workers int, analyze AnalyzeFunc, sink SinkFunc) error {
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	records := make(chan *analysis.Record, workers)
	sinkDone := make(chan error, 1)
	go func() {
		var err error
		for rec := range records {
			if err != nil {
				continue
			}
			if err = sink(rec); err != nil {
				cancel(err)
			}
		}
		sinkDone <- err
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	readErr := readAll(gctx, g, paths, func(ev *event.Event) error {
		rec, err := analyze(gctx, ev)
		if err != nil {
			return fmt.Errorf("analyze run %d event %d: %w", ev.Run, ev.Number, err)
		}
		select {
		case records <- rec:
			return nil
		case <-gctx.Done():
			return context.Cause(gctx)
		}
	})

	workErr := g.Wait()
	close(records)
	sinkErr := <-sinkDone

	switch {
	case sinkErr != nil:
		return sinkErr
	case workErr != nil:
		return workErr
	case readErr != nil:
		return readErr
	}
	return parent.Err()
}

func readAll(ctx context.Context, g *errgroup.Group, paths []string, work func(*event.Event) error) error {
	for _, path := range paths {
		if ctx.Err() != nil {
			return nil
		}

		r, err := event.Open(path)
		if err != nil {
			return err
		}
		for ev := range r.ScanEvents(ctx) {
			g.Go(func() error { return work(ev) })
		}
		err = errors.Join(r.Err(), r.Close())
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
