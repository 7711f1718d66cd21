package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decibelcooper/hhana"
	"github.com/decibelcooper/hhana/analysis"
	"github.com/decibelcooper/hhana/observe"
)

const about = `
Writes one YAML document per analysed event.
`

func printUsage() {
	hhana.PrintUsage(os.Stderr, os.Args[0], about)
	flag.PrintDefaults()
}

var errLimit = errors.New("event limit reached")

func main() {
	var (
		cfgPath  = flag.String("config", "", "analysis config file (yaml)")
		workers  = flag.Int("workers", 1, "number of events analysed in parallel; more than 1 loses input order")
		maxEvts  = flag.Int("n", 0, "stop after this many events (0 for all)")
		category = flag.String("category", "", "only dump events in this category")
		noTruth  = flag.Bool("notruth", false, "omit the truth chain and matches")
		output   = flag.String("output", "", "output file (default stdout)")
		metrics  = flag.Bool("metrics", false, "log event and category counters at the end")
	)
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 {
		printUsage()
		log.Fatal("Invalid arguments")
	}

	cfg, err := hhana.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	var summary *observe.Summary
	if *metrics {
		summary = observe.StartSummary()
		defer func() {
			if err := summary.Shutdown(context.Background()); err != nil {
				log.Print(err)
			}
		}()
	}
	pipe, err := hhana.NewPipeline(cfg, os.Stderr, observe.NewDiagnostics())
	if err != nil {
		log.Fatal(err)
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		w = f
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	ctx := context.Background()
	n := 0
	err = hhana.Process(ctx, flag.Args(), *workers, pipe.Analyze, func(rec *analysis.Record) error {
		if *category != "" && !rec.InCategory(*category) {
			return nil
		}
		if *noTruth {
			rec.Truth, rec.Matches = nil, nil
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode run %d event %d: %w", rec.Run, rec.Number, err)
		}
		n++
		if *maxEvts > 0 && n >= *maxEvts {
			return errLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimit) {
		log.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		log.Fatal(err)
	}
	pipe.Logger.Info("dumped events", "events", n)

	if summary != nil {
		if err := summary.Log(ctx, pipe.Logger); err != nil {
			log.Fatal(err)
		}
	}
}
