package main

import (
	"context"
	"flag"
	"log"
	"os"
	"slices"

	"github.com/pkg/profile"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"

	"github.com/decibelcooper/hhana"
	"github.com/decibelcooper/hhana/analysis"
	"github.com/decibelcooper/hhana/observe"
)

const about = `
Plots the mass of the dijet closest to the Higgs mass, one line per
category.
`

func printUsage() {
	hhana.PrintUsage(os.Stderr, os.Args[0], about)
	flag.PrintDefaults()
}

func main() {
	var (
		cfgPath  = flag.String("config", "", "analysis config file (yaml)")
		workers  = flag.Int("workers", 4, "number of events analysed in parallel")
		bjets    = flag.Bool("bjets", false, "use the b-tagged dijet")
		requires = flag.String("cut", "", "only fill events passing this category cut")
		nBins    = flag.Int("nbins", 50, "number of bins")
		massMin  = flag.Float64("min", 0, "lower mass edge (GeV)")
		massMax  = flag.Float64("max", 250, "upper mass edge (GeV)")
		title    = flag.String("title", "", "plot title")
		prefix   = flag.String("prefix", "dijet_mass", "output file prefix")
		profDir  = flag.String("profile", "", "write a CPU profile to this directory")
		metrics  = flag.Bool("metrics", false, "log event and category counters at the end")
	)
	categories := hhana.StringArrayFlags()
	flag.Var(categories, "category", "category to plot (repeatable, comma-separated); default all")
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 {
		printUsage()
		log.Fatal("Invalid arguments")
	}

	if *profDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profDir)).Stop()
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

	names := hhana.Names(categories)
	if len(names) == 0 {
		for _, c := range cfg.Categories {
			names = append(names, c.Name)
		}
	}
	hists := make(map[string]*hbook.H1D, len(names))
	for _, name := range names {
		hists[name] = hbook.NewH1D(*nBins, *massMin, *massMax)
	}

	ctx := context.Background()
	nEvents := 0
	err = hhana.Process(ctx, flag.Args(), *workers, pipe.Analyze, func(rec *analysis.Record) error {
		nEvents++
		p4, ok := rec.BestDijetP4()
		if *bjets {
			p4, ok = rec.BestBDijetP4()
		}
		if !ok {
			return nil
		}
		for _, c := range rec.Categories {
			h, wanted := hists[c.Name]
			if !wanted {
				continue
			}
			if *requires != "" && !c.Cuts[*requires] {
				continue
			}
			h.Fill(p4.M(), 1)
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
	pipe.Logger.Info("processed events", "events", nEvents, "files", flag.NArg())

	xLabel := "m_jj (GeV)"
	if *bjets {
		xLabel = "m_bb (GeV)"
	}
	p := hhana.NewPlot(*title, xLabel, "events")
	p.Legend.Top = true
	for i, name := range names {
		h := hplot.NewH1D(hists[name])
		h.LineStyle.Color = hhana.LineColor(i)
		if len(names) == 1 {
			h.Infos.Style = hplot.HInfoSummary
		}
		p.Add(h)
		p.Legend.Add(name, h)
	}

	if err := hhana.Save(p, *prefix); err != nil {
		log.Fatal(err)
	}

	if summary != nil {
		if err := summary.Log(ctx, pipe.Logger); err != nil {
			log.Fatal(err)
		}
	}
	if missing := slices.DeleteFunc(names, func(n string) bool { return hists[n].Entries() > 0 }); len(missing) > 0 {
		pipe.Logger.Warn("empty categories", "categories", missing)
	}
}
