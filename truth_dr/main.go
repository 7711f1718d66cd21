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
	"github.com/decibelcooper/hhana/truth"
)

const about = `
Plots the ΔR between the leading truth b quark and the closest jet, with
and without its radiated gluons, and the jet matching efficiency as a
function of the quark pt for each -drcut.
`

func printUsage() {
	hhana.PrintUsage(os.Stderr, os.Args[0], about)
	flag.PrintDefaults()
}

func main() {
	var (
		cfgPath = flag.String("config", "", "analysis config file (yaml)")
		workers = flag.Int("workers", 4, "number of events analysed in parallel")
		fsr     = flag.Bool("fsr", false, "match to the quark dressed with its FSR gluons")
		nBins   = flag.Int("nbins", 40, "number of bins")
		drMax   = flag.Float64("drmax", 1, "upper ΔR edge")
		pTMax   = flag.Float64("maxpt", 300, "upper quark pt edge (GeV)")
		title   = flag.String("title", "", "plot title")
		prefix  = flag.String("prefix", "truth_dr", "output file prefix")
		profDir = flag.String("profile", "", "write a CPU profile to this directory")
	)
	drCuts := hhana.FloatArrayFlags(0.4)
	flag.Var(drCuts, "drcut", "matching ΔR cut (repeatable)")
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
	pipe, err := hhana.NewPipeline(cfg, os.Stderr, observe.NewDiagnostics())
	if err != nil {
		log.Fatal(err)
	}

	drHist := hbook.NewH1D(*nBins, 0, *drMax)
	drFSRHist := hbook.NewH1D(*nBins, 0, *drMax)
	quarkPt := hbook.NewH1D(*nBins, 0, *pTMax)
	matchedPt := make([]*hbook.H1D, len(drCuts.Array))
	for i := range matchedPt {
		matchedPt[i] = hbook.NewH1D(*nBins, 0, *pTMax)
	}

	skipped := 0
	err = hhana.Process(context.Background(), flag.Args(), *workers, pipe.Analyze, func(rec *analysis.Record) error {
		if rec.Truth == nil || !rec.Truth.Legs[truth.B1].Assigned() || len(rec.Matches.JetB1) == 0 {
			skipped++
			return nil
		}

		dr := slices.Min(rec.Matches.JetB1)
		drFSR := slices.Min(rec.Matches.JetB1FSR)
		drHist.Fill(dr, 1)
		drFSRHist.Fill(drFSR, 1)

		b1 := rec.Truth.Composites.B1
		if *fsr {
			b1 = rec.Truth.Composites.B1FSR
			dr = drFSR
		}
		pt := b1.Pt()
		quarkPt.Fill(pt, 1)
		for i, cut := range drCuts.Array {
			if dr < cut {
				matchedPt[i].Fill(pt, 1)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
	pipe.Logger.Info("matched truth b quarks", "events", quarkPt.Entries(), "skipped", skipped)

	p := hhana.NewPlot(*title, "min ΔR(jet, b)", "events")
	p.Legend.Top = true
	for i, h := range []*hbook.H1D{drHist, drFSRHist} {
		hp := hplot.NewH1D(h)
		hp.LineStyle.Color = hhana.LineColor(i)
		p.Add(hp)
		p.Legend.Add([]string{"b", "b + FSR"}[i], hp)
	}
	if err := hhana.Save(p, *prefix+"_dr"); err != nil {
		log.Fatal(err)
	}

	p = hhana.NewPlot(*title, "b pt (GeV)", "efficiency")
	for i, cut := range drCuts.Array {
		pts, err := hhana.Efficiency(matchedPt[i], quarkPt)
		if err != nil {
			log.Fatal(err)
		}
		if err := hhana.AddErrorPoints(p, pts, hhana.LineColor(i)); err != nil {
			log.Fatal(err)
		}
		pipe.Logger.Info("matching efficiency", "drcut", cut, "matched", matchedPt[i].Entries())
	}
	if err := hhana.Save(p, *prefix+"_eff"); err != nil {
		log.Fatal(err)
	}
}
