package hhana

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// PreciseTicks labels round values and fills in unlabelled minor ticks,
// avoiding the floating-point noise of the default tick labels.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	n := t.NSuggestedTicks
	if n < 2 {
		n = 4
	}
	if !(max > min) {
		return nil
	}

	mult, major := majorStep(max-min, n)
	ticks := majorTicks(min, max, major)

	minor := major / 2
	switch mult {
	case 3, 6:
		minor = major / 3
	case 5:
		minor = major / 5
	}
	for v := math.Floor(min/minor) * minor; v <= max; v += minor {
		if v < min || hasTick(ticks, v, minor/2) {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v})
	}
	return ticks
}

// majorStep picks a power of ten small enough to give n-1 intervals, then
// a multiple of it avoiding 7 and 9.
func majorStep(span float64, n int) (int, float64) {
	tens := math.Pow10(int(math.Floor(math.Log10(span))))
	for span/tens < float64(n-1) {
		tens /= 10
	}

	mult := int(span / tens / float64(n-1))
	switch mult {
	case 7:
		mult = 6
	case 9:
		mult = 8
	}
	return mult, float64(mult) * tens
}

func majorTicks(min, max, step float64) []plot.Tick {
	var values []float64
	v := math.Floor(min/step) * step
	for ; v <= max; v += step {
		if v >= min {
			values = append(values, v)
		}
	}

	prec := int(math.Ceil(math.Log10(math.Max(math.Abs(v), step))) - math.Floor(math.Log10(step)))
	ticks := make([]plot.Tick, 0, len(values))
	for _, v := range values {
		r := round(v, prec)
		ticks = append(ticks, plot.Tick{Value: r, Label: strconv.FormatFloat(r, 'g', -1, 64)})
	}
	return ticks
}

func hasTick(ticks []plot.Tick, v, tol float64) bool {
	for _, t := range ticks {
		if math.Abs(t.Value-v) < tol {
			return true
		}
	}
	return false
}

// round to prec decimals; never returns negative zero.
func round(x float64, prec int) float64 {
	if x == 0 {
		return 0
	}
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	scaled := x * pow
	if math.IsInf(scaled, 0) {
		return x
	}
	if x < 0 {
		x = math.Ceil(scaled - 0.5)
	} else {
		x = math.Floor(scaled + 0.5)
	}
	if x == 0 {
		return 0
	}
	return x / pow
}
