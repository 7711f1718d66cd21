package kin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go-hep.org/x/hep/fmom"
)

func TestSum(t *testing.T) {
	a := fmom.NewPxPyPzE(1, 2, 3, 10)
	b := fmom.NewPxPyPzE(-1, 0, 1, 5)
	var zero fmom.PxPyPzE

	s := Sum(&a, &zero, &b)
	assert.Equal(t, fmom.NewPxPyPzE(0, 2, 4, 15), s)
	assert.Equal(t, fmom.PxPyPzE{}, Sum())
}

func TestDeltaPhiFolding(t *testing.T) {
	east := fmom.NewPxPyPzE(1, 0, 0, 1)
	west := fmom.NewPxPyPzE(-1, 0, 0, 1)

	assert.Equal(t, math.Pi, DeltaPhi(&east, &west))
	assert.Equal(t, math.Pi, DeltaPhi(&west, &east), "-π folds onto π")

	a := fmom.NewPxPyPzE(math.Cos(3), math.Sin(3), 0, 1)
	b := fmom.NewPxPyPzE(math.Cos(-3), math.Sin(-3), 0, 1)
	assert.InDelta(t, 2*math.Pi-6, DeltaPhi(&a, &b), 1e-12)
	assert.InDelta(t, 6-2*math.Pi, DeltaPhi(&b, &a), 1e-12)
}

func TestEtaWithoutTransverseMomentum(t *testing.T) {
	var zero fmom.PxPyPzE
	up := fmom.NewPxPyPzE(0, 0, 5, 5)
	down := fmom.NewPxPyPzE(0, 0, -5, 5)

	assert.Equal(t, 0., Eta(&zero))
	assert.Equal(t, 5+etaMax, Eta(&up))
	assert.Equal(t, -5-etaMax, Eta(&down))

	p := fmom.NewPtEtaPhiM(30, 1.2, 0.4, 0)
	assert.InDelta(t, 1.2, Eta(&p), 1e-9)

	// nearly collinear with the beam, forward and backward
	fwd := fmom.NewPxPyPzE(1e-7, 0, 2000, 2000)
	bwd := fmom.NewPxPyPzE(1e-7, 0, -2000, 2000)
	assert.InDelta(t, 24.41, Eta(&fwd), 0.01)
	assert.Equal(t, -Eta(&fwd), Eta(&bwd))

	along := fmom.NewPxPyPzE(10, 0, 0, 10)
	dr := DeltaR(&along, &bwd)
	assert.False(t, math.IsInf(dr, 0))
	assert.InDelta(t, DeltaR(&along, &fwd), dr, 1e-9)
}

func TestDeltaR(t *testing.T) {
	a := fmom.NewPtEtaPhiM(20, 0.5, 0.1, 0)
	b := fmom.NewPtEtaPhiM(40, -0.5, 0.4, 0)
	assert.InDelta(t, math.Hypot(1, 0.3), DeltaR(&a, &b), 1e-9)
	assert.InDelta(t, DeltaR(&a, &b), DeltaR(&b, &a), 1e-12)
}

func TestTransverseMass(t *testing.T) {
	a := fmom.NewPxPyPzE(10, 0, 0, 10)
	b := fmom.NewPxPyPzE(-10, 0, 0, 10)
	assert.InDelta(t, 20, TransverseMass(&a, &b), 1e-9)
	assert.InDelta(t, 0, TransverseMass(&a, &a), 1e-9)
}

func TestCosThetaStarCS(t *testing.T) {
	forward := fmom.NewPxPyPzE(0, 0, 10, 20)
	backward := fmom.NewPxPyPzE(0, 0, -10, 20)
	assert.InDelta(t, 1, CosThetaStarCS(&forward, &backward), 1e-9)
	assert.InDelta(t, -1, CosThetaStarCS(&backward, &forward), 1e-9)

	left := fmom.NewPxPyPzE(10, 0, 0, 20)
	right := fmom.NewPxPyPzE(-10, 0, 0, 20)
	assert.InDelta(t, 0, CosThetaStarCS(&left, &right), 1e-9)

	// a boost along z leaves the beam axis unchanged
	fb := fmom.NewPxPyPzE(0, 0, 30, 40)
	bb := fmom.NewPxPyPzE(0, 0, 10, 20)
	c := CosThetaStarCS(&fb, &bb)
	assert.True(t, c > 0 && c <= 1+1e-12, "cos θ* = %v", c)

	var zero fmom.PxPyPzE
	assert.True(t, math.IsNaN(CosThetaStarCS(&zero, &zero)))
}
