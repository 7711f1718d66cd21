package truth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/fmom"

	"github.com/decibelcooper/hhana/kin"
)

const (
	hard      = IsLastCopy | FromHardProcess | IsHardProcess
	radiating = IsLastCopy | FromHardProcess
)

func part(pdg int, flags StatusFlags, px, py, pz, e float64, mothers ...int) Particle {
	return Particle{P4: fmom.NewPxPyPzE(px, py, pz, e), PdgID: pdg, Flags: flags, Mothers: mothers}
}

func TestStatusFlags(t *testing.T) {
	f := radiating
	assert.True(t, f.Has(IsLastCopy))
	assert.True(t, f.Has(FromHardProcess))
	assert.False(t, f.Has(IsHardProcess))
	assert.True(t, f.radiates())
	assert.False(t, hard.radiates())
	assert.Equal(t, "010000100000000", f.String())
	assert.Equal(t, IsLastCopy, StatusFlags(1<<13))
	assert.Equal(t, FromHardProcess, StatusFlags(1<<8))
}

func TestResolveFirstUnfilledWins(t *testing.T) {
	particles := []Particle{
		part(25, hard, 0, 0, 10, 130),
		part(25, FromHardProcess|IsHardProcess, 0, 0, 20, 130), // not last copy
		part(-25, hard, 0, 0, -10, 130),
		part(25, hard, 0, 0, 30, 130), // both Higgs slots taken
		part(5, hard, 40, 0, 0, 40),
		part(-5, hard, -40, 0, 0, 40),
		part(11, hard, 0, 30, 0, 30),
		part(-13, hard, 0, -30, 0, 30),
		part(12, hard, 5, 5, 0, 7.0710678118654755),
		part(-14, hard, -5, 5, 0, 7.0710678118654755),
		part(16, hard, 1, 1, 1, 2), // neutrino slots taken
		part(39, hard, 0, 0, 0, 500),
		part(35, hard, 0, 0, 0, 300),
		part(23, hard, 0, 0, 1, 92),
		part(-24, hard, 0, 0, 2, 81),
		part(24, IsLastCopy, 0, 0, 3, 81), // not from the hard process
		part(1, hard, 1, 0, 0, 1),         // no role
	}

	c := Resolve(particles)
	want := map[Role]int{H1: 0, H2: 2, B1: 4, B2: 5, L1: 6, L2: 7, Nu1: 8, Nu2: 9, X: 11, V1: 13, V2: 14}
	for r := Role(0); r < NumRoles; r++ {
		assert.Equal(t, want[r], c.Legs[r].Index, "role %v", r)
		assert.Equal(t, particles[want[r]].P4, c.Legs[r].P4, "role %v", r)
	}
	assert.Empty(t, c.Unfilled())
	for r := range c.FSRCandidate {
		assert.False(t, c.FSRCandidate[r], "role %v", Role(r))
	}

	assert.Equal(t, fmom.NewPxPyPzE(0, 0, 0, 80), c.Composites.BB)
	assert.Equal(t, fmom.NewPxPyPzE(0, 0, 0, 60), c.Composites.LL)
	assert.Equal(t, c.Composites.BB, c.Composites.BBFSR)
	assert.Equal(t, c.Composites.LL, c.Composites.LLFSR)
}

func TestResolveIsOrderDependent(t *testing.T) {
	e := part(11, hard, 10, 0, 0, 10)
	mu := part(13, hard, 0, 20, 0, 20)

	c := Resolve([]Particle{e, mu})
	assert.Equal(t, e.P4, c.Composites.L1)
	assert.Equal(t, mu.P4, c.Composites.L2)

	c = Resolve([]Particle{mu, e})
	assert.Equal(t, mu.P4, c.Composites.L1)
	assert.Equal(t, e.P4, c.Composites.L2)
}

func TestRecoverFSRPhotons(t *testing.T) {
	particles := []Particle{
		part(23, FromHardProcess|IsHardProcess, 0, 0, 0, 91), // shared mother, not last copy
		part(11, radiating, 20, 0, 0, 20, 0),
		part(-11, hard, -20, 0, 0, 20, 0),
		part(22, IsLastCopy, 1, 0, 0, 1, 0),
		part(22, IsPrompt, 2, 0, 0, 2, 0),   // shares the mother but is not a last copy
		part(22, IsLastCopy, 0, 3, 0, 3, 9), // different mother
		part(-22, IsLastCopy, 0, 0, 4, 4, 0),
		part(21, IsLastCopy, 0, 0, 5, 5, 0), // gluon: only for b legs
	}

	c := Resolve(particles)
	require.True(t, c.Legs[L1].Assigned())
	assert.True(t, c.FSRCandidate[L1])
	assert.False(t, c.FSRCandidate[L2])
	assert.Equal(t, []int{3}, c.Radiation[L1])
	assert.Empty(t, c.Radiation[L2])

	assert.Equal(t, fmom.NewPxPyPzE(21, 0, 0, 21), c.Composites.L1FSR)
	assert.Equal(t, particles[2].P4, c.Composites.L2FSR)
	assert.Equal(t, fmom.NewPxPyPzE(1, 0, 0, 41), c.Composites.LLFSR)
	assert.Equal(t, fmom.NewPxPyPzE(0, 0, 0, 40), c.Composites.LL)
}

func TestRecoverFSRCountsEverySharedMother(t *testing.T) {
	particles := []Particle{
		part(11, radiating, 20, 0, 0, 20, 5, 6),
		part(22, IsLastCopy, 1, 0, 0, 1, 6, 5),
	}

	c := Resolve(particles)
	assert.Equal(t, []int{1, 1}, c.Radiation[L1])
	assert.Equal(t, fmom.NewPxPyPzE(22, 0, 0, 22), c.Composites.L1FSR)
}

func TestRecoverFSRGluons(t *testing.T) {
	particles := []Particle{
		part(5, radiating, 0, 30, 0, 30, 10),
		part(-5, radiating, 0, -30, 0, 30, 11),
		part(21, IsLastCopy, 0, 2, 0, 2, 10),
		part(21, IsLastCopy, 0, -3, 0, 3, 11),
		part(21, IsLastCopy|IsFirstCopy, 0, -4, 0, 4, 11),
		part(22, IsLastCopy, 0, 0, 1, 1, 10), // photons only dress leptons
	}

	c := Resolve(particles)
	assert.Equal(t, []int{2}, c.Radiation[B1])
	assert.Equal(t, []int{3, 4}, c.Radiation[B2])
	assert.Equal(t, fmom.NewPxPyPzE(0, 32, 0, 32), c.Composites.B1FSR)
	assert.Equal(t, fmom.NewPxPyPzE(0, -37, 0, 37), c.Composites.B2FSR)
	assert.Equal(t, fmom.NewPxPyPzE(0, -5, 0, 69), c.Composites.BBFSR)
	assert.Equal(t, fmom.NewPxPyPzE(0, 0, 0, 60), c.Composites.BB)
}

func TestUnfilledRolesContributeZero(t *testing.T) {
	particles := []Particle{
		part(13, radiating, 10, 0, 0, 10, 3),
		part(22, IsLastCopy, 0, 1, 0, 1, 3),
		part(5, hard, 0, 0, 40, 40),
	}

	c := Resolve(particles)
	assert.ElementsMatch(t, []Role{B2, L2, Nu1, Nu2}, c.Unfilled())
	assert.Equal(t, Unassigned, c.Legs[L2].Index)
	assert.Equal(t, fmom.PxPyPzE{}, c.Composites.L2)
	assert.Equal(t, fmom.PxPyPzE{}, c.Composites.NuNu)

	k := c.Composites
	l1fsr := fmom.NewPxPyPzE(10, 1, 0, 11)
	assert.Equal(t, l1fsr, k.L1FSR)
	assert.Equal(t, l1fsr, k.L1FSRNu)
	assert.Equal(t, l1fsr, k.LLFSRNuNu)

	want := kin.Sum(&k.L1FSR, &k.L2FSR, &k.Nu1, &k.Nu2)
	bb := kin.Sum(&k.B1FSR, &k.B2FSR)
	want = kin.Sum(&want, &bb)
	assert.Equal(t, want, k.LLFSRNuNuBB)
	assert.Equal(t, fmom.NewPxPyPzE(10, 1, 40, 51), k.LLFSRNuNuBB)
}

func TestResolveEmpty(t *testing.T) {
	c := Resolve(nil)
	assert.Len(t, c.Unfilled(), len(summedRoles))
	assert.Equal(t, Composites{}, c.Composites)
	for r := range c.Radiation {
		assert.Empty(t, c.Radiation[r])
	}
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "Nu2", Nu2.String())
	assert.Equal(t, "X", X.String())
	assert.Equal(t, "Role(?)", NumRoles.String())
}
