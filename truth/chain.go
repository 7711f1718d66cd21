// Package truth reconstructs the hard-process decay chain of a simulated
// HH event from the pruned generator record and associates its legs with
// reconstructed objects.
//
// The resolver is a single ordered pass: every last-copy particle coming
// from the hard process claims the first free slot of its role, so the
// result depends on the order of the generator collection. Legs that lost
// momentum to final-state radiation are then dressed with the photons or
// gluons that share a direct mother with them.
package truth

import (
	"log/slog"

	"go-hep.org/x/hep/fmom"

	"github.com/decibelcooper/hhana/kin"
)

// Unassigned marks a role that no generator particle filled.
const Unassigned = -1

// Particle is one entry of the pruned generator collection.
type Particle struct {
	P4      fmom.PxPyPzE
	PdgID   int
	Flags   StatusFlags
	Mothers []int
}

type Role int

const (
	H1 Role = iota
	H2
	V1
	V2
	B1
	B2
	L1
	L2
	Nu1
	Nu2
	X
	NumRoles
)

var roleNames = [NumRoles]string{"H1", "H2", "V1", "V2", "B1", "B2", "L1", "L2", "Nu1", "Nu2", "X"}

func (r Role) String() string {
	if r < 0 || r >= NumRoles {
		return "Role(?)"
	}
	return roleNames[r]
}

var (
	higgsSlots    = []Role{H1, H2}
	quarkSlots    = []Role{B1, B2}
	leptonSlots   = []Role{L1, L2}
	neutrinoSlots = []Role{Nu1, Nu2}
	exoticSlots   = []Role{X}
	bosonSlots    = []Role{V1, V2}
)

// slotsFor returns the roles a particle with the given PDG id may fill, in
// the order they are claimed.
func slotsFor(pdgID int) []Role {
	switch abs(pdgID) {
	case 25:
		return higgsSlots
	case 5:
		return quarkSlots
	case 11, 13:
		return leptonSlots
	case 12, 14, 16:
		return neutrinoSlots
	case 35, 39:
		return exoticSlots
	case 23, 24:
		return bosonSlots
	}
	return nil
}

// summedRoles are the legs entering the truth composites.
var summedRoles = []Role{B1, B2, L1, L2, Nu1, Nu2}

type Leg struct {
	Index int          `yaml:"index"`
	PdgID int          `yaml:"pdg_id"`
	Flags StatusFlags  `yaml:"flags"`
	P4    fmom.PxPyPzE `yaml:"p4,flow"`
}

func (l Leg) Assigned() bool { return l.Index != Unassigned }

// Composites are the summed truth four-vectors. Legs that were not found
// contribute the zero vector.
type Composites struct {
	B1          fmom.PxPyPzE `yaml:"b1,flow"`
	B2          fmom.PxPyPzE `yaml:"b2,flow"`
	B1FSR       fmom.PxPyPzE `yaml:"b1_fsr,flow"`
	B2FSR       fmom.PxPyPzE `yaml:"b2_fsr,flow"`
	Nu1         fmom.PxPyPzE `yaml:"nu1,flow"`
	Nu2         fmom.PxPyPzE `yaml:"nu2,flow"`
	L1          fmom.PxPyPzE `yaml:"l1,flow"`
	L2          fmom.PxPyPzE `yaml:"l2,flow"`
	LL          fmom.PxPyPzE `yaml:"ll,flow"`
	BB          fmom.PxPyPzE `yaml:"bb,flow"`
	BBFSR       fmom.PxPyPzE `yaml:"bb_fsr,flow"`
	L1FSRNu     fmom.PxPyPzE `yaml:"l1_fsr_nu,flow"`
	L2FSRNu     fmom.PxPyPzE `yaml:"l2_fsr_nu,flow"`
	L1FSR       fmom.PxPyPzE `yaml:"l1_fsr,flow"`
	L2FSR       fmom.PxPyPzE `yaml:"l2_fsr,flow"`
	LLFSR       fmom.PxPyPzE `yaml:"ll_fsr,flow"`
	NuNu        fmom.PxPyPzE `yaml:"nunu,flow"`
	LLNuNu      fmom.PxPyPzE `yaml:"ll_nunu,flow"`
	LLFSRNuNu   fmom.PxPyPzE `yaml:"ll_fsr_nunu,flow"`
	LLFSRNuNuBB fmom.PxPyPzE `yaml:"ll_fsr_nunu_bb,flow"`
}

// Chain is the resolved hard process of one event.
type Chain struct {
	Legs [NumRoles]Leg `yaml:"legs"`

	// FSRCandidate is set on L1, L2, B1 and B2 when the leg comes from the
	// hard process without being flagged as part of it.
	FSRCandidate [NumRoles]bool `yaml:"fsr_candidate,flow"`

	// Radiation holds generator indices of the recovered FSR photons (L1,
	// L2) and gluons (B1, B2). A particle may appear more than once when
	// it shares several mothers with the leg.
	Radiation [NumRoles][]int `yaml:"radiation"`

	Composites Composites `yaml:"composites"`
}

// Resolve walks the generator record once and builds the truth chain.
func Resolve(particles []Particle) *Chain {
	c := &Chain{}
	for r := range c.Legs {
		c.Legs[r].Index = Unassigned
	}

	for i := range particles {
		p := &particles[i]
		if !p.Flags.Has(IsLastCopy) || !p.Flags.Has(FromHardProcess) {
			continue
		}
		for _, r := range slotsFor(p.PdgID) {
			if c.Legs[r].Assigned() {
				continue
			}
			c.Legs[r] = Leg{Index: i, PdgID: p.PdgID, Flags: p.Flags, P4: p.P4}
			switch r {
			case L1, L2, B1, B2:
				c.FSRCandidate[r] = p.Flags.radiates()
			}
			break
		}
	}

	c.recoverFSR(particles, 22, L1, L2)
	c.recoverFSR(particles, 21, B1, B2)
	c.Composites = c.sum(particles)
	return c
}

// recoverFSR attaches to each candidate leg the last-copy particles with the
// given PDG id that share a direct mother with it.
func (c *Chain) recoverFSR(particles []Particle, pdgID int, roles ...Role) {
	var legs []Role
	for _, r := range roles {
		if c.FSRCandidate[r] {
			legs = append(legs, r)
		}
	}
	if len(legs) == 0 {
		return
	}

	for i := range particles {
		p := &particles[i]
		if p.PdgID != pdgID || !p.Flags.Has(IsLastCopy) {
			continue
		}
		for _, m := range p.Mothers {
			for _, r := range legs {
				for _, lm := range particles[c.Legs[r].Index].Mothers {
					if m == lm {
						c.Radiation[r] = append(c.Radiation[r], i)
					}
				}
			}
		}
	}
}

func (c *Chain) dressed(r Role, particles []Particle) fmom.PxPyPzE {
	sum := c.Legs[r].P4
	for _, i := range c.Radiation[r] {
		fmom.IAdd(&sum, &particles[i].P4)
	}
	return sum
}

func (c *Chain) sum(particles []Particle) Composites {
	var k Composites
	k.B1 = c.Legs[B1].P4
	k.B2 = c.Legs[B2].P4
	k.Nu1 = c.Legs[Nu1].P4
	k.Nu2 = c.Legs[Nu2].P4
	k.L1 = c.Legs[L1].P4
	k.L2 = c.Legs[L2].P4
	k.LL = kin.Sum(&k.L1, &k.L2)
	k.NuNu = kin.Sum(&k.Nu1, &k.Nu2)
	k.L1FSR = c.dressed(L1, particles)
	k.L2FSR = c.dressed(L2, particles)
	k.B1FSR = c.dressed(B1, particles)
	k.B2FSR = c.dressed(B2, particles)
	k.BB = kin.Sum(&k.B1, &k.B2)
	k.BBFSR = kin.Sum(&k.B1FSR, &k.B2FSR)
	k.L1FSRNu = kin.Sum(&k.L1FSR, &k.Nu1)
	k.L2FSRNu = kin.Sum(&k.L2FSR, &k.Nu2)
	k.LLFSR = kin.Sum(&k.L1FSR, &k.L2FSR)
	k.LLNuNu = kin.Sum(&k.LL, &k.NuNu)
	k.LLFSRNuNu = kin.Sum(&k.LLFSR, &k.NuNu)
	k.LLFSRNuNuBB = kin.Sum(&k.LLFSRNuNu, &k.BBFSR)
	return k
}

// Unfilled lists the summed roles no generator particle was assigned to.
func (c *Chain) Unfilled() []Role {
	var roles []Role
	for _, r := range summedRoles {
		if !c.Legs[r].Assigned() {
			roles = append(roles, r)
		}
	}
	return roles
}

// LogValue renders the assigned legs the way the verbose dump prints them.
func (c *Chain) LogValue() slog.Value {
	var attrs []slog.Attr
	for r := Role(0); r < NumRoles; r++ {
		leg := c.Legs[r]
		if !leg.Assigned() {
			continue
		}
		attrs = append(attrs, slog.Group(r.String(),
			slog.Int("index", leg.Index),
			slog.Int("pdg_id", leg.PdgID),
			slog.String("flags", leg.Flags.String()),
			slog.Float64("pt", leg.P4.Pt()),
			slog.Float64("eta", kin.Eta(&leg.P4)),
			slog.Float64("phi", kin.Phi(&leg.P4)),
			slog.Float64("e", leg.P4.E()),
			slog.Float64("m", leg.P4.M()),
			slog.Any("radiation", c.Radiation[r]),
		))
	}
	return slog.GroupValue(attrs...)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
