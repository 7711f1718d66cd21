package event

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/fmom"

	"github.com/decibelcooper/hhana/truth"
)

const stream = `
run: 1
lumi: 7
event: 42
is_real_data: false
electrons:
  - p4: [30, 0, 10, 31.7]
    charge: -1
    ids: {tight: true, loose: true}
    rel_iso: 0.02
    gen_p4: [29, 0, 10, 30.7]
muons:
  - p4: {pt: 25, eta: 0.5, phi: 1.0, m: 0.105}
    charge: 1
    ids: {tight: false}
    rel_iso: 0.3
jets:
  - p4: [40, 5, 3, 41]
    btag: {deepcsv: 0.9}
met: [10, -10, 0, 14.142]
gen_particles:
  - {p4: [0, 0, 0, 125], pdg_id: 25, flags: 8576, mothers: []}
  - {p4: [1, 1, 1, 2], pdg_id: -5, flags: 8448, mothers: [0]}
triggers: [HLT_Ele23_Ele12]
---
{"run": 2, "event": 43, "is_real_data": true, "met": {"pt": 20, "eta": 0, "phi": 0, "m": 0}}
`

func TestReaderNext(t *testing.T) {
	r := NewReader(strings.NewReader(stream))

	ev, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), ev.Run)
	assert.Equal(t, uint32(7), ev.Lumi)
	assert.Equal(t, uint64(42), ev.Number)
	assert.False(t, ev.IsRealData)

	require.Len(t, ev.Electrons, 1)
	e := ev.Electrons[0]
	assert.Equal(t, fmom.NewPxPyPzE(30, 0, 10, 31.7), e.P4)
	assert.Equal(t, -1, e.Charge)
	assert.True(t, e.IDs["tight"])
	assert.Equal(t, 0.02, e.RelIso)
	assert.Equal(t, fmom.NewPxPyPzE(29, 0, 10, 30.7), e.GenP4)

	require.Len(t, ev.Muons, 1)
	mu := ev.Muons[0]
	assert.InDelta(t, 25, mu.P4.Pt(), 1e-9)
	assert.InDelta(t, 25*math.Cos(1), mu.P4.Px(), 1e-9)
	assert.InDelta(t, 0.105, mu.P4.M(), 1e-9)
	assert.False(t, mu.IDs["tight"])
	assert.Equal(t, fmom.PxPyPzE{}, mu.GenP4)

	require.Len(t, ev.Jets, 1)
	assert.Equal(t, 0.9, ev.Jets[0].BTag["deepcsv"])
	assert.Equal(t, fmom.NewPxPyPzE(10, -10, 0, 14.142), ev.MET.P4)

	require.Len(t, ev.GenParticles, 2)
	gp := ev.GenParticles[1]
	assert.Equal(t, -5, gp.PdgID)
	assert.True(t, gp.Flags.Has(truth.IsLastCopy))
	assert.True(t, gp.Flags.Has(truth.FromHardProcess))
	assert.False(t, gp.Flags.Has(truth.IsHardProcess))
	assert.Equal(t, []int{0}, gp.Mothers)
	assert.True(t, ev.GenParticles[0].Flags.Has(truth.IsHardProcess))
	assert.Equal(t, []string{"HLT_Ele23_Ele12"}, ev.Triggers)

	assert.Equal(t, []fmom.PxPyPzE{e.GenP4}, ev.ElectronGenP4s())
	assert.Equal(t, []fmom.PxPyPzE{{}}, ev.JetGenP4s())

	ev, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(43), ev.Number)
	assert.True(t, ev.IsRealData)
	assert.InDelta(t, 20, ev.MET.P4.Px(), 1e-9)
	assert.Empty(t, ev.Jets)
	assert.Empty(t, ev.MuonGenP4s())

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderBadMomentum(t *testing.T) {
	r := NewReader(strings.NewReader("met: [1, 2, 3]\n"))
	_, err := r.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadMomentum)

	r = NewReader(strings.NewReader("met: 12\n"))
	_, err = r.Next()
	assert.ErrorIs(t, err, ErrBadMomentum)
}

func TestScanEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yaml")
	require.NoError(t, os.WriteFile(path, []byte(stream), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	var numbers []uint64
	for ev := range r.ScanEvents(context.Background()) {
		numbers = append(numbers, ev.Number)
	}
	assert.NoError(t, r.Err())
	assert.Equal(t, []uint64{42, 43}, numbers)
}

func TestScanEventsReportsDecodeError(t *testing.T) {
	r := NewReader(strings.NewReader("event: 1\n---\nmet: [1]\n---\nevent: 3\n"))

	n := 0
	for range r.ScanEvents(context.Background()) {
		n++
	}
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, r.Err(), ErrBadMomentum)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
