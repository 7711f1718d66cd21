package hhana

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatArrayFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cuts := FloatArrayFlags(0.4)
	fs.Var(cuts, "drcut", "ΔR cut")

	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, []float64{0.4}, cuts.Array)

	require.NoError(t, fs.Parse([]string{"-drcut", "0.1", "-drcut", "0.2"}))
	assert.Equal(t, []float64{0.1, 0.2}, cuts.Array, "defaults are replaced")
	assert.Equal(t, "[0.1 0.2]", cuts.String())

	assert.Error(t, cuts.Set("wide"))
}

func TestStringArrayFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cats := StringArrayFlags("mumu", "elel")
	fs.Var(cats, "category", "categories")

	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, []string{"mumu", "elel"}, Names(cats))

	require.NoError(t, fs.Parse([]string{"-category", "elmu, muel", "-category", "mumu"}))
	assert.Equal(t, []string{"elmu", "muel", "mumu"}, Names(cats))
	assert.Error(t, cats.Set(""))
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf, "/data/100%/hhdump", "\nDumps 5% of events.\n")
	assert.Equal(t, "Usage: /data/100%/hhdump [options] <event-files>...\n\nDumps 5% of events.\n\noptions:\n", buf.String())
}
