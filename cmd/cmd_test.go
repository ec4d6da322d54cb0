package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexiusacademia/goslope/internal/search"
	"github.com/alexiusacademia/goslope/internal/soil"
	"github.com/alexiusacademia/goslope/internal/stability"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestFS_JSONDefault(t *testing.T) {
	out, err := execute(t, newFSCmd(), "--json")
	require.NoError(t, err)

	var factors map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &factors))
	assert.InDelta(t, 1.5991165322145477, factors["Fellenius"], 1e-6)
	assert.InDelta(t, 2.038897, factors["Bishop"], 1e-4)
}

func TestFS_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slope.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cohesion": 5, "height": 10,
		"circle": {"center_x": 2, "center_y": 14, "radius": 15}}`), 0o644))

	out, err := execute(t, newFSCmd(), "-f", path, "-c", "12", "-m", "fellenius", "--json")
	require.NoError(t, err)

	var factors map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &factors))
	require.Len(t, factors, 1)

	cfg := soil.Default()
	cfg.Cohesion = 12
	cfg.Height = 10
	want, err := stability.Evaluate(cfg, soil.Circle{CenterX: 2, CenterY: 14, Radius: 15})
	require.NoError(t, err)
	assert.InDelta(t, want[stability.Fellenius], factors["Fellenius"], 1e-12)
}

func TestFS_Report(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(dir, "slope.svg")

	out, err := execute(t, newFSCmd(), "-n", "10", "--slices", "--diagram", "-o", export)
	require.NoError(t, err)

	assert.Contains(t, out, "SOIL AND SLOPE:")
	assert.Contains(t, out, "SLIP CIRCLE:")
	assert.Contains(t, out, "SLICES:")
	assert.Contains(t, out, "FACTOR OF SAFETY:")
	assert.Contains(t, out, "Bishop / Fellenius:")
	assert.Contains(t, out, "SLOPE AND SLIP CIRCLE")
	assert.Contains(t, out, "Diagram exported to:")

	_, err = os.Stat(export)
	assert.NoError(t, err)
}

func TestFS_Errors(t *testing.T) {
	_, err := execute(t, newFSCmd(), "--xc", "3")
	assert.ErrorIs(t, err, soil.ErrInvalidConfiguration)

	_, err = execute(t, newFSCmd(), "-m", "janbu")
	assert.ErrorIs(t, err, soil.ErrInvalidConfiguration)

	_, err = execute(t, newFSCmd(), "--alpha", "90")
	assert.ErrorIs(t, err, soil.ErrInvalidConfiguration)

	_, err = execute(t, newFSCmd(), "--xc", "100", "--yc", "-100", "-r", "5")
	assert.Error(t, err)
}

func TestSearch_JSON(t *testing.T) {
	out, err := execute(t, newSearchCmd(), "-n", "20", "--max-iter", "40", "--json")
	require.NoError(t, err)

	var res search.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, stability.Fellenius, res.Method)
	assert.Equal(t, 1, res.Starts)
	assert.Positive(t, res.FS)
	assert.LessOrEqual(t, res.FS, res.InitialFS)
	assert.NotEmpty(t, res.History)
}

func TestSearch_Report(t *testing.T) {
	out, err := execute(t, newSearchCmd(), "-n", "20", "--max-iter", "40", "--history", "--diagram")
	require.NoError(t, err)

	assert.Contains(t, out, "CRITICAL SLIP CIRCLE SEARCH")
	assert.Contains(t, out, "CRITICAL CIRCLE:")
	assert.Contains(t, out, "CONVERGENCE:")
	assert.Contains(t, out, "SLOPE AND SLIP CIRCLE")
}

func TestSearch_Verbose(t *testing.T) {
	quiet, err := execute(t, newSearchCmd(), "-n", "20", "--max-iter", "10")
	require.NoError(t, err)
	verbose, err := execute(t, newSearchCmd(), "-n", "20", "--max-iter", "10", "-v")
	require.NoError(t, err)

	assert.Greater(t, len(verbose), len(quiet))
}

func TestSearch_Bounds(t *testing.T) {
	_, err := execute(t, newSearchCmd(), "--min-r", "100")
	assert.ErrorIs(t, err, soil.ErrInvalidConfiguration)

	cmd := newSearchCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--max-r", "30"}))
	b := (&searchOptions{maxR: 30}).bounds(cmd)
	require.NotNil(t, b)
	assert.True(t, b.Contains(soil.Circle{CenterX: -1e6, CenterY: 1e6, Radius: 30}))
	assert.False(t, b.Contains(soil.Circle{Radius: 31}))

	assert.Nil(t, (&searchOptions{}).bounds(newSearchCmd()))
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, buf.String(), "goslope v")
	assert.Contains(t, buf.String(), "Bishop")
}
