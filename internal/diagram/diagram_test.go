package diagram_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/alexiusacademia/goslope/internal/diagram"
	"github.com/alexiusacademia/goslope/internal/geometry"
	"github.com/alexiusacademia/goslope/internal/soil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultData(t *testing.T) diagram.SlopeDiagramData {
	t.Helper()
	cfg := soil.Default().WithNumSlices(10)
	model, err := geometry.Analyze(cfg, soil.InitialGuess(cfg))
	require.NoError(t, err)
	return diagram.NewSlopeDiagramData(cfg, model, map[string]float64{"Fellenius": 1.5991})
}

func TestNewSlopeDiagramData(t *testing.T) {
	data := defaultData(t)

	assert.Equal(t, 15.0, data.Height)
	assert.InDelta(t, 15.0, data.SlopeLength, 1e-9)
	assert.Len(t, data.Arc, 11)
	assert.Len(t, data.Slices, 10)
	assert.Equal(t, data.Arc[0], data.Slices[0][0])
	assert.Equal(t, data.Arc[1], data.Slices[0][3])
	assert.InDelta(t, 7.5, data.Center.X, 1e-9)
}

func TestDrawASCIISlope(t *testing.T) {
	out := diagram.DrawASCIISlope(defaultData(t))

	assert.Contains(t, out, "SLOPE AND SLIP CIRCLE")
	assert.Contains(t, out, "•")
	assert.Contains(t, out, "╱")
	assert.Contains(t, out, "+")
	assert.Contains(t, out, "FS (Fellenius) = 1.5991")
	assert.NotContains(t, out, "Bishop")
}

func TestDrawConvergence(t *testing.T) {
	assert.Empty(t, diagram.DrawConvergence(nil, "FS"))
	assert.Contains(t, diagram.DrawConvergence([]float64{1.2, 1.2}, "FS"), "constant at 1.2000")

	out := diagram.DrawConvergence([]float64{1.6, 1.4, 1.3, 1.25, 1.2}, "best FS per iteration")
	assert.Contains(t, out, "best FS per iteration")
	assert.Greater(t, strings.Count(out, "\n"), 5)
}

func TestDrawSummaryBox(t *testing.T) {
	out := diagram.DrawSummaryBox("CRITICAL CIRCLE", []string{"FS = 1.1015", "Center (x, y) = (-3.36, 23.42) m"})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	width := utf8.RuneCountInString(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, utf8.RuneCountInString(line), "%q", line)
	}
	assert.Contains(t, out, "FS = 1.1015")
}

func TestExportSlopeDiagram(t *testing.T) {
	dir := t.TempDir()
	data := defaultData(t)

	for _, name := range []string{"slope.png", "slope.svg", filepath.Join("nested", "slope.pdf")} {
		path := filepath.Join(dir, name)
		require.NoError(t, diagram.ExportSlopeDiagram(data, path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	require.NoError(t, diagram.ExportSlopeDiagram(data, filepath.Join(dir, "plain")))
	_, err := os.Stat(filepath.Join(dir, "plain.png"))
	assert.NoError(t, err)
}

func TestExportConvergence(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "history.svg")
	require.NoError(t, diagram.ExportConvergence([]float64{1.6, 1.3, 1.1}, path))
	_, err := os.Stat(path)
	assert.NoError(t, err)

	assert.Error(t, diagram.ExportConvergence(nil, path))
}
