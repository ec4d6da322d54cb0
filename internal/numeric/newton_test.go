package numeric_test

import (
	"math"
	"testing"

	"github.com/alexiusacademia/goslope/internal/numeric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewton_Sqrt2(t *testing.T) {
	root, err := numeric.Newton(func(x float64) float64 { return x*x - 2 }, 2, nil)
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt2, root.X, 1e-8)
	assert.Less(t, root.Iterations, 10)
}

func TestNewton_ExactRoot(t *testing.T) {
	root, err := numeric.Newton(func(x float64) float64 { return x - 3 }, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, 3.0, root.X)
	assert.Equal(t, 1, root.Iterations)
}

func TestNewton_ZeroDerivative(t *testing.T) {
	_, err := numeric.Newton(func(float64) float64 { return 1 }, 0, nil)
	assert.ErrorIs(t, err, numeric.ErrNonConvergence)
}

func TestNewton_IterationBudget(t *testing.T) {
	// x² + 1 has no real root; Newton wanders without converging.
	settings := numeric.DefaultNewtonSettings()
	settings.MaxIterations = 5

	root, err := numeric.Newton(func(x float64) float64 { return x*x + 1 }, 0.5, &settings)
	assert.ErrorIs(t, err, numeric.ErrNonConvergence)
	assert.Equal(t, 5, root.Iterations)
}

func TestNewton_NonFinite(t *testing.T) {
	_, err := numeric.Newton(func(x float64) float64 { return math.Log(x) }, -1, nil)
	assert.ErrorIs(t, err, numeric.ErrNonConvergence)
}
