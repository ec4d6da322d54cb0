package soil_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexiusacademia/goslope/internal/soil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ConvertsDegrees(t *testing.T) {
	cfg, err := soil.New(20, 30, 18.5, 45, 15, 50)
	require.NoError(t, err)

	assert.InDelta(t, math.Pi/6, cfg.FrictionAngle, 1e-12)
	assert.InDelta(t, math.Pi/4, cfg.SlopeAngle, 1e-12)
	assert.InDelta(t, 15.0, cfg.SlopeLength(), 1e-9)
	assert.Equal(t, soil.DefaultPrecision, cfg.Precision)
	assert.Equal(t, soil.Default(), cfg)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*soil.Config)
		field  string
	}{
		{"flat slope", func(c *soil.Config) { c.SlopeAngle = 0 }, "slope_angle"},
		{"vertical slope", func(c *soil.Config) { c.SlopeAngle = math.Pi / 2 }, "slope_angle"},
		{"negative friction", func(c *soil.Config) { c.FrictionAngle = -0.1 }, "friction_angle"},
		{"zero height", func(c *soil.Config) { c.Height = 0 }, "height"},
		{"zero unit weight", func(c *soil.Config) { c.UnitWeight = 0 }, "unit_weight"},
		{"negative cohesion", func(c *soil.Config) { c.Cohesion = -1 }, "cohesion"},
		{"no slices", func(c *soil.Config) { c.NumSlices = 0 }, "num_slices"},
		{"nan pore pressure", func(c *soil.Config) { c.PorePressure = math.NaN() }, "pore_pressure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := soil.Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, soil.ErrInvalidConfiguration)

			var verr *soil.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	assert.NoError(t, soil.Default().Validate())
}

func TestConfig_SurfaceY(t *testing.T) {
	cfg := soil.Default()

	assert.Equal(t, 0.0, cfg.SurfaceY(-3))
	assert.InDelta(t, 0.0, cfg.SurfaceY(0), 1e-12)
	assert.InDelta(t, 7.5, cfg.SurfaceY(7.5), 1e-9)
	assert.Equal(t, 15.0, cfg.SurfaceY(40))
}

func TestConfig_WithCopies(t *testing.T) {
	base := soil.Default()

	changed := base.WithNumSlices(10).WithPorePressure(5).WithPrecision(-1)

	assert.Equal(t, 10, changed.NumSlices)
	assert.Equal(t, 5.0, changed.PorePressure)
	assert.Equal(t, -1, changed.Precision)
	assert.Equal(t, soil.Default(), base, "original must be left untouched")
}

func TestInitialGuess(t *testing.T) {
	c := soil.InitialGuess(soil.Default())

	assert.InDelta(t, 7.5, c.CenterX, 1e-9)
	assert.InDelta(t, 19.995, c.CenterY, 1e-9)
	assert.InDelta(t, math.Hypot(7.5, 19.995), c.Radius, 1e-9)
	assert.NoError(t, c.Validate())
}

func TestCircle_Validate(t *testing.T) {
	assert.ErrorIs(t, soil.Circle{Radius: 0}.Validate(), soil.ErrInvalidConfiguration)
	assert.ErrorIs(t, soil.Circle{Radius: -2}.Validate(), soil.ErrInvalidConfiguration)
	assert.ErrorIs(t, soil.Circle{CenterX: math.Inf(1), Radius: 2}.Validate(), soil.ErrInvalidConfiguration)
	assert.NoError(t, soil.Circle{Radius: 2}.Validate())
}

func TestCircle_VectorRoundTrip(t *testing.T) {
	c := soil.Circle{CenterX: 1.5, CenterY: 20, Radius: 21}
	assert.Equal(t, c, soil.CircleFromVector(c.Vector()))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 28.26, soil.Round(28.262947, 2))
	assert.Equal(t, -1.24, soil.Round(-1.235001, 2))
	assert.Equal(t, 28.262947, soil.Round(28.262947, -1))
}

func TestParse_DefaultsAndGuess(t *testing.T) {
	cfg, circle, err := soil.Parse([]byte(`{"cohesion": 25, "num_slices": 30}`))
	require.NoError(t, err)

	assert.Equal(t, 25.0, cfg.Cohesion)
	assert.Equal(t, 30, cfg.NumSlices)
	assert.Equal(t, soil.DefaultUnitWeight, cfg.UnitWeight)
	assert.Equal(t, soil.InitialGuess(cfg), circle)
}

func TestParse_Circle(t *testing.T) {
	cfg, circle, err := soil.Parse([]byte(`{
		"slope_angle_degrees": 30,
		"circle": {"center_x": 5, "center_y": 22, "radius": 24}
	}`))
	require.NoError(t, err)

	assert.InDelta(t, math.Pi/6, cfg.SlopeAngle, 1e-12)
	assert.Equal(t, soil.Circle{CenterX: 5, CenterY: 22, Radius: 24}, circle)
}

func TestParse_InvalidCircle(t *testing.T) {
	_, _, err := soil.Parse([]byte(`{"circle": {"center_x": 5, "radius": 24}}`))
	require.ErrorIs(t, err, soil.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "center_y")

	_, _, err = soil.Parse([]byte(`{"circle": {"center_x": 5, "center_y": 1, "radius": -1}}`))
	assert.ErrorIs(t, err, soil.ErrInvalidConfiguration)

	_, _, err = soil.Parse([]byte(`{"slope_angle_degrees": 95}`))
	assert.ErrorIs(t, err, soil.ErrInvalidConfiguration)

	_, _, err = soil.Parse([]byte(`{not json`))
	assert.ErrorIs(t, err, soil.ErrInvalidConfiguration)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slope.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"height": 10, "precision": 3}`), 0o644))

	cfg, _, err := soil.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10.0, cfg.Height)
	assert.Equal(t, 3, cfg.Precision)

	_, _, err = soil.LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
