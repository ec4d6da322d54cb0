package soil

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned for soil, slope or circle parameters
// that cannot describe a slope stability problem.
var ErrInvalidConfiguration = errors.New("soil: invalid configuration")

// Config holds the slope geometry and the Mohr-Coulomb parameters of a single
// homogeneous soil. Angles are stored in radians.
//
// The slope toe sits at the origin. The ground is flat at y = 0 to the left of
// the toe, rises at SlopeAngle up to the crest at (SlopeLength, Height) and is
// flat at y = Height beyond it.
type Config struct {
	// Soil strength and weight
	Cohesion      float64 // c (kPa)
	FrictionAngle float64 // phi (rad)
	UnitWeight    float64 // gamma (kN/m³)

	// Slope geometry
	SlopeAngle float64 // alpha (rad)
	Height     float64 // h (m)

	// Discretization
	NumSlices int // n
	Precision int // decimals kept on arc and surface points, negative disables rounding

	// Pore pressure u (kPa), a single scalar for the whole slip surface
	PorePressure float64
}

// New creates a configuration from angles given in degrees, with zero pore
// pressure and the default rounding precision.
func New(cohesion, frictionDeg, unitWeight, slopeDeg, height float64, numSlices int) (Config, error) {
	cfg := Config{
		Cohesion:      cohesion,
		FrictionAngle: Radians(frictionDeg),
		UnitWeight:    unitWeight,
		SlopeAngle:    Radians(slopeDeg),
		Height:        height,
		NumSlices:     numSlices,
		Precision:     DefaultPrecision,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlopeLength is the horizontal distance from toe to crest.
func (c Config) SlopeLength() float64 {
	return c.Height / math.Tan(c.SlopeAngle)
}

// SurfaceY returns the ground elevation at x.
func (c Config) SurfaceY(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > c.SlopeLength():
		return c.Height
	default:
		return math.Tan(c.SlopeAngle) * x
	}
}

// WithNumSlices returns a copy of c using n slices.
func (c Config) WithNumSlices(n int) Config {
	c.NumSlices = n
	return c
}

// WithPorePressure returns a copy of c with pore pressure u.
func (c Config) WithPorePressure(u float64) Config {
	c.PorePressure = u
	return c
}

// WithPrecision returns a copy of c rounding points to p decimals.
func (c Config) WithPrecision(p int) Config {
	c.Precision = p
	return c
}

// Validate checks if the configuration describes a valid slope
func (c Config) Validate() error {
	if !(c.SlopeAngle > 0 && c.SlopeAngle < math.Pi/2) {
		return &ValidationError{Field: "slope_angle", msg: fmt.Sprintf("must be between 0 and 90 degrees, got %.4f", Degrees(c.SlopeAngle))}
	}
	if !(c.FrictionAngle >= 0 && c.FrictionAngle < math.Pi/2) {
		return &ValidationError{Field: "friction_angle", msg: fmt.Sprintf("must be in [0, 90) degrees, got %.4f", Degrees(c.FrictionAngle))}
	}
	if !(c.Height > 0) || math.IsInf(c.Height, 0) {
		return &ValidationError{Field: "height", msg: fmt.Sprintf("must be positive, got %g", c.Height)}
	}
	if !(c.UnitWeight > 0) || math.IsInf(c.UnitWeight, 0) {
		return &ValidationError{Field: "unit_weight", msg: fmt.Sprintf("must be positive, got %g", c.UnitWeight)}
	}
	if !(c.Cohesion >= 0) || math.IsInf(c.Cohesion, 0) {
		return &ValidationError{Field: "cohesion", msg: fmt.Sprintf("must not be negative, got %g", c.Cohesion)}
	}
	if c.NumSlices < 1 {
		return &ValidationError{Field: "num_slices", msg: fmt.Sprintf("must be at least 1, got %d", c.NumSlices)}
	}
	if math.IsNaN(c.PorePressure) || math.IsInf(c.PorePressure, 0) {
		return &ValidationError{Field: "pore_pressure", msg: "must be finite"}
	}
	return nil
}

// Circle is a candidate circular slip surface.
type Circle struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Radius  float64 `json:"radius"`
}

// Validate checks the circle is usable as a slip surface
func (c Circle) Validate() error {
	for _, v := range []float64{c.CenterX, c.CenterY, c.Radius} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ValidationError{Field: "circle", msg: "center and radius must be finite"}
		}
	}
	if c.Radius <= 0 {
		return &ValidationError{Field: "circle.radius", msg: fmt.Sprintf("must be positive, got %g", c.Radius)}
	}
	return nil
}

// Vector returns the optimizer parameters (xc, yc, R).
func (c Circle) Vector() []float64 {
	return []float64{c.CenterX, c.CenterY, c.Radius}
}

// CircleFromVector is the inverse of Circle.Vector.
func CircleFromVector(x []float64) Circle {
	return Circle{CenterX: x[0], CenterY: x[1], Radius: x[2]}
}

func (c Circle) String() string {
	return fmt.Sprintf("(xc=%.3f, yc=%.3f, R=%.3f)", c.CenterX, c.CenterY, c.Radius)
}

// InitialGuess places the center above the middle of the slope face at
// 1.333 times the slope height, with the circle passing through the toe.
func InitialGuess(cfg Config) Circle {
	xc := 0.5 * cfg.SlopeLength()
	yc := 1.333 * cfg.Height
	return Circle{
		CenterX: xc,
		CenterY: yc,
		Radius:  math.Hypot(xc, yc),
	}
}

// ValidationError represents an invalid configuration field
type ValidationError struct {
	Field string
	msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.msg)
}

// Unwrap lets errors.Is match ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}
