package soil

import (
	"encoding/json"
	"fmt"
	"os"
)

// Input is the JSON problem definition. Omitted scalar fields fall back to the
// reference problem; an omitted circle falls back to InitialGuess.
type Input struct {
	Cohesion             *float64     `json:"cohesion,omitempty"`
	FrictionAngleDegrees *float64     `json:"friction_angle_degrees,omitempty"`
	UnitWeight           *float64     `json:"unit_weight,omitempty"`
	SlopeAngleDegrees    *float64     `json:"slope_angle_degrees,omitempty"`
	Height               *float64     `json:"height,omitempty"`
	NumSlices            *int         `json:"num_slices,omitempty"`
	PorePressure         *float64     `json:"pore_pressure,omitempty"`
	Precision            *int         `json:"precision,omitempty"`
	Circle               *CircleInput `json:"circle,omitempty"`
}

// CircleInput keeps track of which circle keys were present.
type CircleInput struct {
	CenterX *float64 `json:"center_x"`
	CenterY *float64 `json:"center_y"`
	Radius  *float64 `json:"radius"`
}

// LoadFromFile loads a slope definition from a JSON file
func LoadFromFile(filepath string) (Config, Circle, error) {
	in, err := ReadInput(filepath)
	if err != nil {
		return Config{}, Circle{}, err
	}

	return in.Resolve()
}

// ReadInput reads a JSON slope definition without resolving it, so callers
// can override fields before calling Resolve.
func ReadInput(filepath string) (Input, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return Input{}, err
	}

	return DecodeInput(data)
}

// DecodeInput decodes a JSON slope definition.
func DecodeInput(data []byte) (Input, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return in, nil
}

// Parse decodes and validates a JSON slope definition.
func Parse(data []byte) (Config, Circle, error) {
	in, err := DecodeInput(data)
	if err != nil {
		return Config{}, Circle{}, err
	}
	return in.Resolve()
}

// Resolve applies defaults and validates the input.
func (in Input) Resolve() (Config, Circle, error) {
	cfg := Default()
	if in.Cohesion != nil {
		cfg.Cohesion = *in.Cohesion
	}
	if in.FrictionAngleDegrees != nil {
		cfg.FrictionAngle = Radians(*in.FrictionAngleDegrees)
	}
	if in.UnitWeight != nil {
		cfg.UnitWeight = *in.UnitWeight
	}
	if in.SlopeAngleDegrees != nil {
		cfg.SlopeAngle = Radians(*in.SlopeAngleDegrees)
	}
	if in.Height != nil {
		cfg.Height = *in.Height
	}
	if in.NumSlices != nil {
		cfg.NumSlices = *in.NumSlices
	}
	if in.PorePressure != nil {
		cfg.PorePressure = *in.PorePressure
	}
	if in.Precision != nil {
		cfg.Precision = *in.Precision
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, Circle{}, err
	}

	if in.Circle == nil {
		return cfg, InitialGuess(cfg), nil
	}

	var missing []string
	if in.Circle.CenterX == nil {
		missing = append(missing, "center_x")
	}
	if in.Circle.CenterY == nil {
		missing = append(missing, "center_y")
	}
	if in.Circle.Radius == nil {
		missing = append(missing, "radius")
	}
	if len(missing) > 0 {
		return Config{}, Circle{}, &ValidationError{Field: "circle", msg: fmt.Sprintf("missing keys %v", missing)}
	}

	circle := Circle{CenterX: *in.Circle.CenterX, CenterY: *in.Circle.CenterY, Radius: *in.Circle.Radius}
	if err := circle.Validate(); err != nil {
		return Config{}, Circle{}, err
	}
	return cfg, circle, nil
}
