package soil

import "math"

// Reference problem: a 15 m high, 45° cut in a c-phi soil.
const (
	DefaultCohesion      = 20.0 // kPa
	DefaultFrictionAngle = 30.0 // degrees
	DefaultUnitWeight    = 18.5 // kN/m³
	DefaultSlopeAngle    = 45.0 // degrees
	DefaultHeight        = 15.0 // m
	DefaultNumSlices     = 50

	// DefaultPrecision rounds arc and surface points to centimetres.
	DefaultPrecision = 2
)

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Cohesion:      DefaultCohesion,
		FrictionAngle: Radians(DefaultFrictionAngle),
		UnitWeight:    DefaultUnitWeight,
		SlopeAngle:    Radians(DefaultSlopeAngle),
		Height:        DefaultHeight,
		NumSlices:     DefaultNumSlices,
		Precision:     DefaultPrecision,
	}
}

// Radians converts degrees to radians
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Round rounds v to p decimals. A negative p leaves v untouched.
func Round(v float64, p int) float64 {
	if p < 0 {
		return v
	}
	scale := math.Pow(10, float64(p))
	return math.Round(v*scale) / scale
}
