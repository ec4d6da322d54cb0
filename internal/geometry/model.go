package geometry

import (
	"github.com/alexiusacademia/goslope/internal/soil"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// Metrics holds per-slice attributes as parallel sequences.
type Metrics struct {
	Alphas []float64 // base inclination (rad)
	Widths []float64 // base width dx
	Areas  []float64 // slice area
}

// Measure collects the metrics of every slice.
func Measure(slices []Slice) Metrics {
	m := Metrics{
		Alphas: make([]float64, len(slices)),
		Widths: make([]float64, len(slices)),
		Areas:  make([]float64, len(slices)),
	}
	for i, s := range slices {
		m.Alphas[i] = s.BaseAngle
		m.Widths[i] = s.BaseWidth
		m.Areas[i] = s.Area
	}
	return m
}

// Len returns the number of slices.
func (m Metrics) Len() int {
	return len(m.Areas)
}

// Span is the total width of all slices.
func (m Metrics) Span() float64 {
	return floats.Sum(m.Widths)
}

// Area is the total area of the sliding mass.
func (m Metrics) Area() float64 {
	return floats.Sum(m.Areas)
}

// Model is the discretized sliding mass for one slip circle.
type Model struct {
	Circle  soil.Circle
	Points  IntersectionPair
	Arc     []r2.Vec
	Slices  []Slice
	Metrics Metrics
}

// Analyze runs the geometric pipeline for one circle: intersection,
// discretization of the arc, slice polygons and slice metrics. Every call
// builds a new Model from its arguments.
func Analyze(cfg soil.Config, circle soil.Circle) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := circle.Validate(); err != nil {
		return nil, err
	}

	pair, err := Intersect(cfg, circle)
	if err != nil {
		return nil, err
	}

	arc, err := Discretize(cfg, circle, pair)
	if err != nil {
		return nil, err
	}

	slices := BuildSlices(cfg, arc)

	return &Model{
		Circle:  circle,
		Points:  pair,
		Arc:     arc,
		Slices:  slices,
		Metrics: Measure(slices),
	}, nil
}
