// Package stability evaluates the factor of safety of a discretized slip
// mass with the Ordinary (Fellenius) and Simplified Bishop methods of slices.
package stability

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/goslope/internal/geometry"
	"github.com/alexiusacademia/goslope/internal/numeric"
	"github.com/alexiusacademia/goslope/internal/soil"
)

// Method names a limit-equilibrium method.
type Method string

const (
	Fellenius Method = "Fellenius"
	Bishop    Method = "Bishop"
)

// ParseMethod accepts method names case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "fellenius", "ordinary":
		return Fellenius, nil
	case "bishop":
		return Bishop, nil
	}
	return "", fmt.Errorf("%w: unknown method %q", soil.ErrInvalidConfiguration, s)
}

// BishopInitialGuess is the starting factor of safety for the Bishop iteration.
const BishopInitialGuess = 2.0

// drivingForce is Σ γ·A·sin(α).
func drivingForce(cfg soil.Config, m geometry.Metrics) (float64, error) {
	var driving float64
	for i := range m.Areas {
		driving += cfg.UnitWeight * m.Areas[i] * math.Sin(m.Alphas[i])
	}
	if driving == 0 || math.IsNaN(driving) || math.IsInf(driving, 0) {
		return 0, fmt.Errorf("%w: driving force is %g", geometry.ErrDegenerateGeometry, driving)
	}
	return driving, nil
}

// FelleniusFS computes the Ordinary Method of Slices factor of safety:
//
//	FS = Σ [c·L/n + (γ·A·cos α − u·L)·tan φ] / Σ γ·A·sin α
//
// L is the slope length, so c·L/n stands in for every slice's base length
// instead of the textbook dx/cos α.
func FelleniusFS(cfg soil.Config, m geometry.Metrics) (float64, error) {
	driving, err := drivingForce(cfg, m)
	if err != nil {
		return 0, err
	}

	l := cfg.SlopeLength()
	n := float64(cfg.NumSlices)
	tanPhi := math.Tan(cfg.FrictionAngle)

	var resisting float64
	for i := range m.Areas {
		resisting += cfg.Cohesion*l/n + (cfg.UnitWeight*m.Areas[i]*math.Cos(m.Alphas[i])-cfg.PorePressure*l)*tanPhi
	}

	return resisting / driving, nil
}

// BishopFS solves the Simplified Bishop equation
//
//	FS = [Σ γ·A·sin α]⁻¹ · Σ (c·dx + γ·A·tan φ) / (cos α + sin α·tan φ / FS)
//
// with Newton's method starting at BishopInitialGuess.
func BishopFS(cfg soil.Config, m geometry.Metrics) (float64, error) {
	driving, err := drivingForce(cfg, m)
	if err != nil {
		return 0, err
	}

	tanPhi := math.Tan(cfg.FrictionAngle)
	g := func(fs float64) float64 {
		var sum float64
		for i := range m.Areas {
			num := cfg.Cohesion*m.Widths[i] + cfg.UnitWeight*m.Areas[i]*tanPhi
			den := math.Cos(m.Alphas[i]) + math.Sin(m.Alphas[i])*tanPhi/fs
			sum += num / den
		}
		return fs - sum/driving
	}

	root, err := numeric.Newton(g, BishopInitialGuess, nil)
	if err != nil {
		return 0, fmt.Errorf("bishop: %w", err)
	}
	return root.X, nil
}

// Factors maps each evaluated method to its factor of safety.
type Factors map[Method]float64

// Evaluate builds the slip mass for circle and computes the factor of safety
// with each requested method. Fellenius is used when no method is given.
func Evaluate(cfg soil.Config, circle soil.Circle, methods ...Method) (Factors, error) {
	model, err := geometry.Analyze(cfg, circle)
	if err != nil {
		return nil, err
	}
	return EvaluateModel(cfg, model, methods...)
}

// EvaluateModel is Evaluate for an already analyzed slip mass.
func EvaluateModel(cfg soil.Config, model *geometry.Model, methods ...Method) (Factors, error) {
	if len(methods) == 0 {
		methods = []Method{Fellenius}
	}

	factors := make(Factors, len(methods))
	for _, method := range methods {
		var (
			fs  float64
			err error
		)
		switch method {
		case Fellenius:
			fs, err = FelleniusFS(cfg, model.Metrics)
		case Bishop:
			fs, err = BishopFS(cfg, model.Metrics)
		default:
			err = fmt.Errorf("%w: unknown method %q", soil.ErrInvalidConfiguration, method)
		}
		if err != nil {
			return nil, err
		}
		factors[method] = fs
	}
	return factors, nil
}

// Objective returns a function computing the factor of safety of one
// circle with method.
func Objective(method Method) func(soil.Config, soil.Circle) (float64, error) {
	return func(cfg soil.Config, circle soil.Circle) (float64, error) {
		factors, err := Evaluate(cfg, circle, method)
		if err != nil {
			return 0, err
		}
		return factors[method], nil
	}
}
