// Package numeric provides the scalar root finder used by implicit
// factor-of-safety equations.
package numeric

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// ErrNonConvergence is returned when an iterative solver exhausts its budget
// or leaves the domain of finite numbers.
var ErrNonConvergence = errors.New("numeric: failed to converge")

// NewtonSettings controls Newton's method.
type NewtonSettings struct {
	// Tol is the absolute step size below which the iteration stops.
	Tol float64
	// MaxIterations bounds the number of Newton steps.
	MaxIterations int
	// Step is the finite difference step for the derivative. Zero lets fd
	// choose its default.
	Step float64
}

// DefaultNewtonSettings mirrors the usual secant/Newton defaults of
// scientific libraries: 1.48e-8 tolerance and 50 iterations.
func DefaultNewtonSettings() NewtonSettings {
	return NewtonSettings{
		Tol:           1.48e-8,
		MaxIterations: 50,
	}
}

// Root is the outcome of a successful root search.
type Root struct {
	X          float64
	Iterations int
}

// Newton finds a root of f starting from x0. The derivative is evaluated with
// a central finite difference.
func Newton(f func(float64) float64, x0 float64, settings *NewtonSettings) (Root, error) {
	s := DefaultNewtonSettings()
	if settings != nil {
		s = *settings
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = DefaultNewtonSettings().MaxIterations
	}

	deriv := &fd.Settings{Formula: fd.Central, Step: s.Step}

	x := x0
	for i := 1; i <= s.MaxIterations; i++ {
		fx := f(x)
		if math.IsNaN(fx) || math.IsInf(fx, 0) {
			return Root{X: x, Iterations: i}, fmt.Errorf("%w: f(%g) = %g", ErrNonConvergence, x, fx)
		}
		if fx == 0 {
			return Root{X: x, Iterations: i}, nil
		}

		dfx := fd.Derivative(f, x, deriv)
		if dfx == 0 || math.IsNaN(dfx) || math.IsInf(dfx, 0) {
			return Root{X: x, Iterations: i}, fmt.Errorf("%w: derivative %g at x = %g", ErrNonConvergence, dfx, x)
		}

		next := x - fx/dfx
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return Root{X: x, Iterations: i}, fmt.Errorf("%w: diverged from x = %g", ErrNonConvergence, x)
		}
		if math.Abs(next-x) <= s.Tol {
			return Root{X: next, Iterations: i}, nil
		}
		x = next
	}

	return Root{X: x, Iterations: s.MaxIterations}, fmt.Errorf("%w: no root after %d iterations", ErrNonConvergence, s.MaxIterations)
}
