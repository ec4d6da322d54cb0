package geometry

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/goslope/internal/soil"
	"gonum.org/v1/gonum/spatial/r2"
)

// IntersectionPair holds the entry and exit points of the slip circle,
// ordered left to right.
type IntersectionPair struct {
	Left  r2.Vec
	Right r2.Vec
}

// Span is the horizontal distance between the two points.
func (p IntersectionPair) Span() float64 {
	return p.Right.X - p.Left.X
}

// Intersect finds where the circle crosses the ground profile.
//
// The circle is first intersected with the line carrying the slope face. Roots
// falling left of the toe are moved onto the lower flat (y = 0) and roots beyond
// the crest onto the upper flat (y = h).
func Intersect(cfg soil.Config, circle soil.Circle) (IntersectionPair, error) {
	t := math.Tan(cfg.SlopeAngle)
	h := cfg.Height
	l := cfg.SlopeLength()
	r, xc, yc := circle.Radius, circle.CenterX, circle.CenterY

	// (1 + t²)x² - 2(xc + t·yc)x + xc² + yc² - R² = 0
	a := 1 + t*t
	b := -2*xc - 2*t*yc
	c := xc*xc + yc*yc - r*r

	delta := b*b - 4*a*c
	if !(delta > 0) {
		return IntersectionPair{}, fmt.Errorf("%w: discriminant %.6g <= 0 for circle %v", ErrNoIntersection, delta, circle)
	}

	onProfile := func(x float64) (r2.Vec, error) {
		switch {
		case x < 0:
			rad := r*r - yc*yc
			if rad < 0 {
				return r2.Vec{}, fmt.Errorf("%w: circle %v does not reach the toe flat", ErrNoIntersection, circle)
			}
			return r2.Vec{X: xc - math.Sqrt(rad), Y: 0}, nil
		case x > l:
			rad := r*r - (h-yc)*(h-yc)
			if rad < 0 {
				return r2.Vec{}, fmt.Errorf("%w: circle %v does not reach the crest flat", ErrNoIntersection, circle)
			}
			return r2.Vec{X: xc + math.Sqrt(rad), Y: h}, nil
		default:
			return r2.Vec{X: x, Y: t * x}, nil
		}
	}

	sq := math.Sqrt(delta)
	p1, err := onProfile((-b + sq) / (2 * a))
	if err != nil {
		return IntersectionPair{}, err
	}
	p2, err := onProfile((-b - sq) / (2 * a))
	if err != nil {
		return IntersectionPair{}, err
	}

	if p2.X < p1.X {
		p1, p2 = p2, p1
	}
	return IntersectionPair{Left: p1, Right: p2}, nil
}
