package geometry

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/goslope/internal/soil"
	"gonum.org/v1/gonum/spatial/r2"
)

// SubtendedAngle returns the angle at the center between p1 and p2 using the
// law of cosines. The result is in [0, π].
func SubtendedAngle(p1, p2, center r2.Vec) float64 {
	a := r2.Norm(r2.Sub(p1, p2))
	b := r2.Norm(r2.Sub(p1, center))
	c := r2.Norm(r2.Sub(p2, center))

	cos := (b*b + c*c - a*a) / (2 * b * c)
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

// Discretize splits the arc between the intersection points into
// cfg.NumSlices equal angles and returns the n+1 points on it, starting at the
// right point and sweeping clockwise to the left one. Coordinates are rounded
// to cfg.Precision decimals.
func Discretize(cfg soil.Config, circle soil.Circle, pair IntersectionPair) ([]r2.Vec, error) {
	center := r2.Vec{X: circle.CenterX, Y: circle.CenterY}
	if r2.Norm(r2.Sub(pair.Left, center)) == 0 || r2.Norm(r2.Sub(pair.Right, center)) == 0 {
		return nil, fmt.Errorf("%w: intersection point at circle center", ErrDegenerateGeometry)
	}

	sweep := SubtendedAngle(pair.Left, pair.Right, center)

	// The clockwise arc from the right point always runs under the chord. With
	// the center below the chord that is the major arc.
	chord := r2.Sub(pair.Right, pair.Left)
	if r2.Cross(chord, r2.Sub(center, pair.Left)) < 0 {
		sweep = 2*math.Pi - sweep
	}

	n := cfg.NumSlices
	step := sweep / float64(n)
	bearing := math.Atan2(pair.Right.Y-center.Y, pair.Right.X-center.X)

	points := make([]r2.Vec, n+1)
	for k := range points {
		angle := bearing - float64(k)*step
		p := r2.Add(center, r2.Scale(circle.Radius, r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}))
		points[k] = r2.Vec{
			X: soil.Round(p.X, cfg.Precision),
			Y: soil.Round(p.Y, cfg.Precision),
		}
	}

	return points, nil
}

// Slice is one vertical strip of the sliding mass.
//
// Polygon lists [arc_i, surface_i, surface_i+1, arc_i+1]. With arc points
// running right to left the winding is counter-clockwise, so Area and
// BaseWidth are positive for a regular slice.
type Slice struct {
	Polygon   [4]r2.Vec
	BaseAngle float64 // alpha (rad), positive when the base rises to the right
	BaseWidth float64 // dx
	Area      float64
}

// BuildSlices pairs each arc point with the ground point above it and forms
// len(arc)-1 quadrilaterals.
func BuildSlices(cfg soil.Config, arc []r2.Vec) []Slice {
	if len(arc) < 2 {
		return nil
	}

	surface := make([]r2.Vec, len(arc))
	for i, p := range arc {
		surface[i] = r2.Vec{X: p.X, Y: soil.Round(cfg.SurfaceY(p.X), cfg.Precision)}
	}

	slices := make([]Slice, len(arc)-1)
	for i := range slices {
		s := Slice{Polygon: [4]r2.Vec{arc[i], surface[i], surface[i+1], arc[i+1]}}
		s.BaseAngle, s.BaseWidth = baseAngle(s.Polygon[0], s.Polygon[3])
		s.Area = Shoelace(s.Polygon[:])
		slices[i] = s
	}
	return slices
}

// baseAngle returns atan(dy/dx) between the two base vertices and dx. A
// vertical base takes the limit ±π/2.
func baseAngle(right, left r2.Vec) (alpha, dx float64) {
	dy := right.Y - left.Y
	dx = right.X - left.X
	if dx == 0 {
		switch {
		case dy > 0:
			return math.Pi / 2, 0
		case dy < 0:
			return -math.Pi / 2, 0
		default:
			return 0, 0
		}
	}
	return math.Atan(dy / dx), dx
}

// Shoelace returns the signed area of a polygon: positive for
// counter-clockwise vertices, negative for clockwise ones.
func Shoelace(vertices []r2.Vec) float64 {
	n := len(vertices)
	if n < 3 {
		return 0
	}

	var signedArea float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		signedArea += r2.Cross(vertices[i], vertices[j])
	}
	return signedArea / 2
}
