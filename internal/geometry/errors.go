package geometry

import "errors"

var (
	// ErrNoIntersection indicates the slip circle does not cross the ground profile.
	ErrNoIntersection = errors.New("geometry: circle does not intersect the slope")
	// ErrDegenerateGeometry indicates the slip mass collapses, e.g. zero driving force.
	ErrDegenerateGeometry = errors.New("geometry: degenerate slip surface")
)
