package cmd

import (
	"github.com/alexiusacademia/goslope/internal/soil"
	"github.com/spf13/cobra"
)

// problemFlags are the slope, soil and circle flags shared by fs and search.
type problemFlags struct {
	file string

	cohesion      float64
	frictionAngle float64
	unitWeight    float64
	slopeAngle    float64
	height        float64
	numSlices     int
	porePressure  float64
	precision     int

	centerX float64
	centerY float64
	radius  float64
}

func (p *problemFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&p.file, "file", "f", "", "Path to slope JSON file")

	// Soil and slope
	flags.Float64VarP(&p.cohesion, "cohesion", "c", soil.DefaultCohesion, "Cohesion c (kPa)")
	flags.Float64VarP(&p.frictionAngle, "phi", "p", soil.DefaultFrictionAngle, "Friction angle φ (degrees)")
	flags.Float64VarP(&p.unitWeight, "gamma", "g", soil.DefaultUnitWeight, "Unit weight γ (kN/m³)")
	flags.Float64VarP(&p.slopeAngle, "alpha", "a", soil.DefaultSlopeAngle, "Slope angle α (degrees)")
	flags.Float64Var(&p.height, "height", soil.DefaultHeight, "Slope height h (m)")
	flags.IntVarP(&p.numSlices, "num-slices", "n", soil.DefaultNumSlices, "Number of slices")
	flags.Float64VarP(&p.porePressure, "pore-pressure", "u", 0, "Pore pressure u (kPa)")
	flags.IntVar(&p.precision, "precision", soil.DefaultPrecision, "Decimals kept on arc and surface points (negative: no rounding)")

	// Slip circle (initial guess when omitted)
	flags.Float64Var(&p.centerX, "xc", 0, "Circle center x (m)")
	flags.Float64Var(&p.centerY, "yc", 0, "Circle center y (m)")
	flags.Float64VarP(&p.radius, "radius", "r", 0, "Circle radius R (m)")
}

// resolve merges the JSON file (if any) with the flags set on the command
// line; explicit flags win over the file.
func (p *problemFlags) resolve(cmd *cobra.Command) (soil.Config, soil.Circle, error) {
	var in soil.Input
	if p.file != "" {
		var err error
		if in, err = soil.ReadInput(p.file); err != nil {
			return soil.Config{}, soil.Circle{}, err
		}
	}

	flags := cmd.Flags()
	setFloat := func(name string, v float64, dst **float64) {
		if flags.Changed(name) {
			*dst = &v
		}
	}
	setInt := func(name string, v int, dst **int) {
		if flags.Changed(name) {
			*dst = &v
		}
	}

	setFloat("cohesion", p.cohesion, &in.Cohesion)
	setFloat("phi", p.frictionAngle, &in.FrictionAngleDegrees)
	setFloat("gamma", p.unitWeight, &in.UnitWeight)
	setFloat("alpha", p.slopeAngle, &in.SlopeAngleDegrees)
	setFloat("height", p.height, &in.Height)
	setInt("num-slices", p.numSlices, &in.NumSlices)
	setFloat("pore-pressure", p.porePressure, &in.PorePressure)
	setInt("precision", p.precision, &in.Precision)

	if flags.Changed("xc") || flags.Changed("yc") || flags.Changed("radius") {
		if in.Circle == nil {
			in.Circle = &soil.CircleInput{}
		}
		setFloat("xc", p.centerX, &in.Circle.CenterX)
		setFloat("yc", p.centerY, &in.Circle.CenterY)
		setFloat("radius", p.radius, &in.Circle.Radius)
	}

	return in.Resolve()
}
