package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/alexiusacademia/goslope/internal/diagram"
	"github.com/alexiusacademia/goslope/internal/geometry"
	"github.com/alexiusacademia/goslope/internal/soil"
	"github.com/alexiusacademia/goslope/internal/stability"
	"github.com/spf13/cobra"
)

const rule = "───────────────────────────────────────────────────────────────"

type fsOptions struct {
	problem     problemFlags
	methods     []string
	showSlices  bool
	showDiagram bool
	jsonOutput  bool
	exportFile  string
}

func newFSCmd() *cobra.Command {
	opts := &fsOptions{}

	cmd := &cobra.Command{
		Use:   "fs",
		Short: "Factor of safety of one slip circle",
		Long: `Calculate the factor of safety of a circular slip surface through a
simple slope with the Ordinary (Fellenius) and Simplified Bishop methods
of slices.

The slope rises from the toe at (0, 0) to the crest at (L, h) with flat
ground on both sides. When no circle is given the initial guess
xc = L/2, yc = 1.333h, R = |center| is used.

Examples:
  goslope fs
  goslope fs --xc 2 --yc 22 -r 23 --slices
  goslope fs -f slope.json --method bishop --json
  goslope fs -c 10 -p 25 --diagram -o slope.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFS(cmd, opts)
		},
	}

	opts.problem.register(cmd)
	cmd.Flags().StringSliceVarP(&opts.methods, "method", "m", []string{"fellenius", "bishop"}, "Methods to evaluate (fellenius, bishop)")
	cmd.Flags().BoolVar(&opts.showSlices, "slices", false, "Show the slice table")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the factors of safety as JSON")

	// Diagram options
	cmd.Flags().BoolVar(&opts.showDiagram, "diagram", false, "Show ASCII slope diagram")
	cmd.Flags().StringVarP(&opts.exportFile, "output", "o", "", "Export diagram to file (png, svg, pdf)")

	return cmd
}

func runFS(cmd *cobra.Command, opts *fsOptions) error {
	cfg, circle, err := opts.problem.resolve(cmd)
	if err != nil {
		return fmt.Errorf("loading slope: %w", err)
	}

	methods := make([]stability.Method, 0, len(opts.methods))
	for _, name := range opts.methods {
		m, err := stability.ParseMethod(name)
		if err != nil {
			return err
		}
		methods = append(methods, m)
	}

	model, err := geometry.Analyze(cfg, circle)
	if err != nil {
		return fmt.Errorf("analyzing circle %v: %w", circle, err)
	}
	factors, err := stability.EvaluateModel(cfg, model, methods...)
	if err != nil {
		return fmt.Errorf("evaluating circle %v: %w", circle, err)
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(factors)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "     SLOPE STABILITY - METHOD OF SLICES")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	printProblem(out, cfg)

	// Slip circle
	fmt.Fprintln(out, "SLIP CIRCLE:")
	fmt.Fprintln(out, rule)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Center (xc, yc):\t(%.3f, %.3f) m\n", circle.CenterX, circle.CenterY)
	fmt.Fprintf(w, "  Radius (R):\t%.3f m\n", circle.Radius)
	fmt.Fprintf(w, "  Toe-side intersection:\t(%.3f, %.3f) m\n", model.Points.Left.X, model.Points.Left.Y)
	fmt.Fprintf(w, "  Crest-side intersection:\t(%.3f, %.3f) m\n", model.Points.Right.X, model.Points.Right.Y)
	fmt.Fprintf(w, "  Horizontal span (Σdx):\t%.3f m\n", model.Metrics.Span())
	fmt.Fprintf(w, "  Sliding mass area (ΣA):\t%.3f m²\n", model.Metrics.Area())
	w.Flush()
	fmt.Fprintln(out)

	if opts.showSlices {
		printSlices(out, cfg, model)
	}

	// Factors of safety
	fmt.Fprintln(out, "FACTOR OF SAFETY:")
	fmt.Fprintln(out, rule)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	minFS := math.Inf(1)
	for _, m := range methods {
		fmt.Fprintf(w, "  %s:\t%.4f\n", m, factors[m])
		minFS = math.Min(minFS, factors[m])
	}
	fell, okF := factors[stability.Fellenius]
	bishop, okB := factors[stability.Bishop]
	if okF && okB {
		fmt.Fprintf(w, "  Bishop / Fellenius:\t%+.1f%%\n", (bishop/fell-1)*100)
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprint(out, diagram.DrawSummaryBox("FACTOR OF SAFETY", []string{
		fmt.Sprintf("Lowest FS = %.4f", minFS),
		stabilityMessage(minFS),
	}))
	fmt.Fprintln(out)

	data := diagram.NewSlopeDiagramData(cfg, model, factorNames(factors))

	// Show diagram if requested
	if opts.showDiagram {
		fmt.Fprintln(out, diagram.DrawASCIISlope(data))
	}

	// Export diagram if requested
	if opts.exportFile != "" {
		if err := diagram.ExportSlopeDiagram(data, opts.exportFile); err != nil {
			return fmt.Errorf("exporting diagram: %w", err)
		}
		fmt.Fprintf(out, "  Diagram exported to: %s\n\n", opts.exportFile)
	}

	return nil
}

func printProblem(out io.Writer, cfg soil.Config) {
	fmt.Fprintln(out, "SOIL AND SLOPE:")
	fmt.Fprintln(out, rule)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Cohesion (c):\t%.2f kPa\n", cfg.Cohesion)
	fmt.Fprintf(w, "  Friction angle (φ):\t%.2f°\n", soil.Degrees(cfg.FrictionAngle))
	fmt.Fprintf(w, "  Unit weight (γ):\t%.2f kN/m³\n", cfg.UnitWeight)
	if cfg.PorePressure != 0 {
		fmt.Fprintf(w, "  Pore pressure (u):\t%.2f kPa\n", cfg.PorePressure)
	}
	fmt.Fprintf(w, "  Slope angle (α):\t%.2f°\n", soil.Degrees(cfg.SlopeAngle))
	fmt.Fprintf(w, "  Height (h):\t%.2f m\n", cfg.Height)
	fmt.Fprintf(w, "  Slope length (L):\t%.3f m\n", cfg.SlopeLength())
	fmt.Fprintf(w, "  Slices (n):\t%d\n", cfg.NumSlices)
	fmt.Fprintf(w, "  Precision:\t%d decimals\n", cfg.Precision)
	w.Flush()
	fmt.Fprintln(out)
}

func printSlices(out io.Writer, cfg soil.Config, model *geometry.Model) {
	fmt.Fprintln(out, "SLICES:")
	fmt.Fprintln(out, rule)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "  Slice\tα (°)\tdx (m)\tArea (m²)\tW (kN)\t\n")
	fmt.Fprintf(w, "  ─────\t─────\t──────\t─────────\t──────\t\n")
	for i, s := range model.Slices {
		fmt.Fprintf(w, "  %d\t%.2f\t%.3f\t%.3f\t%.2f\t\n",
			i+1, soil.Degrees(s.BaseAngle), s.BaseWidth, s.Area, cfg.UnitWeight*s.Area)
	}
	w.Flush()
	fmt.Fprintln(out)
}

func stabilityMessage(fs float64) string {
	switch {
	case fs < 1:
		return "UNSTABLE: FS < 1.0"
	case fs < 1.5:
		return "MARGINAL: 1.0 ≤ FS < 1.5"
	default:
		return "STABLE: FS ≥ 1.5"
	}
}

func factorNames(factors stability.Factors) map[string]float64 {
	names := make(map[string]float64, len(factors))
	for m, fs := range factors {
		names[string(m)] = fs
	}
	return names
}
