package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/alexiusacademia/goslope/internal/diagram"
	"github.com/alexiusacademia/goslope/internal/geometry"
	"github.com/alexiusacademia/goslope/internal/search"
	"github.com/alexiusacademia/goslope/internal/soil"
	"github.com/alexiusacademia/goslope/internal/stability"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/optimize"
)

type searchOptions struct {
	problem problemFlags

	method        string
	maxIterations int
	maxEvals      int
	tolerance     float64
	simplexSize   float64
	starts        int

	// Bounds, used only when set
	minX, maxX float64
	minY, maxY float64
	minR, maxR float64

	verbose     bool
	jsonOutput  bool
	showHistory bool
	showDiagram bool
	exportFile  string
	historyFile string
}

func newSearchCmd() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for the critical slip circle",
		Long: `Find the slip circle with the lowest factor of safety by minimizing
FS over the circle center and radius (xc, yc, R) with the Nelder-Mead
simplex method.

Circles that miss the slope, give a degenerate slip mass or leave the
optional bounds are rejected. The search starts from the given circle,
or from the initial guess when none is given; --starts runs several
starting circles in parallel and keeps the best.

Examples:
  goslope search
  goslope search --method bishop --starts 5
  goslope search -f slope.json --min-r 10 --max-r 40 --history
  goslope search --verbose --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts)
		},
	}

	def := search.DefaultOptions()
	opts.problem.register(cmd)
	cmd.Flags().StringVarP(&opts.method, "method", "m", "fellenius", "Objective method (fellenius, bishop)")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iter", def.MaxIterations, "Maximum iterations per start")
	cmd.Flags().IntVar(&opts.maxEvals, "max-evals", def.MaxEvaluations, "Maximum FS evaluations per start")
	cmd.Flags().Float64Var(&opts.tolerance, "tol", def.Tolerance, "Convergence tolerance on FS")
	cmd.Flags().Float64Var(&opts.simplexSize, "simplex", 0, "Initial simplex size (m), default 5% of h")
	cmd.Flags().IntVar(&opts.starts, "starts", def.Starts, "Number of starting circles")

	// Bounds
	cmd.Flags().Float64Var(&opts.minX, "min-xc", 0, "Lower bound of xc (m)")
	cmd.Flags().Float64Var(&opts.maxX, "max-xc", 0, "Upper bound of xc (m)")
	cmd.Flags().Float64Var(&opts.minY, "min-yc", 0, "Lower bound of yc (m)")
	cmd.Flags().Float64Var(&opts.maxY, "max-yc", 0, "Upper bound of yc (m)")
	cmd.Flags().Float64Var(&opts.minR, "min-r", 0, "Lower bound of R (m)")
	cmd.Flags().Float64Var(&opts.maxR, "max-r", 0, "Upper bound of R (m)")

	// Output
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print optimizer progress")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&opts.showHistory, "history", false, "Show the convergence chart")
	cmd.Flags().BoolVar(&opts.showDiagram, "diagram", false, "Show ASCII diagram of the critical circle")
	cmd.Flags().StringVarP(&opts.exportFile, "output", "o", "", "Export diagram to file (png, svg, pdf)")
	cmd.Flags().StringVar(&opts.historyFile, "history-output", "", "Export convergence plot to file (png, svg, pdf)")

	return cmd
}

// bounds builds search bounds from the bound flags. Each unset side is
// open.
func (o *searchOptions) bounds(cmd *cobra.Command) *search.Bounds {
	flags := cmd.Flags()
	bounded := false
	b := &search.Bounds{
		Min: soil.Circle{CenterX: math.Inf(-1), CenterY: math.Inf(-1), Radius: math.Inf(-1)},
		Max: soil.Circle{CenterX: math.Inf(1), CenterY: math.Inf(1), Radius: math.Inf(1)},
	}
	set := func(name string, v float64, dst *float64) {
		if flags.Changed(name) {
			*dst = v
			bounded = true
		}
	}
	set("min-xc", o.minX, &b.Min.CenterX)
	set("max-xc", o.maxX, &b.Max.CenterX)
	set("min-yc", o.minY, &b.Min.CenterY)
	set("max-yc", o.maxY, &b.Max.CenterY)
	set("min-r", o.minR, &b.Min.Radius)
	set("max-r", o.maxR, &b.Max.Radius)
	if !bounded {
		return nil
	}
	return b
}

func runSearch(cmd *cobra.Command, opts *searchOptions) error {
	cfg, initial, err := opts.problem.resolve(cmd)
	if err != nil {
		return fmt.Errorf("loading slope: %w", err)
	}

	method, err := stability.ParseMethod(opts.method)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	searchOpts := search.Options{
		Method:         method,
		MaxIterations:  opts.maxIterations,
		MaxEvaluations: opts.maxEvals,
		Tolerance:      opts.tolerance,
		SimplexSize:    opts.simplexSize,
		Bounds:         opts.bounds(cmd),
		Starts:         opts.starts,
	}
	if opts.verbose {
		printer := optimize.NewPrinter()
		printer.Writer = out
		searchOpts.Recorder = printer
	}

	res, err := search.Critical(cfg, initial, searchOpts)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "     CRITICAL SLIP CIRCLE SEARCH")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	printProblem(out, cfg)

	// Search settings
	fmt.Fprintln(out, "SEARCH:")
	fmt.Fprintln(out, rule)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Method:\t%s\n", res.Method)
	fmt.Fprintf(w, "  Initial circle:\t%v\n", initial)
	fmt.Fprintf(w, "  Initial FS:\t%.4f\n", res.InitialFS)
	fmt.Fprintf(w, "  Starting circles:\t%d\n", res.Starts)
	fmt.Fprintf(w, "  Iterations:\t%d\n", res.Iterations)
	fmt.Fprintf(w, "  FS evaluations:\t%d\n", res.Evaluations)
	fmt.Fprintf(w, "  Rejected circles:\t%d\n", res.Infeasible)
	fmt.Fprintf(w, "  Status:\t%s\n", res.Status)
	w.Flush()
	fmt.Fprintln(out)

	// Critical circle
	fmt.Fprintln(out, "CRITICAL CIRCLE:")
	fmt.Fprintln(out, rule)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Center (xc, yc):\t(%.3f, %.3f) m\n", res.Circle.CenterX, res.Circle.CenterY)
	fmt.Fprintf(w, "  Radius (R):\t%.3f m\n", res.Circle.Radius)
	fmt.Fprintf(w, "  FS (%s):\t%.4f\n", res.Method, res.FS)
	fmt.Fprintf(w, "  Reduction from initial:\t%.1f%%\n", (1-res.FS/res.InitialFS)*100)
	w.Flush()
	fmt.Fprintln(out)

	lines := []string{
		fmt.Sprintf("FS = %.4f", res.FS),
		stabilityMessage(res.FS),
	}
	if !res.Success {
		lines = append(lines, fmt.Sprintf("Warning: %v", res.Err()))
	}
	fmt.Fprint(out, diagram.DrawSummaryBox("CRITICAL CIRCLE", lines))
	fmt.Fprintln(out)

	if opts.showHistory {
		fmt.Fprintln(out, "CONVERGENCE:")
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, diagram.DrawConvergence(res.History, "best FS per iteration"))
	}

	if opts.historyFile != "" {
		if err := diagram.ExportConvergence(res.History, opts.historyFile); err != nil {
			return fmt.Errorf("exporting convergence plot: %w", err)
		}
		fmt.Fprintf(out, "  Convergence plot exported to: %s\n\n", opts.historyFile)
	}

	if !opts.showDiagram && opts.exportFile == "" {
		return nil
	}

	model, err := geometry.Analyze(cfg, res.Circle)
	if err != nil {
		return fmt.Errorf("analyzing critical circle: %w", err)
	}
	data := diagram.NewSlopeDiagramData(cfg, model, map[string]float64{string(res.Method): res.FS})

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
