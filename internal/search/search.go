// Package search looks for the critical slip circle, the one with the
// lowest factor of safety, by minimizing the factor of safety over the
// circle parameters (xc, yc, R).
package search

import (
	"fmt"
	"math"
	"sync"

	"github.com/alexiusacademia/goslope/internal/numeric"
	"github.com/alexiusacademia/goslope/internal/soil"
	"github.com/alexiusacademia/goslope/internal/stability"
	"gonum.org/v1/gonum/optimize"
)

// Bounds limits the circle parameters. Candidates outside are infeasible.
type Bounds struct {
	Min soil.Circle
	Max soil.Circle
}

// Contains reports whether every parameter of c lies within the bounds.
func (b Bounds) Contains(c soil.Circle) bool {
	lo, hi, x := b.Min.Vector(), b.Max.Vector(), c.Vector()
	for i := range x {
		if x[i] < lo[i] || x[i] > hi[i] {
			return false
		}
	}
	return true
}

// Options configures the search.
type Options struct {
	// Method is the objective. Bishop is only used when asked for.
	Method stability.Method

	// Budgets of the minimizer, per start.
	MaxIterations  int
	MaxEvaluations int

	// Tolerance on the improvement of FS used to declare convergence.
	Tolerance float64

	// SimplexSize is the initial Nelder-Mead simplex edge in metres. Zero
	// uses 5% of the slope height.
	SimplexSize float64

	// Bounds is optional.
	Bounds *Bounds

	// Starts is the number of starting circles; more than one runs a
	// multi-start search in parallel.
	Starts int

	// Recorder receives the progress of the first start, e.g. optimize.NewPrinter().
	Recorder optimize.Recorder
}

// DefaultOptions returns a single-start Fellenius search.
func DefaultOptions() Options {
	return Options{
		Method:         stability.Fellenius,
		MaxIterations:  500,
		MaxEvaluations: 5000,
		Tolerance:      1e-8,
		Starts:         1,
	}
}

// Result is the outcome of a search. FS and Circle are always the best
// point found, even when the minimizer stopped early.
type Result struct {
	Circle      soil.Circle      `json:"circle"`
	FS          float64          `json:"fs"`
	InitialFS   float64          `json:"initial_fs"`
	Method      stability.Method `json:"method"`
	Success     bool             `json:"success"`
	Status      string           `json:"status"`
	Iterations  int              `json:"iterations"`
	Evaluations int              `json:"evaluations"`
	Infeasible  int              `json:"infeasible"`
	Starts      int              `json:"starts"`
	History     []float64        `json:"history"`

	err error
}

// Err reports why the search did not converge, or nil on success.
func (r *Result) Err() error {
	if r.Success {
		return nil
	}
	if r.err != nil {
		return fmt.Errorf("%w: %s: %v", numeric.ErrNonConvergence, r.Status, r.err)
	}
	return fmt.Errorf("%w: stopped with status %s", numeric.ErrNonConvergence, r.Status)
}

// InitialGuess is the default starting circle.
func InitialGuess(cfg soil.Config) soil.Circle {
	return soil.InitialGuess(cfg)
}

// Critical minimizes the factor of safety starting from initial.
//
// Every candidate circle is evaluated from scratch. Candidates that miss the
// slope, produce a degenerate slip mass, fail to converge (Bishop) or fall
// outside the bounds are infeasible and score +Inf. The initial circle itself
// must be feasible.
func Critical(cfg soil.Config, initial soil.Circle, opts Options) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults(cfg)
	if opts.Bounds != nil && !opts.Bounds.Contains(initial) {
		return nil, fmt.Errorf("%w: initial circle %v outside bounds", soil.ErrInvalidConfiguration, initial)
	}

	objective := stability.Objective(opts.Method)
	initialFS, err := objective(cfg, initial)
	if err != nil {
		return nil, fmt.Errorf("initial circle %v: %w", initial, err)
	}
	if !feasible(initialFS) {
		return nil, fmt.Errorf("initial circle %v: factor of safety %g", initial, initialFS)
	}

	starts := startingCircles(cfg, initial, opts, objective)
	runs := make([]run, len(starts))

	var wg sync.WaitGroup
	for i, start := range starts {
		wg.Add(1)
		go func(i int, start soil.Circle) {
			defer wg.Done()
			var rec optimize.Recorder
			if i == 0 {
				rec = opts.Recorder
			}
			runs[i] = minimize(cfg, start, objective, opts, rec)
		}(i, start)
	}
	wg.Wait()

	res := &Result{
		FS:        math.Inf(1),
		InitialFS: initialFS,
		Method:    opts.Method,
		Starts:    len(starts),
	}
	best := -1
	for i, r := range runs {
		res.Iterations += r.iterations
		res.Evaluations += r.evaluations
		res.Infeasible += r.infeasible
		if r.fs < res.FS {
			best = i
			res.FS = r.fs
		}
	}

	if best < 0 {
		// Nothing beat +Inf: keep the feasible initial circle.
		res.Circle = initial
		res.FS = initialFS
		res.Status = optimize.Failure.String()
		res.err = runs[0].err
		return res, nil
	}

	b := runs[best]
	res.Circle = b.circle
	res.Status = b.status.String()
	res.Success = b.err == nil && !b.status.Early()
	res.History = b.history
	res.err = b.err
	return res, nil
}

func (o Options) withDefaults(cfg soil.Config) Options {
	def := DefaultOptions()
	if o.Method == "" {
		o.Method = def.Method
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = def.MaxIterations
	}
	if o.MaxEvaluations <= 0 {
		o.MaxEvaluations = def.MaxEvaluations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = def.Tolerance
	}
	if o.SimplexSize <= 0 {
		o.SimplexSize = 0.05 * cfg.Height
	}
	if o.Starts <= 0 {
		o.Starts = def.Starts
	}
	return o
}

func feasible(fs float64) bool {
	return fs > 0 && !math.IsInf(fs, 0)
}

// startingCircles returns initial followed by Starts-1 feasible shifts of
// its center. The radius follows vertical shifts so the lowest point of the
// circle keeps its elevation.
func startingCircles(cfg soil.Config, initial soil.Circle, opts Options, objective func(soil.Config, soil.Circle) (float64, error)) []soil.Circle {
	circles := []soil.Circle{initial}
	if opts.Starts == 1 {
		return circles
	}

	directions := [][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {-1, -1}, {1, -1}, {-1, 1}}
	step := 0.25 * cfg.Height

	// Two rings of eight shifts each.
	for k := 0; k < 2*len(directions) && len(circles) < opts.Starts; k++ {
		d := directions[k%len(directions)]
		scale := step * float64(1+k/len(directions))
		c := soil.Circle{
			CenterX: initial.CenterX + d[0]*scale,
			CenterY: initial.CenterY + d[1]*scale,
			Radius:  initial.Radius + d[1]*scale,
		}
		if opts.Bounds != nil && !opts.Bounds.Contains(c) {
			continue
		}
		if c.Validate() != nil {
			continue
		}
		if fs, err := objective(cfg, c); err != nil || !feasible(fs) {
			continue
		}
		circles = append(circles, c)
	}
	return circles
}

type run struct {
	circle      soil.Circle
	fs          float64
	status      optimize.Status
	iterations  int
	evaluations int
	infeasible  int
	history     []float64
	err         error
}

func minimize(cfg soil.Config, start soil.Circle, objective func(soil.Config, soil.Circle) (float64, error), opts Options, rec optimize.Recorder) run {
	var infeasible int
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			circle := soil.CircleFromVector(x)
			if opts.Bounds != nil && !opts.Bounds.Contains(circle) {
				infeasible++
				return math.Inf(1)
			}
			fs, err := objective(cfg, circle)
			if err != nil || !feasible(fs) {
				infeasible++
				return math.Inf(1)
			}
			return fs
		},
	}

	history := &historyRecorder{next: rec}
	settings := &optimize.Settings{
		MajorIterations: opts.MaxIterations,
		FuncEvaluations: opts.MaxEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   opts.Tolerance,
			Relative:   opts.Tolerance,
			Iterations: 20,
		},
		Recorder: history,
	}
	method := &optimize.NelderMead{SimplexSize: opts.SimplexSize}

	result, err := optimize.Minimize(problem, start.Vector(), settings, method)
	if result == nil {
		return run{circle: start, fs: math.Inf(1), status: optimize.Failure, infeasible: infeasible, err: err}
	}

	return run{
		circle:      soil.CircleFromVector(result.X),
		fs:          result.F,
		status:      result.Status,
		iterations:  result.MajorIterations,
		evaluations: result.FuncEvaluations,
		infeasible:  infeasible,
		history:     history.values,
		err:         err,
	}
}

// historyRecorder keeps the best factor of safety after each major
// iteration and forwards everything to next.
type historyRecorder struct {
	next   optimize.Recorder
	values []float64
}

func (h *historyRecorder) Init() error {
	h.values = h.values[:0]
	if h.next != nil {
		return h.next.Init()
	}
	return nil
}

func (h *historyRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	// The InitIteration location carries F = +Inf until the first evaluation.
	if loc != nil && op == optimize.MajorIteration && !math.IsInf(loc.F, 0) {
		f := loc.F
		if n := len(h.values); n > 0 && h.values[n-1] < f {
			f = h.values[n-1]
		}
		h.values = append(h.values, f)
	}
	if h.next != nil {
		return h.next.Record(loc, op, stats)
	}
	return nil
}
