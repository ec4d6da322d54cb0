package diagram

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/alexiusacademia/goslope/internal/geometry"
	"github.com/alexiusacademia/goslope/internal/soil"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"
)

// Point represents a 2D coordinate in metres
type Point struct {
	X float64
	Y float64
}

// SlopeDiagramData holds data for drawing a slope with its slip circle
type SlopeDiagramData struct {
	// Slope geometry
	Height      float64 // h (m)
	SlopeLength float64 // horizontal length of the slope face (m)

	// Slip circle
	Center Point
	Radius float64
	Left   Point // toe-side intersection
	Right  Point // crest-side intersection

	// Arc points from right to left, and the slice polygons built on them
	Arc    []Point
	Slices [][4]Point

	// Factors of safety by method name, shown in the legend
	Factors map[string]float64
}

// NewSlopeDiagramData collects what the diagrams need from an analyzed slip mass.
func NewSlopeDiagramData(cfg soil.Config, model *geometry.Model, factors map[string]float64) SlopeDiagramData {
	data := SlopeDiagramData{
		Height:      cfg.Height,
		SlopeLength: cfg.SlopeLength(),
		Center:      Point{X: model.Circle.CenterX, Y: model.Circle.CenterY},
		Radius:      model.Circle.Radius,
		Left:        Point{X: model.Points.Left.X, Y: model.Points.Left.Y},
		Right:       Point{X: model.Points.Right.X, Y: model.Points.Right.Y},
		Arc:         make([]Point, len(model.Arc)),
		Slices:      make([][4]Point, len(model.Slices)),
		Factors:     factors,
	}
	for i, p := range model.Arc {
		data.Arc[i] = Point{X: p.X, Y: p.Y}
	}
	for i, s := range model.Slices {
		for j, p := range s.Polygon {
			data.Slices[i][j] = Point{X: p.X, Y: p.Y}
		}
	}
	return data
}

// surfaceY is the ground elevation at x
func (d SlopeDiagramData) surfaceY(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > d.SlopeLength:
		return d.Height
	default:
		return d.Height * x / d.SlopeLength
	}
}

// extent returns the drawing window: the slope, the slip surface and the
// circle center, padded by 10% of the width.
func (d SlopeDiagramData) extent() (minX, maxX, minY, maxY float64) {
	minX, maxX = math.Min(0, d.Left.X), math.Max(d.SlopeLength, d.Right.X)
	minY, maxY = 0, math.Max(d.Height, d.Center.Y)
	for _, p := range d.Arc {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
	}
	pad := 0.1 * (maxX - minX)
	return minX - pad, maxX + pad, minY, maxY
}

// DrawASCIISlope creates an ASCII representation of the slope, the slip
// surface and the slice boundaries
func DrawASCIISlope(data SlopeDiagramData) string {
	const (
		cols = 64
		rows = 22
	)

	minX, maxX, minY, maxY := data.extent()
	spanX, spanY := maxX-minX, maxY-minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	col := func(x float64) int {
		return clamp(int(math.Round((x-minX)/spanX*(cols-1))), 0, cols-1)
	}
	row := func(y float64) int {
		return clamp(int(math.Round((maxY-y)/spanY*(rows-1))), 0, rows-1)
	}

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}

	// Slice boundaries first so the surface and arc draw over them
	for i := 1; i < len(data.Arc)-1; i++ {
		p := data.Arc[i]
		c := col(p.X)
		for r := row(data.surfaceY(p.X)) + 1; r < row(p.Y); r++ {
			grid[r][c] = '┊'
		}
	}

	// Ground surface
	for c := 0; c < cols; c++ {
		x := minX + float64(c)/(cols-1)*spanX
		ch := '─'
		if x >= 0 && x <= data.SlopeLength {
			ch = '╱'
		}
		grid[row(data.surfaceY(x))][c] = ch
	}

	// Slip surface
	for _, p := range data.Arc {
		grid[row(p.Y)][col(p.X)] = '•'
	}
	grid[row(data.Center.Y)][col(data.Center.X)] = '+'

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  SLOPE AND SLIP CIRCLE\n")
	sb.WriteString("  ─────────────────────\n\n")
	for _, line := range grid {
		sb.WriteString("  │")
		sb.WriteString(strings.TrimRight(string(line), " "))
		sb.WriteString("\n")
	}
	sb.WriteString("  └" + strings.Repeat("─", cols) + "\n")
	sb.WriteString(fmt.Sprintf("   x = %.2f m%*s x = %.2f m\n", minX, cols-26, "", maxX))

	// Legend
	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	sb.WriteString("  ─╱─ = Ground surface\n")
	sb.WriteString("  ••• = Slip surface\n")
	sb.WriteString("   ┊  = Slice boundary\n")
	sb.WriteString(fmt.Sprintf("   +  = Circle center (%.2f, %.2f), R = %.2f m\n", data.Center.X, data.Center.Y, data.Radius))
	for _, name := range []string{"Fellenius", "Bishop"} {
		if fs, ok := data.Factors[name]; ok {
			sb.WriteString(fmt.Sprintf("  FS (%s) = %.4f\n", name, fs))
		}
	}

	return sb.String()
}

// DrawConvergence plots the best factor of safety per iteration of a search
func DrawConvergence(history []float64, caption string) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) == 1 || floats.Max(history) == floats.Min(history) {
		return fmt.Sprintf("  FS constant at %.4f over %d iteration(s)\n", history[0], len(history))
	}

	width := len(history)
	if width > 60 {
		width = 60
	}

	return asciigraph.Plot(history,
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Precision(3),
		asciigraph.Offset(4),
		asciigraph.Caption(caption),
	) + "\n"
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
