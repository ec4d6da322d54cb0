package diagram

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ExportSlopeDiagram exports the slope, slip circle and slices to an image file.
// The format follows the extension (png, svg, pdf); anything else gets ".png".
func ExportSlopeDiagram(data SlopeDiagramData, filename string) error {
	p := plot.New()
	p.Title.Text = "Slope Stability - Method of Slices"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	minX, maxX, _, _ := data.extent()

	// Slices
	for _, s := range data.Slices {
		pts := make(plotter.XYs, len(s))
		for i, v := range s {
			pts[i] = plotter.XY{X: v.X, Y: v.Y}
		}
		poly, err := plotter.NewPolygon(pts)
		if err != nil {
			return err
		}
		poly.Color = color.RGBA{R: 210, G: 180, B: 140, A: 150}
		poly.LineStyle.Color = color.RGBA{R: 139, G: 69, B: 19, A: 255}
		poly.LineStyle.Width = vg.Points(0.5)
		p.Add(poly)
	}

	// Ground surface
	ground, err := plotter.NewLine(plotter.XYs{
		{X: minX, Y: 0},
		{X: 0, Y: 0},
		{X: data.SlopeLength, Y: data.Height},
		{X: maxX, Y: data.Height},
	})
	if err != nil {
		return err
	}
	ground.LineStyle.Width = vg.Points(2)
	ground.LineStyle.Color = color.Black
	p.Add(ground)

	// Slip surface
	if len(data.Arc) >= 2 {
		arcPts := make(plotter.XYs, len(data.Arc))
		for i, v := range data.Arc {
			arcPts[i] = plotter.XY{X: v.X, Y: v.Y}
		}
		arc, err := plotter.NewLine(arcPts)
		if err != nil {
			return err
		}
		arc.LineStyle.Width = vg.Points(1.5)
		arc.LineStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
		p.Add(arc)
	}

	// Radii to both intersection points
	radii, err := plotter.NewLine(plotter.XYs{
		{X: data.Left.X, Y: data.Left.Y},
		{X: data.Center.X, Y: data.Center.Y},
		{X: data.Right.X, Y: data.Right.Y},
	})
	if err != nil {
		return err
	}
	radii.LineStyle.Width = vg.Points(1)
	radii.LineStyle.Color = color.Gray{Y: 128}
	radii.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(radii)

	// Circle center
	center, err := plotter.NewScatter(plotter.XYs{{X: data.Center.X, Y: data.Center.Y}})
	if err != nil {
		return err
	}
	center.GlyphStyle.Color = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	center.GlyphStyle.Radius = vg.Points(4)
	center.GlyphStyle.Shape = draw.CrossGlyph{}
	p.Add(center)

	// Add annotations
	labels := []struct {
		x, y float64
		text string
	}{
		{data.Center.X, data.Center.Y + 0.5, fmt.Sprintf("O (%.2f, %.2f) R=%.2fm", data.Center.X, data.Center.Y, data.Radius)},
	}
	y := data.Height + 0.05*math.Max(data.Height, 1)
	for _, name := range []string{"Fellenius", "Bishop"} {
		if fs, ok := data.Factors[name]; ok {
			labels = append(labels, struct {
				x, y float64
				text string
			}{minX, y, fmt.Sprintf("FS %s = %.3f", name, fs)})
			y += 0.06 * math.Max(data.Height, 1)
		}
	}

	for _, lbl := range labels {
		l, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: lbl.x, Y: lbl.y}},
			Labels: []string{lbl.text},
		})
		if err != nil {
			return err
		}
		p.Add(l)
	}

	p.Add(plotter.NewGrid())

	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// ExportConvergence exports the search history (best FS per iteration) to an image file
func ExportConvergence(history []float64, filename string) error {
	if len(history) == 0 {
		return fmt.Errorf("diagram: empty search history")
	}

	p := plot.New()
	p.Title.Text = "Critical Circle Search"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Factor of safety"

	pts := make(plotter.XYs, len(history))
	for i, fs := range history {
		pts[i] = plotter.XY{X: float64(i + 1), Y: fs}
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	points.GlyphStyle.Radius = vg.Points(2)
	p.Add(line, points, plotter.NewGrid())

	return save(p, 6*vg.Inch, 4*vg.Inch, filename)
}

// save writes p in the format given by the extension of filename,
// creating the directory if needed
func save(p *plot.Plot, width, height vg.Length, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
