package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Histogram saves a histogram of values to filename. Image format follows
// the file extension.
func Histogram(values []float64, bins int, title, filename string) error {
	p, err := plot.New()
	if err != nil {
		return err
	}

	v := make(plotter.Values, len(values))
	copy(v, values)

	h, err := plotter.NewHist(v, bins)
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.X.Label.Text = "value"
	p.Y.Label.Text = "count"
	p.Add(h)

	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}
