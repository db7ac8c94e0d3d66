package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/sugarme/gotch"
	"gonum.org/v1/gonum/stat"

	"github.com/sugarme/fcn/base"
)

// Row summarizes one param.
type Row struct {
	Name      string
	Layer     string
	Group     string
	Shape     []int64
	Count     int64
	Trainable bool
	Mean      float64
	Std       float64
}

// Values copies param values to a float64 slice.
func Values(p *base.Param) []float64 {
	cpu := p.Tensor.MustTo(gotch.CPU, false)
	vals := cpu.Float64Values()
	cpu.MustDrop()
	return vals
}

// NewRow builds a summary row from param metadata and values.
func NewRow(p *base.Param, values []float64) Row {
	mean, std := stat.MeanStdDev(values, nil)
	return Row{
		Name:      p.Name,
		Layer:     p.Layer,
		Group:     p.Group.String(),
		Shape:     p.Shape,
		Count:     p.Numel(),
		Trainable: p.Trainable(),
		Mean:      mean,
		Std:       std,
	}
}

// FromParams summarizes params in order.
func FromParams(params []*base.Param) []Row {
	rows := make([]Row, 0, len(params))
	for _, p := range params {
		rows = append(rows, NewRow(p, Values(p)))
	}
	return rows
}

func shapeString(shape []int64) string {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = fmt.Sprint(d)
	}
	return strings.Join(dims, "x")
}

// Table converts rows to a dataframe.
func Table(rows []Row) dataframe.DataFrame {
	var (
		names, layers, groups, shapes []string
		counts                        []int
		trainable                     []bool
		means, stds                   []float64
	)
	for _, r := range rows {
		names = append(names, r.Name)
		layers = append(layers, r.Layer)
		groups = append(groups, r.Group)
		shapes = append(shapes, shapeString(r.Shape))
		counts = append(counts, int(r.Count))
		trainable = append(trainable, r.Trainable)
		means = append(means, r.Mean)
		stds = append(stds, r.Std)
	}

	return dataframe.New(
		series.New(names, series.String, "name"),
		series.New(layers, series.String, "layer"),
		series.New(groups, series.String, "group"),
		series.New(shapes, series.String, "shape"),
		series.New(counts, series.Int, "count"),
		series.New(trainable, series.Bool, "trainable"),
		series.New(means, series.Float, "mean"),
		series.New(stds, series.Float, "std"),
	)
}

// WriteCSV writes rows as CSV with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	df := Table(rows)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}

// Totals returns total and trainable element counts.
func Totals(rows []Row) (total, trainable int64) {
	for _, r := range rows {
		total += r.Count
		if r.Trainable {
			trainable += r.Count
		}
	}
	return total, trainable
}
