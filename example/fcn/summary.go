package main

import (
	"fmt"
	"os"

	"github.com/sugarme/gotch/nn"

	"github.com/sugarme/fcn/base"
	"github.com/sugarme/fcn/report"
)

// runSummary writes a per-param CSV report and weight histograms of the first
// convolution and of the last upsampling layer.
func runSummary() error {
	vs := nn.NewVarStore(Device)
	net, err := loadNetwork(vs)
	if err != nil {
		return err
	}

	outDir := absPath(OutputPath)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	params := net.Params()
	rows := report.FromParams(params)
	csvFile := fmt.Sprintf("%v/%v-params.csv", outDir, net.Variant())
	f, err := os.Create(csvFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := report.WriteCSV(f, rows); err != nil {
		return err
	}

	total, trainable := report.Totals(rows)
	fmt.Printf("params: %v - trainable: %v - saved: %v\n", total, trainable, csvFile)

	layers := net.Layers()
	first := net.Encoder().Convs()[0]
	last := layers[len(layers)-1]
	for _, l := range []*base.Layer{first, last} {
		w := l.Weight()
		vals := report.Values(w)
		pngFile := fmt.Sprintf("%v/%v-%v.png", outDir, net.Variant(), l.Name)
		title := fmt.Sprintf("%v %v", w.Name, w.Shape)
		if err := report.Histogram(vals, Bins, title, pngFile); err != nil {
			return err
		}
		fmt.Printf("Saved %v\n", pngFile)
	}

	return nil
}
