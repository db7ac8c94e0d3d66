package report_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarme/gotch"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/fcn/base"
	"github.com/sugarme/fcn/report"
)

func newParams() []*base.Param {
	w := ts.MustOfSlice([]float32{1, 2, 3, 4, 5, 6}).MustView([]int64{1, 2, 3}, true)
	b := ts.MustOfSlice([]float32{0, 0})
	params := []*base.Param{
		base.NewParam("conv1_1", "weight", base.Backbone, w, gotch.CPU),
		base.NewParam("conv1_1", "bias", base.Backbone, b, gotch.CPU),
	}
	return params
}

func TestFromParams(t *testing.T) {
	params := newParams()
	rows := report.FromParams(params)
	require.Len(t, rows, 2)

	r := rows[0]
	assert.Equal(t, "conv1_1.weight", r.Name)
	assert.Equal(t, "conv1_1", r.Layer)
	assert.Equal(t, "backbone", r.Group)
	assert.Equal(t, []int64{1, 2, 3}, r.Shape)
	assert.Equal(t, int64(6), r.Count)
	assert.True(t, r.Trainable)
	assert.InDelta(t, 3.5, r.Mean, 1e-9)
	assert.InDelta(t, 1.870829, r.Std, 1e-6)

	assert.Equal(t, 0.0, rows[1].Mean)
	assert.Equal(t, 0.0, rows[1].Std)
}

func TestTotals(t *testing.T) {
	rows := report.FromParams(newParams())
	rows[1].Trainable = false
	total, trainable := report.Totals(rows)
	assert.Equal(t, int64(8), total)
	assert.Equal(t, int64(6), trainable)
}

func TestTable(t *testing.T) {
	rows := report.FromParams(newParams())
	df := report.Table(rows)
	require.NoError(t, df.Err)
	nrow, ncol := df.Dims()
	assert.Equal(t, 2, nrow)
	assert.Equal(t, 8, ncol)
	assert.Equal(t, []string{"name", "layer", "group", "shape", "count", "trainable", "mean", "std"}, df.Names())
	assert.Equal(t, "1x2x3", df.Col("shape").Elem(0).String())

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, rows))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,layer,group,shape,count,trainable,mean,std", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "conv1_1.bias,conv1_1,backbone,2,2,true,"))
}

func TestHistogram(t *testing.T) {
	dir, err := ioutil.TempDir("", "report")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "hist.png")
	vals := report.Values(newParams()[0])
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, vals)
	require.NoError(t, report.Histogram(vals, 3, "conv1_1.weight", file))
	assert.FileExists(t, file)
}
