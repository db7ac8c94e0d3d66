package metric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ConfusionMatrix accumulates pixel counts: rows are target classes, columns
// are predicted classes. Targets outside [0, nClass) are ignored.
type ConfusionMatrix struct {
	nClass int
	m      *mat.Dense
}

// NewConfusionMatrix creates an empty confusion matrix.
func NewConfusionMatrix(nClass int) *ConfusionMatrix {
	return &ConfusionMatrix{
		nClass: nClass,
		m:      mat.NewDense(nClass, nClass, nil),
	}
}

// Add accumulates a prediction against its target.
func (c *ConfusionMatrix) Add(pred, target []int64) error {
	if len(pred) != len(target) {
		return fmt.Errorf("Prediction and target sizes differ: %v vs %v", len(pred), len(target))
	}
	n := int64(c.nClass)
	for i, t := range target {
		if t < 0 || t >= n {
			continue
		}
		p := pred[i]
		if p < 0 || p >= n {
			return fmt.Errorf("Predicted label %v out of range [0, %v)", p, n)
		}
		c.m.Set(int(t), int(p), c.m.At(int(t), int(p))+1)
	}
	return nil
}

// Matrix returns the underlying counts.
func (c *ConfusionMatrix) Matrix() mat.Matrix {
	return c.m
}

// PixelAccuracy is the ratio of correctly labeled pixels.
func (c *ConfusionMatrix) PixelAccuracy() float64 {
	total := mat.Sum(c.m)
	if total == 0 {
		return 0
	}
	return mat.Trace(c.m) / total
}

// ClassIoU returns intersection over union per class. Classes that appear in
// neither prediction nor target are NaN.
func (c *ConfusionMatrix) ClassIoU() []float64 {
	ious := make([]float64, c.nClass)
	for i := 0; i < c.nClass; i++ {
		tp := c.m.At(i, i)
		targets := floats.Sum(mat.Row(nil, i, c.m))
		preds := floats.Sum(mat.Col(nil, i, c.m))
		union := targets + preds - tp
		if union == 0 {
			ious[i] = math.NaN()
			continue
		}
		ious[i] = tp / union
	}
	return ious
}

// MeanIoU averages ClassIoU over present classes.
func (c *ConfusionMatrix) MeanIoU() float64 {
	var (
		sum float64
		cnt int
	)
	for _, iou := range c.ClassIoU() {
		if math.IsNaN(iou) {
			continue
		}
		sum += iou
		cnt++
	}
	if cnt == 0 {
		return 0
	}
	return sum / float64(cnt)
}

// MeanIoU computes mean intersection over union of a single prediction.
func MeanIoU(pred, target []int64, nClass int) (float64, error) {
	c := NewConfusionMatrix(nClass)
	if err := c.Add(pred, target); err != nil {
		return 0, err
	}
	return c.MeanIoU(), nil
}
