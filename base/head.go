package base

import (
	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"
)

// ScoreHead projects a feature map to per-class scores: an optional
// pre-scaling, a 1x1 convolution to nClass channels and a ReLU.
type ScoreHead struct {
	Scale float64 // 1 disables pre-scaling
	Conv  *Layer
	Relu  *Layer
}

// NewScoreHead creates new ScoreHead named `name`.
func NewScoreHead(p *nn.Path, name string, cIn, nClass int64, scale, gain float64) *ScoreHead {
	return &ScoreHead{
		Scale: scale,
		Conv:  NewConv(p, name, Score, cIn, nClass, 1, 0, gain),
		Relu:  NewReLU("relu_"+name, Score),
	}
}

// ForwardT implements nn.ModuleT for ScoreHead.
func (h *ScoreHead) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	in := x
	if h.Scale != 1 {
		in = x.MustMul1(ts.FloatScalar(h.Scale), false)
	}
	score := h.Conv.ForwardT(in, train)
	if in != x {
		in.MustDrop()
	}
	res := h.Relu.ForwardT(score, train)
	score.MustDrop()

	return res
}

// Layers returns the head layers in forward order.
func (h *ScoreHead) Layers() []*Layer {
	return []*Layer{h.Conv, h.Relu}
}
