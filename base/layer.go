package base

import (
	"fmt"
	"log"

	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"
)

// Kind is the operator type of a Layer.
type Kind int

const (
	Conv Kind = iota
	ReLU
	MaxPool
	Dropout2d
	Deconv
)

func (k Kind) String() string {
	switch k {
	case Conv:
		return "conv"
	case ReLU:
		return "relu"
	case MaxPool:
		return "maxpool"
	case Dropout2d:
		return "dropout2d"
	case Deconv:
		return "deconv"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Layer is a tagged layer descriptor. Hyperparameters are fixed at
// construction; learnable tensors (Conv, Deconv only) are exposed as Params.
type Layer struct {
	Name    string
	Kind    Kind
	Group   Group
	CIn     int64
	COut    int64
	Ksize   int64
	Stride  int64
	Padding int64
	Prob    float64 // dropout probability

	conv   *nn.Conv2D
	deconv *Deconv2D
	params []*Param
}

// NewConv creates a convolution layer named `name` under path p.
func NewConv(p *nn.Path, name string, group Group, cIn, cOut, ksize, padding int64, gain float64) *Layer {
	conv := Conv2d(p.Sub(name), cIn, cOut, ksize, padding, 1, gain)
	device := p.Device()
	return &Layer{
		Name:    name,
		Kind:    Conv,
		Group:   group,
		CIn:     cIn,
		COut:    cOut,
		Ksize:   ksize,
		Stride:  1,
		Padding: padding,
		conv:    conv,
		params: []*Param{
			NewParam(name, "weight", group, conv.Ws, device),
			NewParam(name, "bias", group, conv.Bs, device),
		},
	}
}

// NewDeconv creates a bilinear-initialized transposed convolution layer.
func NewDeconv(p *nn.Path, name string, group Group, cIn, cOut, ksize, stride int64) *Layer {
	deconv := NewDeconv2D(p.Sub(name), cIn, cOut, []int64{ksize, ksize}, stride)
	device := p.Device()
	return &Layer{
		Name:   name,
		Kind:   Deconv,
		Group:  group,
		CIn:    cIn,
		COut:   cOut,
		Ksize:  ksize,
		Stride: stride,
		deconv: deconv,
		params: []*Param{
			NewParam(name, "weight", group, deconv.Ws, device),
			NewParam(name, "bias", group, deconv.Bs, device),
		},
	}
}

// NewReLU creates an activation layer.
func NewReLU(name string, group Group) *Layer {
	return &Layer{Name: name, Kind: ReLU, Group: group}
}

// NewMaxPool creates a 2x2, stride 2 max pooling layer in ceil mode.
func NewMaxPool(name string, group Group) *Layer {
	return &Layer{Name: name, Kind: MaxPool, Group: group, Ksize: 2, Stride: 2}
}

// NewDropout2d creates a channel-wise dropout layer.
func NewDropout2d(name string, group Group, prob float64) *Layer {
	return &Layer{Name: name, Kind: Dropout2d, Group: group, Prob: prob}
}

// Params returns learnable params of the layer. Nil for parameter-free layers.
func (l *Layer) Params() []*Param {
	return l.params
}

// Weight returns the weight param or nil.
func (l *Layer) Weight() *Param {
	if len(l.params) == 0 {
		return nil
	}
	return l.params[0]
}

// Bias returns the bias param or nil.
func (l *Layer) Bias() *Param {
	if len(l.params) < 2 {
		return nil
	}
	return l.params[1]
}

// HasParams reports whether the layer is a convolution or a deconvolution.
func (l *Layer) HasParams() bool {
	return l.Kind == Conv || l.Kind == Deconv
}

// ForwardT implements nn.ModuleT for Layer. It never consumes x.
func (l *Layer) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	switch l.Kind {
	case Conv:
		return l.conv.ForwardT(x, train)
	case Deconv:
		return l.deconv.ForwardT(x, train)
	case ReLU:
		return x.MustRelu(false)
	case MaxPool:
		// ksize=2; stride=2; padding=0; dilation=1; ceil=true
		return x.MustMaxPool2d([]int64{2, 2}, []int64{2, 2}, []int64{0, 0}, []int64{1, 1}, true, false)
	case Dropout2d:
		if !train || l.Prob == 0 {
			return x.MustShallowClone()
		}
		return ts.MustFeatureDropout(x, l.Prob, train)
	default:
		log.Fatalf("Unsupported layer kind: %v\n", l.Kind)
		return nil
	}
}

// String implements fmt.Stringer.
func (l *Layer) String() string {
	switch l.Kind {
	case Conv:
		return fmt.Sprintf("%v: Conv2d(%v, %v, k=%v, p=%v)", l.Name, l.CIn, l.COut, l.Ksize, l.Padding)
	case Deconv:
		return fmt.Sprintf("%v: ConvTranspose2d(%v, %v, k=%v, s=%v)", l.Name, l.CIn, l.COut, l.Ksize, l.Stride)
	case Dropout2d:
		return fmt.Sprintf("%v: Dropout2d(p=%v)", l.Name, l.Prob)
	case MaxPool:
		return fmt.Sprintf("%v: MaxPool2d(2, s=2, ceil)", l.Name)
	default:
		return fmt.Sprintf("%v: %v", l.Name, l.Kind)
	}
}

// ForwardLayers forwards x through layers in order, dropping intermediate
// tensors. x itself is kept.
func ForwardLayers(layers []*Layer, x *ts.Tensor, train bool) *ts.Tensor {
	h := x
	for _, l := range layers {
		next := l.ForwardT(h, train)
		if h != x {
			h.MustDrop()
		}
		h = next
	}
	if h == x {
		return x.MustShallowClone()
	}
	return h
}

// CollectParams gathers params of layers in traversal order.
func CollectParams(layers []*Layer) []*Param {
	var params []*Param
	for _, l := range layers {
		params = append(params, l.Params()...)
	}
	return params
}
