package fcn

import (
	"fmt"
	"reflect"

	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/fcn/base"
)

// SourceLayer is a layer of a pretrained classification network. Weight and
// Bias are nil for parameter-free layers (activation, pooling, dropout).
type SourceLayer struct {
	Weight *ts.Tensor
	Bias   *ts.Tensor
}

// Parametric reports whether the layer carries weights.
func (l SourceLayer) Parametric() bool {
	return l.Weight != nil
}

// Source is a pretrained VGG-like classification network.
//
// Features are matched positionally against the backbone layers; classifier
// layers 0 and 3 are linear layers reinterpreted as fc6 and fc7 convolutions.
// Linear weights must be given as [out in].
type Source interface {
	Features() []SourceLayer
	Classifier() []SourceLayer
}

// classifier index -> head layer name
var classifierPairs = []struct {
	index int
	layer string
}{
	{0, "fc6"},
	{3, "fc7"},
}

type transplant struct {
	from *ts.Tensor
	to   *base.Param
}

// CopyParamsFrom copies pretrained weights into backbone convolutions and
// fc6, fc7. Every pair is shape-checked before anything is written, so a
// mismatch leaves the network untouched.
func (n *Network) CopyParamsFrom(src Source) error {
	var pairs []transplant

	features := src.Features()
	layers := n.encoder.Layers()
	for i := 0; i < len(features) && i < len(layers); i++ {
		s, d := features[i], layers[i]
		if !s.Parametric() || d.Kind != base.Conv {
			continue
		}
		if s.Bias == nil {
			return fmt.Errorf("Pretrained feature %v has no bias", i)
		}
		if err := sameShape(s.Weight, d.Weight()); err != nil {
			return fmt.Errorf("Pretrained feature %v: %w", i, err)
		}
		if err := sameShape(s.Bias, d.Bias()); err != nil {
			return fmt.Errorf("Pretrained feature %v: %w", i, err)
		}
		pairs = append(pairs, transplant{s.Weight, d.Weight()}, transplant{s.Bias, d.Bias()})
	}

	classifier := src.Classifier()
	for _, cp := range classifierPairs {
		if cp.index >= len(classifier) || !classifier[cp.index].Parametric() {
			return fmt.Errorf("Pretrained classifier has no linear layer at %v", cp.index)
		}
		s := classifier[cp.index]
		d := n.Layer(cp.layer)
		if s.Bias == nil {
			return fmt.Errorf("Pretrained classifier %v has no bias", cp.index)
		}
		if err := sameLinear(s.Weight, d.Weight()); err != nil {
			return fmt.Errorf("Pretrained classifier %v: %w", cp.index, err)
		}
		if err := sameShape(s.Bias, d.Bias()); err != nil {
			return fmt.Errorf("Pretrained classifier %v: %w", cp.index, err)
		}
		pairs = append(pairs, transplant{s.Weight, d.Weight()}, transplant{s.Bias, d.Bias()})
	}

	ts.NoGrad(func() {
		for _, t := range pairs {
			// linear [out in] is viewed as conv [out in/(k*k) k k]
			from := t.from.MustContiguous(false)
			v := from.MustView(t.to.Shape, true)
			t.to.Tensor.Copy_(v)
			v.MustDrop()
		}
	})

	return nil
}

func sameShape(x *ts.Tensor, p *base.Param) error {
	size := x.MustSize()
	if !reflect.DeepEqual(size, p.Shape) {
		return fmt.Errorf("%v shape mismatch: source %v, destination %v", p.Name, size, p.Shape)
	}
	return nil
}

// sameLinear checks a linear weight [out in] can be viewed as a conv weight
// [out in/(k*k) k k].
func sameLinear(x *ts.Tensor, p *base.Param) error {
	size := x.MustSize()
	if len(size) != 2 || size[0] != p.Shape[0] || base.Numel(size) != p.Numel() {
		return fmt.Errorf("%v cannot reshape source %v to %v", p.Name, size, p.Shape)
	}
	return nil
}
