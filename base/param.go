package base

import (
	"fmt"
	"log"

	"github.com/sugarme/gotch"
	ts "github.com/sugarme/gotch/tensor"
)

// Group tags which part of a network a layer belongs to.
type Group int

const (
	Backbone Group = iota
	Head
	Score
	Decoder
)

func (g Group) String() string {
	switch g {
	case Backbone:
		return "backbone"
	case Head:
		return "head"
	case Score:
		return "score"
	case Decoder:
		return "decoder"
	default:
		return fmt.Sprintf("group(%d)", int(g))
	}
}

// Param is a learnable tensor together with its metadata.
type Param struct {
	Name   string // full name, i.e. "conv1_1.weight"
	Layer  string
	Group  Group
	Shape  []int64
	Device gotch.Device // device at construction
	Tensor *ts.Tensor

	trainable bool
}

// NewParam wraps a variable tensor. Variables start trainable.
func NewParam(layer, name string, group Group, x *ts.Tensor, device gotch.Device) *Param {
	return &Param{
		Name:      fmt.Sprintf("%v.%v", layer, name),
		Layer:     layer,
		Group:     group,
		Shape:     x.MustSize(),
		Device:    device,
		Tensor:    x,
		trainable: true,
	}
}

// Trainable reports whether gradient updates should touch this param.
func (p *Param) Trainable() bool {
	return p.trainable
}

// SetTrainable toggles the trainability flag and the tensor's requires-grad.
// The tensor is updated whenever its requires-grad differs, even if the flag
// already matches.
func (p *Param) SetTrainable(trainable bool) {
	if p.trainable == trainable && p.Tensor.MustRequiresGrad() == trainable {
		return
	}
	// NOTE. returned tensor shares storage with the variable.
	_, err := p.Tensor.SetRequiresGrad(trainable, false)
	if err != nil {
		log.Fatalf("Set requires grad for %q failed: %v\n", p.Name, err)
	}
	p.trainable = trainable
}

// Numel returns the number of elements of the param.
func (p *Param) Numel() int64 {
	return Numel(p.Shape)
}

// Numel returns the number of elements of a tensor with the given shape.
func Numel(shape []int64) int64 {
	var n int64 = 1
	for _, d := range shape {
		n *= d
	}
	return n
}
