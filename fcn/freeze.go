package fcn

import (
	"github.com/sugarme/fcn/base"
)

// Freeze sets trainability of backbone convolutions and fc6 to !freeze.
// Other params are left as they are.
func (n *Network) Freeze(freeze bool) {
	for _, p := range n.shallowParams() {
		p.SetTrainable(!freeze)
	}
}

func (n *Network) shallowParams() []*base.Param {
	params := n.encoder.Params()
	return append(params, n.Layer("fc6").Params()...)
}

func (n *Network) freezeBackbone() {
	for _, p := range n.encoder.Params() {
		p.SetTrainable(false)
	}
}

// TrainableParams returns params that currently accept gradient updates.
func (n *Network) TrainableParams() []*base.Param {
	var params []*base.Param
	for _, p := range n.Params() {
		if p.Trainable() {
			params = append(params, p)
		}
	}
	return params
}
