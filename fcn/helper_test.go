package fcn_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/fcn/fcn"
	"github.com/sugarme/fcn/pretrained"
)

const nClass int64 = 21

// testConfig is the VGG16 topology with narrow layers.
func testConfig(variant fcn.Variant) fcn.Config {
	config := fcn.DefaultConfig(variant, nClass)
	config.Backbone.Widths = []int64{4, 4, 8, 8, 16}
	config.HeadWidth = 32
	return config
}

func newNetwork(t *testing.T, variant fcn.Variant) *fcn.Network {
	vs := nn.NewVarStore(gotch.CPU)
	config := testConfig(variant)
	var (
		net *fcn.Network
		err error
	)
	if variant == fcn.FCN32sFrozen {
		net, err = fcn.NewFCN32sFrozen(vs, config, newSource(config))
	} else {
		net, err = fcn.New(vs, variant, config)
	}
	require.NoError(t, err)
	return net
}

func newSource(config fcn.Config) *pretrained.VGG16 {
	vs := nn.NewVarStore(gotch.CPU)
	return pretrained.NewVGG16(vs.Root(), pretrained.ConfigFor(config))
}

func values(x *ts.Tensor) []float64 {
	return x.Float64Values()
}
