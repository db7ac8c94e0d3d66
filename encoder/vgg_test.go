package encoder_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/fcn/base"
	"github.com/sugarme/fcn/encoder"
)

func slimConfig() encoder.VGGConfig {
	config := encoder.DefaultVGG16Config()
	config.Widths = []int64{4, 4, 8, 8, 16}
	return config
}

func TestVGG16Layout(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	enc := encoder.NewVGG16(vs.Root(), slimConfig())

	layers := enc.Layers()
	// same positions as torchvision vgg16.features
	require.Len(t, layers, 31)
	convIdx := []int{0, 2, 5, 7, 10, 12, 14, 17, 19, 21, 24, 26, 28}
	poolIdx := []int{4, 9, 16, 23, 30}
	for _, i := range convIdx {
		assert.Equal(t, base.Conv, layers[i].Kind, "layer %v", i)
	}
	for s, i := range poolIdx {
		assert.Equal(t, base.MaxPool, layers[i].Kind, "layer %v", i)
		assert.Equal(t, fmt.Sprintf("pool%v", s+1), layers[i].Name)
	}

	convs := enc.Convs()
	require.Len(t, convs, 13)
	assert.Equal(t, "conv1_1", convs[0].Name)
	assert.Equal(t, int64(100), convs[0].Padding)
	assert.Equal(t, "conv5_3", convs[12].Name)
	for _, c := range convs[1:] {
		assert.Equal(t, int64(1), c.Padding, c.Name)
		assert.Equal(t, int64(3), c.Ksize, c.Name)
		assert.Equal(t, base.Backbone, c.Group, c.Name)
	}
	assert.Len(t, enc.Params(), 26)
	assert.Equal(t, int64(16), enc.StageChannels(5))
}

func TestVGG16ForwardAll(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	enc := encoder.NewVGG16(vs.Root(), slimConfig())

	x := ts.MustRand([]int64{2, 3, 64, 64}, gotch.Float, gotch.CPU)
	defer x.MustDrop()

	// 64 + 2*100 - 2 = 262 -> 131 -> 66 -> 33 -> 17 -> 9
	features := enc.ForwardAll(x, false)
	require.Len(t, features, 3)
	assert.Equal(t, []int64{2, 8, 33, 33}, features[0].MustSize())
	assert.Equal(t, []int64{2, 8, 17, 17}, features[1].MustSize())
	assert.Equal(t, []int64{2, 16, 9, 9}, features[2].MustSize())
	for _, f := range features {
		f.MustDrop()
	}

	out := enc.ForwardT(x, false)
	defer out.MustDrop()
	assert.Equal(t, []int64{2, 16, 9, 9}, out.MustSize())
}

func TestVGGConfigValidate(t *testing.T) {
	assert.NoError(t, encoder.DefaultVGG16Config().Validate())

	config := encoder.DefaultVGG16Config()
	config.Depths = []int{2, 2, 3}
	assert.Error(t, config.Validate())

	config = encoder.DefaultVGG16Config()
	config.Widths[2] = 0
	assert.Error(t, config.Validate())
}
