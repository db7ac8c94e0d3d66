package encoder

import (
	"fmt"

	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/fcn/base"
)

// VGGConfig describes the convolutional stages of a VGG backbone.
type VGGConfig struct {
	Widths       []int64 `json:"widths"`        // output channels per stage
	Depths       []int   `json:"depths"`        // number of 3x3 conv+relu pairs per stage
	FirstPadding int64   `json:"first_padding"` // zero padding of the very first conv
	Gain         float64 `json:"gain"`          // Xavier-normal gain
}

// DefaultVGG16Config is the 16-layer configuration: 13 convs in 5 stages.
// First conv padding of 100 keeps small images alive after 5 halvings and the
// 7x7 fc6 head.
func DefaultVGG16Config() VGGConfig {
	return VGGConfig{
		Widths:       []int64{64, 128, 256, 512, 512},
		Depths:       []int{2, 2, 3, 3, 3},
		FirstPadding: 100,
		Gain:         base.DefaultGain,
	}
}

// Validate checks stage configuration.
func (c VGGConfig) Validate() error {
	if len(c.Widths) != 5 || len(c.Depths) != 5 {
		return fmt.Errorf("Expected 5 stages. Got %v widths and %v depths", len(c.Widths), len(c.Depths))
	}
	for i := range c.Widths {
		if c.Widths[i] <= 0 || c.Depths[i] <= 0 {
			return fmt.Errorf("Invalid stage %v: width=%v, depth=%v", i+1, c.Widths[i], c.Depths[i])
		}
	}
	if c.FirstPadding < 0 {
		return fmt.Errorf("Invalid first padding: %v", c.FirstPadding)
	}
	return nil
}

// VGG16 is a VGG feature extractor. It taps stage 3, 4 and 5 outputs
// (strides 1/8, 1/16, 1/32).
type VGG16 struct {
	config VGGConfig
	layers []*base.Layer
	pools  []int // layer index of each stage's pooling
}

// NewVGG16 creates VGG16 backbone layers under path p.
//
// Layer order follows torchvision `vgg16.features`: per stage
// (conv, relu) x depth then pool.
func NewVGG16(p *nn.Path, config VGGConfig) *VGG16 {
	var (
		layers []*base.Layer
		pools  []int
		cIn    int64 = 3
	)
	for s, width := range config.Widths {
		stage := s + 1
		for d := 1; d <= config.Depths[s]; d++ {
			var padding int64 = 1 // (ksize-1)/2
			if stage == 1 && d == 1 {
				padding = config.FirstPadding
			}
			name := fmt.Sprintf("conv%v_%v", stage, d)
			layers = append(layers, base.NewConv(p, name, base.Backbone, cIn, width, 3, padding, config.Gain))
			layers = append(layers, base.NewReLU(fmt.Sprintf("relu%v_%v", stage, d), base.Backbone))
			cIn = width
		}
		pools = append(pools, len(layers))
		layers = append(layers, base.NewMaxPool(fmt.Sprintf("pool%v", stage), base.Backbone))
	}

	return &VGG16{
		config: config,
		layers: layers,
		pools:  pools,
	}
}

// Layers implements Encoder interface for VGG16.
func (e *VGG16) Layers() []*base.Layer {
	return e.layers
}

// Convs returns convolution layers in forward order.
func (e *VGG16) Convs() []*base.Layer {
	var convs []*base.Layer
	for _, l := range e.layers {
		if l.Kind == base.Conv {
			convs = append(convs, l)
		}
	}
	return convs
}

// Params returns all backbone params in traversal order.
func (e *VGG16) Params() []*base.Param {
	return base.CollectParams(e.layers)
}

// StageChannels returns the number of channels output by a stage (1-based).
func (e *VGG16) StageChannels(stage int) int64 {
	return e.config.Widths[stage-1]
}

// ForwardT implements nn.ModuleT for VGG16. It returns stage 5 output only.
func (e *VGG16) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	return base.ForwardLayers(e.layers, x, train)
}

// ForwardAll implements Encoder interface for VGG16.
//
// Returns [pool3, pool4, pool5] feature maps.
func (e *VGG16) ForwardAll(x *ts.Tensor, train bool) []*ts.Tensor {
	taps := map[int]bool{
		e.pools[2]: true,
		e.pools[3]: true,
		e.pools[4]: true,
	}
	var features []*ts.Tensor
	h := x
	kept := true // x belongs to caller
	for i, l := range e.layers {
		next := l.ForwardT(h, train)
		if !kept {
			h.MustDrop()
		}
		h = next
		kept = taps[i]
		if kept {
			features = append(features, h)
		}
	}

	return features
}
