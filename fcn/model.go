package fcn

import (
	"fmt"

	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"

	"github.com/sugarme/fcn/base"
	"github.com/sugarme/fcn/encoder"
)

// Network is a fully convolutional network on a VGG16 backbone.
// Ref: https://arxiv.org/abs/1411.4038
type Network struct {
	variant Variant
	config  Config
	vs      *nn.VarStore

	encoder *encoder.VGG16
	head    []*base.Layer   // fc6 ... drop7
	score   *base.ScoreHead // stride-32 score
	score16 *base.ScoreHead // FCN8s only
	score8  *base.ScoreHead // FCN8s only
	decoder []*base.Layer   // upsampling deconvs in forward order
}

// New creates a network of the given variant. FCN32sFrozen needs a pretrained
// source and must be created with NewFCN32sFrozen.
func New(vs *nn.VarStore, variant Variant, config Config) (*Network, error) {
	switch variant {
	case FCN32s:
		return NewFCN32s(vs, config)
	case FCN8s:
		return NewFCN8s(vs, config)
	case FCN32sFrozen:
		return nil, fmt.Errorf("Variant %v needs a pretrained source. Use NewFCN32sFrozen", variant)
	default:
		return nil, fmt.Errorf("Unsupported variant: %v", variant)
	}
}

// NewFCN32s creates the single-stream 32x network.
func NewFCN32s(vs *nn.VarStore, config Config) (*Network, error) {
	return build(vs, FCN32s, config)
}

// NewFCN8s creates the skip-fused 8x network.
func NewFCN8s(vs *nn.VarStore, config Config) (*Network, error) {
	return build(vs, FCN8s, config)
}

// NewFCN32sFrozen creates a 32x network whose backbone and first two head
// convolutions are copied from src. Backbone params are frozen.
func NewFCN32sFrozen(vs *nn.VarStore, config Config, src Source) (*Network, error) {
	net, err := build(vs, FCN32sFrozen, config)
	if err != nil {
		return nil, err
	}
	if err := net.CopyParamsFrom(src); err != nil {
		return nil, err
	}
	net.freezeBackbone()

	return net, nil
}

func build(vs *nn.VarStore, variant Variant, config Config) (*Network, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := vs.Root()
	enc := encoder.NewVGG16(p, config.Backbone)
	cDeep := enc.StageChannels(5)
	gain := config.Gain
	nClass := config.NClass

	var head []*base.Layer
	if variant == FCN32sFrozen {
		head = append(head, base.NewDropout2d("drop5", base.Head, config.DropoutP))
	}
	head = append(head,
		base.NewConv(p, "fc6", base.Head, cDeep, config.HeadWidth, config.HeadKsize, 0, gain),
		base.NewReLU("relu6", base.Head),
		base.NewDropout2d("drop6", base.Head, config.DropoutP),
		base.NewConv(p, "fc7", base.Head, config.HeadWidth, config.HeadWidth, 1, 0, gain),
		base.NewReLU("relu7", base.Head),
		base.NewDropout2d("drop7", base.Head, config.DropoutP),
	)

	net := &Network{
		variant: variant,
		config:  config,
		vs:      vs,
		encoder: enc,
		head:    head,
	}

	switch variant {
	case FCN32s, FCN32sFrozen:
		net.score = base.NewScoreHead(p, "score_fr", config.HeadWidth, nClass, 1, gain)
		net.decoder = []*base.Layer{
			base.NewDeconv(p, "upscore", base.Decoder, nClass, nClass, 64, 32),
		}
	case FCN8s:
		net.score8 = base.NewScoreHead(p, "score_fr8", enc.StageChannels(3), nClass, config.Scale8, gain)
		net.score16 = base.NewScoreHead(p, "score_fr16", enc.StageChannels(4), nClass, config.Scale16, gain)
		net.score = base.NewScoreHead(p, "score_fr32", config.HeadWidth, nClass, 1, gain)
		net.decoder = []*base.Layer{
			base.NewDeconv(p, "upscore32", base.Decoder, nClass, nClass, 4, 2),
			base.NewDeconv(p, "upscore16", base.Decoder, nClass, nClass, 4, 2),
			base.NewDeconv(p, "upscore8", base.Decoder, nClass, nClass, 16, 8),
		}
	default:
		return nil, fmt.Errorf("Unsupported variant: %v", variant)
	}

	return net, nil
}

// Variant returns the network variant.
func (n *Network) Variant() Variant {
	return n.variant
}

// Config returns the network configuration.
func (n *Network) Config() Config {
	return n.config
}

// Encoder returns the backbone.
func (n *Network) Encoder() *encoder.VGG16 {
	return n.encoder
}

// Layers returns all layers: backbone, head, score heads then decoder.
func (n *Network) Layers() []*base.Layer {
	var layers []*base.Layer
	layers = append(layers, n.encoder.Layers()...)
	layers = append(layers, n.head...)
	if n.variant == FCN8s {
		layers = append(layers, n.score8.Layers()...)
		layers = append(layers, n.score16.Layers()...)
	}
	layers = append(layers, n.score.Layers()...)
	layers = append(layers, n.decoder...)

	return layers
}

// Params returns all learnable params in traversal order.
func (n *Network) Params() []*base.Param {
	return base.CollectParams(n.Layers())
}

// Layer looks up a layer by name. Returns nil if not found.
func (n *Network) Layer(name string) *base.Layer {
	for _, l := range n.Layers() {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Device returns where params currently reside, read from the first param's
// tensor.
func (n *Network) Device() gotch.Device {
	return n.Params()[0].Tensor.MustDevice()
}

// IsCuda reports whether params are allocated on a CUDA device.
func (n *Network) IsCuda() bool {
	return n.Device() != gotch.CPU
}
