package pretrained

import (
	"fmt"

	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"

	"github.com/sugarme/fcn/encoder"
	"github.com/sugarme/fcn/fcn"
)

// Config describes a VGG classification network.
type Config struct {
	Backbone  encoder.VGGConfig
	HeadWidth int64 // hidden units of classifier linear layers
	HeadKsize int64 // spatial size of the last feature map fed to classifier
	Classes   int64
}

// DefaultConfig is torchvision VGG16 for ImageNet.
func DefaultConfig() Config {
	return Config{
		Backbone:  encoder.DefaultVGG16Config(),
		HeadWidth: 4096,
		HeadKsize: 7,
		Classes:   1000,
	}
}

// ConfigFor returns a classification config whose features and first two
// classifier layers are shape compatible with a segmentation config.
func ConfigFor(c fcn.Config) Config {
	return Config{
		Backbone:  c.Backbone,
		HeadWidth: c.HeadWidth,
		HeadKsize: c.HeadKsize,
		Classes:   1000,
	}
}

// VGG16 is a VGG classification network used as a weight source. Variable
// names follow torchvision, i.e. `features.0.weight`, `classifier.3.bias`,
// so that converted `vgg16.ot` files load directly.
type VGG16 struct {
	features   []fcn.SourceLayer
	classifier []fcn.SourceLayer
}

// Features implements fcn.Source for VGG16.
func (m *VGG16) Features() []fcn.SourceLayer {
	return m.features
}

// Classifier implements fcn.Source for VGG16.
func (m *VGG16) Classifier() []fcn.SourceLayer {
	return m.classifier
}

func vggConv2d(p *nn.Path, cIn, cOut int64) *nn.Conv2D {
	config := nn.DefaultConv2DConfig()
	config.Stride = []int64{1, 1}
	config.Padding = []int64{1, 1}
	return nn.NewConv2D(p, cIn, cOut, 3, config)
}

// NewVGG16 creates VGG16 variables under path p.
func NewVGG16(p *nn.Path, config Config) *VGG16 {
	f := p.Sub("features")
	c := p.Sub("classifier")

	var (
		features []fcn.SourceLayer
		cIn      int64 = 3
	)
	for s, width := range config.Backbone.Widths {
		for d := 0; d < config.Backbone.Depths[s]; d++ {
			conv := vggConv2d(f.Sub(fmt.Sprint(len(features))), cIn, width)
			features = append(features, fcn.SourceLayer{Weight: conv.Ws, Bias: conv.Bs})
			features = append(features, fcn.SourceLayer{}) // relu
			cIn = width
		}
		features = append(features, fcn.SourceLayer{}) // maxpool
	}

	flat := cIn * config.HeadKsize * config.HeadKsize
	fc6 := nn.NewLinear(c.Sub("0"), flat, config.HeadWidth, nn.DefaultLinearConfig())
	fc7 := nn.NewLinear(c.Sub("3"), config.HeadWidth, config.HeadWidth, nn.DefaultLinearConfig())
	fc8 := nn.NewLinear(c.Sub("6"), config.HeadWidth, config.Classes, nn.DefaultLinearConfig())
	// Linear keeps its weight transposed ([in out]). Sources expose the
	// stored [out in] layout, which shares memory with the var store.
	classifier := []fcn.SourceLayer{
		{Weight: fc6.Ws.MustT(false), Bias: fc6.Bs},
		{}, // relu
		{}, // dropout
		{Weight: fc7.Ws.MustT(false), Bias: fc7.Bs},
		{}, // relu
		{}, // dropout
		{Weight: fc8.Ws.MustT(false), Bias: fc8.Bs},
	}

	return &VGG16{
		features:   features,
		classifier: classifier,
	}
}

// LoadVGG16 creates a default VGG16 on device and loads weights from a gotch
// `.ot` file.
func LoadVGG16(path string, device gotch.Device) (*VGG16, error) {
	return Load(path, DefaultConfig(), device)
}

// Load creates a VGG network of the given config on device and loads its
// weights from file.
func Load(path string, config Config, device gotch.Device) (*VGG16, error) {
	vs := nn.NewVarStore(device)
	net := NewVGG16(vs.Root(), config)
	if err := vs.Load(path); err != nil {
		return nil, fmt.Errorf("Load pretrained VGG16 from %v failed: %w", path, err)
	}
	return net, nil
}
