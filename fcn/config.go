package fcn

import (
	"fmt"
	"strings"

	"github.com/sugarme/fcn/base"
	"github.com/sugarme/fcn/encoder"
)

// Variant selects a network topology.
type Variant int

const (
	// FCN32s upsamples the stride-32 score map in a single 32x step.
	FCN32s Variant = iota
	// FCN8s fuses stride-16 and stride-8 score maps while upsampling 2x, 2x, 8x.
	FCN8s
	// FCN32sFrozen is FCN32s with a pretrained, frozen backbone.
	FCN32sFrozen
)

var variantNames = map[Variant]string{
	FCN32s:       "fcn32s",
	FCN8s:        "fcn8s",
	FCN32sFrozen: "fcn32s-frozen",
}

func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// ParseVariant parses a variant name as printed by Variant.String.
func ParseVariant(name string) (Variant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for v, n := range variantNames {
		if n == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("Unknown network variant: %q", name)
}

// Config holds the hyperparameters shared by all variants.
type Config struct {
	NClass    int64             `json:"n_class"`
	Backbone  encoder.VGGConfig `json:"backbone"`
	HeadWidth int64             `json:"head_width"` // fc6, fc7 channels
	HeadKsize int64             `json:"head_ksize"` // fc6 kernel size
	DropoutP  float64           `json:"dropout"`
	Gain      float64           `json:"gain"`
	Scale8    float64           `json:"scale8"`  // pre-scale of the stride-8 skip input
	Scale16   float64           `json:"scale16"` // pre-scale of the stride-16 skip input
}

// DefaultConfig returns the VGG16 configuration of a variant.
func DefaultConfig(variant Variant, nClass int64) Config {
	dropout := 0.2
	if variant == FCN32sFrozen {
		dropout = 0.15
	}
	return Config{
		NClass:    nClass,
		Backbone:  encoder.DefaultVGG16Config(),
		HeadWidth: 4096,
		HeadKsize: 7,
		DropoutP:  dropout,
		Gain:      base.DefaultGain,
		Scale8:    0.0001,
		Scale16:   0.01,
	}
}

// Validate checks config values.
func (c Config) Validate() error {
	if c.NClass <= 0 {
		return fmt.Errorf("Invalid number of classes: %v", c.NClass)
	}
	if err := c.Backbone.Validate(); err != nil {
		return err
	}
	if c.HeadWidth <= 0 || c.HeadKsize <= 0 {
		return fmt.Errorf("Invalid head: width=%v, ksize=%v", c.HeadWidth, c.HeadKsize)
	}
	if c.DropoutP < 0 || c.DropoutP >= 1 {
		return fmt.Errorf("Invalid dropout probability: %v", c.DropoutP)
	}
	return nil
}
