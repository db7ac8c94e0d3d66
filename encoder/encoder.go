package encoder

import (
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/fcn/base"
)

// Encoder is encoder interface for a image segmentation model.
type Encoder interface {
	// ForwardAll returns tapped feature maps ordered from shallow to deep.
	ForwardAll(x *ts.Tensor, train bool) []*ts.Tensor
	// Layers returns the encoder layer descriptors in forward order.
	Layers() []*base.Layer
}
