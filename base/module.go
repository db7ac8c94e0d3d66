package base

import (
	"log"

	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"
)

// Conv2d creates Conv2D module with Xavier-normal weights and zero bias.
func Conv2d(p *nn.Path, cIn, cOut, ksize, padding, stride int64, gain float64) *nn.Conv2D {
	config := nn.DefaultConv2DConfig()
	config.Stride = []int64{stride, stride}
	config.Padding = []int64{padding, padding}
	config.WsInit = XavierNormalInit(cIn, cOut, ksize, gain)
	config.BsInit = ZeroInit()

	return nn.NewConv2D(p, cIn, cOut, ksize, config)
}

// Deconv2D is a learnable transposed convolution (fractionally-strided
// convolution) used as an upsampling layer.
//
// Weight shape: [cIn cOut kh kw].
type Deconv2D struct {
	Ws     *ts.Tensor
	Bs     *ts.Tensor
	Stride []int64
}

// NewDeconv2D creates a Deconv2D with weights seeded from a bilinear kernel
// and zero bias. Kernel must be square.
func NewDeconv2D(p *nn.Path, cIn, cOut int64, ksizes []int64, stride int64) *Deconv2D {
	if len(ksizes) != 2 {
		log.Fatalf("Expected 2 kernel sizes. Got %v\n", ksizes)
	}
	kh, kw := ksizes[0], ksizes[1]
	bilinear, err := BilinearWeight(cIn, cOut, kh, kw)
	if err != nil {
		log.Fatalf("Deconv2D init failed: %v\n", err)
	}

	ws := p.NewVar("weight", []int64{cIn, cOut, kh, kw}, ZeroInit())
	bs := p.NewVar("bias", []int64{cOut}, ZeroInit())
	ts.NoGrad(func() {
		ws.Copy_(bilinear)
	})
	bilinear.MustDrop()

	return &Deconv2D{
		Ws:     ws,
		Bs:     bs,
		Stride: []int64{stride, stride},
	}
}

// Forward implements nn.Module for Deconv2D.
func (d *Deconv2D) Forward(x *ts.Tensor) *ts.Tensor {
	padding := []int64{0, 0}
	outputPadding := []int64{0, 0}
	dilation := []int64{1, 1}
	return ts.MustConvTranspose2d(x, d.Ws, d.Bs, d.Stride, padding, outputPadding, 1, dilation)
}

// ForwardT implements nn.ModuleT for Deconv2D.
func (d *Deconv2D) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	return d.Forward(x)
}

// DeconvOutSize is the spatial size produced by a transposed convolution
// without padding.
func DeconvOutSize(in, ksize, stride int64) int64 {
	return (in-1)*stride + ksize
}

// ConvOutSize is the spatial size produced by a convolution with dilation 1.
func ConvOutSize(in, ksize, padding, stride int64) int64 {
	return (in+2*padding-ksize)/stride + 1
}

// PoolOutSize is the spatial size produced by a 2x2, stride 2 max pooling in
// ceil mode.
func PoolOutSize(in int64) int64 {
	return (in + 1) / 2
}
