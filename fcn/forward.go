package fcn

import (
	"log"

	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/fcn/base"
)

// ForwardT implements nn.ModuleT for Network.
//
// Input shape [N 3 H W], output shape [N nClass H W].
func (n *Network) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	switch n.variant {
	case FCN8s:
		return n.forward8s(x, train)
	default:
		return n.forward32s(x, train)
	}
}

// Forward implements nn.Module for Network in evaluation mode.
func (n *Network) Forward(x *ts.Tensor) *ts.Tensor {
	return n.ForwardT(x, false)
}

func (n *Network) forward32s(x *ts.Tensor, train bool) *ts.Tensor {
	// pool5: [N 512 H' W'] with H' = ceil((H+198)/32)
	feat := n.encoder.ForwardT(x, train)
	// fc7: [N 4096 H'-6 W'-6]
	h := base.ForwardLayers(n.head, feat, train)
	feat.MustDrop()
	score := n.score.ForwardT(h, train)
	h.MustDrop()
	// upscore: [N nClass 32(H'-7)+64 ...]
	up := n.decoder[0].ForwardT(score, train)
	score.MustDrop()

	return cropLike(up, x)
}

func (n *Network) forward8s(x *ts.Tensor, train bool) *ts.Tensor {
	features := n.encoder.ForwardAll(x, train)
	if len(features) != 3 {
		log.Fatalf("Expected features of 3 tensors. Got %v\n", len(features))
	}

	h := base.ForwardLayers(n.head, features[2], train)
	h32 := n.score.ForwardT(h, train)             // 1/32
	h16 := n.score16.ForwardT(features[1], train) // 1/16
	h8 := n.score8.ForwardT(features[0], train)   // 1/8
	h.MustDrop()
	for _, f := range features {
		f.MustDrop()
	}

	up32 := n.decoder[0].ForwardT(h32, train)
	h32.MustDrop()
	fuse16 := fuse(up32, h16)
	up32.MustDrop()
	h16.MustDrop()

	up16 := n.decoder[1].ForwardT(fuse16, train)
	fuse16.MustDrop()
	fuse8 := fuse(up16, h8)
	up16.MustDrop()
	h8.MustDrop()

	up8 := n.decoder[2].ForwardT(fuse8, train)
	fuse8.MustDrop()

	return cropLike(up8, x)
}

// fuse center-crops skip to the spatial size of up and adds them.
func fuse(up, skip *ts.Tensor) *ts.Tensor {
	size := up.MustSize()
	crop := base.MustCenterCrop(skip, size[2], size[3])
	res := up.MustAdd(crop, false)
	crop.MustDrop()

	return res
}

// cropLike center-crops x to the spatial size of ref and returns a contiguous
// tensor. x is consumed.
func cropLike(x, ref *ts.Tensor) *ts.Tensor {
	size := ref.MustSize()
	crop := base.MustCenterCrop(x, size[2], size[3])
	out := crop.MustContiguous(true)
	x.MustDrop()

	return out
}
