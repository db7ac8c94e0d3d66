package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/fcn/fcn"
	"github.com/sugarme/fcn/imgio"
	"github.com/sugarme/fcn/metric"
)

// segment predicts per-pixel labels of an image file. If w, h are positive the
// image is resized first.
func segment(net *fcn.Network, file string, w, h int) (labels []int64, img, mask image.Image, err error) {
	src, err := imgio.ReadImage(file)
	if err != nil {
		return nil, nil, nil, err
	}
	if w > 0 && h > 0 {
		src = imgio.Resize(src, w, h)
	}

	input := imgio.ToTensor(src, Normalize, Device)
	var logits *ts.Tensor
	ts.NoGrad(func() {
		logits = net.ForwardT(input, false)
	})
	input.MustDrop()

	size := logits.MustSize() // [1 nClass H W]
	cpu := logits.MustTo(gotch.CPU, true)
	scores := cpu.Float64Values()
	cpu.MustDrop()

	nClass, ih, iw := int(size[1]), int(size[2]), int(size[3])
	labels, err = imgio.Argmax(scores, nClass, ih, iw)
	if err != nil {
		return nil, nil, nil, err
	}

	mask = imgio.Colorize(labels, ih, iw, imgio.Palette(nClass))
	return labels, src, mask, nil
}

func runPredict() error {
	vs := nn.NewVarStore(Device)
	net, err := loadNetwork(vs)
	if err != nil {
		return err
	}

	_, img, mask, err := segment(net, absPath(InputPath), 0, 0)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(absPath(OutputPath), 0755); err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(InputPath), filepath.Ext(InputPath))
	maskFile := fmt.Sprintf("%v/%v-mask.png", absPath(OutputPath), name)
	if err := imgio.SaveImage(maskFile, mask); err != nil {
		return err
	}
	overlayFile := fmt.Sprintf("%v/%v-overlay.png", absPath(OutputPath), name)
	overlay := imgio.Overlay(img, mask, Opacity)
	if err := imgio.SaveImage(overlayFile, overlay); err != nil {
		return err
	}
	fmt.Printf("Saved %v and %v\n", maskFile, overlayFile)

	return nil
}

func runEval() error {
	vs := nn.NewVarStore(Device)
	net, err := loadNetwork(vs)
	if err != nil {
		return err
	}

	target, h, w, err := imgio.ReadLabels(absPath(MaskPath))
	if err != nil {
		return err
	}
	pred, _, _, err := segment(net, absPath(InputPath), w, h)
	if err != nil {
		return err
	}

	cm := metric.NewConfusionMatrix(int(net.Config().NClass))
	if err := cm.Add(pred, target); err != nil {
		return err
	}
	fmt.Printf("pixel acc: %6.4f\t mean IoU: %6.4f\n", cm.PixelAccuracy(), cm.MeanIoU())
	for c, iou := range cm.ClassIoU() {
		fmt.Printf("class %02d\t IoU: %6.4f\n", c, iou)
	}

	return nil
}
