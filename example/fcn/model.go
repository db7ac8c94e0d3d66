package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/fcn/fcn"
	"github.com/sugarme/fcn/pretrained"
)

// loadNetwork loads a saved network if `-model` is given, otherwise builds a
// fresh one of `-variant`.
func loadNetwork(vs *nn.VarStore) (*fcn.Network, error) {
	if ModelPath != "" {
		return fcn.Load(vs, absPath(ModelPath))
	}

	variant, err := fcn.ParseVariant(VariantName)
	if err != nil {
		return nil, err
	}
	config := fcn.DefaultConfig(variant, NClass)
	if variant != fcn.FCN32sFrozen {
		return fcn.New(vs, variant, config)
	}

	src, err := pretrained.LoadVGG16(absPath(VGGPath), Device)
	if err != nil {
		return nil, err
	}
	return fcn.NewFCN32sFrozen(vs, config, src)
}

func runCheckModel() error {
	vs := nn.NewVarStore(Device)
	net, err := loadNetwork(vs)
	if err != nil {
		return err
	}

	for _, l := range net.Layers() {
		fmt.Println(l)
	}
	fmt.Printf("variant: %v - cuda: %v\n", net.Variant(), net.IsCuda())

	size := int64(ImageSize)
	image := ts.MustRand([]int64{1, 3, size, size}, gotch.Float, Device)
	ts.NoGrad(func() {
		start := time.Now()
		logit := net.ForwardT(image, false)
		fmt.Printf("input: %v - output: %v - taken: %v\n", image.MustSize(), logit.MustSize(), time.Since(start))
		logit.MustDrop()
	})
	image.MustDrop()

	return nil
}

// runTransplant builds a network, copies pretrained VGG16 weights into it and
// saves the result.
func runTransplant() error {
	variant, err := fcn.ParseVariant(VariantName)
	if err != nil {
		return err
	}
	vs := nn.NewVarStore(Device)
	config := fcn.DefaultConfig(variant, NClass)

	src, err := pretrained.LoadVGG16(absPath(VGGPath), Device)
	if err != nil {
		return err
	}

	var net *fcn.Network
	if variant == fcn.FCN32sFrozen {
		net, err = fcn.NewFCN32sFrozen(vs, config, src)
	} else {
		net, err = fcn.New(vs, variant, config)
		if err == nil {
			err = net.CopyParamsFrom(src)
		}
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(absPath(OutputPath), 0755); err != nil {
		return err
	}
	weightFile := fmt.Sprintf("%v/%v-%v.gt", absPath(OutputPath), variant, time.Now().Unix())
	if err := net.Save(weightFile); err != nil {
		return err
	}
	log.Printf("%v params trainable\n", len(net.TrainableParams()))

	return nil
}
