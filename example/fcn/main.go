package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/sugarme/gotch"
)

// flag variables
var (
	task        string
	VariantName string
	NClass      int64
	ModelPath   string
	VGGPath     string
	InputPath   string
	MaskPath    string
	OutputPath  string
	Cuda        bool
	Device      gotch.Device
)

// options
var (
	ImageSize int     // input side length for the `model` task
	Normalize bool    // normalize input with ImageNet statistics
	Opacity   float64 // mask opacity of the overlay written by `predict`
	Bins      int     // histogram bins of the `summary` task
)

func init() {
	flag.StringVar(&task, "task", "model", "specify task to run: model, transplant, predict, eval, summary")
	flag.StringVar(&VariantName, "variant", "fcn32s", "specify network variant: fcn32s, fcn8s, fcn32s-frozen")
	flag.Int64Var(&NClass, "classes", 21, "specify number of classes")
	flag.StringVar(&ModelPath, "model", "", "specify saved network file. Empty builds a fresh network.")
	flag.StringVar(&VGGPath, "vgg", "./model/vgg16.ot", "specify pretrained VGG16 '.ot' file.")
	flag.StringVar(&InputPath, "input", "./input.png", "specify input image")
	flag.StringVar(&MaskPath, "mask", "./mask.png", "specify ground-truth label image")
	flag.StringVar(&OutputPath, "output", "./output", "specify output path")
	flag.BoolVar(&Cuda, "cuda", false, "specify whether using CUDA or not.")
	flag.IntVar(&ImageSize, "size", 224, "specify input image size of the 'model' task")
	flag.BoolVar(&Normalize, "normalize", true, "specify whether to normalize input images")
	flag.Float64Var(&Opacity, "opacity", 0.5, "specify mask overlay opacity")
	flag.IntVar(&Bins, "bins", 50, "specify histogram bins")
}

func main() {
	flag.Parse()

	Device = gotch.CPU
	if Cuda {
		Device = gotch.NewCuda().CudaIfAvailable()
	}

	var err error
	switch task {
	case "model":
		err = runCheckModel()
	case "transplant":
		err = runTransplant()
	case "predict":
		err = runPredict()
	case "eval":
		err = runEval()
	case "summary":
		err = runSummary()
	default:
		err = fmt.Errorf("Unknown 'task' name. Please specify valid 'task' flag to run.")
	}
	if err != nil {
		log.Fatal(err)
	}
}

// helper to get absolute file path
func absPath(p string) string {
	fullpath, err := filepath.Abs(p)
	if err != nil {
		log.Fatal(err)
	}
	return fullpath
}
