package base

import (
	"math"

	"github.com/sugarme/gotch/nn"
)

// DefaultGain is the gain applied to Xavier-normal initialization of
// convolution weights.
const DefaultGain float64 = 2.0

// XavierNormalStd computes the standard deviation of Xavier (Glorot) normal
// initialization for a convolution weight of shape [cOut cIn ksize ksize].
//
// std = gain * sqrt(2 / (fanIn + fanOut))
func XavierNormalStd(cIn, cOut, ksize int64, gain float64) float64 {
	field := float64(ksize * ksize)
	fanIn := float64(cIn) * field
	fanOut := float64(cOut) * field
	return gain * math.Sqrt(2.0/(fanIn+fanOut))
}

// XavierNormalInit returns a gaussian initializer for a convolution weight.
func XavierNormalInit(cIn, cOut, ksize int64, gain float64) nn.Init {
	return nn.NewRandnInit(0.0, XavierNormalStd(cIn, cOut, ksize, gain))
}

// ZeroInit is the initializer used for every bias.
func ZeroInit() nn.Init {
	return nn.NewConstInit(0.0)
}
