package base

import (
	"fmt"
	"math"

	ts "github.com/sugarme/gotch/tensor"
)

// BilinearCenter returns the interpolation factor and center of a bilinear
// filter of size ksize.
func BilinearCenter(ksize int64) (factor, center float64) {
	factor = float64((ksize + 1) / 2)
	if ksize%2 == 1 {
		center = factor - 1
	} else {
		center = factor - 0.5
	}
	return factor, center
}

// BilinearFilter returns a 2D bilinear interpolation filter of shape [ksize ksize]
// flattened in row-major order.
func BilinearFilter(ksize int64) []float32 {
	factor, center := BilinearCenter(ksize)
	filt := make([]float32, ksize*ksize)
	for i := int64(0); i < ksize; i++ {
		fi := 1 - math.Abs(float64(i)-center)/factor
		for j := int64(0); j < ksize; j++ {
			fj := 1 - math.Abs(float64(j)-center)/factor
			filt[i*ksize+j] = float32(fi * fj)
		}
	}
	return filt
}

// BilinearKernel makes a weight buffer of shape [cIn cOut kh kw] suitable to
// initialize a transposed convolution as a per-channel bilinear upsampler.
// Only the (i, i) channel slices are populated.
func BilinearKernel(cIn, cOut, kh, kw int64) ([]float32, error) {
	if kh != kw {
		err := fmt.Errorf("Bilinear kernel must be square. Got %vx%v", kh, kw)
		return nil, err
	}
	if cIn != cOut {
		err := fmt.Errorf("Bilinear kernel needs equal input and output channels. Got %v and %v", cIn, cOut)
		return nil, err
	}
	if cIn <= 0 || kh <= 0 {
		err := fmt.Errorf("Invalid bilinear kernel size: channels=%v, ksize=%v", cIn, kh)
		return nil, err
	}

	filt := BilinearFilter(kh)
	plane := kh * kw
	weight := make([]float32, cIn*cOut*plane)
	for c := int64(0); c < cIn; c++ {
		offset := (c*cOut + c) * plane
		copy(weight[offset:offset+plane], filt)
	}

	return weight, nil
}

// BilinearWeight is BilinearKernel as a float tensor of shape [cIn cOut kh kw].
func BilinearWeight(cIn, cOut, kh, kw int64) (*ts.Tensor, error) {
	weight, err := BilinearKernel(cIn, cOut, kh, kw)
	if err != nil {
		return nil, err
	}

	return ts.MustOfSlice(weight).MustView([]int64{cIn, cOut, kh, kw}, true), nil
}
