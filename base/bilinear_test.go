package base_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sugarme/fcn/base"
)

func TestBilinearCenter(t *testing.T) {
	tests := []struct {
		ksize  int64
		factor float64
		center float64
	}{
		{ksize: 3, factor: 2, center: 1},
		{ksize: 4, factor: 2, center: 1.5},
		{ksize: 16, factor: 8, center: 7.5},
		{ksize: 64, factor: 32, center: 31.5},
	}

	for _, tt := range tests {
		factor, center := base.BilinearCenter(tt.ksize)
		assert.Equal(t, tt.factor, factor, "ksize %v", tt.ksize)
		assert.Equal(t, tt.center, center, "ksize %v", tt.ksize)
	}
}

func TestBilinearFilter_Odd(t *testing.T) {
	// factor=2, center=1 => 1D profile [0.5 1 0.5]
	want := []float32{
		0.25, 0.5, 0.25,
		0.5, 1, 0.5,
		0.25, 0.5, 0.25,
	}
	assert.InDeltaSlice(t, want, base.BilinearFilter(3), 1e-6)
}

func TestBilinearFilter_Even(t *testing.T) {
	// factor=2, center=1.5 => 1D profile [0.25 0.75 0.75 0.25]
	profile := []float32{0.25, 0.75, 0.75, 0.25}
	filt := base.BilinearFilter(4)
	require.Len(t, filt, 16)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, profile[i]*profile[j], filt[i*4+j], 1e-6)
		}
	}
}

func TestBilinearFilter_Symmetric(t *testing.T) {
	for _, k := range []int64{2, 3, 4, 5, 16, 64} {
		filt := base.BilinearFilter(k)
		var max float32
		for _, v := range filt {
			if v > max {
				max = v
			}
		}
		_, center := base.BilinearCenter(k)
		c := int64(center) // center pixel (left one for even sizes)
		assert.Equal(t, max, filt[c*k+c], "ksize %v: max must sit at center", k)
		for i := int64(0); i < k; i++ {
			for j := int64(0); j < k; j++ {
				v := filt[i*k+j]
				assert.Equal(t, v, filt[j*k+i], "ksize %v: transpose", k)
				assert.Equal(t, v, filt[(k-1-i)*k+(k-1-j)], "ksize %v: flip", k)
				assert.True(t, v > 0 && v <= 1, "ksize %v: value %v out of (0, 1]", k, v)
			}
		}
	}
}

func TestBilinearKernel_Diagonal(t *testing.T) {
	var (
		c int64 = 4
		k int64 = 4
	)
	weight, err := base.BilinearKernel(c, c, k, k)
	require.NoError(t, err)
	require.Len(t, weight, int(c*c*k*k))

	filt := base.BilinearFilter(k)
	plane := k * k
	for i := int64(0); i < c; i++ {
		for j := int64(0); j < c; j++ {
			slice := weight[(i*c+j)*plane : (i*c+j+1)*plane]
			if i == j {
				assert.Equal(t, filt, slice, "diagonal slice (%v, %v)", i, j)
				continue
			}
			for _, v := range slice {
				assert.Zero(t, v, "off-diagonal slice (%v, %v)", i, j)
			}
		}
	}
}

func TestBilinearKernel_Errors(t *testing.T) {
	_, err := base.BilinearKernel(2, 2, 4, 3)
	assert.Error(t, err, "non-square kernel")

	_, err = base.BilinearKernel(2, 3, 4, 4)
	assert.Error(t, err, "channel mismatch")

	_, err = base.BilinearKernel(0, 0, 4, 4)
	assert.Error(t, err, "empty kernel")
}
