package base

import (
	"fmt"
	"log"

	ts "github.com/sugarme/gotch/tensor"
)

// CropOffset returns the symmetric border to trim from a dimension of size
// larger so that it matches smaller.
func CropOffset(larger, smaller int64) int64 {
	return (larger - smaller) / 2
}

// CenterCrop narrows the spatial dims of x ([B C H W]) to h x w, trimming
// borders equally on both sides. The result is a view of x.
func CenterCrop(x *ts.Tensor, h, w int64) (*ts.Tensor, error) {
	size := x.MustSize()
	if len(size) != 4 {
		err := fmt.Errorf("Expected 4D tensor [B C H W]. Got shape %v", size)
		return nil, err
	}
	if size[2] < h || size[3] < w {
		err := fmt.Errorf("Cannot crop %vx%v map to %vx%v", size[2], size[3], h, w)
		return nil, err
	}

	top := CropOffset(size[2], h)
	left := CropOffset(size[3], w)
	rows := x.MustNarrow(2, top, h, false)
	crop := rows.MustNarrow(3, left, w, true)

	return crop, nil
}

// MustCenterCrop is CenterCrop that aborts on error.
func MustCenterCrop(x *ts.Tensor, h, w int64) *ts.Tensor {
	crop, err := CenterCrop(x, h, w)
	if err != nil {
		log.Fatal(err)
	}
	return crop
}
