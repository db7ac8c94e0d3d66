package imgio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/chai2010/tiff"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/sugarme/gotch"
	ts "github.com/sugarme/gotch/tensor"
	"golang.org/x/image/draw"
)

// ImageNet RGB statistics the pretrained VGG16 was trained with.
var (
	rgbMean = [3]float32{0.485, 0.456, 0.406}
	rgbStd  = [3]float32{0.229, 0.224, 0.225}
)

// ReadImage reads image from file.
func ReadImage(filename string) (image.Image, error) {
	ext := filepath.Ext(filename)
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext {
	case ".png", ".PNG":
		return png.Decode(f)
	case ".jpg", ".jpeg", ".JPG", ".JPEG":
		return jpeg.Decode(f)
	case ".tiff", ".tif", ".TIFF", ".TIF":
		return tiff.Decode(f)
	default:
		err = fmt.Errorf("Unsupported image format: %v", ext)
		return nil, err
	}
}

// SaveImage saves image to file. Format is taken from the file extension.
func SaveImage(filename string, img image.Image) error {
	return imaging.Save(img, filename)
}

// ToNRGBA copies img into a NRGBA image with origin at (0, 0).
func ToNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Bounds().Min == image.ZP {
		return nrgba
	}
	size := img.Bounds().Size()
	dst := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Copy(dst, image.ZP, img, img.Bounds(), draw.Src, nil)
	return dst
}

// Resize resizes img to w x h with bilinear interpolation.
func Resize(img image.Image, w, h int) image.Image {
	return resize.Resize(uint(w), uint(h), img, resize.Bilinear)
}

// Overlay blends a colored mask over img.
func Overlay(img, mask image.Image, opacity float64) *image.NRGBA {
	return imaging.Overlay(img, mask, image.Pt(0, 0), opacity)
}

// ToCHW converts img to a float32 buffer in [C H W] order with values in
// [0, 1], optionally normalized with ImageNet mean and standard deviation.
func ToCHW(img image.Image, normalize bool) (data []float32, h, w int) {
	src := ToNRGBA(img)
	size := src.Bounds().Size()
	h, w = size.Y, size.X
	plane := h * w
	data = make([]float32, 3*plane)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.NRGBAAt(x, y)
			rgb := [3]uint8{c.R, c.G, c.B}
			for ch := 0; ch < 3; ch++ {
				v := float32(rgb[ch]) / 255
				if normalize {
					v = (v - rgbMean[ch]) / rgbStd[ch]
				}
				data[ch*plane+y*w+x] = v
			}
		}
	}

	return data, h, w
}

// ToTensor converts img to a [1 3 H W] float tensor on device.
func ToTensor(img image.Image, normalize bool, device gotch.Device) *ts.Tensor {
	data, h, w := ToCHW(img, normalize)
	x := ts.MustOfSlice(data).MustView([]int64{1, 3, int64(h), int64(w)}, true)
	return x.MustTo(device, true)
}
