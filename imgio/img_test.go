package imgio_test

import (
	"image"
	"image/color"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarme/gotch"

	"github.com/sugarme/fcn/imgio"
)

func twoPixels() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 102, B: 255, A: 255})
	return img
}

func TestToCHW(t *testing.T) {
	data, h, w := imgio.ToCHW(twoPixels(), false)
	assert.Equal(t, 1, h)
	assert.Equal(t, 2, w)
	want := []float32{1, 0, 0, 0.4, 0.2, 1}
	require.Len(t, data, len(want))
	for i := range want {
		assert.InDelta(t, want[i], data[i], 1e-6, "index %v", i)
	}

	norm, _, _ := imgio.ToCHW(twoPixels(), true)
	assert.InDelta(t, (1-0.485)/0.229, norm[0], 1e-5)
	assert.InDelta(t, (0-0.456)/0.224, norm[2], 1e-5)
	assert.InDelta(t, (1-0.406)/0.225, norm[5], 1e-5)
}

func TestToNRGBAOrigin(t *testing.T) {
	src := image.NewGray(image.Rect(3, 4, 5, 7))
	src.SetGray(3, 4, color.Gray{Y: 200})
	dst := imgio.ToNRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 3), dst.Bounds())
	assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, dst.NRGBAAt(0, 0))
}

func TestToTensor(t *testing.T) {
	x := imgio.ToTensor(twoPixels(), false, gotch.CPU)
	defer x.MustDrop()
	assert.Equal(t, []int64{1, 3, 1, 2}, x.MustSize())
}

func TestResize(t *testing.T) {
	img := imgio.Resize(twoPixels(), 8, 4)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}

func TestSaveReadImage(t *testing.T) {
	dir, err := ioutil.TempDir("", "imgio")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "pixels.png")
	require.NoError(t, imgio.SaveImage(file, twoPixels()))

	img, err := imgio.ReadImage(file)
	require.NoError(t, err)
	got := imgio.ToNRGBA(img)
	want := twoPixels()
	for x := 0; x < 2; x++ {
		assert.Equal(t, want.NRGBAAt(x, 0), got.NRGBAAt(x, 0))
	}

	_, err = imgio.ReadImage(filepath.Join(dir, "pixels.bmp"))
	assert.Error(t, err)
}

func TestReadImageUnsupported(t *testing.T) {
	f, err := ioutil.TempFile("", "image-*.webp")
	require.NoError(t, err)
	f.Close()
	defer os.Remove(f.Name())

	_, err = imgio.ReadImage(f.Name())
	assert.Error(t, err)
}

func TestOverlay(t *testing.T) {
	mask := imgio.Colorize([]int64{1, 1}, 1, 2, imgio.Palette(2))
	out := imgio.Overlay(twoPixels(), mask, 1)
	assert.Equal(t, color.NRGBA{R: 128, G: 0, B: 0, A: 255}, out.NRGBAAt(0, 0))
}
