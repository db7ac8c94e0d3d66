package imgio

import (
	"fmt"
	"image"
	"image/color"
)

// IgnoreLabel marks pixels excluded from evaluation (PASCAL VOC boundaries).
const IgnoreLabel int64 = 255

// Argmax returns per-pixel class labels from a score buffer in [nClass H W]
// order.
func Argmax(scores []float64, nClass, h, w int) ([]int64, error) {
	plane := h * w
	if len(scores) < nClass*plane {
		return nil, fmt.Errorf("Expected %v scores. Got %v", nClass*plane, len(scores))
	}
	labels := make([]int64, plane)
	for i := 0; i < plane; i++ {
		best := scores[i]
		var label int64
		for c := 1; c < nClass; c++ {
			if v := scores[c*plane+i]; v > best {
				best = v
				label = int64(c)
			}
		}
		labels[i] = label
	}

	return labels, nil
}

// Palette returns the PASCAL VOC color map with n entries.
func Palette(n int) []color.NRGBA {
	bit := func(v, i int) uint8 {
		return uint8((v >> uint(i)) & 1)
	}
	palette := make([]color.NRGBA, n)
	for i := 0; i < n; i++ {
		var r, g, b uint8
		c := i
		for j := 0; j < 8; j++ {
			r |= bit(c, 0) << uint(7-j)
			g |= bit(c, 1) << uint(7-j)
			b |= bit(c, 2) << uint(7-j)
			c >>= 3
		}
		palette[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return palette
}

// Colorize paints labels (row-major, h x w) with palette colors. Labels out
// of the palette range are painted white.
func Colorize(labels []int64, h, w int, palette []color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := labels[y*w+x]
			c := white
			if l >= 0 && int(l) < len(palette) {
				c = palette[l]
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Labels decodes a label image. Paletted images yield color indices, other
// images yield their gray level.
func Labels(img image.Image) (labels []int64, h, w int) {
	b := img.Bounds()
	h, w = b.Dy(), b.Dx()
	labels = make([]int64, h*w)
	paletted, isPaletted := img.(*image.Paletted)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px, py := b.Min.X+x, b.Min.Y+y
			if isPaletted {
				labels[y*w+x] = int64(paletted.ColorIndexAt(px, py))
				continue
			}
			g := color.GrayModel.Convert(img.At(px, py)).(color.Gray)
			labels[y*w+x] = int64(g.Y)
		}
	}
	return labels, h, w
}

// ReadLabels reads a label mask from file.
func ReadLabels(filename string) (labels []int64, h, w int, err error) {
	img, err := ReadImage(filename)
	if err != nil {
		return nil, 0, 0, err
	}
	labels, h, w = Labels(img)
	return labels, h, w, nil
}
