package palette

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/webp"
)

const (
	minStride = 1
	maxStride = 64
)

var defaultExtractOptions = ExtractOptions{
	RegionFraction: 0.5,
	Stride:         10,
	AlphaThreshold: 16,
}

// Fallback is used by callers when a source cannot be decoded.
var Fallback = Accent{Hex: "#ffffff", R: 255, G: 255, B: 255, Fallback: true}

type ExtractOptions struct {
	RegionFraction float64 `json:"regionFraction"`
	Stride         int     `json:"stride"`
	AlphaThreshold int     `json:"alphaThreshold"`
}

// Accent is the average colour of the centre of an image.
type Accent struct {
	Hex      string `json:"hex"`
	R        int    `json:"r"`
	G        int    `json:"g"`
	B        int    `json:"b"`
	Samples  int    `json:"samples"`
	Fallback bool   `json:"fallback"`
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func DefaultExtractOptions() ExtractOptions {
	return defaultExtractOptions
}

func NormalizeExtractOptions(options ExtractOptions) ExtractOptions {
	return options.normalized()
}

func (e *Extractor) ExtractFromPath(path string, options ExtractOptions) (Accent, error) {
	file, err := os.Open(path)
	if err != nil {
		return Accent{}, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	return e.ExtractFromReader(file, options)
}

func (e *Extractor) ExtractFromBytes(data []byte, options ExtractOptions) (Accent, error) {
	return e.ExtractFromReader(bytes.NewReader(data), options)
}

func (e *Extractor) ExtractFromReader(reader io.Reader, options ExtractOptions) (Accent, error) {
	decoded, _, err := image.Decode(reader)
	if err != nil {
		return Accent{}, fmt.Errorf("decode image: %w", err)
	}

	return e.ExtractFromImage(decoded, options)
}

// ExtractFromImage averages every Stride-th pixel of the centred region that
// covers RegionFraction of each dimension.
func (e *Extractor) ExtractFromImage(img image.Image, options ExtractOptions) (Accent, error) {
	normalized := options.normalized()
	bounds := img.Bounds()
	if bounds.Empty() {
		return Accent{}, errors.New("image has no pixels")
	}

	region := centreRegion(bounds, normalized.RegionFraction)
	alphaFloor := uint32(normalized.AlphaThreshold) * 0x101

	var red, green, blue uint64
	samples := 0
	index := 0
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			index++
			if (index-1)%normalized.Stride != 0 {
				continue
			}

			r, g, b, a := img.At(x, y).RGBA()
			if a <= alphaFloor {
				continue
			}

			// RGBA is alpha-premultiplied; undo it before averaging.
			red += uint64(r*0xffff/a) >> 8
			green += uint64(g*0xffff/a) >> 8
			blue += uint64(b*0xffff/a) >> 8
			samples++
		}
	}

	if samples == 0 {
		return Accent{}, errors.New("image has no opaque pixels in sample region")
	}

	return newAccent(
		int(red/uint64(samples)),
		int(green/uint64(samples)),
		int(blue/uint64(samples)),
		samples,
	), nil
}

func centreRegion(bounds image.Rectangle, fraction float64) image.Rectangle {
	width := maxInt(1, int(float64(bounds.Dx())*fraction))
	height := maxInt(1, int(float64(bounds.Dy())*fraction))
	left := bounds.Min.X + (bounds.Dx()-width)/2
	top := bounds.Min.Y + (bounds.Dy()-height)/2

	return image.Rect(left, top, left+width, top+height)
}

func newAccent(red int, green int, blue int, samples int) Accent {
	return Accent{
		Hex:     fmt.Sprintf("#%02x%02x%02x", red, green, blue),
		R:       red,
		G:       green,
		B:       blue,
		Samples: samples,
	}
}

func (o ExtractOptions) normalized() ExtractOptions {
	normalized := o
	if normalized.RegionFraction <= 0 || normalized.RegionFraction > 1 {
		normalized.RegionFraction = defaultExtractOptions.RegionFraction
	}
	if normalized.Stride == 0 {
		normalized.Stride = defaultExtractOptions.Stride
	}
	normalized.Stride = clampInt(normalized.Stride, minStride, maxStride)
	normalized.AlphaThreshold = clampInt(normalized.AlphaThreshold, 0, 254)

	return normalized
}

func clampInt(value int, minimum int, maximum int) int {
	if value < minimum {
		return minimum
	}
	if value > maximum {
		return maximum
	}
	return value
}

func maxInt(left int, right int) int {
	if left > right {
		return left
	}
	return right
}
