package analyzer

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/ivlev/sketch2html/internal/source"
)

// ThresholdSegmenter binarizes the image with a fixed global threshold and
// reports the bounding box of every outer foreground component.
//
// No filtering or merging is applied: a single stray dark pixel yields its
// own 1x1 region.
type ThresholdSegmenter struct {
	Threshold int // pixels with intensity below Threshold are foreground
}

// NewThresholdSegmenter creates a segmenter with the given threshold
func NewThresholdSegmenter(threshold int) *ThresholdSegmenter {
	return &ThresholdSegmenter{Threshold: threshold}
}

// Segment finds outer connected components of dark pixels
func (s *ThresholdSegmenter) Segment(img image.Image) ([]Region, error) {
	if img == nil {
		return nil, &source.DecodeError{Err: errors.New("no image")}
	}
	if s.Threshold < 1 || s.Threshold > 255 {
		return nil, fmt.Errorf("threshold %d out of range 1..255", s.Threshold)
	}

	// Step 1: Convert to grayscale
	gray := toGrayscale(img)

	// Step 2: Inverted binary mask, dark ink becomes foreground
	mask := binarize(gray, uint8(s.Threshold))

	// Step 3 + 4: Outer components and their bounding boxes
	return findContours(mask), nil
}

// SegmentBytes decodes data and segments the result.
func SegmentBytes(s Segmenter, data []byte) ([]Region, error) {
	img, err := source.Decode(data)
	if err != nil {
		return nil, err
	}
	return s.Segment(img.Pixels)
}

// toGrayscale converts an image to a compact grayscale copy whose origin is (0,0)
func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	if g, ok := img.(*image.Gray); ok && bounds.Min == (image.Point{}) && g.Stride == bounds.Dx() {
		return g
	}

	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.GrayModel.Convert(img.At(x, y)).(color.Gray))
		}
	}

	return gray
}

// mask is a row-major foreground bitmap
type mask struct {
	w, h int
	fg   []bool
}

func (m *mask) at(x, y int) bool {
	return m.fg[y*m.w+x]
}

// binarize marks pixels strictly darker than threshold as foreground
func binarize(gray *image.Gray, threshold uint8) *mask {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	m := &mask{w: w, h: h, fg: make([]bool, w*h)}

	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x, v := range row {
			m.fg[y*w+x] = v < threshold
		}
	}

	return m
}
