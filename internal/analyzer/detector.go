package analyzer

import (
	"errors"
	"fmt"
	"image"
)

// ErrVariantUnavailable is returned for segmenter variants not compiled into the binary.
var ErrVariantUnavailable = errors.New("segmenter variant unavailable")

// Region is the bounding box of one outer connected component, in pixels
// relative to the top-left corner of the image.
type Region struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
	W int `yaml:"w" json:"w"`
	H int `yaml:"h" json:"h"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Segmenter derives layout regions from an image. Regions are returned in
// the order the implementation visits components, not in reading order.
type Segmenter interface {
	Segment(img image.Image) ([]Region, error)
}
