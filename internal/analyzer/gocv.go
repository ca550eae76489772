//go:build gocv

package analyzer

import (
	"errors"
	"fmt"
	"image"

	"github.com/ivlev/sketch2html/internal/source"
	"gocv.io/x/gocv"
)

// GoCVSegmenter runs the same threshold + external-contour pass through OpenCV.
// Built only with -tags gocv; requires OpenCV 4 to be installed.
type GoCVSegmenter struct {
	Threshold int
}

func newGoCVSegmenter(threshold int) (Segmenter, error) {
	return &GoCVSegmenter{Threshold: threshold}, nil
}

// Segment finds external contours of dark pixels
func (s *GoCVSegmenter) Segment(img image.Image) ([]Region, error) {
	if img == nil {
		return nil, &source.DecodeError{Err: errors.New("no image")}
	}

	gray := toGrayscale(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if w == 0 || h == 0 {
		return []Region{}, nil
	}

	pix := gray.Pix
	if gray.Stride != w {
		pix = make([]byte, 0, w*h)
		for y := 0; y < h; y++ {
			pix = append(pix, gray.Pix[y*gray.Stride:y*gray.Stride+w]...)
		}
	}

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, pix)
	if err != nil {
		return nil, fmt.Errorf("gocv mat: %w", err)
	}
	defer mat.Close()

	binary := gocv.NewMat()
	defer binary.Close()

	// Values above Threshold-1 (i.e. >= Threshold) become 0, darker pixels 255
	gocv.Threshold(mat, &binary, float32(s.Threshold-1), 255, gocv.ThresholdBinaryInv)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	regions := make([]Region, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		regions = append(regions, Region{X: rect.Min.X, Y: rect.Min.Y, W: rect.Dx(), H: rect.Dy()})
	}

	return regions, nil
}
