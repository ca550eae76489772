//go:build !gocv

package analyzer

import "fmt"

func newGoCVSegmenter(threshold int) (Segmenter, error) {
	return nil, fmt.Errorf("%w: gocv segmenter not compiled in; rebuild with -tags gocv", ErrVariantUnavailable)
}
