package analyzer

import "fmt"

// NewSegmenter creates a segmenter based on the specified variant
func NewSegmenter(variant string, threshold int) (Segmenter, error) {
	if threshold < 1 || threshold > 255 {
		return nil, fmt.Errorf("threshold %d out of range 1..255", threshold)
	}

	switch variant {
	case "threshold", "":
		return NewThresholdSegmenter(threshold), nil
	case "gocv":
		return newGoCVSegmenter(threshold)
	default:
		return nil, fmt.Errorf("unknown segmenter variant: %s", variant)
	}
}
