//go:build !ocr

package ocr

import "fmt"

func newGosseract() (Engine, error) {
	return nil, fmt.Errorf("%w: gosseract engine not compiled in; rebuild with -tags ocr", ErrRecognitionUnavailable)
}
