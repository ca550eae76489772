//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"strconv"

	"github.com/otiai10/gosseract/v2"
)

// Gosseract wraps libtesseract through gosseract.
type Gosseract struct {
	clientFactory func() *gosseract.Client
}

func newGosseract() (Engine, error) {
	return &Gosseract{clientFactory: gosseract.NewClient}, nil
}

func (g *Gosseract) Name() string { return "gosseract" }

// Recognize performs OCR on image data. A fresh client is used per call so
// the engine can be shared by concurrent conversions.
func (g *Gosseract) Recognize(ctx context.Context, image []byte, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := g.clientFactory()
	defer c.Close()

	if len(opts.Languages) > 0 {
		if err := c.SetLanguage(opts.Languages...); err != nil {
			return "", fmt.Errorf("%w: set languages: %v", ErrRecognitionUnavailable, err)
		}
	}
	if opts.PageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(opts.PageSegMode)); err != nil {
			return "", fmt.Errorf("%w: set page segmentation mode: %v", ErrRecognitionUnavailable, err)
		}
	}
	if opts.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(opts.DPI)); err != nil {
			return "", fmt.Errorf("%w: set dpi: %v", ErrRecognitionUnavailable, err)
		}
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecognitionUnavailable, err)
	}

	return text, nil
}
