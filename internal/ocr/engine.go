// Package ocr extracts the text of a whole mockup image.
//
// Recognition is delegated to an Engine. The default engine runs the
// tesseract binary; the gosseract engine links libtesseract directly and is
// only compiled with the "ocr" build tag:
//
//	go build -tags ocr
//
// On Ubuntu/Debian both need:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivlev/sketch2html/internal/config"
)

// ErrRecognitionUnavailable is returned when the text-recognition capability
// cannot be reached or is misconfigured.
var ErrRecognitionUnavailable = errors.New("text recognition unavailable")

// Options tune a single recognition call.
type Options struct {
	Languages   []string // tesseract language codes, e.g. "eng"
	PageSegMode int      // tesseract --psm; 0 keeps the engine default
	DPI         int      // 0 = unknown
}

// Engine recognizes text in encoded image bytes (PNG, JPEG, TIFF, ...).
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte, opts Options) (string, error)
}

// NewEngine creates an engine based on the recognition config
func NewEngine(cfg config.Recognition) (Engine, error) {
	switch cfg.Engine {
	case "tesseract", "":
		return NewTesseract(cfg.Binary), nil
	case "gosseract":
		return newGosseract()
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown recognition engine: %s", cfg.Engine)
	}
}

// OptionsFromConfig maps the recognition config onto per-call options.
func OptionsFromConfig(cfg config.Recognition) Options {
	return Options{
		Languages:   append([]string(nil), cfg.Languages...),
		PageSegMode: cfg.PSM,
		DPI:         cfg.DPI,
	}
}

// Nop recognizes nothing. Useful for layout-only conversions.
type Nop struct{}

func (Nop) Name() string { return "none" }

func (Nop) Recognize(ctx context.Context, image []byte, opts Options) (string, error) {
	return "", ctx.Err()
}
