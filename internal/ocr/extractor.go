package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"github.com/ivlev/sketch2html/internal/source"
	"github.com/ivlev/sketch2html/internal/system"
)

// Extractor produces the text of a whole image, as one string, in the order
// the engine emits it.
type Extractor struct {
	engine Engine
	opts   Options
	log    logrus.FieldLogger
}

// NewExtractor creates an extractor. A nil logger discards output.
func NewExtractor(engine Engine, opts Options, logger logrus.FieldLogger) *Extractor {
	if logger == nil {
		logger = system.DiscardLogger()
	}
	return &Extractor{engine: engine, opts: opts, log: logger}
}

// Engine returns the underlying recognition engine.
func (e *Extractor) Engine() Engine {
	return e.engine
}

// Extract recognizes the text of img. It returns "" when nothing is found.
func (e *Extractor) Extract(ctx context.Context, img *source.Image) (string, error) {
	if img == nil || img.Pixels == nil {
		return "", &source.DecodeError{Err: errors.New("no image")}
	}

	data, err := img.Portable()
	if err != nil {
		return "", &source.DecodeError{Format: img.Format, Err: err}
	}

	start := time.Now()
	raw, err := e.engine.Recognize(ctx, data, e.opts)
	if err != nil {
		return "", fmt.Errorf("%s: %w", e.engine.Name(), err)
	}

	text := Normalize(raw)
	e.log.WithFields(logrus.Fields{
		"engine":  e.engine.Name(),
		"chars":   len([]rune(text)),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("text recognized")

	return text, nil
}

// ExtractBytes decodes data and extracts its text.
func (e *Extractor) ExtractBytes(ctx context.Context, data []byte) (string, error) {
	img, err := source.Decode(data)
	if err != nil {
		return "", err
	}
	return e.Extract(ctx, img)
}

// Normalize composes the text to NFC and trims surrounding whitespace,
// including the form feed tesseract appends after each page.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
