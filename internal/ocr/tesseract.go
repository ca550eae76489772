package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Tesseract runs the tesseract command-line tool, feeding the image on stdin
// and reading plain text from stdout.
type Tesseract struct {
	Binary string
}

// NewTesseract creates an engine invoking binary ("tesseract" when empty).
func NewTesseract(binary string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	return &Tesseract{Binary: binary}
}

func (t *Tesseract) Name() string { return "tesseract" }

// Recognize performs OCR on a single encoded image.
func (t *Tesseract) Recognize(ctx context.Context, image []byte, opts Options) (string, error) {
	path, err := exec.LookPath(t.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecognitionUnavailable, err)
	}

	cmd := exec.CommandContext(ctx, path, t.args(opts)...)
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %s: %v: %s", ErrRecognitionUnavailable, t.Binary, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

func (t *Tesseract) args(opts Options) []string {
	args := []string{"stdin", "stdout"}
	if len(opts.Languages) > 0 {
		args = append(args, "-l", strings.Join(opts.Languages, "+"))
	}
	if opts.PageSegMode > 0 {
		args = append(args, "--psm", strconv.Itoa(opts.PageSegMode))
	}
	if opts.DPI > 0 {
		args = append(args, "--dpi", strconv.Itoa(opts.DPI))
	}
	return args
}
