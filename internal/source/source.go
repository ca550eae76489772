package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyInput is returned when no image bytes were supplied.
var ErrEmptyInput = errors.New("empty input: no image bytes supplied")

// ErrDecode matches every *DecodeError via errors.Is.
var ErrDecode = errors.New("image cannot be decoded")

// DecodeError reports bytes that are not a readable image.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("decode %s image: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Image is a decoded source image. It is never mutated after Decode returns,
// so it can be shared by concurrent readers.
type Image struct {
	Pixels   image.Image
	Width    int
	Height   int
	Channels int
	Format   string // png, jpeg, gif, bmp, tiff, webp, pdf
	data     []byte
}

// Data returns the original encoded bytes.
func (img *Image) Data() []byte {
	return img.data
}

// Portable returns bytes that external recognizers can read: the original
// encoding for common raster formats, PNG otherwise.
func (img *Image) Portable() ([]byte, error) {
	switch img.Format {
	case "png", "jpeg", "tiff", "bmp", "gif":
		return img.data, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img.Pixels); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Decoder turns raw upload bytes into an Image. PDF mockups are rasterized
// at DPI; everything else goes through the registered image decoders.
type Decoder struct {
	DPI float64
}

// NewDecoder creates a decoder rasterizing PDF pages at dpi.
func NewDecoder(dpi int) *Decoder {
	if dpi <= 0 {
		dpi = 96
	}
	return &Decoder{DPI: float64(dpi)}
}

var defaultDecoder = NewDecoder(96)

// Decode decodes data with the default decoder.
func Decode(data []byte) (*Image, error) {
	return defaultDecoder.Decode(data)
}

// Open reads and decodes the file at path.
func Open(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (d *Decoder) Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	if isPDF(data) {
		pixels, err := renderPDF(data, d.DPI)
		if err != nil {
			return nil, &DecodeError{Format: "pdf", Err: err}
		}
		return newImage(pixels, "pdf", data), nil
	}

	pixels, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return newImage(pixels, format, data), nil
}

func newImage(pixels image.Image, format string, data []byte) *Image {
	b := pixels.Bounds()
	return &Image{
		Pixels:   pixels,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: channels(pixels.ColorModel()),
		Format:   format,
		data:     data,
	}
}

func channels(m color.Model) int {
	switch m {
	case color.GrayModel, color.Gray16Model, color.AlphaModel, color.Alpha16Model:
		return 1
	case color.YCbCrModel:
		return 3
	case color.CMYKModel:
		return 4
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model, color.NYCbCrAModel:
		return 4
	}
	if _, ok := m.(color.Palette); ok {
		return 3
	}
	return 4
}
