package source

import (
	"bytes"
	"errors"
	"image"

	"github.com/gen2brain/go-fitz"
)

var pdfMagic = []byte("%PDF-")

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// renderPDF rasterizes the first page. Mockups exported from design tools
// are often single-page PDFs.
func renderPDF(data []byte, dpi float64) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, errors.New("pdf has no pages")
	}
	return doc.ImageDPI(0, dpi)
}
