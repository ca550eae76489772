package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/sketch2html/internal/analyzer"
)

func TestWriteReadLayout(t *testing.T) {
	p := newTestPipeline(t, &fakeExtractor{text: "Pricing"})
	layout, err := p.Analyze(context.Background(), squarePNG(t))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := WriteLayout(layout, path); err != nil {
		t.Fatalf("WriteLayout failed: %v", err)
	}

	got, err := ReadLayout(path)
	if err != nil {
		t.Fatalf("ReadLayout failed: %v", err)
	}
	if got.Markup() != layout.Markup() {
		t.Error("Document from stored layout differs")
	}
}

func TestReadLayoutInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "regions: ["},
		{"version", "version: \"9\"\n"},
		{"negative", "regions:\n  - {x: -1, y: 0, w: 2, h: 2}\n"},
		{"empty box", "regions:\n  - {x: 0, y: 0, w: 0, h: 2}\n"},
		{"out of bounds", "width: 10\nheight: 10\nregions:\n  - {x: 5, y: 5, w: 6, h: 2}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "layout.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := ReadLayout(path); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestReadLayoutHandWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	content := "text: Hello\nregions:\n  - {x: 10, y: 10, w: 20, h: 20}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	layout, err := ReadLayout(path)
	if err != nil {
		t.Fatalf("ReadLayout failed: %v", err)
	}
	if len(layout.Regions) != 1 || layout.Regions[0] != (analyzer.Region{X: 10, Y: 10, W: 20, H: 20}) {
		t.Errorf("Unexpected regions %v", layout.Regions)
	}
}
