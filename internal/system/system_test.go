package system

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestImage(t *testing.T) {
	dir := t.TempDir()

	files := []string{"home.png", "pricing.jpg", "notes.txt", "about.webp"}
	for i, name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(path, modTime, modTime)
	}

	latest, err := FindLatestImage(dir)
	if err != nil {
		t.Fatalf("FindLatestImage failed: %v", err)
	}

	// notes.txt is newer than pricing.jpg but not an image
	if filepath.Base(latest) != "about.webp" {
		t.Errorf("Expected about.webp, got %s", latest)
	}
}

func TestFindLatestImageEmpty(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0644)

	if _, err := FindLatestImage(dir); err == nil {
		t.Error("Expected error for directory without images")
	}
}

func TestIsImagePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"mockup.PNG", true},
		{"mockup.jpeg", true},
		{"export.pdf", true},
		{"scan.tiff", true},
		{"mockup.psd", false},
		{"mockup", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsImagePath(tt.path); got != tt.want {
				t.Errorf("IsImagePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCheckImageBudget(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 100, 50))); err != nil {
		t.Fatal(err)
	}

	if err := CheckImageBudget(buf.Bytes(), 5000); err != nil {
		t.Errorf("Image at budget should pass: %v", err)
	}

	err := CheckImageBudget(buf.Bytes(), 4999)
	if !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("Expected ErrImageTooLarge, got %v", err)
	}

	if err := CheckImageBudget([]byte("garbage"), 1); err != nil {
		t.Errorf("Unreadable header should pass through, got %v", err)
	}
}

func TestPixelBudgetFromMemory(t *testing.T) {
	budget, err := PixelBudget(0)
	if err != nil {
		t.Skipf("memory stats unavailable: %v", err)
	}
	if budget <= 0 {
		t.Errorf("Expected positive budget, got %d", budget)
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := NewLogger("debug", true); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if _, err := NewLogger("loud", false); err == nil {
		t.Error("Expected error for unknown level")
	}
}
