package storage

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/ivlev/sketch2html/internal/config"
)

// Handle identifies a saved upload.
type Handle struct {
	ID       string
	Location string
}

// Storage keeps uploaded mockups and generated documents outside the pipeline.
type Storage interface {
	// Save persists upload bytes and returns a handle to them.
	Save(ctx context.Context, data []byte) (Handle, error)
	// Write persists a generated document under name and returns its location.
	Write(ctx context.Context, name string, content string) (string, error)
}

// New creates a storage backend based on the storage config
func New(ctx context.Context, cfg config.Storage) (Storage, error) {
	switch cfg.Backend {
	case "local", "":
		return NewLocal(cfg.Dir)
	case "s3":
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

// uploadName picks a fresh object name for upload bytes, keeping an
// extension that matches the sniffed content type.
func uploadName(data []byte) (id, name string) {
	id = uuid.NewString()
	return id, id + extensionFor(http.DetectContentType(data))
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/bmp":
		return ".bmp"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	}
	return ".bin"
}

// cleanName strips directories so callers cannot escape the output prefix.
func cleanName(name string) (string, error) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		return "", fmt.Errorf("invalid output name: %q", name)
	}
	return base, nil
}
