package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Local stores files below a directory: uploads/ for inputs, outputs/ for documents.
type Local struct {
	dir string
}

// NewLocal creates the directory layout under dir.
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, fmt.Errorf("local storage directory not set")
	}
	for _, d := range []string{"uploads", "outputs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Save(ctx context.Context, data []byte) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}

	id, name := uploadName(data)
	path := filepath.Join(l.dir, "uploads", name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Handle{}, fmt.Errorf("save upload: %w", err)
	}
	return Handle{ID: id, Location: path}, nil
}

func (l *Local) Write(ctx context.Context, name string, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base, err := cleanName(name)
	if err != nil {
		return "", err
	}

	path := filepath.Join(l.dir, "outputs", base)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return path, nil
}
