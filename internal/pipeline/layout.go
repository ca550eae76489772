package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LayoutVersion is written into every exported layout.
const LayoutVersion = "1.0"

// WriteLayout writes a layout to a YAML file
func WriteLayout(layout *Layout, path string) error {
	data, err := yaml.Marshal(layout)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadLayout reads a layout from a YAML file and checks its regions against
// the recorded image size.
func ReadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", path, err)
	}

	if layout.Version != "" && layout.Version != LayoutVersion {
		return nil, fmt.Errorf("unsupported layout version %q", layout.Version)
	}
	for i, r := range layout.Regions {
		if r.X < 0 || r.Y < 0 || r.W < 1 || r.H < 1 {
			return nil, fmt.Errorf("region %d: invalid box %v", i, r)
		}
		if layout.Width > 0 && layout.Height > 0 && (r.X+r.W > layout.Width || r.Y+r.H > layout.Height) {
			return nil, fmt.Errorf("region %d: %v outside %dx%d image", i, r, layout.Width, layout.Height)
		}
	}

	return &layout, nil
}
