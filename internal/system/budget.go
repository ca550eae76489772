package system

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/shirou/gopsutil/v3/mem"
)

// ErrImageTooLarge is returned when an image exceeds the pixel budget.
var ErrImageTooLarge = errors.New("image too large")

// bytesPerPixel approximates peak memory per pixel during a conversion:
// RGBA decode, grayscale copy, mask, visited and outside bitmaps, plus the
// recognizer's own copy.
const bytesPerPixel = 16

// PixelBudget returns maxPixels when set, otherwise a quarter of the
// currently available memory expressed in pixels.
func PixelBudget(maxPixels int64) (int64, error) {
	if maxPixels > 0 {
		return maxPixels, nil
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("read memory stats: %w", err)
	}
	return int64(vm.Available/4) / bytesPerPixel, nil
}

// CheckImageBudget rejects images whose header declares more pixels than the
// budget allows. Bytes without a readable header pass through so that the
// decoder can report them properly.
func CheckImageBudget(data []byte, maxPixels int64) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	budget, err := PixelBudget(maxPixels)
	if err != nil {
		return err
	}

	pixels := int64(cfg.Width) * int64(cfg.Height)
	if pixels > budget {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, budget)
	}
	return nil
}
