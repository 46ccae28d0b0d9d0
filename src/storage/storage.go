package storage

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"

	"screen-region-capture/src/geometry"
	"screen-region-capture/src/screenshot"
)

// Image formats supported for saved captures.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
)

// Store writes selected pixels under the configured root directory using the
// geometry-encoded path layout:
//
//	W{screenW}H{screenH}/screenshot_{timestamp}_Lx{x}Ty{y}W{w}H{h}.{ext}
//
// The rectangle is the one being saved (region or sub-region) in absolute
// screen coordinates; timestamps are Unix epoch milliseconds so names sort
// lexically in capture order.
type Store struct {
	root   string
	format string
}

// New creates a Store. Unknown formats fall back to WebP.
func New(root, format string) *Store {
	if format != FormatPNG {
		format = FormatWebP
	}
	return &Store{root: root, format: format}
}

// Format returns the effective image format extension.
func (s *Store) Format() string { return s.format }

// OutputPath computes the relative save path for a rectangle. Must stay
// bit-exact: downstream tooling parses the geometry back out of the name.
func OutputPath(screenW, screenH int, rect geometry.Rect, timestamp int64, ext string) string {
	dir := fmt.Sprintf("W%dH%d", screenW, screenH)
	name := fmt.Sprintf("screenshot_%d_Lx%dTy%dW%dH%d.%s",
		timestamp, rect.X, rect.Y, rect.Width, rect.Height, ext)
	return filepath.Join(dir, name)
}

// Save crops rect out of the snapshot, encodes it, and writes it to disk.
// It returns the absolute path of the written file.
func (s *Store) Save(snap *screenshot.Snapshot, rect geometry.Rect, timestamp int64) (string, error) {
	if snap == nil || snap.Image == nil {
		return "", fmt.Errorf("storage: nil snapshot")
	}
	if rect.Width < 1 || rect.Height < 1 {
		return "", fmt.Errorf("storage: invalid rect %+v", rect)
	}

	cropped := crop(snap.Image, rect)

	rel := OutputPath(snap.Width, snap.Height, rect, timestamp, s.format)
	path := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("storage: create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close()

	switch s.format {
	case FormatPNG:
		err = png.Encode(f, cropped)
	default:
		// Lossless WebP, matching the original output format.
		err = nativewebp.Encode(f, cropped, nil)
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("storage: encode %s: %w", s.format, err)
	}

	return path, nil
}

// crop copies rect out of img into a fresh buffer. The copy detaches the
// save job from the session snapshot, which the core loop may release while
// the encode is still running on a worker.
func crop(img *image.RGBA, rect geometry.Rect) *image.RGBA {
	bounds := image.Rect(rect.X, rect.Y, rect.Right(), rect.Bottom()).Intersect(img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	return out
}
