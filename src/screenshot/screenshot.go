package screenshot

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ErrCaptureUnavailable is returned when no display surface can be read.
// The core loop treats it as terminal for the session and returns to Idle.
var ErrCaptureUnavailable = errors.New("no display surface available")

// Snapshot is one immutable full-screen pixel buffer. It is owned by the
// core loop for the lifetime of a single capture session and is never
// re-captured mid-session.
type Snapshot struct {
	Image  *image.RGBA
	Width  int
	Height int
}

// PrimaryBounds returns the bounds of the primary display.
func PrimaryBounds() (image.Rectangle, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return image.Rectangle{}, ErrCaptureUnavailable
	}
	return screenshot.GetDisplayBounds(0), nil
}

// Capture grabs the primary display into a new Snapshot.
func Capture() (*Snapshot, error) {
	bounds, err := PrimaryBounds()
	if err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	return &Snapshot{
		Image:  img,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}
