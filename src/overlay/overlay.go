package overlay

import (
	"context"
	"image"

	"screen-region-capture/src/messages"
)

// Window is the borderless full-screen display sink for the capture overlay
// and the source of pointer/escape input. It translates raw window events
// 1:1 into queue events and holds no application state; frames arrive from
// the core loop once per tick via Present.
type Window interface {
	// Start launches the platform window loop on its own thread. The window
	// starts hidden.
	Start(ctx context.Context) error
	// Show makes the overlay visible and focused.
	Show()
	// Hide removes the overlay from the screen (used while Idle and during
	// the capture settle window so the overlay never appears in its own
	// snapshot).
	Hide()
	// SetTitle updates the status line shown in the window title.
	SetTitle(title string)
	// Present blits one full-screen frame. Presentation failure is logged by
	// the caller and dropped, never fatal.
	Present(frame *image.RGBA) error
	// Close tears the window down.
	Close()
}

// New returns the platform overlay implementation for a screen of the given
// pixel size, pushing input events onto queue.
func New(queue *messages.Queue, width, height int) (Window, error) {
	return newPlatformWindow(queue, width, height)
}
