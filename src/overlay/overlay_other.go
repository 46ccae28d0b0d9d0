//go:build !windows

package overlay

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"runtime"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"screen-region-capture/src/geometry"
	"screen-region-capture/src/messages"
)

// fyneWindow implements Window with a borderless full-screen fyne window.
// The overlay surface is a custom widget whose pointer callbacks feed the
// event queue; frames render through a canvas image backed by a copy of the
// presented buffer.
type fyneWindow struct {
	queue  *messages.Queue
	width  int
	height int

	app     fyne.App
	win     fyne.Window
	surface *overlaySurface

	mu    sync.Mutex
	frame *image.RGBA
	ready chan struct{}
}

func newPlatformWindow(queue *messages.Queue, width, height int) (Window, error) {
	return &fyneWindow{
		queue:  queue,
		width:  width,
		height: height,
		frame:  image.NewRGBA(image.Rect(0, 0, width, height)),
		ready:  make(chan struct{}),
	}, nil
}

func (w *fyneWindow) Start(ctx context.Context) error {
	go func() {
		runtime.LockOSThread()

		w.app = app.New()
		w.win = w.app.NewWindow("Screen Capture")

		w.surface = &overlaySurface{queue: w.queue, img: canvas.NewImageFromImage(w.frame)}
		w.surface.img.ScaleMode = canvas.ImageScalePixels
		w.surface.ExtendBaseWidget(w.surface)

		w.win.SetContent(w.surface)
		w.win.SetPadded(false)
		w.win.SetFullScreen(true)
		w.win.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
			if k.Name == fyne.KeyEscape {
				w.queue.Push(messages.KeyEscape{})
			}
		})

		close(w.ready)
		// Run blocks for the lifetime of the app; Close stops it.
		w.app.Run()
	}()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *fyneWindow) Show() {
	fyne.Do(func() { w.win.Show() })
}

func (w *fyneWindow) Hide() {
	fyne.Do(func() { w.win.Hide() })
}

func (w *fyneWindow) SetTitle(title string) {
	fyne.Do(func() { w.win.SetTitle(title) })
}

func (w *fyneWindow) Present(frame *image.RGBA) error {
	b := frame.Bounds()
	if b.Dx() != w.width || b.Dy() != w.height {
		return fmt.Errorf("overlay: frame size %dx%d does not match window %dx%d", b.Dx(), b.Dy(), w.width, w.height)
	}

	// Copy out of the loop-owned buffer before handing it to the render thread.
	w.mu.Lock()
	draw.Draw(w.frame, w.frame.Bounds(), frame, b.Min, draw.Src)
	w.mu.Unlock()

	fyne.Do(func() { w.surface.img.Refresh() })
	return nil
}

func (w *fyneWindow) Close() {
	fyne.Do(func() { w.app.Quit() })
}

// overlaySurface is the full-screen widget translating pointer activity into
// queue events.
type overlaySurface struct {
	widget.BaseWidget
	queue *messages.Queue
	img   *canvas.Image
}

func (s *overlaySurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.img)
}

func (s *overlaySurface) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		s.queue.Push(messages.MouseDown{Pos: eventPoint(e)})
	}
}

func (s *overlaySurface) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		s.queue.Push(messages.MouseUp{Pos: eventPoint(e)})
	}
}

func (s *overlaySurface) MouseIn(e *desktop.MouseEvent) {}

func (s *overlaySurface) MouseMoved(e *desktop.MouseEvent) {
	s.queue.Push(messages.MouseMove{Pos: eventPoint(e)})
}

func (s *overlaySurface) MouseOut() {}

func eventPoint(e *desktop.MouseEvent) geometry.Point {
	return geometry.Point{X: int(e.Position.X), Y: int(e.Position.Y)}
}
