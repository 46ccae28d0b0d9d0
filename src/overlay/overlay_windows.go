//go:build windows

package overlay

import (
	"context"
	"fmt"
	"image"
	"log"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"

	"screen-region-capture/src/geometry"
	"screen-region-capture/src/messages"
)

// winWindow implements Window with a raw Win32 overlay window. The message
// loop runs on its own locked OS thread; the queue carries input back to the
// core loop. Frames are converted to BGRA in Present and blitted in WM_PAINT
// through a DIB section.
type winWindow struct {
	queue  *messages.Queue
	width  int
	height int

	hwnd      win.HWND
	className *uint16

	mu    sync.Mutex
	bgra  []byte
	ready chan error
}

// The wndproc callback cannot carry instance state, so the live window is a
// package-level singleton, as with the usual Win32 class registration dance.
var (
	activeMu     sync.Mutex
	activeWindow *winWindow
)

func newPlatformWindow(queue *messages.Queue, width, height int) (Window, error) {
	return &winWindow{
		queue:  queue,
		width:  width,
		height: height,
		bgra:   make([]byte, width*height*4),
		ready:  make(chan error, 1),
	}, nil
}

func (w *winWindow) Start(ctx context.Context) error {
	activeMu.Lock()
	if activeWindow != nil {
		activeMu.Unlock()
		return fmt.Errorf("overlay: window already started")
	}
	activeWindow = w
	activeMu.Unlock()

	go w.messageLoop(ctx)

	select {
	case err := <-w.ready:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *winWindow) messageLoop(ctx context.Context) {
	// The window and its message queue must live on one thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	classNameStr := fmt.Sprintf("CaptureOverlay_%d", time.Now().UnixNano())
	w.className = syscall.StringToUTF16Ptr(classNameStr)
	cross := win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_CROSS))
	wndClass := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   syscall.NewCallback(overlayWndProc),
		HInstance:     win.GetModuleHandle(nil),
		HCursor:       cross,
		HbrBackground: 0, // we paint the whole client area ourselves
		LpszClassName: w.className,
	}
	if atom := win.RegisterClassEx(&wndClass); atom == 0 {
		w.ready <- fmt.Errorf("overlay: failed to register window class")
		return
	}
	defer win.UnregisterClass(w.className)

	// Created hidden; Show happens after a snapshot exists.
	w.hwnd = win.CreateWindowEx(
		win.WS_EX_TOPMOST,
		w.className,
		syscall.StringToUTF16Ptr("Screen Capture"),
		win.WS_POPUP,
		0, 0, int32(w.width), int32(w.height),
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if w.hwnd == 0 {
		w.ready <- fmt.Errorf("overlay: failed to create overlay window")
		return
	}
	log.Printf("OVERLAY: window created, hwnd=%v size=%dx%d", w.hwnd, w.width, w.height)
	w.ready <- nil

	var msg win.MSG
	for {
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 || ret == -1 {
			break
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
		select {
		case <-ctx.Done():
			win.DestroyWindow(w.hwnd)
			return
		default:
		}
	}
	win.DestroyWindow(w.hwnd)
}

func (w *winWindow) Show() {
	win.ShowWindow(w.hwnd, win.SW_SHOW)
	win.SetForegroundWindow(w.hwnd)
	win.BringWindowToTop(w.hwnd)
	win.SetFocus(w.hwnd)
	win.UpdateWindow(w.hwnd)
}

func (w *winWindow) Hide() {
	win.ShowWindow(w.hwnd, win.SW_HIDE)
}

func (w *winWindow) SetTitle(title string) {
	if w.hwnd == 0 {
		return
	}
	t, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return
	}
	win.SendMessage(w.hwnd, win.WM_SETTEXT, 0, uintptr(unsafe.Pointer(t)))
}

// Present converts the frame to BGRA into the window-owned buffer and asks
// for a repaint. The core loop keeps mutating the source frame, so the copy
// here is what keeps painting race-free.
func (w *winWindow) Present(frame *image.RGBA) error {
	if w.hwnd == 0 {
		return fmt.Errorf("overlay: window not started")
	}
	b := frame.Bounds()
	if b.Dx() != w.width || b.Dy() != w.height {
		return fmt.Errorf("overlay: frame size %dx%d does not match window %dx%d", b.Dx(), b.Dy(), w.width, w.height)
	}

	w.mu.Lock()
	src := frame.Pix
	dst := w.bgra
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i] = src[i+2]   // B
		dst[i+1] = src[i+1] // G
		dst[i+2] = src[i]   // R
		dst[i+3] = src[i+3] // A
	}
	w.mu.Unlock()

	win.InvalidateRect(w.hwnd, nil, false)
	win.UpdateWindow(w.hwnd)
	return nil
}

func (w *winWindow) Close() {
	if w.hwnd != 0 {
		win.PostMessage(w.hwnd, win.WM_CLOSE, 0, 0)
	}
	activeMu.Lock()
	if activeWindow == w {
		activeWindow = nil
	}
	activeMu.Unlock()
}

func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	activeMu.Lock()
	w := activeWindow
	activeMu.Unlock()
	if w == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	switch msg {
	case win.WM_LBUTTONDOWN:
		win.SetCapture(hwnd)
		w.queue.Push(messages.MouseDown{Pos: lParamPoint(lParam)})
		return 0

	case win.WM_MOUSEMOVE:
		w.queue.Push(messages.MouseMove{Pos: lParamPoint(lParam)})
		return 0

	case win.WM_LBUTTONUP:
		win.ReleaseCapture()
		w.queue.Push(messages.MouseUp{Pos: lParamPoint(lParam)})
		return 0

	case win.WM_KEYDOWN:
		if wParam == win.VK_ESCAPE {
			w.queue.Push(messages.KeyEscape{})
		}
		return 0

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		w.paint(hdc)
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_NCHITTEST:
		// Force all points to be client area so the window receives mouse events.
		return uintptr(win.HTCLIENT)

	case win.WM_CLOSE:
		win.DestroyWindow(hwnd)
		return 0

	case win.WM_DESTROY:
		win.PostQuitMessage(0)
		return 0
	}

	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

func lParamPoint(lParam uintptr) geometry.Point {
	x := int(int16(win.LOWORD(uint32(lParam))))
	y := int(int16(win.HIWORD(uint32(lParam))))
	return geometry.Point{X: x, Y: y}
}

// paint blits the BGRA frame through a DIB section.
func (w *winWindow) paint(hdc win.HDC) {
	memDC := win.CreateCompatibleDC(hdc)
	defer win.DeleteDC(memDC)

	bitmapInfo := win.BITMAPINFO{
		BmiHeader: win.BITMAPINFOHEADER{
			BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
			BiWidth:       int32(w.width),
			BiHeight:      -int32(w.height), // negative for top-down rows
			BiPlanes:      1,
			BiBitCount:    32,
			BiCompression: win.BI_RGB,
		},
	}

	var pBits unsafe.Pointer
	hBitmap := win.CreateDIBSection(memDC, &bitmapInfo.BmiHeader, win.DIB_RGB_COLORS, &pBits, 0, 0)
	if hBitmap == 0 {
		return
	}
	defer win.DeleteObject(win.HGDIOBJ(hBitmap))

	oldBitmap := win.SelectObject(memDC, win.HGDIOBJ(hBitmap))
	defer win.SelectObject(memDC, oldBitmap)

	w.mu.Lock()
	dst := unsafe.Slice((*byte)(pBits), len(w.bgra))
	copy(dst, w.bgra)
	w.mu.Unlock()

	win.BitBlt(hdc, 0, 0, int32(w.width), int32(w.height), memDC, 0, 0, win.SRCCOPY)
}
