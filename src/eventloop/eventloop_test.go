package eventloop

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"screen-region-capture/src/geometry"
	"screen-region-capture/src/messages"
	"screen-region-capture/src/screenshot"
	"screen-region-capture/src/state"
)

type fakeWindow struct {
	mu       sync.Mutex
	shows    int
	hides    int
	titles   []string
	presents int
}

func (w *fakeWindow) Start(ctx context.Context) error { return nil }

func (w *fakeWindow) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shows++
}

func (w *fakeWindow) Hide() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hides++
}

func (w *fakeWindow) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.titles = append(w.titles, title)
}

func (w *fakeWindow) Present(frame *image.RGBA) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.presents++
	return nil
}

func (w *fakeWindow) Close() {}

func (w *fakeWindow) lastTitle() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.titles) == 0 {
		return ""
	}
	return w.titles[len(w.titles)-1]
}

func (w *fakeWindow) counts() (shows, hides, presents int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shows, w.hides, w.presents
}

type savedCall struct {
	rect      geometry.Rect
	timestamp int64
}

type fakeSaver struct {
	mu    sync.Mutex
	calls []savedCall
	err   error
	block chan struct{}
}

func (s *fakeSaver) Save(snap *screenshot.Snapshot, rect geometry.Rect, timestamp int64) (string, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	s.calls = append(s.calls, savedCall{rect: rect, timestamp: timestamp})
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return "/tmp/out.webp", nil
}

func (s *fakeSaver) saved() []savedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]savedCall, len(s.calls))
	copy(out, s.calls)
	return out
}

func testSnapshot(w, h int) *screenshot.Snapshot {
	return &screenshot.Snapshot{Image: image.NewRGBA(image.Rect(0, 0, w, h)), Width: w, Height: h}
}

func newTestLoop(t *testing.T, saver *fakeSaver, capture CaptureFunc) (*Loop, *fakeWindow) {
	t.Helper()
	win := &fakeWindow{}
	if capture == nil {
		capture = func() (*screenshot.Snapshot, error) { return testSnapshot(100, 100), nil }
	}
	l := New(Config{
		Window:      win,
		Saver:       saver,
		Capture:     capture,
		SettleDelay: time.Millisecond,
	})
	return l, win
}

// waitIdle steps the loop until the in-flight save completes.
func waitIdle(t *testing.T, l *Loop) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for l.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("save never completed")
		}
		time.Sleep(time.Millisecond)
		l.Step()
	}
}

func TestCaptureEntersSession(t *testing.T) {
	l, win := newTestLoop(t, &fakeSaver{}, nil)

	l.Queue().Push(messages.HotkeyCapture{})
	l.Step()

	fs, ok := l.State().(state.FullscreenCapture)
	if !ok {
		t.Fatalf("state = %s, want FullscreenCapture", state.Name(l.State()))
	}
	if fs.Snapshot == nil {
		t.Fatal("snapshot not installed after capture")
	}
	shows, hides, presents := win.counts()
	if hides == 0 {
		t.Error("overlay was not hidden before the snapshot")
	}
	if shows == 0 {
		t.Error("overlay was not shown after the snapshot")
	}
	if presents == 0 {
		t.Error("no frame presented after entering the session")
	}
	if got := win.lastTitle(); got != titleCaptured {
		t.Errorf("title = %q, want %q", got, titleCaptured)
	}
}

func TestCaptureFailureReturnsToIdle(t *testing.T) {
	l, win := newTestLoop(t, &fakeSaver{}, func() (*screenshot.Snapshot, error) {
		return nil, screenshot.ErrCaptureUnavailable
	})

	l.Queue().Push(messages.HotkeyCapture{})
	l.Step()

	if _, ok := l.State().(state.Idle); !ok {
		t.Errorf("state = %s, want Idle after capture failure", state.Name(l.State()))
	}
	shows, _, _ := win.counts()
	if shows != 0 {
		t.Error("overlay shown despite capture failure")
	}
}

func dragRegion(l *Loop, a, b geometry.Point) {
	l.Queue().Push(messages.MouseDown{Pos: a})
	l.Queue().Push(messages.MouseMove{Pos: b})
	l.Queue().Push(messages.MouseUp{Pos: b})
	l.Step()
}

func TestSelectionAndSave(t *testing.T) {
	saver := &fakeSaver{}
	l, win := newTestLoop(t, saver, nil)

	l.Queue().Push(messages.HotkeyCapture{})
	l.Step()
	dragRegion(l, geometry.Point{X: 10, Y: 10}, geometry.Point{X: 50, Y: 60})

	rs, ok := l.State().(state.RegionSelected)
	if !ok {
		t.Fatalf("state = %s, want RegionSelected", state.Name(l.State()))
	}
	want := geometry.Rect{X: 10, Y: 10, Width: 40, Height: 50}
	if rs.Region != want {
		t.Fatalf("region = %+v, want %+v", rs.Region, want)
	}
	if got := win.lastTitle(); got != titleRegion {
		t.Errorf("title = %q, want %q", got, titleRegion)
	}

	l.Queue().Push(messages.HotkeySave{})
	l.Step()
	waitIdle(t, l)

	calls := saver.saved()
	if len(calls) != 1 {
		t.Fatalf("saver calls = %d, want 1", len(calls))
	}
	if calls[0].rect != want {
		t.Errorf("saved rect = %+v, want %+v", calls[0].rect, want)
	}
	// Saving leaves the selection in place for further saves.
	if _, ok := l.State().(state.RegionSelected); !ok {
		t.Errorf("state = %s after save, want RegionSelected", state.Name(l.State()))
	}
}

func TestSubRegionSaveUsesSubRect(t *testing.T) {
	saver := &fakeSaver{}
	l, _ := newTestLoop(t, saver, nil)

	l.Queue().Push(messages.HotkeyCapture{})
	l.Step()
	dragRegion(l, geometry.Point{X: 10, Y: 10}, geometry.Point{X: 90, Y: 90})
	dragRegion(l, geometry.Point{X: 20, Y: 20}, geometry.Point{X: 40, Y: 50})

	if _, ok := l.State().(state.SubRegionSelected); !ok {
		t.Fatalf("state = %s, want SubRegionSelected", state.Name(l.State()))
	}

	l.Queue().Push(messages.HotkeySave{})
	l.Step()
	waitIdle(t, l)

	calls := saver.saved()
	if len(calls) != 1 {
		t.Fatalf("saver calls = %d, want 1", len(calls))
	}
	want := geometry.Rect{X: 20, Y: 20, Width: 20, Height: 30}
	if calls[0].rect != want {
		t.Errorf("saved rect = %+v, want sub-region %+v", calls[0].rect, want)
	}
}

func TestSaveWhileBusyIsDropped(t *testing.T) {
	saver := &fakeSaver{block: make(chan struct{})}
	l, _ := newTestLoop(t, saver, nil)

	l.Queue().Push(messages.HotkeyCapture{})
	l.Step()
	dragRegion(l, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 50, Y: 50})

	l.Queue().Push(messages.HotkeySave{})
	l.Step()
	if !l.Busy() {
		t.Fatal("loop not busy after submitting a save")
	}

	l.Queue().Push(messages.HotkeySave{})
	l.Step()

	close(saver.block)
	waitIdle(t, l)

	if got := len(saver.saved()); got != 1 {
		t.Errorf("saver calls = %d, want 1 (second save dropped while busy)", got)
	}
}

func TestSaveTimestampsStrictlyIncrease(t *testing.T) {
	saver := &fakeSaver{}
	l, _ := newTestLoop(t, saver, nil)

	l.Queue().Push(messages.HotkeyCapture{})
	l.Step()
	dragRegion(l, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 30, Y: 30})

	for i := 0; i < 3; i++ {
		l.Queue().Push(messages.HotkeySave{})
		l.Step()
		waitIdle(t, l)
	}

	calls := saver.saved()
	if len(calls) != 3 {
		t.Fatalf("saver calls = %d, want 3", len(calls))
	}
	for i := 1; i < len(calls); i++ {
		if calls[i].timestamp <= calls[i-1].timestamp {
			t.Errorf("timestamp[%d] = %d not greater than timestamp[%d] = %d",
				i, calls[i].timestamp, i-1, calls[i-1].timestamp)
		}
	}
}

func TestSaveFailureKeepsSelection(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	l, _ := newTestLoop(t, saver, nil)

	l.Queue().Push(messages.HotkeyCapture{})
	l.Step()
	dragRegion(l, geometry.Point{X: 5, Y: 5}, geometry.Point{X: 25, Y: 25})

	l.Queue().Push(messages.HotkeySave{})
	l.Step()
	waitIdle(t, l)

	if _, ok := l.State().(state.RegionSelected); !ok {
		t.Errorf("state = %s after failed save, want RegionSelected", state.Name(l.State()))
	}
}

func TestEscapeBackToIdleHidesOverlay(t *testing.T) {
	l, win := newTestLoop(t, &fakeSaver{}, nil)

	l.Queue().Push(messages.HotkeyCapture{})
	l.Step()
	_, hidesBefore, _ := win.counts()

	l.Queue().Push(messages.KeyEscape{})
	l.Step()

	if _, ok := l.State().(state.Idle); !ok {
		t.Fatalf("state = %s, want Idle", state.Name(l.State()))
	}
	_, hidesAfter, _ := win.counts()
	if hidesAfter <= hidesBefore {
		t.Error("overlay not hidden on return to Idle")
	}
	if got := win.lastTitle(); got != titleIdle {
		t.Errorf("title = %q, want %q", got, titleIdle)
	}
}

func TestCaptureHotkeyIgnoredMidSession(t *testing.T) {
	capCount := 0
	l, _ := newTestLoop(t, &fakeSaver{}, func() (*screenshot.Snapshot, error) {
		capCount++
		return testSnapshot(100, 100), nil
	})

	l.Queue().Push(messages.HotkeyCapture{})
	l.Step()
	l.Queue().Push(messages.HotkeyCapture{})
	l.Step()

	if capCount != 1 {
		t.Errorf("capture invoked %d times, want 1", capCount)
	}
}

func TestTriggerCaptureEnqueues(t *testing.T) {
	l, _ := newTestLoop(t, &fakeSaver{}, nil)

	if !l.TriggerCapture() {
		t.Fatal("TriggerCapture returned false on open queue")
	}
	l.Step()
	if _, ok := l.State().(state.FullscreenCapture); !ok {
		t.Errorf("state = %s, want FullscreenCapture", state.Name(l.State()))
	}
}
