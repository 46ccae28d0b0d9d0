package eventloop

import (
	"context"
	"log"
	"time"

	"screen-region-capture/src/clipboard"
	"screen-region-capture/src/compositor"
	"screen-region-capture/src/geometry"
	"screen-region-capture/src/messages"
	"screen-region-capture/src/notification"
	"screen-region-capture/src/overlay"
	"screen-region-capture/src/screenshot"
	"screen-region-capture/src/state"
	"screen-region-capture/src/trigger"
	"screen-region-capture/src/worker"
)

// Status titles shown in the overlay window title bar per state.
const (
	titleIdle      = "Screen Capture - Press Ctrl+Alt+D to capture screen, ESC to exit"
	titleCaptured  = "Screen captured - Click and drag to select region, ESC to cancel"
	titleRegion    = "Region selected - Press Ctrl+S to save, or click and drag to select sub-region, ESC to re-select"
	titleSubRegion = "Sub-region selected - Press Ctrl+S to save, ESC to re-select"
)

// settleDelay is how long the overlay stays hidden before the snapshot is
// taken, so the compositor never captures its own frame.
const settleDelay = 100 * time.Millisecond

// tickInterval drives render polling at roughly 60 Hz.
const tickInterval = 16 * time.Millisecond

// CaptureFunc takes the full-screen snapshot. Swappable in tests.
type CaptureFunc func() (*screenshot.Snapshot, error)

// Config wires the loop's collaborators. Window and Saver are required;
// Server is optional (nil disables remote triggering), Capture defaults to
// screenshot.Capture, SettleDelay/TickInterval default to the constants.
type Config struct {
	Window overlay.Window
	Saver  worker.Saver
	Server trigger.Server
	// Queue is the shared event queue. A fresh one is created when nil; main
	// passes the queue it already handed to the overlay and hotkey listener.
	Queue        *messages.Queue
	Capture      CaptureFunc
	SettleDelay  time.Duration
	TickInterval time.Duration
}

// Loop is the single-threaded coordinator. It owns the state machine and the
// compositor; every event, trigger request, and save result is applied from
// one goroutine so the machine never needs a lock.
type Loop struct {
	queue   *messages.Queue
	window  overlay.Window
	comp    *compositor.Compositor
	pool    *worker.Pool
	srv     trigger.Server
	capture CaptureFunc
	settle  time.Duration
	tick    time.Duration

	cur       state.State
	busy      bool
	lastTitle string
	lastStamp int64
	results   chan worker.Result
}

// New creates the loop. The returned queue is where hotkeys, the overlay,
// and the tray push their events.
func New(cfg Config) *Loop {
	capture := cfg.Capture
	if capture == nil {
		capture = screenshot.Capture
	}
	settle := cfg.SettleDelay
	if settle <= 0 {
		settle = settleDelay
	}
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = tickInterval
	}
	queue := cfg.Queue
	if queue == nil {
		queue = messages.NewQueue()
	}
	return &Loop{
		queue:   queue,
		window:  cfg.Window,
		comp:    compositor.New(),
		pool:    worker.New(0, cfg.Saver),
		srv:     cfg.Server,
		capture: capture,
		settle:  settle,
		tick:    tick,
		cur:     state.Idle{},
		results: make(chan worker.Result, 1),
	}
}

// Queue returns the event queue shared with the input sources.
func (l *Loop) Queue() *messages.Queue { return l.queue }

// State returns the current machine state. Only safe from the loop goroutine
// or after Run returns; tests use it between synchronous Step calls.
func (l *Loop) State() state.State { return l.cur }

// Busy reports whether a save job is in flight.
func (l *Loop) Busy() bool { return l.busy }

// TriggerCapture requests a capture session as if the capture hotkey fired.
// Safe from any goroutine (tray menu click, trigger server).
func (l *Loop) TriggerCapture() bool {
	return l.queue.Push(messages.HotkeyCapture{})
}

// Run drives the loop until ctx is cancelled. It starts the trigger accept
// goroutine when a server is configured and drains/renders on every tick.
func (l *Loop) Run(ctx context.Context) error {
	defer l.pool.Close()
	defer l.queue.Close()

	l.syncTitle()

	var reqCh chan trigger.Conn
	if l.srv != nil {
		reqCh = make(chan trigger.Conn, 4)
		go func() {
			defer close(reqCh)
			for {
				conn, err := l.srv.Next(ctx)
				if err != nil {
					return
				}
				reqCh <- conn
			}
		}()
	}

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		case conn, ok := <-reqCh:
			if !ok {
				reqCh = nil
				continue
			}
			l.handleConn(conn)
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

// Step drains the queue, applies every pending event, and renders one frame.
// Exposed so tests can drive the loop without the ticker.
func (l *Loop) Step() {
	for _, e := range l.queue.Poll() {
		l.apply(e)
	}
	select {
	case res := <-l.results:
		l.handleResult(res)
	default:
	}
	l.render()
}

func (l *Loop) apply(e messages.Event) {
	next, eff := state.Next(l.cur, e)

	switch eff.Kind {
	case state.EffectCapture:
		next = l.beginSession()
	case state.EffectSave:
		l.submitSave(next, eff.Rect)
	}

	if _, idle := next.(state.Idle); idle && l.comp.Active() {
		l.endSession()
	}

	l.cur = next
	l.syncTitle()
}

// beginSession hides the overlay, waits out the settle window, and takes the
// snapshot. Returns the state to enter: FullscreenCapture on success, Idle
// when no display surface is available.
func (l *Loop) beginSession() state.State {
	l.window.Hide()
	time.Sleep(l.settle)

	snap, err := l.capture()
	if err != nil {
		log.Printf("LOOP: capture failed: %v", err)
		notification.CaptureFailed(err)
		return state.Idle{}
	}

	log.Printf("LOOP: captured %dx%d", snap.Width, snap.Height)
	l.comp.BeginSession(snap.Image)
	l.window.Show()
	return state.FullscreenCapture{Snapshot: snap}
}

func (l *Loop) endSession() {
	l.comp.EndSession()
	l.window.Hide()
}

// submitSave hands the rect to the worker pool. next is the post-transition
// state and still carries the snapshot (saving never changes state).
func (l *Loop) submitSave(next state.State, rect geometry.Rect) {
	if l.busy {
		log.Printf("LOOP: save already in flight, ignoring")
		return
	}
	snap := snapshotOf(next)
	if snap == nil {
		log.Printf("LOOP: save requested with no snapshot in %s", state.Name(next))
		return
	}

	stamp := time.Now().UnixMilli()
	if stamp <= l.lastStamp {
		// Two saves inside one millisecond must not collide on disk.
		stamp = l.lastStamp + 1
	}
	l.lastStamp = stamp

	submitted := l.pool.Submit(snap, rect, stamp, func(r worker.Result) {
		l.results <- r
	})
	if submitted {
		l.busy = true
	} else {
		log.Printf("LOOP: worker queue full, save dropped")
	}
}

func (l *Loop) handleResult(res worker.Result) {
	l.busy = false
	if res.Err != nil {
		notification.SaveFailed(res.Err)
		return
	}
	if err := clipboard.WritePath(res.Path); err != nil {
		log.Printf("LOOP: clipboard write failed: %v", err)
	}
	notification.SaveSucceeded(res.Path)
}

func (l *Loop) handleConn(conn trigger.Conn) {
	defer conn.Close()
	if l.TriggerCapture() {
		_ = conn.RespondOK()
	} else {
		_ = conn.RespondError("shutting down")
	}
}

func (l *Loop) render() {
	if !l.comp.Active() {
		return
	}
	frame, redraw := l.comp.Compose(l.cur)
	if !redraw {
		return
	}
	if err := l.window.Present(frame); err != nil {
		log.Printf("LOOP: present failed: %v", err)
	}
}

func (l *Loop) syncTitle() {
	t := titleFor(l.cur)
	if t == l.lastTitle {
		return
	}
	l.lastTitle = t
	l.window.SetTitle(t)
}

func titleFor(s state.State) string {
	switch s.(type) {
	case state.FullscreenCapture, state.SelectingRegion:
		return titleCaptured
	case state.RegionSelected, state.SelectingSubRegion:
		return titleRegion
	case state.SubRegionSelected:
		return titleSubRegion
	}
	return titleIdle
}

func snapshotOf(s state.State) *screenshot.Snapshot {
	switch cur := s.(type) {
	case state.FullscreenCapture:
		return cur.Snapshot
	case state.SelectingRegion:
		return cur.Snapshot
	case state.RegionSelected:
		return cur.Snapshot
	case state.SelectingSubRegion:
		return cur.Snapshot
	case state.SubRegionSelected:
		return cur.Snapshot
	}
	return nil
}
