package hotkey

import (
	"context"
	"fmt"
	"log"

	"golang.design/x/hotkey"

	"screen-region-capture/src/messages"
)

// Fixed global combinations. Keybindings are deliberately not configurable.
const (
	CaptureCombo = "Ctrl+Alt+D"
	SaveCombo    = "Ctrl+S"
)

// Listener registers the two global hotkeys with the OS and translates key
// notifications 1:1 into events on the queue. It holds no application state;
// all semantics live in the state machine.
type Listener struct {
	queue   *messages.Queue
	capture *hotkey.Hotkey
	save    *hotkey.Hotkey
}

func New(queue *messages.Queue) *Listener {
	return &Listener{queue: queue}
}

// Register registers both combinations with the OS. Registration failure is
// fatal at startup: there is no degraded mode without hotkeys.
func (l *Listener) Register() error {
	capture := hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModAlt}, hotkey.KeyD)
	if err := capture.Register(); err != nil {
		return fmt.Errorf("hotkey: register %s: %w", CaptureCombo, err)
	}
	save := hotkey.New([]hotkey.Modifier{hotkey.ModCtrl}, hotkey.KeyS)
	if err := save.Register(); err != nil {
		_ = capture.Unregister()
		return fmt.Errorf("hotkey: register %s: %w", SaveCombo, err)
	}
	l.capture = capture
	l.save = save
	log.Printf("HOTKEY: registered %s (capture) and %s (save)", CaptureCombo, SaveCombo)
	return nil
}

// Start launches the listener goroutines. They exit when ctx is cancelled or
// the queue is closed.
func (l *Listener) Start(ctx context.Context) {
	go l.listen(ctx, l.capture, func() messages.Event { return messages.HotkeyCapture{} })
	go l.listen(ctx, l.save, func() messages.Event { return messages.HotkeySave{} })
}

func (l *Listener) listen(ctx context.Context, hk *hotkey.Hotkey, make func() messages.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hk.Keydown():
			if !l.queue.Push(make()) {
				// Queue closed: the core loop is gone.
				return
			}
		}
	}
}

// Unregister releases both OS registrations.
func (l *Listener) Unregister() {
	if l.capture != nil {
		_ = l.capture.Unregister()
	}
	if l.save != nil {
		_ = l.save.Unregister()
	}
}
