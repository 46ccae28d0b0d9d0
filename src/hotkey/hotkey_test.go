package hotkey

import (
	"context"
	"os"
	"testing"
	"time"

	"screen-region-capture/src/messages"
)

func TestCombosAreFixed(t *testing.T) {
	if CaptureCombo != "Ctrl+Alt+D" {
		t.Errorf("Expected capture combo Ctrl+Alt+D, got %s", CaptureCombo)
	}
	if SaveCombo != "Ctrl+S" {
		t.Errorf("Expected save combo Ctrl+S, got %s", SaveCombo)
	}
}

// TestRegisterRoundTrip needs a real display session and OS hotkey support;
// gate it behind an env var like other interactive tests.
func TestRegisterRoundTrip(t *testing.T) {
	if os.Getenv("HOTKEY_INTERACTIVE_TEST") == "" {
		t.Skip("Skipping interactive hotkey test; set HOTKEY_INTERACTIVE_TEST=1 to run")
	}

	q := messages.NewQueue()
	l := New(q)
	if err := l.Register(); err != nil {
		t.Fatalf("Failed to register hotkeys: %v", err)
	}
	defer l.Unregister()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.Start(ctx)

	t.Logf("Press %s within 5 seconds...", CaptureCombo)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, e := range q.Poll() {
			if e.Type() == messages.TypeHotkeyCapture {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("No capture hotkey event observed")
}
