package messages

import (
	"screen-region-capture/src/geometry"
)

// Event is the base interface for all events entering the core loop.
type Event interface {
	Type() string
}

// Event type constants for identification and logging
const (
	TypeHotkeyCapture = "HotkeyCapture"
	TypeHotkeySave    = "HotkeySave"
	TypeMouseDown     = "MouseDown"
	TypeMouseMove     = "MouseMove"
	TypeMouseUp       = "MouseUp"
	TypeKeyEscape     = "KeyEscape"
)

// HotkeyCapture - sent by the hotkey listener (or tray/remote trigger) to
// start a new capture session.
type HotkeyCapture struct{}

func (e HotkeyCapture) Type() string { return TypeHotkeyCapture }

// HotkeySave - sent by the hotkey listener to save the current selection.
type HotkeySave struct{}

func (e HotkeySave) Type() string { return TypeHotkeySave }

// MouseDown - left button pressed over the overlay window.
type MouseDown struct {
	Pos geometry.Point
}

func (e MouseDown) Type() string { return TypeMouseDown }

// MouseMove - pointer moved over the overlay window.
type MouseMove struct {
	Pos geometry.Point
}

func (e MouseMove) Type() string { return TypeMouseMove }

// MouseUp - left button released over the overlay window.
type MouseUp struct {
	Pos geometry.Point
}

func (e MouseUp) Type() string { return TypeMouseUp }

// KeyEscape - ESC pressed over the overlay window.
type KeyEscape struct{}

func (e KeyEscape) Type() string { return TypeKeyEscape }
