package state

import (
	"screen-region-capture/src/geometry"
	"screen-region-capture/src/messages"
	"screen-region-capture/src/screenshot"
)

// State is the closed set of capture-session states. Exactly one State value
// is live at a time; it is owned by the core loop and changes only through
// Next. The variants form a tagged union checked with a type switch so every
// state/event pair is handled explicitly.
type State interface {
	isState()
}

// Idle - no capture session in progress, overlay hidden.
type Idle struct{}

// FullscreenCapture - snapshot taken, waiting for the first drag.
type FullscreenCapture struct {
	Snapshot *screenshot.Snapshot
}

// SelectingRegion - dragging out the region (red) rectangle.
type SelectingRegion struct {
	Snapshot *screenshot.Snapshot
	Anchor   geometry.Point
	Cursor   geometry.Point
}

// RegionSelected - region finalized; saving or a sub-region drag may follow.
type RegionSelected struct {
	Snapshot *screenshot.Snapshot
	Region   geometry.Rect
}

// SelectingSubRegion - dragging out the sub-region (green) rectangle inside
// the region. Cursor is always clamped to the region bounds.
type SelectingSubRegion struct {
	Snapshot *screenshot.Snapshot
	Region   geometry.Rect
	Anchor   geometry.Point
	Cursor   geometry.Point
}

// SubRegionSelected - sub-region finalized, fully contained in Region.
type SubRegionSelected struct {
	Snapshot  *screenshot.Snapshot
	Region    geometry.Rect
	SubRegion geometry.Rect
}

func (Idle) isState()               {}
func (FullscreenCapture) isState()  {}
func (SelectingRegion) isState()    {}
func (RegionSelected) isState()     {}
func (SelectingSubRegion) isState() {}
func (SubRegionSelected) isState()  {}

// EffectKind identifies the side effect the core loop must carry out after
// a transition. The machine itself never touches capture or persistence.
type EffectKind int

const (
	EffectNone EffectKind = iota
	// EffectCapture - take a full-screen snapshot and enter the session.
	EffectCapture
	// EffectSave - persist the pixels inside Rect (absolute coordinates).
	EffectSave
)

// Effect is the declarative instruction returned alongside the next state.
type Effect struct {
	Kind EffectKind
	Rect geometry.Rect
}

// Next is the pure, total transition function. Any state/event pair not in
// the transition table returns the state unchanged with no effect.
func Next(s State, e messages.Event) (State, Effect) {
	switch cur := s.(type) {
	case Idle:
		if _, ok := e.(messages.HotkeyCapture); ok {
			// The loop fills in the snapshot once the capture succeeds.
			return FullscreenCapture{}, Effect{Kind: EffectCapture}
		}

	case FullscreenCapture:
		switch ev := e.(type) {
		case messages.MouseDown:
			return SelectingRegion{Snapshot: cur.Snapshot, Anchor: ev.Pos, Cursor: ev.Pos}, Effect{}
		case messages.KeyEscape:
			return Idle{}, Effect{}
		}

	case SelectingRegion:
		switch ev := e.(type) {
		case messages.MouseMove:
			// Mouse capture can report positions outside the screen; the
			// region may never extend past the snapshot.
			cur.Cursor = snapshotBounds(cur.Snapshot).ClampPoint(ev.Pos)
			return cur, Effect{}
		case messages.MouseUp:
			end := snapshotBounds(cur.Snapshot).ClampPoint(ev.Pos)
			region := geometry.RectFromCorners(cur.Anchor, end)
			if region.Area() == 0 {
				// Degenerate drag: revert to the pre-drag state.
				return FullscreenCapture{Snapshot: cur.Snapshot}, Effect{}
			}
			return RegionSelected{Snapshot: cur.Snapshot, Region: region}, Effect{}
		case messages.KeyEscape:
			return FullscreenCapture{Snapshot: cur.Snapshot}, Effect{}
		}

	case RegionSelected:
		switch ev := e.(type) {
		case messages.HotkeySave:
			return cur, Effect{Kind: EffectSave, Rect: cur.Region}
		case messages.MouseDown:
			if !cur.Region.Contains(ev.Pos) {
				return cur, Effect{}
			}
			return SelectingSubRegion{Snapshot: cur.Snapshot, Region: cur.Region, Anchor: ev.Pos, Cursor: ev.Pos}, Effect{}
		case messages.KeyEscape:
			return FullscreenCapture{Snapshot: cur.Snapshot}, Effect{}
		}

	case SelectingSubRegion:
		switch ev := e.(type) {
		case messages.MouseMove:
			// Clamp on every move so the rendered feedback never overshoots
			// the region, not only at release.
			cur.Cursor = cur.Region.ClampPoint(ev.Pos)
			return cur, Effect{}
		case messages.MouseUp:
			end := cur.Region.ClampPoint(ev.Pos)
			sub := geometry.RectFromCorners(cur.Anchor, end).Intersect(cur.Region)
			if sub.Area() == 0 {
				return RegionSelected{Snapshot: cur.Snapshot, Region: cur.Region}, Effect{}
			}
			return SubRegionSelected{Snapshot: cur.Snapshot, Region: cur.Region, SubRegion: sub}, Effect{}
		case messages.KeyEscape:
			return RegionSelected{Snapshot: cur.Snapshot, Region: cur.Region}, Effect{}
		}

	case SubRegionSelected:
		switch e.(type) {
		case messages.HotkeySave:
			return cur, Effect{Kind: EffectSave, Rect: cur.SubRegion}
		case messages.KeyEscape:
			return RegionSelected{Snapshot: cur.Snapshot, Region: cur.Region}, Effect{}
		}
	}

	return s, Effect{}
}

// snapshotBounds returns the screen rectangle covered by snap. A nil
// snapshot yields an unbounded rect so Next stays total before the loop
// installs one.
func snapshotBounds(snap *screenshot.Snapshot) geometry.Rect {
	if snap == nil {
		const big = 1 << 28
		return geometry.Rect{X: -big, Y: -big, Width: 2 * big, Height: 2 * big}
	}
	return geometry.Rect{X: 0, Y: 0, Width: snap.Width, Height: snap.Height}
}

// Name returns a short label for logging.
func Name(s State) string {
	switch s.(type) {
	case Idle:
		return "Idle"
	case FullscreenCapture:
		return "FullscreenCapture"
	case SelectingRegion:
		return "SelectingRegion"
	case RegionSelected:
		return "RegionSelected"
	case SelectingSubRegion:
		return "SelectingSubRegion"
	case SubRegionSelected:
		return "SubRegionSelected"
	}
	return "Unknown"
}
