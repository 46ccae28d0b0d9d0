package compositor

import (
	"image"
	"image/color"

	"screen-region-capture/src/geometry"
	"screen-region-capture/src/state"
)

// Selection feedback colors and stroke width.
var (
	regionColor    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	subRegionColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

const strokeWidth = 1

// Compositor renders the current state into a frame buffer that is allocated
// once per capture session and overwritten in place on every frame. The
// dimmed background plane is precomputed at session start so per-frame work
// is bounded by row copies and border strokes.
type Compositor struct {
	frame  *image.RGBA
	dimmed *image.RGBA
	bright *image.RGBA

	last      state.State
	lastValid bool
}

func New() *Compositor {
	return &Compositor{}
}

// BeginSession prepares the session buffers for one snapshot.
func (c *Compositor) BeginSession(img *image.RGBA) {
	b := img.Bounds()
	c.bright = img
	c.frame = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	c.dimmed = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	// 50% dim, opaque alpha.
	src := img.Pix
	dst := c.dimmed.Pix
	for i := 0; i+3 < len(src); i += 4 {
		dst[i] = src[i] >> 1
		dst[i+1] = src[i+1] >> 1
		dst[i+2] = src[i+2] >> 1
		dst[i+3] = 255
	}
	c.lastValid = false
}

// EndSession releases the session buffers.
func (c *Compositor) EndSession() {
	c.frame = nil
	c.dimmed = nil
	c.bright = nil
	c.last = nil
	c.lastValid = false
}

// Active reports whether a session buffer is allocated.
func (c *Compositor) Active() bool { return c.frame != nil }

// Compose renders s into the reused frame buffer. The returned bool is false
// when the state is unchanged since the last frame and no redraw is needed;
// the frame pointer is still valid in that case.
func (c *Compositor) Compose(s state.State) (*image.RGBA, bool) {
	if c.frame == nil {
		return nil, false
	}
	if c.lastValid && stateEqual(c.last, s) {
		return c.frame, false
	}

	switch cur := s.(type) {
	case state.FullscreenCapture:
		copy(c.frame.Pix, c.bright.Pix)
	case state.SelectingRegion:
		c.renderSelection(geometry.RectFromCorners(cur.Anchor, cur.Cursor), nil)
	case state.RegionSelected:
		c.renderSelection(cur.Region, nil)
	case state.SelectingSubRegion:
		sub := geometry.RectFromCorners(cur.Anchor, cur.Cursor)
		c.renderSelection(cur.Region, &sub)
	case state.SubRegionSelected:
		c.renderSelection(cur.Region, &cur.SubRegion)
	default:
		// Idle: nothing to render, the overlay is hidden.
		return c.frame, false
	}

	c.last = s
	c.lastValid = true
	return c.frame, true
}

// renderSelection draws the dimmed background, restores full brightness
// inside region, and strokes the selection borders.
func (c *Compositor) renderSelection(region geometry.Rect, sub *geometry.Rect) {
	copy(c.frame.Pix, c.dimmed.Pix)

	b := c.frame.Bounds()
	visible := region.Intersect(geometry.Rect{X: 0, Y: 0, Width: b.Dx(), Height: b.Dy()})
	for y := visible.Y; y < visible.Bottom(); y++ {
		rowStart := c.frame.PixOffset(visible.X, y)
		rowEnd := c.frame.PixOffset(visible.Right(), y)
		srcStart := c.bright.PixOffset(visible.X, y)
		copy(c.frame.Pix[rowStart:rowEnd], c.bright.Pix[srcStart:srcStart+(rowEnd-rowStart)])
	}

	strokeRect(c.frame, region, regionColor)
	if sub != nil {
		strokeRect(c.frame, *sub, subRegionColor)
	}
}

// strokeRect draws the rectangle boundary at the fixed stroke width,
// clipped to the image bounds.
func strokeRect(img *image.RGBA, r geometry.Rect, col color.RGBA) {
	// A degenerate extent would mirror an edge to Right()-1 or Bottom()-1,
	// one pixel outside the anchor. Nothing to outline yet.
	if r.Width == 0 || r.Height == 0 {
		return
	}
	for t := 0; t < strokeWidth; t++ {
		drawHLine(img, r.X, r.Right()-1, r.Y+t, col)
		drawHLine(img, r.X, r.Right()-1, r.Bottom()-1-t, col)
		drawVLine(img, r.X+t, r.Y, r.Bottom()-1, col)
		drawVLine(img, r.Right()-1-t, r.Y, r.Bottom()-1, col)
	}
}

func drawHLine(img *image.RGBA, x0, x1, y int, col color.RGBA) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	for x := maxInt(x0, b.Min.X); x <= minInt(x1, b.Max.X-1); x++ {
		img.SetRGBA(x, y, col)
	}
}

func drawVLine(img *image.RGBA, x, y0, y1 int, col color.RGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	for y := maxInt(y0, b.Min.Y); y <= minInt(y1, b.Max.Y-1); y++ {
		img.SetRGBA(x, y, col)
	}
}

// stateEqual compares two state values for render purposes. Snapshots are
// compared by instance, which is exact: a session never swaps its snapshot.
func stateEqual(a, b state.State) bool {
	switch av := a.(type) {
	case state.Idle:
		_, ok := b.(state.Idle)
		return ok
	case state.FullscreenCapture:
		bv, ok := b.(state.FullscreenCapture)
		return ok && av.Snapshot == bv.Snapshot
	case state.SelectingRegion:
		bv, ok := b.(state.SelectingRegion)
		return ok && av == bv
	case state.RegionSelected:
		bv, ok := b.(state.RegionSelected)
		return ok && av == bv
	case state.SelectingSubRegion:
		bv, ok := b.(state.SelectingSubRegion)
		return ok && av == bv
	case state.SubRegionSelected:
		bv, ok := b.(state.SubRegionSelected)
		return ok && av == bv
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
