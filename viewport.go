package sticker

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for viewport X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Viewport is the view into the scrollable canvas: scroll offset and zoom.
// It converts pointer screen coordinates into canvas-absolute coordinates
// for the drag controller and the hit-test resolver, and back for
// rendering.
type Viewport struct {
	// ScrollX and ScrollY are the canvas-absolute coordinates of the
	// viewport's top-left corner.
	ScrollX, ScrollY float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64

	scrollTween *scrollAnim
}

// NewViewport creates a viewport at the canvas origin with no zoom.
func NewViewport() *Viewport {
	return &Viewport{Zoom: 1}
}

// ScreenToCanvas converts screen coordinates to canvas-absolute
// coordinates.
func (v *Viewport) ScreenToCanvas(sx, sy float64) (x, y float64) {
	return sx/v.Zoom + v.ScrollX, sy/v.Zoom + v.ScrollY
}

// CanvasToScreen converts canvas-absolute coordinates to screen
// coordinates.
func (v *Viewport) CanvasToScreen(x, y float64) (sx, sy float64) {
	return (x - v.ScrollX) * v.Zoom, (y - v.ScrollY) * v.Zoom
}

// ScrollTo animates the viewport to the given canvas position over duration
// seconds.
func (v *Viewport) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	v.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(v.ScrollX), float32(x), duration, easeFn),
		tweenY: gween.New(float32(v.ScrollY), float32(y), duration, easeFn),
	}
}

// ScrollBy shifts the viewport immediately, cancelling any scroll
// animation.
func (v *Viewport) ScrollBy(dx, dy float64) {
	v.scrollTween = nil
	v.ScrollX += dx
	v.ScrollY += dy
}

// Update advances the scroll animation. Call once per frame.
func (v *Viewport) Update(dt float32) {
	t := v.scrollTween
	if t == nil {
		return
	}
	if !t.doneX {
		val, done := t.tweenX.Update(dt)
		v.ScrollX = float64(val)
		t.doneX = done
	}
	if !t.doneY {
		val, done := t.tweenY.Update(dt)
		v.ScrollY = float64(val)
		t.doneY = done
	}
	if t.doneX && t.doneY {
		v.scrollTween = nil
	}
}
