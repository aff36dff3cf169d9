package sticker

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AssetSource resolves a sticker's assetId to its graphic. The palette that
// owns the assets lives outside this engine.
type AssetSource interface {
	Image(assetID string) *ebiten.Image
}

// Board is the Ebitengine front end: it pumps pointer and keyboard input
// into the drag controller and menu, reprojects render positions every
// frame, and draws the context's stickers. Embed it in an ebiten.Game and
// forward Update and Draw.
//
// Renderers never implement anchoring logic: Board draws at the positions
// the Projector hands it, swapping in the drag controller's live position
// for the sticker mid-gesture.
type Board struct {
	store     *Store
	projector *Projector
	drag      *DragController
	menu      *Menu
	viewport  *Viewport
	assets    AssetSource
	opts      Options

	ctx   Context
	frame []Projected // this frame's projections, reused by Draw

	// Pointer edge state
	prevLeft  bool
	prevRight bool
	prevEsc   bool

	// Double-click detection
	lastPressID ID
	lastPressAt time.Time

	// Placement pop-in
	pops    map[ID]*gween.Tween
	popVals map[ID]float64
}

// NewBoard wires a complete interactive board: store, projector, drag
// controller, menu, and viewport, all resolving against the given host
// provider.
func NewBoard(hosts HostProvider, assets AssetSource, opts Options) *Board {
	store := NewStore(hosts, opts)
	b := &Board{
		store:     store,
		projector: NewProjector(store, hosts),
		drag:      NewDragController(store, opts),
		menu:      NewMenu(store),
		viewport:  NewViewport(),
		assets:    assets,
		opts:      opts,
		pops:      make(map[ID]*gween.Tween),
		popVals:   make(map[ID]float64),
	}
	store.AddEventSink(b)
	return b
}

// Store returns the board's sticker store.
func (b *Board) Store() *Store { return b.store }

// Menu returns the board's context-menu dispatcher.
func (b *Board) Menu() *Menu { return b.menu }

// Drag returns the board's drag controller.
func (b *Board) Drag() *DragController { return b.drag }

// Viewport returns the board's viewport.
func (b *Board) Viewport() *Viewport { return b.viewport }

// Projector returns the board's offset projector.
func (b *Board) Projector() *Projector { return b.projector }

// SetContext switches the active (viewMode, projectId) context. Any gesture
// or menu belonging to the previous context is discarded.
func (b *Board) SetContext(ctx Context) {
	if b.ctx == ctx {
		return
	}
	b.ctx = ctx
	b.drag.Cancel()
	b.menu.Close()
	b.lastPressID = ""
}

// Context returns the active context.
func (b *Board) Context() Context { return b.ctx }

// EmitEvent tracks placements so Draw can play a pop-in. Board registers
// itself as an event sink at construction.
func (b *Board) EmitEvent(ev StickerEvent) {
	switch ev.Kind {
	case EventPlaced, EventDuplicated:
		b.pops[ev.Sticker.ID] = gween.New(0.6, 1, 0.18, ease.OutBack)
		b.popVals[ev.Sticker.ID] = 0.6
	case EventRemoved:
		delete(b.pops, ev.Sticker.ID)
		delete(b.popVals, ev.Sticker.ID)
	}
}

// PlaceFromScreen creates a sticker from a palette drop at screen
// coordinates, converting through the viewport so the drop lands where the
// pointer is. Auto-anchoring follows Store.Place semantics.
func (b *Board) PlaceFromScreen(assetID string, sx, sy float64) *PlacedSticker {
	x, y := b.viewport.ScreenToCanvas(sx, sy)
	return b.store.Place(assetID, Vec2{x, y}, b.ctx)
}

// Update processes input and recomputes projections. Call once per frame.
func (b *Board) Update() {
	dt := float32(1.0 / float64(ebiten.TPS()))
	b.viewport.Update(dt)
	b.advancePops(dt)

	// Reprojecting first also applies the host-removal cascade, so input
	// below never sees a sticker anchored to a vanished host.
	b.frame = b.projector.Reproject(b.ctx)

	b.processInput()
}

func (b *Board) advancePops(dt float32) {
	for id, tw := range b.pops {
		val, done := tw.Update(dt)
		b.popVals[id] = float64(val)
		if done {
			delete(b.pops, id)
			delete(b.popVals, id)
		}
	}
}

func (b *Board) processInput() {
	sx, sy := ebiten.CursorPosition()
	x, y := b.viewport.ScreenToCanvas(float64(sx), float64(sy))
	pt := Vec2{x, y}

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	esc := ebiten.IsKeyPressed(ebiten.KeyEscape)

	switch {
	case left && !b.prevLeft:
		b.leftPressed(pt)
	case left && b.prevLeft:
		b.drag.PointerMove(pt)
	case !left && b.prevLeft:
		// Release outside the window cancels rather than drops.
		if inside(sx, sy) {
			_ = b.drag.PointerUp(pt)
		} else {
			b.drag.Cancel()
		}
	}

	if right && !b.prevRight {
		if s, ok := b.stickerAt(pt); ok {
			_ = b.menu.Open(s.ID)
		} else {
			b.menu.Close()
		}
	}

	if esc && !b.prevEsc {
		b.drag.Cancel()
		b.menu.Close()
	}

	b.prevLeft = left
	b.prevRight = right
	b.prevEsc = esc
}

func (b *Board) leftPressed(pt Vec2) {
	s, ok := b.stickerAt(pt)
	if !ok {
		b.menu.Close()
		b.lastPressID = ""
		return
	}

	// Outside-click for the menu: any primary press not on the open target.
	if target, open := b.menu.Target(); open && target != s.ID {
		b.menu.Close()
	}

	now := time.Now()
	if s.ID == b.lastPressID && now.Sub(b.lastPressAt) <= b.opts.DoubleClickWindow {
		b.lastPressID = ""
		b.drag.Cancel()
		_ = b.drag.DoubleClick(s.ID)
		return
	}
	b.lastPressID = s.ID
	b.lastPressAt = now

	if err := b.drag.PointerDown(s.ID, pt); err != nil && !errors.Is(err, ErrLocked) {
		b.store.logger.Warn("pointer down refused", "err", err)
	}
}

// stickerAt returns the topmost sticker whose axis-aligned bounds contain
// the canvas point, using this frame's projected positions. Rotation is
// ignored for picking; sticker hit boxes stay axis-aligned.
func (b *Board) stickerAt(pt Vec2) (*PlacedSticker, bool) {
	for i := len(b.frame) - 1; i >= 0; i-- {
		s := b.frame[i].Sticker
		pos := b.frame[i].Pos
		if live, ok := b.drag.LivePosition(s.ID); ok {
			pos = live
		}
		bounds := Rect{
			X:      pos.X,
			Y:      pos.Y,
			Width:  s.Width * s.Scale,
			Height: s.Height * s.Scale,
		}
		if bounds.Contains(pt.X, pt.Y) {
			return s, true
		}
	}
	return nil, false
}

// inside reports whether the cursor is within the window's client area.
func inside(sx, sy int) bool {
	w, h := ebiten.WindowSize()
	if w == 0 && h == 0 {
		// Headless or undecorated contexts report no size; treat every
		// release as in bounds.
		return true
	}
	return sx >= 0 && sy >= 0 && sx < w && sy < h
}

// Draw renders the context's stickers in paint order with their visual
// transforms applied: scale, flip, rotation about the sticker center, and
// opacity. The sticker being dragged follows the pointer.
func (b *Board) Draw(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	for i := range b.frame {
		s := b.frame[i].Sticker
		img := b.assets.Image(s.AssetID)
		if img == nil {
			continue
		}
		pos := b.frame[i].Pos
		if live, ok := b.drag.LivePosition(s.ID); ok {
			pos = live
		}

		iw := float64(img.Bounds().Dx())
		ih := float64(img.Bounds().Dy())
		if iw == 0 || ih == 0 {
			continue
		}

		scale := s.Scale
		if pop, ok := b.popVals[s.ID]; ok {
			scale *= pop
		}
		w := s.Width * scale
		h := s.Height * scale

		fx, fy := 1.0, 1.0
		if s.FlipX {
			fx = -1
		}
		if s.FlipY {
			fy = -1
		}

		op.GeoM.Reset()
		op.GeoM.Translate(-iw/2, -ih/2)
		op.GeoM.Scale(fx*w/iw, fy*h/ih)
		op.GeoM.Rotate(s.Rotation * radPerDeg)
		op.GeoM.Translate(pos.X+s.Width*s.Scale/2, pos.Y+s.Height*s.Scale/2)
		op.GeoM.Translate(-b.viewport.ScrollX, -b.viewport.ScrollY)
		op.GeoM.Scale(b.viewport.Zoom, b.viewport.Zoom)

		op.ColorScale.Reset()
		op.ColorScale.ScaleAlpha(float32(s.Opacity))

		screen.DrawImage(img, &op)
	}
}

const radPerDeg = 3.141592653589793 / 180
