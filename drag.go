package sticker

import (
	"fmt"
	"math"
)

// dragPhase is the state tag of the drag gesture machine.
type dragPhase uint8

const (
	dragIdle     dragPhase = iota // no gesture in progress
	dragPressed                   // pointer down, dead zone not yet exceeded
	dragDragging                  // live drag; sticker follows the pointer
)

// dragOrigin snapshots the pre-gesture state so cancellation can prove the
// gesture never happened. The store is only mutated at drop, so reverting is
// a matter of discarding this transient state.
type dragOrigin struct {
	attachedTo ID
	offset     Vec2
	pos        Vec2
}

// DragController turns raw pointer events into at most one committed
// Store.Move per gesture. It is an explicit state machine:
//
//	Idle --PointerDown(unlocked sticker)--> Pressed
//	Pressed --move beyond dead zone--> Dragging
//	Dragging --move--> Dragging (visual only, no store mutation)
//	Dragging --PointerUp--> hit-test at release, Store.Move, Idle
//	any --Cancel--> Idle, store untouched
//
// Locked stickers never leave Idle. Intermediate drag frames are visual
// only: nothing reaches the store or the persistence layer until drop.
type DragController struct {
	store    *Store
	resolver *Resolver
	deadZone float64

	phase  dragPhase
	id     ID
	ctx    Context
	start  Vec2
	live   Vec2
	origin dragOrigin
}

// NewDragController creates a controller committing through store and
// resolving drops through its resolver.
func NewDragController(store *Store, opts Options) *DragController {
	return &DragController{
		store:    store,
		resolver: store.Resolver(),
		deadZone: opts.DragDeadZone,
	}
}

// PointerDown begins a gesture on the given sticker at a canvas-absolute
// point. Locked stickers refuse the gesture with ErrLocked; unknown ids
// report ErrNotFound. A gesture already in progress is cancelled first.
func (d *DragController) PointerDown(id ID, at Vec2) error {
	if d.phase != dragIdle {
		d.Cancel()
	}
	s, ok := d.store.Get(id)
	if !ok {
		return fmt.Errorf("drag: sticker %q: %w", id, ErrNotFound)
	}
	if s.Locked {
		return fmt.Errorf("drag: sticker %q: %w", id, ErrLocked)
	}

	d.phase = dragPressed
	d.id = id
	d.ctx = s.Context
	d.start = at
	d.live = at
	d.origin = dragOrigin{
		attachedTo: s.AttachedTo,
		offset:     Vec2{s.OffsetX, s.OffsetY},
		pos:        Vec2{s.X, s.Y},
	}
	return nil
}

// PointerMove advances the gesture. The sticker visually follows the
// pointer in canvas-absolute coordinates regardless of prior anchoring, but
// the store is not touched.
func (d *DragController) PointerMove(at Vec2) {
	switch d.phase {
	case dragPressed:
		dx := at.X - d.start.X
		dy := at.Y - d.start.Y
		if math.Sqrt(dx*dx+dy*dy) > d.deadZone {
			d.phase = dragDragging
		}
		d.live = at
	case dragDragging:
		d.live = at
	}
}

// PointerUp ends the gesture. If the dead zone was exceeded, the release
// point is hit-tested against live host boxes and the result committed via
// Store.Move: a hit anchors (offset = release point - host origin, refreshed
// even when the host is unchanged), a miss floats the sticker at the release
// point. A release still inside the dead zone is a click, not a drag, and
// leaves the store untouched.
func (d *DragController) PointerUp(at Vec2) error {
	phase, id, ctx := d.phase, d.id, d.ctx
	d.reset()

	if phase != dragDragging {
		return nil
	}
	hostID, ok := d.resolver.ResolveAt(ctx, at.X, at.Y)
	if !ok {
		hostID = ""
	}
	return d.store.Move(id, at, hostID)
}

// Cancel aborts the gesture (Escape, or a release in a cancel region),
// discarding all transient state. The store was never mutated, so the
// canceled gesture is indistinguishable from one that never started.
func (d *DragController) Cancel() {
	d.reset()
}

// DoubleClick performs the quick-detach shortcut: an instantaneous detach of
// an anchored sticker without a drag. The currently resolved absolute
// position (host origin + offset, read live) is committed as the floating
// position in a single Move. A floating or unknown-host sticker is left
// unchanged.
func (d *DragController) DoubleClick(id ID) error {
	s, ok := d.store.Get(id)
	if !ok {
		return fmt.Errorf("drag: sticker %q: %w", id, ErrNotFound)
	}
	if !s.Attached() {
		return nil
	}
	at := Vec2{s.X, s.Y} // stale fallback if the host vanished mid-click
	if host, live := d.resolver.Host(s.Context, s.AttachedTo); live {
		at = Vec2{host.Bounds.X + s.OffsetX, host.Bounds.Y + s.OffsetY}
	}
	return d.store.Move(id, at, "")
}

// Dragging reports whether a live drag (dead zone exceeded) is in progress.
func (d *DragController) Dragging() bool {
	return d.phase == dragDragging
}

// LivePosition returns the visual position of the sticker being dragged.
// ok is false when id is not the active drag target or the dead zone has
// not been exceeded; the renderer then uses the projected position.
func (d *DragController) LivePosition(id ID) (Vec2, bool) {
	if d.phase == dragDragging && d.id == id {
		return d.live, true
	}
	return Vec2{}, false
}

func (d *DragController) reset() {
	d.phase = dragIdle
	d.id = ""
	d.ctx = Context{}
	d.start = Vec2{}
	d.live = Vec2{}
	d.origin = dragOrigin{}
}
