package sticker

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func newTestDrag(hosts *fakeHosts) (*Store, *DragController) {
	st := newTestStore(hosts)
	return st, NewDragController(st, DefaultOptions())
}

// stickersJSON encodes only the records, not the snapshot envelope, so two
// captures of identical state compare byte-for-byte.
func stickersJSON(t *testing.T, st *Store) []byte {
	t.Helper()
	data, err := EncodeSnapshot(st.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	snap.SavedAt = time.Time{} // zero the volatile field
	out, err := EncodeSnapshot(snap)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestDrag_DropOnEmptyDetaches(t *testing.T) {
	hosts := &fakeHosts{widgets: []HostWidget{
		{ID: "w1", Bounds: Rect{X: 0, Y: 0, Width: 100, Height: 100}},
	}}
	st, d := newTestDrag(hosts)
	s := st.Place("sun", Vec2{10, 10}, testCtx())
	if s.AttachedTo != "w1" {
		t.Fatal("precondition: sticker should auto-anchor to w1")
	}

	if err := d.PointerDown(s.ID, Vec2{10, 10}); err != nil {
		t.Fatal(err)
	}
	d.PointerMove(Vec2{200, 200})
	if !d.Dragging() {
		t.Fatal("movement beyond the dead zone must start a drag")
	}
	if err := d.PointerUp(Vec2{500, 500}); err != nil {
		t.Fatal(err)
	}

	if s.Attached() {
		t.Fatalf("drop on empty space must detach, attached to %q", s.AttachedTo)
	}
	if s.X != 500 || s.Y != 500 {
		t.Errorf("position = (%v, %v), want (500, 500)", s.X, s.Y)
	}
}

func TestDrag_DropOnHostAttaches(t *testing.T) {
	hosts := &fakeHosts{widgets: []HostWidget{
		{ID: "w1", Bounds: Rect{X: 100, Y: 100, Width: 200, Height: 200}},
	}}
	st, d := newTestDrag(hosts)
	s := st.Place("sun", Vec2{10, 10}, testCtx())

	if err := d.PointerDown(s.ID, Vec2{10, 10}); err != nil {
		t.Fatal(err)
	}
	d.PointerMove(Vec2{150, 150})
	if err := d.PointerUp(Vec2{160, 170}); err != nil {
		t.Fatal(err)
	}

	if s.AttachedTo != "w1" || s.OffsetX != 60 || s.OffsetY != 70 {
		t.Errorf("attached=%q offset=(%v, %v), want w1 (60, 70)",
			s.AttachedTo, s.OffsetX, s.OffsetY)
	}
}

func TestDrag_SameHostRefreshesOffset(t *testing.T) {
	hosts := &fakeHosts{widgets: []HostWidget{
		{ID: "w1", Bounds: Rect{X: 0, Y: 0, Width: 200, Height: 200}},
	}}
	st, d := newTestDrag(hosts)
	s := st.Place("sun", Vec2{20, 20}, testCtx())

	if err := d.PointerDown(s.ID, Vec2{20, 20}); err != nil {
		t.Fatal(err)
	}
	d.PointerMove(Vec2{100, 100})
	if err := d.PointerUp(Vec2{130, 140}); err != nil {
		t.Fatal(err)
	}

	if s.AttachedTo != "w1" {
		t.Fatalf("sticker should stay on w1, got %q", s.AttachedTo)
	}
	if s.OffsetX != 130 || s.OffsetY != 140 {
		t.Errorf("offset not refreshed on same-host re-drop: (%v, %v)", s.OffsetX, s.OffsetY)
	}
}

func TestDrag_DeadZoneReleaseIsClick(t *testing.T) {
	st, d := newTestDrag(&fakeHosts{})
	s := st.Place("sun", Vec2{100, 100}, testCtx())
	before := stickersJSON(t, st)

	if err := d.PointerDown(s.ID, Vec2{100, 100}); err != nil {
		t.Fatal(err)
	}
	d.PointerMove(Vec2{101, 101}) // within the ~3px dead zone
	if d.Dragging() {
		t.Fatal("dead zone not honored")
	}
	if err := d.PointerUp(Vec2{101, 101}); err != nil {
		t.Fatal(err)
	}

	if after := stickersJSON(t, st); !bytes.Equal(before, after) {
		t.Error("a click (no drag) must not mutate the store")
	}
}

func TestDrag_LockedNeverLeavesIdle(t *testing.T) {
	st, d := newTestDrag(&fakeHosts{})
	s := st.Place("sun", Vec2{100, 100}, testCtx())
	if err := st.SetLocked(s.ID, true); err != nil {
		t.Fatal(err)
	}

	err := d.PointerDown(s.ID, Vec2{100, 100})
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("PointerDown on locked sticker = %v, want ErrLocked", err)
	}
	d.PointerMove(Vec2{300, 300})
	if d.Dragging() {
		t.Error("locked sticker entered a drag")
	}
}

func TestDrag_CancelInvariance(t *testing.T) {
	hosts := &fakeHosts{widgets: []HostWidget{
		{ID: "w1", Bounds: Rect{X: 0, Y: 0, Width: 100, Height: 100}},
	}}
	st, d := newTestDrag(hosts)
	s := st.Place("sun", Vec2{40, 40}, testCtx())
	before := stickersJSON(t, st)

	if err := d.PointerDown(s.ID, Vec2{40, 40}); err != nil {
		t.Fatal(err)
	}
	d.PointerMove(Vec2{400, 400})
	if !d.Dragging() {
		t.Fatal("drag should be live before cancel")
	}
	if d.origin.attachedTo != "w1" || d.origin.offset != (Vec2{40, 40}) {
		t.Fatalf("origin snapshot = %+v, want w1 at (40, 40)", d.origin)
	}
	d.Cancel()

	if after := stickersJSON(t, st); !bytes.Equal(before, after) {
		t.Error("canceled gesture must leave the store byte-for-byte identical")
	}
	if d.Dragging() {
		t.Error("controller should be idle after cancel")
	}
	if _, ok := d.LivePosition(s.ID); ok {
		t.Error("no live position should remain after cancel")
	}
}

func TestDrag_HostResizedMidGesture(t *testing.T) {
	hosts := &fakeHosts{widgets: []HostWidget{
		{ID: "w1", Bounds: Rect{X: 0, Y: 0, Width: 50, Height: 50}},
	}}
	st, d := newTestDrag(hosts)
	s := st.Place("sun", Vec2{200, 200}, testCtx()) // floating

	if err := d.PointerDown(s.ID, Vec2{200, 200}); err != nil {
		t.Fatal(err)
	}
	d.PointerMove(Vec2{120, 120})

	// Another interaction resizes the host mid-drag. The drop must resolve
	// against the new geometry, not a box cached at gesture start.
	hosts.widgets[0].Bounds = Rect{X: 100, Y: 100, Width: 100, Height: 100}

	if err := d.PointerUp(Vec2{120, 120}); err != nil {
		t.Fatal(err)
	}
	if s.AttachedTo != "w1" || s.OffsetX != 20 || s.OffsetY != 20 {
		t.Errorf("attached=%q offset=(%v, %v), want w1 (20, 20)",
			s.AttachedTo, s.OffsetX, s.OffsetY)
	}
}

func TestDrag_LivePositionFollowsPointer(t *testing.T) {
	st, d := newTestDrag(&fakeHosts{})
	s := st.Place("sun", Vec2{10, 10}, testCtx())

	if err := d.PointerDown(s.ID, Vec2{10, 10}); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.LivePosition(s.ID); ok {
		t.Error("no live position before the dead zone is exceeded")
	}
	d.PointerMove(Vec2{80, 90})
	pos, ok := d.LivePosition(s.ID)
	if !ok || pos != (Vec2{80, 90}) {
		t.Errorf("live position = (%+v, %v), want (80, 90)", pos, ok)
	}
	if s.X != 10 || s.Y != 10 {
		t.Error("dragging frames must not reach the store")
	}
}

func TestDoubleClick_DetachesAtResolvedPosition(t *testing.T) {
	hosts := &fakeHosts{widgets: []HostWidget{
		{ID: "w1", Bounds: Rect{X: 100, Y: 50, Width: 200, Height: 200}},
	}}
	st, d := newTestDrag(hosts)
	s := st.Place("sun", Vec2{120, 80}, testCtx()) // offset (20, 30)

	if err := d.DoubleClick(s.ID); err != nil {
		t.Fatal(err)
	}

	if s.Attached() {
		t.Fatalf("double click must detach, attached to %q", s.AttachedTo)
	}
	if s.X != 120 || s.Y != 80 {
		t.Errorf("position = (%v, %v), want (120, 80)", s.X, s.Y)
	}
}

func TestDoubleClick_FloatingIsNoop(t *testing.T) {
	st, d := newTestDrag(&fakeHosts{})
	s := st.Place("sun", Vec2{10, 10}, testCtx())
	before := stickersJSON(t, st)

	if err := d.DoubleClick(s.ID); err != nil {
		t.Fatal(err)
	}
	if after := stickersJSON(t, st); !bytes.Equal(before, after) {
		t.Error("double click on a floating sticker must not mutate the store")
	}
}
