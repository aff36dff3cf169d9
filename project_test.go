package sticker

import "testing"

func TestProjector_AnchoredFollowsHost(t *testing.T) {
	hosts := &fakeHosts{widgets: []HostWidget{
		{ID: "w1", Bounds: Rect{X: 100, Y: 100, Width: 200, Height: 200}},
	}}
	st := newTestStore(hosts)
	p := NewProjector(st, hosts)
	s := st.Place("sun", Vec2{150, 160}, testCtx()) // offset (50, 60)

	if pos := p.Position(s); pos != (Vec2{150, 160}) {
		t.Fatalf("initial position = %+v, want (150, 160)", pos)
	}

	// The layout engine moves the host; the very next derivation tracks it.
	hosts.widgets[0].Bounds.X = 300
	hosts.widgets[0].Bounds.Y = 400
	if pos := p.Position(s); pos != (Vec2{350, 460}) {
		t.Errorf("position after host move = %+v, want (350, 460)", pos)
	}

	// Pure derivation: the stored coordinates were not written back.
	if s.X != 150 || s.Y != 160 {
		t.Errorf("stored X,Y mutated to (%v, %v); projection must not write back", s.X, s.Y)
	}
}

func TestProjector_FloatingUsesStoredPosition(t *testing.T) {
	st := newTestStore(&fakeHosts{})
	p := NewProjector(st, &fakeHosts{})
	s := st.Place("sun", Vec2{42, 24}, testCtx())

	if pos := p.Position(s); pos != (Vec2{42, 24}) {
		t.Errorf("position = %+v, want (42, 24)", pos)
	}
}

func TestProjector_HostRemovalCascade(t *testing.T) {
	hosts := &fakeHosts{widgets: []HostWidget{
		{ID: "w1", Bounds: Rect{X: 0, Y: 0, Width: 100, Height: 100}},
	}}
	st := newTestStore(hosts)
	p := NewProjector(st, hosts)
	ctx := testCtx()
	s := st.Place("sun", Vec2{10, 10}, ctx) // attached, offset (10, 10)

	p.Reproject(ctx) // observe the host once

	hosts.widgets = nil // host deleted
	out := p.Reproject(ctx)

	if s.Attached() {
		t.Fatalf("sticker still attached to %q after host removal", s.AttachedTo)
	}
	if s.X != 10 || s.Y != 10 {
		t.Errorf("frozen position = (%v, %v), want (10, 10)", s.X, s.Y)
	}
	if len(out) != 1 || out[0].Pos != (Vec2{10, 10}) {
		t.Errorf("projection after cascade = %+v", out)
	}
	if s.OffsetX != 0 || s.OffsetY != 0 {
		t.Errorf("floating sticker kept offsets (%v, %v)", s.OffsetX, s.OffsetY)
	}
}

func TestProjector_HostRemovalUsesLastObservedBox(t *testing.T) {
	hosts := &fakeHosts{widgets: []HostWidget{
		{ID: "w1", Bounds: Rect{X: 200, Y: 300, Width: 100, Height: 100}},
	}}
	st := newTestStore(hosts)
	p := NewProjector(st, hosts)
	ctx := testCtx()
	s := st.Place("sun", Vec2{220, 330}, ctx) // offset (20, 30)

	p.Reproject(ctx)
	hosts.widgets = nil
	p.Reproject(ctx)

	if s.X != 220 || s.Y != 330 {
		t.Errorf("frozen at (%v, %v), want last computed (220, 330)", s.X, s.Y)
	}
}

func TestProjector_StaleHydratedHostDetachesDefensively(t *testing.T) {
	// A snapshot may reference a host deleted while the engine was not
	// running; the projector has never observed a box for it.
	hosts := &fakeHosts{}
	st := newTestStore(hosts)
	p := NewProjector(st, hosts)
	ctx := testCtx()

	st.Hydrate(Snapshot{Version: snapshotVersion, Stickers: []PlacedSticker{{
		ID: "s1", AssetID: "sun", X: 77, Y: 88,
		AttachedTo: "long-gone", OffsetX: 5, OffsetY: 5,
		Width: 64, Height: 64, Scale: 1, Opacity: 1, ZIndex: 1,
		Context: ctx,
	}}})

	p.Reproject(ctx)

	s, ok := st.Get("s1")
	if !ok {
		t.Fatal("sticker missing after hydrate")
	}
	if s.Attached() {
		t.Fatalf("sticker still attached to %q", s.AttachedTo)
	}
	if s.X != 77 || s.Y != 88 {
		t.Errorf("fallback position = (%v, %v), want stale (77, 88)", s.X, s.Y)
	}
}

func TestProjector_PaintOrder(t *testing.T) {
	st := newTestStore(&fakeHosts{})
	p := NewProjector(st, &fakeHosts{})
	ctx := testCtx()
	a := st.Place("a", Vec2{0, 0}, ctx)
	b := st.Place("b", Vec2{0, 0}, ctx)
	if err := st.BringToFront(a.ID); err != nil {
		t.Fatal(err)
	}

	out := p.Reproject(ctx)
	if len(out) != 2 || out[0].Sticker.ID != b.ID || out[1].Sticker.ID != a.ID {
		t.Errorf("projection order wrong: %v, %v", out[0].Sticker.ID, out[1].Sticker.ID)
	}
}
