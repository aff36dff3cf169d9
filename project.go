package sticker

// Projected pairs a sticker with its derived canvas-absolute render
// position for one recompute cycle.
type Projected struct {
	Sticker *PlacedSticker
	Pos     Vec2
}

// Projector derives render positions from live host geometry. Anchored
// stickers render at host origin + stored offset; floating stickers render
// at their stored X, Y. The derivation is pure, never writing the projected
// position back into X, Y, so the stored coordinates stay meaningful the
// instant a sticker detaches.
//
// The projector also owns host-removal handling: when an anchored sticker's
// host disappears from the live host list, the sticker is implicitly
// detached, frozen at the last position the projector computed for it, so no
// sticker is ever left pointing at a nonexistent host.
type Projector struct {
	store *Store
	hosts HostProvider

	lastPos map[ID]Vec2 // sticker id -> last computed render position
	lastBox map[ID]Rect // host id -> last observed bounding box
}

// NewProjector creates a projector reading live host boxes from the given
// provider. Use the same provider the store resolves against.
func NewProjector(store *Store, hosts HostProvider) *Projector {
	return &Projector{
		store:   store,
		hosts:   hosts,
		lastPos: make(map[ID]Vec2),
		lastBox: make(map[ID]Rect),
	}
}

// Position returns the current render position for a single sticker,
// reading its host box live. Floating stickers return their stored
// coordinates. A missing host falls back to the frozen position Reproject
// would commit (see freezePosition); callers that want the implicit detach
// applied should drive Reproject instead.
func (p *Projector) Position(s *PlacedSticker) Vec2 {
	if !s.Attached() {
		return Vec2{s.X, s.Y}
	}
	for _, h := range p.hosts.Hosts(s.Context) {
		if h.ID == s.AttachedTo {
			return Vec2{h.Bounds.X + s.OffsetX, h.Bounds.Y + s.OffsetY}
		}
	}
	return p.freezePosition(s)
}

// Reproject recomputes render positions for every sticker in the context.
// Call it each frame, and whenever the layout collaborator reports a host
// geometry change (move/resize/add/remove). Stickers whose host is gone are
// implicitly detached before the result is built, so the returned slice
// never references a nonexistent host. Results are in paint order.
func (p *Projector) Reproject(ctx Context) []Projected {
	live := make(map[ID]Rect)
	for _, h := range p.hosts.Hosts(ctx) {
		live[h.ID] = h.Bounds
		p.lastBox[h.ID] = h.Bounds
	}

	list := p.store.ListForContext(ctx)

	// Host-removal cascade first, so projection below sees only valid
	// anchors.
	for _, s := range list {
		if s.Attached() {
			if _, ok := live[s.AttachedTo]; !ok {
				p.store.implicitDetach(s.ID, p.freezePosition(s))
			}
		}
	}

	out := make([]Projected, 0, len(list))
	for _, s := range list {
		var pos Vec2
		if s.Attached() {
			box := live[s.AttachedTo]
			pos = Vec2{box.X + s.OffsetX, box.Y + s.OffsetY}
		} else {
			pos = Vec2{s.X, s.Y}
		}
		p.lastPos[s.ID] = pos
		out = append(out, Projected{Sticker: s, Pos: pos})
	}

	// Drop cache entries for stickers that no longer exist.
	if len(p.lastPos) > len(list)*2 {
		for id := range p.lastPos {
			if _, ok := p.store.Get(id); !ok {
				delete(p.lastPos, id)
			}
		}
	}

	return out
}

// freezePosition picks the position an orphaned sticker should float at:
// the last computed render position when one exists, else host origin +
// offset from the last box ever observed for that host, else the stale
// stored coordinates. The fallbacks only matter for snapshots hydrated
// against hosts that were deleted while the engine was not running.
func (p *Projector) freezePosition(s *PlacedSticker) Vec2 {
	if pos, ok := p.lastPos[s.ID]; ok {
		return pos
	}
	if box, ok := p.lastBox[s.AttachedTo]; ok {
		return Vec2{box.X + s.OffsetX, box.Y + s.OffsetY}
	}
	return Vec2{s.X, s.Y}
}
