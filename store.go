package sticker

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
)

// Sentinel errors reported by Store operations.
var (
	// ErrNotFound is returned when an operation targets an unknown sticker id.
	// The store is left uncorrupted; the caller decides how to surface it.
	ErrNotFound = errors.New("sticker not found")

	// ErrLocked is returned when a drag gesture targets a locked sticker.
	// Locked stickers remain targetable by every non-drag command.
	ErrLocked = errors.New("sticker is locked")
)

// Store is the authoritative owner of all PlacedSticker records. It is a
// single-writer, in-process container: every mutation is synchronous and
// atomic with respect to the others, and no mutation is gated on IO: the
// durable snapshot write happens fire-and-forget after commit.
//
// Store is not a global. Construct one, pass it by reference to the
// collaborators that need it, and substitute a fake HostProvider in tests.
type Store struct {
	opts     Options
	resolver *Resolver
	stickers map[ID]*PlacedSticker
	sinks    []EventSink
	saver    *saver
	logger   *log.Logger
}

// NewStore creates an empty store resolving host hits through the given
// provider. Logging is discarded until SetLogger is called.
func NewStore(hosts HostProvider, opts Options) *Store {
	return &Store{
		opts:     opts,
		resolver: NewResolver(hosts),
		stickers: make(map[ID]*PlacedSticker),
		logger:   log.New(io.Discard),
	}
}

// Resolver returns the hit-test resolver the store places through.
func (st *Store) Resolver() *Resolver {
	return st.resolver
}

// SetLogger sets the structured logger used for mutation and error reporting.
func (st *Store) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	st.logger = l
}

// AddEventSink registers a sink notified after every committed mutation.
func (st *Store) AddEventSink(sink EventSink) {
	st.sinks = append(st.sinks, sink)
}

// SetSnapshotKeeper enables durable persistence. After every committed
// mutation a snapshot is captured synchronously and handed to an async
// writer; only the latest pending snapshot is ever written (latest-wins).
func (st *Store) SetSnapshotKeeper(k SnapshotKeeper) {
	st.saver = newSaver(k, st.logger)
}

// Flush writes any pending snapshot synchronously. Call it on shutdown;
// gestures never need it.
func (st *Store) Flush() {
	if st.saver != nil {
		st.saver.flush()
	}
}

// Get returns the sticker with the given id.
// The returned pointer MUST NOT be mutated by the caller.
func (st *Store) Get(id ID) (*PlacedSticker, bool) {
	s, ok := st.stickers[id]
	return s, ok
}

// Len returns the total number of stickers across all contexts.
func (st *Store) Len() int {
	return len(st.stickers)
}

// ListForContext returns the context's stickers sorted by ZIndex, lowest
// first (paint order). The returned stickers MUST NOT be mutated.
func (st *Store) ListForContext(ctx Context) []*PlacedSticker {
	list := make([]*PlacedSticker, 0, len(st.stickers))
	for _, s := range st.stickers {
		if s.Context == ctx {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ZIndex < list[j].ZIndex
	})
	return list
}

// Place creates a new sticker at the given canvas-absolute point. The point
// is hit-tested immediately so a drop landing on a host auto-anchors at
// creation, mirroring drag/drop semantics. The new sticker is assigned
// ZIndex max(context siblings)+1.
func (st *Store) Place(assetID string, at Vec2, ctx Context) *PlacedSticker {
	s := &PlacedSticker{AssetID: assetID, Context: ctx}
	stickerDefaults(s, st.opts)
	s.X = at.X
	s.Y = at.Y
	s.ZIndex = st.maxZ(ctx) + 1

	if hostID, ok := st.resolver.ResolveAt(ctx, at.X, at.Y); ok {
		host, _ := st.resolver.Host(ctx, hostID)
		s.AttachedTo = hostID
		s.OffsetX = at.X - host.Bounds.X
		s.OffsetY = at.Y - host.Bounds.Y
	}

	st.stickers[s.ID] = s
	st.logger.Debug("placed sticker",
		"id", s.ID, "asset", assetID, "attached", s.AttachedTo)
	st.commit(EventPlaced, s)
	return s
}

// Move commits a resolved drop: the sole mutation path for drag resolution
// and creation-time auto-anchoring. hostID carries the hit-test result ("" =
// no hit). A hostID the layout collaborator no longer reports is treated
// identically to no hit. The two position representations are never left
// inconsistent, even transiently: all fields are computed before any is
// assigned.
func (st *Store) Move(id ID, at Vec2, hostID ID) error {
	s, ok := st.stickers[id]
	if !ok {
		return st.notFound("move", id)
	}

	var (
		attachTo   ID
		offX, offY float64
		x, y       = s.X, s.Y
	)
	if hostID != "" {
		if host, live := st.resolver.Host(s.Context, hostID); live {
			// Offset is always refreshed to the new drop point, even when
			// the host is unchanged.
			attachTo = hostID
			offX = at.X - host.Bounds.X
			offY = at.Y - host.Bounds.Y
		}
	}
	if attachTo == "" {
		x, y = at.X, at.Y
	}

	s.AttachedTo = attachTo
	s.OffsetX = offX
	s.OffsetY = offY
	s.X = x
	s.Y = y

	st.logger.Debug("moved sticker", "id", id, "attached", attachTo)
	st.commit(EventMoved, s)
	return nil
}

// Duplicate clones a sticker under a fresh id, preserving attachment state
// verbatim. The stored position is nudged by the configured duplicate offset
// (applied to the host offset if attached, to X/Y if floating) so the clone
// never exactly overlaps the original. The clone is brought to the front.
func (st *Store) Duplicate(id ID) (*PlacedSticker, error) {
	s, ok := st.stickers[id]
	if !ok {
		return nil, st.notFound("duplicate", id)
	}

	c := s.clone()
	stickerDefaults(c, st.opts)
	// stickerDefaults resets the visual fields; restore the original's.
	c.Width, c.Height = s.Width, s.Height
	c.Scale, c.Opacity = s.Scale, s.Opacity
	c.ZIndex = st.maxZ(s.Context) + 1

	d := st.opts.DuplicateOffset
	if c.Attached() {
		c.OffsetX += d
		c.OffsetY += d
	} else {
		c.X += d
		c.Y += d
	}

	st.stickers[c.ID] = c
	st.logger.Debug("duplicated sticker", "from", id, "to", c.ID)
	st.commit(EventDuplicated, c)
	return c, nil
}

// Remove permanently deletes a sticker. No tombstone is kept.
func (st *Store) Remove(id ID) error {
	s, ok := st.stickers[id]
	if !ok {
		return st.notFound("remove", id)
	}
	delete(st.stickers, id)
	st.logger.Debug("removed sticker", "id", id)
	st.commit(EventRemoved, s)
	return nil
}

// SetLocked toggles drag protection. Locked stickers never enter a drag
// gesture but remain targetable by every other command.
func (st *Store) SetLocked(id ID, locked bool) error {
	s, ok := st.stickers[id]
	if !ok {
		return st.notFound("lock", id)
	}
	if s.Locked == locked {
		return nil
	}
	s.Locked = locked
	st.commit(EventLockChanged, s)
	return nil
}

// BringToFront reassigns the sticker's ZIndex to max(context siblings)+1.
func (st *Store) BringToFront(id ID) error {
	s, ok := st.stickers[id]
	if !ok {
		return st.notFound("bring to front", id)
	}
	if top := st.maxZ(s.Context); s.ZIndex != top {
		s.ZIndex = top + 1
		st.commit(EventReordered, s)
	}
	return nil
}

// SetTransform applies a partial visual-transform update. Anchoring state is
// untouched. Opacity is clamped to [0, 1].
func (st *Store) SetTransform(id ID, patch TransformPatch) error {
	s, ok := st.stickers[id]
	if !ok {
		return st.notFound("transform", id)
	}
	if patch.Rotation != nil {
		s.Rotation = *patch.Rotation
	}
	if patch.Scale != nil {
		s.Scale = *patch.Scale
	}
	if patch.FlipX != nil {
		s.FlipX = *patch.FlipX
	}
	if patch.FlipY != nil {
		s.FlipY = *patch.FlipY
	}
	if patch.Opacity != nil {
		s.Opacity = clamp01(*patch.Opacity)
	}
	if patch.Width != nil {
		s.Width = *patch.Width
	}
	if patch.Height != nil {
		s.Height = *patch.Height
	}
	st.commit(EventTransformed, s)
	return nil
}

// implicitDetach converts an anchored sticker whose host disappeared into a
// floating one, frozen at the last render position the projector computed.
// Called by the Projector; never part of a user gesture.
func (st *Store) implicitDetach(id ID, at Vec2) {
	s, ok := st.stickers[id]
	if !ok || !s.Attached() {
		return
	}
	s.AttachedTo = ""
	s.OffsetX = 0
	s.OffsetY = 0
	s.X = at.X
	s.Y = at.Y
	st.logger.Debug("detached sticker after host removal", "id", id)
	st.commit(EventDetached, s)
}

// maxZ returns the highest ZIndex among the context's stickers, or 0 when
// the context is empty.
func (st *Store) maxZ(ctx Context) int {
	max := 0
	for _, s := range st.stickers {
		if s.Context == ctx && s.ZIndex > max {
			max = s.ZIndex
		}
	}
	return max
}

// commit notifies sinks and schedules a durable snapshot write. The mutation
// has already been applied: observers and persistence never gate a gesture.
func (st *Store) commit(kind EventKind, s *PlacedSticker) {
	if len(st.sinks) > 0 {
		ev := StickerEvent{Kind: kind, Sticker: *s}
		for _, sink := range st.sinks {
			sink.EmitEvent(ev)
		}
	}
	if st.saver != nil {
		st.saver.enqueue(st.Snapshot())
	}
}

func (st *Store) notFound(op string, id ID) error {
	st.logger.Warn("unknown sticker id", "op", op, "id", id)
	return fmt.Errorf("%s: sticker %q: %w", op, id, ErrNotFound)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
