package sticker

// HostWidget is a movable, resizable rectangular container a sticker may
// anchor to. Hosts are owned by the layout collaborator and read-only here.
type HostWidget struct {
	ID     ID
	Bounds Rect // canvas-absolute
	Z      int  // stacking order; higher wins hit-test ties
}

// HostProvider supplies the live host widgets visible in a context. The
// returned slice must reflect current geometry at call time: host boxes are
// re-read at the instant of every query, never cached across a gesture,
// because hosts can move or resize concurrently (e.g. the user resizes a
// widget mid-drag).
type HostProvider interface {
	Hosts(ctx Context) []HostWidget
}

// HostProviderFunc adapts a function to the HostProvider interface.
type HostProviderFunc func(ctx Context) []HostWidget

// Hosts calls f(ctx).
func (f HostProviderFunc) Hosts(ctx Context) []HostWidget {
	return f(ctx)
}

// Resolver answers point-in-host queries against live host bounding boxes.
// A miss is a normal result, never an error.
type Resolver struct {
	hosts HostProvider
}

// NewResolver creates a Resolver backed by the given provider.
func NewResolver(hosts HostProvider) *Resolver {
	return &Resolver{hosts: hosts}
}

// ResolveAt returns the id of the topmost host whose bounding box contains
// the canvas-absolute point (x, y), or ("", false) if no host contains it.
// Containment is inclusive of edges. Overlaps are broken by host Z (highest
// wins); equal Z falls back to provider order, later entries on top, so
// providers that leave Z zero still resolve deterministically in paint order.
func (r *Resolver) ResolveAt(ctx Context, x, y float64) (ID, bool) {
	var (
		found bool
		best  HostWidget
	)
	for _, h := range r.hosts.Hosts(ctx) {
		if !h.Bounds.Contains(x, y) {
			continue
		}
		if !found || h.Z >= best.Z {
			found = true
			best = h
		}
	}
	if !found {
		return "", false
	}
	return best.ID, true
}

// Host returns the live host with the given id, or (HostWidget{}, false) if
// the layout collaborator no longer reports it.
func (r *Resolver) Host(ctx Context, id ID) (HostWidget, bool) {
	for _, h := range r.hosts.Hosts(ctx) {
		if h.ID == id {
			return h, true
		}
	}
	return HostWidget{}, false
}
