package sticker

// EventKind identifies a committed store mutation.
type EventKind uint8

const (
	EventPlaced      EventKind = iota // a new sticker was created
	EventMoved                        // a drag resolved: position and/or anchoring changed
	EventDetached                     // implicit detach after the host disappeared
	EventDuplicated                   // a sticker was cloned
	EventRemoved                      // a sticker was permanently deleted
	EventTransformed                  // rotation/flip/opacity/scale/size changed
	EventLockChanged                  // the locked flag toggled
	EventReordered                    // the sticker was brought to front
)

// StickerEvent carries a copy of the sticker as committed. For EventRemoved
// the copy holds the last state before deletion.
type StickerEvent struct {
	Kind    EventKind
	Sticker PlacedSticker
}

// EventSink receives committed mutations. Sinks observe state, they never
// gate it: emission happens after the store has already committed.
type EventSink interface {
	EmitEvent(event StickerEvent)
}
