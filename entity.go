package sticker

import (
	"time"

	"github.com/google/uuid"
)

// ID uniquely identifies a sticker or a host widget.
type ID string

func newID() ID {
	return ID(uuid.NewString())
}

// PlacedSticker is a decorative object placed on the canvas. A single flat
// struct covers both anchoring states; AttachedTo selects which position
// representation is authoritative:
//
//   - floating (AttachedTo == ""): X, Y hold the canvas-absolute position and
//     OffsetX, OffsetY are zero.
//   - attached: OffsetX, OffsetY hold the offset from the host widget's
//     origin and are the sole source of truth; X, Y are stale and ignored
//     until the sticker detaches.
type PlacedSticker struct {
	ID      ID     `json:"id"`
	AssetID string `json:"assetId"`

	// Position (floating)
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Anchoring
	AttachedTo ID      `json:"attachedToWidgetId,omitempty"`
	OffsetX    float64 `json:"widgetOffsetX"`
	OffsetY    float64 `json:"widgetOffsetY"`

	// Visual transform
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"` // degrees, clockwise
	Scale    float64 `json:"scale"`
	FlipX    bool    `json:"flipX"`
	FlipY    bool    `json:"flipY"`
	Opacity  float64 `json:"opacity"` // 0..1

	// Ordering & interaction
	ZIndex int  `json:"zIndex"` // unique among context siblings
	Locked bool `json:"locked"`

	Context

	CreatedAt time.Time `json:"createdAt"`
}

// Attached reports whether the sticker is anchored to a host widget.
func (s *PlacedSticker) Attached() bool {
	return s.AttachedTo != ""
}

// clone returns a deep copy. PlacedSticker has no reference fields, so a
// value copy suffices.
func (s *PlacedSticker) clone() *PlacedSticker {
	c := *s
	return &c
}

// stickerDefaults sets the field values shared by every newly placed sticker.
func stickerDefaults(s *PlacedSticker, opts Options) {
	s.ID = newID()
	s.Width = opts.DefaultWidth
	s.Height = opts.DefaultHeight
	s.Scale = 1
	s.Opacity = 1
	s.CreatedAt = time.Now()
}

// TransformPatch is a partial visual-transform update. Nil fields are left
// unchanged. Anchoring state is never touched by a transform edit.
type TransformPatch struct {
	Rotation *float64
	Scale    *float64
	FlipX    *bool
	FlipY    *bool
	Opacity  *float64
	Width    *float64
	Height   *float64
}
