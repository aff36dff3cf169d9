package ecs

import (
	"github.com/stacklume/sticker"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// StickerEventType is the Donburi event type for committed sticker
// mutations. Subscribe to this in your ECS systems to react to placements,
// moves, detaches, and the rest without polling the store.
var StickerEventType = events.NewEventType[sticker.StickerEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Committed
// mutations are published to StickerEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) sticker.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event sticker.StickerEvent) {
	StickerEventType.Publish(s.world, event)
}
