// Package ecs provides ECS adapters for the sticker engine's event system.
//
// The primary adapter is [NewDonburiSink], which bridges committed sticker
// mutations (place, move, detach, duplicate, remove, transform, lock,
// reorder) into a [Donburi] world as typed events. Subscribe to
// [StickerEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	store.AddEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
