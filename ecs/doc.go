// Package ecs provides ECS adapters for canopy.
//
// [NewDonburiStore] bridges canopy pointer interactions (down, up, click,
// enter, leave) into a [Donburi] world as typed events, and
// [NewDonburiObserver] publishes a [RebuildEvent] for every graphic the
// stage rebuilds. Subscribe to [InteractionEventType] or [RebuildEventType]
// in your ECS systems to receive them.
//
// Usage:
//
//	stage.SetEntityStore(ecs.NewDonburiStore(world))
//	stage.SetObserver(ecs.NewDonburiObserver(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
