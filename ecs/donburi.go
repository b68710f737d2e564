package ecs

import (
	"github.com/phanxgames/canopy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for canopy pointer interactions.
var InteractionEventType = events.NewEventType[canopy.InteractionEvent]()

// RebuildEvent reports that a graphic regenerated its geometry or material.
type RebuildEvent struct {
	NodeID uint32
	Name   string
}

// RebuildEventType is the Donburi event type for RebuildEvent.
var RebuildEventType = events.NewEventType[RebuildEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) canopy.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event canopy.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

type donburiObserver struct {
	world donburi.World
}

// NewDonburiObserver creates a RebuildObserver that publishes a RebuildEvent
// to RebuildEventType for every rebuilt element with a node.
func NewDonburiObserver(world donburi.World) canopy.RebuildObserver {
	return &donburiObserver{world: world}
}

func (o *donburiObserver) ElementRebuilt(e canopy.CanvasElement) {
	n := e.Transform()
	if n == nil {
		return
	}
	RebuildEventType.Publish(o.world, RebuildEvent{NodeID: n.ID, Name: n.Name})
}
