package canopy

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// EntityStore is the interface for optional ECS integration.
// When set on a Stage, pointer interactions are forwarded to it.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// EventType identifies a pointer interaction.
type EventType uint8

const (
	EventPointerDown EventType = iota
	EventPointerUp
	EventClick
	EventPointerEnter
	EventPointerLeave
)

// String returns the event name.
func (e EventType) String() string {
	switch e {
	case EventPointerDown:
		return "PointerDown"
	case EventPointerUp:
		return "PointerUp"
	case EventClick:
		return "Click"
	case EventPointerEnter:
		return "PointerEnter"
	case EventPointerLeave:
		return "PointerLeave"
	default:
		return "Unknown"
	}
}

// InteractionEvent carries a pointer interaction for the ECS bridge.
type InteractionEvent struct {
	Type EventType
	// NodeID is the ID of the hit graphic's node, 0 when nothing was hit.
	NodeID         uint32
	X, Y           float64
	LocalX, LocalY float64
	Button         MouseButton
}

// SetEntityStore sets the optional ECS bridge.
func (s *Stage) SetEntityStore(store EntityStore) {
	s.store = store
}

// PointerEvent describes a pointer interaction with a graphic.
type PointerEvent struct {
	// Graphic is the topmost interactable graphic under the pointer, or nil.
	Graphic *Graphic
	// X and Y are the screen-space pointer position.
	X, Y float64
	// LocalX and LocalY are the position in Graphic's node space.
	LocalX, LocalY float64
	Button         MouseButton
}

type pointerState struct {
	down    bool
	button  MouseButton
	pressed *Graphic // graphic under the pointer at press time
	hover   *Graphic
}

type pointerHandlers struct {
	down  handlerList[func(PointerEvent)]
	up    handlerList[func(PointerEvent)]
	click handlerList[func(PointerEvent)]
	enter handlerList[func(PointerEvent)]
	leave handlerList[func(PointerEvent)]
}

// OnPointerDown registers a callback fired when a button goes down.
func (s *Stage) OnPointerDown(fn func(PointerEvent)) CallbackHandle {
	return s.handlers.down.add(fn)
}

// OnPointerUp registers a callback fired when the pressed button is released.
func (s *Stage) OnPointerUp(fn func(PointerEvent)) CallbackHandle {
	return s.handlers.up.add(fn)
}

// OnClick registers a callback fired when a button is pressed and released
// over the same graphic.
func (s *Stage) OnClick(fn func(PointerEvent)) CallbackHandle {
	return s.handlers.click.add(fn)
}

// OnPointerEnter registers a callback fired when the pointer moves onto a graphic.
func (s *Stage) OnPointerEnter(fn func(PointerEvent)) CallbackHandle {
	return s.handlers.enter.add(fn)
}

// OnPointerLeave registers a callback fired when the pointer leaves a graphic.
func (s *Stage) OnPointerLeave(fn func(PointerEvent)) CallbackHandle {
	return s.handlers.leave.add(fn)
}

// processInput reads the mouse and dispatches pointer events. Called from
// Stage.Update after world transforms are refreshed.
func (s *Stage) processInput() {
	mx, my := ebiten.CursorPosition()
	var pressed bool
	var button MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, MouseButtonMiddle
	}
	s.processPointer(float64(mx), float64(my), pressed, button)
}

// processPointer runs one pointer sample through hover, press and release
// detection.
func (s *Stage) processPointer(x, y float64, pressed bool, button MouseButton) {
	p := &s.pointer
	if p.down {
		button = p.button
	}
	hit, lx, ly := s.pick(x, y)
	ev := PointerEvent{Graphic: hit, X: x, Y: y, LocalX: lx, LocalY: ly, Button: button}

	if hit != p.hover {
		if p.hover != nil {
			leave := ev
			leave.Graphic = p.hover
			leave.LocalX, leave.LocalY = localPoint(p.hover, x, y)
			s.dispatch(&s.handlers.leave, EventPointerLeave, leave)
		}
		if hit != nil {
			s.dispatch(&s.handlers.enter, EventPointerEnter, ev)
		}
		p.hover = hit
	}

	switch {
	case pressed && !p.down:
		p.down = true
		p.button = button
		p.pressed = hit
		s.dispatch(&s.handlers.down, EventPointerDown, ev)
	case !pressed && p.down:
		p.down = false
		s.dispatch(&s.handlers.up, EventPointerUp, ev)
		if hit != nil && hit == p.pressed {
			s.dispatch(&s.handlers.click, EventClick, ev)
		}
		p.pressed = nil
	}
}

func (s *Stage) dispatch(l *handlerList[func(PointerEvent)], typ EventType, ev PointerEvent) {
	l.fire(func(fn func(PointerEvent)) { fn(ev) })
	if s.store == nil {
		return
	}
	ie := InteractionEvent{
		Type:   typ,
		X:      ev.X,
		Y:      ev.Y,
		LocalX: ev.LocalX,
		LocalY: ev.LocalY,
		Button: ev.Button,
	}
	if ev.Graphic != nil && ev.Graphic.node != nil {
		ie.NodeID = ev.Graphic.node.ID
	}
	s.store.EmitEvent(ie)
}

// pick returns the topmost interactable graphic under the screen point.
func (s *Stage) pick(x, y float64) (*Graphic, float64, float64) {
	for _, r := range s.Raycast(x, y) {
		if groupInteractable(r.Node) {
			return r.Graphic, r.LocalPosition.X, r.LocalPosition.Y
		}
	}
	return nil, 0, 0
}

func localPoint(g *Graphic, x, y float64) (float64, float64) {
	if g.node == nil {
		return 0, 0
	}
	var cam *Camera
	if cv := g.Canvas(); cv != nil {
		cam = cv.eventCamera()
	}
	w := screenToWorld(cam, Vec2{x, y})
	return g.node.WorldToLocal(w.X, w.Y)
}
