package canopy

import (
	"fmt"
	"testing"
)

// pointerLog records every pointer callback on a stage as "type:name".
type pointerLog struct {
	events []string
	last   PointerEvent
}

func (l *pointerLog) record(typ string) func(PointerEvent) {
	return func(ev PointerEvent) {
		name := "<nil>"
		if ev.Graphic != nil {
			name = ev.Graphic.Node().Name
		}
		l.events = append(l.events, typ+":"+name)
		l.last = ev
	}
}

func (l *pointerLog) take() []string {
	out := l.events
	l.events = nil
	return out
}

func newInputStage() (*Stage, *Node, *pointerLog) {
	s, cn, _ := newUIStage()
	addBox(cn, "a", 0, 0, 100, 100)
	addBox(cn, "b", 200, 0, 100, 100)
	s.prepare(screenW, screenH)

	log := &pointerLog{}
	s.OnPointerEnter(log.record("enter"))
	s.OnPointerLeave(log.record("leave"))
	s.OnPointerDown(log.record("down"))
	s.OnPointerUp(log.record("up"))
	s.OnClick(log.record("click"))
	return s, cn, log
}

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		typ  EventType
		want string
	}{
		{EventPointerDown, "PointerDown"},
		{EventPointerUp, "PointerUp"},
		{EventClick, "Click"},
		{EventPointerEnter, "PointerEnter"},
		{EventPointerLeave, "PointerLeave"},
		{EventType(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("EventType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestPointerHoverEnterLeave(t *testing.T) {
	s, _, log := newInputStage()

	s.processPointer(50, 50, false, MouseButtonLeft)
	s.processPointer(60, 60, false, MouseButtonLeft)
	s.processPointer(250, 50, false, MouseButtonLeft)
	s.processPointer(500, 500, false, MouseButtonLeft)

	want := []string{"enter:a", "leave:a", "enter:b", "leave:b"}
	if got := log.take(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestPointerLeaveCarriesLocalPosition(t *testing.T) {
	s, _, log := newInputStage()
	s.processPointer(50, 50, false, MouseButtonLeft)
	s.processPointer(150, 40, false, MouseButtonLeft)
	if log.last.Graphic == nil || log.last.Graphic.Node().Name != "a" {
		t.Fatalf("last event = %+v, want a leave for a", log.last)
	}
	if log.last.LocalX != 150 || log.last.LocalY != 40 {
		t.Errorf("leave local = (%v,%v), want (150,40) in a's space", log.last.LocalX, log.last.LocalY)
	}
}

func TestPointerClick(t *testing.T) {
	s, _, log := newInputStage()
	s.processPointer(50, 50, false, MouseButtonLeft)
	log.take()

	s.processPointer(50, 50, true, MouseButtonLeft)
	s.processPointer(55, 55, true, MouseButtonLeft)
	s.processPointer(55, 55, false, MouseButtonLeft)

	want := []string{"down:a", "up:a", "click:a"}
	if got := log.take(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if log.last.LocalX != 55 || log.last.LocalY != 55 {
		t.Errorf("click local = (%v,%v), want (55,55)", log.last.LocalX, log.last.LocalY)
	}
}

func TestPointerNoClickOnDifferentGraphic(t *testing.T) {
	s, _, log := newInputStage()
	s.processPointer(50, 50, true, MouseButtonLeft)
	s.processPointer(250, 50, true, MouseButtonLeft)
	s.processPointer(250, 50, false, MouseButtonLeft)

	want := []string{"enter:a", "down:a", "leave:a", "enter:b", "up:b"}
	if got := log.take(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestPointerNoClickOnEmptySpace(t *testing.T) {
	s, _, log := newInputStage()
	s.processPointer(500, 500, true, MouseButtonLeft)
	s.processPointer(500, 500, false, MouseButtonLeft)

	want := []string{"down:<nil>", "up:<nil>"}
	if got := log.take(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestPointerButtonHeldUntilRelease(t *testing.T) {
	s, _, log := newInputStage()
	s.processPointer(50, 50, true, MouseButtonRight)
	s.processPointer(50, 50, false, MouseButtonLeft)
	if log.last.Button != MouseButtonRight {
		t.Errorf("release button = %v, want the pressed button", log.last.Button)
	}
}

func TestPointerSkipsNonInteractableGroup(t *testing.T) {
	s, cn, log := newInputStage()
	grp := NewCanvasGroup()
	grp.Interactable = false
	cn.AddComponent(grp)

	if len(s.Raycast(50, 50)) != 1 {
		t.Fatal("non-interactable groups still block raycasts")
	}
	s.processPointer(50, 50, false, MouseButtonLeft)
	if got := log.take(); len(got) != 0 {
		t.Errorf("events = %v, want none under a non-interactable group", got)
	}

	grp.Interactable = true
	s.processPointer(50, 50, false, MouseButtonLeft)
	if got := log.take(); len(got) != 1 || got[0] != "enter:a" {
		t.Errorf("events = %v, want [enter:a]", got)
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	s, _, _ := newInputStage()
	count := 0
	h := s.OnPointerDown(func(PointerEvent) { count++ })

	s.processPointer(50, 50, true, MouseButtonLeft)
	s.processPointer(50, 50, false, MouseButtonLeft)
	h.Remove()
	h.Remove()
	s.processPointer(50, 50, true, MouseButtonLeft)
	if count != 1 {
		t.Errorf("count = %d, want 1 after Remove", count)
	}
	CallbackHandle{}.Remove()
}

type mockStore struct {
	events []InteractionEvent
}

func (m *mockStore) EmitEvent(e InteractionEvent) {
	m.events = append(m.events, e)
}

func TestEntityStoreBridge(t *testing.T) {
	s, cn, _ := newInputStage()
	store := &mockStore{}
	s.SetEntityStore(store)
	a := cn.ChildAt(0)

	s.processPointer(50, 40, true, MouseButtonLeft)
	s.processPointer(50, 40, false, MouseButtonLeft)

	wantTypes := []EventType{EventPointerEnter, EventPointerDown, EventPointerUp, EventClick}
	if len(store.events) != len(wantTypes) {
		t.Fatalf("store got %d events, want %d", len(store.events), len(wantTypes))
	}
	for i, e := range store.events {
		if e.Type != wantTypes[i] {
			t.Errorf("event %d = %v, want %v", i, e.Type, wantTypes[i])
		}
		if e.NodeID != a.ID {
			t.Errorf("event %d NodeID = %d, want %d", i, e.NodeID, a.ID)
		}
		if e.X != 50 || e.Y != 40 || e.LocalX != 50 || e.LocalY != 40 {
			t.Errorf("event %d position = %+v", i, e)
		}
	}

	store.events = nil
	s.processPointer(500, 500, true, MouseButtonLeft)
	if len(store.events) != 2 || store.events[1].NodeID != 0 {
		t.Errorf("events over empty space = %+v, want a leave then a down with NodeID 0", store.events)
	}
}
