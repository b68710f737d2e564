package canopy

import (
	"fmt"
	"testing"
)

func TestHandlerListOrderAndRemove(t *testing.T) {
	var l handlerList[func()]
	var got []int
	for i := range 3 {
		l.add(func() { got = append(got, i) })
	}
	h := l.add(func() { got = append(got, 99) })
	h.Remove()
	h.Remove()

	fireAll(&l)
	if fmt.Sprint(got) != "[0 1 2]" {
		t.Errorf("fired %v, want [0 1 2]", got)
	}
	if l.len() != 3 {
		t.Errorf("len = %d, want 3", l.len())
	}
}

func TestHandlerListMutationDuringFire(t *testing.T) {
	var l handlerList[func()]
	var got []string
	var second CallbackHandle
	l.add(func() {
		got = append(got, "a")
		second.Remove()
		l.add(func() { got = append(got, "late") })
	})
	second = l.add(func() { got = append(got, "b") })

	fireAll(&l)
	if fmt.Sprint(got) != "[a b]" {
		t.Errorf("first fire = %v, want the snapshot [a b]", got)
	}
	got = nil
	fireAll(&l)
	if fmt.Sprint(got) != "[a late]" {
		t.Errorf("second fire = %v, want [a late]", got)
	}
}

func TestHandlerListNestedFire(t *testing.T) {
	var l handlerList[func()]
	depth := 0
	calls := 0
	l.add(func() {
		calls++
		if depth == 0 {
			depth++
			fireAll(&l)
			depth--
		}
	})
	fireAll(&l)
	if calls != 2 {
		t.Errorf("calls = %d, want 2 with one nested fire", calls)
	}
	if l.depth != 0 {
		t.Errorf("depth = %d after firing, want 0", l.depth)
	}
}

func TestHandlerListEmpty(t *testing.T) {
	var l handlerList[func(PointerEvent)]
	l.fire(func(fn func(PointerEvent)) { t.Error("no callbacks should fire") })
	CallbackHandle{}.Remove()
}
