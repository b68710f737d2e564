package canopy

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id   uint32
	list interface{ remove(id uint32) }
}

// Remove unregisters the callback so it no longer fires. Safe to call more
// than once and on a zero handle.
func (h CallbackHandle) Remove() {
	if h.list == nil {
		return
	}
	h.list.remove(h.id)
}

type handlerEntry[F any] struct {
	id uint32
	fn F
}

// handlerList is an ordered callback list. Callbacks fire in registration
// order over a snapshot, so they may add or remove entries while running.
type handlerList[F any] struct {
	entries []handlerEntry[F]
	nextID  uint32

	firing []handlerEntry[F]
	depth  int // nested snapshot count
}

func (l *handlerList[F]) add(fn F) CallbackHandle {
	l.nextID++
	l.entries = append(l.entries, handlerEntry[F]{id: l.nextID, fn: fn})
	return CallbackHandle{id: l.nextID, list: l}
}

func (l *handlerList[F]) remove(id uint32) {
	for i := range l.entries {
		if l.entries[i].id == id {
			copy(l.entries[i:], l.entries[i+1:])
			l.entries[len(l.entries)-1] = handlerEntry[F]{}
			l.entries = l.entries[:len(l.entries)-1]
			return
		}
	}
}

func (l *handlerList[F]) len() int { return len(l.entries) }

// fire calls call for every callback registered when fire started.
func (l *handlerList[F]) fire(call func(F)) {
	if len(l.entries) == 0 {
		return
	}
	var snap []handlerEntry[F]
	if l.depth == 0 {
		l.firing = append(l.firing[:0], l.entries...)
		snap = l.firing
	} else {
		snap = append([]handlerEntry[F](nil), l.entries...)
	}
	l.depth++
	for i := range snap {
		call(snap[i].fn)
	}
	l.depth--
	if l.depth == 0 {
		clear(l.firing)
	}
}

func fireAll(l *handlerList[func()]) {
	l.fire(func(fn func()) { fn() })
}
