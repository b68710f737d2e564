package canopy

// CanvasUpdate names a phase of the per-frame update pass.
type CanvasUpdate uint8

const (
	CanvasUpdatePrelayout     CanvasUpdate = iota // before layout controllers run
	CanvasUpdateLayout                            // layout controllers run
	CanvasUpdatePostLayout                        // after layout
	CanvasUpdatePreRender                         // geometry and material rebuilds
	CanvasUpdateLatePreRender                     // after all PreRender rebuilds
)

// String returns the phase name.
func (u CanvasUpdate) String() string {
	switch u {
	case CanvasUpdatePrelayout:
		return "Prelayout"
	case CanvasUpdateLayout:
		return "Layout"
	case CanvasUpdatePostLayout:
		return "PostLayout"
	case CanvasUpdatePreRender:
		return "PreRender"
	case CanvasUpdateLatePreRender:
		return "LatePreRender"
	default:
		return "Unknown"
	}
}

// CanvasElement is anything the update registry can rebuild.
type CanvasElement interface {
	Rebuild(phase CanvasUpdate)
	LayoutComplete()
	GraphicUpdateComplete()
	// IsDestroyed reports that the element must be dropped from the queues.
	IsDestroyed() bool
	// Transform returns the node the element belongs to, or nil.
	Transform() *Node
}

// RebuildRegistry is the per-frame graphic rebuild queue a Graphic registers with.
type RebuildRegistry interface {
	// RegisterForGraphicRebuild queues e for the next graphic pass. Idempotent.
	// Returns false if the registration was refused.
	RegisterForGraphicRebuild(e CanvasElement) bool
	// UnregisterForGraphicRebuild drops e from the graphic queue.
	UnregisterForGraphicRebuild(e CanvasElement)
	// IsRebuildingLayout reports whether a layout pass is running.
	IsRebuildingLayout() bool
}

// RebuildObserver is notified after an element finished its graphic pass.
type RebuildObserver interface {
	ElementRebuilt(e CanvasElement)
}

// CanvasUpdateRegistry coordinates layout and graphic rebuilds for one
// frame. Elements register during the frame; PerformUpdate runs every phase
// for every registered element exactly once and then clears the queues.
type CanvasUpdateRegistry struct {
	layoutQueue  *indexedSet[CanvasElement]
	graphicQueue *indexedSet[CanvasElement]
	disabled     map[CanvasElement]struct{} // unregistered mid-pass

	performingLayout  bool
	performingGraphic bool

	observers []RebuildObserver

	lastLayoutCount  int
	lastGraphicCount int
}

// NewCanvasUpdateRegistry creates an empty registry.
func NewCanvasUpdateRegistry() *CanvasUpdateRegistry {
	return &CanvasUpdateRegistry{
		layoutQueue:  newIndexedSet[CanvasElement](),
		graphicQueue: newIndexedSet[CanvasElement](),
		disabled:     make(map[CanvasElement]struct{}),
	}
}

// --- Default registry (no locking; canopy is single-threaded) ---

var defaultUpdates *CanvasUpdateRegistry

// DefaultUpdateRegistry returns the process-wide registry used by graphics
// that are not under a Stage and have no registry of their own.
func DefaultUpdateRegistry() *CanvasUpdateRegistry {
	if defaultUpdates == nil {
		defaultUpdates = NewCanvasUpdateRegistry()
	}
	return defaultUpdates
}

// AddObserver registers an observer for rebuilt elements.
func (r *CanvasUpdateRegistry) AddObserver(o RebuildObserver) {
	r.observers = append(r.observers, o)
}

// RemoveObserver removes a previously added observer.
func (r *CanvasUpdateRegistry) RemoveObserver(o RebuildObserver) {
	for i, cur := range r.observers {
		if cur == o {
			copy(r.observers[i:], r.observers[i+1:])
			r.observers[len(r.observers)-1] = nil
			r.observers = r.observers[:len(r.observers)-1]
			return
		}
	}
}

// RegisterForLayoutRebuild queues e for the next layout pass. Idempotent.
// Refused while a layout pass is running.
func (r *CanvasUpdateRegistry) RegisterForLayoutRebuild(e CanvasElement) bool {
	if r.performingLayout {
		debugf("trying to add %s for layout rebuild while performing a layout rebuild", elementName(e))
		return false
	}
	r.layoutQueue.addUnique(e)
	return true
}

// UnregisterForLayoutRebuild drops e from the layout queue.
func (r *CanvasUpdateRegistry) UnregisterForLayoutRebuild(e CanvasElement) {
	if r.performingLayout {
		r.disabled[e] = struct{}{}
		return
	}
	r.layoutQueue.remove(e)
}

// RegisterForGraphicRebuild queues e for the next graphic pass. Idempotent.
// Refused while a graphic pass is running.
func (r *CanvasUpdateRegistry) RegisterForGraphicRebuild(e CanvasElement) bool {
	if r.performingGraphic {
		debugf("trying to add %s for graphic rebuild while performing a graphic rebuild", elementName(e))
		return false
	}
	r.graphicQueue.addUnique(e)
	delete(r.disabled, e)
	return true
}

// UnregisterForGraphicRebuild drops e from the graphic queue. During a pass
// the element is skipped for the rest of it instead.
func (r *CanvasUpdateRegistry) UnregisterForGraphicRebuild(e CanvasElement) {
	if r.performingGraphic {
		r.disabled[e] = struct{}{}
		return
	}
	r.graphicQueue.remove(e)
}

// IsRebuildingLayout reports whether a layout pass is running.
func (r *CanvasUpdateRegistry) IsRebuildingLayout() bool { return r.performingLayout }

// IsRebuildingGraphics reports whether a graphic pass is running.
func (r *CanvasUpdateRegistry) IsRebuildingGraphics() bool { return r.performingGraphic }

// IsQueuedForGraphicRebuild reports whether e is waiting for the next graphic pass.
func (r *CanvasUpdateRegistry) IsQueuedForGraphicRebuild(e CanvasElement) bool {
	return r.graphicQueue.contains(e)
}

// IsQueuedForLayoutRebuild reports whether e is waiting for the next layout pass.
func (r *CanvasUpdateRegistry) IsQueuedForLayoutRebuild(e CanvasElement) bool {
	return r.layoutQueue.contains(e)
}

// PendingGraphicRebuilds returns the number of elements queued for the graphic pass.
func (r *CanvasUpdateRegistry) PendingGraphicRebuilds() int { return r.graphicQueue.len() }

// LastLayoutCount returns how many elements the last layout pass rebuilt.
func (r *CanvasUpdateRegistry) LastLayoutCount() int { return r.lastLayoutCount }

// LastGraphicCount returns how many elements the last graphic pass rebuilt.
func (r *CanvasUpdateRegistry) LastGraphicCount() int { return r.lastGraphicCount }

// PerformUpdate runs the layout pass (Prelayout, Layout, PostLayout) and then
// the graphic pass (PreRender, LatePreRender) over the queued elements.
// Layout elements run shallowest first. Both queues are empty afterwards.
func (r *CanvasUpdateRegistry) PerformUpdate() {
	r.performingLayout = true
	r.dropInvalid(r.layoutQueue)
	r.layoutQueue.sortStable(func(a, b CanvasElement) bool {
		return elementDepth(a) < elementDepth(b)
	})
	r.lastLayoutCount = r.layoutQueue.len()
	for phase := CanvasUpdatePrelayout; phase <= CanvasUpdatePostLayout; phase++ {
		for _, e := range r.layoutQueue.items {
			if r.skip(e) {
				continue
			}
			e.Rebuild(phase)
		}
	}
	for _, e := range r.layoutQueue.items {
		if r.skip(e) {
			continue
		}
		e.LayoutComplete()
	}
	r.layoutQueue.clear()
	r.performingLayout = false
	clear(r.disabled)

	r.performingGraphic = true
	r.dropInvalid(r.graphicQueue)
	r.lastGraphicCount = r.graphicQueue.len()
	for phase := CanvasUpdatePreRender; phase <= CanvasUpdateLatePreRender; phase++ {
		for _, e := range r.graphicQueue.items {
			if r.skip(e) {
				continue
			}
			e.Rebuild(phase)
		}
	}
	for _, e := range r.graphicQueue.items {
		if r.skip(e) {
			continue
		}
		e.GraphicUpdateComplete()
		for _, o := range r.observers {
			o.ElementRebuilt(e)
		}
	}
	r.graphicQueue.clear()
	r.performingGraphic = false
	clear(r.disabled)
}

func (r *CanvasUpdateRegistry) skip(e CanvasElement) bool {
	if _, ok := r.disabled[e]; ok {
		return true
	}
	return e.IsDestroyed()
}

func (r *CanvasUpdateRegistry) dropInvalid(set *indexedSet[CanvasElement]) {
	set.removeAll(func(e CanvasElement) bool {
		if _, ok := r.disabled[e]; ok {
			return true
		}
		return e.IsDestroyed()
	})
}

func elementDepth(e CanvasElement) int {
	n := e.Transform()
	if n == nil {
		return 0
	}
	return n.Depth()
}

func elementName(e CanvasElement) string {
	if n := e.Transform(); n != nil {
		return "\"" + n.Name + "\""
	}
	return "element"
}
