package canopy

// Component is a behaviour attached to a Node. Components are discovered by
// capability (interface assertion) rather than by a fixed type, and are
// always queried in attachment order.
//
// Components embed Behaviour; the unexported behaviour method keeps foreign
// types from satisfying the interface without it.
type Component interface {
	Node() *Node
	Enabled() bool
	behaviour() *Behaviour
}

// Behaviour holds the attachment and enable state shared by every component.
// Embed it (by value) in component structs.
type Behaviour struct {
	node      *Node
	self      Component
	disabled  bool
	live      bool // between onEnable and onDisable
	destroyed bool
}

func (b *Behaviour) behaviour() *Behaviour { return b }

// Node returns the node the component is attached to, or nil.
func (b *Behaviour) Node() *Node { return b.node }

// Enabled reports the component's own enabled flag. Components start enabled.
func (b *Behaviour) Enabled() bool { return !b.disabled }

// IsActiveAndEnabled reports whether the component is enabled, attached, not
// destroyed, and its node is active in the hierarchy.
func (b *Behaviour) IsActiveAndEnabled() bool {
	return b.node != nil && !b.destroyed && !b.disabled && b.node.ActiveInHierarchy()
}

// IsDestroyed reports whether the component was removed or its node disposed.
func (b *Behaviour) IsDestroyed() bool { return b.destroyed }

// SetEnabled enables or disables the component, running its enable/disable
// hooks when the effective state changes.
func (b *Behaviour) SetEnabled(enabled bool) {
	if b.disabled == !enabled {
		return
	}
	b.disabled = !enabled
	if b.node == nil || b.destroyed {
		return
	}
	if refreshComponent(b.self) {
		if _, ok := b.self.(*Canvas); ok {
			b.node.broadcastCanvasHierarchyChanged()
		}
	}
}

// --- Lifecycle hooks (optional, implemented by built-in components) ---

type enabler interface{ onEnable() }

type disabler interface{ onDisable() }

type destroyer interface{ onDestroy() }

type parentChangeListener interface {
	onBeforeTransformParentChanged()
	onTransformParentChanged()
}

type dimensionsListener interface{ onRectTransformDimensionsChange() }

type canvasHierarchyListener interface{ onCanvasHierarchyChanged() }

// refreshComponent runs onEnable/onDisable when the component's effective
// state differs from its last reported state. Returns true on a transition.
func refreshComponent(c Component) bool {
	b := c.behaviour()
	want := b.IsActiveAndEnabled()
	if want == b.live {
		return false
	}
	b.live = want
	if want {
		if e, ok := c.(enabler); ok {
			e.onEnable()
		}
	} else {
		if d, ok := c.(disabler); ok {
			d.onDisable()
		}
	}
	return true
}

// --- Queries ---

// ComponentOf returns the first component on n implementing T.
func ComponentOf[T any](n *Node) (T, bool) {
	var zero T
	if n == nil {
		return zero, false
	}
	for _, c := range n.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// ComponentsOf appends every component on n implementing T to buf, in
// attachment order, and returns the extended slice.
func ComponentsOf[T any](n *Node, buf []T) []T {
	if n == nil {
		return buf
	}
	for _, c := range n.components {
		if t, ok := c.(T); ok {
			buf = append(buf, t)
		}
	}
	return buf
}

// ComponentsInParent appends components implementing T found on n and each
// of its ancestors, nearest first. Inactive nodes are skipped unless
// includeInactive is set.
func ComponentsInParent[T any](n *Node, includeInactive bool, buf []T) []T {
	for p := n; p != nil; p = p.Parent {
		if !includeInactive && !p.ActiveInHierarchy() {
			continue
		}
		buf = ComponentsOf[T](p, buf)
	}
	return buf
}
