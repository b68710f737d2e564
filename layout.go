package canopy

// LayoutRebuildRequester accepts fire-and-forget layout rebuild requests for
// a rect node.
type LayoutRebuildRequester interface {
	MarkLayoutForRebuild(n *Node)
}

// LayoutController is a component capability that positions or sizes nodes
// during the Layout phase.
type LayoutController interface {
	ApplyLayout()
}

// layoutCompleter is implemented by components that want to know a layout
// pass covering their node finished.
type layoutCompleter interface {
	LayoutComplete()
}

// LayoutRebuilder batches layout requests into the update registry's layout
// pass. A request for a node climbs to the outermost ancestor chain of
// layout-controlled parents so the whole affected subtree is laid out once.
type LayoutRebuilder struct {
	updates *CanvasUpdateRegistry
	entries map[*Node]*layoutEntry

	controllerBuf []LayoutController
}

// NewLayoutRebuilder creates a rebuilder feeding the given registry.
func NewLayoutRebuilder(updates *CanvasUpdateRegistry) *LayoutRebuilder {
	return &LayoutRebuilder{
		updates: updates,
		entries: make(map[*Node]*layoutEntry),
	}
}

var defaultLayouts *LayoutRebuilder

// DefaultLayoutRebuilder returns the process-wide rebuilder feeding
// DefaultUpdateRegistry.
func DefaultLayoutRebuilder() *LayoutRebuilder {
	if defaultLayouts == nil {
		defaultLayouts = NewLayoutRebuilder(DefaultUpdateRegistry())
	}
	return defaultLayouts
}

// MarkLayoutForRebuild schedules a layout pass over the subtree rooted at the
// outermost consecutive layout-controlled ancestor of n.
func (lr *LayoutRebuilder) MarkLayoutForRebuild(n *Node) {
	if n == nil || n.IsDisposed() {
		return
	}
	root := n
	for p := n.Parent; p != nil && hasEnabledLayoutController(p); p = p.Parent {
		root = p
	}
	if !root.ActiveInHierarchy() {
		return
	}
	e, ok := lr.entries[root]
	if !ok {
		e = &layoutEntry{root: root, owner: lr}
		lr.entries[root] = e
	}
	lr.updates.RegisterForLayoutRebuild(e)
}

// PendingRoots returns the number of subtrees waiting for a layout pass.
func (lr *LayoutRebuilder) PendingRoots() int {
	count := 0
	for _, e := range lr.entries {
		if lr.updates.IsQueuedForLayoutRebuild(e) {
			count++
		}
	}
	return count
}

func hasEnabledLayoutController(n *Node) bool {
	for _, c := range n.components {
		if _, ok := c.(LayoutController); ok && c.behaviour().IsActiveAndEnabled() {
			return true
		}
	}
	return false
}

// layoutEntry is the CanvasElement queued for one layout root.
type layoutEntry struct {
	root  *Node
	owner *LayoutRebuilder
}

func (e *layoutEntry) Rebuild(phase CanvasUpdate) {
	if phase != CanvasUpdateLayout {
		return
	}
	e.owner.applyLayout(e.root)
}

func (e *layoutEntry) LayoutComplete() {
	completeLayout(e.root)
	delete(e.owner.entries, e.root)
}

func (e *layoutEntry) GraphicUpdateComplete() {}

func (e *layoutEntry) IsDestroyed() bool {
	if e.root.IsDisposed() {
		delete(e.owner.entries, e.root)
		return true
	}
	return false
}

func (e *layoutEntry) Transform() *Node { return e.root }

// applyLayout runs layout controllers top-down: parents settle their
// children's rects before the children lay out their own.
func (lr *LayoutRebuilder) applyLayout(n *Node) {
	if !n.ActiveInHierarchy() {
		return
	}
	lr.controllerBuf = ComponentsOf[LayoutController](n, lr.controllerBuf[:0])
	for _, c := range lr.controllerBuf {
		if comp, ok := c.(Component); ok && !comp.behaviour().IsActiveAndEnabled() {
			continue
		}
		c.ApplyLayout()
	}
	for _, child := range n.children {
		lr.applyLayout(child)
	}
}

func completeLayout(n *Node) {
	for _, c := range n.components {
		if lc, ok := c.(layoutCompleter); ok {
			lc.LayoutComplete()
		}
	}
	for _, child := range n.children {
		completeLayout(child)
	}
}

// --- FitToParent ---

// FitToParent is a layout controller that stretches its node's rect over its
// parent's rect, inset by Padding (left, top, right, bottom).
type FitToParent struct {
	Behaviour
	Padding [4]float64
}

// NewFitToParent creates a FitToParent controller with the given padding.
func NewFitToParent(left, top, right, bottom float64) *FitToParent {
	return &FitToParent{Padding: [4]float64{left, top, right, bottom}}
}

// ApplyLayout resizes and repositions the node.
func (f *FitToParent) ApplyLayout() {
	n := f.node
	if n == nil || n.Parent == nil {
		return
	}
	pr := n.Parent.Rect()
	w := pr.Width - f.Padding[0] - f.Padding[2]
	h := pr.Height - f.Padding[1] - f.Padding[3]
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	n.SetSize(w, h)
	x := pr.X + f.Padding[0] + n.pivotX*w
	y := pr.Y + f.Padding[1] + n.pivotY*h
	if n.X != x || n.Y != y {
		n.SetPosition(x, y)
	}
}

func (f *FitToParent) onEnable() {
	if f.node == nil {
		return
	}
	f.layoutRequester().MarkLayoutForRebuild(f.node)
}

func (f *FitToParent) layoutRequester() LayoutRebuildRequester {
	if st := f.node.ownerStage(); st != nil {
		return st.layouts
	}
	return DefaultLayoutRebuilder()
}
