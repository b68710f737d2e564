package canopy

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic; canopy is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is a rect transform in the UI hierarchy. It carries a local position,
// scale and rotation, a layout rectangle (size plus normalized pivot), an
// active flag, and an ordered list of components.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). The local origin is the pivot point of the rect.
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64

	// Layout rectangle
	width, height  float64
	pivotX, pivotY float64

	worldTransform [6]float64
	transformDirty bool

	active     bool
	components []Component

	stage    *Stage // set on a stage's root node only
	disposed bool
}

// NewNode creates an active node with unit scale and an empty rect.
func NewNode(name string) *Node {
	return &Node{
		ID:             nextNodeID(),
		Name:           name,
		ScaleX:         1,
		ScaleY:         1,
		active:         true,
		transformDirty: true,
		worldTransform: identityTransform,
	}
}

// --- Activation ---

// ActiveSelf reports the node's own active flag.
func (n *Node) ActiveSelf() bool { return n.active }

// ActiveInHierarchy reports whether the node and all of its ancestors are active.
func (n *Node) ActiveInHierarchy() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.active || p.disposed {
			return false
		}
	}
	return true
}

// SetActive sets the node's active flag. Components in the subtree receive
// their enable/disable hooks, then a canvas hierarchy change notification.
func (n *Node) SetActive(active bool) {
	if n.active == active {
		return
	}
	if globalDebug {
		debugCheckDisposed(n, "SetActive")
	}
	n.active = active
	n.refreshLifecycle()
	n.broadcastCanvasHierarchyChanged()
}

// --- Rect ---

// Size returns the width and height of the node's rect.
func (n *Node) Size() (w, h float64) { return n.width, n.height }

// SetSize sets the rect size. Components are notified when it changes.
func (n *Node) SetSize(w, h float64) {
	if n.width == w && n.height == h {
		return
	}
	n.width, n.height = w, h
	n.notifyDimensionsChanged()
}

// Pivot returns the normalized pivot of the rect.
func (n *Node) Pivot() (px, py float64) { return n.pivotX, n.pivotY }

// SetPivot sets the normalized pivot ((0,0) top-left, (1,1) bottom-right).
func (n *Node) SetPivot(px, py float64) {
	if n.pivotX == px && n.pivotY == py {
		return
	}
	n.pivotX, n.pivotY = px, py
	n.notifyDimensionsChanged()
}

// Rect returns the layout rectangle in local space. The pivot sits at the
// local origin, so the rect starts at (-pivotX*w, -pivotY*h).
func (n *Node) Rect() Rect {
	return Rect{
		X:      -n.pivotX * n.width,
		Y:      -n.pivotY * n.height,
		Width:  n.width,
		Height: n.height,
	}
}

func (n *Node) notifyDimensionsChanged() {
	for _, c := range n.components {
		if l, ok := c.(dimensionsListener); ok && !c.behaviour().destroyed {
			l.onRectTransformDimensionsChange()
		}
	}
}

// --- Components ---

// AddComponent attaches c to the node and runs its enable hook when the node
// is active. Panics if c is already attached.
func (n *Node) AddComponent(c Component) {
	if globalDebug {
		debugCheckDisposed(n, "AddComponent")
	}
	b := c.behaviour()
	if b.node != nil {
		panic("canopy: component is already attached")
	}
	b.node = n
	b.self = c
	n.components = append(n.components, c)
	if refreshComponent(c) {
		if _, ok := c.(*Canvas); ok {
			n.broadcastCanvasHierarchyChanged()
		}
	}
}

// RemoveComponent disables and destroys c and detaches it from the node.
// No-op if c is not attached to n.
func (n *Node) RemoveComponent(c Component) {
	idx := -1
	for i, cc := range n.components {
		if cc == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	destroyComponent(c)
	copy(n.components[idx:], n.components[idx+1:])
	n.components[len(n.components)-1] = nil
	n.components = n.components[:len(n.components)-1]
	if _, ok := c.(*Canvas); ok {
		n.broadcastCanvasHierarchyChanged()
	}
	c.behaviour().node = nil
}

// Components returns the attached components. The returned slice MUST NOT be mutated.
func (n *Node) Components() []Component {
	return n.components
}

func destroyComponent(c Component) {
	b := c.behaviour()
	if b.destroyed {
		return
	}
	if b.live {
		b.live = false
		if d, ok := c.(disabler); ok {
			d.onDisable()
		}
	}
	b.destroyed = true
	if d, ok := c.(destroyer); ok {
		d.onDestroy()
	}
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	n.insertChild(child, -1)
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	n.insertChild(child, index)
}

func (n *Node) insertChild(child *Node, index int) {
	if child == nil {
		panic("canopy: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("canopy: adding child would create a cycle")
	}
	if index > len(n.children) || index < -1 {
		panic("canopy: child index out of range")
	}

	broadcastBeforeParentChanged(child)
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	if index < 0 {
		n.children = append(n.children, child)
	} else {
		n.children = append(n.children, nil)
		copy(n.children[index+1:], n.children[index:])
		n.children[index] = child
	}
	markSubtreeDirty(child)
	child.refreshLifecycle()
	broadcastParentChanged(child)
	if globalDebug {
		debugCheckTreeDepth(child)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("canopy: child's parent is not this node")
	}
	broadcastBeforeParentChanged(child)
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
	child.refreshLifecycle()
	broadcastParentChanged(child)
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("canopy: child index out of range")
	}
	child := n.children[index]
	n.RemoveChild(child)
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SetChildIndex moves child to a new index among its siblings. Sibling
// order is draw order, so later children render (and hit test) on top.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.Parent != n {
		panic("canopy: child's parent is not this node")
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		panic("canopy: child index out of range")
	}
	oldIndex := -1
	for i, c := range n.children {
		if c == child {
			oldIndex = i
			break
		}
	}
	if oldIndex == index {
		return
	}
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
}

// Depth returns the number of ancestors of n.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// --- Disposal ---

// Dispose disables and destroys every component in the subtree, removes this
// node from its parent, and marks the subtree as disposed.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.destroyComponents()
	if n.Parent != nil {
		n.Parent.removeChildByPtr(n)
	}
	n.dispose()
}

func (n *Node) destroyComponents() {
	for _, c := range n.components {
		destroyComponent(c)
	}
	for _, child := range n.children {
		child.destroyComponents()
	}
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	for _, c := range n.components {
		c.behaviour().node = nil
	}
	n.children = nil
	n.components = nil
	n.Parent = nil
	n.stage = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// root returns the topmost ancestor of n.
func (n *Node) root() *Node {
	r := n
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// ownerStage returns the Stage whose root n hangs under, or nil.
func (n *Node) ownerStage() *Stage {
	return n.root().stage
}

// refreshLifecycle re-evaluates enable state for every component in the subtree.
func (n *Node) refreshLifecycle() {
	for _, c := range n.components {
		refreshComponent(c)
	}
	for _, child := range n.children {
		child.refreshLifecycle()
	}
}

func (n *Node) broadcastCanvasHierarchyChanged() {
	for _, c := range n.components {
		if l, ok := c.(canvasHierarchyListener); ok && !c.behaviour().destroyed {
			l.onCanvasHierarchyChanged()
		}
	}
	for _, child := range n.children {
		child.broadcastCanvasHierarchyChanged()
	}
}

func broadcastBeforeParentChanged(n *Node) {
	for _, c := range n.components {
		if l, ok := c.(parentChangeListener); ok && !c.behaviour().destroyed {
			l.onBeforeTransformParentChanged()
		}
	}
	for _, child := range n.children {
		broadcastBeforeParentChanged(child)
	}
}

func broadcastParentChanged(n *Node) {
	for _, c := range n.components {
		if l, ok := c.(parentChangeListener); ok && !c.behaviour().destroyed {
			l.onTransformParentChanged()
		}
	}
	for _, child := range n.children {
		broadcastParentChanged(child)
	}
}
