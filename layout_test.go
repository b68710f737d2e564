package canopy

import "testing"

func newLayoutFixture() (*CanvasUpdateRegistry, *LayoutRebuilder) {
	r := NewCanvasUpdateRegistry()
	return r, NewLayoutRebuilder(r)
}

func TestFitToParent(t *testing.T) {
	tests := []struct {
		name           string
		pivotX, pivotY float64
		padding        [4]float64
		wantW, wantH   float64
		wantX, wantY   float64
	}{
		{"no padding", 0, 0, [4]float64{}, 200, 100, 0, 0},
		{"padding", 0, 0, [4]float64{10, 5, 20, 15}, 170, 80, 10, 5},
		{"centered pivot", 0.5, 0.5, [4]float64{10, 10, 10, 10}, 180, 80, 100, 50},
		{"padding larger than parent", 0, 0, [4]float64{150, 0, 150, 0}, 0, 100, 150, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, lr := newLayoutFixture()
			parent := NewNode("parent")
			parent.SetSize(200, 100)
			child := NewNode("child")
			child.SetPivot(tt.pivotX, tt.pivotY)
			parent.AddChild(child)
			fit := NewFitToParent(tt.padding[0], tt.padding[1], tt.padding[2], tt.padding[3])
			child.AddComponent(fit)

			lr.MarkLayoutForRebuild(child)
			r.PerformUpdate()

			w, h := child.Size()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("size = (%v, %v), want (%v, %v)", w, h, tt.wantW, tt.wantH)
			}
			if child.X != tt.wantX || child.Y != tt.wantY {
				t.Errorf("position = (%v, %v), want (%v, %v)", child.X, child.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestLayoutRootClimbsControlledAncestors(t *testing.T) {
	r, lr := newLayoutFixture()
	top := NewNode("top")
	top.SetSize(300, 300)
	mid := NewNode("mid")
	leaf := NewNode("leaf")
	top.AddChild(mid)
	mid.AddChild(leaf)
	mid.AddComponent(&FitToParent{})
	leaf.AddComponent(&FitToParent{})

	lr.MarkLayoutForRebuild(leaf)
	r.PerformUpdate()

	if w, h := leaf.Size(); w != 300 || h != 300 {
		t.Errorf("leaf size = (%v, %v), want (300, 300) after laying out from mid", w, h)
	}
}

func TestLayoutRequestsCoalesce(t *testing.T) {
	r, lr := newLayoutFixture()
	parent := NewNode("parent")
	a := NewNode("a")
	b := NewNode("b")
	parent.AddChild(a)
	parent.AddChild(b)
	parent.AddComponent(&FitToParent{})

	lr.MarkLayoutForRebuild(parent)
	lr.MarkLayoutForRebuild(parent)
	// a climbs to parent, which carries a controller.
	lr.MarkLayoutForRebuild(a)
	if got := lr.PendingRoots(); got != 1 {
		t.Errorf("PendingRoots = %d, want 1", got)
	}
	lr.MarkLayoutForRebuild(b)
	if got := lr.PendingRoots(); got != 1 {
		t.Errorf("PendingRoots after b = %d, want 1", got)
	}
	r.PerformUpdate()
	if got := lr.PendingRoots(); got != 0 {
		t.Errorf("PendingRoots after pass = %d, want 0", got)
	}
	if len(lr.entries) != 0 {
		t.Errorf("entries = %d, want 0 after completion", len(lr.entries))
	}
}

func TestLayoutSkipsInactiveAndDisposed(t *testing.T) {
	r, lr := newLayoutFixture()
	n := NewNode("n")
	n.SetActive(false)
	lr.MarkLayoutForRebuild(n)
	if lr.PendingRoots() != 0 {
		t.Error("inactive node should not be queued")
	}

	d := NewNode("d")
	lr.MarkLayoutForRebuild(d)
	d.Dispose()
	lr.MarkLayoutForRebuild(d)
	r.PerformUpdate()
	if r.LastLayoutCount() != 0 {
		t.Errorf("LastLayoutCount = %d, want 0 for a disposed root", r.LastLayoutCount())
	}
	if len(lr.entries) != 0 {
		t.Error("disposed root entry should be dropped")
	}

	lr.MarkLayoutForRebuild(nil)
}

func TestLayoutCompleteReachesGraphics(t *testing.T) {
	r, lr := newLayoutFixture()
	parent := NewNode("parent")
	parent.SetSize(100, 100)
	child := NewNode("child")
	parent.AddChild(child)
	g := NewGraphic()
	g.SetRebuildRegistry(r)
	g.SetLayoutRequester(lr)
	child.AddComponent(g)
	child.AddComponent(NewFitToParent(0, 0, 0, 0))

	r.PerformUpdate()
	if g.IsLayoutDirty() {
		t.Error("layout flag should be cleared by the layout pass")
	}
	if w, h := child.Size(); w != 100 || h != 100 {
		t.Errorf("size = (%v, %v), want (100, 100)", w, h)
	}
	if g.IsVerticesDirty() {
		t.Error("resize during layout should be rebuilt in the same frame")
	}
	if r := g.CanvasRenderer().Mesh().Bounds(); r.Width != 100 || r.Height != 100 {
		t.Errorf("mesh bounds = %+v, want 100x100", r)
	}
}

func TestLayoutResizeDuringPassOnlyMarksVertices(t *testing.T) {
	r, lr := newLayoutFixture()
	parent := NewNode("parent")
	parent.SetSize(50, 50)
	child := NewNode("child")
	parent.AddChild(child)
	g := NewGraphic()
	g.SetRebuildRegistry(r)
	g.SetLayoutRequester(lr)
	child.AddComponent(g)
	r.PerformUpdate()

	layoutFired := 0
	g.RegisterDirtyLayoutCallback(func() { layoutFired++ })
	child.AddComponent(NewFitToParent(0, 0, 0, 0))
	lr.MarkLayoutForRebuild(child)
	r.PerformUpdate()
	if w, _ := child.Size(); w != 50 {
		t.Fatalf("width = %v, want 50", w)
	}
	if g.IsVerticesDirty() {
		t.Error("vertices marked during layout should rebuild in the same frame")
	}
	if layoutFired != 0 {
		t.Errorf("layout callbacks = %d, want 0 for a resize inside the layout pass", layoutFired)
	}
}

func TestDisabledLayoutControllerIgnored(t *testing.T) {
	r, lr := newLayoutFixture()
	parent := NewNode("parent")
	parent.SetSize(100, 100)
	child := NewNode("child")
	parent.AddChild(child)
	fit := NewFitToParent(0, 0, 0, 0)
	child.AddComponent(fit)
	fit.SetEnabled(false)

	lr.MarkLayoutForRebuild(child)
	r.PerformUpdate()
	if w, _ := child.Size(); w != 0 {
		t.Errorf("width = %v, want 0 with the controller disabled", w)
	}
}

// layoutHook is a layout controller that runs fn during the layout pass.
type layoutHook struct {
	Behaviour
	fn func()
}

func (h *layoutHook) ApplyLayout() { h.fn() }

func TestLayoutRequestFromAnotherPassStaysDirty(t *testing.T) {
	r, lr := newLayoutFixture()
	other := NewNode("other")
	other.SetSize(10, 10)
	n := NewNode("n")
	n.SetSize(10, 10)
	g := NewGraphic()
	g.SetRebuildRegistry(r)
	g.SetLayoutRequester(lr)
	n.AddComponent(g)
	r.PerformUpdate()

	other.AddComponent(&layoutHook{fn: g.MarkLayoutDirty})
	lr.MarkLayoutForRebuild(other)
	r.PerformUpdate()
	if !g.IsLayoutDirty() {
		t.Fatal("a request refused during another subtree's pass leaves the flag set")
	}
	if lr.PendingRoots() != 0 {
		t.Errorf("PendingRoots = %d, want 0 after a refused request", lr.PendingRoots())
	}

	g.MarkLayoutDirty()
	r.PerformUpdate()
	if g.IsLayoutDirty() {
		t.Error("the next pass covering the node should clear the flag")
	}
}
