package canopy

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	screenW = 800
	screenH = 600
)

// newUIStage returns a stage holding one overlay canvas with a raycaster.
func newUIStage() (*Stage, *Node, *Canvas) {
	s := NewStage()
	cn := NewNode("canvas")
	s.Root().AddChild(cn)
	cv := NewCanvas(RenderModeScreenSpaceOverlay)
	cn.AddComponent(cv)
	cn.AddComponent(NewGraphicRaycaster())
	return s, cn, cv
}

// addBox adds a node with a graphic under parent.
func addBox(parent *Node, name string, x, y, w, h float64) *Graphic {
	n := NewNode(name)
	n.SetPosition(x, y)
	n.SetSize(w, h)
	parent.AddChild(n)
	g := NewGraphic()
	n.AddComponent(g)
	return g
}

func TestNewStage(t *testing.T) {
	s := NewStage()
	if s.Root() == nil || s.Root().ownerStage() != s {
		t.Fatal("root should belong to the stage")
	}
	if !s.CullEnabled || s.TimeScale != 1 {
		t.Errorf("defaults: CullEnabled=%v TimeScale=%v", s.CullEnabled, s.TimeScale)
	}
	if s.UpdateRegistry() == nil || s.LayoutRebuilder() == nil {
		t.Error("stage should own a registry and a layout rebuilder")
	}
}

func TestStagePrepareRebuildsOncePerChange(t *testing.T) {
	s, cn, _ := newUIStage()
	a := addBox(cn, "a", 0, 0, 100, 50)
	addBox(cn, "b", 200, 0, 100, 50)

	s.prepare(screenW, screenH)
	if got := s.LastGraphicCount(); got != 2 {
		t.Errorf("first frame rebuilt %d graphics, want 2", got)
	}
	if a.IsVerticesDirty() || a.IsMaterialDirty() || a.IsLayoutDirty() {
		t.Error("all flags should be clean after a frame")
	}
	if n := len(a.CanvasRenderer().Mesh().Vertices); n != 4 {
		t.Errorf("renderer holds %d vertices, want 4", n)
	}

	s.prepare(screenW, screenH)
	if got := s.LastGraphicCount(); got != 0 {
		t.Errorf("idle frame rebuilt %d graphics, want 0", got)
	}

	a.SetColor(Color{R: 1, A: 1})
	s.prepare(screenW, screenH)
	if got := s.LastGraphicCount(); got != 1 {
		t.Errorf("after SetColor rebuilt %d graphics, want 1", got)
	}
}

func TestStageDepthsFollowTreeOrder(t *testing.T) {
	s, cn, _ := newUIStage()
	a := addBox(cn, "a", 0, 0, 10, 10)
	b := addBox(cn, "b", 0, 0, 10, 10)
	c := addBox(b.Node(), "c", 0, 0, 10, 10)
	d := addBox(cn, "d", 0, 0, 10, 10)

	s.prepare(screenW, screenH)
	for i, g := range []*Graphic{a, b, c, d} {
		if g.Depth() != i {
			t.Errorf("%s depth = %d, want %d", g.Node().Name, g.Depth(), i)
		}
	}
	if s.LastDrawnCount() != 4 {
		t.Errorf("LastDrawnCount = %d, want 4", s.LastDrawnCount())
	}

	b.SetEnabled(false)
	s.prepare(screenW, screenH)
	if b.Depth() != -1 {
		t.Errorf("disabled graphic depth = %d, want -1", b.Depth())
	}
	if c.Depth() != 1 || d.Depth() != 2 {
		t.Errorf("depths after disable: c=%d d=%d, want 1 and 2", c.Depth(), d.Depth())
	}
}

func TestStageEmptyMeshGetsNoDepth(t *testing.T) {
	s, cn, _ := newUIStage()
	g := addBox(cn, "neg", 0, 0, -1, 10)
	s.prepare(screenW, screenH)
	if g.Depth() != -1 {
		t.Errorf("graphic with an empty mesh has depth %d, want -1", g.Depth())
	}
}

func TestStageGraphicOutsideCanvasNotDrawn(t *testing.T) {
	s := NewStage()
	g := addBox(s.Root(), "loose", 0, 0, 10, 10)
	s.prepare(screenW, screenH)
	if g.IsVerticesDirty() {
		t.Error("graphic should still be rebuilt without a canvas")
	}
	if g.Depth() != -1 {
		t.Errorf("graphic outside any canvas has depth %d, want -1", g.Depth())
	}
}

func TestStageCulling(t *testing.T) {
	s, cn, _ := newUIStage()
	g := addBox(cn, "off", 2000, 0, 100, 50)

	s.prepare(screenW, screenH)
	if !g.CanvasRenderer().Cull() {
		t.Fatal("off-screen graphic should be culled")
	}
	if !g.IsVerticesDirty() {
		t.Fatal("culled graphic should keep its pending rebuild")
	}
	if g.Depth() != -1 {
		t.Errorf("culled depth = %d, want -1", g.Depth())
	}

	g.Node().SetPosition(10, 10)
	s.prepare(screenW, screenH)
	if g.CanvasRenderer().Cull() {
		t.Fatal("on-screen graphic should not be culled")
	}
	if g.IsVerticesDirty() {
		t.Error("uncull should rebuild in the same frame")
	}
	if g.Depth() != 0 {
		t.Errorf("depth = %d, want 0", g.Depth())
	}
}

func TestStageCullingDisabled(t *testing.T) {
	s, cn, _ := newUIStage()
	s.CullEnabled = false
	g := addBox(cn, "off", 2000, 0, 100, 50)
	s.prepare(screenW, screenH)
	if g.CanvasRenderer().Cull() {
		t.Error("culling disabled: graphic should not be culled")
	}
	if g.IsVerticesDirty() {
		t.Error("culling disabled: graphic should be rebuilt")
	}
}

func TestStageCullingUsesCamera(t *testing.T) {
	s := NewStage()
	s.Camera = NewCamera(Rect{})
	s.Camera.X, s.Camera.Y = 2000, 0
	cn := NewNode("world")
	s.Root().AddChild(cn)
	cn.AddComponent(NewCanvas(RenderModeWorldSpace))
	g := addBox(cn, "far", 2000, 0, 10, 10)

	s.prepare(screenW, screenH)
	if g.CanvasRenderer().Cull() {
		t.Error("graphic under the camera should not be culled")
	}
	if s.Camera.Viewport.Width != screenW || s.Camera.Viewport.Height != screenH {
		t.Errorf("camera viewport = %+v, want the screen", s.Camera.Viewport)
	}
}

func TestStageSortingOrder(t *testing.T) {
	s, cn, _ := newUIStage()
	nested := NewNode("nested")
	cn.AddChild(nested)
	ncv := NewCanvas(RenderModeScreenSpaceOverlay)
	ncv.OverrideSorting = true
	ncv.SortingOrder = 5
	nested.AddComponent(ncv)
	nested.AddComponent(NewGraphicRaycaster())
	top := addBox(nested, "top", 0, 0, 100, 100)
	plain := addBox(cn, "plain", 0, 0, 100, 100)

	s.prepare(screenW, screenH)
	if plain.Depth() != 0 || top.Depth() != 1 {
		t.Errorf("depths plain=%d top=%d, want 0 and 1", plain.Depth(), top.Depth())
	}

	hits := s.Raycast(50, 50)
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits[0].Graphic != top || hits[0].SortingOrder != 5 {
		t.Errorf("first hit = %s (order %d), want top (order 5)", hits[0].Node.Name, hits[0].SortingOrder)
	}

	ncv.SortingOrder = -1
	s.prepare(screenW, screenH)
	if top.Depth() != 0 || plain.Depth() != 1 {
		t.Errorf("negative order: top=%d plain=%d, want 0 and 1", top.Depth(), plain.Depth())
	}
	if hits := s.Raycast(50, 50); hits[0].Graphic != plain {
		t.Errorf("first hit = %s, want plain", hits[0].Node.Name)
	}
}

func TestStageUpdateAdvancesCrossFades(t *testing.T) {
	s, cn, _ := newUIStage()
	scaled := addBox(cn, "scaled", 0, 0, 10, 10)
	unscaled := addBox(cn, "unscaled", 0, 0, 10, 10)
	s.TimeScale = 0

	scaled.CrossFadeAlpha(0, 1, false)
	unscaled.CrossFadeAlpha(0, 1, true)
	s.update(0.5)

	if a := scaled.CanvasRenderer().Color().A; a != 1 {
		t.Errorf("time scale 0: alpha = %v, want 1", a)
	}
	if a := unscaled.CanvasRenderer().Color().A; !approxEqual(a, 0.5, 0.01) {
		t.Errorf("ignoreTimeScale: alpha = %v, want ~0.5", a)
	}
}

func TestStageDraw(t *testing.T) {
	s, cn, _ := newUIStage()
	addBox(cn, "a", 10, 10, 100, 50)
	grp := NewCanvasGroup()
	grp.SetAlpha(0.5)
	cn.AddComponent(grp)
	screen := ebiten.NewImage(screenW, screenH)

	s.Draw(screen)
	if s.LastDrawnCount() != 1 {
		t.Errorf("LastDrawnCount = %d, want 1", s.LastDrawnCount())
	}
}

func TestStageDebugMode(t *testing.T) {
	s := NewStage()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	if !globalDebug {
		t.Error("SetDebugMode(true) should enable global debug")
	}
	s.SetDebugMode(false)
	if globalDebug {
		t.Error("SetDebugMode(false) should disable global debug")
	}
}

// recordingObserver counts rebuilt elements.
type recordingObserver struct {
	rebuilt []CanvasElement
}

func (o *recordingObserver) ElementRebuilt(e CanvasElement) {
	o.rebuilt = append(o.rebuilt, e)
}

func TestStageObserver(t *testing.T) {
	s, cn, _ := newUIStage()
	obs := &recordingObserver{}
	s.SetObserver(obs)
	g := addBox(cn, "a", 0, 0, 10, 10)

	s.prepare(screenW, screenH)
	if len(obs.rebuilt) != 1 || obs.rebuilt[0] != g {
		t.Errorf("observer saw %v, want the graphic once", obs.rebuilt)
	}
}
