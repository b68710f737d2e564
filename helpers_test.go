package canopy

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Fakes for external collaborators ---

// fakeRegistry records graphic registrations.
type fakeRegistry struct {
	queued           []CanvasElement
	registerCalls    int
	unregisterCalls  int
	rebuildingLayout bool
	refuse           bool
}

func (r *fakeRegistry) RegisterForGraphicRebuild(e CanvasElement) bool {
	r.registerCalls++
	if r.refuse {
		return false
	}
	for _, q := range r.queued {
		if q == e {
			return true
		}
	}
	r.queued = append(r.queued, e)
	return true
}

func (r *fakeRegistry) UnregisterForGraphicRebuild(e CanvasElement) {
	r.unregisterCalls++
	for i, q := range r.queued {
		if q == e {
			r.queued = append(r.queued[:i], r.queued[i+1:]...)
			return
		}
	}
}

func (r *fakeRegistry) IsRebuildingLayout() bool { return r.rebuildingLayout }

func (r *fakeRegistry) isQueued(e CanvasElement) bool {
	for _, q := range r.queued {
		if q == e {
			return true
		}
	}
	return false
}

// flush rebuilds every queued element like a graphic pass would.
func (r *fakeRegistry) flush() {
	q := r.queued
	r.queued = nil
	for _, e := range q {
		e.Rebuild(CanvasUpdatePreRender)
		e.Rebuild(CanvasUpdateLatePreRender)
		e.GraphicUpdateComplete()
	}
}

// fakeLayouts records layout requests.
type fakeLayouts struct {
	requests []*Node
}

func (l *fakeLayouts) MarkLayoutForRebuild(n *Node) {
	l.requests = append(l.requests, n)
}

// fakeSink is a RenderSink that records what it receives.
type fakeSink struct {
	log []string

	mesh          Mesh
	meshCalls     int
	materialCount int
	materials     map[int]*Material
	texture       *ebiten.Image
	clears        int

	cull  bool
	depth int
	color Color
}

func newFakeSink() *fakeSink {
	return &fakeSink{materials: make(map[int]*Material), depth: -1, color: ColorWhite}
}

func (s *fakeSink) SetMesh(m *Mesh) {
	s.log = append(s.log, "mesh")
	s.meshCalls++
	s.mesh.CopyFrom(m)
}

func (s *fakeSink) SetMaterialCount(n int) {
	s.log = append(s.log, "materialCount")
	s.materialCount = n
}

func (s *fakeSink) SetMaterial(i int, m *Material) {
	s.log = append(s.log, "material")
	s.materials[i] = m
}

func (s *fakeSink) SetTexture(tex *ebiten.Image) {
	s.log = append(s.log, "texture")
	s.texture = tex
}

func (s *fakeSink) Clear() {
	s.log = append(s.log, "clear")
	s.clears++
	s.mesh.Clear()
}

func (s *fakeSink) Cull() bool         { return s.cull }
func (s *fakeSink) AbsoluteDepth() int { return s.depth }
func (s *fakeSink) Color() Color       { return s.color }
func (s *fakeSink) SetColor(c Color)   { s.color = c }

// testGraphic bundles a graphic with its fakes.
type testGraphic struct {
	g       *Graphic
	node    *Node
	reg     *fakeRegistry
	layouts *fakeLayouts
	sink    *fakeSink
}

// newTestGraphic creates a 100x50 node carrying a graphic wired to fakes.
// The graphic is live and its initial registration has been flushed.
func newTestGraphic() *testGraphic {
	tg := &testGraphic{
		node:    NewNode("graphic"),
		reg:     &fakeRegistry{},
		layouts: &fakeLayouts{},
		sink:    newFakeSink(),
	}
	tg.node.SetSize(100, 50)
	tg.g = NewGraphic()
	tg.g.SetRebuildRegistry(tg.reg)
	tg.g.SetLayoutRequester(tg.layouts)
	tg.g.SetRenderer(tg.sink)
	tg.node.AddComponent(tg.g)
	tg.reg.flush()
	tg.g.LayoutComplete()
	tg.reset()
	return tg
}

func (tg *testGraphic) reset() {
	tg.reg.registerCalls = 0
	tg.reg.unregisterCalls = 0
	tg.layouts.requests = nil
	tg.sink.log = nil
	tg.sink.meshCalls = 0
	tg.sink.clears = 0
}

// --- Test components ---

// countingFilter is a non-group raycast filter that records its calls.
type countingFilter struct {
	Behaviour
	valid bool
	calls int
}

func (f *countingFilter) IsRaycastLocationValid(Vec2, *Camera) bool {
	f.calls++
	return f.valid
}

// countingGroup is a group filter that records its calls.
type countingGroup struct {
	Behaviour
	valid  bool
	ignore bool
	calls  int
}

func (g *countingGroup) IsRaycastLocationValid(Vec2, *Camera) bool {
	g.calls++
	return g.valid
}

func (g *countingGroup) IgnoresParentGroups() bool { return g.ignore }

// tagMaterial is a material modifier that derives a material whose name is
// the input name plus a tag.
type tagMaterial struct {
	Behaviour
	tag string
}

func (m *tagMaterial) ModifiedMaterial(base *Material) *Material {
	c := base.Clone()
	c.Name = base.Name + m.tag
	return c
}

// offsetMesh is a mesh modifier that shifts every vertex.
type offsetMesh struct {
	Behaviour
	dx, dy float64
}

func (m *offsetMesh) ModifyMesh(vh *VertexHelper) {
	for i := 0; i < vh.CurrentVertCount(); i++ {
		v := vh.Vertex(i)
		v.Position.X += m.dx
		v.Position.Y += m.dy
		vh.SetVertex(i, v)
	}
}

// triangleMesh populates a single triangle.
type triangleMesh struct{}

func (triangleMesh) PopulateMesh(g *Graphic, vh *VertexHelper) {
	r := g.Node().Rect()
	vh.AddVert(Vec2{r.X, r.Y}, g.Color(), Vec2{0, 0})
	vh.AddVert(Vec2{r.X + r.Width, r.Y}, g.Color(), Vec2{1, 0})
	vh.AddVert(Vec2{r.X, r.Y + r.Height}, g.Color(), Vec2{0, 1})
	vh.AddTriangle(0, 1, 2)
}

// legacyTriangleMesh is triangleMesh in its legacy form.
type legacyTriangleMesh struct{}

func (legacyTriangleMesh) PopulateLegacyMesh(g *Graphic, m *Mesh) {
	var vh VertexHelper
	triangleMesh{}.PopulateMesh(g, &vh)
	vh.FillMesh(m)
}

func approxEqual(a, b, eps float64) bool {
	d := a - b
	return d > -eps && d < eps
}
