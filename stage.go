package canopy

import (
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Stage owns a node tree, the update registry and layout rebuilder every
// graphic beneath it uses, a default camera, and pointer input state.
//
// Each frame: Update advances tweens and dispatches input; Draw culls, runs
// the layout and graphic rebuild passes, assigns draw depths and submits
// the meshes.
type Stage struct {
	root    *Node
	updates *CanvasUpdateRegistry
	layouts *LayoutRebuilder

	// Camera is used by camera render-mode canvases that have no WorldCamera.
	Camera *Camera
	// CullEnabled marks graphics outside the visible area as culled, which
	// suspends their rebuilds until they come back into view.
	CullEnabled bool
	// TimeScale scales the dt handed to cross fades. Fades started with
	// ignoreTimeScale are unaffected.
	TimeScale float64

	debug bool

	screen     Rect
	groups     []drawGroup
	raycasters []*GraphicRaycaster
	raycastBuf []RaycastResult

	pointer     pointerState
	handlers    pointerHandlers
	store       EntityStore
	injectQueue []injectedPointer
	runner      *ScriptRunner

	// ScreenshotDir is where Screenshot writes PNGs. Empty means
	// DefaultScreenshotDir.
	ScreenshotDir   string
	screenshotQueue []string

	lastDrawn  int
	lastCulled int
}

// drawGroup is the set of graphics drawn under one sorting canvas.
type drawGroup struct {
	canvas   *Canvas
	order    int
	graphics []*Graphic
}

// NewStage creates a stage with an empty root node.
func NewStage() *Stage {
	updates := NewCanvasUpdateRegistry()
	s := &Stage{
		root:        NewNode("root"),
		updates:     updates,
		layouts:     NewLayoutRebuilder(updates),
		CullEnabled: true,
		TimeScale:   1,
	}
	s.root.stage = s
	return s
}

// Root returns the stage's root node.
func (s *Stage) Root() *Node { return s.root }

// UpdateRegistry returns the registry graphics under this stage rebuild through.
func (s *Stage) UpdateRegistry() *CanvasUpdateRegistry { return s.updates }

// LayoutRebuilder returns the stage's layout rebuilder.
func (s *Stage) LayoutRebuilder() *LayoutRebuilder { return s.layouts }

// SetObserver adds an observer notified after each graphic rebuild.
func (s *Stage) SetObserver(o RebuildObserver) {
	s.updates.AddObserver(o)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, refused registrations and deep trees are reported, and
// per-frame stats are logged to stderr.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// LastLayoutCount returns the number of layout roots rebuilt by the last Draw.
func (s *Stage) LastLayoutCount() int { return s.updates.LastLayoutCount() }

// LastGraphicCount returns the number of graphics rebuilt by the last Draw.
func (s *Stage) LastGraphicCount() int { return s.updates.LastGraphicCount() }

// LastDrawnCount returns the number of graphics submitted by the last Draw.
func (s *Stage) LastDrawnCount() int { return s.lastDrawn }

// Update advances the camera and cross fades and processes pointer input.
// Injected pointer samples take the place of the mouse while any are queued.
func (s *Stage) Update() {
	dt := 1.0 / float64(ebiten.TPS())
	s.update(dt)
	if s.runner != nil {
		s.runner.step(s)
	}
	if !s.processInjectedInput() {
		s.processInput()
	}
}

func (s *Stage) update(dt float64) {
	updateWorldTransform(s.root, identityTransform, false)
	if s.Camera != nil {
		s.Camera.update(float32(dt))
	}
	updateTweens(s.root, dt*s.TimeScale, dt)
}

// Draw rebuilds whatever is dirty and renders the tree onto screen.
func (s *Stage) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	stats := s.prepare(float64(b.Dx()), float64(b.Dy()))

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.submit(screen)
	if s.debug {
		stats.drawTime = time.Since(t0)
		s.debugLog(stats)
	}
	s.flushScreenshots(screen)
}

// prepare runs everything in a frame except submission: transforms,
// culling, the rebuild passes and depth assignment.
func (s *Stage) prepare(w, h float64) debugStats {
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.screen = Rect{Width: w, Height: h}
	if s.Camera != nil && s.Camera.Viewport.Width == 0 && s.Camera.Viewport.Height == 0 {
		s.Camera.Viewport = s.screen
		s.Camera.MarkDirty()
	}

	updateWorldTransform(s.root, identityTransform, false)
	s.lastCulled = 0
	s.cull(s.root)
	if s.debug {
		stats.transformTime = time.Since(t0)
		t0 = time.Now()
	}

	s.updates.PerformUpdate()
	updateWorldTransform(s.root, identityTransform, false)
	if s.debug {
		stats.rebuildTime = time.Since(t0)
	}

	s.collectGroups()
	s.assignDepths()

	stats.layoutCount = s.updates.LastLayoutCount()
	stats.graphicCount = s.updates.LastGraphicCount()
	stats.drawnCount = s.lastDrawn
	stats.culledCount = s.lastCulled
	return stats
}

// --- Culling ---

func (s *Stage) cull(n *Node) {
	if !n.active {
		return
	}
	for _, c := range n.components {
		g, ok := c.(*Graphic)
		if !ok || !g.IsActiveAndEnabled() {
			continue
		}
		cr := g.CanvasRenderer()
		if cr == nil {
			continue
		}
		culled := s.CullEnabled && s.outsideView(g)
		if culled {
			s.lastCulled++
		}
		cr.SetCull(culled)
	}
	for _, child := range n.children {
		s.cull(child)
	}
}

// outsideView reports whether the graphic's rect lies entirely off screen.
// Graphics with an empty rect are never culled.
func (s *Stage) outsideView(g *Graphic) bool {
	r := g.node.Rect()
	if mb := g.CanvasRenderer().mesh.Bounds(); mb.Width > 0 || mb.Height > 0 {
		r = unionRect(r, mb)
	}
	if r.Width == 0 && r.Height == 0 {
		return false
	}
	view := identityTransform
	if cv := g.Canvas(); cv != nil {
		if cam := cv.RootCanvas().eventCamera(); cam != nil {
			view = cam.computeViewMatrix()
		}
	}
	aabb := worldAABB(multiplyAffine(view, g.node.worldTransform), r)
	return !aabb.Intersects(s.screen)
}

func unionRect(a, b Rect) Rect {
	x0 := min(a.X, b.X)
	y0 := min(a.Y, b.Y)
	x1 := max(a.X+a.Width, b.X+b.Width)
	y1 := max(a.Y+a.Height, b.Y+b.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// --- Draw order ---

// collectGroups walks the tree in draw order. Root canvases and nested
// canvases with OverrideSorting start a new group; every other graphic joins
// the group of its nearest enclosing one. Groups are then ordered by
// SortingOrder, ties kept in tree order.
func (s *Stage) collectGroups() {
	for i := range s.groups {
		clear(s.groups[i].graphics)
		s.groups[i].graphics = s.groups[i].graphics[:0]
		s.groups[i].canvas = nil
	}
	s.groups = s.groups[:0]
	s.collect(s.root, -1)
	sort.SliceStable(s.groups, func(i, j int) bool {
		return s.groups[i].order < s.groups[j].order
	})
}

func (s *Stage) collect(n *Node, group int) {
	if !n.active {
		return
	}
	for _, c := range n.components {
		cv, ok := c.(*Canvas)
		if !ok || !cv.IsActiveAndEnabled() {
			continue
		}
		if group < 0 || cv.OverrideSorting {
			group = s.newGroup(cv)
		}
	}
	if group >= 0 {
		for _, c := range n.components {
			if g, ok := c.(*Graphic); ok && g.IsActiveAndEnabled() {
				s.groups[group].graphics = append(s.groups[group].graphics, g)
			}
		}
	}
	for _, child := range n.children {
		s.collect(child, group)
	}
}

func (s *Stage) newGroup(cv *Canvas) int {
	if len(s.groups) < cap(s.groups) {
		s.groups = s.groups[:len(s.groups)+1]
	} else {
		s.groups = append(s.groups, drawGroup{})
	}
	i := len(s.groups) - 1
	s.groups[i].canvas = cv
	s.groups[i].order = cv.SortingOrder
	return i
}

// assignDepths numbers every drawable graphic in draw order. Graphics that
// will not be drawn get -1.
func (s *Stage) assignDepths() {
	depth := 0
	for _, grp := range s.groups {
		for _, g := range grp.graphics {
			cr := g.CanvasRenderer()
			if cr == nil {
				continue
			}
			if cr.drawable() {
				cr.depth = depth
				depth++
			} else {
				cr.depth = -1
			}
		}
	}
	s.lastDrawn = depth
}

func (s *Stage) submit(target *ebiten.Image) {
	for _, grp := range s.groups {
		view := identityTransform
		if cam := grp.canvas.RootCanvas().eventCamera(); cam != nil {
			view = cam.computeViewMatrix()
		}
		for _, g := range grp.graphics {
			cr := g.CanvasRenderer()
			if cr == nil || cr.depth < 0 {
				continue
			}
			cr.Draw(target, multiplyAffine(view, g.node.worldTransform), groupAlpha(g.node))
		}
	}
}

// --- Raycasting ---

// Raycast returns every graphic under the screen point, topmost first:
// ordered by the sorting order of the hit graphic's canvas, then by depth.
// The returned slice is reused by the next call.
func (s *Stage) Raycast(x, y float64) []RaycastResult {
	s.raycasters = collectRaycasters(s.root, s.raycasters[:0])
	s.raycastBuf = s.raycastBuf[:0]
	sp := Vec2{x, y}
	for _, r := range s.raycasters {
		s.raycastBuf = r.Raycast(sp, s.raycastBuf)
	}
	sort.SliceStable(s.raycastBuf, func(i, j int) bool {
		a, b := &s.raycastBuf[i], &s.raycastBuf[j]
		if a.SortingOrder != b.SortingOrder {
			return a.SortingOrder > b.SortingOrder
		}
		return a.Depth > b.Depth
	})
	return s.raycastBuf
}

func collectRaycasters(n *Node, buf []*GraphicRaycaster) []*GraphicRaycaster {
	if !n.active {
		return buf
	}
	for _, c := range n.components {
		if r, ok := c.(*GraphicRaycaster); ok && r.IsActiveAndEnabled() {
			buf = append(buf, r)
		}
	}
	for _, child := range n.children {
		buf = collectRaycasters(child, buf)
	}
	return buf
}
