package canopy

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Graphic is a visual UI element. It owns its dirty state, pushes geometry
// and material to a RenderSink when rebuilt, and answers raycasts against
// its ancestor chain.
//
// Property changes only mark the graphic dirty and queue it with the rebuild
// registry; the actual work happens once per frame in Rebuild, geometry
// first, then material.
type Graphic struct {
	Behaviour

	// RaycastPadding shrinks (positive) or grows (negative) the hit rect:
	// left, top, right, bottom.
	RaycastPadding [4]float64

	// UseLegacyMeshGeneration generates into a Mesh first and hands each
	// mesh modifier a helper loaded from it, instead of running the whole
	// chain on a single VertexHelper. Both produce the same result.
	UseLegacyMeshGeneration bool

	// UsePrivateMesh generates into buffers owned by this graphic instead of
	// the shared worker buffers. Released on destroy.
	UsePrivateMesh bool

	color         Color
	raycastTarget bool
	material      *Material
	texture       *ebiten.Image
	populator     any // MeshPopulator and/or LegacyMeshPopulator

	renderer RenderSink
	canvas   *Canvas // lookup cache, never owned

	dirty dirtyFlags

	onDirtyLayout   handlerList[func()]
	onDirtyVertices handlerList[func()]
	onDirtyMaterial handlerList[func()]

	rebuilds       RebuildRegistry
	layouts        LayoutRebuildRequester
	registeredWith RebuildRegistry

	privateMesh *Mesh
	privateVH   *VertexHelper

	tween colorTweenRunner
}

// NewGraphic creates a white, raycast-target graphic backed by a CanvasRenderer.
func NewGraphic() *Graphic {
	g := &Graphic{
		color:         ColorWhite,
		raycastTarget: true,
	}
	g.SetRenderer(NewCanvasRenderer())
	return g
}

// --- Collaborators ---

// SetRebuildRegistry overrides the registry the graphic queues itself with.
// By default a graphic uses its Stage's registry, or DefaultUpdateRegistry.
func (g *Graphic) SetRebuildRegistry(r RebuildRegistry) {
	g.rebuilds = r
}

// SetLayoutRequester overrides where layout rebuild requests go. By default a
// graphic uses its Stage's layout rebuilder, or DefaultLayoutRebuilder.
func (g *Graphic) SetLayoutRequester(l LayoutRebuildRequester) {
	g.layouts = l
}

func (g *Graphic) rebuildRegistry() RebuildRegistry {
	if g.rebuilds != nil {
		return g.rebuilds
	}
	if g.node != nil {
		if st := g.node.ownerStage(); st != nil {
			return st.updates
		}
	}
	return DefaultUpdateRegistry()
}

func (g *Graphic) layoutRequester() LayoutRebuildRequester {
	if g.layouts != nil {
		return g.layouts
	}
	if g.node != nil {
		if st := g.node.ownerStage(); st != nil {
			return st.layouts
		}
	}
	return DefaultLayoutRebuilder()
}

// Renderer returns the sink the graphic renders into.
func (g *Graphic) Renderer() RenderSink { return g.renderer }

// CanvasRenderer returns the sink as a *CanvasRenderer, or nil if a custom
// sink is installed.
func (g *Graphic) CanvasRenderer() *CanvasRenderer {
	cr, _ := g.renderer.(*CanvasRenderer)
	return cr
}

// SetRenderer installs a sink. A *CanvasRenderer gets its culling hook wired
// to OnCullingChanged; other sinks must call OnCullingChanged themselves.
func (g *Graphic) SetRenderer(s RenderSink) {
	if old, ok := g.renderer.(*CanvasRenderer); ok {
		old.onCullingChanged = nil
	}
	g.renderer = s
	if cr, ok := s.(*CanvasRenderer); ok {
		cr.onCullingChanged = g.OnCullingChanged
	}
	g.MarkAllDirty()
}

// --- Properties ---

// Color returns the vertex color.
func (g *Graphic) Color() Color { return g.color }

// SetColor changes the vertex color and marks the vertices dirty.
func (g *Graphic) SetColor(c Color) {
	if g.color == c {
		return
	}
	g.color = c
	g.MarkVerticesDirty()
}

// RaycastTarget reports whether the graphic takes part in raycasts.
func (g *Graphic) RaycastTarget() bool { return g.raycastTarget }

// SetRaycastTarget toggles raycast participation.
func (g *Graphic) SetRaycastTarget(v bool) { g.raycastTarget = v }

// Texture returns the graphic's own texture, or nil.
func (g *Graphic) Texture() *ebiten.Image { return g.texture }

// SetTexture changes the main texture. Swapping for a texture of the same
// size skips the layout recompute; geometry and material are still rebuilt.
func (g *Graphic) SetTexture(tex *ebiten.Image) {
	if g.texture == tex {
		return
	}
	if g.texture != nil && tex != nil && g.texture.Bounds().Size() == tex.Bounds().Size() {
		g.dirty.skipLayout.arm()
	}
	g.texture = tex
	g.MarkAllDirty()
}

// SetPopulator installs a custom mesh generator. p should implement
// MeshPopulator, LegacyMeshPopulator, or both; nil restores the default quad.
func (g *Graphic) SetPopulator(p any) {
	g.populator = p
	g.MarkVerticesDirty()
}

// Canvas returns the nearest active and enabled Canvas at or above the
// graphic's node, resolving it on first use.
func (g *Graphic) Canvas() *Canvas {
	if g.canvas == nil {
		g.cacheCanvas()
	}
	return g.canvas
}

// Depth returns the draw-order index assigned by the last draw, or -1.
func (g *Graphic) Depth() int {
	if g.renderer == nil {
		return -1
	}
	return g.renderer.AbsoluteDepth()
}

// Transform returns the graphic's node.
func (g *Graphic) Transform() *Node { return g.node }

// IsLayoutDirty reports whether a layout rebuild was requested and has not completed.
// A request made from inside another subtree's layout pass is refused by the
// registry, and the flag then stays set until a later pass covers the node.
func (g *Graphic) IsLayoutDirty() bool { return g.dirty.layout }

// IsVerticesDirty reports whether geometry must be regenerated.
func (g *Graphic) IsVerticesDirty() bool { return g.dirty.vertices }

// IsMaterialDirty reports whether the material must be reapplied.
func (g *Graphic) IsMaterialDirty() bool { return g.dirty.material }

// SkipLayoutUpdateOnce makes the next MarkAllDirty leave layout alone.
func (g *Graphic) SkipLayoutUpdateOnce() { g.dirty.skipLayout.arm() }

// SkipMaterialUpdateOnce makes the next MarkAllDirty leave the material alone.
func (g *Graphic) SkipMaterialUpdateOnce() { g.dirty.skipMaterial.arm() }

// --- Dirty marking ---

// MarkAllDirty marks layout, vertices and material dirty. A pending
// SkipLayoutUpdateOnce or SkipMaterialUpdateOnce suppresses its part exactly
// once; vertices are always marked.
func (g *Graphic) MarkAllDirty() {
	if !g.dirty.skipLayout.consume() {
		g.MarkLayoutDirty()
	}
	if !g.dirty.skipMaterial.consume() {
		g.MarkMaterialDirty()
	}
	g.MarkVerticesDirty()
}

// MarkLayoutDirty requests a layout rebuild for the graphic's node and fires
// the layout callbacks. No-op while inactive. The request is fire-and-forget:
// the flag is set even when the registry refuses it (see IsLayoutDirty).
func (g *Graphic) MarkLayoutDirty() {
	if !g.IsActiveAndEnabled() {
		return
	}
	g.dirty.layout = true
	g.layoutRequester().MarkLayoutForRebuild(g.node)
	fireAll(&g.onDirtyLayout)
}

// MarkVerticesDirty queues a geometry rebuild and fires the vertices
// callbacks. No-op while inactive.
func (g *Graphic) MarkVerticesDirty() {
	if !g.IsActiveAndEnabled() {
		return
	}
	g.dirty.vertices = true
	g.register()
	fireAll(&g.onDirtyVertices)
}

// MarkMaterialDirty queues a material rebuild and fires the material
// callbacks. No-op while inactive.
func (g *Graphic) MarkMaterialDirty() {
	if !g.IsActiveAndEnabled() {
		return
	}
	g.dirty.material = true
	g.register()
	fireAll(&g.onDirtyMaterial)
}

func (g *Graphic) register() {
	r := g.rebuildRegistry()
	if g.registeredWith != nil && g.registeredWith != r {
		g.unregister()
	}
	if r.RegisterForGraphicRebuild(g) {
		g.registeredWith = r
	}
}

func (g *Graphic) unregister() {
	if g.registeredWith != nil {
		g.registeredWith.UnregisterForGraphicRebuild(g)
		g.registeredWith = nil
	}
}

// --- Rebuild ---

// Rebuild runs the work queued for phase. Only CanvasUpdatePreRender does
// anything: geometry (when vertices are dirty) then material (when the
// material is dirty). A culled or missing sink skips the call and leaves the
// flags set; OnCullingChanged re-queues the graphic later. Detached and
// destroyed graphics do nothing.
func (g *Graphic) Rebuild(phase CanvasUpdate) {
	if g.node == nil || g.IsDestroyed() {
		return
	}
	if g.renderer == nil || g.renderer.Cull() {
		return
	}
	switch phase {
	case CanvasUpdatePreRender:
		if g.dirty.vertices {
			g.updateGeometry()
			g.dirty.vertices = false
		}
		if g.dirty.material {
			g.updateMaterial()
			g.dirty.material = false
		}
	}
}

// LayoutComplete is called when a layout pass covering the node finished.
func (g *Graphic) LayoutComplete() {
	g.dirty.layout = false
}

// GraphicUpdateComplete is called after the graphic pass that rebuilt g.
func (g *Graphic) GraphicUpdateComplete() {}

// OnCullingChanged re-queues the graphic when culling was lifted while
// geometry or material work is still pending.
func (g *Graphic) OnCullingChanged() {
	if g.renderer == nil || g.renderer.Cull() {
		return
	}
	if g.dirty.vertices || g.dirty.material {
		g.register()
	}
}

// --- Canvas cache ---

func (g *Graphic) cacheCanvas() {
	g.canvas = nil
	if g.node == nil {
		return
	}
	for p := g.node; p != nil; p = p.Parent {
		for _, c := range p.components {
			if cv, ok := c.(*Canvas); ok && cv.IsActiveAndEnabled() {
				g.canvas = cv
				return
			}
		}
	}
}

// --- Lifecycle ---

func (g *Graphic) onEnable() {
	g.cacheCanvas()
	if g.canvas != nil {
		g.canvas.registerGraphic(g)
	}
	g.MarkAllDirty()
}

func (g *Graphic) onDisable() {
	if g.canvas != nil {
		g.canvas.unregisterGraphic(g)
	}
	g.unregister()
	if g.renderer != nil {
		g.renderer.Clear()
	}
	if g.node != nil {
		g.layoutRequester().MarkLayoutForRebuild(g.node)
	}
	g.tween.stop()
}

func (g *Graphic) onDestroy() {
	if g.canvas != nil {
		g.canvas.unregisterGraphic(g)
		g.canvas = nil
	}
	g.unregister()
	g.privateMesh = nil
	g.privateVH = nil
}

func (g *Graphic) onCanvasHierarchyChanged() {
	current := g.canvas
	g.canvas = nil
	if !g.IsActiveAndEnabled() {
		if current != nil {
			current.unregisterGraphic(g)
		}
		return
	}
	g.cacheCanvas()
	if current != g.canvas {
		if current != nil {
			current.unregisterGraphic(g)
		}
		if g.canvas != nil {
			g.canvas.registerGraphic(g)
		}
	}
}

func (g *Graphic) onBeforeTransformParentChanged() {
	if g.canvas != nil {
		g.canvas.unregisterGraphic(g)
	}
	if g.node != nil {
		g.layoutRequester().MarkLayoutForRebuild(g.node)
	}
}

func (g *Graphic) onTransformParentChanged() {
	g.canvas = nil
	if !g.IsActiveAndEnabled() {
		return
	}
	g.cacheCanvas()
	if g.canvas != nil {
		g.canvas.registerGraphic(g)
	}
	g.MarkAllDirty()
}

func (g *Graphic) onRectTransformDimensionsChange() {
	if g.node == nil || !g.node.ActiveInHierarchy() {
		return
	}
	if g.rebuildRegistry().IsRebuildingLayout() {
		g.MarkVerticesDirty()
		return
	}
	g.MarkVerticesDirty()
	g.MarkLayoutDirty()
}

// --- Dirty callbacks ---

// RegisterDirtyLayoutCallback adds fn to the callbacks fired by MarkLayoutDirty.
func (g *Graphic) RegisterDirtyLayoutCallback(fn func()) CallbackHandle {
	return g.onDirtyLayout.add(fn)
}

// UnregisterDirtyLayoutCallback removes a layout callback.
func (g *Graphic) UnregisterDirtyLayoutCallback(h CallbackHandle) { h.Remove() }

// RegisterDirtyVerticesCallback adds fn to the callbacks fired by MarkVerticesDirty.
func (g *Graphic) RegisterDirtyVerticesCallback(fn func()) CallbackHandle {
	return g.onDirtyVertices.add(fn)
}

// UnregisterDirtyVerticesCallback removes a vertices callback.
func (g *Graphic) UnregisterDirtyVerticesCallback(h CallbackHandle) { h.Remove() }

// RegisterDirtyMaterialCallback adds fn to the callbacks fired by MarkMaterialDirty.
func (g *Graphic) RegisterDirtyMaterialCallback(fn func()) CallbackHandle {
	return g.onDirtyMaterial.add(fn)
}

// UnregisterDirtyMaterialCallback removes a material callback.
func (g *Graphic) UnregisterDirtyMaterialCallback(h CallbackHandle) { h.Remove() }
