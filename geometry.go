package canopy

import "math"

// MeshModifier is a component capability that post-processes a graphic's
// generated geometry. Modifiers on a node run in component order.
type MeshModifier interface {
	ModifyMesh(vh *VertexHelper)
}

// MeshPopulator generates a graphic's geometry into a VertexHelper. The helper
// is cleared before the call.
type MeshPopulator interface {
	PopulateMesh(g *Graphic, vh *VertexHelper)
}

// LegacyMeshPopulator generates a graphic's geometry straight into a Mesh.
// Used by the legacy generation path when present.
type LegacyMeshPopulator interface {
	PopulateLegacyMesh(g *Graphic, m *Mesh)
}

func (g *Graphic) updateGeometry() {
	if g.UseLegacyMeshGeneration {
		g.doLegacyMeshGeneration()
	} else {
		g.doMeshGeneration()
	}
}

func (g *Graphic) buffers() (*Mesh, *VertexHelper) {
	if !g.UsePrivateMesh {
		return &workerMesh, &sharedVertexHelper
	}
	if g.privateMesh == nil {
		g.privateMesh = &Mesh{}
		g.privateVH = &VertexHelper{}
	}
	return g.privateMesh, g.privateVH
}

// hasValidRect reports whether the node's rect can be populated. A graphic
// with a negative size renders nothing but modifiers still run.
func (g *Graphic) hasValidRect() bool {
	if g.node == nil {
		return false
	}
	r := g.node.Rect()
	return r.Width >= 0 && r.Height >= 0
}

func (g *Graphic) doMeshGeneration() {
	mesh, vh := g.buffers()
	if g.hasValidRect() {
		g.populate(vh)
	} else {
		vh.Clear()
	}
	g.forEachMeshModifier(func(m MeshModifier) { m.ModifyMesh(vh) })
	vh.FillMesh(mesh)
	g.renderer.SetMesh(mesh)
}

func (g *Graphic) doLegacyMeshGeneration() {
	mesh, vh := g.buffers()
	if g.hasValidRect() {
		if lp, ok := g.populator.(LegacyMeshPopulator); ok {
			mesh.Clear()
			lp.PopulateLegacyMesh(g, mesh)
		} else {
			g.populate(vh)
			vh.FillMesh(mesh)
		}
	} else {
		mesh.Clear()
	}
	g.forEachMeshModifier(func(m MeshModifier) {
		vh.Clear()
		vh.verts = append(vh.verts, mesh.Vertices...)
		vh.indices = append(vh.indices, mesh.Indices...)
		m.ModifyMesh(vh)
		vh.FillMesh(mesh)
	})
	g.renderer.SetMesh(mesh)
}

func (g *Graphic) forEachMeshModifier(fn func(MeshModifier)) {
	for _, c := range g.node.components {
		mod, ok := c.(MeshModifier)
		if !ok || !c.behaviour().IsActiveAndEnabled() {
			continue
		}
		fn(mod)
	}
}

// populate clears vh and fills it from the installed populator, or with the
// default quad.
func (g *Graphic) populate(vh *VertexHelper) {
	vh.Clear()
	switch p := g.populator.(type) {
	case MeshPopulator:
		p.PopulateMesh(g, vh)
	case LegacyMeshPopulator:
		var m Mesh
		p.PopulateLegacyMesh(g, &m)
		vh.verts = append(vh.verts, m.Vertices...)
		vh.indices = append(vh.indices, m.Indices...)
	default:
		AddQuad(vh, g.PixelAdjustedRect(), g.color)
	}
}

// AddQuad appends a two-triangle quad covering r with full-texture UVs.
// Corners go top-left, bottom-left, bottom-right, top-right.
func AddQuad(vh *VertexHelper, r Rect, c Color) {
	base := vh.CurrentVertCount()
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width, r.Y+r.Height
	vh.AddVert(Vec2{x0, y0}, c, Vec2{0, 0})
	vh.AddVert(Vec2{x0, y1}, c, Vec2{0, 1})
	vh.AddVert(Vec2{x1, y1}, c, Vec2{1, 1})
	vh.AddVert(Vec2{x1, y0}, c, Vec2{1, 0})
	vh.AddTriangle(base, base+1, base+2)
	vh.AddTriangle(base+2, base+3, base)
}

// --- Pixel snapping ---

func (g *Graphic) pixelPerfect() bool {
	cv := g.Canvas()
	return cv != nil && cv.RenderMode != RenderModeWorldSpace && cv.PixelPerfect
}

// PixelAdjustPoint snaps a local-space point to the nearest screen pixel when
// the graphic's canvas is pixel perfect and not in world space. Otherwise the
// point is returned unchanged.
func (g *Graphic) PixelAdjustPoint(p Vec2) Vec2 {
	if g.node == nil || !g.pixelPerfect() {
		return p
	}
	return g.snapLocal(p)
}

// PixelAdjustedRect returns the node's rect with its corners snapped to screen
// pixels under the same conditions as PixelAdjustPoint.
func (g *Graphic) PixelAdjustedRect() Rect {
	if g.node == nil {
		return Rect{}
	}
	r := g.node.Rect()
	if !g.pixelPerfect() {
		return r
	}
	minP := g.snapLocal(Vec2{r.X, r.Y})
	maxP := g.snapLocal(Vec2{r.X + r.Width, r.Y + r.Height})
	return Rect{X: minP.X, Y: minP.Y, Width: maxP.X - minP.X, Height: maxP.Y - minP.Y}
}

func (g *Graphic) snapLocal(p Vec2) Vec2 {
	wt := g.node.refreshWorldTransform()
	if det := wt[0]*wt[3] - wt[2]*wt[1]; det > -1e-12 && det < 1e-12 {
		return p
	}
	wx, wy := transformPoint(wt, p.X, p.Y)
	lx, ly := transformPoint(invertAffine(wt), math.Round(wx), math.Round(wy))
	return Vec2{lx, ly}
}
