package canopy

import "sort"

// RaycastResult is one graphic hit by a raycast.
type RaycastResult struct {
	Graphic *Graphic
	Node    *Node
	// Depth is the graphic's absolute draw depth; higher is drawn later.
	Depth int
	// SortingOrder is the sorting order of the raycaster's canvas.
	SortingOrder int
	// ScreenPosition is the queried point.
	ScreenPosition Vec2
	// LocalPosition is the point in the graphic node's local space.
	LocalPosition Vec2
}

// GraphicRaycaster hit-tests the graphics registered with the Canvas on its
// node. Nested canvases need their own raycaster.
type GraphicRaycaster struct {
	Behaviour

	results []RaycastResult
}

// NewGraphicRaycaster creates a raycaster. Attach it to a node carrying a Canvas.
func NewGraphicRaycaster() *GraphicRaycaster {
	return &GraphicRaycaster{}
}

// Canvas returns the canvas on the raycaster's node, or nil.
func (r *GraphicRaycaster) Canvas() *Canvas {
	cv, _ := ComponentOf[*Canvas](r.node)
	return cv
}

// EventCamera returns the camera screen points are mapped through: nil for
// overlay canvases.
func (r *GraphicRaycaster) EventCamera() *Camera {
	cv := r.Canvas()
	if cv == nil {
		return nil
	}
	return cv.eventCamera()
}

// Raycast appends every graphic under sp to buf, topmost first. A graphic is
// a candidate when it is a raycast target, not culled and was drawn last
// frame (depth >= 0); it is hit when sp falls inside its padded rect and its
// filter chain accepts the point.
func (r *GraphicRaycaster) Raycast(sp Vec2, buf []RaycastResult) []RaycastResult {
	cv := r.Canvas()
	if cv == nil || !r.IsActiveAndEnabled() || !cv.IsActiveAndEnabled() {
		return buf
	}
	cam := cv.eventCamera()
	wp := screenToWorld(cam, sp)

	r.results = r.results[:0]
	for _, g := range cv.Graphics() {
		if !g.raycastTarget || g.renderer == nil || g.renderer.Cull() {
			continue
		}
		depth := g.renderer.AbsoluteDepth()
		if depth < 0 {
			continue
		}
		lx, ly := g.node.WorldToLocal(wp.X, wp.Y)
		if !g.paddedRect().Contains(lx, ly) {
			continue
		}
		if !g.Raycast(sp, cam) {
			continue
		}
		r.results = append(r.results, RaycastResult{
			Graphic:        g,
			Node:           g.node,
			Depth:          depth,
			SortingOrder:   cv.SortingCanvas().SortingOrder,
			ScreenPosition: sp,
			LocalPosition:  Vec2{lx, ly},
		})
	}
	sort.SliceStable(r.results, func(i, j int) bool {
		return r.results[i].Depth > r.results[j].Depth
	})
	return append(buf, r.results...)
}

// paddedRect returns the node rect shrunk by RaycastPadding.
func (g *Graphic) paddedRect() Rect {
	rect := g.node.Rect()
	p := g.RaycastPadding
	return Rect{
		X:      rect.X + p[0],
		Y:      rect.Y + p[1],
		Width:  rect.Width - p[0] - p[2],
		Height: rect.Height - p[1] - p[3],
	}
}
