package canopy

// RaycastFilter is a component capability that can reject a hit-test point.
// sp is in screen space; cam is the event camera (nil for overlay canvases).
type RaycastFilter interface {
	IsRaycastLocationValid(sp Vec2, cam *Camera) bool
}

// GroupFilter is a RaycastFilter that belongs to a hierarchy of groups. A
// group that ignores parent groups is the last group consulted on the way up.
type GroupFilter interface {
	RaycastFilter
	IgnoresParentGroups() bool
}

// Raycast reports whether sp hits this graphic once every raycast filter on
// the node and its ancestors has had its say. It does not test the graphic's
// rect; GraphicRaycaster does that first.
//
// The walk stops after a node carrying an override-sorting Canvas. Groups are
// skipped once a group that ignores parent groups has been evaluated, and
// disabled groups neither run nor latch. Other filters always run, enabled
// or not.
func (g *Graphic) Raycast(sp Vec2, cam *Camera) bool {
	if !g.IsActiveAndEnabled() {
		return false
	}
	ignoreParentGroups := false
	continueTraversal := true
	for n := g.node; n != nil; {
		for _, c := range n.components {
			if cv, ok := c.(*Canvas); ok && cv.OverrideSorting {
				continueTraversal = false
			}
			filter, ok := c.(RaycastFilter)
			if !ok {
				continue
			}
			valid := true
			if group, ok := filter.(GroupFilter); ok {
				if !c.behaviour().IsActiveAndEnabled() {
					continue
				}
				if !ignoreParentGroups && group.IgnoresParentGroups() {
					ignoreParentGroups = true
					valid = filter.IsRaycastLocationValid(sp, cam)
				} else if !ignoreParentGroups {
					valid = filter.IsRaycastLocationValid(sp, cam)
				}
			} else {
				valid = filter.IsRaycastLocationValid(sp, cam)
			}
			if !valid {
				return false
			}
		}
		if !continueTraversal {
			break
		}
		n = n.Parent
	}
	return true
}

// --- Hit shapes ---

// HitShape defines a custom hit-testable region in node-local coordinates.
type HitShape interface {
	// Contains reports whether the local-space point (x, y) is inside the shape.
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := 0; i < n; i++ {
		x1, y1 := p.Points[i].X, p.Points[i].Y
		j := (i + 1) % n
		x2, y2 := p.Points[j].X, p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// ShapeFilter is a raycast filter that only accepts points inside Shape,
// expressed in its node's local space. A nil Shape accepts everything.
type ShapeFilter struct {
	Behaviour
	Shape HitShape
}

// NewShapeFilter creates a filter for the given shape.
func NewShapeFilter(shape HitShape) *ShapeFilter {
	return &ShapeFilter{Shape: shape}
}

// IsRaycastLocationValid maps sp through cam into local space and tests it
// against Shape.
func (f *ShapeFilter) IsRaycastLocationValid(sp Vec2, cam *Camera) bool {
	if f.Shape == nil || f.node == nil {
		return true
	}
	w := screenToWorld(cam, sp)
	lx, ly := f.node.WorldToLocal(w.X, w.Y)
	return f.Shape.Contains(lx, ly)
}
