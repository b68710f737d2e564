package canopy

// Shadow is a mesh modifier that draws a tinted, offset copy of the mesh
// behind the original.
type Shadow struct {
	Behaviour

	EffectColor    Color
	EffectDistance Vec2
	// UseGraphicAlpha multiplies the shadow alpha by each source vertex alpha.
	UseGraphicAlpha bool

	verts   []UIVertex
	indices []uint16
}

// NewShadow creates a half-transparent black shadow offset one pixel right and down.
func NewShadow() *Shadow {
	return &Shadow{
		EffectColor:     Color{0, 0, 0, 0.5},
		EffectDistance:  Vec2{1, 1},
		UseGraphicAlpha: true,
	}
}

// SetEffectColor changes the shadow color and marks sibling graphics' vertices dirty.
func (s *Shadow) SetEffectColor(c Color) {
	if s.EffectColor == c {
		return
	}
	s.EffectColor = c
	markSiblingGraphicsVerticesDirty(s.node)
}

// SetEffectDistance changes the shadow offset and marks sibling graphics' vertices dirty.
func (s *Shadow) SetEffectDistance(d Vec2) {
	if s.EffectDistance == d {
		return
	}
	s.EffectDistance = d
	markSiblingGraphicsVerticesDirty(s.node)
}

// ModifyMesh prepends one shadow copy of the current geometry.
func (s *Shadow) ModifyMesh(vh *VertexHelper) {
	if !s.fits(vh, 1) {
		return
	}
	s.snapshot(vh)
	vh.Clear()
	s.appendCopy(vh, s.EffectDistance)
	s.appendOriginal(vh)
}

// fits reports whether copies extra copies of the geometry stay addressable
// by uint16 indices. Oversized meshes are left unmodified.
func (s *Shadow) fits(vh *VertexHelper, copies int) bool {
	if n := vh.CurrentVertCount(); n*(copies+1) > maxMeshVertices {
		debugf("skipping effect: %d vertices times %d exceeds the uint16 index range", n, copies+1)
		return false
	}
	return true
}

func (s *Shadow) snapshot(vh *VertexHelper) {
	s.verts = append(s.verts[:0], vh.verts...)
	s.indices = append(s.indices[:0], vh.indices...)
}

func (s *Shadow) appendCopy(vh *VertexHelper, offset Vec2) {
	base := vh.CurrentVertCount()
	for _, v := range s.verts {
		c := s.EffectColor
		if s.UseGraphicAlpha {
			c.A *= v.Color.A
		}
		vh.AddVert(Vec2{v.Position.X + offset.X, v.Position.Y + offset.Y}, c, v.UV)
	}
	for _, i := range s.indices {
		vh.indices = append(vh.indices, uint16(base)+i)
	}
}

func (s *Shadow) appendOriginal(vh *VertexHelper) {
	base := vh.CurrentVertCount()
	vh.verts = append(vh.verts, s.verts...)
	for _, i := range s.indices {
		vh.indices = append(vh.indices, uint16(base)+i)
	}
}

func (s *Shadow) onEnable()  { markSiblingGraphicsVerticesDirty(s.node) }
func (s *Shadow) onDisable() { markSiblingGraphicsVerticesDirty(s.node) }

// Outline is a Shadow drawn four times, once per diagonal, producing an
// outline of EffectDistance thickness.
type Outline struct {
	Shadow
}

// NewOutline creates a half-transparent black one-pixel outline.
func NewOutline() *Outline {
	return &Outline{Shadow: *NewShadow()}
}

// ModifyMesh prepends four offset copies of the current geometry.
func (o *Outline) ModifyMesh(vh *VertexHelper) {
	if !o.fits(vh, 4) {
		return
	}
	d := o.EffectDistance
	o.snapshot(vh)
	vh.Clear()
	o.appendCopy(vh, Vec2{d.X, d.Y})
	o.appendCopy(vh, Vec2{d.X, -d.Y})
	o.appendCopy(vh, Vec2{-d.X, d.Y})
	o.appendCopy(vh, Vec2{-d.X, -d.Y})
	o.appendOriginal(vh)
}

func markSiblingGraphicsVerticesDirty(n *Node) {
	if n == nil {
		return
	}
	for _, c := range n.components {
		if g, ok := c.(*Graphic); ok {
			g.MarkVerticesDirty()
		}
	}
}
