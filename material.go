package canopy

import (
	"maps"

	"github.com/hajimehoshi/ebiten/v2"
)

// Material describes how a graphic's mesh is shaded. A nil Shader draws with
// plain DrawTriangles; otherwise DrawTrianglesShader is used with the
// graphic's main texture in image slot 0 and Images in slots 1 to 3.
type Material struct {
	Name     string
	Shader   *ebiten.Shader
	Uniforms map[string]any
	Images   [3]*ebiten.Image
	Blend    BlendMode
}

// Clone returns a copy of m with its own uniform map.
func (m *Material) Clone() *Material {
	c := *m
	if m.Uniforms != nil {
		c.Uniforms = maps.Clone(m.Uniforms)
	}
	return &c
}

// --- Default material singleton (no sync.Once; canopy is single-threaded) ---

var defaultMaterial *Material

// DefaultMaterial returns the process-wide material used by graphics with no
// material of their own.
func DefaultMaterial() *Material {
	if defaultMaterial == nil {
		defaultMaterial = &Material{Name: "Default UI Material", Blend: BlendNormal}
	}
	return defaultMaterial
}

// MaterialModifier is a component capability that derives the material used
// for rendering from its input. Modifiers on a node run in component order.
type MaterialModifier interface {
	ModifiedMaterial(base *Material) *Material
}

// --- Graphic material resolution ---

// Material returns the user-set material, or DefaultMaterial when unset.
func (g *Graphic) Material() *Material {
	if g.material != nil {
		return g.material
	}
	return DefaultMaterial()
}

// SetMaterial sets the graphic's base material. nil restores the default.
func (g *Graphic) SetMaterial(m *Material) {
	if g.material == m {
		return
	}
	g.material = m
	g.MarkMaterialDirty()
}

// MaterialForRendering returns Material() passed through every enabled
// MaterialModifier on the graphic's node, in component order. The modifier
// list is queried on every call so attach/detach takes effect immediately.
func (g *Graphic) MaterialForRendering() *Material {
	mat := g.Material()
	if g.node == nil {
		return mat
	}
	for _, c := range g.node.components {
		mod, ok := c.(MaterialModifier)
		if !ok || !c.behaviour().IsActiveAndEnabled() {
			continue
		}
		mat = mod.ModifiedMaterial(mat)
	}
	return mat
}

// MainTexture returns the texture bound when rendering: the graphic's own
// texture or the shared white texture.
func (g *Graphic) MainTexture() *ebiten.Image {
	if g.texture != nil {
		return g.texture
	}
	return WhiteTexture()
}

// updateMaterial pushes the resolved material and main texture to the sink.
func (g *Graphic) updateMaterial() {
	if !g.IsActiveAndEnabled() || g.renderer == nil {
		return
	}
	g.renderer.SetMaterialCount(1)
	g.renderer.SetMaterial(0, g.MaterialForRendering())
	g.renderer.SetTexture(g.MainTexture())
}

// --- BlendOverride ---

// BlendOverride is a material modifier that renders the graphic with a
// different blend mode. Derived materials are cached per base material.
type BlendOverride struct {
	Behaviour
	Mode BlendMode

	base    *Material
	derived *Material
}

// NewBlendOverride creates a blend override modifier.
func NewBlendOverride(mode BlendMode) *BlendOverride {
	return &BlendOverride{Mode: mode}
}

// ModifiedMaterial returns a clone of base using the override blend mode.
func (b *BlendOverride) ModifiedMaterial(base *Material) *Material {
	if base.Blend == b.Mode {
		return base
	}
	if b.base != base || b.derived == nil || b.derived.Blend != b.Mode {
		b.base = base
		b.derived = base.Clone()
		b.derived.Blend = b.Mode
	}
	return b.derived
}

// SetMode changes the blend mode and marks the sibling graphic's material dirty.
func (b *BlendOverride) SetMode(mode BlendMode) {
	if b.Mode == mode {
		return
	}
	b.Mode = mode
	markSiblingGraphicsMaterialDirty(b.node)
}

func (b *BlendOverride) onEnable()  { markSiblingGraphicsMaterialDirty(b.node) }
func (b *BlendOverride) onDisable() { markSiblingGraphicsMaterialDirty(b.node) }

func markSiblingGraphicsMaterialDirty(n *Node) {
	if n == nil {
		return
	}
	for _, c := range n.components {
		if g, ok := c.(*Graphic); ok {
			g.MarkMaterialDirty()
		}
	}
}
