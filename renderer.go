package canopy

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderSink receives a graphic's finished geometry and material and
// reports back whether it is culled and where it sits in draw order.
type RenderSink interface {
	SetMesh(m *Mesh)
	SetMaterialCount(n int)
	SetMaterial(i int, m *Material)
	SetTexture(tex *ebiten.Image)
	Clear()

	Cull() bool
	AbsoluteDepth() int

	// Color is the tint multiplied into every vertex; cross fades animate it.
	Color() Color
	SetColor(c Color)
}

// CanvasRenderer is the Ebitengine-backed RenderSink. It keeps its own copy
// of the mesh and converts it to ebiten vertices when drawn.
type CanvasRenderer struct {
	mesh      Mesh
	materials []*Material
	texture   *ebiten.Image
	color     Color
	cull      bool
	depth     int

	onCullingChanged func()

	verts  []ebiten.Vertex // preallocated transform buffer
	triOp  ebiten.DrawTrianglesOptions
	shadOp ebiten.DrawTrianglesShaderOptions
}

// NewCanvasRenderer creates a renderer with a white tint and no depth.
func NewCanvasRenderer() *CanvasRenderer {
	return &CanvasRenderer{color: ColorWhite, depth: -1}
}

// SetMesh copies m into the renderer.
func (r *CanvasRenderer) SetMesh(m *Mesh) {
	r.mesh.CopyFrom(m)
}

// Mesh returns the renderer's current geometry. Callers must not retain it.
func (r *CanvasRenderer) Mesh() *Mesh { return &r.mesh }

// SetMaterialCount resizes the material slot list.
func (r *CanvasRenderer) SetMaterialCount(n int) {
	for len(r.materials) < n {
		r.materials = append(r.materials, nil)
	}
	for i := n; i < len(r.materials); i++ {
		r.materials[i] = nil
	}
	r.materials = r.materials[:n]
}

// MaterialCount returns the number of material slots.
func (r *CanvasRenderer) MaterialCount() int { return len(r.materials) }

// SetMaterial assigns material slot i. Out-of-range slots are ignored.
func (r *CanvasRenderer) SetMaterial(i int, m *Material) {
	if i < 0 || i >= len(r.materials) {
		return
	}
	r.materials[i] = m
}

// MaterialAt returns material slot i, or nil.
func (r *CanvasRenderer) MaterialAt(i int) *Material {
	if i < 0 || i >= len(r.materials) {
		return nil
	}
	return r.materials[i]
}

// SetTexture sets the main texture.
func (r *CanvasRenderer) SetTexture(tex *ebiten.Image) { r.texture = tex }

// Texture returns the main texture.
func (r *CanvasRenderer) Texture() *ebiten.Image { return r.texture }

// Clear drops the mesh so nothing is drawn until the next SetMesh.
func (r *CanvasRenderer) Clear() {
	r.mesh.Clear()
	r.depth = -1
}

// Cull reports whether the renderer is currently culled.
func (r *CanvasRenderer) Cull() bool { return r.cull }

// SetCull changes the cull state and fires the culling-changed hook on a change.
func (r *CanvasRenderer) SetCull(cull bool) {
	if r.cull == cull {
		return
	}
	r.cull = cull
	if r.onCullingChanged != nil {
		r.onCullingChanged()
	}
}

// AbsoluteDepth returns the draw-order index assigned during the last Draw,
// or -1 if the renderer was not drawn.
func (r *CanvasRenderer) AbsoluteDepth() int { return r.depth }

// Color returns the tint.
func (r *CanvasRenderer) Color() Color { return r.color }

// SetColor sets the tint.
func (r *CanvasRenderer) SetColor(c Color) { r.color = c }

// drawable reports whether Draw would submit anything.
func (r *CanvasRenderer) drawable() bool {
	return !r.cull && len(r.mesh.Indices) > 0 && len(r.mesh.Vertices) > 0
}

// Draw submits the mesh to target with the given world transform and an
// extra alpha multiplier (canvas group alpha).
func (r *CanvasRenderer) Draw(target *ebiten.Image, transform [6]float64, alpha float64) {
	if !r.drawable() {
		return
	}
	tex := r.texture
	if tex == nil {
		tex = WhiteTexture()
	}
	mat := r.MaterialAt(0)
	if mat == nil {
		mat = DefaultMaterial()
	}

	b := tex.Bounds()
	tw, th := float64(b.Dx()), float64(b.Dy())
	tint := r.color
	tint.A *= alpha

	r.verts = transformVertices(r.mesh.Vertices, r.verts, transform, tint, tw, th, float64(b.Min.X), float64(b.Min.Y))

	if mat.Shader == nil {
		r.triOp.Blend = mat.Blend.EbitenBlend()
		target.DrawTriangles(r.verts, r.mesh.Indices, tex, &r.triOp)
		return
	}
	r.shadOp.Blend = mat.Blend.EbitenBlend()
	r.shadOp.Uniforms = mat.Uniforms
	r.shadOp.Images[0] = tex
	for i, img := range mat.Images {
		r.shadOp.Images[i+1] = img
	}
	target.DrawTrianglesShader(r.verts, r.mesh.Indices, mat.Shader, &r.shadOp)
}

// transformVertices applies an affine transform and color tint to src
// vertices, writing ebiten vertices into dst (grown with a high-water-mark
// strategy). UVs are scaled to texel coordinates of a (tw x th) texture
// whose bounds start at (ox, oy).
//
// Colors are premultiplied here: vertex color * tint, RGB scaled by alpha.
func transformVertices(src []UIVertex, dst []ebiten.Vertex, transform [6]float64, tint Color, tw, th, ox, oy float64) []ebiten.Vertex {
	if cap(dst) < len(src) {
		dst = make([]ebiten.Vertex, len(src))
	}
	dst = dst[:len(src)]
	a, b, c, d, tx, ty := transform[0], transform[1], transform[2], transform[3], transform[4], transform[5]
	for i := range src {
		s := &src[i]
		col := s.Color.Mul(tint)
		x, y := s.Position.X, s.Position.Y
		dst[i] = ebiten.Vertex{
			DstX:   float32(a*x + c*y + tx),
			DstY:   float32(b*x + d*y + ty),
			SrcX:   float32(ox + s.UV.X*tw),
			SrcY:   float32(oy + s.UV.Y*th),
			ColorR: float32(col.R * col.A),
			ColorG: float32(col.G * col.A),
			ColorB: float32(col.B * col.A),
			ColorA: float32(col.A),
		}
	}
	return dst
}
