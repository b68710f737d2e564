package canopy

import "github.com/hajimehoshi/ebiten/v2"

// Ebitengine works in premultiplied alpha. The shader un-premultiplies,
// applies the matrix and premultiplies again.
const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src) * color
	if c.a > 0 {
		c.rgb /= c.a
	}
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

var colorMatrixShader *ebiten.Shader

func ensureColorMatrixShader() *ebiten.Shader {
	if colorMatrixShader == nil {
		s, err := ebiten.NewShader([]byte(colorMatrixShaderSrc))
		if err != nil {
			panic("canopy: failed to compile color matrix shader: " + err.Error())
		}
		colorMatrixShader = s
	}
	return colorMatrixShader
}

// identityColorMatrix leaves colors unchanged.
var identityColorMatrix = [20]float64{
	1, 0, 0, 0, 0,
	0, 1, 0, 0, 0,
	0, 0, 1, 0, 0,
	0, 0, 0, 1, 0,
}

// ColorMatrix is a material modifier that renders the sibling graphic through
// a 4x5 color matrix. The matrix is row-major with the offset in elements
// 4, 9, 14 and 19.
type ColorMatrix struct {
	Behaviour
	matrix [20]float64

	matrixF32 [20]float32
	base      *Material
	derived   *Material
}

// NewColorMatrix creates a color matrix modifier set to the identity.
func NewColorMatrix() *ColorMatrix {
	return &ColorMatrix{matrix: identityColorMatrix}
}

// Matrix returns the current matrix.
func (c *ColorMatrix) Matrix() [20]float64 { return c.matrix }

// SetMatrix replaces the matrix and marks the sibling graphic's material dirty.
func (c *ColorMatrix) SetMatrix(m [20]float64) {
	if c.matrix == m {
		return
	}
	c.matrix = m
	markSiblingGraphicsMaterialDirty(c.node)
}

// SetBrightness offsets the color channels by b, in [-1, 1].
func (c *ColorMatrix) SetBrightness(b float64) {
	c.SetMatrix([20]float64{
		1, 0, 0, 0, b,
		0, 1, 0, 0, b,
		0, 0, 1, 0, b,
		0, 0, 0, 1, 0,
	})
}

// SetContrast scales the color channels around mid-gray. 1 is unchanged, 0 is flat gray.
func (c *ColorMatrix) SetContrast(k float64) {
	t := (1 - k) / 2
	c.SetMatrix([20]float64{
		k, 0, 0, 0, t,
		0, k, 0, 0, t,
		0, 0, k, 0, t,
		0, 0, 0, 1, 0,
	})
}

// SetSaturation blends toward luminance. 1 is unchanged, 0 is grayscale.
func (c *ColorMatrix) SetSaturation(s float64) {
	sr := (1 - s) * 0.299
	sg := (1 - s) * 0.587
	sb := (1 - s) * 0.114
	c.SetMatrix([20]float64{
		sr + s, sg, sb, 0, 0,
		sr, sg + s, sb, 0, 0,
		sr, sg, sb + s, 0, 0,
		0, 0, 0, 1, 0,
	})
}

// ModifiedMaterial returns a clone of base drawn with the color matrix shader.
// Bases that already carry a shader are returned unchanged. An identity matrix
// is a no-op.
func (c *ColorMatrix) ModifiedMaterial(base *Material) *Material {
	if base.Shader != nil || c.matrix == identityColorMatrix {
		return base
	}
	if c.base != base || c.derived == nil {
		c.base = base
		c.derived = base.Clone()
		c.derived.Name = base.Name + " (Color Matrix)"
		c.derived.Shader = ensureColorMatrixShader()
		c.derived.Uniforms = map[string]any{"Matrix": c.matrixF32[:]}
	}
	for i, v := range c.matrix {
		c.matrixF32[i] = float32(v)
	}
	return c.derived
}

func (c *ColorMatrix) onEnable()  { markSiblingGraphicsMaterialDirty(c.node) }
func (c *ColorMatrix) onDisable() { markSiblingGraphicsMaterialDirty(c.node) }
