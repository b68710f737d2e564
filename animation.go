package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 values of a node or graphic
// simultaneously. Create one via the convenience constructors and call
// Update(dt) each frame. Values are written through the same setters user
// code would call, so a size tween re-lays out the node and a color tween
// marks the graphic's vertices dirty. If the target node is disposed, the
// group stops immediately.
//
// There is no global animation manager. Users call Update themselves.
// Cross fades on a Graphic are separate: they animate the renderer tint and
// are driven by Stage.Update.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	vals   [4]float64
	apply  func(v *[4]float64)
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values. If the
// target node has been disposed, Done is set to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(&g.vals)
}

func newTweenGroup(target *Node, from, to []float64, duration float32, fn ease.TweenFunc, apply func(v *[4]float64)) *TweenGroup {
	g := &TweenGroup{count: len(from), target: target, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
		g.vals[i] = from[i]
	}
	return g
}

// TweenPosition animates the node's X and Y to the target coordinates.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, []float64{node.X, node.Y}, []float64{toX, toY}, duration, fn,
		func(v *[4]float64) { node.SetPosition(v[0], v[1]) })
}

// TweenScale animates the node's ScaleX and ScaleY to the target values.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, []float64{node.ScaleX, node.ScaleY}, []float64{toSX, toSY}, duration, fn,
		func(v *[4]float64) { node.SetScale(v[0], v[1]) })
}

// TweenRotation animates the node's rotation (radians) to the target value.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, []float64{node.Rotation}, []float64{to}, duration, fn,
		func(v *[4]float64) { node.SetRotation(v[0]) })
}

// TweenSize animates the node's rect size. Graphics on the node regenerate
// their geometry and request layout every frame the size changes.
func TweenSize(node *Node, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	w, h := node.Size()
	return newTweenGroup(node, []float64{w, h}, []float64{toW, toH}, duration, fn,
		func(v *[4]float64) { node.SetSize(v[0], v[1]) })
}

// TweenColor animates the graphic's vertex color through SetColor. Unlike
// CrossFadeColor this regenerates geometry every frame.
func TweenColor(g *Graphic, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := g.Color()
	return newTweenGroup(g.Node(), []float64{c.R, c.G, c.B, c.A}, []float64{to.R, to.G, to.B, to.A}, duration, fn,
		func(v *[4]float64) { g.SetColor(Color{v[0], v[1], v[2], v[3]}) })
}
