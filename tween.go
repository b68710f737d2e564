package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type colorTweenMode uint8

const (
	colorTweenAll colorTweenMode = iota
	colorTweenRGB
	colorTweenAlpha
)

// colorTweenRunner animates a RenderSink's tint from a start to a target
// color. At most one tween runs at a time; starting a new one replaces it.
type colorTweenRunner struct {
	tween           *gween.Tween
	sink            RenderSink
	from, to        Color
	mode            colorTweenMode
	ignoreTimeScale bool
}

func (r *colorTweenRunner) running() bool { return r.tween != nil }

func (r *colorTweenRunner) stop() {
	r.tween = nil
	r.sink = nil
}

// start replaces any running tween. A zero duration or an inactive owner
// applies the target immediately.
func (r *colorTweenRunner) start(sink RenderSink, to Color, duration float64, ignoreTimeScale bool, mode colorTweenMode, active bool) {
	r.stop()
	r.sink = sink
	r.from = sink.Color()
	r.to = to
	r.mode = mode
	r.ignoreTimeScale = ignoreTimeScale
	if !active || duration <= 0 {
		r.apply(1)
		r.sink = nil
		return
	}
	r.tween = gween.New(0, 1, float32(duration), ease.Linear)
}

// update advances the tween by dt (or unscaledDt when the tween ignores time
// scale) and pushes the interpolated color to the sink.
func (r *colorTweenRunner) update(dt, unscaledDt float64) {
	if r.tween == nil {
		return
	}
	step := dt
	if r.ignoreTimeScale {
		step = unscaledDt
	}
	t, done := r.tween.Update(float32(step))
	if done {
		r.apply(1)
		r.stop()
		return
	}
	r.apply(clamp01(float64(t)))
}

func (r *colorTweenRunner) apply(t float64) {
	c := r.from.Lerp(r.to, t)
	switch r.mode {
	case colorTweenAlpha:
		c.R, c.G, c.B = r.from.R, r.from.G, r.from.B
	case colorTweenRGB:
		c.A = r.from.A
	}
	r.sink.SetColor(c)
}

// CrossFadeColor tweens the renderer tint to target over duration seconds.
// useRGB and useAlpha select which channels change; with neither set the
// call does nothing. Fading to the current tint stops any running fade.
// The tint multiplies Color and is not part of the generated mesh, so a fade
// never marks the graphic dirty.
func (g *Graphic) CrossFadeColor(target Color, duration float64, ignoreTimeScale, useAlpha, useRGB bool) {
	if g.renderer == nil || (!useRGB && !useAlpha) {
		return
	}
	if g.renderer.Color() == target {
		g.tween.stop()
		return
	}
	mode := colorTweenAll
	switch {
	case useRGB && useAlpha:
	case useRGB:
		mode = colorTweenRGB
	default:
		mode = colorTweenAlpha
	}
	active := g.node != nil && g.node.ActiveInHierarchy()
	g.tween.start(g.renderer, target, duration, ignoreTimeScale, mode, active)
}

// CrossFadeAlpha tweens the renderer tint's alpha to alpha over duration seconds.
func (g *Graphic) CrossFadeAlpha(alpha, duration float64, ignoreTimeScale bool) {
	g.CrossFadeColor(Color{A: alpha}, duration, ignoreTimeScale, true, false)
}

// IsCrossFading reports whether a cross fade is in progress.
func (g *Graphic) IsCrossFading() bool { return g.tween.running() }

// UpdateTweens advances a running cross fade. dt is scaled game time,
// unscaledDt wall time; fades started with ignoreTimeScale use the latter.
// Stage.Update calls this for every graphic beneath its root.
func (g *Graphic) UpdateTweens(dt, unscaledDt float64) {
	g.tween.update(dt, unscaledDt)
}

// updateTweens walks the tree and advances cross fades on active graphics.
func updateTweens(n *Node, dt, unscaledDt float64) {
	if !n.active {
		return
	}
	for _, c := range n.components {
		if g, ok := c.(*Graphic); ok && g.tween.running() {
			g.UpdateTweens(dt, unscaledDt)
		}
	}
	for _, child := range n.children {
		updateTweens(child, dt, unscaledDt)
	}
}
