package canopy

// RenderMode selects how a canvas maps its nodes to the screen.
type RenderMode uint8

const (
	// RenderModeScreenSpaceOverlay draws in screen pixels with no camera.
	RenderModeScreenSpaceOverlay RenderMode = iota
	// RenderModeScreenSpaceCamera draws through WorldCamera but stays a
	// screen-facing overlay for pixel snapping purposes.
	RenderModeScreenSpaceCamera
	// RenderModeWorldSpace draws through WorldCamera as part of the world.
	// Pixel snapping never applies.
	RenderModeWorldSpace
)

// Canvas is a rendering root: it collects the graphics beneath it, decides
// which camera they are drawn and hit-tested through, and can start an
// independent sort context.
type Canvas struct {
	Behaviour

	RenderMode RenderMode
	// WorldCamera is used by the camera render modes. nil falls back to the
	// stage's default camera.
	WorldCamera *Camera
	// PixelPerfect snaps default quads to whole screen pixels.
	PixelPerfect bool
	// OverrideSorting makes a nested canvas sort independently of its parent
	// canvas. Raycasts stop ascending at a node carrying such a canvas.
	OverrideSorting bool
	// SortingOrder orders canvases that sort independently. Higher is on top.
	SortingOrder int

	graphics *indexedSet[*Graphic]
}

// NewCanvas creates a canvas with the given render mode.
func NewCanvas(mode RenderMode) *Canvas {
	return &Canvas{
		RenderMode: mode,
		graphics:   newIndexedSet[*Graphic](),
	}
}

// IsRootCanvas reports whether no enabled canvas sits above this one.
func (c *Canvas) IsRootCanvas() bool {
	if c.node == nil {
		return true
	}
	for p := c.node.Parent; p != nil; p = p.Parent {
		for _, comp := range p.components {
			if cv, ok := comp.(*Canvas); ok && cv.IsActiveAndEnabled() {
				return false
			}
		}
	}
	return true
}

// RootCanvas returns the outermost enabled canvas at or above this one.
func (c *Canvas) RootCanvas() *Canvas {
	root := c
	if c.node == nil {
		return root
	}
	for p := c.node.Parent; p != nil; p = p.Parent {
		for _, comp := range p.components {
			if cv, ok := comp.(*Canvas); ok && cv.IsActiveAndEnabled() {
				root = cv
				break
			}
		}
	}
	return root
}

// SortingCanvas returns the canvas whose SortingOrder decides this canvas's
// draw order: itself when it overrides sorting or is a root, otherwise the
// nearest such canvas above it.
func (c *Canvas) SortingCanvas() *Canvas {
	if c.OverrideSorting || c.node == nil {
		return c
	}
	for p := c.node.Parent; p != nil; p = p.Parent {
		for _, comp := range p.components {
			if cv, ok := comp.(*Canvas); ok && cv.IsActiveAndEnabled() && (cv.OverrideSorting || cv.IsRootCanvas()) {
				return cv
			}
		}
	}
	return c
}

// Graphics returns the graphics currently registered with this canvas, in
// registration order. The returned slice MUST NOT be mutated.
func (c *Canvas) Graphics() []*Graphic {
	return c.graphics.items
}

// NumGraphics returns the number of registered graphics.
func (c *Canvas) NumGraphics() int { return c.graphics.len() }

func (c *Canvas) registerGraphic(g *Graphic) {
	c.graphics.addUnique(g)
}

func (c *Canvas) unregisterGraphic(g *Graphic) {
	c.graphics.remove(g)
}

// eventCamera returns the camera raycasts against this canvas go through.
func (c *Canvas) eventCamera() *Camera {
	if c.RenderMode == RenderModeScreenSpaceOverlay {
		return nil
	}
	if c.WorldCamera != nil {
		return c.WorldCamera
	}
	if c.node != nil {
		if st := c.node.ownerStage(); st != nil {
			return st.Camera
		}
	}
	return nil
}

func (c *Canvas) onDestroy() {
	c.graphics.clear()
}
