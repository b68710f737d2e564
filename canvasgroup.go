package canopy

// CanvasGroup controls raycast blocking, interactability and alpha for a
// whole subtree. Nested groups combine unless IgnoreParentGroups is set.
type CanvasGroup struct {
	Behaviour

	// BlocksRaycasts makes graphics in the subtree hit-testable. When false
	// the group rejects every raycast.
	BlocksRaycasts bool
	// Interactable is advisory: input dispatch skips non-interactable subtrees.
	Interactable bool
	// IgnoreParentGroups stops ancestor groups from affecting this subtree.
	IgnoreParentGroups bool

	alpha float64
}

// NewCanvasGroup creates an opaque, interactable, raycast-blocking group.
func NewCanvasGroup() *CanvasGroup {
	return &CanvasGroup{BlocksRaycasts: true, Interactable: true, alpha: 1}
}

// Alpha returns the group's own alpha.
func (g *CanvasGroup) Alpha() float64 { return g.alpha }

// SetAlpha sets the group's alpha, clamped to [0, 1].
func (g *CanvasGroup) SetAlpha(a float64) { g.alpha = clamp01(a) }

// IsRaycastLocationValid reports BlocksRaycasts.
func (g *CanvasGroup) IsRaycastLocationValid(Vec2, *Camera) bool { return g.BlocksRaycasts }

// IgnoresParentGroups reports IgnoreParentGroups.
func (g *CanvasGroup) IgnoresParentGroups() bool { return g.IgnoreParentGroups }

// groupAlpha multiplies the alpha of every enabled group from n upward,
// stopping after a group that ignores its parents.
func groupAlpha(n *Node) float64 {
	a := 1.0
	for p := n; p != nil; p = p.Parent {
		for _, c := range p.components {
			g, ok := c.(*CanvasGroup)
			if !ok || !g.IsActiveAndEnabled() {
				continue
			}
			a *= g.alpha
			if g.IgnoreParentGroups {
				return a
			}
		}
	}
	return a
}

// groupInteractable reports whether every enabled group above n is interactable,
// with the same IgnoreParentGroups cut-off as groupAlpha.
func groupInteractable(n *Node) bool {
	for p := n; p != nil; p = p.Parent {
		for _, c := range p.components {
			g, ok := c.(*CanvasGroup)
			if !ok || !g.IsActiveAndEnabled() {
				continue
			}
			if !g.Interactable {
				return false
			}
			if g.IgnoreParentGroups {
				return true
			}
		}
	}
	return true
}
