package canopy

// oneShot is a flag that is consumed by reading it: consume reports whether
// it was set and clears it in the same step.
type oneShot struct {
	set bool
}

func (o *oneShot) arm() { o.set = true }

func (o *oneShot) consume() bool {
	v := o.set
	o.set = false
	return v
}

func (o *oneShot) armed() bool { return o.set }

// dirtyFlags is the per-graphic derived-state bookkeeping. Each flag is false
// until set, and cleared only by the step that recomputes that state.
type dirtyFlags struct {
	layout   bool
	vertices bool
	material bool

	skipLayout   oneShot
	skipMaterial oneShot
}
