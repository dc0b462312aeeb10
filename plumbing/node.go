package plumbing

// NodeBody is the pressure cell backing a single node in the engine's
// graph. It is deliberately a plain data holder with pure accessors, kept
// separate from the graph itself so that replacing the edges touching a
// node never disturbs its pressure state.
type NodeBody struct {
	pressure float64
	fixed    bool
}

// NewNodeBody returns a NodeBody at zero pressure, not fixed.
func NewNodeBody() *NodeBody {
	return &NodeBody{}
}

// Pressure returns the current pressure.
func (n *NodeBody) Pressure() float64 {
	return n.pressure
}

// Fixed reports whether this node's pressure is pinned.
func (n *NodeBody) Fixed() bool {
	return n.fixed
}

// SetPressure updates the stored pressure. It is idempotent: setting the
// same value twice leaves the body in the same state.
func (n *NodeBody) SetPressure(pressure float64) {
	n.pressure = pressure
}

// SetFixed updates the fixed flag.
func (n *NodeBody) SetFixed(fixed bool) {
	n.fixed = fixed
}
