package bt

// Root is the single entry point of a tree.
type Root struct{ BaseNode }

func NewRoot(name string) *Root {
	n := &Root{}
	n.name = name
	n.Init(n, "Root", OneChild)
	return n
}

// Update forwards to the child. An empty root succeeds.
func (n *Root) Update(bb Blackboard) NodeState {
	c := n.child()
	if c == nil {
		return n.SetNodeState(StateSuccess)
	}
	return n.SetNodeState(c.Update(bb))
}

// RestartTree resets the whole tree below the root.
func (n *Root) RestartTree() {
	RestartTree(n)
}

// Validate checks that every decorator in the tree has its child. A Root may
// be left empty, in which case it reports SUCCESS.
func Validate(n Node) error {
	var err error
	Walk(n, func(node Node, _ int) bool {
		b := node.base()
		if b.capacity == OneChild && len(b.children) != 1 && b.kind != "Root" {
			err = &StructureError{Node: node.Name(), Kind: b.kind, Err: ErrMissingChild}
			return false
		}
		return true
	})
	return err
}

// StructureError reports a malformed node.
type StructureError struct {
	Node string
	Kind string
	Err  error
}

func (e *StructureError) Error() string {
	return e.Kind + " " + e.Node + ": " + e.Err.Error()
}

func (e *StructureError) Unwrap() error {
	return e.Err
}
