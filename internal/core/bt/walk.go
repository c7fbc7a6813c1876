package bt

// Walk visits n and its descendants depth first. Returning false from fn
// stops the walk.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.base().children {
		if !walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// NodeSnapshot is a read-only copy of a subtree for debuggers and visualizers.
type NodeSnapshot struct {
	Name     string         `json:"name"`
	Kind     string         `json:"kind"`
	State    NodeState      `json:"state"`
	Active   bool           `json:"active"`
	Children []NodeSnapshot `json:"children,omitempty"`
}

// Snapshot copies the names, kinds and states below n in child order.
func Snapshot(n Node) NodeSnapshot {
	b := n.base()
	s := NodeSnapshot{
		Name:   b.name,
		Kind:   b.kind,
		State:  b.state,
		Active: b.active,
	}
	if len(b.children) > 0 {
		s.Children = make([]NodeSnapshot, len(b.children))
		for i, c := range b.children {
			s.Children[i] = Snapshot(c)
		}
	}
	return s
}

// Find returns the first node named name below n.
func Find(n Node, name string) (Node, bool) {
	var found Node
	Walk(n, func(node Node, _ int) bool {
		if node.Name() == name {
			found = node
			return false
		}
		return true
	})
	return found, found != nil
}
