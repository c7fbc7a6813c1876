package bt

// stub returns a fixed state and counts how often it was updated. It never
// skips, so call counts show exactly which children a parent evaluated.
type stub struct {
	BaseNode
	result NodeState
	calls  int
	trace  *[]string
}

func newStub(name string, result NodeState) *stub {
	s := &stub{result: result}
	s.SetName(name)
	s.Init(s, "Stub", NoChildren)
	return s
}

func (s *stub) Update(Blackboard) NodeState {
	s.calls++
	if s.trace != nil {
		*s.trace = append(*s.trace, s.name)
	}
	return s.SetNodeState(s.result)
}

// reverse always produces the reversed order.
type reverse struct{}

func (reverse) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func stubs(trace *[]string, results ...NodeState) []*stub {
	out := make([]*stub, len(results))
	for i, r := range results {
		out[i] = newStub(string(rune('a'+i)), r)
		out[i].trace = trace
	}
	return out
}

func attachStubs(parent Node, children []*stub) error {
	for _, c := range children {
		if err := parent.AddChild(c); err != nil {
			return err
		}
	}
	return nil
}
