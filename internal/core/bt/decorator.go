package bt

// Decorators own exactly one child. Without one they report FAILURE.

// Inverter swaps SUCCESS and FAILURE.
type Inverter struct{ BaseNode }

func NewInverter(name string) *Inverter {
	n := &Inverter{}
	n.name = name
	n.Init(n, "Inverter", OneChild)
	return n
}

func (n *Inverter) Update(bb Blackboard) NodeState {
	if n.NodeFinished() {
		return n.state
	}
	c := n.child()
	if c == nil {
		return n.SetNodeState(StateFailure)
	}
	switch c.Update(bb) {
	case StateSuccess:
		return n.SetNodeState(StateFailure)
	case StateFailure:
		return n.SetNodeState(StateSuccess)
	case StateRunning:
		return n.SetNodeState(StateRunning)
	default:
		return n.SetNodeState(StateSuccess)
	}
}

// ReturnSuccess reports SUCCESS once its child finishes either way.
type ReturnSuccess struct{ BaseNode }

func NewReturnSuccess(name string) *ReturnSuccess {
	n := &ReturnSuccess{}
	n.name = name
	n.Init(n, "ReturnSuccess", OneChild)
	return n
}

func (n *ReturnSuccess) Update(bb Blackboard) NodeState {
	if n.NodeFinishedSuccess() {
		return n.state
	}
	c := n.child()
	if c == nil {
		return n.SetNodeState(StateFailure)
	}
	if c.Update(bb) == StateRunning {
		return n.SetNodeState(StateRunning)
	}
	return n.SetNodeState(StateSuccess)
}

// ReturnFailure reports FAILURE once its child finishes either way.
type ReturnFailure struct{ BaseNode }

func NewReturnFailure(name string) *ReturnFailure {
	n := &ReturnFailure{}
	n.name = name
	n.Init(n, "ReturnFailure", OneChild)
	return n
}

func (n *ReturnFailure) Update(bb Blackboard) NodeState {
	if n.NodeFinishedFailure() {
		return n.state
	}
	c := n.child()
	if c == nil {
		return n.SetNodeState(StateFailure)
	}
	switch c.Update(bb) {
	case StateSuccess, StateFailure:
		return n.SetNodeState(StateFailure)
	case StateRunning:
		return n.SetNodeState(StateRunning)
	default:
		return n.SetNodeState(StateSuccess)
	}
}

// RepeatForever restarts and re-runs its child on every update and never finishes.
type RepeatForever struct{ BaseNode }

func NewRepeatForever(name string) *RepeatForever {
	n := &RepeatForever{}
	n.name = name
	n.Init(n, "RepeatForever", OneChild)
	return n
}

func (n *RepeatForever) Update(bb Blackboard) NodeState {
	c := n.child()
	if c == nil {
		return n.SetNodeState(StateFailure)
	}
	RestartTree(c)
	switch c.Update(bb) {
	case StateSuccess, StateFailure, StateRunning:
		return n.SetNodeState(StateRunning)
	default:
		return n.SetNodeState(StateSuccess)
	}
}

// RepeatUntilSuccess re-polls its child each update until it succeeds.
type RepeatUntilSuccess struct{ BaseNode }

func NewRepeatUntilSuccess(name string) *RepeatUntilSuccess {
	n := &RepeatUntilSuccess{}
	n.name = name
	n.Init(n, "RepeatUntilSuccess", OneChild)
	return n
}

func (n *RepeatUntilSuccess) Update(bb Blackboard) NodeState {
	if n.NodeFinishedSuccess() {
		return n.state
	}
	c := n.child()
	if c == nil {
		return n.SetNodeState(StateFailure)
	}
	RestartTree(c)
	switch c.Update(bb) {
	case StateFailure, StateRunning:
		return n.SetNodeState(StateRunning)
	default:
		return n.SetNodeState(StateSuccess)
	}
}

// RepeatUntilFailure re-polls its child each update until it fails, then succeeds.
type RepeatUntilFailure struct{ BaseNode }

func NewRepeatUntilFailure(name string) *RepeatUntilFailure {
	n := &RepeatUntilFailure{}
	n.name = name
	n.Init(n, "RepeatUntilFailure", OneChild)
	return n
}

func (n *RepeatUntilFailure) Update(bb Blackboard) NodeState {
	if n.NodeFinishedSuccess() {
		return n.state
	}
	c := n.child()
	if c == nil {
		return n.SetNodeState(StateFailure)
	}
	RestartTree(c)
	switch c.Update(bb) {
	case StateSuccess, StateRunning:
		return n.SetNodeState(StateRunning)
	default:
		return n.SetNodeState(StateSuccess)
	}
}
