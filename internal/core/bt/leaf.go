package bt

// ActionFunc performs a side effect and reports its outcome.
type ActionFunc func(bb Blackboard) NodeState

// ConditionFunc tests host state.
type ConditionFunc func(bb Blackboard) bool

// Action runs its callback until it reports a terminal state.
type Action struct {
	BaseNode
	fn ActionFunc
}

// NewAction creates an action leaf. An unrecognized callback result counts as SUCCESS.
func NewAction(name string, fn ActionFunc) *Action {
	a := &Action{fn: fn}
	a.name = name
	a.Init(a, "Action", NoChildren)
	return a
}

func (a *Action) Update(bb Blackboard) NodeState {
	if a.NodeFinished() {
		return a.state
	}
	if a.fn == nil {
		return a.SetNodeState(StateFailure)
	}
	return a.SetNodeState(normalize(a.fn(bb)))
}

// Condition maps a predicate onto SUCCESS or FAILURE. It never runs.
type Condition struct {
	BaseNode
	fn ConditionFunc
}

// NewCondition creates a condition leaf
func NewCondition(name string, fn ConditionFunc) *Condition {
	c := &Condition{fn: fn}
	c.name = name
	c.Init(c, "Condition", NoChildren)
	return c
}

func (c *Condition) Update(bb Blackboard) NodeState {
	if c.NodeFinished() {
		return c.state
	}
	if c.fn != nil && c.fn(bb) {
		return c.SetNodeState(StateSuccess)
	}
	return c.SetNodeState(StateFailure)
}

// WaitForSeconds stays RUNNING until the accumulated tick delta reaches its duration.
type WaitForSeconds struct {
	BaseNode
	duration float64
	elapsed  float64
}

// NewWaitForSeconds creates a timer leaf driven by Blackboard.DeltaTime
func NewWaitForSeconds(name string, seconds float64) *WaitForSeconds {
	w := &WaitForSeconds{duration: seconds}
	w.name = name
	w.Init(w, "WaitForSeconds", NoChildren)
	return w
}

func (w *WaitForSeconds) Duration() float64 {
	return w.duration
}

func (w *WaitForSeconds) Elapsed() float64 {
	return w.elapsed
}

func (w *WaitForSeconds) Start() {
	w.BaseNode.Start()
	w.elapsed = 0
}

func (w *WaitForSeconds) Update(bb Blackboard) NodeState {
	if w.NodeFinishedSuccess() {
		return w.state
	}
	if bb != nil {
		w.elapsed += bb.DeltaTime()
	}
	if w.elapsed < w.duration {
		return w.SetNodeState(StateRunning)
	}
	return w.SetNodeState(StateSuccess)
}
