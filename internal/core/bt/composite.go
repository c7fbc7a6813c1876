package bt

import "math/rand/v2"

// Shuffler permutes indices. *rand.Rand from math/rand and math/rand/v2 both satisfy it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// DefaultShuffler draws from the process-wide random source.
var DefaultShuffler Shuffler = globalShuffler{}

// Sequence succeeds when every child succeeds, in order.
type Sequence struct{ BaseNode }

func NewSequence(name string) *Sequence {
	n := &Sequence{}
	n.name = name
	n.Init(n, "Sequence", AnyChildren)
	return n
}

func (n *Sequence) Update(bb Blackboard) NodeState {
	if n.NodeFinished() {
		return n.state
	}
	return n.SetNodeState(runSequence(bb, n.children, nil))
}

// Selector succeeds on the first child that succeeds, in order.
type Selector struct{ BaseNode }

func NewSelector(name string) *Selector {
	n := &Selector{}
	n.name = name
	n.Init(n, "Selector", AnyChildren)
	return n
}

func (n *Selector) Update(bb Blackboard) NodeState {
	if n.NodeFinished() {
		return n.state
	}
	return n.SetNodeState(runSelector(bb, n.children, nil))
}

// RandomSequence is a Sequence whose child order is reshuffled on every Start.
type RandomSequence struct {
	BaseNode
	shuffled
}

func NewRandomSequence(name string, s Shuffler) *RandomSequence {
	n := &RandomSequence{shuffled: shuffled{rng: s}}
	n.name = name
	n.Init(n, "RandomSequence", AnyChildren)
	return n
}

func (n *RandomSequence) Start() {
	n.BaseNode.Start()
	n.reshuffle(len(n.children))
}

func (n *RandomSequence) Update(bb Blackboard) NodeState {
	if n.NodeFinished() {
		return n.state
	}
	return n.SetNodeState(runSequence(bb, n.children, n.permutation(len(n.children))))
}

// RandomSelector is a Selector whose child order is reshuffled on every Start.
type RandomSelector struct {
	BaseNode
	shuffled
}

func NewRandomSelector(name string, s Shuffler) *RandomSelector {
	n := &RandomSelector{shuffled: shuffled{rng: s}}
	n.name = name
	n.Init(n, "RandomSelector", AnyChildren)
	return n
}

func (n *RandomSelector) Start() {
	n.BaseNode.Start()
	n.reshuffle(len(n.children))
}

func (n *RandomSelector) Update(bb Blackboard) NodeState {
	if n.NodeFinished() {
		return n.state
	}
	return n.SetNodeState(runSelector(bb, n.children, n.permutation(len(n.children))))
}

// Parallel evaluates every child on each update and finishes once the
// failure or success threshold is met. A threshold that is negative or larger
// than the child count means all children.
type Parallel struct {
	BaseNode
	numAllowedToFail     int
	numRequiredToSucceed int
	failed               int
	succeeded            int
}

func NewParallel(name string, numAllowedToFail, numRequiredToSucceed int) *Parallel {
	n := &Parallel{
		numAllowedToFail:     numAllowedToFail,
		numRequiredToSucceed: numRequiredToSucceed,
	}
	n.name = name
	n.Init(n, "Parallel", AnyChildren)
	return n
}

func (n *Parallel) NumAllowedToFail() int {
	return n.numAllowedToFail
}

func (n *Parallel) NumRequiredToSucceed() int {
	return n.numRequiredToSucceed
}

// Counts returns the failures and successes seen since the last Start.
func (n *Parallel) Counts() (failed, succeeded int) {
	return n.failed, n.succeeded
}

func (n *Parallel) Start() {
	n.BaseNode.Start()
	n.failed = 0
	n.succeeded = 0
}

// Update skips only on a stored SUCCESS. A stored FAILURE re-runs every child
// and keeps accumulating into the same counters.
func (n *Parallel) Update(bb Blackboard) NodeState {
	if n.NodeFinishedSuccess() {
		return n.state
	}
	total := len(n.children)
	for _, c := range n.children {
		switch normalize(c.Update(bb)) {
		case StateFailure:
			n.failed++
			if reached(n.failed, n.numAllowedToFail, total) {
				return n.SetNodeState(StateFailure)
			}
		case StateSuccess:
			n.succeeded++
			if reached(n.succeeded, n.numRequiredToSucceed, total) {
				return n.SetNodeState(StateSuccess)
			}
		case StateRunning:
			return n.SetNodeState(StateRunning)
		}
	}
	return n.SetNodeState(StateRunning)
}

func reached(count, threshold, total int) bool {
	if threshold < 0 || threshold > total {
		return count >= total
	}
	return count >= threshold
}

type shuffled struct {
	rng   Shuffler
	order []int
}

func (s *shuffled) reshuffle(n int) {
	if cap(s.order) >= n {
		s.order = s.order[:n]
	} else {
		s.order = make([]int, n)
	}
	for i := range s.order {
		s.order[i] = i
	}
	rng := s.rng
	if rng == nil {
		rng = DefaultShuffler
	}
	rng.Shuffle(n, func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})
}

// permutation returns the current order, drawing a new one if children were
// added since the last Start.
func (s *shuffled) permutation(n int) []int {
	if len(s.order) != n {
		s.reshuffle(n)
	}
	return s.order
}

// Order returns the child indices in evaluation order.
func (s *shuffled) Order() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

func runSequence(bb Blackboard, children []Node, order []int) NodeState {
	for i := range children {
		c := children[i]
		if order != nil {
			c = children[order[i]]
		}
		switch normalize(c.Update(bb)) {
		case StateFailure:
			return StateFailure
		case StateRunning:
			return StateRunning
		}
	}
	return StateSuccess
}

func runSelector(bb Blackboard, children []Node, order []int) NodeState {
	for i := range children {
		c := children[i]
		if order != nil {
			c = children[order[i]]
		}
		switch normalize(c.Update(bb)) {
		case StateSuccess:
			return StateSuccess
		case StateRunning:
			return StateRunning
		}
	}
	return StateFailure
}
