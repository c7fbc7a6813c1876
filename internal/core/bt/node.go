package bt

import "slices"

// Child capacities accepted by Init.
const (
	NoChildren  = 0
	OneChild    = 1
	AnyChildren = -1
)

// Node is a unit of behavior tree logic. Custom nodes embed BaseNode, call
// Init from their constructor and implement Update.
type Node interface {
	Name() string
	SetName(name string)
	Kind() string
	State() NodeState
	Children() []Node
	AddChild(child Node) error
	// Start resets the node itself to READY. It never touches children.
	Start()
	Update(bb Blackboard) NodeState
	HasBeenActive() bool
	SetObserver(o Observer)

	base() *BaseNode
}

// Observer is notified every time a node stores a new state.
type Observer interface {
	NodeActive(n Node)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(n Node)

func (f ObserverFunc) NodeActive(n Node) {
	f(n)
}

// BaseNode holds the state shared by every node kind.
type BaseNode struct {
	self     Node
	kind     string
	name     string
	state    NodeState
	children []Node
	capacity int
	parent   *BaseNode
	active   bool
	observer Observer
}

// Init binds the embedding node and sets its kind and child capacity.
// The name defaults to the kind.
func (b *BaseNode) Init(self Node, kind string, capacity int) {
	b.self = self
	b.kind = kind
	b.capacity = capacity
	if b.name == "" {
		b.name = kind
	}
}

func (b *BaseNode) base() *BaseNode {
	return b
}

func (b *BaseNode) Name() string {
	return b.name
}

// SetName renames the node. An empty name falls back to the kind.
func (b *BaseNode) SetName(name string) {
	if name == "" {
		name = b.kind
	}
	b.name = name
}

func (b *BaseNode) Kind() string {
	return b.kind
}

func (b *BaseNode) State() NodeState {
	return b.state
}

// Children returns a copy of the ordered child list.
func (b *BaseNode) Children() []Node {
	return slices.Clone(b.children)
}

// AddChild appends child. Children are owned exclusively: a node that already
// has a parent, or whose subtree contains b, is rejected.
func (b *BaseNode) AddChild(child Node) error {
	if child == nil {
		return ErrNilChild
	}
	cb := child.base()
	if b.capacity >= 0 && len(b.children) >= b.capacity {
		return ErrTooManyChildren
	}
	if cb.parent != nil {
		return ErrChildAttached
	}
	if cb == b || contains(child, b) {
		return ErrCycle
	}
	if cb.self == nil {
		cb.self = child
	}
	cb.parent = b
	b.children = append(b.children, child)
	return nil
}

func contains(n Node, target *BaseNode) bool {
	for _, c := range n.base().children {
		if c.base() == target || contains(c, target) {
			return true
		}
	}
	return false
}

func (b *BaseNode) Start() {
	b.state = StateReady
}

func (b *BaseNode) HasBeenActive() bool {
	return b.active
}

func (b *BaseNode) SetObserver(o Observer) {
	b.observer = o
}

// SetNodeState is the only way a node changes state during Update.
func (b *BaseNode) SetNodeState(s NodeState) NodeState {
	b.state = s
	b.active = true
	if b.observer != nil && b.self != nil {
		b.observer.NodeActive(b.self)
	}
	return s
}

func (b *BaseNode) NodeFinished() bool {
	return b.state.Terminal()
}

func (b *BaseNode) NodeFinishedSuccess() bool {
	return b.state == StateSuccess
}

func (b *BaseNode) NodeFinishedFailure() bool {
	return b.state == StateFailure
}

func (b *BaseNode) child() Node {
	if len(b.children) == 0 {
		return nil
	}
	return b.children[0]
}

// RestartTree starts n and then every descendant, depth first.
func RestartTree(n Node) {
	if n == nil {
		return
	}
	n.Start()
	for _, c := range n.base().children {
		RestartTree(c)
	}
}

// Attach adds children to parent in order and stops at the first error.
func Attach(parent Node, children ...Node) error {
	for _, c := range children {
		if err := parent.AddChild(c); err != nil {
			return err
		}
	}
	return nil
}
