package bt

import "fmt"

// Updater refreshes domain fields on the blackboard before each tick.
type Updater func(bb Blackboard)

// Tree drives a root once per tick and restarts it after it finishes.
type Tree struct {
	name    string
	root    *Root
	bb      Blackboard
	updater Updater
	last    NodeState
	ticks   uint64
}

type TreeOption func(*Tree)

// WithTreeName overrides the name taken from the root.
func WithTreeName(name string) TreeOption {
	return func(t *Tree) {
		t.name = name
	}
}

// WithObserver installs o on every node of the tree.
func WithObserver(o Observer) TreeOption {
	return func(t *Tree) {
		t.SetObserver(o)
	}
}

// NewTree binds root to a blackboard and an optional updater. A nil
// blackboard is replaced by a bare Board.
func NewTree(root *Root, bb Blackboard, updater Updater, opts ...TreeOption) (*Tree, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	if bb == nil {
		bb = &Board{}
	}
	t := &Tree{
		name:    root.Name(),
		root:    root,
		bb:      bb,
		updater: updater,
		last:    StateReady,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Tree) Name() string {
	return t.name
}

func (t *Tree) SetName(name string) {
	t.name = name
}

func (t *Tree) Root() *Root {
	return t.root
}

func (t *Tree) Blackboard() Blackboard {
	return t.bb
}

// State is the root result of the last completed tick.
func (t *Tree) State() NodeState {
	return t.last
}

// Ticks counts completed updates.
func (t *Tree) Ticks() uint64 {
	return t.ticks
}

// Update runs one tick: store dt, refresh the blackboard, restart the tree
// unless the previous tick ended RUNNING, then evaluate the root.
//
// A panicking callback propagates to the caller, and the next tick starts
// from a full restart.
func (t *Tree) Update(dt float64) NodeState {
	done := false
	defer func() {
		if !done {
			t.last = StateReady
		}
	}()

	t.bb.SetDeltaTime(dt)
	if t.updater != nil {
		t.updater(t.bb)
	}
	if t.last != StateRunning {
		t.root.RestartTree()
	}
	t.last = t.root.Update(t.bb)
	t.ticks++
	done = true
	return t.last
}

// SafeUpdate is Update with callback panics returned as ErrCallbackPanic.
func (t *Tree) SafeUpdate(dt float64) (state NodeState, err error) {
	defer func() {
		if r := recover(); r != nil {
			state = StateReady
			err = fmt.Errorf("%w: tree %q: %v", ErrCallbackPanic, t.name, r)
		}
	}()
	return t.Update(dt), nil
}

// Restart resets every node regardless of the last result.
func (t *Tree) Restart() {
	t.root.RestartTree()
	t.last = StateReady
}

// SetObserver installs o on every node currently in the tree.
func (t *Tree) SetObserver(o Observer) {
	Walk(t.root, func(n Node, _ int) bool {
		n.SetObserver(o)
		return true
	})
}
