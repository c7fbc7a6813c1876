package bt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeDefaultsToKindName(t *testing.T) {
	assert.Equal(t, "Sequence", NewSequence("").Name())
	assert.Equal(t, "patrol", NewSequence("patrol").Name())

	n := NewInverter("not")
	n.SetName("")
	assert.Equal(t, "Inverter", n.Name())
	assert.Equal(t, StateReady, n.State())
	assert.False(t, n.HasBeenActive())
}

func TestAddChildRejections(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.ErrorIs(t, NewSequence("").AddChild(nil), ErrNilChild)
	})

	t.Run("leaf takes no children", func(t *testing.T) {
		leaf := NewCondition("", func(Blackboard) bool { return true })
		assert.ErrorIs(t, leaf.AddChild(newStub("x", StateSuccess)), ErrTooManyChildren)
	})

	t.Run("decorator takes one child", func(t *testing.T) {
		inv := NewInverter("")
		require.NoError(t, inv.AddChild(newStub("a", StateSuccess)))
		assert.ErrorIs(t, inv.AddChild(newStub("b", StateSuccess)), ErrTooManyChildren)
		assert.Len(t, inv.Children(), 1)
	})

	t.Run("child owned by another parent", func(t *testing.T) {
		child := newStub("a", StateSuccess)
		require.NoError(t, NewSequence("first").AddChild(child))
		assert.ErrorIs(t, NewSequence("second").AddChild(child), ErrChildAttached)
	})

	t.Run("cycle", func(t *testing.T) {
		outer := NewSequence("outer")
		inner := NewSelector("inner")
		require.NoError(t, outer.AddChild(inner))
		assert.ErrorIs(t, inner.AddChild(outer), ErrCycle)
		assert.ErrorIs(t, outer.AddChild(outer), ErrCycle)
	})
}

func TestChildrenIsACopy(t *testing.T) {
	seq := NewSequence("")
	require.NoError(t, Attach(seq, newStub("a", StateSuccess), newStub("b", StateSuccess)))

	kids := seq.Children()
	kids[0] = nil
	assert.Equal(t, "a", seq.Children()[0].Name())
	assert.Equal(t, "b", seq.Children()[1].Name())
}

func TestRestartTreeResetsEveryDescendant(t *testing.T) {
	root := NewRoot("")
	seq := NewSequence("")
	wait := NewWaitForSeconds("", 1)
	par := NewParallel("", -1, -1)
	leaf := newStub("leaf", StateFailure)
	require.NoError(t, root.AddChild(seq))
	require.NoError(t, Attach(seq, wait, par))
	require.NoError(t, Attach(par, leaf, newStub("busy", StateRunning)))

	bb := &Board{}
	bb.SetDeltaTime(2)
	require.Equal(t, StateRunning, root.Update(bb))
	failed, _ := par.Counts()
	require.Equal(t, 1, failed)

	root.RestartTree()

	Walk(root, func(n Node, _ int) bool {
		assert.Equal(t, StateReady, n.State(), n.Name())
		return true
	})
	assert.Zero(t, wait.Elapsed())
	failed, succeeded := par.Counts()
	assert.Zero(t, failed)
	assert.Zero(t, succeeded)
	assert.True(t, leaf.HasBeenActive())
}

func TestObserverSeesEveryStateChange(t *testing.T) {
	var seen []string
	obs := ObserverFunc(func(n Node) {
		seen = append(seen, n.Name()+":"+n.State().String())
	})

	seq := NewSequence("seq")
	cond := NewCondition("cond", func(Blackboard) bool { return true })
	require.NoError(t, seq.AddChild(cond))
	seq.SetObserver(obs)
	cond.SetObserver(obs)

	seq.Update(&Board{})
	assert.Equal(t, []string{"cond:Success", "seq:Success"}, seen)
}

type countdown struct {
	BaseNode
	left int
}

func newCountdown(n int) *countdown {
	c := &countdown{left: n}
	c.Init(c, "Countdown", NoChildren)
	return c
}

func (c *countdown) Update(Blackboard) NodeState {
	if c.NodeFinished() {
		return c.state
	}
	c.left--
	if c.left > 0 {
		return c.SetNodeState(StateRunning)
	}
	return c.SetNodeState(StateSuccess)
}

func TestCustomLeaf(t *testing.T) {
	root, err := NewBuilder().
		Sequence("").
		Add(newCountdown(3)).
		End().
		Build()
	require.NoError(t, err)

	tree, err := NewTree(root, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, tree.Update(0.1))
	assert.Equal(t, StateRunning, tree.Update(0.1))
	assert.Equal(t, StateSuccess, tree.Update(0.1))
}
