package bt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unitBoard struct {
	Board
	distance float64
}

func TestTreeRoundTrip(t *testing.T) {
	actions := 0
	root := NewBuilder().
		Sequence("").
		Condition("", func(Blackboard) bool { return true }).
		Do("", func(Blackboard) NodeState {
			actions++
			return StateSuccess
		}).
		End().
		MustBuild()

	tree, err := NewTree(root, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, StateSuccess, tree.Update(0.016))
	assert.Equal(t, StateSuccess, tree.Update(0.016))
	assert.Equal(t, 2, actions)
	assert.Equal(t, uint64(2), tree.Ticks())
}

func TestTreeRefreshesBlackboardBeforeEvaluation(t *testing.T) {
	bb := &unitBoard{}
	var seenDT []float64
	root := NewBuilder().
		Condition("close", func(b Blackboard) bool {
			return b.(*unitBoard).distance < 5
		}).
		MustBuild()

	distances := []float64{10, 3}
	tree, err := NewTree(root, bb, func(b Blackboard) {
		seenDT = append(seenDT, b.DeltaTime())
		b.(*unitBoard).distance = distances[0]
		distances = distances[1:]
	})
	require.NoError(t, err)

	assert.Equal(t, StateFailure, tree.Update(0.1))
	assert.Equal(t, StateSuccess, tree.Update(0.2))
	assert.Equal(t, []float64{0.1, 0.2}, seenDT)
	assert.Same(t, bb, tree.Blackboard())
}

func TestTreeKeepsRunningSubtreeAcrossTicks(t *testing.T) {
	entered := 0
	root := NewBuilder().
		Sequence("").
		Do("enter", func(Blackboard) NodeState {
			entered++
			return StateSuccess
		}).
		WaitForSeconds("", 1).
		End().
		MustBuild()
	tree, err := NewTree(root, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, StateRunning, tree.Update(0.5))
	assert.Equal(t, StateSuccess, tree.Update(0.5))
	assert.Equal(t, 1, entered)

	assert.Equal(t, StateRunning, tree.Update(0.5))
	assert.Equal(t, 2, entered)
}

func TestTreeRestart(t *testing.T) {
	root := NewBuilder().WaitForSeconds("wait", 1).MustBuild()
	tree, err := NewTree(root, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, StateRunning, tree.Update(0.9))
	tree.Restart()
	assert.Equal(t, StateReady, tree.State())

	wait, ok := Find(root, "wait")
	require.True(t, ok)
	assert.Zero(t, wait.(*WaitForSeconds).Elapsed())
	assert.Equal(t, StateRunning, tree.Update(0.9))
}

func TestTreeSafeUpdateRecoversPanics(t *testing.T) {
	boom := true
	steps := 0
	root := NewBuilder().
		Sequence("").
		Do("step", func(Blackboard) NodeState {
			steps++
			return StateSuccess
		}).
		WaitForSeconds("", 1).
		Do("explode", func(Blackboard) NodeState {
			if boom {
				panic(errors.New("bad host state"))
			}
			return StateSuccess
		}).
		End().
		MustBuild()
	tree, err := NewTree(root, nil, nil, WithTreeName("fragile"))
	require.NoError(t, err)

	assert.Equal(t, StateRunning, tree.Update(0.5))

	state, err := tree.SafeUpdate(0.5)
	require.ErrorIs(t, err, ErrCallbackPanic)
	assert.Contains(t, err.Error(), "fragile")
	assert.Contains(t, err.Error(), "bad host state")
	assert.Equal(t, StateReady, state)
	assert.Equal(t, StateReady, tree.State())

	boom = false
	state, err = tree.SafeUpdate(0.5)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, state)
	assert.Equal(t, 2, steps)
}

func TestTreeUpdateRepanics(t *testing.T) {
	root := NewBuilder().
		Do("", func(Blackboard) NodeState { panic("boom") }).
		MustBuild()
	tree, err := NewTree(root, nil, nil)
	require.NoError(t, err)

	assert.PanicsWithValue(t, "boom", func() { tree.Update(0.1) })
	assert.Equal(t, StateReady, tree.State())
	assert.Zero(t, tree.Ticks())
}

func TestNewTreeValidation(t *testing.T) {
	_, err := NewTree(nil, nil, nil)
	assert.ErrorIs(t, err, ErrNilRoot)

	tree, err := NewTree(NewBuilder().Name("named").MustBuild(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "named", tree.Name())
	assert.IsType(t, &Board{}, tree.Blackboard())
	assert.Equal(t, StateSuccess, tree.Update(0))

	tree.SetName("renamed")
	assert.Equal(t, "renamed", tree.Name())
}

func TestTreeObserver(t *testing.T) {
	var active []string
	root := NewBuilder().
		Selector("pick").
		Condition("no", func(Blackboard) bool { return false }).
		Condition("yes", func(Blackboard) bool { return true }).
		End().
		MustBuild()
	tree, err := NewTree(root, nil, nil, WithObserver(ObserverFunc(func(n Node) {
		active = append(active, n.Name())
	})))
	require.NoError(t, err)

	tree.Update(0.1)
	assert.Equal(t, []string{"no", "yes", "pick", "Root"}, active)
}
