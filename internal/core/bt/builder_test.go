package bt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderShape(t *testing.T) {
	root, err := NewBuilder().
		Name("guard").
		Sequence("patrol").
		Condition("awake", func(Blackboard) bool { return true }).
		Do("walk", func(Blackboard) NodeState { return StateSuccess }).
		End().
		Build()
	require.NoError(t, err)

	assert.Equal(t, "guard", root.Name())
	require.Len(t, root.Children(), 1)

	seq := root.Children()[0]
	assert.Equal(t, "Sequence", seq.Kind())
	assert.Equal(t, "patrol", seq.Name())

	kids := seq.Children()
	require.Len(t, kids, 2)
	assert.Equal(t, "awake", kids[0].Name())
	assert.Equal(t, "Condition", kids[0].Kind())
	assert.Equal(t, "walk", kids[1].Name())
	assert.Equal(t, "Action", kids[1].Kind())
}

func TestBuilderNesting(t *testing.T) {
	b := NewBuilder(WithShuffler(reverse{})).
		Selector("").
		Parallel("both", 0, -1).
		WaitForSeconds("", 1).
		RepeatForever("").
		Condition("", func(Blackboard) bool { return false }).
		End().
		End().
		RandomSequence("").
		Inverter("").
		Do("", func(Blackboard) NodeState { return StateFailure }).
		End().
		End()
	assert.Equal(t, 1, b.Depth())

	root, err := b.End().Build()
	require.NoError(t, err)

	var kinds []string
	var depths []int
	Walk(root, func(n Node, depth int) bool {
		kinds = append(kinds, n.Kind())
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []string{
		"Root", "Selector", "Parallel", "WaitForSeconds", "RepeatForever", "Condition",
		"RandomSequence", "Inverter", "Action",
	}, kinds)
	assert.Equal(t, []int{0, 1, 2, 3, 3, 4, 2, 3, 4}, depths)

	par, ok := Find(root, "both")
	require.True(t, ok)
	assert.Equal(t, 0, par.(*Parallel).NumAllowedToFail())
	assert.Equal(t, -1, par.(*Parallel).NumRequiredToSucceed())
}

func TestBuilderEndUnderflow(t *testing.T) {
	b := NewBuilder().
		Sequence("").
		End().
		End().
		Selector("late")

	assert.ErrorIs(t, b.Err(), ErrUnbalancedEnd)
	_, err := b.Build()
	assert.ErrorIs(t, err, ErrUnbalancedEnd)
	_, found := Find(b.root, "late")
	assert.False(t, found)
}

func TestBuilderToleratesUnclosedNodes(t *testing.T) {
	root, err := NewBuilder().
		Sequence("").
		Condition("", func(Blackboard) bool { return true }).
		Build()
	require.NoError(t, err)
	assert.Len(t, root.Children(), 1)
}

func TestBuilderStrictBalance(t *testing.T) {
	_, err := NewBuilder(WithStrictBalance()).
		Sequence("outer").
		Selector("inner").
		Build()
	assert.ErrorIs(t, err, ErrUnclosedNodes)
	assert.Contains(t, err.Error(), "inner")
}

func TestBuilderRejectsEmptyDecorator(t *testing.T) {
	_, err := NewBuilder().
		Sequence("").
		Inverter("lonely").
		End().
		End().
		Build()
	require.ErrorIs(t, err, ErrMissingChild)

	var serr *StructureError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "lonely", serr.Node)
}

func TestValidateAllowsEmptyRoot(t *testing.T) {
	root := NewRoot("empty")
	require.NoError(t, Validate(root))
	assert.Equal(t, StateSuccess, root.Update(NewMapBoard()))

	inv := NewInverter("lonely")
	require.NoError(t, root.AddChild(inv))
	assert.ErrorIs(t, Validate(root), ErrMissingChild)
}

func TestBuilderRejectsSecondDecoratorChild(t *testing.T) {
	_, err := NewBuilder().
		Inverter("").
		Condition("a", func(Blackboard) bool { return true }).
		Condition("b", func(Blackboard) bool { return true }).
		End().
		Build()
	assert.ErrorIs(t, err, ErrTooManyChildren)
}

func TestBuilderRootTakesOneChild(t *testing.T) {
	_, err := NewBuilder().
		Sequence("first").End().
		Sequence("second").End().
		Build()
	assert.ErrorIs(t, err, ErrTooManyChildren)
}

func TestBuilderLeafValidation(t *testing.T) {
	_, err := NewBuilder().Do("noop", nil).Build()
	assert.ErrorIs(t, err, ErrNilCallback)

	_, err = NewBuilder().Condition("noop", nil).Build()
	assert.ErrorIs(t, err, ErrNilCallback)

	_, err = NewBuilder().WaitForSeconds("", -1).Build()
	assert.ErrorIs(t, err, ErrNegativeDuration)

	_, err = NewBuilder().Add(nil).Build()
	assert.ErrorIs(t, err, ErrNilChild)
}

func TestBuilderRejectsSharedNode(t *testing.T) {
	shared := NewCondition("", func(Blackboard) bool { return true })
	_, err := NewBuilder().
		Sequence("").
		Add(shared).
		Add(shared).
		End().
		Build()
	assert.ErrorIs(t, err, ErrChildAttached)
}

func TestMustBuildPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewBuilder().End().MustBuild()
	})
	assert.NotPanics(t, func() {
		NewBuilder().MustBuild()
	})
}
