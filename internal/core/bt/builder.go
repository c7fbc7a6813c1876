package bt

import "fmt"

// Builder assembles a tree through a stack of open parents. Opening calls
// push the new node, leaf calls append to the top, End pops.
//
// The first misuse is recorded and turns every later call into a no-op;
// Build reports it.
type Builder struct {
	root   *Root
	stack  []Node
	rng    Shuffler
	strict bool
	err    error
}

type BuilderOption func(*Builder)

// WithShuffler sets the source used by random composites.
func WithShuffler(s Shuffler) BuilderOption {
	return func(b *Builder) {
		b.rng = s
	}
}

// WithStrictBalance makes Build fail while opened nodes are still unclosed.
func WithStrictBalance() BuilderOption {
	return func(b *Builder) {
		b.strict = true
	}
}

// NewBuilder creates a builder whose only open parent is a fresh root
func NewBuilder(opts ...BuilderOption) *Builder {
	root := NewRoot("")
	b := &Builder{
		root:  root,
		stack: []Node{root},
		rng:   DefaultShuffler,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name names the root, and with it the tree.
func (b *Builder) Name(name string) *Builder {
	b.root.SetName(name)
	return b
}

func (b *Builder) Sequence(name string) *Builder {
	return b.Open(NewSequence(name))
}

func (b *Builder) Selector(name string) *Builder {
	return b.Open(NewSelector(name))
}

func (b *Builder) RandomSequence(name string) *Builder {
	return b.Open(NewRandomSequence(name, b.rng))
}

func (b *Builder) RandomSelector(name string) *Builder {
	return b.Open(NewRandomSelector(name, b.rng))
}

// Parallel opens a parallel node. Pass 0 and -1 for the usual thresholds.
func (b *Builder) Parallel(name string, numAllowedToFail, numRequiredToSucceed int) *Builder {
	return b.Open(NewParallel(name, numAllowedToFail, numRequiredToSucceed))
}

func (b *Builder) Inverter(name string) *Builder {
	return b.Open(NewInverter(name))
}

func (b *Builder) ReturnSuccess(name string) *Builder {
	return b.Open(NewReturnSuccess(name))
}

func (b *Builder) ReturnFailure(name string) *Builder {
	return b.Open(NewReturnFailure(name))
}

func (b *Builder) RepeatForever(name string) *Builder {
	return b.Open(NewRepeatForever(name))
}

func (b *Builder) RepeatUntilSuccess(name string) *Builder {
	return b.Open(NewRepeatUntilSuccess(name))
}

func (b *Builder) RepeatUntilFailure(name string) *Builder {
	return b.Open(NewRepeatUntilFailure(name))
}

// Do appends an action leaf
func (b *Builder) Do(name string, fn ActionFunc) *Builder {
	if fn == nil {
		return b.fail(fmt.Errorf("action %q: %w", name, ErrNilCallback))
	}
	return b.Add(NewAction(name, fn))
}

// Condition appends a condition leaf
func (b *Builder) Condition(name string, fn ConditionFunc) *Builder {
	if fn == nil {
		return b.fail(fmt.Errorf("condition %q: %w", name, ErrNilCallback))
	}
	return b.Add(NewCondition(name, fn))
}

// WaitForSeconds appends a timer leaf
func (b *Builder) WaitForSeconds(name string, seconds float64) *Builder {
	if seconds < 0 {
		return b.fail(fmt.Errorf("wait %q: %w", name, ErrNegativeDuration))
	}
	return b.Add(NewWaitForSeconds(name, seconds))
}

// Add appends n to the current parent without opening it.
func (b *Builder) Add(n Node) *Builder {
	if b.err != nil {
		return b
	}
	if n == nil {
		return b.fail(ErrNilChild)
	}
	top := b.stack[len(b.stack)-1]
	if err := top.AddChild(n); err != nil {
		return b.fail(fmt.Errorf("add %s %q to %s %q: %w", n.Kind(), n.Name(), top.Kind(), top.Name(), err))
	}
	return b
}

// Open appends n to the current parent and makes it the new parent.
func (b *Builder) Open(n Node) *Builder {
	if b.Add(n); b.err != nil {
		return b
	}
	b.stack = append(b.stack, n)
	return b
}

// End closes the most recently opened node. The root cannot be closed.
func (b *Builder) End() *Builder {
	if b.err != nil {
		return b
	}
	if len(b.stack) <= 1 {
		return b.fail(ErrUnbalancedEnd)
	}
	b.stack = b.stack[:len(b.stack)-1]
	return b
}

// Depth is the number of nodes opened and not yet closed.
func (b *Builder) Depth() int {
	return len(b.stack) - 1
}

// Err returns the first recorded misuse.
func (b *Builder) Err() error {
	return b.err
}

// Build returns the root after validating the assembled structure.
func (b *Builder) Build() (*Root, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.strict && len(b.stack) > 1 {
		top := b.stack[len(b.stack)-1]
		return nil, fmt.Errorf("%w: %d open, innermost %s %q", ErrUnclosedNodes, len(b.stack)-1, top.Kind(), top.Name())
	}
	if err := Validate(b.root); err != nil {
		return nil, err
	}
	return b.root, nil
}

// MustBuild is Build for trees declared at startup. It panics on error.
func (b *Builder) MustBuild() *Root {
	root, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("bt: build %q: %v", b.root.Name(), err))
	}
	return root
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}
