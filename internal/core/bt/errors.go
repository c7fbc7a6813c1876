package bt

import "errors"

var (
	ErrNilChild         = errors.New("child node is nil")
	ErrTooManyChildren  = errors.New("node cannot accept more children")
	ErrChildAttached    = errors.New("child node already has a parent")
	ErrCycle            = errors.New("child node would create a cycle")
	ErrUnbalancedEnd    = errors.New("end called without a matching open node")
	ErrUnclosedNodes    = errors.New("builder has unclosed nodes")
	ErrMissingChild     = errors.New("node requires exactly one child")
	ErrUnknownState     = errors.New("unknown node state")
	ErrCallbackPanic    = errors.New("node callback panicked")
	ErrNilRoot          = errors.New("tree root is nil")
	ErrNilCallback      = errors.New("leaf callback is nil")
	ErrNegativeDuration = errors.New("wait duration is negative")
)
