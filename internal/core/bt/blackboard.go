package bt

import (
	"maps"
	"slices"
	"sync"
)

// Blackboard is the per-tick scratch data handed to every node.
// Hosts extend it by embedding Board in their own struct.
type Blackboard interface {
	DeltaTime() float64
	SetDeltaTime(dt float64)
}

// Board carries only the tick delta. Embed it to build a domain blackboard.
type Board struct {
	dt float64
}

func (b *Board) DeltaTime() float64 {
	return b.dt
}

func (b *Board) SetDeltaTime(dt float64) {
	b.dt = dt
}

// MapBoard is a keyed blackboard for hosts that do not want a struct per tree.
type MapBoard struct {
	Board
	mu   sync.RWMutex
	data map[string]any
}

// NewMapBoard creates an empty keyed blackboard
func NewMapBoard() *MapBoard {
	return &MapBoard{data: make(map[string]any)}
}

// Set stores a value under key
func (b *MapBoard) Set(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		b.data = make(map[string]any)
	}
	b.data[key] = value
}

// Get returns the value stored under key
func (b *MapBoard) Get(key string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	return v, ok
}

func (b *MapBoard) GetString(key string) (string, bool) {
	v, ok := b.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (b *MapBoard) GetInt(key string) (int, bool) {
	v, ok := b.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

func (b *MapBoard) GetFloat(key string) (float64, bool) {
	v, ok := b.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func (b *MapBoard) GetBool(key string) (bool, bool) {
	v, ok := b.Get(key)
	if !ok {
		return false, false
	}
	f, ok := v.(bool)
	return f, ok
}

// Has reports whether key is present
func (b *MapBoard) Has(key string) bool {
	_, ok := b.Get(key)
	return ok
}

// Delete removes key
func (b *MapBoard) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
}

// Keys returns the stored keys in sorted order
func (b *MapBoard) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Sorted(maps.Keys(b.data))
}

// Clear drops every key. The delta time is kept.
func (b *MapBoard) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.data)
}
