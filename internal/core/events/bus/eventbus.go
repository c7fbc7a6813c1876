package bus

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// NewEvent creates an event stamped with the current time.
func NewEvent(typ, source string, data any) Event {
	return Event{Type: typ, Source: source, Time: time.Now(), Data: data}
}

// Subscription is a handler registered for one event type.
type Subscription struct {
	id        string
	eventType string
	handler   Handler
	active    atomic.Bool
	bus       *inMemoryBus
}

func (s *Subscription) ID() string        { return s.id }
func (s *Subscription) EventType() string { return s.eventType }
func (s *Subscription) Active() bool      { return s.active.Load() }

// Cancel removes the subscription. Repeated calls are no-ops.
func (s *Subscription) Cancel() {
	if s.bus != nil {
		s.bus.Unsubscribe(s)
	}
}

var _ Bus = (*inMemoryBus)(nil)

type inMemoryBus struct {
	mu        sync.RWMutex
	subs      map[string][]*Subscription
	observers []Observer

	published atomic.Uint64
	delivered atomic.Uint64
	errs      atomic.Uint64
}

// New creates an empty bus.
func New() Bus {
	return &inMemoryBus{subs: make(map[string][]*Subscription)}
}

func (b *inMemoryBus) Subscribe(eventType string, handler Handler) (*Subscription, error) {
	if eventType == "" {
		return nil, ErrEmptyEventType
	}
	if handler == nil {
		return nil, fmt.Errorf("subscribe %q: %w", eventType, ErrNilHandler)
	}
	s := &Subscription{
		id:        uuid.NewString(),
		eventType: eventType,
		handler:   handler,
		bus:       b,
	}
	s.active.Store(true)

	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], s)
	b.mu.Unlock()
	return s, nil
}

func (b *inMemoryBus) Unsubscribe(sub *Subscription) {
	if sub == nil || !sub.active.CompareAndSwap(true, false) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[sub.eventType]
	if i := slices.Index(list, sub); i >= 0 {
		b.subs[sub.eventType] = slices.Delete(slices.Clone(list), i, i+1)
	}
	if len(b.subs[sub.eventType]) == 0 {
		delete(b.subs, sub.eventType)
	}
}

func (b *inMemoryBus) Subscribers(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[eventType])
}

func (b *inMemoryBus) Publish(event Event) error {
	start := time.Now()

	b.mu.RLock()
	subs := b.subs[event.Type]
	observers := b.observers
	b.mu.RUnlock()

	for _, obs := range observers {
		obs.OnPublish(event)
	}

	var all error
	handled := 0
	for _, s := range subs {
		if !s.Active() {
			continue
		}
		handled++
		if err := s.handler(event); err != nil {
			all = errors.Join(all, err)
		}
	}

	b.published.Add(1)
	b.delivered.Add(uint64(handled))
	if all != nil {
		b.errs.Add(1)
	}

	if len(observers) > 0 {
		took := time.Since(start)
		for _, obs := range observers {
			obs.OnDelivered(event, handled, all, took)
		}
	}
	return all
}

func (b *inMemoryBus) PublishBatch(events ...Event) error {
	var all error
	for _, e := range events {
		if err := b.Publish(e); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

// AddObserver registers obs. Observer slices are copied on write so Publish
// can iterate without holding the lock.
func (b *inMemoryBus) AddObserver(obs Observer) {
	if obs == nil {
		return
	}
	b.mu.Lock()
	b.observers = append(slices.Clone(b.observers), obs)
	b.mu.Unlock()
}

func (b *inMemoryBus) Stats() Stats {
	b.mu.RLock()
	subs := 0
	for _, list := range b.subs {
		subs += len(list)
	}
	b.mu.RUnlock()
	return Stats{
		Published:   b.published.Load(),
		Delivered:   b.delivered.Load(),
		Errors:      b.errs.Load(),
		Subscribers: subs,
	}
}
