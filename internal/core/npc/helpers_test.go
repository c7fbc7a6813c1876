package npc

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/simplebt/internal/core/events/bus"
	"github.com/zeusync/simplebt/internal/core/systems/physics"
)

const testDT = 0.1

var (
	blueBase = physics.V(5, 30)
	redBase  = physics.V(95, 30)
)

func newTestArena(t *testing.T, opts ...Option) *Arena {
	t.Helper()
	a := NewArena(DefaultSettings(), opts...)
	a.SetBase(TeamBlue, blueBase, 100)
	a.SetBase(TeamRed, redBase, 100)
	return a
}

func testStats() Stats {
	return Stats{Speed: 4, AttackSpeed: 1, AttackDamage: 10, ViewingRange: 15, Defense: 100}
}

func spawn(t *testing.T, a *Arena, name string, team Team, brain Brain, x, y float64) *Agent {
	t.Helper()
	ag, err := a.Spawn(UnitSpec{Name: name, Team: team, Brain: brain, Position: physics.V(x, y), Stats: testStats()})
	require.NoError(t, err)
	return ag
}

func step(t *testing.T, a *Arena, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, a.Step(context.Background(), testDT))
	}
}

// recorder collects every event of the given types.
type recorder struct {
	mu     sync.Mutex
	events []bus.Event
}

func record(t *testing.T, b bus.Bus, types ...string) *recorder {
	t.Helper()
	r := &recorder{}
	for _, typ := range types {
		_, err := b.Subscribe(typ, func(e bus.Event) error {
			r.mu.Lock()
			r.events = append(r.events, e)
			r.mu.Unlock()
			return nil
		})
		require.NoError(t, err)
	}
	return r
}

func (r *recorder) ofType(typ string) []bus.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []bus.Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func names(agents []*Agent) []string {
	out := make([]string, len(agents))
	for i, a := range agents {
		out[i] = a.name
	}
	return out
}
