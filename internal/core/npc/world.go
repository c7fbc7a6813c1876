package npc

import (
	"github.com/zeusync/simplebt/internal/core/systems/physics"
)

// Settings are the arena-wide rules.
type Settings struct {
	Width          float64
	Height         float64
	AttackRadius   float64
	LowHealth      float64 // below this a unit counts as defence-low
	RegenPerSecond float64 // healing while fleeing at the own base
	BaseRadius     float64
}

func DefaultSettings() Settings {
	return Settings{
		Width:          100,
		Height:         60,
		AttackRadius:   2,
		LowHealth:      20,
		RegenPerSecond: 2,
		BaseRadius:     4,
	}
}

// Base is a team's home. Units flee to it and attack the opponent's.
type Base struct {
	Team      Team
	Position  physics.Vec2
	Health    float64
	MaxHealth float64

	reported bool
}

func (b *Base) Destroyed() bool {
	return b.Health <= 0
}

// World is the state sensors read. It is only mutated between brain phases.
type World struct {
	agents   []*Agent
	bases    map[Team]*Base
	bounds   physics.Bounds
	settings Settings
}

func newWorld(s Settings) *World {
	return &World{
		bases:    make(map[Team]*Base),
		bounds:   physics.Bounds{Max: physics.V(s.Width, s.Height)},
		settings: s,
	}
}

// Base returns the base of team t, or nil.
func (w *World) Base(t Team) *Base {
	return w.bases[t]
}

func (w *World) Settings() Settings {
	return w.settings
}

func (w *World) Bounds() physics.Bounds {
	return w.bounds
}

// Alive counts the living units of team t.
func (w *World) Alive(t Team) int {
	n := 0
	for _, a := range w.agents {
		if a.alive && a.team == t {
			n++
		}
	}
	return n
}

func (w *World) living() []*Agent {
	out := make([]*Agent, 0, len(w.agents))
	for _, a := range w.agents {
		if a.alive {
			out = append(out, a)
		}
	}
	return out
}
