package npc

import (
	"context"

	"github.com/zeusync/simplebt/internal/core/bt"
	"github.com/zeusync/simplebt/pkg/concurrent"
)

// AgentSnapshot is a point-in-time view of one unit, safe to encode as JSON.
type AgentSnapshot struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Team     string          `json:"team"`
	Brain    Brain           `json:"brain"`
	Alive    bool            `json:"alive"`
	Health   float64         `json:"health"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Behavior Behavior        `json:"behavior"`
	Target   string          `json:"target,omitempty"`
	State    bt.NodeState    `json:"state"`
	Ticks    uint64          `json:"ticks"`
	Tree     bt.NodeSnapshot `json:"tree"`
}

// Snapshot captures every agent and its tree. Agents are captured in
// parallel with the same worker cap as the brain phase.
func (a *Arena) Snapshot() []AgentSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	// Map only fails once its context is done.
	out, _ := concurrent.Map(context.Background(), a.world.agents, a.workers, snapshot)
	return out
}

func snapshot(ag *Agent) AgentSnapshot {
	s := AgentSnapshot{
		ID:       ag.id.String(),
		Name:     ag.name,
		Team:     ag.team.String(),
		Brain:    ag.brain,
		Alive:    ag.alive,
		Health:   ag.health,
		X:        ag.position.X(),
		Y:        ag.position.Y(),
		Behavior: ag.behavior,
		State:    ag.lastState,
		Ticks:    ag.tree.Ticks(),
		Tree:     bt.Snapshot(ag.tree.Root()),
	}
	switch {
	case ag.target.agent != nil:
		s.Target = ag.target.agent.name
	case ag.target.base != nil:
		s.Target = ag.target.base.Team.String() + " base"
	}
	return s
}
