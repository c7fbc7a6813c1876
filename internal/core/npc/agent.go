package npc

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/zeusync/simplebt/internal/core/bt"
	"github.com/zeusync/simplebt/internal/core/systems/physics"
)

// Agent is one unit in the arena. Its brain only mutates the agent itself;
// movement and combat are applied by the arena after every brain has run.
type Agent struct {
	id    uuid.UUID
	name  string
	team  Team
	brain Brain
	stats Stats

	position physics.Vec2
	velocity physics.Vec2
	health   float64
	alive    bool

	behavior    Behavior
	speedFactor float64
	target      target
	attackTimer float64
	killer      string

	rng     *rand.Rand
	tree    *bt.Tree
	bb      *UnitBlackboard
	sensors []Sensor

	lastState bt.NodeState
	changes   []behaviorChange
	fault     error
}

// target is what steering heads for: another agent, a base, or nothing.
type target struct {
	agent *Agent
	base  *Base
}

func (t target) position() (physics.Vec2, bool) {
	switch {
	case t.agent != nil:
		return t.agent.position, true
	case t.base != nil:
		return t.base.Position, true
	default:
		return physics.Vec2{}, false
	}
}

type behaviorChange struct {
	from, to Behavior
}

func (a *Agent) ID() uuid.UUID               { return a.id }
func (a *Agent) Name() string                { return a.name }
func (a *Agent) Team() Team                  { return a.team }
func (a *Agent) Brain() Brain                { return a.brain }
func (a *Agent) Stats() Stats                { return a.stats }
func (a *Agent) Position() physics.Vec2      { return a.position }
func (a *Agent) Velocity() physics.Vec2      { return a.velocity }
func (a *Agent) Health() float64             { return a.health }
func (a *Agent) Alive() bool                 { return a.alive }
func (a *Agent) Behavior() Behavior          { return a.behavior }
func (a *Agent) Tree() *bt.Tree              { return a.tree }
func (a *Agent) Blackboard() *UnitBlackboard { return a.bb }

// Target returns the agent being chased, if any.
func (a *Agent) Target() *Agent {
	return a.target.agent
}

// selectBehavior is the only way a brain changes what the unit does.
func (a *Agent) selectBehavior(b Behavior, speedFactor float64, t target) {
	if b != a.behavior {
		a.changes = append(a.changes, behaviorChange{from: a.behavior, to: b})
	}
	a.behavior = b
	a.speedFactor = speedFactor
	a.target = t
}

// sense runs every sensor against the agent's blackboard.
func (a *Agent) sense(w *World) {
	for _, s := range a.sensors {
		s.Sense(w, a, a.bb)
	}
}
