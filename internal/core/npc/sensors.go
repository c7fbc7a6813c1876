package npc

import (
	"cmp"
	"slices"
)

// Sensor writes one aspect of the world into a unit's blackboard.
// Sensors run concurrently for different agents and must only read the world.
type Sensor interface {
	Name() string
	Sense(w *World, self *Agent, bb *UnitBlackboard)
}

// DefaultSensors is the set every spawned unit gets.
func DefaultSensors() []Sensor {
	return []Sensor{VisionSensor{}, TargetSensor{}, HealthSensor{}}
}

// VisionSensor lists the living units within viewing range.
type VisionSensor struct{}

func (VisionSensor) Name() string { return "vision" }

func (VisionSensor) Sense(w *World, self *Agent, bb *UnitBlackboard) {
	bb.Enemies = bb.Enemies[:0]
	bb.Allies = bb.Allies[:0]
	bb.EnemyInAttackRange = false

	for _, other := range w.agents {
		if other == self || !other.alive {
			continue
		}
		d := self.position.Distance(other.position)
		if d > self.stats.ViewingRange {
			continue
		}
		if other.team == self.team {
			bb.Allies = append(bb.Allies, other)
			continue
		}
		bb.Enemies = append(bb.Enemies, other)
		if d < w.settings.AttackRadius {
			bb.EnemyInAttackRange = true
		}
	}

	byDistance := func(a, b *Agent) int {
		return cmp.Compare(self.position.Distance(a.position), self.position.Distance(b.position))
	}
	slices.SortStableFunc(bb.Enemies, byDistance)
	slices.SortStableFunc(bb.Allies, byDistance)
}

// TargetSensor tracks the closest living enemy anywhere in the arena.
type TargetSensor struct{}

func (TargetSensor) Name() string { return "target" }

func (TargetSensor) Sense(w *World, self *Agent, bb *UnitBlackboard) {
	bb.Nearest = nil
	bb.DistanceToTarget = farAway
	for _, other := range w.agents {
		if !other.alive || other.team == self.team {
			continue
		}
		if d := self.position.Distance(other.position); d < bb.DistanceToTarget {
			bb.DistanceToTarget = d
			bb.Nearest = other
		}
	}
}

// HealthSensor copies the unit's health and its distance to both bases.
type HealthSensor struct{}

func (HealthSensor) Name() string { return "health" }

func (HealthSensor) Sense(w *World, self *Agent, bb *UnitBlackboard) {
	bb.Health = self.health
	bb.DistanceToOwnBase = farAway
	bb.DistanceToEnemyBase = farAway
	if b := w.Base(self.team); b != nil {
		bb.DistanceToOwnBase = self.position.Distance(b.Position)
	}
	if b := w.Base(self.team.Opponent()); b != nil && !b.Destroyed() {
		bb.DistanceToEnemyBase = self.position.Distance(b.Position)
	}
}
