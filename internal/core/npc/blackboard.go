package npc

import "github.com/zeusync/simplebt/internal/core/bt"

// farAway stands in for the distance to something that does not exist.
const farAway = 999.0

// UnitBlackboard is refreshed by the agent's sensors before each tick.
type UnitBlackboard struct {
	bt.Board

	// DistanceToTarget is the distance to Nearest, or farAway.
	DistanceToTarget float64
	// Nearest is the closest living enemy regardless of view range.
	Nearest *Agent

	// Enemies and Allies in view, nearest first. The unit itself is excluded.
	Enemies            []*Agent
	Allies             []*Agent
	EnemyInAttackRange bool

	DistanceToEnemyBase float64
	DistanceToOwnBase   float64
	Health              float64
}

func unitBoard(bb bt.Blackboard) *UnitBlackboard {
	return bb.(*UnitBlackboard)
}
