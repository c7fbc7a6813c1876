package npc

import "github.com/zeusync/simplebt/internal/core/bt"

const (
	// Hunter ranges around the nearest enemy.
	hunterApproachRange = 10.0
	hunterPursueRange   = 7.0

	outnumberRatio = 3
)

// Speed factors applied on top of Stats.Speed.
const (
	speedIdle           = 0.0
	speedNormal         = 1.0
	speedFlee           = 1.2
	speedApproach       = 0.75
	speedHunterApproach = 0.5
	speedHunterPursue   = 1.0
)

type brainBuilder func(m *mind) *bt.Builder

var brainBuilders = map[Brain]brainBuilder{
	BrainHunter:     hunterBrain,
	BrainAggressive: aggressiveBrain,
	BrainDefensive:  defensiveBrain,
	BrainLoyal:      loyalBrain,
	BrainWanderer:   wandererBrain,
}

// mind binds the tree callbacks of one agent to the world it lives in.
type mind struct {
	self  *Agent
	world *World
}

func buildBrain(b Brain, self *Agent, w *World) (*bt.Root, error) {
	build, ok := brainBuilders[b]
	if !ok {
		return nil, ErrUnknownBrain
	}
	return build(&mind{self: self, world: w}).Build()
}

// stance appends Sequence(enter, Do(action), RepeatUntilFailure(hold)).
// The unit keeps the selected behavior for as long as hold is true.
func stance(b *bt.Builder, name, enterName string, enter bt.ConditionFunc, actionName string, action bt.ActionFunc, holdName string, hold bt.ConditionFunc) *bt.Builder {
	return b.Sequence(name).
		Condition(enterName, enter).
		Do(actionName, action).
		RepeatUntilFailure("Hold").
		Condition(holdName, hold).
		End().
		End()
}

func hunterBrain(m *mind) *bt.Builder {
	b := bt.NewBuilder(bt.WithShuffler(m.self.rng)).
		Name("HunterBrain").
		Selector("MainSelector")
	stance(b, "Approach",
		"InApproachRangeOnly", m.inApproachRangeOnly,
		"ToApproach", m.toHunterApproach,
		"InApproachRangeOnly", m.inApproachRangeOnly)
	stance(b, "Pursue",
		"InPursueRange", m.inPursueRange,
		"ToPursue", m.toPursue,
		"InPursueRange", m.inPursueRange)
	return b.Sequence("Idle").
		Do("ToIdle", m.toIdle).
		RepeatUntilSuccess("WaitForPrey").
		Condition("InApproachRange", m.inApproachRange).
		End().
		End().
		End()
}

func aggressiveBrain(m *mind) *bt.Builder {
	b := bt.NewBuilder(bt.WithShuffler(m.self.rng)).
		Name("UnitBrain").
		Selector("Aggressive")
	stance(b, "Flee", "DefenceLow", m.defenceLow, "ToFlee", m.toFlee, "DefenceLow", m.defenceLow)
	stance(b, "AttackBase", "EnemyBaseInRange", m.enemyBaseInRange, "ToAttackBase", m.toAttackBase, "NoFleeingConditions", m.noFleeing)
	stance(b, "FlockToTarget", "NoEnemyInVision", m.noEnemyInVision, "ToFlock", m.toFlock, "NoEnemyInVisionAndDefenceNotLow", m.noEnemyInVisionAndDefenceNotLow)
	stance(b, "ApproachEnemy", "InVisionRangeOnly", m.inVisionRangeOnly, "ToApproach", m.toApproach, "InVisionRangeOnlyAndDefenceNotLow", m.inVisionRangeOnlyAndDefenceNotLow)
	stance(b, "AttackEnemy", "EnemyInAttackRange", m.enemyInAttackRange, "ToAttackEnemy", m.toAttackEnemy, "EnemyInAttackRangeAndDefenceNotLow", m.enemyInAttackRangeAndDefenceNotLow)
	return b.End()
}

func defensiveBrain(m *mind) *bt.Builder {
	b := bt.NewBuilder(bt.WithShuffler(m.self.rng)).
		Name("UnitBrain").
		Selector("Defensive")
	stance(b, "Flee", "FleeingConditions", m.fleeing, "ToFlee", m.toFlee, "FleeingConditions", m.fleeing)
	stance(b, "AttackBase", "EnemyBaseInRange", m.enemyBaseInRange, "ToAttackBase", m.toAttackBase, "NoFleeingConditions", m.noFleeing)
	stance(b, "FlockToTarget", "NoEnemyInVision", m.noEnemyInVision, "ToFlock", m.toFlock, "StopFlocking", m.keepFlocking)
	stance(b, "ApproachEnemy", "InVisionRangeOnly", m.inVisionRangeOnly, "ToApproach", m.toApproach, "InVisionRangeOnlyAndNoFleeConditions", m.inVisionRangeOnlyAndNoFleeing)
	stance(b, "AttackEnemy", "EnemyInAttackRange", m.enemyInAttackRange, "ToAttackEnemy", m.toAttackEnemy, "EnemyInAttackRangeAndNoFleeConditions", m.enemyInAttackRangeAndNoFleeing)
	return b.End()
}

func loyalBrain(m *mind) *bt.Builder {
	b := bt.NewBuilder(bt.WithShuffler(m.self.rng)).
		Name("UnitBrain").
		Selector("Loyal")
	stance(b, "Flee", "FleeingConditions", m.fleeing, "ToFlee", m.toFlee, "FleeingConditions", m.fleeing)
	stance(b, "AttackBase", "EnemyBaseInRange", m.enemyBaseInRange, "ToAttackBase", m.toAttackBase, "NoFleeingConditions", m.noFleeing)
	stance(b, "ApproachAlly", "AllyInVisionRangeOnly", m.allyInVisionRangeOnly, "ToApproachAlly", m.toApproachAlly, "AllyInVisionRangeOnly", m.allyInVisionRangeOnly)
	stance(b, "AttackEnemy", "EnemyInAttackRange", m.enemyInAttackRange, "ToAttackEnemy", m.toAttackEnemy, "EnemyInAttackRangeAndNoFleeConditions", m.enemyInAttackRangeAndNoFleeing)
	stance(b, "Idle", "NooneInVision", m.nooneInVision, "ToIdle", m.toIdle, "NooneInVision", m.nooneInVision)
	return b.End()
}

func wandererBrain(m *mind) *bt.Builder {
	b := bt.NewBuilder(bt.WithShuffler(m.self.rng)).
		Name("UnitBrain").
		Selector("Wander")
	stance(b, "Flee", "FleeingConditions", m.fleeing, "ToFlee", m.toFlee, "FleeingConditions", m.fleeing)
	stance(b, "AttackBase", "EnemyBaseInRange", m.enemyBaseInRange, "ToAttackBase", m.toAttackBase, "NoFleeingConditions", m.noFleeing)
	stance(b, "WanderToTarget", "NoEnemyInVision", m.noEnemyInVision, "ToWander", m.toWander, "NoEnemyInVisionAndDefenceNotLow", m.noEnemyInVisionAndDefenceNotLow)
	stance(b, "ApproachEnemy", "InVisionRangeOnly", m.inVisionRangeOnly, "ToApproach", m.toApproach, "InVisionRangeOnlyAndDefenceNotLow", m.inVisionRangeOnlyAndDefenceNotLow)
	stance(b, "AttackEnemy", "EnemyInAttackRange", m.enemyInAttackRange, "ToAttackEnemy", m.toAttackEnemy, "EnemyInAttackRangeAndDefenceNotLow", m.enemyInAttackRangeAndDefenceNotLow)
	return b.End()
}

// Conditions.

func (m *mind) defenceLow(bb bt.Blackboard) bool {
	return unitBoard(bb).Health < m.world.settings.LowHealth
}

func (m *mind) outnumbered(bb bt.Blackboard) bool {
	u := unitBoard(bb)
	return (len(u.Allies)+1)*outnumberRatio <= len(u.Enemies)
}

func (m *mind) fleeing(bb bt.Blackboard) bool {
	return m.defenceLow(bb) || m.outnumbered(bb)
}

func (m *mind) noFleeing(bb bt.Blackboard) bool {
	return !m.fleeing(bb)
}

func (m *mind) enemyBaseInRange(bb bt.Blackboard) bool {
	s := m.world.settings
	return unitBoard(bb).DistanceToEnemyBase < s.AttackRadius+s.BaseRadius
}

func (m *mind) noEnemyInVision(bb bt.Blackboard) bool {
	return len(unitBoard(bb).Enemies) == 0
}

func (m *mind) enemyInAttackRange(bb bt.Blackboard) bool {
	return unitBoard(bb).EnemyInAttackRange
}

func (m *mind) inVisionRangeOnly(bb bt.Blackboard) bool {
	return !m.noEnemyInVision(bb) && !m.enemyInAttackRange(bb)
}

// allyInVision ignores loyal allies so two loyal units never follow each other.
func (m *mind) allyInVision(bb bt.Blackboard) bool {
	return m.leader(bb) != nil
}

func (m *mind) allyInVisionRangeOnly(bb bt.Blackboard) bool {
	return m.allyInVision(bb) && m.noEnemyInVision(bb)
}

func (m *mind) nooneInVision(bb bt.Blackboard) bool {
	return m.noEnemyInVision(bb) && !m.allyInVision(bb)
}

func (m *mind) keepFlocking(bb bt.Blackboard) bool {
	return m.noEnemyInVision(bb) && m.noFleeing(bb) && !m.enemyBaseInRange(bb)
}

func (m *mind) noEnemyInVisionAndDefenceNotLow(bb bt.Blackboard) bool {
	return m.noEnemyInVision(bb) && !m.defenceLow(bb)
}

func (m *mind) inVisionRangeOnlyAndDefenceNotLow(bb bt.Blackboard) bool {
	return m.inVisionRangeOnly(bb) && !m.defenceLow(bb)
}

func (m *mind) enemyInAttackRangeAndDefenceNotLow(bb bt.Blackboard) bool {
	return m.enemyInAttackRange(bb) && !m.defenceLow(bb)
}

func (m *mind) inVisionRangeOnlyAndNoFleeing(bb bt.Blackboard) bool {
	return m.inVisionRangeOnly(bb) && m.noFleeing(bb)
}

func (m *mind) enemyInAttackRangeAndNoFleeing(bb bt.Blackboard) bool {
	return m.enemyInAttackRange(bb) && m.noFleeing(bb)
}

func (m *mind) inApproachRange(bb bt.Blackboard) bool {
	return unitBoard(bb).DistanceToTarget < hunterApproachRange
}

func (m *mind) inPursueRange(bb bt.Blackboard) bool {
	return unitBoard(bb).DistanceToTarget < hunterPursueRange
}

func (m *mind) inApproachRangeOnly(bb bt.Blackboard) bool {
	return m.inApproachRange(bb) && !m.inPursueRange(bb)
}

// Actions. Each one selects a behavior and succeeds, or fails when the
// thing it heads for does not exist.

func (m *mind) leader(bb bt.Blackboard) *Agent {
	for _, ally := range unitBoard(bb).Allies {
		if ally.brain != BrainLoyal {
			return ally
		}
	}
	return nil
}

func (m *mind) enemyBase() *Base {
	b := m.world.Base(m.self.team.Opponent())
	if b == nil || b.Destroyed() {
		return nil
	}
	return b
}

func (m *mind) toIdle(bt.Blackboard) bt.NodeState {
	m.self.selectBehavior(BehaviorIdle, speedIdle, target{})
	return bt.StateSuccess
}

func (m *mind) toFlee(bt.Blackboard) bt.NodeState {
	own := m.world.Base(m.self.team)
	if own == nil {
		return bt.StateFailure
	}
	m.self.selectBehavior(BehaviorFlee, speedFlee, target{base: own})
	return bt.StateSuccess
}

func (m *mind) headForEnemyBase(b Behavior) bt.NodeState {
	base := m.enemyBase()
	if base == nil {
		return bt.StateFailure
	}
	m.self.selectBehavior(b, speedNormal, target{base: base})
	return bt.StateSuccess
}

func (m *mind) toAttackBase(bt.Blackboard) bt.NodeState {
	return m.headForEnemyBase(BehaviorAttackBase)
}

func (m *mind) toFlock(bt.Blackboard) bt.NodeState {
	return m.headForEnemyBase(BehaviorFlock)
}

func (m *mind) toWander(bt.Blackboard) bt.NodeState {
	return m.headForEnemyBase(BehaviorWander)
}

func (m *mind) toApproach(bb bt.Blackboard) bt.NodeState {
	enemies := unitBoard(bb).Enemies
	if len(enemies) == 0 {
		return bt.StateFailure
	}
	m.self.selectBehavior(BehaviorApproach, speedApproach, target{agent: enemies[0]})
	return bt.StateSuccess
}

func (m *mind) toAttackEnemy(bb bt.Blackboard) bt.NodeState {
	enemies := unitBoard(bb).Enemies
	if len(enemies) == 0 {
		return bt.StateFailure
	}
	m.self.selectBehavior(BehaviorAttack, speedNormal, target{agent: enemies[0]})
	return bt.StateSuccess
}

// toApproachAlly follows the nearest non-loyal ally, or holds position
// when every ally in view is loyal.
func (m *mind) toApproachAlly(bb bt.Blackboard) bt.NodeState {
	if len(unitBoard(bb).Allies) == 0 {
		return bt.StateFailure
	}
	leader := m.leader(bb)
	if leader == nil {
		leader = m.self
	}
	m.self.selectBehavior(BehaviorApproachAlly, speedApproach, target{agent: leader})
	return bt.StateSuccess
}

func (m *mind) toHunterApproach(bb bt.Blackboard) bt.NodeState {
	prey := unitBoard(bb).Nearest
	if prey == nil {
		return bt.StateFailure
	}
	m.self.selectBehavior(BehaviorApproach, speedHunterApproach, target{agent: prey})
	return bt.StateSuccess
}

func (m *mind) toPursue(bb bt.Blackboard) bt.NodeState {
	prey := unitBoard(bb).Nearest
	if prey == nil {
		return bt.StateFailure
	}
	m.self.selectBehavior(BehaviorPursue, speedHunterPursue, target{agent: prey})
	return bt.StateSuccess
}
