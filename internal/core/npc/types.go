package npc

import (
	"errors"
	"fmt"
	"slices"
)

// Team is the side a unit fights for.
type Team uint8

const (
	TeamBlue Team = iota
	TeamRed
)

func (t Team) String() string {
	switch t {
	case TeamBlue:
		return "blue"
	case TeamRed:
		return "red"
	default:
		return fmt.Sprintf("team(%d)", uint8(t))
	}
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

func ParseTeam(s string) (Team, error) {
	switch s {
	case "blue":
		return TeamBlue, nil
	case "red":
		return TeamRed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTeam, s)
	}
}

// Behavior is the steering mode a unit's brain selected.
type Behavior uint8

const (
	BehaviorIdle Behavior = iota
	BehaviorFlock
	BehaviorWander
	BehaviorApproach
	BehaviorApproachAlly
	BehaviorPursue
	BehaviorAttack
	BehaviorAttackBase
	BehaviorFlee
)

var behaviorNames = [...]string{
	BehaviorIdle:         "Idle",
	BehaviorFlock:        "Flock",
	BehaviorWander:       "Wander",
	BehaviorApproach:     "Approach",
	BehaviorApproachAlly: "ApproachAlly",
	BehaviorPursue:       "Pursue",
	BehaviorAttack:       "Attack",
	BehaviorAttackBase:   "AttackBase",
	BehaviorFlee:         "Flee",
}

func (b Behavior) String() string {
	if int(b) < len(behaviorNames) {
		return behaviorNames[b]
	}
	return fmt.Sprintf("Behavior(%d)", uint8(b))
}

func (b Behavior) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Brain names a tree layout.
type Brain string

const (
	BrainHunter     Brain = "hunter"
	BrainAggressive Brain = "aggressive"
	BrainDefensive  Brain = "defensive"
	BrainLoyal      Brain = "loyal"
	BrainWanderer   Brain = "wanderer"
)

// Brains lists every known brain in name order.
func Brains() []Brain {
	out := make([]Brain, 0, len(brainBuilders))
	for b := range brainBuilders {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

func ParseBrain(s string) (Brain, error) {
	b := Brain(s)
	if _, ok := brainBuilders[b]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBrain, s)
	}
	return b, nil
}

// Stats are the fixed attributes of a unit.
type Stats struct {
	Speed        float64
	AttackSpeed  float64 // attacks per second
	AttackDamage float64
	ViewingRange float64
	Defense      float64 // starting and maximum health
}

var (
	ErrUnknownTeam  = errors.New("unknown team")
	ErrUnknownBrain = errors.New("unknown brain")
	ErrNoBase       = errors.New("team has no base")
	ErrInvalidUnit  = errors.New("invalid unit")
)
