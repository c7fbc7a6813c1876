package npc

// Event types published on the arena bus.
const (
	EventBehaviorChanged = "npc.behavior_changed"
	EventUnitDefeated    = "npc.unit_defeated"
	EventTreeRestarted   = "npc.tree_restarted"
	EventBaseDestroyed   = "npc.base_destroyed"
	EventStepCompleted   = "npc.step_completed"
)

// BehaviorChanged is published when a brain selects a different behavior.
type BehaviorChanged struct {
	Agent string
	Team  Team
	From  Behavior
	To    Behavior
	Tick  uint64
}

// UnitDefeated is published once per unit whose health reached zero.
type UnitDefeated struct {
	Agent string
	Team  Team
	By    string
	Tick  uint64
}

// TreeRestarted is published when a brain panicked and was reset.
type TreeRestarted struct {
	Agent string
	Err   error
	Tick  uint64
}

// BaseDestroyed is published once when a base runs out of health.
type BaseDestroyed struct {
	Team Team
	By   string
	Tick uint64
}

// StepCompleted is published last in every step, after combat settled.
type StepCompleted struct {
	Tick  uint64
	Alive int
}
