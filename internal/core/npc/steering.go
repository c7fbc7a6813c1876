package npc

import (
	"github.com/zeusync/simplebt/internal/core/systems/physics"
)

const (
	// arriveFraction of the attack radius is where attackers stop closing in.
	arriveFraction = 0.8
	cohesionWeight = 0.3
	wanderJitter   = 0.5
)

// DesiredVelocity turns the agent's current behavior into a velocity.
func DesiredVelocity(a *Agent, w *World) physics.Vec2 {
	speed := a.stats.Speed * a.speedFactor
	goal, ok := a.target.position()
	if !ok || speed == 0 {
		return physics.Vec2{}
	}

	switch a.behavior {
	case BehaviorIdle:
		return physics.Vec2{}
	case BehaviorFlock:
		dir := seek(a.position, goal).Add(cohesion(a).Scale(cohesionWeight))
		return dir.Normalize().Scale(speed)
	case BehaviorWander:
		jitter := physics.V(a.rng.Float64()*2-1, a.rng.Float64()*2-1).Scale(wanderJitter)
		return seek(a.position, goal).Add(jitter).Normalize().Scale(speed)
	case BehaviorApproach, BehaviorApproachAlly, BehaviorPursue, BehaviorAttack:
		return arrive(a.position, goal, speed, w.settings.AttackRadius*arriveFraction)
	case BehaviorAttackBase:
		return arrive(a.position, goal, speed, w.settings.BaseRadius)
	case BehaviorFlee:
		return seek(a.position, goal).Scale(speed)
	default:
		return physics.Vec2{}
	}
}

func seek(from, to physics.Vec2) physics.Vec2 {
	return to.Sub(from).Normalize()
}

// arrive heads for to at full speed and stops once within stop.
func arrive(from, to physics.Vec2, speed, stop float64) physics.Vec2 {
	d := from.Distance(to)
	if d <= stop {
		return physics.Vec2{}
	}
	return seek(from, to).Scale(speed).Clamp(d - stop)
}

// cohesion points at the centre of the allies the agent can see.
func cohesion(a *Agent) physics.Vec2 {
	allies := a.bb.Allies
	if len(allies) == 0 {
		return physics.Vec2{}
	}
	var centre physics.Vec2
	for _, ally := range allies {
		centre = centre.Add(ally.position)
	}
	centre = centre.Scale(1 / float64(len(allies)))
	return seek(a.position, centre)
}
