package npc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/simplebt/internal/core/systems/physics"
)

func unit(name string, team Team, x, y float64) *Agent {
	return &Agent{
		name:     name,
		team:     team,
		alive:    true,
		position: physics.V(x, y),
		stats:    testStats(),
		health:   100,
		bb:       &UnitBlackboard{},
	}
}

func TestVisionSensor(t *testing.T) {
	w := newWorld(DefaultSettings())
	self := unit("self", TeamBlue, 0, 0)
	self.stats.ViewingRange = 10
	near := unit("near", TeamRed, 1, 0)
	far := unit("far", TeamRed, 5, 0)
	outOfView := unit("out", TeamRed, 20, 0)
	dead := unit("dead", TeamRed, 2, 0)
	dead.alive = false
	ally := unit("ally", TeamBlue, 0, 3)
	w.agents = []*Agent{self, far, outOfView, dead, near, ally}

	bb := &UnitBlackboard{}
	VisionSensor{}.Sense(w, self, bb)

	assert.Equal(t, []string{"near", "far"}, names(bb.Enemies))
	assert.Equal(t, []string{"ally"}, names(bb.Allies))
	assert.True(t, bb.EnemyInAttackRange)

	near.alive = false
	VisionSensor{}.Sense(w, self, bb)
	assert.Equal(t, []string{"far"}, names(bb.Enemies))
	assert.False(t, bb.EnemyInAttackRange)
}

func TestTargetSensorIgnoresViewingRange(t *testing.T) {
	w := newWorld(DefaultSettings())
	self := unit("self", TeamBlue, 0, 0)
	self.stats.ViewingRange = 1
	w.agents = []*Agent{self, unit("a", TeamRed, 40, 0), unit("b", TeamRed, 30, 0), unit("mate", TeamBlue, 1, 0)}

	bb := &UnitBlackboard{}
	TargetSensor{}.Sense(w, self, bb)
	assert.Equal(t, "b", bb.Nearest.Name())
	assert.Equal(t, 30.0, bb.DistanceToTarget)

	w.agents = []*Agent{self}
	TargetSensor{}.Sense(w, self, bb)
	assert.Nil(t, bb.Nearest)
	assert.Equal(t, farAway, bb.DistanceToTarget)
}

func TestHealthSensor(t *testing.T) {
	w := newWorld(DefaultSettings())
	self := unit("self", TeamBlue, 10, 0)
	self.health = 42

	bb := &UnitBlackboard{}
	HealthSensor{}.Sense(w, self, bb)
	assert.Equal(t, 42.0, bb.Health)
	assert.Equal(t, farAway, bb.DistanceToOwnBase)
	assert.Equal(t, farAway, bb.DistanceToEnemyBase)

	w.bases[TeamBlue] = &Base{Team: TeamBlue, Position: physics.V(0, 0), Health: 1}
	w.bases[TeamRed] = &Base{Team: TeamRed, Position: physics.V(30, 0), Health: 1}
	HealthSensor{}.Sense(w, self, bb)
	assert.Equal(t, 10.0, bb.DistanceToOwnBase)
	assert.Equal(t, 20.0, bb.DistanceToEnemyBase)

	w.bases[TeamRed].Health = 0
	HealthSensor{}.Sense(w, self, bb)
	assert.Equal(t, farAway, bb.DistanceToEnemyBase)
}
