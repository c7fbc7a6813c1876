package npc

import (
	"fmt"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/simplebt/internal/config"
	"github.com/zeusync/simplebt/internal/core/systems/physics"
)

// FromConfig builds an arena with the bases and units c describes. Units of
// one entry are named "<name>-<i>" and scattered within Spread of Position.
func FromConfig(c *config.Config, opts ...Option) (*Arena, error) {
	s := Settings{
		Width:          c.Arena.Width,
		Height:         c.Arena.Height,
		AttackRadius:   c.Arena.AttackRadius,
		LowHealth:      c.Arena.LowHealth,
		RegenPerSecond: c.Arena.RegenPerSecond,
		BaseRadius:     c.Arena.BaseRadius,
	}
	opts = append([]Option{WithSeed(c.Seed), WithWorkers(c.Workers)}, opts...)
	a := NewArena(s, opts...)

	teams := make([]Team, len(c.Teams))
	for i, tc := range c.Teams {
		t, err := ParseTeam(tc.Name)
		if err != nil {
			return nil, fmt.Errorf("team %d: %w", i, err)
		}
		teams[i] = t
		a.SetBase(t, physics.V(tc.Base.X, tc.Base.Y), tc.BaseHealth)
	}

	for i, tc := range c.Teams {
		for _, uc := range tc.Units {
			brain, err := ParseBrain(uc.Brain)
			if err != nil {
				return nil, fmt.Errorf("team %s unit %s: %w", tc.Name, uc.Name, err)
			}
			rng := rand.New(rand.NewPCG(xxhash.Sum64String(uc.Name), c.Seed))
			for n := 0; n < uc.Count; n++ {
				spec := UnitSpec{
					Name:     fmt.Sprintf("%s-%d", uc.Name, n),
					Team:     teams[i],
					Brain:    brain,
					Position: scatter(rng, physics.V(uc.Position.X, uc.Position.Y), uc.Spread),
					Stats: Stats{
						Speed:        uc.Stats.Speed,
						AttackSpeed:  uc.Stats.AttackSpeed,
						AttackDamage: uc.Stats.AttackDamage,
						ViewingRange: uc.Stats.ViewingRange,
						Defense:      uc.Stats.Defense,
					},
				}
				if _, err := a.Spawn(spec); err != nil {
					return nil, err
				}
			}
		}
	}
	return a, nil
}

func scatter(rng *rand.Rand, p physics.Vec2, spread float64) physics.Vec2 {
	if spread == 0 {
		return p
	}
	off := physics.V(rng.Float64()*2-1, rng.Float64()*2-1).Scale(spread)
	return p.Add(off)
}
