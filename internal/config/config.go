package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one arena run.
type Config struct {
	Name        string  `yaml:"name"`
	Seed        uint64  `yaml:"seed"`
	Ticks       int     `yaml:"ticks"`
	TickRate    float64 `yaml:"tick_rate"`
	Realtime    bool    `yaml:"realtime"`
	Workers     int     `yaml:"workers"`
	LogLevel    string  `yaml:"log_level"`
	MetricsAddr string  `yaml:"metrics_addr"`

	Arena ArenaConfig  `yaml:"arena"`
	Teams []TeamConfig `yaml:"teams"`
}

type ArenaConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	AttackRadius   float64 `yaml:"attack_radius"`
	LowHealth      float64 `yaml:"low_health"`
	RegenPerSecond float64 `yaml:"regen_per_second"`
	BaseRadius     float64 `yaml:"base_radius"`
}

type TeamConfig struct {
	Name       string       `yaml:"name"`
	Base       Point        `yaml:"base"`
	BaseHealth float64      `yaml:"base_health"`
	Units      []UnitConfig `yaml:"units"`
}

type UnitConfig struct {
	Name     string      `yaml:"name"`
	Brain    string      `yaml:"brain"`
	Count    int         `yaml:"count"`
	Position Point       `yaml:"position"`
	Spread   float64     `yaml:"spread"`
	Stats    StatsConfig `yaml:"stats"`
}

type StatsConfig struct {
	Speed        float64 `yaml:"speed"`
	AttackSpeed  float64 `yaml:"attack_speed"`
	AttackDamage float64 `yaml:"attack_damage"`
	ViewingRange float64 `yaml:"viewing_range"`
	Defense      float64 `yaml:"defense"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

var (
	ErrNoTeams       = errors.New("at least two teams are required")
	ErrDuplicateTeam = errors.New("duplicate team name")
	ErrDuplicateUnit = errors.New("duplicate unit name")
	ErrInvalidValue  = errors.New("invalid config value")
)

// Default returns the settings used for any field the file leaves empty.
func Default() *Config {
	return &Config{
		Name:     "arena",
		Seed:     1,
		Ticks:    600,
		TickRate: 20,
		LogLevel: "info",
		Arena: ArenaConfig{
			Width:          100,
			Height:         60,
			AttackRadius:   2,
			LowHealth:      20,
			RegenPerSecond: 2,
			BaseRadius:     4,
		},
	}
}

// Load reads and validates a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DeltaTime is the simulated seconds per tick.
func (c *Config) DeltaTime() float64 {
	return 1 / c.TickRate
}

// Interval is the wall time between ticks in realtime mode.
func (c *Config) Interval() time.Duration {
	return time.Duration(float64(time.Second) / c.TickRate)
}

func (c *Config) applyDefaults() {
	taken := make(map[string]struct{})
	for _, t := range c.Teams {
		for _, u := range t.Units {
			if u.Name != "" {
				taken[u.Name] = struct{}{}
			}
		}
	}
	for i := range c.Teams {
		t := &c.Teams[i]
		if t.BaseHealth == 0 {
			t.BaseHealth = 500
		}
		for j := range t.Units {
			u := &t.Units[j]
			if u.Count == 0 {
				u.Count = 1
			}
			if u.Name == "" {
				u.Name = fmt.Sprintf("%s-%s", t.Name, u.Brain)
				if _, dup := taken[u.Name]; dup {
					u.Name = fmt.Sprintf("%s-%s-%d", t.Name, u.Brain, j)
				}
				taken[u.Name] = struct{}{}
			}
			s := &u.Stats
			if s.Speed == 0 {
				s.Speed = 4
			}
			if s.AttackSpeed == 0 {
				s.AttackSpeed = 1
			}
			if s.AttackDamage == 0 {
				s.AttackDamage = 10
			}
			if s.ViewingRange == 0 {
				s.ViewingRange = 15
			}
			if s.Defense == 0 {
				s.Defense = 100
			}
		}
	}
}

// Validate checks ranges and cross references.
func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive", ErrInvalidValue)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("%w: ticks must not be negative", ErrInvalidValue)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidValue)
	}
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("%w: arena size must be positive", ErrInvalidValue)
	}
	if c.Arena.AttackRadius <= 0 {
		return fmt.Errorf("%w: attack_radius must be positive", ErrInvalidValue)
	}
	if len(c.Teams) < 2 {
		return ErrNoTeams
	}

	seen := make(map[string]struct{}, len(c.Teams))
	units := make(map[string]struct{})
	for i, t := range c.Teams {
		if t.Name == "" {
			return fmt.Errorf("%w: team %d has no name", ErrInvalidValue, i)
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateTeam, t.Name)
		}
		seen[t.Name] = struct{}{}
		if t.BaseHealth < 0 {
			return fmt.Errorf("%w: team %s base_health is negative", ErrInvalidValue, t.Name)
		}
		for j, u := range t.Units {
			if err := u.validate(); err != nil {
				return fmt.Errorf("team %s unit %d: %w", t.Name, j, err)
			}
			if _, dup := units[u.Name]; dup {
				return fmt.Errorf("%w: %s", ErrDuplicateUnit, u.Name)
			}
			units[u.Name] = struct{}{}
		}
	}
	return nil
}

func (u UnitConfig) validate() error {
	if u.Brain == "" {
		return fmt.Errorf("%w: brain is required", ErrInvalidValue)
	}
	if u.Count < 0 || u.Spread < 0 {
		return fmt.Errorf("%w: count and spread must not be negative", ErrInvalidValue)
	}
	s := u.Stats
	if s.Speed < 0 || s.AttackSpeed < 0 || s.AttackDamage < 0 || s.ViewingRange < 0 || s.Defense <= 0 {
		return fmt.Errorf("%w: stats out of range", ErrInvalidValue)
	}
	return nil
}
