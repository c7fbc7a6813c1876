package npc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/zeusync/simplebt/internal/core/bt"
	"github.com/zeusync/simplebt/internal/core/events/bus"
	"github.com/zeusync/simplebt/internal/core/observability/log"
	"github.com/zeusync/simplebt/internal/core/systems/physics"
	"github.com/zeusync/simplebt/pkg/concurrent"
)

// Recorder receives arena measurements. *metrics.Metrics implements it.
type Recorder interface {
	ObserveTick(tree string, state bt.NodeState)
	ObserveBehavior(behavior string)
	SetUnitsAlive(team string, n int)
	ObserveStep(d time.Duration)
	NodeObserver(tree string) bt.Observer
}

// timerEpsilon absorbs float drift from repeated dt subtraction.
const timerEpsilon = 1e-9

type nopRecorder struct{}

func (nopRecorder) ObserveTick(string, bt.NodeState) {}
func (nopRecorder) ObserveBehavior(string)           {}
func (nopRecorder) SetUnitsAlive(string, int)        {}
func (nopRecorder) ObserveStep(time.Duration)        {}
func (nopRecorder) NodeObserver(string) bt.Observer  { return nil }

// Arena owns the agents and advances them tick by tick.
//
// Step runs every brain concurrently, since a brain only reads the world and
// writes its own agent. Movement and combat are then applied in spawn order.
type Arena struct {
	mu      sync.RWMutex
	world   *World
	bus     bus.Bus
	log     log.Log
	rec     Recorder
	workers int
	seed    uint64
	tick    uint64
	pending []bus.Event
}

type Option func(*Arena)

func WithBus(b bus.Bus) Option {
	return func(a *Arena) {
		a.bus = b
	}
}

func WithLogger(l log.Log) Option {
	return func(a *Arena) {
		a.log = l
	}
}

func WithRecorder(r Recorder) Option {
	return func(a *Arena) {
		a.rec = r
	}
}

// WithWorkers caps the goroutines used for the brain phase. Zero means one
// goroutine per agent.
func WithWorkers(n int) Option {
	return func(a *Arena) {
		a.workers = n
	}
}

// WithSeed makes agent randomness reproducible across runs.
func WithSeed(seed uint64) Option {
	return func(a *Arena) {
		a.seed = seed
	}
}

func NewArena(s Settings, opts ...Option) *Arena {
	a := &Arena{
		world: newWorld(s),
		log:   log.NewNop(),
		rec:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.bus == nil {
		a.bus = bus.New()
	}
	a.log = a.log.Named("arena")
	return a
}

// Bus returns the bus arena events are published on. Handlers run inside Step
// and must not call back into the arena.
func (a *Arena) Bus() bus.Bus {
	return a.bus
}

func (a *Arena) Tick() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tick
}

// SetBase places (or replaces) the base of team t.
func (a *Arena) SetBase(t Team, pos physics.Vec2, health float64) *Base {
	a.mu.Lock()
	defer a.mu.Unlock()
	b := &Base{Team: t, Position: pos, Health: health, MaxHealth: health}
	a.world.bases[t] = b
	return b
}

// UnitSpec describes a unit to spawn.
type UnitSpec struct {
	Name     string
	Team     Team
	Brain    Brain
	Position physics.Vec2
	Stats    Stats
	// Sensors defaults to DefaultSensors.
	Sensors []Sensor
}

// Spawn builds the unit's brain and adds it to the arena.
func (a *Arena) Spawn(spec UnitSpec) (*Agent, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidUnit)
	}
	if spec.Stats.Defense <= 0 || spec.Stats.Speed < 0 || spec.Stats.AttackSpeed < 0 || spec.Stats.ViewingRange < 0 {
		return nil, fmt.Errorf("%w: %q: bad stats %+v", ErrInvalidUnit, spec.Name, spec.Stats)
	}
	if _, err := ParseBrain(string(spec.Brain)); err != nil {
		return nil, fmt.Errorf("spawn %q: %w", spec.Name, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.world.Base(spec.Team) == nil {
		return nil, fmt.Errorf("spawn %q: %w: %s", spec.Name, ErrNoBase, spec.Team)
	}
	for _, other := range a.world.agents {
		if other.name == spec.Name {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidUnit, spec.Name)
		}
	}

	sensors := spec.Sensors
	if len(sensors) == 0 {
		sensors = DefaultSensors()
	}
	ag := &Agent{
		id:        uuid.New(),
		name:      spec.Name,
		team:      spec.Team,
		brain:     spec.Brain,
		stats:     spec.Stats,
		position:  a.world.bounds.Contain(spec.Position),
		health:    spec.Stats.Defense,
		alive:     true,
		rng:       rand.New(rand.NewPCG(xxhash.Sum64String(spec.Name), a.seed)),
		bb:        &UnitBlackboard{},
		sensors:   sensors,
		lastState: bt.StateReady,
	}

	root, err := buildBrain(spec.Brain, ag, a.world)
	if err != nil {
		return nil, fmt.Errorf("spawn %q: %w", spec.Name, err)
	}
	opts := []bt.TreeOption{bt.WithTreeName(spec.Name)}
	if o := a.rec.NodeObserver(spec.Name); o != nil {
		opts = append(opts, bt.WithObserver(o))
	}
	w := a.world
	ag.tree, err = bt.NewTree(root, ag.bb, func(bt.Blackboard) { ag.sense(w) }, opts...)
	if err != nil {
		return nil, fmt.Errorf("spawn %q: %w", spec.Name, err)
	}

	a.world.agents = append(a.world.agents, ag)
	a.log.Debug("unit spawned",
		log.String("agent", ag.name),
		log.Stringer("team", ag.team),
		log.String("brain", string(ag.brain)),
	)
	return ag, nil
}

// Step advances the arena by dt seconds. ctx is only checked before the tick
// starts; once brains run, the tick is carried through to the end.
func (a *Arena) Step(ctx context.Context, dt float64) error {
	if dt < 0 || math.IsNaN(dt) {
		return fmt.Errorf("step: %w", bt.ErrNegativeDuration)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	alive := a.world.living()

	err := concurrent.ForEach(context.WithoutCancel(ctx), alive, a.workers, func(_ context.Context, ag *Agent) error {
		ag.lastState, ag.fault = ag.tree.SafeUpdate(dt)
		a.rec.ObserveTick(ag.name, ag.lastState)
		return nil
	})
	if err != nil {
		return err
	}
	a.tick++

	for _, ag := range alive {
		a.settle(ag)
	}
	a.move(alive, dt)
	for _, ag := range alive {
		a.regenerate(ag, dt)
		a.attack(ag, dt)
	}
	a.collectDefeats(alive)
	a.publish(EventStepCompleted, "arena", StepCompleted{Tick: a.tick, Alive: len(a.world.living())})
	a.flush()

	for t := range a.world.bases {
		a.rec.SetUnitsAlive(t.String(), a.world.Alive(t))
	}
	a.rec.ObserveStep(time.Since(start))
	return nil
}

// settle handles what the brain phase left behind: a panic or behavior changes.
func (a *Arena) settle(ag *Agent) {
	if ag.fault != nil {
		a.log.Warn("brain panicked, restarting tree",
			log.String("agent", ag.name),
			log.Uint64("tick", a.tick),
			log.Error(ag.fault),
		)
		a.publish(EventTreeRestarted, ag.name, TreeRestarted{Agent: ag.name, Err: ag.fault, Tick: a.tick})
		ag.tree.Restart()
		ag.fault = nil
	}
	for _, c := range ag.changes {
		a.rec.ObserveBehavior(c.to.String())
		a.log.Debug("behavior changed",
			log.String("agent", ag.name),
			log.Stringer("from", c.from),
			log.Stringer("to", c.to),
		)
		a.publish(EventBehaviorChanged, ag.name, BehaviorChanged{
			Agent: ag.name,
			Team:  ag.team,
			From:  c.from,
			To:    c.to,
			Tick:  a.tick,
		})
	}
	ag.changes = ag.changes[:0]
}

// move steers every unit from the positions at the start of the phase, then
// integrates.
func (a *Arena) move(alive []*Agent, dt float64) {
	for _, ag := range alive {
		ag.velocity = DesiredVelocity(ag, a.world)
	}
	for _, ag := range alive {
		ag.position = a.world.bounds.Contain(ag.position.Add(ag.velocity.Scale(dt)))
	}
}

func (a *Arena) regenerate(ag *Agent, dt float64) {
	if ag.behavior != BehaviorFlee {
		return
	}
	own := a.world.Base(ag.team)
	if own == nil || ag.position.Distance(own.Position) > a.world.settings.BaseRadius {
		return
	}
	ag.health = math.Min(ag.stats.Defense, ag.health+a.world.settings.RegenPerSecond*dt)
}

// attack counts down the attack timer while the unit is in reach of what it
// is attacking and deals one hit whenever it expires.
func (a *Arena) attack(ag *Agent, dt float64) {
	s := a.world.settings
	var hit func()

	switch ag.behavior {
	case BehaviorAttack, BehaviorPursue:
		victim := ag.target.agent
		if victim == nil || !victim.alive || victim.team == ag.team ||
			ag.position.Distance(victim.position) >= s.AttackRadius {
			return
		}
		hit = func() {
			victim.health -= ag.stats.AttackDamage
			if victim.health <= 0 && victim.killer == "" {
				victim.killer = ag.name
			}
		}
	case BehaviorAttackBase:
		base := ag.target.base
		if base == nil || base.Destroyed() || base.Team == ag.team ||
			ag.position.Distance(base.Position) >= s.AttackRadius+s.BaseRadius {
			return
		}
		hit = func() {
			base.Health -= ag.stats.AttackDamage
			if base.Destroyed() && !base.reported {
				base.reported = true
				a.log.Info("base destroyed", log.Stringer("team", base.Team), log.String("by", ag.name))
				a.publish(EventBaseDestroyed, ag.name, BaseDestroyed{Team: base.Team, By: ag.name, Tick: a.tick})
			}
		}
	default:
		return
	}

	ag.attackTimer -= ag.stats.AttackSpeed * dt
	if ag.attackTimer <= timerEpsilon {
		hit()
		ag.attackTimer = 1
	}
}

func (a *Arena) collectDefeats(alive []*Agent) {
	var fallen []*Agent
	for _, ag := range alive {
		if ag.health > 0 {
			continue
		}
		ag.alive = false
		ag.velocity = physics.Vec2{}
		fallen = append(fallen, ag)
		a.log.Info("unit defeated",
			log.String("agent", ag.name),
			log.Stringer("team", ag.team),
			log.String("by", ag.killer),
			log.Uint64("tick", a.tick),
		)
		a.publish(EventUnitDefeated, ag.name, UnitDefeated{Agent: ag.name, Team: ag.team, By: ag.killer, Tick: a.tick})
	}
	if len(fallen) == 0 {
		return
	}
	// Brains holding a stance against a fallen unit pick a new one next tick.
	for _, ag := range a.world.agents {
		if ag.alive && ag.target.agent != nil && !ag.target.agent.alive {
			ag.target = target{}
			ag.tree.Restart()
		}
	}
}

func (a *Arena) publish(typ, source string, data any) {
	a.pending = append(a.pending, bus.NewEvent(typ, source, data))
}

// flush delivers the events queued during a step in the order they happened.
func (a *Arena) flush() {
	events := a.pending
	a.pending = nil
	if err := a.bus.PublishBatch(events...); err != nil {
		a.log.Warn("event handler failed", log.Uint64("tick", a.tick), log.Error(err))
	}
}

// Finished reports whether a base is destroyed or a team has no units left.
func (a *Arena) Finished() bool {
	_, done := a.Winner()
	return done
}

// Winner returns the winning team once the outcome is decided.
func (a *Arena) Winner() (Team, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.winner()
}

func (a *Arena) winner() (Team, bool) {
	for _, t := range []Team{TeamBlue, TeamRed} {
		if b := a.world.Base(t.Opponent()); b != nil && b.Destroyed() {
			return t, true
		}
	}
	blue, red := a.world.Alive(TeamBlue), a.world.Alive(TeamRed)
	switch {
	case blue > 0 && red == 0:
		return TeamBlue, true
	case red > 0 && blue == 0:
		return TeamRed, true
	default:
		return 0, false
	}
}

// RunOptions control Run. Ticks <= 0 runs until the arena is finished or ctx
// is done. A positive Interval paces ticks in real time.
type RunOptions struct {
	Ticks     int
	DeltaTime float64
	Interval  time.Duration
}

// Result summarises a run.
type Result struct {
	Ticks   uint64
	Winner  Team
	Decided bool
	Alive   map[Team]int
	Elapsed time.Duration
}

// Run steps the arena until opts.Ticks ticks passed, the outcome is decided
// or ctx is done. The result is valid even when an error is returned.
func (a *Arena) Run(ctx context.Context, opts RunOptions) (Result, error) {
	if opts.DeltaTime <= 0 {
		return Result{}, fmt.Errorf("run: delta time %v: %w", opts.DeltaTime, bt.ErrNegativeDuration)
	}
	started := time.Now()

	var ticker *time.Ticker
	if opts.Interval > 0 {
		ticker = time.NewTicker(opts.Interval)
		defer ticker.Stop()
	}

	var runErr error
	for i := 0; opts.Ticks <= 0 || i < opts.Ticks; i++ {
		if a.Finished() {
			break
		}
		if ticker != nil && i > 0 {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if err := a.Step(ctx, opts.DeltaTime); err != nil {
			runErr = err
			break
		}
	}

	res := a.result()
	res.Elapsed = time.Since(started)
	a.log.Info("run finished",
		log.Uint64("ticks", res.Ticks),
		log.Bool("decided", res.Decided),
		log.Stringer("winner", res.Winner),
		log.Duration("elapsed", res.Elapsed),
	)
	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		return res, runErr
	}
	if runErr != nil {
		return res, fmt.Errorf("run: tick %d: %w", res.Ticks, runErr)
	}
	return res, nil
}

func (a *Arena) result() Result {
	a.mu.RLock()
	defer a.mu.RUnlock()
	winner, decided := a.winner()
	res := Result{Ticks: a.tick, Winner: winner, Decided: decided, Alive: make(map[Team]int)}
	for t := range a.world.bases {
		res.Alive[t] = a.world.Alive(t)
	}
	return res
}

// Agents returns every spawned agent, including fallen ones, in spawn order.
func (a *Arena) Agents() []*Agent {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]*Agent(nil), a.world.agents...)
}

// Agent looks up a unit by name.
func (a *Arena) Agent(name string) (*Agent, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, ag := range a.world.agents {
		if ag.name == name {
			return ag, true
		}
	}
	return nil, false
}
