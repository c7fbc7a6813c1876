package injector

import (
	"fmt"

	"github.com/google/wire"

	"github.com/zeusync/simplebt/internal/config"
	"github.com/zeusync/simplebt/internal/core/events/bus"
	"github.com/zeusync/simplebt/internal/core/npc"
	"github.com/zeusync/simplebt/internal/core/observability/log"
	"github.com/zeusync/simplebt/internal/core/observability/metrics"
	"github.com/zeusync/simplebt/internal/server"
)

// App is everything a simulation run needs.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Metrics *metrics.Metrics
	Bus     bus.Bus
	Arena   *npc.Arena
	Server  *server.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideBus,
	ProvideArena,
	ProvideServer,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(c *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.New(level), nil
}

func ProvideMetrics() (*metrics.Metrics, error) {
	return metrics.New(metrics.DefaultNamespace)
}

// ProvideBus returns a bus whose traffic is counted by m.
func ProvideBus(m *metrics.Metrics) bus.Bus {
	b := bus.New()
	b.AddObserver(m.BusObserver())
	return b
}

func ProvideArena(c *config.Config, l *log.Logger, m *metrics.Metrics, b bus.Bus) (*npc.Arena, error) {
	return npc.FromConfig(c,
		npc.WithLogger(l),
		npc.WithRecorder(m),
		npc.WithBus(b),
	)
}

// ProvideServer returns the status server, already watching b for steps to
// stream. It is only started when the config names a metrics address.
func ProvideServer(c *config.Config, a *npc.Arena, m *metrics.Metrics, b bus.Bus, l *log.Logger) (*server.Server, error) {
	sc := server.DefaultServerConfig()
	sc.ListenAddr = c.MetricsAddr
	s := server.NewServer(sc, a, m.Handler(), l)
	if _, err := s.Watch(b); err != nil {
		return nil, fmt.Errorf("watch arena: %w", err)
	}
	return s, nil
}
