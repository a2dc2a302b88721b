package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/felixgeelhaar/time-server/application"
	"github.com/felixgeelhaar/time-server/domain/chrono"
	domainconfig "github.com/felixgeelhaar/time-server/domain/config"
	"github.com/felixgeelhaar/time-server/domain/pack"
	"github.com/felixgeelhaar/time-server/infrastructure/logging"
	"github.com/felixgeelhaar/time-server/infrastructure/observability"
	infrapack "github.com/felixgeelhaar/time-server/infrastructure/pack"
	"github.com/felixgeelhaar/time-server/infrastructure/resilience"
	"github.com/felixgeelhaar/time-server/infrastructure/storage/memory"
	"github.com/felixgeelhaar/time-server/infrastructure/telemetry"
	"github.com/felixgeelhaar/time-server/infrastructure/tzdb"
	"github.com/felixgeelhaar/time-server/pack/datetime"
)

// runtime wires the tool catalog, telemetry and dispatcher from a configuration.
type runtime struct {
	config     *domainconfig.ServerConfig
	tools      *memory.ToolRegistry
	packs      *infrapack.Registry
	dispatcher *application.Dispatcher
	telemetry  *observability.Provider
}

func newRuntime(cfg *domainconfig.ServerConfig) (*runtime, error) {
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
	logging.SetLevel(cfg.Logging.Level)

	zones := tzdb.NewResolver()
	loc, err := defaultLocation(cfg.Time.DefaultTimezone, zones)
	if err != nil {
		return nil, err
	}
	engine := chrono.NewEngine(
		chrono.WithZoneResolver(zones),
		chrono.WithDefaultLocation(loc),
	)

	catalog := datetime.New(
		datetime.WithEngine(engine),
		datetime.WithZoneResolver(zones),
	)

	filter := pack.Filter{
		Enabled:  cfg.Time.EnabledTools,
		Disabled: cfg.Time.DisabledTools,
	}
	for _, name := range filter.Unknown(catalog.ToolNames()) {
		logging.Warn().
			Add(logging.Component("runtime")).
			Add(logging.ToolName(name)).
			Msg("configuration references an unknown tool")
	}

	tools := memory.NewToolRegistry()
	packs := infrapack.NewRegistry()
	if err := packs.Register(catalog); err != nil {
		return nil, fmt.Errorf("register pack: %w", err)
	}
	installed, err := packs.Install(catalog.Name, tools, filter)
	if err != nil {
		return nil, fmt.Errorf("install pack: %w", err)
	}

	obs, err := observability.New(observability.FromServerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	var metrics telemetry.Metrics = telemetry.NoopMetricsProvider{}
	if obs.MetricsEnabled() {
		mp := telemetry.NewMetricsProvider(telemetry.MetricsConfig{
			MeterName:    telemetry.DefaultMetricsConfig().MeterName,
			MeterVersion: cfg.Version,
			Provider:     obs.MeterProvider(),
		})
		if err := mp.Error(); err != nil {
			logging.Warn().
				Add(logging.Component("runtime")).
				Add(logging.ErrorField(err)).
				Msg("metrics disabled")
		} else {
			metrics = mp
		}
	}

	dispatcher, err := application.NewDispatcher(application.DispatcherConfig{
		Registry: tools,
		Executor: resilience.NewExecutor(resilience.ExecutorConfig{
			MaxConcurrent: cfg.Resilience.MaxConcurrent,
			Timeout:       cfg.Resilience.Timeout.Duration(),
		}),
		Metrics: metrics,
		Tracer:  obs.Tracer(),
	})
	if err != nil {
		_ = obs.Shutdown(context.Background())
		return nil, err
	}

	logging.Debug().
		Add(logging.Component("runtime")).
		Add(logging.Count("tools", installed)).
		Add(logging.Timezone(cfg.Time.DefaultTimezone)).
		Msg("runtime ready")

	return &runtime{
		config:     cfg,
		tools:      tools,
		packs:      packs,
		dispatcher: dispatcher,
		telemetry:  obs,
	}, nil
}

// Close flushes telemetry.
func (r *runtime) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.telemetry.Shutdown(ctx)
}

// defaultLocation resolves the configured default timezone. "local" keeps the
// host zone.
func defaultLocation(name string, zones chrono.ZoneResolver) (*time.Location, error) {
	if chrono.IsLocal(name) {
		return time.Local, nil
	}
	loc, err := zones.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("default timezone %q: %w", name, err)
	}
	return loc, nil
}
