package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	domainconfig "github.com/felixgeelhaar/time-server/domain/config"
	infraconfig "github.com/felixgeelhaar/time-server/infrastructure/config"
	"github.com/felixgeelhaar/time-server/infrastructure/logging"
	"github.com/felixgeelhaar/time-server/infrastructure/mcp"
)

// serveOptions holds options for the serve command.
type serveOptions struct {
	configPath string
	transport  string
	addr       string
	watch      bool
}

// newServeCmd creates the serve command.
func (a *App) newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the time tools over MCP",
		Long: `Start an MCP server exposing the time tools.

The server speaks MCP over stdio by default. Use --transport http to listen
on a TCP address instead.

Examples:
  # Serve over stdio with built-in defaults
  time-server serve

  # Serve over HTTP using a configuration file
  time-server serve -c time-server.yaml --transport http --addr :8080

  # Reload the log level whenever the configuration file changes
  time-server serve -c time-server.yaml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.transport, "transport", "", "Transport to serve on (stdio or http)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address for the http transport")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload the log level when the configuration file changes")

	return cmd
}

// serve loads configuration, builds the runtime and blocks until the context ends.
func (a *App) serve(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := loadServeConfig(opts)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logging.Warn().
				Add(logging.Component("cli")).
				Add(logging.ErrorField(err)).
				Msg("telemetry shutdown failed")
		}
	}()

	srv, err := mcp.NewTimeServer(mcp.TimeServerConfig{
		Name:         cfg.Name,
		Version:      cfg.Version,
		Description:  cfg.Description,
		Instructions: cfg.Server.Instructions,
		Dispatcher:   rt.dispatcher,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if opts.watch {
		if opts.configPath == "" {
			return errors.New("--watch requires a configuration file (-c flag)")
		}
		watcher := infraconfig.NewWatcher(opts.configPath, nil, applyReload)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logging.Warn().
					Add(logging.Component("cli")).
					Add(logging.ErrorField(err)).
					Msg("config watcher stopped")
			}
		}()
	}

	switch cfg.Server.Transport {
	case domainconfig.TransportHTTP:
		err = srv.ServeHTTP(ctx, cfg.Server.Address)
	default:
		err = srv.ServeStdio(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// loadServeConfig loads the configuration file (or defaults) and applies
// command-line overrides.
func loadServeConfig(opts *serveOptions) (*domainconfig.ServerConfig, error) {
	cfg, err := infraconfig.NewLoader().LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.transport != "" {
		cfg.Server.Transport = opts.transport
	}
	if opts.addr != "" {
		cfg.Server.Address = opts.addr
	}
	cfg.ApplyDefaults()

	if errs := domainconfig.NewValidator().Validate(cfg); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %v", domainconfig.ErrValidationFailed, errs)
	}
	return cfg, nil
}

// applyReload applies the settings that can change without a restart.
func applyReload(cfg *domainconfig.ServerConfig) {
	logging.SetLevel(cfg.Logging.Level)
	logging.Info().
		Add(logging.Component("cli")).
		Add(logging.Str("level", cfg.Logging.Level)).
		Msg("log level updated; other settings apply on restart")
}
