package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/time-server/domain/pack"
	infraconfig "github.com/felixgeelhaar/time-server/infrastructure/config"
	"github.com/felixgeelhaar/time-server/pack/datetime"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	strict     bool
	showSchema bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validate a server configuration file for correctness.

This command checks:
  - File format (YAML or JSON)
  - Required fields (name, version)
  - Transport, default timezone and log settings
  - Tool names in enabled_tools and disabled_tools
  - Environment variable references (in strict mode)

Examples:
  # Validate a configuration file
  time-server validate -c time-server.yaml

  # Strict validation (fail on missing env vars)
  time-server validate -c time-server.yaml --strict

  # Show the JSON schema for configuration
  time-server validate --schema`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showSchema {
				return a.showConfigSchema()
			}
			return a.validateConfig(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Enable strict validation (fail on missing env vars)")
	cmd.Flags().BoolVar(&opts.showSchema, "schema", false, "Show JSON schema for configuration")

	return cmd
}

// validateConfig validates the configuration file.
func (a *App) validateConfig(opts *validateOptions) error {
	if opts.configPath == "" {
		return fmt.Errorf("configuration file path is required (-c flag)")
	}

	loaderOpts := []infraconfig.LoaderOption{
		infraconfig.WithValidation(true),
	}
	if opts.strict {
		loaderOpts = append(loaderOpts, infraconfig.WithStrictEnv(true))
	}

	config, err := infraconfig.NewLoaderWithOptions(loaderOpts...).LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	filter := pack.Filter{
		Enabled:  config.Time.EnabledTools,
		Disabled: config.Time.DisabledTools,
	}
	catalog := datetime.New()
	if unknown := filter.Unknown(catalog.ToolNames()); len(unknown) > 0 {
		return fmt.Errorf("validation failed: unknown tools %v", unknown)
	}

	var enabled []string
	for _, name := range catalog.ToolNames() {
		if filter.Allows(name) {
			enabled = append(enabled, name)
		}
	}

	_, _ = fmt.Fprintf(a.stdout, "✓ Configuration is valid\n")
	_, _ = fmt.Fprintf(a.stdout, "  Name: %s\n", config.Name)
	_, _ = fmt.Fprintf(a.stdout, "  Version: %s\n", config.Version)
	if config.Description != "" {
		_, _ = fmt.Fprintf(a.stdout, "  Description: %s\n", config.Description)
	}

	// Summary
	_, _ = fmt.Fprintf(a.stdout, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(a.stdout, "  Transport: %s", config.Server.Transport)
	if config.Server.Address != "" {
		_, _ = fmt.Fprintf(a.stdout, " (%s)", config.Server.Address)
	}
	_, _ = fmt.Fprintf(a.stdout, "\n")
	_, _ = fmt.Fprintf(a.stdout, "  Default timezone: %s\n", config.Time.DefaultTimezone)
	_, _ = fmt.Fprintf(a.stdout, "  Tools: %d of %d enabled\n", len(enabled), len(catalog.Tools))
	for _, name := range enabled {
		_, _ = fmt.Fprintf(a.stdout, "    - %s\n", name)
	}
	_, _ = fmt.Fprintf(a.stdout, "  Max concurrent calls: %d\n", config.Resilience.MaxConcurrent)
	_, _ = fmt.Fprintf(a.stdout, "  Call timeout: %s\n", config.Resilience.Timeout.Duration())

	if config.Telemetry.Tracing.Enabled {
		_, _ = fmt.Fprintf(a.stdout, "  Tracing: enabled (exporter=%s, sample_rate=%g)\n",
			config.Telemetry.Tracing.Exporter, config.Telemetry.Tracing.SampleRate)
	}
	if config.Telemetry.Metrics {
		_, _ = fmt.Fprintf(a.stdout, "  Metrics: enabled\n")
	}

	return nil
}

// showConfigSchema displays the JSON schema for configuration.
func (a *App) showConfigSchema() error {
	schemaJSON, err := infraconfig.SchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	_, _ = fmt.Fprintln(a.stdout, schemaJSON)
	return nil
}
