package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/time-server/domain/tool"
	infraconfig "github.com/felixgeelhaar/time-server/infrastructure/config"
)

// toolsOptions holds options for the tools command.
type toolsOptions struct {
	configPath string
	verbose    bool
}

// newToolsCmd creates the tools command.
func (a *App) newToolsCmd() *cobra.Command {
	opts := &toolsOptions{}

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools the server exposes",
		Long: `List the tools exposed by the server, after applying the enabled_tools and
disabled_tools settings of the configuration.

Examples:
  # List tools with built-in defaults
  time-server tools

  # Show annotations and argument schemas
  time-server tools -v -c time-server.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listTools(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show annotations and argument schemas")

	return cmd
}

// listTools prints the installed tools.
func (a *App) listTools(opts *toolsOptions) error {
	cfg, err := infraconfig.NewLoader().LoadOrDefault(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	tools := rt.tools.List()
	if len(tools) == 0 {
		_, _ = fmt.Fprintf(a.stdout, "No tools enabled.\n")
		return nil
	}

	_, _ = fmt.Fprintf(a.stdout, "Tools (%d):\n", len(tools))
	for _, t := range tools {
		_, _ = fmt.Fprintf(a.stdout, "\n  %s\n", t.Name())
		_, _ = fmt.Fprintf(a.stdout, "    %s\n", t.Description())

		if !opts.verbose {
			continue
		}

		if flags := annotationFlags(t.Annotations()); len(flags) > 0 {
			_, _ = fmt.Fprintf(a.stdout, "    Annotations: %s\n", strings.Join(flags, ", "))
		}
		if tags := t.Annotations().Tags; len(tags) > 0 {
			_, _ = fmt.Fprintf(a.stdout, "    Tags: %s\n", strings.Join(tags, ", "))
		}

		var schema bytes.Buffer
		if err := json.Indent(&schema, t.InputSchema().Raw(), "    ", "  "); err == nil {
			_, _ = fmt.Fprintf(a.stdout, "    Arguments: %s\n", schema.String())
		}
	}

	return nil
}

func annotationFlags(a tool.Annotations) []string {
	var flags []string
	if a.ReadOnly {
		flags = append(flags, "read-only")
	}
	if a.Idempotent {
		flags = append(flags, "idempotent")
	}
	if a.ReadsClock {
		flags = append(flags, "reads-clock")
	}
	return flags
}
