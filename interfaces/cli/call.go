package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	infraconfig "github.com/felixgeelhaar/time-server/infrastructure/config"
)

// callOptions holds options for the call command.
type callOptions struct {
	configPath string
	compact    bool
}

// newCallCmd creates the call command.
func (a *App) newCallCmd() *cobra.Command {
	opts := &callOptions{}

	cmd := &cobra.Command{
		Use:   "call <tool> [json-args]",
		Short: "Execute one tool locally and print its result",
		Long: `Execute a single tool without starting a server.

Arguments are a JSON object. Pass "-" to read them from stdin. Omitting them
is the same as passing {}.

Examples:
  time-server call get_current_time '{"timezone":"Asia/Tokyo","format":"readable"}'
  time-server call get_business_days '{"startDate":"2024-01-01","days":5}'
  echo '{"dayOfWeek":5,"time":"17:00"}' | time-server call next_occurrence -`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 2 {
				input = args[1]
			}
			return a.callTool(cmd, opts, args[0], input)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "Print the result without indentation")

	return cmd
}

// callTool dispatches one tool call and prints the JSON result.
func (a *App) callTool(cmd *cobra.Command, opts *callOptions, name, input string) error {
	if input == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return fmt.Errorf("failed to read arguments: %w", err)
		}
		input = string(data)
	}

	cfg, err := infraconfig.NewLoader().LoadOrDefault(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	result, err := rt.dispatcher.Dispatch(cmd.Context(), name, json.RawMessage(strings.TrimSpace(input)))
	if err != nil {
		return err
	}

	if opts.compact {
		_, _ = fmt.Fprintln(a.stdout, result.OutputString())
		return nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, result.Output, "", "  "); err != nil {
		_, _ = fmt.Fprintln(a.stdout, result.OutputString())
		return nil
	}
	_, _ = fmt.Fprintln(a.stdout, out.String())
	return nil
}
