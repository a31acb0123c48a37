package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blockbridge-dev/blockbridge"
	"github.com/blockbridge-dev/blockbridge/memhost"
	"github.com/blockbridge-dev/blockbridge/registry"
)

// NewToolsCmd creates the "tools" command group. The subcommands run against
// an in-memory editor, so they are useful for inspecting and trying tools
// without an MCP client attached.
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and invoke the registered tools",
	}

	cmd.AddCommand(newToolsListCmd())
	cmd.AddCommand(newToolsDescribeCmd())
	cmd.AddCommand(newToolsCallCmd())

	return cmd
}

func newToolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := buildRegistry(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTATUS\tDESCRIPTION")
			for _, desc := range reg.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", desc.Name, desc.Status, firstLine(desc.Description))
			}
			return w.Flush()
		},
	}
}

func newToolsDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name>",
		Short: "Show a tool's parameters and annotations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := buildRegistry(cmd.Context())
			if err != nil {
				return err
			}
			desc, ok := reg.Get(args[0])
			if !ok {
				return exitError(exitValidation, "unknown tool %q", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", desc.Name, desc.Status)
			fmt.Fprintf(out, "  %s\n", desc.Description)
			if len(desc.InputSchema) == 0 {
				fmt.Fprintln(out, "  no parameters")
				return nil
			}
			fmt.Fprintln(out, "  parameters:")
			for _, name := range desc.InputSchema.ParamNames() {
				spec := desc.InputSchema[name]
				required := "optional"
				if spec.Required {
					required = "required"
				}
				fmt.Fprintf(out, "    %s (%s, %s)", name, spec.Type, required)
				if spec.Default != nil {
					fmt.Fprintf(out, " default=%v", spec.Default)
				}
				if len(spec.Enum) > 0 {
					fmt.Fprintf(out, " one of %s", strings.Join(spec.Enum, ", "))
				}
				fmt.Fprintln(out)
				if spec.Description != "" {
					fmt.Fprintf(out, "      %s\n", spec.Description)
				}
			}
			return nil
		},
	}
}

func newToolsCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <name>",
		Short: "Invoke a tool with JSON arguments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawArgs, _ := cmd.Flags().GetString("args")

			callArgs := map[string]any{}
			if strings.TrimSpace(rawArgs) != "" {
				if err := json.Unmarshal([]byte(rawArgs), &callArgs); err != nil {
					return exitError(exitInputParse, "invalid --args JSON: %v", err)
				}
			}

			reg, err := buildRegistry(cmd.Context())
			if err != nil {
				return err
			}
			out, err := reg.Invoke(cmd.Context(), args[0], callArgs)
			if err != nil {
				var valErr *registry.ValidationError
				if errors.As(err, &valErr) {
					return exitError(exitValidation, "%v", err)
				}
				var unknownErr *registry.UnknownToolError
				if errors.As(err, &unknownErr) {
					return exitError(exitValidation, "%v", err)
				}
				return exitError(exitRuntime, "%v", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().String("args", "", "Tool arguments as a JSON object")
	return cmd
}

func buildRegistry(ctx context.Context) (*registry.Registry, error) {
	reg, err := blockbridge.NewRegistry(ctx, memhost.New())
	if err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	return reg, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
