package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blockbridge-dev/blockbridge/memhost"
	"github.com/blockbridge-dev/blockbridge/resolve"
	"github.com/blockbridge-dev/blockbridge/scan"
	"github.com/blockbridge-dev/blockbridge/tools"
)

// NewResolveCmd creates the "resolve" subcommand, which reports the format
// and codec a model file would open with.
func NewResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file>",
		Short: "Show the format and codec a model file resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return exitError(exitFileNotFound, "file not found: %s", path)
				}
				return exitError(exitRuntime, "reading %s: %v", path, err)
			}

			var content map[string]any
			if err := json.Unmarshal(data, &content); err != nil {
				content = nil
			}

			resolver, err := catalogResolver(cmd)
			if err != nil {
				return err
			}
			binding, err := resolver.Resolve(path, content)
			if err != nil {
				var capErr *resolve.CapabilityError
				if errors.As(err, &capErr) {
					return exitError(exitValidation, "%v", err)
				}
				return exitError(exitRuntime, "%v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "format: %s\ncodec: %s\n", binding.FormatID, binding.CodecID)
			return nil
		},
	}
}

// NewScanCmd creates the "scan" subcommand, which lists the model files a
// batch open would consider.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "List the model files in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recursive, _ := cmd.Flags().GetBool("recursive")
			extFlag, _ := cmd.Flags().GetString("extensions")

			exts := tools.DefaultExtensions
			if strings.TrimSpace(extFlag) != "" {
				exts = nil
				for _, ext := range strings.Split(extFlag, ",") {
					if trimmed := strings.TrimSpace(ext); trimmed != "" {
						exts = append(exts, trimmed)
					}
				}
			}

			files, err := scan.Scan(args[0], recursive, exts)
			if err != nil {
				var dirErr *scan.InvalidDirectoryError
				if errors.As(err, &dirErr) {
					return exitError(exitFileNotFound, "%v", err)
				}
				return exitError(exitRuntime, "%v", err)
			}
			for _, file := range files {
				fmt.Fprintln(cmd.OutOrStdout(), file.Path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d file(s)\n", len(files))
			return nil
		},
	}
	cmd.Flags().BoolP("recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().String("extensions", "", "Comma-separated extension filter (default: the standard model extensions)")
	return cmd
}

// catalogResolver builds a resolver over the codecs the editor ships with.
func catalogResolver(cmd *cobra.Command) (*resolve.Resolver, error) {
	codecs, err := memhost.New().ListCodecs(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("listing codecs: %w", err)
	}
	ids := make([]string, 0, len(codecs))
	for _, codec := range codecs {
		ids = append(ids, codec.ID)
	}
	return resolve.New(ids...), nil
}
