package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/blockbridge-dev/blockbridge/history"
)

// NewHistoryCmd creates the "history" command group for the invocation log.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the tool invocation history",
	}
	cmd.PersistentFlags().String("db", "", "Path to the history database (default: ~/.blockbridge/blockbridge.db)")

	cmd.AddCommand(newHistoryRecentCmd())
	cmd.AddCommand(newHistoryPruneCmd())

	return cmd
}

func newHistoryRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent tool invocations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := openHistoryStore(cmd, 0)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return exitError(exitRuntime, "reading history: %v", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no invocations recorded")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tTOOL\tRESULT\tDURATION")
			for _, entry := range entries {
				result := "ok"
				if !entry.Success {
					result = entry.ErrKind
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					entry.InvokedAt.Format(time.RFC3339), entry.ToolName, result,
					time.Duration(entry.DurationMS)*time.Millisecond)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum number of entries to show")
	return cmd
}

func newHistoryPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete history entries older than the retention age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			olderThan, _ := cmd.Flags().GetDuration("older-than")
			if olderThan <= 0 {
				return exitError(exitInputParse, "--older-than must be a positive duration")
			}

			store, err := openHistoryStore(cmd, olderThan)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			pruned, err := store.Prune(cmd.Context())
			if err != nil {
				return exitError(exitRuntime, "pruning history: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entries\n", pruned)
			return nil
		},
	}
	cmd.Flags().Duration("older-than", 30*24*time.Hour, "Delete entries older than this")
	return cmd
}

func openHistoryStore(cmd *cobra.Command, retention time.Duration) (*history.Store, error) {
	dsn, _ := cmd.Flags().GetString("db")
	if strings.TrimSpace(dsn) == "" {
		defaultPath, err := history.DefaultPath()
		if err != nil {
			return nil, exitError(exitRuntime, "resolving default history path: %v", err)
		}
		dsn = defaultPath
	}
	store, err := history.Open(history.StoreConfig{DSN: dsn, RetentionAge: retention})
	if err != nil {
		return nil, exitError(exitRuntime, "opening history store: %v", err)
	}
	return store, nil
}
