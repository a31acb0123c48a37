package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	otelapi "go.opentelemetry.io/otel"

	"github.com/blockbridge-dev/blockbridge"
	"github.com/blockbridge-dev/blockbridge/config"
	"github.com/blockbridge-dev/blockbridge/history"
	"github.com/blockbridge-dev/blockbridge/mcp"
	"github.com/blockbridge-dev/blockbridge/memhost"
	bbotel "github.com/blockbridge-dev/blockbridge/otel"
)

// NewServeCmd creates the "serve" subcommand. It speaks MCP over
// stdin/stdout, so all logging goes to stderr.
func NewServeCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool registry over MCP on stdin/stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, version)
		},
	}

	cmd.Flags().String("config", "", "Path to blockbridge.yaml (default: ./blockbridge.yaml, then ~/.blockbridge/config.yaml)")
	cmd.Flags().String("history-path", "", "Path to the invocation history database (default: ~/.blockbridge/blockbridge.db)")
	cmd.Flags().Bool("no-history", false, "Disable the invocation history store")
	cmd.Flags().Bool("verbose", false, "Enable debug logging")

	return cmd
}

func runServe(cmd *cobra.Command, version string) error {
	explicitConfigPath, _ := cmd.Flags().GetString("config")
	historyPath, _ := cmd.Flags().GetString("history-path")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	verbose, _ := cmd.Flags().GetBool("verbose")

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	configPath, found, err := config.Discover(explicitConfigPath)
	if err != nil {
		return exitError(exitFileNotFound, "%v", err)
	}
	if found {
		cfg, err = config.Load(configPath)
		if err != nil {
			return exitError(exitInputParse, "%v", err)
		}
		logger.Info("loaded configuration", "path", configPath)
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = version
	}

	shutdownTracing, err := bbotel.InitTracing(cmd.Context(), bbotel.TracingConfig{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Server.Name,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	reg, err := blockbridge.NewRegistry(cmd.Context(), memhost.New())
	if err != nil {
		return fmt.Errorf("registering tools: %w", err)
	}

	observer, err := bbotel.NewInvokeObserver(
		otelapi.GetMeterProvider().Meter("blockbridge/tool"),
		otelapi.GetTracerProvider().Tracer("blockbridge/tool"),
	)
	if err != nil {
		return fmt.Errorf("initializing tool observability: %w", err)
	}
	reg.AddObserver(observer)

	if cfg.History.Enabled && !noHistory {
		store, scheduler, err := openHistory(cmd.Context(), cfg.History, historyPath, logger)
		if err != nil {
			return err
		}
		reg.AddObserver(store)
		defer func() {
			if scheduler != nil {
				<-scheduler.Stop().Done()
			}
			_ = store.Close()
		}()
	}

	server, err := mcp.NewServer(mcp.ServerConfig{
		Registry: reg,
		Info: mcp.ServerInfo{
			Name:    cfg.Server.Name,
			Version: cfg.Server.Version,
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving MCP on stdio", "server", cfg.Server.Name, "tools", len(reg.List()))
	if err := server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return exitError(exitRuntime, "server error: %v", err)
	}
	return nil
}

// openHistory opens the invocation log and, when a retention age and cron
// schedule are configured, starts the prune scheduler.
func openHistory(ctx context.Context, cfg config.HistoryConfig, pathOverride string, logger *slog.Logger) (*history.Store, *cron.Cron, error) {
	dsn := strings.TrimSpace(pathOverride)
	if dsn == "" {
		dsn = strings.TrimSpace(cfg.Path)
	}
	if dsn == "" {
		defaultPath, err := history.DefaultPath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving default history path: %w", err)
		}
		dsn = defaultPath
	}

	retention, err := cfg.RetentionAge()
	if err != nil {
		return nil, nil, err
	}

	store, err := history.Open(history.StoreConfig{
		DSN:          dsn,
		RetentionAge: retention,
		Logger:       logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening history store: %w", err)
	}

	var scheduler *cron.Cron
	if retention > 0 && strings.TrimSpace(cfg.PruneSchedule) != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.PruneSchedule, func() {
			pruned, err := store.Prune(ctx)
			if err != nil {
				logger.Warn("history prune failed", "error", err)
				return
			}
			if pruned > 0 {
				logger.Info("pruned history entries", "count", pruned)
			}
		})
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("invalid prune schedule %q: %w", cfg.PruneSchedule, err)
		}
		scheduler.Start()
	}
	return store, scheduler, nil
}
