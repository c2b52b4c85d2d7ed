package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/workshop-aggregator/internal/aggregator"
	"github.com/JakeFAU/workshop-aggregator/internal/api"
	"github.com/JakeFAU/workshop-aggregator/internal/cache/memory"
	"github.com/JakeFAU/workshop-aggregator/internal/cache/postgres"
	"github.com/JakeFAU/workshop-aggregator/internal/config"
	collyfetcher "github.com/JakeFAU/workshop-aggregator/internal/fetcher/colly"
	"github.com/JakeFAU/workshop-aggregator/internal/logging"
	"github.com/JakeFAU/workshop-aggregator/internal/upstream"
	"github.com/JakeFAU/workshop-aggregator/internal/workshop"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeInterval   = 10 * time.Minute
)

// newServeCmd creates the 'serve' subcommand, which runs the HTTP API until
// interrupted.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the aggregation HTTP server",
		RunE:  runServeCommand,
	}
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache, closeCache, err := buildCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	apiServer := buildServer(cfg, cache, logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	apiServer.Wait()
	logger.Info("shutdown complete")
	return nil
}

// buildServer wires the upstream clients, pipelines and cache into the API.
func buildServer(cfg config.Config, cache workshop.ResponseCache, logger *zap.Logger) *api.Server {
	client := upstream.NewClient(upstream.APIConfig{
		BaseURL:  cfg.Steam.APIBaseURL,
		APIKey:   cfg.Steam.APIKey,
		AppID:    cfg.Steam.AppID,
		PageSize: cfg.Steam.PageSize,
	}, &http.Client{Timeout: cfg.UpstreamTimeout()}, logger.Named("upstream"))

	pages := collyfetcher.New(collyfetcher.Config{
		BaseURL:   cfg.Steam.CommunityBaseURL,
		UserAgent: cfg.Steam.UserAgent,
		Timeout:   cfg.UpstreamTimeout(),
	}, logger.Named("fetcher"))

	gateway := upstream.NewGateway(client, pages)
	svc := aggregator.New(gateway, client, logger.Named("aggregator"))
	return api.NewServer(svc, cache, cfg, logger.Named("api"))
}

// buildCache selects the configured response cache backend. The returned
// func releases its resources.
func buildCache(ctx context.Context, cfg config.Config, logger *zap.Logger) (workshop.ResponseCache, func(), error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendPostgres:
		store, err := postgres.NewStore(ctx, postgres.StoreConfig{
			DSN:      cfg.DB.DSN,
			Table:    cfg.DB.Table,
			TTL:      cfg.CacheTTL(),
			MaxConns: int32(cfg.DB.MaxConns), //nolint:gosec // validated small pool size
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init postgres cache: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("ensure cache schema: %w", err)
		}
		purgeCtx, cancel := context.WithCancel(ctx)
		go purgeExpired(purgeCtx, store, purgeInterval, logger.Named("cache"))
		logger.Info("using postgres response cache", zap.String("table", cfg.DB.Table))
		return store, func() {
			cancel()
			store.Close()
		}, nil
	default:
		logger.Info("using in-memory response cache", zap.Int("max_entries", cfg.Cache.MaxEntries))
		return memory.NewStore(cfg.Cache.MaxEntries, cfg.CacheTTL()), func() {}, nil
	}
}

type expiringStore interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func purgeExpired(ctx context.Context, store expiringStore, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("purge expired cache entries failed", zap.Error(err))
				continue
			}
			logger.Debug("purged expired cache entries", zap.Int64("removed", removed))
		}
	}
}
