package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/care-forecast/internal/dataset"
	"github.com/iwvelando/care-forecast/internal/patients"
	"github.com/iwvelando/care-forecast/internal/server"
	"github.com/iwvelando/care-forecast/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix  = "care-forecast:"
	shutdownTimeout = 10 * time.Second
)

func newServeCommand(c *cli) *cobra.Command {
	var (
		serverConfigLocation string
		address              string
		cacheTTL             string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			serverConf, err := server.LoadConfig(serverConfigLocation)
			if err != nil {
				return err
			}
			if err := applyServeFlags(serverConf, address, cacheTTL); err != nil {
				return err
			}

			// The server file may carry its own logging section.
			if serverConf.Logging.Level != "" || serverConf.Logging.Format != "" || serverConf.Logging.OutputFile != "" {
				logger, err := initializeLogger(serverConf.Logging, c.logLevel)
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				_ = c.logger.Sync()
				c.logger = logger
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, c, serverConf)
		},
	}
	cmd.Flags().StringVar(&serverConfigLocation, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	cmd.Flags().StringVar(&cacheTTL, "cache-ttl", "", "suggestion cache lifetime override, e.g. 90s or 10m")
	return cmd
}

// applyServeFlags overlays the command-line overrides on the server config.
func applyServeFlags(serverConf *server.Config, address, cacheTTL string) error {
	if address != "" {
		serverConf.Address = address
	}
	if cacheTTL != "" {
		ttl, err := server.ParseDuration(cacheTTL)
		if err != nil {
			return fmt.Errorf("invalid --cache-ttl: %w", err)
		}
		serverConf.SetSuggestCacheTTL(ttl)
	}
	return nil
}

// newSuggestCache selects Redis when a URL is configured, otherwise an
// in-process cache. The returned func releases the cache.
func newSuggestCache(ctx context.Context, logger *zap.Logger, redisURL string) (patients.Cache, func(), error) {
	if redisURL == "" {
		return patients.NewMemoryCache(), func() {}, nil
	}
	cache, err := patients.NewRedisCache(ctx, redisURL, redisKeyPrefix)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using Redis suggestion cache", zap.String("op", "serve"))
	return cache, func() { _ = cache.Close() }, nil
}

func serve(ctx context.Context, c *cli, serverConf *server.Config) error {
	logger := c.logger

	data, err := dataset.Load(c.conf.Dataset.Path)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	for _, warning := range data.Validate() {
		logger.Warn("Dataset warning: "+warning,
			zap.String("op", "serve"),
		)
	}

	cache, closeCache, err := newSuggestCache(ctx, logger, serverConf.RedisURL)
	if err != nil {
		return err
	}
	defer closeCache()

	index := patients.NewIndex(data.Suggestions())
	logger.Info("indexed search suggestions",
		zap.String("op", "serve"),
		zap.Int("entries", index.Len()),
		zap.Duration("cache_ttl", serverConf.SuggestCacheTTLDuration()),
	)

	svc := patients.NewService(
		patients.NewMemoryRepository(data.Patients),
		index,
		patients.WithCache(cache, serverConf.SuggestCacheTTLDuration()),
		patients.WithLogger(logger),
	)

	handler, err := server.NewHandler(logger, c.conf, data, server.Options{
		Version:        version,
		AllowedOrigins: serverConf.AllowedOrigins,
		Patients:       svc,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "serve"),
			zap.String("address", serverConf.Address),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.String("op", "serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
