// The sbridged command implements the showbridge relay server
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/showbridge/showbridge/internal/sbridged/config"
	"github.com/showbridge/showbridge/internal/sbridged/netutil"
	"github.com/showbridge/showbridge/internal/sbridged/overlay"
	"github.com/showbridge/showbridge/internal/sbridged/ratelimit"
	"github.com/showbridge/showbridge/internal/sbridged/ratelimit/memory"
	"github.com/showbridge/showbridge/internal/sbridged/relay"
	"github.com/showbridge/showbridge/internal/sbridged/state"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var cfg *config.Config
	var err error

	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			logger.Error("failed to load config file", "error", err)
			os.Exit(1)
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			logger.Error("failed to load configuration", "error", err)
			os.Exit(1)
		}
	}

	// Load the persisted display configuration, seeding defaults on first run
	configStore := overlay.NewStore(cfg.Overlay.ConfigPath, logger)
	displayCfg := configStore.Load()

	limiter := ratelimit.NewService(memory.NewStore(), logger)
	limits := map[string]ratelimit.Limit{
		"ws_connect":    {Rate: cfg.RateLimit.ConnectPerMinute, Period: time.Minute},
		"config_update": {Rate: cfg.RateLimit.ConfigPerMinute, Period: time.Minute},
	}
	for limitType, limit := range limits {
		if err := limiter.RegisterLimit(limitType, limit); err != nil {
			logger.Error("failed to register rate limit", "type", limitType, "error", err)
			os.Exit(1)
		}
	}

	var opts []relay.Option
	if cfg.Overlay.AssetDir != "" {
		opts = append(opts, relay.WithAssetDir(cfg.Overlay.AssetDir))
	}
	handler := relay.NewHandler(state.NewStore(displayCfg), configStore, limiter, logger, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handler.Run(ctx)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("starting server",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		for _, ip := range netutil.LocalIPv4s() {
			logger.Info("reachable at",
				"overlay", fmt.Sprintf("http://%s:%d/", ip, cfg.Server.Port),
				"configPage", fmt.Sprintf("http://%s:%d/config", ip, cfg.Server.Port),
				"websocket", fmt.Sprintf("ws://%s:%d/ws", ip, cfg.Server.Port),
			)
		}

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	<-shutdown
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	cancel()

	logger.Info("server stopped")
}
