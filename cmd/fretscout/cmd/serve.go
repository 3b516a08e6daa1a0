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

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/fretscout/fretscout/internal/api/handlers"
	"github.com/fretscout/fretscout/internal/api/middleware"
	"github.com/fretscout/fretscout/internal/config"
	"github.com/fretscout/fretscout/internal/engine"
	"github.com/fretscout/fretscout/internal/web"
	"github.com/fretscout/fretscout/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server, web UI, and alert scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	mode, err := config.ResolveMode()
	if err != nil {
		return fmt.Errorf("resolving mode: %w", err)
	}
	log.Info("mode resolved", "mode", mode.String())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	st, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	eng := buildEngine(cfg, mode, st, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(
		middleware.RequestLog(log),
		middleware.Recovery(log),
		middleware.Metrics(),
	)

	// Health and metrics endpoints.
	health := handlers.NewHealthHandler(st)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// JSON API.
	api := humaecho.New(e, huma.DefaultConfig("FretScout API", Version))
	handlers.RegisterSearchRoutes(api, handlers.NewSearchHandler(eng))
	handlers.RegisterAlertRoutes(api, handlers.NewAlertHandler(st))
	handlers.RegisterModeRoutes(api, handlers.NewModeHandler(mode))

	// HTML UI.
	web.RegisterRoutes(e, web.NewHandler(eng, st,
		web.WithLogger(log),
		web.WithSearchOptions(searchOptions(cfg)),
	))

	// Background alert poller.
	var scheduler *engine.Scheduler
	if cfg.Alerts.Enabled {
		notifier := buildNotifier(cfg, log)
		scheduler, err = engine.NewScheduler(eng, notifier, cfg.Alerts.PollInterval, log)
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		scheduler.Start()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
