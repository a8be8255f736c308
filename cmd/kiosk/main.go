package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/KioskShell/internal/domain/input"
	"github.com/GriffinCanCode/KioskShell/internal/domain/session"
	"github.com/GriffinCanCode/KioskShell/internal/domain/shell"
	"github.com/GriffinCanCode/KioskShell/internal/domain/window"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/config"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/server"
	"github.com/GriffinCanCode/KioskShell/internal/providers/browser"
	"github.com/GriffinCanCode/KioskShell/internal/providers/style"
	"github.com/GriffinCanCode/KioskShell/internal/shared/paths"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "Config file (.toml, .yaml); overrides "+config.FileEnv)
	flag.Parse()

	if *configPath != "" {
		if err := os.Setenv(config.FileEnv, *configPath); err != nil {
			log.Fatalf("Failed to set config path: %v", err)
		}
	}

	if err := run(); err != nil {
		log.Fatalf("kiosk: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Development = cfg.Logging.Development
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	modifier, err := input.ParseModifier(cfg.Shell.CommandKey)
	if err != nil {
		return err
	}
	dataDir, err := paths.DataDir(cfg.Paths.DataDir)
	if err != nil {
		return err
	}
	stylePath, err := paths.StylePath(cfg.Paths.StyleFile, "")
	if err != nil {
		return err
	}

	store := session.NewStore(paths.StatePath(dataDir, cfg.Paths.StateFile))
	styles := style.NewLoader(stylePath, logger)
	metrics := monitoring.NewMetrics()

	router := input.NewRouter(modifier).WithObserver(func(cmd input.Command) {
		metrics.RecordInputCommand(cmd.String())
	})

	logger.Info("Starting kiosk shell",
		zap.String("home", cfg.Shell.HomeURL),
		zap.String("state", store.Path()),
		zap.String("style", styles.Path()),
		zap.String("command_key", string(router.Modifier())),
	)

	surfaces := browser.DefaultConfig()
	surfaces.UserAgent = cfg.Browser.UserAgent
	surfaces.FetchTimeout = cfg.Browser.FetchTimeout
	surfaces.Sandbox.Timeout = cfg.Browser.ScriptTimeout
	factory := browser.NewFactory(surfaces, logger)

	loop := shell.NewLoop(0)
	manager := shell.NewManager(shell.Config{
		HomeURL:   cfg.Shell.HomeURL,
		KeepAlive: cfg.Shell.KeepAlive,
		Surface: window.SurfaceOptions{
			Width:      cfg.Window.Width,
			Height:     cfg.Window.Height,
			Background: cfg.Window.Background,
			Frameless:  true,
		},
	}, factory, store, styles, router, logger).
		WithMetrics(metrics).
		WithDispatch(func(fn func()) { loop.Post(fn) })

	var srv *server.Server
	if cfg.Control.Enabled {
		srv = server.New(cfg.Control, cfg.Logging.Development, server.Deps{
			Loop:    loop,
			Manager: manager,
			Store:   store,
			Metrics: metrics,
			Logger:  logger,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop.Post(func() {
		if err := manager.Start(); err != nil {
			logger.Error("Failed to start session", zap.Error(err))
			manager.Quit()
		}
	})

	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(context.Background()) }()

	serverErr := make(chan error, 1)
	if srv != nil {
		go func() { serverErr <- srv.Run() }()
	}

	select {
	case <-manager.Done():
		logger.Info("Session ended")
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
		quitCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := loop.Do(quitCtx, manager.Quit); err != nil {
			logger.Warn("Quit did not complete", zap.Error(err))
		}
		cancel()
	case err := <-serverErr:
		if err != nil {
			logger.Error("Control API failed", zap.Error(err))
		}
		quitCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		_ = loop.Do(quitCtx, manager.Quit)
		cancel()
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Control API shutdown failed", zap.Error(err))
		}
		cancel()
	}

	loop.Stop()
	<-loopDone
	logger.Info("Kiosk shell stopped")
	return nil
}
