// Package main is the entry point for the anchortipd tooltip daemon.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/anchortip/internal/config"
	"github.com/jmylchreest/anchortip/internal/daemon"
	"github.com/jmylchreest/anchortip/internal/host/gtkhost"
	"github.com/jmylchreest/anchortip/internal/tour"
)

const (
	appID   = "io.github.jmylchreest.anchortipd"
	appName = "anchortipd"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/anchortip/anchortip.toml)")
	demo := flag.String("demo", "", "Open a demo window running the named tour")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println(appName, "version", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	os.Exit(run(*configPath, *demo, logger))
}

func run(configPath, demoTour string, logger *slog.Logger) int {
	logger.Info("starting anchortipd", "version", version)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	app := adw.NewApplication(appID, 0)

	var (
		d       *daemon.Daemon
		running atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()

		glib.IdleAdd(func() {
			if running.Load() {
				app.Quit()
			}
		})
	}()

	post := func(fn func()) { glib.IdleAdd(fn) }

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		host := gtkhost.New(&app.Application, cfg.Daemon.Monitor, logger)
		styles := adw.StyleManagerGetDefault()

		d = daemon.New(daemon.Options{
			Config:     cfg,
			ConfigPath: configPath,
			Host:       host,
			Styler:     host,
			Post:       post,
			Dark:       styles.Dark,
			Version:    version,
			Logger:     logger,
		})

		styles.NotifyProperty("dark", func() {
			d.SchemeChanged()
		})

		if err := d.Start(ctx); err != nil {
			logger.Error("failed to start daemon", "error", err)
			d.Stop()
			app.Quit()
			return
		}

		if demoTour != "" {
			loader := tour.NewLoader(tour.ToursDir(), logger)
			if err := openDemo(&app.Application, host, d, loader, demoTour, logger); err != nil {
				logger.Error("failed to open demo", "tour", demoTour, "error", err)
			}
		}

		// GTK apps quit when all windows are closed
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if d != nil {
			d.Stop()
		}
		running.Store(false)
	})

	status := app.Run(os.Args[:1])
	if status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}

	logger.Info("anchortipd stopped")
	return 0
}
