package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cesbo/tsplay/internal/app"
)

const defaultConfigFile = "/etc/tsplay.conf"

func main() {
	configPath := flag.String("config", defaultConfigFile, "config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug || os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	a, err := app.New(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				slog.Info("received SIGHUP, reloading config", "path", *configPath)
				a.Reload(ctx)
			case syscall.SIGINT, syscall.SIGTERM:
				slog.Info("received signal, shutting down", "signal", sig)
				cancel()
				return
			}
		}
	}()

	slog.Info("tsplay starting", "config", *configPath)
	if err := a.Run(ctx); err != nil {
		slog.Error("stream error", "error", err)
		os.Exit(1)
	}
}
