package app

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/cesbo/tsplay/internal/config"
	"github.com/cesbo/tsplay/internal/supervisor"
)

// App owns the live configuration and one supervisor per configured
// stream, generalizing original_source/src/application.rs's single
// implicit stream to config.rs's Config.stream: Vec<Stream>.
type App struct {
	configPath string
	cfg        config.Config
	reloads    map[string]chan config.StreamConfig
}

// New loads the config file at path and allocates one reload channel per
// configured stream, so Reload can safely run concurrently with Run.
func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	reloads := make(map[string]chan config.StreamConfig, len(cfg.Streams))
	for _, stream := range cfg.Streams {
		reloads[stream.Name] = make(chan config.StreamConfig)
	}

	return &App{configPath: configPath, cfg: cfg, reloads: reloads}, nil
}

// Run starts one supervisor per configured stream and blocks until ctx is
// cancelled or any supervisor returns an error, at which point every other
// supervisor is cancelled too.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, stream := range a.cfg.Streams {
		reload := a.reloads[stream.Name]
		streamCfg := stream
		g.Go(func() error {
			return supervisor.Run(gctx, reload, streamCfg)
		})
	}

	return g.Wait()
}

// Reload re-parses the config file and delivers each stream's new
// definition to its running supervisor. A stream name present in the
// reloaded file but absent from the set running at startup is logged and
// skipped — adding or removing streams requires a restart, matching
// original_source/src/application.rs's single mutable Config that is
// replaced wholesale, never restructured, on SIGHUP.
func (a *App) Reload(ctx context.Context) {
	log := slog.With("component", "app")

	cfg, err := config.Load(a.configPath)
	if err != nil {
		log.Error("reload failed, keeping running config", "error", err)
		return
	}

	for _, stream := range cfg.Streams {
		reload, ok := a.reloads[stream.Name]
		if !ok {
			log.Warn("reload: unknown stream, restart required to add it", "stream", stream.Name)
			continue
		}
		select {
		case reload <- stream:
		case <-ctx.Done():
			return
		}
	}
}
