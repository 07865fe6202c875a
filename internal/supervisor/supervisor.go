package supervisor

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cesbo/tsplay/internal/config"
	"github.com/cesbo/tsplay/internal/pacer"
	"github.com/cesbo/tsplay/internal/scte35"
	"github.com/cesbo/tsplay/internal/transport"
)

// Run drives cfg's pacing session until ctx is cancelled. A session that
// ends cleanly (its source exhausted) while ctx is still live and no
// reload is pending is restarted against the same cfg; a value received on
// reload replaces cfg and opens a fresh session against it, discarding the
// one in flight. Any transport or pacing error terminates and is returned.
func Run(ctx context.Context, reload <-chan config.StreamConfig, cfg config.StreamConfig) error {
	log := slog.With("component", "supervisor", "stream", cfg.Name)

	for {
		sessionCtx, cancelSession := context.WithCancel(ctx)

		src, srcCloser, err := openSource(ctx, cfg.Input)
		if err != nil {
			cancelSession()
			return fmt.Errorf("supervisor: stream %q: %w", cfg.Name, err)
		}
		sink, sinkCloser, err := openSink(ctx, cfg.Output)
		if err != nil {
			srcCloser.Close()
			cancelSession()
			return fmt.Errorf("supervisor: stream %q: %w", cfg.Name, err)
		}

		session := pacer.NewSession(src, sink,
			pacer.WithLogger(log),
			pacer.WithSpliceObserver(scte35.NewLogObserver(log)))
		done := make(chan error, 1)
		go func() { done <- session.Run(sessionCtx) }()

		var sessionErr error
		select {
		case sessionErr = <-done:
		case newCfg := <-reload:
			log.Info("reload requested")
			cancelSession()
			sessionErr = <-done
			cfg = newCfg
			log = slog.With("component", "supervisor", "stream", cfg.Name)
		}

		cancelSession()
		srcCloser.Close()
		sinkCloser.Close()

		if sessionErr != nil {
			return fmt.Errorf("supervisor: stream %q: %w", cfg.Name, sessionErr)
		}
		if ctx.Err() != nil {
			return nil
		}
		log.Info("session ended cleanly, restarting")
	}
}

func openSource(ctx context.Context, e config.Endpoint) (pacer.Source, io.Closer, error) {
	switch e.Type {
	case config.EndpointFile:
		src, err := transport.OpenFileSource(e.Path)
		if err != nil {
			return nil, nil, err
		}
		return src, src, nil
	case config.EndpointUDP:
		src, err := transport.DialUDPSource(e.Address, e.Port)
		if err != nil {
			return nil, nil, err
		}
		return src, src, nil
	default:
		return nil, nil, fmt.Errorf("unsupported input endpoint type %q", e.Type)
	}
}

func openSink(ctx context.Context, e config.Endpoint) (pacer.Sink, io.Closer, error) {
	switch e.Type {
	case config.EndpointFile:
		sink, err := transport.OpenFileSink(e.Path)
		if err != nil {
			return nil, nil, err
		}
		return sink, sink, nil
	case config.EndpointUDP:
		sink, err := transport.DialUDPSink(e.Address, e.Port)
		if err != nil {
			return nil, nil, err
		}
		return sink, sink, nil
	case config.EndpointSRT:
		sink, err := transport.DialSRTSink(ctx, e.Address, e.StreamID)
		if err != nil {
			return nil, nil, err
		}
		return sink, sink, nil
	default:
		return nil, nil, fmt.Errorf("unsupported output endpoint type %q", e.Type)
	}
}
