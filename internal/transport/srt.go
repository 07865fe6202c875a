package transport

import (
	"context"
	"fmt"
	"time"

	srtgo "github.com/zsiec/srtgo"
)

// srtLatencyNs mirrors the teacher's ingest/srt latency setting (120ms).
const srtLatencyNs = 120_000_000

// srtDialTimeout bounds how long DialSRTSink waits for the handshake.
const srtDialTimeout = 10 * time.Second

// SRTSink is an additional contribution sink alongside UDPSink, permitted
// by spec.md §4.6 as an extension transport. It carries the same raw TS
// chunks the pacing engine releases; no RTP or extra framing is added on
// top of SRT's own packetization.
type SRTSink struct {
	conn *srtgo.Conn
}

// DialSRTSink dials a remote SRT listener, identifying itself with
// streamID, and returns once the handshake completes or srtDialTimeout
// elapses.
func DialSRTSink(ctx context.Context, addr, streamID string) (*SRTSink, error) {
	cfg := srtgo.DefaultConfig()
	cfg.Latency = srtLatencyNs
	cfg.StreamID = streamID

	type dialResult struct {
		conn *srtgo.Conn
		err  error
	}
	ch := make(chan dialResult, 1)
	go func() {
		conn, err := srtgo.Dial(addr, cfg)
		ch <- dialResult{conn, err}
	}()

	timer := time.NewTimer(srtDialTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("transport: srt dial %s: %w", addr, res.err)
		}
		return &SRTSink{conn: res.conn}, nil
	case <-timer.C:
		go func() {
			if res := <-ch; res.conn != nil {
				res.conn.Close()
			}
		}()
		return nil, fmt.Errorf("transport: srt dial %s timed out after %s", addr, srtDialTimeout)
	case <-ctx.Done():
		go func() {
			if res := <-ch; res.conn != nil {
				res.conn.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

// Write satisfies pacer.Sink. A failed send is reported to the caller,
// which skips the chunk and keeps going, same as UDPSink.
func (s *SRTSink) Write(ctx context.Context, buf []byte) (int, error) {
	return connWrite(ctx, s.conn, buf)
}

func (s *SRTSink) Close() error {
	return s.conn.Close()
}
