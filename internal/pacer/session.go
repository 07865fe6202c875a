package pacer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cesbo/tsplay/internal/mpegts"
)

const (
	defaultBufferPackets = 2048 // ~376 kB, per the recommended minimum window
	defaultSleep         = 10 * time.Millisecond
	chunkPackets         = 7 // 7*188 = 1316 bytes, one UDP-MTU-sized datagram
)

// Session owns one pacing activation for one input/output pair: its byte
// window, read/write/scan cursors, PTS anchors, and the one-shot
// reference-PID discovery state. A Session is single-use — discard it and
// build a new one on reload.
type Session struct {
	source Source
	sink   Sink
	logger *slog.Logger

	buf  []byte
	r, w, c int

	ptsFirst, ptsLast uint64
	sleepDuration     time.Duration

	referencePID       uint16
	pmtPIDs            map[uint16]struct{}
	patSeen            bool
	haveAudioCandidate bool
	audioCandidate     uint16
	noReference        bool

	splicePIDs map[uint16]struct{}
	observer   SpliceObserver
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithBufferSize sets the window size in bytes, rounded down to a whole
// multiple of 188; the minimum is one packet.
func WithBufferSize(bytes int) Option {
	return func(s *Session) {
		packets := bytes / mpegts.PacketSize
		if packets < 1 {
			packets = 1
		}
		s.buf = make([]byte, packets*mpegts.PacketSize)
	}
}

// WithSleep overrides the default ~10ms pacing sleep.
func WithSleep(d time.Duration) Option {
	return func(s *Session) { s.sleepDuration = d }
}

// WithLogger attaches a logger; a nil logger keeps the default,
// slog.Default() tagged component=pacer.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSpliceObserver wires a passthrough SCTE-35 observer: splice_info
// sections that start and end within one PUSI packet on any PMT stream
// tagged stream_type 0x86 are handed to it, unparsed, with no effect on
// pacing.
func WithSpliceObserver(o SpliceObserver) Option {
	return func(s *Session) { s.observer = o }
}

// NewSession builds a Session reading from source and writing to sink.
func NewSession(source Source, sink Sink, opts ...Option) *Session {
	s := &Session{
		source:       source,
		sink:         sink,
		logger:       slog.With("component", "pacer"),
		buf:          make([]byte, defaultBufferPackets*mpegts.PacketSize),
		sleepDuration: defaultSleep,
		referencePID: NoReferencePID,
		pmtPIDs:      make(map[uint16]struct{}),
		splicePIDs:   make(map[uint16]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run drives the fill-scan-emit loop until the source is exhausted (a nil
// return — the caller restarts a fresh session), ctx is cancelled (also a
// nil return, including mid-sleep), or an unrecoverable transport error
// occurs (a non-nil return).
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fillErr := s.fill(ctx)
		s.giveUpIfBufferExhausted()

		if err := s.scanAndEmit(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.compact()

		if fillErr != nil {
			switch {
			case errors.Is(fillErr, io.EOF):
				s.logger.Info("source exhausted, session ending")
				return nil
			case errors.Is(fillErr, context.Canceled), errors.Is(fillErr, context.DeadlineExceeded):
				return nil
			default:
				return fmt.Errorf("pacer: read: %w", fillErr)
			}
		}
	}
}

// fill reads into buf[r:] until the source returns 0 (end of this burst),
// the buffer fills, or an error (including io.EOF) occurs. Whatever bytes
// were read before an error are kept — the caller still scans them.
func (s *Session) fill(ctx context.Context) error {
	for s.r < len(s.buf) {
		n, err := s.source.Read(ctx, s.buf[s.r:])
		if n > 0 {
			s.r += n
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
	return nil
}

// compact moves the unwritten tail [w:r) to the front of the buffer so the
// next fill can append after it, per the back-edge contract: no parsed
// packet is lost, no byte is emitted twice.
func (s *Session) compact() {
	remaining := s.r - s.w
	if remaining > 0 && s.w > 0 {
		copy(s.buf, s.buf[s.w:s.r])
	}
	s.r = remaining
	s.w = 0
	s.c = 0
}

// scanAndEmit walks buf[0:r] for TS packets, feeding reference-PID
// discovery and PES/PTS tracking, and releases buffered bytes to the sink
// on every PTS regression (or continuously, once no reference PID can ever
// be found).
func (s *Session) scanAndEmit(ctx context.Context) error {
	s.c = 0
	s.w = 0

	for s.c < s.r {
		pkt, err := mpegts.ParsePacket(s.buf[s.c:s.r])
		if err != nil {
			if errors.Is(err, mpegts.ErrNotSync) {
				s.c++
				continue
			}
			break // Short: wait for more bytes next fill
		}
		s.c += mpegts.PacketSize

		s.learnReference(pkt)
		s.observeSplice(pkt)

		if s.noReference {
			if err := s.release(ctx); err != nil {
				return err
			}
			continue
		}

		if s.referencePID == NoReferencePID || pkt.PID != s.referencePID {
			continue
		}
		if !pkt.PUSI || len(pkt.Payload) == 0 || !mpegts.IsPESStart(pkt.Payload) {
			continue
		}

		pes := mpegts.NewPES(pkt.Payload)
		if !pes.IsSyntaxSpec() {
			continue
		}
		pts, ok := pes.PTS()
		if !ok {
			continue
		}

		switch {
		case s.ptsFirst == 0:
			s.ptsFirst = pts
			s.ptsLast = pts
		case pts > s.ptsLast:
			s.ptsLast = pts
		case pts < s.ptsLast:
			deltaMs := mpegts.PTSToMillis(mpegts.PTSDelta(s.ptsFirst, pts))
			s.ptsFirst = s.ptsLast
			s.ptsLast = pts

			if err := s.release(ctx); err != nil {
				return err
			}
			s.logger.Debug("pts regression, pacing", "delta_ms", deltaMs, "sleep", s.sleepDuration)
			if err := s.sleepFor(ctx, s.sleepDuration); err != nil {
				return err
			}
		}
	}

	return nil
}

// release writes buf[w:c] to the sink in chunks of at most 7*188 bytes,
// stopping when less than a full chunk remains buffered. A failed write is
// logged and its chunk skipped outright — the stream keeps moving.
func (s *Session) release(ctx context.Context) error {
	const chunk = chunkPackets * mpegts.PacketSize

	for {
		start := s.w
		end := start + chunk
		if end > s.c {
			end = s.c
		}
		if end-start < chunk {
			return nil
		}

		n, err := s.sink.Write(ctx, s.buf[start:end])
		if err != nil {
			s.logger.Warn("sink write failed, skipping chunk", "error", err)
			s.w = end
			continue
		}
		if n == 0 {
			return nil
		}
		s.w += n
	}
}

// sleepFor blocks for d or until ctx is cancelled, whichever comes first —
// the one suspension point that must unwind cleanly on reload.
func (s *Session) sleepFor(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// observeSplice hands the undecoded splice_info_section that starts in a
// PUSI packet to the configured SpliceObserver, with the pointer_field
// skipped and trailing stuffing cut at section_length; a no-op unless
// WithSpliceObserver was used. Sections spanning several packets are not
// reassembled and are dropped.
func (s *Session) observeSplice(pkt mpegts.Packet) {
	if s.observer == nil {
		return
	}
	if _, ok := s.splicePIDs[pkt.PID]; !ok {
		return
	}
	if !pkt.PUSI || len(pkt.Payload) == 0 {
		return
	}
	payload := pkt.Payload
	start := 1 + int(payload[0]) // skip pointer_field
	if start+3 > len(payload) {
		return
	}
	sectionLength := int(payload[start+1]&0x0F)<<8 | int(payload[start+2])
	end := start + 3 + sectionLength
	if end > len(payload) {
		return
	}
	s.observer.Observe(pkt.PID, payload[start:end])
}
