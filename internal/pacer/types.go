package pacer

import "context"

// Source is the read side of a pacing session: fill buf with as many bytes
// as are available right now. A 0, nil return means no more data for this
// burst (the caller should move on); io.EOF means the source is exhausted.
type Source interface {
	Read(ctx context.Context, buf []byte) (int, error)
}

// Sink is the write side of a pacing session. A failed or short write is
// the caller's to retry or skip — Write itself just reports what happened.
type Sink interface {
	Write(ctx context.Context, buf []byte) (int, error)
}

// SpliceObserver is notified, for observation only, of SCTE-35
// splice_info_section payloads seen on a PMT stream classified as SCTE-35.
// It never influences pacing or emission.
type SpliceObserver interface {
	Observe(pid uint16, payload []byte)
}

// NoReferencePID is the sentinel value meaning "reference PID not yet
// chosen" — one past the 13-bit PID range, so it can never collide with a
// real PID.
const NoReferencePID uint16 = 0x2000

// scte35StreamType is the PMT stream_type tag for SCTE-35 splice_info
// sections (ANSI/SCTE 35).
const scte35StreamType = 0x86
