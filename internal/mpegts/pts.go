package mpegts

// PTSNone is the sentinel "no timestamp" value: one past the maximum
// representable 33-bit counter.
const PTSNone uint64 = 1 << 33

// PTSMax is the largest representable 33-bit PTS value; the clock wraps to
// 0 immediately after it.
const PTSMax uint64 = (1 << 33) - 1

// ptsClockHz is the 90kHz clock PTS values are counted in.
const ptsClockHz = 90

// PTSDelta computes the wrap-aware forward distance from last to cur on the
// 33-bit PTS clock: cur-last if the clock advanced normally, or
// cur+PTSMax-last if it wrapped.
func PTSDelta(last, cur uint64) uint64 {
	if cur >= last {
		return cur - last
	}
	return cur + PTSMax - last
}

// PTSToMillis converts a PTS tick count (a value or a delta) to
// milliseconds at the 90kHz clock rate.
func PTSToMillis(pts uint64) int64 {
	return int64(pts / ptsClockHz)
}
