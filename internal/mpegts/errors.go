package mpegts

import "errors"

// Framing errors (component B). ErrShort means the scanner needs more
// input, not that the stream is corrupt; ErrNotSync is recovered locally by
// advancing one byte.
var (
	ErrNotSync = errors.New("mpegts: packet does not start with sync byte 0x47")
	ErrShort   = errors.New("mpegts: fewer than 188 bytes available")
)

// PSI errors (component C). Both are non-fatal: the caller skips the
// offending packet and continues.
var (
	ErrSectionOutOfRange    = errors.New("mpegts: PSI section extends past payload")
	ErrSectionLengthMissing = errors.New("mpegts: PSI payload too short for section_length")
)
