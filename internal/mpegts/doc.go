// Package mpegts implements the framing, PSI, and PES/PTS parsing needed to
// pace a pre-recorded MPEG-2 Transport Stream: locating 188-byte packets,
// discovering the PAT/PMT, and extracting 33-bit presentation timestamps
// from PES headers. It operates on non-owning byte windows; callers own the
// underlying buffer.
package mpegts
