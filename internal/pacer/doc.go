// Package pacer implements the read-scan-emit loop that paces MPEG-TS
// emission to a reference elementary stream's presentation timestamps: fill
// a byte window from a source, walk it for TS packets, track one PTS-driven
// reference PID discovered once per session, and release buffered bytes to
// a sink in MTU-sized chunks whenever the reference PTS regresses or wraps.
package pacer
