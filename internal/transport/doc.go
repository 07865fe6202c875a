// Package transport provides the concrete Source and Sink endpoints the
// pacing engine reads from and writes to: plain files, connected UDP
// datagram sockets, and an SRT contribution sink. Every type here satisfies
// pacer.Source/pacer.Sink by having matching Read/Write signatures — this
// package does not import internal/pacer to avoid a dependency back into
// the engine it only feeds.
package transport
