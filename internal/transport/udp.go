package transport

import (
	"context"
	"fmt"
	"net"
)

// UDPSink is a connected-datagram UDP write endpoint: an ephemeral local
// address on the unspecified IPv4 host, connected to the configured remote
// address, sending fire-and-forget datagrams per spec.md §4.6.
type UDPSink struct {
	conn *net.UDPConn
}

// DialUDPSink binds an ephemeral local port and connects to addr:port.
func DialUDPSink(addr string, port int) (*UDPSink, error) {
	conn, err := dialConnectedUDP(addr, port)
	if err != nil {
		return nil, fmt.Errorf("transport: udp sink dial %s:%d: %w", addr, port, err)
	}
	return &UDPSink{conn: conn}, nil
}

// Write satisfies pacer.Sink. A failed send is returned to the caller
// rather than retried here — release() in internal/pacer skips the chunk
// and keeps the stream moving, per the best-effort UDP contract.
func (s *UDPSink) Write(ctx context.Context, buf []byte) (int, error) {
	return connWrite(ctx, s.conn, buf)
}

func (s *UDPSink) Close() error {
	return s.conn.Close()
}

// UDPSource is the symmetric read counterpart to UDPSink: a permissible
// extension per spec.md §4.6, not required by it.
type UDPSource struct {
	conn *net.UDPConn
}

// DialUDPSource binds an ephemeral local port and connects to addr:port,
// accepting datagrams only from that peer.
func DialUDPSource(addr string, port int) (*UDPSource, error) {
	conn, err := dialConnectedUDP(addr, port)
	if err != nil {
		return nil, fmt.Errorf("transport: udp source dial %s:%d: %w", addr, port, err)
	}
	return &UDPSource{conn: conn}, nil
}

// Read satisfies pacer.Source.
func (s *UDPSource) Read(ctx context.Context, buf []byte) (int, error) {
	return connRead(ctx, s.conn, buf)
}

func (s *UDPSource) Close() error {
	return s.conn.Close()
}

func dialConnectedUDP(addr string, port int) (*net.UDPConn, error) {
	local := &net.UDPAddr{IP: net.IPv4zero, Port: 0}
	remote := &net.UDPAddr{IP: net.ParseIP(addr), Port: port}
	if remote.IP == nil {
		resolved, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", addr, port))
		if err != nil {
			return nil, err
		}
		remote = resolved
	}
	return net.DialUDP("udp4", local, remote)
}

type reader interface {
	Read([]byte) (int, error)
}

type writer interface {
	Write([]byte) (int, error)
}

// connRead and connWrite give a blocking Read/Write call a cancellation
// path: the call runs in a goroutine while the caller selects on
// ctx.Done(), the same dial-with-cancel shape as ingest/srt/caller.go's
// Pull. A cancelled call leaves its goroutine to exit on its own once the
// connection is later closed by the owner.
func connRead(ctx context.Context, conn reader, buf []byte) (int, error) {
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := conn.Read(buf)
		ch <- result{n, err}
	}()

	select {
	case r := <-ch:
		return r.n, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func connWrite(ctx context.Context, conn writer, buf []byte) (int, error) {
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := conn.Write(buf)
		ch <- result{n, err}
	}()

	select {
	case r := <-ch:
		return r.n, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
