package transport

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads a file sequentially from the beginning.
type FileSource struct {
	f *os.File
}

// OpenFileSource opens path for sequential reading.
func OpenFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transport: open source %s: %w", path, err)
	}
	return &FileSource{f: f}, nil
}

// Read satisfies pacer.Source. End of file is reported via io.EOF (on
// every read once the end is reached), not as a silent (0, nil) — see
// DESIGN.md.
func (s *FileSource) Read(ctx context.Context, buf []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.f.Read(buf)
}

func (s *FileSource) Close() error {
	return s.f.Close()
}

// FileSink appends TS chunks to a file, creating it if it doesn't exist.
// Not required by spec.md §4.6 but kept as a permissible symmetric
// extension alongside UDPSource.
type FileSink struct {
	f *os.File
}

// OpenFileSink opens path for appending, creating it if necessary.
func OpenFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("transport: open sink %s: %w", path, err)
	}
	return &FileSink{f: f}, nil
}

// Write satisfies pacer.Sink.
func (s *FileSink) Write(ctx context.Context, buf []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.f.Write(buf)
}

func (s *FileSink) Close() error {
	return s.f.Close()
}
