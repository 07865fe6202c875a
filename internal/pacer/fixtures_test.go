package pacer

import (
	"context"
	"errors"
	"io"

	"github.com/cesbo/tsplay/internal/mpegts"
)

var errSimulatedWrite = errors.New("simulated write failure")

// buildTSPacket assembles a 188-byte TS packet with no adaptation field;
// payload is placed at offset 4 and padded with 0xFF stuffing.
func buildTSPacket(pid uint16, pusi bool, cc uint8, payload []byte) []byte {
	buf := make([]byte, mpegts.PacketSize)
	buf[0] = mpegts.SyncByte
	buf[1] = byte(pid>>8) & 0x1F
	if pusi {
		buf[1] |= 0x40
	}
	buf[2] = byte(pid)
	buf[3] = 0x10 | (cc & 0x0F) // payload only, no adaptation field

	copy(buf[4:], payload)
	for i := 4 + len(payload); i < mpegts.PacketSize; i++ {
		buf[i] = 0xFF
	}
	return buf
}

// fakeSource serves data in caller-sized reads (or in chunk-sized pieces if
// chunk > 0), returning io.EOF once exhausted.
type fakeSource struct {
	data  []byte
	pos   int
	chunk int
}

func (f *fakeSource) Read(ctx context.Context, buf []byte) (int, error) {
	if f.pos >= len(f.data) {
		return 0, io.EOF
	}
	n := len(f.data) - f.pos
	if n > len(buf) {
		n = len(buf)
	}
	if f.chunk > 0 && n > f.chunk {
		n = f.chunk
	}
	copy(buf, f.data[f.pos:f.pos+n])
	f.pos += n
	return n, nil
}

// fakeSink records every accepted write; failNext makes the next Write
// report an error without recording anything.
type fakeSink struct {
	writes   [][]byte
	failNext bool
}

func (f *fakeSink) Write(ctx context.Context, buf []byte) (int, error) {
	if f.failNext {
		f.failNext = false
		return 0, errSimulatedWrite
	}
	cp := append([]byte(nil), buf...)
	f.writes = append(f.writes, cp)
	return len(buf), nil
}

type fakeSpliceObserver struct {
	pids    []uint16
	lengths []int
}

func (f *fakeSpliceObserver) Observe(pid uint16, payload []byte) {
	f.pids = append(f.pids, pid)
	f.lengths = append(f.lengths, len(payload))
}

// buildPATSection builds a PAT section payload (including its pointer_field)
// suitable for mpegts.ParsePAT, mirroring internal/mpegts's own test fixture.
func buildPATSection(tsID uint16, programs []mpegts.PATProgram) []byte {
	entries := len(programs) * 4
	sectionLength := 5 + entries + 4

	buf := make([]byte, 4+sectionLength)
	buf[1] = 0x00 // table_id PAT
	buf[2] = byte(sectionLength >> 8 & 0x0F)
	buf[3] = byte(sectionLength)
	buf[4] = byte(tsID >> 8)
	buf[5] = byte(tsID)
	buf[6] = 0xC1

	off := 9
	for _, p := range programs {
		buf[off] = byte(p.ProgramNumber >> 8)
		buf[off+1] = byte(p.ProgramNumber)
		buf[off+2] = byte(p.ProgramMapPID>>8) | 0xE0
		buf[off+3] = byte(p.ProgramMapPID)
		off += 4
	}
	return buf
}

// buildPMTSection builds a PMT section payload for mpegts.ParsePMT.
func buildPMTSection(programNumber uint16, streams []mpegts.PMTStream) []byte {
	entries := len(streams) * 5
	sectionLength := 17 + entries

	buf := make([]byte, 4+sectionLength)
	buf[1] = 0x02 // table_id PMT
	buf[2] = byte(sectionLength >> 8 & 0x0F)
	buf[3] = byte(sectionLength)
	buf[4] = byte(programNumber >> 8)
	buf[5] = byte(programNumber)
	buf[6] = 0xC1
	buf[9] = 0xE0
	buf[11] = 0x00 // program_info_length = 0

	off := 13
	for _, st := range streams {
		buf[off] = st.StreamType
		buf[off+1] = byte(st.ElementaryPID>>8) | 0xE0
		buf[off+2] = byte(st.ElementaryPID)
		buf[off+3] = 0xF0
		off += 5
	}
	return buf
}

// buildPESSection builds a syntax-spec PES payload carrying pts, using the
// marker-bit layout mpegts.PES.PTS decodes.
func buildPESSection(streamID byte, pts uint64) []byte {
	buf := make([]byte, 14)
	buf[0], buf[1], buf[2] = 0x00, 0x00, 0x01
	buf[3] = streamID
	buf[6] = 0x80
	buf[7] = 0x80 // PTS_DTS_flags = '10'
	buf[8] = 5

	buf[9] = 0x21 | byte(pts>>29&0x0E)
	buf[10] = byte(pts >> 22)
	buf[11] = 0x01 | byte(pts>>14&0xFE)
	buf[12] = byte(pts >> 7)
	buf[13] = 0x01 | byte(pts<<1)
	return buf
}
