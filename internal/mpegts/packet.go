package mpegts

const (
	// PacketSize is the fixed MPEG-TS packet length in bytes.
	PacketSize = 188

	// SyncByte starts every valid TS packet.
	SyncByte = 0x47

	// NullPID carries stuffing packets with no payload of interest.
	NullPID uint16 = 0x1FFF

	// PATPID is the well-known PID the Program Association Table is
	// always carried on.
	PATPID uint16 = 0x0000
)

// Packet is a parsed 188-byte TS packet. It is a non-owning view over the
// buffer it was parsed from — no field copies the payload, so the caller's
// buffer must outlive the Packet.
type Packet struct {
	PID               uint16
	ContinuityCounter uint8
	PUSI              bool
	HasAdaptation     bool
	HasPayload        bool
	Payload           []byte
}

// ParsePacket validates and parses a TS packet from the front of buf.
//
// It requires buf[0] == SyncByte and len(buf) >= PacketSize; on failure it
// returns ErrNotSync or ErrShort so the caller's scanner can decide whether
// to advance one byte (resync) or stop and wait for more input.
func ParsePacket(buf []byte) (Packet, error) {
	if len(buf) < PacketSize {
		return Packet{}, ErrShort
	}
	if buf[0] != SyncByte {
		return Packet{}, ErrNotSync
	}

	ts := buf[:PacketSize]

	p := Packet{
		PID:               maskPID(beUint16(ts[1:3])),
		PUSI:              ts[1]&0x40 != 0,
		HasAdaptation:     ts[3]&0x20 != 0,
		HasPayload:        ts[3]&0x10 != 0,
		ContinuityCounter: ts[3] & 0x0F,
	}

	offset := 4
	if p.HasAdaptation {
		offset = 5 + int(ts[4])
	}
	if p.HasPayload && offset < PacketSize {
		p.Payload = ts[offset:PacketSize]
	}

	return p, nil
}

// IsPESStart reports whether payload begins with the PES start code prefix
// 00 00 01.
func IsPESStart(payload []byte) bool {
	return len(payload) >= 3 && payload[0] == 0x00 && payload[1] == 0x00 && payload[2] == 0x01
}
