// Package scte35 decodes SCTE-35 splice_info_section payloads carried on a
// PMT-declared stream_type 0x86 PID. Only the command types cesbo/tsplay
// observes are supported: SpliceNull, SpliceInsert, TimeSignal, and the
// SegmentationDescriptor splice descriptor. This package never encodes —
// the pacer only observes splices in passing, it never re-muxes them.
package scte35

import "fmt"

const (
	tableID = 0xFC

	// legacySpliceCommandLength marks a splice_command_length the reader
	// must discover by decoding the command, rather than trust.
	legacySpliceCommandLength = 0xFFF

	SpliceNullType   uint32 = 0x00
	SpliceInsertType uint32 = 0x05
	TimeSignalType   uint32 = 0x06
)

// SpliceCommand is the interface for splice command types.
type SpliceCommand interface {
	Type() uint32
	decode([]byte) error
	commandLength() int
}

// SpliceDescriptor is the interface for splice descriptor types.
type SpliceDescriptor interface {
	Tag() uint32
	decode([]byte) error
}

// SpliceDescriptors is a slice of SpliceDescriptor.
type SpliceDescriptors []SpliceDescriptor

// SpliceTime carries an optional PTS time.
type SpliceTime struct {
	PTSTime *uint64
}

// BreakDuration specifies the duration of a commercial break.
type BreakDuration struct {
	AutoReturn bool
	Duration   uint64
}

// SpliceInfoSection is the top-level SCTE-35 structure.
type SpliceInfoSection struct {
	SAPType           uint32
	PTSAdjustment     uint64
	Tier              uint32
	SpliceCommand     SpliceCommand
	SpliceDescriptors SpliceDescriptors
}

// DecodeBytes decodes a binary SCTE-35 splice_info_section.
func DecodeBytes(data []byte) (*SpliceInfoSection, error) {
	sis := &SpliceInfoSection{}
	if err := sis.decode(data); err != nil {
		return sis, err
	}
	return sis, nil
}

func (sis *SpliceInfoSection) decode(data []byte) error {
	if err := verifyCRC32(data); err != nil {
		return err
	}

	c := newBitCursor(data)
	sectionLength, cmdType, cmdLen := sis.parseHeader(c)

	if cmdLen == legacySpliceCommandLength {
		return sis.decodeLegacyCommand(c, sectionLength, cmdType)
	}
	return sis.decodeExplicitCommand(c, cmdType, cmdLen)
}

// parseHeader consumes the fixed splice_info_section fields common to both
// the legacy and explicit-length command encodings, and returns the raw
// section_length, splice_command_type and splice_command_length needed to
// pick between them.
func (sis *SpliceInfoSection) parseHeader(c *bitCursor) (sectionLength int, cmdType uint32, cmdLen int) {
	c.skip(8) // table_id
	c.skip(2) // section_syntax_indicator + private_indicator
	sis.SAPType = c.take32(2)
	sectionLength = int(c.take(12))

	c.skip(8) // protocol_version
	c.skip(7) // encrypted_packet + encryption_algorithm
	sis.PTSAdjustment = c.take(33)
	c.skip(8) // cw_index
	sis.Tier = c.take32(12)

	cmdLen = int(c.take(12))
	cmdType = c.take32(8)
	return sectionLength, cmdType, cmdLen
}

// decodeLegacyCommand handles encoders that set splice_command_length to
// 0xFFF: the command's real length is only known after decoding it, so the
// descriptor loop boundary has to be located after the fact.
func (sis *SpliceInfoSection) decodeLegacyCommand(c *bitCursor, sectionLength int, cmdType uint32) error {
	afterFixedHeader := sectionLength - 11 // bytes after splice_command_type, CRC included
	payload := c.takeBytes(afterFixedHeader - 4)

	cmd, err := buildSpliceCommand(cmdType, payload)
	if err != nil {
		return fmt.Errorf("scte35: decoding command type 0x%02X: %w", cmdType, err)
	}
	sis.SpliceCommand = cmd

	cmdBytes := cmd.commandLength()
	if cmdBytes >= len(payload)-2 {
		return nil
	}
	descLoopLen := int(payload[cmdBytes])<<8 | int(payload[cmdBytes+1])
	descData := payload[cmdBytes+2:]
	if descLoopLen <= 0 || descLoopLen > len(descData) {
		return nil
	}

	descs, err := parseDescriptorLoop(descData[:descLoopLen])
	if err != nil {
		return err
	}
	sis.SpliceDescriptors = descs
	return nil
}

// decodeExplicitCommand handles the common case where splice_command_length
// is trusted at face value.
func (sis *SpliceInfoSection) decodeExplicitCommand(c *bitCursor, cmdType uint32, cmdLen int) error {
	cmd, err := buildSpliceCommand(cmdType, c.takeBytes(cmdLen))
	if err != nil {
		return fmt.Errorf("scte35: decoding command type 0x%02X: %w", cmdType, err)
	}
	sis.SpliceCommand = cmd

	descLoopLen := int(c.take(16))
	if descLoopLen <= 0 {
		return nil
	}
	descs, err := parseDescriptorLoop(c.takeBytes(descLoopLen))
	if err != nil {
		return err
	}
	sis.SpliceDescriptors = descs
	return nil
}

// newSpliceCommand allocates the command value for a splice_command_type,
// reporting whether it is one this package actually decodes. Unknown types
// (and SpliceNullType, whose decode is a no-op regardless) share the same
// zero-value SpliceNull stand-in.
func newSpliceCommand(cmdType uint32) (cmd SpliceCommand, known bool) {
	switch cmdType {
	case SpliceInsertType:
		return &SpliceInsert{}, true
	case TimeSignalType:
		return &TimeSignal{}, true
	default:
		return &SpliceNull{}, false
	}
}

func buildSpliceCommand(cmdType uint32, data []byte) (SpliceCommand, error) {
	cmd, known := newSpliceCommand(cmdType)
	if !known {
		return cmd, nil
	}
	if err := cmd.decode(data); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// readSpliceTime reads a splice_time() structure: a time_specified_flag
// followed by either a 33-bit PTS or 7 reserved bits. Shared by TimeSignal
// and the several splice_time() occurrences inside SpliceInsert.
func readSpliceTime(c *bitCursor) *uint64 {
	if !c.takeBool() { // time_specified_flag
		c.skip(7) // reserved
		return nil
	}
	c.skip(6) // reserved
	pts := c.take(33)
	return &pts
}

func parseDescriptorLoop(data []byte) ([]SpliceDescriptor, error) {
	var descs []SpliceDescriptor
	for offset := 0; offset+2 <= len(data); {
		tag := uint32(data[offset])
		length := int(data[offset+1])
		end := offset + 2 + length
		if end > len(data) {
			break
		}

		if isSegmentationDescriptor(tag, data[offset:end]) {
			sd := &SegmentationDescriptor{}
			if err := sd.decode(data[offset:end]); err != nil {
				return descs, err
			}
			descs = append(descs, sd)
		}
		offset = end
	}
	return descs, nil
}

// isSegmentationDescriptor reports whether a descriptor body carries the
// segmentation_descriptor tag and the CUEI identifier; anything else is
// skipped silently.
func isSegmentationDescriptor(tag uint32, body []byte) bool {
	if tag != SegmentationDescriptorTag || len(body) < 6 {
		return false
	}
	identifier := uint32(body[2])<<24 | uint32(body[3])<<16 | uint32(body[4])<<8 | uint32(body[5])
	return identifier == CUEIdentifier
}
