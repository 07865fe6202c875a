package mpegts

// PAT is a parsed Program Association Table section (carried on PATPID).
// Entries with ProgramNumber == 0 (the network PID) are already excluded.
type PAT struct {
	TransportStreamID uint16
	VersionNumber     uint8
	Programs          []PATProgram
}

// PATProgram maps a program number to the PID carrying its PMT.
type PATProgram struct {
	ProgramNumber uint16
	ProgramMapPID uint16
}

// PMT is a parsed Program Map Table section.
type PMT struct {
	ProgramNumber uint16
	VersionNumber uint8
	Streams       []PMTStream
}

// PMTStream describes one elementary stream entry in a PMT.
type PMTStream struct {
	StreamType    uint8
	ElementaryPID uint16
}

// StreamKind classifies a PMT stream_type into the three buckets the
// reference-PID selector cares about.
type StreamKind int

const (
	StreamData StreamKind = iota
	StreamVideo
	StreamAudio
)

// Kind classifies StreamType per the fixed video/audio tag lists.
func (s PMTStream) Kind() StreamKind {
	switch s.StreamType {
	case 0x01, 0x02, 0x10, 0x1B, 0x24:
		return StreamVideo
	case 0x03, 0x04, 0x0F, 0x11:
		return StreamAudio
	default:
		return StreamData
	}
}

// ParsePAT parses a PAT section directly from a single TS packet's payload.
//
// The section_length occupies the low 12 bits of payload[2:4]; entries run
// from offset 9 to section_length, 4 bytes each, and the final 4 bytes of
// the section (the CRC) are not consumed. Programs with program_number == 0
// (the network PID) are skipped, matching the reference selector's rule.
func ParsePAT(payload []byte) (PAT, error) {
	if len(payload) < 4 {
		return PAT{}, ErrSectionLengthMissing
	}

	length := int(maskSectionLength(beUint16(payload[2:4])))
	if 4+length > len(payload) {
		return PAT{}, ErrSectionOutOfRange
	}
	if length < 9 {
		return PAT{}, ErrSectionOutOfRange
	}

	pat := PAT{
		TransportStreamID: beUint16(payload[4:6]),
		VersionNumber:     (payload[6] & 0x3E) >> 1,
	}

	// section_length already counts the trailing CRC32, so entries end
	// exactly at offset `length`.
	entryEnd := length
	for i := 9; i+4 <= entryEnd; i += 4 {
		chunk := payload[i : i+4]
		programNumber := beUint16(chunk[0:2])
		if programNumber == 0 {
			continue
		}
		pat.Programs = append(pat.Programs, PATProgram{
			ProgramNumber: programNumber,
			ProgramMapPID: maskPID(beUint16(chunk[2:4])),
		})
	}

	return pat, nil
}

// ParsePMT parses a PMT section directly from a single TS packet's payload.
//
// program_info_length occupies the low 12 bits of payload[11:13]; the
// elementary stream walker starts at 13+program_info_length and advances by
// 5+es_info_length per entry, stopping 4 bytes (the CRC) before the section
// end.
func ParsePMT(payload []byte) (PMT, error) {
	if len(payload) < 4 {
		return PMT{}, ErrSectionLengthMissing
	}

	length := int(maskSectionLength(beUint16(payload[2:4])))
	if 4+length > len(payload) {
		return PMT{}, ErrSectionOutOfRange
	}
	if length < 13 {
		return PMT{}, ErrSectionOutOfRange
	}

	pmt := PMT{
		ProgramNumber: beUint16(payload[4:6]),
		VersionNumber: (payload[6] & 0x3E) >> 1,
	}

	programInfoLength := int(maskSectionLength(beUint16(payload[11:13])))
	ptr := 13 + programInfoLength
	entryEnd := length - 4 // exclude trailing CRC32

	for ptr+5 <= entryEnd {
		streamType := payload[ptr]
		elementaryPID := maskPID(beUint16(payload[ptr+1 : ptr+3]))
		esInfoLength := int(maskSectionLength(beUint16(payload[ptr+3 : ptr+5])))

		pmt.Streams = append(pmt.Streams, PMTStream{
			StreamType:    streamType,
			ElementaryPID: elementaryPID,
		})

		ptr += 5 + esInfoLength
	}

	return pmt, nil
}
