package scte35

// SpliceInsert signals a splice point in the stream.
type SpliceInsert struct {
	SpliceEventID              uint32
	SpliceEventCancelIndicator bool
	OutOfNetworkIndicator      bool
	SpliceImmediateFlag        bool
	BreakDuration              *BreakDuration
	UniqueProgramID            uint32
	AvailNum                   uint32
	AvailsExpected             uint32
}

func (cmd *SpliceInsert) Type() uint32 { return SpliceInsertType }

func (cmd *SpliceInsert) decode(data []byte) error {
	c := newBitCursor(data)
	cmd.SpliceEventID = c.take32(32)
	cmd.SpliceEventCancelIndicator = c.takeBool()
	c.skip(7) // reserved

	if cmd.SpliceEventCancelIndicator {
		return cmd.decodeTrailer(c)
	}

	cmd.OutOfNetworkIndicator = c.takeBool()
	programSpliceFlag := c.takeBool()
	durationFlag := c.takeBool()
	cmd.SpliceImmediateFlag = c.takeBool()
	c.skip(4) // reserved

	if programSpliceFlag {
		if !cmd.SpliceImmediateFlag {
			readSpliceTime(c) // pts_time (not stored)
		}
	} else {
		componentCount := int(c.take(8))
		for i := 0; i < componentCount; i++ {
			c.skip(8) // component_tag
			if !cmd.SpliceImmediateFlag {
				readSpliceTime(c)
			}
		}
	}

	if durationFlag {
		cmd.BreakDuration = &BreakDuration{AutoReturn: c.takeBool()}
		c.skip(6) // reserved
		cmd.BreakDuration.Duration = c.take(33)
	}

	return cmd.decodeTrailer(c)
}

// decodeTrailer reads unique_program_id/avail_num/avails_expected, which
// the wire format places after everything else regardless of whether the
// event was cancelled.
func (cmd *SpliceInsert) decodeTrailer(c *bitCursor) error {
	cmd.UniqueProgramID = c.take32(16)
	cmd.AvailNum = c.take32(8)
	cmd.AvailsExpected = c.take32(8)
	return nil
}

func (cmd *SpliceInsert) commandLength() int {
	const (
		fixedBits    = 32 + 1 + 7                 // event_id + cancel + reserved
		variableBits = 1 + 1 + 1 + 1 + 4 + 8       // out_of_network + program_splice + duration_flag + immediate + reserved + component_count
		durationBits = 1 + 6 + 33                  // auto_return + reserved + duration
		trailerBits  = 16 + 8 + 8                  // unique_program_id + avail_num + avails_expected
	)

	bits := fixedBits
	if !cmd.SpliceEventCancelIndicator {
		bits += variableBits
		if cmd.BreakDuration != nil {
			bits += durationBits
		}
		bits += trailerBits
	}
	return bits / 8
}
