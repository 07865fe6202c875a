package scte35

// TimeSignal provides a time-synchronized data delivery mechanism.
type TimeSignal struct {
	SpliceTime SpliceTime
}

func (cmd *TimeSignal) Type() uint32 { return TimeSignalType }

func (cmd *TimeSignal) decode(data []byte) error {
	cmd.SpliceTime.PTSTime = readSpliceTime(newBitCursor(data))
	return nil
}

func (cmd *TimeSignal) commandLength() int {
	if cmd.SpliceTime.PTSTime != nil {
		return 5
	}
	return 1
}
