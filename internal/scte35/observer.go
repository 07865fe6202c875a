package scte35

import "log/slog"

// LogObserver decodes splice_info_section payloads and logs what it finds.
// It satisfies pacer.SpliceObserver without importing internal/pacer, the
// same way internal/transport's endpoints satisfy pacer.Source/Sink.
type LogObserver struct {
	log *slog.Logger
}

// NewLogObserver returns an observer that logs to log, or slog.Default() if
// log is nil.
func NewLogObserver(log *slog.Logger) *LogObserver {
	if log == nil {
		log = slog.Default()
	}
	return &LogObserver{log: log}
}

// Observe decodes payload as a splice_info_section and logs its command
// type. Decode errors are logged and otherwise ignored — a malformed
// splice table never interrupts pacing.
func (o *LogObserver) Observe(pid uint16, payload []byte) {
	sis, err := DecodeBytes(payload)
	if err != nil {
		o.log.Warn("scte35: decode failed", "pid", pid, "error", err)
		return
	}

	attrs := []any{"pid", pid, "pts_adjustment", sis.PTSAdjustment}
	switch cmd := sis.SpliceCommand.(type) {
	case *SpliceInsert:
		attrs = append(attrs, "command", "splice_insert",
			"event_id", cmd.SpliceEventID,
			"cancel", cmd.SpliceEventCancelIndicator,
			"out_of_network", cmd.OutOfNetworkIndicator,
			"immediate", cmd.SpliceImmediateFlag)
	case *TimeSignal:
		attrs = append(attrs, "command", "time_signal")
		if cmd.SpliceTime.PTSTime != nil {
			attrs = append(attrs, "pts_time", *cmd.SpliceTime.PTSTime)
		}
	case *SpliceNull:
		attrs = append(attrs, "command", "splice_null")
	default:
		attrs = append(attrs, "command", "unknown")
	}

	for _, d := range sis.SpliceDescriptors {
		sd, ok := d.(*SegmentationDescriptor)
		if !ok {
			continue
		}
		o.log.Info("scte35: segmentation descriptor",
			"pid", pid,
			"event_id", sd.SegmentationEventID,
			"type", sd.Name(),
			"segment_num", sd.SegmentNum,
			"segments_expected", sd.SegmentsExpected)
	}

	o.log.Info("scte35: splice_info_section", attrs...)
}
