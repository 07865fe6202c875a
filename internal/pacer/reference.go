package pacer

import "github.com/cesbo/tsplay/internal/mpegts"

// learnReference advances the one-shot reference-PID discovery state
// machine: PAT discovers candidate PMT PIDs, each PMT is scanned for the
// first video stream (adopted immediately) or, failing that, the first
// audio stream (adopted once every known PMT has been seen). If neither
// ever turns up, noReference is set and the session emits continuously.
func (s *Session) learnReference(pkt mpegts.Packet) {
	if s.referencePID != NoReferencePID || s.noReference {
		return
	}

	if pkt.PID == mpegts.PATPID {
		s.learnPAT(pkt)
		return
	}

	if _, known := s.pmtPIDs[pkt.PID]; known {
		s.learnPMT(pkt)
	}
}

func (s *Session) learnPAT(pkt mpegts.Packet) {
	if s.patSeen || len(s.pmtPIDs) > 0 || len(pkt.Payload) == 0 {
		return
	}
	pat, err := mpegts.ParsePAT(pkt.Payload)
	if err != nil {
		return
	}
	s.patSeen = true
	for _, prog := range pat.Programs {
		s.pmtPIDs[prog.ProgramMapPID] = struct{}{}
	}
	s.finishDiscoveryIfExhausted()
}

func (s *Session) learnPMT(pkt mpegts.Packet) {
	delete(s.pmtPIDs, pkt.PID)

	if len(pkt.Payload) == 0 {
		s.finishDiscoveryIfExhausted()
		return
	}
	pmt, err := mpegts.ParsePMT(pkt.Payload)
	if err != nil {
		s.finishDiscoveryIfExhausted()
		return
	}

	// Splice-PID tracking is a passthrough side channel, not part of the
	// reference selection itself: it registers every SCTE-35 stream in this
	// PMT before the video/audio choice below short-circuits discovery.
	var videoPID uint16
	haveVideo := false
	for _, st := range pmt.Streams {
		if st.StreamType == scte35StreamType {
			s.splicePIDs[st.ElementaryPID] = struct{}{}
		}
		switch st.Kind() {
		case mpegts.StreamVideo:
			if !haveVideo {
				haveVideo = true
				videoPID = st.ElementaryPID
			}
		case mpegts.StreamAudio:
			if !s.haveAudioCandidate {
				s.haveAudioCandidate = true
				s.audioCandidate = st.ElementaryPID
			}
		}
	}

	if haveVideo {
		s.referencePID = videoPID
		s.pmtPIDs = map[uint16]struct{}{}
		s.logger.Info("reference pid selected", "pid", s.referencePID, "kind", "video")
		return
	}

	s.finishDiscoveryIfExhausted()
}

// finishDiscoveryIfExhausted falls back to the first audio candidate once
// every PMT named by the PAT has been consumed with no video found, or
// gives up on pacing entirely if there was no audio either.
func (s *Session) finishDiscoveryIfExhausted() {
	if s.referencePID != NoReferencePID || !s.patSeen || len(s.pmtPIDs) > 0 {
		return
	}
	s.adoptFallbackReference("audio-fallback")
}

// giveUpIfBufferExhausted forces the same fallback finishDiscoveryIfExhausted
// applies once PMTs run out, but triggered by the read window filling up
// completely while discovery is still pending instead. Without this, a
// source that never delivers a PAT (or whose PAT packet is lost) leaves
// referencePID at NoReferencePID forever: scanAndEmit never releases a byte
// while discovery is pending, so the window fills, compact never shrinks it,
// and fill stops reading — a busy-spin with no I/O and no forward progress.
// This is the one place discovery is abandoned for a reason other than
// "every candidate PMT has been seen."
func (s *Session) giveUpIfBufferExhausted() {
	if s.referencePID != NoReferencePID || s.noReference {
		return
	}
	if s.r < len(s.buf) {
		return
	}
	s.logger.Warn("reference pid still undiscovered with the read window full, forcing fallback")
	s.adoptFallbackReference("audio-fallback-buffer-exhausted")
}

func (s *Session) adoptFallbackReference(kind string) {
	if s.haveAudioCandidate {
		s.referencePID = s.audioCandidate
		s.logger.Info("reference pid selected", "pid", s.referencePID, "kind", kind)
		return
	}
	s.noReference = true
	s.logger.Info("no video or audio stream found, pacing disabled")
}
