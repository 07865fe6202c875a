package scte35

const (
	// SegmentationDescriptorTag is the splice_descriptor_tag for segmentation_descriptor.
	SegmentationDescriptorTag uint32 = 0x02

	// CUEIdentifier is the CUEI ASCII identifier (0x43554549).
	CUEIdentifier uint32 = 0x43554549
)

// Segmentation type constants per SCTE-35 Table 22.
const (
	SegmentationTypeNotIndicated              uint32 = 0x00
	SegmentationTypeContentIdentification     uint32 = 0x01
	SegmentationTypeProgramStart              uint32 = 0x10
	SegmentationTypeProgramEnd                uint32 = 0x11
	SegmentationTypeProgramEarlyTermination   uint32 = 0x12
	SegmentationTypeProgramBreakaway          uint32 = 0x13
	SegmentationTypeProgramResumption         uint32 = 0x14
	SegmentationTypeProgramRunoverPlanned     uint32 = 0x15
	SegmentationTypeProgramRunoverUnplanned   uint32 = 0x16
	SegmentationTypeProgramOverlapStart       uint32 = 0x17
	SegmentationTypeProgramBlackoutOverride   uint32 = 0x18
	SegmentationTypeProgramStartInProgress    uint32 = 0x19
	SegmentationTypeChapterStart              uint32 = 0x20
	SegmentationTypeChapterEnd                uint32 = 0x21
	SegmentationTypeBreakStart                uint32 = 0x22
	SegmentationTypeBreakEnd                  uint32 = 0x23
	SegmentationTypeOpeningCreditStart        uint32 = 0x24
	SegmentationTypeOpeningCreditEnd          uint32 = 0x25
	SegmentationTypeClosingCreditStart        uint32 = 0x26
	SegmentationTypeClosingCreditEnd          uint32 = 0x27
	SegmentationTypeProviderAdStart           uint32 = 0x30
	SegmentationTypeProviderAdEnd             uint32 = 0x31
	SegmentationTypeDistributorAdStart        uint32 = 0x32
	SegmentationTypeDistributorAdEnd          uint32 = 0x33
	SegmentationTypeProviderPOStart           uint32 = 0x34
	SegmentationTypeProviderPOEnd             uint32 = 0x35
	SegmentationTypeDistributorPOStart        uint32 = 0x36
	SegmentationTypeDistributorPOEnd          uint32 = 0x37
	SegmentationTypeProviderOverlayPOStart    uint32 = 0x38
	SegmentationTypeProviderOverlayPOEnd      uint32 = 0x39
	SegmentationTypeDistributorOverlayPOStart uint32 = 0x3a
	SegmentationTypeDistributorOverlayPOEnd   uint32 = 0x3b
	SegmentationTypeProviderPromoStart        uint32 = 0x3c
	SegmentationTypeProviderPromoEnd          uint32 = 0x3d
	SegmentationTypeDistributorPromoStart     uint32 = 0x3e
	SegmentationTypeDistributorPromoEnd       uint32 = 0x3f
	SegmentationTypeUnscheduledEventStart     uint32 = 0x40
	SegmentationTypeUnscheduledEventEnd       uint32 = 0x41
	SegmentationTypeAltConOppStart            uint32 = 0x42
	SegmentationTypeAltConOppEnd              uint32 = 0x43
	SegmentationTypeProviderAdBlockStart      uint32 = 0x44
	SegmentationTypeProviderAdBlockEnd        uint32 = 0x45
	SegmentationTypeDistributorAdBlockStart   uint32 = 0x46
	SegmentationTypeDistributorAdBlockEnd     uint32 = 0x47
	SegmentationTypeNetworkStart              uint32 = 0x50
	SegmentationTypeNetworkEnd                uint32 = 0x51
)

// segmentationTypeNames holds the human-readable label for every
// segmentation_type_id this package recognizes; anything absent falls back
// to "Unknown" in Name.
var segmentationTypeNames = map[uint32]string{
	SegmentationTypeNotIndicated:              "Not Indicated",
	SegmentationTypeContentIdentification:     "Content Identification",
	SegmentationTypeProgramStart:               "Program Start",
	SegmentationTypeProgramEnd:                 "Program End",
	SegmentationTypeProgramEarlyTermination:    "Program Early Termination",
	SegmentationTypeProgramBreakaway:           "Program Breakaway",
	SegmentationTypeProgramResumption:          "Program Resumption",
	SegmentationTypeProgramRunoverPlanned:      "Program Runover Planned",
	SegmentationTypeProgramRunoverUnplanned:    "Program Runover Unplanned",
	SegmentationTypeProgramOverlapStart:        "Program Overlap Start",
	SegmentationTypeProgramBlackoutOverride:    "Program Blackout Override",
	SegmentationTypeProgramStartInProgress:     "Program Start - In Progress",
	SegmentationTypeChapterStart:               "Chapter Start",
	SegmentationTypeChapterEnd:                 "Chapter End",
	SegmentationTypeBreakStart:                 "Break Start",
	SegmentationTypeBreakEnd:                   "Break End",
	SegmentationTypeOpeningCreditStart:         "Opening Credit Start",
	SegmentationTypeOpeningCreditEnd:           "Opening Credit End",
	SegmentationTypeClosingCreditStart:         "Closing Credit Start",
	SegmentationTypeClosingCreditEnd:           "Closing Credit End",
	SegmentationTypeProviderAdStart:            "Provider Advertisement Start",
	SegmentationTypeProviderAdEnd:              "Provider Advertisement End",
	SegmentationTypeDistributorAdStart:         "Distributor Advertisement Start",
	SegmentationTypeDistributorAdEnd:           "Distributor Advertisement End",
	SegmentationTypeProviderPOStart:            "Provider Placement Opportunity Start",
	SegmentationTypeProviderPOEnd:              "Provider Placement Opportunity End",
	SegmentationTypeDistributorPOStart:         "Distributor Placement Opportunity Start",
	SegmentationTypeDistributorPOEnd:           "Distributor Placement Opportunity End",
	SegmentationTypeProviderOverlayPOStart:     "Provider Overlay Placement Opportunity Start",
	SegmentationTypeProviderOverlayPOEnd:       "Provider Overlay Placement Opportunity End",
	SegmentationTypeDistributorOverlayPOStart:  "Distributor Overlay Placement Opportunity Start",
	SegmentationTypeDistributorOverlayPOEnd:    "Distributor Overlay Placement Opportunity End",
	SegmentationTypeProviderPromoStart:         "Provider Promo Start",
	SegmentationTypeProviderPromoEnd:           "Provider Promo End",
	SegmentationTypeDistributorPromoStart:      "Distributor Promo Start",
	SegmentationTypeDistributorPromoEnd:        "Distributor Promo End",
	SegmentationTypeUnscheduledEventStart:      "Unscheduled Event Start",
	SegmentationTypeUnscheduledEventEnd:        "Unscheduled Event End",
	SegmentationTypeAltConOppStart:             "Alternate Content Opportunity Start",
	SegmentationTypeAltConOppEnd:               "Alternate Content Opportunity End",
	SegmentationTypeProviderAdBlockStart:       "Provider Ad Block Start",
	SegmentationTypeProviderAdBlockEnd:         "Provider Ad Block End",
	SegmentationTypeDistributorAdBlockStart:    "Distributor Ad Block Start",
	SegmentationTypeDistributorAdBlockEnd:      "Distributor Ad Block End",
	SegmentationTypeNetworkStart:               "Network Start",
	SegmentationTypeNetworkEnd:                 "Network End",
}

// SegmentationDescriptor carries segmentation information per SCTE-35 10.3.3.
type SegmentationDescriptor struct {
	SegmentationEventID  uint32
	SegmentationTypeID   uint32
	SegmentationDuration *uint64
	SegmentNum           uint32
	SegmentsExpected     uint32
}

// Tag returns the splice_descriptor_tag.
func (sd *SegmentationDescriptor) Tag() uint32 {
	return SegmentationDescriptorTag
}

// Name returns a human-readable name for the segmentation type.
func (sd *SegmentationDescriptor) Name() string {
	if name, ok := segmentationTypeNames[sd.SegmentationTypeID]; ok {
		return name
	}
	return "Unknown"
}

func (sd *SegmentationDescriptor) decode(data []byte) error {
	c := newBitCursor(data)
	c.skip(8)  // splice_descriptor_tag
	c.skip(8)  // descriptor_length
	c.skip(32) // identifier (CUEI)
	sd.SegmentationEventID = c.take32(32)
	cancelIndicator := c.takeBool()
	c.skip(7) // segmentation_event_id_compliance_indicator + reserved

	if cancelIndicator {
		return nil
	}

	programSegmentationFlag := c.takeBool()
	durationFlag := c.takeBool()
	c.skip(6) // delivery_not_restricted_flag + restriction flags: always present, value unused

	if !programSegmentationFlag {
		componentCount := int(c.take(8))
		for i := 0; i < componentCount; i++ {
			c.skip(48) // component_tag + reserved + pts_offset
		}
	}

	if durationFlag {
		dur := c.take(40)
		sd.SegmentationDuration = &dur
	}

	c.skip(8) // segmentation_upid_type
	upidLen := int(c.take(8))
	c.skip(upidLen * 8)
	sd.SegmentationTypeID = c.take32(8)
	sd.SegmentNum = c.take32(8)
	sd.SegmentsExpected = c.take32(8)

	if c.left() >= 16 { // optional sub-segment_num/sub_segments_expected
		c.skip(16)
	}
	return nil
}
