package scte35

import (
	"encoding/hex"
	"testing"
)

// Golden vectors captured from a reference encoder, used to exercise the
// decoder against real wire bytes rather than our own round-trip output.
var goldenVectors = map[string]string{
	"ProviderAdStart":       "fc302700000000000000fff00506fe000dbba00011020f43554549000000017fbf0000300101ee197d02",
	"DistributorAdStart":    "fc302c00000000000000fff00506fe000dbba00016021443554549000000027fff00002932e000003201031233f909",
	"DistributorAdEnd":      "fc302700000000000000fff00506fe000dbba00011020f43554549000000037fbf000033010352b10a71",
	"ProviderAdEnd":         "fc302700000000000000fff00506fe000dbba00011020f43554549000000047fbf0000310101de2663d0",
	"SpliceInsertOut":       "fc303200000000000000fff01005000000057fbf00fe007b98a0000101010011020f43554549000000057fbf00002201017f1add87",
	"SpliceInsertIn":        "fc302d00000000000000fff00b05000000067f1f00000101010011020f43554549000000067fbf0000230101c2262974",
	"ProgramStart":          "fc302700000000000000fff00506fe000dbba00011020f43554549000000077fbf0000100000ded1e682",
	"ContentID":             "fc302700000000000000fff00506fe000dbba00011020f43554549000000087fbf000001000090ab548a",
	"ChapterStart":          "fc302c00000000000000fff00506fe000dbba00016021443554549000000097fff00019bfcc00000200105bb3c1919",
	"ChapterEnd":            "fc302700000000000000fff00506fe000dbba00011020f435545490000000a7fbf0000210105d921d749",
	"NetworkStart":          "fc302700000000000000fff00506fe000dbba00011020f435545490000000b7fbf0000500000163074e3",
	"ProgramEnd":            "fc302700000000000000fff00506fe000dbba00011020f435545490000000c7fbf0000110000e767f265",
	"UnscheduledEventStart": "fc302700000000000000fff00506fe000dbba00011020f435545490000000d7fbf0000400000d6bf6b98",
	"UnscheduledEventEnd":   "fc302700000000000000fff00506fe000dbba00011020f435545490000000e7fbf00004100003b85a241",
	"ProviderPOStart":       "fc302c00000000000000fff00506fe000dbba000160214435545490000000f7fff00005265c0000034010288c9acbd",
	"ProviderPOEnd":         "fc302700000000000000fff00506fe000dbba00011020f43554549000000107fbf000035010213993e41",
}

func decodeGolden(t *testing.T, name string) *SpliceInfoSection {
	t.Helper()
	data, err := hex.DecodeString(goldenVectors[name])
	if err != nil {
		t.Fatalf("%s: hex decode: %v", name, err)
	}
	sis, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("%s: DecodeBytes failed: %v", name, err)
	}
	return sis
}

func TestDecodeGoldenVectorsHaveACommand(t *testing.T) {
	t.Parallel()
	for name := range goldenVectors {
		sis := decodeGolden(t, name)
		if sis.SpliceCommand == nil {
			t.Errorf("%s: SpliceCommand is nil", name)
		}
	}
}

func TestDecodeTimeSignalWithSegmentation(t *testing.T) {
	t.Parallel()
	sis := decodeGolden(t, "ProviderAdStart")

	ts, ok := sis.SpliceCommand.(*TimeSignal)
	if !ok {
		t.Fatalf("SpliceCommand = %T, want *TimeSignal", sis.SpliceCommand)
	}
	if ts.SpliceTime.PTSTime == nil {
		t.Fatal("PTSTime is nil")
	}

	if len(sis.SpliceDescriptors) != 1 {
		t.Fatalf("descriptor count = %d, want 1", len(sis.SpliceDescriptors))
	}
	sd, ok := sis.SpliceDescriptors[0].(*SegmentationDescriptor)
	if !ok {
		t.Fatalf("descriptor type = %T, want *SegmentationDescriptor", sis.SpliceDescriptors[0])
	}
	if sd.SegmentationTypeID != SegmentationTypeProviderAdStart {
		t.Errorf("SegmentationTypeID = 0x%02X, want 0x%02X", sd.SegmentationTypeID, SegmentationTypeProviderAdStart)
	}
	if sd.SegmentNum != 1 || sd.SegmentsExpected != 1 {
		t.Errorf("SegmentNum/SegmentsExpected = %d/%d, want 1/1", sd.SegmentNum, sd.SegmentsExpected)
	}
}

func TestDecodeSpliceInsertOut(t *testing.T) {
	t.Parallel()
	sis := decodeGolden(t, "SpliceInsertOut")

	si, ok := sis.SpliceCommand.(*SpliceInsert)
	if !ok {
		t.Fatalf("SpliceCommand = %T, want *SpliceInsert", sis.SpliceCommand)
	}
	if !si.OutOfNetworkIndicator {
		t.Error("OutOfNetworkIndicator = false, want true")
	}
	if !si.SpliceImmediateFlag {
		t.Error("SpliceImmediateFlag = false, want true")
	}
	if si.BreakDuration == nil {
		t.Fatal("BreakDuration is nil")
	}
	if !si.BreakDuration.AutoReturn {
		t.Error("BreakDuration.AutoReturn = false, want true")
	}
}

func TestDecodeSpliceInsertIn(t *testing.T) {
	t.Parallel()
	sis := decodeGolden(t, "SpliceInsertIn")

	si, ok := sis.SpliceCommand.(*SpliceInsert)
	if !ok {
		t.Fatalf("SpliceCommand = %T, want *SpliceInsert", sis.SpliceCommand)
	}
	if si.OutOfNetworkIndicator {
		t.Error("OutOfNetworkIndicator = true, want false")
	}
	if si.BreakDuration != nil {
		t.Errorf("BreakDuration = %+v, want nil", si.BreakDuration)
	}
}

func TestDecodeSegmentationDuration(t *testing.T) {
	t.Parallel()
	sis := decodeGolden(t, "DistributorAdStart")
	sd := sis.SpliceDescriptors[0].(*SegmentationDescriptor)
	if sd.SegmentationDuration == nil {
		t.Fatal("SegmentationDuration is nil")
	}
	if *sd.SegmentationDuration != 30*90000 {
		t.Errorf("SegmentationDuration = %d, want %d", *sd.SegmentationDuration, 30*90000)
	}
	if sd.SegmentsExpected != 3 {
		t.Errorf("SegmentsExpected = %d, want 3", sd.SegmentsExpected)
	}
}

func TestDecodeCorruptedCRC(t *testing.T) {
	t.Parallel()
	data, _ := hex.DecodeString(goldenVectors["ProviderAdStart"])
	data[10] ^= 0xFF
	_, err := DecodeBytes(data)
	if err == nil {
		t.Error("expected CRC error on corrupted data")
	}
}

func TestDecodeUnknownCommandType(t *testing.T) {
	t.Parallel()
	// 14-byte fixed header (table_id through splice_command_type) with
	// splice_command_length=0 and an unknown command type 0xFF, followed
	// by a 2-byte empty descriptor loop and a trailing CRC.
	body := []byte{
		0xFC,                   // table_id
		0x00, 0x00,             // flags(0)+sap(0)+section_length(0, unused outside the legacy branch)
		0x00,                   // protocol_version
		0x00, 0x00, 0x00, 0x00, 0x00, // encrypted(0)+algorithm(0)+pts_adjustment(0)
		0x00,                   // cw_index
		0xFF, 0xF0, 0x00, 0xFF, // tier=0xFFF, splice_command_length=0, command_type=0xFF
		0x00, 0x00,             // descriptor_loop_length = 0
	}
	crc := crc32MPEG2(body)
	full := append(append([]byte{}, body...),
		byte(crc>>24), byte(crc>>16), byte(crc>>8), byte(crc))

	sis, err := DecodeBytes(full)
	if err != nil {
		t.Fatalf("DecodeBytes failed on unknown command: %v", err)
	}
	if _, ok := sis.SpliceCommand.(*SpliceNull); !ok {
		t.Errorf("SpliceCommand = %T, want *SpliceNull fallback", sis.SpliceCommand)
	}
}

func TestSegmentationDescriptorName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		typeID uint32
		want   string
	}{
		{SegmentationTypeProviderAdStart, "Provider Advertisement Start"},
		{SegmentationTypeDistributorAdEnd, "Distributor Advertisement End"},
		{SegmentationTypeBreakStart, "Break Start"},
		{SegmentationTypeProgramStart, "Program Start"},
		{SegmentationTypeNetworkStart, "Network Start"},
		{SegmentationTypeChapterStart, "Chapter Start"},
		{SegmentationTypeUnscheduledEventStart, "Unscheduled Event Start"},
		{SegmentationTypeProviderPOStart, "Provider Placement Opportunity Start"},
		{SegmentationTypeContentIdentification, "Content Identification"},
		{0xFE, "Unknown"},
	}
	for _, tc := range tests {
		sd := &SegmentationDescriptor{SegmentationTypeID: tc.typeID}
		if got := sd.Name(); got != tc.want {
			t.Errorf("Name() for 0x%02X = %q, want %q", tc.typeID, got, tc.want)
		}
	}
}

func TestDecodeSpliceNull(t *testing.T) {
	t.Parallel()
	// Same layout as the unknown-command-type case above, but with
	// command_type=0x00 (splice_null) instead of an unrecognized value.
	body := []byte{
		0xFC,
		0x00, 0x00,
		0x00,
		0x00, 0x00, 0x00, 0x00, 0x00,
		0x00,
		0xFF, 0xF0, 0x00, 0x00,
		0x00, 0x00,
	}
	crc := crc32MPEG2(body)
	full := append(append([]byte{}, body...),
		byte(crc>>24), byte(crc>>16), byte(crc>>8), byte(crc))

	sis, err := DecodeBytes(full)
	if err != nil {
		t.Fatalf("DecodeBytes failed: %v", err)
	}
	if _, ok := sis.SpliceCommand.(*SpliceNull); !ok {
		t.Errorf("SpliceCommand = %T, want *SpliceNull", sis.SpliceCommand)
	}
}
