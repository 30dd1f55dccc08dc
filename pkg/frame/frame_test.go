package frame

import "testing"

type smallRecord struct {
	A uint32
	B uint16
}

type wordAlignedRecord struct {
	X uint32
	Y uint32
}

type oversizeRecord struct {
	Data [37]byte
}

func TestFrameWords_RoundsUpToWholeWords(t *testing.T) {
	testCases := []struct {
		name      string
		fn        func() (uint32, error)
		wantWords uint32
	}{
		{
			name:      "word-aligned payload",
			fn:        FrameWords[wordAlignedRecord],
			wantWords: HeaderWords + 2, // 12 + 8 bytes = 20 bytes = 5 words
		},
		{
			name:      "unaligned payload",
			fn:        FrameWords[smallRecord],
			wantWords: HeaderWords + 2, // 12 + 6 bytes = 18 bytes -> ceil to 20 bytes = 5 words
		},
		{
			name:      "odd-size payload",
			fn:        FrameWords[oversizeRecord],
			wantWords: HeaderWords + 10, // 12 + 37 = 49 bytes -> ceil to 52 bytes = 13 words
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.wantWords {
				t.Fatalf("FrameWords = %d, want %d", got, tc.wantWords)
			}
		})
	}
}

func TestFrameBytes_IsWordsTimesFour(t *testing.T) {
	words, err := FrameWords[smallRecord]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bytesN, err := FrameBytes[smallRecord]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytesN != words*4 {
		t.Fatalf("FrameBytes = %d, want %d", bytesN, words*4)
	}
}

func TestEncodeDecodePayload_RoundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		record smallRecord
	}{
		{name: "zero value", record: smallRecord{}},
		{name: "max values", record: smallRecord{A: 0xFFFFFFFF, B: 0xFFFF}},
		{name: "mixed", record: smallRecord{A: 12345, B: 678}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			words, err := PayloadWords[smallRecord]()
			if err != nil {
				t.Fatalf("PayloadWords: %v", err)
			}

			buf := make([]uint32, words)
			if err := EncodePayload(tc.record, buf); err != nil {
				t.Fatalf("EncodePayload: %v", err)
			}

			got, err := DecodePayload[smallRecord](buf)
			if err != nil {
				t.Fatalf("DecodePayload: %v", err)
			}
			if got != tc.record {
				t.Fatalf("round-trip mismatch: got %+v, want %+v", got, tc.record)
			}
		})
	}
}

func TestEncodePayload_PadsTailWithErasePattern(t *testing.T) {
	words, err := PayloadWords[smallRecord]()
	if err != nil {
		t.Fatalf("PayloadWords: %v", err)
	}
	buf := make([]uint32, words)
	if err := EncodePayload(smallRecord{A: 1, B: 2}, buf); err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}

	// smallRecord is 6 bytes (uint32 + uint16); the payload occupies 2
	// words (8 bytes), so the last 2 bytes of word 1 are padding.
	last := buf[words-1]
	padByte := byte(last >> 24)
	if padByte != erasePadByte {
		t.Fatalf("tail pad byte = %#02x, want %#02x", padByte, erasePadByte)
	}
}

func TestClearPayload_FillsErasePattern(t *testing.T) {
	words, err := PayloadWords[wordAlignedRecord]()
	if err != nil {
		t.Fatalf("PayloadWords: %v", err)
	}
	buf := make([]uint32, words)
	buf[0] = 0x12345678 // poison before clearing

	if err := ClearPayload[wordAlignedRecord](buf); err != nil {
		t.Fatalf("ClearPayload: %v", err)
	}
	for i, w := range buf {
		if w != 0xFFFFFFFF {
			t.Fatalf("word %d = %#08x, want erase pattern", i, w)
		}
	}
}

func TestEncodeDecodeHeader_RoundTrip(t *testing.T) {
	h := Header{CRC: 0xDEADBEEF, Counter: 42, Bytes: 128}
	words := EncodeHeader(h)
	got := DecodeHeader(words[:])
	if got != h {
		t.Fatalf("header round-trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestRequiredBytes_PortsOriginalMacro(t *testing.T) {
	// wordAlignedRecord frame is 5 words = 20 bytes; one 1024-byte page
	// per copy, 5 wear levels.
	got, err := RequiredBytes[wordAlignedRecord](1024, 5)
	if err != nil {
		t.Fatalf("RequiredBytes: %v", err)
	}
	want := uint32(1024 * 5)
	if got != want {
		t.Fatalf("RequiredBytes = %d, want %d", got, want)
	}
}

// notFixedSize cannot be encoded by encoding/binary (a slice field), and
// must surface as an error rather than panicking or silently miscounting
// — the Go analogue of the original's compile-time sizeof(T) failure.
type notFixedSize struct {
	Data []byte
}

func TestPayloadWords_RejectsNonFixedSizeType(t *testing.T) {
	if _, err := PayloadWords[notFixedSize](); err == nil {
		t.Fatal("expected an error for a non-fixed-size payload type")
	}
}
