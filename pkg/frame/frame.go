// Package frame lays out the header + payload + padding that the persist
// engine writes as one atomic unit per slot, per spec.md §3:
//
//	offset 0  : crc       (u32)   CRC of payload bytes only (excludes header)
//	offset 4  : counter   (u32)   monotonically increasing generation
//	offset 8  : bytes     (u32)   total frame size in bytes, incl. header
//	offset 12 : payload   (T)     raw user bytes
//	offset 12+sizeof(T) : padding up to next u32 word
//
// Grounded on original_source/struct.h's tDbHead/tDb union (header +
// payload packed into a whole number of uint32 words) and the teacher's
// pkg/codec/record.go header+payload binary layout, generalized from a
// variable-length KV record to a fixed-size generic payload.
package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// HeaderWords is the header size in 32-bit words: crc, counter, bytes.
const HeaderWords = 3

// HeaderBytes is the header size in bytes.
const HeaderBytes = HeaderWords * 4

// erasePadByte is the byte pattern used to pad the payload out to a whole
// word, matching the scratch-frame clear semantics of spec.md §3's
// lifecycle section (payload/padding cleared to 0xFF, the NOR erase
// state) so a freshly stamped frame's unused tail bits read the same as
// virgin media would.
const erasePadByte = 0xFF

// Header is the on-media frame header.
type Header struct {
	CRC     uint32
	Counter uint32
	Bytes   uint32
}

// EncodeHeader packs a Header into its three-word wire form.
func EncodeHeader(h Header) [HeaderWords]uint32 {
	return [HeaderWords]uint32{h.CRC, h.Counter, h.Bytes}
}

// DecodeHeader unpacks a three-word header from words[0:3].
func DecodeHeader(words []uint32) Header {
	return Header{CRC: words[0], Counter: words[1], Bytes: words[2]}
}

// payloadByteSize returns sizeof(T) as seen by encoding/binary, which
// requires T to be a fixed-size type: numeric types, fixed-size arrays,
// and structs built from them — no slices, strings, or maps. This is the
// Go analogue of the original's compile-time sizeof(T) constraint; here
// it is checked at run time, by every function in this package that
// sizes T, so an engine constructor reports it before any Load or Save.
func payloadByteSize[T any]() (uint32, error) {
	var zero T
	n := binary.Size(zero)
	if n < 0 {
		return 0, fmt.Errorf("pstruct: type %T is not a fixed-size record (encoding/binary cannot size it)", zero)
	}
	return uint32(n), nil
}

func ceilWords(bytesN uint32) uint32 {
	return (bytesN + 3) / 4
}

// PayloadWords returns the number of 32-bit words needed for T's payload
// plus padding, not including the header.
func PayloadWords[T any]() (uint32, error) {
	n, err := payloadByteSize[T]()
	if err != nil {
		return 0, err
	}
	return ceilWords(n), nil
}

// FrameWords returns the total frame size in words, including the header:
// ceil((HeaderBytes + sizeof(T)) / 4).
func FrameWords[T any]() (uint32, error) {
	n, err := payloadByteSize[T]()
	if err != nil {
		return 0, err
	}
	return ceilWords(HeaderBytes + n), nil
}

// FrameBytes returns FrameWords[T]()*4 — FRAME_BYTES from spec.md §4.2.
func FrameBytes[T any]() (uint32, error) {
	words, err := FrameWords[T]()
	if err != nil {
		return 0, err
	}
	return words * 4, nil
}

// RequiredBytes ports the original's PERSISTSTRUCT_SIZE macro: the raw
// media bytes needed to reserve wearLevels copies of T's frame, each
// rounded up to a whole number of pageSize-byte pages.
func RequiredBytes[T any](pageSize uint32, wearLevels uint32) (uint32, error) {
	frameBytes, err := FrameBytes[T]()
	if err != nil {
		return 0, err
	}
	pages := frameBytes / pageSize
	if frameBytes%pageSize != 0 {
		pages++
	}
	return pages * pageSize * wearLevels, nil
}

// EncodePayload marshals payload into out, which must be at least
// PayloadWords[T]() long. Bytes beyond sizeof(T) within the final word
// are padded with the erase pattern.
func EncodePayload[T any](payload T, out []uint32) error {
	words, err := PayloadWords[T]()
	if err != nil {
		return err
	}
	if uint32(len(out)) < words {
		return fmt.Errorf("pstruct: payload buffer too small: need %d words, got %d", words, len(out))
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, payload); err != nil {
		return fmt.Errorf("pstruct: encode payload: %w", err)
	}

	raw := buf.Bytes()
	padded := make([]byte, words*4)
	copy(padded, raw)
	for i := len(raw); i < len(padded); i++ {
		padded[i] = erasePadByte
	}

	for i := uint32(0); i < words; i++ {
		out[i] = binary.LittleEndian.Uint32(padded[i*4:])
	}
	return nil
}

// DecodePayload unmarshals a T value from words[0:PayloadWords[T]()].
func DecodePayload[T any](words []uint32) (T, error) {
	var zero T

	need, err := PayloadWords[T]()
	if err != nil {
		return zero, err
	}
	if uint32(len(words)) < need {
		return zero, fmt.Errorf("pstruct: payload words too short: need %d, got %d", need, len(words))
	}

	raw := make([]byte, need*4)
	for i := uint32(0); i < need; i++ {
		binary.LittleEndian.PutUint32(raw[i*4:], words[i])
	}

	var out T
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &out); err != nil {
		return zero, fmt.Errorf("pstruct: decode payload: %w", err)
	}
	return out, nil
}

// ClearPayload fills out (PayloadWords[T]() long) with the erase pattern,
// matching the scratch-frame Clear() semantics of spec.md §3.
func ClearPayload[T any](out []uint32) error {
	words, err := PayloadWords[T]()
	if err != nil {
		return err
	}
	if uint32(len(out)) < words {
		return fmt.Errorf("pstruct: payload buffer too small: need %d words, got %d", words, len(out))
	}
	for i := uint32(0); i < words; i++ {
		out[i] = 0xFFFFFFFF
	}
	return nil
}
