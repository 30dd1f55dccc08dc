// Package persist implements the Load/Save engine: the public contract a
// caller uses to store one fixed-layout record T on a media.Media with
// wear levelling and torn-write recovery, per spec.md §4.4-§4.7.
//
// Grounded method-for-method on original_source/struct.h's Struct<T>/Db
// classes.
package persist

import (
	"fmt"
	"log"

	"github.com/ssargent/pstruct/pkg/frame"
	"github.com/ssargent/pstruct/pkg/media"
	"github.com/ssargent/pstruct/pkg/ring"
)

// Struct is the generic Load/Save engine for a fixed-layout record T.
// Exactly one Struct instance should exist per record type per media
// region (spec.md §5); it performs no internal synchronization.
type Struct[T any] struct {
	m    media.Media
	ring ring.Ring

	pages      uint32 // total pages reserved across every slot
	wearLevels uint32
	frameWords uint32
	frameBytes uint32
	pageSize   uint32

	loaded   bool
	location media.Addr
	counter  uint32

	// scratch is the engine's single in-memory frame buffer, used for
	// both reads and writes, per spec.md §3's lifecycle section.
	scratch []uint32

	// Debug, when true, logs Read/Write failures encountered while
	// walking the ring during Load or Save. Off by default. Ports
	// original_source/struct.h's _MSC_VER-gated std::cout trace, which
	// is itself scoped to debug/simulation builds only.
	Debug bool
}

func buildStruct[T any](m media.Media, start media.Addr, wearLevels uint32) (*Struct[T], error) {
	if wearLevels == 0 {
		return nil, fmt.Errorf("pstruct: wearLevels must be at least 1")
	}

	frameWords, err := frame.FrameWords[T]()
	if err != nil {
		return nil, err
	}
	frameBytes := frameWords * 4
	pageSize := m.PageSize()
	if pageSize == 0 || pageSize%4 != 0 {
		return nil, fmt.Errorf("pstruct: media page size must be a positive multiple of 4, got %d", pageSize)
	}

	pagesPerSlot := frameBytes / pageSize
	if frameBytes%pageSize != 0 {
		pagesPerSlot++
	}
	slotWords := pagesPerSlot * (pageSize / 4)

	s := &Struct[T]{
		m:          m,
		ring:       ring.New(start, slotWords, wearLevels),
		pages:      pagesPerSlot * wearLevels,
		wearLevels: wearLevels,
		frameWords: frameWords,
		frameBytes: frameBytes,
		pageSize:   pageSize,
		scratch:    make([]uint32, frameWords),
	}
	s.clearScratch()
	return s, nil
}

// New constructs an engine with an explicit wear-level count; the region
// extends for wearLevels * pagesPerSlot pages from start. start is a
// media word address, in the same units as media.Media's Start()/End().
func New[T any](m media.Media, start media.Addr, wearLevels uint32) (*Struct[T], error) {
	return buildStruct[T](m, start, wearLevels)
}

// NewRange constructs an engine whose wear-level count is derived from a
// byte range [startByte, endByte), floored to whole slots, per spec.md
// §4.3's range constructor. startByte and endByte are raw byte offsets
// (not media.Addr word cursors) — this mirrors the original constructor,
// which differences two byte addresses directly before dividing by the
// (byte-denominated) page size.
func NewRange[T any](m media.Media, startByte uint32, endByte uint32) (*Struct[T], error) {
	if endByte <= startByte {
		return nil, fmt.Errorf("pstruct: range end must be greater than start")
	}
	if startByte%4 != 0 {
		return nil, fmt.Errorf("pstruct: range start must be word-aligned, got byte offset %d", startByte)
	}

	frameBytes, err := frame.FrameBytes[T]()
	if err != nil {
		return nil, err
	}
	pageSize := m.PageSize()
	if pageSize == 0 {
		return nil, fmt.Errorf("pstruct: media page size must be positive")
	}
	pagesPerSlot := frameBytes / pageSize
	if frameBytes%pageSize != 0 {
		pagesPerSlot++
	}

	totalPages := (endByte - startByte) / pageSize
	totalPages -= totalPages % pagesPerSlot
	wearLevels := totalPages / pagesPerSlot
	if wearLevels == 0 {
		return nil, fmt.Errorf("pstruct: range [%d,%d) at page size %d is too small to hold even one slot", startByte, endByte, pageSize)
	}

	return buildStruct[T](m, media.Addr(startByte/4), wearLevels)
}

// RequiredBytes computes the raw media bytes needed to reserve wearLevels
// copies of T's frame at the given page size. Port of the original's
// PERSISTSTRUCT_SIZE macro; use it to size a region before calling New.
func RequiredBytes[T any](pageSize uint32, wearLevels uint32) (uint32, error) {
	return frame.RequiredBytes[T](pageSize, wearLevels)
}

func (s *Struct[T]) clearScratch() {
	for i := 0; i < frame.HeaderWords; i++ {
		s.scratch[i] = 0
	}
	_ = frame.ClearPayload[T](s.scratch[frame.HeaderWords:])
}

// willFit is the WillFit check of spec.md invariant 1: sizeof(frame) ≤
// total reserved capacity. Load and Save both return false immediately
// if it doesn't hold, without touching media.
func (s *Struct[T]) willFit() bool {
	return s.frameBytes <= s.pages*s.pageSize
}

// readHeader reads just the 12-byte header at l into s.scratch's header
// words and reports whether bytes == frameBytes (spec.md §4.4 step 3).
// It does not check the CRC.
func (s *Struct[T]) readHeader(l media.Addr) bool {
	buf := make([]uint32, frame.HeaderWords)
	if !s.m.Read(l, buf, frame.HeaderWords) {
		return false
	}
	h := frame.DecodeHeader(buf)
	if h.Bytes != s.frameBytes {
		return false
	}
	copy(s.scratch[:frame.HeaderWords], buf)
	return true
}

// readFullFrame reads the whole frame at l into s.scratch and validates
// bytes == frameBytes && CRC(payload) == header.crc (spec.md §4.4 step 4,
// invariants 2-3).
func (s *Struct[T]) readFullFrame(l media.Addr) bool {
	if !s.m.Read(l, s.scratch, s.frameWords) {
		return false
	}
	h := frame.DecodeHeader(s.scratch[:frame.HeaderWords])
	if h.Bytes != s.frameBytes {
		return false
	}
	payloadWords := s.frameWords - frame.HeaderWords
	crc := s.m.CRC(s.scratch[frame.HeaderWords:], payloadWords)
	return crc == h.CRC
}

// findNewestHeaderCandidate runs spec.md §4.4 step 3: scan slot headers
// in ring order, tracking the slot with the largest counter among those
// structurally valid (bytes == frameBytes), breaking as soon as a header
// is read successfully whose counter does not exceed the running best.
// It returns the address where the scan stopped: the slot after the
// newest candidate, or a later one when the slots after it fail the
// header check. The backward walk in step 4 begins there with Prev.
func (s *Struct[T]) findNewestHeaderCandidate() (media.Addr, bool) {
	l := s.ring.Start
	found := false
	var best uint32

	for i := uint32(0); i < s.ring.Slots; i++ {
		if s.readHeader(l) {
			h := frame.DecodeHeader(s.scratch[:frame.HeaderWords])
			if !found || h.Counter > best {
				best = h.Counter
				found = true
				l = s.ring.Next(l)
				continue
			}
			break
		}
		l = s.ring.Next(l)
	}

	if !found {
		return 0, false
	}
	return l, true
}

// Load loads the newest valid record. If the engine already holds a
// loaded record, it first tries a fast re-read of the current location;
// on failure it falls back to a cold load (newest-header scan followed
// by a backward CRC-validate walk), per spec.md §4.4.
func (s *Struct[T]) Load() (T, bool) {
	var zero T

	if !s.willFit() {
		return zero, false
	}

	if s.loaded {
		if s.readFullFrame(s.location) {
			payload, err := frame.DecodePayload[T](s.scratch[frame.HeaderWords:])
			if err == nil {
				h := frame.DecodeHeader(s.scratch[:frame.HeaderWords])
				s.counter = h.Counter
				return payload, true
			}
		}
		if s.Debug {
			log.Printf("pstruct: reload of current location %d failed, falling back to cold load", s.location)
		}
		s.loaded = false
	}

	candidate, found := s.findNewestHeaderCandidate()
	if !found {
		return zero, false
	}

	l := candidate
	for i := uint32(0); i < s.ring.Slots; i++ {
		l = s.ring.Prev(l)
		if s.readFullFrame(l) {
			payload, err := frame.DecodePayload[T](s.scratch[frame.HeaderWords:])
			if err == nil {
				h := frame.DecodeHeader(s.scratch[:frame.HeaderWords])
				s.loaded = true
				s.location = l
				s.counter = h.Counter
				return payload, true
			}
		}
		if s.Debug {
			log.Printf("pstruct: backward validate failed at slot addr %d", l)
		}
	}

	return zero, false
}

// Save stamps payload into the scratch frame and programs it to the next
// slot in the ring, retrying forward on failure, per spec.md §4.5. force
// is only consulted when the engine is not currently loaded: it selects
// slot 0 / counter 0 for an initial write to virgin media.
func (s *Struct[T]) Save(payload T, force bool) bool {
	if !s.willFit() {
		return false
	}

	var target media.Addr
	var counter uint32
	switch {
	case s.loaded:
		target = s.ring.Next(s.location)
		counter = s.counter + 1
	case force:
		target = s.ring.Start
		counter = 0
	default:
		return false
	}

	if err := frame.EncodePayload(payload, s.scratch[frame.HeaderWords:]); err != nil {
		return false
	}
	payloadWords := s.frameWords - frame.HeaderWords
	crc := s.m.CRC(s.scratch[frame.HeaderWords:], payloadWords)
	hw := frame.EncodeHeader(frame.Header{CRC: crc, Counter: counter, Bytes: s.frameBytes})
	copy(s.scratch[:frame.HeaderWords], hw[:])

	// Retry budget: wearLevels attempts, minus one if currently loaded,
	// to preserve the loaded slot as a last resort. Always try at least
	// once (the original's do-while loop always executes its body once,
	// regardless of budget) so a single-slot ring (wearLevels == 1) can
	// still overwrite its one slot in place.
	attempts := s.ring.Slots
	if s.loaded && attempts > 1 {
		attempts--
	}

	l := target
	for i := uint32(0); i < attempts; i++ {
		if s.m.Program(l, s.scratch, s.frameWords, s.pageSize, true) {
			s.loaded = true
			s.location = l
			s.counter = counter
			return true
		}
		if s.Debug {
			log.Printf("pstruct: program failed at slot addr %d", l)
		}
		l = s.ring.Next(l)
	}
	return false
}

// Unload clears the scratch frame and marks the engine not-loaded. No I/O.
func (s *Struct[T]) Unload() {
	s.clearScratch()
	s.loaded = false
	s.location = 0
	s.counter = 0
}

// IsLoaded reports whether the engine currently holds a loaded record.
func (s *Struct[T]) IsLoaded() bool { return s.loaded }

// Location returns the slot address of the currently loaded (or last
// written) record.
func (s *Struct[T]) Location() media.Addr { return s.location }

// Counter returns the generation counter of the currently loaded record.
func (s *Struct[T]) Counter() uint32 { return s.counter }

// Pages returns the total media pages reserved across every slot.
func (s *Struct[T]) Pages() uint32 { return s.pages }

// WearLevels returns N, the number of slots writes rotate across.
func (s *Struct[T]) WearLevels() uint32 { return s.wearLevels }

// StorageUnitSize returns FRAME_BYTES: the size in bytes of one stored
// frame (header + payload + padding).
func (s *Struct[T]) StorageUnitSize() uint32 { return s.frameBytes }

// StorageUnitPages returns the page-rounded byte footprint of one frame
// at the given page size. This mirrors the original's
// GetStorageUnitPages, which — despite its name — returns a byte count
// (page_size * page_count), not a page count; see SPEC_FULL.md Expansion
// C.2 for why this repo preserves that behavior rather than "fixing" it.
func (s *Struct[T]) StorageUnitPages(pageSize uint32) uint32 {
	pageCount := s.frameBytes / pageSize
	if s.frameBytes%pageSize != 0 {
		pageCount++
	}
	return pageSize * pageCount
}
