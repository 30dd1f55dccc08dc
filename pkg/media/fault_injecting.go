package media

import "math/rand"

// FaultInjectingMedia wraps a Media and, gated by injection rates, either
// corrupts a word after a Program call or fails the call outright as if
// its erase had been torn. This is a test-only seam:
// grounded on original_source/stm32/f103/wrap.h's InjectWriteError /
// InjectEraseError, which the original scopes to _MSC_VER (simulation
// builds only). No pack repo carries a chaos/fault-injection library, and
// math/rand needs no third-party replacement for a seeded, deterministic
// test seam, so this is a justified stdlib-only component.
//
// Production code never constructs this type; only the bench harness
// (cmd/pstructctl bench) does.
type FaultInjectingMedia struct {
	Media

	// WriteFaultRate is the probability (0..1) that a given Program call
	// corrupts one word of the data actually written.
	WriteFaultRate float64

	// EraseFaultRate is the probability (0..1) that a given Program
	// call fails as if its implicit erase had been torn: the call
	// returns false without erasing or writing anything on the wrapped
	// media.
	EraseFaultRate float64

	rng *rand.Rand
}

// NewFaultInjectingMedia wraps base with a seeded fault injector. Using a
// fixed seed keeps bench runs reproducible; pass a seed derived from
// time.Now().UnixNano() at the call site for varied runs.
func NewFaultInjectingMedia(base Media, seed int64) *FaultInjectingMedia {
	return &FaultInjectingMedia{
		Media: base,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Program delegates to the wrapped media, then — with probability
// WriteFaultRate — flips a bit in one randomly chosen already-written
// word and writes that word back through the wrapped media's Program,
// simulating a torn write. On FileMedia that write-back erases the
// word's whole page first, so the other words on that page read back
// erased as well. The call still reports the first Program's result.
func (f *FaultInjectingMedia) Program(dst Addr, src []uint32, sizeU32 uint32, pageSizeU32 uint32, useLock bool) bool {
	if f.EraseFaultRate > 0 && f.rng.Float64() < f.EraseFaultRate {
		// Torn erase: report failure without touching the wrapped
		// media, as a program over a half-erased page fails its verify.
		return false
	}

	ok := f.Media.Program(dst, src, sizeU32, pageSizeU32, useLock)
	if !ok || sizeU32 == 0 {
		return ok
	}

	if f.WriteFaultRate > 0 && f.rng.Float64() < f.WriteFaultRate {
		corruptWord := dst + Addr(f.rng.Intn(int(sizeU32)))
		var buf [1]uint32
		if !f.Media.Read(corruptWord, buf[:], 1) {
			return ok
		}
		buf[0] ^= 1 << uint(f.rng.Intn(32))
		f.Media.Program(corruptWord, buf[:], 1, pageSizeU32, useLock)
	}

	return ok
}
