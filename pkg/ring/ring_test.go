package ring

import (
	"testing"

	"github.com/ssargent/pstruct/pkg/media"
)

func TestRing_AddrIsStartPlusStride(t *testing.T) {
	r := New(100, 10, 5)

	testCases := []struct {
		index int
		want  media.Addr
	}{
		{0, 100},
		{1, 110},
		{4, 140},
	}

	for _, tc := range testCases {
		got := r.Addr(uint32(tc.index))
		if got != tc.want {
			t.Fatalf("Addr(%d) = %d, want %d", tc.index, got, tc.want)
		}
	}
}

func TestRing_NextWrapsAtTop(t *testing.T) {
	r := New(100, 10, 5) // slots at 100,110,120,130,140

	testCases := []struct {
		from media.Addr
		want media.Addr
	}{
		{100, 110},
		{110, 120},
		{140, 100}, // wraps
	}

	for _, tc := range testCases {
		got := r.Next(tc.from)
		if got != tc.want {
			t.Fatalf("Next(%d) = %d, want %d", tc.from, got, tc.want)
		}
	}
}

func TestRing_PrevWrapsAtStart(t *testing.T) {
	r := New(100, 10, 5)

	testCases := []struct {
		from media.Addr
		want media.Addr
	}{
		{140, 130},
		{110, 100},
		{100, 140}, // wraps
	}

	for _, tc := range testCases {
		got := r.Prev(tc.from)
		if got != tc.want {
			t.Fatalf("Prev(%d) = %d, want %d", tc.from, got, tc.want)
		}
	}
}

func TestRing_NextPrevAreInverses(t *testing.T) {
	r := New(0, 16, 7)

	for i := uint32(0); i < r.Slots; i++ {
		addr := r.Addr(i)
		if r.Prev(r.Next(addr)) != addr {
			t.Fatalf("Prev(Next(%d)) != %d", addr, addr)
		}
		if r.Next(r.Prev(addr)) != addr {
			t.Fatalf("Next(Prev(%d)) != %d", addr, addr)
		}
	}
}

func TestRing_SingleSlotIsItsOwnNeighbor(t *testing.T) {
	r := New(0, 20, 1)

	if got := r.Next(0); got != 0 {
		t.Fatalf("Next with 1 slot = %d, want 0", got)
	}
	if got := r.Prev(0); got != 0 {
		t.Fatalf("Prev with 1 slot = %d, want 0", got)
	}
}

func TestRing_TotalWords(t *testing.T) {
	r := New(0, 16, 7)
	if got, want := r.TotalWords(), uint32(112); got != want {
		t.Fatalf("TotalWords = %d, want %d", got, want)
	}
}
