package bitfield

import (
	"math/rand"
	"testing"
)

func TestSmallBasics(t *testing.T) {
	var s Small
	if !s.Empty() {
		t.Fatal("new Small not empty")
	}
	if _, ok := s.LowestSet(); ok {
		t.Fatal("LowestSet on empty field")
	}
	s.Set(0)
	s.Set(17)
	s.Set(63)
	if s.Empty() {
		t.Fatal("Empty after Set")
	}
	for _, i := range []uint32{0, 17, 63} {
		if !s.Test(i) {
			t.Fatalf("bit %d not set", i)
		}
	}
	if s.Test(1) || s.Test(64) {
		t.Fatal("unexpected set bit")
	}
	if lo, _ := s.LowestSet(); lo != 0 {
		t.Fatalf("LowestSet = %d, want 0", lo)
	}
	if hi, _ := s.HighestSet(); hi != 63 {
		t.Fatalf("HighestSet = %d, want 63", hi)
	}
	s.Clear(0)
	if lo, _ := s.LowestSet(); lo != 17 {
		t.Fatalf("LowestSet after Clear = %d, want 17", lo)
	}
}

func TestSmallLowestSetFrom(t *testing.T) {
	var s Small
	s.Set(5)
	s.Set(40)
	cases := []struct {
		from uint32
		want uint32
		ok   bool
	}{
		{0, 5, true},
		{5, 5, true},
		{6, 40, true},
		{40, 40, true},
		{41, 0, false},
		{64, 0, false},
	}
	for _, c := range cases {
		got, ok := s.LowestSetFrom(c.from)
		if ok != c.ok || got != c.want {
			t.Errorf("LowestSetFrom(%d) = (%d, %v), want (%d, %v)",
				c.from, got, ok, c.want, c.ok)
		}
	}
}

func TestLargeBasics(t *testing.T) {
	var l Large
	if !l.Empty() {
		t.Fatal("new Large not empty")
	}
	// One bit in each of three different groups.
	for _, i := range []uint32{3, 64, 4095} {
		l.Set(i)
		if !l.Test(i) {
			t.Fatalf("bit %d not set", i)
		}
	}
	if lo, _ := l.LowestSet(); lo != 3 {
		t.Fatalf("LowestSet = %d, want 3", lo)
	}
	if hi, _ := l.HighestSet(); hi != 4095 {
		t.Fatalf("HighestSet = %d, want 4095", hi)
	}
	l.Clear(3)
	l.Clear(64)
	l.Clear(4095)
	if !l.Empty() {
		t.Fatal("not empty after clearing all bits")
	}
	// Out-of-range ops are no-ops.
	l.Set(LargeBits)
	if !l.Empty() {
		t.Fatal("out-of-range Set changed the field")
	}
}

func TestLargeLowestSetFrom(t *testing.T) {
	var l Large
	l.Set(10)
	l.Set(100)
	l.Set(4000)

	cases := []struct {
		from uint32
		want uint32
		ok   bool
	}{
		{0, 10, true},
		{10, 10, true},
		{11, 100, true},   // crosses into the next group
		{101, 4000, true}, // layer cache hop over empty groups
		{4001, 0, false},
		{4096, 0, false},
	}
	for _, c := range cases {
		got, ok := l.LowestSetFrom(c.from)
		if ok != c.ok || got != c.want {
			t.Errorf("LowestSetFrom(%d) = (%d, %v), want (%d, %v)",
				c.from, got, ok, c.want, c.ok)
		}
	}

	// Searching past the last group must not wrap.
	var last Large
	last.Set(4090)
	if _, ok := last.LowestSetFrom(4091); ok {
		t.Fatal("LowestSetFrom found a bit past the last set bit")
	}
}

func TestLargeRuns(t *testing.T) {
	var l Large
	// Run spanning three words: [60, 140).
	l.SetRun(60, 80)
	if !l.AllSet(60, 80) {
		t.Fatal("AllSet false over a freshly set run")
	}
	if l.AllSet(59, 81) || l.AllSet(60, 81) {
		t.Fatal("AllSet true past the run edges")
	}
	if !l.NoneSet(0, 60) || !l.NoneSet(140, 100) {
		t.Fatal("NoneSet false outside the run")
	}
	if l.NoneSet(50, 20) {
		t.Fatal("NoneSet true over a partially set range")
	}
	if got := l.SetRunLen(60, 200); got != 80 {
		t.Fatalf("SetRunLen = %d, want 80", got)
	}
	if got := l.SetRunLen(60, 10); got != 10 {
		t.Fatalf("SetRunLen capped = %d, want 10", got)
	}
	if got := l.Count(); got != 80 {
		t.Fatalf("Count = %d, want 80", got)
	}
	l.ClearRun(100, 10)
	if l.AllSet(60, 80) {
		t.Fatal("AllSet true after ClearRun punched a hole")
	}
	if got := l.Count(); got != 70 {
		t.Fatalf("Count after ClearRun = %d, want 70", got)
	}
}

func TestLargeLongestSetRun(t *testing.T) {
	var l Large
	l.SetRun(0, 3)
	l.SetRun(10, 7)
	l.SetRun(100, 5)
	if got := l.LongestSetRun(200); got != 7 {
		t.Fatalf("LongestSetRun = %d, want 7", got)
	}
	if got := l.LongestSetRun(12); got != 3 {
		t.Fatalf("LongestSetRun limited = %d, want 3", got)
	}
}

// Cross-check against a naive model under a randomized workload.
func TestLargeRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var l Large
	model := make([]bool, LargeBits)

	for op := 0; op < 20000; op++ {
		i := uint32(rng.Intn(LargeBits))
		if rng.Intn(2) == 0 {
			l.Set(i)
			model[i] = true
		} else {
			l.Clear(i)
			model[i] = false
		}
		probe := uint32(rng.Intn(LargeBits))
		want, wantOK := uint32(0), false
		for j := probe; j < LargeBits; j++ {
			if model[j] {
				want, wantOK = j, true
				break
			}
		}
		got, ok := l.LowestSetFrom(probe)
		if ok != wantOK || (ok && got != want) {
			t.Fatalf("op %d: LowestSetFrom(%d) = (%d, %v), want (%d, %v)",
				op, probe, got, ok, want, wantOK)
		}
	}
}
