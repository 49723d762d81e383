package permutation

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func isBijection(t *testing.T, tbl *Table) {
	t.Helper()
	var seen [Size]int
	for _, v := range tbl.Values() {
		seen[v]++
	}
	for v, n := range seen {
		if n != 1 {
			t.Fatalf("value %d appears %d times", v, n)
		}
	}
}

func TestNewIsBijection(t *testing.T) {
	for _, seed := range []uint64{0, 1, 42, 0x5EED, 1 << 63, ^uint64(0)} {
		isBijection(t, New(seed))
	}
}

func TestNewDeterministic(t *testing.T) {
	a := New(0x5EED)
	b := New(0x5EED)
	if !a.Equal(b) {
		t.Fatal("same seed produced different tables")
	}
	if a.Equal(New(0x5EEE)) {
		t.Error("adjacent seeds produced identical tables")
	}
}

func TestNewGolden(t *testing.T) {
	want := []uint8{66, 111, 65, 12, 85, 103, 20, 59, 92, 240, 130, 60, 98, 74, 40, 192}
	got := New(0x5EED).Values()
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("New(0x5EED)[%d] = %d, want %d", i, got[i], w)
		}
	}

	zero := New(0).Values()
	if zero[0] != 192 || zero[1] != 18 || zero[2] != 230 {
		t.Errorf("New(0) prefix = %v, want [192 18 230 ...]", zero[:3])
	}
}

func TestReference(t *testing.T) {
	ref := Reference()
	isBijection(t, ref)
	if ref.At(0) != 151 || ref.At(255) != 180 {
		t.Errorf("reference endpoints = %d, %d, want 151, 180", ref.At(0), ref.At(255))
	}
	if !ref.Equal(Reference()) {
		t.Error("Reference not stable")
	}
}

func TestHash(t *testing.T) {
	ref := Reference()
	seeded := New(0x5EED)

	tests := []struct {
		name   string
		table  *Table
		coords []int32
		want   uint8
	}{
		{"origin", ref, []int32{0, 0}, 17},
		{"x axis", ref, []int32{1, 0}, 119},
		{"y axis", ref, []int32{0, 1}, 58},
		{"negative", ref, []int32{-1, -1}, 231},
		{"single", ref, []int32{5}, 15},
		{"three", ref, []int32{1, 2, 3}, 42},
		{"wraps 256", ref, []int32{256, 512}, 17},
		{"wraps -256", ref, []int32{-256, 0}, 17},
		{"seeded origin", seeded, []int32{0, 0}, 237},
		{"seeded x", seeded, []int32{1, 0}, 81},
		{"seeded y", seeded, []int32{0, 1}, 175},
		{"seeded mixed", seeded, []int32{-3, 7}, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.Hash(tt.coords...); got != tt.want {
				t.Errorf("Hash(%v) = %d, want %d", tt.coords, got, tt.want)
			}
		})
	}
}

func TestHashOrderSensitive(t *testing.T) {
	ref := Reference()
	pairs := [][2]int32{{1, 0}, {2, 3}, {5, 9}}
	for _, p := range pairs {
		if ref.Hash(p[0], p[1]) == ref.Hash(p[1], p[0]) {
			t.Errorf("Hash(%d,%d) == Hash(%d,%d)", p[0], p[1], p[1], p[0])
		}
	}
}

func TestHash2MatchesHash(t *testing.T) {
	tbl := New(9)
	for x := int32(-300); x < 300; x += 7 {
		for y := int32(-300); y < 300; y += 11 {
			if a, b := tbl.Hash(x, y), tbl.Hash2(x, y); a != b {
				t.Fatalf("Hash(%d,%d)=%d Hash2=%d", x, y, a, b)
			}
		}
	}
}

func TestHashEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on empty coordinates")
		}
	}()
	Reference().Hash()
}

func TestHashConcurrent(t *testing.T) {
	tbl := New(3)
	want := tbl.Hash(10, 20)

	var wg sync.WaitGroup
	errs := make(chan uint8, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if got := tbl.Hash(10, 20); got != want {
					errs <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent Hash = %d, want %d", got, want)
	}
}

func TestFromValues(t *testing.T) {
	ref := Reference().Values()
	tbl, err := FromValues(ref[:])
	if err != nil {
		t.Fatalf("FromValues(reference): %v", err)
	}
	if !tbl.Equal(Reference()) {
		t.Error("loaded table differs from reference")
	}

	if _, err := FromValues(ref[:10]); !errors.Is(err, ErrSize) {
		t.Errorf("short input: err = %v, want ErrSize", err)
	}

	dup := ref
	dup[1] = dup[0]
	if _, err := FromValues(dup[:]); !errors.Is(err, ErrNotPermutation) {
		t.Errorf("duplicate input: err = %v, want ErrNotPermutation", err)
	}
}

func TestString(t *testing.T) {
	s := Reference().String()
	if !strings.HasPrefix(s, "Table {\n\t151| 160| 137|") {
		t.Errorf("unexpected prefix: %q", s[:30])
	}
	if got := strings.Count(s, "\n"); got != 17 {
		t.Errorf("expected 17 newlines, got %d", got)
	}
}

func BenchmarkNew(b *testing.B) {
	for n := 0; n < b.N; n++ {
		_ = New(uint64(n))
	}
}

func BenchmarkHash2(b *testing.B) {
	tbl := New(1)
	var sink uint8
	for n := 0; n < b.N; n++ {
		sink ^= tbl.Hash2(int32(n), int32(n>>8))
	}
	_ = sink
}
