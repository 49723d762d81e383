// Package permutation provides the shuffled byte table used as the hash
// substrate for lattice noise.
package permutation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pthm-cable/cellnoise/rng"
)

// Size is the number of entries in a table. 256 keeps construction cheap
// and lets every index be a single byte, as in Perlin's original.
const Size = 256

var (
	// ErrSize is returned when loading a table of the wrong length.
	ErrSize = errors.New("permutation: table must have 256 entries")
	// ErrNotPermutation is returned when a loaded table repeats a value.
	ErrNotPermutation = errors.New("permutation: values are not a permutation of [0,256)")
)

// Table is an immutable pseudo-random permutation of [0,256).
// Build one per seed and share it; all methods are read-only and safe
// for concurrent use.
type Table struct {
	values [Size]uint8
}

// New builds a table by Fisher-Yates shuffling the identity permutation
// with a PCG32 generator seeded from seed. Equal seeds give equal tables.
func New(seed uint64) *Table {
	t := &Table{}
	for i := range t.values {
		t.values[i] = uint8(i)
	}

	p := rng.NewPCG32(seed)
	p.Shuffle(Size, func(i, j int) {
		t.values[i], t.values[j] = t.values[j], t.values[i]
	})

	return t
}

// Reference returns Ken Perlin's permutation from the reference
// implementation of improved noise.
func Reference() *Table {
	t := &Table{values: kenPerlin}
	return t
}

// FromValues loads a fixed table, checking that it is a bijection.
func FromValues(values []uint8) (*Table, error) {
	if len(values) != Size {
		return nil, fmt.Errorf("%w: got %d", ErrSize, len(values))
	}
	t := &Table{}
	copy(t.values[:], values)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Hash folds an integer coordinate vector into one byte, Pearson style.
// Each component contributes its low 8 bits, so negative coordinates wrap
// into range. The fold is order sensitive: Hash(1, 0) and Hash(0, 1) are
// generally different.
//
// Panics if coords is empty.
func (t *Table) Hash(coords ...int32) uint8 {
	if len(coords) == 0 {
		panic("permutation: Hash called with no coordinates")
	}
	acc := uint8(coords[0])
	for _, c := range coords[1:] {
		acc = t.values[acc] ^ uint8(c)
	}
	return t.values[acc]
}

// Hash2 is Hash for the common two component case without the variadic
// slice.
func (t *Table) Hash2(x, y int32) uint8 {
	return t.values[t.values[uint8(x)]^uint8(y)]
}

// At returns the entry at index i.
func (t *Table) At(i uint8) uint8 {
	return t.values[i]
}

// Values returns a copy of the table.
func (t *Table) Values() [Size]uint8 {
	return t.values
}

// Validate reports ErrNotPermutation if any value is repeated.
func (t *Table) Validate() error {
	var seen [Size]bool
	for i, v := range t.values {
		if seen[v] {
			return fmt.Errorf("%w: value %d repeated at index %d", ErrNotPermutation, v, i)
		}
		seen[v] = true
	}
	return nil
}

// Equal reports whether two tables hold the same permutation.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.values == o.values
}

// String renders the table as a 16x16 grid.
func (t *Table) String() string {
	var b strings.Builder
	b.WriteString("Table {\n")
	for row := 0; row < Size/16; row++ {
		b.WriteByte('\t')
		for col := 0; col < 16; col++ {
			fmt.Fprintf(&b, "%3d| ", t.values[row*16+col])
		}
		b.WriteByte('\n')
	}
	b.WriteString("}")
	return b.String()
}
