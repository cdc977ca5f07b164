package game

import (
	"bytes"
	"slices"

	"github.com/cespare/xxhash"
)

// Rotate returns the position turned 90 degrees clockwise n times. Ply is
// preserved; caches are rebuilt for the new orientation.
func (p *Position) Rotate(n int) *Position {
	n = ((n % 4) + 4) % 4
	cells := slices.Clone(p.cells)
	for ; n > 0; n-- {
		cells = rotateCells(cells, p.size)
	}
	return newPosition(p.size, cells, p.ply)
}

func rotateCells(cells []Owner, size int) []Owner {
	out := make([]Owner, len(cells))
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			out[r*size+c] = cells[(size-1-c)*size+r]
		}
	}
	return out
}

// SameBoard compares cells only (not ply)
func (p *Position) SameBoard(other *Position) bool {
	return p.size == other.size && slices.Equal(p.cells, other.cells)
}

// IsRotationOf reports whether other turned 0-3 quarter turns matches p
func (p *Position) IsRotationOf(other *Position) bool {
	if p.size != other.size {
		return false
	}
	cells := other.cells
	for i := 0; i < 4; i++ {
		if slices.Equal(p.cells, cells) {
			return true
		}
		cells = rotateCells(cells, p.size)
	}
	return false
}

// CanonicalKey hashes the lexicographically smallest of the four rotations,
// so every rotation of a board shares one key.
func (p *Position) CanonicalKey() uint64 {
	best := encode(p.cells)
	cells := p.cells
	for i := 1; i < 4; i++ {
		cells = rotateCells(cells, p.size)
		if enc := encode(cells); bytes.Compare(enc, best) < 0 {
			best = enc
		}
	}
	return xxhash.Sum64(best)
}

func encode(cells []Owner) []byte {
	b := make([]byte, len(cells))
	for i, o := range cells {
		b[i] = byte(o)
	}
	return b
}
