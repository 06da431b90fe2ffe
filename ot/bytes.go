package ot

import (
	"fmt"
	"math"
)

// Reading bytes from a font's binary representation

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u24(b []byte) uint32 {
	_ = b[2] // Bounds check hint to compiler
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// binarySegm is a segment of byte data, i.e. the byte range a font or a
// table is decoded from. It is never written to.
type binarySegm []byte

// ---------------------------------------------------------------------------

// Checked arithmetic operations to prevent integer overflow. Counts read from
// a font are multiplied by record sizes before anything is allocated.

// checkedMulInt checks for overflow in multiplication of two non-negative integers
func checkedMulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a < 0 || b < 0 || a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// fits checks that n records of size bytes each fit into the bytes remaining
// after the cursor's read position.
func (c *Cursor) fits(n, size int) error {
	total, err := checkedMulInt(n, size)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	if total > c.Remaining() {
		return errRange("%d records of %d bytes at offset %d exceed range of size %d", n, size, c.Pos(), c.Size())
	}
	return nil
}
