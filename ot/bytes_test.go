package ot

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/otdecode/internal/fonttest"
)

func TestCheckedArithmetic(t *testing.T) {
	if n, err := checkedMulInt(1000, 12); err != nil || n != 12000 {
		t.Errorf("expected 12000, got %d (%v)", n, err)
	}
	if _, err := checkedMulInt(math.MaxInt/2, 3); err == nil {
		t.Error("expected overflow error for multiplication")
	}
	if _, err := checkedMulInt(-1, 2); err == nil {
		t.Error("expected error for negative factor")
	}
	if n, err := checkedAddUint32(0xFFFFFFF0, 0x0F); err != nil || n != math.MaxUint32 {
		t.Errorf("expected MaxUint32, got %d (%v)", n, err)
	}
	if _, err := checkedAddUint32(0xFFFFFFF0, 0x20); err == nil {
		t.Error("expected overflow error for addition")
	}
}

func TestCursorFits(t *testing.T) {
	c := NewCursor(make([]byte, 24))
	c.Seek(4)
	if err := c.fits(5, 4); err != nil {
		t.Errorf("expected 5 records of 4 bytes to fit, got %v", err)
	}
	if err := c.fits(7, 3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for 21 bytes, got %v", err)
	}
	if err := c.fits(math.MaxInt/2, 12); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for overflowing count, got %v", err)
	}
	c.Seek(100)
	if err := c.fits(0, 12); err != nil {
		t.Errorf("expected empty array to fit anywhere, got %v", err)
	}
}

func TestTableRecordOffsetOverflow(t *testing.T) {
	font := fonttest.Font(fonttest.TrueType, fonttest.StandardTables(27, "Wrap", standardCMap())...)
	// first table record starts after the 12 byte sfnt header
	binary.BigEndian.PutUint32(font[12+8:], 0xFFFFFFF0)
	binary.BigEndian.PutUint32(font[12+12:], 0x20)
	if _, err := ReadTableDirectory(NewCursor(font)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for wrapping table bounds, got %v", err)
	}
}
