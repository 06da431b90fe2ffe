package ot

import (
	"fmt"
	"time"
)

// HeadMagicNumber is the magic number of table 'head'.
const HeadMagicNumber uint32 = 0x5F0F3CF5

const headTableSize = 54

// HeadTable gives global information about the font.
// See https://docs.microsoft.com/en-us/typography/opentype/spec/head
type HeadTable struct {
	tableBase
	Version            float64
	FontRevision       float64
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16 // values 16 … 16384 are valid
	Created            time.Time
	Modified           time.Time
	XMin, YMin         int16
	XMax, YMax         int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16 // 0 for short offsets, 1 for long
	GlyphDataFormat    int16
}

func newHeadTable(tag Tag, b binarySegm, offset, size uint32) *HeadTable {
	t := &HeadTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

// ReadHead decodes a 'head' table at the cursor's position. A magic number
// other than 0x5F0F3CF5 lets ReadHead fail with ErrMalformedHeader.
func ReadHead(c *Cursor) (*HeadTable, error) {
	t := &HeadTable{}
	t.self = t
	if err := t.read(c); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *HeadTable) read(c *Cursor) (err error) {
	if c.Remaining() < headTableSize {
		return errRange("head table too small: %d bytes (need %d)", c.Remaining(), headTableSize)
	}
	// sizes have been checked, errors cannot occur below
	t.Version, _ = c.ReadFixed()
	t.FontRevision, _ = c.ReadFixed()
	t.CheckSumAdjustment, _ = c.ReadU32()
	t.MagicNumber, _ = c.ReadU32()
	if t.MagicNumber != HeadMagicNumber {
		return fmt.Errorf("head table: %w: magic number %#x", ErrMalformedHeader, t.MagicNumber)
	}
	t.Flags, _ = c.ReadU16()
	t.UnitsPerEm, _ = c.ReadU16()
	t.Created, _ = c.ReadLongDateTime()
	t.Modified, _ = c.ReadLongDateTime()
	t.XMin, _ = c.ReadFWord()
	t.YMin, _ = c.ReadFWord()
	t.XMax, _ = c.ReadFWord()
	t.YMax, _ = c.ReadFWord()
	t.MacStyle, _ = c.ReadU16()
	t.LowestRecPPEM, _ = c.ReadU16()
	t.FontDirectionHint, _ = c.ReadI16()
	t.IndexToLocFormat, _ = c.ReadI16()
	t.GlyphDataFormat, _ = c.ReadI16()
	return nil
}

func parseHead(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	t := newHeadTable(tag, b, offset, size)
	if err := t.read(NewCursor(b)); err != nil {
		ec.addError(tag, "Header", err, SeverityCritical, offset)
		return nil, err
	}
	if t.UnitsPerEm < 16 || t.UnitsPerEm > 16384 {
		ec.addWarning(tag, fmt.Sprintf("unitsPerEm %d outside of [16…16384]", t.UnitsPerEm), offset)
	}
	return t, nil
}
