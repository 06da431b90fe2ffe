package ot

import (
	"fmt"

	"golang.org/x/image/font/sfnt"
)

// OS2Table holds the OS/2 and Windows specific metrics. The set of fields
// present depends on the table version; fields of later versions are zero
// for earlier ones.
//
// See https://docs.microsoft.com/en-us/typography/opentype/spec/os2
type OS2Table struct {
	tableBase
	Version             uint16
	XAvgCharWidth       sfnt.Units
	WeightClass         uint16
	WidthClass          uint16
	FsType              uint16
	SubscriptXSize      int16
	SubscriptYSize      int16
	SubscriptXOffset    int16
	SubscriptYOffset    int16
	SuperscriptXSize    int16
	SuperscriptYSize    int16
	SuperscriptXOffset  int16
	SuperscriptYOffset  int16
	StrikeoutSize       int16
	StrikeoutPosition   int16
	FamilyClass         int16
	Panose              [10]byte
	UnicodeRange        [4]uint32
	VendorID            Tag
	FsSelection         uint16
	FirstCharIndex      uint16
	LastCharIndex       uint16
	TypoAscender        sfnt.Units
	TypoDescender       sfnt.Units
	TypoLineGap         sfnt.Units
	WinAscent           sfnt.Units
	WinDescent          sfnt.Units
	CodePageRange       [2]uint32  // version ≥ 1
	XHeight             sfnt.Units // version ≥ 2
	CapHeight           sfnt.Units // version ≥ 2
	DefaultChar         uint16     // version ≥ 2
	BreakChar           uint16     // version ≥ 2
	MaxContext          uint16     // version ≥ 2
	LowerOpticalPointSz uint16     // version 5
	UpperOpticalPointSz uint16     // version 5
}

// Minimum sizes of the OS/2 table per version.
var os2Sizes = [...]int{78, 86, 96, 96, 96, 100}

func newOS2Table(tag Tag, b binarySegm, offset, size uint32) *OS2Table {
	t := &OS2Table{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

func parseOS2(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	c := NewCursor(b)
	t := newOS2Table(tag, b, offset, size)
	var err error
	if t.Version, err = c.ReadU16(); err != nil {
		ec.addError(tag, "Header", err, SeverityMajor, offset)
		return newTable(tag, b, offset, size), nil
	}
	if int(t.Version) >= len(os2Sizes) {
		ec.addWarning(tag, fmt.Sprintf("unknown table version %d", t.Version), offset)
	} else if len(b) < os2Sizes[t.Version] {
		err = errRange("OS/2 version %d needs %d bytes, have %d", t.Version, os2Sizes[t.Version], len(b))
		ec.addError(tag, "Size", err, SeverityMajor, offset)
		return newTable(tag, b, offset, size), nil
	}
	readU16 := func() uint16 { n, _ := c.ReadU16(); return n }
	readI16 := func() int16 { n, _ := c.ReadI16(); return n }
	units := func() sfnt.Units { return sfnt.Units(readI16()) }
	t.XAvgCharWidth = units()
	t.WeightClass = readU16()
	t.WidthClass = readU16()
	t.FsType = readU16()
	for _, f := range []*int16{
		&t.SubscriptXSize, &t.SubscriptYSize, &t.SubscriptXOffset, &t.SubscriptYOffset,
		&t.SuperscriptXSize, &t.SuperscriptYSize, &t.SuperscriptXOffset, &t.SuperscriptYOffset,
		&t.StrikeoutSize, &t.StrikeoutPosition, &t.FamilyClass,
	} {
		*f = readI16()
	}
	panose, _ := c.ReadBytes(10)
	copy(t.Panose[:], panose)
	for i := range t.UnicodeRange {
		t.UnicodeRange[i], _ = c.ReadU32()
	}
	t.VendorID, _ = c.ReadTag()
	t.FsSelection = readU16()
	t.FirstCharIndex = readU16()
	t.LastCharIndex = readU16()
	t.TypoAscender = units()
	t.TypoDescender = units()
	t.TypoLineGap = units()
	wa, _ := c.ReadUFWord()
	wd, _ := c.ReadUFWord()
	t.WinAscent, t.WinDescent = sfnt.Units(wa), sfnt.Units(wd)
	if t.Version < 1 {
		return t, nil
	}
	t.CodePageRange[0], _ = c.ReadU32()
	t.CodePageRange[1], _ = c.ReadU32()
	if t.Version < 2 {
		return t, nil
	}
	t.XHeight = units()
	t.CapHeight = units()
	t.DefaultChar = readU16()
	t.BreakChar = readU16()
	t.MaxContext = readU16()
	if t.Version < 5 {
		return t, nil
	}
	t.LowerOpticalPointSz = readU16()
	t.UpperOpticalPointSz = readU16()
	return t, nil
}
