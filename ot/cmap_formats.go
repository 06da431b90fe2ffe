package ot

import "fmt"

// --- Format 0 --------------------------------------------------------------

// CMapFormat0 is a cmap subtable of format 0, the byte encoding table.
// It maps each of the 256 single-byte character codes directly to a glyph.
type CMapFormat0 struct {
	subtableHeader
	GlyphIDs [256]uint8
}

func readCMapFormat0(c *Cursor) (*CMapFormat0, error) {
	f0 := &CMapFormat0{}
	var err error
	if f0.subtableHeader, err = readShortHeader(c); err != nil {
		return nil, fmt.Errorf("cmap format 0 header: %w", err)
	}
	b, err := c.ReadBytes(256)
	if err != nil {
		return nil, fmt.Errorf("cmap format 0 glyph ids: %w", err)
	}
	copy(f0.GlyphIDs[:], b)
	return f0, nil
}

// Lookup returns the glyph for a code-point, or 0 if the code-point is not mapped.
func (f0 *CMapFormat0) Lookup(r rune) GlyphIndex {
	if r < 0 || r > 0xff {
		return 0
	}
	return GlyphIndex(f0.GlyphIDs[r])
}

// --- Format 2 --------------------------------------------------------------

// CMapFormat2 is a cmap subtable of format 2, high-byte mapping through table.
// It serves mixed 8/16-bit encodings, as used for Japanese, Chinese and Korean.
// The high byte of a character code selects a sub-header; a sub-header key of
// 0 marks a single-byte code, which is looked up in sub-header 0.
type CMapFormat2 struct {
	subtableHeader
	SubHeaderKeys [256]uint16 // sub-header index × 8
	SubHeaders    []CMapSubHeader
	GlyphIDs      []GlyphIndex
}

// CMapSubHeader is a sub-header of a format 2 cmap subtable.
type CMapSubHeader struct {
	FirstCode     uint16
	EntryCount    uint16
	IDDelta       int16
	IDRangeOffset uint16
}

const (
	format2KeysOffset       = 6
	format2SubHeadersOffset = format2KeysOffset + 256*2
	subHeaderSize           = 8
)

func readCMapFormat2(c *Cursor) (*CMapFormat2, error) {
	start := c.Pos()
	f2 := &CMapFormat2{}
	var err error
	if f2.subtableHeader, err = readShortHeader(c); err != nil {
		return nil, fmt.Errorf("cmap format 2 header: %w", err)
	}
	maxKey := uint16(0)
	for i := range f2.SubHeaderKeys {
		if f2.SubHeaderKeys[i], err = c.ReadU16(); err != nil {
			return nil, fmt.Errorf("cmap format 2 sub-header keys: %w", err)
		}
		if f2.SubHeaderKeys[i] > maxKey {
			maxKey = f2.SubHeaderKeys[i]
		}
	}
	count := int(maxKey)/subHeaderSize + 1
	if err := c.fits(count, subHeaderSize); err != nil {
		return nil, fmt.Errorf("cmap format 2: %d sub-headers: %w", count, err)
	}
	f2.SubHeaders = make([]CMapSubHeader, count)
	for i := range f2.SubHeaders {
		sh := &f2.SubHeaders[i]
		if sh.FirstCode, err = c.ReadU16(); err != nil {
			return nil, err
		}
		if sh.EntryCount, err = c.ReadU16(); err != nil {
			return nil, err
		}
		if sh.IDDelta, err = c.ReadI16(); err != nil {
			return nil, err
		}
		if sh.IDRangeOffset, err = c.ReadU16(); err != nil {
			return nil, err
		}
	}
	glyphCount := 0
	if rest := int(f2.Length) - (c.Pos() - start); rest > 0 {
		glyphCount = rest / 2
	}
	if f2.GlyphIDs, err = readGlyphIDs(c, glyphCount); err != nil {
		return nil, fmt.Errorf("cmap format 2 glyph ids: %w", err)
	}
	return f2, nil
}

// Lookup returns the glyph for a code-point, or 0 if the code-point is not mapped.
func (f2 *CMapFormat2) Lookup(r rune) GlyphIndex {
	if r < 0 || r > 0xffff {
		return 0
	}
	var k int
	var lo uint16
	if r < 0x100 {
		if f2.SubHeaderKeys[r] != 0 { // lead byte of a two-byte code
			return 0
		}
		k, lo = 0, uint16(r)
	} else {
		hi := r >> 8
		if f2.SubHeaderKeys[hi] == 0 { // not a lead byte
			return 0
		}
		k, lo = int(f2.SubHeaderKeys[hi]/subHeaderSize), uint16(r&0xff)
	}
	if k >= len(f2.SubHeaders) {
		return 0
	}
	sh := f2.SubHeaders[k]
	if lo < sh.FirstCode || int(lo) >= int(sh.FirstCode)+int(sh.EntryCount) {
		return 0
	}
	// idRangeOffset counts bytes from the position of the idRangeOffset field
	// to the first glyph id of the sub-header's range.
	rangeOffsetPos := format2SubHeadersOffset + k*subHeaderSize + 6
	glyphArrayPos := format2SubHeadersOffset + len(f2.SubHeaders)*subHeaderSize
	pos := rangeOffsetPos + int(sh.IDRangeOffset) + int(lo-sh.FirstCode)*2
	index := (pos - glyphArrayPos) / 2
	if index < 0 || index >= len(f2.GlyphIDs) {
		return 0
	}
	g := f2.GlyphIDs[index]
	if g == 0 {
		return 0
	}
	return GlyphIndex(uint16(g) + uint16(sh.IDDelta))
}

// --- Format 6 --------------------------------------------------------------

// CMapFormat6 is a cmap subtable of format 6, trimmed table mapping.
// It maps a single contiguous range of character codes, starting at FirstCode.
type CMapFormat6 struct {
	subtableHeader
	FirstCode uint16
	GlyphIDs  []GlyphIndex
}

func readCMapFormat6(c *Cursor) (*CMapFormat6, error) {
	f6 := &CMapFormat6{}
	var err error
	if f6.subtableHeader, err = readShortHeader(c); err != nil {
		return nil, fmt.Errorf("cmap format 6 header: %w", err)
	}
	if f6.FirstCode, err = c.ReadU16(); err != nil {
		return nil, fmt.Errorf("cmap format 6 header: %w", err)
	}
	entryCount, err := c.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("cmap format 6 header: %w", err)
	}
	if f6.GlyphIDs, err = readGlyphIDs(c, int(entryCount)); err != nil {
		return nil, fmt.Errorf("cmap format 6 glyph ids: %w", err)
	}
	return f6, nil
}

// Lookup returns the glyph for a code-point, or 0 if the code-point is not mapped.
func (f6 *CMapFormat6) Lookup(r rune) GlyphIndex {
	i := int(r) - int(f6.FirstCode)
	if r < 0 || i < 0 || i >= len(f6.GlyphIDs) {
		return 0
	}
	return f6.GlyphIDs[i]
}

// ReverseLookup retrieves a code-point for a given glyph.
func (f6 *CMapFormat6) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	for i, g := range f6.GlyphIDs {
		if g == gid {
			return rune(int(f6.FirstCode) + i)
		}
	}
	return 0
}
