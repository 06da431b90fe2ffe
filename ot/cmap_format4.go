package ot

import (
	"fmt"
	"sort"
)

// CMapFormat4 is a cmap subtable of format 4, segment mapping to delta values.
// This is the standard character-to-glyph-index mapping subtable for fonts that support
// only Unicode Basic Multilingual Plane characters (U+0000 to U+FFFF).
//
// This format is used when the character codes for the characters represented by a font
// fall into several contiguous ranges, possibly with holes in some or all of the ranges
// (that is, some of the codes in a range may not have a representation in the font).
// The segments are described by four parallel arrays, sorted by end code. The last
// segment ends at 0xFFFF.
type CMapFormat4 struct {
	subtableHeader
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
	EndCodes      []uint16
	StartCodes    []uint16
	IDDeltas      []int16
	IDRangeOffset []uint16
	GlyphIDs      []GlyphIndex // trailing glyph id array
}

// segCount returns the number of segments.
func (f4 *CMapFormat4) segCount() int {
	return len(f4.EndCodes)
}

// Format 4 data is divided into three parts, which must occur in the following order:
//
// - A four-word header gives parameters for an optimized search of the segment list;
// - Four parallel arrays describe the segments (one segment for each contiguous range of codes);
// - A variable-length array of glyph IDs (unsigned words).
//
// The glyph id array has no count field; it extends to the end of the
// subtable as given by its length.
func readCMapFormat4(c *Cursor) (*CMapFormat4, error) {
	start := c.Pos()
	f4 := &CMapFormat4{}
	var err error
	if f4.subtableHeader, err = readShortHeader(c); err != nil {
		return nil, fmt.Errorf("cmap format 4 header: %w", err)
	}
	segCountX2, err := c.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("cmap format 4 header: %w", err)
	}
	if f4.SearchRange, err = c.ReadU16(); err != nil {
		return nil, fmt.Errorf("cmap format 4 header: %w", err)
	}
	if f4.EntrySelector, err = c.ReadU16(); err != nil {
		return nil, fmt.Errorf("cmap format 4 header: %w", err)
	}
	if f4.RangeShift, err = c.ReadU16(); err != nil {
		return nil, fmt.Errorf("cmap format 4 header: %w", err)
	}
	if segCountX2&1 != 0 {
		tracer().Debugf("cmap format 4 segCountX2 is odd: %d", segCountX2)
	}
	segCount := int(segCountX2 / 2)
	// four parallel arrays and the pad
	if err := c.fits(4*segCount+1, 2); err != nil {
		return nil, fmt.Errorf("cmap format 4: %d segments: %w", segCount, err)
	}
	f4.EndCodes = make([]uint16, segCount)
	for i := range f4.EndCodes {
		if f4.EndCodes[i], err = c.ReadU16(); err != nil {
			return nil, err
		}
	}
	if _, err = c.ReadU16(); err != nil { // reservedPad
		return nil, err
	}
	f4.StartCodes = make([]uint16, segCount)
	for i := range f4.StartCodes {
		if f4.StartCodes[i], err = c.ReadU16(); err != nil {
			return nil, err
		}
	}
	f4.IDDeltas = make([]int16, segCount)
	for i := range f4.IDDeltas {
		if f4.IDDeltas[i], err = c.ReadI16(); err != nil {
			return nil, err
		}
	}
	f4.IDRangeOffset = make([]uint16, segCount)
	for i := range f4.IDRangeOffset {
		if f4.IDRangeOffset[i], err = c.ReadU16(); err != nil {
			return nil, err
		}
	}
	consumed := c.Pos() - start
	glyphCount := 0
	if rest := int(f4.Length) - consumed; rest > 0 {
		glyphCount = (rest + 1) / 2
	}
	if f4.GlyphIDs, err = readGlyphIDs(c, glyphCount); err != nil {
		return nil, fmt.Errorf("cmap format 4 glyph ids: %w", err)
	}
	tracer().Debugf("cmap format 4 with %d segments and %d glyph ids", segCount, glyphCount)
	return f4, nil
}

// Lookup returns the glyph for a code-point, or 0 if the code-point is not mapped.
func (f4 *CMapFormat4) Lookup(r rune) GlyphIndex {
	if r < 0 || r > 0xffff { // format 4 is for BMP code-points only
		return 0 // return index for 'missing character'
	}
	c := uint16(r)
	n := f4.segCount()
	i := sort.Search(n, func(i int) bool { return f4.EndCodes[i] >= c })
	if i == n || c < f4.StartCodes[i] {
		return 0
	}
	delta := uint16(f4.IDDeltas[i])
	if f4.IDRangeOffset[i] == 0 {
		return GlyphIndex(c + delta) // modulo 65536
	}
	// The idRangeOffset is a byte distance from the position of idRangeOffset[i]
	// itself. Subtracting the remaining entries of the idRangeOffset array yields
	// an index into the glyph id array.
	index := int(f4.IDRangeOffset[i])/2 + int(c-f4.StartCodes[i]) - (n - i)
	if index < 0 || index >= len(f4.GlyphIDs) {
		return 0
	}
	g := f4.GlyphIDs[index]
	if g == 0 {
		return 0
	}
	return GlyphIndex(uint16(g) + delta)
}

// CoveredCharacters returns all character codes spanned by the segments, in
// segment order. Characters inside a segment may still map to glyph 0.
func (f4 *CMapFormat4) CoveredCharacters() []rune {
	var chars []rune
	for i := range f4.EndCodes {
		for c := int(f4.StartCodes[i]); c <= int(f4.EndCodes[i]); c++ {
			chars = append(chars, rune(c))
		}
	}
	return chars
}

// ReverseLookup retrieves a code-point for a given glyph. The Cmap tables do not
// support this operation, thus this operation is inefficient.
// However, for testing and debugging purposes it is often useful.
func (f4 *CMapFormat4) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	for i := range f4.EndCodes {
		start, end := f4.StartCodes[i], f4.EndCodes[i]
		if end < start || start == 0xffff {
			break
		}
		for c := int(start); c <= int(end); c++ {
			if f4.Lookup(rune(c)) == gid {
				return rune(c)
			}
		}
	}
	return 0
}

// isSorted reports whether segments are ascending by end code, do not overlap
// and are terminated by the 0xFFFF sentinel.
func (f4 *CMapFormat4) isSorted() bool {
	n := f4.segCount()
	if n == 0 || f4.EndCodes[n-1] != 0xffff {
		return false
	}
	for i := 1; i < n; i++ {
		if f4.EndCodes[i-1] >= f4.StartCodes[i] || f4.EndCodes[i-1] >= f4.EndCodes[i] {
			return false
		}
	}
	return true
}
