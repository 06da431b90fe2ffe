package fonttest

// Subtable is a cmap subtable together with its encoding record. If
// BadOffset is set, the encoding record points there and Data is ignored.
type Subtable struct {
	PlatformID uint16
	EncodingID uint16
	Data       []byte
	BadOffset  uint32
}

// CMap returns a 'cmap' table with one encoding record per subtable, in the
// order given.
func CMap(subtables ...Subtable) []byte {
	header := 4 + 8*len(subtables)
	var b, data []byte
	b = be.AppendUint16(b, 0)
	b = be.AppendUint16(b, uint16(len(subtables)))
	for _, st := range subtables {
		b = be.AppendUint16(b, st.PlatformID)
		b = be.AppendUint16(b, st.EncodingID)
		if st.BadOffset != 0 {
			b = be.AppendUint32(b, st.BadOffset)
			continue
		}
		b = be.AppendUint32(b, uint32(header+len(data)))
		data = append(data, st.Data...)
	}
	return append(b, data...)
}

// Format0 returns a byte encoding subtable.
func Format0(glyphs [256]uint8) []byte {
	b := shortHeader(0, 6+256, 0)
	return append(b, glyphs[:]...)
}

// Segment is a segment of a format 4 subtable. If Glyphs is nil, glyphs are
// computed with Delta only; otherwise Glyphs lists one glyph per code of the
// segment and idRangeOffset points to them.
type Segment struct {
	Start, End uint16
	Delta      int16
	Glyphs     []uint16
}

// Format4 returns a segment mapping subtable. The terminating 0xFFFF
// segment is appended if missing.
func Format4(segments ...Segment) []byte {
	if n := len(segments); n == 0 || segments[n-1].End != 0xFFFF {
		segments = append(segments, Segment{Start: 0xFFFF, End: 0xFFFF, Delta: 1})
	}
	segCount := uint16(len(segments))
	var ends, starts, deltas, ranges, glyphs []byte
	glyphCount := 0
	for i, s := range segments {
		ends = be.AppendUint16(ends, s.End)
		starts = be.AppendUint16(starts, s.Start)
		deltas = be.AppendUint16(deltas, uint16(s.Delta))
		if s.Glyphs == nil {
			ranges = be.AppendUint16(ranges, 0)
			continue
		}
		ranges = be.AppendUint16(ranges, uint16(2*(len(segments)-i)+2*glyphCount))
		for _, g := range s.Glyphs {
			glyphs = be.AppendUint16(glyphs, g)
		}
		glyphCount += len(s.Glyphs)
	}
	length := 16 + 8*len(segments) + len(glyphs)
	searchRange, entrySelector, rangeShift := searchParams(segCount, 2)
	b := shortHeader(4, uint16(length), 0)
	b = be.AppendUint16(b, 2*segCount)
	b = be.AppendUint16(b, searchRange)
	b = be.AppendUint16(b, entrySelector)
	b = be.AppendUint16(b, rangeShift)
	b = append(b, ends...)
	b = be.AppendUint16(b, 0) // reservedPad
	b = append(b, starts...)
	b = append(b, deltas...)
	b = append(b, ranges...)
	return append(b, glyphs...)
}

// Format2 returns a high-byte mapping subtable. Single-byte codes 0…len(single)-1
// map to the glyphs in single. Two-byte codes with high byte lead and low
// bytes first… map to the glyphs in double.
func Format2(single []uint16, lead uint8, first uint8, double []uint16) []byte {
	const subHeaders = 2
	glyphArrayPos := 6 + 512 + subHeaders*8
	length := glyphArrayPos + 2*(len(single)+len(double))
	b := shortHeader(2, uint16(length), 0)
	for i := 0; i < 256; i++ {
		key := uint16(0)
		if i == int(lead) {
			key = 8
		}
		b = be.AppendUint16(b, key)
	}
	// sub-header 0: single bytes
	b = be.AppendUint16(b, 0)
	b = be.AppendUint16(b, uint16(len(single)))
	b = be.AppendUint16(b, 0)
	b = be.AppendUint16(b, uint16(glyphArrayPos-(6+512+6)))
	// sub-header 1: lead byte
	b = be.AppendUint16(b, uint16(first))
	b = be.AppendUint16(b, uint16(len(double)))
	b = be.AppendUint16(b, 0)
	b = be.AppendUint16(b, uint16(glyphArrayPos+2*len(single)-(6+512+8+6)))
	for _, g := range single {
		b = be.AppendUint16(b, g)
	}
	for _, g := range double {
		b = be.AppendUint16(b, g)
	}
	return b
}

// Format6 returns a trimmed table mapping subtable.
func Format6(firstCode uint16, glyphs ...uint16) []byte {
	b := shortHeader(6, uint16(10+2*len(glyphs)), 0)
	b = be.AppendUint16(b, firstCode)
	b = be.AppendUint16(b, uint16(len(glyphs)))
	for _, g := range glyphs {
		b = be.AppendUint16(b, g)
	}
	return b
}

// Format10 returns a trimmed array subtable.
func Format10(startChar uint32, glyphs ...uint16) []byte {
	var b []byte
	b = be.AppendUint16(b, 10)
	b = be.AppendUint16(b, 0)
	b = be.AppendUint32(b, uint32(20+2*len(glyphs)))
	b = be.AppendUint32(b, 0)
	b = be.AppendUint32(b, startChar)
	b = be.AppendUint32(b, uint32(len(glyphs)))
	for _, g := range glyphs {
		b = be.AppendUint16(b, g)
	}
	return b
}

// Group is a sequential map group of a format 12 subtable.
type Group struct {
	Start, End, StartGlyph uint32
}

// Format12 returns a segmented coverage subtable.
func Format12(groups ...Group) []byte {
	var b []byte
	b = be.AppendUint16(b, 12)
	b = be.AppendUint16(b, 0)
	b = be.AppendUint32(b, uint32(16+12*len(groups)))
	b = be.AppendUint32(b, 0)
	b = be.AppendUint32(b, uint32(len(groups)))
	for _, g := range groups {
		b = be.AppendUint32(b, g.Start)
		b = be.AppendUint32(b, g.End)
		b = be.AppendUint32(b, g.StartGlyph)
	}
	return b
}

// Selector is a variation selector record of a format 14 subtable.
type Selector struct {
	VarSelector               uint32
	DefaultUVS, NonDefaultUVS uint32
}

// Format14 returns a Unicode variation sequences subtable with selector
// records only.
func Format14(selectors ...Selector) []byte {
	var b []byte
	b = be.AppendUint16(b, 14)
	b = be.AppendUint32(b, uint32(10+11*len(selectors)))
	b = be.AppendUint32(b, uint32(len(selectors)))
	for _, s := range selectors {
		b = append(b, byte(s.VarSelector>>16), byte(s.VarSelector>>8), byte(s.VarSelector))
		b = be.AppendUint32(b, s.DefaultUVS)
		b = be.AppendUint32(b, s.NonDefaultUVS)
	}
	return b
}

func shortHeader(format, length, language uint16) []byte {
	var b []byte
	b = be.AppendUint16(b, format)
	b = be.AppendUint16(b, length)
	return be.AppendUint16(b, language)
}
