package ot

import (
	"fmt"
)

// CMapTable represents an OpenType cmap table, i.e. the table to receive glyphs
// from code-points.
//
// See https://docs.microsoft.com/de-de/typography/opentype/spec/cmap
//
// A cmap table contains a list of encoding records, each pointing to a subtable
// in one of several formats. All subtables are decoded, in the order of the
// encoding records. A subtable which fails to decode does not invalidate the
// cmap table: its error is recorded in the result with the same index as its
// encoding record.
//
// Consulting the cmap table is a very frequent operation on fonts. The most
// appropriate subtable is therefore pre-selected as GlyphIndexMap.
type CMapTable struct {
	tableBase
	Version         uint16
	NumTables       uint16
	BaseOffset      int // position of the cmap table within the font
	EncodingRecords []EncodingRecord
	Subtables       []SubtableResult // index-aligned with EncodingRecords
	GlyphIndexMap   CMapSubtable     // preferred subtable, may be nil
	NumGlyphs       int              // from table maxp, 0 if unknown
}

// EncodingRecord links a platform/encoding pair to a cmap subtable.
type EncodingRecord struct {
	PlatformID uint16
	EncodingID uint16
	Offset     uint32 // from beginning of the cmap table
}

// SubtableResult is the outcome of decoding the subtable of one encoding record.
// Format holds the discriminator found at the subtable's start, if it could be read.
// Subtable may be non-nil even if Err is set (format 14).
type SubtableResult struct {
	Format   uint16
	Subtable CMapSubtable
	Err      error
}

// CMapSubtable is the character-to-glyph mapping of one cmap subtable. It is
// implemented by *CMapFormat0, *CMapFormat2, *CMapFormat4, *CMapFormat6,
// *CMapFormat12 and *CMapFormat14. Format 10 is recognized, but not decoded.
type CMapSubtable interface {
	Format() uint16
	Language() uint32
	Lookup(rune) GlyphIndex // 0 = missing glyph
	isCMapSubtable()
}

// ReverseLookuper is implemented by subtables which support retrieving a
// code-point for a glyph. This is non-standard, but helps with tests.
type ReverseLookuper interface {
	ReverseLookup(GlyphIndex) rune
}

func newCMapTable(tag Tag, b binarySegm, offset, size uint32) *CMapTable {
	t := &CMapTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

// ReadCMap decodes a cmap table starting at position base of the cursor's byte
// range. An error is returned only if the table header or the encoding records
// cannot be read; failures of individual subtables are recorded in Subtables.
func ReadCMap(c *Cursor, base int) (*CMapTable, error) {
	t := &CMapTable{BaseOffset: base}
	t.self = t
	if err := t.read(c); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *CMapTable) read(c *Cursor) error {
	var err error
	c.Seek(t.BaseOffset)
	if t.Version, err = c.ReadU16(); err != nil {
		return fmt.Errorf("cmap header: %w", err)
	}
	if t.NumTables, err = c.ReadU16(); err != nil {
		return fmt.Errorf("cmap header: %w", err)
	}
	t.EncodingRecords = make([]EncodingRecord, 0, t.NumTables)
	for i := 0; i < int(t.NumTables); i++ {
		rec := EncodingRecord{}
		if rec.PlatformID, err = c.ReadU16(); err != nil {
			return fmt.Errorf("cmap encoding record %d: %w", i, err)
		}
		if rec.EncodingID, err = c.ReadU16(); err != nil {
			return fmt.Errorf("cmap encoding record %d: %w", i, err)
		}
		if rec.Offset, err = c.ReadOffset32(); err != nil {
			return fmt.Errorf("cmap encoding record %d: %w", i, err)
		}
		t.EncodingRecords = append(t.EncodingRecords, rec)
	}
	t.Subtables = make([]SubtableResult, len(t.EncodingRecords))
	for i, rec := range t.EncodingRecords {
		t.Subtables[i] = readSubtable(c, t.BaseOffset+int(rec.Offset))
		if err := t.Subtables[i].Err; err != nil {
			tracer().Errorf("cmap subtable %d (%d|%d): %v", i, rec.PlatformID, rec.EncodingID, err)
		}
	}
	t.GlyphIndexMap = t.selectGlyphIndexMap()
	return nil
}

// readSubtable peeks at the format of the subtable starting at start and
// dispatches to the format's decoder, which will re-read the format field.
func readSubtable(c *Cursor, start int) SubtableResult {
	c.Seek(start)
	format, err := c.PeekU16()
	if err != nil {
		return SubtableResult{Err: fmt.Errorf("cmap subtable format: %w", err)}
	}
	tracer().Debugf("cmap subtable at %d has format %d", start, format)
	var sub CMapSubtable
	switch format {
	case 0:
		sub, err = readCMapFormat0(c)
	case 2:
		sub, err = readCMapFormat2(c)
	case 4:
		sub, err = readCMapFormat4(c)
	case 6:
		sub, err = readCMapFormat6(c)
	case 10:
		err = fmt.Errorf("cmap format 10: %w", ErrUnsupportedFormat)
	case 12:
		sub, err = readCMapFormat12(c)
	case 14:
		var f14 *CMapFormat14
		if f14, err = readCMapFormat14(c); f14 != nil {
			sub = f14
		}
	default:
		err = fmt.Errorf("cmap format %d: %w", format, ErrUnsupportedFormat)
	}
	return SubtableResult{Format: format, Subtable: sub, Err: err}
}

// platformEncodingWidth returns the number of bytes per character assumed by
// the given Platform ID and Platform Specific ID.
//
// Old fonts, from when Unicode meant the Basic Multilingual Plane (BMP),
// assume that 2 bytes per character is sufficient.
//
// Recent fonts naturally support the full range of Unicode code points, which
// can take up to 4 bytes per character. Such fonts might still choose one of
// the legacy encodings if e.g. their repertoire is limited to the BMP, for
// greater compatibility with older software, or because the resultant file
// size can be smaller.
func platformEncodingWidth(pid, psid uint16) int {
	switch pid {
	case 0: // Unicode platform
		switch psid {
		case 3: // Unicode BMB
			return 2
		case 4, 10: // Unicode full  (include 10 from FontForge bug)
			return 4
		}
	case 3: // Windows platform
		switch psid {
		case 1: // Unicode BMP
			return 2
		case 10: // Unicode full
			return 4
		}
	}
	return 0 // width 0 will never get selected
}

// Formats 4 or 12 are appropriate for most fonts, depending on the Unicode
// character repertoire supported. The preferred platform/encoding/format
// combinations are:
//
//	0 (Unicode)  3    4   Unicode BMB
//	0 (Unicode)  4    12  Unicode full  (10 from FontForge, error)
//	3 (Win)      1    4   Unicode BMP
//	3 (Win)      10   12  Unicode full
//
// Note that FontForge may generate a bogus Platform Specific ID (value 10)
// for the Unicode Platform ID (value 0). See
// https://github.com/fontforge/fontforge/issues/2728
func supportedCmapFormat(format, pid, psid uint16) bool {
	return (pid == 0 && psid == 3 && format == 4) ||
		(pid == 0 && (psid == 4 || psid == 10) && format == 12) ||
		(pid == 3 && psid == 1 && format == 4) ||
		(pid == 3 && psid == 10 && format == 12)
}

// selectGlyphIndexMap chooses the widest supported Unicode subtable. If there
// is none, the first successfully decoded subtable other than format 14 is used.
func (t *CMapTable) selectGlyphIndexMap() CMapSubtable {
	var best CMapSubtable
	width := 0
	for i, res := range t.Subtables {
		if res.Err != nil || res.Subtable == nil {
			continue
		}
		rec := t.EncodingRecords[i]
		if !supportedCmapFormat(res.Format, rec.PlatformID, rec.EncodingID) {
			continue
		}
		if w := platformEncodingWidth(rec.PlatformID, rec.EncodingID); w > width {
			best, width = res.Subtable, w
		}
	}
	if best != nil {
		return best
	}
	for _, res := range t.Subtables {
		if res.Err == nil && res.Subtable != nil && res.Format != 14 {
			return res.Subtable
		}
	}
	return nil
}

// Lookup returns the glyph for a code-point, using the preferred subtable.
// Glyphs beyond the number of glyphs in the font are reported as 0.
func (t *CMapTable) Lookup(r rune) GlyphIndex {
	if t == nil || t.GlyphIndexMap == nil {
		return 0
	}
	g := t.GlyphIndexMap.Lookup(r)
	if t.NumGlyphs > 0 && int(g) >= t.NumGlyphs {
		return 0
	}
	return g
}

// ReverseLookup returns a code-point mapping to a glyph in the preferred subtable,
// or 0 if none is found or the subtable does not support reverse lookup.
func (t *CMapTable) ReverseLookup(gid GlyphIndex) rune {
	if t == nil || t.GlyphIndexMap == nil {
		return 0
	}
	if rl, ok := t.GlyphIndexMap.(ReverseLookuper); ok {
		return rl.ReverseLookup(gid)
	}
	return 0
}

// subtableHeader holds the fields common to the simple subtable formats.
type subtableHeader struct {
	format   uint16
	Length   uint32
	language uint32
}

// Format returns the subtable's format number.
func (h subtableHeader) Format() uint16 {
	return h.format
}

// Language returns the subtable's language id. It is used for Macintosh
// platform subtables only and is 0 otherwise.
func (h subtableHeader) Language() uint32 {
	return h.language
}

func (subtableHeader) isCMapSubtable() {}

// readShortHeader reads format, length and language as 16-bit values.
func readShortHeader(c *Cursor) (h subtableHeader, err error) {
	if h.format, err = c.ReadU16(); err != nil {
		return
	}
	var n uint16
	if n, err = c.ReadU16(); err != nil {
		return
	}
	h.Length = uint32(n)
	if n, err = c.ReadU16(); err != nil {
		return
	}
	h.language = uint32(n)
	return
}

func readGlyphIDs(c *Cursor, n int) ([]GlyphIndex, error) {
	if err := c.fits(n, 2); err != nil {
		return nil, fmt.Errorf("glyph id array: %w", err)
	}
	glyphs := make([]GlyphIndex, n)
	for i := range glyphs {
		g, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		glyphs[i] = GlyphIndex(g)
	}
	return glyphs, nil
}
