package ot

import (
	"errors"
	"fmt"
)

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// Parse parses an OpenType font from a byte slice.
// An ot.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
//
// Parse fails if the table directory cannot be read or if table 'head' carries
// a bad magic number. All other problems are recorded and available through
// Font.Errors and Font.Warnings. A table too broken to be decoded is kept as a
// generic table, and its typed shortcut in Font stays nil.
func Parse(font []byte) (*Font, error) {
	return ParseAt(font, 0)
}

// ParseAt parses an OpenType font whose table directory starts at offset.
// This is used for fonts contained in a collection, where table offsets are
// relative to the start of the collection file.
func ParseAt(font []byte, offset int) (*Font, error) {
	c := NewCursor(font)
	c.Seek(offset)
	dir, err := ReadTableDirectory(c)
	if err != nil {
		return nil, fmt.Errorf("OpenType font: %w", err)
	}
	// Create error collector for accumulating errors during parsing
	ec := &errorCollector{}
	if !dir.IsKnownVersion() {
		ec.addWarning(T(""), fmt.Sprintf("unknown sfnt version %#08x", dir.SfntVersion), uint32(offset))
	}
	otf := &Font{Directory: dir, tables: make(map[Tag]Table, len(dir.Records))}
	src := binarySegm(font)
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	prevTag := Tag(0)
	for _, rec := range dir.Records {
		if rec.Tag < prevTag {
			ec.addWarning(rec.Tag, "table records not sorted by tag", rec.Offset)
		}
		prevTag = rec.Tag
		if rec.Offset&3 != 0 { // "all tables must begin on four byte boundries"
			ec.addWarning(rec.Tag, "table offset not 4-byte aligned", rec.Offset)
		}
		if !rec.VerifyChecksum(font) {
			ec.addWarning(rec.Tag, fmt.Sprintf("checksum mismatch (recorded %#08x)", rec.Checksum), rec.Offset)
		}
		if _, dup := otf.tables[rec.Tag]; dup {
			ec.addWarning(rec.Tag, "duplicate table record ignored", rec.Offset)
			continue
		}
		// bounds have been checked by ReadTableDirectory
		b := src[rec.Offset : rec.Offset+rec.Length]
		t, err := parseTable(src, rec.Tag, b, rec.Offset, rec.Length, ec)
		if err != nil {
			return nil, fmt.Errorf("OpenType table %s: %w", rec.Tag, err)
		}
		otf.tables[rec.Tag] = t
	}
	collectFontInfo(otf, ec)
	// Transfer accumulated errors and warnings to the Font
	otf.parseErrors = ec.errors
	otf.parseWarnings = ec.warnings
	tracer().Debugf("font parsed with %d tables, %d errors, %d warnings",
		len(otf.tables), len(ec.errors), len(ec.warnings))
	return otf, nil
}

// RequiredTables are the tables required for a font to function correctly,
// according to the OpenType specification.
var RequiredTables = []string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
}

// parseTable dispatches on the table tag. font is the complete byte range,
// needed by tables with offsets relative to the font (cmap).
func parseTable(font binarySegm, t Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(font, t, b, offset, size, ec)
	case T("DSIG"):
		return parseDSIG(t, b, offset, size, ec)
	case T("EBDT"), T("EBLC"):
		return parseBitmapHeader(t, b, offset, size, ec)
	case T("GSUB"):
		return parseGSubHeader(t, b, offset, size, ec)
	case T("head"):
		return parseHead(t, b, offset, size, ec)
	case T("hhea"):
		return parseHHea(t, b, offset, size, ec)
	case T("hmtx"):
		// decoded after all tables are read, as it depends on hhea and maxp
		return newHMtxTable(t, b, offset, size), nil
	case T("LTSH"):
		return parseLTSH(t, b, offset, size, ec)
	case T("maxp"):
		return parseMaxP(t, b, offset, size, ec)
	case T("name"):
		return parseName(t, b, offset, size, ec)
	case T("OS/2"):
		return parseOS2(t, b, offset, size, ec)
	case T("VDMX"):
		return parseVDMX(t, b, offset, size, ec)
	}
	tracer().Infof("font contains table (%s), will not be interpreted", t)
	// Record as minor warning - not parsed but not a problem
	ec.addWarning(t, "table not interpreted", offset)
	return newTable(t, b, offset, size), nil
}

// --- cmap ------------------------------------------------------------------

// parseCMap decodes table cmap with a cursor over the complete font, as the
// cmap header is located by its offset from the beginning of the font.
// Failing subtables are recorded as errors, but do not fail the table. A
// broken cmap header leaves the font without a cmap.
func parseCMap(font binarySegm, tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	t := newCMapTable(tag, b, offset, size)
	t.BaseOffset = int(offset)
	if err := t.read(NewCursor(font)); err != nil {
		ec.addError(tag, "Header", err, SeverityCritical, offset)
		return newTable(tag, b, offset, size), nil
	}
	tracer().Debugf("font cmap has %d sub-tables in %d bytes", t.NumTables, size)
	for i, res := range t.Subtables {
		rec := t.EncodingRecords[i]
		at := offset + rec.Offset
		if res.Err != nil {
			severity := SeverityMajor
			if errors.Is(res.Err, ErrUnsupportedFormat) {
				severity = SeverityMinor
			}
			section := fmt.Sprintf("Format%d/record %d", res.Format, i)
			ec.addError(tag, section, res.Err, severity, at)
			continue
		}
		if f4, ok := res.Subtable.(*CMapFormat4); ok && !f4.isSorted() {
			ec.addWarning(tag, fmt.Sprintf("format 4 subtable %d: segments not sorted or unterminated", i), at)
		}
	}
	if t.GlyphIndexMap == nil {
		err := fmt.Errorf("no usable cmap subtable: %w", ErrUnsupportedFormat)
		ec.addError(tag, "Format", err, SeverityMajor, offset)
	}
	return t, nil
}

// --- Cross-table information -----------------------------------------------

// collectFontInfo sets the typed shortcuts to the tables of a font and
// resolves information spanning more than one table.
//
// The number of glyphs in the font is stated in table 'maxp'. Note that a font
// must have at least two glyphs, and that glyph index 0 must have an outline.
func collectFontInfo(otf *Font, ec *errorCollector) {
	for _, tag := range RequiredTables {
		if otf.tables[T(tag)] == nil {
			ec.addError(T(tag), "Missing", errFontFormat("missing required table "+tag), SeverityMajor, 0)
		}
	}
	if t := otf.tables[T("cmap")]; t != nil {
		otf.CMap = t.Self().AsCMap()
	}
	if t := otf.tables[T("head")]; t != nil {
		otf.Head = t.Self().AsHead()
	}
	if t := otf.tables[T("hhea")]; t != nil {
		otf.HHea = t.Self().AsHHea()
	}
	if t := otf.tables[T("hmtx")]; t != nil {
		otf.HMtx = t.Self().AsHMtx()
	}
	if t := otf.tables[T("maxp")]; t != nil {
		otf.MaxP = t.Self().AsMaxP()
	}
	if t := otf.tables[T("name")]; t != nil {
		otf.Name = t.Self().AsName()
	}
	if t := otf.tables[T("OS/2")]; t != nil {
		otf.OS2 = t.Self().AsOS2()
	}
	if otf.MaxP == nil {
		return
	}
	numGlyphs := otf.MaxP.NumGlyphs
	if otf.CMap != nil {
		otf.CMap.NumGlyphs = numGlyphs
	}
	if otf.HMtx != nil && otf.HHea != nil {
		if err := otf.HMtx.parseAll(numGlyphs, otf.HHea.NumberOfHMetrics); err != nil {
			offset, _ := otf.HMtx.Extent()
			ec.addError(T("hmtx"), "Metrics", err, SeverityMajor, offset)
		}
	}
	if t := otf.tables[T("LTSH")]; t != nil {
		if ltsh := t.Self().AsLTSH(); ltsh != nil && ltsh.NumGlyphs != numGlyphs {
			offset, _ := ltsh.Extent()
			ec.addWarning(T("LTSH"), fmt.Sprintf("numGlyphs %d differs from maxp (%d)", ltsh.NumGlyphs, numGlyphs), offset)
		}
	}
}
