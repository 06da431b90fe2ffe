package ot

import "fmt"

// --- LTSH ------------------------------------------------------------------

// LTSHTable is the linear threshold table. For every glyph it holds the
// pixel size at and above which the glyph's advance width scales linearly.
type LTSHTable struct {
	tableBase
	Version   uint16
	NumGlyphs int
	YPels     []uint8 // one entry per glyph
}

func newLTSHTable(tag Tag, b binarySegm, offset, size uint32) *LTSHTable {
	t := &LTSHTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

func parseLTSH(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	c := NewCursor(b)
	t := newLTSHTable(tag, b, offset, size)
	var err error
	if t.Version, err = c.ReadU16(); err != nil {
		ec.addError(tag, "Header", err, SeverityMinor, offset)
		return newTable(tag, b, offset, size), nil
	}
	n, err := c.ReadU16()
	if err != nil {
		ec.addError(tag, "Header", err, SeverityMinor, offset)
		return newTable(tag, b, offset, size), nil
	}
	t.NumGlyphs = int(n)
	if t.YPels, err = c.ReadBytes(t.NumGlyphs); err != nil {
		ec.addError(tag, "YPels", err, SeverityMinor, offset)
		return newTable(tag, b, offset, size), nil
	}
	return t, nil
}

// --- VDMX ------------------------------------------------------------------

// VDMXTable is the vertical device metrics table. It lists the maximum and
// minimum y-extents of glyphs per pixel size, grouped by aspect ratio.
type VDMXTable struct {
	tableBase
	Version uint16
	Ratios  []VDMXRatio
	Groups  []VDMXGroup // index-aligned with Ratios
}

// VDMXRatio is an aspect ratio record. A record of all zeros matches any ratio.
type VDMXRatio struct {
	CharSet     uint8
	XRatio      uint8
	YStartRatio uint8
	YEndRatio   uint8
}

// VDMXGroup holds the y-extents for a range of pixel heights.
type VDMXGroup struct {
	StartSz uint8
	EndSz   uint8
	Entries []VTableRecord
}

// VTableRecord is the y-extent of one pixel height.
type VTableRecord struct {
	YPelHeight uint16
	YMax       int16
	YMin       int16
}

func newVDMXTable(tag Tag, b binarySegm, offset, size uint32) *VDMXTable {
	t := &VDMXTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

func parseVDMX(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	t := newVDMXTable(tag, b, offset, size)
	if err := t.read(NewCursor(b)); err != nil {
		ec.addError(tag, "Structure", err, SeverityMinor, offset)
		return newTable(tag, b, offset, size), nil
	}
	return t, nil
}

func (t *VDMXTable) read(c *Cursor) (err error) {
	if t.Version, err = c.ReadU16(); err != nil {
		return err
	}
	if _, err = c.ReadU16(); err != nil { // numRecs, redundant with groups
		return err
	}
	numRatios, err := c.ReadU16()
	if err != nil {
		return err
	}
	if err := c.fits(int(numRatios), 6); err != nil {
		return fmt.Errorf("%d VDMX ratios: %w", numRatios, err)
	}
	t.Ratios = make([]VDMXRatio, numRatios)
	for i := range t.Ratios {
		r := &t.Ratios[i]
		r.CharSet, _ = c.ReadU8()
		r.XRatio, _ = c.ReadU8()
		r.YStartRatio, _ = c.ReadU8()
		r.YEndRatio, _ = c.ReadU8()
	}
	offsets := make([]uint16, numRatios)
	for i := range offsets {
		offsets[i], _ = c.ReadOffset16()
	}
	t.Groups = make([]VDMXGroup, numRatios)
	for i, off := range offsets {
		c.Seek(int(off))
		if t.Groups[i], err = readVDMXGroup(c); err != nil {
			return fmt.Errorf("VDMX group %d: %w", i, err)
		}
	}
	return nil
}

func readVDMXGroup(c *Cursor) (g VDMXGroup, err error) {
	recs, err := c.ReadU16()
	if err != nil {
		return g, err
	}
	if g.StartSz, err = c.ReadU8(); err != nil {
		return g, err
	}
	if g.EndSz, err = c.ReadU8(); err != nil {
		return g, err
	}
	if err := c.fits(int(recs), 6); err != nil {
		return g, fmt.Errorf("%d VDMX entries: %w", recs, err)
	}
	g.Entries = make([]VTableRecord, recs)
	for i := range g.Entries {
		e := &g.Entries[i]
		e.YPelHeight, _ = c.ReadU16()
		e.YMax, _ = c.ReadI16()
		e.YMin, _ = c.ReadI16()
	}
	return g, nil
}

// --- EBDT / EBLC -----------------------------------------------------------

// BitmapHeaderTable holds the header of the embedded bitmap tables EBDT and
// EBLC. The bitmap data itself is not interpreted.
type BitmapHeaderTable struct {
	tableBase
	MajorVersion uint16
	MinorVersion uint16
	NumSizes     uint32 // EBLC only
}

func newBitmapHeaderTable(tag Tag, b binarySegm, offset, size uint32) *BitmapHeaderTable {
	t := &BitmapHeaderTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

func parseBitmapHeader(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	c := NewCursor(b)
	t := newBitmapHeaderTable(tag, b, offset, size)
	var err error
	if t.MajorVersion, err = c.ReadU16(); err == nil {
		t.MinorVersion, err = c.ReadU16()
	}
	if err == nil && tag == T("EBLC") {
		t.NumSizes, err = c.ReadU32()
	}
	if err != nil {
		ec.addError(tag, "Header", err, SeverityMinor, offset)
		return newTable(tag, b, offset, size), nil
	}
	return t, nil
}

// --- GSUB header -----------------------------------------------------------

// GSubHeaderTable holds the header of table GSUB. Glyph substitution lookups
// are not interpreted; the header allows clients to locate the lists.
type GSubHeaderTable struct {
	tableBase
	MajorVersion            uint16
	MinorVersion            uint16
	ScriptListOffset        uint16
	FeatureListOffset       uint16
	LookupListOffset        uint16
	FeatureVariationsOffset uint32 // version 1.1 only
}

func newGSubHeaderTable(tag Tag, b binarySegm, offset, size uint32) *GSubHeaderTable {
	t := &GSubHeaderTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

func parseGSubHeader(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	c := NewCursor(b)
	t := newGSubHeaderTable(tag, b, offset, size)
	if c.Remaining() < 10 {
		ec.addError(tag, "Header", errRange("GSUB header needs 10 bytes, have %d", c.Remaining()), SeverityMinor, offset)
		return newTable(tag, b, offset, size), nil
	}
	t.MajorVersion, _ = c.ReadU16()
	t.MinorVersion, _ = c.ReadU16()
	t.ScriptListOffset, _ = c.ReadOffset16()
	t.FeatureListOffset, _ = c.ReadOffset16()
	t.LookupListOffset, _ = c.ReadOffset16()
	if t.MajorVersion == 1 && t.MinorVersion == 1 {
		var err error
		if t.FeatureVariationsOffset, err = c.ReadOffset32(); err != nil {
			ec.addError(tag, "Header", err, SeverityMinor, offset)
		}
	}
	for _, off := range []uint16{t.ScriptListOffset, t.FeatureListOffset, t.LookupListOffset} {
		if int(off) > len(b) {
			ec.addWarning(tag, fmt.Sprintf("list offset %d beyond table size %d", off, len(b)), offset)
		}
	}
	return t, nil
}
