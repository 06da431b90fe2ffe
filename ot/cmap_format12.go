package ot

import (
	"fmt"
	"sort"
)

// --- Format 12 -------------------------------------------------------------

// CMapFormat12 is a cmap subtable of format 12, segmented coverage.
// This is the standard character-to-glyph-index mapping subtable for fonts supporting
// Unicode character repertoires that include supplementary-plane characters (U+10000 to
// U+10FFFF).
//
// Format 12 is similar to format 4 in that it defines segments for sparse representation.
// It differs, however, in that it uses 32-bit character codes, and Glyph ID lookup
// and calculation is a lot simpler.
type CMapFormat12 struct {
	subtableHeader
	Groups []SequentialMapGroup
}

// SequentialMapGroup specifies a character range and the starting glyph ID
// mapped from the first character. Glyph IDs for subsequent characters follow in sequence.
type SequentialMapGroup struct {
	StartCharCode uint32
	EndCharCode   uint32
	StartGlyphID  uint32
}

const sequentialMapGroupSize = 12

func readCMapFormat12(c *Cursor) (*CMapFormat12, error) {
	f12 := &CMapFormat12{}
	var err error
	if f12.format, err = c.ReadU16(); err != nil {
		return nil, fmt.Errorf("cmap format 12 header: %w", err)
	}
	if _, err = c.ReadU16(); err != nil { // reserved
		return nil, fmt.Errorf("cmap format 12 header: %w", err)
	}
	if f12.Length, err = c.ReadU32(); err != nil {
		return nil, fmt.Errorf("cmap format 12 header: %w", err)
	}
	if f12.language, err = c.ReadU32(); err != nil {
		return nil, fmt.Errorf("cmap format 12 header: %w", err)
	}
	numGroups, err := c.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("cmap format 12 header: %w", err)
	}
	if err := c.fits(int(numGroups), sequentialMapGroupSize); err != nil {
		return nil, fmt.Errorf("cmap format 12: %d groups: %w", numGroups, err)
	}
	f12.Groups = make([]SequentialMapGroup, numGroups)
	for i := range f12.Groups {
		g := &f12.Groups[i]
		if g.StartCharCode, err = c.ReadU32(); err != nil {
			return nil, err
		}
		if g.EndCharCode, err = c.ReadU32(); err != nil {
			return nil, err
		}
		if g.StartGlyphID, err = c.ReadU32(); err != nil {
			return nil, err
		}
	}
	return f12, nil
}

// Lookup returns the glyph for a code-point, or 0 if the code-point is not mapped.
func (f12 *CMapFormat12) Lookup(r rune) GlyphIndex {
	if r < 0 {
		return 0
	}
	c := uint32(r)
	n := len(f12.Groups)
	i := sort.Search(n, func(i int) bool { return f12.Groups[i].EndCharCode >= c })
	if i == n || c < f12.Groups[i].StartCharCode {
		return 0
	}
	g := uint64(f12.Groups[i].StartGlyphID) + uint64(c-f12.Groups[i].StartCharCode)
	if g > 0xffff {
		return 0
	}
	return GlyphIndex(g)
}

// ReverseLookup retrieves a code-point for a given glyph. The Cmap tables do not
// support this operation, thus this operation is inefficient.
// However, for testing and debugging purposes it is often useful.
func (f12 *CMapFormat12) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	cid := uint32(gid)
	for _, group := range f12.Groups {
		if cid < group.StartGlyphID || group.EndCharCode < group.StartCharCode {
			continue
		}
		if d := cid - group.StartGlyphID; d <= group.EndCharCode-group.StartCharCode {
			return rune(group.StartCharCode + d)
		}
	}
	return 0
}

// --- Format 14 -------------------------------------------------------------

// CMapFormat14 is a cmap subtable of format 14, Unicode variation sequences.
// Only the variation selector records are decoded; the default and
// non-default UVS tables they point to are not. Decoding a format 14 subtable
// therefore always reports ErrUnsupportedFormat alongside the records.
type CMapFormat14 struct {
	Length    uint32
	Selectors []VarSelectorRecord
}

// VarSelectorRecord links a variation selector to its UVS tables. Offsets
// are relative to the start of the format 14 subtable; 0 means absent.
type VarSelectorRecord struct {
	VarSelector         rune // 24 bit
	DefaultUVSOffset    uint32
	NonDefaultUVSOffset uint32
}

const varSelectorRecordSize = 11

// Format returns 14.
func (f14 *CMapFormat14) Format() uint16 { return 14 }

// Language returns 0, as format 14 subtables have no language field.
func (f14 *CMapFormat14) Language() uint32 { return 0 }

// Lookup always returns 0. Variation sequences need a base character and
// a selector and cannot be resolved from a single code-point.
func (f14 *CMapFormat14) Lookup(rune) GlyphIndex { return 0 }

func (f14 *CMapFormat14) isCMapSubtable() {}

// readCMapFormat14 reads the selector records. If this succeeds, the records
// are returned together with an ErrUnsupportedFormat error.
func readCMapFormat14(c *Cursor) (*CMapFormat14, error) {
	f14 := &CMapFormat14{}
	var err error
	if _, err = c.ReadU16(); err != nil { // format
		return nil, fmt.Errorf("cmap format 14 header: %w", err)
	}
	if f14.Length, err = c.ReadU32(); err != nil {
		return nil, fmt.Errorf("cmap format 14 header: %w", err)
	}
	num, err := c.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("cmap format 14 header: %w", err)
	}
	if err := c.fits(int(num), varSelectorRecordSize); err != nil {
		return nil, fmt.Errorf("cmap format 14: %d selector records: %w", num, err)
	}
	f14.Selectors = make([]VarSelectorRecord, num)
	for i := range f14.Selectors {
		rec := &f14.Selectors[i]
		sel, err := c.ReadU24()
		if err != nil {
			return nil, err
		}
		rec.VarSelector = rune(sel)
		if rec.DefaultUVSOffset, err = c.ReadOffset32(); err != nil {
			return nil, err
		}
		if rec.NonDefaultUVSOffset, err = c.ReadOffset32(); err != nil {
			return nil, err
		}
	}
	return f14, fmt.Errorf("cmap format 14 UVS tables: %w", ErrUnsupportedFormat)
}
