package otquery

import (
	"github.com/npillmayer/otdecode/ot"
	"golang.org/x/image/font/sfnt"
)

// --- Font Information -------------------------------------------------

// FontMetrics retrieves selected metrics of a font.
func FontMetrics(otf *ot.Font) FontMetricsInfo {
	metrics := FontMetricsInfo{}
	if otf == nil {
		return metrics
	}
	if hhea := otf.HHea; hhea != nil {
		metrics.Ascent = hhea.Ascender
		metrics.Descent = hhea.Descender
		metrics.LineGap = hhea.LineGap
		metrics.MaxAdvance = hhea.AdvanceWidthMax
	}
	if os2 := otf.OS2; os2 != nil {
		if metrics.Ascent == 0 && metrics.Descent == 0 {
			if a := os2.TypoAscender; a > metrics.Ascent {
				tracer().Debugf("override of ascent: %d -> %d", metrics.Ascent, a)
				metrics.Ascent = a
			}
			if d := os2.TypoDescender; d < metrics.Descent {
				tracer().Debugf("override of descent: %d -> %d", metrics.Descent, d)
				metrics.Descent = d
			}
			metrics.LineGap = os2.TypoLineGap
		}
		metrics.XHeight = os2.XHeight
		metrics.CapHeight = os2.CapHeight
	}
	if otf.Head != nil {
		metrics.UnitsPerEm = sfnt.Units(otf.Head.UnitsPerEm)
	}
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a give code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(otf *ot.Font, codepoint rune) ot.GlyphIndex {
	if otf == nil {
		return 0
	}
	return otf.CMap.Lookup(codepoint)
}

// CodePointForGlyph returns the code-point for a given glyph index.
//
// This is an inefficient operation: All code-points contained in the font's CMap
// are checked sequentially if they produce the given glyph.
// If the glyph index does not correspond to a code-point, 0 is returned.
func CodePointForGlyph(otf *ot.Font, gid ot.GlyphIndex) rune {
	if otf == nil || gid == 0 {
		return 0
	}
	return otf.CMap.ReverseLookup(gid)
}

// GlyphMetrics retrieves metrics for a given glyph.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) GlyphMetricsInfo {
	metrics := GlyphMetricsInfo{}
	if otf == nil {
		return metrics
	}
	//
	// table hmtx: advance width and left side bearing
	if aw, lsb, ok := otf.HMtx.HMetrics(gid); ok {
		metrics.Advance = sfnt.Units(aw)
		metrics.LSB = sfnt.Units(lsb)
	}
	//
	// table glyf: bounding box
	if box, ok := glyphBBox(otf, gid); ok {
		metrics.BBox = box
	}
	// RSB calculation: rsb = aw - (lsb + xMax - xMin)
	// From the OpenType hmtx documentation:
	// If a glyph has no contours, xMax/xMin are not defined. The left side bearing indicated
	// in the 'hmtx' table for such glyphs should be zero.
	if !metrics.BBox.IsEmpty() { // leave RSB for empty bboxes
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics
}

// glyphBBox reads the bounding box from a glyph's header in table glyf,
// located via table loca. Tables glyf and loca are not interpreted by
// package ot and are read from their raw bytes.
func glyphBBox(otf *ot.Font, gid ot.GlyphIndex) (BoundingBox, bool) {
	glyf, loca := otf.Table(ot.T("glyf")), otf.Table(ot.T("loca"))
	if glyf == nil || loca == nil || otf.Head == nil {
		return BoundingBox{}, false
	}
	lb := loca.Binary()
	var from, to int
	if otf.Head.IndexToLocFormat == 0 { // short offsets, divided by 2
		i := int(gid) * 2
		if i+4 > len(lb) {
			return BoundingBox{}, false
		}
		from, to = int(u16(lb[i:]))*2, int(u16(lb[i+2:]))*2
	} else {
		i := int(gid) * 4
		if i+8 > len(lb) {
			return BoundingBox{}, false
		}
		from, to = int(u32(lb[i:])), int(u32(lb[i+4:]))
	}
	gb := glyf.Binary()
	if to-from < 10 || to > len(gb) { // no contours or out of range
		return BoundingBox{}, false
	}
	b := gb[from:]
	return bbox(i16(b[2:]), i16(b[4:]), i16(b[6:]), i16(b[8:])), true
}

func bbox(xMin, yMin, xMax, yMax int16) BoundingBox {
	return BoundingBox{
		MinX: sfnt.Units(xMin),
		MinY: sfnt.Units(yMin),
		MaxX: sfnt.Units(xMax),
		MaxY: sfnt.Units(yMax),
	}
}
