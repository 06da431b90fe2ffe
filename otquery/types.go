package otquery

import (
	"fmt"

	"github.com/npillmayer/otdecode/ot"
	"golang.org/x/image/font/sfnt"
)

// FontMetricsInfo contains selected metric information for a font.
type FontMetricsInfo struct {
	UnitsPerEm      sfnt.Units // ad-hoc units per em
	Ascent, Descent sfnt.Units // ascender and descender
	MaxAdvance      sfnt.Units // maximum advance width value in 'hhea' table
	LineGap         sfnt.Units // typographic line gap
	XHeight         sfnt.Units // from 'OS/2', 0 if not present
	CapHeight       sfnt.Units // from 'OS/2', 0 if not present
}

// GlyphMetricsInfo contains all metric information for a glyph.
type GlyphMetricsInfo struct {
	Advance  sfnt.Units  // advance width
	LSB, RSB sfnt.Units  // side bearings
	BBox     BoundingBox // bounding box, empty for CFF fonts and glyphs without contours
}

// BoundingBox describes the bounding box of a glyph.
type BoundingBox struct {
	MinX, MinY sfnt.Units
	MaxX, MaxY sfnt.Units
}

// IsEmpty reports whether this box has zero area.
func (bbox BoundingBox) IsEmpty() bool {
	return bbox.MaxX-bbox.MinX == 0 || bbox.MaxY-bbox.MinY == 0
}

// Dx returns the horizontal extent of this box.
func (bbox BoundingBox) Dx() sfnt.Units {
	return bbox.MaxX - bbox.MinX
}

// Dy returns the vertical extent of this box.
func (bbox BoundingBox) Dy() sfnt.Units {
	return bbox.MaxY - bbox.MinY
}

// SubtableSummary describes one cmap encoding record and the outcome of
// decoding its subtable.
type SubtableSummary struct {
	Index      int
	PlatformID ot.PlatformID
	EncodingID uint16
	Format     uint16
	Selected   bool  // subtable is used for glyph lookup
	Err        error // decoding error, if any
}

func (s SubtableSummary) String() string {
	mark := " "
	if s.Selected {
		mark = "*"
	}
	status := "ok"
	if s.Err != nil {
		status = s.Err.Error()
	}
	return fmt.Sprintf("%s[%d] platform %d encoding %2d format %2d: %s",
		mark, s.Index, s.PlatformID, s.EncodingID, s.Format, status)
}
