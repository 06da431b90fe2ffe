package otquery

import (
	"fmt"
	"time"

	"github.com/npillmayer/otdecode/ot"
)

// FontType returns a human readable description of the outline format of
// a font, as announced by the sfnt version of its table directory.
func FontType(otf *ot.Font) string {
	if otf == nil || otf.Directory == nil {
		return "unknown"
	}
	switch otf.Directory.SfntVersion {
	case ot.SfntVersionTrueType:
		return "TrueType"
	case ot.SfntVersionCFF:
		return "OpenType/CFF"
	case ot.SfntVersionAppleTT:
		return "TrueType (Apple)"
	case ot.SfntVersionType1:
		return "Type 1 (Apple)"
	}
	return fmt.Sprintf("unknown (%#08x)", otf.Directory.SfntVersion)
}

// HeadTableInfo is a query view over OpenType table 'head'.
type HeadTableInfo struct {
	Version          string // major.minor
	FontRevision     string // as set by the font vendor, 3 decimals
	UnitsPerEm       uint16
	Created          time.Time
	Modified         time.Time
	BBox             BoundingBox // union of all glyph bounding boxes
	MacStyle         uint16
	LowestRecPPEM    uint16
	IndexToLocFormat int16
}

// Bold reports whether bit 0 of macStyle is set.
func (h HeadTableInfo) Bold() bool { return h.MacStyle&1 != 0 }

// Italic reports whether bit 1 of macStyle is set.
func (h HeadTableInfo) Italic() bool { return h.MacStyle&2 != 0 }

// HeadInfo returns a view of table 'head'.
// Returns (info, true) on success, or (zero, false) if the table is missing.
func HeadInfo(otf *ot.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	if otf == nil || otf.Head == nil {
		return info, false
	}
	head := otf.Head
	info.Version = fmt.Sprintf("%.1f", head.Version)
	info.FontRevision = fmt.Sprintf("%.3f", head.FontRevision)
	info.UnitsPerEm = head.UnitsPerEm
	info.Created = head.Created
	info.Modified = head.Modified
	info.BBox = bbox(head.XMin, head.YMin, head.XMax, head.YMax)
	info.MacStyle = head.MacStyle
	info.LowestRecPPEM = head.LowestRecPPEM
	info.IndexToLocFormat = head.IndexToLocFormat
	return info, true
}
