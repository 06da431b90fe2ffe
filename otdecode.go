package otdecode

import (
	"fmt"

	"github.com/npillmayer/otdecode/internal/fontload"
	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/otdecode/otquery"
	"golang.org/x/image/font/sfnt"
)

// FromBinary parses raw OpenType bytes and returns a decoded font.
//
// The input is expected to contain a complete single-font SFNT stream.
// It must not change after parsing for the font to be usable.
func FromBinary(data []byte) (*ot.Font, error) {
	return ot.Parse(data)
}

// FromCollection parses raw bytes of a font collection. A single font is
// accepted as well and results in a collection of one font.
func FromCollection(data []byte) (*ot.Collection, error) {
	return ot.ParseCollection(data)
}

// LoadFont loads font number index from a font file. For files with a single
// font, index must be 0.
func LoadFont(path string, index int) (*ot.Font, error) {
	f, err := fontload.LoadOpenTypeFont(path)
	if err != nil {
		return nil, err
	}
	coll, err := ot.ParseCollection(f.Binary)
	if err != nil {
		return nil, fmt.Errorf("font file %s: %w", path, err)
	}
	if n := f.NumFonts(); n > 0 && n != coll.Len() {
		tracer().Infof("font file %s: sfnt sees %d fonts, we see %d", path, n, coll.Len())
	}
	otf := coll.Font(index)
	if otf == nil {
		return nil, fmt.Errorf("font file %s: no font with index %d (of %d)", path, index, coll.Len())
	}
	if family, _ := FamilyName(otf); family != "" {
		tracer().Debugf("loaded font %s from %s", family, path)
	}
	return otf, nil
}

// FamilyName extracts family and subfamily names from a font's `name` table.
//
// Returned values are empty if no matching records exist or if records cannot be
// decoded by the current name-table reader. Typographic family names take
// precedence over the legacy ones.
func FamilyName(f *ot.Font) (family, subfamily string) {
	var typoFamily, typoSubfamily string
	for nameId, stringValue := range otquery.NamesRange(f) {
		switch nameId {
		case sfnt.NameIDFamily:
			if family == "" {
				family = stringValue
			}
		case sfnt.NameIDSubfamily:
			if subfamily == "" {
				subfamily = stringValue
			}
		case sfnt.NameIDTypographicFamily:
			typoFamily = stringValue
		case sfnt.NameIDTypographicSubfamily:
			typoSubfamily = stringValue
		}
	}
	if typoFamily != "" {
		family = typoFamily
	}
	if typoSubfamily != "" {
		subfamily = typoSubfamily
	}
	return
}
