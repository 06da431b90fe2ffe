package otquery

import (
	"github.com/npillmayer/otdecode/ot"
)

// CoveredRunes returns the code-points which the font's preferred cmap
// subtable maps to a glyph other than 0, in ascending order for well-formed
// subtables. Glyphs beyond the font's glyph count are not reported.
func CoveredRunes(otf *ot.Font) []rune {
	if otf == nil || otf.CMap == nil || otf.CMap.GlyphIndexMap == nil {
		return nil
	}
	return coveredBy(otf.CMap, otf.CMap.GlyphIndexMap)
}

// CoveredRunesOf returns the code-points a single subtable maps to a glyph,
// or nil if the subtable has not been decoded.
func CoveredRunesOf(otf *ot.Font, index int) []rune {
	if otf == nil || otf.CMap == nil || index < 0 || index >= len(otf.CMap.Subtables) {
		return nil
	}
	sub := otf.CMap.Subtables[index].Subtable
	if sub == nil {
		return nil
	}
	return coveredBy(otf.CMap, sub)
}

func coveredBy(cmap *ot.CMapTable, sub ot.CMapSubtable) []rune {
	var candidates func(yield func(rune) bool)
	switch st := sub.(type) {
	case *ot.CMapFormat4:
		candidates = func(yield func(rune) bool) {
			for _, r := range st.CoveredCharacters() {
				if !yield(r) {
					return
				}
			}
		}
	case *ot.CMapFormat12:
		candidates = func(yield func(rune) bool) {
			for _, g := range st.Groups {
				for c := uint64(g.StartCharCode); c <= uint64(g.EndCharCode) && c <= 0x10FFFF; c++ {
					if !yield(rune(c)) {
						return
					}
				}
			}
		}
	case *ot.CMapFormat14:
		return nil
	default: // formats 0, 2 and 6 are limited to 16 bit codes
		candidates = func(yield func(rune) bool) {
			for c := rune(0); c <= 0xFFFF; c++ {
				if !yield(c) {
					return
				}
			}
		}
	}
	var runes []rune
	for r := range candidates {
		g := sub.Lookup(r)
		if g == 0 || (cmap.NumGlyphs > 0 && int(g) >= cmap.NumGlyphs) {
			continue
		}
		runes = append(runes, r)
	}
	tracer().Debugf("cmap format %d subtable covers %d code-points", sub.Format(), len(runes))
	return runes
}

// SubtableSummaries describes every encoding record of a font's cmap table,
// index-aligned with the encoding records.
func SubtableSummaries(otf *ot.Font) []SubtableSummary {
	if otf == nil || otf.CMap == nil {
		return nil
	}
	cmap := otf.CMap
	summaries := make([]SubtableSummary, len(cmap.EncodingRecords))
	for i, rec := range cmap.EncodingRecords {
		res := cmap.Subtables[i]
		summaries[i] = SubtableSummary{
			Index:      i,
			PlatformID: ot.PlatformID(rec.PlatformID),
			EncodingID: rec.EncodingID,
			Format:     res.Format,
			Selected:   res.Subtable != nil && res.Subtable == cmap.GlyphIndexMap,
			Err:        res.Err,
		}
	}
	return summaries
}
