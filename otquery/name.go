package otquery

import (
	"iter"

	"github.com/npillmayer/otdecode/ot"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/language"
)

// NamesRange yields decoded `(nameID, value)` pairs from a font's OpenType
// `name` table, in record order.
//
// Records which cannot be decoded (unsupported encodings, strings outside
// of the string storage) are skipped. Name IDs may be yielded more than once,
// for different platforms and languages.
func NamesRange(otf *ot.Font) iter.Seq2[sfnt.NameID, string] {
	return func(yield func(sfnt.NameID, string) bool) {
		if otf == nil || otf.Name == nil {
			return
		}
		for _, rec := range otf.Name.Records {
			s, err := otf.Name.Decode(rec)
			if err != nil || s == "" {
				continue
			}
			if !yield(rec.NameID, s) {
				return
			}
		}
	}
}

// nameKeys are the keys of map NameInfo returns.
var nameKeys = map[sfnt.NameID]string{
	sfnt.NameIDCopyright:            "copyright",
	sfnt.NameIDFamily:               "family",
	sfnt.NameIDSubfamily:            "subfamily",
	sfnt.NameIDUniqueIdentifier:     "identifier",
	sfnt.NameIDFull:                 "full",
	sfnt.NameIDVersion:              "version",
	sfnt.NameIDPostScript:           "postscript",
	sfnt.NameIDTrademark:            "trademark",
	sfnt.NameIDManufacturer:         "manufacturer",
	sfnt.NameIDDesigner:             "designer",
	sfnt.NameIDTypographicFamily:    "typographic-family",
	sfnt.NameIDTypographicSubfamily: "typographic-subfamily",
}

// NameInfo returns the common names of a font, keyed by "family",
// "subfamily", "full", "version", etc.
//
// Names in language lang are preferred. If lang is language.Und or the font
// has no name in lang, the font's preferred record is used (see
// ot.NameTable.Get).
func NameInfo(otf *ot.Font, lang language.Tag) map[string]string {
	info := make(map[string]string)
	if otf == nil || otf.Name == nil {
		return info
	}
	names := otf.Name
	if lang != language.Und {
		matcher := language.NewMatcher([]language.Tag{lang})
		for _, rec := range names.Records {
			key, ok := nameKeys[rec.NameID]
			if !ok {
				continue
			}
			if _, _, conf := matcher.Match(names.Language(rec)); conf < language.High {
				continue
			}
			if s, err := names.Decode(rec); err == nil && s != "" {
				info[key] = s
			}
		}
	}
	for id, key := range nameKeys {
		if _, ok := info[key]; ok {
			continue
		}
		if s, ok := names.Get(id); ok {
			info[key] = s
		}
	}
	tracer().Debugf("font has %d common names", len(info))
	return info
}
