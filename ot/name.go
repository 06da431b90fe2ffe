package ot

import (
	"fmt"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/language"
)

// PlatformID identifies the platform of a name record or cmap encoding record.
type PlatformID uint16

// Platform IDs used in tables 'name' and 'cmap'.
const (
	PlatformIDUnicode   PlatformID = 0
	PlatformIDMacintosh PlatformID = 1
	PlatformIDWindows   PlatformID = 3
)

const (
	nameHeaderSize = 6
	nameRecordSize = 12
)

// NameTable allows multilingual strings to be associated with the OpenType font.
// Format 1 tables add language-tag records, which name records with a
// language ID of 0x8000 or above refer to.
//
// See https://docs.microsoft.com/en-us/typography/opentype/spec/name
type NameTable struct {
	tableBase
	Format   uint16
	Records  []NameRecord
	LangTags []string // format 1 only
	strbuf   binarySegm
}

// NameRecord is one entry of table 'name'. Offset is relative to the table's
// string storage.
type NameRecord struct {
	PlatformID PlatformID
	EncodingID uint16
	LanguageID uint16
	NameID     sfnt.NameID
	Length     uint16
	Offset     uint16
}

func newNameTable(tag Tag, b binarySegm, offset, size uint32) *NameTable {
	t := &NameTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

func parseName(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	t := newNameTable(tag, b, offset, size)
	c := NewCursor(b)
	if c.Remaining() < nameHeaderSize {
		err := errRange("name table too small: %d bytes", c.Remaining())
		ec.addError(tag, "Header", err, SeverityCritical, offset)
		return newTable(tag, b, offset, size), nil
	}
	t.Format, _ = c.ReadU16()
	count, _ := c.ReadU16()
	strOffset, _ := c.ReadOffset16()
	if int(strOffset) > len(b) {
		err := errRange("name table string offset %d exceeds table size %d", strOffset, len(b))
		ec.addError(tag, "Header", err, SeverityCritical, offset)
		return newTable(tag, b, offset, size), nil
	}
	t.strbuf = b[strOffset:]
	tracer().Debugf("name table has %d strings, starting at %d", count, strOffset)
	if err := c.fits(int(count), nameRecordSize); err != nil {
		err = fmt.Errorf("%d name records: %w", count, err)
		ec.addError(tag, "Records", err, SeverityCritical, offset)
		return newTable(tag, b, offset, size), nil
	}
	t.Records = make([]NameRecord, count)
	for i := range t.Records {
		rec := &t.Records[i]
		pid, _ := c.ReadU16()
		rec.PlatformID = PlatformID(pid)
		rec.EncodingID, _ = c.ReadU16()
		rec.LanguageID, _ = c.ReadU16()
		nid, _ := c.ReadU16()
		rec.NameID = sfnt.NameID(nid)
		rec.Length, _ = c.ReadU16()
		rec.Offset, _ = c.ReadOffset16()
	}
	if t.Format == 1 {
		t.readLangTags(c, tag, offset, ec)
	}
	// decode every string once to surface encoding problems as warnings
	for i, rec := range t.Records {
		if _, err := t.Decode(rec); err != nil {
			ec.addWarning(tag, fmt.Sprintf("name record %d (id %d): %v", i, rec.NameID, err), offset)
		}
	}
	return t, nil
}

func (t *NameTable) readLangTags(c *Cursor, tag Tag, offset uint32, ec *errorCollector) {
	count, err := c.ReadU16()
	if err != nil {
		ec.addError(tag, "LangTags", err, SeverityMinor, offset)
		return
	}
	for i := 0; i < int(count); i++ {
		length, err1 := c.ReadU16()
		off, err2 := c.ReadOffset16()
		if err1 != nil || err2 != nil {
			ec.addError(tag, "LangTags", errRange("lang-tag record %d", i), SeverityMinor, offset)
			return
		}
		s, err := t.decodeString(off, length, "utf-16be")
		if err != nil {
			ec.addWarning(tag, fmt.Sprintf("lang-tag record %d: %v", i, err), offset)
		}
		t.LangTags = append(t.LangTags, s)
	}
}

// Decode returns the string of a name record, converted to UTF-8.
// Records with an encoding not understood produce an error wrapping ErrEncoding.
func (t *NameTable) Decode(rec NameRecord) (string, error) {
	charset := nameCharset(rec.PlatformID, rec.EncodingID)
	if charset == "" {
		return "", fmt.Errorf("%w: platform %d, encoding %d", ErrEncoding, rec.PlatformID, rec.EncodingID)
	}
	return t.decodeString(rec.Offset, rec.Length, charset)
}

func (t *NameTable) decodeString(offset, length uint16, charset string) (string, error) {
	c := NewCursor(t.strbuf)
	c.Seek(int(offset))
	return c.ReadTranscodedString(int(length), charset, "utf-8")
}

// Get returns the string for a name ID. Windows Unicode records in English
// are preferred, followed by any Unicode record and finally Macintosh Roman.
func (t *NameTable) Get(id sfnt.NameID) (string, bool) {
	if t == nil {
		return "", false
	}
	best, rank := -1, 0
	for i, rec := range t.Records {
		if rec.NameID != id {
			continue
		}
		if r := nameRecordRank(rec); r > rank {
			best, rank = i, r
		}
	}
	if best < 0 {
		return "", false
	}
	s, err := t.Decode(t.Records[best])
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

func nameRecordRank(rec NameRecord) int {
	switch {
	case rec.PlatformID == PlatformIDWindows && (rec.EncodingID == 1 || rec.EncodingID == 10):
		if rec.LanguageID == 0x0409 {
			return 4
		}
		return 3
	case rec.PlatformID == PlatformIDUnicode:
		return 2
	case rec.PlatformID == PlatformIDMacintosh && rec.EncodingID == 0:
		return 1
	}
	return 0
}

// Language returns the language of a name record. Unknown language IDs
// result in language.Und.
func (t *NameTable) Language(rec NameRecord) language.Tag {
	if rec.LanguageID >= 0x8000 {
		i := int(rec.LanguageID - 0x8000)
		if i < len(t.LangTags) {
			if lang, err := language.Parse(t.LangTags[i]); err == nil {
				return lang
			}
		}
		return language.Und
	}
	var code string
	switch rec.PlatformID {
	case PlatformIDWindows:
		code = windowsLanguages[rec.LanguageID]
	case PlatformIDMacintosh:
		code = macLanguages[rec.LanguageID]
	}
	if code == "" {
		return language.Und
	}
	return language.Make(code)
}

// nameCharset returns the charset name of a platform/encoding pair, as
// understood by Cursor.ReadTranscodedString, or "" if unsupported.
func nameCharset(pid PlatformID, eid uint16) string {
	switch pid {
	case PlatformIDUnicode:
		return "utf-16be"
	case PlatformIDMacintosh:
		switch eid {
		case 0:
			return "macroman"
		case 1:
			return "shift_jis"
		case 2:
			return "big5"
		case 3:
			return "euc-kr"
		case 25:
			return "gbk"
		}
	case PlatformIDWindows:
		switch eid {
		case 0, 1, 10:
			return "utf-16be"
		case 2:
			return "shift_jis"
		case 3:
			return "gbk"
		case 4:
			return "big5"
		case 5:
			return "euc-kr"
		}
	}
	return ""
}

// Commonly used Windows LCIDs. See
// https://docs.microsoft.com/en-us/typography/opentype/spec/name#windows-language-ids
var windowsLanguages = map[uint16]string{
	0x0404: "zh-TW",
	0x0405: "cs-CZ",
	0x0406: "da-DK",
	0x0407: "de-DE",
	0x0408: "el-GR",
	0x0409: "en-US",
	0x040A: "es-ES",
	0x040B: "fi-FI",
	0x040C: "fr-FR",
	0x040E: "hu-HU",
	0x0410: "it-IT",
	0x0411: "ja-JP",
	0x0412: "ko-KR",
	0x0413: "nl-NL",
	0x0414: "nb-NO",
	0x0415: "pl-PL",
	0x0416: "pt-BR",
	0x0419: "ru-RU",
	0x041D: "sv-SE",
	0x041F: "tr-TR",
	0x0804: "zh-CN",
	0x0807: "de-CH",
	0x0809: "en-GB",
	0x080C: "fr-BE",
	0x0816: "pt-PT",
	0x0C07: "de-AT",
	0x0C0A: "es-ES",
	0x0C0C: "fr-CA",
}

// Macintosh language codes, the most common ones.
var macLanguages = map[uint16]string{
	0:  "en",
	1:  "fr",
	2:  "de",
	3:  "it",
	4:  "nl",
	5:  "sv",
	6:  "es",
	7:  "da",
	8:  "pt",
	9:  "no",
	11: "ja",
	12: "ar",
	13: "fi",
	14: "el",
	19: "zh-Hant",
	23: "ko",
	32: "ru",
	33: "zh-Hans",
}
