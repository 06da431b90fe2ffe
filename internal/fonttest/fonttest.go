/*
Package fonttest builds synthetic OpenType binaries for tests.

Fonts are assembled from tables given as raw bytes. The builders in this
package produce the bytes for the tables tests usually need, with just
enough content to be decoded.
*/
package fonttest

import (
	"encoding/binary"
	"sort"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Table is one table to be placed into a synthetic font.
type Table struct {
	Tag  string
	Data []byte
}

// sfnt versions
const (
	TrueType uint32 = 0x00010000
	CFF      uint32 = 0x4F54544F
)

var be = binary.BigEndian

// Font assembles a single font. Table records are written in the order
// given; tables are 4-byte aligned and carry correct checksums.
func Font(sfntVersion uint32, tables ...Table) []byte {
	_, b := assemble(0, sfntVersion, tables)
	return b
}

// Collection assembles a font collection of version 1.0, or of version 2.0
// if withDSIG is set (with an empty signature triple). All fonts use the
// TrueType sfnt version.
func Collection(withDSIG bool, fonts ...[]Table) []byte {
	header := 12 + 4*len(fonts)
	if withDSIG {
		header += 12
	}
	offsets, b := assemble(header, TrueType, fonts...)
	copy(b, "ttcf")
	if withDSIG {
		be.PutUint32(b[4:], 0x00020000)
	} else {
		be.PutUint32(b[4:], 0x00010000)
	}
	be.PutUint32(b[8:], uint32(len(fonts)))
	for i, off := range offsets {
		be.PutUint32(b[12+4*i:], uint32(off))
	}
	return b
}

// assemble writes the table directories of all fonts, starting at position
// prefix, followed by all tables. It returns the directory offsets.
func assemble(prefix int, sfntVersion uint32, fonts ...[]Table) ([]int, []byte) {
	dirs := make([]int, len(fonts))
	pos := prefix
	for i, tables := range fonts {
		dirs[i] = pos
		pos += 12 + 16*len(tables)
	}
	pos = align4(pos)
	b := make([]byte, pos)
	for i, tables := range fonts {
		at := dirs[i]
		n := uint16(len(tables))
		searchRange, entrySelector, rangeShift := searchParams(n, 16)
		be.PutUint32(b[at:], sfntVersion)
		be.PutUint16(b[at+4:], n)
		be.PutUint16(b[at+6:], searchRange)
		be.PutUint16(b[at+8:], entrySelector)
		be.PutUint16(b[at+10:], rangeShift)
		for j, t := range tables {
			rec := at + 12 + 16*j
			offset := len(b)
			b = append(b, t.Data...)
			for len(b)%4 != 0 {
				b = append(b, 0)
			}
			copy(b[rec:rec+4], (t.Tag + "    ")[:4])
			be.PutUint32(b[rec+4:], Checksum(t.Data))
			be.PutUint32(b[rec+8:], uint32(offset))
			be.PutUint32(b[rec+12:], uint32(len(t.Data)))
		}
	}
	return dirs, b
}

// Checksum sums a table as big-endian uint32 words.
func Checksum(b []byte) uint32 {
	var sum uint32
	for i := 0; i < len(b); i += 4 {
		var word [4]byte
		copy(word[:], b[i:])
		sum += be.Uint32(word[:])
	}
	return sum
}

// searchParams computes the binary search hints of sfnt headers and cmap
// format 4 subtables.
func searchParams(n uint16, unit uint16) (searchRange, entrySelector, rangeShift uint16) {
	if n == 0 {
		return 0, 0, 0
	}
	p := uint16(1)
	for p*2 <= n {
		p *= 2
		entrySelector++
	}
	searchRange = p * unit
	rangeShift = n*unit - searchRange
	return
}

func align4(n int) int {
	return (n + 3) &^ 3
}

// Sorted returns tables sorted by tag, as required for directories.
func Sorted(tables ...Table) []Table {
	sorted := append([]Table(nil), tables...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })
	return sorted
}

// --- Standard tables -------------------------------------------------------

// Head returns a 'head' table with the given units per em. The creation
// date is 1970-01-01T00:00:00Z, expressed in seconds since 1904.
func Head(unitsPerEm uint16) []byte {
	b := make([]byte, 54)
	be.PutUint32(b[0:], 0x00010000)
	be.PutUint32(b[4:], 0x00018000) // revision 1.5
	be.PutUint32(b[12:], 0x5F0F3CF5)
	be.PutUint16(b[18:], unitsPerEm)
	be.PutUint64(b[20:], 2082844800)
	be.PutUint64(b[28:], 2082844800+86400)
	be.PutUint16(b[36:], uint16(0xFF38)) // xMin -200
	be.PutUint16(b[38:], uint16(0xFF06)) // yMin -250
	be.PutUint16(b[40:], 1000)
	be.PutUint16(b[42:], 900)
	be.PutUint16(b[46:], 8) // lowestRecPPEM
	be.PutUint16(b[48:], 2) // fontDirectionHint
	return b
}

// HHea returns a 'hhea' table.
func HHea(ascender, descender int16, numberOfHMetrics uint16) []byte {
	b := make([]byte, 36)
	be.PutUint32(b[0:], 0x00010000)
	be.PutUint16(b[4:], uint16(ascender))
	be.PutUint16(b[6:], uint16(descender))
	be.PutUint16(b[10:], 1200) // advanceWidthMax
	be.PutUint16(b[34:], numberOfHMetrics)
	return b
}

// HMtx returns a 'hmtx' table from pairs of advance width and left side
// bearing, followed by trailing left side bearings.
func HMtx(metrics [][2]int16, lsbs ...int16) []byte {
	var b []byte
	for _, m := range metrics {
		b = be.AppendUint16(b, uint16(m[0]))
		b = be.AppendUint16(b, uint16(m[1]))
	}
	for _, lsb := range lsbs {
		b = be.AppendUint16(b, uint16(lsb))
	}
	return b
}

// MaxP returns a version 0.5 'maxp' table.
func MaxP(numGlyphs uint16) []byte {
	b := make([]byte, 6)
	be.PutUint32(b, 0x00005000)
	be.PutUint16(b[4:], numGlyphs)
	return b
}

// MaxPV1 returns a version 1.0 'maxp' table with maxPoints and maxContours set.
func MaxPV1(numGlyphs, maxPoints, maxContours uint16) []byte {
	b := make([]byte, 32)
	be.PutUint32(b, 0x00010000)
	be.PutUint16(b[4:], numGlyphs)
	be.PutUint16(b[6:], maxPoints)
	be.PutUint16(b[8:], maxContours)
	return b
}

// OS2 returns an 'OS/2' table of version 4 with the given weight class.
func OS2(weightClass uint16, vendor string) []byte {
	b := make([]byte, 96)
	be.PutUint16(b[0:], 4)
	be.PutUint16(b[2:], 500) // xAvgCharWidth
	be.PutUint16(b[4:], weightClass)
	be.PutUint16(b[6:], 5) // medium width
	copy(b[58:62], (vendor + "    ")[:4])
	be.PutUint16(b[68:], 800)            // sTypoAscender
	be.PutUint16(b[70:], uint16(0xFF38)) // sTypoDescender -200
	be.PutUint16(b[86:], 500)            // sxHeight
	be.PutUint16(b[88:], 700)            // sCapHeight
	return b
}

// Post returns a version 3.0 'post' table.
func Post() []byte {
	b := make([]byte, 32)
	be.PutUint32(b, 0x00030000)
	return b
}

// NameEntry is a string for a 'name' table. Strings for platform 1 are
// encoded in Mac Roman, all others in UTF-16BE.
type NameEntry struct {
	PlatformID, EncodingID, LanguageID, NameID uint16
	Value                                      string
}

// WindowsName is a shortcut for an English Windows Unicode name entry.
func WindowsName(id uint16, value string) NameEntry {
	return NameEntry{PlatformID: 3, EncodingID: 1, LanguageID: 0x0409, NameID: id, Value: value}
}

// Name returns a 'name' table of format 0, or of format 1 if langTags are given.
func Name(entries []NameEntry, langTags ...string) []byte {
	var storage []byte
	var recs []byte
	for _, e := range entries {
		s := encodeName(e.PlatformID, e.Value)
		recs = be.AppendUint16(recs, e.PlatformID)
		recs = be.AppendUint16(recs, e.EncodingID)
		recs = be.AppendUint16(recs, e.LanguageID)
		recs = be.AppendUint16(recs, e.NameID)
		recs = be.AppendUint16(recs, uint16(len(s)))
		recs = be.AppendUint16(recs, uint16(len(storage)))
		storage = append(storage, s...)
	}
	var tags []byte
	if len(langTags) > 0 {
		tags = be.AppendUint16(tags, uint16(len(langTags)))
		for _, lt := range langTags {
			s := encodeName(0, lt)
			tags = be.AppendUint16(tags, uint16(len(s)))
			tags = be.AppendUint16(tags, uint16(len(storage)))
			storage = append(storage, s...)
		}
	}
	format := uint16(0)
	if len(langTags) > 0 {
		format = 1
	}
	var b []byte
	b = be.AppendUint16(b, format)
	b = be.AppendUint16(b, uint16(len(entries)))
	b = be.AppendUint16(b, uint16(6+len(recs)+len(tags)))
	b = append(b, recs...)
	b = append(b, tags...)
	return append(b, storage...)
}

func encodeName(platform uint16, s string) []byte {
	if platform == 1 {
		out, err := charmap.Macintosh.NewEncoder().String(s)
		if err != nil {
			panic(err)
		}
		return []byte(out)
	}
	out, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().String(s)
	if err != nil {
		panic(err)
	}
	return []byte(out)
}

// StandardTables returns the tables required for a font, with numGlyphs
// glyphs of advance width 500 and the given cmap table. Tables are sorted.
func StandardTables(numGlyphs uint16, family string, cmap []byte) []Table {
	metrics := make([][2]int16, numGlyphs)
	for i := range metrics {
		metrics[i] = [2]int16{500, int16(10 + i)}
	}
	if numGlyphs > 0 {
		metrics[0] = [2]int16{600, 0}
	}
	return Sorted(
		Table{"cmap", cmap},
		Table{"head", Head(1000)},
		Table{"hhea", HHea(800, -200, numGlyphs)},
		Table{"hmtx", HMtx(metrics)},
		Table{"maxp", MaxP(numGlyphs)},
		Table{"name", Name([]NameEntry{
			WindowsName(1, family),
			WindowsName(2, "Regular"),
			{PlatformID: 1, EncodingID: 0, LanguageID: 0, NameID: 1, Value: family},
		})},
		Table{"OS/2", OS2(400, "TEST")},
		Table{"post", Post()},
	)
}
