package ot

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/otdecode/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func readCMapBytes(t *testing.T, b []byte) *CMapTable {
	t.Helper()
	cmap, err := ReadCMap(NewCursor(b), 0)
	if err != nil {
		t.Fatalf("cannot read cmap: %v", err)
	}
	return cmap
}

func TestCMapFormat0Identity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	var glyphs [256]uint8
	for i := range glyphs {
		glyphs[i] = uint8(i)
	}
	f0, err := readCMapFormat0(NewCursor(fonttest.Format0(glyphs)))
	if err != nil {
		t.Fatal(err)
	}
	for c := rune(0); c < 256; c++ {
		if g := f0.Lookup(c); g != GlyphIndex(c) {
			t.Fatalf("expected identity mapping for %d, got %d", c, g)
		}
	}
	if f0.Lookup(256) != 0 || f0.Lookup(-1) != 0 {
		t.Error("expected code-points outside of 0…255 to map to 0")
	}
	if f0.Format() != 0 || f0.Length != 262 {
		t.Errorf("unexpected header: format %d, length %d", f0.Format(), f0.Length)
	}
}

func TestCMapFormat4Delta(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	data := fonttest.Format4(fonttest.Segment{Start: 0x20, End: 0x7E, Delta: 3 - 0x20})
	f4, err := readCMapFormat4(NewCursor(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(f4.EndCodes) != 2 {
		t.Fatalf("expected 2 segments including the sentinel, got %d", len(f4.EndCodes))
	}
	tests := []struct {
		c    rune
		want GlyphIndex
	}{
		{0x1F, 0},      // before first segment
		{0x20, 3},      // segment start
		{0x41, 3 + 33}, // inside
		{0x7E, 3 + 94}, // segment end
		{0x7F, 0},      // gap
		{0xFFFF, 0},    // sentinel maps to 0
		{0x10000, 0},   // beyond BMP
		{-5, 0},
	}
	for _, tt := range tests {
		if g := f4.Lookup(tt.c); g != tt.want {
			t.Errorf("Lookup(%#x): expected %d, got %d", tt.c, tt.want, g)
		}
	}
	if !f4.isSorted() {
		t.Error("expected segments to be sorted")
	}
}

func TestCMapFormat4Unsorted(t *testing.T) {
	data := fonttest.Format4(
		fonttest.Segment{Start: 0x20, End: 0x7E, Delta: 1},
		fonttest.Segment{Start: 0x10, End: 0x10, Delta: 1},
	)
	f4, err := readCMapFormat4(NewCursor(data))
	if err != nil {
		t.Fatal(err)
	}
	if f4.isSorted() {
		t.Error("expected segments to be reported as unsorted")
	}
}

func TestCMapFormat4DeltaModulo(t *testing.T) {
	data := fonttest.Format4(fonttest.Segment{Start: 0x10, End: 0x10, Delta: -0x14})
	f4, err := readCMapFormat4(NewCursor(data))
	if err != nil {
		t.Fatal(err)
	}
	if g := f4.Lookup(0x10); g != 0xFFFC {
		t.Errorf("expected (0x10 - 0x14) mod 65536 = 0xFFFC, got %#x", g)
	}
	if !f4.isSorted() {
		t.Error("expected segments to be sorted")
	}
}

func TestCMapFormat4RangeOffset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	data := fonttest.Format4(
		fonttest.Segment{Start: 'a', End: 'c', Delta: 0},
		fonttest.Segment{Start: 0x100, End: 0x103, Glyphs: []uint16{10, 0, 12, 13}},
		fonttest.Segment{Start: 0x200, End: 0x201, Delta: 5, Glyphs: []uint16{20, 0}},
	)
	f4, err := readCMapFormat4(NewCursor(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(f4.GlyphIDs) != 6 {
		t.Fatalf("expected 6 trailing glyph ids, got %d", len(f4.GlyphIDs))
	}
	tests := []struct {
		c    rune
		want GlyphIndex
	}{
		{'b', 'b'},
		{0x100, 10},
		{0x101, 0}, // glyph array entry 0 means unmapped
		{0x103, 13},
		{0x200, 25}, // delta is added to the array entry
		{0x201, 0},  // but not to 0
	}
	for _, tt := range tests {
		if g := f4.Lookup(tt.c); g != tt.want {
			t.Errorf("Lookup(%#x): expected %d, got %d", tt.c, tt.want, g)
		}
	}
	if r := f4.ReverseLookup(12); r != 0x102 {
		t.Errorf("expected reverse lookup of glyph 12 to be U+0102, got %#x", r)
	}
	if n := len(f4.CoveredCharacters()); n != 3+4+2+1 {
		t.Errorf("expected 10 covered characters, got %d", n)
	}
}

func TestCMapFormat4OddLength(t *testing.T) {
	data := fonttest.Format4(fonttest.Segment{Start: 'a', End: 'a', Glyphs: []uint16{7}})
	length := binary.BigEndian.Uint16(data[2:])
	binary.BigEndian.PutUint16(data[2:], length+1)
	data = append(data, 0, 0)
	f4, err := readCMapFormat4(NewCursor(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(f4.GlyphIDs) != 2 {
		t.Errorf("expected ceil((length-consumed)/2) = 2 glyph ids, got %d", len(f4.GlyphIDs))
	}
	if f4.Lookup('a') != 7 {
		t.Errorf("expected 'a' to map to 7, got %d", f4.Lookup('a'))
	}
}

func TestCMapFormat4Truncated(t *testing.T) {
	data := fonttest.Format4(fonttest.Segment{Start: 'a', End: 'z', Delta: 1})
	_, err := readCMapFormat4(NewCursor(data[:20]))
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for truncated segment arrays, got %v", err)
	}
}

func TestCMapFormat2(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	single := []uint16{0, 1, 2, 3, 4, 5, 6, 7}
	data := fonttest.Format2(single, 0x81, 0x40, []uint16{100, 101, 0, 103})
	f2, err := readCMapFormat2(NewCursor(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(f2.SubHeaders) != 2 {
		t.Fatalf("expected 2 sub-headers, got %d", len(f2.SubHeaders))
	}
	tests := []struct {
		c    rune
		want GlyphIndex
	}{
		{5, 5},        // single byte
		{8, 0},        // beyond sub-header 0
		{0x81, 0},     // lead byte alone
		{0x8140, 100}, // first two-byte code
		{0x8141, 101},
		{0x8142, 0}, // array entry 0
		{0x8143, 103},
		{0x8144, 0}, // beyond entry count
		{0x813F, 0}, // before first code
		{0x8240, 0}, // not a lead byte
	}
	for _, tt := range tests {
		if g := f2.Lookup(tt.c); g != tt.want {
			t.Errorf("Lookup(%#x): expected %d, got %d", tt.c, tt.want, g)
		}
	}
}

func TestCMapFormat6(t *testing.T) {
	f6, err := readCMapFormat6(NewCursor(fonttest.Format6(0x30, 17, 18, 0, 20)))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		c    rune
		want GlyphIndex
	}{
		{0x2F, 0}, {0x30, 17}, {0x31, 18}, {0x32, 0}, {0x33, 20}, {0x34, 0},
	}
	for _, tt := range tests {
		if g := f6.Lookup(tt.c); g != tt.want {
			t.Errorf("Lookup(%#x): expected %d, got %d", tt.c, tt.want, g)
		}
	}
	if r := f6.ReverseLookup(20); r != 0x33 {
		t.Errorf("expected reverse lookup of 20 to be 0x33, got %#x", r)
	}
}

func TestCMapWorkedExamples(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	f4, err := readCMapFormat4(NewCursor(fonttest.Format4(fonttest.Segment{Start: 10, End: 20, Delta: 5})))
	if err != nil {
		t.Fatal(err)
	}
	f6, err := readCMapFormat6(NewCursor(fonttest.Format6(100, 7, 8, 9)))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		sub  CMapSubtable
		c    rune
		want GlyphIndex
	}{
		{"format 4 segment start", f4, 10, 15},
		{"format 4 segment end", f4, 20, 25},
		{"format 4 below segment", f4, 9, 0},
		{"format 4 above segment", f4, 21, 0},
		{"format 6 first code", f6, 100, 7},
		{"format 6 middle", f6, 101, 8},
		{"format 6 last code", f6, 102, 9},
		{"format 6 below range", f6, 99, 0},
		{"format 6 above range", f6, 103, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if g := tt.sub.Lookup(tt.c); g != tt.want {
				t.Errorf("Lookup(%d): expected %d, got %d", tt.c, tt.want, g)
			}
		})
	}
}

func TestCMapFormat12(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	data := fonttest.Format12(
		fonttest.Group{Start: 0x41, End: 0x5A, StartGlyph: 1},
		fonttest.Group{Start: 0x1F600, End: 0x1F60F, StartGlyph: 100},
		fonttest.Group{Start: 0x20000, End: 0x20010, StartGlyph: 0xFFF8},
	)
	f12, err := readCMapFormat12(NewCursor(data))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		c    rune
		want GlyphIndex
	}{
		{0x40, 0},
		{0x41, 1},
		{0x5A, 26},
		{0x1F600, 100},
		{0x1F60F, 115},
		{0x1F610, 0},
		{0x20007, 0xFFFF},
		{0x20008, 0}, // glyph id beyond 16 bit
		{0x10FFFF, 0},
	}
	for _, tt := range tests {
		if g := f12.Lookup(tt.c); g != tt.want {
			t.Errorf("Lookup(%#x): expected %d, got %d", tt.c, tt.want, g)
		}
	}
	if r := f12.ReverseLookup(101); r != 0x1F601 {
		t.Errorf("expected reverse lookup of 101 to be U+1F601, got %#x", r)
	}
}

func TestCMapSubtableIsolation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b := fonttest.CMap(
		fonttest.Subtable{PlatformID: 3, EncodingID: 1,
			Data: fonttest.Format4(fonttest.Segment{Start: 'A', End: 'Z', Delta: 1 - 'A'})},
		fonttest.Subtable{PlatformID: 0, EncodingID: 6, Data: fonttest.Format10(0x10000, 1, 2, 3)},
		fonttest.Subtable{PlatformID: 3, EncodingID: 10, BadOffset: 0xFFFF0},
		fonttest.Subtable{PlatformID: 1, EncodingID: 0, Data: []byte{0, 7, 0, 8}},
	)
	cmap := readCMapBytes(t, b)
	if len(cmap.Subtables) != 4 || len(cmap.EncodingRecords) != 4 {
		t.Fatalf("expected 4 subtable results, got %d", len(cmap.Subtables))
	}
	if res := cmap.Subtables[0]; res.Err != nil || res.Format != 4 || res.Subtable == nil {
		t.Errorf("expected format 4 subtable to decode, got %v", res.Err)
	}
	if res := cmap.Subtables[1]; !errors.Is(res.Err, ErrUnsupportedFormat) || res.Format != 10 {
		t.Errorf("expected format 10 to be unsupported, got %d/%v", res.Format, res.Err)
	}
	if res := cmap.Subtables[2]; !errors.Is(res.Err, ErrOutOfRange) {
		t.Errorf("expected bad offset to be out of range, got %v", res.Err)
	}
	if res := cmap.Subtables[3]; !errors.Is(res.Err, ErrUnsupportedFormat) || res.Format != 7 {
		t.Errorf("expected unknown format 7 to be unsupported, got %d/%v", res.Format, res.Err)
	}
	if g := cmap.Lookup('C'); g != 3 {
		t.Errorf("expected 'C' to map to 3 with remaining subtable, got %d", g)
	}
}

func TestCMapFormat14(t *testing.T) {
	b := fonttest.CMap(
		fonttest.Subtable{PlatformID: 0, EncodingID: 5, Data: fonttest.Format14(
			fonttest.Selector{VarSelector: 0xFE00, DefaultUVS: 0, NonDefaultUVS: 40},
			fonttest.Selector{VarSelector: 0xE0100, DefaultUVS: 60, NonDefaultUVS: 0},
		)},
	)
	cmap := readCMapBytes(t, b)
	res := cmap.Subtables[0]
	if !errors.Is(res.Err, ErrUnsupportedFormat) {
		t.Errorf("expected format 14 to report ErrUnsupportedFormat, got %v", res.Err)
	}
	f14, ok := res.Subtable.(*CMapFormat14)
	if !ok {
		t.Fatalf("expected format 14 records alongside the error, got %T", res.Subtable)
	}
	want := []VarSelectorRecord{
		{VarSelector: 0xFE00, NonDefaultUVSOffset: 40},
		{VarSelector: 0xE0100, DefaultUVSOffset: 60},
	}
	if diff := cmp.Diff(want, f14.Selectors); diff != "" {
		t.Errorf("selector records mismatch (-want +got):\n%s", diff)
	}
	if cmap.GlyphIndexMap != nil {
		t.Error("format 14 must never be selected for glyph lookup")
	}
}

func TestCMapSelectGlyphIndexMap(t *testing.T) {
	var glyphs [256]uint8
	glyphs['A'] = 9
	f0 := fonttest.Subtable{PlatformID: 1, EncodingID: 0, Data: fonttest.Format0(glyphs)}
	f4 := fonttest.Subtable{PlatformID: 3, EncodingID: 1,
		Data: fonttest.Format4(fonttest.Segment{Start: 'A', End: 'A', Delta: 4 - 'A'})}
	f12 := fonttest.Subtable{PlatformID: 3, EncodingID: 10,
		Data: fonttest.Format12(fonttest.Group{Start: 'A', End: 'A', StartGlyph: 12})}
	tests := []struct {
		name      string
		subtables []fonttest.Subtable
		want      GlyphIndex
	}{
		{"full Unicode preferred", []fonttest.Subtable{f0, f4, f12}, 12},
		{"BMP over legacy", []fonttest.Subtable{f0, f4}, 4},
		{"legacy fallback", []fonttest.Subtable{f0}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmap := readCMapBytes(t, fonttest.CMap(tt.subtables...))
			if g := cmap.Lookup('A'); g != tt.want {
				t.Errorf("expected 'A' to map to %d, got %d", tt.want, g)
			}
		})
	}
}

func TestCMapNumGlyphsCap(t *testing.T) {
	cmap := readCMapBytes(t, standardCMap())
	if g := cmap.Lookup('Z'); g != 26 {
		t.Fatalf("expected 'Z' to map to 26, got %d", g)
	}
	cmap.NumGlyphs = 20
	if g := cmap.Lookup('Z'); g != 0 {
		t.Errorf("expected glyph beyond numGlyphs to map to 0, got %d", g)
	}
	if r := cmap.ReverseLookup(5); r != 'E' {
		t.Errorf("expected reverse lookup of 5 to be 'E', got %q", r)
	}
}

func TestCMapDecodingIsIdempotent(t *testing.T) {
	var glyphs [256]uint8
	glyphs[' '] = 3
	b := fonttest.CMap(
		fonttest.Subtable{PlatformID: 1, EncodingID: 0, Data: fonttest.Format0(glyphs)},
		fonttest.Subtable{PlatformID: 3, EncodingID: 1, Data: fonttest.Format4(
			fonttest.Segment{Start: 0x100, End: 0x101, Glyphs: []uint16{10, 11}})},
		fonttest.Subtable{PlatformID: 3, EncodingID: 10, Data: fonttest.Format12(
			fonttest.Group{Start: 0x1F600, End: 0x1F601, StartGlyph: 1})},
		fonttest.Subtable{PlatformID: 0, EncodingID: 6, Data: fonttest.Format10(0, 1)},
	)
	first, second := readCMapBytes(t, b), readCMapBytes(t, b)
	opts := cmp.Options{
		cmp.AllowUnexported(CMapFormat0{}, CMapFormat4{}, CMapFormat12{}, subtableHeader{}),
		cmpopts.IgnoreFields(SubtableResult{}, "Err"),
	}
	if diff := cmp.Diff(first.Subtables, second.Subtables, opts); diff != "" {
		t.Errorf("decoding twice differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.EncodingRecords, second.EncodingRecords); diff != "" {
		t.Errorf("encoding records differ (-first +second):\n%s", diff)
	}
	for i := range first.Subtables {
		e1, e2 := first.Subtables[i].Err, second.Subtables[i].Err
		if (e1 == nil) != (e2 == nil) || (e1 != nil && e1.Error() != e2.Error()) {
			t.Errorf("subtable %d: errors differ: %v vs %v", i, e1, e2)
		}
	}
}
