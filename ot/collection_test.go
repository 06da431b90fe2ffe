package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/otdecode/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func standardCMap() []byte {
	return fonttest.CMap(fonttest.Subtable{
		PlatformID: 3, EncodingID: 1,
		Data: fonttest.Format4(fonttest.Segment{Start: 'A', End: 'Z', Delta: 1 - 'A'}),
	})
}

func TestReadCollectionHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	tables := fonttest.StandardTables(27, "Alpha", standardCMap())
	for _, withDSIG := range []bool{false, true} {
		coll := fonttest.Collection(withDSIG, tables, tables)
		if !IsCollection(coll) {
			t.Fatal("expected collection to be recognized")
		}
		h, err := ReadCollectionHeader(NewCursor(coll))
		if err != nil {
			t.Fatal(err)
		}
		if len(h.Offsets) != 2 {
			t.Errorf("expected 2 fonts in collection, got %d", len(h.Offsets))
		}
		if withDSIG {
			if h.Version != 2.0 || h.Signature.IsNone() {
				t.Errorf("expected version 2.0 header with signature, got %.1f/%v", h.Version, h.Signature.IsSome())
			}
		} else if h.Version != 1.0 || h.Signature.IsSome() {
			t.Errorf("expected version 1.0 header without signature, got %.1f/%v", h.Version, h.Signature.IsSome())
		}
	}
}

func TestReadCollectionHeaderBadTag(t *testing.T) {
	b := []byte{'t', 't', 'c', 'g', 0, 1, 0, 0, 0xff, 0xff, 0xff, 0xff}
	c := NewCursor(b)
	_, err := ReadCollectionHeader(c)
	if !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("expected ErrMalformedHeader for tag 'ttcg', got %v", err)
	}
	if c.Pos() != 4 {
		t.Errorf("expected no reads beyond the tag, position is %d", c.Pos())
	}
}

func TestReadCollectionHeaderTooManyFonts(t *testing.T) {
	b := []byte{'t', 't', 'c', 'f', 0, 1, 0, 0, 0x40, 0, 0, 0, 0, 0, 0, 12}
	_, err := ReadCollectionHeader(NewCursor(b))
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for numFonts exceeding the buffer, got %v", err)
	}
}

func TestParseCollection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	alpha := fonttest.StandardTables(27, "Alpha", standardCMap())
	beta := fonttest.StandardTables(40, "Beta", standardCMap())
	coll, err := ParseCollection(fonttest.Collection(false, alpha, beta, alpha))
	if err != nil {
		t.Fatal(err)
	}
	if coll.Len() != 3 {
		t.Fatalf("expected 3 fonts, got %d", coll.Len())
	}
	want := []int{27, 40, 27}
	for i, n := range want {
		otf := coll.Font(i)
		if otf == nil || otf.MaxP == nil {
			t.Fatalf("font %d not parsed", i)
		}
		if otf.MaxP.NumGlyphs != n {
			t.Errorf("font %d: expected %d glyphs, got %d", i, n, otf.MaxP.NumGlyphs)
		}
		if g := otf.CMap.Lookup('B'); g != 2 {
			t.Errorf("font %d: expected 'B' to map to glyph 2, got %d", i, g)
		}
	}
	if coll.Font(3) != nil || coll.Font(-1) != nil {
		t.Error("expected nil for font index out of range")
	}
}

func TestParseCollectionSingleFont(t *testing.T) {
	font := fonttest.Font(fonttest.TrueType, fonttest.StandardTables(27, "Alpha", standardCMap())...)
	coll, err := ParseCollection(font)
	if err != nil {
		t.Fatal(err)
	}
	if coll.Len() != 1 || coll.Header != nil {
		t.Errorf("expected a single font without collection header, got %d fonts", coll.Len())
	}
}

func TestParseCollectionBrokenFont(t *testing.T) {
	alpha := fonttest.StandardTables(27, "Alpha", standardCMap())
	broken := fonttest.StandardTables(27, "Broken", standardCMap())
	for i := range broken {
		if broken[i].Tag == "head" {
			head := fonttest.Head(1000)
			head[12] = 0 // destroy magic number
			broken[i].Data = head
		}
	}
	_, err := ParseCollection(fonttest.Collection(false, alpha, broken))
	if !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("expected ErrMalformedHeader from broken font, got %v", err)
	}
}
