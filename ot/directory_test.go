package ot

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/npillmayer/otdecode/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestReadTableDirectory(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	font := fonttest.Font(fonttest.TrueType,
		fonttest.Table{Tag: "cmap", Data: make([]byte, 12)},
		fonttest.Table{Tag: "head", Data: fonttest.Head(1000)},
		fonttest.Table{Tag: "maxp", Data: fonttest.MaxP(4)},
	)
	dir, err := ReadTableDirectory(NewCursor(font))
	if err != nil {
		t.Fatal(err)
	}
	if dir.SfntVersion != SfntVersionTrueType || !dir.IsKnownVersion() {
		t.Errorf("expected TrueType sfnt version, got %#x", dir.SfntVersion)
	}
	if dir.NumTables != 3 || len(dir.Records) != 3 {
		t.Fatalf("expected 3 table records, got %d/%d", dir.NumTables, len(dir.Records))
	}
	if dir.SearchRange != 32 || dir.EntrySelector != 1 || dir.RangeShift != 16 {
		t.Errorf("unexpected search hints %d/%d/%d", dir.SearchRange, dir.EntrySelector, dir.RangeShift)
	}
	for _, rec := range dir.Records {
		if uint64(rec.Offset)+uint64(rec.Length) > uint64(len(font)) {
			t.Errorf("record %s exceeds font", rec.Tag)
		}
		if !rec.VerifyChecksum(font) {
			t.Errorf("checksum of table %s does not verify", rec.Tag)
		}
	}
	head := dir.FindTable(T("head"))
	rec, ok := head.Unwrap()
	if !ok || rec.Length != 54 {
		t.Errorf("expected to find table head of length 54, got %v", rec)
	}
	if dir.FindTable(T("GSUB")).IsSome() {
		t.Error("did not expect to find table GSUB")
	}
	if tags := dir.Tags(); len(tags) != 3 || tags[2] != T("maxp") {
		t.Errorf("unexpected tags %v", tags)
	}
}

func TestReadTableDirectoryOutOfRange(t *testing.T) {
	font := fonttest.Font(fonttest.TrueType,
		fonttest.Table{Tag: "cmap", Data: make([]byte, 8)},
		fonttest.Table{Tag: "head", Data: fonttest.Head(1000)},
	)
	tests := []struct {
		name   string
		offset uint32
		length uint32
	}{
		{"length beyond end", 44, uint32(len(font))},
		{"offset beyond end", uint32(len(font)) + 4, 0},
		{"wrap-around", 0xFFFFFFF0, 0x20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := append([]byte(nil), font...)
			// second record starts at 12+16
			binary.BigEndian.PutUint32(b[28+8:], tt.offset)
			binary.BigEndian.PutUint32(b[28+12:], tt.length)
			_, err := ReadTableDirectory(NewCursor(b))
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("expected ErrOutOfRange, got %v", err)
			}
		})
	}
}

func TestReadTableDirectoryTruncated(t *testing.T) {
	font := fonttest.Font(fonttest.TrueType, fonttest.Table{Tag: "head", Data: fonttest.Head(1000)})
	_, err := ReadTableDirectory(NewCursor(font[:20])) // record cut off
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for truncated directory, got %v", err)
	}
}

func TestUnknownSfntVersionAccepted(t *testing.T) {
	font := fonttest.Font(0x12345678, fonttest.Table{Tag: "head", Data: fonttest.Head(1000)})
	dir, err := ReadTableDirectory(NewCursor(font))
	if err != nil {
		t.Fatalf("expected unknown sfnt version to be accepted, got %v", err)
	}
	if dir.IsKnownVersion() {
		t.Error("expected sfnt version 0x12345678 to be reported as unknown")
	}
}

func TestHeadChecksumSkipsAdjustment(t *testing.T) {
	head := fonttest.Head(2048)
	sum := tableChecksum(T("head"), head)
	binary.BigEndian.PutUint32(head[8:], 0xDEADBEEF)
	if tableChecksum(T("head"), head) != sum {
		t.Error("checkSumAdjustment must not contribute to the head checksum")
	}
	if tableChecksum(T("xxxx"), head) == sum {
		t.Error("expected checkSumAdjustment to contribute for other tables")
	}
}
