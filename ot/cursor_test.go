package ot

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestCursorPrimitives(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b := []byte{
		0x12, 0x34, // u16
		0xff, 0xfe, // i16 = -2
		0x01, 0x02, 0x03, // u24
		0x00, 0x01, 0x80, 0x00, // Fixed 1.5
		0xc0, 0x00, // F2Dot14 -1.0
		'c', 'm', 'a', 'p', // tag
		0x80, // i8
	}
	c := NewCursor(b)
	if n, err := c.ReadU16(); err != nil || n != 0x1234 {
		t.Errorf("expected u16 0x1234, got %#x (%v)", n, err)
	}
	if n, err := c.ReadI16(); err != nil || n != -2 {
		t.Errorf("expected i16 -2, got %d (%v)", n, err)
	}
	if n, err := c.ReadU24(); err != nil || n != 0x010203 {
		t.Errorf("expected u24 0x010203, got %#x (%v)", n, err)
	}
	if f, err := c.ReadFixed(); err != nil || f != 1.5 {
		t.Errorf("expected Fixed 1.5, got %f (%v)", f, err)
	}
	if f, err := c.ReadF2Dot14(); err != nil || f != -1.0 {
		t.Errorf("expected F2Dot14 -1.0, got %f (%v)", f, err)
	}
	if tag, err := c.ReadTag(); err != nil || tag != T("cmap") {
		t.Errorf("expected tag 'cmap', got %s (%v)", tag, err)
	}
	if n, err := c.ReadI8(); err != nil || n != -128 {
		t.Errorf("expected i8 -128, got %d (%v)", n, err)
	}
	if c.Remaining() != 0 {
		t.Errorf("expected cursor to be exhausted, %d bytes remaining", c.Remaining())
	}
}

func TestCursorPeekDoesNotAdvance(t *testing.T) {
	c := NewCursor([]byte{0, 4, 0, 1})
	p, err := c.PeekU16()
	if err != nil || p != 4 {
		t.Fatalf("expected peek 4, got %d (%v)", p, err)
	}
	if c.Pos() != 0 {
		t.Errorf("peek must not advance the read position, pos is %d", c.Pos())
	}
	n, _ := c.ReadU16()
	if n != p {
		t.Errorf("expected read after peek to yield %d, got %d", p, n)
	}
}

func TestCursorOutOfRange(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	c.Seek(2)
	if _, err := c.ReadU16(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange reading 2 bytes at offset 2 of 3, got %v", err)
	}
	if c.Pos() != 2 {
		t.Errorf("failed read must not advance the position, pos is %d", c.Pos())
	}
	if n, err := c.ReadU8(); err != nil || n != 3 {
		t.Errorf("expected last byte to be readable, got %d (%v)", n, err)
	}
	if _, err := c.ReadBytes(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for negative byte count, got %v", err)
	}
}

func TestCursorLazySeek(t *testing.T) {
	c := NewCursor(make([]byte, 8))
	c.Seek(100) // no error on seek itself
	if c.Remaining() != 0 {
		t.Errorf("expected 0 remaining beyond the end, got %d", c.Remaining())
	}
	if _, err := c.ReadU8(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange after seeking beyond the end, got %v", err)
	}
	c.Seek(6)
	if _, err := c.ReadU16(); err != nil {
		t.Errorf("expected read after re-seek to succeed, got %v", err)
	}
}

func TestCursorLongDateTime(t *testing.T) {
	tests := []struct {
		name string
		secs int64
		want time.Time
	}{
		{"Mac epoch", 0, time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"Unix epoch", 2082844800, time.Unix(0, 0).UTC()},
		{"Before 1904", -86400, time.Date(1903, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"Earliest unclamped", math.MinInt64 + 2082844800, time.Unix(math.MinInt64, 0).UTC()},
		{"Clamped", math.MinInt64, time.Unix(math.MinInt64, 0).UTC()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, 8)
			u := uint64(tt.secs)
			for i := 0; i < 8; i++ {
				b[i] = byte(u >> (56 - 8*i))
			}
			got, err := NewCursor(b).ReadLongDateTime()
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if got.Location() != time.UTC {
				t.Errorf("expected UTC, got %v", got.Location())
			}
		})
	}
}

func TestCursorTranscodedString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	tests := []struct {
		name  string
		input []byte
		from  string
		want  string
	}{
		{"UTF-16BE", []byte{0, 'O', 0, 'K', 0x20, 0xAC}, "utf-16be", "OK€"},
		{"Mac Roman", []byte{'c', 'a', 'f', 0x8E}, "macroman", "café"},
		{"Latin-1", []byte{'n', 0xE4, 'h'}, "iso-8859-1", "näh"},
		{"UTF-8", []byte("plain"), "utf-8", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.input)
			s, err := c.ReadTranscodedString(len(tt.input), tt.from, "utf-8")
			if err != nil {
				t.Fatal(err)
			}
			if s != tt.want {
				t.Errorf("expected %q, got %q", tt.want, s)
			}
			if c.Remaining() != 0 {
				t.Errorf("expected all bytes consumed, %d remaining", c.Remaining())
			}
		})
	}
}

func TestCursorTranscodeErrors(t *testing.T) {
	c := NewCursor([]byte{'a', 'b'})
	if s, err := c.ReadTranscodedString(0, "no-such-charset", "utf-8"); err != nil || s != "" {
		t.Errorf("zero-length read must yield empty string without error, got %q (%v)", s, err)
	}
	if c.Pos() != 0 {
		t.Errorf("zero-length read must not advance, pos is %d", c.Pos())
	}
	if _, err := c.ReadTranscodedString(2, "no-such-charset", "utf-8"); !errors.Is(err, ErrEncoding) {
		t.Errorf("expected ErrEncoding for unknown charset, got %v", err)
	}
	c = NewCursor([]byte{0xE2, 0x86, 0x92}) // '→' in UTF-8
	if _, err := c.ReadTranscodedString(3, "utf-8", "iso-8859-1"); !errors.Is(err, ErrEncoding) {
		t.Errorf("expected ErrEncoding for unmappable character, got %v", err)
	}
}
