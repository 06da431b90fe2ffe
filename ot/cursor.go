package ot

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Cursor decodes big-endian primitives from a font's byte range. It owns a
// read position, which every read advances.
//
// A Cursor belongs to exactly one parse. Cursors must not be shared between
// goroutines, but any number of cursors may read the same byte range
// concurrently, as the underlying bytes are never modified.
type Cursor struct {
	data binarySegm
	pos  int
}

// NewCursor creates a cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{data: b}
}

// Seek sets the absolute read position. Seeking beyond the end of the range
// is allowed; the next read will fail with ErrOutOfRange.
func (c *Cursor) Seek(pos int) {
	c.pos = pos
}

// Skip advances the read position by n bytes.
func (c *Cursor) Skip(n int) {
	c.pos += n
}

// Pos returns the current absolute read position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Size returns the total length of the byte range.
func (c *Cursor) Size() int {
	return len(c.data)
}

// Remaining returns the number of bytes between the read position and the
// end of the range, or 0 if the cursor has been positioned beyond the end.
func (c *Cursor) Remaining() int {
	if c.pos >= len(c.data) || c.pos < 0 {
		return 0
	}
	return len(c.data) - c.pos
}

func (c *Cursor) next(n int) (binarySegm, error) {
	b, err := c.data.view(c.pos, n)
	if err != nil {
		return nil, err
	}
	c.pos += n
	return b, nil
}

// ReadU8 reads an unsigned byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads a signed byte.
func (c *Cursor) ReadI8() (int8, error) {
	n, err := c.ReadU8()
	return int8(n), err
}

// ReadU16 reads a big-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.next(2)
	if err != nil {
		return 0, err
	}
	return u16(b), nil
}

// PeekU16 reads a big-endian uint16 without advancing the read position.
func (c *Cursor) PeekU16() (uint16, error) {
	b, err := c.data.view(c.pos, 2)
	if err != nil {
		return 0, err
	}
	return u16(b), nil
}

// ReadI16 reads a big-endian int16.
func (c *Cursor) ReadI16() (int16, error) {
	n, err := c.ReadU16()
	return int16(n), err
}

// ReadU24 reads a big-endian 24-bit unsigned integer.
func (c *Cursor) ReadU24() (uint32, error) {
	b, err := c.next(3)
	if err != nil {
		return 0, err
	}
	return u24(b), nil
}

// ReadU32 reads a big-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.next(4)
	if err != nil {
		return 0, err
	}
	return u32(b), nil
}

// ReadI32 reads a big-endian int32.
func (c *Cursor) ReadI32() (int32, error) {
	n, err := c.ReadU32()
	return int32(n), err
}

// ReadFixed reads a signed 16.16 fixed-point number.
func (c *Cursor) ReadFixed() (float64, error) {
	n, err := c.ReadI32()
	if err != nil {
		return 0, err
	}
	return float64(n) / 65536.0, nil
}

// ReadF2Dot14 reads a signed 2.14 fixed-point number.
func (c *Cursor) ReadF2Dot14() (float64, error) {
	n, err := c.ReadI16()
	if err != nil {
		return 0, err
	}
	return float64(n) / 16384.0, nil
}

// ReadTag reads a 4-byte tag.
func (c *Cursor) ReadTag() (Tag, error) {
	n, err := c.ReadU32()
	return Tag(n), err
}

// ReadFWord reads a quantity in font design units.
func (c *Cursor) ReadFWord() (int16, error) {
	return c.ReadI16()
}

// ReadUFWord reads an unsigned quantity in font design units.
func (c *Cursor) ReadUFWord() (uint16, error) {
	return c.ReadU16()
}

// ReadOffset16 reads a 16-bit offset. 0 is the null offset.
func (c *Cursor) ReadOffset16() (uint16, error) {
	return c.ReadU16()
}

// ReadOffset32 reads a 32-bit offset. 0 is the null offset.
func (c *Cursor) ReadOffset32() (uint32, error) {
	return c.ReadU32()
}

// macEpochDelta is the number of seconds between 1904-01-01 and 1970-01-01.
const macEpochDelta = 2082844800

// ReadLongDateTime reads a signed 64-bit count of seconds since
// 1904-01-01T00:00:00Z and returns it as a UTC time. Values too far in the
// past to be expressed in Unix seconds are clamped to the earliest such time.
func (c *Cursor) ReadLongDateTime() (time.Time, error) {
	b, err := c.next(8)
	if err != nil {
		return time.Time{}, err
	}
	secs := int64(uint64(u32(b))<<32 | uint64(u32(b[4:])))
	if secs < math.MinInt64+macEpochDelta {
		secs = math.MinInt64 + macEpochDelta
	}
	return time.Unix(secs-macEpochDelta, 0).UTC(), nil
}

// ReadBytes returns the next n bytes. The slice returned is a view into the
// font's data and must be treated as read-only.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errRange("negative byte count %d", n)
	}
	b, err := c.next(n)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ReadTranscodedString reads n bytes encoded in charset from and converts them
// to charset to. Charsets are given by their WHATWG names ("utf-8",
// "windows-1252", …); in addition, "utf-16be" and "macroman" are understood.
// For n = 0 the empty string is returned without reading.
//
// Conversion failures wrap ErrEncoding.
func (c *Cursor) ReadTranscodedString(n int, from, to string) (string, error) {
	if n == 0 {
		return "", nil
	}
	b, err := c.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return transcode(b, from, to)
}

func transcode(b []byte, from, to string) (string, error) {
	src, err := lookupCharset(from)
	if err != nil {
		return "", err
	}
	s, err := src.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: decoding from %s: %v", ErrEncoding, from, err)
	}
	dst, err := lookupCharset(to)
	if err != nil {
		return "", err
	}
	if dst == encoding.Nop {
		return string(s), nil
	}
	out, err := dst.NewEncoder().Bytes(s)
	if err != nil {
		return "", fmt.Errorf("%w: encoding to %s: %v", ErrEncoding, to, err)
	}
	return string(out), nil
}

// lookupCharset returns an encoding for a charset name. UTF-8 is returned as
// encoding.Nop, as Go strings are UTF-8 already.
func lookupCharset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8", "":
		return encoding.Nop, nil
	case "utf-16be", "utf16be", "utf-16":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "macroman", "macintosh", "mac":
		return charmap.Macintosh, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown charset %q", ErrEncoding, name)
	}
	return enc, nil
}
