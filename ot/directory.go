package ot

import "fmt"

// Recognized values for the sfnt version of a table directory.
const (
	SfntVersionTrueType uint32 = 0x00010000 // Windows TrueType
	SfntVersionCFF      uint32 = 0x4F54544F // 'OTTO', CFF outlines
	SfntVersionAppleTT  uint32 = 0x74727565 // 'true', Macintosh TrueType
	SfntVersionType1    uint32 = 0x74797031 // 'typ1', Macintosh Type 1
)

const (
	sfntHeaderSize  = 12
	tableRecordSize = 16
)

// TableRecord locates one table within the font's byte range.
type TableRecord struct {
	Tag      Tag
	Checksum uint32
	Offset   uint32 // from beginning of the font file
	Length   uint32
}

// TableDirectory is the directory of the top-level tables in a font. If the
// font file contains only one font, the table directory will begin at byte 0 of
// the file. If the font file is a font collection, the beginning of the table
// directory for each font is indicated in the collection header.
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for the SfntVersion. OpenType fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
// The Apple specification for TrueType fonts allows for 'true' and 'typ1',
// but these version tags should not be used for OpenType fonts.
type TableDirectory struct {
	Offset        int // position of the directory within the byte range
	SfntVersion   uint32
	NumTables     uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
	Records       []TableRecord
}

// ReadTableDirectory reads an sfnt header and its table records, starting at
// the cursor's current position.
//
// Every table record is checked against the size of the byte range right after
// it has been read. A record with offset or offset+length beyond the end of the
// range lets ReadTableDirectory fail with ErrOutOfRange.
// Unknown sfnt versions are accepted; see IsKnownVersion.
func ReadTableDirectory(c *Cursor) (*TableDirectory, error) {
	d := &TableDirectory{Offset: c.Pos()}
	var err error
	if d.SfntVersion, err = c.ReadU32(); err != nil {
		return nil, fmt.Errorf("sfnt header: %w", err)
	}
	if d.NumTables, err = c.ReadU16(); err != nil {
		return nil, fmt.Errorf("sfnt header: %w", err)
	}
	if d.SearchRange, err = c.ReadU16(); err != nil {
		return nil, fmt.Errorf("sfnt header: %w", err)
	}
	if d.EntrySelector, err = c.ReadU16(); err != nil {
		return nil, fmt.Errorf("sfnt header: %w", err)
	}
	if d.RangeShift, err = c.ReadU16(); err != nil {
		return nil, fmt.Errorf("sfnt header: %w", err)
	}
	tracer().Debugf("sfnt version = %x, %d tables", d.SfntVersion, d.NumTables)
	size := uint64(c.Size())
	d.Records = make([]TableRecord, 0, d.NumTables)
	for i := 0; i < int(d.NumTables); i++ {
		rec, err := readTableRecord(c)
		if err != nil {
			return nil, fmt.Errorf("table record %d: %w", i, err)
		}
		end, err := checkedAddUint32(rec.Offset, rec.Length)
		if err != nil {
			return nil, errRange("table %s: %v", rec.Tag, err)
		}
		if uint64(end) > size {
			return nil, errRange("table %s: bounds [%d:%d] exceed font size %d",
				rec.Tag, rec.Offset, end, size)
		}
		d.Records = append(d.Records, rec)
	}
	return d, nil
}

func readTableRecord(c *Cursor) (rec TableRecord, err error) {
	if rec.Tag, err = c.ReadTag(); err != nil {
		return
	}
	if rec.Checksum, err = c.ReadU32(); err != nil {
		return
	}
	if rec.Offset, err = c.ReadOffset32(); err != nil {
		return
	}
	rec.Length, err = c.ReadU32()
	return
}

// IsKnownVersion reports whether the directory's sfnt version is one of
// the four recognized values.
func (d *TableDirectory) IsKnownVersion() bool {
	switch d.SfntVersion {
	case SfntVersionTrueType, SfntVersionCFF, SfntVersionAppleTT, SfntVersionType1:
		return true
	}
	return false
}

// FindTable returns the first table record with a given tag.
func (d *TableDirectory) FindTable(tag Tag) Option[TableRecord] {
	if d == nil {
		return None[TableRecord]()
	}
	for _, rec := range d.Records {
		if rec.Tag == tag {
			return Some(rec)
		}
	}
	return None[TableRecord]()
}

// Tags returns the tags of all table records, in directory order.
func (d *TableDirectory) Tags() []Tag {
	tags := make([]Tag, len(d.Records))
	for i, rec := range d.Records {
		tags[i] = rec.Tag
	}
	return tags
}

// Bytes returns the byte range of the table a record points to. The record
// must have been read from a directory over font.
func (rec TableRecord) Bytes(font []byte) []byte {
	return font[rec.Offset : rec.Offset+rec.Length]
}

// VerifyChecksum recomputes the checksum of a table and compares it to the
// one stored in the table record. For table 'head' the checkSumAdjustment
// field is treated as zero.
func (rec TableRecord) VerifyChecksum(font []byte) bool {
	return rec.Checksum == tableChecksum(rec.Tag, rec.Bytes(font))
}

// tableChecksum sums up a table as uint32 words. A trailing partial word is
// padded with zeros.
func tableChecksum(tag Tag, b []byte) uint32 {
	var sum uint32
	for i := 0; i < len(b); i += 4 {
		if tag == T("head") && i == 8 {
			continue // checkSumAdjustment
		}
		var word [4]byte
		copy(word[:], b[i:])
		sum += u32(word[:])
	}
	return sum
}
