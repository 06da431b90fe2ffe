package ot

import (
	"fmt"

	"golang.org/x/image/font/sfnt"
)

// --- hhea ------------------------------------------------------------------

// HHeaTable contains information for horizontal layout.
type HHeaTable struct {
	tableBase
	Version             float64
	Ascender            sfnt.Units
	Descender           sfnt.Units
	LineGap             sfnt.Units
	AdvanceWidthMax     sfnt.Units
	MinLeftSideBearing  sfnt.Units
	MinRightSideBearing sfnt.Units
	XMaxExtent          sfnt.Units
	CaretSlopeRise      int16
	CaretSlopeRun       int16
	CaretOffset         int16
	MetricDataFormat    int16
	NumberOfHMetrics    int
}

const hheaTableSize = 36

func newHHeaTable(tag Tag, b binarySegm, offset, size uint32) *HHeaTable {
	t := &HHeaTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

func parseHHea(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	c := NewCursor(b)
	if c.Remaining() < hheaTableSize {
		err := errRange("hhea table too small: %d bytes (need %d)", c.Remaining(), hheaTableSize)
		ec.addError(tag, "Size", err, SeverityCritical, offset)
		return newTable(tag, b, offset, size), nil
	}
	t := newHHeaTable(tag, b, offset, size)
	fword := func() sfnt.Units {
		n, _ := c.ReadFWord()
		return sfnt.Units(n)
	}
	t.Version, _ = c.ReadFixed()
	t.Ascender = fword()
	t.Descender = fword()
	t.LineGap = fword()
	aw, _ := c.ReadUFWord()
	t.AdvanceWidthMax = sfnt.Units(aw)
	t.MinLeftSideBearing = fword()
	t.MinRightSideBearing = fword()
	t.XMaxExtent = fword()
	t.CaretSlopeRise, _ = c.ReadI16()
	t.CaretSlopeRun, _ = c.ReadI16()
	t.CaretOffset, _ = c.ReadI16()
	c.Skip(8) // reserved
	t.MetricDataFormat, _ = c.ReadI16()
	n, _ := c.ReadU16()
	t.NumberOfHMetrics = int(n)
	return t, nil
}

// --- hmtx ------------------------------------------------------------------

// HMtxTable contains metric information for the horizontal layout each of the glyphs in
// the font. Each element in the contained hMetrics-array has two parts: the advance width
// and left side bearing. The value NumberOfHMetrics is taken from the `hhea` table. In
// a monospaced font, only one entry is required but that entry may not be omitted.
// Optionally, an array of left side bearings follows.
// The corresponding glyphs are assumed to have the same
// advance width as that found in the last entry in the hMetrics array. Since there
// must be a left side bearing and an advance width associated with each glyph in the font,
// the number of entries in this array is derived from the total number of glyphs in the
// font minus the value `HHea.NumberOfHMetrics`.
//
// hmtx cannot be decoded on its own, as it depends on 'hhea' and 'maxp'. It is
// decoded after all tables of a font have been read.
type HMtxTable struct {
	tableBase
	NumberOfHMetrics int
	numGlyphs        int
	longMetrics      []HMetricRecord
	leftSideBearings []int16
}

// HMetricRecord is one long horizontal metric record from table hmtx.
type HMetricRecord struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

func newHMtxTable(tag Tag, b binarySegm, offset, size uint32) *HMtxTable {
	t := &HMtxTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

func (t *HMtxTable) parseAll(numGlyphs, numberOfHMetrics int) error {
	if t == nil {
		return nil
	}
	if numberOfHMetrics < 0 || numberOfHMetrics > numGlyphs {
		return fmt.Errorf("invalid numberOfHMetrics %d (numGlyphs=%d)", numberOfHMetrics, numGlyphs)
	}
	required := numberOfHMetrics*4 + (numGlyphs-numberOfHMetrics)*2
	if required > len(t.data) {
		return errRange("hmtx table too small: need %d bytes, have %d", required, len(t.data))
	}
	c := NewCursor(t.data)
	longMetrics := make([]HMetricRecord, numberOfHMetrics)
	for i := range longMetrics {
		longMetrics[i].AdvanceWidth, _ = c.ReadUFWord()
		longMetrics[i].LeftSideBearing, _ = c.ReadFWord()
	}
	leftSideBearings := make([]int16, numGlyphs-numberOfHMetrics)
	for i := range leftSideBearings {
		leftSideBearings[i], _ = c.ReadFWord()
	}
	t.NumberOfHMetrics = numberOfHMetrics
	t.numGlyphs = numGlyphs
	t.longMetrics = longMetrics
	t.leftSideBearings = leftSideBearings
	return nil
}

// LongMetrics returns a copy of all long horizontal metrics records.
func (t *HMtxTable) LongMetrics() []HMetricRecord {
	if t == nil || len(t.longMetrics) == 0 {
		return nil
	}
	metrics := make([]HMetricRecord, len(t.longMetrics))
	copy(metrics, t.longMetrics)
	return metrics
}

// GlyphCount returns the glyph count used when decoding this hmtx table.
func (t *HMtxTable) GlyphCount() int {
	if t == nil {
		return 0
	}
	return t.numGlyphs
}

// HMetrics returns the advance width and left side bearing for a glyph.
func (t *HMtxTable) HMetrics(g GlyphIndex) (uint16, int16, bool) {
	if t == nil || t.numGlyphs == 0 || int(g) >= t.numGlyphs {
		return 0, 0, false
	}
	if int(g) < len(t.longMetrics) {
		m := t.longMetrics[int(g)]
		return m.AdvanceWidth, m.LeftSideBearing, true
	}
	if len(t.longMetrics) == 0 {
		return 0, 0, false
	}
	i := int(g) - len(t.longMetrics)
	if i >= len(t.leftSideBearings) {
		return 0, 0, false
	}
	return t.longMetrics[len(t.longMetrics)-1].AdvanceWidth, t.leftSideBearings[i], true
}

// --- maxp ------------------------------------------------------------------

// MaxPTable establishes the memory requirements for this font.
// The 'maxp' table contains a count for the number of glyphs in the font.
// Version 0.5 tables (CFF fonts) contain only the glyph count; version 1.0
// tables (TrueType fonts) add the TrueType profile.
type MaxPTable struct {
	tableBase
	Version   uint32
	NumGlyphs int
	Profile   Option[MaxPProfile]
}

// MaxPProfile holds the fields of a version 1.0 maxp table.
type MaxPProfile struct {
	MaxPoints             uint16
	MaxContours           uint16
	MaxCompositePoints    uint16
	MaxCompositeContours  uint16
	MaxZones              uint16
	MaxTwilightPoints     uint16
	MaxStorage            uint16
	MaxFunctionDefs       uint16
	MaxInstructionDefs    uint16
	MaxStackElements      uint16
	MaxSizeOfInstructions uint16
	MaxComponentElements  uint16
	MaxComponentDepth     uint16
}

const (
	maxpMinSize = 6
	maxpV10Size = 32
)

func newMaxPTable(tag Tag, b binarySegm, offset, size uint32) *MaxPTable {
	t := &MaxPTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

func parseMaxP(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	c := NewCursor(b)
	if c.Remaining() < maxpMinSize {
		err := errRange("maxp table too small: %d bytes", c.Remaining())
		ec.addError(tag, "Size", err, SeverityCritical, offset)
		return newTable(tag, b, offset, size), nil
	}
	t := newMaxPTable(tag, b, offset, size)
	t.Version, _ = c.ReadU32()
	n, _ := c.ReadU16()
	t.NumGlyphs = int(n)
	t.Profile = None[MaxPProfile]()
	if t.Version != 0x00010000 {
		return t, nil
	}
	if c.Size() < maxpV10Size {
		ec.addWarning(tag, "version 1.0 table without TrueType profile", offset)
		return t, nil
	}
	p := MaxPProfile{}
	for _, field := range []*uint16{
		&p.MaxPoints, &p.MaxContours, &p.MaxCompositePoints, &p.MaxCompositeContours,
		&p.MaxZones, &p.MaxTwilightPoints, &p.MaxStorage, &p.MaxFunctionDefs,
		&p.MaxInstructionDefs, &p.MaxStackElements, &p.MaxSizeOfInstructions,
		&p.MaxComponentElements, &p.MaxComponentDepth,
	} {
		*field, _ = c.ReadU16()
	}
	t.Profile = Some(p)
	return t, nil
}
