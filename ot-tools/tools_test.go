package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/npillmayer/otdecode/internal/fonttest"
	"github.com/npillmayer/otdecode/ot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCodepoints(t *testing.T) {
	runes, err := parseCodepoints("U+0041, 0x42 u+1F600\t43")
	require.NoError(t, err)
	assert.Equal(t, []rune{'A', 'B', 0x1F600, 'C'}, runes)
	_, err = parseCodepoints("U+110000")
	assert.Error(t, err)
	_, err = parseCodepoints("U+00G1")
	assert.Error(t, err)
	runes, err = parseCodepoints("")
	require.NoError(t, err)
	assert.Empty(t, runes)
}

func TestFormatLookups(t *testing.T) {
	var legacy [256]uint8
	legacy['A'] = 7
	cmap := fonttest.CMap(
		fonttest.Subtable{PlatformID: 1, EncodingID: 0, Data: fonttest.Format0(legacy)},
		fonttest.Subtable{PlatformID: 3, EncodingID: 1,
			Data: fonttest.Format4(fonttest.Segment{Start: 'A', End: 'Z', Delta: 1 - 'A'})},
		fonttest.Subtable{PlatformID: 3, EncodingID: 10, BadOffset: 0xFFFF0},
	)
	otf, err := ot.Parse(fonttest.Font(fonttest.TrueType, fonttest.StandardTables(27, "Alpha", cmap)...))
	require.NoError(t, err)
	s := formatLookups(otf.CMap.Subtables, 'A', otf.CMap.Lookup('A'))
	assert.Equal(t, "[0]7 [1]1 [2]- glyph=1", s)
}

func TestDrawRectOutline(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	red := color.RGBA{255, 0, 0, 255}
	drawRectOutline(img, 8, 8, 2, 2, red) // corners swapped
	assert.Equal(t, red, img.RGBAAt(2, 2))
	assert.Equal(t, red, img.RGBAAt(7, 5))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(5, 5), "expected interior to stay untouched")
	drawRectOutline(img, -5, -5, 20, 20, red) // clipped to image
	assert.Equal(t, red, img.RGBAAt(0, 9))
}
