package otdecode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/otdecode/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTables(family string) []fonttest.Table {
	cmap := fonttest.CMap(fonttest.Subtable{
		PlatformID: 3, EncodingID: 1,
		Data: fonttest.Format4(fonttest.Segment{Start: 'A', End: 'Z', Delta: 1 - 'A'}),
	})
	return fonttest.StandardTables(27, family, cmap)
}

func TestFromBinary(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := FromBinary(fonttest.Font(fonttest.TrueType, testTables("Alpha")...))
	require.NoError(t, err)
	family, subfamily := FamilyName(otf)
	assert.Equal(t, "Alpha", family)
	assert.Equal(t, "Regular", subfamily)
	_, err = FromBinary([]byte{0, 1, 0})
	assert.Error(t, err, "expected error for truncated font")
}

func TestFromCollection(t *testing.T) {
	coll, err := FromCollection(fonttest.Collection(true, testTables("Alpha"), testTables("Beta")))
	require.NoError(t, err)
	require.Equal(t, 2, coll.Len())
	family, _ := FamilyName(coll.Font(1))
	assert.Equal(t, "Beta", family)
}

func TestLoadFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	dir := t.TempDir()
	single := filepath.Join(dir, "alpha.ttf")
	require.NoError(t, os.WriteFile(single, fonttest.Font(fonttest.TrueType, testTables("Alpha")...), 0o644))
	ttc := filepath.Join(dir, "family.ttc")
	require.NoError(t, os.WriteFile(ttc, fonttest.Collection(false, testTables("Alpha"), testTables("Beta")), 0o644))
	//
	otf, err := LoadFont(single, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, int(otf.CMap.Lookup('B')))
	_, err = LoadFont(single, 1)
	assert.Error(t, err, "expected error for index beyond single font")
	otf, err = LoadFont(ttc, 1)
	require.NoError(t, err)
	family, _ := FamilyName(otf)
	assert.Equal(t, "Beta", family)
	_, err = LoadFont(filepath.Join(dir, "missing.ttf"), 0)
	assert.Error(t, err)
}

func TestFamilyNamePrefersTypographicNames(t *testing.T) {
	tables := testTables("Alpha Bold")
	for i := range tables {
		if tables[i].Tag == "name" {
			tables[i].Data = fonttest.Name([]fonttest.NameEntry{
				fonttest.WindowsName(1, "Alpha Bold"),
				fonttest.WindowsName(2, "Regular"),
				fonttest.WindowsName(16, "Alpha"),
				fonttest.WindowsName(17, "Bold"),
			})
		}
	}
	otf, err := FromBinary(fonttest.Font(fonttest.TrueType, tables...))
	require.NoError(t, err)
	family, subfamily := FamilyName(otf)
	assert.Equal(t, "Alpha", family)
	assert.Equal(t, "Bold", subfamily)
}
