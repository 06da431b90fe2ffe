package fontload

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}

// ScalableFont is a font file's bytes, together with the view of package
// golang.org/x/image/font/sfnt on it.
//
// The sfnt view is a cross-check and an outline source for rendering. It is
// stricter than our own decoder; if it rejects the font, SFNT is nil and
// SFNTErr tells why, but loading does not fail.
type ScalableFont struct {
	Fontname string // full name of the first font, as seen by sfnt
	Filepath string
	Binary   []byte
	SFNT     *sfnt.Collection
	SFNTErr  error
}

// LoadOpenTypeFont loads an OpenType font or font collection from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f := ParseOpenTypeFont(bytez)
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont wraps font bytes in memory.
func ParseOpenTypeFont(fbytes []byte) *ScalableFont {
	f := &ScalableFont{Binary: fbytes}
	f.SFNT, f.SFNTErr = sfnt.ParseCollection(f.Binary)
	if f.SFNTErr != nil {
		tracer().Infof("sfnt cannot parse font: %v", f.SFNTErr)
		f.SFNT = nil
		return f
	}
	// sfnt parses the fonts of a collection lazily
	face, err := f.SFNT.Font(0)
	if err != nil {
		tracer().Infof("sfnt cannot parse font: %v", err)
		f.SFNT, f.SFNTErr = nil, err
		return f
	}
	if f.Fontname, err = face.Name(nil, sfnt.NameIDFull); err == nil {
		tracer().Debugf("loaded and parsed SFNT %s", f.Fontname)
	}
	return f
}

// NumFonts returns the number of fonts sfnt found, or 0 if sfnt rejected
// the font.
func (f *ScalableFont) NumFonts() int {
	if f == nil || f.SFNT == nil {
		return 0
	}
	return f.SFNT.NumFonts()
}

// Face returns sfnt's view of font i.
func (f *ScalableFont) Face(i int) (*sfnt.Font, error) {
	if f == nil || f.SFNT == nil {
		return nil, fmt.Errorf("no sfnt view of font: %v", f.sfntErr())
	}
	return f.SFNT.Font(i)
}

func (f *ScalableFont) sfntErr() error {
	if f == nil {
		return nil
	}
	return f.SFNTErr
}
