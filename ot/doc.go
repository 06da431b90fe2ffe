/*
Package ot decodes the binary structure of OpenType and TrueType font files.
Intended audience for this package are:

▪︎ font inspection tools, which need the table directory and character mappings of a font

▪︎ glyph rasterizers and text layout engines, which need to map code-points to glyphs

▪︎ any application needing to have the internal structure of an OpenType font file available,
and possibly extending the methods of package `ot` by handling additional font tables

Package `ot` operates on an in-memory byte range supplied by the client. It
does not open files, and it never modifies the bytes it is given. A Cursor reads
big-endian primitives from the range; the table directory and the collection
header are read with a Cursor, as are the tables decoded by this package.

The character-to-glyph mapping (table 'cmap') is decoded completely: every
encoding record is followed to its subtable, and subtables of formats 0, 2, 4,
6 and 12 are decoded. Formats 10 and 14 are recognized, but reported as
unsupported. A subtable failing to decode is recorded with its encoding record
and does not affect the other subtables.

Problems found in a font are either fatal, resulting in an error returned by
Parse, or recorded as FontError or FontWarning and made available through the
Font. Errors always wrap one of the error kinds ErrMalformedHeader,
ErrOutOfRange, ErrUnsupportedFormat or ErrEncoding, so clients may use
errors.Is to test for them.

Package `ot` will not provide functions to interpret glyph outlines or layout
rules. For example, it is not possible to ask package `ot` for a kerning
distance between two glyphs. From this point of view, `ot` is a low-level
package. Functions for getting font information in a more convenient form are
homed in the sister package otquery.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

/*
There are (at least) two Go packages around for parsing SFNT fonts:

▪ https://pkg.go.dev/golang.org/x/image/font/sfnt

▪ https://pkg.go.dev/github.com/ConradIrwin/font/sfnt

x/image/font/sfnt is well suited for rasterizing applications, but does not
expose the tables of a font, nor the cmap subtables other than the one it
selects. Package ot exposes all of them, together with the problems found
while decoding them.

Valuable resource:
http://opentypecookbook.com/
*/

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}
