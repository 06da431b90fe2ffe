package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "cmap", "subtable", "subtables":
		pterm.Info.Println("cmap / Subtables")
		pterm.Println(`
	Table cmap maps code-points to glyph indices.
	It consists of encoding records, each linking to a subtable:
	+-------------+-------------+-------------------+
	| Platform ID | Encoding ID | Offset to subtable |
	+-------------+-------------+-------------------+
	Subtables come in formats 0, 2, 4, 6, 10, 12, 13 and 14.
	Formats 0, 2, 4, 6 and 12 are decoded. The subtable used for
	glyph lookup is marked with '*'.

	  cmap            list encoding records and decoding results
	  subtable:<i>    select subtable number i and describe it
	  lookup:<c>      look up a code-point, e.g. lookup:A or lookup:U+00E4
	  covered:<i>     count code-points covered by subtable i
	`)
	case "collection", "ttc":
		pterm.Info.Println("Font Collections")
		pterm.Println(`
	A font collection (TTC) starts with a 'ttcf' header, listing the
	offsets of the table directories of its fonts:
	+------+---------+----------+-------------------------+
	| ttcf | Version | NumFonts | Offset of directory ... |
	+------+---------+----------+-------------------------+
	Version 2.0 headers add a link to a DSIG table.

	  collection      show the collection header
	  collection:<i>  switch to font number i
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	Steps are separated by blanks, arguments follow a colon.

	  tables          list the table directory
	  table:<tag>     select a table and describe it, e.g. table:OS/2
	  head            show table head
	  names           show the font's names, names:<lang> prefers a language
	  errors          list errors and warnings from decoding
	  help:cmap       help on cmap commands
	  help:ttc        help on font collections
	  quit            leave the CLI
	`)
	}
}
