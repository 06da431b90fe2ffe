package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/otdecode/otquery"
	"github.com/pterm/pterm"
	"golang.org/x/text/language"
)

func tablesOp(intp *Intp, op *Op) (error, bool) {
	printDirectory(intp.font)
	return nil, false
}

func tableOp(intp *Intp, op *Op) (error, bool) {
	tag, ok := op.hasArg()
	if !ok {
		if err := intp.checkTable(); err != nil {
			return err, false
		}
		printTable(intp.table)
		return nil, false
	}
	if intp.table = intp.font.Table(ot.T(tag)); intp.table == nil {
		return errors.New("table not found in font"), false
	}
	intp.subtable = -1
	tracer().Infof("setting table: %v", tag)
	printTable(intp.table)
	return nil, false
}

func cmapOp(intp *Intp, op *Op) (error, bool) {
	if intp.font.CMap == nil {
		return errors.New("font has no usable cmap table"), false
	}
	intp.table = intp.font.CMap
	printSubtables(intp.font)
	return nil, false
}

func subtableOp(intp *Intp, op *Op) (err error, stop bool) {
	if intp.font.CMap == nil {
		return errors.New("font has no usable cmap table"), false
	}
	arg, ok := op.hasArg()
	if !ok {
		var res ot.SubtableResult
		if res, err = intp.checkSubtable(); err == nil {
			printSubtable(intp.subtable, res)
		}
		return
	}
	i, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("subtable index not numeric: %v", arg), false
	}
	if i < 0 || i >= len(intp.font.CMap.Subtables) {
		return fmt.Errorf("subtable index out of range: %d", i), false
	}
	intp.table, intp.subtable = intp.font.CMap, i
	printSubtable(i, intp.font.CMap.Subtables[i])
	return nil, false
}

func lookupOp(intp *Intp, op *Op) (error, bool) {
	arg, ok := op.hasArg()
	if !ok {
		return errors.New("lookup needs a code-point"), false
	}
	r, err := parseCodepoint(arg)
	if err != nil {
		return err, false
	}
	if res, err := intp.checkSubtable(); err == nil {
		if res.Subtable == nil {
			return fmt.Errorf("subtable %d not decoded: %v", intp.subtable, res.Err), false
		}
		pterm.Printf("subtable[%d] maps %#U => glyph %d\n", intp.subtable, r, res.Subtable.Lookup(r))
		return nil, false
	}
	pterm.Printf("%#U => glyph %d\n", r, otquery.GlyphIndex(intp.font, r))
	return nil, false
}

func coveredOp(intp *Intp, op *Op) (error, bool) {
	var runes []rune
	if arg, ok := op.hasArg(); ok {
		i, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("subtable index not numeric: %v", arg), false
		}
		runes = otquery.CoveredRunesOf(intp.font, i)
	} else if intp.subtable >= 0 {
		runes = otquery.CoveredRunesOf(intp.font, intp.subtable)
	} else {
		runes = otquery.CoveredRunes(intp.font)
	}
	pterm.Printf("%d code-points covered\n", len(runes))
	if len(runes) > 0 {
		pterm.Printf("first %#U, last %#U\n", runes[0], runes[len(runes)-1])
	}
	return nil, false
}

func headOp(intp *Intp, op *Op) (error, bool) {
	h, ok := otquery.HeadInfo(intp.font)
	if !ok {
		return errors.New("font has no table head"), false
	}
	printHead(otquery.FontType(intp.font), h)
	return nil, false
}

func namesOp(intp *Intp, op *Op) (error, bool) {
	lang := language.Und
	if arg, ok := op.hasArg(); ok {
		var err error
		if lang, err = language.Parse(arg); err != nil {
			return fmt.Errorf("invalid language %q: %w", arg, err), false
		}
	}
	printNames(otquery.NameInfo(intp.font, lang))
	return nil, false
}

func collectionOp(intp *Intp, op *Op) (error, bool) {
	if arg, ok := op.hasArg(); ok {
		i, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("font index not numeric: %v", arg), false
		}
		if err := intp.selectFont(i); err != nil {
			return err, false
		}
	}
	printCollection(intp.coll, intp.index)
	return nil, false
}

func errorsOp(intp *Intp, op *Op) (error, bool) {
	printErrors(intp.font)
	return nil, false
}

// parseCodepoint accepts a single character, or a code-point in notation
// U+XXXX or 0xXXXX.
func parseCodepoint(s string) (rune, error) {
	upper := strings.ToUpper(s)
	for _, prefix := range []string{"U+", "0X"} {
		if hex, ok := strings.CutPrefix(upper, prefix); ok {
			n, err := strconv.ParseUint(hex, 16, 32)
			if err != nil || n > 0x10FFFF {
				return 0, fmt.Errorf("invalid code-point: %s", s)
			}
			return rune(n), nil
		}
	}
	if r, size := utf8.DecodeRuneInString(s); r != utf8.RuneError && size == len(s) {
		return r, nil
	}
	return 0, fmt.Errorf("invalid code-point: %s", s)
}
