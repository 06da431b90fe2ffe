package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/otdecode/otquery"
	"github.com/thatisuday/commando"
)

func runCMapCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	_, otf := mustFontArgs(args, flags)
	if otf.CMap == nil {
		fatalf("font has no usable cmap table")
	}
	codepoints, err := parseCodepoints(args["codepoints"].Value)
	if err != nil {
		fatalf("%v", err)
	}
	covered := mustFlagBool(flags["covered"], "covered")

	for _, s := range otquery.SubtableSummaries(otf) {
		fmt.Println(s.String())
		if covered && s.Err == nil {
			fmt.Printf("    covers %d code-points\n", len(otquery.CoveredRunesOf(otf, s.Index)))
		}
	}
	for _, r := range codepoints {
		fmt.Printf("%#U => %s\n", r, formatLookups(otf.CMap.Subtables, r, otquery.GlyphIndex(otf, r)))
	}
}

// formatLookups shows the glyph each decoded subtable maps r to, followed by
// the glyph the font's preferred subtable delivers.
func formatLookups(subtables []ot.SubtableResult, r rune, preferred ot.GlyphIndex) string {
	parts := make([]string, 0, len(subtables)+1)
	for i, res := range subtables {
		if res.Subtable == nil {
			parts = append(parts, fmt.Sprintf("[%d]-", i))
			continue
		}
		parts = append(parts, fmt.Sprintf("[%d]%d", i, res.Subtable.Lookup(r)))
	}
	parts = append(parts, fmt.Sprintf("glyph=%d", preferred))
	return strings.Join(parts, " ")
}
