package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/otdecode/otquery"
	"github.com/pterm/pterm"
)

func printDirectory(otf *ot.Font) {
	dir := otf.Directory
	pterm.Printf("sfnt version %#08x, %d tables\n", dir.SfntVersion, dir.NumTables)
	data := [][]string{
		{"Tag", "Offset", "Length", "Checksum"},
	}
	for _, rec := range dir.Records {
		data = append(data, []string{
			rec.Tag.String(),
			fmt.Sprintf("%d", rec.Offset),
			fmt.Sprintf("%d", rec.Length),
			fmt.Sprintf("%#08x", rec.Checksum),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printTable(table ot.Table) {
	offset, size := table.Extent()
	self := table.Self()
	pterm.Printf("table %s at offset %d, %d bytes\n", self.NameTag(), offset, size)
	switch {
	case self.AsCMap() != nil:
		cmap := self.AsCMap()
		pterm.Printf("cmap version %d with %d encoding records\n", cmap.Version, cmap.NumTables)
	case self.AsHead() != nil:
		h := self.AsHead()
		pterm.Printf("units per em %d, loca format %d\n", h.UnitsPerEm, h.IndexToLocFormat)
	case self.AsMaxP() != nil:
		pterm.Printf("%d glyphs\n", self.AsMaxP().NumGlyphs)
	case self.AsName() != nil:
		n := self.AsName()
		pterm.Printf("name format %d with %d records\n", n.Format, len(n.Records))
	case self.AsDSIG() != nil:
		printSignatures(self.AsDSIG())
	}
}

func printSubtables(otf *ot.Font) {
	pterm.Printf("cmap has %d encoding records\n", len(otf.CMap.EncodingRecords))
	data := [][]string{
		{"", "Index", "Platform", "Encoding", "Format", "Status"},
	}
	for _, s := range otquery.SubtableSummaries(otf) {
		mark, status := "", "ok"
		if s.Selected {
			mark = "*"
		}
		if s.Err != nil {
			status = s.Err.Error()
		}
		data = append(data, []string{
			mark,
			fmt.Sprintf("%d", s.Index),
			fmt.Sprintf("%d", s.PlatformID),
			fmt.Sprintf("%d", s.EncodingID),
			fmt.Sprintf("%d", s.Format),
			status,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printSubtable(i int, res ot.SubtableResult) {
	pterm.Printf("subtable[%d] format %d\n", i, res.Format)
	if res.Err != nil {
		pterm.Printf("decoding error: %v\n", res.Err)
	}
	switch st := res.Subtable.(type) {
	case *ot.CMapFormat4:
		pterm.Printf("%d segments, %d glyph ids in trailing array\n", len(st.EndCodes), len(st.GlyphIDs))
	case *ot.CMapFormat12:
		pterm.Printf("%d groups\n", len(st.Groups))
	case *ot.CMapFormat14:
		for _, sel := range st.Selectors {
			pterm.Printf("variation selector %#U, default UVS @%d, non-default UVS @%d\n",
				sel.VarSelector, sel.DefaultUVSOffset, sel.NonDefaultUVSOffset)
		}
	case nil:
		return
	}
	if res.Subtable != nil {
		pterm.Printf("language %d\n", res.Subtable.Language())
	}
}

func printHead(fontType string, h otquery.HeadTableInfo) {
	data := [][]string{
		{"Field", "Value"},
		{"Font type", fontType},
		{"Version", h.Version},
		{"Font revision", h.FontRevision},
		{"Units per em", fmt.Sprintf("%d", h.UnitsPerEm)},
		{"Created", h.Created.Format(time.DateTime)},
		{"Modified", h.Modified.Format(time.DateTime)},
		{"Bounding box", fmt.Sprintf("(%d,%d) (%d,%d)", h.BBox.MinX, h.BBox.MinY, h.BBox.MaxX, h.BBox.MaxY)},
		{"Bold", fmt.Sprintf("%v", h.Bold())},
		{"Italic", fmt.Sprintf("%v", h.Italic())},
		{"Lowest PPEM", fmt.Sprintf("%d", h.LowestRecPPEM)},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printNames(names map[string]string) {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	data := [][]string{{"Name", "Value"}}
	for _, k := range keys {
		data = append(data, []string{k, names[k]})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printCollection(coll *ot.Collection, current int) {
	if coll.Header == nil {
		pterm.Println("single font, not a collection")
		return
	}
	h := coll.Header
	pterm.Printf("collection version %.1f with %d fonts\n", h.Version, len(h.Offsets))
	for i, off := range h.Offsets {
		mark := " "
		if i == current {
			mark = "*"
		}
		pterm.Printf("%s font %d at offset %d\n", mark, i, off)
	}
	if sig, ok := h.Signature.Unwrap(); ok && sig.Length > 0 {
		pterm.Printf("collection DSIG at offset %d, %d bytes\n", sig.Offset, sig.Length)
	}
}

func printSignatures(dsig *ot.DSIGTable) {
	pterm.Printf("DSIG version %d, %d signatures\n", dsig.Version, len(dsig.Signatures))
	for i, rec := range dsig.Signatures {
		if rec.Err != nil {
			pterm.Printf("signature %d: %v\n", i, rec.Err)
			continue
		}
		for _, cert := range rec.Certificates() {
			pterm.Printf("signature %d: signed by %s\n", i, cert.Subject.CommonName)
		}
	}
}

func printErrors(otf *ot.Font) {
	errs, warnings := otf.Errors(), otf.Warnings()
	if len(errs) == 0 && len(warnings) == 0 {
		pterm.Println("no errors or warnings")
		return
	}
	for _, e := range errs {
		pterm.Error.Println(e.Error())
	}
	for _, w := range warnings {
		pterm.Warning.Println(w.String())
	}
}
