package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/otdecode/internal/fontload"
	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/otdecode/otquery"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

func runViewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath, otf := mustFontArgs(args, flags)
	codepoints, err := parseCodepoints(args["codepoints"].Value)
	if err != nil {
		fatalf("%v", err)
	}
	if len(codepoints) == 0 {
		fatalf("no code-points to render")
	}
	outPath, err := flags["output"].GetString()
	if err != nil {
		fatalf("invalid --output flag: %v", err)
	}
	outPath = strings.TrimSpace(outPath)
	if outPath == "" {
		fatalf("output path is empty")
	}
	ppem := mustFlagInt(flags["ppem"], "ppem")
	width := mustFlagInt(flags["width"], "width")
	height := mustFlagInt(flags["height"], "height")
	showBBoxes := mustFlagBool(flags["show-bboxes"], "show-bboxes")
	if ppem <= 0 {
		fatalf("--ppem must be > 0")
	}
	if width <= 0 || height <= 0 {
		fatalf("--width and --height must be > 0")
	}

	sf, err := loadSFNT(fontPath, mustFlagInt(flags["index"], "index"))
	if err != nil {
		fatalf("%v", err)
	}
	var buf sfnt.Buffer
	glyphs := make([]ot.GlyphIndex, 0, len(codepoints))
	for _, r := range codepoints {
		gid := otquery.GlyphIndex(otf, r)
		if sgid, err := sf.GlyphIndex(&buf, r); err == nil && ot.GlyphIndex(sgid) != gid {
			fmt.Printf("warning: %#U maps to glyph %d, sfnt says %d\n", r, gid, sgid)
		}
		glyphs = append(glyphs, gid)
	}
	if err := renderGlyphRunPNG(sf, glyphs, outPath, width, height, ppem, showBBoxes); err != nil {
		fatalf("render failed: %v", err)
	}
	fmt.Printf("wrote %s (glyphs=%v)\n", outPath, glyphs)
}

// loadSFNT returns the outline view of font number index of a font file.
func loadSFNT(fontPath string, index int) (*sfnt.Font, error) {
	f, err := fontload.LoadOpenTypeFont(fontPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read font for rasterization: %w", err)
	}
	sf, err := f.Face(index)
	if err != nil {
		return nil, fmt.Errorf("cannot parse sfnt font for rasterization: %w", err)
	}
	return sf, nil
}

func renderGlyphRunPNG(sf *sfnt.Font, glyphs []ot.GlyphIndex, outPath string, width int, height int, ppem int, showBBoxes bool) error {
	if len(glyphs) == 0 {
		return errors.New("empty glyph run")
	}
	if sf.UnitsPerEm() <= 0 {
		return errors.New("invalid units-per-em")
	}

	type glyphPath struct {
		segs sfnt.Segments
		dx   float32
		box  fixed.Rectangle26_6
	}
	paths := make([]glyphPath, 0, len(glyphs))
	var (
		penX float32
		minX float32
		minY float32
		maxX float32
		maxY float32
		have bool
		buf  sfnt.Buffer
	)
	for _, g := range glyphs {
		gid := sfnt.GlyphIndex(g)
		segs, err := sf.LoadGlyph(&buf, gid, fixed.I(ppem), nil)
		if err != nil {
			continue
		}
		// sfnt.LoadGlyph results become invalid once the buffer is re-used.
		// Copy segments before the next sfnt call.
		segsCopy := append(sfnt.Segments(nil), segs...)
		b := segsCopy.Bounds()
		paths = append(paths, glyphPath{segs: segsCopy, dx: penX, box: b})

		sMinX := float32(b.Min.X)/64 + penX
		sMinY := float32(b.Min.Y) / 64
		sMaxX := float32(b.Max.X)/64 + penX
		sMaxY := float32(b.Max.Y) / 64
		if !have {
			minX, minY, maxX, maxY = sMinX, sMinY, sMaxX, sMaxY
			have = true
		} else {
			minX, minY = min(minX, sMinX), min(minY, sMinY)
			maxX, maxY = max(maxX, sMaxX), max(maxY, sMaxY)
		}
		if advance, err := sf.GlyphAdvance(&buf, gid, fixed.I(ppem), font.HintingNone); err == nil {
			penX += float32(advance) / 64
		}
	}
	if len(paths) == 0 {
		return errors.New("no drawable glyph paths found")
	}

	shiftX := (float32(width)-(maxX-minX))/2 - minX
	shiftY := (float32(height)-(maxY-minY))/2 - minY

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)

	rast := vector.NewRasterizer(width, height)
	rast.DrawOp = draw.Over
	for _, p := range paths {
		tx, ty := shiftX+p.dx, shiftY
		for _, seg := range p.segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				rast.MoveTo(tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64)
			case sfnt.SegmentOpLineTo:
				rast.LineTo(tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64)
			case sfnt.SegmentOpQuadTo:
				rast.QuadTo(
					tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64,
					tx+float32(seg.Args[1].X)/64, ty+float32(seg.Args[1].Y)/64,
				)
			case sfnt.SegmentOpCubeTo:
				rast.CubeTo(
					tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64,
					tx+float32(seg.Args[1].X)/64, ty+float32(seg.Args[1].Y)/64,
					tx+float32(seg.Args[2].X)/64, ty+float32(seg.Args[2].Y)/64,
				)
			}
		}
	}
	rast.Draw(img, img.Bounds(), image.Black, image.Point{})
	if showBBoxes {
		for _, p := range paths {
			minX := p.box.Min.X.Floor() + int(shiftX+p.dx)
			minY := p.box.Min.Y.Floor() + int(shiftY)
			maxX := p.box.Max.X.Ceil() + int(shiftX+p.dx)
			maxY := p.box.Max.Y.Ceil() + int(shiftY)
			drawRectOutline(img, minX, minY, maxX, maxY, color.RGBA{255, 0, 0, 255})
		}
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return nil
}

func drawRectOutline(img *image.RGBA, minX int, minY int, maxX int, maxY int, c color.RGBA) {
	if img == nil {
		return
	}
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	b := img.Bounds()
	minX, minY = max(minX, b.Min.X), max(minY, b.Min.Y)
	maxX, maxY = min(maxX, b.Max.X), min(maxY, b.Max.Y)
	if minX >= maxX || minY >= maxY {
		return
	}
	// top and bottom
	for x := minX; x < maxX; x++ {
		img.SetRGBA(x, minY, c)
		img.SetRGBA(x, maxY-1, c)
	}
	// left and right
	for y := minY; y < maxY; y++ {
		img.SetRGBA(minX, y, c)
		img.SetRGBA(maxX-1, y, c)
	}
}
