package ot

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// CollectionTag is the signature of a font collection file.
const CollectionTag Tag = 0x74746366 // 'ttcf'

// SignatureDescriptor locates the DSIG table of a font collection.
type SignatureDescriptor struct {
	Tag    Tag
	Length uint32
	Offset uint32
}

// CollectionHeader is the header of a font collection file (*.ttc, *.otc),
// listing the offsets of the table directories of the fonts contained.
type CollectionHeader struct {
	Tag       Tag
	Version   float64
	Offsets   []uint32                    // one per font, from beginning of file
	Signature Option[SignatureDescriptor] // present for version 2.0 headers only
}

// IsCollection reports whether a byte range starts with a collection header.
func IsCollection(font []byte) bool {
	return len(font) >= 4 && Tag(u32(font)) == CollectionTag
}

// ReadCollectionHeader reads a font collection header at the cursor's position.
// A tag other than 'ttcf' lets ReadCollectionHeader fail with ErrMalformedHeader
// before any further reads.
func ReadCollectionHeader(c *Cursor) (*CollectionHeader, error) {
	h := &CollectionHeader{}
	var err error
	if h.Tag, err = c.ReadTag(); err != nil {
		return nil, fmt.Errorf("collection header: %w", err)
	}
	if h.Tag != CollectionTag {
		return nil, fmt.Errorf("collection header: %w: tag %q is not 'ttcf'", ErrMalformedHeader, h.Tag)
	}
	if h.Version, err = c.ReadFixed(); err != nil {
		return nil, fmt.Errorf("collection header: %w", err)
	}
	numFonts, err := c.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("collection header: %w", err)
	}
	if err := c.fits(int(numFonts), 4); err != nil {
		return nil, fmt.Errorf("collection header: %d font offsets: %w", numFonts, err)
	}
	h.Offsets = make([]uint32, numFonts)
	for i := range h.Offsets {
		if h.Offsets[i], err = c.ReadOffset32(); err != nil {
			return nil, fmt.Errorf("collection header: %w", err)
		}
	}
	h.Signature = None[SignatureDescriptor]()
	if h.Version > 1.0 {
		sig := SignatureDescriptor{}
		if sig.Tag, err = c.ReadTag(); err != nil {
			return nil, fmt.Errorf("collection signature: %w", err)
		}
		if sig.Length, err = c.ReadU32(); err != nil {
			return nil, fmt.Errorf("collection signature: %w", err)
		}
		if sig.Offset, err = c.ReadOffset32(); err != nil {
			return nil, fmt.Errorf("collection signature: %w", err)
		}
		h.Signature = Some(sig)
	}
	tracer().Debugf("collection version %.1f with %d fonts", h.Version, numFonts)
	return h, nil
}

// Collection is a decoded font collection. Fonts share the collection's
// byte range; tables referenced by more than one font are decoded per font.
type Collection struct {
	Header *CollectionHeader
	fonts  []*Font
}

// Len returns the number of fonts in the collection.
func (coll *Collection) Len() int {
	if coll == nil {
		return 0
	}
	return len(coll.fonts)
}

// Font returns the i-th font of the collection, or nil if i is out of range.
func (coll *Collection) Font(i int) *Font {
	if coll == nil || i < 0 || i >= len(coll.fonts) {
		return nil
	}
	return coll.fonts[i]
}

// ParseCollection parses a font collection. The fonts contained are parsed
// concurrently, each with a cursor of its own. If any of the fonts fails to
// parse, the first error is returned.
//
// For convenience, a byte range holding a single font is accepted as well and
// results in a collection of size 1 without a header.
func ParseCollection(font []byte) (*Collection, error) {
	if !IsCollection(font) {
		otf, err := Parse(font)
		if err != nil {
			return nil, err
		}
		return &Collection{fonts: []*Font{otf}}, nil
	}
	h, err := ReadCollectionHeader(NewCursor(font))
	if err != nil {
		return nil, err
	}
	coll := &Collection{Header: h, fonts: make([]*Font, len(h.Offsets))}
	group, ctx := errgroup.WithContext(context.Background())
	for i, offset := range h.Offsets {
		i, offset := i, offset
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			otf, err := ParseAt(font, int(offset))
			if err != nil {
				return fmt.Errorf("font %d of collection: %w", i, err)
			}
			coll.fonts[i] = otf
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return coll, nil
}
