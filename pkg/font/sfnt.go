package font

import (
	stderrors "errors"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/glyphorbit/pkg/errors"
)

// SFNTDecoder decodes TrueType and OpenType fonts (and the first face of a
// font collection) with golang.org/x/image/font/sfnt.
//
// The zero value decodes [DefaultCharset] at [DefaultPPEM].
type SFNTDecoder struct {
	Charset string  // characters to decode, in order; duplicates are ignored
	PPEM    float64 // em size of the produced outlines
}

var _ Decoder = SFNTDecoder{}

// Decode parses data and extracts one glyph per charset character that has
// a non-empty outline.
func (d SFNTDecoder) Decode(data []byte) (*GlyphSet, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeDecodeFailed, "font data is empty")
	}
	f, err := parse(data)
	if err != nil {
		return nil, err
	}

	charset := d.Charset
	if charset == "" {
		charset = DefaultCharset
	}
	ppem := d.PPEM
	if ppem <= 0 {
		ppem = DefaultPPEM
	}
	fppem := fixed.Int26_6(ppem * 64)

	var buf sfnt.Buffer
	set := &GlyphSet{
		Family:     familyName(f, &buf),
		UnitsPerEm: int(f.UnitsPerEm()),
		PPEM:       ppem,
	}

	seen := make(map[rune]bool, len(charset))
	for _, r := range charset {
		if seen[r] {
			continue
		}
		seen[r] = true

		idx, err := f.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			continue
		}
		segs, err := f.LoadGlyph(&buf, idx, fppem, nil)
		if err != nil || len(segs) == 0 {
			continue
		}
		outline := convertSegments(segs)
		outline.EM = ppem
		if adv, err := f.GlyphAdvance(&buf, idx, fppem, 0); err == nil {
			outline.Advance = fromFixed(adv)
		}
		set.Glyphs = append(set.Glyphs, Glyph{Rune: r, Index: uint16(idx), Outline: outline})
	}

	if len(set.Glyphs) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyFont, "font %q has no outlines for the requested characters", set.Family)
	}
	return set, nil
}

func parse(data []byte) (*sfnt.Font, error) {
	f, err := sfnt.Parse(data)
	if err == nil {
		return f, nil
	}
	c, cerr := sfnt.ParseCollection(data)
	if cerr != nil || c.NumFonts() == 0 {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "parse font")
	}
	f, cerr = c.Font(0)
	if cerr != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, stderrors.Join(err, cerr), "parse font collection")
	}
	return f, nil
}

func familyName(f *sfnt.Font, buf *sfnt.Buffer) string {
	for _, id := range []sfnt.NameID{sfnt.NameIDTypographicFamily, sfnt.NameIDFamily, sfnt.NameIDFull} {
		if name, err := f.Name(buf, id); err == nil && name != "" {
			return name
		}
	}
	return "unknown"
}

// convertSegments copies sfnt segments into an Outline, flipping Y so the
// outline is Y-up.
func convertSegments(segs sfnt.Segments) Outline {
	out := Outline{Segments: make([]Segment, 0, len(segs))}
	for _, s := range segs {
		var seg Segment
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			seg.Op = OpMoveTo
		case sfnt.SegmentOpLineTo:
			seg.Op = OpLineTo
		case sfnt.SegmentOpQuadTo:
			seg.Op = OpQuadTo
		case sfnt.SegmentOpCubeTo:
			seg.Op = OpCubicTo
		default:
			continue
		}
		for i := 0; i < pointCount(seg.Op); i++ {
			seg.Points[i] = Point{X: fromFixed(s.Args[i].X), Y: -fromFixed(s.Args[i].Y)}
		}
		out.Segments = append(out.Segments, seg)
	}
	out.Bounds = boundsOf(out.Segments)
	return out
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
