// Package font decodes font files into ordered glyph outlines.
//
// # Overview
//
// A [Decoder] turns raw font bytes (TrueType, OpenType/CFF, or a font
// collection) into a [GlyphSet]: the family name plus one [Glyph] per
// renderable character, in charset order. Each glyph carries a vector
// [Outline] made of move/line/quadratic/cubic segments with the Y axis
// pointing up.
//
// The order of [GlyphSet.Glyphs] is significant downstream: a glyph's index
// in the set becomes its stable index in the arranged collection, and its
// parametric coordinate is index/count.
//
// # Usage
//
//	dec := font.SFNTDecoder{Charset: "ABCDEF"}
//	set, err := dec.Decode(data)
//	if errors.Is(err, errors.ErrCodeEmptyFont) {
//	    // the font has none of the requested characters
//	}
//
// Characters without a glyph, and glyphs without an outline (such as the
// space), are skipped rather than reported.
//
// # Errors
//
// Malformed font bytes produce an error with code DECODE_FAILED. A font that
// parses but yields no drawable glyph for the charset produces EMPTY_FONT.
package font
