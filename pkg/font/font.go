package font

import (
	"math"
)

// DefaultCharset is the set of characters decoded when no charset is given:
// printable ASCII followed by the Latin-1 letters.
const DefaultCharset = "!\"#$%&'()*+,-./0123456789:;<=>?@" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~" +
	"ÀÁÂÃÄÅÆÇÈÉÊËÌÍÎÏÐÑÒÓÔÕÖØÙÚÛÜÝÞßàáâãäåæçèéêëìíîïðñòóôõöøùúûüýþÿ"

// DefaultPPEM is the pixels-per-em size outlines are decoded at.
const DefaultPPEM = 100.0

// Decoder turns raw font bytes into a glyph set.
type Decoder interface {
	Decode(data []byte) (*GlyphSet, error)
}

// Op is the kind of an outline segment.
type Op uint8

const (
	OpMoveTo Op = iota
	OpLineTo
	OpQuadTo
	OpCubicTo
)

// String returns a string representation of the operation.
func (op Op) String() string {
	switch op {
	case OpMoveTo:
		return "MoveTo"
	case OpLineTo:
		return "LineTo"
	case OpQuadTo:
		return "QuadTo"
	case OpCubicTo:
		return "CubicTo"
	default:
		return "Unknown"
	}
}

// Point is a 2D outline coordinate. Y grows upwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is one path operation.
//   - MoveTo, LineTo: Points[0] is the target
//   - QuadTo: Points[0] is the control, Points[1] the target
//   - CubicTo: Points[0] and Points[1] are controls, Points[2] the target
type Segment struct {
	Op     Op       `json:"op"`
	Points [3]Point `json:"points"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Outline is the vector outline of a single glyph, made of one or more
// closed contours. Each contour starts with a MoveTo.
type Outline struct {
	Segments []Segment `json:"segments"`
	Bounds   Rect      `json:"bounds"`
	Advance  float64   `json:"advance"`

	// EM is the em size the coordinates are expressed in. A glyph meshed at
	// size s is scaled by s/EM.
	EM float64 `json:"em"`
}

// IsEmpty reports whether the outline has no segments.
func (o Outline) IsEmpty() bool { return len(o.Segments) == 0 }

// Contours returns the number of contours in the outline.
func (o Outline) Contours() int {
	n := 0
	for _, s := range o.Segments {
		if s.Op == OpMoveTo {
			n++
		}
	}
	return n
}

// Glyph is one decoded character.
type Glyph struct {
	Rune    rune    `json:"rune"`
	Index   uint16  `json:"index"` // glyph ID inside the font
	Outline Outline `json:"outline"`
}

// GlyphSet is the ordered result of decoding a font.
type GlyphSet struct {
	Family     string  `json:"family"`
	UnitsPerEm int     `json:"units_per_em"`
	PPEM       float64 `json:"ppem"`
	Glyphs     []Glyph `json:"glyphs"`
}

// Len returns the number of glyphs in the set.
func (s *GlyphSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Glyphs)
}

// Runes returns the glyph characters in decode order.
func (s *GlyphSet) Runes() []rune {
	if s == nil {
		return nil
	}
	out := make([]rune, len(s.Glyphs))
	for i, g := range s.Glyphs {
		out[i] = g.Rune
	}
	return out
}

func boundsOf(segs []Segment) Rect {
	r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, s := range segs {
		for _, p := range s.Points[:pointCount(s.Op)] {
			r.MinX = math.Min(r.MinX, p.X)
			r.MinY = math.Min(r.MinY, p.Y)
			r.MaxX = math.Max(r.MaxX, p.X)
			r.MaxY = math.Max(r.MaxY, p.Y)
		}
	}
	return r
}

func pointCount(op Op) int {
	switch op {
	case OpQuadTo:
		return 2
	case OpCubicTo:
		return 3
	default:
		return 1
	}
}
