package impeller

import "fmt"

// BlendMode selects how source and destination colors combine.
type BlendMode int32

const (
	BlendClear BlendMode = iota
	BlendSource
	BlendDestination
	BlendSourceOver
	BlendDestinationOver
	BlendSourceIn
	BlendDestinationIn
	BlendSourceOut
	BlendDestinationOut
	BlendSourceATop
	BlendDestinationATop
	BlendXor
	BlendPlus
	BlendModulate
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendMultiply
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

// Valid reports whether m is a known blend mode.
func (m BlendMode) Valid() bool { return m >= BlendClear && m <= BlendLuminosity }

// DrawStyle selects whether shapes are filled, stroked, or both.
type DrawStyle int32

const (
	DrawStyleFill DrawStyle = iota
	DrawStyleStroke
	DrawStyleStrokeAndFill
)

// StrokeCap is the shape at the ends of open strokes.
type StrokeCap int32

const (
	CapButt StrokeCap = iota
	CapRound
	CapSquare
)

// StrokeJoin is the shape where stroke segments meet.
type StrokeJoin int32

const (
	JoinMiter StrokeJoin = iota
	JoinRound
	JoinBevel
)

// FillType is the rule that decides which regions of a path are inside.
type FillType int32

const (
	FillNonZero FillType = iota
	FillOdd
)

// ClipOperation combines a new clip shape with the current clip.
type ClipOperation int32

const (
	ClipDifference ClipOperation = iota
	ClipIntersect
)

// TileMode controls sampling outside a gradient or image's bounds.
type TileMode int32

const (
	TileClamp TileMode = iota
	TileRepeat
	TileMirror
	TileDecal
)

// TextureSampling is the filter used when sampling textures.
type TextureSampling int32

const (
	SamplingNearest TextureSampling = iota
	SamplingLinear
)

// BlurStyle selects which part of a mask blur is kept.
type BlurStyle int32

const (
	BlurNormal BlurStyle = iota
	BlurSolid
	BlurOuter
	BlurInner
)

// PixelFormat is a texture or framebuffer pixel layout understood by the
// engine.
type PixelFormat int32

const (
	PixelFormatRGBA8888 PixelFormat = iota
)

// FontWeight is a CSS-style weight from 100 to 900.
type FontWeight int32

const (
	FontWeight100 FontWeight = iota
	FontWeight200
	FontWeight300
	FontWeight400
	FontWeight500
	FontWeight600
	FontWeight700
	FontWeight800
	FontWeight900

	FontWeightNormal = FontWeight400
	FontWeightBold   = FontWeight700
)

// FontWeightOf maps a CSS weight (100..900) to the nearest FontWeight.
func FontWeightOf(css int) FontWeight {
	w := (css+50)/100 - 1
	return FontWeight(min(max(w, 0), int(FontWeight900)))
}

// FontStyle selects upright or italic glyphs.
type FontStyle int32

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
)

// TextAlignment positions lines within the paragraph width.
type TextAlignment int32

const (
	AlignLeft TextAlignment = iota
	AlignRight
	AlignCenter
	AlignJustify
	AlignStart
	AlignEnd
)

// TextDirection is the base direction of a paragraph.
type TextDirection int32

const (
	DirectionRTL TextDirection = iota
	DirectionLTR
)

func (d TextDirection) String() string {
	switch d {
	case DirectionRTL:
		return "rtl"
	case DirectionLTR:
		return "ltr"
	}
	return fmt.Sprintf("TextDirection(%d)", int32(d))
}

// TextDecorationType is a bit set of decoration lines.
type TextDecorationType int32

const (
	DecorationNone        TextDecorationType = 0
	DecorationUnderline   TextDecorationType = 1 << 0
	DecorationOverline    TextDecorationType = 1 << 1
	DecorationLineThrough TextDecorationType = 1 << 2
)

// TextDecorationStyle is the stroke pattern of decoration lines.
type TextDecorationStyle int32

const (
	DecorationSolid TextDecorationStyle = iota
	DecorationDouble
	DecorationDotted
	DecorationDashed
	DecorationWavy
)
