package impeller

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"unicode/utf8"
	"unsafe"

	"github.com/go-text/typesetting/language"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/impeller/internal/abi"
)

// TypographyContext owns registered fonts and shapes paragraphs.
type TypographyContext struct {
	*Handle
}

// NewTypographyContext creates a typography context with the engine's
// bundled fallback fonts.
func (e *Engine) NewTypographyContext() (*TypographyContext, error) {
	h, err := fromOwned(e, abi.KindTypographyContext, e.api.TypographyContextNew())
	if err != nil {
		return nil, err
	}
	return &TypographyContext{Handle: h}, nil
}

// RegisterFont registers a TrueType or OpenType font. When familyAlias is
// empty the family name stored in the font is used. It returns the family
// name the font can be selected with.
//
// The font data is copied; the caller may reuse data afterwards.
func (tc *TypographyContext) RegisterFont(data []byte, familyAlias string) (string, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	family := familyAlias
	if family == "" {
		if family, err = f.Name(nil, sfnt.NameIDFamily); err != nil || family == "" {
			return "", fmt.Errorf("%w: no family name", ErrInvalidFont)
		}
	}

	tp, err := tc.Borrow()
	if err != nil {
		return "", err
	}
	defer runtime.KeepAlive(tc)

	buf := bytes.Clone(data)
	var pinner runtime.Pinner
	pinner.Pin(&buf[0])
	id := abi.Register(func() {
		pinner.Unpin()
		runtime.KeepAlive(buf)
	})
	mapping := abi.Mapping{
		Data:      unsafe.Pointer(&buf[0]),
		Length:    uint64(len(buf)),
		OnRelease: abi.ReleaseCallback(),
	}
	if !tc.api().TypographyContextRegisterFont(tp, &mapping, id, family) {
		abi.ReleaseContents(id)
		return "", fmt.Errorf("%w: engine rejected font %q", ErrInvalidFont, family)
	}
	Logger().Debug("impeller: font registered", "family", family, "bytes", len(buf))
	return family, nil
}

// TextDecoration describes underline, overline and strike-through lines.
type TextDecoration struct {
	Types     TextDecorationType
	Color     Color
	Style     TextDecorationStyle
	Thickness float32
}

// ParagraphStyle describes how a run of text is rendered.
type ParagraphStyle struct {
	*Handle
}

// NewParagraphStyle creates a style with engine defaults.
func (e *Engine) NewParagraphStyle() (*ParagraphStyle, error) {
	h, err := fromOwned(e, abi.KindParagraphStyle, e.api.ParagraphStyleNew())
	if err != nil {
		return nil, err
	}
	return &ParagraphStyle{Handle: h}, nil
}

func (s *ParagraphStyle) do(f func(t *abi.Table, ptr uintptr)) error {
	ptr, err := s.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(s)
	f(s.api(), ptr)
	return nil
}

// SetForeground sets the paint used for glyphs.
func (s *ParagraphStyle) SetForeground(p *Paint) error {
	pp, err := borrow(p, "paint")
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(p)
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetForeground(ptr, pp) })
}

// SetBackground sets the paint used behind glyphs.
func (s *ParagraphStyle) SetBackground(p *Paint) error {
	pp, err := borrow(p, "paint")
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(p)
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetBackground(ptr, pp) })
}

func (s *ParagraphStyle) SetFontWeight(w FontWeight) error {
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetFontWeight(ptr, int32(w)) })
}

func (s *ParagraphStyle) SetFontStyle(fs FontStyle) error {
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetFontStyle(ptr, int32(fs)) })
}

func (s *ParagraphStyle) SetFontFamily(family string) error {
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetFontFamily(ptr, family) })
}

func (s *ParagraphStyle) SetFontSize(size float32) error {
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetFontSize(ptr, size) })
}

// SetHeight sets the line height as a multiple of the font size.
func (s *ParagraphStyle) SetHeight(height float32) error {
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetHeight(ptr, height) })
}

func (s *ParagraphStyle) SetTextAlignment(a TextAlignment) error {
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetTextAlignment(ptr, int32(a)) })
}

func (s *ParagraphStyle) SetTextDirection(d TextDirection) error {
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetTextDirection(ptr, int32(d)) })
}

// SetTextDirectionFor sets the base direction from the first strong
// character of text.
func (s *ParagraphStyle) SetTextDirectionFor(text string) error {
	return s.SetTextDirection(DetectDirection(text))
}

func (s *ParagraphStyle) SetTextDecoration(d TextDecoration) error {
	n := abi.TextDecoration{Types: int32(d.Types), Color: d.Color.native(), Style: int32(d.Style), Thickness: d.Thickness}
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetTextDecoration(ptr, &n) })
}

// SetMaxLines limits the number of laid out lines. Zero means unlimited.
func (s *ParagraphStyle) SetMaxLines(n uint32) error {
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetMaxLines(ptr, n) })
}

// SetLocale sets the BCP 47 locale used for shaping and line breaking. The
// tag is canonicalized first, so "en_US" becomes "en-us".
func (s *ParagraphStyle) SetLocale(tag string) error {
	lang := language.NewLanguage(tag)
	if lang == "" {
		return fmt.Errorf("impeller: invalid locale %q", tag)
	}
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetLocale(ptr, string(lang)) })
}

// SetEllipsis sets the string appended to truncated lines.
func (s *ParagraphStyle) SetEllipsis(ellipsis string) error {
	return s.do(func(t *abi.Table, ptr uintptr) { t.ParagraphStyleSetEllipsis(ptr, ellipsis) })
}

// DetectDirection returns the direction of the first strong character in
// text, or DirectionLTR if there is none.
func DetectDirection(text string) TextDirection {
	for i := 0; i < len(text); {
		p, size := bidi.LookupString(text[i:])
		if size == 0 {
			break
		}
		switch p.Class() {
		case bidi.L:
			return DirectionLTR
		case bidi.R, bidi.AL:
			return DirectionRTL
		}
		i += size
	}
	return DirectionLTR
}

var errStyleStack = errors.New("impeller: pop without pushed style")

// ParagraphBuilder assembles styled text into a Paragraph.
type ParagraphBuilder struct {
	*Handle
	depth int
}

// NewParagraphBuilder creates a builder shaping with tc's fonts.
func (tc *TypographyContext) NewParagraphBuilder() (*ParagraphBuilder, error) {
	tp, err := tc.Borrow()
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(tc)
	h, err := fromOwned(tc.Engine(), abi.KindParagraphBuilder, tc.api().ParagraphBuilderNew(tp))
	if err != nil {
		return nil, err
	}
	return &ParagraphBuilder{Handle: h}, nil
}

// PushStyle applies s to text added until the matching PopStyle.
func (b *ParagraphBuilder) PushStyle(s *ParagraphStyle) error {
	sp, err := borrow(s, "paragraph style")
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(s)
	bp, err := b.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(b)
	b.api().ParagraphBuilderPushStyle(bp, sp)
	b.depth++
	return nil
}

// PopStyle removes the style pushed last.
func (b *ParagraphBuilder) PopStyle() error {
	bp, err := b.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(b)
	if b.depth == 0 {
		return errStyleStack
	}
	b.api().ParagraphBuilderPopStyle(bp)
	b.depth--
	return nil
}

// AddText appends text in the current style. Text is normalized to NFC;
// invalid UTF-8 is rejected.
func (b *ParagraphBuilder) AddText(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("impeller: text is not valid UTF-8")
	}
	bp, err := b.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(b)
	data := []byte(norm.NFC.String(text))
	if len(data) == 0 {
		return nil
	}
	b.api().ParagraphBuilderAddText(bp, abi.BytesPtr(data), uint32(len(data)))
	runtime.KeepAlive(data)
	return nil
}

// Build lays out the added text at the given width.
func (b *ParagraphBuilder) Build(width float32) (*Paragraph, error) {
	bp, err := b.Borrow()
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(b)
	h, err := fromOwned(b.Engine(), abi.KindParagraph, b.api().ParagraphBuilderBuildParagraphNew(bp, width))
	if err != nil {
		return nil, err
	}
	return &Paragraph{Handle: h}, nil
}

// Paragraph is laid out text ready to be drawn with Recorder.DrawParagraph.
type Paragraph struct {
	*Handle
}

// ParagraphMetrics are the layout results of a paragraph.
type ParagraphMetrics struct {
	MaxWidth          float32
	Height            float32
	LongestLineWidth  float32
	MinIntrinsicWidth float32
	MaxIntrinsicWidth float32
	LineCount         int
}

// Metrics returns the paragraph's layout metrics.
func (p *Paragraph) Metrics() (ParagraphMetrics, error) {
	ptr, err := p.Borrow()
	if err != nil {
		return ParagraphMetrics{}, err
	}
	defer runtime.KeepAlive(p)
	t := p.api()
	return ParagraphMetrics{
		MaxWidth:          t.ParagraphGetMaxWidth(ptr),
		Height:            t.ParagraphGetHeight(ptr),
		LongestLineWidth:  t.ParagraphGetLongestLineWidth(ptr),
		MinIntrinsicWidth: t.ParagraphGetMinIntrinsicWidth(ptr),
		MaxIntrinsicWidth: t.ParagraphGetMaxIntrinsicWidth(ptr),
		LineCount:         int(t.ParagraphGetLineCount(ptr)),
	}, nil
}
