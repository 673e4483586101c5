package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/fractal"
	icolor "github.com/gogpu/fractal/internal/color"
)

// DefaultCaptionSize is the caption font size in pixels.
const DefaultCaptionSize = 14.0

// Both font handles are parsed once from the embedded Go Regular font.
// The opentype font rasterizes glyphs; the go-text font drives shaping.
var (
	drawFont = sync.OnceValues(func() (*opentype.Font, error) {
		return opentype.Parse(goregular.TTF)
	})
	shapeFont = sync.OnceValues(func() (*gtfont.Font, error) {
		face, err := gtfont.ParseTTF(bytes.NewReader(goregular.TTF))
		if err != nil {
			return nil, err
		}
		return face.Font, nil
	})
)

// shaperPool holds HarfbuzzShaper instances, which are not safe for
// concurrent use.
var shaperPool = sync.Pool{
	New: func() any { return &shaping.HarfbuzzShaper{} },
}

// CaptionLines describes a render in the form stamped by DrawCaption.
// Numbers are grouped for readability.
func CaptionLines(v fractal.Viewport, f fractal.Fractal, p fractal.Palette) []string {
	pr := message.NewPrinter(xlanguage.English)
	return []string{
		f.Name(),
		fmt.Sprintf("Center: %.10g %+.10gi", v.Center.Re, v.Center.Im),
		pr.Sprintf("Zoom: %.0f", v.Zoom),
		pr.Sprintf("Iterations: %d", v.MaxIterations),
		"Palette: " + p.DisplayName(),
	}
}

// MeasureText returns the shaped advance of s at size pixels. Kerning is
// applied, so the result can be narrower than the sum of glyph advances.
func MeasureText(s string, size float64) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := shapeFont()
	if err != nil {
		return 0, fmt.Errorf("export: parse caption font: %w", err)
	}

	runes := []rune(s)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gtfont.NewFace(f),
		Size:      fixed.Int26_6(size * 64),
		Script:    language.Latin,
		Language:  language.NewLanguage("en"),
	}

	hb := shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	shaperPool.Put(hb)

	return float64(out.Advance) / 64, nil
}

// DrawCaption stamps lines in the bottom-left corner of dst on a
// translucent panel. The text is black or white, whichever contrasts
// better with the pixels under the panel. A non-positive size selects
// DefaultCaptionSize.
func DrawCaption(dst draw.Image, lines []string, size float64) error {
	if len(lines) == 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultCaptionSize
	}

	otf, err := drawFont()
	if err != nil {
		return fmt.Errorf("export: parse caption font: %w", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("export: caption face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	width := 0.0
	for _, l := range lines {
		w, err := MeasureText(l, size)
		if err != nil {
			return err
		}
		width = math.Max(width, w)
	}

	m := face.Metrics()
	lineHeight := m.Height.Ceil()
	pad := int(math.Ceil(size / 2))

	b := dst.Bounds()
	panel := image.Rect(
		b.Min.X+pad,
		b.Max.Y-pad-2*pad-lineHeight*len(lines),
		b.Min.X+pad+2*pad+int(math.Ceil(width)),
		b.Max.Y-pad,
	).Intersect(b)
	if panel.Empty() {
		return nil
	}

	fg, bg := color.NRGBA{A: 255}, color.NRGBA{R: 255, G: 255, B: 255, A: 160}
	if !icolor.PreferDarkText(meanLuminance(dst, panel)) {
		fg, bg = color.NRGBA{R: 255, G: 255, B: 255, A: 255}, color.NRGBA{A: 160}
	}
	draw.Draw(dst, panel, image.NewUniform(bg), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	baseline := panel.Min.Y + pad + m.Ascent.Ceil()
	for i, l := range lines {
		d.Dot = fixed.P(panel.Min.X+pad, baseline+i*lineHeight)
		d.DrawString(l)
	}
	return nil
}

// meanLuminance averages the relative luminance of the pixels in r.
func meanLuminance(img image.Image, r image.Rectangle) float64 {
	if r.Empty() {
		return 0
	}
	sum := 0.0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			sum += icolor.Luminance(c.R, c.G, c.B)
		}
	}
	return sum / float64(r.Dx()*r.Dy())
}
