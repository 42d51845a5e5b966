// Implements a PDF backend to render overlays,
// by wrapping github.com/jung-kurt/gofpdf.
package svgpdf

import (
	"image/color"
	"io"

	"github.com/benoitkugler/padoverlay/overlay"
	"github.com/benoitkugler/padoverlay/svgdraw"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/math/fixed"
)

// assert interface conformance
var (
	_ svgdraw.Surface = (*Page)(nil)
	_ svgdraw.Filler  = filler{}
	_ svgdraw.Stroker = stroker{}
)

// Page paints on the current page of a PDF document,
// using the document units.
type Page struct {
	pdf *gofpdf.Fpdf

	offset [2]float64   // sum of the translations
	stack  [][2]float64 // one item per pending TransformBegin
}

// implements the common path commands,
// shared by the filler and the stroker
type pather struct {
	pdf   *gofpdf.Fpdf
	empty bool // no point added since the last Clear
}

// implements the filling operation
type filler struct {
	*pather
	useNonZeroWinding *bool
}

// implements the stroking operation
type stroker struct {
	*pather
}

// NewPage returns a surface which will
// write to the current page of `pdf`.
func NewPage(pdf *gofpdf.Fpdf) *Page {
	return &Page{pdf: pdf}
}

// Render writes a one page document of `width` x `height` points
// showing a frame of `c`.
func Render(c *overlay.Compositor, width, height float64, buttons overlay.ButtonState, background color.Color, out io.Writer) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	c.Composite(NewPage(pdf), buttons, background)
	return pdf.Output(out)
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

// toPdfColor returns the components expected by gofpdf
func toPdfColor(c color.Color) (r, g, b int, alpha float64) {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return int(nc.R), int(nc.G), int(nc.B), float64(nc.A) / 0xff
}

func (pg *Page) Bounds() (w, h float64) { return pg.pdf.GetPageSize() }

// Fill covers the page with `c`, whatever the current translation.
func (pg *Page) Fill(c color.Color) {
	r, g, b, alpha := toPdfColor(c)
	pg.pdf.SetFillColor(r, g, b)
	pg.pdf.SetAlpha(alpha, "")
	w, h := pg.Bounds()
	pg.pdf.Rect(-pg.offset[0], -pg.offset[1], w, h, "F")
}

// Clear is a no-op: an unpainted PDF page is already empty.
func (pg *Page) Clear() {}

func (pg *Page) Save() {
	pg.pdf.TransformBegin()
	pg.stack = append(pg.stack, pg.offset)
}

// Restore is a no-op when the stack is empty.
func (pg *Page) Restore() {
	if len(pg.stack) == 0 {
		return
	}
	pg.pdf.TransformEnd()
	pg.offset = pg.stack[len(pg.stack)-1]
	pg.stack = pg.stack[:len(pg.stack)-1]
}

// Translate must be called after Save.
func (pg *Page) Translate(x, y float64) {
	pg.pdf.TransformTranslate(x, y)
	pg.offset[0] += x
	pg.offset[1] += y
}

func (pg *Page) SetupDrawers(willFill, willStroke bool) (svgdraw.Filler, svgdraw.Stroker) {
	var (
		f svgdraw.Filler
		s svgdraw.Stroker
	)
	if willFill {
		f = filler{pather: &pather{pdf: pg.pdf, empty: true}, useNonZeroWinding: new(bool)}
	}
	if willStroke {
		s = stroker{&pather{pdf: pg.pdf, empty: true}}
	}
	return f, s
}

func (p *pather) Clear() { p.empty = true }

func (p *pather) Start(a fixed.Point26_6) {
	p.pdf.MoveTo(fixedTof(a))
	p.empty = false
}

func (p *pather) Line(b fixed.Point26_6) {
	p.pdf.LineTo(fixedTof(b))
}

func (p *pather) QuadBezier(b fixed.Point26_6, c fixed.Point26_6) {
	cx, cy := fixedTof(b)
	x, y := fixedTof(c)
	p.pdf.CurveTo(cx, cy, x, y)
}

func (p *pather) CubeBezier(b fixed.Point26_6, c fixed.Point26_6, d fixed.Point26_6) {
	cx0, cy0 := fixedTof(b)
	cx1, cy1 := fixedTof(c)
	x, y := fixedTof(d)
	p.pdf.CurveBezierCubicTo(cx0, cy0, cx1, cy1, x, y)
}

func (p *pather) Stop(closeLoop bool) {
	if closeLoop && !p.empty {
		p.pdf.ClosePath()
	}
}

func (f filler) SetColor(c color.Color) {
	r, g, b, alpha := toPdfColor(c)
	f.pdf.SetFillColor(r, g, b)
	f.pdf.SetAlpha(alpha, "")
}

func (f filler) Draw() {
	if f.empty {
		return
	}
	styleStr := "f*"
	if *f.useNonZeroWinding {
		styleStr = "f"
	}
	f.pdf.DrawPath(styleStr)
}

func (f filler) SetWinding(useNonZeroWinding bool) {
	*f.useNonZeroWinding = useNonZeroWinding
}

var (
	joinToStyle = [...]string{
		svgdraw.Round:     "round",
		svgdraw.Bevel:     "bevel",
		svgdraw.Miter:     "miter",
		svgdraw.MiterClip: "miter",
		svgdraw.Arc:       "round",
		svgdraw.ArcClip:   "round",
	}

	capToStyle = [...]string{
		svgdraw.NilCap:    "butt",
		svgdraw.ButtCap:   "butt",
		svgdraw.SquareCap: "square",
		svgdraw.RoundCap:  "round",
	}
)

// PDF has no distinct leading cap nor gap mode: only the
// trailing cap is used.
func (s stroker) SetStrokeOptions(options svgdraw.StrokeOptions) {
	s.pdf.SetLineWidth(float64(options.LineWidth) / 64)
	s.pdf.SetLineCapStyle(capToStyle[options.Join.TrailLineCap])
	s.pdf.SetLineJoinStyle(joinToStyle[options.Join.LineJoin])
}

func (s stroker) SetColor(c color.Color) {
	r, g, b, alpha := toPdfColor(c)
	s.pdf.SetDrawColor(r, g, b)
	s.pdf.SetAlpha(alpha, "")
}

func (s stroker) Draw() {
	if s.empty {
		return
	}
	s.pdf.DrawPath("D")
}
