// Implements a raster backend to render overlays
// into images, by wrapping rasterx.
package svgraster

import (
	"image"
	"image/color"
	"math"

	"github.com/benoitkugler/padoverlay/overlay"
	"github.com/benoitkugler/padoverlay/svgdraw"
	"github.com/benoitkugler/padoverlay/svgpath"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// assert interface conformance
var (
	_ svgdraw.Surface = (*Canvas)(nil)
	_ svgdraw.Filler  = filler{}
	_ svgdraw.Stroker = stroker{}
)

// Canvas paints into an image.
// A Canvas keeps its transform in a stack, and must not
// be used from several goroutines at the same time.
type Canvas struct {
	// Opacity is applied to every path painted, but not
	// to the background. NewCanvas sets it to 1.
	Opacity float64

	img    draw.Image
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance

	transform svgpath.Matrix2D
	stack     []svgpath.Matrix2D
}

// NewCanvas returns a canvas painting into `img`, using
// a rasterx.ScannerGV.
func NewCanvas(img draw.Image) *Canvas {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	scanner := rasterx.NewScannerGV(w, h, img, bounds)
	return &Canvas{
		Opacity:   1,
		img:       img,
		dasher:    rasterx.NewDasher(w, h, scanner),
		filler:    rasterx.NewFiller(w, h, scanner),
		transform: svgpath.Identity,
	}
}

// Render paints a frame of `c` into a new `width` x `height` image.
func Render(c *overlay.Compositor, width, height int, buttons overlay.ButtonState, background color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c.Composite(NewCanvas(img), buttons, background)
	return img
}

func (cv *Canvas) Bounds() (w, h float64) {
	b := cv.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (cv *Canvas) Fill(c color.Color) {
	draw.Draw(cv.img, cv.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (cv *Canvas) Clear() {
	draw.Draw(cv.img, cv.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (cv *Canvas) Save() { cv.stack = append(cv.stack, cv.transform) }

// Restore is a no-op when the stack is empty.
func (cv *Canvas) Restore() {
	if len(cv.stack) == 0 {
		return
	}
	cv.transform = cv.stack[len(cv.stack)-1]
	cv.stack = cv.stack[:len(cv.stack)-1]
}

func (cv *Canvas) Translate(x, y float64) { cv.transform = cv.transform.Translate(x, y) }

func (cv *Canvas) SetupDrawers(willFill, willStroke bool) (svgdraw.Filler, svgdraw.Stroker) {
	var (
		f svgdraw.Filler
		s svgdraw.Stroker
	)
	if willFill {
		f = filler{pather{canvas: cv, r: cv.filler}}
	}
	if willStroke {
		s = stroker{pather{canvas: cv, r: cv.dasher}}
	}
	return f, s
}

// rasterizer is implemented by rasterx.Filler and rasterx.Dasher
type rasterizer interface {
	svgpath.Adder
	Clear()
	SetColor(color interface{})
	SetWinding(useNonZeroWinding bool)
	Draw()
}

// pather applies the transform of the canvas
// before sending the points to the rasterizer
type pather struct {
	canvas *Canvas
	r      rasterizer
}

type filler struct{ pather }

type stroker struct{ pather }

func (p pather) Clear() { p.r.Clear() }

func (p pather) Start(a fixed.Point26_6) { p.r.Start(p.canvas.transform.TFixed(a)) }

func (p pather) Line(b fixed.Point26_6) { p.r.Line(p.canvas.transform.TFixed(b)) }

func (p pather) QuadBezier(b, c fixed.Point26_6) {
	m := p.canvas.transform
	p.r.QuadBezier(m.TFixed(b), m.TFixed(c))
}

func (p pather) CubeBezier(b, c, d fixed.Point26_6) {
	m := p.canvas.transform
	p.r.CubeBezier(m.TFixed(b), m.TFixed(c), m.TFixed(d))
}

func (p pather) Stop(closeLoop bool) { p.r.Stop(closeLoop) }

func (p pather) SetColor(c color.Color) {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	opacity := math.Max(0, math.Min(1, p.canvas.Opacity))
	nc.A = uint8(float64(nc.A)*opacity + 0.5)
	p.r.SetColor(nc)
}

func (p pather) Draw() { p.r.Draw() }

func (f filler) SetWinding(useNonZeroWinding bool) { f.r.SetWinding(useNonZeroWinding) }

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgdraw.Round:     rasterx.Round,
		svgdraw.Bevel:     rasterx.Bevel,
		svgdraw.Miter:     rasterx.Miter,
		svgdraw.MiterClip: rasterx.MiterClip,
		svgdraw.Arc:       rasterx.Arc,
		svgdraw.ArcClip:   rasterx.ArcClip,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgdraw.NilCap:    rasterx.ButtCap,
		svgdraw.ButtCap:   rasterx.ButtCap,
		svgdraw.SquareCap: rasterx.SquareCap,
		svgdraw.RoundCap:  rasterx.RoundCap,
	}

	gapToFunc = [...]rasterx.GapFunc{
		svgdraw.NilGap:   rasterx.FlatGap,
		svgdraw.FlatGap:  rasterx.FlatGap,
		svgdraw.RoundGap: rasterx.RoundGap,
	}
)

func (s stroker) SetStrokeOptions(options svgdraw.StrokeOptions) {
	s.canvas.dasher.SetStroke(
		options.LineWidth, options.Join.MiterLimit, capToFunc[options.Join.LeadLineCap],
		capToFunc[options.Join.TrailLineCap], gapToFunc[options.Join.LineGap],
		joinToJoin[options.Join.LineJoin], nil, 0,
	)
}
