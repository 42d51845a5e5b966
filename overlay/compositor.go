package overlay

import (
	"errors"
	"image/color"
	"math"

	"github.com/benoitkugler/padoverlay/svgdraw"
	"github.com/benoitkugler/padoverlay/svgpath"
	"golang.org/x/image/math/fixed"
)

var errNilRegistry = errors.New("overlay: nil registry")

// DefaultBackground is the chroma key green painted
// behind the device.
var DefaultBackground color.Color = color.NRGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}

// Style defines the colors used to paint the device.
type Style struct {
	Foreground color.Color // outlines and pressed buttons
	Background color.Color // body and shoulder triggers
	Join       svgdraw.JoinOptions
}

// DefaultStyle paints a white device with black outlines,
// using miter joins and butt caps.
var DefaultStyle = Style{
	Foreground: color.NRGBA{A: 0xff},
	Background: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	Join: svgdraw.JoinOptions{
		MiterLimit:   fixed.I(10),
		LineJoin:     svgdraw.Miter,
		TrailLineCap: svgdraw.ButtCap,
	},
}

// Layout maps the coordinate space of a registry onto a surface:
// a point (x, y) is drawn at (x*Ratio + OffsetX, y*Ratio + OffsetY).
type Layout struct {
	Ratio            float64
	OffsetX, OffsetY float64
}

// Fit returns the layout scaling `space` as large as possible
// in a `width` x `height` surface, keeping its aspect ratio,
// and centering it.
func Fit(space CoordinateSpace, width, height float64) Layout {
	ratio := math.Min(width/space.W, height/space.H)
	offX := width/2 - space.W/2*ratio
	offY := height/2 - space.H/2*ratio
	if offX > width {
		offX = 0
	}
	if offY > height {
		offY = 0
	}
	return Layout{Ratio: ratio, OffsetX: offX, OffsetY: offY}
}

// fillRule returns the fill imposed on the entry, or nil
type fillRule func(e Entry, buttons ButtonState, style Style) color.Color

func overrideFill(e Entry, _ ButtonState, _ Style) color.Color { return e.Shape.Style().Fill }

func structuralFill(e Entry, _ ButtonState, style Style) color.Color {
	if structuralKeys[e.Key] {
		return style.Background
	}
	return nil
}

func pressedFill(e Entry, buttons ButtonState, style Style) color.Color {
	if buttons[e.Key] {
		return style.Foreground
	}
	return nil
}

// fillRules are evaluated in order, the last match wins
var fillRules = [...]fillRule{overrideFill, structuralFill, pressedFill}

// resolveFill returns nil when the entry must not be filled
func resolveFill(e Entry, buttons ButtonState, style Style) color.Color {
	var fill color.Color
	for _, rule := range fillRules {
		if c := rule(e, buttons, style); c != nil {
			fill = c
		}
	}
	return fill
}

// Compositor paints the shapes of a registry.
type Compositor struct {
	registry *Registry
	style    Style
}

// NewCompositor returns a compositor painting `registry`.
// Nil colors and zero join options in `style` are
// replaced by the ones of DefaultStyle.
func NewCompositor(registry *Registry, style Style) (*Compositor, error) {
	if registry == nil {
		return nil, errNilRegistry
	}
	if style.Join == (svgdraw.JoinOptions{}) {
		style.Join = DefaultStyle.Join
	}
	if style.Foreground == nil {
		style.Foreground = DefaultStyle.Foreground
	}
	if style.Background == nil {
		style.Background = DefaultStyle.Background
	}
	return &Compositor{registry: registry, style: style}, nil
}

// Registry returns the registry painted by the compositor.
func (c *Compositor) Registry() *Registry { return c.registry }

// Composite paints a frame on `s`: the surface is first filled with
// `background` (or cleared if it is fully transparent, or
// filled with DefaultBackground if nil), then the shapes of the
// registry are scaled to fit and painted, highlighting the pressed buttons.
func (c *Compositor) Composite(s svgdraw.Surface, buttons ButtonState, background color.Color) {
	if background == nil {
		background = DefaultBackground
	}
	if _, _, _, a := background.RGBA(); a == 0 {
		s.Clear()
	} else {
		s.Fill(background)
	}

	w, h := s.Bounds()
	layout := Fit(c.registry.space, w, h)

	s.Save()
	defer s.Restore()
	s.Translate(layout.OffsetX, layout.OffsetY)

	for _, e := range c.registry.entries {
		svgdraw.DrawPath(s, e.Shape.Outline(layout.Ratio), svgpath.Identity, svgdraw.PathStyle{
			Fill:              resolveFill(e, buttons, c.style),
			Stroke:            c.style.Foreground,
			UseNonZeroWinding: true,
			LineWidth:         float64(e.Shape.Style().StrokeWidth) * layout.Ratio,
			Join:              c.style.Join,
		})
	}
}
