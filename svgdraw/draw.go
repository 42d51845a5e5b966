// Defines the painting backends used to draw
// compiled paths on screen or paper.
// The drawing code only sees the interfaces defined here,
// and drivers such as a rasterizer or a pdf writer implement them.
package svgdraw

import (
	"image/color"

	"github.com/benoitkugler/padoverlay/svgpath"
	"golang.org/x/image/math/fixed"
)

// Drawer knows how to do the actual draw operations
// but doesn't need any SVG kwowledge.
// In particular, transformations are already applied to the points
// before sending them to the Drawer.
type Drawer interface {
	svgpath.Adder

	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	// SetColor set the color for the current path
	SetColor(c color.Color)

	// Draw fills or strokes the accumulated path using the current settings
	Draw()
}

type Filler interface {
	Drawer

	// Decide to use or not the NonZeroWinding rule for the current path
	SetWinding(useNonZeroWinding bool)
}

type Stroker interface {
	Drawer

	// Parametrize the stroking style for the current path
	SetStrokeOptions(options StrokeOptions)
}

type Driver interface {
	// SetupDrawers returns the backend painters, and
	// will be called at the begining of every path.
	// If the `willXXX` boolean is false, the returned drawer should be nil
	// to avoid useless operations.
	// When both booleans are true, the exact same draw operations
	// will be performed on the Filler first and then on the Stroker.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)
}

// Surface is a Driver bound to a target with a size and
// a transform stack, onto which a whole frame is painted.
// Surfaces are not safe for concurrent use.
type Surface interface {
	Driver

	// Bounds returns the width and height of the target, in
	// the units of the drawers.
	Bounds() (w, h float64)

	// Fill paints the whole target with `c`, ignoring the current transform.
	Fill(c color.Color)
	// Clear resets the whole target to transparent.
	Clear()

	// Save pushes the current transform on the stack.
	Save()
	// Restore pops the transform saved by the last call to Save.
	Restore()
	// Translate shifts the origin of the next drawing operations.
	Translate(x, y float64)
}

// JoinMode type to specify how segments join.
type JoinMode uint8

// JoinMode constants determine how stroke segments bridge the gap at a join
const (
	Arc JoinMode = iota // New in SVG2
	Round
	Bevel
	Miter
	MiterClip // New in SVG2
	ArcClip   // Like MiterClip applied to arcs, and is not part of the SVG2.0 standard.
)

func (s JoinMode) String() string {
	switch s {
	case Round:
		return "Round"
	case Bevel:
		return "Bevel"
	case Miter:
		return "Miter"
	case MiterClip:
		return "MiterClip"
	case Arc:
		return "Arc"
	case ArcClip:
		return "ArcClip"
	default:
		return "<unknown JoinMode>"
	}
}

// CapMode defines how to draw caps on the ends of lines
type CapMode uint8

const (
	NilCap CapMode = iota // default value, resolved to ButtCap
	ButtCap
	SquareCap
	RoundCap
)

func (c CapMode) String() string {
	switch c {
	case NilCap:
		return "NilCap"
	case ButtCap:
		return "ButtCap"
	case SquareCap:
		return "SquareCap"
	case RoundCap:
		return "RoundCap"
	default:
		return "<unknown CapMode>"
	}
}

// GapMode defines how to bridge gaps when the miter limit is exceeded,
// and is not part of the SVG2.0 standard.
type GapMode uint8

const (
	NilGap GapMode = iota // resolved to FlatGap
	FlatGap
	RoundGap
)

type JoinOptions struct {
	MiterLimit   fixed.Int26_6 // the miter cutoff value for miter, arc, miterclip and arcClip joinModes
	LineJoin     JoinMode      // JoinMode for curve segments
	TrailLineCap CapMode       // capping functions for leading and trailing line ends. If one is nil, the other function is used at both ends.

	LeadLineCap CapMode // not part of the standard specification
	LineGap     GapMode // not part of the standard specification. determines how a gap on the convex side of two lines joining is filled
}

type StrokeOptions struct {
	LineWidth fixed.Int26_6 // width of the line
	Join      JoinOptions
}

// PathStyle describes how one path is painted.
type PathStyle struct {
	Fill              color.Color // nil disables filling
	Stroke            color.Color // nil disables stroking
	UseNonZeroWinding bool
	LineWidth         float64 // stroking is also disabled when <= 0
	Join              JoinOptions
}

// DrawPath paints `p`, transformed by `m`, into the driver `d`:
// the fill first, then the stroke on top of it.
func DrawPath(d Driver, p svgpath.Path, m svgpath.Matrix2D, style PathStyle) {
	willStroke := style.Stroke != nil && style.LineWidth > 0
	filler, stroker := d.SetupDrawers(style.Fill != nil, willStroke)
	if filler != nil {
		filler.Clear()
		filler.SetWinding(style.UseNonZeroWinding)
		p.AddTo(filler, m)
		filler.SetColor(style.Fill)
		filler.Draw()
		filler.SetWinding(true) // default is true
	}

	if stroker != nil {
		stroker.Clear()

		lineGap := style.Join.LineGap
		if lineGap == NilGap {
			lineGap = FlatGap
		}
		lineCap := style.Join.TrailLineCap
		if lineCap == NilCap {
			lineCap = ButtCap
		}
		leadLineCap := lineCap
		if style.Join.LeadLineCap != NilCap {
			leadLineCap = style.Join.LeadLineCap
		}
		stroker.SetStrokeOptions(StrokeOptions{
			LineWidth: fixed.Int26_6(style.LineWidth * 64),
			Join: JoinOptions{
				MiterLimit:   style.Join.MiterLimit,
				LineJoin:     style.Join.LineJoin,
				LeadLineCap:  leadLineCap,
				TrailLineCap: lineCap,
				LineGap:      lineGap,
			},
		})
		p.AddTo(stroker, m)
		stroker.SetColor(style.Stroke)
		stroker.Draw()
	}
}
