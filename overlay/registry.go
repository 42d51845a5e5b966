// Builds the shapes of a device overlay from an SVG asset,
// and composites them on a drawing surface, highlighting
// the pressed buttons.
package overlay

import (
	"errors"
	"image/color"

	"github.com/benoitkugler/padoverlay/svgpath"
)

// ErrMalformedAsset is returned when the asset can't be used at all,
// for instance when its viewBox is missing or invalid.
var ErrMalformedAsset = errors.New("malformed overlay asset")

type malformedAssetError struct{ err error }

func (e malformedAssetError) Error() string { return "overlay: " + e.err.Error() }

func (e malformedAssetError) Unwrap() error { return e.err }

func (e malformedAssetError) Is(target error) bool { return target == ErrMalformedAsset }

// CoordinateSpace is the viewBox of the asset.
type CoordinateSpace struct{ X, Y, W, H float64 }

// ShapeStyle holds the attributes common to every shape.
type ShapeStyle struct {
	StrokeWidth int         // 0 for no stroke
	Fill        color.Color // only set on overlay shapes, nil when absent
}

// Shape is either a *PathShape or a *CircleShape.
type Shape interface {
	// Outline returns the contour of the shape, with
	// every coordinate multiplied by `ratio`.
	Outline(ratio float64) svgpath.Path
	Style() ShapeStyle
}

// PathShape is an outline given by SVG path data.
type PathShape struct {
	ShapeStyle
	D string
}

// NewPathShape checks `d`. When `d` is malformed, the returned
// shape is still usable and outlines the operations preceding the error.
func NewPathShape(d string, style ShapeStyle) (*PathShape, error) {
	_, err := svgpath.Compile(d)
	return &PathShape{ShapeStyle: style, D: d}, err
}

func (sh *PathShape) Style() ShapeStyle { return sh.ShapeStyle }

// Outline compiles the path data at the given scale, so that
// coordinates are rounded to fixed point only once scaled.
func (sh *PathShape) Outline(ratio float64) svgpath.Path {
	out, _ := svgpath.CompileScaled(sh.D, ratio) // errors are reported by NewPathShape
	return out
}

// CircleShape is a full circle.
type CircleShape struct {
	ShapeStyle
	CX, CY, R float64
}

func (sh *CircleShape) Style() ShapeStyle { return sh.ShapeStyle }

func (sh *CircleShape) Outline(ratio float64) svgpath.Path {
	return svgpath.Circle(sh.CX*ratio, sh.CY*ratio, sh.R*ratio)
}

// Entry associates a registry key with its shape.
type Entry struct {
	Key   string
	Shape Shape
}

// Registry is the ordered list of the overlay shapes.
// Entries are painted in order, so that later ones
// cover the previous ones.
// A Registry is never modified once built, and may be shared
// between goroutines.
type Registry struct {
	space   CoordinateSpace
	entries []Entry
}

// NewRegistry returns a registry with the given entries,
// in paint order.
func NewRegistry(space CoordinateSpace, entries []Entry) *Registry {
	return &Registry{space: space, entries: append([]Entry(nil), entries...)}
}

// Space returns the coordinate space of the shapes.
func (r *Registry) Space() CoordinateSpace { return r.space }

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// Entries returns a copy of the entries, in paint order.
func (r *Registry) Entries() []Entry { return append([]Entry(nil), r.entries...) }

// Keys returns the keys of the entries, in paint order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Key
	}
	return out
}

// Lookup returns the shape registered under `key`.
func (r *Registry) Lookup(key string) (Shape, bool) {
	for _, e := range r.entries {
		if e.Key == key {
			return e.Shape, true
		}
	}
	return nil, false
}
