package svgdoc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNoViewBox is returned when the root element has no viewBox attribute.
	ErrNoViewBox = errors.New("missing viewBox")

	errParamMismatch = errors.New("param mismatch")
)

// Bounds defines a bounding box, such as a viewport.
type Bounds struct{ X, Y, W, H float64 }

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
}

// ViewBox reads the viewBox attribute of the root element,
// which must hold exactly four numbers, with positive width and height.
func (d *Document) ViewBox() (Bounds, error) {
	v, ok := d.Root.Attr("viewBox")
	if !ok {
		return Bounds{}, ErrNoViewBox
	}
	fields := splitOnCommaOrSpace(v)
	if len(fields) != 4 {
		return Bounds{}, fmt.Errorf("viewBox %q: expected 4 numbers: %w", v, errParamMismatch)
	}
	var points [4]float64
	for i, field := range fields {
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("viewBox %q: %w", v, err)
		}
		points[i] = f
	}
	vb := Bounds{X: points[0], Y: points[1], W: points[2], H: points[3]}
	if !(vb.W > 0 && vb.H > 0) || math.IsInf(vb.W, 0) || math.IsInf(vb.H, 0) {
		return Bounds{}, fmt.Errorf("viewBox %q: invalid extent: %w", v, errParamMismatch)
	}
	return vb, nil
}
