package svgpath

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var errInvalidColor = errors.New("invalid color")

// ParseColor parses an SVG paint value: a named color ("white"),
// a hex color ("#0f0", "#00ff00"), a functional color
// ("rgb(0, 255, 0)", "rgba(0, 100%, 0, 0.5)") or "transparent",
// which returns color.Transparent.
func ParseColor(v string) (color.Color, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	switch {
	case s == "transparent":
		return color.Transparent, nil
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %s", errInvalidColor, v, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	case strings.HasPrefix(s, "rgb"):
		return parseFunctionalColor(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w %q", errInvalidColor, v)
}

// parseFunctionalColor handles rgb(...) and rgba(...)
func parseFunctionalColor(s string) (color.Color, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return nil, fmt.Errorf("%w %q", errInvalidColor, s)
	}
	args := strings.FieldsFunc(s[open+1:end], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(args) != 3 && len(args) != 4 {
		return nil, fmt.Errorf("%w %q", errInvalidColor, s)
	}
	var out [4]uint8
	out[3] = 0xff
	for i, arg := range args {
		pct := strings.HasSuffix(arg, "%")
		f, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %s", errInvalidColor, s, err)
		}
		switch {
		case pct:
			f *= 2.55
		case i == 3: // alpha fraction
			f *= 255
		}
		out[i] = clamp8(f)
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}, nil
}

func clamp8(f float64) uint8 {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f + 0.5)
}
