package overlay

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"strconv"
	"strings"

	"github.com/benoitkugler/padoverlay/svgdoc"
	"github.com/benoitkugler/padoverlay/svgpath"
)

// ErrorMode sets how the builder handles
// the content of the asset it can't use.
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unsupported content silently
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs a warning for each skipped content
	WarnErrorMode
	// StrictErrorMode fails the build on the first unsupported content
	StrictErrorMode
)

// builder walks the document and accumulates the entries
type builder struct {
	doc     *svgdoc.Document
	mode    ErrorMode
	entries []Entry
}

// Build extracts the shapes of the controls from `doc`.
// Controls missing from the document are simply omitted.
// An error wrapping ErrMalformedAsset is returned when the
// viewBox of the document is invalid.
func Build(doc *svgdoc.Document, mode ErrorMode) (*Registry, error) {
	vb, err := doc.ViewBox()
	if err != nil {
		return nil, malformedAssetError{err}
	}
	b := builder{doc: doc, mode: mode}
	for _, key := range primaryKeys {
		el := doc.ElementByID(ElementID(key))
		if el == nil {
			continue
		}
		if err := b.addNode(el, key, false); err != nil {
			return nil, err
		}

		// overlays can't outnumber the identifiers
		for i := 0; i < doc.IDCount(); i++ {
			id := ProbeID(key, i)
			el := doc.ElementByID(id)
			if el == nil {
				break
			}
			if err := b.addNode(el, id, true); err != nil {
				return nil, err
			}
		}
	}
	space := CoordinateSpace{X: vb.X, Y: vb.Y, W: vb.W, H: vb.H}
	return &Registry{space: space, entries: b.entries}, nil
}

// Load fetches the asset `name` and builds its registry.
// Fetching errors are returned as is, while an unreadable
// document is reported as ErrMalformedAsset.
func Load(ctx context.Context, fetcher svgdoc.Fetcher, name string, mode ErrorMode) (*Registry, error) {
	doc, err := svgdoc.FetchDocument(ctx, fetcher, name)
	if errors.Is(err, svgdoc.ErrInvalidDocument) {
		return nil, malformedAssetError{err}
	} else if err != nil {
		return nil, fmt.Errorf("overlay: fetching %s: %w", name, err)
	}
	return Build(doc, mode)
}

func (b *builder) handleError(err error) error {
	switch b.mode {
	case StrictErrorMode:
		return err
	case WarnErrorMode:
		log.Println(err)
	}
	return nil
}

// addNode registers the shapes defined by `el`, expanding groups.
// Only overlay shapes read their fill.
func (b *builder) addNode(el *svgdoc.Element, key string, additional bool) error {
	switch el.Tag {
	case "g":
		for i, child := range el.Children {
			if err := b.addNode(child, key+"_"+strconv.Itoa(i), additional); err != nil {
				return err
			}
		}
		return nil
	case "path", "circle":
	default:
		return b.handleError(fmt.Errorf("overlay: %s: cannot process svg element %s", key, el.Tag))
	}

	var style ShapeStyle
	if v, ok := el.Attr("stroke-width"); ok {
		style.StrokeWidth = parseLeadingInt(v)
	}
	if additional {
		fill, err := parseFill(el)
		if err != nil {
			if err := b.handleError(fmt.Errorf("overlay: %s: %w", key, err)); err != nil {
				return err
			}
		}
		style.Fill = fill
	}

	var shape Shape
	if el.Tag == "path" {
		d, _ := el.Attr("d")
		sh, err := NewPathShape(d, style)
		if err != nil {
			if err := b.handleError(fmt.Errorf("overlay: %s: %w", key, err)); err != nil {
				return err
			}
		}
		shape = sh
	} else {
		sh := &CircleShape{ShapeStyle: style}
		for _, attr := range [...]struct {
			name string
			dst  *float64
		}{{"cx", &sh.CX}, {"cy", &sh.CY}, {"r", &sh.R}} {
			v, err := parseNumberAttr(el, attr.name)
			if err != nil {
				if err := b.handleError(fmt.Errorf("overlay: %s: %w", key, err)); err != nil {
					return err
				}
			}
			*attr.dst = v
		}
		shape = sh
	}
	b.entries = append(b.entries, Entry{Key: key, Shape: shape})
	return nil
}

// parseLeadingInt reads the integer at the start of `s`, so that
// "2.7" is 2 and "3px" is 3. It returns 0 when there is none.
func parseLeadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && '0' <= s[end] && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil { // out of range
		return 0
	}
	return v
}

var errNonNumeric = errors.New("non numeric attribute")

// parseNumberAttr returns 0 for missing or invalid values
func parseNumberAttr(el *svgdoc.Element, name string) (float64, error) {
	v, ok := el.Attr(name)
	if !ok {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%w %s=%q", errNonNumeric, name, v)
	}
	return f, nil
}

// parseFill returns nil if the fill is absent or "none"
func parseFill(el *svgdoc.Element) (c color.Color, err error) {
	v, ok := el.Attr("fill")
	if !ok || strings.TrimSpace(v) == "none" {
		return nil, nil
	}
	return svgpath.ParseColor(v)
}
