package overlay

import (
	"image/color"
	"testing"

	"github.com/benoitkugler/padoverlay/svgdraw"
	"golang.org/x/image/math/fixed"
)

// paintRecord is one Draw call on a recordingSurface
type paintRecord struct {
	stroke    bool
	color     color.Color
	lineWidth fixed.Int26_6
	start     fixed.Point26_6 // first point, in surface coordinates
}

type recordingSurface struct {
	w, h       float64
	background color.Color // nil when cleared
	cleared    bool
	offset     [2]float64
	stack      [][2]float64
	records    []paintRecord
}

type recordingDrawer struct {
	surface *recordingSurface
	stroke  bool
	started bool
	start   fixed.Point26_6
	color   color.Color
	opts    svgdraw.StrokeOptions
}

func (d *recordingDrawer) Start(a fixed.Point26_6) {
	if !d.started {
		d.started = true
		d.start = fixed.Point26_6{
			X: a.X + fixed.Int26_6(d.surface.offset[0]*64),
			Y: a.Y + fixed.Int26_6(d.surface.offset[1]*64),
		}
	}
}
func (d *recordingDrawer) Line(fixed.Point26_6)                    {}
func (d *recordingDrawer) QuadBezier(_, _ fixed.Point26_6)         {}
func (d *recordingDrawer) CubeBezier(_, _, _ fixed.Point26_6)      {}
func (d *recordingDrawer) Stop(bool)                               {}
func (d *recordingDrawer) SetWinding(bool)                         {}
func (d *recordingDrawer) Clear()                                  { d.started = false }
func (d *recordingDrawer) SetColor(c color.Color)                  { d.color = c }
func (d *recordingDrawer) SetStrokeOptions(o svgdraw.StrokeOptions) { d.opts = o }
func (d *recordingDrawer) Draw() {
	d.surface.records = append(d.surface.records, paintRecord{
		stroke: d.stroke, color: d.color, lineWidth: d.opts.LineWidth, start: d.start,
	})
}

func (s *recordingSurface) SetupDrawers(willFill, willStroke bool) (f svgdraw.Filler, st svgdraw.Stroker) {
	if willFill {
		f = &recordingDrawer{surface: s}
	}
	if willStroke {
		st = &recordingDrawer{surface: s, stroke: true}
	}
	return f, st
}

func (s *recordingSurface) Bounds() (float64, float64) { return s.w, s.h }
func (s *recordingSurface) Fill(c color.Color)         { s.background, s.cleared = c, false }
func (s *recordingSurface) Clear()                     { s.background, s.cleared = nil, true }
func (s *recordingSurface) Save()                      { s.stack = append(s.stack, s.offset) }
func (s *recordingSurface) Restore() {
	s.offset = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}
func (s *recordingSurface) Translate(x, y float64) { s.offset[0] += x; s.offset[1] += y }

// fills returns the fill color of each entry, nil when not filled
func (s *recordingSurface) fills() (out []color.Color) {
	for _, r := range s.records {
		if !r.stroke {
			out = append(out, r.color)
		}
	}
	return out
}

var (
	blue  = color.NRGBA{B: 0xff, A: 0xff}
	black = DefaultStyle.Foreground
	white = DefaultStyle.Background
)

func square(t *testing.T, key string, style ShapeStyle) Entry {
	sh, err := NewPathShape("M0 0 h10 v10 h-10 z", style)
	if err != nil {
		t.Fatal(err)
	}
	return Entry{Key: key, Shape: sh}
}

func TestFit(t *testing.T) {
	space := CoordinateSpace{W: 100, H: 50}
	if l := Fit(space, 200, 100); l != (Layout{Ratio: 2}) {
		t.Errorf("expected ratio 2 without offsets, got %v", l)
	}
	// width constrained: letterboxing top and bottom
	if l := Fit(space, 100, 300); l != (Layout{Ratio: 1, OffsetX: 0, OffsetY: 125}) {
		t.Errorf("unexpected layout %v", l)
	}
	// height constrained
	if l := Fit(space, 400, 100); l != (Layout{Ratio: 2, OffsetX: 100, OffsetY: 0}) {
		t.Errorf("unexpected layout %v", l)
	}
	// the viewBox origin is not taken into account
	if l := Fit(CoordinateSpace{X: 10, Y: 10, W: 100, H: 50}, 200, 100); l != (Layout{Ratio: 2}) {
		t.Errorf("unexpected layout %v", l)
	}
	// degenerate surface: the vertical offset exceeds the height and is reset
	if l := Fit(CoordinateSpace{W: 100, H: 100}, -200, 50); l != (Layout{Ratio: -2, OffsetX: 0, OffsetY: 0}) {
		t.Errorf("unexpected layout %v", l)
	}
}

func TestResolveFill(t *testing.T) {
	for _, test := range []struct {
		key      string
		override color.Color
		pressed  bool
		expected color.Color
	}{
		{"screen", nil, false, nil},
		{"A_ADDITIONAL_0", blue, false, blue},
		{"body", blue, false, white},
		{"body", nil, true, black}, // never pressed in practice
		{"l", nil, false, white},
		{"l", nil, true, black},
		{"a", blue, true, black},
		{"a", blue, false, blue},
		{"a", nil, false, nil},
	} {
		e := square(t, test.key, ShapeStyle{Fill: test.override})
		buttons := ButtonState{test.key: test.pressed}
		if got := resolveFill(e, buttons, DefaultStyle); !sameColor(got, test.expected) {
			t.Errorf("%s (override %v, pressed %v): expected %v, got %v",
				test.key, test.override, test.pressed, test.expected, got)
		}
	}
}

func TestNewCompositor(t *testing.T) {
	if _, err := NewCompositor(nil, DefaultStyle); err != errNilRegistry {
		t.Errorf("expected nil registry error, got %v", err)
	}
	c, err := NewCompositor(NewRegistry(CoordinateSpace{W: 1, H: 1}, nil), Style{})
	if err != nil {
		t.Fatal(err)
	}
	if c.style != DefaultStyle {
		t.Errorf("expected default style, got %v", c.style)
	}
}

func TestComposite(t *testing.T) {
	reg := NewRegistry(CoordinateSpace{W: 100, H: 50}, []Entry{
		square(t, "body", ShapeStyle{StrokeWidth: 1}),
		square(t, "a", ShapeStyle{StrokeWidth: 2}),
		square(t, "A_ADDITIONAL_0", ShapeStyle{Fill: blue}),
		{Key: "b", Shape: &CircleShape{CX: 50, CY: 25, R: 5, ShapeStyle: ShapeStyle{StrokeWidth: 1}}},
	})
	c, err := NewCompositor(reg, DefaultStyle)
	if err != nil {
		t.Fatal(err)
	}

	s := &recordingSurface{w: 200, h: 200}
	c.Composite(s, ButtonState{"a": true, "A_ADDITIONAL_0": true, "start": true}, nil)

	if !sameColor(s.background, DefaultBackground) {
		t.Errorf("expected the default background, got %v", s.background)
	}
	if len(s.stack) != 0 || s.offset != [2]float64{} {
		t.Errorf("transform not restored: %v %v", s.stack, s.offset)
	}

	fills := s.fills()
	expectedFills := []color.Color{white, black, black}
	if len(fills) != len(expectedFills) {
		t.Fatalf("expected %d fills, got %v", len(expectedFills), fills)
	}
	for i := range fills {
		if !sameColor(fills[i], expectedFills[i]) {
			t.Errorf("fill %d: expected %v, got %v", i, expectedFills[i], fills[i])
		}
	}

	// ratio 2, centered vertically
	var widths []fixed.Int26_6
	for _, r := range s.records {
		if r.stroke {
			widths = append(widths, r.lineWidth)
			if !sameColor(r.color, black) {
				t.Errorf("unexpected stroke color %v", r.color)
			}
		}
	}
	if len(widths) != 3 || widths[0] != fixed.I(2) || widths[1] != fixed.I(4) || widths[2] != fixed.I(2) {
		t.Errorf("unexpected line widths %v", widths)
	}
	if start := s.records[0].start; start != (fixed.Point26_6{X: 0, Y: fixed.I(50)}) {
		t.Errorf("unexpected translated start %v", start)
	}
	last := s.records[len(s.records)-1] // circle stroke starts on its rightmost point
	if last.start != (fixed.Point26_6{X: fixed.I(110), Y: fixed.I(100)}) {
		t.Errorf("unexpected circle start %v", last.start)
	}

	s = &recordingSurface{w: 200, h: 200}
	c.Composite(s, nil, color.Transparent)
	if !s.cleared {
		t.Error("transparent background should clear the surface")
	}
	if len(s.fills()) != 2 { // body and its blue overlay
		t.Errorf("unexpected fills %v", s.fills())
	}
}

func TestCompositeIdempotent(t *testing.T) {
	reg, err := buildFile(t, "testdata/order.svg", IgnoreErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewCompositor(reg, DefaultStyle)
	if err != nil {
		t.Fatal(err)
	}
	buttons := ButtonState{"a": true, "up": true}
	s1, s2 := &recordingSurface{w: 320, h: 240}, &recordingSurface{w: 320, h: 240}
	c.Composite(s1, buttons, nil)
	c.Composite(s2, buttons, nil)
	c.Composite(s2, buttons, nil)
	s2.records = s2.records[len(s2.records)/2:]
	if len(s1.records) != len(s2.records) {
		t.Fatalf("different number of draws: %d and %d", len(s1.records), len(s2.records))
	}
	for i := range s1.records {
		r1, r2 := s1.records[i], s2.records[i]
		if r1.stroke != r2.stroke || r1.start != r2.start || r1.lineWidth != r2.lineWidth || !sameColor(r1.color, r2.color) {
			t.Errorf("draw %d differs: %v and %v", i, r1, r2)
		}
	}
}
