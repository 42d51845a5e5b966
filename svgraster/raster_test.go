package svgraster

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/benoitkugler/padoverlay/overlay"
	"github.com/benoitkugler/padoverlay/svgdoc"
	"github.com/benoitkugler/padoverlay/svgpath"
)

func loadCompositor(t *testing.T) *overlay.Compositor {
	t.Helper()
	doc, err := svgdoc.ReadDocument("testdata/device.svg")
	if err != nil {
		t.Fatal(err)
	}
	reg, err := overlay.Build(doc, overlay.StrictErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	c, err := overlay.NewCompositor(reg, overlay.DefaultStyle)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return -2 <= d && d <= 2
}

// assertColor tolerates anti-aliasing rounding errors
func assertColor(t *testing.T, img *image.RGBA, x, y int, expected color.RGBA) {
	t.Helper()
	got := img.RGBAAt(x, y)
	if !(near(got.R, expected.R) && near(got.G, expected.G) && near(got.B, expected.B) && near(got.A, expected.A)) {
		t.Errorf("pixel (%d, %d): expected %v, got %v", x, y, expected, got)
	}
}

var (
	black = color.RGBA{0, 0, 0, 0xff}
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	green = color.RGBA{0, 0xff, 0, 0xff}
	red   = color.RGBA{0xff, 0, 0, 0xff}
)

func TestRenderButtons(t *testing.T) {
	c := loadCompositor(t)

	img := Render(c, 200, 100, overlay.ButtonState{"a": true}, nil)
	assertColor(t, img, 150, 50, black) // pressed
	assertColor(t, img, 20, 50, white)  // body
	assertColor(t, img, 46, 36, red)    // overlay fill over the released button
	assertColor(t, img, 42, 32, white)  // released button
	assertColor(t, img, 0, 50, black)   // outline

	img = Render(c, 200, 100, overlay.ButtonState{"up": true}, nil)
	assertColor(t, img, 150, 50, white)
	assertColor(t, img, 42, 32, black)
	assertColor(t, img, 46, 36, red) // the overlay is painted after its button
}

func TestRenderBackground(t *testing.T) {
	c := loadCompositor(t)

	// letterboxed: the body covers rows 50 to 150
	img := Render(c, 200, 200, nil, nil)
	assertColor(t, img, 100, 10, green)
	assertColor(t, img, 100, 190, green)
	assertColor(t, img, 100, 100, white)

	img = Render(c, 200, 200, nil, color.NRGBA{0, 0, 0xff, 0xff})
	assertColor(t, img, 100, 10, color.RGBA{0, 0, 0xff, 0xff})

	transparent, err := svgpath.ParseColor("transparent")
	if err != nil {
		t.Fatal(err)
	}
	img = image.NewRGBA(image.Rect(0, 0, 200, 200))
	canvas := NewCanvas(img)
	canvas.Fill(green)
	c.Composite(canvas, nil, transparent)
	for y := 0; y < 200; y++ {
		if 46 <= y && y < 154 { // device rows, including its outline
			continue
		}
		for x := 0; x < 200; x++ {
			if a := img.RGBAAt(x, y).A; a != 0 {
				t.Fatalf("pixel (%d, %d) should be transparent, got alpha %d", x, y, a)
			}
		}
	}
	assertColor(t, img, 100, 100, white)
}

func TestRenderSmallViewBox(t *testing.T) {
	doc, err := svgdoc.ReadDocumentStream(strings.NewReader(
		`<svg viewBox="0 0 1 1"><path id="BODY" d="M0.1 0.1 H0.9 V0.9 H0.1 Z"/></svg>`))
	if err != nil {
		t.Fatal(err)
	}
	reg, err := overlay.Build(doc, overlay.StrictErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	c, err := overlay.NewCompositor(reg, overlay.DefaultStyle)
	if err != nil {
		t.Fatal(err)
	}
	img := Render(c, 640, 640, nil, nil)
	// the body spans 64 to 576 on both axis
	assertColor(t, img, 62, 320, green)
	assertColor(t, img, 65, 320, white)
	assertColor(t, img, 320, 62, green)
	assertColor(t, img, 320, 65, white)
	assertColor(t, img, 574, 320, white)
	assertColor(t, img, 577, 320, green)
}

func TestRenderIdempotent(t *testing.T) {
	c := loadCompositor(t)
	buttons := overlay.ButtonState{"a": true, "up": true}

	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	canvas := NewCanvas(img)
	canvas.Clear()
	c.Composite(canvas, buttons, nil)
	first := append([]byte(nil), img.Pix...)
	c.Composite(canvas, buttons, nil)
	if !bytes.Equal(first, img.Pix) {
		t.Error("compositing twice should produce the same image")
	}
	if len(canvas.stack) != 0 || canvas.transform != svgpath.Identity {
		t.Errorf("transform not restored: %v", canvas.transform)
	}
}

func TestMissingKeys(t *testing.T) {
	reg := overlay.NewRegistry(overlay.CoordinateSpace{W: 10, H: 10}, nil)
	c, err := overlay.NewCompositor(reg, overlay.DefaultStyle)
	if err != nil {
		t.Fatal(err)
	}
	img := Render(c, 20, 20, overlay.ButtonState{"a": true}, nil)
	assertColor(t, img, 10, 10, green)
}

func TestOpacity(t *testing.T) {
	c := loadCompositor(t)
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	canvas := NewCanvas(img)
	canvas.Opacity = 0
	c.Composite(canvas, overlay.ButtonState{"a": true}, nil)
	assertColor(t, img, 150, 50, green)
	assertColor(t, img, 20, 50, green)
}

func TestTransformStack(t *testing.T) {
	canvas := NewCanvas(image.NewRGBA(image.Rect(0, 0, 10, 10)))
	canvas.Restore() // no-op
	canvas.Save()
	canvas.Translate(2, 3)
	canvas.Save()
	canvas.Translate(1, 1)
	if x, y := canvas.transform.Transform(0, 0); x != 3 || y != 4 {
		t.Errorf("unexpected translation (%g, %g)", x, y)
	}
	canvas.Restore()
	if x, y := canvas.transform.Transform(0, 0); x != 2 || y != 3 {
		t.Errorf("unexpected translation (%g, %g)", x, y)
	}
	canvas.Restore()
	if canvas.transform != svgpath.Identity {
		t.Errorf("expected identity, got %v", canvas.transform)
	}
	if w, h := canvas.Bounds(); w != 10 || h != 10 {
		t.Errorf("unexpected bounds %g %g", w, h)
	}
}
