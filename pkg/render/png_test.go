package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/matzehuels/bpview/pkg/fit"
)

func rgbaAt(c *Canvas, x, y int) color.RGBA {
	return color.RGBAModel.Convert(c.Image().At(x, y)).(color.RGBA)
}

func TestCanvasDraw(t *testing.T) {
	plan, vp := scenarioPlan()
	c := NewCanvas(vp)
	c.Draw(plan)

	b := c.Image().Bounds()
	if b.Dx() != 400 || b.Dy() != 400 {
		t.Fatalf("canvas size = %dx%d, want 400x400", b.Dx(), b.Dy())
	}

	// Start marker at (20,20) is green, the last marker at (380,380) is red.
	if got := rgbaAt(c, 20, 20); got.G < 150 || got.R > 100 {
		t.Errorf("start marker pixel = %v, want green", got)
	}
	if got := rgbaAt(c, 380, 380); got.R < 150 || got.G > 120 {
		t.Errorf("regular marker pixel = %v, want red", got)
	}
	// Middle of the first segment is stroked blue.
	if got := rgbaAt(c, 200, 20); got.B < 150 || got.R > 120 {
		t.Errorf("path pixel = %v, want blue", got)
	}
	// Far from the drawing the background stays white.
	if got := rgbaAt(c, 100, 300); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("background pixel = %v, want white", got)
	}
}

func TestCanvasRedrawClears(t *testing.T) {
	plan, vp := scenarioPlan()
	c := NewCanvas(vp)
	c.Draw(plan)
	c.Draw(fit.Plan{})

	if got := rgbaAt(c, 20, 20); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel after redraw with empty plan = %v, want background", got)
	}
}

func TestCanvasRepeatedDrawIdentical(t *testing.T) {
	plan, vp := scenarioPlan()

	once := NewCanvas(vp)
	once.Draw(plan)
	twice := NewCanvas(vp)
	twice.Draw(plan)
	twice.Draw(plan)

	var a, b bytes.Buffer
	if err := once.EncodePNG(&a); err != nil {
		t.Fatal(err)
	}
	if err := twice.EncodePNG(&b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("drawing twice should produce the same pixels as drawing once")
	}
}

func TestRenderPNGScale(t *testing.T) {
	plan, vp := scenarioPlan()
	data, err := RenderPNG(plan, vp, WithScale(2))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 800 {
		t.Errorf("size = %dx%d, want 800x800", b.Dx(), b.Dy())
	}
}
