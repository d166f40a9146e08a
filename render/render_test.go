package render_test

import (
	"math"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/fontproof/fontproof/compile"
	"github.com/fontproof/fontproof/render"
)

func TestRenderGeometryAndLabel(t *testing.T) {
	const ppi = 150.0
	pages := []compile.Page{
		{Width: 100, Height: 50, Canvas: canvas.New(100, 50)},
		{Width: 100, Height: 80, Canvas: canvas.New(100, 80)},
	}

	r := render.New(ppi)
	out, err := r.Render(pages, "Inter 400")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rendered pages, got %d", len(out))
	}

	for i, p := range out {
		if p.Label != "Inter 400" {
			t.Fatalf("page %d label: got %q", i, p.Label)
		}
		if p.Width != pages[i].Width || p.Height != pages[i].Height {
			t.Fatalf("page %d geometry changed: %gx%g", i, p.Width, p.Height)
		}
		wantPx := pages[i].Width / 25.4 * ppi
		gotPx := float64(p.Image.Bounds().Dx())
		if math.Abs(gotPx-wantPx) > 1 {
			t.Fatalf("page %d raster width: got %gpx, want about %gpx", i, gotPx, wantPx)
		}
	}
}

func TestRenderRejectsEmptyPage(t *testing.T) {
	r := render.New(0)
	if r.PPI() != render.DefaultPPI {
		t.Fatalf("default ppi not applied: %g", r.PPI())
	}
	if _, err := r.Render([]compile.Page{{Width: 10, Height: 10}}, "x"); err == nil {
		t.Fatalf("expected error for page without content")
	}
}
