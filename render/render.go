// Package render rasterizes one variant's compiled pages and tags each
// result with the label of the variant that produced it. It holds at most
// the pages it was handed; ownership returns to the caller, which appends
// them to the assembler and drops them before the next variant.
package render

import (
	"fmt"
	"image"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/fontproof/fontproof/compile"
)

// DefaultPPI is the render resolution used when none is configured.
const DefaultPPI = 300.0

// Page is one rasterized page. Width and Height stay in document
// millimeters; the image resolution is the renderer's PPI.
type Page struct {
	Image  image.Image
	Width  float64
	Height float64
	Label  string
}

// Renderer rasterizes compiled pages at a fixed resolution.
type Renderer struct {
	ppi float64
}

// New returns a renderer drawing at ppi pixels per inch.
func New(ppi float64) *Renderer {
	if ppi <= 0 {
		ppi = DefaultPPI
	}
	return &Renderer{ppi: ppi}
}

// PPI returns the configured resolution.
func (r *Renderer) PPI() float64 { return r.ppi }

// Render converts each compiled page to pixels and pairs it with label.
func (r *Renderer) Render(pages []compile.Page, label string) ([]Page, error) {
	out := make([]Page, 0, len(pages))
	for i, p := range pages {
		if p.Canvas == nil {
			return nil, fmt.Errorf("page %d of %s has no content", i, label)
		}
		img := rasterizer.Draw(p.Canvas, canvas.DPI(r.ppi), canvas.DefaultColorSpace)
		out = append(out, Page{
			Image:  img,
			Width:  p.Width,
			Height: p.Height,
			Label:  label,
		})
	}
	return out, nil
}
