// Package assemble merges rendered pages into a single PDF whose pages each
// keep their own geometry. Pages are written out as they are appended so
// the tool never buffers more than the variant currently in flight.
package assemble

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/fontproof/fontproof/render"
)

// Creator is the producer string written into the PDF info dictionary.
const Creator = "fontproof"

// Assembler builds the comparison document. Append is single-writer: the
// driver serializes calls and keeps them in selection order. The PDF writer
// is created lazily on the first page because every page carries its own
// size.
type Assembler struct {
	title  string
	buf    bytes.Buffer
	writer *pdf.PDF
	labels []string
}

// New returns an empty assembler. title becomes the PDF document title.
func New(title string) *Assembler {
	return &Assembler{title: title}
}

// Append adds pages to the output in the order given, each PDF page sized
// exactly to the rendered page's own width and height in mm. No reordering
// and no size normalization happen here; a larger compiled result yields a
// correspondingly larger page.
func (a *Assembler) Append(pages []render.Page) error {
	for _, p := range pages {
		if p.Image == nil || p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("page %q has invalid geometry %gx%g", p.Label, p.Width, p.Height)
		}
		if a.writer == nil {
			a.writer = pdf.New(&a.buf, p.Width, p.Height, nil)
		} else {
			a.writer.NewPage(p.Width, p.Height)
		}

		cv := canvas.New(p.Width, p.Height)
		ctx := canvas.NewContext(cv)
		ctx.SetCoordSystem(canvas.CartesianIV)
		// Map the raster back onto the page's mm geometry exactly.
		dpmm := float64(p.Image.Bounds().Dx()) / p.Width
		ctx.DrawImage(0, 0, p.Image, canvas.DPMM(dpmm))
		cv.RenderTo(a.writer)

		a.labels = append(a.labels, p.Label)
	}
	return nil
}

// Len reports how many pages have been appended.
func (a *Assembler) Len() int { return len(a.labels) }

// Labels returns the per-page labels in output order.
func (a *Assembler) Labels() []string {
	return append([]string(nil), a.labels...)
}

// Finalize writes the document info and closes the container, returning the
// PDF bytes. The per-page labels are recorded in the Keywords field, in page
// order, as the page tagging extension point.
func (a *Assembler) Finalize() ([]byte, error) {
	if a.writer == nil {
		return nil, fmt.Errorf("no pages were appended")
	}
	a.writer.SetInfo(a.title, "font comparison", strings.Join(a.labels, ", "), "", Creator)
	if err := a.writer.Close(); err != nil {
		return nil, fmt.Errorf("closing PDF: %w", err)
	}
	return a.buf.Bytes(), nil
}
