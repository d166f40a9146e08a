// Package compile typesets a parsed proof document against a single font
// binding. The document's text and structure never change between calls;
// only the font-resolution context does, so font choice stays the only
// variable across a comparison run.
package compile

import (
	"fmt"
	"os"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/fontproof/fontproof/fontcat"
	"github.com/fontproof/fontproof/markup"
)

// PtToMM converts points to millimeters.
const PtToMM = 25.4 / 72.0

const headingScale = 1.4

// Page is one compiled page: geometry in millimeters plus the drawn canvas,
// ready for rasterization. Pages are ephemeral; the driver renders and
// drops them before compiling the next variant.
type Page struct {
	Width  float64
	Height float64
	Canvas *canvas.Canvas
}

// Compiler holds the shared, read-only inputs of a run: the parsed document
// and the discovered catalog (used by the baseline pass).
type Compiler struct {
	doc     *markup.Document
	catalog []fontcat.Variant
}

// New returns a compiler for doc. The catalog is only consulted by the
// baseline pass and for fallback resolution.
func New(doc *markup.Document, catalog []fontcat.Variant) *Compiler {
	return &Compiler{doc: doc, catalog: catalog}
}

// Compile typesets the document with the font resolution scoped to exactly
// one variant. A nil variant selects the baseline pass: the @family request
// is resolved against the catalog, with fallback to the first catalog face
// when fallback is set. Errors are per-variant; the caller records and
// continues.
func (c *Compiler) Compile(v *fontcat.Variant, fallback bool) ([]Page, error) {
	variant := v
	if variant == nil {
		resolved, err := c.resolveBaseline(fallback)
		if err != nil {
			return nil, err
		}
		variant = resolved
	}

	if !fallback {
		if err := fontcat.Coverage(*variant, c.doc.Text()); err != nil {
			return nil, fmt.Errorf("%s: %w", variant.Label(true), err)
		}
	}

	face, headFace, err := loadFaces(*variant, c.doc.Size)
	if err != nil {
		return nil, err
	}
	return c.typeset(face, headFace), nil
}

// resolveBaseline picks the face the baseline pass renders with: the
// requested @family's representative, or the first catalog face when
// fallback allows it.
func (c *Compiler) resolveBaseline(fallback bool) (*fontcat.Variant, error) {
	sorted, err := fontcat.Select(c.catalog, fontcat.SelectOptions{})
	if err != nil {
		return nil, err
	}
	want := strings.TrimSpace(c.doc.Family)
	if want != "" {
		for i := range sorted {
			if strings.EqualFold(sorted[i].Family, want) {
				return &sorted[i], nil
			}
		}
		if !fallback {
			return nil, fmt.Errorf("family %q not found and fallback is disabled", want)
		}
	}
	return &sorted[0], nil
}

// loadFaces loads the variant's file into a canvas font family and derives
// the body and heading faces. Sizes are points; canvas coordinates are mm.
func loadFaces(v fontcat.Variant, sizePt float64) (*canvas.FontFace, *canvas.FontFace, error) {
	data, err := os.ReadFile(v.Source.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading font %s: %w", v.Source.Path, err)
	}
	family := canvas.NewFontFamily(v.Family)
	if err := family.LoadFont(data, v.Source.Index, canvasStyle(v)); err != nil {
		return nil, nil, fmt.Errorf("loading font %s: %w", v.Source.Path, err)
	}
	body := family.Face(sizePt, canvas.Black, canvasStyle(v), canvas.FontNormal)
	head := family.Face(sizePt*headingScale, canvas.Black, canvasStyle(v), canvas.FontNormal)
	return body, head, nil
}

// canvasStyle maps a variant's weight and slant onto canvas's face styles.
func canvasStyle(v fontcat.Variant) canvas.FontStyle {
	style := canvas.FontRegular
	switch {
	case v.Weight <= fontcat.WeightLight:
		style = canvas.FontLight
	case v.Weight <= fontcat.WeightRegular:
		style = canvas.FontRegular
	case v.Weight <= fontcat.WeightMedium:
		style = canvas.FontMedium
	case v.Weight <= fontcat.WeightSemiBold:
		style = canvas.FontSemiBold
	case v.Weight <= fontcat.WeightBold:
		style = canvas.FontBold
	case v.Weight <= fontcat.WeightExtraBold:
		style = canvas.FontExtraBold
	default:
		style = canvas.FontBlack
	}
	if v.Style != fontcat.StyleNormal {
		style |= canvas.FontItalic
	}
	return style
}

// typeset lays out every page of the document. Pages are fixed-width and
// auto-height: @pagebreak is the only source of page boundaries, so the page
// count cannot change with the bound font, only the geometry can.
func (c *Compiler) typeset(body, head *canvas.FontFace) []Page {
	doc := c.doc
	contentWidth := doc.Width - 2*doc.Margin

	bodyStep := lineStep(body, doc.Size, doc.Leading)
	headStep := lineStep(head, doc.Size*headingScale, doc.Leading)

	pages := make([]Page, 0, len(doc.Pages))
	for _, blocks := range doc.Pages {
		var flows []flowLine
		y := doc.Margin
		for bi, block := range blocks {
			face, step := body, bodyStep
			if block.Heading {
				face, step = head, headStep
				if bi > 0 {
					y += 0.8 * bodyStep // extra space above a heading
				}
			} else if bi > 0 {
				y += 0.5 * bodyStep
			}
			for _, line := range wrapText(block.Text, contentWidth, face) {
				flows = append(flows, flowLine{
					text:     line,
					face:     face,
					baseline: y + face.Metrics().Ascent,
				})
				y += step
			}
		}
		height := y + doc.Margin

		cv := canvas.New(doc.Width, height)
		ctx := canvas.NewContext(cv)
		ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, like the layout above
		ctx.SetFillColor(canvas.White)
		ctx.DrawPath(0, 0, canvas.Rectangle(doc.Width, height))
		for _, fl := range flows {
			if fl.text == "" {
				continue
			}
			ctx.DrawText(doc.Margin, fl.baseline, canvas.NewTextLine(fl.face, fl.text, canvas.Left))
		}
		pages = append(pages, Page{Width: doc.Width, Height: height, Canvas: cv})
	}
	return pages
}

type flowLine struct {
	text     string
	face     *canvas.FontFace
	baseline float64
}

// lineStep is the vertical advance per line in mm: the leading factor
// applied to the font size, but never tighter than the face's own line
// height.
func lineStep(face *canvas.FontFace, sizePt, leading float64) float64 {
	step := sizePt * PtToMM * leading
	if lh := face.Metrics().LineHeight; lh > step {
		step = lh
	}
	return step
}
