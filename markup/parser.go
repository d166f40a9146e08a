// Package markup parses the proof document format: a line-oriented text
// format with @directives for page and font parameters, # headings and
// plain paragraphs. The same parsed document is recompiled once per font
// variant, so the parse result is immutable.
package markup

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	proofLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Newline", Pattern: `\n`},
		{Name: "Directive", Pattern: `@[a-z][a-z-]*[^\n]*`},
		{Name: "Heading", Pattern: `#[^\n]*`},
		{Name: "Line", Pattern: `[^\n]+`},
	})

	// Lookahead 2 lets a paragraph continuation (Newline Line) be told apart
	// from a blank line or a following directive without backtracking.
	proofParser = participle.MustBuild[fileAST](
		participle.Lexer(proofLexer),
		participle.UseLookahead(2),
	)
)

// fileAST is the raw parse tree before directives are interpreted.
type fileAST struct {
	Items []*itemAST `parser:"( @@ | Newline )*"`
}

type itemAST struct {
	Pos       lexer.Position `parser:""`
	Directive *string        `parser:"  @Directive"`
	Heading   *string        `parser:"| @Heading"`
	Lines     []string       `parser:"| @Line ( Newline @Line )*"`
}

// Block is one typeset unit: a heading or a paragraph.
type Block struct {
	Heading bool
	Text    string
}

// Document is the parsed proof document. Lengths are millimeters, Size is
// points, Leading is a factor applied to the font size.
type Document struct {
	Title   string
	Family  string // requested family for the baseline pass
	Width   float64
	Margin  float64
	Size    float64
	Leading float64
	Pages   [][]Block // split at @pagebreak directives
}

// Defaults for omitted directives.
const (
	DefaultWidth   = 150.0
	DefaultMargin  = 12.0
	DefaultSize    = 11.0
	DefaultLeading = 1.4
)

// Parse reads a proof document from r.
func Parse(r io.Reader) (*Document, error) {
	ast, err := proofParser.Parse("", r)
	if err != nil {
		return nil, err
	}
	return build(ast)
}

// ParseString parses a proof document from a string.
func ParseString(input string) (*Document, error) {
	ast, err := proofParser.ParseString("", input)
	if err != nil {
		return nil, err
	}
	return build(ast)
}

// Text returns the complete textual content of the document, headings
// included. Used for glyph coverage checks; identical for every variant.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, page := range d.Pages {
		for _, b := range page {
			sb.WriteString(b.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// PageCount reports the number of pages the document compiles to. The count
// depends only on @pagebreak directives, never on the bound font.
func (d *Document) PageCount() int { return len(d.Pages) }

func build(ast *fileAST) (*Document, error) {
	doc := &Document{
		Width:   DefaultWidth,
		Margin:  DefaultMargin,
		Size:    DefaultSize,
		Leading: DefaultLeading,
		Pages:   [][]Block{nil},
	}
	page := 0
	for _, item := range ast.Items {
		switch {
		case item.Directive != nil:
			brk, err := doc.applyDirective(*item.Directive, item.Pos)
			if err != nil {
				return nil, err
			}
			if brk {
				doc.Pages = append(doc.Pages, nil)
				page++
			}
		case item.Heading != nil:
			text := strings.TrimSpace(strings.TrimLeft(*item.Heading, "#"))
			doc.Pages[page] = append(doc.Pages[page], Block{Heading: true, Text: text})
		case len(item.Lines) > 0:
			parts := make([]string, 0, len(item.Lines))
			for _, l := range item.Lines {
				parts = append(parts, strings.TrimSpace(l))
			}
			doc.Pages[page] = append(doc.Pages[page], Block{Text: strings.Join(parts, " ")})
		}
	}
	return doc, nil
}

// applyDirective interprets one @directive line. It reports whether the
// directive starts a new page.
func (doc *Document) applyDirective(raw string, pos lexer.Position) (bool, error) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(raw, "@"), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "pagebreak":
		return true, nil
	case "title":
		doc.Title = arg
	case "family":
		doc.Family = arg
	case "width":
		mm, err := parseLength(arg)
		if err != nil {
			return false, fmt.Errorf("%s: @width: %w", pos, err)
		}
		doc.Width = mm
	case "margin":
		mm, err := parseLength(arg)
		if err != nil {
			return false, fmt.Errorf("%s: @margin: %w", pos, err)
		}
		doc.Margin = mm
	case "size":
		pt, err := parseSize(arg)
		if err != nil {
			return false, fmt.Errorf("%s: @size: %w", pos, err)
		}
		doc.Size = pt
	case "leading":
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil || f <= 0 {
			return false, fmt.Errorf("%s: @leading: invalid factor %q", pos, arg)
		}
		doc.Leading = f
	default:
		return false, fmt.Errorf("%s: unknown directive @%s", pos, name)
	}
	return false, nil
}

// parseLength parses a length with an mm/cm/in/pt suffix into millimeters.
// A bare number is taken as millimeters.
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("missing length")
	}
	factor := 1.0
	num := s
	for _, suf := range []struct {
		s string
		f float64
	}{{"mm", 1}, {"cm", 10}, {"in", 25.4}, {"pt", 25.4 / 72.0}} {
		if strings.HasSuffix(s, suf.s) {
			factor = suf.f
			num = strings.TrimSpace(strings.TrimSuffix(s, suf.s))
			break
		}
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	return v * factor, nil
}

// parseSize parses a font size in points; a bare number is points.
func parseSize(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	num := strings.TrimSpace(strings.TrimSuffix(s, "pt"))
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return v, nil
}
