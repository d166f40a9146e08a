package compile_test

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/fontproof/fontproof/compile"
	"github.com/fontproof/fontproof/fontcat"
	"github.com/fontproof/fontproof/markup"
)

const proofSource = `@title Wrap proof
@width 100mm
@margin 10mm
@size 11pt

# Sample
The quick brown fox jumps over the lazy dog. Pack my box with five dozen liquor jugs.

@pagebreak

Second page text.
`

// systemCatalog loads the host's fonts, skipping the test on bare machines.
// The pattern follows the renderer's own integration tests: real font files
// cannot be checked into the repository.
func systemCatalog(t *testing.T) []fontcat.Variant {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	catalog, err := fontcat.Discover(nil, true, logger)
	if errors.Is(err, fontcat.ErrNoFonts) {
		t.Skip("no system fonts available on this host")
	}
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	return catalog
}

func parseProof(t *testing.T) *markup.Document {
	t.Helper()
	doc, err := markup.ParseString(proofSource)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestCompilePinnedVariantGeometry(t *testing.T) {
	catalog := systemCatalog(t)
	doc := parseProof(t)
	c := compile.New(doc, catalog)

	sel, err := fontcat.Select(catalog, fontcat.SelectOptions{})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	pages, err := c.Compile(&sel[0], true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(pages) != doc.PageCount() {
		t.Fatalf("page count %d != document page count %d", len(pages), doc.PageCount())
	}
	for i, p := range pages {
		if p.Width != doc.Width {
			t.Fatalf("page %d width %g, want %g", i, p.Width, doc.Width)
		}
		if p.Height <= 2*doc.Margin {
			t.Fatalf("page %d height %g has no content area", i, p.Height)
		}
		if p.Canvas == nil {
			t.Fatalf("page %d has no canvas", i)
		}
	}
}

// Page count is structural: it must not move when the font does.
func TestCompilePageCountInvariantAcrossVariants(t *testing.T) {
	catalog := systemCatalog(t)
	doc := parseProof(t)
	c := compile.New(doc, catalog)

	sel, err := fontcat.Select(catalog, fontcat.SelectOptions{})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(sel) < 2 {
		t.Skip("need at least two families for the invariance check")
	}

	first, err := c.Compile(&sel[0], true)
	if err != nil {
		t.Fatalf("Compile %s: %v", sel[0].Label(true), err)
	}
	second, err := c.Compile(&sel[1], true)
	if err != nil {
		t.Fatalf("Compile %s: %v", sel[1].Label(true), err)
	}
	if len(first) != len(second) {
		t.Fatalf("font substitution changed the page count: %d vs %d", len(first), len(second))
	}
}

func TestCompileBaselineUnknownFamily(t *testing.T) {
	catalog := systemCatalog(t)
	doc, err := markup.ParseString("@family Zzz_NoSuchFamily\nhello\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := compile.New(doc, catalog)

	if _, err := c.Compile(nil, false); err == nil || !strings.Contains(err.Error(), "fallback is disabled") {
		t.Fatalf("expected fallback-disabled error, got %v", err)
	}

	pages, err := c.Compile(nil, true)
	if err != nil {
		t.Fatalf("baseline with fallback should use the first catalog face: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
}
