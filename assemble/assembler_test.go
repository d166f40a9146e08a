package assemble_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fontproof/fontproof/assemble"
	"github.com/fontproof/fontproof/render"
)

func testPage(w, h float64, label string) render.Page {
	img := image.NewRGBA(image.Rect(0, 0, int(w*4), int(h*4)))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.Black)
	return render.Page{Image: img, Width: w, Height: h, Label: label}
}

func TestAppendKeepsOrderAndGeometry(t *testing.T) {
	asm := assemble.New("proof")

	if err := asm.Append([]render.Page{testPage(100, 60, "Inter"), testPage(100, 90, "Inter")}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := asm.Append([]render.Page{testPage(120, 40, "Roboto")}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if asm.Len() != 3 {
		t.Fatalf("expected 3 pages, got %d", asm.Len())
	}
	want := []string{"Inter", "Inter", "Roboto"}
	if diff := cmp.Diff(want, asm.Labels()); diff != "" {
		t.Fatalf("label order mismatch (-want +got):\n%s", diff)
	}

	out, err := asm.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", out[:min(16, len(out))])
	}
}

func TestAppendRejectsInvalidGeometry(t *testing.T) {
	asm := assemble.New("proof")
	err := asm.Append([]render.Page{{Width: 0, Height: 10, Label: "bad"}})
	if err == nil {
		t.Fatalf("expected geometry error")
	}
}

func TestFinalizeWithoutPages(t *testing.T) {
	asm := assemble.New("proof")
	if _, err := asm.Finalize(); err == nil {
		t.Fatalf("an empty document must not be written")
	}
}
