package fontcat

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testCatalog is deliberately unsorted and contains a duplicate face.
func testCatalog() []Variant {
	return []Variant{
		{Family: "Roboto", Style: StyleNormal, Weight: WeightBold, Stretch: StretchNormal, Source: Source{Path: "Roboto-Bold.ttf"}},
		{Family: "Inter", Style: StyleItalic, Weight: WeightRegular, Stretch: StretchNormal, Source: Source{Path: "Inter-Italic.ttf"}},
		{Family: "Roboto", Style: StyleNormal, Weight: WeightRegular, Stretch: StretchNormal, Source: Source{Path: "Roboto-Regular.ttf"}},
		{Family: "Inter", Style: StyleNormal, Weight: WeightRegular, Stretch: StretchNormal, Source: Source{Path: "Inter-Regular.ttf"}},
		{Family: "Inter", Style: StyleNormal, Weight: WeightRegular, Stretch: StretchNormal, Source: Source{Path: "Inter-Regular-copy.ttf"}},
		{Family: "Archivo", Style: StyleNormal, Weight: WeightMedium, Stretch: StretchCondensed, Source: Source{Path: "Archivo-Medium-Condensed.ttf"}},
		{Family: "Archivo", Style: StyleNormal, Weight: WeightBold, Stretch: StretchNormal, Source: Source{Path: "Archivo-Bold.ttf"}},
	}
}

func TestSelectVariantsModeCountsDistinctTuples(t *testing.T) {
	sel, err := Select(testCatalog(), SelectOptions{Variants: true})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	// 7 entries, one duplicate tuple -> 6 distinct variants.
	if len(sel) != 6 {
		t.Fatalf("expected 6 variants, got %d: %v", len(sel), sel)
	}
}

func TestSelectFamilyModeCountsFamilies(t *testing.T) {
	sel, err := Select(testCatalog(), SelectOptions{})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(sel) != 3 {
		t.Fatalf("expected 3 families, got %d: %v", len(sel), sel)
	}
	want := []string{"Archivo", "Inter", "Roboto"}
	if diff := cmp.Diff(want, sel.Families()); diff != "" {
		t.Fatalf("families mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectFamilyRepresentativePolicy(t *testing.T) {
	sel, err := Select(testCatalog(), SelectOptions{})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	for _, v := range sel {
		switch v.Family {
		case "Inter":
			// Inter has a (normal, 400, normal) face; it must win over italic.
			if !v.IsDefault() {
				t.Fatalf("Inter representative should be the default face, got %+v", v)
			}
		case "Archivo":
			// No default face: the first in sorted order is the tie-break.
			if v.Weight != WeightMedium || v.Stretch != StretchCondensed {
				t.Fatalf("Archivo representative should be the first sorted face, got %+v", v)
			}
		}
	}
}

func TestSelectExcludeBeatsInclude(t *testing.T) {
	sel, err := Select(testCatalog(), SelectOptions{
		Include:  regexp.MustCompile(`Inter|Roboto`),
		Exclude:  regexp.MustCompile(`Inter`),
		Variants: true,
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	for _, v := range sel {
		if v.Family == "Inter" {
			t.Fatalf("excluded family survived: %+v", v)
		}
	}
	if len(sel) != 2 {
		t.Fatalf("expected 2 Roboto variants, got %d", len(sel))
	}
}

func TestSelectDeterminism(t *testing.T) {
	opts := SelectOptions{Variants: true}
	a, err := Select(testCatalog(), opts)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	b, err := Select(testCatalog(), opts)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("selections differ across runs (-a +b):\n%s", diff)
	}
	for i := 1; i < len(a); i++ {
		if a[i].Less(a[i-1]) {
			t.Fatalf("selection not sorted at %d: %v", i, a)
		}
	}
}

func TestSelectAxisRestriction(t *testing.T) {
	sel, err := Select(testCatalog(), SelectOptions{
		Variants: true,
		Styles:   []Style{StyleNormal},
		Weights:  []Weight{WeightBold},
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(sel) != 2 {
		t.Fatalf("expected Archivo+Roboto bold, got %v", sel)
	}
	for _, v := range sel {
		if v.Weight != WeightBold || v.Style != StyleNormal {
			t.Fatalf("axis restriction leaked %+v", v)
		}
	}
}

func TestSelectEmptySelection(t *testing.T) {
	_, err := Select(testCatalog(), SelectOptions{
		Include: regexp.MustCompile(`Zzz_NoSuchFamily`),
	})
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
}

// The two-family ordering the end-to-end comparison document relies on.
func TestSelectTwoFamilyOrdering(t *testing.T) {
	catalog := []Variant{
		{Family: "Roboto", Style: StyleNormal, Weight: WeightRegular, Stretch: StretchNormal},
		{Family: "Inter", Style: StyleNormal, Weight: WeightRegular, Stretch: StretchNormal},
	}
	sel, err := Select(catalog, SelectOptions{})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	labels := []string{sel[0].Label(false), sel[1].Label(false)}
	if diff := cmp.Diff([]string{"Inter", "Roboto"}, labels); diff != "" {
		t.Fatalf("ordering mismatch (-want +got):\n%s", diff)
	}
}
