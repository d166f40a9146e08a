// Package fontcat discovers installed font variants and selects the subset a
// comparison run should test. A variant is one concrete face: a family
// crossed with the style, weight and stretch axes.
package fontcat

import (
	"fmt"
	"strconv"
	"strings"
)

// Style is the slant axis of a face.
type Style int

const (
	StyleNormal Style = iota
	StyleItalic
	StyleOblique
)

func (s Style) String() string {
	switch s {
	case StyleItalic:
		return "italic"
	case StyleOblique:
		return "oblique"
	default:
		return "normal"
	}
}

// ParseStyle parses a style name as accepted by the --style flag.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return StyleNormal, nil
	case "italic":
		return StyleItalic, nil
	case "oblique":
		return StyleOblique, nil
	}
	return StyleNormal, fmt.Errorf("unknown style %q", s)
}

// Weight is the CSS font weight, 1..1000.
type Weight int

const (
	WeightThin       Weight = 100
	WeightExtraLight Weight = 200
	WeightLight      Weight = 300
	WeightRegular    Weight = 400
	WeightMedium     Weight = 500
	WeightSemiBold   Weight = 600
	WeightBold       Weight = 700
	WeightExtraBold  Weight = 800
	WeightBlack      Weight = 900
)

var weightNames = map[string]Weight{
	"thin":       WeightThin,
	"extralight": WeightExtraLight,
	"light":      WeightLight,
	"regular":    WeightRegular,
	"normal":     WeightRegular,
	"medium":     WeightMedium,
	"semibold":   WeightSemiBold,
	"bold":       WeightBold,
	"extrabold":  WeightExtraBold,
	"black":      WeightBlack,
}

func (w Weight) String() string { return strconv.Itoa(int(w)) }

// ParseWeight parses a numeric weight or a CSS weight name.
func ParseWeight(s string) (Weight, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if w, ok := weightNames[key]; ok {
		return w, nil
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > 1000 {
		return 0, fmt.Errorf("unknown weight %q", s)
	}
	return Weight(n), nil
}

// Stretch is one of the nine named width ratios.
type Stretch float64

const (
	StretchUltraCondensed Stretch = 0.5
	StretchExtraCondensed Stretch = 0.625
	StretchCondensed      Stretch = 0.75
	StretchSemiCondensed  Stretch = 0.875
	StretchNormal         Stretch = 1.0
	StretchSemiExpanded   Stretch = 1.125
	StretchExpanded       Stretch = 1.25
	StretchExtraExpanded  Stretch = 1.5
	StretchUltraExpanded  Stretch = 2.0
)

var stretchNames = []struct {
	name  string
	value Stretch
}{
	{"ultra-condensed", StretchUltraCondensed},
	{"extra-condensed", StretchExtraCondensed},
	{"condensed", StretchCondensed},
	{"semi-condensed", StretchSemiCondensed},
	{"normal", StretchNormal},
	{"semi-expanded", StretchSemiExpanded},
	{"expanded", StretchExpanded},
	{"extra-expanded", StretchExtraExpanded},
	{"ultra-expanded", StretchUltraExpanded},
}

func (s Stretch) String() string {
	for _, n := range stretchNames {
		if n.value == s {
			return n.name
		}
	}
	return strconv.FormatFloat(float64(s), 'g', -1, 64)
}

// ParseStretch parses a stretch name as accepted by the --stretch flag.
func ParseStretch(s string) (Stretch, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, n := range stretchNames {
		if n.name == key {
			return n.value, nil
		}
	}
	return 0, fmt.Errorf("unknown stretch %q", s)
}

// Source locates one face inside a font file. Index is the face index
// within a collection; zero for plain font files.
type Source struct {
	Path  string
	Index int
}

// Variant identifies one discovered face. Variants are immutable; identity,
// equality and ordering are by (family, style, weight, stretch).
type Variant struct {
	Family  string
	Style   Style
	Weight  Weight
	Stretch Stretch
	Source  Source
}

// SameFace reports whether two variants share the identity tuple.
func (v Variant) SameFace(o Variant) bool {
	return v.Family == o.Family && v.Style == o.Style &&
		v.Weight == o.Weight && v.Stretch == o.Stretch
}

// Less orders variants by (family, style, weight, stretch) for deterministic
// enumeration across runs.
func (v Variant) Less(o Variant) bool {
	if v.Family != o.Family {
		return v.Family < o.Family
	}
	if v.Style != o.Style {
		return v.Style < o.Style
	}
	if v.Weight != o.Weight {
		return v.Weight < o.Weight
	}
	return v.Stretch < o.Stretch
}

// Label derives the page label for this variant. With withAspect the label
// spells out the tested axes ("Inter italic 700 condensed"); otherwise it is
// the family name alone.
func (v Variant) Label(withAspect bool) string {
	if !withAspect {
		return v.Family
	}
	parts := []string{v.Family}
	if v.Style != StyleNormal {
		parts = append(parts, v.Style.String())
	}
	parts = append(parts, v.Weight.String())
	if v.Stretch != StretchNormal {
		parts = append(parts, v.Stretch.String())
	}
	return strings.Join(parts, " ")
}

// IsDefault reports whether this is the family's default face
// (normal style, regular weight, normal stretch).
func (v Variant) IsDefault() bool {
	return v.Style == StyleNormal && v.Weight == WeightRegular && v.Stretch == StretchNormal
}
