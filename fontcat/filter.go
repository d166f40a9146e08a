package fontcat

import (
	"errors"
	"regexp"
	"sort"
)

// ErrEmptySelection indicates that filtering removed every variant. It is
// fatal and must abort the run before any compilation work.
var ErrEmptySelection = errors.New("font selection is empty")

// SelectOptions is the resolved filter configuration. Empty axis slices
// leave the axis unrestricted; the CLI defaults the style axis to normal.
type SelectOptions struct {
	Include   *regexp.Regexp // keep only matching families, nil keeps all
	Exclude   *regexp.Regexp // drop matching families, wins over Include
	Styles    []Style
	Weights   []Weight
	Stretches []Stretch
	Variants  bool // test every face per family instead of one representative
}

// Selection is the ordered, deduplicated sequence of variants for one run.
type Selection []Variant

// Families returns the distinct family names in selection order.
func (s Selection) Families() []string {
	var out []string
	for _, v := range s {
		if len(out) == 0 || out[len(out)-1] != v.Family {
			out = append(out, v.Family)
		}
	}
	return out
}

// Select filters and orders the catalog for a run. Exclude is applied before
// Include so that an exclusion always wins. The result is deduplicated by
// identity tuple and sorted by (family, style, weight, stretch); running
// Select twice over the same inputs yields identical sequences.
func Select(catalog []Variant, opts SelectOptions) (Selection, error) {
	kept := make(Selection, 0, len(catalog))
	for _, v := range catalog {
		if opts.Exclude != nil && opts.Exclude.MatchString(v.Family) {
			continue
		}
		if opts.Include != nil && !opts.Include.MatchString(v.Family) {
			continue
		}
		kept = append(kept, v)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Less(kept[j]) })
	kept = dedup(kept)

	if opts.Variants {
		kept = restrictAxes(kept, opts)
	} else {
		kept = collapseFamilies(kept)
	}

	if len(kept) == 0 {
		return nil, ErrEmptySelection
	}
	return kept, nil
}

// dedup removes variants sharing an identity tuple, keeping the first of
// each run. Requires sorted input.
func dedup(sel Selection) Selection {
	out := sel[:0]
	for _, v := range sel {
		if len(out) > 0 && out[len(out)-1].SameFace(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// restrictAxes intersects the selection with the requested axis sets.
func restrictAxes(sel Selection, opts SelectOptions) Selection {
	out := sel[:0]
	for _, v := range sel {
		if !containsStyle(opts.Styles, v.Style) ||
			!containsWeight(opts.Weights, v.Weight) ||
			!containsStretch(opts.Stretches, v.Stretch) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// collapseFamilies keeps one representative per family: the default
// (normal, 400, normal) face when the family has one, else the first face in
// sorted order.
func collapseFamilies(sel Selection) Selection {
	out := sel[:0]
	i := 0
	for i < len(sel) {
		j := i
		for j < len(sel) && sel[j].Family == sel[i].Family {
			j++
		}
		rep := sel[i]
		for _, v := range sel[i:j] {
			if v.IsDefault() {
				rep = v
				break
			}
		}
		out = append(out, rep)
		i = j
	}
	return out
}

func containsStyle(set []Style, s Style) bool {
	if len(set) == 0 {
		return true
	}
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}

func containsWeight(set []Weight, w Weight) bool {
	if len(set) == 0 {
		return true
	}
	for _, x := range set {
		if x == w {
			return true
		}
	}
	return false
}

func containsStretch(set []Stretch, s Stretch) bool {
	if len(set) == 0 {
		return true
	}
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}
