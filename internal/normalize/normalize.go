// Package normalize maps raw classifier output into the minimized attribute
// forms stored on a sample. All functions are pure; absence in means absence
// out, and malformed input degrades to absence (or entry drop) rather than
// an error.
package normalize

import "sample-pipeline/file-detection/internal/model"

// Die reduces a raw DiE detect tree to its root filetype plus the flattened
// match descriptions, in source order. Nested sub-detect detail is dropped.
// False when the result is malformed (no filetype).
func Die(raw model.RawDieResult) (model.DieAttribute, bool) {
	if raw.Filetype == "" {
		return model.DieAttribute{}, false
	}
	values := make([]model.DieValue, 0, len(raw.Values))
	for _, v := range raw.Values {
		values = append(values, model.DieValue{String: v.String})
	}
	return model.DieAttribute{Filetype: raw.Filetype, Values: values}, true
}

// Trid passes TrID candidates through in their original order, dropping any
// single candidate that lacks an extension or a name. TrID emits candidates
// probability-descending and that ordering is trusted, never re-sorted. An
// empty result is valid (the tool ran, nothing matched).
func Trid(raw model.RawTridResult) model.TridAttribute {
	out := make(model.TridAttribute, 0, len(raw))
	for _, m := range raw {
		if m.Extension == "" || m.Name == "" {
			continue
		}
		out = append(out, model.TridMatch{
			Extension:  m.Extension,
			Name:       m.Name,
			Percentage: m.Percentage,
		})
	}
	return out
}

// Magika validates the shape of a raw Magika result and passes its fields
// through. Score stays unrounded; rounding is a presentation concern.
// Description stays empty (and is omitted from JSON) when the tool gave
// none. False when the result is unusable (no label, or score outside 0-1).
func Magika(raw model.RawMagikaResult) (model.MagikaAttribute, bool) {
	if raw.Label == "" || raw.Score < 0 || raw.Score > 1 {
		return model.MagikaAttribute{}, false
	}
	exts := raw.Extensions
	if exts == nil {
		exts = []string{}
	}
	return model.MagikaAttribute{
		Label:       raw.Label,
		Description: raw.Description,
		Extensions:  exts,
		Group:       raw.Group,
		Score:       raw.Score,
	}, true
}
