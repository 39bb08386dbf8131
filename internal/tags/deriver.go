package tags

import "sample-pipeline/file-detection/internal/model"

// Derive scans the DiE filetype and match descriptions, in DiE's own order,
// and emits at most one packer_type and at most one packer_name tag. DiE
// gives no confidence to break ties on, so the first match for a key wins
// and later candidates for that key are ignored. A nil attribute or no
// match yields an empty (never nil) tag set.
func (t *Table) Derive(attr *model.DieAttribute) []model.Tag {
	tags := make([]model.Tag, 0, 2)
	if t == nil || attr == nil || len(t.rules) == 0 {
		return tags
	}

	segments := make([]string, 0, 1+len(attr.Values))
	segments = append(segments, attr.Filetype)
	for _, v := range attr.Values {
		segments = append(segments, v.String)
	}

	var packerType, packerName string
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		for _, r := range t.rules {
			if !r.re.MatchString(seg) {
				continue
			}
			switch r.key {
			case model.TagKeyPackerType:
				if packerType == "" {
					packerType = r.value
				}
			case model.TagKeyPackerName:
				if packerName == "" {
					packerName = r.value
				}
			}
		}
		if packerType != "" && packerName != "" {
			break
		}
	}

	if packerType != "" {
		tags = append(tags, model.Tag{Key: model.TagKeyPackerType, Value: packerType})
	}
	if packerName != "" {
		tags = append(tags, model.Tag{Key: model.TagKeyPackerName, Value: packerName})
	}
	return tags
}
