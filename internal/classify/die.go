package classify

import (
	"encoding/json"
	"regexp"
	"strings"

	"sample-pipeline/file-detection/internal/model"
)

// diec mixes warnings and progress lines into stdout around the JSON
// document, so locate the outermost object rather than decoding directly.
var dieJSONRe = regexp.MustCompile(`(?s)\{.*\}`)

// ParseDieOutput extracts the DiE detect tree from raw diec stdout. The
// first usable detect becomes the root; further detects (sub-archives,
// overlays) are nested under it. Detects with no values, or whose only
// value is "Unknown", carry no information and are dropped. False means
// DiE found nothing usable.
func ParseDieOutput(text string) (model.RawDieResult, bool) {
	if strings.TrimSpace(text) == "" {
		return model.RawDieResult{}, false
	}
	doc := dieJSONRe.FindString(text)
	if doc == "" {
		return model.RawDieResult{}, false
	}

	var parsed struct {
		Detects []model.RawDieResult `json:"detects"`
	}
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		return model.RawDieResult{}, false
	}

	usable := make([]model.RawDieResult, 0, len(parsed.Detects))
	for _, d := range parsed.Detects {
		if len(d.Values) == 0 {
			continue
		}
		if len(d.Values) == 1 && d.Values[0].Type == "Unknown" {
			continue
		}
		usable = append(usable, d)
	}
	if len(usable) == 0 {
		return model.RawDieResult{}, false
	}

	root := usable[0]
	root.Detects = append(root.Detects, usable[1:]...)
	return root, true
}
