package classify

import (
	"encoding/json"
	"strings"

	"sample-pipeline/file-detection/internal/model"
)

// magika --json emits one entry per input path:
//
//	[{"path": "...", "result": {"status": "ok", "value": {
//	    "output": {"label": ..., "description": ..., "extensions": [...], "group": ...},
//	    "score": 0.99}}}]
type magikaEntry struct {
	Path   string `json:"path"`
	Result struct {
		Status string `json:"status"`
		Value  struct {
			Output struct {
				Label       string   `json:"label"`
				Description string   `json:"description"`
				Extensions  []string `json:"extensions"`
				Group       string   `json:"group"`
			} `json:"output"`
			Score float64 `json:"score"`
		} `json:"value"`
	} `json:"result"`
}

// ParseMagikaOutput decodes the first ok entry from magika's JSON output
// into the raw result shape. False on decode failure or when no entry
// succeeded.
func ParseMagikaOutput(text string) (model.RawMagikaResult, bool) {
	if strings.TrimSpace(text) == "" {
		return model.RawMagikaResult{}, false
	}
	var entries []magikaEntry
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return model.RawMagikaResult{}, false
	}
	for _, e := range entries {
		if e.Result.Status != "ok" {
			continue
		}
		v := e.Result.Value
		return model.RawMagikaResult{
			Label:       v.Output.Label,
			Description: v.Output.Description,
			Extensions:  v.Output.Extensions,
			Group:       v.Output.Group,
			Score:       v.Score,
		}, true
	}
	return model.RawMagikaResult{}, false
}
