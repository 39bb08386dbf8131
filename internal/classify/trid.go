package classify

import (
	"regexp"
	"strconv"
	"strings"

	"sample-pipeline/file-detection/internal/model"
)

// Candidates below this confidence are noise and not worth storing.
const tridCutoff = 5.0

// Lines look like: " 85.5% (.EXE) Win32 Executable MS Visual C++ (4/3)"
var tridLineRe = regexp.MustCompile(`(\d+(?:\.\d+)?)%\s+\(\.(\w+)\)\s+(.+)`)

// ParseTridOutput extracts format candidates from raw trid stdout,
// preserving TrID's own descending-confidence order. False means the tool
// produced no output at all; a present-but-empty list means it ran and
// matched nothing above the cutoff.
func ParseTridOutput(text string) (model.RawTridResult, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	matches := tridLineRe.FindAllStringSubmatch(text, -1)
	out := make(model.RawTridResult, 0, len(matches))
	for _, m := range matches {
		pct, err := strconv.ParseFloat(m[1], 64)
		if err != nil || pct <= tridCutoff {
			continue
		}
		out = append(out, model.RawTridMatch{
			Percentage: pct,
			Extension:  strings.ToLower(m[2]),
			Name:       strings.TrimSpace(m[3]),
		})
	}
	return out, true
}
