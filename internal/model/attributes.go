package model

// Raw classifier output shapes, as decoded at the invoker boundary. Each
// tool has its own conventions (percentage vs fractional scores, optional
// fields, nesting); the normalize package maps them into the minimized
// attribute forms below.

// RawDieValue is one signature match inside a DiE detect block. Type and
// Name carry DiE's own vocabulary ("Packer"/"UPX" etc.); String is the
// free-text line DiE prints for the match.
type RawDieValue struct {
	String  string `json:"string"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Info    string `json:"info,omitempty"`
}

// RawDieResult is the root DiE detect: a filetype plus its matches, with any
// further detects (sub-archives, overlays) nested underneath.
type RawDieResult struct {
	Filetype string         `json:"filetype"`
	Values   []RawDieValue  `json:"values"`
	Detects  []RawDieResult `json:"detects,omitempty"`
}

// RawTridMatch is one TrID format candidate. Percentage is 0-100 with one
// decimal; TrID emits candidates in descending confidence order and that
// order is preserved end to end.
type RawTridMatch struct {
	Extension  string  `json:"extension"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// RawTridResult is TrID's full candidate list. Empty means the tool ran and
// matched nothing, which is distinct from the tool producing no output.
type RawTridResult []RawTridMatch

// RawMagikaResult is Magika's single best guess. Score is fractional (0-1).
type RawMagikaResult struct {
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Extensions  []string `json:"extensions"`
	Group       string   `json:"group"`
	Score       float64  `json:"score"`
}

// Minimized attribute forms, as stored on the sample. Only the fields below
// survive; raw tool detail never leaks past the normalizers.

type DieValue struct {
	String string `json:"string"`
}

type DieAttribute struct {
	Filetype string     `json:"filetype"`
	Values   []DieValue `json:"values"`
}

type TridMatch struct {
	Extension  string  `json:"extension"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// TridAttribute keeps the raw candidate order (probability-descending, per
// TrID's own output invariant).
type TridAttribute []TridMatch

type MagikaAttribute struct {
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Extensions  []string `json:"extensions"`
	Group       string   `json:"group"`
	Score       float64  `json:"score"`
}
