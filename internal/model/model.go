package model

// Pipeline stages this worker sits between.
const (
	StageRecognized = "recognized"
	StageAnalyzed   = "analyzed"
)

// TaskType is the only header type this worker consumes or produces.
const TaskType = "sample"

// Sample references the binary artifact under analysis. The worker locates
// the bytes via Bucket/Key and echoes the whole reference unchanged into the
// outgoing message; everything else about it belongs to the surrounding
// pipeline.
type Sample struct {
	UID    string `json:"uid"`
	Name   string `json:"name,omitempty"`
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key"`
	SHA256 string `json:"sha256,omitempty"`
	Size   int64  `json:"size,omitempty"`
}

// Valid reports whether the reference is usable at all. A sample without a
// uid or an object key cannot be advanced.
func (s Sample) Valid() bool {
	return s.UID != "" && s.Key != ""
}

// Ident returns the best identifier for log lines.
func (s Sample) Ident() string {
	if s.SHA256 != "" {
		return s.SHA256
	}
	if s.Name != "" {
		return s.Name
	}
	return s.UID
}

// Headers route a task through the pipeline.
type Headers struct {
	Type  string `json:"type"`
	Stage string `json:"stage"`
}

// RecognizedPayload is what arrives with a recognized-stage task.
type RecognizedPayload struct {
	Sample Sample `json:"sample"`
}

// AnalyzedMessage is the outgoing event. It carries no transport envelope;
// the bus wraps it into a task with a fresh id at publish time, so composing
// the same inputs twice yields byte-identical messages.
type AnalyzedMessage struct {
	Headers Headers         `json:"headers"`
	Payload AnalyzedPayload `json:"payload"`
}

type AnalyzedPayload struct {
	Sample     Sample     `json:"sample"`
	Tags       []Tag      `json:"tags"`
	Attributes Attributes `json:"attributes"`
}

// Attributes holds the per-classifier results. A nil field means the
// classifier produced nothing usable and the key is omitted from the JSON
// mapping entirely; the downstream attribute store distinguishes "absent"
// from "present but null". Field order fixes the serialized key order.
type Attributes struct {
	Die    *DieAttribute    `json:"die,omitempty"`
	Trid   *TridAttribute   `json:"trid,omitempty"`
	Magika *MagikaAttribute `json:"magika,omitempty"`
}
