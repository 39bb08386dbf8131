package model

// Tag keys this worker may attach. Both come from DiE packer detection.
const (
	TagKeyPackerType = "packer_type"
	TagKeyPackerName = "packer_name"
)

// Tag is one key/value label attached to a sample.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
