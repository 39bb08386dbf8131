// Package compose assembles the outgoing analyzed-stage message.
package compose

import (
	"errors"
	"fmt"

	"sample-pipeline/file-detection/internal/model"
)

// ErrInvalidSample is the only fatal per-sample condition: without a valid
// sample reference there is nothing to advance, so no message is built.
var ErrInvalidSample = errors.New("invalid sample reference")

// Input carries the per-classifier results into assembly. A nil attribute
// field means that classifier produced nothing usable; its key is omitted
// from the outgoing mapping.
type Input struct {
	Sample model.Sample
	Tags   []model.Tag
	Die    *model.DieAttribute
	Trid   *model.TridAttribute
	Magika *model.MagikaAttribute
}

// Message builds the analyzed-stage event. Pure assembly: deterministic for
// a fixed Input, no side effects, attribute key order fixed at die, trid,
// magika regardless of which classifiers finished first. Empty tags and a
// fully empty attribute mapping are valid output; only a broken sample
// reference is an error.
func Message(in Input) (model.AnalyzedMessage, error) {
	if !in.Sample.Valid() {
		return model.AnalyzedMessage{}, fmt.Errorf("%w: uid=%q key=%q", ErrInvalidSample, in.Sample.UID, in.Sample.Key)
	}
	tags := in.Tags
	if tags == nil {
		tags = make([]model.Tag, 0)
	}
	return model.AnalyzedMessage{
		Headers: model.Headers{Type: model.TaskType, Stage: model.StageAnalyzed},
		Payload: model.AnalyzedPayload{
			Sample: in.Sample,
			Tags:   tags,
			Attributes: model.Attributes{
				Die:    in.Die,
				Trid:   in.Trid,
				Magika: in.Magika,
			},
		},
	}, nil
}
