package bus

import (
	"context"
	"encoding/json"

	"sample-pipeline/file-detection/internal/model"
)

// Task is the wire envelope for one pipeline message.
type Task struct {
	ID       string          `json:"task_id"`
	ParentID string          `json:"parent_task_id,omitempty"`
	Headers  model.Headers   `json:"headers"`
	Payload  json.RawMessage `json:"payload"`
}

// Consumer hands out pending tasks at the stage this worker listens on.
type Consumer interface {
	// Next returns the next pending task, or nil when the queue is empty.
	Next(ctx context.Context) (*Task, error)
	// Ack marks a task as handled so the broker stops redelivering it.
	Ack(ctx context.Context, taskID string) error
}

// Publisher pushes an analyzed message back into the pipeline.
type Publisher interface {
	// Publish wraps msg into a fresh task (new id, parentID for lineage)
	// and hands it to the broker.
	Publish(ctx context.Context, msg model.AnalyzedMessage, parentID string) error
}

// Bus is the full transport surface the worker needs.
type Bus interface {
	Consumer
	Publisher
}
