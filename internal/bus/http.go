package bus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"sample-pipeline/file-detection/internal/config"
	"sample-pipeline/file-detection/internal/model"
	"sample-pipeline/file-detection/internal/util"
)

// httpBus speaks to the pipeline broker over its plain HTTP task API:
//
//	GET  /v1/tasks/next?type=sample&stage=recognized&consumer=<identity>
//	POST /v1/tasks/{id}/ack
//	POST /v1/tasks
//
// The broker itself (queueing, routing, redelivery) is external; this is
// just the client side of its contract.
type httpBus struct {
	cfg    config.BusConfig
	client *http.Client
}

func NewHTTP(cfg config.BusConfig) Bus {
	to := cfg.Timeout
	if to == 0 {
		to = 15 * time.Second
	}
	return &httpBus{cfg: cfg, client: util.NewHTTPClient(to)}
}

func (b *httpBus) base() string {
	return strings.TrimRight(b.cfg.URL, "/")
}

func (b *httpBus) identity() string {
	if b.cfg.Identity != "" {
		return b.cfg.Identity
	}
	return "file-detection"
}

func (b *httpBus) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if t := strings.TrimSpace(b.cfg.Token); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
	if ua := b.cfg.UserAgent; ua != "" {
		req.Header.Set("User-Agent", ua)
	}
}

func (b *httpBus) Next(ctx context.Context) (*Task, error) {
	q := url.Values{}
	q.Set("type", model.TaskType)
	q.Set("stage", model.StageRecognized)
	q.Set("consumer", b.identity())
	endpoint := b.base() + "/v1/tasks/next?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	b.setHeaders(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("next task: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var t Task
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &t, nil
}

func (b *httpBus) Ack(ctx context.Context, taskID string) error {
	endpoint := b.base() + "/v1/tasks/" + url.PathEscape(taskID) + "/ack"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	b.setHeaders(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("ack %s: http %d", taskID, resp.StatusCode)
	}
	return nil
}

func (b *httpBus) Publish(ctx context.Context, msg model.AnalyzedMessage, parentID string) error {
	t := Task{
		ID:       uuid.NewString(),
		ParentID: parentID,
		Headers:  msg.Headers,
	}
	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		return err
	}
	t.Payload = payload

	body, err := json.Marshal(t)
	if err != nil {
		return err
	}

	attempts := b.cfg.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}
	backoff := b.cfg.Backoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	maxBackoff := b.cfg.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = 5 * time.Second
	}

	endpoint := b.base() + "/v1/tasks"
	return util.Retry(ctx, attempts, backoff, maxBackoff, func() error {
		// Fresh request per attempt to avoid drained Body issues.
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		b.setHeaders(req)
		resp, err := b.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode/100 != 2 {
			return fmt.Errorf("publish task: http %d", resp.StatusCode)
		}
		return nil
	})
}
