package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"jobscout/internal/platform/redis"
)

const (
	TaskTypeIngest  = "ingest:source"
	TaskTypeExtract = "extract:batch"
)

// IngestPayload asks the worker to collect leads from a source listing page.
type IngestPayload struct {
	RunID     string `json:"run_id"`
	SourceURL string `json:"source_url"`
}

// ExtractPayload asks the worker to drain up to Limit unscraped links.
type ExtractPayload struct {
	RunID string `json:"run_id"`
	Limit int    `json:"limit"`
}

type Client struct{ c *asynq.Client }

func New(r *redis.Service) *Client { return &Client{c: asynq.NewClient(r.AsynqRedisOpt())} }

func (t *Client) EnqueueIngest(p IngestPayload, maxRetries int) error {
	return t.enqueue(TaskTypeIngest, p, maxRetries)
}

func (t *Client) EnqueueExtract(p ExtractPayload, maxRetries int) error {
	return t.enqueue(TaskTypeExtract, p, maxRetries)
}

func (t *Client) enqueue(taskType string, payload interface{}, maxRetries int) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", taskType, err)
	}
	_, err = t.c.Enqueue(asynq.NewTask(taskType, b), asynq.Queue("default"), asynq.MaxRetry(maxRetries))
	return err
}
