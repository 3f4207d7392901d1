package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"jobscout/internal/platform/tasks"
)

// Handler exposes ingest over HTTP and consumes ingest tasks from the queue.
type Handler struct {
	service    *Service
	tasks      *tasks.Client
	sourceURL  string
	maxRetries int
}

func NewHandler(service *Service, tc *tasks.Client, defaultSource string, maxRetries int) *Handler {
	return &Handler{service: service, tasks: tc, sourceURL: defaultSource, maxRetries: maxRetries}
}

type ingestRequest struct {
	SourceURL string `json:"source_url"`
}

// Enqueue accepts POST /v1/ingest and queues an ingest run.
func (h *Handler) Enqueue(c *fiber.Ctx) error {
	var req ingestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}
	source := req.SourceURL
	if source == "" {
		source = h.sourceURL
	}

	payload := tasks.IngestPayload{RunID: uuid.NewString(), SourceURL: source}
	if err := h.tasks.EnqueueIngest(payload, h.maxRetries); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to enqueue ingest")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"run_id":     payload.RunID,
		"source_url": payload.SourceURL,
	})
}

// HandleTask runs a queued ingest.
func (h *Handler) HandleTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.IngestPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decoding ingest payload: %w", err)
	}
	_, err := h.service.Ingest(ctx, p.RunID, p.SourceURL)
	return err
}
