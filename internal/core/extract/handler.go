package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"jobscout/internal/platform/tasks"
)

const defaultBatchLimit = 25

// Handler exposes extraction over HTTP and consumes extract tasks.
type Handler struct {
	service    *Service
	tasks      *tasks.Client
	maxRetries int
}

func NewHandler(service *Service, tc *tasks.Client, maxRetries int) *Handler {
	return &Handler{service: service, tasks: tc, maxRetries: maxRetries}
}

type extractRequest struct {
	Limit int `json:"limit"`
}

// Enqueue accepts POST /v1/extract and queues an extraction batch.
func (h *Handler) Enqueue(c *fiber.Ctx) error {
	var req extractRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}
	if req.Limit <= 0 {
		req.Limit = defaultBatchLimit
	}

	payload := tasks.ExtractPayload{RunID: uuid.NewString(), Limit: req.Limit}
	if err := h.tasks.EnqueueExtract(payload, h.maxRetries); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to enqueue extraction")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"run_id": payload.RunID,
		"limit":  payload.Limit,
	})
}

// HandleTask runs a queued extraction batch.
func (h *Handler) HandleTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.ExtractPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decoding extract payload: %w", err)
	}
	_, err := h.service.ExtractBatch(ctx, p.RunID, p.Limit)
	return err
}
