// Package worker routes queued pipeline tasks (ingest runs, extraction
// batches) to their handlers.
package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

// HandlerFunc processes one dequeued task. Returning an error requeues the
// task until its retry budget runs out.
type HandlerFunc func(ctx context.Context, task *asynq.Task) error

// Mux maps task types to handlers for the asynq server.
type Mux struct {
	mux *asynq.ServeMux
}

func NewMux() *Mux {
	return &Mux{mux: asynq.NewServeMux()}
}

// HandleFunc registers h for tasks of type taskType.
func (m *Mux) HandleFunc(taskType string, h HandlerFunc) {
	m.mux.HandleFunc(taskType, h)
}

// Mux exposes the underlying asynq mux for server startup.
func (m *Mux) Mux() *asynq.ServeMux { return m.mux }
