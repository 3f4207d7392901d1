package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"jobscout/internal/logger"
	"jobscout/internal/platform/redis"
	"jobscout/internal/store"
)

// Handler answers liveness and readiness probes.
type Handler struct {
	log       *logger.Logger
	redis     *redis.Service
	store     *store.Store
	startTime time.Time
	isReady   atomic.Bool
}

func NewHandler(redisSvc *redis.Service, st *store.Store) *Handler {
	return &Handler{
		log:       logger.New("HealthCheck"),
		redis:     redisSvc,
		store:     st,
		startTime: time.Now(),
	}
}

// SetReady marks the application as ready to receive traffic. Safe to call
// from the startup goroutine while probes are already being served.
func (h *Handler) SetReady() {
	h.isReady.Store(true)
	h.log.LogInfof("application ready after %v", time.Since(h.startTime))
}

// Ready reports whether SetReady has been called.
func (h *Handler) Ready() bool { return h.isReady.Load() }

type ComponentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type OverallHealth struct {
	OverallStatus string                     `json:"overall_status"`
	Timestamp     string                     `json:"timestamp"`
	Ready         bool                       `json:"ready"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Components    map[string]ComponentStatus `json:"components"`
}

// HandleHealth reports overall status including dependency checks.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	statuses := make(map[string]ComponentStatus)
	var wg sync.WaitGroup
	var mu sync.Mutex
	allOk := true

	check := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		state := "ok"
		var errStr string
		if err := fn(ctx); err != nil {
			state = "error"
			errStr = err.Error()
			mu.Lock()
			allOk = false
			mu.Unlock()
			h.log.LogErrorf("health check failed for %s: %v", name, err)
		}
		mu.Lock()
		statuses[name] = ComponentStatus{Status: state, Error: errStr}
		mu.Unlock()
	}

	wg.Add(2)
	go check("redis", h.redis.HealthCheck)
	go check("store", func(context.Context) error { return h.store.Ping() })
	wg.Wait()

	ready := h.isReady.Load()
	response := OverallHealth{
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		Ready:         ready,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Components:    statuses,
	}

	if allOk && ready {
		response.OverallStatus = "ok"
		return c.Status(http.StatusOK).JSON(response)
	}
	if !ready {
		response.OverallStatus = "starting"
		return c.Status(http.StatusServiceUnavailable).JSON(response)
	}
	response.OverallStatus = "error"
	h.log.LogWarnf("health check failed: %+v", statuses)
	return c.Status(http.StatusServiceUnavailable).JSON(response)
}

func Limiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{"error": "Rate limit exceeded"})
		},
	})
}
