package server

import (
	"github.com/gofiber/fiber/v2"

	"jobscout/internal/core/extract"
	"jobscout/internal/core/ingest"
	"jobscout/internal/core/mapper"
	"jobscout/internal/core/match"
	"jobscout/internal/core/report"
	"jobscout/internal/health"
	"jobscout/internal/platform/redis"
	"jobscout/internal/store"
)

type Dependencies struct {
	Ingest  *ingest.Handler
	Extract *extract.Handler
	Map     *mapper.Handler
	Match   *match.Handler
	Store   *store.Store
	Redis   *redis.Service
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.Handler {
	healthHandler := health.NewHandler(d.Redis, d.Store)
	app.Get("/v1/health", health.Limiter(), healthHandler.HandleHealth)

	api := app.Group("/v1")

	api.Post("/ingest", d.Ingest.Enqueue)
	api.Post("/extract", d.Extract.Enqueue)
	api.Post("/map", d.Map.Map)
	api.Post("/match", d.Match.Match)

	reportHandler := report.NewHandler(d.Store)
	api.Get("/jobs", reportHandler.Jobs)
	api.Get("/jobs/:linkID", reportHandler.Job)
	api.Get("/links", reportHandler.Links)
	api.Get("/stats", reportHandler.Stats)

	return healthHandler
}
