// Package report serves read-only views over tracked links and job records.
package report

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"jobscout/internal/logger"
	"jobscout/internal/store"
)

const defaultListLimit = 100

type Handler struct {
	log   *logger.Logger
	store *store.Store
}

func NewHandler(st *store.Store) *Handler {
	return &Handler{log: logger.New("ReportHandler"), store: st}
}

// Jobs serves GET /v1/jobs. ?success=true narrows to usable extractions.
func (h *Handler) Jobs(c *fiber.Ctx) error {
	jobs, err := h.store.FindAllJobs(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load jobs")
	}

	if c.Query("success") == "true" {
		filtered := jobs[:0:0]
		for _, j := range jobs {
			if j.Success {
				filtered = append(filtered, j)
			}
		}
		jobs = filtered
	}
	return c.JSON(fiber.Map{"count": len(jobs), "jobs": jobs})
}

// Job serves GET /v1/jobs/:linkID.
func (h *Handler) Job(c *fiber.Ctx) error {
	linkID, err := strconv.ParseInt(c.Params("linkID"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid link id")
	}

	rec, err := h.store.FindJobByLinkID(c.Context(), linkID)
	if errors.Is(err, store.ErrJobNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "no job record for link")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load job")
	}
	return c.JSON(rec)
}

// Links serves GET /v1/links with optional ?status= and ?limit=.
func (h *Handler) Links(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	status := store.LinkStatus(c.Query("status"))
	switch status {
	case "", store.StatusNew, store.StatusClaimed, store.StatusScraped, store.StatusError:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown status")
	}

	links, err := h.store.FindLinks(c.Context(), status, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load links")
	}
	return c.JSON(fiber.Map{"count": len(links), "links": linkViews(links)})
}

// Stats serves GET /v1/stats: link counts per lifecycle status.
func (h *Handler) Stats(c *fiber.Ctx) error {
	counts, err := h.store.CountLinksByStatus(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to count links")
	}
	return c.JSON(fiber.Map{"links": counts})
}

// linkView flattens store.Link for JSON output.
type linkView struct {
	ID            int64   `json:"id"`
	URL           string  `json:"url"`
	HostType      string  `json:"host_type"`
	Source        string  `json:"source"`
	Status        string  `json:"status"`
	DiscoveredAt  string  `json:"discovered_at"`
	ScrapedAt     *string `json:"scraped_at,omitempty"`
	LastError     *string `json:"last_error,omitempty"`
	LastCheckedAt *string `json:"last_checked_at,omitempty"`
}

func linkViews(links []store.Link) []linkView {
	views := make([]linkView, len(links))
	for i, l := range links {
		v := linkView{
			ID:           l.ID,
			URL:          l.URL,
			HostType:     string(l.HostType),
			Source:       l.Source,
			Status:       string(l.Status),
			DiscoveredAt: l.DiscoveredAt.UTC().Format("2006-01-02T15:04:05Z"),
			LastError:    l.LastError,
		}
		if l.ScrapedAt != nil {
			s := l.ScrapedAt.UTC().Format("2006-01-02T15:04:05Z")
			v.ScrapedAt = &s
		}
		if l.LastCheckedAt != nil {
			s := l.LastCheckedAt.UTC().Format("2006-01-02T15:04:05Z")
			v.LastCheckedAt = &s
		}
		views[i] = v
	}
	return views
}
