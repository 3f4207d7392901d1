package mapper

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler { return &Handler{service: service} }

type mapRequest struct {
	URL   string `json:"url"`
	Depth int    `json:"depth"`
}

// Map accepts POST /v1/map and crawls a careers site synchronously.
func (h *Handler) Map(c *fiber.Ctx) error {
	var req mapRequest
	if err := c.BodyParser(&req); err != nil || req.URL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "url is required")
	}

	result, err := h.service.MapSite(c.Context(), req.URL, req.Depth)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(result)
}
