package match

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler { return &Handler{service: service} }

type matchRequest struct {
	Skills []string `json:"skills"`
	Limit  int      `json:"limit"`
}

// Match accepts POST /v1/match and returns scored jobs, best first.
func (h *Handler) Match(c *fiber.Ctx) error {
	var req matchRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	matches, err := h.service.MatchStored(c.Context(), req.Skills, req.Limit)
	if errors.Is(err, ErrNoSkills) {
		return fiber.NewError(fiber.StatusBadRequest, "no skills provided and profile has none")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"count": len(matches), "matches": matches})
}
