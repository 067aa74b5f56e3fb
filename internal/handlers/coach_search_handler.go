package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/services"
)

type coachSearcher interface {
	Search(ctx context.Context, filter services.CoachSearchFilter) ([]models.CoachWithScore, error)
}

type CoachSearchHandler struct {
	search coachSearcher
}

func NewCoachSearchHandler(search coachSearcher) *CoachSearchHandler {
	return &CoachSearchHandler{search: search}
}

type coachSortBody struct {
	Location string   `json:"location"`
	Skills   []string `json:"skills"`
	Limit    int      `json:"limit"`
}

// Sort serves POST /api/coaches/sort: the directory ranked against the
// caller's filter.
func (h *CoachSearchHandler) Sort(c *fiber.Ctx) error {
	var body coachSortBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be 0 or greater"})
	}

	coaches, err := h.search.Search(c.Context(), services.CoachSearchFilter{
		Location: body.Location,
		Skills:   body.Skills,
		Limit:    body.Limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to search coaches"})
	}

	return c.JSON(fiber.Map{"coaches": coaches})
}
