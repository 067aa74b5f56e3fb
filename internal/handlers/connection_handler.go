package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/services"
)

type connectionLister interface {
	ListCoachesForMember(ctx context.Context, memberID int64) ([]models.CoachProfile, error)
	ListMembersForCoach(ctx context.Context, coachID int64) ([]models.MemberProfile, error)
}

// ConnectionHandler serves the established member-coach edges.
type ConnectionHandler struct {
	service connectionLister
}

func NewConnectionHandler(service *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{service: service}
}

func (h *ConnectionHandler) ListForMember(c *fiber.Ctx) error {
	memberID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	coaches, err := h.service.ListCoachesForMember(c.Context(), memberID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch connections"})
	}
	return c.JSON(fiber.Map{"coaches": coaches})
}

func (h *ConnectionHandler) ListForCoach(c *fiber.Ctx) error {
	coachID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	members, err := h.service.ListMembersForCoach(c.Context(), coachID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch connections"})
	}
	return c.JSON(fiber.Map{"members": members})
}
