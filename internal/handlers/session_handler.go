package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/repository"
	"github.com/benjamintowle04/ua-backend/internal/services"
)

type SessionHandler struct {
	service sessionStore
}

type sessionStore interface {
	Create(ctx context.Context, input services.CreateSessionInput) (*models.Session, error)
	Get(ctx context.Context, sessionID int64) (*models.Session, error)
	ListAll(ctx context.Context) ([]models.Session, error)
	ListByCoach(ctx context.Context, coachID int64) ([]models.Session, error)
	ListByMember(ctx context.Context, memberID int64) ([]models.Session, error)
	ListByRequest(ctx context.Context, requestID int64) ([]models.Session, error)
	Update(ctx context.Context, actorID int64, sessionID int64, input repository.UpdateSessionInput) (*models.Session, error)
	Delete(ctx context.Context, actorID int64, sessionID int64) error
}

func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

type createSessionBody struct {
	CoachID     int64  `json:"coach_id"`
	MemberID    int64  `json:"member_id"`
	ScheduledAt string `json:"scheduled_at"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type updateSessionBody struct {
	ScheduledAt *string `json:"scheduled_at"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var body createSessionBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(body.ScheduledAt))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduled_at must be a valid RFC3339 timestamp"})
	}

	session, err := h.service.Create(c.Context(), services.CreateSessionInput{
		CoachID:     body.CoachID,
		MemberID:    body.MemberID,
		ScheduledAt: scheduledAt,
		Location:    body.Location,
		Description: body.Description,
	})
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) List(c *fiber.Ctx) error {
	sessions, err := h.service.ListAll(c.Context())
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *SessionHandler) Get(c *fiber.Ctx) error {
	sessionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := h.service.Get(c.Context(), sessionID)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) ListByCoach(c *fiber.Ctx) error {
	return h.listBy(c, h.service.ListByCoach)
}

func (h *SessionHandler) ListByMember(c *fiber.Ctx) error {
	return h.listBy(c, h.service.ListByMember)
}

func (h *SessionHandler) ListByRequest(c *fiber.Ctx) error {
	return h.listBy(c, h.service.ListByRequest)
}

func (h *SessionHandler) listBy(
	c *fiber.Ctx,
	list func(ctx context.Context, id int64) ([]models.Session, error),
) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	sessions, err := list(c.Context(), id)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *SessionHandler) Update(c *fiber.Ctx) error {
	sessionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	actorID, err := actorUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var body updateSessionBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input := repository.UpdateSessionInput{
		Location:    body.Location,
		Description: body.Description,
	}
	if body.ScheduledAt != nil {
		scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(*body.ScheduledAt))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduled_at must be a valid RFC3339 timestamp"})
		}
		input.ScheduledAt = &scheduledAt
	}

	session, err := h.service.Update(c.Context(), actorID, sessionID, input)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	sessionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	actorID, err := actorUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.service.Delete(c.Context(), actorID, sessionID); err != nil {
		return mapSessionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func mapSessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process session"})
	}
}
