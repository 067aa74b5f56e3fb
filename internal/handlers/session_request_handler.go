package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/services"
)

type SessionRequestHandler struct {
	service sessionRequestService
}

type sessionRequestService interface {
	Create(ctx context.Context, senderID int64, senderRole string, input services.CreateSessionRequestInput) (*models.SessionRequest, error)
	Accept(ctx context.Context, actorID int64, requestID int64, chosenOption int) (*models.Session, error)
	Decline(ctx context.Context, actorID int64, requestID int64) (*models.SessionRequest, error)
	Cancel(ctx context.Context, actorID int64, requestID int64) (*models.SessionRequest, error)
	ListPendingReceived(ctx context.Context, role string, userID int64) ([]models.SessionRequest, error)
	ListPendingSent(ctx context.Context, role string, userID int64) ([]models.SessionRequest, error)
}

func NewSessionRequestHandler(service *services.SessionRequestService) *SessionRequestHandler {
	return &SessionRequestHandler{service: service}
}

type createSessionRequestBody struct {
	ReceiverID  int64    `json:"receiver_id"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Options     []string `json:"options"`
}

type acceptSessionRequestBody struct {
	ChosenOption *int `json:"chosen_option"`
}

func (h *SessionRequestHandler) CreateFrom(senderRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok || role != senderRole {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		}

		actorID, err := actorUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		var body createSessionRequestBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		options, optErr := parseSessionOptions(body.Options)
		if optErr != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": optErr})
		}

		request, err := h.service.Create(c.Context(), actorID, role, services.CreateSessionRequestInput{
			ReceiverID:  body.ReceiverID,
			Description: body.Description,
			Location:    body.Location,
			Options:     options,
		})
		if err != nil {
			return mapRequestError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"request": request})
	}
}

func (h *SessionRequestHandler) Accept(c *fiber.Ctx) error {
	requestID, actorID, err := requestTransitionParams(c, "receiverId")
	if err != nil {
		return c.Status(transitionParamStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	var body acceptSessionRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.ChosenOption == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "chosen_option is required"})
	}

	session, err := h.service.Accept(c.Context(), actorID, requestID, *body.ChosenOption)
	if err != nil {
		return mapRequestError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": session})
}

func (h *SessionRequestHandler) Decline(c *fiber.Ctx) error {
	requestID, actorID, err := requestTransitionParams(c, "receiverId")
	if err != nil {
		return c.Status(transitionParamStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := h.service.Decline(c.Context(), actorID, requestID)
	if err != nil {
		return mapRequestError(c, err)
	}

	return c.JSON(fiber.Map{"request": request})
}

func (h *SessionRequestHandler) Cancel(c *fiber.Ctx) error {
	requestID, actorID, err := requestTransitionParams(c, "senderId")
	if err != nil {
		return c.Status(transitionParamStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := h.service.Cancel(c.Context(), actorID, requestID)
	if err != nil {
		return mapRequestError(c, err)
	}

	return c.JSON(fiber.Map{"request": request})
}

func (h *SessionRequestHandler) ListPendingFor(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
		}

		requests, err := h.service.ListPendingReceived(c.Context(), role, userID)
		if err != nil {
			return mapRequestError(c, err)
		}

		return c.JSON(fiber.Map{"requests": requests})
	}
}

func (h *SessionRequestHandler) ListPendingSentFor(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
		}

		requests, err := h.service.ListPendingSent(c.Context(), role, userID)
		if err != nil {
			return mapRequestError(c, err)
		}

		return c.JSON(fiber.Map{"requests": requests})
	}
}

func parseSessionOptions(raw []string) ([3]time.Time, string) {
	var options [3]time.Time
	if len(raw) != 3 {
		return options, "options must contain exactly 3 timestamps"
	}
	for i, value := range raw {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
		if err != nil {
			return options, "options must be valid RFC3339 timestamps"
		}
		options[i] = parsed
	}
	return options, ""
}
