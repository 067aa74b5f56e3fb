package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/services"
)

type ConnectionRequestHandler struct {
	service connectionRequestService
}

type connectionRequestService interface {
	Create(ctx context.Context, senderID int64, senderRole string, input services.CreateConnectionRequestInput) (*models.ConnectionRequest, error)
	Accept(ctx context.Context, actorID int64, requestID int64) (*models.ConnectionRequest, error)
	Decline(ctx context.Context, actorID int64, requestID int64) (*models.ConnectionRequest, error)
	Cancel(ctx context.Context, actorID int64, requestID int64) (*models.ConnectionRequest, error)
	ListPendingReceived(ctx context.Context, role string, userID int64) ([]models.ConnectionRequest, error)
	ListPendingSent(ctx context.Context, role string, userID int64) ([]models.ConnectionRequest, error)
}

func NewConnectionRequestHandler(service *services.ConnectionRequestService) *ConnectionRequestHandler {
	return &ConnectionRequestHandler{service: service}
}

type createConnectionRequestBody struct {
	ReceiverID int64   `json:"receiver_id"`
	Message    *string `json:"message"`
}

// CreateFrom builds the POST handler for one sending role. The path encodes
// the direction (member-to-coach, coach-to-member); the token must agree.
func (h *ConnectionRequestHandler) CreateFrom(senderRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok || role != senderRole {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		}

		actorID, err := actorUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		var body createConnectionRequestBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		request, err := h.service.Create(c.Context(), actorID, role, services.CreateConnectionRequestInput{
			ReceiverID: body.ReceiverID,
			Message:    body.Message,
		})
		if err != nil {
			return mapRequestError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"request": request})
	}
}

func (h *ConnectionRequestHandler) Accept(c *fiber.Ctx) error {
	requestID, actorID, err := requestTransitionParams(c, "receiverId")
	if err != nil {
		return c.Status(transitionParamStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := h.service.Accept(c.Context(), actorID, requestID)
	if err != nil {
		return mapRequestError(c, err)
	}

	return c.JSON(fiber.Map{"request": request})
}

func (h *ConnectionRequestHandler) Decline(c *fiber.Ctx) error {
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

func (h *ConnectionRequestHandler) Cancel(c *fiber.Ctx) error {
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

// ListPendingFor serves GET /pending/{role}/:id — a user's pending inbox.
func (h *ConnectionRequestHandler) ListPendingFor(role string) fiber.Handler {
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

// ListPendingSentFor serves GET /pending/sent/{role}/:id.
func (h *ConnectionRequestHandler) ListPendingSentFor(role string) fiber.Handler {
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

var errActorMismatch = errors.New("actor id does not match token")

// requestTransitionParams reads the request id and the acting-party id from
// a transition path. The path id must match the authenticated user.
func requestTransitionParams(c *fiber.Ctx, actorParam string) (int64, int64, error) {
	requestID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, 0, errors.New("invalid request id")
	}

	pathActorID, err := strconv.ParseInt(c.Params(actorParam), 10, 64)
	if err != nil {
		return 0, 0, errors.New("invalid actor id")
	}

	actorID, err := actorUserID(c)
	if err != nil || actorID != pathActorID {
		return 0, 0, errActorMismatch
	}

	return requestID, actorID, nil
}

func transitionParamStatus(err error) int {
	if errors.Is(err, errActorMismatch) {
		return fiber.StatusForbidden
	}
	return fiber.StatusBadRequest
}

func mapRequestError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	case errors.Is(err, services.ErrUnauthorizedActor):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrDuplicateRequest),
		errors.Is(err, services.ErrAlreadyConnected):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotConnected):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidOptions),
		errors.Is(err, services.ErrInvalidOption),
		errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process request"})
	}
}
