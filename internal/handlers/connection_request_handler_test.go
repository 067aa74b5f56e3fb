package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/services"
)

type stubConnectionRequestService struct {
	createResult  *models.ConnectionRequest
	createErr     error
	transitionRes *models.ConnectionRequest
	transitionErr error
	listResult    []models.ConnectionRequest
	listErr       error

	lastSenderID  int64
	lastRole      string
	lastInput     services.CreateConnectionRequestInput
	lastActorID   int64
	lastRequestID int64
	lastListRole  string
	lastListID    int64
}

func (s *stubConnectionRequestService) Create(_ context.Context, senderID int64, senderRole string, input services.CreateConnectionRequestInput) (*models.ConnectionRequest, error) {
	s.lastSenderID = senderID
	s.lastRole = senderRole
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubConnectionRequestService) Accept(_ context.Context, actorID int64, requestID int64) (*models.ConnectionRequest, error) {
	s.lastActorID = actorID
	s.lastRequestID = requestID
	return s.transitionRes, s.transitionErr
}

func (s *stubConnectionRequestService) Decline(_ context.Context, actorID int64, requestID int64) (*models.ConnectionRequest, error) {
	s.lastActorID = actorID
	s.lastRequestID = requestID
	return s.transitionRes, s.transitionErr
}

func (s *stubConnectionRequestService) Cancel(_ context.Context, actorID int64, requestID int64) (*models.ConnectionRequest, error) {
	s.lastActorID = actorID
	s.lastRequestID = requestID
	return s.transitionRes, s.transitionErr
}

func (s *stubConnectionRequestService) ListPendingReceived(_ context.Context, role string, userID int64) ([]models.ConnectionRequest, error) {
	s.lastListRole = role
	s.lastListID = userID
	return s.listResult, s.listErr
}

func (s *stubConnectionRequestService) ListPendingSent(_ context.Context, role string, userID int64) ([]models.ConnectionRequest, error) {
	s.lastListRole = role
	s.lastListID = userID
	return s.listResult, s.listErr
}

func newConnectionRequestApp(service connectionRequestService, userID, role string) *fiber.App {
	handler := &ConnectionRequestHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	})

	group := app.Group("/api/requests/connections")
	group.Get("/pending/member/:id", handler.ListPendingFor(models.RoleMember))
	group.Get("/pending/sent/coach/:id", handler.ListPendingSentFor(models.RoleCoach))
	group.Post("/member-to-coach", handler.CreateFrom(models.RoleMember))
	group.Post("/coach-to-member", handler.CreateFrom(models.RoleCoach))
	group.Put("/:id/accept/:receiverId", handler.Accept)
	group.Put("/:id/decline/:receiverId", handler.Decline)
	group.Put("/:id/cancel/:senderId", handler.Cancel)

	return app
}

func TestCreateConnectionRequestReturnsCreated(t *testing.T) {
	service := &stubConnectionRequestService{
		createResult: &models.ConnectionRequest{
			ID:           11,
			SenderID:     42,
			SenderRole:   models.RoleMember,
			ReceiverID:   7,
			ReceiverRole: models.RoleCoach,
			Status:       models.StatusPending,
		},
	}
	app := newConnectionRequestApp(service, "42", models.RoleMember)

	req := httptest.NewRequest(http.MethodPost, "/api/requests/connections/member-to-coach",
		strings.NewReader(`{"receiver_id": 7, "message": "train me"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastSenderID != 42 {
		t.Fatalf("expected sender id 42, got %d", service.lastSenderID)
	}
	if service.lastInput.ReceiverID != 7 {
		t.Fatalf("expected receiver id 7, got %d", service.lastInput.ReceiverID)
	}
	if service.lastInput.Message == nil || *service.lastInput.Message != "train me" {
		t.Fatalf("expected message to pass through")
	}
}

func TestCreateConnectionRequestRejectsWrongRole(t *testing.T) {
	service := &stubConnectionRequestService{}
	app := newConnectionRequestApp(service, "42", models.RoleMember)

	req := httptest.NewRequest(http.MethodPost, "/api/requests/connections/coach-to-member",
		strings.NewReader(`{"receiver_id": 7}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestCreateConnectionRequestMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"duplicate", services.ErrDuplicateRequest, http.StatusConflict},
		{"already connected", services.ErrAlreadyConnected, http.StatusConflict},
		{"receiver missing", services.ErrNotFound, http.StatusNotFound},
		{"same role", services.ErrInvalidRole, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubConnectionRequestService{createErr: tc.err}
			app := newConnectionRequestApp(service, "42", models.RoleMember)

			req := httptest.NewRequest(http.MethodPost, "/api/requests/connections/member-to-coach",
				strings.NewReader(`{"receiver_id": 7}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
		})
	}
}

func TestAcceptConnectionRequestPassesIDs(t *testing.T) {
	service := &stubConnectionRequestService{
		transitionRes: &models.ConnectionRequest{ID: 11, Status: models.StatusAccepted},
	}
	app := newConnectionRequestApp(service, "7", models.RoleCoach)

	req := httptest.NewRequest(http.MethodPut, "/api/requests/connections/11/accept/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastRequestID != 11 || service.lastActorID != 7 {
		t.Fatalf("expected request 11 actor 7, got %d/%d", service.lastRequestID, service.lastActorID)
	}

	var body struct {
		Request models.ConnectionRequest `json:"request"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Request.Status != models.StatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", body.Request.Status)
	}
}

func TestAcceptConnectionRequestRejectsActorMismatch(t *testing.T) {
	service := &stubConnectionRequestService{}
	app := newConnectionRequestApp(service, "8", models.RoleCoach)

	req := httptest.NewRequest(http.MethodPut, "/api/requests/connections/11/accept/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestAcceptConnectionRequestByWrongStoredPartyForbidden(t *testing.T) {
	service := &stubConnectionRequestService{transitionErr: services.ErrUnauthorizedActor}
	app := newConnectionRequestApp(service, "7", models.RoleCoach)

	req := httptest.NewRequest(http.MethodPut, "/api/requests/connections/11/accept/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestAcceptConnectionRequestMapsLostRaceToConflict(t *testing.T) {
	service := &stubConnectionRequestService{transitionErr: services.ErrInvalidState}
	app := newConnectionRequestApp(service, "7", models.RoleCoach)

	req := httptest.NewRequest(http.MethodPut, "/api/requests/connections/11/accept/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestCancelConnectionRequestUsesSenderParam(t *testing.T) {
	service := &stubConnectionRequestService{
		transitionRes: &models.ConnectionRequest{ID: 11, Status: models.StatusCancelled},
	}
	app := newConnectionRequestApp(service, "42", models.RoleMember)

	req := httptest.NewRequest(http.MethodPut, "/api/requests/connections/11/cancel/42", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 {
		t.Fatalf("expected actor 42, got %d", service.lastActorID)
	}
}

func TestListPendingConnectionRequests(t *testing.T) {
	service := &stubConnectionRequestService{
		listResult: []models.ConnectionRequest{{ID: 1}, {ID: 2}},
	}
	app := newConnectionRequestApp(service, "42", models.RoleMember)

	req := httptest.NewRequest(http.MethodGet, "/api/requests/connections/pending/member/42", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastListRole != models.RoleMember || service.lastListID != 42 {
		t.Fatalf("expected member/42, got %s/%d", service.lastListRole, service.lastListID)
	}

	var body struct {
		Requests []models.ConnectionRequest `json:"requests"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(body.Requests))
	}
}
