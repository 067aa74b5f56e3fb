package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/services"
)

type stubSessionRequestService struct {
	createResult  *models.SessionRequest
	createErr     error
	acceptResult  *models.Session
	acceptErr     error
	transitionRes *models.SessionRequest
	transitionErr error
	listResult    []models.SessionRequest
	listErr       error

	lastSenderID  int64
	lastRole      string
	lastInput     services.CreateSessionRequestInput
	lastActorID   int64
	lastRequestID int64
	lastChosen    int
}

func (s *stubSessionRequestService) Create(_ context.Context, senderID int64, senderRole string, input services.CreateSessionRequestInput) (*models.SessionRequest, error) {
	s.lastSenderID = senderID
	s.lastRole = senderRole
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubSessionRequestService) Accept(_ context.Context, actorID int64, requestID int64, chosenOption int) (*models.Session, error) {
	s.lastActorID = actorID
	s.lastRequestID = requestID
	s.lastChosen = chosenOption
	return s.acceptResult, s.acceptErr
}

func (s *stubSessionRequestService) Decline(_ context.Context, actorID int64, requestID int64) (*models.SessionRequest, error) {
	s.lastActorID = actorID
	s.lastRequestID = requestID
	return s.transitionRes, s.transitionErr
}

func (s *stubSessionRequestService) Cancel(_ context.Context, actorID int64, requestID int64) (*models.SessionRequest, error) {
	s.lastActorID = actorID
	s.lastRequestID = requestID
	return s.transitionRes, s.transitionErr
}

func (s *stubSessionRequestService) ListPendingReceived(_ context.Context, role string, userID int64) ([]models.SessionRequest, error) {
	return s.listResult, s.listErr
}

func (s *stubSessionRequestService) ListPendingSent(_ context.Context, role string, userID int64) ([]models.SessionRequest, error) {
	return s.listResult, s.listErr
}

func newSessionRequestApp(service sessionRequestService, userID, role string) *fiber.App {
	handler := &SessionRequestHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	})

	group := app.Group("/api/requests/sessions")
	group.Post("/member-to-coach", handler.CreateFrom(models.RoleMember))
	group.Put("/:id/accept/:receiverId", handler.Accept)
	group.Put("/:id/decline/:receiverId", handler.Decline)
	group.Put("/:id/cancel/:senderId", handler.Cancel)

	return app
}

func sessionRequestCreateBody(options []string) string {
	encoded, _ := json.Marshal(fiber.Map{
		"receiver_id": 7,
		"description": "Dribbling fundamentals",
		"location":    "Court 3",
		"options":     options,
	})
	return string(encoded)
}

func TestCreateSessionRequestParsesOptions(t *testing.T) {
	service := &stubSessionRequestService{
		createResult: &models.SessionRequest{ID: 21, Status: models.StatusPending},
	}
	app := newSessionRequestApp(service, "42", models.RoleMember)

	options := []string{
		"2030-06-01T10:00:00Z",
		"2030-06-02T10:00:00Z",
		"2030-06-03T10:00:00Z",
	}
	req := httptest.NewRequest(http.MethodPost, "/api/requests/sessions/member-to-coach",
		strings.NewReader(sessionRequestCreateBody(options)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastInput.ReceiverID != 7 {
		t.Fatalf("expected receiver 7, got %d", service.lastInput.ReceiverID)
	}
	want := time.Date(2030, 6, 2, 10, 0, 0, 0, time.UTC)
	if !service.lastInput.Options[1].Equal(want) {
		t.Fatalf("expected second option %v, got %v", want, service.lastInput.Options[1])
	}
}

func TestCreateSessionRequestRejectsBadOptions(t *testing.T) {
	cases := []struct {
		name    string
		options []string
	}{
		{"too few", []string{"2030-06-01T10:00:00Z", "2030-06-02T10:00:00Z"}},
		{"too many", []string{"2030-06-01T10:00:00Z", "2030-06-02T10:00:00Z", "2030-06-03T10:00:00Z", "2030-06-04T10:00:00Z"}},
		{"not a timestamp", []string{"2030-06-01T10:00:00Z", "tomorrow", "2030-06-03T10:00:00Z"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubSessionRequestService{}
			app := newSessionRequestApp(service, "42", models.RoleMember)

			req := httptest.NewRequest(http.MethodPost, "/api/requests/sessions/member-to-coach",
				strings.NewReader(sessionRequestCreateBody(tc.options)))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestCreateSessionRequestRequiresConnection(t *testing.T) {
	service := &stubSessionRequestService{createErr: services.ErrNotConnected}
	app := newSessionRequestApp(service, "42", models.RoleMember)

	options := []string{
		"2030-06-01T10:00:00Z",
		"2030-06-02T10:00:00Z",
		"2030-06-03T10:00:00Z",
	}
	req := httptest.NewRequest(http.MethodPost, "/api/requests/sessions/member-to-coach",
		strings.NewReader(sessionRequestCreateBody(options)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestAcceptSessionRequestReturnsSession(t *testing.T) {
	scheduled := time.Date(2030, 6, 2, 10, 0, 0, 0, time.UTC)
	service := &stubSessionRequestService{
		acceptResult: &models.Session{ID: 5, ScheduledAt: scheduled, CoachID: 7, MemberID: 42},
	}
	app := newSessionRequestApp(service, "7", models.RoleCoach)

	req := httptest.NewRequest(http.MethodPut, "/api/requests/sessions/21/accept/7",
		strings.NewReader(`{"chosen_option": 1}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastChosen != 1 {
		t.Fatalf("expected chosen option 1, got %d", service.lastChosen)
	}

	var body struct {
		Session models.Session `json:"session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Session.ScheduledAt.Equal(scheduled) {
		t.Fatalf("expected scheduled_at %v, got %v", scheduled, body.Session.ScheduledAt)
	}
}

func TestAcceptSessionRequestRequiresChosenOption(t *testing.T) {
	service := &stubSessionRequestService{}
	app := newSessionRequestApp(service, "7", models.RoleCoach)

	req := httptest.NewRequest(http.MethodPut, "/api/requests/sessions/21/accept/7",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAcceptSessionRequestMapsOptionOutOfRange(t *testing.T) {
	service := &stubSessionRequestService{acceptErr: services.ErrInvalidOption}
	app := newSessionRequestApp(service, "7", models.RoleCoach)

	req := httptest.NewRequest(http.MethodPut, "/api/requests/sessions/21/accept/7",
		strings.NewReader(`{"chosen_option": 3}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDeclineSessionRequestAfterResolutionConflicts(t *testing.T) {
	service := &stubSessionRequestService{transitionErr: services.ErrInvalidState}
	app := newSessionRequestApp(service, "7", models.RoleCoach)

	req := httptest.NewRequest(http.MethodPut, "/api/requests/sessions/21/decline/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestParseSessionOptionsNormalizesWhitespace(t *testing.T) {
	raw := []string{
		" 2030-06-01T10:00:00Z",
		"2030-06-02T10:00:00Z ",
		"2030-06-03T10:00:00+02:00",
	}
	options, errMsg := parseSessionOptions(raw)
	if errMsg != "" {
		t.Fatalf("unexpected error: %s", errMsg)
	}
	want := time.Date(2030, 6, 3, 8, 0, 0, 0, time.UTC)
	if !options[2].Equal(want) {
		t.Fatalf("expected %v, got %v", want, options[2])
	}
	for i, opt := range options {
		if opt.IsZero() {
			t.Fatalf("option %d not parsed: %s", i, raw[i])
		}
	}
}
