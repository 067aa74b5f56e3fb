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

type stubChatService struct {
	conversationsResult []models.ConversationSummary
	conversationsErr    error
	createResult        *models.Conversation
	createErr           error
	messagesResult      []models.ChatMessage
	messagesTotal       int
	messagesErr         error

	lastActorID        int64
	lastRole           string
	lastOtherID        int64
	lastConversationID int64
	lastPage           int
	lastLimit          int
}

func (s *stubChatService) ListConversations(_ context.Context, actorID int64, role string) ([]models.ConversationSummary, error) {
	s.lastActorID = actorID
	s.lastRole = role
	return s.conversationsResult, s.conversationsErr
}

func (s *stubChatService) CreateConversation(_ context.Context, actorID int64, role string, otherID int64) (*models.Conversation, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastOtherID = otherID
	return s.createResult, s.createErr
}

func (s *stubChatService) ListMessages(_ context.Context, actorID int64, role string, conversationID int64, page int, limit int) ([]models.ChatMessage, int, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastConversationID = conversationID
	s.lastPage = page
	s.lastLimit = limit
	return s.messagesResult, s.messagesTotal, s.messagesErr
}

func (s *stubChatService) SendMessage(_ context.Context, _ int64, _ string, _ int64, _ string) (*services.ChatDelivery, error) {
	return nil, nil
}

func newChatApp(service chatApplicationService, userID, role string) *fiber.App {
	handler := NewChatHandler(service, nil, "test-secret")

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	})

	group := app.Group("/api/conversations")
	group.Get("", handler.ListConversations)
	group.Post("", handler.CreateConversation)
	group.Get("/:id/messages", handler.GetMessages)

	return app
}

func TestListConversationsReturnsSummaries(t *testing.T) {
	now := time.Now()
	service := &stubChatService{
		conversationsResult: []models.ConversationSummary{
			{
				Conversation: models.Conversation{ID: 1, MemberID: 42, CoachID: 7},
				LastMessage:  &models.ChatMessage{ID: 9, Content: "See you at 10", CreatedAt: now},
				UnreadCount:  2,
			},
		},
	}
	app := newChatApp(service, "42", models.RoleMember)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 || service.lastRole != models.RoleMember {
		t.Fatalf("expected actor 42/member, got %d/%s", service.lastActorID, service.lastRole)
	}

	var body struct {
		Conversations []models.ConversationSummary `json:"conversations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Conversations) != 1 || body.Conversations[0].UnreadCount != 2 {
		t.Fatalf("unexpected conversations payload: %+v", body.Conversations)
	}
}

func TestCreateConversationFromCoachSide(t *testing.T) {
	service := &stubChatService{
		createResult: &models.Conversation{ID: 1, MemberID: 42, CoachID: 7},
	}
	app := newChatApp(service, "7", models.RoleCoach)

	req := httptest.NewRequest(http.MethodPost, "/api/conversations",
		strings.NewReader(`{"user_id": 42}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastActorID != 7 || service.lastOtherID != 42 {
		t.Fatalf("expected actor 7 other 42, got %d/%d", service.lastActorID, service.lastOtherID)
	}
}

func TestCreateConversationRequiresConnection(t *testing.T) {
	service := &stubChatService{createErr: services.ErrNotConnected}
	app := newChatApp(service, "42", models.RoleMember)

	req := httptest.NewRequest(http.MethodPost, "/api/conversations",
		strings.NewReader(`{"user_id": 7}`))
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

func TestCreateConversationRejectsUnknownRole(t *testing.T) {
	service := &stubChatService{}
	app := newChatApp(service, "42", "admin")

	req := httptest.NewRequest(http.MethodPost, "/api/conversations",
		strings.NewReader(`{"user_id": 7}`))
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

func TestGetMessagesClampsPagination(t *testing.T) {
	service := &stubChatService{
		messagesResult: []models.ChatMessage{{ID: 1, Content: "hi"}},
		messagesTotal:  1,
	}
	app := newChatApp(service, "42", models.RoleMember)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/1/messages?page=2&limit=500", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastPage != 2 {
		t.Fatalf("expected page 2, got %d", service.lastPage)
	}
	if service.lastLimit != maxPageLimit {
		t.Fatalf("expected limit clamped to %d, got %d", maxPageLimit, service.lastLimit)
	}
}

func TestGetMessagesForOtherConversationNotFound(t *testing.T) {
	service := &stubChatService{messagesErr: services.ErrNotFound}
	app := newChatApp(service, "42", models.RoleMember)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/9/messages", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
