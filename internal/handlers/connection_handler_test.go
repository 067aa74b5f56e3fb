package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/benjamintowle04/ua-backend/internal/models"
)

type stubConnectionLister struct {
	coaches []models.CoachProfile
	members []models.MemberProfile
	err     error

	lastID int64
}

func (s *stubConnectionLister) ListCoachesForMember(_ context.Context, memberID int64) ([]models.CoachProfile, error) {
	s.lastID = memberID
	return s.coaches, s.err
}

func (s *stubConnectionLister) ListMembersForCoach(_ context.Context, coachID int64) ([]models.MemberProfile, error) {
	s.lastID = coachID
	return s.members, s.err
}

func newConnectionApp(service connectionLister) *fiber.App {
	handler := &ConnectionHandler{service: service}

	app := fiber.New()
	group := app.Group("/api/connections")
	group.Get("/member/:id", handler.ListForMember)
	group.Get("/coach/:id", handler.ListForCoach)

	return app
}

func TestListConnectionsForMember(t *testing.T) {
	service := &stubConnectionLister{
		coaches: []models.CoachProfile{{UserID: 7}, {UserID: 8}},
	}
	app := newConnectionApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/connections/member/42", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastID != 42 {
		t.Fatalf("expected member id 42, got %d", service.lastID)
	}

	var body struct {
		Coaches []models.CoachProfile `json:"coaches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Coaches) != 2 || body.Coaches[0].UserID != 7 {
		t.Fatalf("unexpected coaches payload: %+v", body.Coaches)
	}
}

func TestListConnectionsForCoach(t *testing.T) {
	service := &stubConnectionLister{
		members: []models.MemberProfile{{UserID: 42}},
	}
	app := newConnectionApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/connections/coach/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastID != 7 {
		t.Fatalf("expected coach id 7, got %d", service.lastID)
	}

	var body struct {
		Members []models.MemberProfile `json:"members"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Members) != 1 || body.Members[0].UserID != 42 {
		t.Fatalf("unexpected members payload: %+v", body.Members)
	}
}

func TestListConnectionsRejectsBadID(t *testing.T) {
	app := newConnectionApp(&stubConnectionLister{})

	req := httptest.NewRequest(http.MethodGet, "/api/connections/member/abc", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListConnectionsRepoFailure(t *testing.T) {
	app := newConnectionApp(&stubConnectionLister{err: errors.New("boom")})

	req := httptest.NewRequest(http.MethodGet, "/api/connections/coach/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}
