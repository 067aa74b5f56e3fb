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

type stubCoachSearcher struct {
	result []models.CoachWithScore
	err    error

	lastFilter services.CoachSearchFilter
}

func (s *stubCoachSearcher) Search(_ context.Context, filter services.CoachSearchFilter) ([]models.CoachWithScore, error) {
	s.lastFilter = filter
	return s.result, s.err
}

func newCoachSearchApp(search coachSearcher) *fiber.App {
	handler := NewCoachSearchHandler(search)

	app := fiber.New()
	app.Post("/api/coaches/sort", handler.Sort)
	return app
}

func TestSortCoachesPassesFilter(t *testing.T) {
	search := &stubCoachSearcher{
		result: []models.CoachWithScore{
			{CoachProfile: models.CoachProfile{UserID: 7}, MatchScore: 90},
			{CoachProfile: models.CoachProfile{UserID: 8}, MatchScore: 40},
		},
	}
	app := newCoachSearchApp(search)

	req := httptest.NewRequest(http.MethodPost, "/api/coaches/sort",
		strings.NewReader(`{"location": "Ames, IA", "skills": ["Basketball", "Track"], "limit": 5}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if search.lastFilter.Location != "Ames, IA" || len(search.lastFilter.Skills) != 2 || search.lastFilter.Limit != 5 {
		t.Fatalf("unexpected filter: %+v", search.lastFilter)
	}

	var body struct {
		Coaches []models.CoachWithScore `json:"coaches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Coaches) != 2 || body.Coaches[0].MatchScore != 90 {
		t.Fatalf("unexpected coaches payload: %+v", body.Coaches)
	}
}

func TestSortCoachesRejectsNegativeLimit(t *testing.T) {
	search := &stubCoachSearcher{}
	app := newCoachSearchApp(search)

	req := httptest.NewRequest(http.MethodPost, "/api/coaches/sort",
		strings.NewReader(`{"limit": -1}`))
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
