package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benjamintowle04/ua-backend/internal/events"
	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/repository"
)

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionService is a thin store over scheduled sessions. Most sessions are
// created by SessionRequestService.Accept; direct Create exists for sessions
// arranged outside the request workflow.
type SessionService struct {
	db          *pgxpool.Pool
	sessionRepo *repository.SessionRepository
	userRepo    userReader
	publisher   events.Publisher
}

func NewSessionService(
	db *pgxpool.Pool,
	sessionRepo *repository.SessionRepository,
	userRepo userReader,
	publisher events.Publisher,
) *SessionService {
	return &SessionService{
		db:          db,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

type CreateSessionInput struct {
	CoachID     int64
	MemberID    int64
	ScheduledAt time.Time
	Location    string
	Description string
}

func (s *SessionService) Create(
	ctx context.Context,
	input CreateSessionInput,
) (*models.Session, error) {
	if input.CoachID <= 0 || input.MemberID <= 0 || input.CoachID == input.MemberID {
		return nil, ErrInvalidInput
	}
	if input.ScheduledAt.IsZero() || strings.TrimSpace(input.Location) == "" {
		return nil, ErrInvalidInput
	}

	for _, id := range []int64{input.CoachID, input.MemberID} {
		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	return s.sessionRepo.Create(ctx, repository.CreateSessionInput{
		ScheduledAt: input.ScheduledAt.UTC(),
		Location:    input.Location,
		Description: input.Description,
		CoachID:     input.CoachID,
		MemberID:    input.MemberID,
	})
}

func (s *SessionService) Get(ctx context.Context, sessionID int64) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *SessionService) ListAll(ctx context.Context) ([]models.Session, error) {
	return s.sessionRepo.ListAll(ctx)
}

func (s *SessionService) ListByCoach(ctx context.Context, coachID int64) ([]models.Session, error) {
	return s.sessionRepo.ListByCoachID(ctx, coachID)
}

func (s *SessionService) ListByMember(ctx context.Context, memberID int64) ([]models.Session, error) {
	return s.sessionRepo.ListByMemberID(ctx, memberID)
}

func (s *SessionService) ListByRequest(ctx context.Context, requestID int64) ([]models.Session, error) {
	return s.sessionRepo.ListByRequestID(ctx, requestID)
}

// Update applies a partial edit. Only session participants may edit.
func (s *SessionService) Update(
	ctx context.Context,
	actorID int64,
	sessionID int64,
	input repository.UpdateSessionInput,
) (*models.Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CoachID != actorID && session.MemberID != actorID {
		return nil, ErrForbidden
	}

	updated, err := s.sessionRepo.UpdatePartial(ctx, sessionID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a session outright. Participants only.
func (s *SessionService) Delete(ctx context.Context, actorID int64, sessionID int64) error {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.CoachID != actorID && session.MemberID != actorID {
		return ErrForbidden
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	_ = s.publisher.Publish(events.Event{
		Kind:       events.SessionCancelled,
		SenderID:   session.MemberID,
		ReceiverID: session.CoachID,
		ResourceID: session.ID,
	})

	return nil
}
