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

type SessionRequestService struct {
	db             *pgxpool.Pool
	requestRepo    *repository.SessionRequestRepository
	sessionRepo    *repository.SessionRepository
	connectionRepo *repository.ConnectionRepository
	userRepo       userReader
	publisher      events.Publisher
}

func NewSessionRequestService(
	db *pgxpool.Pool,
	requestRepo *repository.SessionRequestRepository,
	sessionRepo *repository.SessionRepository,
	connectionRepo *repository.ConnectionRepository,
	userRepo userReader,
	publisher events.Publisher,
) *SessionRequestService {
	return &SessionRequestService{
		db:             db,
		requestRepo:    requestRepo,
		sessionRepo:    sessionRepo,
		connectionRepo: connectionRepo,
		userRepo:       userRepo,
		publisher:      publisher,
	}
}

type CreateSessionRequestInput struct {
	ReceiverID  int64
	Description string
	Location    string
	Options     [3]time.Time
}

// Create proposes a session with three candidate start times. The pair must
// already be connected; either side may propose.
func (s *SessionRequestService) Create(
	ctx context.Context,
	senderID int64,
	senderRole string,
	input CreateSessionRequestInput,
) (*models.SessionRequest, error) {
	if input.ReceiverID <= 0 || input.ReceiverID == senderID {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.Location) == "" {
		return nil, ErrInvalidInput
	}
	if err := validateOptions(input.Options); err != nil {
		return nil, err
	}

	receiver, err := s.userRepo.GetByID(ctx, input.ReceiverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if receiver.Role == senderRole {
		return nil, ErrInvalidRole
	}

	memberID, coachID := senderID, receiver.ID
	if senderRole == models.RoleCoach {
		memberID, coachID = receiver.ID, senderID
	}

	connected, err := s.connectionRepo.Exists(ctx, memberID, coachID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, ErrNotConnected
	}

	request, err := s.requestRepo.Create(ctx, repository.CreateSessionRequestInput{
		SenderID:     senderID,
		SenderRole:   senderRole,
		ReceiverID:   input.ReceiverID,
		ReceiverRole: receiver.Role,
		Description:  input.Description,
		Location:     input.Location,
		Options:      normalizeOptions(input.Options),
	})
	if err != nil {
		return nil, err
	}

	_ = s.publisher.Publish(events.Event{
		Kind:       events.SessionRequestCreated,
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		ResourceID: request.ID,
	})

	return request, nil
}

// Accept picks one of the three proposed times and creates the session in
// the same transaction as the status flip. chosenOption is zero-based.
func (s *SessionRequestService) Accept(
	ctx context.Context,
	actorID int64,
	requestID int64,
	chosenOption int,
) (*models.Session, error) {
	if chosenOption < 0 || chosenOption > 2 {
		return nil, ErrInvalidOption
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if request.ReceiverID != actorID {
		return nil, ErrUnauthorizedActor
	}
	if request.Status != models.StatusPending {
		return nil, ErrInvalidState
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txRequestRepo := repository.NewSessionRequestRepository(tx)
	txSessionRepo := repository.NewSessionRepository(tx)

	updated, err := txRequestRepo.UpdateStatusIfPending(ctx, requestID, models.StatusAccepted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	requestRef := updated.ID
	session, err := txSessionRepo.Create(ctx, repository.CreateSessionInput{
		RequestID:   &requestRef,
		ScheduledAt: updated.Options[chosenOption],
		Location:    updated.Location,
		Description: updated.Description,
		CoachID:     updated.CoachID(),
		MemberID:    updated.MemberID(),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	_ = s.publisher.Publish(events.Event{
		Kind:       events.SessionRequestAccepted,
		SenderID:   updated.SenderID,
		ReceiverID: updated.ReceiverID,
		ResourceID: session.ID,
	})

	return session, nil
}

// Decline resolves a pending proposal without scheduling. Receiver only.
func (s *SessionRequestService) Decline(
	ctx context.Context,
	actorID int64,
	requestID int64,
) (*models.SessionRequest, error) {
	return s.resolve(ctx, actorID, requestID, models.StatusDeclined, false)
}

// Cancel withdraws a pending proposal. Sender only.
func (s *SessionRequestService) Cancel(
	ctx context.Context,
	actorID int64,
	requestID int64,
) (*models.SessionRequest, error) {
	return s.resolve(ctx, actorID, requestID, models.StatusCancelled, true)
}

func (s *SessionRequestService) resolve(
	ctx context.Context,
	actorID int64,
	requestID int64,
	target string,
	actorIsSender bool,
) (*models.SessionRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	owner := request.ReceiverID
	if actorIsSender {
		owner = request.SenderID
	}
	if owner != actorID {
		return nil, ErrUnauthorizedActor
	}
	if request.Status != models.StatusPending {
		return nil, ErrInvalidState
	}

	updated, err := s.requestRepo.UpdateStatusIfPending(ctx, requestID, target)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	kind := events.SessionRequestDeclined
	if target == models.StatusCancelled {
		kind = events.SessionRequestCancelled
	}
	_ = s.publisher.Publish(events.Event{
		Kind:       kind,
		SenderID:   updated.SenderID,
		ReceiverID: updated.ReceiverID,
		ResourceID: updated.ID,
	})

	return updated, nil
}

func (s *SessionRequestService) ListPendingReceived(
	ctx context.Context,
	role string,
	userID int64,
) ([]models.SessionRequest, error) {
	if role != models.RoleMember && role != models.RoleCoach {
		return nil, ErrInvalidRole
	}
	return s.requestRepo.ListPendingForReceiver(ctx, role, userID)
}

func (s *SessionRequestService) ListPendingSent(
	ctx context.Context,
	role string,
	userID int64,
) ([]models.SessionRequest, error) {
	if role != models.RoleMember && role != models.RoleCoach {
		return nil, ErrInvalidRole
	}
	return s.requestRepo.ListPendingForSender(ctx, role, userID)
}

// validateOptions enforces three distinct, future start times.
func validateOptions(options [3]time.Time) error {
	cutoff := time.Now().Add(-1 * time.Minute)
	for i, option := range options {
		if option.IsZero() || option.Before(cutoff) {
			return ErrInvalidOptions
		}
		for j := 0; j < i; j++ {
			if option.Equal(options[j]) {
				return ErrInvalidOptions
			}
		}
	}
	return nil
}

func normalizeOptions(options [3]time.Time) [3]time.Time {
	for i := range options {
		options[i] = options[i].UTC()
	}
	return options
}
