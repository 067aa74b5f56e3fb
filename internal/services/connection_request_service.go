package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benjamintowle04/ua-backend/internal/events"
	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/repository"
)

type ConnectionRequestService struct {
	db             *pgxpool.Pool
	requestRepo    *repository.ConnectionRequestRepository
	connectionRepo *repository.ConnectionRepository
	userRepo       userReader
	publisher      events.Publisher
}

func NewConnectionRequestService(
	db *pgxpool.Pool,
	requestRepo *repository.ConnectionRequestRepository,
	connectionRepo *repository.ConnectionRepository,
	userRepo userReader,
	publisher events.Publisher,
) *ConnectionRequestService {
	return &ConnectionRequestService{
		db:             db,
		requestRepo:    requestRepo,
		connectionRepo: connectionRepo,
		userRepo:       userRepo,
		publisher:      publisher,
	}
}

type CreateConnectionRequestInput struct {
	ReceiverID int64
	Message    *string
}

// Create opens a PENDING connection request from the caller to a user of the
// opposite role. At most one pending request may exist per ordered
// (sender, receiver) pair, and connected pairs may not request again.
func (s *ConnectionRequestService) Create(
	ctx context.Context,
	senderID int64,
	senderRole string,
	input CreateConnectionRequestInput,
) (*models.ConnectionRequest, error) {
	if input.ReceiverID <= 0 || input.ReceiverID == senderID {
		return nil, ErrInvalidInput
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
	if connected {
		return nil, ErrAlreadyConnected
	}

	pending, err := s.requestRepo.ExistsPendingBetween(ctx, senderID, input.ReceiverID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrDuplicateRequest
	}

	request, err := s.requestRepo.Create(ctx, repository.CreateConnectionRequestInput{
		SenderID:     senderID,
		SenderRole:   senderRole,
		ReceiverID:   input.ReceiverID,
		ReceiverRole: receiver.Role,
		Message:      input.Message,
	})
	if err != nil {
		return nil, err
	}

	_ = s.publisher.Publish(events.Event{
		Kind:       events.ConnectionRequestCreated,
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		ResourceID: request.ID,
	})

	return request, nil
}

// Accept resolves a pending request and records the member-coach connection
// in the same transaction. Only the receiver may accept. The conditional
// status update guarantees at most one transition wins under concurrency.
func (s *ConnectionRequestService) Accept(
	ctx context.Context,
	actorID int64,
	requestID int64,
) (*models.ConnectionRequest, error) {
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

	txRequestRepo := repository.NewConnectionRequestRepository(tx)
	txConnectionRepo := repository.NewConnectionRepository(tx)

	updated, err := txRequestRepo.UpdateStatusIfPending(ctx, requestID, models.StatusAccepted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	if err := txConnectionRepo.CreateEdge(ctx, updated.MemberID(), updated.CoachID()); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	_ = s.publisher.Publish(events.Event{
		Kind:       events.ConnectionRequestAccepted,
		SenderID:   updated.SenderID,
		ReceiverID: updated.ReceiverID,
		ResourceID: updated.ID,
	})

	return updated, nil
}

// Decline resolves a pending request without connecting. Receiver only.
func (s *ConnectionRequestService) Decline(
	ctx context.Context,
	actorID int64,
	requestID int64,
) (*models.ConnectionRequest, error) {
	return s.resolve(ctx, actorID, requestID, models.StatusDeclined, false)
}

// Cancel withdraws a pending request. Sender only.
func (s *ConnectionRequestService) Cancel(
	ctx context.Context,
	actorID int64,
	requestID int64,
) (*models.ConnectionRequest, error) {
	return s.resolve(ctx, actorID, requestID, models.StatusCancelled, true)
}

func (s *ConnectionRequestService) resolve(
	ctx context.Context,
	actorID int64,
	requestID int64,
	target string,
	actorIsSender bool,
) (*models.ConnectionRequest, error) {
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

	kind := events.ConnectionRequestDeclined
	if target == models.StatusCancelled {
		kind = events.ConnectionRequestCancelled
	}
	_ = s.publisher.Publish(events.Event{
		Kind:       kind,
		SenderID:   updated.SenderID,
		ReceiverID: updated.ReceiverID,
		ResourceID: updated.ID,
	})

	return updated, nil
}

// ListPendingReceived returns a user's pending inbox, newest first.
func (s *ConnectionRequestService) ListPendingReceived(
	ctx context.Context,
	role string,
	userID int64,
) ([]models.ConnectionRequest, error) {
	if role != models.RoleMember && role != models.RoleCoach {
		return nil, ErrInvalidRole
	}
	return s.requestRepo.ListPendingForReceiver(ctx, role, userID)
}

// ListPendingSent returns a user's outstanding outgoing requests.
func (s *ConnectionRequestService) ListPendingSent(
	ctx context.Context,
	role string,
	userID int64,
) ([]models.ConnectionRequest, error) {
	if role != models.RoleMember && role != models.RoleCoach {
		return nil, ErrInvalidRole
	}
	return s.requestRepo.ListPendingForSender(ctx, role, userID)
}
