package repository

import (
	"context"
	"time"

	"github.com/benjamintowle04/ua-backend/internal/models"
)

type CreateSessionRequestInput struct {
	SenderID     int64
	SenderRole   string
	ReceiverID   int64
	ReceiverRole string
	Description  string
	Location     string
	Options      [3]time.Time
}

type SessionRequestRepository struct {
	db DBTX
}

func NewSessionRequestRepository(db DBTX) *SessionRequestRepository {
	return &SessionRequestRepository{db: db}
}

const sessionRequestColumns = `
	id, sender_id, sender_role, receiver_id, receiver_role, description,
	location, option_1, option_2, option_3, status, created_at, updated_at
`

func (r *SessionRequestRepository) Create(
	ctx context.Context,
	input CreateSessionRequestInput,
) (*models.SessionRequest, error) {
	query := `
		INSERT INTO session_requests (
			sender_id, sender_role, receiver_id, receiver_role,
			description, location, option_1, option_2, option_3, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'PENDING')
		RETURNING ` + sessionRequestColumns + `
	`
	return r.scanOne(r.db.QueryRow(
		ctx,
		query,
		input.SenderID,
		input.SenderRole,
		input.ReceiverID,
		input.ReceiverRole,
		input.Description,
		input.Location,
		input.Options[0],
		input.Options[1],
		input.Options[2],
	))
}

func (r *SessionRequestRepository) GetByID(ctx context.Context, requestID int64) (*models.SessionRequest, error) {
	query := `
		SELECT ` + sessionRequestColumns + `
		FROM session_requests
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, requestID))
}

func (r *SessionRequestRepository) ListPendingForReceiver(
	ctx context.Context,
	receiverRole string,
	receiverID int64,
) ([]models.SessionRequest, error) {
	query := `
		SELECT ` + sessionRequestColumns + `
		FROM session_requests
		WHERE status = 'PENDING' AND receiver_role = $1 AND receiver_id = $2
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query, receiverRole, receiverID)
}

func (r *SessionRequestRepository) ListPendingForSender(
	ctx context.Context,
	senderRole string,
	senderID int64,
) ([]models.SessionRequest, error) {
	query := `
		SELECT ` + sessionRequestColumns + `
		FROM session_requests
		WHERE status = 'PENDING' AND sender_role = $1 AND sender_id = $2
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query, senderRole, senderID)
}

// UpdateStatusIfPending mirrors the connection request transition: a
// conditional UPDATE that loses gracefully when the request is no longer
// PENDING (pgx.ErrNoRows).
func (r *SessionRequestRepository) UpdateStatusIfPending(
	ctx context.Context,
	requestID int64,
	nextStatus string,
) (*models.SessionRequest, error) {
	query := `
		UPDATE session_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING ` + sessionRequestColumns + `
	`
	return r.scanOne(r.db.QueryRow(ctx, query, requestID, nextStatus))
}

func (r *SessionRequestRepository) list(ctx context.Context, query string, args ...any) ([]models.SessionRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]models.SessionRequest, 0)
	for rows.Next() {
		var request models.SessionRequest
		if err := rows.Scan(
			&request.ID,
			&request.SenderID,
			&request.SenderRole,
			&request.ReceiverID,
			&request.ReceiverRole,
			&request.Description,
			&request.Location,
			&request.Options[0],
			&request.Options[1],
			&request.Options[2],
			&request.Status,
			&request.CreatedAt,
			&request.UpdatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *SessionRequestRepository) scanOne(row rowScanner) (*models.SessionRequest, error) {
	var request models.SessionRequest
	err := row.Scan(
		&request.ID,
		&request.SenderID,
		&request.SenderRole,
		&request.ReceiverID,
		&request.ReceiverRole,
		&request.Description,
		&request.Location,
		&request.Options[0],
		&request.Options[1],
		&request.Options[2],
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}
