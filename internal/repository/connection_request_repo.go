package repository

import (
	"context"

	"github.com/benjamintowle04/ua-backend/internal/models"
)

type CreateConnectionRequestInput struct {
	SenderID     int64
	SenderRole   string
	ReceiverID   int64
	ReceiverRole string
	Message      *string
}

type ConnectionRequestRepository struct {
	db DBTX
}

func NewConnectionRequestRepository(db DBTX) *ConnectionRequestRepository {
	return &ConnectionRequestRepository{db: db}
}

const connectionRequestColumns = `
	id, sender_id, sender_role, receiver_id, receiver_role, message, status,
	created_at, updated_at
`

func (r *ConnectionRequestRepository) Create(
	ctx context.Context,
	input CreateConnectionRequestInput,
) (*models.ConnectionRequest, error) {
	query := `
		INSERT INTO connection_requests (sender_id, sender_role, receiver_id, receiver_role, message, status)
		VALUES ($1, $2, $3, $4, $5, 'PENDING')
		RETURNING ` + connectionRequestColumns + `
	`
	return r.scanOne(r.db.QueryRow(
		ctx,
		query,
		input.SenderID,
		input.SenderRole,
		input.ReceiverID,
		input.ReceiverRole,
		input.Message,
	))
}

func (r *ConnectionRequestRepository) GetByID(ctx context.Context, requestID int64) (*models.ConnectionRequest, error) {
	query := `
		SELECT ` + connectionRequestColumns + `
		FROM connection_requests
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, requestID))
}

// ExistsPendingBetween reports whether a PENDING request already exists for
// the ordered (sender, receiver) pair.
func (r *ConnectionRequestRepository) ExistsPendingBetween(ctx context.Context, senderID, receiverID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM connection_requests
			WHERE sender_id = $1 AND receiver_id = $2 AND status = 'PENDING'
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, senderID, receiverID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ConnectionRequestRepository) ListPendingForReceiver(
	ctx context.Context,
	receiverRole string,
	receiverID int64,
) ([]models.ConnectionRequest, error) {
	query := `
		SELECT ` + connectionRequestColumns + `
		FROM connection_requests
		WHERE status = 'PENDING' AND receiver_role = $1 AND receiver_id = $2
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query, receiverRole, receiverID)
}

func (r *ConnectionRequestRepository) ListPendingForSender(
	ctx context.Context,
	senderRole string,
	senderID int64,
) ([]models.ConnectionRequest, error) {
	query := `
		SELECT ` + connectionRequestColumns + `
		FROM connection_requests
		WHERE status = 'PENDING' AND sender_role = $1 AND sender_id = $2
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query, senderRole, senderID)
}

// UpdateStatusIfPending performs the conditional transition that guarantees
// at most one terminal state per request. Returns pgx.ErrNoRows when another
// actor already moved the request out of PENDING.
func (r *ConnectionRequestRepository) UpdateStatusIfPending(
	ctx context.Context,
	requestID int64,
	nextStatus string,
) (*models.ConnectionRequest, error) {
	query := `
		UPDATE connection_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING ` + connectionRequestColumns + `
	`
	return r.scanOne(r.db.QueryRow(ctx, query, requestID, nextStatus))
}

func (r *ConnectionRequestRepository) list(ctx context.Context, query string, args ...any) ([]models.ConnectionRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]models.ConnectionRequest, 0)
	for rows.Next() {
		var request models.ConnectionRequest
		if err := rows.Scan(
			&request.ID,
			&request.SenderID,
			&request.SenderRole,
			&request.ReceiverID,
			&request.ReceiverRole,
			&request.Message,
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

func (r *ConnectionRequestRepository) scanOne(row rowScanner) (*models.ConnectionRequest, error) {
	var request models.ConnectionRequest
	err := row.Scan(
		&request.ID,
		&request.SenderID,
		&request.SenderRole,
		&request.ReceiverID,
		&request.ReceiverRole,
		&request.Message,
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}
