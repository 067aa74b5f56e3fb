package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/benjamintowle04/ua-backend/internal/models"
)

type CreateSessionInput struct {
	RequestID   *int64
	ScheduledAt time.Time
	Location    string
	Description string
	CoachID     int64
	MemberID    int64
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, request_id, scheduled_at, location, description, coach_id, member_id,
	created_at, updated_at
`

func (r *SessionRepository) Create(
	ctx context.Context,
	input CreateSessionInput,
) (*models.Session, error) {
	query := `
		INSERT INTO sessions (request_id, scheduled_at, location, description, coach_id, member_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + sessionColumns + `
	`
	return r.scanOne(r.db.QueryRow(
		ctx,
		query,
		input.RequestID,
		input.ScheduledAt,
		input.Location,
		input.Description,
		input.CoachID,
		input.MemberID,
	))
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) ListAll(ctx context.Context) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		ORDER BY scheduled_at ASC, id ASC
	`
	return r.list(ctx, query)
}

func (r *SessionRepository) ListByCoachID(ctx context.Context, coachID int64) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE coach_id = $1
		ORDER BY scheduled_at ASC, id ASC
	`
	return r.list(ctx, query, coachID)
}

func (r *SessionRepository) ListByMemberID(ctx context.Context, memberID int64) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE member_id = $1
		ORDER BY scheduled_at ASC, id ASC
	`
	return r.list(ctx, query, memberID)
}

func (r *SessionRepository) ListByRequestID(ctx context.Context, requestID int64) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE request_id = $1
		ORDER BY id ASC
	`
	return r.list(ctx, query, requestID)
}

type UpdateSessionInput struct {
	ScheduledAt *time.Time
	Location    *string
	Description *string
}

func (r *SessionRepository) UpdatePartial(
	ctx context.Context,
	sessionID int64,
	input UpdateSessionInput,
) (*models.Session, error) {
	query := `
		UPDATE sessions
		SET scheduled_at = COALESCE($2, scheduled_at),
			location = COALESCE($3, location),
			description = COALESCE($4, description),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sessionColumns + `
	`
	return r.scanOne(r.db.QueryRow(ctx, query, sessionID, input.ScheduledAt, input.Location, input.Description))
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID,
			&session.RequestID,
			&session.ScheduledAt,
			&session.Location,
			&session.Description,
			&session.CoachID,
			&session.MemberID,
			&session.CreatedAt,
			&session.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) scanOne(row rowScanner) (*models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.ID,
		&session.RequestID,
		&session.ScheduledAt,
		&session.Location,
		&session.Description,
		&session.CoachID,
		&session.MemberID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
