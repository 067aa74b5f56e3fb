package repository

import "context"

// ConnectionRepository manages the member_coach edge created when a
// connection request is accepted.
type ConnectionRepository struct {
	db DBTX
}

func NewConnectionRepository(db DBTX) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

func (r *ConnectionRepository) CreateEdge(ctx context.Context, memberID, coachID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO member_coach (member_id, coach_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, memberID, coachID)
	return err
}

func (r *ConnectionRepository) Exists(ctx context.Context, memberID, coachID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM member_coach
			WHERE member_id = $1 AND coach_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, memberID, coachID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ConnectionRepository) ListCoachIDsForMember(ctx context.Context, memberID int64) ([]int64, error) {
	return r.listEdgeIDs(ctx, `
		SELECT coach_id
		FROM member_coach
		WHERE member_id = $1
		ORDER BY coach_id ASC
	`, memberID)
}

func (r *ConnectionRepository) ListMemberIDsForCoach(ctx context.Context, coachID int64) ([]int64, error) {
	return r.listEdgeIDs(ctx, `
		SELECT member_id
		FROM member_coach
		WHERE coach_id = $1
		ORDER BY member_id ASC
	`, coachID)
}

func (r *ConnectionRepository) listEdgeIDs(ctx context.Context, query string, id int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var other int64
		if err := rows.Scan(&other); err != nil {
			return nil, err
		}
		ids = append(ids, other)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
