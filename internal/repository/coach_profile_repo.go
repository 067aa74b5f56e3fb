package repository

import (
	"context"

	"github.com/benjamintowle04/ua-backend/internal/models"
)

type CoachProfileRepository struct {
	db DBTX
}

func NewCoachProfileRepository(db DBTX) *CoachProfileRepository {
	return &CoachProfileRepository{db: db}
}

const coachProfileColumns = `
	cp.id, cp.user_id, u.uid, cp.first_name, cp.last_name, cp.phone,
	cp.biography, cp.location, cp.profile_pic_url, cp.onboarding_complete,
	cp.created_at, cp.updated_at
`

func (r *CoachProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO coach_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *CoachProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error) {
	query := `
		SELECT ` + coachProfileColumns + `
		FROM coach_profiles cp
		JOIN users u ON u.id = cp.user_id
		WHERE cp.user_id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, userID))
}

func (r *CoachProfileRepository) GetByUID(ctx context.Context, uid string) (*models.CoachProfile, error) {
	query := `
		SELECT ` + coachProfileColumns + `
		FROM coach_profiles cp
		JOIN users u ON u.id = cp.user_id
		WHERE u.uid = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, uid))
}

func (r *CoachProfileRepository) ListAll(ctx context.Context) ([]models.CoachProfile, error) {
	query := `
		SELECT ` + coachProfileColumns + `
		FROM coach_profiles cp
		JOIN users u ON u.id = cp.user_id
		WHERE cp.onboarding_complete
		ORDER BY cp.id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.CoachProfile, 0)
	for rows.Next() {
		var profile models.CoachProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.UID,
			&profile.FirstName,
			&profile.LastName,
			&profile.Phone,
			&profile.Biography,
			&profile.Location,
			&profile.ProfilePicURL,
			&profile.OnboardingComplete,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

type CoachOnboardingInput struct {
	FirstName     string
	LastName      string
	Phone         string
	Biography     string
	Location      string
	ProfilePicURL *string
}

func (r *CoachProfileRepository) UpdateOnboarding(ctx context.Context, userID int64, req CoachOnboardingInput) (*models.CoachProfile, error) {
	query := `
		UPDATE coach_profiles cp
		SET first_name = $1,
			last_name = $2,
			phone = $3,
			biography = $4,
			location = $5,
			profile_pic_url = COALESCE($6, cp.profile_pic_url),
			onboarding_complete = TRUE,
			updated_at = NOW()
		FROM users u
		WHERE cp.user_id = $7 AND u.id = cp.user_id
		RETURNING ` + coachProfileColumns + `
	`
	return r.scanOne(r.db.QueryRow(ctx, query,
		req.FirstName,
		req.LastName,
		req.Phone,
		req.Biography,
		req.Location,
		req.ProfilePicURL,
		userID,
	))
}

type UpdateCoachProfileInput struct {
	FirstName     *string
	LastName      *string
	Phone         *string
	Biography     *string
	Location      *string
	ProfilePicURL *string
}

func (r *CoachProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateCoachProfileInput) (*models.CoachProfile, error) {
	query := `
		UPDATE coach_profiles cp
		SET first_name = COALESCE($1, cp.first_name),
			last_name = COALESCE($2, cp.last_name),
			phone = COALESCE($3, cp.phone),
			biography = COALESCE($4, cp.biography),
			location = COALESCE($5, cp.location),
			profile_pic_url = COALESCE($6, cp.profile_pic_url),
			updated_at = NOW()
		FROM users u
		WHERE cp.user_id = $7 AND u.id = cp.user_id
		RETURNING ` + coachProfileColumns + `
	`
	return r.scanOne(r.db.QueryRow(ctx, query,
		req.FirstName,
		req.LastName,
		req.Phone,
		req.Biography,
		req.Location,
		req.ProfilePicURL,
		userID,
	))
}

func (r *CoachProfileRepository) scanOne(row rowScanner) (*models.CoachProfile, error) {
	var profile models.CoachProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.UID,
		&profile.FirstName,
		&profile.LastName,
		&profile.Phone,
		&profile.Biography,
		&profile.Location,
		&profile.ProfilePicURL,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
