package repository

import (
	"context"

	"github.com/benjamintowle04/ua-backend/internal/models"
)

type MemberProfileRepository struct {
	db DBTX
}

func NewMemberProfileRepository(db DBTX) *MemberProfileRepository {
	return &MemberProfileRepository{db: db}
}

const memberProfileColumns = `
	mp.id, mp.user_id, u.uid, mp.first_name, mp.last_name, mp.phone,
	mp.biography, mp.location, mp.profile_pic_url, mp.onboarding_complete,
	mp.created_at, mp.updated_at
`

func (r *MemberProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO member_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *MemberProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.MemberProfile, error) {
	query := `
		SELECT ` + memberProfileColumns + `
		FROM member_profiles mp
		JOIN users u ON u.id = mp.user_id
		WHERE mp.user_id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, userID))
}

func (r *MemberProfileRepository) GetByUID(ctx context.Context, uid string) (*models.MemberProfile, error) {
	query := `
		SELECT ` + memberProfileColumns + `
		FROM member_profiles mp
		JOIN users u ON u.id = mp.user_id
		WHERE u.uid = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, uid))
}

type MemberOnboardingInput struct {
	FirstName     string
	LastName      string
	Phone         string
	Biography     string
	Location      string
	ProfilePicURL *string
}

func (r *MemberProfileRepository) UpdateOnboarding(ctx context.Context, userID int64, req MemberOnboardingInput) (*models.MemberProfile, error) {
	query := `
		UPDATE member_profiles mp
		SET first_name = $1,
			last_name = $2,
			phone = $3,
			biography = $4,
			location = $5,
			profile_pic_url = COALESCE($6, mp.profile_pic_url),
			onboarding_complete = TRUE,
			updated_at = NOW()
		FROM users u
		WHERE mp.user_id = $7 AND u.id = mp.user_id
		RETURNING ` + memberProfileColumns + `
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

type UpdateMemberProfileInput struct {
	FirstName     *string
	LastName      *string
	Phone         *string
	Biography     *string
	Location      *string
	ProfilePicURL *string
}

func (r *MemberProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateMemberProfileInput) (*models.MemberProfile, error) {
	query := `
		UPDATE member_profiles mp
		SET first_name = COALESCE($1, mp.first_name),
			last_name = COALESCE($2, mp.last_name),
			phone = COALESCE($3, mp.phone),
			biography = COALESCE($4, mp.biography),
			location = COALESCE($5, mp.location),
			profile_pic_url = COALESCE($6, mp.profile_pic_url),
			updated_at = NOW()
		FROM users u
		WHERE mp.user_id = $7 AND u.id = mp.user_id
		RETURNING ` + memberProfileColumns + `
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

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *MemberProfileRepository) scanOne(row rowScanner) (*models.MemberProfile, error) {
	var profile models.MemberProfile
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
