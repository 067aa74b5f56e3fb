package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/repository"
)

// ProfileService owns onboarding and profile edits for both roles. Skill
// assignments are replaced atomically with the profile write.
type ProfileService struct {
	db         *pgxpool.Pool
	userRepo   *repository.UserRepository
	memberRepo *repository.MemberProfileRepository
	coachRepo  *repository.CoachProfileRepository
	skillRepo  *repository.SkillRepository
}

func NewProfileService(
	db *pgxpool.Pool,
	userRepo *repository.UserRepository,
	memberRepo *repository.MemberProfileRepository,
	coachRepo *repository.CoachProfileRepository,
	skillRepo *repository.SkillRepository,
) *ProfileService {
	return &ProfileService{
		db:         db,
		userRepo:   userRepo,
		memberRepo: memberRepo,
		coachRepo:  coachRepo,
		skillRepo:  skillRepo,
	}
}

type MemberOnboardingInput struct {
	Profile  repository.MemberOnboardingInput
	SkillIDs []int64
}

type CoachOnboardingInput struct {
	Profile repository.CoachOnboardingInput
	Skills  []repository.CoachSkillInput
}

// CompleteMemberOnboarding fills the empty profile created at registration
// and assigns the member's skills in one transaction.
func (s *ProfileService) CompleteMemberOnboarding(
	ctx context.Context,
	userID int64,
	input MemberOnboardingInput,
) (*models.MemberProfile, error) {
	if strings.TrimSpace(input.Profile.FirstName) == "" ||
		strings.TrimSpace(input.Profile.LastName) == "" {
		return nil, ErrInvalidInput
	}
	if err := s.checkSkillIDs(ctx, input.SkillIDs); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMemberRepo := repository.NewMemberProfileRepository(tx)
	txSkillRepo := repository.NewSkillRepository(tx)

	profile, err := txMemberRepo.UpdateOnboarding(ctx, userID, input.Profile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := txSkillRepo.ReplaceMemberSkills(ctx, userID, input.SkillIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	profile.Skills, err = s.skillRepo.ListMemberSkills(ctx, userID)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

func (s *ProfileService) CompleteCoachOnboarding(
	ctx context.Context,
	userID int64,
	input CoachOnboardingInput,
) (*models.CoachProfile, error) {
	if strings.TrimSpace(input.Profile.FirstName) == "" ||
		strings.TrimSpace(input.Profile.LastName) == "" {
		return nil, ErrInvalidInput
	}
	if err := s.checkCoachSkills(ctx, input.Skills); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txCoachRepo := repository.NewCoachProfileRepository(tx)
	txSkillRepo := repository.NewSkillRepository(tx)

	profile, err := txCoachRepo.UpdateOnboarding(ctx, userID, input.Profile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := txSkillRepo.ReplaceCoachSkills(ctx, userID, input.Skills); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	profile.Skills, err = s.skillRepo.ListCoachSkills(ctx, userID)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// GetMemberByUID loads a member profile with its skills.
func (s *ProfileService) GetMemberByUID(ctx context.Context, uid string) (*models.MemberProfile, error) {
	profile, err := s.memberRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	profile.Skills, err = s.skillRepo.ListMemberSkills(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetCoachByUID(ctx context.Context, uid string) (*models.CoachProfile, error) {
	profile, err := s.coachRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	profile.Skills, err = s.skillRepo.ListCoachSkills(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

type UpdateMemberProfileInput struct {
	Profile  repository.UpdateMemberProfileInput
	SkillIDs []int64 // nil leaves skills untouched
}

type UpdateCoachProfileInput struct {
	Profile repository.UpdateCoachProfileInput
	Skills  []repository.CoachSkillInput // nil leaves skills untouched
}

// UpdateMember edits the profile identified by uid. Callers may only edit
// their own profile.
func (s *ProfileService) UpdateMember(
	ctx context.Context,
	actorID int64,
	uid string,
	input UpdateMemberProfileInput,
) (*models.MemberProfile, error) {
	current, err := s.memberRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if current.UserID != actorID {
		return nil, ErrForbidden
	}
	if input.SkillIDs != nil {
		if err := s.checkSkillIDs(ctx, input.SkillIDs); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMemberRepo := repository.NewMemberProfileRepository(tx)
	txSkillRepo := repository.NewSkillRepository(tx)

	profile, err := txMemberRepo.UpdatePartial(ctx, current.UserID, input.Profile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.SkillIDs != nil {
		if err := txSkillRepo.ReplaceMemberSkills(ctx, current.UserID, input.SkillIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	profile.Skills, err = s.skillRepo.ListMemberSkills(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) UpdateCoach(
	ctx context.Context,
	actorID int64,
	uid string,
	input UpdateCoachProfileInput,
) (*models.CoachProfile, error) {
	current, err := s.coachRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if current.UserID != actorID {
		return nil, ErrForbidden
	}
	if input.Skills != nil {
		if err := s.checkCoachSkills(ctx, input.Skills); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txCoachRepo := repository.NewCoachProfileRepository(tx)
	txSkillRepo := repository.NewSkillRepository(tx)

	profile, err := txCoachRepo.UpdatePartial(ctx, current.UserID, input.Profile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Skills != nil {
		if err := txSkillRepo.ReplaceCoachSkills(ctx, current.UserID, input.Skills); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	profile.Skills, err = s.skillRepo.ListCoachSkills(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ListSkills returns the full catalog for onboarding pickers.
func (s *ProfileService) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return s.skillRepo.ListAll(ctx)
}

func (s *ProfileService) checkSkillIDs(ctx context.Context, skillIDs []int64) error {
	if len(skillIDs) == 0 {
		return nil
	}
	count, err := s.skillRepo.CountByIDs(ctx, skillIDs)
	if err != nil {
		return err
	}
	if count != len(dedupeIDs(skillIDs)) {
		return ErrInvalidInput
	}
	return nil
}

func (s *ProfileService) checkCoachSkills(ctx context.Context, skills []repository.CoachSkillInput) error {
	ids := make([]int64, 0, len(skills))
	for _, skill := range skills {
		switch skill.Proficiency {
		case models.ProficiencyBeginner, models.ProficiencyIntermediate, models.ProficiencyAdvanced:
		default:
			return ErrInvalidInput
		}
		ids = append(ids, skill.SkillID)
	}
	return s.checkSkillIDs(ctx, ids)
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
