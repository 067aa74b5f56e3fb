package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/repository"
)

// ConnectionService lists the profiles a user is connected to, for the
// clients' home and contact screens.
type ConnectionService struct {
	connectionRepo *repository.ConnectionRepository
	memberRepo     *repository.MemberProfileRepository
	coachRepo      *repository.CoachProfileRepository
}

func NewConnectionService(
	connectionRepo *repository.ConnectionRepository,
	memberRepo *repository.MemberProfileRepository,
	coachRepo *repository.CoachProfileRepository,
) *ConnectionService {
	return &ConnectionService{
		connectionRepo: connectionRepo,
		memberRepo:     memberRepo,
		coachRepo:      coachRepo,
	}
}

func (s *ConnectionService) ListCoachesForMember(ctx context.Context, memberID int64) ([]models.CoachProfile, error) {
	ids, err := s.connectionRepo.ListCoachIDsForMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	coaches := make([]models.CoachProfile, 0, len(ids))
	for _, id := range ids {
		coach, err := s.coachRepo.GetByUserID(ctx, id)
		if err != nil {
			// An edge can briefly outlive a deleted account.
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		coaches = append(coaches, *coach)
	}
	return coaches, nil
}

func (s *ConnectionService) ListMembersForCoach(ctx context.Context, coachID int64) ([]models.MemberProfile, error) {
	ids, err := s.connectionRepo.ListMemberIDsForCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}

	members := make([]models.MemberProfile, 0, len(ids))
	for _, id := range ids {
		member, err := s.memberRepo.GetByUserID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		members = append(members, *member)
	}
	return members, nil
}
