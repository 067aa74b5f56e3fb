package services

import (
	"context"
	"sort"
	"strings"

	"github.com/benjamintowle04/ua-backend/internal/models"
)

type coachLister interface {
	ListAll(ctx context.Context) ([]models.CoachProfile, error)
}

type coachSkillMapper interface {
	MapCoachSkills(ctx context.Context, coachIDs []int64) (map[int64][]models.CoachSkill, error)
}

// CoachSearchService ranks the onboarded coach directory against a member's
// filter. Scoring is additive: each overlapping skill contributes a weight
// by the coach's proficiency, plus a bonus when locations line up.
type CoachSearchService struct {
	coachRepo coachLister
	skillRepo coachSkillMapper
}

func NewCoachSearchService(coachRepo coachLister, skillRepo coachSkillMapper) *CoachSearchService {
	return &CoachSearchService{coachRepo: coachRepo, skillRepo: skillRepo}
}

type CoachSearchFilter struct {
	Location string
	Skills   []string
	Limit    int
}

const (
	locationWeight     = 50
	regionWeight       = 25
	beginnerWeight     = 20
	intermediateWeight = 30
	advancedWeight     = 40
)

func (s *CoachSearchService) Search(
	ctx context.Context,
	filter CoachSearchFilter,
) ([]models.CoachWithScore, error) {
	coaches, err := s.coachRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	coachIDs := make([]int64, 0, len(coaches))
	for _, coach := range coaches {
		coachIDs = append(coachIDs, coach.UserID)
	}

	skillsByCoach, err := s.skillRepo.MapCoachSkills(ctx, coachIDs)
	if err != nil {
		return nil, err
	}

	wanted := normalizeSkillSet(filter.Skills)
	location := normalizeTerm(filter.Location)

	ranked := make([]models.CoachWithScore, 0, len(coaches))
	for _, coach := range coaches {
		coach.Skills = skillsByCoach[coach.UserID]
		ranked = append(ranked, models.CoachWithScore{
			CoachProfile: coach,
			MatchScore:   scoreCoach(&coach, wanted, location),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MatchScore == ranked[j].MatchScore {
			return ranked[i].UserID < ranked[j].UserID
		}
		return ranked[i].MatchScore > ranked[j].MatchScore
	})

	if filter.Limit > 0 && len(ranked) > filter.Limit {
		ranked = ranked[:filter.Limit]
	}

	return ranked, nil
}

func scoreCoach(coach *models.CoachProfile, wanted map[string]struct{}, location string) int {
	score := 0

	for _, skill := range coach.Skills {
		if _, ok := wanted[normalizeTerm(skill.Title)]; !ok {
			continue
		}
		switch skill.Proficiency {
		case models.ProficiencyAdvanced:
			score += advancedWeight
		case models.ProficiencyIntermediate:
			score += intermediateWeight
		default:
			score += beginnerWeight
		}
	}

	if location != "" && coach.Location != nil {
		score += proximityScore(normalizeTerm(*coach.Location), location)
	}

	return score
}

// proximityScore grades how close a coach is to the requested location:
// full weight for the same locality, partial for the same region (the part
// after the last comma, e.g. the state in "Ames, IA").
func proximityScore(have, want string) int {
	if have == "" {
		return 0
	}
	if have == want {
		return locationWeight
	}
	if r := locationRegion(have); r != "" && r == locationRegion(want) {
		return regionWeight
	}
	return 0
}

func locationRegion(location string) string {
	if i := strings.LastIndex(location, ","); i >= 0 {
		return strings.TrimSpace(location[i+1:])
	}
	return ""
}

func normalizeSkillSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		if normalized := normalizeTerm(value); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set
}

func normalizeTerm(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
