package repository

import (
	"context"

	"github.com/benjamintowle04/ua-backend/internal/models"
)

type SkillRepository struct {
	db DBTX
}

func NewSkillRepository(db DBTX) *SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) ListAll(ctx context.Context) ([]models.Skill, error) {
	query := `
		SELECT id, title
		FROM skills
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]models.Skill, 0)
	for rows.Next() {
		var skill models.Skill
		if err := rows.Scan(&skill.ID, &skill.Title); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *SkillRepository) CountByIDs(ctx context.Context, skillIDs []int64) (int, error) {
	if len(skillIDs) == 0 {
		return 0, nil
	}
	query := `
		SELECT COUNT(DISTINCT id)
		FROM skills
		WHERE id = ANY($1)
	`
	var count int
	if err := r.db.QueryRow(ctx, query, skillIDs).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceMemberSkills swaps the member's unranked tag set for the given ids.
func (r *SkillRepository) ReplaceMemberSkills(ctx context.Context, memberID int64, skillIDs []int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM member_skills WHERE member_id = $1`, memberID); err != nil {
		return err
	}
	for _, skillID := range skillIDs {
		if _, err := r.db.Exec(ctx, `
			INSERT INTO member_skills (member_id, skill_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, memberID, skillID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SkillRepository) ListMemberSkills(ctx context.Context, memberID int64) ([]models.Skill, error) {
	query := `
		SELECT s.id, s.title
		FROM member_skills ms
		JOIN skills s ON s.id = ms.skill_id
		WHERE ms.member_id = $1
		ORDER BY s.id ASC
	`
	rows, err := r.db.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]models.Skill, 0)
	for rows.Next() {
		var skill models.Skill
		if err := rows.Scan(&skill.ID, &skill.Title); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return skills, nil
}

type CoachSkillInput struct {
	SkillID     int64
	Proficiency string
}

// ReplaceCoachSkills swaps the coach's ranked skill set for the given entries.
func (r *SkillRepository) ReplaceCoachSkills(ctx context.Context, coachID int64, skills []CoachSkillInput) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM coach_skills WHERE coach_id = $1`, coachID); err != nil {
		return err
	}
	for _, skill := range skills {
		if _, err := r.db.Exec(ctx, `
			INSERT INTO coach_skills (coach_id, skill_id, proficiency)
			VALUES ($1, $2, $3)
			ON CONFLICT (coach_id, skill_id) DO UPDATE SET proficiency = EXCLUDED.proficiency
		`, coachID, skill.SkillID, skill.Proficiency); err != nil {
			return err
		}
	}
	return nil
}

func (r *SkillRepository) ListCoachSkills(ctx context.Context, coachID int64) ([]models.CoachSkill, error) {
	query := `
		SELECT s.id, s.title, cs.proficiency
		FROM coach_skills cs
		JOIN skills s ON s.id = cs.skill_id
		WHERE cs.coach_id = $1
		ORDER BY s.id ASC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]models.CoachSkill, 0)
	for rows.Next() {
		var skill models.CoachSkill
		if err := rows.Scan(&skill.SkillID, &skill.Title, &skill.Proficiency); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return skills, nil
}

// MapCoachSkills returns ranked skills for a set of coaches in one query.
func (r *SkillRepository) MapCoachSkills(ctx context.Context, coachIDs []int64) (map[int64][]models.CoachSkill, error) {
	result := make(map[int64][]models.CoachSkill)
	if len(coachIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT cs.coach_id, s.id, s.title, cs.proficiency
		FROM coach_skills cs
		JOIN skills s ON s.id = cs.skill_id
		WHERE cs.coach_id = ANY($1)
		ORDER BY cs.coach_id ASC, s.id ASC
	`
	rows, err := r.db.Query(ctx, query, coachIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var coachID int64
		var skill models.CoachSkill
		if err := rows.Scan(&coachID, &skill.SkillID, &skill.Title, &skill.Proficiency); err != nil {
			return nil, err
		}
		result[coachID] = append(result[coachID], skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
