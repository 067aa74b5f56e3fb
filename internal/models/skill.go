package models

// Coach skill proficiency levels.
const (
	ProficiencyBeginner     = "BEGINNER"
	ProficiencyIntermediate = "INTERMEDIATE"
	ProficiencyAdvanced     = "ADVANCED"
)

// Skill is an immutable catalog entry shared across profiles.
type Skill struct {
	ID    int64  `json:"skill_id"`
	Title string `json:"title"`
}

// CoachSkill is a catalog skill ranked by the coach's proficiency.
type CoachSkill struct {
	SkillID     int64  `json:"skill_id"`
	Title       string `json:"title"`
	Proficiency string `json:"proficiency"`
}
