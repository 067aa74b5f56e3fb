package models

import "time"

type CoachProfile struct {
	ID                 int64        `json:"id"`
	UserID             int64        `json:"user_id"`
	UID                string       `json:"uid"`
	FirstName          *string      `json:"first_name"`
	LastName           *string      `json:"last_name"`
	Phone              *string      `json:"phone"`
	Biography          *string      `json:"biography"`
	Location           *string      `json:"location"`
	ProfilePicURL      *string      `json:"profile_pic_url"`
	Skills             []CoachSkill `json:"skills,omitempty"`
	OnboardingComplete bool         `json:"onboarding_complete"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// CoachWithScore is a coach profile ranked for directory search results.
type CoachWithScore struct {
	CoachProfile
	MatchScore int `json:"match_score"`
}
