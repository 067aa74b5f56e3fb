package models

import "time"

// Session is a confirmed booking produced by accepting a session request.
// It lives independently of the originating request afterwards.
type Session struct {
	ID          int64     `json:"id"`
	RequestID   *int64    `json:"request_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	CoachID     int64     `json:"coach_id"`
	MemberID    int64     `json:"member_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
