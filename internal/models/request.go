package models

import "time"

const (
	RoleMember = "member"
	RoleCoach  = "coach"
)

// Request lifecycle states. ACCEPTED, DECLINED and CANCELLED are terminal.
const (
	StatusPending   = "PENDING"
	StatusAccepted  = "ACCEPTED"
	StatusDeclined  = "DECLINED"
	StatusCancelled = "CANCELLED"
)

type ConnectionRequest struct {
	ID           int64     `json:"id"`
	SenderID     int64     `json:"sender_id"`
	SenderRole   string    `json:"sender_role"`
	ReceiverID   int64     `json:"receiver_id"`
	ReceiverRole string    `json:"receiver_role"`
	Message      *string   `json:"message,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionRequest proposes a coaching session between two connected users.
// Options always holds exactly three candidate start times.
type SessionRequest struct {
	ID           int64        `json:"id"`
	SenderID     int64        `json:"sender_id"`
	SenderRole   string       `json:"sender_role"`
	ReceiverID   int64        `json:"receiver_id"`
	ReceiverRole string       `json:"receiver_role"`
	Description  string       `json:"description"`
	Location     string       `json:"location"`
	Options      [3]time.Time `json:"options"`
	Status       string       `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// MemberID returns the member side of a cross-role request.
func (r *ConnectionRequest) MemberID() int64 {
	if r.SenderRole == RoleMember {
		return r.SenderID
	}
	return r.ReceiverID
}

// CoachID returns the coach side of a cross-role request.
func (r *ConnectionRequest) CoachID() int64 {
	if r.SenderRole == RoleCoach {
		return r.SenderID
	}
	return r.ReceiverID
}

func (r *SessionRequest) MemberID() int64 {
	if r.SenderRole == RoleMember {
		return r.SenderID
	}
	return r.ReceiverID
}

func (r *SessionRequest) CoachID() int64 {
	if r.SenderRole == RoleCoach {
		return r.SenderID
	}
	return r.ReceiverID
}
