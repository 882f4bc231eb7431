package model

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"  // waiting for the tutor's decision
	RequestStatusApproved RequestStatus = "approved" // tutor accepted, lesson date fixed
	RequestStatusRejected RequestStatus = "rejected" // tutor declined, terminal
)

// Role is the caller's relationship to one engagement request.
type Role int

const (
	RoleNone Role = iota
	RoleStudent
	RoleTutor
)

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleTutor:
		return "tutor"
	default:
		return "none"
	}
}

// EngagementRequest is one contact request between a student and a tutor,
// from the initial inquiry through scheduling, payment and dual-sided
// completion confirmation.
type EngagementRequest struct {
	ID        int64 `json:"id"`
	StudentID int64 `json:"student_id"`
	TutorID   int64 `json:"tutor_id"`

	// Snapshot of the inquiry, captured at creation and never mutated.
	StudentName        string `json:"student_name"`
	StudentEmail       string `json:"student_email"`
	StudentPhone       string `json:"student_phone"`
	Subject            string `json:"subject"`
	DurationMinutes    int    `json:"duration_minutes"`
	PreferredSlot      string `json:"preferred_slot,omitempty"`
	Message            string `json:"message,omitempty"`
	Negotiate          bool   `json:"negotiate"`
	ProposedPriceCents *int64 `json:"proposed_price_cents,omitempty"`
	PriceReason        string `json:"price_reason,omitempty"`

	Status            RequestStatus `json:"status"`
	FixedDate         *time.Time    `json:"fixed_date,omitempty"`
	IsPaid            bool          `json:"is_paid"`
	PaymentDate       *time.Time    `json:"payment_date,omitempty"`
	StudentCompleted  bool          `json:"student_completed"`
	TutorCompleted    bool          `json:"tutor_completed"`
	CompletionSummary string        `json:"completion_summary,omitempty"`
	IsCompleted       bool          `json:"is_completed"`
	CompletedAt       *time.Time    `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleOf resolves which side of the request the given user is on. Pure
// function of the two party ids; every lifecycle and conversation operation
// uses it as the first authorization gate.
func (r *EngagementRequest) RoleOf(userID int64) Role {
	switch userID {
	case r.StudentID:
		return RoleStudent
	case r.TutorID:
		return RoleTutor
	default:
		return RoleNone
	}
}

// IsPending checks if the request still awaits the tutor's decision
func (r *EngagementRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsApproved checks if the tutor accepted the request
func (r *EngagementRequest) IsApproved() bool {
	return r.Status == RequestStatusApproved
}

// PendingBacklog is one tutor's count of stale pending requests, produced
// by the reminder sweeper.
type PendingBacklog struct {
	TutorID int64
	Count   int
}
