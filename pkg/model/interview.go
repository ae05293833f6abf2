package model

import (
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	InterviewStatusPending   InterviewStatus = "pending"
	InterviewStatusScheduled InterviewStatus = "scheduled"
	InterviewStatusCompleted InterviewStatus = "completed"
	InterviewStatusCanceled  InterviewStatus = "canceled"
)

// IsValid reports whether s is a known interview status.
func (s InterviewStatus) IsValid() bool {
	switch s {
	case InterviewStatusPending, InterviewStatusScheduled, InterviewStatusCompleted, InterviewStatusCanceled:
		return true
	default:
		return false
	}
}

// IsClosed reports whether the interview left negotiation through an administrative action.
func (s InterviewStatus) IsClosed() bool {
	return s == InterviewStatusCompleted || s == InterviewStatusCanceled
}

type SlotStatus string

const (
	SlotStatusProposed        SlotStatus = "proposed"
	SlotStatusCounterProposed SlotStatus = "counter_proposed"
	SlotStatusAccepted        SlotStatus = "accepted"
	SlotStatusRejected        SlotStatus = "rejected"
)

func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotStatusProposed, SlotStatusCounterProposed, SlotStatusAccepted, SlotStatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is permitted out of s.
func (s SlotStatus) IsTerminal() bool {
	return s == SlotStatusAccepted || s == SlotStatusRejected
}

type Interview struct {
	InterviewID   int64           `json:"interview_id" db:"interview_id"`
	CompanyID     uuid.UUID       `json:"company_id" db:"company_id"`
	ApplicationID int64           `json:"application_id" db:"application_id"`
	Status        InterviewStatus `json:"status" db:"status"`
	Notes         *string         `json:"notes" db:"notes"`
	IsActive      bool            `json:"is_active" db:"is_active"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

type InterviewSlot struct {
	SlotID      int64      `json:"slot_id" db:"slot_id"`
	InterviewID int64      `json:"interview_id" db:"interview_id"`
	ProposedBy  uuid.UUID  `json:"proposed_by" db:"proposed_by"`
	StartTime   time.Time  `json:"start_time" db:"start_time"`
	EndTime     time.Time  `json:"end_time" db:"end_time"`
	Status      SlotStatus `json:"status" db:"status"`
	Location    *string    `json:"location" db:"location"`
	MeetingLink *string    `json:"meeting_link" db:"meeting_link"`
	Notes       *string    `json:"notes" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Duration is the length of the proposed window.
func (s InterviewSlot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

type ProposeSlotReq struct {
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Location    *string   `json:"location" binding:"omitempty,max=255"`
	MeetingLink *string   `json:"meeting_link" binding:"omitempty,url"`
	Notes       *string   `json:"notes"`
}

type CloseInterviewReq struct {
	Status InterviewStatus `json:"status" binding:"required,oneof=completed canceled"`
}

type InterviewSlotsRes struct {
	Interview    *Interview      `json:"interview"`
	Slots        []InterviewSlot `json:"slots"`
	AcceptedSlot *InterviewSlot  `json:"accepted_slot"`
}
