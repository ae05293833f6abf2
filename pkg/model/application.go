package model

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusApplied            ApplicationStatus = "applied"
	ApplicationStatusUnderReview        ApplicationStatus = "under_review"
	ApplicationStatusInterviewScheduled ApplicationStatus = "interview_scheduled"
	ApplicationStatusOffered            ApplicationStatus = "offered"
	ApplicationStatusRejected           ApplicationStatus = "rejected"
)

// Application is a candidate's application to a job post. It is owned by the
// applications service; this module only reads it and writes its status.
type Application struct {
	ApplicationID int64             `json:"application_id" db:"application_id"`
	PostID        int64             `json:"post_id" db:"post_id"`
	CompanyID     uuid.UUID         `json:"company_id" db:"company_id"`
	CandidateID   uuid.UUID         `json:"candidate_id" db:"candidate_id"`
	Status        ApplicationStatus `json:"status" db:"status"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}
