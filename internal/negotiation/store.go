package negotiation

import (
	"context"

	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/google/uuid"
)

// Store is the persistence the engine needs. Lookups of missing rows return
// model.ErrNotFound; other failures wrap model.ErrStorage.
type Store interface {
	GetOrCreateInterview(ctx context.Context, applicationID int64, companyID uuid.UUID) (*model.Interview, error)
	GetInterview(ctx context.Context, interviewID int64) (*model.Interview, error)
	GetInterviewByApplication(ctx context.Context, applicationID int64) (*model.Interview, error)
	GetSlot(ctx context.Context, slotID int64) (*model.InterviewSlot, error)
	ListSlots(ctx context.Context, interviewID int64) ([]model.InterviewSlot, error)

	// WithinTx runs fn in one transaction. The transaction commits only if fn
	// returns nil; otherwise nothing fn did is applied.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of writes available inside a transaction. Lock* methods
// hold the row until the transaction ends.
type Tx interface {
	LockInterview(ctx context.Context, interviewID int64) (*model.Interview, error)
	LockSlot(ctx context.Context, slotID int64) (*model.InterviewSlot, error)
	LockApplication(ctx context.Context, applicationID int64) (*model.Application, error)

	CreateSlot(ctx context.Context, slot *model.InterviewSlot) error
	UpdateSlotStatus(ctx context.Context, slotID int64, status model.SlotStatus) error
	// RejectOtherSlots moves every slot of the interview except keepSlotID that is
	// not already rejected to rejected, and returns the ids it changed.
	RejectOtherSlots(ctx context.Context, interviewID, keepSlotID int64) ([]int64, error)
	UpdateInterviewStatus(ctx context.Context, interviewID int64, status model.InterviewStatus) error
	UpdateApplicationStatus(ctx context.Context, applicationID int64, status model.ApplicationStatus) error
}
