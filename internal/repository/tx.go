package repository

import (
	"context"

	"github.com/abhishek622/slotwise/internal/negotiation"
	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/jackc/pgx/v5"
)

// WithinTx implements negotiation.Store. Row locks taken through the Tx are
// released on commit or rollback.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx negotiation.Tx) error) error {
	return r.execTx(ctx, func(tx pgx.Tx) error {
		return fn(txRepo{tx: tx})
	})
}

type txRepo struct {
	tx pgx.Tx
}

func (t txRepo) LockInterview(ctx context.Context, interviewID int64) (*model.Interview, error) {
	return lockInterview(ctx, t.tx, interviewID)
}

func (t txRepo) LockSlot(ctx context.Context, slotID int64) (*model.InterviewSlot, error) {
	return lockSlot(ctx, t.tx, slotID)
}

func (t txRepo) LockApplication(ctx context.Context, applicationID int64) (*model.Application, error) {
	return lockApplication(ctx, t.tx, applicationID)
}

func (t txRepo) CreateSlot(ctx context.Context, slot *model.InterviewSlot) error {
	return createSlot(ctx, t.tx, slot)
}

func (t txRepo) UpdateSlotStatus(ctx context.Context, slotID int64, status model.SlotStatus) error {
	return updateSlotStatus(ctx, t.tx, slotID, status)
}

func (t txRepo) RejectOtherSlots(ctx context.Context, interviewID, keepSlotID int64) ([]int64, error) {
	return rejectOtherSlots(ctx, t.tx, interviewID, keepSlotID)
}

func (t txRepo) UpdateInterviewStatus(ctx context.Context, interviewID int64, status model.InterviewStatus) error {
	return updateInterviewStatus(ctx, t.tx, interviewID, status)
}

func (t txRepo) UpdateApplicationStatus(ctx context.Context, applicationID int64, status model.ApplicationStatus) error {
	return updateApplicationStatus(ctx, t.tx, applicationID, status)
}

var (
	_ negotiation.Store = (*Repository)(nil)
	_ negotiation.Tx    = txRepo{}
)
