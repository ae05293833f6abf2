// Package negotiation runs the interview slot negotiation between a company
// and a candidate: proposals, counter-proposals, acceptance and rejection.
//
// Callers are expected to have checked that the acting user may touch the
// interview before calling in; the engine only guards the state machine.
package negotiation

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Engine struct {
	store     Store
	publisher Publisher
	policy    Policy
	logger    *zap.Logger
	now       func() time.Time
}

// NewEngine builds an engine. publisher and logger may be nil.
func NewEngine(store Store, publisher Publisher, policy Policy, logger *zap.Logger) *Engine {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:     store,
		publisher: publisher,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

type ProposeSlotParams struct {
	InterviewID     int64
	ProposedBy      uuid.UUID
	Start           time.Time
	End             time.Time
	Location        *string
	MeetingLink     *string
	Notes           *string
	CounterProposal bool
}

// GetOrCreateInterview returns the interview for the (application, company)
// pair, creating a pending one on first use.
func (e *Engine) GetOrCreateInterview(ctx context.Context, applicationID int64, companyID uuid.UUID) (*model.Interview, error) {
	return e.store.GetOrCreateInterview(ctx, applicationID, companyID)
}

func (e *Engine) GetInterview(ctx context.Context, interviewID int64) (*model.Interview, error) {
	return e.store.GetInterview(ctx, interviewID)
}

func (e *Engine) GetInterviewByApplication(ctx context.Context, applicationID int64) (*model.Interview, error) {
	return e.store.GetInterviewByApplication(ctx, applicationID)
}

func (e *Engine) GetSlot(ctx context.Context, slotID int64) (*model.InterviewSlot, error) {
	return e.store.GetSlot(ctx, slotID)
}

// ProposeSlot records a new proposal on a pending interview. Existing slots
// are left untouched; overlapping or repeated windows are allowed.
func (e *Engine) ProposeSlot(ctx context.Context, p ProposeSlotParams) (*model.InterviewSlot, error) {
	if err := e.policy.Validate(p.Start, p.End, e.now()); err != nil {
		return nil, err
	}

	slot := &model.InterviewSlot{
		InterviewID: p.InterviewID,
		ProposedBy:  p.ProposedBy,
		StartTime:   p.Start,
		EndTime:     p.End,
		Status:      proposalStatus(p.CounterProposal),
		Location:    p.Location,
		MeetingLink: p.MeetingLink,
		Notes:       p.Notes,
	}

	var applicationID int64
	err := e.store.WithinTx(ctx, func(tx Tx) error {
		interview, err := tx.LockInterview(ctx, p.InterviewID)
		if err != nil {
			return err
		}
		if interview.Status != model.InterviewStatusPending {
			return fmt.Errorf("%w: interview %d is %s and takes no new proposals",
				model.ErrInvalidStateTransition, interview.InterviewID, interview.Status)
		}
		applicationID = interview.ApplicationID
		return tx.CreateSlot(ctx, slot)
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, Event{
		Type:          EventSlotProposed,
		InterviewID:   slot.InterviewID,
		ApplicationID: applicationID,
		SlotID:        slot.SlotID,
		SlotTo:        slot.Status,
	})
	return slot, nil
}

// AcceptSlot accepts the slot, schedules its interview, rejects every other
// slot of the interview and marks the application interview_scheduled. All
// four writes commit together or not at all.
func (e *Engine) AcceptSlot(ctx context.Context, slotID int64) error {
	current, err := e.store.GetSlot(ctx, slotID)
	if err != nil {
		return err
	}

	ev := Event{Type: EventSlotAccepted, SlotID: slotID, SlotTo: model.SlotStatusAccepted}
	err = e.store.WithinTx(ctx, func(tx Tx) error {
		// interview first, then slot: the same order RejectSlot uses
		interview, err := tx.LockInterview(ctx, current.InterviewID)
		if err != nil {
			return err
		}
		slot, err := tx.LockSlot(ctx, slotID)
		if err != nil {
			return err
		}
		if err := checkSlotTransition(slot.SlotID, slot.Status, model.SlotStatusAccepted); err != nil {
			return err
		}
		if err := checkInterviewTransition(interview.InterviewID, interview.Status, model.InterviewStatusScheduled); err != nil {
			return err
		}
		application, err := tx.LockApplication(ctx, interview.ApplicationID)
		if err != nil {
			return err
		}

		if err := tx.UpdateSlotStatus(ctx, slot.SlotID, model.SlotStatusAccepted); err != nil {
			return err
		}
		if err := tx.UpdateInterviewStatus(ctx, interview.InterviewID, model.InterviewStatusScheduled); err != nil {
			return err
		}
		rejected, err := tx.RejectOtherSlots(ctx, interview.InterviewID, slot.SlotID)
		if err != nil {
			return err
		}
		if err := tx.UpdateApplicationStatus(ctx, application.ApplicationID, model.ApplicationStatusInterviewScheduled); err != nil {
			return err
		}

		ev.InterviewID = interview.InterviewID
		ev.ApplicationID = application.ApplicationID
		ev.SlotFrom = slot.Status
		ev.InterviewFrom = interview.Status
		ev.InterviewTo = model.InterviewStatusScheduled
		ev.ApplicationFrom = application.Status
		ev.ApplicationTo = model.ApplicationStatusInterviewScheduled
		ev.RejectedSlotIDs = rejected
		return nil
	})
	if err != nil {
		return err
	}

	e.publish(ctx, ev)
	return nil
}

// RejectSlot rejects a single slot. Rejecting an already rejected slot is a
// no-op; an accepted slot cannot be rejected.
func (e *Engine) RejectSlot(ctx context.Context, slotID int64) error {
	current, err := e.store.GetSlot(ctx, slotID)
	if err != nil {
		return err
	}

	var (
		ev      Event
		changed bool
	)
	err = e.store.WithinTx(ctx, func(tx Tx) error {
		interview, err := tx.LockInterview(ctx, current.InterviewID)
		if err != nil {
			return err
		}
		slot, err := tx.LockSlot(ctx, slotID)
		if err != nil {
			return err
		}
		if slot.Status == model.SlotStatusRejected {
			return nil
		}
		if err := checkSlotTransition(slot.SlotID, slot.Status, model.SlotStatusRejected); err != nil {
			return err
		}
		if err := tx.UpdateSlotStatus(ctx, slot.SlotID, model.SlotStatusRejected); err != nil {
			return err
		}

		changed = true
		ev = Event{
			Type:          EventSlotRejected,
			InterviewID:   interview.InterviewID,
			ApplicationID: interview.ApplicationID,
			SlotID:        slot.SlotID,
			SlotFrom:      slot.Status,
			SlotTo:        model.SlotStatusRejected,
		}
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		e.publish(ctx, ev)
	}
	return nil
}

// ListSlots returns every slot of the interview, newest first.
func (e *Engine) ListSlots(ctx context.Context, interviewID int64) ([]model.InterviewSlot, error) {
	if _, err := e.store.GetInterview(ctx, interviewID); err != nil {
		return nil, err
	}
	return e.store.ListSlots(ctx, interviewID)
}

// CloseInterview moves an interview to completed or canceled. Closed
// interviews never change status again.
func (e *Engine) CloseInterview(ctx context.Context, interviewID int64, status model.InterviewStatus) (*model.Interview, error) {
	if !status.IsClosed() {
		return nil, fmt.Errorf("%w: %q is not a closing status", model.ErrInvalidStateTransition, status)
	}

	var out *model.Interview
	var from model.InterviewStatus
	err := e.store.WithinTx(ctx, func(tx Tx) error {
		interview, err := tx.LockInterview(ctx, interviewID)
		if err != nil {
			return err
		}
		if err := checkInterviewTransition(interview.InterviewID, interview.Status, status); err != nil {
			return err
		}
		if err := tx.UpdateInterviewStatus(ctx, interview.InterviewID, status); err != nil {
			return err
		}
		from = interview.Status
		interview.Status = status
		out = interview
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, Event{
		Type:          EventInterviewClosed,
		InterviewID:   out.InterviewID,
		ApplicationID: out.ApplicationID,
		InterviewFrom: from,
		InterviewTo:   status,
	})
	return out, nil
}

// AcceptedSlot returns the accepted slot in slots, if any.
func AcceptedSlot(slots []model.InterviewSlot) *model.InterviewSlot {
	for i := range slots {
		if slots[i].Status == model.SlotStatusAccepted {
			return &slots[i]
		}
	}
	return nil
}

// publish runs after commit, so a failure here is logged and not returned.
func (e *Engine) publish(ctx context.Context, ev Event) {
	ev.OccurredAt = e.now().UTC()
	if err := e.publisher.Publish(ctx, ev); err != nil {
		e.logger.Sugar().Warnw("publish negotiation event failed",
			"type", ev.Type, "interview_id", ev.InterviewID, "slot_id", ev.SlotID, "err", err)
	}
}
