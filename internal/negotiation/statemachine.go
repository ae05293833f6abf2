package negotiation

import (
	"fmt"

	"github.com/abhishek622/slotwise/pkg/model"
)

// slotTransitions lists the allowed moves per slot status. Accepted and
// rejected have none.
var slotTransitions = map[model.SlotStatus][]model.SlotStatus{
	model.SlotStatusProposed:        {model.SlotStatusAccepted, model.SlotStatusRejected},
	model.SlotStatusCounterProposed: {model.SlotStatusAccepted, model.SlotStatusRejected},
}

var interviewTransitions = map[model.InterviewStatus][]model.InterviewStatus{
	model.InterviewStatusPending:   {model.InterviewStatusScheduled, model.InterviewStatusCompleted, model.InterviewStatusCanceled},
	model.InterviewStatusScheduled: {model.InterviewStatusCompleted, model.InterviewStatusCanceled},
}

func checkSlotTransition(slotID int64, from, to model.SlotStatus) error {
	if !from.IsValid() || !to.IsValid() {
		return fmt.Errorf("%w: slot %d has unknown status %q or target %q", model.ErrInvalidStateTransition, slotID, from, to)
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: slot %d is already %s", model.ErrInvalidStateTransition, slotID, from)
	}
	for _, s := range slotTransitions[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: slot %d cannot move from %s to %s", model.ErrInvalidStateTransition, slotID, from, to)
}

func checkInterviewTransition(interviewID int64, from, to model.InterviewStatus) error {
	if !from.IsValid() || !to.IsValid() {
		return fmt.Errorf("%w: interview %d has unknown status %q or target %q", model.ErrInvalidStateTransition, interviewID, from, to)
	}
	for _, s := range interviewTransitions[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: interview %d cannot move from %s to %s", model.ErrInvalidStateTransition, interviewID, from, to)
}

// proposalStatus is the initial status of a new slot.
func proposalStatus(counter bool) model.SlotStatus {
	if counter {
		return model.SlotStatusCounterProposed
	}
	return model.SlotStatusProposed
}
