package negotiation

import (
	"context"
	"time"

	"github.com/abhishek622/slotwise/pkg/model"
)

type EventType string

const (
	EventSlotProposed    EventType = "slot.proposed"
	EventSlotAccepted    EventType = "slot.accepted"
	EventSlotRejected    EventType = "slot.rejected"
	EventInterviewClosed EventType = "interview.closed"
)

// Event describes a committed negotiation step with the statuses before and
// after it. Empty from/to pairs mean the entity was not touched.
type Event struct {
	Type            EventType               `json:"type"`
	InterviewID     int64                   `json:"interview_id"`
	ApplicationID   int64                   `json:"application_id"`
	SlotID          int64                   `json:"slot_id,omitempty"`
	SlotFrom        model.SlotStatus        `json:"slot_from,omitempty"`
	SlotTo          model.SlotStatus        `json:"slot_to,omitempty"`
	InterviewFrom   model.InterviewStatus   `json:"interview_from,omitempty"`
	InterviewTo     model.InterviewStatus   `json:"interview_to,omitempty"`
	ApplicationFrom model.ApplicationStatus `json:"application_from,omitempty"`
	ApplicationTo   model.ApplicationStatus `json:"application_to,omitempty"`
	RejectedSlotIDs []int64                 `json:"rejected_slot_ids,omitempty"`
	OccurredAt      time.Time               `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
