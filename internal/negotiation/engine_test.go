package negotiation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhishek622/slotwise/internal/negotiation"
	"github.com/abhishek622/slotwise/internal/negotiation/negotiationtest"
	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []negotiation.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev negotiation.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []negotiation.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]negotiation.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	store     *negotiationtest.MemStore
	publisher *recordingPublisher
	engine    *negotiation.Engine
	company   uuid.UUID
	employer  uuid.UUID
	candidate uuid.UUID
	app       model.Application
	interview *model.Interview
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     negotiationtest.NewMemStore(),
		publisher: &recordingPublisher{},
		company:   uuid.New(),
		employer:  uuid.New(),
		candidate: uuid.New(),
	}
	f.engine = negotiation.NewEngine(f.store, f.publisher, negotiation.DefaultPolicy(), nil)
	f.app = f.store.AddApplication(model.Application{
		PostID:      7,
		CompanyID:   f.company,
		CandidateID: f.candidate,
		Status:      model.ApplicationStatusUnderReview,
	})

	iv, err := f.engine.GetOrCreateInterview(context.Background(), f.app.ApplicationID, f.company)
	require.NoError(t, err)
	f.interview = iv
	return f
}

// window returns a 30 minute slot starting days from now at hour:00.
func window(days, hour int) (time.Time, time.Time) {
	d := time.Now().UTC().AddDate(0, 0, days)
	start := time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
	return start, start.Add(30 * time.Minute)
}

func (f *fixture) propose(t *testing.T, by uuid.UUID, days, hour int, counter bool) *model.InterviewSlot {
	t.Helper()
	start, end := window(days, hour)
	slot, err := f.engine.ProposeSlot(context.Background(), negotiation.ProposeSlotParams{
		InterviewID:     f.interview.InterviewID,
		ProposedBy:      by,
		Start:           start,
		End:             end,
		CounterProposal: counter,
	})
	require.NoError(t, err)
	return slot
}

func (f *fixture) slotStatus(t *testing.T, id int64) model.SlotStatus {
	t.Helper()
	slot, err := f.engine.GetSlot(context.Background(), id)
	require.NoError(t, err)
	return slot.Status
}

func (f *fixture) interviewStatus(t *testing.T) model.InterviewStatus {
	t.Helper()
	iv, err := f.engine.GetInterview(context.Background(), f.interview.InterviewID)
	require.NoError(t, err)
	return iv.Status
}

func TestGetOrCreateInterview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, model.InterviewStatusPending, f.interview.Status)
	assert.True(t, f.interview.IsActive)

	again, err := f.engine.GetOrCreateInterview(ctx, f.app.ApplicationID, f.company)
	require.NoError(t, err)
	assert.Equal(t, f.interview.InterviewID, again.InterviewID)
	assert.Equal(t, 1, f.store.InterviewCount())

	_, err = f.engine.GetOrCreateInterview(ctx, 9999, f.company)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestProposeSlot(t *testing.T) {
	f := newFixture(t)

	s1 := f.propose(t, f.employer, 3, 10, false)
	assert.Equal(t, model.SlotStatusProposed, s1.Status)
	assert.Equal(t, f.employer, s1.ProposedBy)
	assert.NotZero(t, s1.SlotID)

	s2 := f.propose(t, f.candidate, 4, 14, true)
	assert.Equal(t, model.SlotStatusCounterProposed, s2.Status)

	// earlier proposals are untouched
	assert.Equal(t, model.SlotStatusProposed, f.slotStatus(t, s1.SlotID))
	assert.Equal(t, model.InterviewStatusPending, f.interviewStatus(t))
	assert.Equal(t, model.ApplicationStatusUnderReview, f.store.Application(f.app.ApplicationID).Status)
	assert.Equal(t, []negotiation.EventType{negotiation.EventSlotProposed, negotiation.EventSlotProposed}, f.publisher.types())
}

func TestProposeSlotAllowsDuplicates(t *testing.T) {
	f := newFixture(t)
	f.propose(t, f.employer, 3, 10, false)
	f.propose(t, f.employer, 3, 10, false)
	assert.Equal(t, 2, f.store.SlotCount())
}

func TestProposeSlotInvalidTimeRange(t *testing.T) {
	f := newFixture(t)
	start, _ := window(3, 10)

	tests := []struct {
		name string
		end  time.Time
	}{
		{"start equals end", start},
		{"end before start", start.Add(-time.Hour)},
		{"too short", start.Add(10 * time.Minute)},
		{"too long", start.Add(5 * time.Hour)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.ProposeSlot(context.Background(), negotiation.ProposeSlotParams{
				InterviewID: f.interview.InterviewID,
				ProposedBy:  f.employer,
				Start:       start,
				End:         tc.end,
			})
			assert.ErrorIs(t, err, model.ErrInvalidTimeRange)
		})
	}
	assert.Zero(t, f.store.SlotCount())
}

func TestProposeSlotInPast(t *testing.T) {
	f := newFixture(t)
	start, end := window(-1, 10)
	_, err := f.engine.ProposeSlot(context.Background(), negotiation.ProposeSlotParams{
		InterviewID: f.interview.InterviewID,
		ProposedBy:  f.employer,
		Start:       start,
		End:         end,
	})
	assert.ErrorIs(t, err, model.ErrInvalidTimeRange)
}

func TestProposeSlotUnknownInterview(t *testing.T) {
	f := newFixture(t)
	start, end := window(3, 10)
	_, err := f.engine.ProposeSlot(context.Background(), negotiation.ProposeSlotParams{
		InterviewID: 4242,
		ProposedBy:  f.employer,
		Start:       start,
		End:         end,
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestProposeSlotOnScheduledInterview(t *testing.T) {
	f := newFixture(t)
	s1 := f.propose(t, f.employer, 3, 10, false)
	require.NoError(t, f.engine.AcceptSlot(context.Background(), s1.SlotID))

	start, end := window(5, 10)
	_, err := f.engine.ProposeSlot(context.Background(), negotiation.ProposeSlotParams{
		InterviewID: f.interview.InterviewID,
		ProposedBy:  f.employer,
		Start:       start,
		End:         end,
	})
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)
}

func TestAcceptCounterProposal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s1 := f.propose(t, f.employer, 3, 10, false)
	s2 := f.propose(t, f.candidate, 4, 14, true)

	require.NoError(t, f.engine.AcceptSlot(ctx, s2.SlotID))

	assert.Equal(t, model.SlotStatusAccepted, f.slotStatus(t, s2.SlotID))
	assert.Equal(t, model.SlotStatusRejected, f.slotStatus(t, s1.SlotID))
	assert.Equal(t, model.InterviewStatusScheduled, f.interviewStatus(t))
	assert.Equal(t, model.ApplicationStatusInterviewScheduled, f.store.Application(f.app.ApplicationID).Status)

	last := f.publisher.events[len(f.publisher.events)-1]
	assert.Equal(t, negotiation.EventSlotAccepted, last.Type)
	assert.Equal(t, model.SlotStatusCounterProposed, last.SlotFrom)
	assert.Equal(t, model.InterviewStatusPending, last.InterviewFrom)
	assert.Equal(t, model.ApplicationStatusUnderReview, last.ApplicationFrom)
	assert.Equal(t, model.ApplicationStatusInterviewScheduled, last.ApplicationTo)
	assert.Equal(t, []int64{s1.SlotID}, last.RejectedSlotIDs)
}

func TestAcceptSlotRejectsAllSiblings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slots := []*model.InterviewSlot{
		f.propose(t, f.employer, 3, 9, false),
		f.propose(t, f.employer, 3, 11, false),
		f.propose(t, f.candidate, 4, 9, true),
		f.propose(t, f.candidate, 4, 11, true),
	}
	require.NoError(t, f.engine.RejectSlot(ctx, slots[3].SlotID))
	require.NoError(t, f.engine.AcceptSlot(ctx, slots[1].SlotID))

	listed, err := f.engine.ListSlots(ctx, f.interview.InterviewID)
	require.NoError(t, err)
	accepted := 0
	for _, s := range listed {
		if s.SlotID == slots[1].SlotID {
			assert.Equal(t, model.SlotStatusAccepted, s.Status)
			accepted++
			continue
		}
		assert.Equal(t, model.SlotStatusRejected, s.Status, "slot %d", s.SlotID)
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, slots[1].SlotID, negotiation.AcceptedSlot(listed).SlotID)
}

func TestRejectSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s1 := f.propose(t, f.employer, 3, 10, false)
	require.NoError(t, f.engine.RejectSlot(ctx, s1.SlotID))

	assert.Equal(t, model.SlotStatusRejected, f.slotStatus(t, s1.SlotID))
	assert.Equal(t, model.InterviewStatusPending, f.interviewStatus(t))
	assert.Equal(t, model.ApplicationStatusUnderReview, f.store.Application(f.app.ApplicationID).Status)

	// rejecting again is a no-op and publishes nothing
	require.NoError(t, f.engine.RejectSlot(ctx, s1.SlotID))
	assert.Equal(t, []negotiation.EventType{negotiation.EventSlotProposed, negotiation.EventSlotRejected}, f.publisher.types())
}

func TestTerminalSlotsStayTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s1 := f.propose(t, f.employer, 3, 10, false)
	s2 := f.propose(t, f.employer, 3, 12, false)
	require.NoError(t, f.engine.RejectSlot(ctx, s1.SlotID))

	err := f.engine.AcceptSlot(ctx, s1.SlotID)
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)
	assert.Equal(t, model.SlotStatusRejected, f.slotStatus(t, s1.SlotID))
	assert.Equal(t, model.SlotStatusProposed, f.slotStatus(t, s2.SlotID))
	assert.Equal(t, model.InterviewStatusPending, f.interviewStatus(t))
	assert.Equal(t, model.ApplicationStatusUnderReview, f.store.Application(f.app.ApplicationID).Status)

	require.NoError(t, f.engine.AcceptSlot(ctx, s2.SlotID))
	assert.ErrorIs(t, f.engine.RejectSlot(ctx, s2.SlotID), model.ErrInvalidStateTransition)
	assert.ErrorIs(t, f.engine.AcceptSlot(ctx, s2.SlotID), model.ErrInvalidStateTransition)
	assert.Equal(t, model.SlotStatusAccepted, f.slotStatus(t, s2.SlotID))
}

func TestAcceptSlotIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s1 := f.propose(t, f.employer, 3, 10, false)
	s2 := f.propose(t, f.candidate, 4, 14, true)

	boom := errors.New("connection reset")
	f.store.FailNext("UpdateApplicationStatus", boom)

	err := f.engine.AcceptSlot(ctx, s2.SlotID)
	require.ErrorIs(t, err, boom)

	assert.Equal(t, model.SlotStatusProposed, f.slotStatus(t, s1.SlotID))
	assert.Equal(t, model.SlotStatusCounterProposed, f.slotStatus(t, s2.SlotID))
	assert.Equal(t, model.InterviewStatusPending, f.interviewStatus(t))
	assert.Equal(t, model.ApplicationStatusUnderReview, f.store.Application(f.app.ApplicationID).Status)
	assert.NotContains(t, f.publisher.types(), negotiation.EventSlotAccepted)
}

func TestConcurrentAcceptsLeaveOneAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 8; i++ {
		ids = append(ids, f.propose(t, f.employer, 3, 8+i, false).SlotID)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := f.engine.AcceptSlot(ctx, id)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, model.ErrInvalidStateTransition)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	listed, err := f.engine.ListSlots(ctx, f.interview.InterviewID)
	require.NoError(t, err)
	accepted := 0
	for _, s := range listed {
		if s.Status == model.SlotStatusAccepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestAcceptSlotOnClosedInterview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s1 := f.propose(t, f.employer, 3, 10, false)
	f.store.SetInterviewStatus(f.interview.InterviewID, model.InterviewStatusCanceled)

	assert.ErrorIs(t, f.engine.AcceptSlot(ctx, s1.SlotID), model.ErrInvalidStateTransition)
	assert.Equal(t, model.InterviewStatusCanceled, f.interviewStatus(t))
	assert.Equal(t, model.SlotStatusProposed, f.slotStatus(t, s1.SlotID))
}

func TestListSlotsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s1 := f.propose(t, f.employer, 3, 10, false)
	s2 := f.propose(t, f.candidate, 4, 10, true)
	s3 := f.propose(t, f.employer, 5, 10, false)

	listed, err := f.engine.ListSlots(ctx, f.interview.InterviewID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, []int64{s3.SlotID, s2.SlotID, s1.SlotID},
		[]int64{listed[0].SlotID, listed[1].SlotID, listed[2].SlotID})
	assert.Nil(t, negotiation.AcceptedSlot(listed))

	// the result is a snapshot
	listed[0].Status = model.SlotStatusAccepted
	assert.Equal(t, model.SlotStatusProposed, f.slotStatus(t, s3.SlotID))

	_, err = f.engine.ListSlots(ctx, 31337)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCloseInterview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.CloseInterview(ctx, f.interview.InterviewID, model.InterviewStatusScheduled)
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)

	iv, err := f.engine.CloseInterview(ctx, f.interview.InterviewID, model.InterviewStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.InterviewStatusCompleted, iv.Status)

	_, err = f.engine.CloseInterview(ctx, f.interview.InterviewID, model.InterviewStatusCanceled)
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)
	assert.Equal(t, model.InterviewStatusCompleted, f.interviewStatus(t))
}

func TestPublisherFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("redis down")

	s1 := f.propose(t, f.employer, 3, 10, false)
	require.NoError(t, f.engine.AcceptSlot(context.Background(), s1.SlotID))
	assert.Equal(t, model.SlotStatusAccepted, f.slotStatus(t, s1.SlotID))
}
