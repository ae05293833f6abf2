// Package negotiationtest provides an in-memory negotiation.Store for tests.
package negotiationtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abhishek622/slotwise/internal/negotiation"
	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/google/uuid"
)

// MemStore keeps interviews, slots and applications in maps. Transactions
// are serialized by a single mutex and rolled back by restoring a snapshot.
type MemStore struct {
	mu           sync.Mutex
	interviews   map[int64]model.Interview
	slots        map[int64]model.InterviewSlot
	applications map[int64]model.Application
	nextID       int64
	clock        time.Time

	// failures maps a Tx method name to the error it returns once.
	failures map[string]error
}

func NewMemStore() *MemStore {
	return &MemStore{
		interviews:   make(map[int64]model.Interview),
		slots:        make(map[int64]model.InterviewSlot),
		applications: make(map[int64]model.Application),
		clock:        time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		failures:     make(map[string]error),
	}
}

// AddApplication seeds an application and returns it with its id set.
func (s *MemStore) AddApplication(app model.Application) model.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app.ApplicationID == 0 {
		app.ApplicationID = s.id()
	}
	if app.Status == "" {
		app.Status = model.ApplicationStatusApplied
	}
	app.CreatedAt = s.tick()
	app.UpdatedAt = app.CreatedAt
	s.applications[app.ApplicationID] = app
	return app
}

// FailNext makes the next call of the named Tx method return err.
func (s *MemStore) FailNext(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = err
}

// SetInterviewStatus overwrites an interview status outside the engine.
func (s *MemStore) SetInterviewStatus(interviewID int64, status model.InterviewStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv := s.interviews[interviewID]
	iv.Status = status
	s.interviews[interviewID] = iv
}

func (s *MemStore) Application(id int64) model.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applications[id]
}

func (s *MemStore) InterviewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.interviews)
}

func (s *MemStore) SlotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

func (s *MemStore) GetApplication(_ context.Context, applicationID int64) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[applicationID]
	if !ok {
		return nil, fmt.Errorf("application %d: %w", applicationID, model.ErrNotFound)
	}
	return &app, nil
}

func (s *MemStore) GetOrCreateInterview(_ context.Context, applicationID int64, companyID uuid.UUID) (*model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[applicationID]; !ok {
		return nil, fmt.Errorf("application %d: %w", applicationID, model.ErrNotFound)
	}
	for _, iv := range s.interviews {
		if iv.ApplicationID == applicationID && iv.CompanyID == companyID {
			return &iv, nil
		}
	}
	now := s.tick()
	iv := model.Interview{
		InterviewID:   s.id(),
		CompanyID:     companyID,
		ApplicationID: applicationID,
		Status:        model.InterviewStatusPending,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.interviews[iv.InterviewID] = iv
	return &iv, nil
}

func (s *MemStore) GetInterview(_ context.Context, interviewID int64) (*model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interview(interviewID)
}

func (s *MemStore) GetInterviewByApplication(_ context.Context, applicationID int64) (*model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, iv := range s.interviews {
		if iv.ApplicationID == applicationID {
			return &iv, nil
		}
	}
	return nil, fmt.Errorf("interview for application %d: %w", applicationID, model.ErrNotFound)
}

func (s *MemStore) GetSlot(_ context.Context, slotID int64) (*model.InterviewSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot(slotID)
}

func (s *MemStore) ListSlots(_ context.Context, interviewID int64) ([]model.InterviewSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.InterviewSlot, 0)
	for _, sl := range s.slots {
		if sl.InterviewID == interviewID {
			out = append(out, sl)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].SlotID > out[j].SlotID
	})
	return out, nil
}

func (s *MemStore) WithinTx(ctx context.Context, fn func(tx negotiation.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	interviews := make(map[int64]model.Interview, len(s.interviews))
	for k, v := range s.interviews {
		interviews[k] = v
	}
	slots := make(map[int64]model.InterviewSlot, len(s.slots))
	for k, v := range s.slots {
		slots[k] = v
	}
	applications := make(map[int64]model.Application, len(s.applications))
	for k, v := range s.applications {
		applications[k] = v
	}
	nextID := s.nextID

	if err := fn(memTx{s}); err != nil {
		s.interviews, s.slots, s.applications, s.nextID = interviews, slots, applications, nextID
		return err
	}
	return nil
}

func (s *MemStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *MemStore) fail(method string) error {
	if err, ok := s.failures[method]; ok {
		delete(s.failures, method)
		return err
	}
	return nil
}

func (s *MemStore) interview(id int64) (*model.Interview, error) {
	iv, ok := s.interviews[id]
	if !ok {
		return nil, fmt.Errorf("interview %d: %w", id, model.ErrNotFound)
	}
	return &iv, nil
}

func (s *MemStore) slot(id int64) (*model.InterviewSlot, error) {
	sl, ok := s.slots[id]
	if !ok {
		return nil, fmt.Errorf("slot %d: %w", id, model.ErrNotFound)
	}
	return &sl, nil
}

// memTx runs with MemStore.mu already held.
type memTx struct{ s *MemStore }

func (t memTx) LockInterview(_ context.Context, interviewID int64) (*model.Interview, error) {
	if err := t.s.fail("LockInterview"); err != nil {
		return nil, err
	}
	return t.s.interview(interviewID)
}

func (t memTx) LockSlot(_ context.Context, slotID int64) (*model.InterviewSlot, error) {
	if err := t.s.fail("LockSlot"); err != nil {
		return nil, err
	}
	return t.s.slot(slotID)
}

func (t memTx) LockApplication(_ context.Context, applicationID int64) (*model.Application, error) {
	if err := t.s.fail("LockApplication"); err != nil {
		return nil, err
	}
	app, ok := t.s.applications[applicationID]
	if !ok {
		return nil, fmt.Errorf("application %d: %w", applicationID, model.ErrNotFound)
	}
	return &app, nil
}

func (t memTx) CreateSlot(_ context.Context, slot *model.InterviewSlot) error {
	if err := t.s.fail("CreateSlot"); err != nil {
		return err
	}
	slot.SlotID = t.s.id()
	slot.CreatedAt = t.s.tick()
	slot.UpdatedAt = slot.CreatedAt
	t.s.slots[slot.SlotID] = *slot
	return nil
}

func (t memTx) UpdateSlotStatus(_ context.Context, slotID int64, status model.SlotStatus) error {
	if err := t.s.fail("UpdateSlotStatus"); err != nil {
		return err
	}
	sl, ok := t.s.slots[slotID]
	if !ok {
		return fmt.Errorf("slot %d: %w", slotID, model.ErrNotFound)
	}
	sl.Status = status
	sl.UpdatedAt = t.s.tick()
	t.s.slots[slotID] = sl
	return nil
}

func (t memTx) RejectOtherSlots(_ context.Context, interviewID, keepSlotID int64) ([]int64, error) {
	if err := t.s.fail("RejectOtherSlots"); err != nil {
		return nil, err
	}
	var ids []int64
	for id, sl := range t.s.slots {
		if sl.InterviewID != interviewID || id == keepSlotID || sl.Status == model.SlotStatusRejected {
			continue
		}
		sl.Status = model.SlotStatusRejected
		sl.UpdatedAt = t.s.tick()
		t.s.slots[id] = sl
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (t memTx) UpdateInterviewStatus(_ context.Context, interviewID int64, status model.InterviewStatus) error {
	if err := t.s.fail("UpdateInterviewStatus"); err != nil {
		return err
	}
	iv, ok := t.s.interviews[interviewID]
	if !ok {
		return fmt.Errorf("interview %d: %w", interviewID, model.ErrNotFound)
	}
	iv.Status = status
	iv.UpdatedAt = t.s.tick()
	t.s.interviews[interviewID] = iv
	return nil
}

func (t memTx) UpdateApplicationStatus(_ context.Context, applicationID int64, status model.ApplicationStatus) error {
	if err := t.s.fail("UpdateApplicationStatus"); err != nil {
		return err
	}
	app, ok := t.s.applications[applicationID]
	if !ok {
		return fmt.Errorf("application %d: %w", applicationID, model.ErrNotFound)
	}
	app.Status = status
	app.UpdatedAt = t.s.tick()
	t.s.applications[applicationID] = app
	return nil
}
