package repository

import (
	"context"
	"fmt"

	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/jackc/pgx/v5"
)

const slotCols = `slot_id, interview_id, proposed_by, start_time, end_time, status, location, meeting_link, notes, created_at, updated_at`

func scanSlot(row pgx.Row) (*model.InterviewSlot, error) {
	var s model.InterviewSlot
	err := row.Scan(
		&s.SlotID, &s.InterviewID, &s.ProposedBy, &s.StartTime, &s.EndTime, &s.Status,
		&s.Location, &s.MeetingLink, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) GetSlot(ctx context.Context, slotID int64) (*model.InterviewSlot, error) {
	const q = `SELECT ` + slotCols + ` FROM interview_slots WHERE slot_id = $1`
	s, err := scanSlot(r.db.QueryRow(ctx, q, slotID))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("get slot %d", slotID), err)
	}
	return s, nil
}

func (r *Repository) ListSlots(ctx context.Context, interviewID int64) ([]model.InterviewSlot, error) {
	const q = `
SELECT ` + slotCols + `
FROM interview_slots
WHERE interview_id = $1
ORDER BY created_at DESC, slot_id DESC
`
	rows, err := r.db.Query(ctx, q, interviewID)
	if err != nil {
		return nil, wrapErr("query slots", err)
	}
	defer rows.Close()

	out := make([]model.InterviewSlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, wrapErr("scan slot", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("slot rows", err)
	}
	return out, nil
}

func lockSlot(ctx context.Context, db querier, slotID int64) (*model.InterviewSlot, error) {
	const q = `SELECT ` + slotCols + ` FROM interview_slots WHERE slot_id = $1 FOR UPDATE`
	s, err := scanSlot(db.QueryRow(ctx, q, slotID))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("lock slot %d", slotID), err)
	}
	return s, nil
}

func createSlot(ctx context.Context, db querier, s *model.InterviewSlot) error {
	const q = `
INSERT INTO interview_slots (
	interview_id, proposed_by, start_time, end_time, status, location, meeting_link, notes
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING slot_id, created_at, updated_at
`
	row := db.QueryRow(ctx, q,
		s.InterviewID, s.ProposedBy, s.StartTime, s.EndTime, s.Status, s.Location, s.MeetingLink, s.Notes,
	)
	if err := row.Scan(&s.SlotID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return wrapErr("insert slot", err)
	}
	return nil
}

func updateSlotStatus(ctx context.Context, db querier, slotID int64, status model.SlotStatus) error {
	const q = `UPDATE interview_slots SET status = $1, updated_at = now() WHERE slot_id = $2`
	tag, err := db.Exec(ctx, q, status, slotID)
	if err != nil {
		return wrapErr("update slot status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("slot %d: %w", slotID, model.ErrNotFound)
	}
	return nil
}

func rejectOtherSlots(ctx context.Context, db querier, interviewID, keepSlotID int64) ([]int64, error) {
	const q = `
UPDATE interview_slots SET status = $1, updated_at = now()
WHERE interview_id = $2 AND slot_id <> $3 AND status <> $1
RETURNING slot_id
`
	rows, err := db.Query(ctx, q, model.SlotStatusRejected, interviewID, keepSlotID)
	if err != nil {
		return nil, wrapErr("reject other slots", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapErr("scan rejected slot", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("rejected slot rows", err)
	}
	return ids, nil
}
