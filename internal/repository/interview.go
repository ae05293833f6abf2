package repository

import (
	"context"
	"fmt"

	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const interviewCols = `interview_id, company_id, application_id, status, notes, is_active, created_at, updated_at`

func scanInterview(row pgx.Row) (*model.Interview, error) {
	var iv model.Interview
	err := row.Scan(
		&iv.InterviewID, &iv.CompanyID, &iv.ApplicationID, &iv.Status,
		&iv.Notes, &iv.IsActive, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// GetOrCreateInterview relies on the unique (application_id, company_id)
// constraint, so concurrent first proposals still end up on one row.
func (r *Repository) GetOrCreateInterview(ctx context.Context, applicationID int64, companyID uuid.UUID) (*model.Interview, error) {
	const q = `
INSERT INTO interviews (company_id, application_id, status)
VALUES ($1, $2, $3)
ON CONFLICT (application_id, company_id) DO UPDATE SET application_id = EXCLUDED.application_id
RETURNING ` + interviewCols

	iv, err := scanInterview(r.db.QueryRow(ctx, q, companyID, applicationID, model.InterviewStatusPending))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("get or create interview for application %d", applicationID), err)
	}
	return iv, nil
}

func (r *Repository) GetInterview(ctx context.Context, interviewID int64) (*model.Interview, error) {
	const q = `SELECT ` + interviewCols + ` FROM interviews WHERE interview_id = $1`
	iv, err := scanInterview(r.db.QueryRow(ctx, q, interviewID))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("get interview %d", interviewID), err)
	}
	return iv, nil
}

func (r *Repository) GetInterviewByApplication(ctx context.Context, applicationID int64) (*model.Interview, error) {
	const q = `SELECT ` + interviewCols + ` FROM interviews WHERE application_id = $1 ORDER BY created_at ASC LIMIT 1`
	iv, err := scanInterview(r.db.QueryRow(ctx, q, applicationID))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("get interview for application %d", applicationID), err)
	}
	return iv, nil
}

func lockInterview(ctx context.Context, db querier, interviewID int64) (*model.Interview, error) {
	const q = `SELECT ` + interviewCols + ` FROM interviews WHERE interview_id = $1 FOR UPDATE`
	iv, err := scanInterview(db.QueryRow(ctx, q, interviewID))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("lock interview %d", interviewID), err)
	}
	return iv, nil
}

func updateInterviewStatus(ctx context.Context, db querier, interviewID int64, status model.InterviewStatus) error {
	const q = `UPDATE interviews SET status = $1, updated_at = now() WHERE interview_id = $2`
	tag, err := db.Exec(ctx, q, status, interviewID)
	if err != nil {
		return wrapErr("update interview status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("interview %d: %w", interviewID, model.ErrNotFound)
	}
	return nil
}
