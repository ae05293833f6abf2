package repository

import (
	"context"
	"fmt"

	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/jackc/pgx/v5"
)

// applications belong to the jobs service; the company comes from the post.
const applicationSelect = `
SELECT a.application_id, a.post_id, p.company_id, a.candidate_id, a.status, a.created_at, a.updated_at
FROM applications a
JOIN job_posts p ON p.post_id = a.post_id
WHERE a.application_id = $1`

func scanApplication(row pgx.Row) (*model.Application, error) {
	var a model.Application
	err := row.Scan(&a.ApplicationID, &a.PostID, &a.CompanyID, &a.CandidateID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) GetApplication(ctx context.Context, applicationID int64) (*model.Application, error) {
	a, err := scanApplication(r.db.QueryRow(ctx, applicationSelect, applicationID))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("get application %d", applicationID), err)
	}
	return a, nil
}

func lockApplication(ctx context.Context, db querier, applicationID int64) (*model.Application, error) {
	a, err := scanApplication(db.QueryRow(ctx, applicationSelect+` FOR UPDATE OF a`, applicationID))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("lock application %d", applicationID), err)
	}
	return a, nil
}

func updateApplicationStatus(ctx context.Context, db querier, applicationID int64, status model.ApplicationStatus) error {
	const q = `UPDATE applications SET status = $1, updated_at = now() WHERE application_id = $2`
	tag, err := db.Exec(ctx, q, status, applicationID)
	if err != nil {
		return wrapErr("update application status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("application %d: %w", applicationID, model.ErrNotFound)
	}
	return nil
}
