package repository

import (
	"context"
	"errors"
	"time"

	"photoline/internal/domain/submission"
	photoline_errors "photoline/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSubmissionRepository struct {
	db *pgxpool.Pool
}

func NewSubmissionRepository(db *pgxpool.Pool) SubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

func (r *PostgresSubmissionRepository) Create(ctx context.Context, phoneNumber string, submittedAt time.Time, image []byte, mimeType string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO submissions (phone_number, submitted_at, status, image, image_mimetype)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING submission_id`,
		phoneNumber, submittedAt, submission.StatusPending, image, mimeType,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PostgresSubmissionRepository) ListPending(ctx context.Context) ([]submission.Pending, error) {
	rows, err := r.db.Query(ctx,
		`SELECT submission_id, phone_number, submitted_at
		 FROM submissions
		 WHERE status = $1
		 ORDER BY submitted_at ASC`,
		submission.StatusPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPending(rows)
}

func (r *PostgresSubmissionRepository) ListApproved(ctx context.Context) ([]submission.Approved, error) {
	rows, err := r.db.Query(ctx,
		`SELECT submission_id, phone_number, submitted_at, approved_at
		 FROM submissions
		 WHERE status = $1
		 ORDER BY approved_at ASC`,
		submission.StatusApproved,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []submission.Approved
	for rows.Next() {
		var s submission.Approved
		if err := rows.Scan(&s.ID, &s.PhoneNumber, &s.SubmittedAt, &s.ApprovedAt); err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

func (r *PostgresSubmissionRepository) GetPendingByIDs(ctx context.Context, ids []int64) ([]submission.Pending, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT submission_id, phone_number, submitted_at
		 FROM submissions
		 WHERE submission_id = ANY($1)
		 ORDER BY submission_id ASC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPending(rows)
}

func (r *PostgresSubmissionRepository) GetImage(ctx context.Context, id int64) (submission.Image, error) {
	var img submission.Image
	err := r.db.QueryRow(ctx,
		`SELECT status, image, image_mimetype
		 FROM submissions
		 WHERE submission_id = $1`,
		id,
	).Scan(&img.Status, &img.Data, &img.MimeType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return submission.Image{}, photoline_errors.ErrNotFound
		}
		return submission.Image{}, err
	}
	return img, nil
}

// Approve and Discard are conditional on the row still being Pending, so a
// race between the two resolves to exactly one winner inside Postgres.

func (r *PostgresSubmissionRepository) Approve(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE submissions
		 SET status = $1, approved_at = NOW()
		 WHERE submission_id = $2 AND status = $3`,
		submission.StatusApproved, id, submission.StatusPending,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresSubmissionRepository) Discard(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE submissions
		 SET status = $1, discarded_at = NOW()
		 WHERE submission_id = $2 AND status = $3`,
		submission.StatusDiscarded, id, submission.StatusPending,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanPending(rows pgx.Rows) ([]submission.Pending, error) {
	var results []submission.Pending
	for rows.Next() {
		var s submission.Pending
		if err := rows.Scan(&s.ID, &s.PhoneNumber, &s.SubmittedAt); err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}
