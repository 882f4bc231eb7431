package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/estradax/learnway/internal/model"
	"github.com/estradax/learnway/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `
	id, student_id, tutor_id,
	student_name, student_email, student_phone, subject, duration_minutes,
	preferred_slot, message, negotiate, proposed_price_cents, price_reason,
	status, fixed_date, is_paid, payment_date,
	student_completed, tutor_completed, completion_summary, is_completed, completed_at,
	created_at, updated_at`

type RequestRepository struct {
	*base.Repository
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{Repository: base.NewRepository(pool)}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*model.EngagementRequest, error) {
	var req model.EngagementRequest
	err := row.Scan(
		&req.ID,
		&req.StudentID,
		&req.TutorID,
		&req.StudentName,
		&req.StudentEmail,
		&req.StudentPhone,
		&req.Subject,
		&req.DurationMinutes,
		&req.PreferredSlot,
		&req.Message,
		&req.Negotiate,
		&req.ProposedPriceCents,
		&req.PriceReason,
		&req.Status,
		&req.FixedDate,
		&req.IsPaid,
		&req.PaymentDate,
		&req.StudentCompleted,
		&req.TutorCompleted,
		&req.CompletionSummary,
		&req.IsCompleted,
		&req.CompletedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create persists a new engagement request with its creation-time snapshot.
// Lifecycle fields start at their zero values.
func (r *RequestRepository) Create(ctx context.Context, req *model.EngagementRequest) error {
	query := `
		INSERT INTO engagement_requests (
			student_id, tutor_id,
			student_name, student_email, student_phone, subject, duration_minutes,
			preferred_slot, message, negotiate, proposed_price_cents, price_reason,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		req.StudentID,
		req.TutorID,
		req.StudentName,
		req.StudentEmail,
		req.StudentPhone,
		req.Subject,
		req.DurationMinutes,
		req.PreferredSlot,
		req.Message,
		req.Negotiate,
		req.ProposedPriceCents,
		req.PriceReason,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create engagement request: %w", err)
	}

	return nil
}

// GetByID fetches a request by id.
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*model.EngagementRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM engagement_requests WHERE id = $1`

	req, err := scanRequest(r.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get engagement request by id: %w", err)
	}

	return req, nil
}

// ListByParticipant returns all requests where the user is either party,
// newest first.
func (r *RequestRepository) ListByParticipant(ctx context.Context, userID int64) ([]*model.EngagementRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM engagement_requests
		WHERE student_id = $1 OR tutor_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list requests by participant: %w", err)
	}
	defer rows.Close()

	var requests []*model.EngagementRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan engagement request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}

	return requests, nil
}

// Transition runs one read-modify-write cycle against a single request under
// a row lock. The row is re-read FOR UPDATE inside the transaction, apply
// mutates the in-memory copy, and all lifecycle fields are written back
// atomically. Any error from apply rolls the transaction back and leaves the
// row untouched. Returns pgx.ErrNoRows if the id does not exist.
func (r *RequestRepository) Transition(ctx context.Context, id int64, apply func(*model.EngagementRequest) error) (*model.EngagementRequest, error) {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + requestColumns + ` FROM engagement_requests WHERE id = $1 FOR UPDATE`

	req, err := scanRequest(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock engagement request: %w", err)
	}

	if err := apply(req); err != nil {
		return nil, err
	}

	update := `
		UPDATE engagement_requests
		SET status = $1,
			fixed_date = $2,
			is_paid = $3,
			payment_date = $4,
			student_completed = $5,
			tutor_completed = $6,
			completion_summary = $7,
			is_completed = $8,
			completed_at = $9,
			updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`

	err = tx.QueryRow(
		ctx, update,
		req.Status,
		req.FixedDate,
		req.IsPaid,
		req.PaymentDate,
		req.StudentCompleted,
		req.TutorCompleted,
		req.CompletionSummary,
		req.IsCompleted,
		req.CompletedAt,
		req.ID,
	).Scan(&req.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("update engagement request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return req, nil
}

// CountPendingOlderThan groups stale pending requests by tutor, for the
// reminder sweeper.
func (r *RequestRepository) CountPendingOlderThan(ctx context.Context, cutoff time.Time) ([]model.PendingBacklog, error) {
	query := `
		SELECT tutor_id, COUNT(*)
		FROM engagement_requests
		WHERE status = $1 AND created_at < $2
		GROUP BY tutor_id
		ORDER BY tutor_id
	`

	rows, err := r.Query(ctx, query, model.RequestStatusPending, cutoff)
	if err != nil {
		return nil, fmt.Errorf("count stale pending requests: %w", err)
	}
	defer rows.Close()

	var backlog []model.PendingBacklog
	for rows.Next() {
		var b model.PendingBacklog
		if err := rows.Scan(&b.TutorID, &b.Count); err != nil {
			return nil, fmt.Errorf("scan pending backlog: %w", err)
		}
		backlog = append(backlog, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending backlog: %w", err)
	}

	return backlog, nil
}
