package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/parishworks/chms-backend-go/internal/domain/payroll"
	"github.com/parishworks/chms-backend-go/internal/pkg/database"
)

type rejectionRepository struct {
	db *database.DB
}

func NewRejectionRepository(db *database.DB) payroll.RejectionRepository {
	return &rejectionRepository{db: db}
}

const rejectionColumns = `
	id, payroll_record_id, batch_id, rejection_type, reason, amount_rejected,
	rejected_by, rejected_at, hr_notified, resolved, resolved_by, resolved_at,
	created_at, updated_at
`

func scanRejection(row pgx.Row) (payroll.PaymentRejection, error) {
	var rj payroll.PaymentRejection
	err := row.Scan(
		&rj.ID, &rj.PayrollRecordID, &rj.BatchID, &rj.Type, &rj.Reason, &rj.AmountRejected,
		&rj.RejectedBy, &rj.RejectedAt, &rj.HRNotified, &rj.Resolved, &rj.ResolvedBy, &rj.ResolvedAt,
		&rj.CreatedAt, &rj.UpdatedAt,
	)
	return rj, err
}

func (r *rejectionRepository) Create(ctx context.Context, rejection payroll.PaymentRejection) (payroll.PaymentRejection, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payment_rejections (
			payroll_record_id, batch_id, rejection_type, reason,
			amount_rejected, rejected_by, rejected_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING ` + rejectionColumns

	created, err := scanRejection(q.QueryRow(ctx, query,
		rejection.PayrollRecordID, rejection.BatchID, rejection.Type, rejection.Reason,
		rejection.AmountRejected, rejection.RejectedBy,
	))
	if err != nil {
		return payroll.PaymentRejection{}, fmt.Errorf("failed to create payment rejection: %w", err)
	}

	return created, nil
}

func (r *rejectionRepository) GetByID(ctx context.Context, id string) (payroll.PaymentRejection, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rejectionColumns + ` FROM payment_rejections WHERE id = $1`

	rj, err := scanRejection(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PaymentRejection{}, payroll.ErrRejectionNotFound
		}
		return payroll.PaymentRejection{}, fmt.Errorf("failed to get payment rejection: %w", err)
	}

	return rj, nil
}

func (r *rejectionRepository) ListOpen(ctx context.Context) ([]payroll.PaymentRejection, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rejectionColumns + ` FROM payment_rejections WHERE resolved = false ORDER BY rejected_at`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open payment rejections: %w", err)
	}
	defer rows.Close()

	var rejections []payroll.PaymentRejection
	for rows.Next() {
		rj, err := scanRejection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment rejection: %w", err)
		}
		rejections = append(rejections, rj)
	}

	return rejections, nil
}

// MarkNotified is idempotent: flagging an already-notified rejection is a
// no-op, not an error.
func (r *rejectionRepository) MarkNotified(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payment_rejections
		SET hr_notified = true, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrRejectionNotFound
		}
		return fmt.Errorf("failed to mark payment rejection notified: %w", err)
	}

	return nil
}

// Resolve flips the resolution flag exactly once. The guard on resolved =
// false means the second of two racing resolvers updates zero rows; it then
// gets ErrRejectionAlreadyResolved together with the winning row so the
// caller can report who resolved it and when.
func (r *rejectionRepository) Resolve(ctx context.Context, id string, actor string) (payroll.PaymentRejection, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payment_rejections
		SET resolved = true, resolved_by = $2, resolved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND resolved = false
		RETURNING ` + rejectionColumns

	resolved, err := scanRejection(q.QueryRow(ctx, query, id, actor))
	if err != nil {
		if err == pgx.ErrNoRows {
			existing, getErr := r.GetByID(ctx, id)
			if getErr != nil {
				return payroll.PaymentRejection{}, getErr
			}
			return existing, payroll.ErrRejectionAlreadyResolved
		}
		return payroll.PaymentRejection{}, fmt.Errorf("failed to resolve payment rejection: %w", err)
	}

	return resolved, nil
}
