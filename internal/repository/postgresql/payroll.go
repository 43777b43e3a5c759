package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/parishworks/chms-backend-go/internal/domain/payroll"
	"github.com/parishworks/chms-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const batchColumns = `
	id, period_start, period_end, total_employees, total_gross_amount,
	total_net_amount, status, approved_count, rejected_count, paid_count,
	created_by, approved_by, approved_at, rejected_by, rejected_at,
	created_at, updated_at
`

const recordColumns = `
	id, batch_id, employee_id, period_start, period_end,
	basic_salary, allowances, gross_amount,
	tax_amount, statutory_deductions, other_deductions, total_deductions,
	net_amount, status, rejection_reason,
	processed_at, approved_at, approved_by, rejected_at, rejected_by,
	paid_at, paid_by, created_at, updated_at
`

func scanBatch(row pgx.Row) (payroll.PayrollBatch, error) {
	var b payroll.PayrollBatch
	err := row.Scan(
		&b.ID, &b.PeriodStart, &b.PeriodEnd, &b.TotalEmployees, &b.TotalGrossAmount,
		&b.TotalNetAmount, &b.Status, &b.ApprovedCount, &b.RejectedCount, &b.PaidCount,
		&b.CreatedBy, &b.ApprovedBy, &b.ApprovedAt, &b.RejectedBy, &b.RejectedAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func scanRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.BatchID, &rec.EmployeeID, &rec.PeriodStart, &rec.PeriodEnd,
		&rec.BasicSalary, &rec.Allowances, &rec.GrossAmount,
		&rec.TaxAmount, &rec.StatutoryDeductions, &rec.OtherDeductions, &rec.TotalDeductions,
		&rec.NetAmount, &rec.Status, &rec.RejectionReason,
		&rec.ProcessedAt, &rec.ApprovedAt, &rec.ApprovedBy, &rec.RejectedAt, &rec.RejectedBy,
		&rec.PaidAt, &rec.PaidBy, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// ========== BATCHES ==========

func (r *payrollRepository) CreateBatch(ctx context.Context, batch payroll.PayrollBatch) (payroll.PayrollBatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_batches (
			period_start, period_end, total_employees,
			total_gross_amount, total_net_amount, status, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + batchColumns

	created, err := scanBatch(q.QueryRow(ctx, query,
		batch.PeriodStart, batch.PeriodEnd, batch.TotalEmployees,
		batch.TotalGrossAmount, batch.TotalNetAmount, batch.Status, batch.CreatedBy,
	))
	if err != nil {
		return payroll.PayrollBatch{}, fmt.Errorf("failed to create payroll batch: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetBatchByID(ctx context.Context, id string) (payroll.PayrollBatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + batchColumns + ` FROM payroll_batches WHERE id = $1`

	b, err := scanBatch(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollBatch{}, payroll.ErrBatchNotFound
		}
		return payroll.PayrollBatch{}, fmt.Errorf("failed to get payroll batch: %w", err)
	}

	return b, nil
}

// LockBatch acquires a row lock on the batch for the duration of the
// surrounding transaction. Every record transition goes through this lock,
// so concurrent transitions against the same batch serialize and the
// aggregate recompute always reads the latest committed member statuses.
func (r *payrollRepository) LockBatch(ctx context.Context, id string) (payroll.PayrollBatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + batchColumns + ` FROM payroll_batches WHERE id = $1 FOR UPDATE`

	b, err := scanBatch(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollBatch{}, payroll.ErrBatchNotFound
		}
		return payroll.PayrollBatch{}, fmt.Errorf("failed to lock payroll batch: %w", err)
	}

	return b, nil
}

func (r *payrollRepository) ListBatches(ctx context.Context, filter payroll.BatchFilter) ([]payroll.PayrollBatch, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := ` FROM payroll_batches WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PeriodStart != nil {
		baseQuery += fmt.Sprintf(" AND period_start >= $%d", argIdx)
		args = append(args, *filter.PeriodStart)
		argIdx++
	}
	if filter.PeriodEnd != nil {
		baseQuery += fmt.Sprintf(" AND period_end <= $%d", argIdx)
		args = append(args, *filter.PeriodEnd)
		argIdx++
	}

	// Count query
	var totalCount int64
	countQuery := "SELECT COUNT(*)" + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll batches: %w", err)
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(
		"SELECT "+batchColumns+baseQuery+" ORDER BY period_start DESC, created_at DESC LIMIT $%d OFFSET $%d",
		argIdx, argIdx+1,
	)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll batches: %w", err)
	}
	defer rows.Close()

	var batches []payroll.PayrollBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll batch: %w", err)
		}
		batches = append(batches, b)
	}

	return batches, totalCount, nil
}

func (r *payrollRepository) UpdateBatchAggregate(ctx context.Context, batch payroll.PayrollBatch) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_batches
		SET status = $2, approved_count = $3, rejected_count = $4, paid_count = $5,
			approved_by = $6, approved_at = $7, rejected_by = $8, rejected_at = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		batch.ID, batch.Status, batch.ApprovedCount, batch.RejectedCount, batch.PaidCount,
		batch.ApprovedBy, batch.ApprovedAt, batch.RejectedBy, batch.RejectedAt,
	).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrBatchNotFound
		}
		return fmt.Errorf("failed to update payroll batch aggregate: %w", err)
	}

	return nil
}

// ========== RECORDS ==========

func (r *payrollRepository) CreateRecords(ctx context.Context, records []payroll.PayrollRecord) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			batch_id, employee_id, period_start, period_end,
			basic_salary, allowances, gross_amount,
			tax_amount, statutory_deductions, other_deductions, total_deductions,
			net_amount, status, processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + recordColumns

	created := make([]payroll.PayrollRecord, 0, len(records))
	for _, rec := range records {
		row, err := scanRecord(q.QueryRow(ctx, query,
			rec.BatchID, rec.EmployeeID, rec.PeriodStart, rec.PeriodEnd,
			rec.BasicSalary, rec.Allowances, rec.GrossAmount,
			rec.TaxAmount, rec.StatutoryDeductions, rec.OtherDeductions, rec.TotalDeductions,
			rec.NetAmount, rec.Status, rec.ProcessedAt,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to create payroll record for employee %s: %w", rec.EmployeeID, err)
		}
		created = append(created, row)
	}

	return created, nil
}

func (r *payrollRepository) GetRecordByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + ` FROM payroll_records WHERE id = $1`

	rec, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetRecordsByBatchID(ctx context.Context, batchID string) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + ` FROM payroll_records WHERE batch_id = $1 ORDER BY created_at, id`

	rows, err := q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// SetRecordStatus persists a transition guarded by the expected previous
// status. The guard means a writer that lost the race updates zero rows and
// reports ErrInvalidTransition instead of overwriting a terminal status.
func (r *payrollRepository) SetRecordStatus(ctx context.Context, recordID string, from, to payroll.RecordStatus, actor string, reason *string) error {
	q := GetQuerier(ctx, r.db)

	var query string
	switch to {
	case payroll.RecordStatusApproved:
		query = `
			UPDATE payroll_records
			SET status = $3, approved_by = $4, approved_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING id
		`
	case payroll.RecordStatusRejected:
		query = `
			UPDATE payroll_records
			SET status = $3, rejected_by = $4, rejected_at = NOW(), rejection_reason = $5, updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING id
		`
	case payroll.RecordStatusPaid:
		query = `
			UPDATE payroll_records
			SET status = $3, paid_by = $4, paid_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING id
		`
	default:
		return payroll.ErrInvalidTransition
	}

	args := []interface{}{recordID, from, to, actor}
	if to == payroll.RecordStatusRejected {
		args = append(args, reason)
	}

	var updatedID string
	err := q.QueryRow(ctx, query, args...).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Distinguish a missing record from a lost race on status.
			var current payroll.RecordStatus
			checkErr := q.QueryRow(ctx, `SELECT status FROM payroll_records WHERE id = $1`, recordID).Scan(&current)
			if checkErr == pgx.ErrNoRows {
				return payroll.ErrRecordNotFound
			}
			if checkErr != nil {
				return fmt.Errorf("failed to check payroll record status: %w", checkErr)
			}
			return payroll.ErrInvalidTransition
		}
		return fmt.Errorf("failed to set payroll record status: %w", err)
	}

	return nil
}

func (r *payrollRepository) CountRecordStatuses(ctx context.Context, batchID string) (payroll.BatchCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total_employees,
			COUNT(*) FILTER (WHERE status = 'approved') as approved_count,
			COUNT(*) FILTER (WHERE status = 'rejected') as rejected_count,
			COUNT(*) FILTER (WHERE status = 'paid') as paid_count
		FROM payroll_records
		WHERE batch_id = $1
	`

	var c payroll.BatchCounts
	err := q.QueryRow(ctx, query, batchID).Scan(
		&c.TotalEmployees, &c.ApprovedCount, &c.RejectedCount, &c.PaidCount,
	)
	if err != nil {
		return payroll.BatchCounts{}, fmt.Errorf("failed to count payroll record statuses: %w", err)
	}

	return c, nil
}
