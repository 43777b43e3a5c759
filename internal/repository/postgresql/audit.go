package postgresql

import (
	"context"
	"fmt"

	"github.com/parishworks/chms-backend-go/internal/domain/audit"
	"github.com/parishworks/chms-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepository{db: db}
}

const auditColumns = `
	id, reference_type, reference_id, action, actor, occurred_at,
	reason, amount, previous_status, new_status
`

func (r *auditRepository) Create(ctx context.Context, entry audit.Entry) (audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO finance_approval_audit (
			reference_type, reference_id, action, actor, occurred_at,
			reason, amount, previous_status, new_status
		) VALUES ($1, $2, $3, $4, NOW(), $5, $6, $7, $8)
		RETURNING ` + auditColumns

	var created audit.Entry
	err := q.QueryRow(ctx, query,
		entry.ReferenceType, entry.ReferenceID, entry.Action, entry.Actor,
		entry.Reason, entry.Amount, entry.PreviousStatus, entry.NewStatus,
	).Scan(
		&created.ID, &created.ReferenceType, &created.ReferenceID, &created.Action,
		&created.Actor, &created.OccurredAt, &created.Reason, &created.Amount,
		&created.PreviousStatus, &created.NewStatus,
	)
	if err != nil {
		return audit.Entry{}, fmt.Errorf("failed to create audit entry: %w", err)
	}

	return created, nil
}

func (r *auditRepository) ListByReference(ctx context.Context, refType audit.ReferenceType, refID string) ([]audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + auditColumns + `
		FROM finance_approval_audit
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY occurred_at, id
	`

	rows, err := q.Query(ctx, query, refType, refID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(
			&e.ID, &e.ReferenceType, &e.ReferenceID, &e.Action,
			&e.Actor, &e.OccurredAt, &e.Reason, &e.Amount,
			&e.PreviousStatus, &e.NewStatus,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}
