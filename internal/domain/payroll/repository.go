package payroll

import "context"

// PayrollRepository defines data access for batches and their member records.
// Mutating methods run against the transaction carried in ctx when the
// approval engine opened one; reads outside the engine use the pool.
type PayrollRepository interface {
	// Batches
	CreateBatch(ctx context.Context, batch PayrollBatch) (PayrollBatch, error)
	GetBatchByID(ctx context.Context, id string) (PayrollBatch, error)
	// LockBatch loads the batch row FOR UPDATE so the caller's transaction
	// serializes with every other transition targeting the same batch.
	LockBatch(ctx context.Context, id string) (PayrollBatch, error)
	ListBatches(ctx context.Context, filter BatchFilter) ([]PayrollBatch, int64, error)
	UpdateBatchAggregate(ctx context.Context, batch PayrollBatch) error

	// Records
	CreateRecords(ctx context.Context, records []PayrollRecord) ([]PayrollRecord, error)
	GetRecordByID(ctx context.Context, id string) (PayrollRecord, error)
	GetRecordsByBatchID(ctx context.Context, batchID string) ([]PayrollRecord, error)
	// SetRecordStatus persists the transition plus the matching actor and
	// timestamp column, guarded by the expected previous status so a
	// concurrent writer that committed first makes this call fail with
	// ErrInvalidTransition instead of clobbering a terminal row.
	SetRecordStatus(ctx context.Context, recordID string, from, to RecordStatus, actor string, reason *string) error
	CountRecordStatuses(ctx context.Context, batchID string) (BatchCounts, error)
}

// RejectionRepository tracks PaymentRejection rows.
type RejectionRepository interface {
	Create(ctx context.Context, rejection PaymentRejection) (PaymentRejection, error)
	GetByID(ctx context.Context, id string) (PaymentRejection, error)
	ListOpen(ctx context.Context) ([]PaymentRejection, error)
	MarkNotified(ctx context.Context, id string) error
	// Resolve flips the resolution flag exactly once. A second call fails
	// with ErrRejectionAlreadyResolved and returns the existing row so the
	// caller can see who resolved it first.
	Resolve(ctx context.Context, id string, actor string) (PaymentRejection, error)
}
