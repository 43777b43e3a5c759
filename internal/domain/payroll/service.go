package payroll

import "context"

// ApprovalService is the only entry point external callers use for the
// payroll approval workflow. Every mutating call executes as one atomic
// transaction covering the record transition, the rejection row, the audit
// entry and the batch aggregate recompute.
type ApprovalService interface {
	CreateBatch(ctx context.Context, actor string, req CreateBatchRequest) (CreateBatchResponse, error)

	ApproveRecord(ctx context.Context, recordID, actor string) (TransitionResponse, error)
	RejectRecord(ctx context.Context, recordID, actor, reason string) (TransitionResponse, error)
	MarkRecordPaid(ctx context.Context, recordID, actor string) (TransitionResponse, error)

	ApproveBatch(ctx context.Context, batchID, actor string) (BatchActionResponse, error)
	RejectBatch(ctx context.Context, batchID, actor, reason string) (BatchActionResponse, error)

	GetBatchStatus(ctx context.Context, batchID string) (BatchStatusResponse, error)
	GetBatchRecords(ctx context.Context, batchID string) ([]RecordResponse, error)
	ListBatches(ctx context.Context, filter BatchFilter) (ListBatchesResponse, error)

	ListOpenRejections(ctx context.Context) ([]RejectionResponse, error)
	MarkRejectionNotified(ctx context.Context, rejectionID string) error
	ResolveRejection(ctx context.Context, rejectionID, actor string) (RejectionResponse, error)
}
