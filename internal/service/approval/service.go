package approval

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/parishworks/chms-backend-go/internal/domain/audit"
	"github.com/parishworks/chms-backend-go/internal/domain/payroll"
	"github.com/parishworks/chms-backend-go/internal/pkg/database"
	"github.com/parishworks/chms-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

// ApprovalServiceImpl orchestrates the payroll record store, rejection
// tracker, audit log and batch aggregation as one atomic unit per call.
// The batch row lock taken at the start of every mutating transaction is
// what makes the aggregate recompute safe under concurrent officers.
type ApprovalServiceImpl struct {
	db            *database.DB
	payrollRepo   payroll.PayrollRepository
	rejectionRepo payroll.RejectionRepository
	auditRepo     audit.Repository
}

func NewApprovalService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	rejectionRepo payroll.RejectionRepository,
	auditRepo audit.Repository,
) payroll.ApprovalService {
	return &ApprovalServiceImpl{
		db:            db,
		payrollRepo:   payrollRepo,
		rejectionRepo: rejectionRepo,
		auditRepo:     auditRepo,
	}
}

// ========== BATCH CREATION ==========

func (s *ApprovalServiceImpl) CreateBatch(ctx context.Context, actor string, req payroll.CreateBatchRequest) (payroll.CreateBatchResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CreateBatchResponse{}, err
	}
	if len(req.LineItems) == 0 {
		return payroll.CreateBatchResponse{}, payroll.ErrEmptyBatch
	}

	periodStart, _ := time.Parse("2006-01-02", req.PeriodStart)
	periodEnd, _ := time.Parse("2006-01-02", req.PeriodEnd)

	totalGross := decimal.Zero
	totalNet := decimal.Zero
	for _, item := range req.LineItems {
		totalGross = totalGross.Add(item.GrossAmount)
		totalNet = totalNet.Add(item.NetAmount)
	}

	var resp payroll.CreateBatchResponse
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		batch, err := s.payrollRepo.CreateBatch(txCtx, payroll.PayrollBatch{
			PeriodStart:      periodStart,
			PeriodEnd:        periodEnd,
			TotalEmployees:   len(req.LineItems),
			TotalGrossAmount: totalGross,
			TotalNetAmount:   totalNet,
			Status:           payroll.BatchStatusPendingApproval,
			CreatedBy:        actor,
		})
		if err != nil {
			return err
		}

		now := time.Now()
		records := make([]payroll.PayrollRecord, 0, len(req.LineItems))
		for _, item := range req.LineItems {
			records = append(records, payroll.PayrollRecord{
				BatchID:             batch.ID,
				EmployeeID:          item.EmployeeID,
				PeriodStart:         periodStart,
				PeriodEnd:           periodEnd,
				BasicSalary:         item.BasicSalary,
				Allowances:          item.Allowances,
				GrossAmount:         item.GrossAmount,
				TaxAmount:           item.TaxAmount,
				StatutoryDeductions: item.StatutoryDeductions,
				OtherDeductions:     item.OtherDeductions,
				TotalDeductions:     item.TotalDeductions,
				NetAmount:           item.NetAmount,
				Status:              payroll.RecordStatusPendingApproval,
				ProcessedAt:         now,
			})
		}

		created, err := s.payrollRepo.CreateRecords(txCtx, records)
		if err != nil {
			return err
		}

		resp.BatchID = batch.ID
		resp.RecordIDs = make([]string, 0, len(created))
		for _, rec := range created {
			resp.RecordIDs = append(resp.RecordIDs, rec.ID)
		}
		return nil
	})
	if err != nil {
		return payroll.CreateBatchResponse{}, err
	}

	return resp, nil
}

// ========== SINGLE-RECORD TRANSITIONS ==========

func (s *ApprovalServiceImpl) ApproveRecord(ctx context.Context, recordID, actor string) (payroll.TransitionResponse, error) {
	return s.transitionRecord(ctx, recordID, actor, payroll.ActionApprove, nil)
}

func (s *ApprovalServiceImpl) RejectRecord(ctx context.Context, recordID, actor, reason string) (payroll.TransitionResponse, error) {
	req := payroll.RejectRequest{Reason: reason}
	if err := req.Validate(); err != nil {
		return payroll.TransitionResponse{}, err
	}
	return s.transitionRecord(ctx, recordID, actor, payroll.ActionReject, &reason)
}

func (s *ApprovalServiceImpl) MarkRecordPaid(ctx context.Context, recordID, actor string) (payroll.TransitionResponse, error) {
	return s.transitionRecord(ctx, recordID, actor, payroll.ActionPay, nil)
}

// transitionRecord runs one record transition end to end: lock the owning
// batch, re-read the record under the lock, validate and persist the
// transition, insert the rejection row when rejecting, append the audit
// entry, and recompute the batch aggregate. One transaction for all steps.
func (s *ApprovalServiceImpl) transitionRecord(ctx context.Context, recordID, actor string, action payroll.RecordAction, reason *string) (payroll.TransitionResponse, error) {
	var resp payroll.TransitionResponse
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		// First read only resolves the owning batch; the authoritative
		// status comes from the re-read after the batch lock is held.
		rec, err := s.payrollRepo.GetRecordByID(txCtx, recordID)
		if err != nil {
			return err
		}

		batch, err := s.payrollRepo.LockBatch(txCtx, rec.BatchID)
		if err != nil {
			return err
		}

		rec, err = s.payrollRepo.GetRecordByID(txCtx, recordID)
		if err != nil {
			return err
		}

		newStatus, ok := payroll.CanTransition(rec.Status, action)
		if !ok {
			return payroll.ErrInvalidTransition
		}

		if err := s.payrollRepo.SetRecordStatus(txCtx, recordID, rec.Status, newStatus, actor, reason); err != nil {
			return err
		}

		resp = payroll.TransitionResponse{
			RecordID:       rec.ID,
			BatchID:        rec.BatchID,
			PreviousStatus: string(rec.Status),
			NewStatus:      string(newStatus),
		}

		if action == payroll.ActionReject {
			rejection, err := s.rejectionRepo.Create(txCtx, payroll.PaymentRejection{
				PayrollRecordID: rec.ID,
				BatchID:         rec.BatchID,
				Type:            payroll.RejectionTypeIndividual,
				Reason:          *reason,
				AmountRejected:  rec.NetAmount,
				RejectedBy:      actor,
			})
			if err != nil {
				return err
			}
			resp.RejectionID = &rejection.ID
		}

		if _, err := s.auditRepo.Create(txCtx, audit.Entry{
			ReferenceType:  audit.ReferenceTypeRecord,
			ReferenceID:    rec.ID,
			Action:         auditAction(action),
			Actor:          actor,
			Reason:         reason,
			Amount:         rec.NetAmount,
			PreviousStatus: string(rec.Status),
			NewStatus:      string(newStatus),
		}); err != nil {
			return err
		}

		return s.recomputeBatch(txCtx, batch)
	})
	if err != nil {
		return payroll.TransitionResponse{}, err
	}

	return resp, nil
}

// ========== BATCH-LEVEL TRANSITIONS ==========

func (s *ApprovalServiceImpl) ApproveBatch(ctx context.Context, batchID, actor string) (payroll.BatchActionResponse, error) {
	return s.transitionBatch(ctx, batchID, actor, payroll.ActionApprove, nil)
}

func (s *ApprovalServiceImpl) RejectBatch(ctx context.Context, batchID, actor, reason string) (payroll.BatchActionResponse, error) {
	req := payroll.RejectRequest{Reason: reason}
	if err := req.Validate(); err != nil {
		return payroll.BatchActionResponse{}, err
	}
	return s.transitionBatch(ctx, batchID, actor, payroll.ActionReject, &reason)
}

// transitionBatch applies the action to every pending member record as one
// all-or-nothing unit. Members already past pending (approved, rejected,
// paid) are skipped, not failed.
func (s *ApprovalServiceImpl) transitionBatch(ctx context.Context, batchID, actor string, action payroll.RecordAction, reason *string) (payroll.BatchActionResponse, error) {
	var resp payroll.BatchActionResponse
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		batch, err := s.payrollRepo.LockBatch(txCtx, batchID)
		if err != nil {
			return err
		}

		records, err := s.payrollRepo.GetRecordsByBatchID(txCtx, batchID)
		if err != nil {
			return err
		}

		previousBatchStatus := batch.Status
		affected, skipped := 0, 0
		for _, rec := range records {
			if rec.Status != payroll.RecordStatusPendingApproval {
				skipped++
				continue
			}

			newStatus, ok := payroll.CanTransition(rec.Status, action)
			if !ok {
				skipped++
				continue
			}

			if err := s.payrollRepo.SetRecordStatus(txCtx, rec.ID, rec.Status, newStatus, actor, reason); err != nil {
				return err
			}

			if action == payroll.ActionReject {
				if _, err := s.rejectionRepo.Create(txCtx, payroll.PaymentRejection{
					PayrollRecordID: rec.ID,
					BatchID:         batchID,
					Type:            payroll.RejectionTypeBatch,
					Reason:          *reason,
					AmountRejected:  rec.NetAmount,
					RejectedBy:      actor,
				}); err != nil {
					return err
				}
			}
			affected++
		}

		// Nothing transitioned means nothing to stamp, audit or recompute.
		updatedStatus := batch.Status
		if affected > 0 {
			now := time.Now()
			switch action {
			case payroll.ActionApprove:
				batch.ApprovedBy = &actor
				batch.ApprovedAt = &now
			case payroll.ActionReject:
				batch.RejectedBy = &actor
				batch.RejectedAt = &now
			}

			if err := s.recomputeBatch(txCtx, batch); err != nil {
				return err
			}

			updated, err := s.payrollRepo.GetBatchByID(txCtx, batchID)
			if err != nil {
				return err
			}
			updatedStatus = updated.Status

			if _, err := s.auditRepo.Create(txCtx, audit.Entry{
				ReferenceType:  audit.ReferenceTypeBatch,
				ReferenceID:    batchID,
				Action:         auditAction(action),
				Actor:          actor,
				Reason:         reason,
				Amount:         batch.TotalNetAmount,
				PreviousStatus: string(previousBatchStatus),
				NewStatus:      string(updatedStatus),
			}); err != nil {
				return err
			}
		}

		resp = payroll.BatchActionResponse{
			BatchID:       batchID,
			AffectedCount: affected,
			SkippedCount:  skipped,
			BatchStatus:   string(updatedStatus),
		}
		return nil
	})
	if err != nil {
		return payroll.BatchActionResponse{}, err
	}

	return resp, nil
}

// recomputeBatch re-derives the batch status and counts from the member
// records as they stand inside the current transaction, then persists them.
// Callers must hold the batch row lock.
func (s *ApprovalServiceImpl) recomputeBatch(ctx context.Context, batch payroll.PayrollBatch) error {
	counts, err := s.payrollRepo.CountRecordStatuses(ctx, batch.ID)
	if err != nil {
		return err
	}

	batch.ApprovedCount = counts.ApprovedCount
	batch.RejectedCount = counts.RejectedCount
	batch.PaidCount = counts.PaidCount
	batch.Status = payroll.DeriveBatchStatus(counts)

	return s.payrollRepo.UpdateBatchAggregate(ctx, batch)
}

func auditAction(action payroll.RecordAction) audit.Action {
	switch action {
	case payroll.ActionApprove:
		return audit.ActionApproved
	case payroll.ActionReject:
		return audit.ActionRejected
	default:
		return audit.ActionPaid
	}
}

// ========== READS ==========

func (s *ApprovalServiceImpl) GetBatchStatus(ctx context.Context, batchID string) (payroll.BatchStatusResponse, error) {
	batch, err := s.payrollRepo.GetBatchByID(ctx, batchID)
	if err != nil {
		return payroll.BatchStatusResponse{}, err
	}

	return mapToBatchStatusResponse(batch), nil
}

func (s *ApprovalServiceImpl) GetBatchRecords(ctx context.Context, batchID string) ([]payroll.RecordResponse, error) {
	if _, err := s.payrollRepo.GetBatchByID(ctx, batchID); err != nil {
		return nil, err
	}

	records, err := s.payrollRepo.GetRecordsByBatchID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.RecordResponse, 0, len(records))
	for _, rec := range records {
		result = append(result, payroll.RecordResponse{
			ID:              rec.ID,
			BatchID:         rec.BatchID,
			EmployeeID:      rec.EmployeeID,
			GrossAmount:     rec.GrossAmount,
			TotalDeductions: rec.TotalDeductions,
			NetAmount:       rec.NetAmount,
			Status:          string(rec.Status),
			RejectionReason: rec.RejectionReason,
			ApprovedAt:      rec.ApprovedAt,
			RejectedAt:      rec.RejectedAt,
			PaidAt:          rec.PaidAt,
		})
	}

	return result, nil
}

func (s *ApprovalServiceImpl) ListBatches(ctx context.Context, filter payroll.BatchFilter) (payroll.ListBatchesResponse, error) {
	batches, totalCount, err := s.payrollRepo.ListBatches(ctx, filter)
	if err != nil {
		return payroll.ListBatchesResponse{}, err
	}

	data := make([]payroll.BatchStatusResponse, 0, len(batches))
	for _, b := range batches {
		data = append(data, mapToBatchStatusResponse(b))
	}

	return payroll.ListBatchesResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ========== REJECTION TRACKING ==========

func (s *ApprovalServiceImpl) ListOpenRejections(ctx context.Context) ([]payroll.RejectionResponse, error) {
	rejections, err := s.rejectionRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.RejectionResponse, 0, len(rejections))
	for _, rj := range rejections {
		result = append(result, mapToRejectionResponse(rj))
	}

	return result, nil
}

func (s *ApprovalServiceImpl) MarkRejectionNotified(ctx context.Context, rejectionID string) error {
	return s.rejectionRepo.MarkNotified(ctx, rejectionID)
}

func (s *ApprovalServiceImpl) ResolveRejection(ctx context.Context, rejectionID, actor string) (payroll.RejectionResponse, error) {
	resolved, err := s.rejectionRepo.Resolve(ctx, rejectionID, actor)
	if err != nil {
		// Surface the existing resolution alongside the error so callers
		// can tell who won the race.
		if err == payroll.ErrRejectionAlreadyResolved {
			return mapToRejectionResponse(resolved), err
		}
		return payroll.RejectionResponse{}, err
	}

	return mapToRejectionResponse(resolved), nil
}

// ========== HELPERS ==========

func mapToBatchStatusResponse(b payroll.PayrollBatch) payroll.BatchStatusResponse {
	return payroll.BatchStatusResponse{
		BatchID:          b.ID,
		PeriodStart:      b.PeriodStart.Format("2006-01-02"),
		PeriodEnd:        b.PeriodEnd.Format("2006-01-02"),
		Status:           string(b.Status),
		TotalEmployees:   b.TotalEmployees,
		ApprovedCount:    b.ApprovedCount,
		RejectedCount:    b.RejectedCount,
		PaidCount:        b.PaidCount,
		TotalGrossAmount: b.TotalGrossAmount,
		TotalNetAmount:   b.TotalNetAmount,
	}
}

func mapToRejectionResponse(rj payroll.PaymentRejection) payroll.RejectionResponse {
	return payroll.RejectionResponse{
		ID:              rj.ID,
		PayrollRecordID: rj.PayrollRecordID,
		BatchID:         rj.BatchID,
		Type:            string(rj.Type),
		Reason:          rj.Reason,
		AmountRejected:  rj.AmountRejected,
		RejectedBy:      rj.RejectedBy,
		RejectedAt:      rj.RejectedAt,
		HRNotified:      rj.HRNotified,
		Resolved:        rj.Resolved,
		ResolvedBy:      rj.ResolvedBy,
		ResolvedAt:      rj.ResolvedAt,
	}
}
