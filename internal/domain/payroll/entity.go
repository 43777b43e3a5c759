package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordStatus enum
type RecordStatus string

const (
	RecordStatusPendingApproval RecordStatus = "pending_approval"
	RecordStatusApproved        RecordStatus = "approved"
	RecordStatusRejected        RecordStatus = "rejected"
	RecordStatusPaid            RecordStatus = "paid"
)

// IsTerminal reports whether no further transition is permitted from s.
func (s RecordStatus) IsTerminal() bool {
	return s == RecordStatusRejected || s == RecordStatusPaid
}

// RecordAction enum - the finance actions a record can receive
type RecordAction string

const (
	ActionApprove RecordAction = "approve"
	ActionReject  RecordAction = "reject"
	ActionPay     RecordAction = "pay"
)

// CanTransition reports whether applying action to a record in status from
// is legal, and the resulting status when it is.
//
//	pending_approval  -> approved | rejected
//	approved          -> paid | rejected (reversal before payment)
//	rejected, paid    -> terminal
func CanTransition(from RecordStatus, action RecordAction) (RecordStatus, bool) {
	switch from {
	case RecordStatusPendingApproval:
		switch action {
		case ActionApprove:
			return RecordStatusApproved, true
		case ActionReject:
			return RecordStatusRejected, true
		}
	case RecordStatusApproved:
		switch action {
		case ActionPay:
			return RecordStatusPaid, true
		case ActionReject:
			return RecordStatusRejected, true
		}
	}
	return from, false
}

// BatchStatus enum - always derived from member record statuses, never set
// directly by a caller.
type BatchStatus string

const (
	BatchStatusPendingApproval   BatchStatus = "pending_approval"
	BatchStatusPartiallyApproved BatchStatus = "partially_approved"
	BatchStatusFullyApproved     BatchStatus = "fully_approved"
	BatchStatusRejected          BatchStatus = "rejected"
	BatchStatusPaid              BatchStatus = "paid"
)

// BatchCounts holds the per-status member counts of a batch.
type BatchCounts struct {
	TotalEmployees int
	ApprovedCount  int
	RejectedCount  int
	PaidCount      int
}

// DeriveBatchStatus computes a batch's status from its member counts.
// The rules are ordered and the first match wins: a batch with some paid
// and some approved members is partially_approved, not paid, and a batch
// only becomes rejected once every member is rejected.
func DeriveBatchStatus(c BatchCounts) BatchStatus {
	switch {
	case c.TotalEmployees > 0 && c.PaidCount == c.TotalEmployees:
		return BatchStatusPaid
	case c.TotalEmployees > 0 && c.ApprovedCount == c.TotalEmployees:
		return BatchStatusFullyApproved
	case c.ApprovedCount+c.PaidCount > 0:
		return BatchStatusPartiallyApproved
	case c.TotalEmployees > 0 && c.RejectedCount == c.TotalEmployees:
		return BatchStatusRejected
	default:
		return BatchStatusPendingApproval
	}
}

// PayrollRecord - one employee line item inside a batch. Records are never
// physically deleted; rejected and paid rows remain for audit.
type PayrollRecord struct {
	ID         string
	BatchID    string
	EmployeeID string

	PeriodStart time.Time
	PeriodEnd   time.Time

	BasicSalary         decimal.Decimal
	Allowances          decimal.Decimal
	GrossAmount         decimal.Decimal
	TaxAmount           decimal.Decimal
	StatutoryDeductions decimal.Decimal
	OtherDeductions     decimal.Decimal
	TotalDeductions     decimal.Decimal
	NetAmount           decimal.Decimal

	Status          RecordStatus
	RejectionReason *string

	ProcessedAt time.Time
	ApprovedAt  *time.Time
	ApprovedBy  *string
	RejectedAt  *time.Time
	RejectedBy  *string
	PaidAt      *time.Time
	PaidBy      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollBatch - owns a non-empty set of records for one pay period.
// Counts, totals and status are maintained by the approval engine inside
// the same transaction as every member status change.
type PayrollBatch struct {
	ID          string
	PeriodStart time.Time
	PeriodEnd   time.Time

	TotalEmployees   int
	TotalGrossAmount decimal.Decimal
	TotalNetAmount   decimal.Decimal

	Status        BatchStatus
	ApprovedCount int
	RejectedCount int
	PaidCount     int

	CreatedBy  string
	ApprovedBy *string
	ApprovedAt *time.Time
	RejectedBy *string
	RejectedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Counts returns the batch's member counts as a BatchCounts value.
func (b PayrollBatch) Counts() BatchCounts {
	return BatchCounts{
		TotalEmployees: b.TotalEmployees,
		ApprovedCount:  b.ApprovedCount,
		RejectedCount:  b.RejectedCount,
		PaidCount:      b.PaidCount,
	}
}

// RejectionType enum
type RejectionType string

const (
	RejectionTypeIndividual RejectionType = "individual"
	RejectionTypeBatch      RejectionType = "batch"
)

// PaymentRejection - why and when a record was rejected, and whether HR has
// acted on it. A re-rejection after resolution creates a new row; only the
// notification/resolution flags are ever mutated.
type PaymentRejection struct {
	ID              string
	PayrollRecordID string
	BatchID         string
	Type            RejectionType
	Reason          string
	AmountRejected  decimal.Decimal
	RejectedBy      string
	RejectedAt      time.Time

	HRNotified bool
	Resolved   bool
	ResolvedBy *string
	ResolvedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
