package payroll

import (
	"time"

	"github.com/parishworks/chms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== BATCH CREATION DTOs ==========

// LineItem carries one employee's already-computed pay components. Gross and
// net are recomputed and checked server-side, never trusted from the caller.
type LineItem struct {
	EmployeeID          string          `json:"employee_id"`
	BasicSalary         decimal.Decimal `json:"basic_salary"`
	Allowances          decimal.Decimal `json:"allowances"`
	GrossAmount         decimal.Decimal `json:"gross_amount"`
	TaxAmount           decimal.Decimal `json:"tax_amount"`
	StatutoryDeductions decimal.Decimal `json:"statutory_deductions"`
	OtherDeductions     decimal.Decimal `json:"other_deductions"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	NetAmount           decimal.Decimal `json:"net_amount"`
}

type CreateBatchRequest struct {
	PeriodStart string     `json:"period_start"` // "2006-01-02"
	PeriodEnd   string     `json:"period_end"`
	LineItems   []LineItem `json:"line_items"`
}

func (r *CreateBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.PeriodStart); !ok {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if _, ok := validator.IsValidDate(r.PeriodEnd); !ok {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if start, ok := validator.IsValidDate(r.PeriodStart); ok {
		if end, ok := validator.IsValidDate(r.PeriodEnd); ok && end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
		}
	}
	if len(r.LineItems) == 0 {
		errs = append(errs, validator.ValidationError{Field: "line_items", Message: "at least one line item is required"})
	}
	for i, item := range r.LineItems {
		for _, fieldErr := range item.validate() {
			fieldErr.Field = "line_items[" + validator.Itoa(i) + "]." + fieldErr.Field
			errs = append(errs, fieldErr)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validate checks the arithmetic invariant for a single line item:
// gross = basic + allowances, net = gross - total_deductions, and the
// deduction components must sum to total_deductions with nothing negative.
func (li LineItem) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(li.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	for _, amount := range []struct {
		field string
		value decimal.Decimal
	}{
		{"basic_salary", li.BasicSalary},
		{"allowances", li.Allowances},
		{"gross_amount", li.GrossAmount},
		{"tax_amount", li.TaxAmount},
		{"statutory_deductions", li.StatutoryDeductions},
		{"other_deductions", li.OtherDeductions},
		{"total_deductions", li.TotalDeductions},
	} {
		if amount.value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: amount.field, Message: "must be non-negative"})
		}
	}

	if !li.GrossAmount.Equal(li.BasicSalary.Add(li.Allowances)) {
		errs = append(errs, validator.ValidationError{Field: "gross_amount", Message: "must equal basic_salary + allowances"})
	}
	if !li.TotalDeductions.Equal(li.TaxAmount.Add(li.StatutoryDeductions).Add(li.OtherDeductions)) {
		errs = append(errs, validator.ValidationError{Field: "total_deductions", Message: "must equal tax_amount + statutory_deductions + other_deductions"})
	}
	if !li.NetAmount.Equal(li.GrossAmount.Sub(li.TotalDeductions)) {
		errs = append(errs, validator.ValidationError{Field: "net_amount", Message: "must equal gross_amount - total_deductions"})
	}

	return errs
}

type CreateBatchResponse struct {
	BatchID   string   `json:"batch_id"`
	RecordIDs []string `json:"record_ids"`
}

// ========== APPROVAL DTOs ==========

type TransitionResponse struct {
	RecordID       string  `json:"record_id"`
	BatchID        string  `json:"batch_id"`
	PreviousStatus string  `json:"previous_status"`
	NewStatus      string  `json:"new_status"`
	RejectionID    *string `json:"rejection_id,omitempty"`
}

type BatchActionResponse struct {
	BatchID       string `json:"batch_id"`
	AffectedCount int    `json:"affected_count"`
	SkippedCount  int    `json:"skipped_count"`
	BatchStatus   string `json:"batch_status"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return ErrRejectionReasonRequired
	}
	return nil
}

// ========== READ DTOs ==========

type BatchStatusResponse struct {
	BatchID          string          `json:"batch_id"`
	PeriodStart      string          `json:"period_start"`
	PeriodEnd        string          `json:"period_end"`
	Status           string          `json:"status"`
	TotalEmployees   int             `json:"total_employees"`
	ApprovedCount    int             `json:"approved_count"`
	RejectedCount    int             `json:"rejected_count"`
	PaidCount        int             `json:"paid_count"`
	TotalGrossAmount decimal.Decimal `json:"total_gross_amount"`
	TotalNetAmount   decimal.Decimal `json:"total_net_amount"`
}

type RecordResponse struct {
	ID              string          `json:"id"`
	BatchID         string          `json:"batch_id"`
	EmployeeID      string          `json:"employee_id"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	Status          string          `json:"status"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectedAt      *time.Time      `json:"rejected_at,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
}

type BatchFilter struct {
	Status      *string `json:"status,omitempty"`
	PeriodStart *string `json:"period_start,omitempty"`
	PeriodEnd   *string `json:"period_end,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
}

type ListBatchesResponse struct {
	Data       []BatchStatusResponse `json:"data"`
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
}

type RejectionResponse struct {
	ID              string          `json:"id"`
	PayrollRecordID string          `json:"payroll_record_id"`
	BatchID         string          `json:"batch_id"`
	Type            string          `json:"type"`
	Reason          string          `json:"reason"`
	AmountRejected  decimal.Decimal `json:"amount_rejected"`
	RejectedBy      string          `json:"rejected_by"`
	RejectedAt      time.Time       `json:"rejected_at"`
	HRNotified      bool            `json:"hr_notified"`
	Resolved        bool            `json:"resolved"`
	ResolvedBy      *string         `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
}
