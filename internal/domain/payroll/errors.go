package payroll

import "errors"

var (
	ErrBatchNotFound            = errors.New("payroll batch not found")
	ErrRecordNotFound           = errors.New("payroll record not found")
	ErrRejectionNotFound        = errors.New("payment rejection not found")
	ErrInvalidTransition        = errors.New("invalid payroll record status transition")
	ErrEmptyBatch               = errors.New("payroll batch must contain at least one line item")
	ErrRejectionAlreadyResolved = errors.New("payment rejection already resolved")
	ErrRejectionReasonRequired  = errors.New("rejection reason is required")
)
