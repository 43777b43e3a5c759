package response

import (
	"errors"
	"net/http"

	"github.com/parishworks/chms-backend-go/internal/domain/payroll"
	"github.com/parishworks/chms-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, payroll.ErrBatchNotFound):
		NotFound(w, "Payroll batch not found")
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrRejectionNotFound):
		NotFound(w, "Payment rejection not found")
	case errors.Is(err, payroll.ErrInvalidTransition):
		Conflict(w, "Record status does not allow this action")
	case errors.Is(err, payroll.ErrRejectionAlreadyResolved):
		Conflict(w, "Payment rejection already resolved")
	case errors.Is(err, payroll.ErrEmptyBatch):
		BadRequest(w, "Batch must contain at least one payroll record", nil)
	case errors.Is(err, payroll.ErrRejectionReasonRequired):
		BadRequest(w, "Rejection reason is required", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
