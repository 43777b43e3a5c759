package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parishworks/chms-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandleError_Sentinels(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"batch not found", payroll.ErrBatchNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"record not found", payroll.ErrRecordNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"rejection not found", payroll.ErrRejectionNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"invalid transition", payroll.ErrInvalidTransition, http.StatusConflict, "CONFLICT"},
		{"already resolved", payroll.ErrRejectionAlreadyResolved, http.StatusConflict, "CONFLICT"},
		{"empty batch", payroll.ErrEmptyBatch, http.StatusBadRequest, "BAD_REQUEST"},
		{"missing reason", payroll.ErrRejectionReasonRequired, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown error", assert.AnError, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, c.err)

			assert.Equal(t, c.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, c.wantCode, resp.Error.Code)
		})
	}
}

// Arithmetic reconciliation failures come back as field-level validation
// errors with a 422 and per-field detail, not as a bare sentinel.
func TestHandleError_AmountValidation(t *testing.T) {
	req := payroll.CreateBatchRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
		LineItems: []payroll.LineItem{{
			EmployeeID:          "emp-001",
			BasicSalary:         decimal.NewFromInt(5000),
			Allowances:          decimal.NewFromInt(500),
			GrossAmount:         decimal.NewFromInt(6000),
			TaxAmount:           decimal.NewFromInt(400),
			StatutoryDeductions: decimal.NewFromInt(300),
			OtherDeductions:     decimal.NewFromInt(100),
			TotalDeductions:     decimal.NewFromInt(800),
			NetAmount:           decimal.NewFromInt(5200),
		}},
	}
	err := req.Validate()
	require.Error(t, err)

	rec := httptest.NewRecorder()
	HandleError(rec, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "line_items[0].gross_amount")
}
