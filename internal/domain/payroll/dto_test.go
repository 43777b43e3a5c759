package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLineItem() LineItem {
	return LineItem{
		EmployeeID:          "emp-001",
		BasicSalary:         decimal.NewFromInt(5000),
		Allowances:          decimal.NewFromInt(500),
		GrossAmount:         decimal.NewFromInt(5500),
		TaxAmount:           decimal.NewFromInt(400),
		StatutoryDeductions: decimal.NewFromInt(300),
		OtherDeductions:     decimal.NewFromInt(100),
		TotalDeductions:     decimal.NewFromInt(800),
		NetAmount:           decimal.NewFromInt(4700),
	}
}

func TestCreateBatchRequest_Validate_Success(t *testing.T) {
	req := CreateBatchRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
		LineItems:   []LineItem{validLineItem()},
	}

	assert.NoError(t, req.Validate())
}

func TestCreateBatchRequest_Validate_Dates(t *testing.T) {
	req := CreateBatchRequest{
		PeriodStart: "01-01-2025",
		PeriodEnd:   "2025-01-31",
		LineItems:   []LineItem{validLineItem()},
	}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period_start")

	req = CreateBatchRequest{
		PeriodStart: "2025-02-01",
		PeriodEnd:   "2025-01-31",
		LineItems:   []LineItem{validLineItem()},
	}
	err = req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period_end")
}

func TestCreateBatchRequest_Validate_EmptyLineItems(t *testing.T) {
	req := CreateBatchRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
	}

	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line_items")
}

func TestCreateBatchRequest_Validate_GrossMismatch(t *testing.T) {
	item := validLineItem()
	item.GrossAmount = decimal.NewFromInt(6000)

	req := CreateBatchRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
		LineItems:   []LineItem{item},
	}

	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gross_amount")
}

func TestCreateBatchRequest_Validate_DeductionsMismatch(t *testing.T) {
	item := validLineItem()
	item.TotalDeductions = decimal.NewFromInt(900)

	req := CreateBatchRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
		LineItems:   []LineItem{item},
	}

	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total_deductions")
	// net was derived from the original total, so it no longer reconciles either
	assert.Contains(t, err.Error(), "net_amount")
}

func TestCreateBatchRequest_Validate_NetMismatch(t *testing.T) {
	item := validLineItem()
	item.NetAmount = decimal.NewFromInt(4701)

	req := CreateBatchRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
		LineItems:   []LineItem{item},
	}

	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "net_amount")
}

func TestCreateBatchRequest_Validate_NegativeAmount(t *testing.T) {
	item := validLineItem()
	item.OtherDeductions = decimal.NewFromInt(-100)
	item.TotalDeductions = decimal.NewFromInt(600)
	item.NetAmount = decimal.NewFromInt(4900)

	req := CreateBatchRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
		LineItems:   []LineItem{item},
	}

	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "other_deductions")
}

func TestCreateBatchRequest_Validate_FieldIndexing(t *testing.T) {
	bad := validLineItem()
	bad.EmployeeID = ""

	req := CreateBatchRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
		LineItems:   []LineItem{validLineItem(), bad},
	}

	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line_items[1].employee_id")
}

func TestRejectRequest_Validate(t *testing.T) {
	req := RejectRequest{Reason: "Bank account closed"}
	assert.NoError(t, req.Validate())

	req = RejectRequest{Reason: "   "}
	assert.ErrorIs(t, req.Validate(), ErrRejectionReasonRequired)
}

// Zero-valued decimals behave as 0 in the reconciliation checks.
func TestLineItem_Validate_ZeroDeductions(t *testing.T) {
	item := LineItem{
		EmployeeID:  "emp-002",
		BasicSalary: decimal.NewFromInt(3000),
		GrossAmount: decimal.NewFromInt(3000),
		NetAmount:   decimal.NewFromInt(3000),
	}

	req := CreateBatchRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
		LineItems:   []LineItem{item},
	}

	assert.NoError(t, req.Validate())
}
