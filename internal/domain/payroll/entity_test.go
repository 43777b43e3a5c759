package payroll

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name       string
		from       RecordStatus
		action     RecordAction
		wantStatus RecordStatus
		wantOK     bool
	}{
		{"approve pending", RecordStatusPendingApproval, ActionApprove, RecordStatusApproved, true},
		{"reject pending", RecordStatusPendingApproval, ActionReject, RecordStatusRejected, true},
		{"pay pending", RecordStatusPendingApproval, ActionPay, RecordStatusPendingApproval, false},
		{"pay approved", RecordStatusApproved, ActionPay, RecordStatusPaid, true},
		{"reject approved", RecordStatusApproved, ActionReject, RecordStatusRejected, true},
		{"approve approved", RecordStatusApproved, ActionApprove, RecordStatusApproved, false},
		{"approve rejected", RecordStatusRejected, ActionApprove, RecordStatusRejected, false},
		{"reject rejected", RecordStatusRejected, ActionReject, RecordStatusRejected, false},
		{"pay rejected", RecordStatusRejected, ActionPay, RecordStatusRejected, false},
		{"approve paid", RecordStatusPaid, ActionApprove, RecordStatusPaid, false},
		{"reject paid", RecordStatusPaid, ActionReject, RecordStatusPaid, false},
		{"pay paid", RecordStatusPaid, ActionPay, RecordStatusPaid, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := CanTransition(c.from, c.action)
			assert.Equal(t, c.wantOK, ok)
			assert.Equal(t, c.wantStatus, got)
		})
	}
}

func TestRecordStatus_IsTerminal(t *testing.T) {
	assert.False(t, RecordStatusPendingApproval.IsTerminal())
	assert.False(t, RecordStatusApproved.IsTerminal())
	assert.True(t, RecordStatusRejected.IsTerminal())
	assert.True(t, RecordStatusPaid.IsTerminal())
}

func TestDeriveBatchStatus(t *testing.T) {
	cases := []struct {
		name   string
		counts BatchCounts
		want   BatchStatus
	}{
		{"all pending", BatchCounts{TotalEmployees: 5}, BatchStatusPendingApproval},
		{"all approved", BatchCounts{TotalEmployees: 5, ApprovedCount: 5}, BatchStatusFullyApproved},
		{"all paid", BatchCounts{TotalEmployees: 5, PaidCount: 5}, BatchStatusPaid},
		{"all rejected", BatchCounts{TotalEmployees: 5, RejectedCount: 5}, BatchStatusRejected},
		{"some approved", BatchCounts{TotalEmployees: 5, ApprovedCount: 2}, BatchStatusPartiallyApproved},
		{"some paid some approved", BatchCounts{TotalEmployees: 5, ApprovedCount: 2, PaidCount: 3}, BatchStatusPartiallyApproved},
		{"some paid rest pending", BatchCounts{TotalEmployees: 5, PaidCount: 2}, BatchStatusPartiallyApproved},
		{"some rejected rest pending", BatchCounts{TotalEmployees: 5, RejectedCount: 3}, BatchStatusPendingApproval},
		{"one approved rest rejected", BatchCounts{TotalEmployees: 5, ApprovedCount: 1, RejectedCount: 4}, BatchStatusPartiallyApproved},
		{"one paid rest rejected", BatchCounts{TotalEmployees: 5, PaidCount: 1, RejectedCount: 4}, BatchStatusPartiallyApproved},
		{"single paid", BatchCounts{TotalEmployees: 1, PaidCount: 1}, BatchStatusPaid},
		{"single rejected", BatchCounts{TotalEmployees: 1, RejectedCount: 1}, BatchStatusRejected},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, DeriveBatchStatus(c.counts))
		})
	}
}

// The derived status depends only on the final counts, so any order of
// member transitions that ends at the same counts must converge to the
// same batch status.
func TestDeriveBatchStatus_OrderIndependent(t *testing.T) {
	statuses := []RecordStatus{
		RecordStatusPaid, RecordStatusApproved, RecordStatusApproved,
		RecordStatusRejected, RecordStatusPendingApproval,
	}

	countsOf := func(members []RecordStatus) BatchCounts {
		c := BatchCounts{TotalEmployees: len(members)}
		for _, s := range members {
			switch s {
			case RecordStatusApproved:
				c.ApprovedCount++
			case RecordStatusRejected:
				c.RejectedCount++
			case RecordStatusPaid:
				c.PaidCount++
			}
		}
		return c
	}

	want := DeriveBatchStatus(countsOf(statuses))
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		shuffled := make([]RecordStatus, len(statuses))
		copy(shuffled, statuses)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, DeriveBatchStatus(countsOf(shuffled)))
	}
}

func TestPayrollBatch_Counts(t *testing.T) {
	b := PayrollBatch{
		TotalEmployees: 4,
		ApprovedCount:  2,
		RejectedCount:  1,
		PaidCount:      1,
	}

	assert.Equal(t, BatchCounts{TotalEmployees: 4, ApprovedCount: 2, RejectedCount: 1, PaidCount: 1}, b.Counts())
}
