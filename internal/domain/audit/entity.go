package audit

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceType enum
type ReferenceType string

const (
	ReferenceTypeBatch  ReferenceType = "batch"
	ReferenceTypeRecord ReferenceType = "record"
)

// Action enum
type Action string

const (
	ActionApproved Action = "approved"
	ActionRejected Action = "rejected"
	ActionPaid     Action = "paid"
)

// Entry - one immutable row per accepted state transition. Entries are
// written by the approval engine inside the same transaction as the
// transition they describe and are never updated or deleted.
type Entry struct {
	ID             string
	ReferenceType  ReferenceType
	ReferenceID    string
	Action         Action
	Actor          string
	OccurredAt     time.Time
	Reason         *string
	Amount         decimal.Decimal
	PreviousStatus string
	NewStatus      string
}
