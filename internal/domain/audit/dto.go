package audit

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryResponse struct {
	ID             string          `json:"id"`
	ReferenceType  string          `json:"reference_type"`
	ReferenceID    string          `json:"reference_id"`
	Action         string          `json:"action"`
	Actor          string          `json:"actor"`
	OccurredAt     time.Time       `json:"occurred_at"`
	Reason         *string         `json:"reason,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	PreviousStatus string          `json:"previous_status"`
	NewStatus      string          `json:"new_status"`
}
