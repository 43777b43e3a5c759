package audit

import "context"

// Service exposes the read side of the audit log. Writes only ever happen
// inside the approval engine's transactions.
type Service interface {
	ListEntries(ctx context.Context, refType ReferenceType, refID string) ([]EntryResponse, error)
}
