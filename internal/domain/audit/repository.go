package audit

import "context"

// Repository is append-only: entries can be created and listed, never
// mutated.
type Repository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	ListByReference(ctx context.Context, refType ReferenceType, refID string) ([]Entry, error)
}
