package auditlog

import (
	"context"

	"github.com/parishworks/chms-backend-go/internal/domain/audit"
)

type AuditServiceImpl struct {
	auditRepo audit.Repository
}

func NewAuditService(auditRepo audit.Repository) audit.Service {
	return &AuditServiceImpl{auditRepo: auditRepo}
}

func (s *AuditServiceImpl) ListEntries(ctx context.Context, refType audit.ReferenceType, refID string) ([]audit.EntryResponse, error) {
	entries, err := s.auditRepo.ListByReference(ctx, refType, refID)
	if err != nil {
		return nil, err
	}

	result := make([]audit.EntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, audit.EntryResponse{
			ID:             e.ID,
			ReferenceType:  string(e.ReferenceType),
			ReferenceID:    e.ReferenceID,
			Action:         string(e.Action),
			Actor:          e.Actor,
			OccurredAt:     e.OccurredAt,
			Reason:         e.Reason,
			Amount:         e.Amount,
			PreviousStatus: e.PreviousStatus,
			NewStatus:      e.NewStatus,
		})
	}

	return result, nil
}
