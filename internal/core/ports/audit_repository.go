package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/audit"
)

// AuditRepository defines the persistence contract for the audit ledger.
// The ledger is append-only: entries are added, never updated or deleted.
type AuditRepository interface {
	// Add appends a ledger entry. The caller writes it in the same
	// transaction as the mutation the entry records.
	Add(ctx context.Context, entry *audit.Entry) error

	// GetByEntity retrieves the entries recorded for an entity, oldest first.
	GetByEntity(ctx context.Context, entityType string, entityID string) ([]*audit.Entry, error)
}
