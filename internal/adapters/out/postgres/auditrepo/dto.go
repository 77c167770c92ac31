// Package auditrepo provides data transfer objects and mapping functions for
// the append-only audit ledger. The repository exposes no update or delete
// path; entries are written once and only ever read back.
package auditrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EntryDTO represents the database structure for persisting audit entries.
type EntryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntityType string    `gorm:"index:idx_audit_entity"`
	EntityID   string    `gorm:"index:idx_audit_entity"`
	Action     string
	ActorType  string
	ActorID    string
	Metadata   map[string]string `gorm:"serializer:json;type:jsonb"`
	CreatedAt  time.Time         `gorm:"index"`
}

// TableName specifies the database table name for audit entries.
func (EntryDTO) TableName() string {
	return "audit_entries"
}

// fromDomain converts an audit entry to its database representation.
func fromDomain(entry *audit.Entry) EntryDTO {
	return EntryDTO{
		ID:         entry.ID().Bytes(),
		EntityType: entry.EntityType(),
		EntityID:   entry.EntityID(),
		Action:     entry.Action(),
		ActorType:  entry.ActorType().String(),
		ActorID:    entry.ActorID(),
		Metadata:   entry.Metadata(),
		CreatedAt:  entry.CreatedAt(),
	}
}

// toDomain converts a database DTO to an audit entry using RestoreEntry.
func toDomain(dto EntryDTO) (*audit.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return audit.RestoreEntry(
		id,
		dto.EntityType,
		dto.EntityID,
		dto.Action,
		audit.ActorType(dto.ActorType),
		dto.ActorID,
		dto.Metadata,
		dto.CreatedAt,
	)
}
