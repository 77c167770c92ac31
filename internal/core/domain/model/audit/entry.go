// Package audit contains the append-only ledger entry written for every
// state-affecting mutation. Entries are never updated or deleted; exactly one
// entry is written per successful mutation, in the same transaction as the
// mutation itself.
package audit

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrEntryIsNotConstructed is returned when an Entry instance was not created
// through NewEntry or RestoreEntry.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry")

// ActorType identifies who (or what) caused an audited mutation.
type ActorType string

const (
	// ActorAPI marks mutations driven by the HTTP API surface.
	ActorAPI ActorType = "api"

	// ActorSystem marks mutations driven by background workers and webhooks.
	ActorSystem ActorType = "system"

	// ActorUser marks mutations attributed to a named operator.
	ActorUser ActorType = "user"
)

// Validate checks that the actor type is one of the defined kinds.
func (a ActorType) Validate() error {
	switch a {
	case ActorAPI, ActorSystem, ActorUser:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("actor type",
			fmt.Errorf("%q is not a valid actor type", string(a)))
	}
}

// String returns the persisted name of the actor type.
func (a ActorType) String() string {
	return string(a)
}

// Entry is one append-only ledger record.
type Entry struct {
	id         kernel.UUID
	entityType string
	entityID   string
	action     string
	actorType  ActorType
	actorID    string
	metadata   map[string]string
	createdAt  time.Time

	isConstructed bool
}

// NewEntry creates a ledger entry for a just-performed mutation.
func NewEntry(
	id kernel.UUID,
	entityType string,
	entityID string,
	action string,
	actorType ActorType,
	actorID string,
	metadata map[string]string,
	createdAt time.Time,
) (*Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if entityType == "" {
		return nil, errs.NewValueIsRequiredError("entity type")
	}
	if entityID == "" {
		return nil, errs.NewValueIsRequiredError("entity id")
	}
	if action == "" {
		return nil, errs.NewValueIsRequiredError("action")
	}
	if err := actorType.Validate(); err != nil {
		return nil, err
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	return &Entry{
		id:            id,
		entityType:    entityType,
		entityID:      entityID,
		action:        action,
		actorType:     actorType,
		actorID:       actorID,
		metadata:      metadata,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreEntry reconstructs a ledger entry from persistence.
func RestoreEntry(
	id kernel.UUID,
	entityType string,
	entityID string,
	action string,
	actorType ActorType,
	actorID string,
	metadata map[string]string,
	createdAt time.Time,
) (*Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	return &Entry{
		id:            id,
		entityType:    entityType,
		entityID:      entityID,
		action:        action,
		actorType:     actorType,
		actorID:       actorID,
		metadata:      metadata,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Entry instance was properly constructed.
func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() kernel.UUID {
	return e.id
}

// EntityType returns the kind of entity that was mutated.
func (e *Entry) EntityType() string {
	return e.entityType
}

// EntityID returns the identifier of the mutated entity.
func (e *Entry) EntityID() string {
	return e.entityID
}

// Action returns the name of the mutation performed.
func (e *Entry) Action() string {
	return e.action
}

// ActorType returns the kind of actor that caused the mutation.
func (e *Entry) ActorType() ActorType {
	return e.actorType
}

// ActorID returns the actor's identifier, empty for anonymous system actions.
func (e *Entry) ActorID() string {
	return e.actorID
}

// Metadata returns a copy of the entry metadata.
func (e *Entry) Metadata() map[string]string {
	out := make(map[string]string, len(e.metadata))
	for k, v := range e.metadata {
		out[k] = v
	}
	return out
}

// CreatedAt returns the time the mutation was recorded.
func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}
