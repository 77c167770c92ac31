package audit_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Run("valid_entry", func(t *testing.T) {
		now := time.Now().UTC()
		e, err := audit.NewEntry(
			kernel.NewUUID(), "order", "ORD-1", "status_transition",
			audit.ActorSystem, "", map[string]string{"previous": "NEW", "new": "CONFIRMED"}, now,
		)
		require.NoError(t, err)
		require.NoError(t, e.Validate())
		assert.Equal(t, "order", e.EntityType())
		assert.Equal(t, "status_transition", e.Action())
		assert.Equal(t, audit.ActorSystem, e.ActorType())
		assert.Equal(t, "NEW", e.Metadata()["previous"])
		assert.Equal(t, now, e.CreatedAt())
	})

	t.Run("required_fields", func(t *testing.T) {
		now := time.Now()
		_, err := audit.NewEntry(kernel.NewUUID(), "", "x", "a", audit.ActorAPI, "", nil, now)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = audit.NewEntry(kernel.NewUUID(), "order", "", "a", audit.ActorAPI, "", nil, now)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = audit.NewEntry(kernel.NewUUID(), "order", "x", "", audit.ActorAPI, "", nil, now)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = audit.NewEntry(kernel.NewUUID(), "order", "x", "a", audit.ActorType("robot"), "", nil, now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestEntry_MetadataIsCopied(t *testing.T) {
	e, err := audit.NewEntry(
		kernel.NewUUID(), "order", "ORD-1", "status_transition",
		audit.ActorUser, "op-7", map[string]string{"reason": "manual"}, time.Now(),
	)
	require.NoError(t, err)

	m := e.Metadata()
	m["reason"] = "mutated"
	assert.Equal(t, "manual", e.Metadata()["reason"])
}
