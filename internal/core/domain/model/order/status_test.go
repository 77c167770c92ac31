package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []order.Status {
	return []order.Status{
		order.New,
		order.Confirmed,
		order.Paid,
		order.Fulfilled,
		order.Completed,
		order.Cancelled,
		order.OnHold,
		order.Failed,
	}
}

func TestStatus_TransitionTable(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.New:       {order.Confirmed, order.Cancelled, order.OnHold},
		order.Confirmed: {order.Paid, order.Cancelled, order.OnHold, order.Failed},
		order.Paid:      {order.Fulfilled, order.Cancelled, order.OnHold, order.Failed},
		order.Fulfilled: {order.Completed, order.Failed},
		order.OnHold:    {order.Confirmed, order.Paid, order.Cancelled},
		order.Completed: {},
		order.Cancelled: {},
		order.Failed:    {},
	}

	for _, from := range allStatuses() {
		allowedSet := make(map[order.Status]bool)
		for _, to := range allowed[from] {
			allowedSet[to] = true
		}

		for _, to := range allStatuses() {
			t.Run(from.String()+"_to_"+to.String(), func(t *testing.T) {
				assert.Equal(t, allowedSet[to], from.CanTransitionTo(to))

				newStatus, err := from.TransitionTo(to)
				if allowedSet[to] {
					require.NoError(t, err)
					assert.Equal(t, to, newStatus)
				} else {
					require.ErrorIs(t, err, errs.ErrInvalidTransition)
				}
			})
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := map[order.Status]bool{
		order.Completed: true,
		order.Cancelled: true,
		order.Failed:    true,
	}

	for _, s := range allStatuses() {
		t.Run(s.String(), func(t *testing.T) {
			assert.Equal(t, terminal[s], s.IsTerminal())
		})
	}

	assert.False(t, order.Unknown.IsTerminal())
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range allStatuses() {
		require.NoError(t, s.Validate())
	}

	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(42).Validate())
}

func TestStatus_String(t *testing.T) {
	expected := map[order.Status]string{
		order.New:       "NEW",
		order.Confirmed: "CONFIRMED",
		order.Paid:      "PAID",
		order.Fulfilled: "FULFILLED",
		order.Completed: "COMPLETED",
		order.Cancelled: "CANCELLED",
		order.OnHold:    "ON_HOLD",
		order.Failed:    "FAILED",
	}

	for s, str := range expected {
		assert.Equal(t, str, s.String())
	}
	assert.Equal(t, "UNKNOWN", order.Unknown.String())
	assert.Equal(t, "UNKNOWN", order.Status(42).String())
}

func TestStatusFromString(t *testing.T) {
	t.Run("round_trips_all_statuses", func(t *testing.T) {
		for _, s := range allStatuses() {
			parsed, err := order.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("rejects_unknown_values", func(t *testing.T) {
		_, err := order.StatusFromString("SHIPPED")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = order.StatusFromString("UNKNOWN")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_TransitionTo_RejectsInvalidTarget(t *testing.T) {
	_, err := order.New.TransitionTo(order.Unknown)
	require.Error(t, err)

	_, err = order.New.TransitionTo(order.Status(42))
	require.Error(t, err)
}
