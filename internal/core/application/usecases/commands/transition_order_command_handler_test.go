package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTransitionOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	testOrder := newTestOrder(t)
	cmd, err := commands.NewTransitionOrderCommand(
		testOrder.ID(), order.Confirmed, audit.ActorAPI, "svc-checkout", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	auditRepo := new(MockAuditRepository)
	taskQueue := new(MockTaskQueue)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("AuditRepository").Return(auditRepo).Once(),
		auditRepo.On("Add", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil).Once(),
		uow.On("TaskQueue").Return(taskQueue).Once(),
		taskQueue.On("Enqueue", ctx, mock.AnythingOfType("ports.Task")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, testOrder.Status())

	// Exactly one ledger entry, recording the edge that was taken.
	entry := auditRepo.Calls[0].Arguments[1].(*audit.Entry)
	assert.Equal(t, "status_transition", entry.Action())
	assert.Equal(t, "NEW", entry.Metadata()["previous"])
	assert.Equal(t, "CONFIRMED", entry.Metadata()["new"])

	orderRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
	taskQueue.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_PaidEnqueuesShipment(t *testing.T) {
	ctx := t.Context()

	testOrder := newTestOrder(t)
	_, err := testOrder.TransitionTo(order.Confirmed)
	require.NoError(t, err)
	require.NoError(t, testOrder.SetPaymentID("pay_123"))

	cmd, err := commands.NewTransitionOrderCommand(
		testOrder.ID(), order.Paid, audit.ActorSystem, "", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	auditRepo := new(MockAuditRepository)
	taskQueue := new(MockTaskQueue)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("AuditRepository").Return(auditRepo).Once()
	uow.On("TaskQueue").Return(taskQueue).Twice()
	orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	auditRepo.On("Add", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()
	taskQueue.On("Enqueue", ctx, mock.AnythingOfType("ports.Task")).Return(nil).Twice()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Paid, testOrder.Status())

	// The paid transition arms fulfillment: a notification task and a
	// shipment generation task go onto the queue in the same transaction.
	kinds := map[ports.TaskKind]bool{}
	for _, call := range taskQueue.Calls {
		kinds[call.Arguments[1].(ports.Task).Kind] = true
	}
	assert.True(t, kinds[ports.TaskNotifyOrderChanged])
	assert.True(t, kinds[ports.TaskGenerateShipment])

	taskQueue.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_IdempotentNoOp(t *testing.T) {
	ctx := t.Context()

	testOrder := newTestOrder(t)
	cmd, err := commands.NewTransitionOrderCommand(
		testOrder.ID(), order.New, audit.ActorAPI, "", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	// Same-status request succeeds without writing anything: no update, no
	// ledger entry, no notification.
	require.NoError(t, err)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "AuditRepository")
	uow.AssertNotCalled(t, "TaskQueue")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestTransitionOrderCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()

	testOrder := newTestOrder(t)
	cmd, err := commands.NewTransitionOrderCommand(
		testOrder.ID(), order.Completed, audit.ActorAPI, "", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, order.New, testOrder.Status())
}

func TestTransitionOrderCommandHandler_Handle_PreconditionFailed(t *testing.T) {
	ctx := t.Context()

	// Confirmed but never given a payment correlation id.
	testOrder := newTestOrder(t)
	_, err := testOrder.TransitionTo(order.Confirmed)
	require.NoError(t, err)

	cmd, err := commands.NewTransitionOrderCommand(
		testOrder.ID(), order.Paid, audit.ActorAPI, "", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	assert.Equal(t, order.Confirmed, testOrder.Status())
}

func TestTransitionOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.TransitionOrderCommand{} // not constructed properly

	factory := new(MockOrderUoWFactory)
	handler := commands.NewTransitionOrderCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrTransitionOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestTransitionOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewTransitionOrderCommand(
		kernel.NewUUID(), order.Confirmed, audit.ActorAPI, "", "")
	require.NoError(t, err)

	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	handler := commands.NewTransitionOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "begin error")
}

func TestTransitionOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()

	orderID := kernel.NewUUID()
	cmd, err := commands.NewTransitionOrderCommand(
		orderID, order.Confirmed, audit.ActorAPI, "", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, orderID).Return(nil, errs.ErrObjectNotFound).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
