package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewIngestWebhookCommand(t *testing.T) {
	t.Run("valid_command", func(t *testing.T) {
		id := kernel.NewUUID()
		cmd, err := commands.NewIngestWebhookCommand(
			id, webhook.SourceCarrierA, "label.created", []byte(`{"x":1}`))

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, id, cmd.WebhookID())
		assert.Equal(t, webhook.SourceCarrierA, cmd.Source())
		assert.Equal(t, "label.created", cmd.Event())
	})

	t.Run("unknown_source", func(t *testing.T) {
		_, err := commands.NewIngestWebhookCommand(
			kernel.NewUUID(), webhook.Source("fax-machine"), "", []byte(`{}`))
		require.Error(t, err)
	})

	t.Run("empty_payload", func(t *testing.T) {
		_, err := commands.NewIngestWebhookCommand(
			kernel.NewUUID(), webhook.SourceCarrierA, "", nil)
		require.Error(t, err)
	})
}

func TestIngestWebhookCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	webhookID := kernel.NewUUID()
	cmd, err := commands.NewIngestWebhookCommand(
		webhookID, webhook.SourceCarrierB, "delivered", []byte(`{"shipment":"shp_1"}`))
	require.NoError(t, err)

	webhookRepo := new(MockWebhookRepository)
	auditRepo := new(MockAuditRepository)
	taskQueue := new(MockTaskQueue)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WebhookRepository").Return(webhookRepo).Once(),
		webhookRepo.On("Add", ctx, mock.AnythingOfType("*webhook.Webhook")).Return(nil).Once(),
		uow.On("AuditRepository").Return(auditRepo).Once(),
		auditRepo.On("Add", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil).Once(),
		uow.On("TaskQueue").Return(taskQueue).Once(),
		taskQueue.On("Enqueue", ctx, mock.AnythingOfType("ports.Task")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWebhookUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewIngestWebhookCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)

	// The persisted row is pending and carries the raw payload untouched.
	stored := webhookRepo.Calls[0].Arguments[1].(*webhook.Webhook)
	assert.Equal(t, webhookID, stored.ID())
	assert.Equal(t, webhook.StatusPending, stored.Status())
	assert.Equal(t, []byte(`{"shipment":"shp_1"}`), stored.Payload())

	// Processing is scheduled, not performed.
	task := taskQueue.Calls[0].Arguments[1].(ports.Task)
	assert.Equal(t, ports.TaskProcessWebhook, task.Kind)

	webhookRepo.AssertExpectations(t)
	taskQueue.AssertExpectations(t)
	uow.AssertExpectations(t)
}
