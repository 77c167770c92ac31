package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/auditrepo"
	"fulfillment/internal/adapters/out/postgres/labelrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/taskrepo"
	"fulfillment/internal/adapters/out/postgres/webhookrepo"
	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	store     ports.TaskStore
}

// SetupSuite initializes the PostgreSQL container and database connection,
// then runs migrations to prepare the schema.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&labelrepo.LabelDTO{},
		&webhookrepo.WebhookDTO{},
		&auditrepo.EntryDTO{},
		&taskrepo.TaskDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
	suite.store = taskrepo.NewGormTaskStore(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, labels, webhooks, audit_entries, queue_tasks").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up the PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.LabelRepository())
	suite.NotNil(uow1.WebhookRepository())
	suite.NotNil(uow1.AuditRepository())
	suite.NotNil(uow1.TaskQueue())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	// Multiple begin calls are safe
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_SingleRepositoryTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder(suite.T(), "ORD-1001")

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	retrieved, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	retrieved, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.Number(), retrieved.Number())
	suite.Equal(order.New, retrieved.Status())
}

// TestUnitOfWork_MutationWithLedgerAndTask verifies the core transactional
// contract: a status change, its audit entry and its follow-up task commit
// together.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_MutationWithLedgerAndTask() {
	ctx := context.Background()

	testOrder := createPaidTestOrder(suite.T(), "ORD-2001")
	seedUow := suite.factory.Create()
	err := seedUow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	locked, err := uow.OrderRepository().GetForUpdate(ctx, testOrder.ID())
	suite.Require().NoError(err)

	changed, err := locked.TransitionTo(order.OnHold)
	suite.Require().NoError(err)
	suite.True(changed)

	err = uow.OrderRepository().Update(ctx, locked)
	suite.Require().NoError(err)

	entry, err := audit.NewEntry(
		kernel.NewUUID(), "order", locked.ID().String(), "status_transition",
		audit.ActorSystem, "", map[string]string{
			"previous_status": order.Paid.String(),
			"new_status":      order.OnHold.String(),
		}, time.Now().UTC())
	suite.Require().NoError(err)
	err = uow.AuditRepository().Add(ctx, entry)
	suite.Require().NoError(err)

	err = uow.TaskQueue().Enqueue(ctx, ports.Task{
		ID:       kernel.NewUUID(),
		Kind:     ports.TaskNotifyOrderChanged,
		Payload:  []byte(`{"order_id":"` + locked.ID().String() + `"}`),
		MaxTries: 5,
		Timeout:  30 * time.Second,
		RunAt:    time.Now().UTC(),
	})
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	retrieved, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.OnHold, retrieved.Status())

	entries, err := newUow.AuditRepository().GetByEntity(ctx, "order", testOrder.ID().String())
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal("status_transition", entries[0].Action())

	tasks, err := suite.store.DequeueDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal(ports.TaskNotifyOrderChanged, tasks[0].Kind)
	suite.Equal(1, tasks[0].TryCount)
}

// TestUnitOfWork_TransactionRollback verifies rollback discards the mutation,
// its ledger entry and its enqueued task together.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder(suite.T(), "ORD-3001")

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	entry, err := audit.NewEntry(
		kernel.NewUUID(), "order", testOrder.ID().String(), "order_created",
		audit.ActorAPI, "", nil, time.Now().UTC())
	suite.Require().NoError(err)
	err = uow.AuditRepository().Add(ctx, entry)
	suite.Require().NoError(err)

	err = uow.TaskQueue().Enqueue(ctx, ports.Task{
		ID:       kernel.NewUUID(),
		Kind:     ports.TaskNotifyOrderChanged,
		Payload:  []byte(`{}`),
		MaxTries: 5,
		Timeout:  30 * time.Second,
		RunAt:    time.Now().UTC(),
	})
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()

	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")

	entries, err := newUow.AuditRepository().GetByEntity(ctx, "order", testOrder.ID().String())
	suite.Require().NoError(err)
	suite.Empty(entries, "Ledger entry should not exist after rollback")

	tasks, err := suite.store.DequeueDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(tasks, "Task should not exist after rollback")
}

// TestUnitOfWork_ConsolidationQuery verifies the grouping query finds paid,
// unshipped orders sharing the seed's consolidation key in ascending id
// sequence, and skips orders that differ in any key component.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConsolidationQuery() {
	ctx := context.Background()
	uow := suite.factory.Create()

	clientID := kernel.NewUUID()
	seed := createPaidOrderForClient(suite.T(), "ORD-4001", clientID, "standard")
	sibling := createPaidOrderForClient(suite.T(), "ORD-4002", clientID, "standard")
	otherMethod := createPaidOrderForClient(suite.T(), "ORD-4003", clientID, "express")
	otherClient := createPaidOrderForClient(suite.T(), "ORD-4004", kernel.NewUUID(), "standard")
	unpaid := createTestOrderForClient(suite.T(), "ORD-4005", clientID, "standard")

	for _, o := range []*order.Order{seed, sibling, otherMethod, otherClient, unpaid} {
		err := uow.OrderRepository().Add(ctx, o)
		suite.Require().NoError(err)
	}

	ids, err := uow.OrderRepository().FindConsolidatable(ctx, seed)
	suite.Require().NoError(err)
	suite.Require().Len(ids, 2, "Only seed and its sibling share the consolidation key")

	found := map[string]bool{}
	for _, id := range ids {
		found[id.String()] = true
	}
	suite.True(found[seed.ID().String()])
	suite.True(found[sibling.ID().String()])

	group, err := uow.OrderRepository().GetGroupForUpdate(ctx, ids)
	suite.Require().NoError(err)
	suite.Require().Len(group, 2)
	suite.True(group[0].ID().String() < group[1].ID().String(),
		"Group rows should come back in ascending id sequence")
}

// TestUnitOfWork_TaskStoreLifecycle verifies claim, reschedule and terminal
// failure handling on the worker side of the queue.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TaskStoreLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	taskID := kernel.NewUUID()
	err := uow.TaskQueue().Enqueue(ctx, ports.Task{
		ID:       taskID,
		Kind:     ports.TaskGenerateShipment,
		Payload:  []byte(`{}`),
		MaxTries: 3,
		Timeout:  300 * time.Second,
		RunAt:    time.Now().UTC(),
	})
	suite.Require().NoError(err)

	// Future task is not due yet
	err = uow.TaskQueue().Enqueue(ctx, ports.Task{
		ID:       kernel.NewUUID(),
		Kind:     ports.TaskProcessWebhook,
		Payload:  []byte(`{}`),
		MaxTries: 5,
		Timeout:  60 * time.Second,
		RunAt:    time.Now().UTC().Add(time.Hour),
	})
	suite.Require().NoError(err)

	tasks, err := suite.store.DequeueDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1, "Only the due task should be claimed")
	suite.Equal(taskID, tasks[0].ID)
	suite.Equal(1, tasks[0].TryCount)
	suite.Equal(300*time.Second, tasks[0].Timeout)

	// Claimed task is invisible to other workers
	tasks, err = suite.store.DequeueDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(tasks)

	// Reschedule makes it due again and bumps the try counter on re-claim
	err = suite.store.Reschedule(ctx, taskID, "carrier unavailable", time.Now().UTC())
	suite.Require().NoError(err)

	tasks, err = suite.store.DequeueDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal(2, tasks[0].TryCount)

	// Terminal failure removes it from scheduling
	err = suite.store.MarkFailed(ctx, taskID, "carrier rejected the shipment")
	suite.Require().NoError(err)

	tasks, err = suite.store.DequeueDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(tasks)
}

// TestUnitOfWork_WebhookAndLabelRepositories exercises the remaining
// repositories through the unit of work.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WebhookAndLabelRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	hook, err := webhook.NewWebhook(
		kernel.NewUUID(), webhook.SourcePaymentProvider, "payment.confirmed",
		[]byte(`{"payment_id":"pay_123"}`))
	suite.Require().NoError(err)

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.WebhookRepository().Add(ctx, hook)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	err = hook.MarkProcessed(time.Now().UTC())
	suite.Require().NoError(err)
	err = uow.WebhookRepository().Update(ctx, hook)
	suite.Require().NoError(err)

	retrieved, err := uow.WebhookRepository().Get(ctx, hook.ID())
	suite.Require().NoError(err)
	suite.Equal(webhook.StatusProcessed, retrieved.Status())
	suite.NotNil(retrieved.ProcessedAt())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder(suite.T(), "ORD-5001")

	// Without Begin, repository operations auto-commit
	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	retrieved, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
}

func createTestOrder(t *testing.T, number string) *order.Order {
	return createTestOrderForClient(t, number, kernel.NewUUID(), "standard")
}

func createTestOrderForClient(t *testing.T, number string, clientID kernel.UUID, method string) *order.Order {
	t.Helper()

	address, err := order.NewAddress("42 Harbor Road", "Rotterdam", "3011AA", "NL")
	if err != nil {
		t.Fatal(err)
	}
	item, err := order.NewItem(kernel.NewUUID(), 2)
	if err != nil {
		t.Fatal(err)
	}
	testOrder, err := order.NewOrder(
		kernel.NewUUID(), number, clientID, "EUR", 4999,
		kernel.CarrierA, method, nil, address, []order.Item{item})
	if err != nil {
		t.Fatal(err)
	}
	return testOrder
}

func createPaidTestOrder(t *testing.T, number string) *order.Order {
	return createPaidOrderForClient(t, number, kernel.NewUUID(), "standard")
}

func createPaidOrderForClient(t *testing.T, number string, clientID kernel.UUID, method string) *order.Order {
	t.Helper()

	testOrder := createTestOrderForClient(t, number, clientID, method)
	for i, target := range []order.Status{order.Confirmed, order.Paid} {
		if target == order.Paid {
			if err := testOrder.SetPaymentID(fmt.Sprintf("pay_%s_%d", number, i)); err != nil {
				t.Fatal(err)
			}
		}
		if _, err := testOrder.TransitionTo(target); err != nil {
			t.Fatal(err)
		}
	}
	return testOrder
}
