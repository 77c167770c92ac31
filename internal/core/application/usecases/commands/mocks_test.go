package commands_test

import (
	"context"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByPaymentID(ctx context.Context, paymentID string) (*order.Order, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindConsolidatable(ctx context.Context, seed *order.Order) ([]kernel.UUID, error) {
	args := m.Called(ctx, seed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockOrderRepository) GetGroupForUpdate(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByParcelGroupForUpdate(ctx context.Context, parcelGroupID string) ([]*order.Order, error) {
	args := m.Called(ctx, parcelGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockLabelRepository struct{ mock.Mock }

func (m *MockLabelRepository) Add(ctx context.Context, l *shipping.Label) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLabelRepository) Update(ctx context.Context, l *shipping.Label) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLabelRepository) Get(ctx context.Context, id kernel.UUID) (*shipping.Label, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Label), args.Error(1)
}

func (m *MockLabelRepository) GetByOrderAndShipment(
	ctx context.Context, orderID kernel.UUID, externalShipmentID string,
) (*shipping.Label, error) {
	args := m.Called(ctx, orderID, externalShipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Label), args.Error(1)
}

func (m *MockLabelRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*shipping.Label, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipping.Label), args.Error(1)
}

func (m *MockLabelRepository) GetGeneratedByShipment(
	ctx context.Context, externalShipmentID string,
) ([]*shipping.Label, error) {
	args := m.Called(ctx, externalShipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipping.Label), args.Error(1)
}

type MockWebhookRepository struct{ mock.Mock }

func (m *MockWebhookRepository) Add(ctx context.Context, w *webhook.Webhook) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWebhookRepository) Update(ctx context.Context, w *webhook.Webhook) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWebhookRepository) Get(ctx context.Context, id kernel.UUID) (*webhook.Webhook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.Webhook), args.Error(1)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) Add(ctx context.Context, e *audit.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockAuditRepository) GetByEntity(
	ctx context.Context, entityType string, entityID string,
) ([]*audit.Entry, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Entry), args.Error(1)
}

type MockTaskQueue struct{ mock.Mock }

func (m *MockTaskQueue) Enqueue(ctx context.Context, task ports.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// MockUoW satisfies every unit of work interface the command handlers use.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) LabelRepository() ports.LabelRepository {
	args := m.Called()
	return args.Get(0).(ports.LabelRepository)
}

func (m *MockUoW) WebhookRepository() ports.WebhookRepository {
	args := m.Called()
	return args.Get(0).(ports.WebhookRepository)
}

func (m *MockUoW) AuditRepository() ports.AuditRepository {
	args := m.Called()
	return args.Get(0).(ports.AuditRepository)
}

func (m *MockUoW) TaskQueue() ports.TaskQueue {
	args := m.Called()
	return args.Get(0).(ports.TaskQueue)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockShipmentUoWFactory struct{ mock.Mock }

func (m *MockShipmentUoWFactory) Create() commands.ShipmentUoW {
	args := m.Called()
	return args.Get(0).(commands.ShipmentUoW)
}

type MockWebhookUoWFactory struct{ mock.Mock }

func (m *MockWebhookUoWFactory) Create() commands.WebhookUoW {
	args := m.Called()
	return args.Get(0).(commands.WebhookUoW)
}

type MockCarrierClient struct{ mock.Mock }

func (m *MockCarrierClient) Carrier() kernel.Carrier {
	args := m.Called()
	return args.Get(0).(kernel.Carrier)
}

func (m *MockCarrierClient) SupportsMethod(method string) bool {
	args := m.Called(method)
	return args.Bool(0)
}

func (m *MockCarrierClient) ServesCountry(country string) bool {
	args := m.Called(country)
	return args.Bool(0)
}

func (m *MockCarrierClient) CreateShipment(
	ctx context.Context, request ports.ShipmentRequest,
) (*ports.ShipmentResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ShipmentResponse), args.Error(1)
}

func (m *MockCarrierClient) DownloadLabel(ctx context.Context, shipmentID string) ([]byte, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCarrierClient) DeleteShipment(ctx context.Context, shipmentID string) error {
	args := m.Called(ctx, shipmentID)
	return args.Error(0)
}

func (m *MockCarrierClient) GetTracking(ctx context.Context, trackingNumber string) (string, error) {
	args := m.Called(ctx, trackingNumber)
	return args.String(0), args.Error(1)
}

type MockCarrierResolver struct{ mock.Mock }

func (m *MockCarrierResolver) Resolve(carrier kernel.Carrier) (ports.CarrierClient, error) {
	args := m.Called(carrier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.CarrierClient), args.Error(1)
}

func (m *MockCarrierResolver) Select(method string, country string) (ports.CarrierClient, error) {
	args := m.Called(method, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.CarrierClient), args.Error(1)
}

type MockLabelStore struct{ mock.Mock }

func (m *MockLabelStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	args := m.Called(ctx, key, data)
	return args.String(0), args.Error(1)
}

func (m *MockLabelStore) Fetch(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockLabelStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

type MockWebhookDecoder struct{ mock.Mock }

func (m *MockWebhookDecoder) Source() webhook.Source {
	args := m.Called()
	return args.Get(0).(webhook.Source)
}

func (m *MockWebhookDecoder) Decode(payload []byte) (webhook.Event, error) {
	args := m.Called(payload)
	return args.Get(0).(webhook.Event), args.Error(1)
}

type MockWebhookDecoderResolver struct{ mock.Mock }

func (m *MockWebhookDecoderResolver) Resolve(source webhook.Source) (ports.WebhookDecoder, error) {
	args := m.Called(source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.WebhookDecoder), args.Error(1)
}

type MockTrackingCache struct{ mock.Mock }

func (m *MockTrackingCache) Get(ctx context.Context, trackingNumber string) (string, bool, error) {
	args := m.Called(ctx, trackingNumber)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockTrackingCache) Set(ctx context.Context, trackingNumber string, status string) error {
	args := m.Called(ctx, trackingNumber, status)
	return args.Error(0)
}

// newTestOrder builds a fresh order in NEW status with one item line and a
// shipping address.
func newTestOrder(t *testing.T) *order.Order {
	t.Helper()

	address, err := order.NewAddress("42 Harbor Road", "Rotterdam", "3011AA", "NL")
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), 2)
	require.NoError(t, err)

	aggregate, err := order.NewOrder(
		kernel.NewUUID(), "ORD-1001", kernel.NewUUID(),
		"EUR", 4999, kernel.CarrierA, "standard", nil,
		address, []order.Item{item},
	)
	require.NoError(t, err)
	return aggregate
}

// newPaidTestOrder walks a fresh order to PAID status.
func newPaidTestOrder(t *testing.T) *order.Order {
	t.Helper()

	aggregate := newTestOrder(t)
	_, err := aggregate.TransitionTo(order.Confirmed)
	require.NoError(t, err)
	require.NoError(t, aggregate.SetPaymentID("pay_123"))
	_, err = aggregate.TransitionTo(order.Paid)
	require.NoError(t, err)
	return aggregate
}

// newFulfilledTestOrder walks a fresh order to FULFILLED with a shipment.
func newFulfilledTestOrder(t *testing.T) *order.Order {
	t.Helper()

	aggregate := newPaidTestOrder(t)
	require.NoError(t, aggregate.AssignShipment("shp_900", nil, "labels/carrier-A/shp_900.pdf"))
	_, err := aggregate.TransitionTo(order.Fulfilled)
	require.NoError(t, err)
	return aggregate
}
