package cmd

import (
	"time"

	"fulfillment/internal/adapters/out/carrier"
	"fulfillment/internal/adapters/out/decoders"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/taskrepo"
	"fulfillment/internal/adapters/out/trackingcache"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/metrics"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	carriers   ports.CarrierResolver
	labelStore ports.LabelStore
	cache      ports.TrackingCache
	decoders   ports.WebhookDecoderResolver
	metrics    *metrics.Metrics
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	labelStore ports.LabelStore,
	redisClient *redis.Client,
	m *metrics.Metrics,
) (CompositionRoot, error) {
	carrierA, err := carrier.NewHTTPClient(carrier.Config{
		Carrier:   kernel.CarrierA,
		BaseURL:   config.CarrierABaseURL,
		APIKey:    config.CarrierAAPIKey,
		Methods:   []string{"standard", "express"},
		Countries: []string{"NL", "BE", "DE", "FR"},
	}, m)
	if err != nil {
		return CompositionRoot{}, err
	}

	carrierB, err := carrier.NewHTTPClient(carrier.Config{
		Carrier:   kernel.CarrierB,
		BaseURL:   config.CarrierBBaseURL,
		APIKey:    config.CarrierBAPIKey,
		Methods:   []string{"standard", "pickup-point"},
		Countries: []string{"NL", "BE", "LU"},
	}, m)
	if err != nil {
		return CompositionRoot{}, err
	}

	cache, err := trackingcache.NewRedisCache(
		redisClient, time.Duration(config.TrackingCacheTTLSecs)*time.Second)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		carriers:   carrier.NewRegistry(carrierA, carrierB),
		labelStore: labelStore,
		cache:      cache,
		decoders: decoders.NewResolver(
			decoders.NewCarrierADecoder(),
			decoders.NewCarrierBDecoder(),
			decoders.NewPaymentProviderDecoder(),
		),
		metrics: m,
	}, nil
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateGenerateShipmentCommandHandler() commands.GenerateShipmentCommandHandler {
	var f commands.ShipmentUoWFactory = FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewGenerateShipmentCommandHandler(
		f, c.carriers, c.labelStore, services.NewPackagePlanner())
}

func (c *CompositionRoot) CreateDeleteShipmentCommandHandler() commands.DeleteShipmentCommandHandler {
	var f commands.ShipmentUoWFactory = FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeleteShipmentCommandHandler(f, c.carriers, c.labelStore)
}

func (c *CompositionRoot) CreateRefreshTrackingCommandHandler() commands.RefreshTrackingCommandHandler {
	var f commands.ShipmentUoWFactory = FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRefreshTrackingCommandHandler(f, c.carriers, c.cache)
}

func (c *CompositionRoot) CreateIngestWebhookCommandHandler() commands.IngestWebhookCommandHandler {
	return commands.NewIngestWebhookCommandHandler(c.webhookUoWFactory())
}

func (c *CompositionRoot) CreateProcessWebhookCommandHandler() commands.ProcessWebhookCommandHandler {
	return commands.NewProcessWebhookCommandHandler(c.webhookUoWFactory(), c.decoders)
}

func (c *CompositionRoot) CreateReprocessWebhookCommandHandler() commands.ReprocessWebhookCommandHandler {
	return commands.NewReprocessWebhookCommandHandler(c.webhookUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetWebhookQueryHandler() queries.GetWebhookQueryHandler {
	return queries.NewGetWebhookQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateTaskStore() ports.TaskStore {
	return taskrepo.NewGormTaskStore(c.gormDB)
}

func (c *CompositionRoot) webhookUoWFactory() commands.WebhookUoWFactory {
	return FuncWebhookUoWFactory(func() commands.WebhookUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncWebhookUoWFactory func() commands.WebhookUoW

func (f FuncWebhookUoWFactory) Create() commands.WebhookUoW {
	return f()
}
