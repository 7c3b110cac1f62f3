package cmd

import (
	"log/slog"

	httpadapter "deliverytracker/internal/adapters/in/http"
	"deliverytracker/internal/adapters/in/ws"
	"deliverytracker/internal/adapters/out/ordersink"
	"deliverytracker/internal/adapters/out/postgres"
	"deliverytracker/internal/core/application/sessions"
	"deliverytracker/internal/core/application/usecases/commands"
	"deliverytracker/internal/core/application/usecases/queries"
	"deliverytracker/internal/core/domain/services"
	"deliverytracker/internal/jobs"
	"deliverytracker/internal/observability"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	uowFactory *postgres.GormUnitOfWorkFactory
	metrics    *observability.TrackingCollector
	sink       *ordersink.Sink
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, reg prometheus.Registerer, logger *slog.Logger) (*CompositionRoot, error) {
	metrics, err := observability.NewTrackingCollector(reg)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		metrics:    metrics,
	}
	c.sink = ordersink.NewSink(c.CreateDeliverOrderCommandHandler(), ordersink.NewBacklog(), logger)

	return c, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	handler := commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
	return &handler
}

func (c *CompositionRoot) CreateDeliverOrderCommandHandler() *commands.DeliverOrderCommandHandler {
	handler := commands.NewDeliverOrderCommandHandler(c.orderUoWFactory())
	return &handler
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateSessionRegistry() (*sessions.Registry, error) {
	routes, err := services.NewRouteGenerator(services.DefaultRouteConfig(), c.logger)
	if err != nil {
		return nil, err
	}

	cfg := sessions.Config{
		TickInterval:   c.cfg.TrackingTickInterval,
		PersistTimeout: c.cfg.TrackingPersistTimeout,
	}
	return sessions.NewRegistry(cfg, routes, c.sink, c.logger, sessions.WithObserver(c.metrics))
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.sink, c.cfg.ReconcileSchedule, c.cfg.ReconcileMaxAttempts, c.logger)
}

// CreateWebServer wires the HTTP API and the websocket endpoint around registry.
func (c *CompositionRoot) CreateWebServer(registry *sessions.Registry) (*echo.Echo, error) {
	manager := sessions.NewManager(registry, c.logger)
	tracking := ws.NewHandler(manager, c.metrics, c.cfg.TrackingSendBuffer, c.logger)

	server := httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateGetOrdersQueryHandler(),
		c.CreateGetOrderQueryHandler(),
		c.logger,
	)

	return httpadapter.NewRouter(server, httpadapter.Handlers{
		Tracking: tracking,
		Metrics:  c.metrics.Handler(),
	}, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
