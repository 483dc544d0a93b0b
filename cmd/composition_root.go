package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpin "ordering/internal/adapters/in/http"
	"ordering/internal/adapters/out/broadcast"
	"ordering/internal/adapters/out/catalogcache"
	"ordering/internal/adapters/out/geocoder"
	"ordering/internal/adapters/out/metrics"
	"ordering/internal/adapters/out/postgres"
	"ordering/internal/adapters/out/postgres/catalogrepo"
	"ordering/internal/adapters/out/postgres/orderrepo"
	"ordering/internal/adapters/out/postgres/zonerepo"
	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/services"
	"ordering/internal/jobs"
	"ordering/internal/pkg/clock"
	"ordering/internal/pkg/wire"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var errNoDatabase = errors.New("database handle is required")

type CompositionRoot struct {
	cfg    Config
	gormDB *gorm.DB
	clock  clock.Clock
	logger *slog.Logger

	uowFactory *postgres.GormUnitOfWorkFactory
	catalog    *catalogrepo.GormCatalogRepository
	menu       *catalogcache.Cache
	zones      *zonerepo.GormZoneRepository
	assembler  *services.OrderAssembler

	metrics   *metrics.Collector
	hub       *broadcast.Hub
	relay     *broadcast.RabbitRelay
	publisher *broadcast.Publisher
}

// NewCompositionRoot builds the object graph. The rabbit relay is dialed
// only when RABBITMQ_URL is set; otherwise events go straight to the hub.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	if gormDB == nil {
		return nil, errNoDatabase
	}
	if logger == nil {
		logger = slog.Default()
	}

	clk := clock.System{}
	collector := metrics.NewCollector()
	hub := broadcast.NewHub(broadcast.HubConfig{}, collector, logger)

	var sink broadcast.Sink = hub
	var relay *broadcast.RabbitRelay
	if cfg.RabbitMQURL != "" {
		var err error
		relay, err = broadcast.DialRabbitRelay(cfg.RabbitMQURL, cfg.EventsExchange, hub, logger)
		if err != nil {
			return nil, err
		}
		sink = relay
	}

	notices, err := wire.NewNotifier(cfg.Currency)
	if err != nil {
		return nil, fmt.Errorf("CURRENCY: %w", err)
	}
	publisher := broadcast.NewPublisher(sink, notices, broadcast.DefaultPublisherBuffer, collector, logger)

	catalog := catalogrepo.NewGormCatalogRepository(gormDB, clk)
	menu, err := catalogcache.New(catalog, clk, cfg.CatalogTTL, logger)
	if err != nil {
		return nil, err
	}
	zones := zonerepo.NewGormZoneRepository(gormDB)
	geo, err := geocoder.New(cfg.GeocoderURL, cfg.GeocoderTimeout, logger)
	if err != nil {
		return nil, err
	}
	assembler, err := services.NewOrderAssembler(menu, zones, geo, clk)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		clock:      clk,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, collector.InstrumentPublisher(publisher)),
		catalog:    catalog,
		menu:       menu,
		zones:      zones,
		assembler:  assembler,
		metrics:    collector,
		hub:        hub,
		relay:      relay,
		publisher:  publisher,
	}, nil
}

// Seed loads the optional zone and menu files into the database.
func (c *CompositionRoot) Seed(ctx context.Context) error {
	if c.cfg.ZonesFile != "" {
		zs, err := zonerepo.LoadSeedFile(c.cfg.ZonesFile)
		if err != nil {
			return fmt.Errorf("ZONES_FILE: %w", err)
		}
		if err = c.zones.Upsert(ctx, zs); err != nil {
			return err
		}
		c.logger.InfoContext(ctx, "zones seeded", "count", len(zs), "file", c.cfg.ZonesFile)
	}

	if c.cfg.MenuFile != "" {
		items, err := catalogrepo.LoadSeedFile(c.cfg.MenuFile)
		if err != nil {
			return fmt.Errorf("MENU_FILE: %w", err)
		}
		if err = c.catalog.Replace(ctx, items); err != nil {
			return err
		}
		c.menu.Invalidate()
		c.logger.InfoContext(ctx, "menu seeded", "items", len(items), "file", c.cfg.MenuFile)
	}
	return nil
}

// StartBroadcasting runs the publisher and, when configured, the relay
// consumer until ctx is done.
func (c *CompositionRoot) StartBroadcasting(ctx context.Context) {
	go c.publisher.Run(ctx)

	if c.relay != nil {
		go func() {
			if err := c.relay.Consume(ctx, nil); err != nil {
				c.logger.ErrorContext(ctx, "event relay stopped", "error", err)
			}
		}()
	}
}

// Close stops accepting events, waits for the queue to drain when the
// publisher was started, and disconnects every client.
func (c *CompositionRoot) Close(ctx context.Context) error {
	c.publisher.Close()
	select {
	case <-c.publisher.Done():
	case <-ctx.Done():
	}

	c.hub.Close()
	if c.relay != nil {
		return c.relay.Close()
	}
	return nil
}

func (c *CompositionRoot) CreatePlaceTableOrderCommandHandler() commands.PlaceTableOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceTableOrderCommandHandler(c.assembler, f)
}

func (c *CompositionRoot) CreatePlaceDeliveryOrderCommandHandler() commands.PlaceDeliveryOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceDeliveryOrderCommandHandler(c.assembler, f)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateRepriceOrderQueryHandler() queries.RepriceOrderQueryHandler {
	return queries.NewRepriceOrderQueryHandler(c.assembler)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(orderrepo.NewGormOrderReader(c.gormDB))
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderReader(c.gormDB))
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.menu, c.cfg.CatalogRefreshSchedule, c.logger)
}

// CreateRouter mounts the API, event channel, metrics and docs.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := httpin.NewServer(
		c.CreatePlaceTableOrderCommandHandler(),
		c.CreatePlaceDeliveryOrderCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateRepriceOrderQueryHandler(),
		c.CreateGetOrdersQueryHandler(),
		c.CreateGetOrderQueryHandler(),
	)
	return httpin.NewRouter(httpin.RouterConfig{
		Server:     server,
		Events:     c.hub,
		Metrics:    c.metrics.Handler(),
		Instrument: c.metrics.Middleware(),
		Logger:     c.logger,
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
