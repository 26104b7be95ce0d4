package cmd

import (
	"log/slog"
	"strconv"
	"time"

	"orders/internal/adapters/out/postgres"
	"orders/internal/adapters/out/postgres/jobrepo"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/adapters/out/services"
	"orders/internal/core/application/caching"
	"orders/internal/core/application/events"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/ports"
	"orders/internal/jobs"

	"gorm.io/gorm"
)

const (
	defaultWorkerPoolSize = 4
	defaultServiceTimeout = 5 * time.Second
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	cache      ports.Cache
	jobQueue   *jobrepo.GormJobQueue
	publisher  *events.Publisher
	logger     *slog.Logger
}

func NewCompositionRoot(
	configs Config,
	gormDB *gorm.DB,
	cache ports.Cache,
	stream ports.EventStream,
	queue ports.EventQueue,
	logger *slog.Logger,
) CompositionRoot {
	publisher := events.NewPublisher(stream, queue, events.Destinations{
		StreamTopic:        configs.KafkaOrdersTopic,
		EventsQueue:        configs.NatsEventsQueue,
		NotificationsQueue: configs.NatsNotificationsQueue,
	}, logger)

	return CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		cache:      cache,
		jobQueue:   jobrepo.NewGormJobQueue(gormDB),
		publisher:  publisher,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(), c.createInvalidator(), c.publisher, c.jobQueue, c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(
		c.orderUoWFactory(), c.createLoader(), c.createInvalidator(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.readRepository(), c.createLoader())
}

func (c *CompositionRoot) CreateGetUserOrdersQueryHandler() queries.GetUserOrdersQueryHandler {
	return queries.NewGetUserOrdersQueryHandler(c.readRepository(), c.cache, c.logger)
}

func (c *CompositionRoot) CreateGetOrderStatsQueryHandler() queries.GetOrderStatsQueryHandler {
	return queries.NewGetOrderStatsQueryHandler(c.readRepository())
}

// CreateJobManager assembles the fulfillment worker with its three handlers.
// Call it once: worker metrics register into the default prometheus registry.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	timeout := c.serviceTimeout()
	inventory := services.NewInventoryClient(c.configs.InventoryServiceURL, timeout)
	payment := services.NewPaymentClient(c.configs.PaymentServiceURL, timeout)
	notifications := services.NewNotificationClient(c.configs.NotificationServiceURL, timeout)
	invoices := services.NewInvoiceGenerator(c.configs.InvoiceServiceURL, timeout)

	worker := jobs.NewWorker(c.jobQueue, c.workerPoolSize(), jobs.NewWorkerMetrics(), c.logger)
	worker.Register(ports.JobProcessOrder, jobs.NewProcessOrderJob(
		c.CreateGetOrderQueryHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		inventory,
		payment,
		c.jobQueue,
		c.logger,
	))
	worker.Register(ports.JobSendNotification, jobs.NewSendNotificationJob(notifications, c.logger))
	worker.Register(ports.JobGenerateInvoice, jobs.NewGenerateInvoiceJob(
		c.CreateGetOrderQueryHandler(), invoices, c.logger))

	return jobs.NewJobManager(worker, c.logger)
}

// readRepository builds a repository outside any unit of work for the query
// side. Nothing on the read path tracks aggregates.
func (c *CompositionRoot) readRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(c.gormDB, nil)
}

func (c *CompositionRoot) createLoader() *caching.OrderLoader {
	return caching.NewOrderLoader(c.cache, c.logger)
}

func (c *CompositionRoot) createInvalidator() *caching.Invalidator {
	return caching.NewInvalidator(c.cache, c.logger)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) workerPoolSize() int {
	size, err := strconv.Atoi(c.configs.WorkerPoolSize)
	if err != nil || size < 1 {
		return defaultWorkerPoolSize
	}
	return size
}

func (c *CompositionRoot) serviceTimeout() time.Duration {
	timeout, err := time.ParseDuration(c.configs.ServiceTimeout)
	if err != nil || timeout <= 0 {
		return defaultServiceTimeout
	}
	return timeout
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
