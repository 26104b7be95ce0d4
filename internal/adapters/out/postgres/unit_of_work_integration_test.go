package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "orders/internal/adapters/out/postgres"
	"orders/internal/adapters/out/postgres/jobrepo"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work, order repository, and job queue against a real
// PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	jobs      *jobrepo.GormJobQueue
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
// Runs database migrations to prepare schema for unit of work operations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
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

	// Connect to database
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Run migrations
	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.ItemDTO{}, &jobrepo.JobDTO{})
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
	suite.jobs = jobrepo.NewGormJobQueue(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, jobs").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWork_TransactionLifecycle verifies proper transaction management
// including begin, commit, and rollback operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	// Multiple begin calls are safe
	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_AddAndGet verifies an order with its lines round-trips
// through the repository within a committed transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AddAndGet() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder(kernel.NewUUID())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	retrieved, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
	suite.Equal(order.Pending, retrieved.Status())
	suite.Len(retrieved.Items(), 2)
	suite.True(testOrder.TotalAmount().IsEqual(retrieved.TotalAmount()))
	suite.Equal(1, retrieved.Version())
}

// TestUnitOfWork_GetUnknownOrder verifies the not-found error for unknown ids.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_GetUnknownOrder() {
	ctx := context.Background()
	uow := suite.factory.Create()

	_, err := uow.OrderRepository().Get(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// TestUnitOfWork_UpdateAdvancesVersion verifies a status change bumps the
// stored version and a stale aggregate can no longer write.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_UpdateAdvancesVersion() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder(kernel.NewUUID())
	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// First writer loads and confirms the order.
	first, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	// Second writer holds the same version.
	second, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	err = first.ChangeStatus(order.Confirmed, "")
	suite.Require().NoError(err)
	err = uow.OrderRepository().Update(ctx, first)
	suite.Require().NoError(err)

	// The stale writer loses the race.
	err = second.Cancel("changed my mind")
	suite.Require().NoError(err)
	err = uow.OrderRepository().Update(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrVersionConflict)

	retrieved, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, retrieved.Status())
	suite.Equal(2, retrieved.Version())
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes
// made within the transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder(kernel.NewUUID())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Visible inside the transaction
	_, err = uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")
}

// TestOrderRepository_GetByUser verifies pagination and ordering of a user's orders.
func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_GetByUser() {
	ctx := context.Background()
	uow := suite.factory.Create()
	repo := uow.OrderRepository()

	userID := kernel.NewUUID()
	otherUser := kernel.NewUUID()

	for range 3 {
		err := repo.Add(ctx, suite.createTestOrder(userID))
		suite.Require().NoError(err)
	}
	err := repo.Add(ctx, suite.createTestOrder(otherUser))
	suite.Require().NoError(err)

	orders, total, err := repo.GetByUser(ctx, userID, 1, 2)
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(orders, 2)
	for _, o := range orders {
		suite.Equal(userID, o.UserID())
	}

	orders, total, err = repo.GetByUser(ctx, userID, 2, 2)
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(orders, 1)

	orders, total, err = repo.GetByUser(ctx, kernel.NewUUID(), 1, 10)
	suite.Require().NoError(err)
	suite.Zero(total)
	suite.Empty(orders)
}

// TestOrderRepository_GetStats verifies the grouped status aggregation,
// both globally and scoped to one user.
func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_GetStats() {
	ctx := context.Background()
	uow := suite.factory.Create()
	repo := uow.OrderRepository()

	userID := kernel.NewUUID()
	otherUser := kernel.NewUUID()

	pending := suite.createTestOrder(userID)
	err := repo.Add(ctx, pending)
	suite.Require().NoError(err)

	confirmed := suite.createTestOrder(userID)
	err = repo.Add(ctx, confirmed)
	suite.Require().NoError(err)
	err = confirmed.ChangeStatus(order.Confirmed, "")
	suite.Require().NoError(err)
	err = repo.Update(ctx, confirmed)
	suite.Require().NoError(err)

	err = repo.Add(ctx, suite.createTestOrder(otherUser))
	suite.Require().NoError(err)

	stats, err := repo.GetStats(ctx, nil)
	suite.Require().NoError(err)
	suite.Len(stats, 2)

	byStatus := make(map[order.Status]ports.StatusStat, len(stats))
	for _, stat := range stats {
		byStatus[stat.Status] = stat
	}
	suite.Equal(int64(2), byStatus[order.Pending].Count)
	suite.Equal(int64(1), byStatus[order.Confirmed].Count)
	suite.True(byStatus[order.Confirmed].TotalAmount.IsEqual(confirmed.TotalAmount()))

	userStats, err := repo.GetStats(ctx, &userID)
	suite.Require().NoError(err)
	suite.Len(userStats, 2)
	for _, stat := range userStats {
		suite.Equal(int64(1), stat.Count)
	}
}

// TestJobQueue_EnqueueFetchComplete verifies the basic claim cycle: a due
// job is fetched exactly once, reports progress, and disappears on completion.
func (suite *UnitOfWorkIntegrationTestSuite) TestJobQueue_EnqueueFetchComplete() {
	ctx := context.Background()

	err := suite.jobs.Enqueue(ctx, "process-order", map[string]string{"orderId": "o-1"}, ports.JobOptions{
		Attempts: 3,
		Backoff:  ports.Backoff{Type: ports.BackoffExponential, InitialDelay: 0},
	})
	suite.Require().NoError(err)

	jobs, err := suite.jobs.FetchDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(jobs, 1)
	suite.Equal("process-order", jobs[0].Name)
	suite.Equal(1, jobs[0].Attempt)
	suite.Equal(3, jobs[0].MaxAttempts)

	// A claimed job is invisible to other fetches.
	again, err := suite.jobs.FetchDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(again)

	err = suite.jobs.ReportProgress(ctx, jobs[0].ID, 60)
	suite.Require().NoError(err)

	err = suite.jobs.Complete(ctx, jobs[0].ID)
	suite.Require().NoError(err)

	var count int64
	err = suite.db.Table("jobs").Count(&count).Error
	suite.Require().NoError(err)
	suite.Zero(count)
}

// TestJobQueue_DedupKey verifies a second enqueue with the same dedup key is a no-op.
func (suite *UnitOfWorkIntegrationTestSuite) TestJobQueue_DedupKey() {
	ctx := context.Background()
	opts := ports.JobOptions{Attempts: 3, DedupKey: "process-order:o-1"}

	err := suite.jobs.Enqueue(ctx, "process-order", map[string]string{"orderId": "o-1"}, opts)
	suite.Require().NoError(err)

	err = suite.jobs.Enqueue(ctx, "process-order", map[string]string{"orderId": "o-1"}, opts)
	suite.Require().NoError(err)

	var count int64
	err = suite.db.Table("jobs").Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
}

// TestJobQueue_FailAndRetry verifies a failed attempt reschedules the job
// with a backoff delay until attempts are exhausted.
func (suite *UnitOfWorkIntegrationTestSuite) TestJobQueue_FailAndRetry() {
	ctx := context.Background()

	err := suite.jobs.Enqueue(ctx, "process-order", map[string]string{"orderId": "o-1"}, ports.JobOptions{
		Attempts: 2,
		Backoff:  ports.Backoff{Type: ports.BackoffExponential, InitialDelay: 0},
	})
	suite.Require().NoError(err)

	jobs, err := suite.jobs.FetchDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(jobs, 1)

	err = suite.jobs.Fail(ctx, jobs[0].ID, context.DeadlineExceeded)
	suite.Require().NoError(err)

	// Zero backoff makes the retry due immediately.
	jobs, err = suite.jobs.FetchDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(jobs, 1)
	suite.Equal(2, jobs[0].Attempt)

	// Final attempt fails: the job stays in a dead state.
	err = suite.jobs.Fail(ctx, jobs[0].ID, context.DeadlineExceeded)
	suite.Require().NoError(err)

	jobs, err = suite.jobs.FetchDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(jobs)

	var status string
	err = suite.db.Table("jobs").Select("status").Scan(&status).Error
	suite.Require().NoError(err)
	suite.Equal("failed", status)
}

// TestOrderRepository_WritesWithoutTracker verifies the repository works
// without an aggregate tracker, the configuration the read side uses.
func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_WritesWithoutTracker() {
	ctx := context.Background()
	repo := orderrepo.NewGormOrderRepository(suite.db, nil)

	testOrder := suite.createTestOrder(kernel.NewUUID())
	err := repo.Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = testOrder.ChangeStatus(order.Confirmed, "")
	suite.Require().NoError(err)
	err = repo.Update(ctx, testOrder)
	suite.Require().NoError(err)

	retrieved, err := repo.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, retrieved.Status())
	suite.Equal(2, retrieved.Version())
}

// TestJobQueue_ReclaimsAbandonedJobs verifies an active job whose worker died
// becomes claimable again once its last update is old enough, and is moved to
// failed instead when its attempts are already exhausted.
func (suite *UnitOfWorkIntegrationTestSuite) TestJobQueue_ReclaimsAbandonedJobs() {
	ctx := context.Background()

	err := suite.jobs.Enqueue(ctx, "process-order", map[string]string{"orderId": "o-1"}, ports.JobOptions{
		Attempts: 2,
	})
	suite.Require().NoError(err)

	jobs, err := suite.jobs.FetchDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(jobs, 1)

	// The worker dies without completing or failing the job.
	stale := time.Now().UTC().Add(-10 * time.Minute)
	err = suite.db.Table("jobs").Where("id = ?", jobs[0].ID).
		Update("updated_at", stale).Error
	suite.Require().NoError(err)

	reclaimed, err := suite.jobs.FetchDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(reclaimed, 1)
	suite.Equal(jobs[0].ID, reclaimed[0].ID)
	suite.Equal(2, reclaimed[0].Attempt)

	// Dies again on the final attempt: the job moves to failed, not back
	// into rotation.
	err = suite.db.Table("jobs").Where("id = ?", jobs[0].ID).
		Update("updated_at", stale).Error
	suite.Require().NoError(err)

	jobs, err = suite.jobs.FetchDue(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(jobs)

	var status string
	err = suite.db.Table("jobs").Select("status").Scan(&status).Error
	suite.Require().NoError(err)
	suite.Equal("failed", status)
}

// createTestOrder creates a valid two-line order for testing purposes.
func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder(userID kernel.UUID) *order.Order {
	price, err := kernel.NewMoneyFromString("19.99")
	suite.Require().NoError(err)

	itemOne, err := order.NewItem(kernel.NewUUID(), "widget", 2, price)
	suite.Require().NoError(err)
	itemTwo, err := order.NewItem(kernel.NewUUID(), "gadget", 1, price)
	suite.Require().NoError(err)

	address, err := order.NewAddress("1 Main St", "Springfield", "12345", "US")
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(kernel.NewUUID(), userID, []order.Item{itemOne, itemTwo}, address, nil)
	suite.Require().NoError(err)
	return testOrder
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
