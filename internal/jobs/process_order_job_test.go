package jobs_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"orders/internal/adapters/out/memory"
	"orders/internal/core/application/caching"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByUser(
	ctx context.Context, userID kernel.UUID, page, limit int,
) ([]*order.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) GetStats(ctx context.Context, userID *kernel.UUID) ([]ports.StatusStat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.StatusStat), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishOrderCreated(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishOrderStatusChanged(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishOrderCancelled(ctx context.Context, aggregate *order.Order) {
	m.Called(ctx, aggregate)
}

type MockInventoryClient struct{ mock.Mock }

func (m *MockInventoryClient) CheckAvailability(ctx context.Context, items []order.Item) (bool, error) {
	args := m.Called(ctx, items)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryClient) Reserve(ctx context.Context, orderID kernel.UUID, items []order.Item) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

type MockPaymentClient struct{ mock.Mock }

func (m *MockPaymentClient) InitiatePayment(
	ctx context.Context, orderID kernel.UUID, userID kernel.UUID, amount kernel.Money,
) error {
	args := m.Called(ctx, orderID, userID, amount)
	return args.Error(0)
}

type MockJobQueue struct{ mock.Mock }

func (m *MockJobQueue) Enqueue(ctx context.Context, name string, payload any, opts ports.JobOptions) error {
	args := m.Called(ctx, name, payload, opts)
	return args.Error(0)
}

// pipelineFixture wires a process-order handler over mocks plus a shared
// in-memory cache, mirroring the composition root.
type pipelineFixture struct {
	aggregate *order.Order
	repo      *MockOrderRepository
	uow       *MockOrderUoW
	factory   *MockOrderUoWFactory
	publisher *MockEventPublisher
	inventory *MockInventoryClient
	payment   *MockPaymentClient
	jobQueue  *MockJobQueue
	handler   *jobs.ProcessOrderJob
	progress  []int
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	price, err := kernel.NewMoneyFromString("19.99")
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), "widget", 2, price)
	require.NoError(t, err)
	address, err := order.NewAddress("1 Main St", "Springfield", "12345", "US")
	require.NoError(t, err)
	aggregate, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.Item{item}, address, nil)
	require.NoError(t, err)

	cache := memory.NewCache()
	loader := caching.NewOrderLoader(cache, slog.Default())
	invalidator := caching.NewInvalidator(cache, slog.Default())

	f := &pipelineFixture{
		aggregate: aggregate,
		repo:      new(MockOrderRepository),
		uow:       new(MockOrderUoW),
		factory:   new(MockOrderUoWFactory),
		publisher: new(MockEventPublisher),
		inventory: new(MockInventoryClient),
		payment:   new(MockPaymentClient),
		jobQueue:  new(MockJobQueue),
	}

	getOrder := queries.NewGetOrderQueryHandler(f.repo, loader)
	updateStatus := commands.NewUpdateOrderStatusCommandHandler(
		f.factory, loader, invalidator, f.publisher, slog.Default())

	f.handler = jobs.NewProcessOrderJob(
		getOrder, updateStatus, f.inventory, f.payment, f.jobQueue, slog.Default())
	return f
}

func (f *pipelineFixture) job(t *testing.T) ports.Job {
	t.Helper()
	payload, err := json.Marshal(ports.ProcessOrderPayload{
		OrderID: f.aggregate.ID().String(),
		UserID:  f.aggregate.UserID().String(),
	})
	require.NoError(t, err)
	return ports.Job{
		ID:          kernel.NewUUID().String(),
		Name:        ports.JobProcessOrder,
		Payload:     payload,
		Attempt:     1,
		MaxAttempts: 3,
	}
}

func (f *pipelineFixture) progressFunc() jobs.ProgressFunc {
	return func(percent int) { f.progress = append(f.progress, percent) }
}

// expectStatusWrite arms the unit of work mocks for one updateStatus call.
// The load inside it is cache-served (the pipeline's validate step warmed the
// cache), so no repository Get is expected here.
func (f *pipelineFixture) expectStatusWrite(ctx context.Context) {
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.repo).Once()
	f.repo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
}

func TestProcessOrderJob_Run_Success(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture(t)

	f.repo.On("Get", ctx, f.aggregate.ID()).Return(f.aggregate, nil).Once()
	f.inventory.On("CheckAvailability", ctx, mock.Anything).Return(true, nil).Once()
	f.inventory.On("Reserve", ctx, f.aggregate.ID(), mock.Anything).Return(nil).Once()
	f.payment.On("InitiatePayment", ctx, f.aggregate.ID(), f.aggregate.UserID(), mock.Anything).
		Return(nil).Once()
	f.expectStatusWrite(ctx)
	f.publisher.On("PublishOrderStatusChanged", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.jobQueue.On("Enqueue", ctx, ports.JobSendNotification,
		mock.AnythingOfType("ports.SendNotificationPayload"), mock.AnythingOfType("ports.JobOptions")).
		Return(nil).Once()
	f.jobQueue.On("Enqueue", ctx, ports.JobGenerateInvoice,
		mock.AnythingOfType("ports.GenerateInvoicePayload"), mock.AnythingOfType("ports.JobOptions")).
		Return(nil).Once()

	err := f.handler.Run(ctx, f.job(t), f.progressFunc())

	require.NoError(t, err)
	assert.Equal(t, []int{20, 40, 60, 80, 100}, f.progress)
	f.inventory.AssertExpectations(t)
	f.payment.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.jobQueue.AssertExpectations(t)
}

func TestProcessOrderJob_Run_InventoryUnavailableCancelsOrder(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture(t)

	f.repo.On("Get", ctx, f.aggregate.ID()).Return(f.aggregate, nil).Once()
	f.inventory.On("CheckAvailability", ctx, mock.Anything).Return(false, nil).Once()
	// The catch path drives the order to cancelled over the swallowing publish.
	f.expectStatusWrite(ctx)
	f.publisher.On("PublishOrderCancelled", ctx, mock.AnythingOfType("*order.Order")).Once()

	err := f.handler.Run(ctx, f.job(t), f.progressFunc())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "items unavailable")
	assert.Equal(t, []int{20}, f.progress)

	written := f.repo.Calls[len(f.repo.Calls)-1].Arguments.Get(1).(*order.Order)
	assert.Equal(t, order.Cancelled, written.Status())
	assert.Contains(t, written.CancelReason(), "items unavailable")
	f.jobQueue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessOrderJob_Run_PaymentFailureCancelsOrder(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture(t)

	f.repo.On("Get", ctx, f.aggregate.ID()).Return(f.aggregate, nil).Once()
	f.inventory.On("CheckAvailability", ctx, mock.Anything).Return(true, nil).Once()
	f.inventory.On("Reserve", ctx, f.aggregate.ID(), mock.Anything).Return(nil).Once()
	f.payment.On("InitiatePayment", ctx, f.aggregate.ID(), f.aggregate.UserID(), mock.Anything).
		Return(errors.New("payment declined")).Once()
	f.expectStatusWrite(ctx)
	f.publisher.On("PublishOrderCancelled", ctx, mock.AnythingOfType("*order.Order")).Once()

	err := f.handler.Run(ctx, f.job(t), f.progressFunc())

	require.Error(t, err)
	require.EqualError(t, err, "payment declined")
	assert.Equal(t, []int{20, 40, 60}, f.progress)

	written := f.repo.Calls[len(f.repo.Calls)-1].Arguments.Get(1).(*order.Order)
	assert.Equal(t, order.Cancelled, written.Status())
	assert.Equal(t, "payment declined", written.CancelReason())
}

func TestProcessOrderJob_Run_CancelFailureStillReturnsPipelineError(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture(t)

	f.repo.On("Get", ctx, f.aggregate.ID()).Return(f.aggregate, nil).Once()
	f.inventory.On("CheckAvailability", ctx, mock.Anything).Return(false, nil).Once()
	// Cancellation itself fails at the store; the pipeline error still wins.
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.repo).Once()
	f.repo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(errors.New("store down")).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	err := f.handler.Run(ctx, f.job(t), f.progressFunc())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "items unavailable")
}

func TestProcessOrderJob_Run_MalformedPayload(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture(t)

	err := f.handler.Run(ctx, ports.Job{
		ID:      "job-1",
		Name:    ports.JobProcessOrder,
		Payload: json.RawMessage("{broken"),
	}, f.progressFunc())

	require.Error(t, err)
	f.repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
