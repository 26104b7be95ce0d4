package commands_test

import (
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateOrderStatusCommand_Success(t *testing.T) {
	orderID := kernel.NewUUID()

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, order.Confirmed, "")

	require.NoError(t, err)
	assert.NoError(t, cmd.Validate())
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, order.Confirmed, cmd.Status())
	assert.Empty(t, cmd.CancelReason())
}

func TestNewUpdateOrderStatusCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewUpdateOrderStatusCommand(kernel.UUID{}, order.Confirmed, "")

	require.Error(t, err)
}

func TestNewUpdateOrderStatusCommand_UnknownStatus(t *testing.T) {
	_, err := commands.NewUpdateOrderStatusCommand(kernel.NewUUID(), order.Unknown, "")

	require.Error(t, err)
}

func TestNewCancelOrderCommand(t *testing.T) {
	orderID := kernel.NewUUID()

	cmd, err := commands.NewCancelOrderCommand(orderID, "customer request")

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, cmd.Status())
	assert.Equal(t, "customer request", cmd.CancelReason())
}

func TestUpdateOrderStatusCommand_ValidateZeroValue(t *testing.T) {
	cmd := commands.UpdateOrderStatusCommand{}

	err := cmd.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrUpdateOrderStatusCommandIsNotConstructed)
}
