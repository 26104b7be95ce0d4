package errs_test

import (
	"errors"
	"testing"

	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "123")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "123", cause)

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("errors.Is matches sentinel", func(t *testing.T) {
		var err error = errs.NewObjectNotFoundError("orderId", "123")
		assert.True(t, errors.Is(err, errs.ErrObjectNotFound))
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("userId")

		assert.Equal(t, "userId", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: userId", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("userId", cause)

		assert.Equal(t, "userId", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: userId (cause: invalid format)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("quantity", 0, 1, 1000)

		assert.Equal(t, "quantity", err.ParamName)
		assert.Equal(t, 0, err.Value)
		assert.Equal(t, 1, err.Min)
		assert.Equal(t, 1000, err.Max)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is out of range: 0 is quantity, min value is 1, max value is 1000", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("items")

		assert.Equal(t, "items", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: items", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestInvalidStatusTransitionError(t *testing.T) {
	err := errs.NewInvalidStatusTransitionError("Delivered", "Processing")

	assert.Equal(t, "Delivered", err.From)
	assert.Equal(t, "Processing", err.To)
	assert.Equal(t, "status transition is not allowed: Delivered -> Processing", err.Error())
	assert.True(t, errors.Is(err, errs.ErrInvalidStatusTransition))
}

func TestPublishFailedError(t *testing.T) {
	cause := errors.New("broker unreachable")
	err := errs.NewPublishFailedError("kafka", "order-events", cause)

	assert.Equal(t, "kafka", err.Broker)
	assert.Equal(t, "order-events", err.Topic)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t,
		"event publish failed: broker is: kafka, topic is: order-events (cause: broker unreachable)",
		err.Error())
	assert.True(t, errors.Is(err, errs.ErrPublishFailed))
}

func TestVersionConflictError(t *testing.T) {
	err := errs.NewVersionConflictError("order", "123", 4)

	assert.Equal(t, "order", err.ParamName)
	assert.Equal(t, "123", err.ID)
	assert.Equal(t, 4, err.Version)
	assert.Equal(t, "version conflict: param is: order, ID is: 123, expected version is: 4", err.Error())
	assert.True(t, errors.Is(err, errs.ErrVersionConflict))
}
