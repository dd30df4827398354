package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errFlaky = errors.New("flaky")

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	var retries []int

	err := Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	},
		WithMaxAttempts(3),
		WithInitialDelay(time.Millisecond),
		WithJitter(0),
		WithOnRetry(func(attempt int, _ error, _ time.Duration) { retries = append(retries, attempt) }),
	)

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestDo_ReturnsLastErrorWhenExhausted(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return errFlaky
	}, WithMaxAttempts(2), WithInitialDelay(time.Millisecond))

	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 2, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(errFlaky)
	}, WithMaxAttempts(5))

	assert.Equal(t, errFlaky, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetryIfFalseStops(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return errFlaky
	}, WithRetryIf(func(error) bool { return false }))

	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoWithData(t *testing.T) {
	n := 0
	v, err := DoWithData(context.Background(), func(context.Context) (string, error) {
		n++
		if n == 1 {
			return "", errFlaky
		}
		return "ok", nil
	}, WithInitialDelay(time.Millisecond))

	assert.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestDelay_CappedAtMax(t *testing.T) {
	r := New(WithInitialDelay(time.Second), WithMaxDelay(2*time.Second), WithJitter(0))
	assert.Equal(t, time.Second, r.delay(1))
	assert.Equal(t, 2*time.Second, r.delay(2))
	assert.Equal(t, 2*time.Second, r.delay(10))
}
