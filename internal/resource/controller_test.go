package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Points(t *testing.T) {
	c := NewController(Config{PointBudget: 100})

	require.NoError(t, c.AcquirePoints(50))
	assert.Equal(t, int64(50), c.PointsInFlight())

	require.NoError(t, c.AcquirePoints(40))
	assert.Equal(t, int64(90), c.PointsInFlight())

	// Over budget
	err := c.AcquirePoints(20)
	assert.ErrorIs(t, err, ErrPointBudgetExceeded)
	assert.Equal(t, int64(90), c.PointsInFlight())

	c.ReleasePoints(50)
	assert.Equal(t, int64(40), c.PointsInFlight())

	require.NoError(t, c.AcquirePoints(20))
	assert.Equal(t, int64(60), c.PointsInFlight())
	assert.Equal(t, int64(100), c.PointBudget())
}

func TestController_UnlimitedPoints(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquirePoints(1000))
	assert.Equal(t, int64(1000), c.PointsInFlight())

	c.ReleasePoints(500)
	assert.Equal(t, int64(500), c.PointsInFlight())
	assert.Equal(t, int64(0), c.PointBudget())
}

func TestController_Runs(t *testing.T) {
	c := NewController(Config{MaxConcurrentRuns: 2})

	require.NoError(t, c.AcquireRun(t.Context()))
	require.NoError(t, c.AcquireRun(t.Context()))

	assert.False(t, c.TryAcquireRun())

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireRun(ctx), context.DeadlineExceeded)

	c.ReleaseRun()
	assert.True(t, c.TryAcquireRun())
}

func TestController_Rate(t *testing.T) {
	c := NewController(Config{RequestsPerSecond: 1, Burst: 2})

	assert.True(t, c.Allow())
	assert.True(t, c.Allow())
	assert.False(t, c.Allow())
}

func TestController_Admit(t *testing.T) {
	c := NewController(Config{PointBudget: 10, MaxConcurrentRuns: 1})

	release, err := c.Admit(t.Context(), 8)
	require.NoError(t, err)
	assert.Equal(t, int64(8), c.PointsInFlight())

	_, err = c.Admit(t.Context(), 1)
	assert.ErrorIs(t, err, ErrBusy)

	release()
	release()
	assert.Equal(t, int64(0), c.PointsInFlight())

	_, err = c.Admit(t.Context(), 11)
	assert.ErrorIs(t, err, ErrPointBudgetExceeded)
	assert.True(t, c.TryAcquireRun(), "slot returned after budget failure")
}

func TestController_RateWait(t *testing.T) {
	c := NewController(Config{RequestsPerSecond: 0.001, Burst: 1})

	require.NoError(t, c.Wait(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.Wait(ctx))
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquirePoints(5))
	c.ReleasePoints(5)
	require.NoError(t, c.AcquireRun(t.Context()))
	assert.True(t, c.TryAcquireRun())
	c.ReleaseRun()
	assert.True(t, c.Allow())
	require.NoError(t, c.Wait(t.Context()))

	release, err := c.Admit(t.Context(), 3)
	require.NoError(t, err)
	release()
}

func TestController_AdmitWithDeadline(t *testing.T) {
	c := NewController(Config{MaxConcurrentRuns: 1})
	require.True(t, c.TryAcquireRun())

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	_, err := c.Admit(ctx, 1)
	assert.ErrorIs(t, err, ErrBusy)

	go func() {
		time.Sleep(10 * time.Millisecond)
		c.ReleaseRun()
	}()

	ctx, cancel = context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	release, err := c.Admit(ctx, 1)
	require.NoError(t, err)
	release()
}

func TestController_Throttle(t *testing.T) {
	c := NewController(Config{RequestsPerSecond: 0.001, Burst: 1})

	require.NoError(t, c.Throttle(t.Context()))
	assert.ErrorIs(t, c.Throttle(t.Context()), ErrRateLimited)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Throttle(ctx), ErrRateLimited)

	fast := NewController(Config{RequestsPerSecond: 1000, Burst: 1})
	require.NoError(t, fast.Throttle(t.Context()))

	ctx, cancel = context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	assert.NoError(t, fast.Throttle(ctx), "waits for the next token")

	var nilController *Controller
	assert.NoError(t, nilController.Throttle(ctx))
}
