package kmviz

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/hupe1980/kmviz/model"
	"github.com/hupe1980/kmviz/session"
	"github.com/hupe1980/kmviz/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourPoints() model.Dataset {
	return model.Dataset{{10, 10}, {10, 20}, {90, 90}, {90, 80}}
}

func blobs(seed uint64) model.Dataset {
	data, _ := testutil.NewRNG(seed).ClusteredPoints([]model.Point{{20, 20}, {80, 25}, {50, 80}}, 50, 4)
	return data
}

func TestNew(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		eng, err := New()
		require.NoError(t, err)
		assert.NotNil(t, eng.Logger())
	})

	t.Run("InvalidOptions", func(t *testing.T) {
		for _, opt := range []Option{WithTolerance(0), WithTolerance(-1), WithMaxIterations(0), WithRestarts(0)} {
			_, err := New(opt)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		}
	})

	t.Run("NilOptionsIgnored", func(t *testing.T) {
		_, err := New(nil, WithLogger(nil), WithMetricsCollector(nil), WithSourceFactory(nil))
		require.NoError(t, err)
	})
}

func TestEngine_StepThrough(t *testing.T) {
	ctx := context.Background()
	eng, err := New()
	require.NoError(t, err)

	data := fourPoints()
	centroids, err := eng.Initialize(ctx, data, 2, model.Manual(model.CentroidSet{{10, 10}, {90, 90}}))
	require.NoError(t, err)

	res, err := eng.Step(ctx, data, centroids, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, model.Labels{0, 0, 1, 1}, res.Labels)
	assert.Equal(t, model.CentroidSet{{10, 15}, {90, 85}}, res.Centroids)
	assert.False(t, res.Converged)

	res, err = eng.Step(ctx, data, res.Centroids, 2, res.Iteration)
	require.NoError(t, err)
	assert.Equal(t, model.Labels{0, 0, 1, 1}, res.Labels)
	assert.Equal(t, model.CentroidSet{{10, 15}, {90, 85}}, res.Centroids)
	assert.True(t, res.Converged)
	assert.Equal(t, 2, res.Iteration)
}

func TestEngine_Errors(t *testing.T) {
	ctx := context.Background()
	eng, err := New(WithSeed(1))
	require.NoError(t, err)

	t.Run("SeedCount", func(t *testing.T) {
		_, err := eng.Initialize(ctx, fourPoints(), 2, model.Manual(model.CentroidSet{{1, 1}}))
		var sc *ErrInvalidSeedCount
		require.ErrorAs(t, err, &sc)
		assert.Equal(t, 2, sc.Expected)
		assert.Equal(t, 1, sc.Actual)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.NotNil(t, errors.Unwrap(err))
	})

	t.Run("InsufficientData", func(t *testing.T) {
		_, err := eng.Run(ctx, fourPoints(), 9, model.Random())
		var ip *ErrInsufficientPoints
		require.ErrorAs(t, err, &ip)
		assert.Equal(t, 4, ip.Points)
		assert.Equal(t, 9, ip.K)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("PrevCentersMismatch", func(t *testing.T) {
		_, err := eng.Step(ctx, fourPoints(), model.CentroidSet{{1, 1}, {2, 2}, {3, 3}}, 2, 1)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("Canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := eng.Run(cctx, fourPoints(), 2, model.Random())
		assert.ErrorIs(t, err, context.Canceled)
		_, err = eng.RunBest(cctx, fourPoints(), 2, model.Random())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEngine_Determinism(t *testing.T) {
	ctx := context.Background()
	data := blobs(5)

	eng, err := New(WithSeed(42))
	require.NoError(t, err)

	for _, s := range []model.Strategy{model.Random(), model.FarthestFirst()} {
		a, err := eng.Run(ctx, data, 3, s)
		require.NoError(t, err)
		b, err := eng.Run(ctx, data, 3, s)
		require.NoError(t, err)
		assert.Equal(t, a, b)

		c, err := eng.Initialize(ctx, data, 3, s, WithCallSeed(7))
		require.NoError(t, err)
		d, err := eng.Initialize(ctx, data, 3, s, WithCallSource(NewSource(7)))
		require.NoError(t, err)
		assert.Equal(t, c, d)
	}
}

func TestEngine_RunBest(t *testing.T) {
	ctx := context.Background()
	data := blobs(8)

	eng, err := New(WithSeed(3), WithRestarts(6))
	require.NoError(t, err)

	best, err := eng.RunBest(ctx, data, 3, model.Random())
	require.NoError(t, err)
	require.Len(t, best.Centroids, 3)
	require.Len(t, best.Labels, len(data))

	again, err := eng.RunBest(ctx, data, 3, model.Random())
	require.NoError(t, err)
	assert.Equal(t, best, again)

	single, err := eng.RunBest(ctx, data, 3, model.Random(), WithCallRestarts(1))
	require.NoError(t, err)
	assert.LessOrEqual(t, best.Inertia, single.Inertia+1e-9)

	_, err = eng.RunBest(ctx, data, 3, model.Random(), WithCallRestarts(0))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	manual, err := eng.RunBest(ctx, fourPoints(), 2, model.Manual(model.CentroidSet{{10, 10}, {90, 90}}), WithCallRestarts(0))
	require.NoError(t, err)
	assert.Equal(t, model.CentroidSet{{10, 15}, {90, 85}}, manual.Centroids)
}

func TestEngine_RunFromAndCap(t *testing.T) {
	ctx := context.Background()
	eng, err := New(WithMaxIterations(1))
	require.NoError(t, err)

	res, err := eng.RunFrom(ctx, fourPoints(), model.CentroidSet{{10, 10}, {90, 90}}, 2, 0)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Iteration)

	res, err = eng.RunFrom(ctx, fourPoints(), model.CentroidSet{{10, 10}, {90, 90}}, 2, 0, WithCallMaxIterations(10))
	require.NoError(t, err)
	assert.True(t, res.Converged)
}

func TestEngine_Concurrent(t *testing.T) {
	ctx := context.Background()
	eng, err := New(WithSeed(11))
	require.NoError(t, err)
	data := blobs(2)

	want, err := eng.Run(ctx, data, 3, model.FarthestFirst())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := eng.Run(ctx, data, 3, model.FarthestFirst())
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestEngine_Metrics(t *testing.T) {
	ctx := context.Background()
	mc := &BasicMetricsCollector{}
	eng, err := New(WithMetricsCollector(mc))
	require.NoError(t, err)

	seeds := model.Manual(model.CentroidSet{{10, 10}, {90, 90}})
	_, err = eng.Initialize(ctx, fourPoints(), 2, seeds)
	require.NoError(t, err)
	_, err = eng.Initialize(ctx, fourPoints(), 3, seeds)
	require.Error(t, err)
	_, err = eng.Step(ctx, fourPoints(), model.CentroidSet{{10, 15}, {90, 85}}, 2, 1)
	require.NoError(t, err)
	_, err = eng.Run(ctx, fourPoints(), 2, seeds)
	require.NoError(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.InitializeCount)
	assert.Equal(t, int64(1), stats.InitializeErrors)
	assert.Equal(t, int64(1), stats.StepCount)
	assert.Equal(t, int64(1), stats.StepConverged)
	assert.Equal(t, int64(1), stats.RunCount)
	assert.Equal(t, int64(1), stats.RunConverged)
	assert.Equal(t, int64(2), stats.RunIterations)
}

func TestEngine_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng, err := New(WithLogger(logger))
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), fourPoints(), 2, model.Manual(model.CentroidSet{{10, 10}, {90, 90}}))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "run converged")

	_, err = eng.Initialize(context.Background(), nil, 2, model.Random())
	require.Error(t, err)
	assert.Contains(t, buf.String(), "initialize failed")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.NotContains(t, buf.String(), "level=ERROR")

	buf.Reset()
	_, err = eng.RunBest(context.Background(), fourPoints(), 2, model.Random(), WithCallRestarts(3))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "restarts completed")
	assert.Contains(t, buf.String(), "count=3")
}

func TestEngine_NewSessionLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng, err := New(WithLogger(logger), WithSeed(1))
	require.NoError(t, err)

	s, err := eng.NewSession(fourPoints(), 2, model.Random())
	require.NoError(t, err)
	_, err = s.Initialize()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "session="+s.ID())
	assert.Contains(t, out, "k=2")
	assert.Equal(t, 1, strings.Count(strings.SplitN(out, "\n", 2)[0], "session="))
}

func TestEngine_NewSession(t *testing.T) {
	eng, err := New(WithSeed(1))
	require.NoError(t, err)

	s, err := eng.NewSession(fourPoints(), 2, model.FarthestFirst())
	require.NoError(t, err)
	assert.Equal(t, session.Uninitialized, s.State())

	_, err = s.Initialize()
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, session.Converged, s.State())

	_, err = s.Step()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = eng.NewSession(fourPoints(), 0, model.Random())
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
