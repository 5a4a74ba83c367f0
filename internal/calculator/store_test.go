package calculator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(opts StoreOptions) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	st := NewStore(opts)
	st.now = clock.Now
	return st, clock
}

func TestStore_CreateAndUse(t *testing.T) {
	st, _ := newTestStore(StoreOptions{})

	id, err := st.Create(SettingsPatch{})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len())

	err = st.With(id, func(s *Session) error {
		_, err := s.Evaluate("2 + 2")
		return err
	})
	require.NoError(t, err)

	err = st.With(id, func(s *Session) error {
		assert.Equal(t, 4.0, s.CurrentResult())
		return nil
	})
	require.NoError(t, err)
}

func TestStore_CreateAppliesPatchToDefaults(t *testing.T) {
	st, _ := newTestStore(StoreOptions{})
	precision := 2

	id, err := st.Create(SettingsPatch{RoundingPrecision: &precision})
	require.NoError(t, err)

	require.NoError(t, st.With(id, func(s *Session) error {
		assert.Equal(t, 2, s.RoundingPrecision())
		assert.True(t, s.UsesPointAsDecimalSeparator())
		return nil
	}))

	precision = -1
	_, err = st.Create(SettingsPatch{RoundingPrecision: &precision})
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 1, st.Len())
}

func TestStore_UnknownAndDeletedSessions(t *testing.T) {
	st, _ := newTestStore(StoreOptions{})

	err := st.With("missing", func(*Session) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)

	id, err := st.Create(SettingsPatch{})
	require.NoError(t, err)
	require.NoError(t, st.Delete(id))
	assert.ErrorIs(t, st.Delete(id), ErrSessionNotFound)
	assert.ErrorIs(t, st.With(id, func(*Session) error { return nil }), ErrSessionNotFound)
}

func TestStore_Capacity(t *testing.T) {
	st, clock := newTestStore(StoreOptions{MaxSessions: 2, SessionTTL: time.Minute})

	_, err := st.Create(SettingsPatch{})
	require.NoError(t, err)
	_, err = st.Create(SettingsPatch{})
	require.NoError(t, err)

	_, err = st.Create(SettingsPatch{})
	assert.ErrorIs(t, err, ErrTooManySessions)

	// expired sessions make room
	clock.Advance(2 * time.Minute)
	_, err = st.Create(SettingsPatch{})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len())
}

func TestStore_TTL(t *testing.T) {
	st, clock := newTestStore(StoreOptions{SessionTTL: time.Minute})

	idle, err := st.Create(SettingsPatch{})
	require.NoError(t, err)
	active, err := st.Create(SettingsPatch{})
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	require.NoError(t, st.With(active, func(*Session) error { return nil }))

	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, st.Sweep())
	assert.Equal(t, 1, st.Len())
	assert.ErrorIs(t, st.With(idle, func(*Session) error { return nil }), ErrSessionNotFound)

	clock.Advance(2 * time.Minute)
	assert.ErrorIs(t, st.With(active, func(*Session) error { return nil }), ErrSessionNotFound)
	assert.Equal(t, 0, st.Len())
}

func TestStore_ConcurrentEvaluationsInOneSession(t *testing.T) {
	st := NewStore(StoreOptions{})
	id, err := st.Create(SettingsPatch{})
	require.NoError(t, err)
	require.NoError(t, st.With(id, func(s *Session) error { return s.SetMaxNumberOfResult(100) }))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.With(id, func(s *Session) error {
				_, err := s.Evaluate("1 + 1")
				return err
			})
		}()
	}
	wg.Wait()

	require.NoError(t, st.With(id, func(s *Session) error {
		assert.Len(t, s.History(), 50)
		return nil
	}))
}

func TestStore_Collector(t *testing.T) {
	st, _ := newTestStore(StoreOptions{})
	_, err := st.Create(SettingsPatch{})
	require.NoError(t, err)
	_, err = st.Create(SettingsPatch{})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(st.Collector()))

	assert.Equal(t, 2.0, testutil.ToFloat64(st.Collector()))
	count, err := testutil.GatherAndCount(reg, "calculator_sessions_active")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_SessionsCounterFollowsEvictions(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, InitMetrics())

	sessions := func() int64 {
		t.Helper()
		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if m.Name != "calculator.sessions" {
					continue
				}
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				var total int64
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
				return total
			}
		}
		return 0
	}

	st, clock := newTestStore(StoreOptions{MaxSessions: 2, SessionTTL: time.Minute})

	deleted, err := st.Create(SettingsPatch{})
	require.NoError(t, err)
	lazy, err := st.Create(SettingsPatch{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), sessions())

	require.NoError(t, st.Delete(deleted))
	assert.Equal(t, int64(1), sessions())

	// lazy expiry on access
	clock.Advance(2 * time.Minute)
	assert.ErrorIs(t, st.With(lazy, func(*Session) error { return nil }), ErrSessionNotFound)
	assert.Equal(t, int64(0), sessions())

	// sweep on a full store while creating
	_, err = st.Create(SettingsPatch{})
	require.NoError(t, err)
	_, err = st.Create(SettingsPatch{})
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	_, err = st.Create(SettingsPatch{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sessions())

	// periodic sweep
	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, st.Sweep())
	assert.Equal(t, int64(0), sessions())
	assert.Equal(t, int64(st.Len()), sessions())
}
