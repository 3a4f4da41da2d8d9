package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is an adjustable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "worldbank|indicator|DEU|NY.GDP.MKTP.CD",
		Key("worldbank", "indicator", "DEU", "NY.GDP.MKTP.CD"))
	assert.Equal(t, "a", Key("a"))
}

func TestGetOrComputeCachesWithinTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	calls := 0
	fetch := func() (string, error) {
		calls++
		return "value", nil
	}

	got, err := GetOrCompute(c, "k", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	clock.Advance(30 * time.Minute)
	got, err = GetOrCompute(c, "k", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", got)
	assert.Equal(t, 1, calls)
}

func TestGetOrComputeExpiry(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	calls := 0
	fetch := func() (int, error) {
		calls++
		return calls, nil
	}

	first, err := GetOrCompute(c, "k", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	clock.Advance(2 * time.Hour)
	second, err := GetOrCompute(c, "k", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, second)
}

func TestGetOrComputeDoesNotCacheFailures(t *testing.T) {
	c := New()

	calls := 0
	fetch := func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("upstream down")
		}
		return "recovered", nil
	}

	_, err := GetOrCompute(c, "k", time.Hour, fetch)
	require.Error(t, err)

	got, err := GetOrCompute(c, "k", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, 2, calls)
}

func TestKeysAreIndependent(t *testing.T) {
	c := New()

	a, err := GetOrCompute(c, "a", time.Hour, func() (int, error) { return 1, nil })
	require.NoError(t, err)
	b, err := GetOrCompute(c, "b", time.Hour, func() (int, error) { return 2, nil })
	require.NoError(t, err)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 2, c.Len())
}

func TestPurge(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	_, err := GetOrCompute(c, "short", time.Minute, func() (int, error) { return 1, nil })
	require.NoError(t, err)
	_, err = GetOrCompute(c, "long", time.Hour, func() (int, error) { return 2, nil })
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 1, c.Len())
}

func TestConcurrentAccess(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := GetOrCompute(c, "shared", time.Hour, func() (string, error) {
				return "v", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "v", got)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}
