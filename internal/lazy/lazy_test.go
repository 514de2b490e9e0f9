package lazy

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazy_LoadsOnce(t *testing.T) {
	calls := 0
	l := New(func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})

	assert.False(t, l.IsLoaded())

	for i := 0; i < 3; i++ {
		v, err := l.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}

	assert.Equal(t, 1, calls)
	assert.True(t, l.IsLoaded())
}

func TestLazy_ErrorIsCachedUntilReset(t *testing.T) {
	calls := 0
	l := New(func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("boom")
		}
		return "ok", nil
	})

	_, err := l.Get(context.Background())
	require.Error(t, err)

	// Error is cached; loader not retried
	_, err = l.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	l.Reset()
	v, err := l.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestLazy_ConcurrentGet(t *testing.T) {
	calls := 0
	l := New(func(ctx context.Context) (int, error) {
		calls++
		return 7, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := l.Get(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 7, v)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
}
