package actions

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cryptobooking/booking-client/internal/session/sessiontest"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryInFlight(t *testing.T) {
	tokens := NewMemoryInFlight()
	ctx := context.Background()

	release, err := tokens.Acquire(ctx, "0xAbC")
	require.NoError(t, err)

	_, err = tokens.Acquire(ctx, "0xabc")
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))

	other, err := tokens.Acquire(ctx, "0xdef")
	require.NoError(t, err)
	other(ctx)

	release(ctx)
	release(ctx)
	again, err := tokens.Acquire(ctx, "0xabc")
	require.NoError(t, err)
	again(ctx)
}

type fakeTokenStore struct {
	mu     sync.Mutex
	data   map[string]string
	setErr error
	delErr error
}

func (f *fakeTokenStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return false, f.setErr
	}
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeTokenStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeTokenStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeTokenStore) InFlightKey(account string) string {
	return "cb:inflight:" + strings.ToLower(account)
}

func TestRedisInFlight(t *testing.T) {
	store := &fakeTokenStore{data: map[string]string{}}
	tokens, err := NewRedisInFlight(store, 0, sessiontest.Logger())
	require.NoError(t, err)
	ctx := context.Background()

	release, err := tokens.Acquire(ctx, "0xAbC")
	require.NoError(t, err)
	_, err = tokens.Acquire(ctx, "0xabc")
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))

	release(ctx)
	require.Empty(t, store.data)
}

func TestRedisInFlightReleaseKeepsForeignOwner(t *testing.T) {
	store := &fakeTokenStore{data: map[string]string{}}
	tokens, err := NewRedisInFlight(store, time.Minute, sessiontest.Logger())
	require.NoError(t, err)
	ctx := context.Background()

	release, err := tokens.Acquire(ctx, "0xabc")
	require.NoError(t, err)
	store.data["cb:inflight:0xabc"] = "someone-else"
	release(ctx)
	require.Equal(t, "someone-else", store.data["cb:inflight:0xabc"])
}

func TestRedisInFlightStoreFailure(t *testing.T) {
	store := &fakeTokenStore{data: map[string]string{}, setErr: errors.New("redis down")}
	tokens, err := NewRedisInFlight(store, time.Minute, sessiontest.Logger())
	require.NoError(t, err)

	_, err = tokens.Acquire(context.Background(), "0xabc")
	require.Equal(t, pkgerrors.CodeDependency, pkgerrors.CodeOf(err))

	_, err = NewRedisInFlight(nil, time.Minute, sessiontest.Logger())
	require.Error(t, err)
	_, err = NewRedisInFlight(store, time.Minute, nil)
	require.Error(t, err)
}

func TestRedisInFlightLogsFailedRelease(t *testing.T) {
	store := &fakeTokenStore{data: map[string]string{}, delErr: errors.New("connection reset")}
	buf := &bytes.Buffer{}
	tokens, err := NewRedisInFlight(store, time.Minute, logger.New(logger.Options{ServiceName: "test", Output: buf}))
	require.NoError(t, err)
	ctx := context.Background()

	release, err := tokens.Acquire(ctx, "0xabc")
	require.NoError(t, err)
	release(ctx)

	require.Contains(t, buf.String(), "in-flight token release failed")
	require.Contains(t, buf.String(), "connection reset")
	require.Contains(t, buf.String(), "cb:inflight:0xabc")
	require.Contains(t, store.data, "cb:inflight:0xabc")
}
