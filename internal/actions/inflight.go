package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultInFlightTTL = 10 * time.Minute

func errInFlight() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "Another transaction is already pending for this account")
}

// InFlight admits at most one write per account at a time.
type InFlight interface {
	// Acquire returns a release func, or a CONFLICT error when a write is
	// already in flight for account.
	Acquire(ctx context.Context, account string) (func(context.Context), error)
}

// MemoryInFlight tracks in-flight writes inside this process.
type MemoryInFlight struct {
	mu     sync.Mutex
	owners map[string]string
}

// NewMemoryInFlight returns an empty in-process token table.
func NewMemoryInFlight() *MemoryInFlight {
	return &MemoryInFlight{owners: make(map[string]string)}
}

func (m *MemoryInFlight) Acquire(_ context.Context, account string) (func(context.Context), error) {
	key := strings.ToLower(account)
	owner := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.owners[key]; busy {
		return nil, errInFlight()
	}
	m.owners[key] = owner
	return func(context.Context) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.owners[key] == owner {
			delete(m.owners, key)
		}
	}, nil
}

// inFlightStore defines the operations used by RedisInFlight.
type inFlightStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	InFlightKey(account string) string
}

// RedisInFlight implements InFlight using Redis SETNX + TTL so that every
// process sharing the redis instance sees the same tokens.
type RedisInFlight struct {
	client inFlightStore
	ttl    time.Duration
	logg   *logger.Logger
}

// NewRedisInFlight constructs a Redis-backed token table.
func NewRedisInFlight(client inFlightStore, ttl time.Duration, logg *logger.Logger) (*RedisInFlight, error) {
	if client == nil {
		return nil, errors.New("redis client required for in-flight tokens")
	}
	if logg == nil {
		return nil, errors.New("logger required for in-flight tokens")
	}
	if ttl <= 0 {
		ttl = defaultInFlightTTL
	}
	return &RedisInFlight{client: client, ttl: ttl, logg: logg}, nil
}

func (r *RedisInFlight) Acquire(ctx context.Context, account string) (func(context.Context), error) {
	key := r.client.InFlightKey(account)
	owner := uuid.NewString()
	ok, err := r.client.SetNX(ctx, key, owner, r.ttl)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("setnx: %w", err), "in-flight token unavailable")
	}
	if !ok {
		return nil, errInFlight()
	}
	return func(ctx context.Context) {
		if err := r.release(ctx, key, owner); err != nil {
			r.logg.Warn(r.logg.WithFields(ctx, map[string]any{
				"error":     err.Error(),
				"token_key": key,
				"ttl":       r.ttl.String(),
			}), "in-flight token release failed, held until ttl")
		}
	}, nil
}

// release frees the token only if the owner value still matches.
func (r *RedisInFlight) release(ctx context.Context, key, owner string) error {
	value, err := r.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("read token owner: %w", err)
	}
	if value != owner {
		return nil
	}
	if err := r.client.Del(ctx, key); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
