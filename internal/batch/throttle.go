package batch

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCooldown is the minimum wait between an actor's batch mutations.
const DefaultCooldown = time.Hour

// Cooldown is the per-actor batch throttle. Reserve is atomic: of two
// concurrent callers only one wins the window. Release returns the slot when
// a batch fails before committing, so a rejected batch does not cost the
// actor their window.
type Cooldown interface {
	Reserve(ctx context.Context, actorID string) (ok bool, remaining time.Duration, err error)
	Release(ctx context.Context, actorID string) error
}

const cooldownPrefix = "batch:cooldown:"

// RedisCooldown enforces the window with SET NX PX, which is the atomic
// compare-and-set across instances.
type RedisCooldown struct {
	Client *redis.Client
	Window time.Duration
}

func (r *RedisCooldown) window() time.Duration {
	if r.Window > 0 {
		return r.Window
	}
	return DefaultCooldown
}

func (r *RedisCooldown) Reserve(ctx context.Context, actorID string) (bool, time.Duration, error) {
	key := cooldownPrefix + actorID
	set, err := r.Client.SetNX(ctx, key, time.Now().Unix(), r.window()).Result()
	if err != nil {
		return false, 0, err
	}
	if set {
		return true, 0, nil
	}
	ttl, err := r.Client.PTTL(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl < 0 {
		ttl = 0
	}
	return false, ttl, nil
}

func (r *RedisCooldown) Release(ctx context.Context, actorID string) error {
	return r.Client.Del(ctx, cooldownPrefix+actorID).Err()
}

// MemoryCooldown is the single-process fallback (and the one tests use when
// they don't care about Redis).
type MemoryCooldown struct {
	Window time.Duration

	mu    sync.Mutex
	until map[string]time.Time
}

func (m *MemoryCooldown) window() time.Duration {
	if m.Window > 0 {
		return m.Window
	}
	return DefaultCooldown
}

func (m *MemoryCooldown) Reserve(ctx context.Context, actorID string) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.until == nil {
		m.until = make(map[string]time.Time)
	}
	now := time.Now()
	if deadline, ok := m.until[actorID]; ok && deadline.After(now) {
		return false, deadline.Sub(now), nil
	}
	m.until[actorID] = now.Add(m.window())
	return true, 0, nil
}

func (m *MemoryCooldown) Release(ctx context.Context, actorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.until, actorID)
	return nil
}
