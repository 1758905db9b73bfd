package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"story-gen/internal/domain"
)

// ErrViewNotFound indica que la vista no existe o expiró.
var ErrViewNotFound = errors.New("view not found")

// ViewStore guarda el estado de una vista entre envíos del formulario.
type ViewStore interface {
	Get(ctx context.Context, id string) (domain.View, error)
	Save(ctx context.Context, view domain.View) error
	// Lock devuelve un token de dueño; ok es false si otro tiene el lock.
	Lock(ctx context.Context, id string) (token string, ok bool, err error)
	// Unlock libera el lock solo si token sigue siendo el dueño.
	Unlock(ctx context.Context, id, token string) error
	LockTTL() time.Duration
}

type memoryViewLock struct {
	token     string
	expiresAt time.Time
}

type memoryViewEntry struct {
	view      domain.View
	expiresAt time.Time
}

type memoryViewStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	lockTTL time.Duration
	views   map[string]memoryViewEntry
	locks   map[string]memoryViewLock
}

// NewMemoryViewStore crea un store en memoria.
func NewMemoryViewStore(ttl, lockTTL time.Duration) ViewStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}
	return &memoryViewStore{
		ttl:     ttl,
		lockTTL: lockTTL,
		views:   make(map[string]memoryViewEntry),
		locks:   make(map[string]memoryViewLock),
	}
}

func (s *memoryViewStore) Get(_ context.Context, id string) (domain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.views[id]
	if !ok {
		return domain.View{}, ErrViewNotFound
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(s.views, id)
		return domain.View{}, ErrViewNotFound
	}
	return entry.view, nil
}

func (s *memoryViewStore) Save(_ context.Context, view domain.View) error {
	if strings.TrimSpace(view.ID) == "" {
		return errors.New("view id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.views[view.ID] = memoryViewEntry{view: view, expiresAt: now.Add(s.ttl)}
	s.evictExpired(now)
	return nil
}

func (s *memoryViewStore) Lock(_ context.Context, id string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if held, ok := s.locks[id]; ok && now.Before(held.expiresAt) {
		return "", false, nil
	}
	token := uuid.NewString()
	s.locks[id] = memoryViewLock{token: token, expiresAt: now.Add(s.lockTTL)}
	return token, true, nil
}

func (s *memoryViewStore) Unlock(_ context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if held, ok := s.locks[id]; ok && held.token == token {
		delete(s.locks, id)
	}
	return nil
}

func (s *memoryViewStore) LockTTL() time.Duration { return s.lockTTL }

// Se llama con mu tomado.
func (s *memoryViewStore) evictExpired(now time.Time) {
	for id, entry := range s.views {
		if now.After(entry.expiresAt) {
			delete(s.views, id)
		}
	}
	for id, held := range s.locks {
		if now.After(held.expiresAt) {
			delete(s.locks, id)
		}
	}
}

// Borra el lock solo si el valor sigue siendo el token del dueño.
const redisViewUnlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type redisViewClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisViewStore struct {
	client  redisViewClient
	ttl     time.Duration
	lockTTL time.Duration
	prefix  string
}

// NewRedisViewStore crea un store respaldado por Redis.
func NewRedisViewStore(client *redis.Client, ttl, lockTTL time.Duration) ViewStore {
	if client == nil {
		return nil
	}
	return newRedisViewStore(client, ttl, lockTTL)
}

func newRedisViewStore(client redisViewClient, ttl, lockTTL time.Duration) *redisViewStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}
	return &redisViewStore{
		client:  client,
		ttl:     ttl,
		lockTTL: lockTTL,
		prefix:  "story:view:",
	}
}

func (s *redisViewStore) viewKey(id string) string { return s.prefix + id }

func (s *redisViewStore) lockKey(id string) string { return s.prefix + id + ":lock" }

func (s *redisViewStore) Get(ctx context.Context, id string) (domain.View, error) {
	if strings.TrimSpace(id) == "" {
		return domain.View{}, ErrViewNotFound
	}
	raw, err := s.client.Get(ctx, s.viewKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.View{}, ErrViewNotFound
	}
	if err != nil {
		return domain.View{}, fmt.Errorf("redis get view: %w", err)
	}
	var view domain.View
	if err := json.Unmarshal(raw, &view); err != nil {
		return domain.View{}, fmt.Errorf("decode view: %w", err)
	}
	return view, nil
}

func (s *redisViewStore) Save(ctx context.Context, view domain.View) error {
	if strings.TrimSpace(view.ID) == "" {
		return errors.New("view id is required")
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	if err := s.client.Set(ctx, s.viewKey(view.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set view: %w", err)
	}
	return nil
}

func (s *redisViewStore) Lock(ctx context.Context, id string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, s.lockKey(id), token, s.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis lock view: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (s *redisViewStore) Unlock(ctx context.Context, id, token string) error {
	if err := s.client.Eval(ctx, redisViewUnlockScript, []string{s.lockKey(id)}, token).Err(); err != nil {
		return fmt.Errorf("redis unlock view: %w", err)
	}
	return nil
}

func (s *redisViewStore) LockTTL() time.Duration { return s.lockTTL }
