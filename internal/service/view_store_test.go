package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"story-gen/internal/domain"
)

func TestMemoryViewStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryViewStore(time.Minute, time.Minute)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrViewNotFound)

	view := domain.NewView("v1").Succeed("story")
	require.NoError(t, store.Save(ctx, view))
	got, err := store.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "story", got.Story)

	assert.Error(t, store.Save(ctx, domain.View{}))

	token, ok, err := store.Lock(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)
	_, ok, err = store.Lock(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, ok, "second lock must fail while held")
	require.NoError(t, store.Unlock(ctx, "v1", token))
	_, ok, err = store.Lock(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryViewStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryViewStore(10*time.Millisecond, 10*time.Millisecond)

	require.NoError(t, store.Save(ctx, domain.NewView("v1")))
	_, ok, err := store.Lock(ctx, "v1")
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, err = store.Get(ctx, "v1")
	assert.ErrorIs(t, err, ErrViewNotFound)
	_, ok, err = store.Lock(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, ok, "expired lock can be taken again")
}

func TestMemoryViewStore_UnlockOnlyByOwner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryViewStore(time.Minute, 10*time.Millisecond)

	first, ok, err := store.Lock(ctx, "v1")
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	second, ok, err := store.Lock(ctx, "v1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, first, second)

	// El dueño anterior no puede liberar el lock nuevo.
	require.NoError(t, store.Unlock(ctx, "v1", first))
	_, ok, err = store.Lock(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, ok, "lock must still belong to the second owner")

	require.NoError(t, store.Unlock(ctx, "v1", second))
	_, ok, err = store.Lock(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, ok)
}

type mockRedisViewClient struct {
	values     map[string]string
	ttls       map[string]time.Duration
	getErr     error
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
}

func newMockRedisViewClient() *mockRedisViewClient {
	return &mockRedisViewClient{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (m *mockRedisViewClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	val, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (m *mockRedisViewClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	m.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisViewClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "setnx", key)
	if _, ok := m.values[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	m.values[key] = fmt.Sprint(value)
	m.ttls[key] = expiration
	cmd.SetVal(true)
	return cmd
}

// Eval emula el script de unlock: borra la key solo si el valor coincide.
func (m *mockRedisViewClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	if len(keys) == 1 && len(args) == 1 && m.values[keys[0]] == args[0] {
		delete(m.values, keys[0])
		cmd.SetVal(int64(1))
		return cmd
	}
	cmd.SetVal(int64(0))
	return cmd
}

func TestRedisViewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("nil client", func(t *testing.T) {
		assert.Nil(t, NewRedisViewStore(nil, time.Minute, time.Minute))
	})

	t.Run("save and get round trip", func(t *testing.T) {
		client := newMockRedisViewClient()
		store := newRedisViewStore(client, 2*time.Minute, time.Minute)

		view := domain.NewView("v1").WithInput("dragon", domain.GenreHorror).Fail(MsgInvalidAPIKey)
		require.NoError(t, store.Save(ctx, view))
		assert.Equal(t, 2*time.Minute, client.ttls["story:view:v1"])

		var stored map[string]any
		require.NoError(t, json.Unmarshal([]byte(client.values["story:view:v1"]), &stored))
		assert.Equal(t, "dragon", stored["keywords"])

		got, err := store.Get(ctx, "v1")
		require.NoError(t, err)
		msg, ok := got.State.ErrorMessage()
		require.True(t, ok)
		assert.Equal(t, MsgInvalidAPIKey, msg)
		assert.Equal(t, domain.GenreHorror, got.Genre)
	})

	t.Run("missing view", func(t *testing.T) {
		store := newRedisViewStore(newMockRedisViewClient(), time.Minute, time.Minute)
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrViewNotFound)
	})

	t.Run("redis error surfaces", func(t *testing.T) {
		client := newMockRedisViewClient()
		client.getErr = errors.New("redis down")
		store := newRedisViewStore(client, time.Minute, time.Minute)
		_, err := store.Get(ctx, "v1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrViewNotFound)
	})

	t.Run("lock uses setnx with owner token", func(t *testing.T) {
		client := newMockRedisViewClient()
		store := newRedisViewStore(client, time.Minute, 90*time.Second)
		assert.Equal(t, 90*time.Second, store.LockTTL())

		token, ok, err := store.Lock(ctx, "v1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 90*time.Second, client.ttls["story:view:v1:lock"])
		assert.Equal(t, token, client.values["story:view:v1:lock"])

		_, ok, err = store.Lock(ctx, "v1")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.Unlock(ctx, "v1", "someone-else"))
		assert.Equal(t, token, client.values["story:view:v1:lock"], "foreign token must not release the lock")

		require.NoError(t, store.Unlock(ctx, "v1", token))
		assert.Equal(t, redisViewUnlockScript, client.lastScript)
		assert.Equal(t, []string{"story:view:v1:lock"}, client.lastKeys)
		_, held := client.values["story:view:v1:lock"]
		assert.False(t, held)
	})
}
