package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockboard-api/pkg/config"
)

type mockCmdable struct {
	data     map[string]string
	setCalls []setCall
}

type setCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.setCalls = append(m.setCalls, setCall{key: key, ttl: ttl})
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestSlotStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	s := &SlotStore{store: mock, prefix: "sb", ttl: time.Hour}

	v, err := s.Load(ctx, "user:1")
	require.NoError(t, err)
	assert.Nil(t, v, "redis.Nil se traduce a slot vacío")

	require.NoError(t, s.Save(ctx, "user:1", []byte(`{"id":"1"}`)))
	require.Len(t, mock.setCalls, 1)
	assert.Equal(t, "sb:slot:user:1", mock.setCalls[0].key)
	assert.Equal(t, time.Hour, mock.setCalls[0].ttl)

	v, err = s.Load(ctx, "user:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(v))

	require.NoError(t, s.Clear(ctx, "user:1"))
	v, err = s.Load(ctx, "user:1")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSlotStore_Key(t *testing.T) {
	assert.Equal(t, "slot:user", (&SlotStore{}).Key("user"))
	assert.Equal(t, "p:slot:user:x", (&SlotStore{prefix: "p"}).Key("user:x"))
}

func TestSlotStore_SinCliente(t *testing.T) {
	s := &SlotStore{}
	_, err := s.Load(context.Background(), "user")
	assert.Error(t, err)
	assert.Error(t, s.Save(context.Background(), "user", nil))
	assert.NoError(t, s.Close())
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	assert.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{Addr: "cache:6379", DB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://:pw@host:6380/3"})
	require.NoError(t, err)
	assert.Equal(t, "host:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
}
