package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockCmdable struct {
	setNXCalls map[string]int
	existing   map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		setNXCalls: map[string]int{},
		existing:   map[string]string{},
	}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.existing[key] = "1"
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if v, ok := m.existing[key]; ok {
		cmd.SetVal(v)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	m.setNXCalls[key]++
	cmd := redis.NewBoolCmd(ctx)
	if _, ok := m.existing[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	m.existing[key] = "1"
	cmd.SetVal(true)
	return cmd
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m.existing, k)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestIdempotencyKeyFormat(t *testing.T) {
	t.Parallel()

	client := &Client{store: newMockCmdable()}
	if got := client.IdempotencyKey("stripe", "evt_1"); got != "sf:idempotency:stripe:evt_1" {
		t.Fatalf("IdempotencyKey = %q", got)
	}
}

func TestSetNXIsFirstWriterWins(t *testing.T) {
	t.Parallel()

	mock := newMockCmdable()
	client := &Client{store: mock}
	ctx := context.Background()

	key := client.IdempotencyKey("stripe", "evt_2")
	first, err := client.SetNX(ctx, key, "1", time.Minute)
	if err != nil {
		t.Fatalf("first SetNX: %v", err)
	}
	second, err := client.SetNX(ctx, key, "1", time.Minute)
	if err != nil {
		t.Fatalf("second SetNX: %v", err)
	}
	if !first || second {
		t.Fatalf("SetNX results = %v, %v; want true, false", first, second)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("Del: %v", err)
	}
	third, err := client.SetNX(ctx, key, "1", time.Minute)
	if err != nil {
		t.Fatalf("third SetNX: %v", err)
	}
	if !third {
		t.Fatal("SetNX after Del should succeed")
	}
}
