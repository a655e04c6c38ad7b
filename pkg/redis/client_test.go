package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestIncrWithTTLCreatesCounterWithExpiry(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	for i := 1; i <= 3; i++ {
		count, err := client.IncrWithTTL(ctx, "lf:rate_limit:org", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != int64(i) {
			t.Fatalf("expected counter %d got %d", i, count)
		}
		if ttl, ok := mock.ttls["lf:rate_limit:org"]; !ok || ttl != time.Minute {
			t.Fatalf("expected counter to carry a 1m ttl, got %v (set=%v)", ttl, ok)
		}
	}
	if mock.transactions != 3 {
		t.Fatalf("expected every increment to run in a transaction, got %d", mock.transactions)
	}
}

func TestIncrWithTTLFailedTransactionLeavesNoCounter(t *testing.T) {
	mock := newMockCmdable()
	mock.txErr = errors.New("exec aborted")
	client := &Client{store: mock}

	if _, err := client.IncrWithTTL(context.Background(), "lf:rate_limit:org", time.Minute); err == nil {
		t.Fatal("expected transaction error")
	}
	if _, ok := mock.data["lf:rate_limit:org"]; ok {
		t.Fatal("aborted transaction must not leave a counter behind")
	}
}

func TestCatalogVersionLifecycle(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	version, err := client.CatalogVersion(ctx, "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 0 {
		t.Fatalf("expected missing version to read as 0, got %d", version)
	}

	if _, err := client.BumpCatalogVersion(ctx, "org-1"); err != nil {
		t.Fatalf("bump failed: %v", err)
	}

	version, err = client.CatalogVersion(ctx, "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected version 1, got %d", version)
	}
}

func TestGetMissIsReported(t *testing.T) {
	client := &Client{store: newMockCmdable()}
	_, err := client.Get(context.Background(), "lf:absent")
	if !IsMiss(err) {
		t.Fatalf("expected cache miss, got %v", err)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.RateLimitKey("calculate", "org", "abc"); got != "lf:rate_limit:calculate:org:abc" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.CatalogKey("org-1", 3, "rules", "2026-10-18T10"); got != "lf:catalog:org-1:v3:rules:2026-10-18T10" {
		t.Fatalf("unexpected catalog key %s", got)
	}
	if got := client.CatalogKey("org-1", 0, "categories", ""); got != "lf:catalog:org-1:v0:categories" {
		t.Fatalf("catalog key should skip empty parts, got %s", got)
	}
	if got := client.CatalogVersionKey("org-1"); got != "lf:catalog:org-1:version" {
		t.Fatalf("unexpected version key %s", got)
	}
}

type mockCmdable struct {
	data         map[string]string
	ttls         map[string]time.Duration
	transactions int
	txErr        error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	n, _ := strconv.ParseInt(m.data[key], 10, 64)
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, ok := m.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

// TxPipelined queues onto a recording pipeline and applies the commands only when the
// transaction succeeds.
func (m *mockCmdable) TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error) {
	m.transactions++
	pipe := &mockPipeline{}
	if err := fn(pipe); err != nil {
		return nil, err
	}
	if m.txErr != nil {
		return nil, m.txErr
	}
	for _, apply := range pipe.queued {
		apply(m)
	}
	return nil, nil
}

// mockPipeline implements the two pipeline commands IncrWithTTL issues; any other call panics.
type mockPipeline struct {
	redis.Pipeliner
	queued []func(*mockCmdable)
}

func (p *mockPipeline) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	p.queued = append(p.queued, func(m *mockCmdable) {
		cmd.SetVal(m.SetNX(ctx, key, value, expiration).Val())
	})
	return cmd
}

func (p *mockPipeline) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	p.queued = append(p.queued, func(m *mockCmdable) {
		cmd.SetVal(m.Incr(ctx, key).Val())
	})
	return cmd
}
