package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) SessionKey(token string) string {
	return fmt.Sprintf("sess:%s", token)
}

func newTestResolver(store *mockStore) *Resolver {
	return &Resolver{
		store: store,
		keyer: store,
		ttl:   time.Hour,
	}
}

func TestBindAndCurrentUser(t *testing.T) {
	store := newMockStore()
	resolver := newTestResolver(store)
	ctx := context.Background()

	token, err := resolver.Bind(ctx, 42)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := resolver.CurrentUser(ctx, token)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestBindMintsDistinctTokens(t *testing.T) {
	store := newMockStore()
	resolver := newTestResolver(store)
	ctx := context.Background()

	first, err := resolver.Bind(ctx, 42)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	second, err := resolver.Bind(ctx, 42)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if first == second {
		t.Fatal("expected each bind to mint a fresh token")
	}

	// both tokens resolve until one is unbound
	if _, err := resolver.CurrentUser(ctx, first); err != nil {
		t.Fatalf("first token should resolve: %v", err)
	}
	if _, err := resolver.CurrentUser(ctx, second); err != nil {
		t.Fatalf("second token should resolve: %v", err)
	}
}

func TestCurrentUserUnknownToken(t *testing.T) {
	resolver := newTestResolver(newMockStore())
	ctx := context.Background()

	if _, err := resolver.CurrentUser(ctx, "missing"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := resolver.CurrentUser(ctx, ""); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession for empty token, got %v", err)
	}
}

func TestCurrentUserCorruptBinding(t *testing.T) {
	store := newMockStore()
	resolver := newTestResolver(store)
	ctx := context.Background()

	store.data[store.SessionKey("bad")] = "not-a-number"

	if _, err := resolver.CurrentUser(ctx, "bad"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession for corrupt binding, got %v", err)
	}
	if _, exists := store.data[store.SessionKey("bad")]; exists {
		t.Fatal("corrupt binding should be deleted")
	}
}

func TestUnbind(t *testing.T) {
	store := newMockStore()
	resolver := newTestResolver(store)
	ctx := context.Background()

	token, err := resolver.Bind(ctx, 42)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := resolver.Unbind(ctx, token); err != nil {
		t.Fatalf("unbind: %v", err)
	}
	if _, err := resolver.CurrentUser(ctx, token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after unbind, got %v", err)
	}

	// unknown tokens are a no-op
	if err := resolver.Unbind(ctx, "missing"); err != nil {
		t.Fatalf("unbind unknown token: %v", err)
	}
	if err := resolver.Unbind(ctx, ""); err != nil {
		t.Fatalf("unbind empty token: %v", err)
	}
}
