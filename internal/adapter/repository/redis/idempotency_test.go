package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStoreClaimsFreshKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	seen, stored, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if seen || stored != nil {
		t.Fatalf("expected fresh key, got seen=%v stored=%q", seen, stored)
	}

	raw, err := mr.Get(idempotencyKeyPrefix + "key-1")
	if err != nil {
		t.Fatalf("expected key to be claimed: %v", err)
	}
	if raw != processingMarker {
		t.Fatalf("expected processing marker, got %q", raw)
	}
}

func TestIdempotencyStoreReturnsStoredResponse(t *testing.T) {
	client, _ := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-2", nil, time.Minute); err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if err := store.Update(ctx, "key-2", []byte(`{"id":"txn-1"}`), time.Minute); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	seen, stored, err := store.CheckAndSet(ctx, "key-2", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if !seen {
		t.Fatal("expected key to be seen after Update")
	}
	if string(stored) != `{"id":"txn-1"}` {
		t.Fatalf("unexpected stored response: %s", stored)
	}
}

func TestIdempotencyStoreSecondClaimSeesMarker(t *testing.T) {
	client, _ := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-3", nil, time.Minute); err != nil {
		t.Fatalf("first CheckAndSet failed: %v", err)
	}

	seen, stored, err := store.CheckAndSet(ctx, "key-3", nil, time.Minute)
	if err != nil {
		t.Fatalf("second CheckAndSet failed: %v", err)
	}
	if !seen {
		t.Fatal("expected second claim to see the first")
	}
	if string(stored) != processingMarker {
		t.Fatalf("expected processing marker while in flight, got %q", stored)
	}
}

func TestIdempotencyStoreStoresProvidedResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	seen, _, err := store.CheckAndSet(ctx, "key-4", []byte("done"), time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if seen {
		t.Fatal("expected fresh key")
	}

	raw, err := mr.Get(idempotencyKeyPrefix + "key-4")
	if err != nil {
		t.Fatalf("expected response to be stored: %v", err)
	}
	if raw != "done" {
		t.Fatalf("unexpected stored value: %q", raw)
	}
}
