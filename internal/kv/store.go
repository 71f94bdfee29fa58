// Package kv is a per-owner key-value store of JSON blobs with independent
// named slots.
package kv

import "context"

// Store is one owner's slot namespace. A missing key is not an error: Get
// reports it through the bool.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// MultiSet writes all entries or none of them.
	MultiSet(ctx context.Context, entries map[string][]byte) error
	Remove(ctx context.Context, key string) error
	// MultiRemove deletes every listed key; absent keys are skipped.
	MultiRemove(ctx context.Context, keys []string) error
}

// Backend hands out stores scoped to a single owner.
type Backend interface {
	Open(owner string) Store
}
