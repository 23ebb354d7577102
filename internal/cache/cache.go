// Package cache holds the process-lifetime response cache shared by the
// market data service. Entries are never evicted; a refresh overwrites the
// previous entry for its key.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Kind identifies the endpoint an entry belongs to.
type Kind string

const (
	KindKlines    Kind = "klines"
	KindTicker24h Kind = "ticker24h"
)

// Key addresses one cache slot.
type Key struct {
	Kind       Kind
	RequestKey string // "symbol" for tickers, "symbol|interval|limit" for klines
}

func (k Key) String() string {
	return string(k.Kind) + ":" + k.RequestKey
}

// KlinesKey builds the key for a kline request.
func KlinesKey(symbol, interval string, limit int) Key {
	return Key{Kind: KindKlines, RequestKey: fmt.Sprintf("%s|%s|%d", symbol, interval, limit)}
}

// TickerKey builds the key for a 24h ticker request.
func TickerKey(symbol string) Key {
	return Key{Kind: KindTicker24h, RequestKey: symbol}
}

// Entry is the last successful response stored for a key.
type Entry struct {
	Data     any
	StoredAt time.Time
}

// IsFresh reports whether entry may still be served at now.
func IsFresh(entry Entry, now time.Time, ttl time.Duration) bool {
	return now.Sub(entry.StoredAt) < ttl
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]Entry
	flights singleflight.Group
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[Key]Entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry stored under key, fresh or not.
func (c *Cache) Get(key Key) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Set stores data under key, stamped with the current time.
func (c *Cache) Set(key Key, data any) {
	entry := Entry{Data: data, StoredAt: c.now()}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) fresh(key Key, ttl time.Duration) (any, bool) {
	e, ok := c.Get(key)
	if !ok || !IsFresh(e, c.now(), ttl) {
		return nil, false
	}
	return e.Data, true
}

// Load returns the cached value for key while it is younger than ttl.
// Otherwise it calls fetch, stores the result and returns it. Concurrent
// loads of the same key share a single fetch, which runs detached from the
// starting caller's cancellation; deadlines come from the fetch itself. A failed fetch leaves the
// existing entry untouched and is never answered with stale data.
//
// hit reports whether the value came from the cache without a fetch by
// this caller's flight.
func Load[T any](ctx context.Context, c *Cache, key Key, ttl time.Duration, fetch func(context.Context) (T, error)) (value T, hit bool, err error) {
	if data, ok := c.fresh(key, ttl); ok {
		return data.(T), true, nil
	}

	v, err, _ := c.flights.Do(key.String(), func() (interface{}, error) {
		// A flight that finished just before this one may have stored it.
		if data, ok := c.fresh(key, ttl); ok {
			return data, nil
		}
		// The flight is shared, so one caller giving up must not fail the rest.
		data, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.Set(key, data)
		return data, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v.(T), false, nil
}
