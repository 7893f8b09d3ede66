package syncttlmap

import (
	"sync"
	"time"
)

// TTLMap is a concurrency safe map whose entries expire after TTL. The
// orchestrator keeps per-run cancel handles in one so abandoned runs do not
// leak.
type TTLMap struct {
	TTL  time.Duration
	data sync.Map
}

type expireEntry struct {
	ExpiresAt time.Time
	Value     interface{}
}

// New returns a TTLMap with the given entry lifetime
func New(ttl time.Duration) *TTLMap {
	return &TTLMap{TTL: ttl}
}

// Store saves a value under key
func (t *TTLMap) Store(key string, val interface{}) {
	t.data.Store(key, expireEntry{
		ExpiresAt: time.Now().Add(t.TTL),
		Value:     val,
	})
}

// Delete removes a key
func (t *TTLMap) Delete(key string) {
	t.data.Delete(key)
}

// Load returns the value under key, or nil if absent or expired
func (t *TTLMap) Load(key string) (val interface{}) {
	entry, ok := t.data.Load(key)
	if !ok {
		return nil
	}

	expireEntry := entry.(expireEntry)
	if time.Now().After(expireEntry.ExpiresAt) {
		return nil
	}

	return expireEntry.Value
}

// CleaningBackground removes expired entries every cleaning interval
func (t *TTLMap) CleaningBackground(cleaning time.Duration) {
	go func() {
		for now := range time.Tick(cleaning) {
			t.data.Range(func(k, v interface{}) bool {
				if now.After(v.(expireEntry).ExpiresAt) {
					t.data.Delete(k)
				}
				return true
			})
		}
	}()
}
