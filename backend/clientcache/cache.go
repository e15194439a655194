// Package clientcache models the browser-side progress storage: a current
// slot holding the visitor's metrics record and a backup slot that preserves
// anonymous progress across a login/logout cycle. The cache has no authority;
// its values never feed the leaderboard.
package clientcache

import (
	"encoding/json"
	"sync"

	"github.com/typerush/website/backend/models"
)

const (
	currentKey = "typerush.progress"
	backupKey  = "typerush.progress.backup"
)

// Storage is the string-keyed blob store backing the cache. The production
// medium is the visitor's browser storage; tests and tooling use
// MemoryStorage.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.items[key]
	return value, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *MemoryStorage) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// Cache reads and writes the two progress slots.
type Cache struct {
	storage Storage
}

func New(storage Storage) *Cache {
	return &Cache{storage: storage}
}

// Read returns the current slot's record. Missing or unparsable data reads
// as absent, never as an error.
func (c *Cache) Read() (models.MetricsRecord, bool) {
	raw, ok := c.storage.Get(currentKey)
	if !ok {
		return models.MetricsRecord{}, false
	}
	var cr models.ClientRecord
	if err := json.Unmarshal([]byte(raw), &cr); err != nil {
		return models.MetricsRecord{}, false
	}
	return cr.Record(), true
}

// Write overwrites the current slot.
func (c *Cache) Write(rec models.MetricsRecord) {
	raw, err := json.Marshal(rec.Client())
	if err != nil {
		return
	}
	c.storage.Set(currentKey, string(raw))
}

// Backup copies the current slot into the backup slot. An empty current
// slot leaves an empty backup.
func (c *Cache) Backup() {
	raw, ok := c.storage.Get(currentKey)
	if !ok {
		c.storage.Delete(backupKey)
		return
	}
	c.storage.Set(backupKey, raw)
}

// Restore moves the backup slot back into the current slot and drops the
// backup. With no backup the current slot is cleared, reverting the browser
// to first-visit state.
func (c *Cache) Restore() {
	raw, ok := c.storage.Get(backupKey)
	if !ok {
		c.storage.Delete(currentKey)
		return
	}
	c.storage.Set(currentKey, raw)
	c.storage.Delete(backupKey)
}

// Clear erases the current slot.
func (c *Cache) Clear() {
	c.storage.Delete(currentKey)
}
