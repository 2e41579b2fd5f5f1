package storage

import (
	"sync"

	"github.com/rcliao/tasktimeline/internal/domain"
)

// MemoryStorage keeps preferences in process. Values are cloned on the way in
// and out so callers never share state with the store.
type MemoryStorage struct {
	mu    sync.RWMutex
	prefs *domain.Preferences
}

func NewMemoryStorage(initial *domain.Preferences) *MemoryStorage {
	return &MemoryStorage{prefs: initial.Clone()}
}

func (ms *MemoryStorage) LoadPreferences() (*domain.Preferences, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return ms.prefs.Clone(), nil
}

func (ms *MemoryStorage) SavePreferences(prefs *domain.Preferences) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.prefs = prefs.Clone()
	return nil
}
