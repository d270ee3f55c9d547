package repository

import (
	"context"
	"storefront/internal/domain"
	"sync"

	"github.com/sirupsen/logrus"
)

type memoryStorage struct {
	mu   sync.RWMutex
	data map[string]map[string]string
	log  *logrus.Logger
}

// NewMemoryStorage keeps session state in process memory. State is lost on restart.
func NewMemoryStorage(logger *logrus.Logger) domain.StorageFactory {
	return &memoryStorage{
		data: make(map[string]map[string]string),
		log:  logger,
	}
}

func (m *memoryStorage) ForSession(sessionID string) domain.Storage {
	return &memorySession{store: m, sessionID: sessionID}
}

func (m *memoryStorage) Close() error {
	m.log.Info("Repository: Memory storage closed")
	return nil
}

type memorySession struct {
	store     *memoryStorage
	sessionID string
}

func (s *memorySession) Read(_ context.Context, key string) (string, bool, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	value, ok := s.store.data[s.sessionID][key]
	return value, ok, nil
}

func (s *memorySession) Write(_ context.Context, key, value string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	bucket, ok := s.store.data[s.sessionID]
	if !ok {
		bucket = make(map[string]string)
		s.store.data[s.sessionID] = bucket
	}
	bucket[key] = value
	return nil
}
