package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"storefront/internal/domain"
	"sync"

	"github.com/sirupsen/logrus"
)

const fileStorageName = "sessions.json"

// fileStorage persists every session in one JSON document:
// {"<session>": {"cart": "<json>", "wishlist": "<json>"}}.
type fileStorage struct {
	mu   sync.RWMutex
	path string
	data map[string]map[string]string
	log  *logrus.Logger
}

func NewFileStorage(dir string, logger *logrus.Logger) (domain.StorageFactory, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create storage directory %s: %w", dir, err)
	}

	s := &fileStorage{
		path: filepath.Join(dir, fileStorageName),
		data: make(map[string]map[string]string),
		log:  logger,
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := s.load(); err != nil {
			return nil, err
		}
		logger.Infof("Repository: Loaded %d sessions from %s", len(s.data), s.path)
	}
	return s, nil
}

func (s *fileStorage) load() error {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("could not read storage file: %w", err)
	}
	if len(content) == 0 {
		return nil
	}
	if err := json.Unmarshal(content, &s.data); err != nil {
		return fmt.Errorf("could not parse storage file %s: %w", s.path, err)
	}
	if s.data == nil {
		s.data = make(map[string]map[string]string)
	}
	return nil
}

// save must be called with mu held.
func (s *fileStorage) save() error {
	content, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, content, 0644)
}

func (s *fileStorage) ForSession(sessionID string) domain.Storage {
	return &fileSession{store: s, sessionID: sessionID}
}

func (s *fileStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(); err != nil {
		s.log.Errorf("Repository: Failed to flush storage file on close: %v", err)
		return err
	}
	s.log.Info("Repository: File storage closed")
	return nil
}

type fileSession struct {
	store     *fileStorage
	sessionID string
}

func (f *fileSession) Read(_ context.Context, key string) (string, bool, error) {
	f.store.mu.RLock()
	defer f.store.mu.RUnlock()

	value, ok := f.store.data[f.sessionID][key]
	return value, ok, nil
}

func (f *fileSession) Write(_ context.Context, key, value string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	bucket, ok := f.store.data[f.sessionID]
	if !ok {
		bucket = make(map[string]string)
		f.store.data[f.sessionID] = bucket
	}
	previous, existed := bucket[key]
	bucket[key] = value

	if err := f.store.save(); err != nil {
		// keep memory and disk in step: the write did not happen
		if existed {
			bucket[key] = previous
		} else {
			delete(bucket, key)
		}
		return fmt.Errorf("could not write storage file: %w", err)
	}
	return nil
}
