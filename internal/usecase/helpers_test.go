package usecase

import (
	"context"
	"errors"
	"io"
	"storefront/internal/domain"
	"sync"

	"github.com/sirupsen/logrus"
)

var errStorageDown = errors.New("storage down")

// mapStorage is an in-test key-value store that can be switched into failure mode.
type mapStorage struct {
	mu        sync.Mutex
	data      map[string]string
	failRead  bool
	failWrite bool
	writes    int
}

func newMapStorage() *mapStorage {
	return &mapStorage{data: make(map[string]string)}
}

func (m *mapStorage) Read(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead {
		return "", false, errStorageDown
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStorage) Write(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failWrite {
		return errStorageDown
	}
	m.data[key] = value
	return nil
}

func (m *mapStorage) get(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

type mapFactory struct {
	mu       sync.Mutex
	sessions map[string]*mapStorage
}

func newMapFactory() *mapFactory {
	return &mapFactory{sessions: make(map[string]*mapStorage)}
}

func (f *mapFactory) ForSession(id string) domain.Storage {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		s = newMapStorage()
		f.sessions[id] = s
	}
	return s
}

func (f *mapFactory) Close() error { return nil }

type stubCatalog struct {
	products []domain.Product
	err      error
}

func (s *stubCatalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *stubCatalog) GetProductBySlug(_ context.Context, slug string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
