package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

const createSessionStorageTable = `
        CREATE TABLE IF NOT EXISTS session_storage (
            session_id TEXT NOT NULL,
            key        TEXT NOT NULL,
            value      TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (session_id, key)
        )`

type postgresStorage struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresStorage(db *sql.DB, logger *logrus.Logger) (domain.StorageFactory, error) {
	if _, err := db.Exec(createSessionStorageTable); err != nil {
		logger.Errorf("Repository: Failed to ensure session_storage table: %v", err)
		return nil, fmt.Errorf("could not prepare session storage: %w", err)
	}
	logger.Info("Repository: session_storage table ready")
	return &postgresStorage{db: db, log: logger}, nil
}

func (p *postgresStorage) ForSession(sessionID string) domain.Storage {
	return &postgresSession{store: p, sessionID: sessionID}
}

// Close is a no-op; the *sql.DB belongs to the caller.
func (p *postgresStorage) Close() error {
	return nil
}

type postgresSession struct {
	store     *postgresStorage
	sessionID string
}

func (s *postgresSession) Read(ctx context.Context, key string) (string, bool, error) {
	query := `
        SELECT value
        FROM session_storage
        WHERE session_id = $1 AND key = $2`
	var value string
	err := s.store.db.QueryRowContext(ctx, query, s.sessionID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		s.store.log.Errorf("Repository: Failed to read %s for session %s: %v", key, s.sessionID, err)
		return "", false, fmt.Errorf("could not read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *postgresSession) Write(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO session_storage (session_id, key, value, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (session_id, key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := s.store.db.ExecContext(ctx, query, s.sessionID, key, value); err != nil {
		s.store.log.Errorf("Repository: Failed to write %s for session %s: %v", key, s.sessionID, err)
		return fmt.Errorf("could not write %s: %w", key, err)
	}
	return nil
}
