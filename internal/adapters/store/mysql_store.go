package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the KeyValueStore interface
type MySQLStore struct {
	db        *sql.DB
	logger    *zap.Logger
	retention time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewMySQLStore connects to the database described by dsn
func NewMySQLStore(dsn string, logger *zap.Logger, retention time.Duration) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv_store (
			store_key VARCHAR(255) PRIMARY KEY,
			store_value MEDIUMTEXT NOT NULL,
			updated_at BIGINT NOT NULL,
			INDEX idx_kv_updated_at (updated_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	s := &MySQLStore{
		db:        db,
		logger:    logger,
		retention: retention,
		stopCh:    make(chan struct{}),
	}

	if retention > 0 {
		go startCleanupTask(s, cleanupInterval(retention), s.stopCh, logger)
	}

	return s, nil
}

// Get retrieves a stored value
func (s *MySQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT store_value FROM kv_store WHERE store_key = ?
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to query store: %w", err)
	}
	return value, true, nil
}

// Set stores a value
func (s *MySQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (store_key, store_value, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			store_value = VALUES(store_value),
			updated_at = VALUES(updated_at)
	`, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write store entry: %w", err)
	}
	return nil
}

// Delete removes a key
func (s *MySQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM kv_store WHERE store_key = ?
	`, key)
	if err != nil {
		return fmt.Errorf("failed to delete store entry: %w", err)
	}
	return nil
}

// Cleanup removes entries older than the retention
func (s *MySQLStore) Cleanup(ctx context.Context) error {
	if s.retention <= 0 {
		return nil
	}

	cutoff := time.Now().Add(-s.retention).Unix()
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM kv_store WHERE updated_at < ?
	`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		s.logger.Debug("Cleaned up expired store entries", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (s *MySQLStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close MySQL database", zap.Error(err))
		}
	})
}
