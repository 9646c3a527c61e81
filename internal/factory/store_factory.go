package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/phish-trainer/internal/adapters/backend"
	"github.com/mikey/phish-trainer/internal/adapters/store"
	"github.com/mikey/phish-trainer/internal/config"
	"github.com/mikey/phish-trainer/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates the local and remote score stores
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore creates the local key-value store based on the configuration
func (f *StoreFactory) CreateStore() (core.KeyValueStore, error) {
	storeCfg := f.cfg.GetStore()
	logger := f.logger.Named("store")

	switch storeCfg.Type {
	case "memory":
		return store.NewMemoryStore(logger, storeCfg.Retention), nil
	case "sqlite":
		sqlitePath := os.ExpandEnv(storeCfg.SQLitePath)
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(sqlitePath, logger, storeCfg.Retention)
	case "mysql":
		if storeCfg.MySQLDSN == "" {
			return nil, fmt.Errorf("store.mysql_dsn is required for the mysql store")
		}
		return store.NewMySQLStore(storeCfg.MySQLDSN, logger, storeCfg.Retention)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeCfg.Type)
	}
}

// CreateRemoteScoreStore returns the backend score API, or nil when no
// session token is configured.
func (f *StoreFactory) CreateRemoteScoreStore() core.RemoteScoreStore {
	backendCfg := f.cfg.GetBackend()
	if backendCfg.Token == "" {
		f.logger.Debug("No backend token configured, scores stay local")
		return nil
	}
	client := backend.NewClient(backendCfg.BaseURL, backendCfg.Token, backendCfg.Timeout, f.logger.Named("backend"))
	return backend.NewScoreClient(client)
}
