package factory

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikey/phish-trainer/internal/adapters/backend"
	"github.com/mikey/phish-trainer/internal/adapters/store"
	"github.com/mikey/phish-trainer/internal/config"
	"go.uber.org/zap/zaptest"
)

func testConfig(overrides map[string]interface{}) *config.Config {
	cfg := config.NewFromViper(config.NewEmptyViper())
	for k, v := range overrides {
		cfg.Set(k, v)
	}
	return cfg
}

func TestCreateGeneratorDefaultsToBackend(t *testing.T) {
	f := NewGeneratorFactory(testConfig(nil), zaptest.NewLogger(t))
	gen, err := f.CreateGenerator(context.Background())
	if err != nil {
		t.Fatalf("CreateGenerator: %v", err)
	}
	if _, ok := gen.(*backend.GeneratorClient); !ok {
		t.Fatalf("expected backend generator, got %T", gen)
	}
}

func TestCreateGeneratorRequiresAPIKeys(t *testing.T) {
	for _, provider := range []string{ProviderGemini, ProviderOpenAI} {
		f := NewGeneratorFactory(testConfig(map[string]interface{}{"generator.provider": provider}), zaptest.NewLogger(t))
		if _, err := f.CreateGenerator(context.Background()); err == nil {
			t.Errorf("%s: expected missing API key error", provider)
		}
	}
}

func TestCreateGeneratorUnsupported(t *testing.T) {
	f := NewGeneratorFactory(testConfig(map[string]interface{}{"generator.provider": "carrier-pigeon"}), zaptest.NewLogger(t))
	_, err := f.CreateGenerator(context.Background())
	if err == nil || !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Fatalf("expected unsupported provider error, got %v", err)
	}
}

func TestCreateStore(t *testing.T) {
	logger := zaptest.NewLogger(t)

	mem, err := NewStoreFactory(testConfig(map[string]interface{}{"store.type": "memory"}), logger).CreateStore()
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	ms, ok := mem.(*store.MemoryStore)
	if !ok {
		t.Fatalf("expected *store.MemoryStore, got %T", mem)
	}
	ms.Stop()

	path := filepath.Join(t.TempDir(), "nested", "scores.db")
	sq, err := NewStoreFactory(testConfig(map[string]interface{}{
		"store.type":        "sqlite",
		"store.sqlite_path": path,
	}), logger).CreateStore()
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	sq.(*store.SQLiteStore).Stop()

	if _, err := NewStoreFactory(testConfig(map[string]interface{}{
		"store.type":      "mysql",
		"store.mysql_dsn": "",
	}), logger).CreateStore(); err == nil {
		t.Fatal("expected error for mysql without DSN")
	}
	if _, err := NewStoreFactory(testConfig(map[string]interface{}{"store.type": "redis"}), logger).CreateStore(); err == nil {
		t.Fatal("expected unsupported store error")
	}
}

func TestCreateRemoteScoreStore(t *testing.T) {
	logger := zaptest.NewLogger(t)

	if remote := NewStoreFactory(testConfig(nil), logger).CreateRemoteScoreStore(); remote != nil {
		t.Fatalf("expected nil remote store without token, got %T", remote)
	}

	remote := NewStoreFactory(testConfig(map[string]interface{}{"backend.token": "session-token"}), logger).CreateRemoteScoreStore()
	if _, ok := remote.(*backend.ScoreClient); !ok {
		t.Fatalf("expected *backend.ScoreClient, got %T", remote)
	}
}
