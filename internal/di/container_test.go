package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey/phish-trainer/internal/adapters/mailer"
	"github.com/mikey/phish-trainer/internal/config"
	"github.com/mikey/phish-trainer/internal/core"
	"github.com/mikey/phish-trainer/internal/ledger"
	"github.com/mikey/phish-trainer/internal/synth"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestBuildContainerWiresGame(t *testing.T) {
	path := writeConfig(t, "store:\n  type: memory\ngame:\n  rounds: 3\n")
	container, err := BuildContainer(Options{
		ConfigFile: path,
		Overrides:  map[string]interface{}{"game.user_email": "player@example.com"},
	})
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}

	err = container.Invoke(func(
		cfg *config.Config,
		logger *zap.Logger,
		store core.KeyValueStore,
		remote core.RemoteScoreStore,
		s *synth.Synthesizer,
		l *ledger.Ledger,
		m *mailer.Mailer,
	) error {
		defer Release(logger, store)

		if cfg.GetGame().UserEmail != "player@example.com" {
			t.Errorf("override not applied: %+v", cfg.GetGame())
		}
		if remote != nil {
			t.Errorf("remote score store should be nil without a token, got %T", remote)
		}
		if s == nil || m == nil {
			t.Errorf("synthesizer or mailer missing")
		}
		return l.RecordSession(context.Background(), 67, "")
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
}

func TestBuildContainerMissingConfigFile(t *testing.T) {
	container, err := BuildContainer(Options{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}
	if err := container.Invoke(func(*config.Config) {}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
