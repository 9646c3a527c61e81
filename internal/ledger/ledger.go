// Package ledger persists finished session scores locally and mirrors them to the
// remote score store when one is configured.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mikey/phish-trainer/internal/core"
	"go.uber.org/zap"
)

const (
	// StorageKey is the key holding the JSON array of local records
	StorageKey = "llm_game_scores"

	// MaxLocalRecords caps the local history
	MaxLocalRecords = 10

	// DisplayLimit is the number of records shown in the history view
	DisplayLimit = 10

	// RecentLimit is the number of records shown next to a running game
	RecentLimit = 3
)

// Ledger records scores local-first with best-effort remote mirroring
type Ledger struct {
	store  core.KeyValueStore
	remote core.RemoteScoreStore
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewLedger creates a ledger. remote may be nil to keep scores local only.
func NewLedger(store core.KeyValueStore, remote core.RemoteScoreStore, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		store:  store,
		remote: remote,
		logger: logger,
		now:    time.Now,
	}
}

// RecordSession stores the final percentage of a session. Local failures are returned,
// remote failures are logged and swallowed.
func (l *Ledger) RecordSession(ctx context.Context, score int, userEmail string) error {
	record := core.ScoreRecord{
		Email:        strings.TrimSpace(userEmail),
		Score:        score,
		Date:         l.now().UTC(),
		SavedLocally: true,
	}

	if err := l.appendLocal(ctx, record); err != nil {
		return err
	}
	l.logger.Info("Score saved locally",
		zap.Int("score", record.Score),
		zap.String("email", record.Email))

	if l.remote == nil || record.Email == "" {
		return nil
	}

	remoteRecord := record
	remoteRecord.SavedLocally = false
	if err := l.remote.SaveScore(ctx, remoteRecord); err != nil {
		perr := &core.PersistenceError{Op: "save", Err: err}
		l.logger.Warn("Failed to mirror score to remote store", zap.Error(perr))
		return nil
	}
	l.logger.Debug("Score mirrored to remote store", zap.String("email", record.Email))
	return nil
}

// LoadHistory merges local and remote records for userEmail, newest first.
// An empty userEmail returns every record from both stores.
func (l *Ledger) LoadHistory(ctx context.Context, userEmail string, limit int) ([]core.ScoreRecord, error) {
	if limit <= 0 {
		limit = DisplayLimit
	}
	userEmail = strings.TrimSpace(userEmail)

	l.mu.Lock()
	local, err := l.loadLocal(ctx)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var remote []core.ScoreRecord
	if l.remote != nil {
		remote, err = l.remote.FetchScores(ctx)
		if err != nil {
			perr := &core.PersistenceError{Op: "fetch", Err: err}
			l.logger.Warn("Falling back to local score history", zap.Error(perr))
			remote = nil
		}
	}

	seen := make(map[string]struct{}, len(local)+len(remote))
	merged := make([]core.ScoreRecord, 0, len(local)+len(remote))
	add := func(records []core.ScoreRecord) {
		for _, r := range records {
			if userEmail != "" && !strings.EqualFold(r.Email, userEmail) {
				continue
			}
			key := dedupeKey(r)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, r)
		}
	}
	add(local)
	add(remote)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// Recent returns the few latest records for userEmail
func (l *Ledger) Recent(ctx context.Context, userEmail string) ([]core.ScoreRecord, error) {
	return l.LoadHistory(ctx, userEmail, RecentLimit)
}

// Clear removes the local history
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to clear local scores: %w", err)
	}
	return nil
}

func (l *Ledger) appendLocal(ctx context.Context, record core.ScoreRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.loadLocal(ctx)
	if err != nil {
		return err
	}

	records = append([]core.ScoreRecord{record}, records...)
	if len(records) > MaxLocalRecords {
		records = records[:MaxLocalRecords]
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode local scores: %w", err)
	}
	if err := l.store.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save score locally: %w", err)
	}
	return nil
}

// loadLocal must be called with mu held
func (l *Ledger) loadLocal(ctx context.Context) ([]core.ScoreRecord, error) {
	raw, ok, err := l.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read local scores: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var records []core.ScoreRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		l.logger.Warn("Ignoring corrupt local score history", zap.Error(err))
		return nil, nil
	}
	return records, nil
}

func dedupeKey(r core.ScoreRecord) string {
	return fmt.Sprintf("%s|%d|%d", strings.ToLower(r.Email), r.Score, r.Date.Unix())
}
