package core

import (
	"context"
)

// TextGenerator defines the interface for services that draft email text
type TextGenerator interface {
	// GenerateEmail returns raw generated text, expected to start with a Subject: line
	GenerateEmail(ctx context.Context, promptType PromptType) (string, error)
}

// KeyValueStore defines the interface for local persistence of small values
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value, replacing any previous one
	Set(ctx context.Context, key, value string) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error
}

// RemoteScoreStore defines the interface for the authenticated remote score API
type RemoteScoreStore interface {
	// SaveScore persists a record remotely
	SaveScore(ctx context.Context, record ScoreRecord) error

	// FetchScores returns the records stored remotely for the current session
	FetchScores(ctx context.Context) ([]ScoreRecord, error)
}

// SessionRecorder receives the final percentage of a finished game
type SessionRecorder interface {
	RecordSession(ctx context.Context, score int, userEmail string) error
}
