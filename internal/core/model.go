package core

import (
	"math"
	"time"
)

// PromptType selects which kind of email the generator is asked for
type PromptType string

const (
	PromptSuspicious PromptType = "suspicious"
	PromptLegitimate PromptType = "legitimate"
)

// Valid reports whether the prompt type is one the generator understands
func (p PromptType) Valid() bool {
	return p == PromptSuspicious || p == PromptLegitimate
}

// Indicator is a single weighted signal matched in an email
type Indicator struct {
	Type   string `json:"type"`
	Weight int    `json:"weight"`
}

// Analysis holds the indicators collected for an email
type Analysis struct {
	ThreatIndicators []Indicator `json:"threatIndicators"`
	SafetyIndicators []Indicator `json:"safetyIndicators"`
}

// Email represents a synthesized training email
type Email struct {
	From       string
	Subject    string
	Body       string
	IsThreat   bool
	Analysis   Analysis
	PromptType PromptType
}

// Resolution describes how a round ended
type Resolution string

const (
	ResolutionNone     Resolution = ""
	ResolutionGuessed  Resolution = "guessed"
	ResolutionSkipped  Resolution = "skipped"
	ResolutionTimedOut Resolution = "timed_out"
)

// Round is one question-answer cycle of the training game
type Round struct {
	Index      int
	Email      *Email
	Guess      *bool
	Correct    *bool
	TimeLeft   int
	Resolution Resolution
}

// Resolved reports whether the round has been guessed, skipped or timed out
func (r *Round) Resolved() bool {
	return r.Resolution != ResolutionNone
}

// ScoreRecord captures the final percentage of one completed game session
type ScoreRecord struct {
	Email        string    `json:"email"`
	Score        int       `json:"score"`
	Date         time.Time `json:"date"`
	SavedLocally bool      `json:"savedLocally"`
}

// ScorePercentage converts a correct count into the rounded percentage stored in a ScoreRecord
func ScorePercentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
