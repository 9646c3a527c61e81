package core

import (
	"errors"
	"testing"
)

func TestScorePercentage(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := ScorePercentage(tt.correct, tt.total); got != tt.want {
			t.Errorf("ScorePercentage(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestPromptTypeValid(t *testing.T) {
	if !PromptSuspicious.Valid() || !PromptLegitimate.Valid() {
		t.Fatal("known prompt types reported invalid")
	}
	if PromptType("spam").Valid() {
		t.Fatal("unknown prompt type reported valid")
	}
}

func TestGenerationErrorUnwraps(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := error(&GenerationError{Reason: "generator call failed", Err: cause})
	if !errors.Is(err, cause) {
		t.Fatal("GenerationError does not unwrap to its cause")
	}
	if !IsGenerationError(err) {
		t.Fatal("IsGenerationError returned false")
	}
	if IsGenerationError(cause) {
		t.Fatal("plain error treated as GenerationError")
	}
}
