package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mikey/phish-trainer/internal/core"
	"go.uber.org/zap/zaptest"
)

func TestGenerateEmail(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != generatePath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Subject: Account alert\n"},{"text":"Verify your password today."}]}}]}`))
	}))
	defer srv.Close()

	gen := NewGeneratorClient(NewClient(srv.URL+"/", "", time.Second, zaptest.NewLogger(t)))
	text, err := gen.GenerateEmail(context.Background(), core.PromptSuspicious)
	if err != nil {
		t.Fatalf("GenerateEmail returned error: %v", err)
	}
	if text != "Subject: Account alert\nVerify your password today." {
		t.Fatalf("unexpected text %q", text)
	}
	if got.PromptType != core.PromptSuspicious {
		t.Fatalf("unexpected prompt type %q", got.PromptType)
	}
}

func TestGenerateEmailEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	gen := NewGeneratorClient(NewClient(srv.URL, "", time.Second, zaptest.NewLogger(t)))
	if _, err := gen.GenerateEmail(context.Background(), core.PromptLegitimate); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestGenerateEmailStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	gen := NewGeneratorClient(NewClient(srv.URL, "", time.Second, zaptest.NewLogger(t)))
	_, err := gen.GenerateEmail(context.Background(), core.PromptLegitimate)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable || statusErr.Body != "quota exhausted" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestSaveScoreSendsBearerToken(t *testing.T) {
	date := time.Date(2024, 5, 2, 14, 30, 0, 0, time.UTC)
	var gotAuth string
	var got scorePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != scoresPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(saveResponse{Success: true})
	}))
	defer srv.Close()

	scores := NewScoreClient(NewClient(srv.URL, "session-token", time.Second, zaptest.NewLogger(t)))
	err := scores.SaveScore(context.Background(), core.ScoreRecord{
		Email: "player@example.com", Score: 67, Date: date, SavedLocally: true,
	})
	if err != nil {
		t.Fatalf("SaveScore returned error: %v", err)
	}
	if gotAuth != "Bearer session-token" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
	if got.Email != "player@example.com" || got.Score != 67 || !got.Date.Equal(date) {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestSaveScoreRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	scores := NewScoreClient(NewClient(srv.URL, "t", time.Second, zaptest.NewLogger(t)))
	if err := scores.SaveScore(context.Background(), core.ScoreRecord{Email: "a@b.c", Score: 0}); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestSaveScoreUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	scores := NewScoreClient(NewClient(srv.URL, "expired", time.Second, zaptest.NewLogger(t)))
	var statusErr *StatusError
	if err := scores.SaveScore(context.Background(), core.ScoreRecord{Email: "a@b.c"}); !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
}

func TestFetchScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != scoresPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer session-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"email":"player@example.com","score":100,"date":"2024-05-02T14:30:00Z"},{"email":"player@example.com","score":33,"date":"2024-05-01T09:00:00.250Z"}]`))
	}))
	defer srv.Close()

	scores := NewScoreClient(NewClient(srv.URL, "session-token", time.Second, zaptest.NewLogger(t)))
	records, err := scores.FetchScores(context.Background())
	if err != nil {
		t.Fatalf("FetchScores returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Score != 100 || records[0].SavedLocally {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[1].Date.Nanosecond() != 250*int(time.Millisecond) {
		t.Fatalf("fractional seconds lost: %v", records[1].Date)
	}
}
