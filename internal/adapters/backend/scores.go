package backend

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mikey/phish-trainer/internal/core"
)

const scoresPath = "/api/scores"

// ErrRejected is returned when the backend answers a save with success=false
var ErrRejected = errors.New("backend rejected score")

type scorePayload struct {
	Email string    `json:"email"`
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

type saveResponse struct {
	Success bool `json:"success"`
}

// ScoreClient is an implementation of the RemoteScoreStore interface
type ScoreClient struct {
	client *Client
}

// NewScoreClient creates a score store that uses the given backend client
func NewScoreClient(client *Client) *ScoreClient {
	return &ScoreClient{client: client}
}

// SaveScore posts a record to the backend
func (s *ScoreClient) SaveScore(ctx context.Context, record core.ScoreRecord) error {
	payload := scorePayload{
		Email: record.Email,
		Score: record.Score,
		Date:  record.Date.UTC(),
	}

	var resp saveResponse
	if err := s.client.doJSON(ctx, http.MethodPost, scoresPath, payload, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return ErrRejected
	}
	return nil
}

// FetchScores returns the records the backend holds for the authenticated user
func (s *ScoreClient) FetchScores(ctx context.Context) ([]core.ScoreRecord, error) {
	var payload []scorePayload
	if err := s.client.doJSON(ctx, http.MethodGet, scoresPath, nil, &payload); err != nil {
		return nil, err
	}

	records := make([]core.ScoreRecord, 0, len(payload))
	for _, p := range payload {
		records = append(records, core.ScoreRecord{
			Email: p.Email,
			Score: p.Score,
			Date:  p.Date,
		})
	}
	return records, nil
}
