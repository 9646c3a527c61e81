package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mikey/phish-trainer/internal/core"
	"go.uber.org/zap"
)

const generatePath = "/api/gemini/generate-email"

type generateRequest struct {
	PromptType core.PromptType `json:"promptType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeneratorClient is an implementation of the TextGenerator interface backed by the
// backend's generation proxy
type GeneratorClient struct {
	client *Client
}

// NewGeneratorClient creates a generator that uses the given backend client
func NewGeneratorClient(client *Client) *GeneratorClient {
	return &GeneratorClient{client: client}
}

// GenerateEmail asks the backend for a draft of the requested kind
func (g *GeneratorClient) GenerateEmail(ctx context.Context, promptType core.PromptType) (string, error) {
	var resp generateResponse
	if err := g.client.doJSON(ctx, http.MethodPost, generatePath, generateRequest{PromptType: promptType}, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from generation backend")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}

	g.client.logger.Debug("Backend draft received",
		zap.String("prompt_type", string(promptType)),
		zap.Int("length", b.Len()))

	return b.String(), nil
}
