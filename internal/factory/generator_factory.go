package factory

import (
	"context"
	"fmt"

	"github.com/mikey/phish-trainer/internal/adapters/backend"
	"github.com/mikey/phish-trainer/internal/adapters/bedrock"
	"github.com/mikey/phish-trainer/internal/adapters/gemini"
	"github.com/mikey/phish-trainer/internal/adapters/openai"
	"github.com/mikey/phish-trainer/internal/config"
	"github.com/mikey/phish-trainer/internal/core"
	"go.uber.org/zap"
)

const (
	ProviderBackend = "backend"
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
)

// GeneratorFactory creates text generators
type GeneratorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGeneratorFactory creates a new generator factory
func NewGeneratorFactory(cfg *config.Config, logger *zap.Logger) *GeneratorFactory {
	return &GeneratorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGenerator creates a text generator based on the configured provider
func (f *GeneratorFactory) CreateGenerator(ctx context.Context) (core.TextGenerator, error) {
	provider := f.cfg.GetGenerator().Provider
	logger := f.logger.With(zap.String("provider", provider))

	switch provider {
	case ProviderBackend, "":
		backendCfg := f.cfg.GetBackend()
		client := backend.NewClient(backendCfg.BaseURL, backendCfg.Token, backendCfg.Timeout, logger)
		return backend.NewGeneratorClient(client), nil
	case ProviderGemini:
		client, err := gemini.NewFactory(f.cfg, logger).CreateClient()
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderOpenAI:
		client, err := openai.NewFactory(f.cfg, logger).CreateClient()
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderBedrock:
		client, err := bedrock.NewFactory(f.cfg, logger).CreateClient(ctx)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", provider)
	}
}
