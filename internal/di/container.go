package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phish-trainer/internal/adapters/mailer"
	"github.com/mikey/phish-trainer/internal/config"
	"github.com/mikey/phish-trainer/internal/core"
	"github.com/mikey/phish-trainer/internal/factory"
	"github.com/mikey/phish-trainer/internal/indicators"
	"github.com/mikey/phish-trainer/internal/ledger"
	"github.com/mikey/phish-trainer/internal/logging"
	"github.com/mikey/phish-trainer/internal/synth"
	"github.com/mikey/phish-trainer/internal/utils"
)

// Options contains the command line settings that shape the container
type Options struct {
	ConfigFile string
	Verbose    bool
	JSONLog    bool
	// Overrides are applied on top of the loaded configuration
	Overrides map[string]interface{}
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer(opts Options) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		var cfg *config.Config
		var err error
		if opts.ConfigFile != "" {
			cfg, err = config.NewWithFile(opts.ConfigFile)
		} else {
			cfg, err = config.New()
		}
		if err != nil {
			return nil, err
		}
		for key, value := range opts.Overrides {
			cfg.Set(key, value)
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(cfg *config.Config) (*zap.Logger, error) {
		var logger *zap.Logger
		var err error
		if opts.Verbose || opts.JSONLog {
			logger, err = logging.InitConsoleLogger(opts.Verbose, opts.JSONLog)
		} else {
			logger, err = logging.InitLogger(cfg)
		}
		if err != nil {
			return nil, err
		}
		if file := cfg.GetViper().ConfigFileUsed(); file != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", file))
		}
		return logger, nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewGeneratorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMailerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register text generator
	if err := container.Provide(func(f *factory.GeneratorFactory) (core.TextGenerator, error) {
		return f.CreateGenerator(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register stores
	if err := container.Provide(func(f *factory.StoreFactory) (core.KeyValueStore, error) {
		return f.CreateStore()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.StoreFactory) core.RemoteScoreStore {
		return f.CreateRemoteScoreStore()
	}); err != nil {
		return nil, err
	}

	// Register indicator evaluator
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *indicators.Evaluator {
		trusted := cfg.GetIndicators().TrustedDomains
		if len(trusted) > 0 {
			logger.Info("Loaded trusted domains", zap.Strings("domains", trusted))
		}
		return indicators.NewDefaultEvaluator(trusted, logger.Named("indicators"))
	}); err != nil {
		return nil, err
	}

	// Register synthesizer
	if err := container.Provide(func(
		cfg *config.Config,
		generator core.TextGenerator,
		evaluator *indicators.Evaluator,
		text *utils.TextProcessor,
		logger *zap.Logger,
	) *synth.Synthesizer {
		synthCfg := cfg.GetSynth()
		return synth.NewSynthesizer(generator, evaluator, text, logger.Named("synth"), synth.Options{
			BodyLength:      synthCfg.BodyLength,
			MaxAttempts:     synthCfg.MaxAttempts,
			GenerateTimeout: cfg.GetGenerator().Timeout,
		})
	}); err != nil {
		return nil, err
	}

	// Register score ledger
	if err := container.Provide(func(
		store core.KeyValueStore,
		remote core.RemoteScoreStore,
		logger *zap.Logger,
	) *ledger.Ledger {
		return ledger.NewLedger(store, remote, logger.Named("ledger"))
	}); err != nil {
		return nil, err
	}

	// Register mailer
	if err := container.Provide(func(f *factory.MailerFactory) *mailer.Mailer {
		return f.CreateMailer()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// Release stops background work and closes clients held by the container's values
func Release(logger *zap.Logger, values ...interface{}) {
	for _, v := range values {
		if closer, ok := v.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close resource", zap.Error(err))
			}
		}
		if stopper, ok := v.(interface{ Stop() }); ok {
			stopper.Stop()
		}
	}
}
