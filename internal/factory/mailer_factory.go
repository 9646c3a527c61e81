package factory

import (
	"github.com/mikey/phish-trainer/internal/adapters/mailer"
	"github.com/mikey/phish-trainer/internal/config"
	"go.uber.org/zap"
)

// MailerFactory creates SMTP mailers
type MailerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailerFactory creates a new mailer factory
func NewMailerFactory(cfg *config.Config, logger *zap.Logger) *MailerFactory {
	return &MailerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailer creates a mailer for the configured relay
func (f *MailerFactory) CreateMailer() *mailer.Mailer {
	smtpCfg := f.cfg.GetSMTP()
	return mailer.NewMailer(mailer.Options{
		Address:  smtpCfg.Address,
		HeloName: smtpCfg.HeloName,
		Username: smtpCfg.Username,
		Password: smtpCfg.Password,
		From:     smtpCfg.From,
		Timeout:  smtpCfg.Timeout,
	}, f.logger.Named("mailer"))
}
