package mailer

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/phish-trainer/internal/core"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Options configures the SMTP relay used for delivery
type Options struct {
	Address  string
	HeloName string
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Mailer sends training emails through an SMTP relay
type Mailer struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewMailer creates a new mailer
func NewMailer(opts Options, logger *zap.Logger) *Mailer {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HeloName == "" {
		opts.HeloName = "localhost"
	}
	return &Mailer{
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Send renders the email and delivers it to every recipient
func (m *Mailer) Send(ctx context.Context, to []string, email *core.Email) error {
	data, err := BuildMessage(m.opts.From, to, email, m.now())
	if err != nil {
		return err
	}
	return m.deliver(ctx, m.opts.From, to, data)
}

// deliver relays raw message data using go-smtp
func (m *Mailer) deliver(ctx context.Context, sender string, recipients []string, data []byte) error {
	dialer := &net.Dialer{Timeout: m.opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", m.opts.Address)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP relay: %w", err)
	}

	deadline := time.Now().Add(m.opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(m.opts.HeloName); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if m.opts.Username != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return fmt.Errorf("SMTP relay does not support authentication")
		}
		auth := sasl.NewPlainClient("", m.opts.Username, m.opts.Password)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("AUTH failed: %w", err)
		}
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			m.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// already accepted by the relay
		m.logger.Warn("QUIT command failed", zap.Error(err))
	}

	m.logger.Info("Training email delivered",
		zap.Strings("recipients", recipients),
		zap.Int("size", len(data)))
	return nil
}
