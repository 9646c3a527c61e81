// Package mailer delivers synthesized training emails over SMTP and parses
// inbound RFC 5322 messages for classification.
package mailer

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
	"github.com/mikey/phish-trainer/internal/core"
)

const (
	// LabelHeader carries the evaluator's verdict on delivered samples
	LabelHeader = "X-Phish-Trainer-Label"
	// IndicatorsHeader lists the indicator types behind the verdict
	IndicatorsHeader = "X-Phish-Trainer-Indicators"

	LabelThreat = "threat"
	LabelSafe   = "safe"
)

// Label returns the header value for an email's verdict
func Label(email *core.Email) string {
	if email.IsThreat {
		return LabelThreat
	}
	return LabelSafe
}

// BuildMessage renders a training email as an RFC 5322 message. The synthesized
// sender goes in From; sender is the real envelope address and goes in Sender.
func BuildMessage(sender string, to []string, email *core.Email, date time.Time) ([]byte, error) {
	if len(to) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	signals := email.Analysis.SafetyIndicators
	if email.IsThreat {
		signals = email.Analysis.ThreatIndicators
	}
	names := make([]string, len(signals))
	for i, s := range signals {
		names[i] = s.Type
	}

	from := email.From
	if from == "" {
		from = sender
	}

	subject := email.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	builder := enmime.Builder().
		From("", from).
		Subject(subject).
		Date(date).
		Header("Sender", sender).
		Header(LabelHeader, Label(email)).
		Text([]byte(email.Body + "\r\n"))
	if len(names) > 0 {
		builder = builder.Header(IndicatorsHeader, strings.Join(names, ", "))
	}
	for _, addr := range to {
		builder = builder.To("", addr)
	}

	root, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}

	var buf bytes.Buffer
	if err := root.Encode(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return buf.Bytes(), nil
}
