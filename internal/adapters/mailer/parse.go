package mailer

import (
	"fmt"
	"io"
	"strings"

	"github.com/jhillyerd/enmime"
)

// InboundMessage is the part of a received message the evaluator looks at
type InboundMessage struct {
	From    string
	To      string
	Subject string
	Body    string
	Label   string
}

// ParseMessage reads an RFC 5322 message. Multipart messages yield their text/plain
// content; HTML-only messages are converted to text.
func ParseMessage(r io.Reader) (*InboundMessage, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email: %w", err)
	}

	return &InboundMessage{
		From:    env.GetHeader("From"),
		To:      env.GetHeader("To"),
		Subject: env.GetHeader("Subject"),
		Body:    strings.TrimSpace(env.Text),
		Label:   env.GetHeader(LabelHeader),
	}, nil
}
