package game

import (
	"strings"

	"github.com/mikey/phish-trainer/internal/core"
)

const maxFeedbackIndicators = 3

// FeedbackFor renders the message shown after a round is resolved
func FeedbackFor(r core.Round) string {
	var b strings.Builder

	switch r.Resolution {
	case core.ResolutionTimedOut:
		b.WriteString("Time's up! ")
	case core.ResolutionSkipped:
		b.WriteString("Skipped. ")
	case core.ResolutionGuessed:
		if r.Correct != nil && *r.Correct {
			b.WriteString("Correct! ")
		} else {
			b.WriteString("Incorrect. ")
		}
	}

	if r.Email == nil {
		return strings.TrimSpace(b.String())
	}

	signals := r.Email.Analysis.SafetyIndicators
	if r.Email.IsThreat {
		b.WriteString("This email was a phishing attempt.")
		signals = r.Email.Analysis.ThreatIndicators
	} else {
		b.WriteString("This email was legitimate.")
	}

	if len(signals) > maxFeedbackIndicators {
		signals = signals[:maxFeedbackIndicators]
	}
	if len(signals) > 0 {
		names := make([]string, len(signals))
		for i, s := range signals {
			names[i] = strings.ToLower(s.Type)
		}
		b.WriteString(" Key signs: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(".")
	}

	return b.String()
}
