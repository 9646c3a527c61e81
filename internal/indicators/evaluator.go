package indicators

import (
	"strings"

	"github.com/mikey/phish-trainer/internal/core"
	"go.uber.org/zap"
)

// Evaluator scores email text against the threat and safety tables.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	threat []Rule
	safety []Rule
	logger *zap.Logger
}

// NewEvaluator creates an evaluator from a rule table, preserving rule order within each category
func NewEvaluator(rules []Rule, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Evaluator{logger: logger}
	for _, rule := range rules {
		switch rule.Category {
		case CategoryThreat:
			e.threat = append(e.threat, rule)
		case CategorySafety:
			e.safety = append(e.safety, rule)
		}
	}
	return e
}

// NewDefaultEvaluator creates an evaluator over the built-in table
func NewDefaultEvaluator(trustedDomains []string, logger *zap.Logger) *Evaluator {
	return NewEvaluator(DefaultRules(trustedDomains), logger)
}

// DetectThreatIndicators returns every threat rule that matches the email
func (e *Evaluator) DetectThreatIndicators(body, subject, sender string) []core.Indicator {
	return collect(e.threat, blob(body, subject, sender), SenderDomain(sender))
}

// DetectSafetyIndicators returns every safety rule that matches the email
func (e *Evaluator) DetectSafetyIndicators(body, subject, sender string) []core.Indicator {
	return collect(e.safety, blob(body, subject, sender), SenderDomain(sender))
}

// Evaluate returns both indicator lists
func (e *Evaluator) Evaluate(body, subject, sender string) core.Analysis {
	text := blob(body, subject, sender)
	domain := SenderDomain(sender)
	analysis := core.Analysis{
		ThreatIndicators: collect(e.threat, text, domain),
		SafetyIndicators: collect(e.safety, text, domain),
	}

	e.logger.Debug("Evaluated email indicators",
		zap.String("sender", sender),
		zap.Int("threat_matches", len(analysis.ThreatIndicators)),
		zap.Int("safety_matches", len(analysis.SafetyIndicators)))

	return analysis
}

// Classify labels the email as a threat when strictly more threat rules than safety rules match.
// Ties, including no matches at all, are safe.
func (e *Evaluator) Classify(body, subject, sender string) bool {
	return IsThreat(e.Evaluate(body, subject, sender))
}

// IsThreat applies the classification rule to an existing analysis
func IsThreat(analysis core.Analysis) bool {
	return len(analysis.ThreatIndicators) > len(analysis.SafetyIndicators)
}

// Weight sums the weights of a set of indicators
func Weight(indicators []core.Indicator) int {
	total := 0
	for _, ind := range indicators {
		total += ind.Weight
	}
	return total
}

func blob(body, subject, sender string) string {
	return strings.ToLower(subject + " " + body + " " + sender)
}

func collect(rules []Rule, text, senderDomain string) []core.Indicator {
	found := make([]core.Indicator, 0, len(rules))
	for _, rule := range rules {
		if rule.matches(text, senderDomain) {
			found = append(found, core.Indicator{Type: rule.Type, Weight: rule.Weight})
		}
	}
	return found
}
