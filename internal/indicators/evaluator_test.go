package indicators

import (
	"reflect"
	"testing"

	"github.com/mikey/phish-trainer/internal/core"
	"go.uber.org/zap"
)

func newTestEvaluator() *Evaluator {
	return NewDefaultEvaluator(nil, zap.NewNop())
}

func types(indicators []core.Indicator) []string {
	out := make([]string, len(indicators))
	for i, ind := range indicators {
		out[i] = ind.Type
	}
	return out
}

func TestClassifyIsDeterministic(t *testing.T) {
	e := newTestEvaluator()
	body := "Your account has been suspended. Click here to verify your account immediately."
	subject := "Urgent: account notice"
	sender := "security@paypa1.com"

	first := e.Evaluate(body, subject, sender)
	firstLabel := e.Classify(body, subject, sender)
	for i := 0; i < 20; i++ {
		again := e.Evaluate(body, subject, sender)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("evaluation %d differs: %#v vs %#v", i, first, again)
		}
		if e.Classify(body, subject, sender) != firstLabel {
			t.Fatalf("classification %d differs", i)
		}
	}
	if !firstLabel {
		t.Fatalf("expected phishing sample to classify as threat, got %#v", first)
	}
}

func TestNoMatchesIsSafe(t *testing.T) {
	e := newTestEvaluator()
	analysis := e.Evaluate("the weather was nice", "weather", "someone@example.net")
	if len(analysis.ThreatIndicators) != 0 || len(analysis.SafetyIndicators) != 0 {
		t.Fatalf("expected no indicators, got %#v", analysis)
	}
	if e.Classify("the weather was nice", "weather", "someone@example.net") {
		t.Fatalf("expected no-match text to be safe")
	}
}

func TestTieIsSafe(t *testing.T) {
	e := newTestEvaluator()
	// one threat rule (urgency) and one safety rule (meeting vocabulary)
	body := "The meeting notes are needed urgently."
	analysis := e.Evaluate(body, "notes", "someone@example.net")
	if len(analysis.ThreatIndicators) != 1 || len(analysis.SafetyIndicators) != 1 {
		t.Fatalf("expected a 1:1 tie, got %#v", analysis)
	}
	if e.Classify(body, "notes", "someone@example.net") {
		t.Fatalf("expected tie to classify as safe")
	}
}

func TestCollectsEveryMatchingRule(t *testing.T) {
	e := newTestEvaluator()
	body := "Your account was locked after unusual activity. Click here and confirm your password. Pay the fee with gift cards."
	got := types(e.DetectThreatIndicators(body, "Final notice", "support@micros0ft-support.com"))
	want := []string{
		"Urgency language",
		"Account or credential request",
		"Call to action",
		"Look-alike domain",
		"Suspension or unauthorized activity",
		"Unusual payment method",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected threat indicators:\n got %v\nwant %v", got, want)
	}
}

func TestSafetyIndicators(t *testing.T) {
	e := newTestEvaluator()
	body := "Dear Mr. Thompson, thanks for joining the project meeting. Kind regards"
	got := e.DetectSafetyIndicators(body, "Project update", "sarah.johnson@company.com")
	want := []core.Indicator{
		{Type: "Business or meeting vocabulary", Weight: 2},
		{Type: "Personal salutation", Weight: 1},
		{Type: "Recognized legitimate domain", Weight: 3},
		{Type: "Collaborative phrasing", Weight: 2},
		{Type: "Professional closing", Weight: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected safety indicators:\n got %#v\nwant %#v", got, want)
	}
	if Weight(got) != 9 {
		t.Fatalf("expected total weight 9, got %d", Weight(got))
	}
}

func TestGenericSalutationIsExcluded(t *testing.T) {
	e := newTestEvaluator()
	for _, body := range []string{"Dear customer, read this.", "Hello there, read this.", "Dear valued member"} {
		for _, ind := range e.DetectSafetyIndicators(body, "", "") {
			if ind.Type == "Personal salutation" {
				t.Fatalf("generic salutation %q matched personal salutation", body)
			}
		}
	}
}

func TestLookalikeDomainIsNotTrusted(t *testing.T) {
	e := newTestEvaluator()
	for _, ind := range e.DetectSafetyIndicators("", "", "billing@micros0ft-support.com") {
		if ind.Type == "Recognized legitimate domain" {
			t.Fatalf("look-alike domain was treated as trusted")
		}
	}
}

func TestTrustedDomainsOverride(t *testing.T) {
	e := NewDefaultEvaluator([]string{"  Example.ORG ", "example.org", ""}, zap.NewNop())
	got := types(e.DetectSafetyIndicators("", "", "a@mail.example.org"))
	if !reflect.DeepEqual(got, []string{"Recognized legitimate domain"}) {
		t.Fatalf("expected configured domain to match, got %v", got)
	}
	if len(e.DetectSafetyIndicators("", "", "a@gmail.com")) != 0 {
		t.Fatalf("expected default domains to be replaced by the configured list")
	}
}

func TestNormalizeDomains(t *testing.T) {
	got := NormalizeDomains([]string{" A.com", "a.com", "@b.org", ""})
	if !reflect.DeepEqual(got, []string{"a.com", "b.org"}) {
		t.Fatalf("unexpected normalized domains: %v", got)
	}
}

func TestSenderDomain(t *testing.T) {
	cases := map[string]string{
		"a@Example.com":             "example.com",
		"Alice <alice@corp.io>":     "corp.io",
		"not-an-address":            "",
		"too@many@signs.example.io": "",
	}
	for in, want := range cases {
		if got := SenderDomain(in); got != want {
			t.Errorf("SenderDomain(%q) = %q, want %q", in, got, want)
		}
	}
}
