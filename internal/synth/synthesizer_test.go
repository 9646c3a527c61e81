package synth

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mikey/phish-trainer/internal/core"
	"github.com/mikey/phish-trainer/internal/indicators"
	"github.com/mikey/phish-trainer/internal/utils"
	"go.uber.org/zap"
)

type scriptedGenerator struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   int
	prompts []core.PromptType
	block   chan struct{}
	entered chan struct{}
}

func (g *scriptedGenerator) GenerateEmail(ctx context.Context, promptType core.PromptType) (string, error) {
	g.mu.Lock()
	g.calls++
	g.prompts = append(g.prompts, promptType)
	idx := g.calls - 1
	g.mu.Unlock()

	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.block != nil {
		<-g.block
	}
	if g.err != nil {
		return "", g.err
	}
	if idx >= len(g.replies) {
		idx = len(g.replies) - 1
	}
	return g.replies[idx], nil
}

func newTestSynth(gen core.TextGenerator) *Synthesizer {
	logger := zap.NewNop()
	return NewSynthesizer(
		gen,
		indicators.NewDefaultEvaluator(nil, logger),
		utils.NewTextProcessor(logger),
		logger,
		Options{Rand: rand.New(rand.NewSource(7))},
	)
}

func TestBodyIsAlwaysExactLength(t *testing.T) {
	inputs := []string{
		"Subject: Lunch\nSee you at noon.",
		"Subject: Report\n" + strings.Repeat("The quarterly report covers revenue and costs. ", 30),
		"No subject line here, just a body of moderate size that needs padding.",
		"Subject: Ünïcödé\n" + strings.Repeat("é", 400),
	}

	for _, in := range inputs {
		s := newTestSynth(&scriptedGenerator{replies: []string{in}})
		email, err := s.Generate(context.Background(), core.PromptLegitimate)
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		if n := utils.RuneLen(email.Body); n != DefaultBodyLength {
			t.Fatalf("expected %d characters, got %d for input %q", DefaultBodyLength, n, in)
		}
	}
}

func TestLongBodyEndsWithEllipsis(t *testing.T) {
	s := newTestSynth(&scriptedGenerator{replies: []string{"Subject: x\n" + strings.Repeat("word ", 200)}})
	email, err := s.Generate(context.Background(), core.PromptLegitimate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.HasSuffix(email.Body, "...") {
		t.Fatalf("expected truncated body to end with ellipsis: %q", email.Body)
	}
}

func TestSubjectExtraction(t *testing.T) {
	s := newTestSynth(&scriptedGenerator{replies: []string{"**Subject:** Team offsite\nWe meet on Friday."}})
	email, err := s.Generate(context.Background(), core.PromptLegitimate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if email.Subject != "Team offsite" {
		t.Fatalf("unexpected subject %q", email.Subject)
	}
	if strings.Contains(strings.ToLower(email.Body), "subject") {
		t.Fatalf("subject line should be removed from body: %q", email.Body)
	}
	if !strings.HasPrefix(email.Body, "We meet on Friday.") {
		t.Fatalf("unexpected body start: %q", email.Body)
	}
}

func TestMissingSubjectUsesDefault(t *testing.T) {
	s := newTestSynth(&scriptedGenerator{replies: []string{"Just a body."}})
	email, err := s.Generate(context.Background(), core.PromptLegitimate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if email.Subject != DefaultSubject {
		t.Fatalf("expected default subject, got %q", email.Subject)
	}
}

func TestSignoffsAreStripped(t *testing.T) {
	raw := "Subject: Update\nHi Anna,\nThe project milestone moved to March because the vendor needs more time to finish testing.\nBest regards,\nTom"
	s := newTestSynth(&scriptedGenerator{replies: []string{raw}})
	email, err := s.Generate(context.Background(), core.PromptLegitimate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if strings.Contains(email.Body, "Hi Anna") || strings.Contains(email.Body, "Best regards") {
		t.Fatalf("sign-offs should be stripped: %q", email.Body)
	}
}

func TestOverStrippingKeepsOriginal(t *testing.T) {
	// The closing line comes first, so stripping would drop nearly everything.
	raw := "Subject: Note\nThanks!\nThe report you asked about is attached and ready for review."
	s := newTestSynth(&scriptedGenerator{replies: []string{raw}})
	email, err := s.Generate(context.Background(), core.PromptLegitimate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.HasPrefix(email.Body, "Thanks! The report you asked about") {
		t.Fatalf("expected unstripped body, got %q", email.Body)
	}
}

func TestSenderMatchesPromptType(t *testing.T) {
	s := newTestSynth(&scriptedGenerator{replies: []string{"Subject: a\nbody text"}})
	for i := 0; i < 20; i++ {
		email, err := s.Generate(context.Background(), core.PromptSuspicious)
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		if !contains(suspiciousDomains, indicators.SenderDomain(email.From)) {
			t.Fatalf("suspicious email used sender %q", email.From)
		}
		email, err = s.Generate(context.Background(), core.PromptLegitimate)
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		if !contains(legitimateDomains, indicators.SenderDomain(email.From)) {
			t.Fatalf("legitimate email used sender %q", email.From)
		}
	}
}

func TestSuspiciousDomainsAreFlagged(t *testing.T) {
	e := indicators.NewDefaultEvaluator(nil, zap.NewNop())
	for _, d := range suspiciousDomains {
		found := false
		for _, ind := range e.DetectThreatIndicators("", "", "security@"+d) {
			if ind.Type == "Look-alike domain" {
				found = true
			}
		}
		if !found {
			t.Errorf("domain %s is not detected as look-alike", d)
		}
	}
}

func TestLabelComesFromEvaluator(t *testing.T) {
	raw := "Subject: Urgent: account suspended\nYour account was suspended after unauthorized access. Click here to verify your account immediately."
	s := newTestSynth(&scriptedGenerator{replies: []string{raw}})
	email, err := s.Generate(context.Background(), core.PromptSuspicious)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !email.IsThreat {
		t.Fatalf("expected threat label, analysis %#v", email.Analysis)
	}
	if len(email.Analysis.ThreatIndicators) <= len(email.Analysis.SafetyIndicators) {
		t.Fatalf("label inconsistent with indicators: %#v", email.Analysis)
	}
}

func TestEmptyBodyTriggersRegeneration(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"Subject: only a subject", "Subject: ok\nA real body."}}
	s := newTestSynth(gen)
	email, err := s.Generate(context.Background(), core.PromptLegitimate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("expected a regeneration, got %d calls", gen.calls)
	}
	if email.Subject != "ok" {
		t.Fatalf("expected second draft to be used, got subject %q", email.Subject)
	}
}

func TestRepeatedValidationFailureIsGenerationError(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"Subject: empty"}}
	s := newTestSynth(gen)
	_, err := s.Generate(context.Background(), core.PromptLegitimate)
	if !core.IsGenerationError(err) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	var validationErr *core.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected wrapped ValidationError, got %v", err)
	}
	if gen.calls != DefaultMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", DefaultMaxAttempts, gen.calls)
	}
}

func TestGeneratorFailureIsGenerationError(t *testing.T) {
	cause := errors.New("connection refused")
	s := newTestSynth(&scriptedGenerator{err: cause})
	_, err := s.Generate(context.Background(), core.PromptSuspicious)
	if !core.IsGenerationError(err) || !errors.Is(err, cause) {
		t.Fatalf("expected GenerationError wrapping cause, got %v", err)
	}
}

// stalledGenerator never answers before its context ends
type stalledGenerator struct{}

func (stalledGenerator) GenerateEmail(ctx context.Context, promptType core.PromptType) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestGeneratorCallIsBoundedByTimeout(t *testing.T) {
	logger := zap.NewNop()
	s := NewSynthesizer(
		stalledGenerator{},
		indicators.NewDefaultEvaluator(nil, logger),
		utils.NewTextProcessor(logger),
		logger,
		Options{GenerateTimeout: 20 * time.Millisecond, Rand: rand.New(rand.NewSource(7))},
	)

	start := time.Now()
	_, err := s.Generate(context.Background(), core.PromptLegitimate)
	if !core.IsGenerationError(err) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected GenerationError wrapping deadline, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("generator timeout not applied, waited %v", elapsed)
	}
}

func TestEmptyResponseIsGenerationError(t *testing.T) {
	s := newTestSynth(&scriptedGenerator{replies: []string{"   \n"}})
	_, err := s.Generate(context.Background(), core.PromptSuspicious)
	if !core.IsGenerationError(err) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestOverlappingGenerateIsRejected(t *testing.T) {
	gen := &scriptedGenerator{
		replies: []string{"Subject: a\nbody"},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	s := newTestSynth(gen)

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background(), core.PromptLegitimate)
		done <- err
	}()
	<-gen.entered

	if _, err := s.Generate(context.Background(), core.PromptLegitimate); !errors.Is(err, core.ErrGenerationInFlight) {
		t.Fatalf("expected ErrGenerationInFlight, got %v", err)
	}

	close(gen.block)
	if err := <-done; err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}
}

func TestGenerateRandomUsesBothPromptTypes(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"Subject: a\nbody"}}
	s := newTestSynth(gen)
	for i := 0; i < 50; i++ {
		if _, err := s.GenerateRandom(context.Background()); err != nil {
			t.Fatalf("GenerateRandom returned error: %v", err)
		}
	}
	seen := map[core.PromptType]bool{}
	for _, p := range gen.prompts {
		seen[p] = true
	}
	if !seen[core.PromptSuspicious] || !seen[core.PromptLegitimate] {
		t.Fatalf("expected both prompt types, saw %v", seen)
	}
}

func TestUnknownPromptType(t *testing.T) {
	s := newTestSynth(&scriptedGenerator{replies: []string{"x"}})
	if _, err := s.Generate(context.Background(), core.PromptType("other")); !core.IsGenerationError(err) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
