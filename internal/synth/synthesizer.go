// Package synth builds labeled training emails from generated text.
package synth

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mikey/phish-trainer/internal/core"
	"github.com/mikey/phish-trainer/internal/indicators"
	"github.com/mikey/phish-trainer/internal/utils"
	"go.uber.org/zap"
)

const (
	// DefaultBodyLength is the exact character count of every synthesized body
	DefaultBodyLength = 290
	// DefaultMaxAttempts bounds regeneration after validation failures
	DefaultMaxAttempts = 3
	// DefaultSubject is used when the generated text has no Subject: line
	DefaultSubject = "Important Message"

	ellipsis = "..."
	filler   = " Please review this message carefully and respond at your earliest convenience."
)

var subjectLine = regexp.MustCompile(`(?im)^[ \t*#]*subject[ \t*]*:[ \t*]*(.*?)[ \t*]*$`)

// Options tunes a Synthesizer. Zero values select the defaults.
type Options struct {
	BodyLength  int
	MaxAttempts int
	// GenerateTimeout bounds each generator call; zero leaves it to the caller's context
	GenerateTimeout time.Duration
	Rand            *rand.Rand
}

// Synthesizer turns generated drafts into fixed-length, labeled emails
type Synthesizer struct {
	generator   core.TextGenerator
	evaluator   *indicators.Evaluator
	text        *utils.TextProcessor
	logger      *zap.Logger
	bodyLength  int
	maxAttempts int
	timeout     time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand

	inFlight atomic.Bool
}

// NewSynthesizer creates a new synthesizer
func NewSynthesizer(
	generator core.TextGenerator,
	evaluator *indicators.Evaluator,
	text *utils.TextProcessor,
	logger *zap.Logger,
	opts Options,
) *Synthesizer {
	if opts.BodyLength <= 0 {
		opts.BodyLength = DefaultBodyLength
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Synthesizer{
		generator:   generator,
		evaluator:   evaluator,
		text:        text,
		logger:      logger,
		bodyLength:  opts.BodyLength,
		maxAttempts: opts.MaxAttempts,
		timeout:     opts.GenerateTimeout,
		rng:         opts.Rand,
	}
}

// GenerateRandom generates an email of a prompt type chosen with equal probability
func (s *Synthesizer) GenerateRandom(ctx context.Context) (*core.Email, error) {
	promptType := core.PromptLegitimate
	s.rngMu.Lock()
	if s.rng.Intn(2) == 0 {
		promptType = core.PromptSuspicious
	}
	s.rngMu.Unlock()
	return s.Generate(ctx, promptType)
}

// Generate asks the generator for a draft and turns it into a labeled email.
// Only one generation may run at a time per synthesizer.
func (s *Synthesizer) Generate(ctx context.Context, promptType core.PromptType) (*core.Email, error) {
	if !promptType.Valid() {
		return nil, &core.GenerationError{Reason: fmt.Sprintf("unknown prompt type %q", promptType)}
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, core.ErrGenerationInFlight
	}
	defer s.inFlight.Store(false)

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		raw, err := s.draft(ctx, promptType)
		if err != nil {
			if core.IsGenerationError(err) {
				return nil, err
			}
			return nil, &core.GenerationError{Reason: "generator call failed", Err: err}
		}

		email, err := s.Compose(promptType, raw)
		if err == nil {
			s.logger.Debug("Synthesized training email",
				zap.String("prompt_type", string(promptType)),
				zap.String("sender", email.From),
				zap.Bool("is_threat", email.IsThreat),
				zap.Int("attempt", attempt))
			return email, nil
		}

		var validationErr *core.ValidationError
		if !errors.As(err, &validationErr) {
			return nil, err
		}
		lastErr = err
		s.logger.Warn("Discarding malformed generated email",
			zap.Int("attempt", attempt),
			zap.Error(err))

		if ctx.Err() != nil {
			return nil, &core.GenerationError{Reason: "generation cancelled", Err: ctx.Err()}
		}
	}

	return nil, &core.GenerationError{
		Reason: fmt.Sprintf("no usable email after %d attempts", s.maxAttempts),
		Err:    lastErr,
	}
}

// draft makes one generator call under the configured timeout
func (s *Synthesizer) draft(ctx context.Context, promptType core.PromptType) (string, error) {
	if s.timeout <= 0 {
		return s.generator.GenerateEmail(ctx, promptType)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.generator.GenerateEmail(ctx, promptType)
}

// Compose post-processes generated text into a labeled email without calling the generator
func (s *Synthesizer) Compose(promptType core.PromptType, raw string) (*core.Email, error) {
	raw = s.text.Normalize(raw)
	if strings.TrimSpace(raw) == "" {
		return nil, &core.GenerationError{Reason: "generator returned no content"}
	}

	subject, body := splitSubject(raw)
	original := utils.CollapseWhitespace(body)
	if original == "" {
		return nil, &core.ValidationError{Field: "body", Reason: "is empty"}
	}

	cleaned := s.text.StripSignoffs(body)
	if utils.RuneLen(cleaned) < utils.RuneLen(original)/2 {
		s.logger.Debug("Sign-off stripping removed too much, keeping original body",
			zap.Int("original_length", utils.RuneLen(original)),
			zap.Int("stripped_length", utils.RuneLen(cleaned)))
		cleaned = original
	}

	email := &core.Email{
		From:       s.senderFor(promptType),
		Subject:    subject,
		Body:       s.text.FitLength(cleaned, s.bodyLength, ellipsis, filler),
		PromptType: promptType,
	}
	email.Analysis = s.evaluator.Evaluate(email.Body, email.Subject, email.From)
	email.IsThreat = indicators.IsThreat(email.Analysis)

	return email, nil
}

// splitSubject extracts the first Subject: line and returns the remaining text as the body
func splitSubject(raw string) (string, string) {
	loc := subjectLine.FindStringSubmatchIndex(raw)
	if loc == nil {
		return DefaultSubject, raw
	}

	subject := strings.TrimSpace(raw[loc[2]:loc[3]])
	if subject == "" {
		subject = DefaultSubject
	}
	return subject, raw[:loc[0]] + raw[loc[1]:]
}
