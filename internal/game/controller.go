// Package game drives a phishing-detection training session.
//
// A Controller owns one session. Every command, countdown tick, feedback timer and
// generation result is handled by a single loop goroutine, so a round can only be
// resolved once: whichever of guess, skip or timeout reaches the loop first wins and
// the others fail with core.ErrInvalidTransition.
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/phish-trainer/internal/core"
	"go.uber.org/zap"
)

const (
	DefaultRounds        = 3
	DefaultRoundSeconds  = 30
	DefaultTickInterval  = time.Second
	DefaultFeedbackDelay = 2 * time.Second

	recordTimeout = 15 * time.Second
)

// EmailSource produces labeled emails for new rounds
type EmailSource interface {
	GenerateRandom(ctx context.Context) (*core.Email, error)
}

// Config holds the tunables of a session. Zero values select the defaults.
type Config struct {
	Rounds        int
	RoundSeconds  int
	TickInterval  time.Duration
	FeedbackDelay time.Duration
	UserEmail     string
	// OnUpdate runs on the loop goroutine after every transition. It must not call back into the controller.
	OnUpdate func(Snapshot)
}

// Snapshot is a copy of the session state
type Snapshot struct {
	SessionID   string
	State       State
	Current     *core.Round
	History     []core.Round
	Correct     int
	TotalRounds int
	Feedback    string
	LastError   error
	Generating  bool
	// Recording is true while the finished session's score is being saved
	Recording  bool
	FinalScore int
}

type generationResult struct {
	seq   uint64
	email *core.Email
	err   error
}

// Controller runs the round state machine
type Controller struct {
	id       string
	source   EmailSource
	recorder core.SessionRecorder
	logger   *zap.Logger
	cfg      Config

	cmds       chan command
	genResults chan generationResult
	recorded   chan error
	stopped    chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc

	mu   sync.RWMutex
	last Snapshot

	// owned by the loop goroutine
	state         State
	current       *core.Round
	history       []core.Round
	correct       int
	feedback      string
	lastErr       error
	finalScore    int
	genSeq        uint64
	generating    bool
	recording     bool
	genCancel     context.CancelFunc
	ticker        *time.Ticker
	tickC         <-chan time.Time
	feedbackTimer *time.Timer
	feedbackC     <-chan time.Time
}

// NewController creates a controller and starts its loop. Dispose must be called to release it.
// recorder may be nil, in which case finished sessions are not persisted.
func NewController(source EmailSource, recorder core.SessionRecorder, logger *zap.Logger, cfg Config) *Controller {
	if cfg.Rounds <= 0 {
		cfg.Rounds = DefaultRounds
	}
	if cfg.RoundSeconds <= 0 {
		cfg.RoundSeconds = DefaultRoundSeconds
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.FeedbackDelay <= 0 {
		cfg.FeedbackDelay = DefaultFeedbackDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	c := &Controller{
		id:         id,
		source:     source,
		recorder:   recorder,
		logger:     logger.With(zap.String("session_id", id)),
		cfg:        cfg,
		cmds:       make(chan command),
		genResults: make(chan generationResult),
		recorded:   make(chan error),
		stopped:    make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
		state:      StateNotStarted,
	}
	c.last = c.snapshot()

	go c.loop()
	return c
}

// ID returns the session identifier
func (c *Controller) ID() string {
	return c.id
}

// Start begins the session by generating the first email
func (c *Controller) Start() error {
	return c.send(command{kind: cmdStart})
}

// Guess resolves the current round with the player's verdict
func (c *Controller) Guess(isThreat bool) error {
	return c.send(command{kind: cmdGuess, guess: isThreat})
}

// Skip resolves the current round without credit
func (c *Controller) Skip() error {
	return c.send(command{kind: cmdSkip})
}

// Retry restarts generation after a failure
func (c *Controller) Retry() error {
	return c.send(command{kind: cmdRetry})
}

// Tick advances the countdown by one step, exactly like the internal ticker does
func (c *Controller) Tick() error {
	return c.send(command{kind: cmdTick})
}

// Dispose stops every timer, cancels in-flight generation and ends the loop.
// It is safe to call more than once.
func (c *Controller) Dispose() {
	_ = c.send(command{kind: cmdDispose})
	<-c.stopped
}

// Done is closed once the controller has been disposed
func (c *Controller) Done() <-chan struct{} {
	return c.stopped
}

// Snapshot returns the state published by the most recent transition
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *Controller) send(cmd command) error {
	cmd.reply = make(chan error, 1)
	select {
	case c.cmds <- cmd:
	case <-c.stopped:
		return core.ErrDisposed
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-c.stopped:
		return core.ErrDisposed
	}
}

func (c *Controller) loop() {
	defer close(c.stopped)

	for {
		select {
		case cmd := <-c.cmds:
			err := c.handle(cmd)
			cmd.reply <- err
			if cmd.kind == cmdDispose {
				return
			}
		case <-c.tickC:
			c.onTick()
		case <-c.feedbackC:
			c.onFeedbackElapsed()
		case res := <-c.genResults:
			c.onGenerated(res)
		case err := <-c.recorded:
			c.onRecorded(err)
		}
	}
}

func (c *Controller) handle(cmd command) error {
	switch cmd.kind {
	case cmdStart:
		if c.state != StateNotStarted {
			return c.reject(cmd)
		}
		c.logger.Info("Starting training session", zap.Int("rounds", c.cfg.Rounds))
		c.state = StateGenerating
		c.launchGeneration()
		c.publish()
		return nil

	case cmdRetry:
		if c.state != StateGenerating {
			return c.reject(cmd)
		}
		if c.generating {
			return core.ErrGenerationInFlight
		}
		if c.lastErr == nil {
			return c.reject(cmd)
		}
		c.launchGeneration()
		c.publish()
		return nil

	case cmdGuess:
		if c.state != StateAwaitingGuess {
			return c.reject(cmd)
		}
		guess := cmd.guess
		c.resolve(core.ResolutionGuessed, &guess)
		return nil

	case cmdSkip:
		if c.state != StateAwaitingGuess {
			return c.reject(cmd)
		}
		c.resolve(core.ResolutionSkipped, nil)
		return nil

	case cmdTick:
		if c.state != StateAwaitingGuess {
			return c.reject(cmd)
		}
		c.onTick()
		return nil

	case cmdDispose:
		c.stopCountdown()
		c.stopFeedbackTimer()
		if c.genCancel != nil {
			c.genCancel()
			c.genCancel = nil
		}
		c.cancel()
		c.logger.Debug("Training session disposed", zap.String("state", string(c.state)))
		return nil
	}
	return core.ErrInvalidTransition
}

func (c *Controller) reject(cmd command) error {
	c.logger.Debug("Ignoring command in current state",
		zap.Stringer("command", cmd.kind),
		zap.String("state", string(c.state)))
	return core.ErrInvalidTransition
}

func (c *Controller) launchGeneration() {
	c.genSeq++
	seq := c.genSeq
	c.generating = true
	c.lastErr = nil

	ctx, cancel := context.WithCancel(c.ctx)
	c.genCancel = cancel

	go func() {
		email, err := c.source.GenerateRandom(ctx)
		select {
		case c.genResults <- generationResult{seq: seq, email: email, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (c *Controller) onGenerated(res generationResult) {
	if res.seq != c.genSeq || c.state != StateGenerating {
		return
	}
	c.generating = false
	if c.genCancel != nil {
		c.genCancel()
		c.genCancel = nil
	}

	err := res.err
	if err == nil && (res.email == nil || res.email.Body == "") {
		err = &core.GenerationError{
			Reason: "generator produced an unusable email",
			Err:    &core.ValidationError{Field: "body", Reason: "is empty"},
		}
	}
	if err != nil {
		if !core.IsGenerationError(err) {
			err = &core.GenerationError{Reason: "email source failed", Err: err}
		}
		c.lastErr = err
		c.logger.Warn("Email generation failed", zap.Int("round", len(c.history)), zap.Error(err))
		c.publish()
		return
	}

	c.current = &core.Round{
		Index:    len(c.history),
		Email:    res.email,
		TimeLeft: c.cfg.RoundSeconds,
	}
	c.feedback = ""
	c.state = StateAwaitingGuess
	c.startCountdown()
	c.publish()
}

func (c *Controller) onTick() {
	if c.state != StateAwaitingGuess || c.current == nil {
		return
	}
	c.current.TimeLeft--
	if c.current.TimeLeft <= 0 {
		c.current.TimeLeft = 0
		c.resolve(core.ResolutionTimedOut, nil)
		return
	}
	c.publish()
}

// resolve closes the current round. The countdown is stopped before anything else.
func (c *Controller) resolve(resolution core.Resolution, guess *bool) {
	c.stopCountdown()

	round := c.current
	round.Resolution = resolution
	if guess != nil {
		correct := *guess == round.Email.IsThreat
		round.Guess = guess
		round.Correct = &correct
		if correct {
			c.correct++
		}
	}

	c.history = append(c.history, *round)
	c.feedback = FeedbackFor(*round)
	c.state = StateFeedback

	c.logger.Info("Round resolved",
		zap.Int("round", round.Index),
		zap.String("resolution", string(resolution)),
		zap.Bool("is_threat", round.Email.IsThreat),
		zap.Int("correct", c.correct))

	c.feedbackTimer = time.NewTimer(c.cfg.FeedbackDelay)
	c.feedbackC = c.feedbackTimer.C
	c.publish()
}

func (c *Controller) onFeedbackElapsed() {
	c.feedbackTimer = nil
	c.feedbackC = nil
	if c.state != StateFeedback {
		return
	}

	c.current = nil
	if len(c.history) >= c.cfg.Rounds {
		c.finish()
		return
	}

	c.state = StateGenerating
	c.launchGeneration()
	c.publish()
}

func (c *Controller) finish() {
	c.state = StateFinished
	c.finalScore = core.ScorePercentage(c.correct, c.cfg.Rounds)

	c.logger.Info("Training session finished",
		zap.Int("correct", c.correct),
		zap.Int("score", c.finalScore))

	if c.recorder != nil {
		c.launchRecord()
	}
	c.publish()
}

// launchRecord saves the final score off the loop so a slow remote mirror never
// holds back the Finished state. Dispose cancels it through c.ctx.
func (c *Controller) launchRecord() {
	c.recording = true
	score, email := c.finalScore, c.cfg.UserEmail

	go func() {
		ctx, cancel := context.WithTimeout(c.ctx, recordTimeout)
		defer cancel()
		err := c.recorder.RecordSession(ctx, score, email)
		select {
		case c.recorded <- err:
		case <-c.ctx.Done():
		}
	}()
}

func (c *Controller) onRecorded(err error) {
	c.recording = false
	if err != nil {
		c.lastErr = err
		c.logger.Error("Failed to record session score", zap.Error(err))
	}
	c.publish()
}

func (c *Controller) startCountdown() {
	c.stopCountdown()
	c.ticker = time.NewTicker(c.cfg.TickInterval)
	c.tickC = c.ticker.C
}

func (c *Controller) stopCountdown() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	c.ticker = nil
	c.tickC = nil
}

func (c *Controller) stopFeedbackTimer() {
	if c.feedbackTimer != nil {
		c.feedbackTimer.Stop()
	}
	c.feedbackTimer = nil
	c.feedbackC = nil
}

func (c *Controller) snapshot() Snapshot {
	s := Snapshot{
		SessionID:   c.id,
		State:       c.state,
		History:     append([]core.Round(nil), c.history...),
		Correct:     c.correct,
		TotalRounds: c.cfg.Rounds,
		Feedback:    c.feedback,
		LastError:   c.lastErr,
		Generating:  c.generating,
		Recording:   c.recording,
		FinalScore:  c.finalScore,
	}
	if c.current != nil {
		round := *c.current
		s.Current = &round
	}
	return s
}

func (c *Controller) publish() {
	snap := c.snapshot()
	c.mu.Lock()
	c.last = snap
	c.mu.Unlock()

	if c.cfg.OnUpdate != nil {
		c.cfg.OnUpdate(snap)
	}
}
