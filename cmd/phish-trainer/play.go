package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mikey/phish-trainer/internal/config"
	"github.com/mikey/phish-trainer/internal/core"
	"github.com/mikey/phish-trainer/internal/di"
	"github.com/mikey/phish-trainer/internal/display"
	"github.com/mikey/phish-trainer/internal/game"
	"github.com/mikey/phish-trainer/internal/ledger"
	"github.com/mikey/phish-trainer/internal/synth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const controlsHint = "[p] phishing  [l] legitimate  [s] skip  [q] quit"

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a training session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return container.Invoke(func(
			cfg *config.Config,
			logger *zap.Logger,
			generator core.TextGenerator,
			store core.KeyValueStore,
			synthesizer *synth.Synthesizer,
			scores *ledger.Ledger,
		) error {
			defer logger.Sync()
			defer di.Release(logger, generator, store)
			return runPlay(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cfg.GetGame(), logger, synthesizer, scores)
		})
	},
}

func runPlay(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	gameCfg config.GameConfig,
	logger *zap.Logger,
	source game.EmailSource,
	scores *ledger.Ledger,
) error {
	notify := make(chan struct{}, 1)
	ctrl := game.NewController(source, scores, logger, game.Config{
		Rounds:        gameCfg.Rounds,
		RoundSeconds:  gameCfg.RoundSeconds,
		TickInterval:  gameCfg.TickInterval,
		FeedbackDelay: gameCfg.FeedbackDelay,
		UserEmail:     gameCfg.UserEmail,
		OnUpdate: func(game.Snapshot) {
			select {
			case notify <- struct{}{}:
			default:
			}
		},
	})
	defer ctrl.Dispose()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.ToLower(strings.TrimSpace(scanner.Text())):
			case <-ctrl.Done():
				return
			}
		}
	}()

	logger.Debug("Playing session", zap.String("session_id", ctrl.ID()))
	fmt.Fprintln(out, display.Bold.Render("Spot the phish"))
	fmt.Fprintln(out, display.Dim.Render(controlsHint))
	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	r := &screen{out: out, shownRound: -1, shownFeedback: -1, shownGenerating: -1}
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			display.ErrorMsg(out, "Session abandoned")
			return nil

		case <-notify:
			snap := ctrl.Snapshot()
			r.render(snap)
			if snap.State == game.StateFinished && !snap.Recording {
				showRecent(ctx, out, scores, gameCfg.UserEmail)
				return nil
			}

		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			if line == "q" || line == "quit" {
				display.ErrorMsg(out, "Session abandoned")
				return nil
			}
			if err := dispatch(ctrl, line); err != nil {
				switch {
				case errors.Is(err, core.ErrGenerationInFlight):
					fmt.Fprintln(out, display.Dim.Render("Still generating..."))
				case errors.Is(err, core.ErrInvalidTransition):
					fmt.Fprintln(out, display.Dim.Render("Not now."))
				default:
					fmt.Fprintln(out, display.Dim.Render(err.Error()))
				}
			}
		}
	}
}

func dispatch(ctrl *game.Controller, line string) error {
	switch line {
	case "p", "phishing":
		return ctrl.Guess(true)
	case "l", "legit", "legitimate":
		return ctrl.Guess(false)
	case "s", "skip":
		return ctrl.Skip()
	case "r", "retry":
		return ctrl.Retry()
	case "":
		return nil
	default:
		return fmt.Errorf("unknown input %q, %s", line, controlsHint)
	}
}

// screen prints each transition once
type screen struct {
	out             io.Writer
	shownRound      int
	shownFeedback   int
	shownGenerating int
	shownErr        error
	shownFinal      bool
	shownSave       bool
}

func (s *screen) render(snap game.Snapshot) {
	switch snap.State {
	case game.StateGenerating:
		if snap.LastError != nil && snap.LastError != s.shownErr {
			s.shownErr = snap.LastError
			display.ErrorMsg(s.out, "%v", snap.LastError)
			fmt.Fprintln(s.out, display.Dim.Render("Press r to retry or q to quit."))
			return
		}
		if snap.Generating && s.shownGenerating != len(snap.History) {
			s.shownGenerating = len(snap.History)
			fmt.Fprintln(s.out, display.Dim.Render("Generating email..."))
		}

	case game.StateAwaitingGuess:
		cur := snap.Current
		if cur.Index != s.shownRound {
			s.shownRound = cur.Index
			fmt.Fprintln(s.out)
			display.Round(s.out, snap)
			fmt.Fprintln(s.out, display.Dim.Render(controlsHint))
			return
		}
		if cur.TimeLeft <= 5 || cur.TimeLeft%10 == 0 {
			fmt.Fprintf(s.out, "  %s left\n", display.Countdown(cur.TimeLeft))
		}

	case game.StateFeedback:
		if idx := len(snap.History) - 1; idx != s.shownFeedback {
			s.shownFeedback = idx
			display.Feedback(s.out, snap)
		}

	case game.StateFinished:
		if !s.shownFinal {
			s.shownFinal = true
			fmt.Fprintln(s.out)
			display.Final(s.out, snap)
		}
		if snap.Recording || s.shownSave {
			return
		}
		s.shownSave = true
		if snap.LastError != nil {
			display.ErrorMsg(s.out, "Score could not be saved: %v", snap.LastError)
		}
	}
}

func showRecent(ctx context.Context, out io.Writer, scores *ledger.Ledger, email string) {
	recent, err := scores.Recent(ctx, email)
	if err != nil || len(recent) == 0 {
		return
	}
	fmt.Fprintln(out, display.Muted.Render("Recent scores"))
	display.History(out, recent, timeNow())
}

func init() {
	playCmd.Flags().Int("rounds", 0, "Rounds per session (default from config)")
	playCmd.Flags().Int("seconds", 0, "Seconds per round (default from config)")
	playCmd.Flags().String("email", "", "Player email used to save scores remotely")
	rootCmd.AddCommand(playCmd)
}
