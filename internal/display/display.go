// Package display provides terminal formatting for phish-trainer output.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mikey/phish-trainer/internal/core"
	"github.com/mikey/phish-trainer/internal/game"
)

var (
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	Bold     = lipgloss.NewStyle().Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	ErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
	Warn     = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))

	EmailBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6b7280")).
			Padding(0, 1).
			Width(72)
)

// ScoreStyle colors a percentage by band
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return Success
	case score >= 50:
		return Warn
	default:
		return ErrStyle
	}
}

// Countdown renders the seconds left in a round
func Countdown(seconds int) string {
	label := fmt.Sprintf("%2ds", seconds)
	if seconds <= 5 {
		return ErrStyle.Render(label)
	}
	return Dim.Render(label)
}

// Email renders a training email inside a box
func Email(email *core.Email) string {
	if email == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Muted.Render("From:   "), email.From)
	fmt.Fprintf(&b, "%s %s\n\n", Muted.Render("Subject:"), Bold.Render(email.Subject))
	b.WriteString(email.Body)
	return EmailBox.Render(b.String())
}

// Round prints the header and email of the round in progress
func Round(w io.Writer, snap game.Snapshot) {
	if snap.Current == nil {
		return
	}
	fmt.Fprintf(w, "%s  %s  %s\n",
		Bold.Render(fmt.Sprintf("Round %d of %d", snap.Current.Index+1, snap.TotalRounds)),
		Dim.Render(fmt.Sprintf("score %d", snap.Correct)),
		Countdown(snap.Current.TimeLeft))
	fmt.Fprintln(w, Email(snap.Current.Email))
}

// Feedback prints the verdict shown between rounds
func Feedback(w io.Writer, snap game.Snapshot) {
	if snap.Feedback == "" {
		return
	}
	mark := Muted.Render("•")
	if snap.Current != nil && snap.Current.Correct != nil {
		if *snap.Current.Correct {
			mark = Success.Render("✓")
		} else {
			mark = ErrStyle.Render("✗")
		}
	}
	fmt.Fprintf(w, "%s %s\n", mark, snap.Feedback)
}

// Final prints the end-of-session summary
func Final(w io.Writer, snap game.Snapshot) {
	fmt.Fprintln(w, Bold.Render("Session complete"))
	fmt.Fprintf(w, "  %d of %d correct  %s\n",
		snap.Correct, snap.TotalRounds,
		ScoreStyle(snap.FinalScore).Render(fmt.Sprintf("%d%%", snap.FinalScore)))
}

// Indicators prints the weighted indicators behind a verdict
func Indicators(w io.Writer, analysis core.Analysis) {
	section := func(title string, style lipgloss.Style, list []core.Indicator) {
		if len(list) == 0 {
			return
		}
		fmt.Fprintln(w, Muted.Render(title))
		for _, ind := range list {
			fmt.Fprintf(w, "  %s %-28s %s\n", style.Render("●"), ind.Type, Dim.Render(fmt.Sprintf("weight %d", ind.Weight)))
		}
	}
	section("Threat indicators", ErrStyle, analysis.ThreatIndicators)
	section("Safety indicators", Success, analysis.SafetyIndicators)
}

// Verdict renders a classification label
func Verdict(isThreat bool) string {
	if isThreat {
		return ErrStyle.Render("PHISHING")
	}
	return Success.Render("LEGITIMATE")
}

// History prints score records newest first
func History(w io.Writer, records []core.ScoreRecord, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(w, Dim.Render("No games played yet."))
		return
	}
	for _, r := range records {
		source := "remote"
		if r.SavedLocally {
			source = "local"
		}
		fmt.Fprintf(w, "  %s  %-10s %s\n",
			ScoreStyle(r.Score).Render(fmt.Sprintf("%3d%%", r.Score)),
			TimeAgo(r.Date, now),
			Dim.Render(source))
	}
}

// TimeAgo formats t relative to now
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// SuccessMsg prints a green checkmark and message
func SuccessMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Success.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// ErrorMsg prints a red cross and message
func ErrorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, ErrStyle.Render("✗")+" "+fmt.Sprintf(format, args...))
}
