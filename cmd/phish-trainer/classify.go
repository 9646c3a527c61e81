package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mikey/phish-trainer/internal/adapters/mailer"
	"github.com/mikey/phish-trainer/internal/core"
	"github.com/mikey/phish-trainer/internal/display"
	"github.com/mikey/phish-trainer/internal/indicators"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var classifyFile string

type classifyOutput struct {
	From     string        `json:"from"`
	Subject  string        `json:"subject"`
	IsThreat bool          `json:"isThreat"`
	Label    string        `json:"label,omitempty"`
	Analysis core.Analysis `json:"analysis"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Run the indicator rules over an RFC 5322 email",
	Long:  "Reads an email from --file or stdin and reports the threat and safety indicators it matches.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return container.Invoke(func(logger *zap.Logger, evaluator *indicators.Evaluator) error {
			defer logger.Sync()

			var in io.Reader = cmd.InOrStdin()
			if classifyFile != "" {
				f, err := os.Open(classifyFile)
				if err != nil {
					return fmt.Errorf("failed to open input file: %w", err)
				}
				defer f.Close()
				in = f
			}

			msg, err := mailer.ParseMessage(in)
			if err != nil {
				return err
			}
			analysis := evaluator.Evaluate(msg.Body, msg.Subject, msg.From)
			isThreat := indicators.IsThreat(analysis)

			logger.Debug("Classified email",
				zap.String("from", msg.From),
				zap.Bool("is_threat", isThreat),
				zap.Int("threat_weight", indicators.Weight(analysis.ThreatIndicators)),
				zap.Int("safety_weight", indicators.Weight(analysis.SafetyIndicators)))

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(classifyOutput{
					From:     msg.From,
					Subject:  msg.Subject,
					IsThreat: isThreat,
					Label:    msg.Label,
					Analysis: analysis,
				})
			}

			fmt.Fprintf(out, "%s  %s\n", display.Verdict(isThreat), display.Bold.Render(msg.Subject))
			fmt.Fprintf(out, "%s %s\n", display.Muted.Render("From:"), msg.From)
			if msg.Label != "" {
				expected := msg.Label == mailer.LabelThreat
				agreement := display.Success.Render("matches")
				if expected != isThreat {
					agreement = display.ErrStyle.Render("differs")
				}
				fmt.Fprintf(out, "%s %s (%s)\n", display.Muted.Render("Label:"), msg.Label, agreement)
			}
			display.Indicators(out, analysis)
			return nil
		})
	},
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyFile, "file", "f", "", "Input email file (stdin if not specified)")
	rootCmd.AddCommand(classifyCmd)
}
