package main

import (
	"fmt"

	"github.com/mikey/phish-trainer/internal/adapters/mailer"
	"github.com/mikey/phish-trainer/internal/core"
	"github.com/mikey/phish-trainer/internal/di"
	"github.com/mikey/phish-trainer/internal/display"
	"github.com/mikey/phish-trainer/internal/synth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sendTo   []string
	sendKind string
)

var sendCmd = &cobra.Command{
	Use:   "send-sample",
	Short: "Generate a training email and deliver it over SMTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(sendTo) == 0 {
			return fmt.Errorf("at least one --to recipient is required")
		}

		return container.Invoke(func(
			logger *zap.Logger,
			generator core.TextGenerator,
			synthesizer *synth.Synthesizer,
			m *mailer.Mailer,
		) error {
			defer logger.Sync()
			defer di.Release(logger, generator)

			ctx := cmd.Context()
			var email *core.Email
			var err error
			switch sendKind {
			case "random", "":
				email, err = synthesizer.GenerateRandom(ctx)
			default:
				email, err = synthesizer.Generate(ctx, core.PromptType(sendKind))
			}
			if err != nil {
				return err
			}

			if err := m.Send(ctx, sendTo, email); err != nil {
				return err
			}

			display.SuccessMsg(cmd.OutOrStdout(), "Sent %s sample %q to %d recipient(s)",
				mailer.Label(email), email.Subject, len(sendTo))
			return nil
		})
	},
}

func init() {
	sendCmd.Flags().StringSliceVar(&sendTo, "to", nil, "Recipient address (repeatable)")
	sendCmd.Flags().StringVar(&sendKind, "type", "random", "Email type: suspicious, legitimate or random")
	rootCmd.AddCommand(sendCmd)
}
