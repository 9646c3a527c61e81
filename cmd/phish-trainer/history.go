package main

import (
	"encoding/json"
	"time"

	"github.com/mikey/phish-trainer/internal/config"
	"github.com/mikey/phish-trainer/internal/core"
	"github.com/mikey/phish-trainer/internal/di"
	"github.com/mikey/phish-trainer/internal/display"
	"github.com/mikey/phish-trainer/internal/ledger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var timeNow = time.Now

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent session scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		return container.Invoke(func(
			cfg *config.Config,
			logger *zap.Logger,
			store core.KeyValueStore,
			scores *ledger.Ledger,
		) error {
			defer logger.Sync()
			defer di.Release(logger, store)

			out := cmd.OutOrStdout()
			if historyClear {
				if err := scores.Clear(cmd.Context()); err != nil {
					return err
				}
				display.SuccessMsg(out, "Local score history cleared")
				return nil
			}

			records, err := scores.LoadHistory(cmd.Context(), cfg.GetGame().UserEmail, historyLimit)
			if err != nil {
				return err
			}

			if jsonOutput {
				if records == nil {
					records = []core.ScoreRecord{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			display.History(out, records, timeNow())
			return nil
		})
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", ledger.DisplayLimit, "Maximum number of records to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the local score history")
	historyCmd.Flags().String("email", "", "Player email whose scores to show")
	rootCmd.AddCommand(historyCmd)
}
