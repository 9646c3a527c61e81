package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mikey/phish-trainer/internal/di"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	configFile string
	verbose    bool
	jsonLog    bool
	jsonOutput bool
	container  *dig.Container
)

// flagKeys maps command flags onto the configuration keys they override
var flagKeys = map[string]string{
	"provider": "generator.provider",
	"store":    "store.type",
	"rounds":   "game.rounds",
	"seconds":  "game.round_seconds",
	"email":    "game.user_email",
}

var rootCmd = &cobra.Command{
	Use:           "phish-trainer",
	Short:         "phish-trainer - phishing detection training game",
	Long:          "Spot the phish: classify generated emails as phishing or legitimate against the clock.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "version":
			return nil
		}

		overrides := make(map[string]interface{})
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
				overrides[key] = f.Value.String()
			}
		}

		var err error
		container, err = di.BuildContainer(di.Options{
			ConfigFile: configFile,
			Verbose:    verbose,
			JSONLog:    jsonLog,
			Overrides:  overrides,
		})
		if err != nil {
			return fmt.Errorf("failed to build dependency container: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "phish-trainer version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: search /etc/phish-trainer, ~/.phish-trainer, ./configs, .)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().String("provider", "", "Text generation provider (backend, gemini, openai, bedrock)")
	rootCmd.PersistentFlags().String("store", "", "Local score store (memory, sqlite, mysql)")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	// A missing .env is fine, API keys may come from the environment or config file
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
