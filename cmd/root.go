package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/tdnguyendev/mbwatch/internal/config"
)

var flagQuiet bool

var rootCmd = &cobra.Command{
	Use:   "mbwatch",
	Short: "MB Bank transaction monitor",
	Long:  "Watch an MB Bank account for incoming transactions and forward notifications to a Telegram group, with weather updates and daily summaries.",
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfigOrDefault loads the config file, falling back to defaults so
// read-only commands always work.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// requireNotifier builds the Telegram client from config, erroring with a
// setup hint when unconfigured.
func requireNotifierConfig(cfg config.Config) (token, groupID string, err error) {
	token = config.GetBotToken(cfg)
	groupID = config.GetGroupID(cfg)
	if token == "" || groupID == "" {
		return "", "", errors.New("telegram is not configured — run `mbwatch setup` or set TELEGRAM_BOT_TOKEN and TELEGRAM_GROUP_ID")
	}
	return token, groupID, nil
}
