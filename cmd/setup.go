package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tdnguyendev/mbwatch/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Long: "Walk through Telegram, weather and monitor settings and write them to " +
		"the config file. Bank credentials are never stored; pass them to " +
		"`mbwatch watch` on the command line.",
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := loadConfigOrDefault()

	botToken := cfg.Telegram.BotToken
	groupID := cfg.Telegram.GroupID
	weatherKey := cfg.Weather.APIKey
	coordinates := cfg.Weather.Coordinates
	display := cfg.Account.Display
	interval := cfg.Monitor.IntervalSecs
	if interval <= 0 {
		interval = 10
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Telegram bot token").
				Description("From @BotFather. Also settable via TELEGRAM_BOT_TOKEN.").
				Placeholder("123456789:AAF...").
				EchoMode(huh.EchoModePassword).
				Value(&botToken),
			huh.NewInput().
				Title("Telegram group ID").
				Description("Chat ID of the notification group, e.g. -1001234567890.").
				Value(&groupID),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Weather API key").
				Description("weatherapi.com key. Leave blank to disable weather reports.").
				EchoMode(huh.EchoModePassword).
				Value(&weatherKey),
			huh.NewInput().
				Title("Coordinates").
				Description("lat,lon for weather lookups.").
				Placeholder("21.028,105.854").
				Validate(validateCoordinates).
				Value(&coordinates),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Account display name").
				Description("Shown in transaction notifications, e.g. \"MB Bank - 6886\".").
				Value(&display),
			huh.NewSelect[int]().
				Title("Polling interval").
				Options(
					huh.NewOption("10 seconds", 10),
					huh.NewOption("30 seconds", 30),
					huh.NewOption("60 seconds", 60),
				).
				Value(&interval),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled, nothing saved")
			return nil
		}
		return err
	}

	cfg.Telegram.BotToken = strings.TrimSpace(botToken)
	cfg.Telegram.GroupID = strings.TrimSpace(groupID)
	cfg.Weather.APIKey = strings.TrimSpace(weatherKey)
	cfg.Weather.Coordinates = strings.TrimSpace(coordinates)
	cfg.Account.Display = strings.TrimSpace(display)
	cfg.Monitor.IntervalSecs = interval

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Start watching with: mbwatch watch <username> <password>")
	return nil
}

// validateCoordinates accepts blank (weather disabled) or a "lat,lon" pair.
func validateCoordinates(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return errors.New("expected lat,lon")
	}
	for _, p := range parts {
		if _, err := strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return errors.New("expected lat,lon")
		}
	}
	return nil
}
