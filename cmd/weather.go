package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tdnguyendev/mbwatch/internal/cli"
	"github.com/tdnguyendev/mbwatch/internal/config"
	"github.com/tdnguyendev/mbwatch/internal/message"
	"github.com/tdnguyendev/mbwatch/internal/telegram"
	"github.com/tdnguyendev/mbwatch/internal/weather"
)

var flagWeatherNotify bool

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show current weather for the configured coordinates",
	Args:  cobra.NoArgs,
	RunE:  runWeather,
}

func init() {
	weatherCmd.Flags().BoolVar(&flagWeatherNotify, "notify", false, "Also send the report to the Telegram group")
	rootCmd.AddCommand(weatherCmd)
}

func runWeather(cmd *cobra.Command, _ []string) error {
	cfg := loadConfigOrDefault()

	client := weather.NewClient(config.GetWeatherAPIKey(cfg))
	coordinates := config.GetCoordinates(cfg)
	if client == nil || coordinates == "" {
		return errors.New("weather is not configured — run `mbwatch setup` or set WEATHER_API_KEY and WEATHER_COORDINATES")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	obs, err := client.Current(ctx, coordinates)
	if err != nil {
		return fmt.Errorf("fetching weather: %w", err)
	}

	fmt.Println(cli.RenderTable(cli.Table{
		Title: "Current weather",
		Rows: [][]string{
			{"Location", obs.Location.Name + ", " + obs.Location.Country},
			{"Condition", weather.ConditionEmoji(obs.Current.Condition.Text) + " " + obs.Current.Condition.Text},
			{"Temperature", fmt.Sprintf("%.1f°C", obs.Current.TempC)},
			{"Feels like", fmt.Sprintf("%.1f°C", obs.Current.FeelsLikeC)},
			{"Updated", obs.Current.LastUpdated},
		},
	}))

	if flagWeatherNotify {
		token, groupID, err := requireNotifierConfig(cfg)
		if err != nil {
			return err
		}
		if err := telegram.NewClient(token, groupID).SendMessage(ctx, message.Weather(obs, 0)); err != nil {
			return fmt.Errorf("sending weather report: %w", err)
		}
		if !flagQuiet {
			fmt.Println("  Weather report sent to Telegram group")
		}
	}

	return nil
}
