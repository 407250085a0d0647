package weather

import "strings"

// ConditionEmoji maps a weatherapi.com condition text to a display emoji.
func ConditionEmoji(condition string) string {
	c := strings.ToLower(condition)

	switch {
	case strings.Contains(c, "sunny"), strings.Contains(c, "clear"):
		return "☀️"
	case strings.Contains(c, "partly cloudy"):
		return "⛅"
	case strings.Contains(c, "cloudy"), strings.Contains(c, "overcast"):
		return "☁️"
	case strings.Contains(c, "rain"), strings.Contains(c, "drizzle"):
		return "🌧"
	case strings.Contains(c, "thunder"), strings.Contains(c, "lightning"):
		return "⛈"
	case strings.Contains(c, "snow"):
		return "❄️"
	case strings.Contains(c, "fog"), strings.Contains(c, "mist"):
		return "🌫"
	default:
		return "🌤"
	}
}
